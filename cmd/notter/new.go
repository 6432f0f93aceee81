package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notterhq/notter"
	"github.com/notterhq/notter/pkg/core"
)

var (
	newTitle   string
	newContent string
	newTags    []string
	newColor   string
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long:  `Create a note with the given title, content, tags and color.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		draft := notter.NoteDraft{
			Title:   newTitle,
			Content: newContent,
			Color:   newColor,
		}
		for _, name := range newTags {
			name = strings.TrimSpace(name)
			if name != "" {
				draft.Tags = append(draft.Tags, core.Tag{Name: name})
			}
		}

		note, err := engine.Create(ctx, draft)
		if err != nil {
			// The note was still created locally; report both facts.
			fmt.Printf("Note created locally: %s (not yet persisted: %v)\n", note.ID, err)
			return
		}

		fmt.Printf("Note created: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", "", "Note title")
	newCmd.Flags().StringVar(&newContent, "content", "", "Note content (markdown)")
	newCmd.Flags().StringSliceVar(&newTags, "tag", nil, "Tag names (repeatable)")
	newCmd.Flags().StringVar(&newColor, "color", "", "Color id (default, red, green, blue, purple)")
}
