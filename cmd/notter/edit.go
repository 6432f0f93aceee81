package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notterhq/notter/pkg/core"
)

var (
	editTitle   string
	editContent string
	editColor   string
	editTags    []string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a note",
	Long:  `Update the given fields of a note. Flags that are not set leave the field untouched; --tag replaces the whole tag set.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		var fields core.NoteFields
		if cmd.Flags().Changed("title") {
			fields.Title = &editTitle
		}
		if cmd.Flags().Changed("content") {
			fields.Content = &editContent
		}
		if cmd.Flags().Changed("color") {
			fields.Color = &editColor
		}
		if cmd.Flags().Changed("tag") {
			tags := make([]core.Tag, 0, len(editTags))
			for _, name := range editTags {
				name = strings.TrimSpace(name)
				if name != "" {
					tags = append(tags, core.Tag{Name: name})
				}
			}
			fields.Tags = &tags
		}

		note, err := engine.Update(ctx, args[0], fields)
		if err != nil {
			fatal("Error updating note", err)
		}

		fmt.Printf("Note updated: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content (markdown)")
	editCmd.Flags().StringVar(&editColor, "color", "", "New color id")
	editCmd.Flags().StringSliceVar(&editTags, "tag", nil, "Replacement tag names (repeatable)")
}
