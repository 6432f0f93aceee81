package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notterhq/notter/pkg/core"
)

var (
	listJSON   bool
	listSearch string
	listFilter string
	listTag    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, cfg, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		engine.SetSearchQuery(listSearch)
		switch listFilter {
		case "":
			engine.SetFilter(core.FilterNone)
		case "favorites":
			engine.SetFilter(core.FilterFavorites)
		case "archived":
			engine.SetFilter(core.FilterArchived)
		default:
			fmt.Fprintf(os.Stderr, "unknown filter %q (want favorites or archived)\n", listFilter)
			os.Exit(1)
		}
		engine.SetActiveTag(resolveTagID(engine, listTag))

		notes := engine.VisibleNotes()

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(notes) == 0 {
			fmt.Println(tr(cfg, "noNotes"))
			return
		}
		for _, note := range notes {
			marker := " "
			if note.IsFavorite {
				marker = "*"
			}
			fmt.Printf("%s %s  %s\n", marker, note.ID, note.Title)
		}
	},
}

// resolveTagID accepts a tag name or id and returns the matching tag id.
func resolveTagID(engine interface{ Notes() []core.Note }, tag string) string {
	if tag == "" {
		return ""
	}
	for _, n := range engine.Notes() {
		for _, t := range n.Tags {
			if t.ID == tag || t.Name == tag {
				return t.ID
			}
		}
	}
	return tag
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by substring in title or content")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Show only favorites or archived")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter notes by tag name or id")
}
