package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		counts := make(map[string]int)
		ids := make(map[string]string)
		for _, note := range engine.Notes() {
			for _, tag := range note.Tags {
				counts[tag.Name]++
				ids[tag.Name] = tag.ID
			}
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%s  %s (%d)\n", ids[name], name, counts[name])
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
