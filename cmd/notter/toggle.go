package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite [id]",
	Short: "Toggle a note's favorite flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		note, err := engine.ToggleFavorite(ctx, args[0])
		if err != nil {
			fatal("Error toggling favorite", err)
		}
		fmt.Printf("Note %s: favorite=%t\n", note.ID, note.IsFavorite)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive [id]",
	Short: "Toggle a note's archived flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		note, err := engine.ToggleArchive(ctx, args[0])
		if err != nil {
			fatal("Error toggling archive", err)
		}
		fmt.Printf("Note %s: archived=%t\n", note.ID, note.IsArchived)
	},
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(archiveCmd)
}
