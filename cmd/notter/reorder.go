package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder [id...]",
	Short: "Reorder notes",
	Long: `Reorder assigns positions 0..N-1 following the given id order.
Notes not listed keep their relative order after the listed ones.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		if err := engine.Reorder(ctx, args); err != nil {
			fatal("Error reordering notes", err)
		}

		for _, note := range engine.Notes() {
			fmt.Printf("%d  %s  %s\n", note.Position, note.ID, note.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(reorderCmd)
}
