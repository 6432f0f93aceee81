package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refetch the collection from the remote store",
	Long: `Sync performs a full refetch from the hosted store, overwriting the
local collection and the cache with the server's current state.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		fmt.Println("Syncing...")
		if err := engine.Resync(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Sync failed: %v\n", err)
			fmt.Println("Tip: Check your network connection and the remote_url / remote_key configuration.")
			os.Exit(1)
		}

		fmt.Printf("Sync completed successfully. %d notes.\n", len(engine.Notes()))
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
