package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the collection and the remote store.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, cfg, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		id := args[0]
		if !deleteYes {
			fmt.Printf("%s\n%s [y/N]: ", tr(cfg, "deleteConfirmTitle"), tr(cfg, "deleteConfirmDescription"))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				fmt.Println(tr(cfg, "cancel"))
				return
			}
		}

		if err := engine.Delete(ctx, id); err != nil {
			fatal("Error deleting note", err)
		}

		fmt.Printf("Note deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
