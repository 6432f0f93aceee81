package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notterhq/notter/pkg/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a note as markdown or HTML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		engine, _, err := newEngine(ctx)
		if err != nil {
			fatal("Error initializing notter", err)
		}
		defer engine.Close()

		note, ok := engine.Note(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "note not found: %s\n", args[0])
			os.Exit(1)
		}

		var data []byte
		switch exportFormat {
		case "md", "markdown":
			data = export.Markdown(note)
		case "html":
			data, err = export.Document(note)
			if err != nil {
				fatal("Error rendering note", err)
			}
		default:
			fmt.Fprintf(os.Stderr, "unknown format %q (want md or html)\n", exportFormat)
			os.Exit(1)
		}

		if exportOut == "" || exportOut == "-" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			fatal("Error writing export", err)
		}
		fmt.Printf("Exported %s to %s\n", note.ID, exportOut)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: md or html")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
