package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync/pkg/core"
)

var (
	listJSON  bool
	filterTag string
	showState bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, _ := openStore(context.Background(), true)

		if showState {
			printJSON(store.State())
			return
		}

		notes := store.Notes()
		if filterTag != "" {
			filtered, err := store.Filter(filterTag)
			if err != nil {
				fatal("Invalid tag pattern", err)
			}
			notes = filtered
		}
		if notes == nil {
			notes = []core.Note{}
		}

		if listJSON {
			printJSON(notes)
			return
		}

		for _, note := range notes {
			fmt.Printf("%s  %-12s %s\n", note.ID, "["+note.Tag+"]", note.Title)
		}
	},
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag glob (e.g. work/**)")
	listCmd.Flags().BoolVar(&showState, "state", false, "Print the store state instead of the notes")
}
