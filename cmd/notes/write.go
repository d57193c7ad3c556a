package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesync/pkg/core"
)

var (
	noteDescription string
	noteTag         string
	noteTitle       string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a note on the server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, false)

		before := store.Len()
		draft := core.Draft{Title: args[0], Description: noteDescription, Tag: noteTag}
		if err := store.Add(ctx, draft); err != nil {
			fatal("Error adding note", err)
		}

		notes := store.Notes()
		if len(notes) > before {
			created := notes[len(notes)-1]
			fmt.Printf("Note added: %s\n", created.ID)
		}
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a note on the server",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, false)

		if err := store.Remove(ctx, args[0]); err != nil {
			fatal("Error removing note", err)
		}
		fmt.Printf("Note removed: %s\n", args[0])
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace title, description and tag of a note",
	Long: `Replace title, description and tag of a note.
Fields whose flag is not given keep their current value. When the note is
not in the fetched list, all three flags are required.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, _ := openStore(ctx, false)
		id := args[0]

		current, ok := store.Find(id)
		if !ok && !allChanged(cmd, "title", "description", "tag") {
			fatal("Error editing note", fmt.Errorf("note %s not found locally; pass --title, --description and --tag", id))
		}
		title, description, tag := current.Title, current.Description, current.Tag
		if cmd.Flags().Changed("title") {
			title = noteTitle
		}
		if cmd.Flags().Changed("description") {
			description = noteDescription
		}
		if cmd.Flags().Changed("tag") {
			tag = noteTag
		}

		if err := store.Edit(ctx, title, description, tag, id); err != nil {
			fatal("Error editing note", err)
		}
		fmt.Printf("Note updated: %s\n", id)
	},
}

func allChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			return false
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(editCmd)

	addCmd.Flags().StringVarP(&noteDescription, "description", "d", "", "Note description")
	addCmd.Flags().StringVarP(&noteTag, "tag", "t", "", "Note tag")

	editCmd.Flags().StringVar(&noteTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&noteDescription, "description", "d", "", "New description")
	editCmd.Flags().StringVarP(&noteTag, "tag", "t", "", "New tag")
}
