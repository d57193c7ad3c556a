package notesync_test

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"

	"github.com/aretw0/notesync"
	"github.com/aretw0/notesync/internal/fakeapi"
	"github.com/aretw0/notesync/pkg/credential"
)

// Example_basic connects to a notes API, adds a note, edits it and removes it.
func Example_basic() {
	// An in-memory notes API stands in for the real backend.
	api := fakeapi.New(fakeapi.Config{})
	srv := httptest.NewServer(api)
	defer srv.Close()

	userID, err := api.AddUser("gopher@example.test", "secret")
	if err != nil {
		log.Fatal(err)
	}
	token, err := api.IssueToken(userID)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	store, err := notesync.New(ctx, srv.URL+"/api/notes",
		notesync.WithCredentials(credential.Static(token)),
		notesync.WithAutoConnect(true),
	)
	if err != nil {
		log.Fatal(err)
	}

	// 1. Add a note
	if err := store.Add(ctx, notesync.Draft{Title: "Groceries", Description: "milk", Tag: "home"}); err != nil {
		log.Fatal(err)
	}
	note := store.Notes()[0]
	fmt.Printf("added: %s [%s]\n", note.Title, note.Tag)

	// 2. Edit it
	if err := store.Edit(ctx, "Groceries", "milk and eggs", "home/weekly", note.ID); err != nil {
		log.Fatal(err)
	}
	edited, _ := store.Find(note.ID)
	fmt.Printf("edited: %s [%s]\n", edited.Description, edited.Tag)

	// 3. Remove it
	if err := store.Remove(ctx, note.ID); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("remaining: %d\n", store.Len())
	// Output:
	// added: Groceries [home]
	// edited: milk and eggs [home/weekly]
	// remaining: 0
}

// Example_subscribe shows change notifications.
func Example_subscribe() {
	api := fakeapi.New(fakeapi.Config{})
	srv := httptest.NewServer(api)
	defer srv.Close()

	userID, _ := api.AddUser("gopher@example.test", "secret")
	token, _ := api.IssueToken(userID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := notesync.New(ctx, srv.URL+"/api/notes", notesync.WithCredentials(credential.Static(token)))
	if err != nil {
		log.Fatal(err)
	}
	events := store.Subscribe(ctx)

	_ = store.List(ctx)
	_ = store.Add(ctx, notesync.Draft{Title: "first"})

	fmt.Println((<-events).Type)
	fmt.Println((<-events).Type)
	// Output:
	// REPLACE
	// CREATE
}
