// Package notesync is the Composition Root of the notes client.
//
// It connects the core synchronization logic (Domain Layer) with the
// infrastructure adapters (REST transport, credential file) using the
// Hexagonal Architecture pattern.
//
// Philosophy:
//
// The server is the authority. The Store is a cached, non-authoritative view
// of it: every change goes to the server first and is applied locally only
// after the server accepted it. Nothing is retried and nothing is merged.
//
// Features:
//
//   - **Hexagonal Architecture**: `core.Store` only knows the `core.Remote` port.
//   - **Observable**: `Subscribe` delivers one event per applied change.
//   - **Fresh Credentials**: the auth token is read from the credential file on every request.
//   - **Tolerant Decoding**: lists may be a bare array or a `{"data": [...]}` envelope; `_id` is accepted.
//   - **Explicit Errors**: operations return typed errors and still log diagnostics.
//
// Usage:
//
//	store, err := notesync.New(ctx, "http://localhost:3002/api/notes",
//		notesync.WithAutoConnect(true),
//		notesync.WithLogger(logger),
//	)
//
//	err = store.Add(ctx, notesync.Draft{Title: "Groceries", Description: "milk", Tag: "home"})
package notesync
