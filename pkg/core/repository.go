package core

import "context"

// Remote defines the contract of the server that owns the notes.
// Adhering to this interface keeps the Store independent of the transport
// (REST over HTTP, an in-process fake, a recorded fixture).
type Remote interface {
	// List returns every note visible to the current credential, in server order.
	List(ctx context.Context) ([]Note, error)

	// Create submits a draft and returns the note as stored by the server.
	Create(ctx context.Context, d Draft) (Note, error)

	// Delete removes a note by its ID.
	Delete(ctx context.Context, id string) error

	// Update replaces the mutable fields of a note.
	Update(ctx context.Context, id string, d Draft) error
}

// CredentialSource yields the bearer token to attach to a request.
// Implementations must not cache: the token is read at call time.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func(ctx context.Context) (string, error)

// Token implements CredentialSource.
func (f CredentialFunc) Token(ctx context.Context) (string, error) { return f(ctx) }
