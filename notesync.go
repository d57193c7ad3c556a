package notesync

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/aretw0/notesync/internal/platform"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/credential"
)

// --- Types ---

// Store is the in-memory mirror of the server's notes.
type Store = core.Store

// Note is a note as held by the store.
type Note = core.Note

// Draft is the payload for creating or editing a note.
type Draft = core.Draft

// Event is a change notification delivered to subscribers.
type Event = core.Event

// Config is the environment-derived client configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// WithLogger sets the logger for the store and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRemote allows injecting a custom remote in place of the REST client.
func WithRemote(remote core.Remote) Option {
	return platform.WithRemote(remote)
}

// WithCredentials sets the source of the auth token.
func WithCredentials(src core.CredentialSource) Option {
	return platform.WithCredentials(src)
}

// WithTokenFile sets the path of the credential file.
func WithTokenFile(path string) Option {
	return platform.WithTokenFile(path)
}

// WithFs sets the filesystem backing the credential file.
func WithFs(fs afero.Fs) Option {
	return platform.WithFs(fs)
}

// WithHTTPClient overrides the HTTP client used by the REST remote.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithTimeout sets a per-request timeout.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithUserAgent sets the User-Agent header of requests.
func WithUserAgent(ua string) Option {
	return platform.WithUserAgent(ua)
}

// WithEventBuffer allows specifying the size of each subscriber's buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly rejects Add, Remove and Edit with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithAutoConnect makes New perform the initial fetch.
func WithAutoConnect(enabled bool) Option {
	return platform.WithAutoConnect(enabled)
}

// WithDevSafety controls the credential file sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a note store talking to endpoint (e.g. http://localhost:3002/api/notes).
func New(ctx context.Context, endpoint string, opts ...Option) (*core.Store, error) {
	return platform.New(ctx, endpoint, opts...)
}

// LoadConfig reads NOTES_* settings from the given dotenv files and the environment.
func LoadConfig(files ...string) (Config, error) {
	return platform.LoadConfig(files...)
}

// OpenCredentials opens the credential file selected by opts.
func OpenCredentials(opts ...Option) *credential.FileStore {
	return platform.NewCredentialStore(opts...)
}

// RefreshOnChange re-fetches the collection on every signal from changes.
func RefreshOnChange(ctx context.Context, store *core.Store, changes <-chan struct{}) error {
	return platform.RefreshOnChange(ctx, store, changes)
}

// --- Safety & Utils ---

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindProjectRoot recursively looks upwards for a .notesync directory or .env file.
func FindProjectRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
