package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/aretw0/notesync/pkg/core"
)

// options holds the internal configuration for the note store.
type options struct {
	remote      core.Remote
	credentials core.CredentialSource
	logger      *slog.Logger
	fs          afero.Fs
	httpClient  *http.Client
	config      map[string]interface{}
}

// Option defines a functional option for configuring the note store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		remote:      nil,
		credentials: nil,
		logger:      nil,
		fs:          nil,
		httpClient:  nil,
		config:      make(map[string]interface{}),
	}
}

func parseOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the store and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRemote allows injecting a custom remote (e.g. mock, another transport).
// If provided, the default REST client is skipped and endpoint is ignored.
func WithRemote(remote core.Remote) Option {
	return func(o *options) {
		o.remote = remote
	}
}

// WithCredentials sets the source of the auth token.
// If not set, the token is read from the credential file (see WithTokenFile).
func WithCredentials(src core.CredentialSource) Option {
	return func(o *options) {
		o.credentials = src
	}
}

// WithTokenFile sets the path of the YAML credential file.
// Defaults to <user config dir>/notesync/credentials.yaml.
func WithTokenFile(path string) Option {
	return func(o *options) {
		o.config["token_file"] = path
	}
}

// WithFs sets the filesystem backing the credential file.
// Defaults to the OS filesystem. Watching only works on the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithHTTPClient overrides the HTTP client used by the REST remote.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout sets a per-request timeout on the REST remote.
// Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["timeout"] = d
	}
}

// WithUserAgent sets the User-Agent header sent by the REST remote.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.config["user_agent"] = ua
	}
}

// WithEventBuffer allows specifying the size of each subscriber's buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Add, Remove and Edit return ErrReadOnly without contacting the server.
// 2. Dev Safety Lock (go run temp dir) is BYPASSED for the credential file.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithAutoConnect makes New perform the initial List before returning.
func WithAutoConnect(enabled bool) Option {
	return func(o *options) {
		o.config["auto_connect"] = enabled
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via `go run`.
// By default (true), the credential file is re-rooted into a temporary directory
// so development runs never overwrite the real login.
// Setting this to false uses the real credential file even during `go run`.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
