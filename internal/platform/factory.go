package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/aretw0/notesync/pkg/adapters/rest"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/credential"
)

// New assembles a note store for the given endpoint.
//
//	store, err := platform.New(ctx, "http://localhost:3002/api/notes", platform.WithAutoConnect(true))
//
// An empty endpoint means the default host and path. When WithAutoConnect is
// set the initial fetch runs before New returns and its error is returned.
func New(ctx context.Context, endpoint string, opts ...Option) (*core.Store, error) {
	o := parseOptions(opts)

	remote := o.remote
	if remote == nil {
		creds := o.credentials
		if creds == nil {
			creds = newFileStore(o)
		}
		timeout, _ := o.config["timeout"].(time.Duration)
		userAgent, _ := o.config["user_agent"].(string)
		remote = rest.NewClient(rest.Config{
			Endpoint:    endpoint,
			Credentials: creds,
			HTTPClient:  o.httpClient,
			Timeout:     timeout,
			Logger:      o.logger,
			UserAgent:   userAgent,
		})
	}

	eventBuffer, _ := o.config["event_buffer"].(int)
	readOnly, _ := o.config["read_only"].(bool)
	store := core.NewStore(remote, core.StoreConfig{
		Logger:      o.logger,
		EventBuffer: eventBuffer,
		ReadOnly:    readOnly,
	})

	if autoConnect, _ := o.config["auto_connect"].(bool); autoConnect {
		if err := store.Connect(ctx); err != nil {
			return store, fmt.Errorf("initial fetch failed: %w", err)
		}
	}
	return store, nil
}

// NewCredentialStore opens the credential file selected by the options,
// applying the dev safety rules.
func NewCredentialStore(opts ...Option) *credential.FileStore {
	return newFileStore(parseOptions(opts))
}

func newFileStore(o *options) *credential.FileStore {
	path, _ := o.config["token_file"].(string)
	if path == "" {
		path = DefaultTokenPath()
	}

	isReadOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	bypassSafety := isReadOnly || !devSafety
	resolved := ResolveTokenPath(path, IsDevRun() && !bypassSafety)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			o.logger.Warn("using real credential file (bypassing dev sandbox)", "path", resolved)
		} else {
			o.logger.Debug("using sandboxed credential file", "path", resolved)
		}
	}

	fsys := o.fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return credential.NewFileStore(credential.Config{
		Fs:     fsys,
		Path:   resolved,
		Logger: o.logger,
	})
}

// RefreshOnChange re-fetches the collection every time changes signals,
// typically fed by credential.FileStore.Watch so that logging in or out
// reloads the notes. It returns when ctx is done or changes is closed.
// Fetch failures are logged by the store and do not stop the loop.
func RefreshOnChange(ctx context.Context, store *core.Store, changes <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			_ = store.List(ctx)
		}
	}
}
