package credential

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// ErrWatchUnsupported is returned when the backing filesystem cannot be observed.
var ErrWatchUnsupported = errors.New("credential store does not support watching")

// Watch observes the credential file and signals after every change to it
// (login, logout, token refresh by another process). Bursts of writes are
// coalesced into one pending signal. The channel is closed when ctx is done.
//
// Only stores backed by the OS filesystem can be watched.
func (s *FileStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return nil, ErrWatchUnsupported
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Atomic writes replace the file, so the directory is watched rather than the file.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	var once sync.Once
	finish := func() {
		once.Do(func() {
			_ = watcher.Close()
			close(out)
		})
	}

	target := filepath.Base(s.path)
	s.logger.Debug("watching credential file", "path", s.path)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer finish()
		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				s.logger.Debug("credential file changed", "op", event.Op.String())
				select {
				case out <- struct{}{}:
				default: // a signal is already pending
				}

			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("credential watcher error", "error", werr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("credential watcher panic", "error", err)
		finish()
	}))

	return out, nil
}
