package credential

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = ".notesync-tmp-"

	filePerm = 0600
	dirPerm  = 0700
)

// Config holds the configuration for a FileStore.
type Config struct {
	Fs     afero.Fs // defaults to the OS filesystem
	Path   string   // e.g. ~/.config/notesync/credentials.yaml
	Logger *slog.Logger
}

// FileStore is a persisted key-value store backed by a single YAML file.
// It is the process-wide home of the bearer token (key "token").
type FileStore struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger

	mu sync.Mutex // serializes read-modify-write cycles within the process
}

// NewFileStore creates a store rooted at cfg.Path. The file is created lazily on first Set.
func NewFileStore(cfg Config) *FileStore {
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileStore{fs: fs, path: cfg.Path, logger: logger}
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string { return s.path }

// Token implements core.CredentialSource. It reads the file on every call.
// A missing file or key yields an empty token, not an error.
func (s *FileStore) Token(ctx context.Context) (string, error) {
	v, _, err := s.Get(TokenKey)
	return v, err
}

// SetToken persists the bearer token.
func (s *FileStore) SetToken(token string) error {
	return s.Set(TokenKey, token)
}

// ClearToken removes the bearer token.
func (s *FileStore) ClearToken() error {
	return s.Delete(TokenKey)
}

// Get returns the value for key and whether it was present.
func (s *FileStore) Get(key string) (string, bool, error) {
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Keys returns the keys currently stored.
func (s *FileStore) Keys() ([]string, error) {
	values, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := afero.ReadFile(s.fs, s.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	s.logger.Debug("writing credential file", "path", s.path, "keys", len(values))
	return writeFileAtomic(s.fs, s.path, data, filePerm)
}

// writeFileAtomic writes data to a temp file in the target directory and renames it into place.
func writeFileAtomic(fs afero.Fs, filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := afero.TempFile(fs, dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer fs.Remove(tmpName) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := fs.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
