package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aretw0/notesync/pkg/adapters/rest"
	"github.com/aretw0/notesync/pkg/credential"
)

// Environment variables understood by LoadConfig.
const (
	EnvHost      = "NOTES_HOST"
	EnvAPIPath   = "NOTES_API_PATH"
	EnvTokenFile = "NOTES_TOKEN_FILE"
	EnvTimeout   = "NOTES_TIMEOUT"
	EnvToken     = "NOTES_TOKEN"
)

// DefaultTokenFileName is the base name of the credential file.
const DefaultTokenFileName = "credentials.yaml"

// Config is the environment-derived configuration of a client.
type Config struct {
	Host      string
	APIPath   string
	TokenFile string
	Token     string // overrides the credential file when set
	Timeout   time.Duration
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Host:      rest.DefaultHost,
		APIPath:   rest.DefaultPath,
		TokenFile: DefaultTokenPath(),
	}
}

// DefaultTokenPath returns <user config dir>/notesync/credentials.yaml,
// falling back to the working directory when the config dir is unknown.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".notesync", DefaultTokenFileName)
	}
	return filepath.Join(dir, "notesync", DefaultTokenFileName)
}

// LoadConfig builds a Config from defaults, the given dotenv files and the
// process environment, in increasing order of precedence.
// Missing dotenv files are skipped. With no files, ".env" is tried.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	values := map[string]string{}
	for _, file := range files {
		read, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range read {
			values[k] = v
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return values[key]
	}

	cfg := DefaultConfig()
	if v := lookup(EnvHost); v != "" {
		cfg.Host = v
	}
	if v := lookup(EnvAPIPath); v != "" {
		cfg.APIPath = v
	}
	if v := lookup(EnvTokenFile); v != "" {
		cfg.TokenFile = v
	}
	cfg.Token = lookup(EnvToken)
	if v := lookup(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// Endpoint joins host and API path into the collection URL.
func (c Config) Endpoint() string {
	host := strings.TrimRight(c.Host, "/")
	path := strings.Trim(c.APIPath, "/")
	if path == "" {
		return host
	}
	return host + "/" + path
}

// Options translates the configuration into factory options.
func (c Config) Options() []Option {
	opts := []Option{WithTimeout(c.Timeout)}
	if c.TokenFile != "" {
		opts = append(opts, WithTokenFile(c.TokenFile))
	}
	if c.Token != "" {
		opts = append(opts, WithCredentials(credential.Static(c.Token)))
	}
	return opts
}
