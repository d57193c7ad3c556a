package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHost, EnvAPIPath, EnvTokenFile, EnvTimeout, EnvToken} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3002/api/notes", cfg.Endpoint())
	assert.Equal(t, DefaultTokenPath(), cfg.TokenFile)
	assert.Empty(t, cfg.Token)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadConfig_DotenvAndEnvPrecedence(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "NOTES_HOST=http://notes.internal:8080/\nNOTES_API_PATH=/v2/notes/\nNOTES_TIMEOUT=5s\nNOTES_TOKEN=from-file\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://notes.internal:8080/v2/notes", cfg.Endpoint())
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "from-file", cfg.Token)

	t.Setenv(EnvToken, "from-env")
	cfg, err = LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)

	_, ok := os.LookupEnv("NOTES_API_PATH")
	assert.True(t, ok)
	assert.Empty(t, os.Getenv("NOTES_API_PATH"), "dotenv values must not leak into the process env")
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "soon")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, EnvTimeout)
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{TokenFile: "/tmp/creds.yaml", Token: "abc", Timeout: time.Second}
	o := parseOptions(cfg.Options())

	assert.Equal(t, "/tmp/creds.yaml", o.config["token_file"])
	assert.Equal(t, time.Second, o.config["timeout"])
	require.NotNil(t, o.credentials)
}

func TestResolveTokenPath(t *testing.T) {
	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, "notesync-dev")

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		expected  string
	}{
		{name: "Normal Mode", userPath: "/home/u/.config/notesync/credentials.yaml", forceTemp: false, expected: "/home/u/.config/notesync/credentials.yaml"},
		{name: "Dev Mode - Real Path", userPath: "/home/u/.config/notesync/credentials.yaml", forceTemp: true, expected: filepath.Join(devBase, "credentials.yaml")},
		{name: "Dev Mode - Empty Path", userPath: "", forceTemp: true, expected: filepath.Join(devBase, DefaultTokenFileName)},
		{name: "Dev Mode - Traversal", userPath: "../../etc/token.yaml", forceTemp: true, expected: filepath.Join(devBase, "token.yaml")},
		{name: "Dev Mode - Exception for Temp Dir", userPath: filepath.Join(tempRoot, "t1", "c.yaml"), forceTemp: true, expected: filepath.Join(tempRoot, "t1", "c.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTokenPath(tt.userPath, tt.forceTemp)
			if got != tt.expected {
				t.Errorf("ResolveTokenPath(%q, %v) = %q; want %q", tt.userPath, tt.forceTemp, got, tt.expected)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	// This test runs inside "go test", so IsDevRun() MUST return true.
	if !IsDevRun() {
		t.Errorf("IsDevRun() = false; want true inside go test")
	}
}
