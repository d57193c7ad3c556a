package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// "go run" builds into the system temp dir.
	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	// "go test" binaries end in .test
	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveTokenPath determines the actual credential file path based on safety rules.
// When forceTemp is true the file is re-rooted into a namespaced temporary
// directory, keeping only its base name. Paths already inside the system temp
// directory are trusted as is.
func ResolveTokenPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		return userPath
	}

	tempRoot := os.TempDir()
	if userPath != "" {
		clean := filepath.Clean(userPath)
		rel, err := filepath.Rel(tempRoot, clean)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	name := filepath.Base(userPath)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = DefaultTokenFileName
	}
	return filepath.Join(tempRoot, "notesync-dev", name)
}
