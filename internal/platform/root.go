package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ProjectDir is the directory marking a project-local notesync setup.
const ProjectDir = ".notesync"

// ErrNoRoot is returned by FindRoot when no directory up to the filesystem
// root carries a marker.
var ErrNoRoot = errors.New("no .notesync directory or .env file found")

// rootMarkers are checked in order in each directory. A .notesync entry
// counts only as a directory and a .env entry only as a regular file.
var rootMarkers = []struct {
	name  string
	isDir bool
}{
	{ProjectDir, true},
	{".env", false},
}

// FindRoot walks from startDir towards the filesystem root and returns the
// first directory holding a notesync marker. The CLI reads its .env from there.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if isRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

func isRoot(dir string) bool {
	for _, m := range rootMarkers {
		info, err := os.Stat(filepath.Join(dir, m.name))
		if err == nil && info.IsDir() == m.isDir {
			return true
		}
	}
	return false
}
