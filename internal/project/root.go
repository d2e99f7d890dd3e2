package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the project file of a cbot workspace.
const ManifestName = "cbot.toml"

// FindManifest looks for cbot.toml in startDir and its parents. ok is
// false when the filesystem root is reached without one.
func FindManifest(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		path = filepath.Join(dir, ManifestName)
		switch _, err := os.Stat(path); {
		case err == nil:
			return path, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat %q: %w", path, err)
		}
	}
	return "", false, nil
}
