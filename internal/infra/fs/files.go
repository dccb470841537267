package fs

import (
	"errors"
	"fmt"
	"os"
)

// ErrEmptyFile is returned for a file that exists with zero bytes.
var ErrEmptyFile = errors.New("file is empty")

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RequireNonEmpty returns the size of path. A zero-byte file is removed and
// reported as ErrEmptyFile.
func RequireNonEmpty(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}
	return info.Size(), nil
}
