package filepaths

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes a file by streaming to a temp file in the destination directory
// and renaming it over path once write has succeeded.
// On failure the existing file at path, if any, is left untouched.
func WriteFileAtomic(path string, write func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("could not create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	writeErr := write(tmp)
	var size int64
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if writeErr == nil {
		if info, statErr := tmp.Stat(); statErr == nil {
			size = info.Size()
		}
	}
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	// CreateTemp uses 0600
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return size, nil
}
