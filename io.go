// FILE: lixenwraith/tomlcfg/io.go
package tomlcfg

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteResult reports what WriteGenerated did.
type WriteResult int

const (
	// WriteUnchanged means the file already held the same content and was not touched
	WriteUnchanged WriteResult = iota
	// WriteCreated means the file did not exist before
	WriteCreated
	// WriteUpdated means existing content was replaced
	WriteUpdated
)

func (r WriteResult) String() string {
	switch r {
	case WriteCreated:
		return "created"
	case WriteUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// WriteGenerated atomically writes generated source to path.
// Identical content is left alone so the file's modification time, and with it
// the build cache, is not disturbed.
func WriteGenerated(path string, data []byte) (WriteResult, error) {
	current, err := os.ReadFile(path)
	existed := err == nil
	switch {
	case existed:
		if bytes.Equal(current, data) {
			return WriteUnchanged, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return WriteUnchanged, fmt.Errorf("failed to read existing file '%s': %w", path, err)
	}

	if err := atomicWriteFile(path, data); err != nil {
		return WriteUnchanged, err
	}
	if !existed {
		return WriteCreated, nil
	}
	return WriteUpdated, nil
}

// CheckGenerated reports whether the file at path holds exactly data.
// A missing file is reported as stale, not as an error.
func CheckGenerated(path string, data []byte) (bool, error) {
	current, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read generated file '%s': %w", path, err)
	}
	return bytes.Equal(current, data), nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
