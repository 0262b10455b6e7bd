package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// saveDot writes contents to dir/name atomically: a temp file in the
// same directory, synced and renamed into place, so a crash mid-write
// never leaves a truncated DOT file behind.
func saveDot(dir, name, contents string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll: %w", err)
	}
	path := filepath.Join(dir, name)

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return "", fmt.Errorf("renameio.NewPendingFile: %w", err)
	}
	defer pf.Cleanup()

	if _, err := pf.Write([]byte(contents)); err != nil {
		return "", fmt.Errorf("PendingFile.Write: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("PendingFile.CloseAtomicallyReplace: %w", err)
	}
	return path, nil
}
