package utils

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

// RemoveArtifact deletes a transfer directory and everything inside it.
// A missing path is not an error.
func RemoveArtifact(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// CleanupStale removes leftover transfer directories under root, e.g. after
// a crash. It stops early when ctx is done and returns the number removed.
func CleanupStale(ctx context.Context, root string) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read download directory", "dir", root, "error", err)
		}
		return 0
	}

	cleaned := 0
	for _, e := range entries {
		select {
		case <-ctx.Done():
			logger.Warn("Stale cleanup interrupted", "cleaned", cleaned)
			return cleaned
		default:
		}

		path := filepath.Join(root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to remove stale artifact", "path", path, "error", err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		logger.Info("Removed stale artifacts", "dir", root, "count", cleaned)
	}
	return cleaned
}
