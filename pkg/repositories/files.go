package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// writeFileAtomic replaces dir/name with data. The content is written to a
// temp file in the same directory and renamed into place, so readers see
// either the old file or the new one.
func writeFileAtomic(dir, name string, data []byte, logger *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		// Already renamed on success.
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove temp file", zap.String("path", tmpName), zap.Error(err))
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", name, err)
	}

	return nil
}

// removeIfExists deletes path and reports whether a file was removed.
func removeIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
