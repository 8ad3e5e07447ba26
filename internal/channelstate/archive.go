package channelstate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive moves the database at path into a timestamped file of the
// sibling "archive" directory and returns the new location. The next Open
// starts with no channels enabled.
func Archive(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("state database does not exist: %s", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ext := filepath.Ext(path)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405"), ext))
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, time.Now().Format("20060102-150405.000000"), ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive state database: %w", err)
	}

	return archivePath, nil
}
