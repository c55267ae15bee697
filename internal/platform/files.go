package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Partial-download extensions the engine leaves behind while working.
var skippedExtensions = []string{".part", ".ytdl", ".temp"}

// CreateDirectoryIfNotExists creates directory if it doesn't exist.
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// HomeDownloadsDir returns the standard Downloads directory for the user.
func HomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// FindOutputFile locates the file an acquisition produced. It first tries the
// reported path; when the engine merged streams into a different container the
// extension no longer matches, so it falls back to any sibling sharing the
// same name stem (skipping partial-download leftovers).
func FindOutputFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || isPartialFile(entry.Name()) {
			continue
		}
		name := entry.Name()
		if strings.TrimSuffix(name, filepath.Ext(name)) == stem {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s", path)
	}

	sort.Strings(candidates)
	return candidates[0], nil
}

func isPartialFile(name string) bool {
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
