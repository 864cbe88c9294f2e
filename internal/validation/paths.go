package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading tilde and cleans the result. Null bytes and
// bare tildes are rejected before anything touches the filesystem.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null bytes")
	}

	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	return filepath.Clean(path), nil
}

// EnsureDirectory expands a directory path and creates it when missing.
// A path that exists but is not a directory is an error.
func EnsureDirectory(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(expanded)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("path exists but is not a directory: %s", expanded)
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(expanded, 0o755); mkErr != nil {
			return "", fmt.Errorf("failed to create directory: %w", mkErr)
		}
	default:
		return "", fmt.Errorf("checking directory: %w", err)
	}

	return expanded, nil
}

// SaveDirPath resolves the directory result files are written to. An empty
// path means the current directory.
func SaveDirPath(userPath string) (string, error) {
	if userPath == "" {
		userPath = "."
	}
	return EnsureDirectory(userPath)
}

// DBPath resolves the history database location, defaulting to
// ~/.gsearch/history.db. The parent directory is created if needed.
func DBPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".gsearch", "history.db")
	}

	expanded, err := ExpandPath(userPath)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(expanded); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", expanded)
	}
	if _, err := EnsureDirectory(filepath.Dir(expanded)); err != nil {
		return "", err
	}
	return expanded, nil
}

// IndexPath resolves the history search index location, defaulting to
// ~/.gsearch/index.bleve. Bleve indexes are directories, so only the parent
// is created here.
func IndexPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".gsearch", "index.bleve")
	}

	expanded, err := ExpandPath(userPath)
	if err != nil {
		return "", err
	}
	if _, err := EnsureDirectory(filepath.Dir(expanded)); err != nil {
		return "", err
	}
	return expanded, nil
}
