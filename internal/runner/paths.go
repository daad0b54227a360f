package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrDirectoryPath indicates a file operation was attempted on a directory.
	ErrDirectoryPath = errors.New("path points to a directory")
	// ErrEmptyPath indicates a path argument was empty.
	ErrEmptyPath = errors.New("path is empty")
	// ErrPathContainsNUL indicates the path contains a NUL byte.
	ErrPathContainsNUL = errors.New("path contains NUL byte")
)

// readSource reads a regular file and returns its content and permissions.
func readSource(path string) ([]byte, os.FileMode, error) {
	resolved, info, err := resolveUserPath(path)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve path %q: %w", path, err)
	}

	if info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s", ErrDirectoryPath, resolved)
	}

	content, err := os.ReadFile(resolved) //nolint:gosec // resolved is cleaned and stat-checked.
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", resolved, err)
	}

	return content, info.Mode().Perm(), nil
}

// writeSource replaces the content of path keeping perm.
func writeSource(path string, content []byte, perm os.FileMode) error {
	err := os.WriteFile(path, content, perm)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// resolveUserPath cleans a user supplied path and stats it.
func resolveUserPath(path string) (string, os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil, ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", nil, fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", cleanPath, err)
	}

	return cleanPath, info, nil
}
