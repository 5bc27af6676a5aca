package utils

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a route would resolve outside its root.
var ErrPathEscapes = errors.New("path escapes output directory")

// WriteFile writes content to a file, creating parent directories if needed.
// The file is closed on every path; a partially written file is removed.
func WriteFile(path string, content []byte) (err error) {
	if parent := filepath.Dir(path); parent != "." {
		if err := CreateDirAll(parent); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close '%s': %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

// CreateDirAll creates a directory with better error messages
func CreateDirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", path, err)
	}
	return nil
}

// DirExists checks if a directory exists
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// RoutePath maps a URL path to the directory holding its index.html:
// "/" -> root, "/a/b/" -> root/a/b. Any ".." segment is rejected.
func RoutePath(root, route string) (string, error) {
	for _, seg := range strings.Split(strings.ReplaceAll(route, "\\", "/"), "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrPathEscapes, route)
		}
	}
	clean := strings.Trim(path.Clean("/"+route), "/")
	if clean == "" {
		return root, nil
	}
	return filepath.Join(root, filepath.FromSlash(clean)), nil
}

// RemoveDirContents removes all contents of a directory but not the directory itself
func RemoveDirContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory '%s': %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove '%s': %w", path, err)
		}
	}

	return nil
}
