package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempSite creates a temporary site directory with an empty content folder
func TempSite(t *testing.T) string {
	t.Helper()
	siteDir := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.MkdirAll(filepath.Join(siteDir, "content"), 0o755))
	return siteDir
}

// WriteFile writes content to a file in the test directory
func WriteFile(t *testing.T, dir, path, content string) {
	t.Helper()
	fullPath := filepath.Join(dir, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

// ReadFile reads content from a test file
func ReadFile(t *testing.T, dir, path string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	require.NoError(t, err)
	return string(content)
}

var (
	whitespace    = regexp.MustCompile(`\s+`)
	betweenTags   = regexp.MustCompile(`>\s+<`)
	ssgAttributes = regexp.MustCompile(`\sdata-ssg[\w-]*="[^"]*"`)
)

// NormalizeHTML collapses whitespace so documents compare by structure
func NormalizeHTML(html string) string {
	html = whitespace.ReplaceAllString(html, " ")
	html = betweenTags.ReplaceAllString(html, "><")
	return strings.TrimSpace(html)
}

// HasMarkers reports whether any data-ssg attribute survived rendering
func HasMarkers(html string) bool {
	return ssgAttributes.MatchString(html)
}

// FileExists checks if a file exists
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}
