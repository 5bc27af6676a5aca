package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutePath(t *testing.T) {
	root := filepath.Join("out")
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "/", want: root},
		{in: "", want: root},
		{in: "/about", want: filepath.Join(root, "about")},
		{in: "/de/docs/", want: filepath.Join(root, "de", "docs")},
		{in: "//a//b", want: filepath.Join(root, "a", "b")},
		{in: "/../etc", wantErr: true},
		{in: "/a/../../b", wantErr: true},
		{in: `\..\x`, wantErr: true},
	}

	for _, c := range cases {
		got, err := RoutePath(root, c.in)
		if c.wantErr {
			assert.ErrorIs(t, err, ErrPathEscapes, "input=%s", c.in)
			continue
		}
		require.NoError(t, err, "input=%s", c.in)
		assert.Equal(t, c.want, got, "input=%s", c.in)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "index.html")

	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("2nd")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(data))
	assert.True(t, FileExists(path))
	assert.True(t, DirExists(filepath.Dir(path)))
}

func TestWriteFileIntoFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "index.html"), []byte("y"))
	assert.Error(t, err)
}

func TestRemoveDirContents(t *testing.T) {
	dir := t.TempDir()

	// Create nested structure
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("B"), 0o644))

	// Remove contents
	require.NoError(t, RemoveDirContents(dir))

	// Directory should exist but be empty
	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, after, 0)
}
