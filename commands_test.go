package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocine/geossg/internal/testutil"
)

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
		{2 << 50, "2048.0 TiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanBytes(tt.n))
	}
}

func TestDirSummary(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "index.html", "12345")
	testutil.WriteFile(t, dir, "a/index.html", "123")
	testutil.WriteFile(t, dir, "a/b/index.html", "1")

	files, dirs, size := dirSummary(dir)
	assert.Equal(t, 3, files)
	assert.Equal(t, 2, dirs)
	assert.Equal(t, int64(9), size)
}
