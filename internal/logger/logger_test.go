package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"debug", false},
		{"WARN", false},
		{"error", false},
		{"verbose", true},
	}
	for _, tt := range tests {
		_, err := parseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "geossg.log")
	l, err := New(Config{Level: "debug", Format: "json", File: file})
	require.NoError(t, err)

	l.Info("page written", Path("/about"), Component("site"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path":"/about"`)
	assert.Contains(t, string(data), `"msg":"page written"`)
}

func TestGlobalDefaultsToNop(t *testing.T) {
	assert.NotNil(t, L())
	SetGlobal(nil)
	assert.NotNil(t, L())
}
