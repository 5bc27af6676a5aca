package sdk

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/geossg/internal/processor"
)

func TestRun(t *testing.T) {
	in := strings.NewReader(`{"processor":"up","path":"/a","document":"<p>hi</p>","metadata":{"title":"A"}}`)
	var out bytes.Buffer

	err := Run(in, &out, func(req *processor.ExternalRequest) (string, error) {
		assert.Equal(t, "/a", req.Path)
		assert.Equal(t, "A", req.Metadata["title"])
		return strings.ToUpper(req.Document), nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"document":"<P>HI</P>"}`, out.String())
}

func TestRunErrors(t *testing.T) {
	identity := func(req *processor.ExternalRequest) (string, error) { return req.Document, nil }

	err := Run(strings.NewReader("{"), &bytes.Buffer{}, identity)
	assert.ErrorContains(t, err, "failed to decode request")

	boom := errors.New("boom")
	var out bytes.Buffer
	err = Run(strings.NewReader(`{"document":"x"}`), &out, func(*processor.ExternalRequest) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}
