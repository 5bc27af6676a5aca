package generator

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

// stubGenerator answers its declared keys from a table and fails on keys in failing.
type stubGenerator struct {
	name    string
	outputs map[string]string
	failing map[string]bool
	order   []string
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) SupportedOutputs() []string {
	if s.order != nil {
		return s.order
	}
	keys := []string{s.name}
	for k := range s.outputs {
		if k != s.name {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *stubGenerator) Generate(key, _, _ string, _ metadata.Metadata) (string, error) {
	if s.failing[key] {
		return "", fmt.Errorf("cannot produce %s", key)
	}
	v, ok := s.outputs[key]
	if !ok {
		return "", ssgerrors.UnsupportedKey(s.name, key)
	}
	return v, nil
}

func TestRegistryGenerateCollectsAllOutputs(t *testing.T) {
	r := NewRegistry(nil,
		&stubGenerator{name: "a", outputs: map[string]string{"a": "<a>", "a:x": "x"}},
		&stubGenerator{name: "b", outputs: map[string]string{"b": "<b>"}},
	)

	out, err := r.Generate("/", "", metadata.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, Outputs{"a": "<a>", "a:x": "x", "b": "<b>"}, out)
}

func TestRegistryMainOutputFailureIsFatal(t *testing.T) {
	r := NewRegistry(nil,
		&stubGenerator{name: "ok", outputs: map[string]string{"ok": "fine"}},
		&stubGenerator{name: "broken", outputs: map[string]string{"broken": ""}, failing: map[string]bool{"broken": true}},
	)

	out, err := r.Generate("/page", "", metadata.Metadata{})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, stderrors.Is(err, ssgerrors.ErrGenerationFailure))

	se, ok := ssgerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "broken", se.Component())
	assert.Equal(t, "/page", se.Path())
}

func TestRegistrySecondaryFailureOmitsKey(t *testing.T) {
	g := &stubGenerator{
		name:    "meta",
		outputs: map[string]string{"meta": "<meta>", "meta:good": "good", "meta:bad": ""},
		failing: map[string]bool{"meta:bad": true},
		order:   []string{"meta", "meta:bad", "meta:good"},
	}
	out, err := NewRegistry(nil, g).Generate("/", "", metadata.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, "<meta>", out["meta"])
	assert.Equal(t, "good", out["meta:good"])
	assert.NotContains(t, out, "meta:bad")
}

func TestRegistryFirstGeneratorWinsSharedKey(t *testing.T) {
	r := NewRegistry(nil,
		&stubGenerator{name: "first", outputs: map[string]string{"first": "1", "shared": "from first"}},
		&stubGenerator{name: "second", outputs: map[string]string{"second": "2", "shared": "from second"}},
	)
	out, err := r.Generate("/", "", metadata.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, "from first", out["shared"])

	g, ok := r.Find("shared")
	require.True(t, ok)
	assert.Equal(t, "first", g.Name())
}

func TestRegistryGenerateKey(t *testing.T) {
	r := NewRegistry(nil, &TitleGenerator{})
	got, ok := r.GenerateKey("page_title", "/", "", metadata.Metadata{"title": "Hi & bye"})
	require.True(t, ok)
	assert.Equal(t, "Hi &amp; bye", got)

	_, ok = r.GenerateKey("unknown", "/", "", metadata.Metadata{})
	assert.False(t, ok)
}

func TestBuiltinsDeclareTheirNameAsOutput(t *testing.T) {
	for _, g := range Builtins(Options{}) {
		assert.True(t, Supports(g, g.Name()), g.Name())
		_, err := g.Generate("definitely-not-a-key", "/", "", metadata.Metadata{})
		assert.True(t, stderrors.Is(err, ssgerrors.ErrUnsupportedKey), g.Name())
	}
	assert.Len(t, ByName(Builtins(Options{})), 7)
}
