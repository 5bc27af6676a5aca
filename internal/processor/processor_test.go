package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
)

type funcProcessor struct {
	name string
	fn   func(doc string) (string, error)
}

func (p *funcProcessor) Name() string { return p.name }

func (p *funcProcessor) Process(doc string, _ metadata.Metadata, _ generator.Outputs, _ string) (string, error) {
	return p.fn(doc)
}

func appendProcessor(name, suffix string) *funcProcessor {
	return &funcProcessor{name: name, fn: func(doc string) (string, error) { return doc + suffix, nil }}
}

func TestChainRunsInOrder(t *testing.T) {
	chain := NewChain(appendProcessor("a", "1"))
	chain.Add(appendProcessor("b", "2"))

	out, err := chain.Process("x", metadata.Metadata{}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "x12", out)
	assert.Len(t, chain.Processors(), 2)
}

func TestEmptyChainReturnsDocument(t *testing.T) {
	out, err := NewChain().Process("<p>x</p>", nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", out)
}

func TestChainAbortsOnFailure(t *testing.T) {
	cause := errors.New("boom")
	calledAfter := false
	chain := NewChain(
		appendProcessor("first", "1"),
		&funcProcessor{name: "broken", fn: func(string) (string, error) { return "", cause }},
		&funcProcessor{name: "last", fn: func(doc string) (string, error) {
			calledAfter = true
			return doc, nil
		}},
	)

	out, err := chain.Process("x", metadata.Metadata{}, nil, "")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.False(t, calledAfter)
	assert.ErrorIs(t, err, ssgerrors.ErrTransformFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "broken", ssgerrors.ComponentOf(err))
}

func TestChainWithBuiltinProcessors(t *testing.T) {
	chain := NewChain(NewTemplateVariables(), NewAttributeRewriter(nil))
	doc := `<title data-ssg="title">{{site}}</title><p>{{title}}</p>`

	out, err := chain.Process(doc, metadata.Metadata{"title": "T", "site": "S"}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, `<title>T</title><p>T</p>`, out)
}
