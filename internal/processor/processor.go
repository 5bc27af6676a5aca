// Package processor folds generator outputs and page content into a document
// through an ordered chain of transformations.
package processor

import (
	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
)

// Processor transforms a document. Implementations are shared across
// concurrently built pages and must not keep per-page state.
type Processor interface {
	Name() string
	Process(doc string, md metadata.Metadata, outputs generator.Outputs, content string) (string, error)
}

// Chain runs processors in order, each consuming the previous output.
type Chain struct {
	processors []Processor
}

// NewChain creates a chain with the given processors
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Add appends a processor to the chain
func (c *Chain) Add(p Processor) {
	c.processors = append(c.processors, p)
}

// Processors returns the processors in execution order
func (c *Chain) Processors() []Processor {
	return c.processors
}

// Process runs every processor. The first failure aborts the chain with a
// TransformFailure naming the processor.
func (c *Chain) Process(doc string, md metadata.Metadata, outputs generator.Outputs, content string) (string, error) {
	for _, p := range c.processors {
		out, err := p.Process(doc, md, outputs, content)
		if err != nil {
			return "", ssgerrors.TransformFailure(p.Name(), err)
		}
		doc = out
	}
	return doc, nil
}
