package generator

import (
	"go.uber.org/zap"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/metadata"
)

// Registry holds generators in registration order. It is built once and then
// shared read-only by every page.
type Registry struct {
	generators []Generator
	logger     *zap.Logger
}

// NewRegistry creates a registry. A nil logger is replaced by a no-op logger.
func NewRegistry(log *zap.Logger, generators ...Generator) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{generators: generators, logger: log}
}

// Register appends a generator.
func (r *Registry) Register(g Generator) {
	r.generators = append(r.generators, g)
}

// Generators returns the registered generators in order.
func (r *Registry) Generators() []Generator {
	return r.generators
}

// Len returns the number of registered generators.
func (r *Registry) Len() int {
	return len(r.generators)
}

// Find returns the first registered generator declaring key.
func (r *Registry) Find(key string) (Generator, bool) {
	for _, g := range r.generators {
		if Supports(g, key) {
			return g, true
		}
	}
	return nil, false
}

// GenerateKey asks the first generator declaring key to produce it on demand.
// It reports false if no generator declares key or generation failed.
func (r *Registry) GenerateKey(key, route, content string, md metadata.Metadata) (string, bool) {
	g, ok := r.Find(key)
	if !ok {
		return "", false
	}
	out, err := g.Generate(key, route, content, md)
	if err != nil {
		r.logger.Warn("On-demand generation failed",
			logger.Component(g.Name()), logger.Key(key), logger.Path(route), zap.Error(err))
		return "", false
	}
	return out, true
}

// Generate computes every output of every generator for one page.
//
// The main output of each generator is load-bearing: its failure aborts the
// page with a GenerationFailure. Failures of the other declared outputs are
// logged and the key is left out of the result. A key already produced by an
// earlier generator is not recomputed.
func (r *Registry) Generate(route, content string, md metadata.Metadata) (Outputs, error) {
	outputs := make(Outputs)
	for _, g := range r.generators {
		name := g.Name()
		main, err := g.Generate(name, route, content, md)
		if err != nil {
			return nil, ssgerrors.GenerationFailure(name, err).WithPath(route)
		}
		outputs[name] = main

		for _, key := range g.SupportedOutputs() {
			if _, taken := outputs[key]; taken || key == name {
				continue
			}
			out, err := g.Generate(key, route, content, md)
			if err != nil {
				r.logger.Warn("Skipping secondary generator output",
					logger.Component(name), logger.Key(key), logger.Path(route), zap.Error(err))
				continue
			}
			outputs[key] = out
		}
	}
	return outputs, nil
}
