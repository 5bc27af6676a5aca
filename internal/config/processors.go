package config

import (
	"slices"
	"sort"
	"time"

	"github.com/geocine/geossg/internal/processor"
)

// ProcessorConfig configures one processor. An entry with a Command that
// does not name a built-in processor adds an external processor.
type ProcessorConfig struct {
	// Disabled removes the processor from the chain
	Disabled bool `toml:"disabled" yaml:"disabled" json:"disabled"`

	// Before is a list of processor names that should run after this one
	Before []string `toml:"before" yaml:"before" json:"before"`

	// After is a list of processor names that should run before this one
	After []string `toml:"after" yaml:"after" json:"after"`

	// Command runs an external processor, e.g. "node tools/minify.js"
	Command string `toml:"command" yaml:"command" json:"command"`

	// Timeout bounds one run of Command, e.g. "10s"
	Timeout string `toml:"timeout" yaml:"timeout" json:"timeout"`

	// Options are passed through to the external processor
	Options map[string]any `toml:"options" yaml:"options" json:"options"`
}

func isBuiltinProcessor(name string) bool {
	return slices.Contains(knownProcessors, name)
}

// externalProcessors builds the enabled external processors sorted by name.
// They follow the built-ins unless constraints say otherwise.
func (c *Config) externalProcessors() ([]processor.Processor, error) {
	names := make([]string, 0, len(c.Processors))
	for name, pc := range c.Processors {
		if pc.Command != "" && !pc.Disabled && !isBuiltinProcessor(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]processor.Processor, 0, len(names))
	for _, name := range names {
		pc := c.Processors[name]
		var timeout time.Duration
		if pc.Timeout != "" {
			d, err := time.ParseDuration(pc.Timeout)
			if err != nil {
				return nil, err
			}
			timeout = d
		}
		out = append(out, &processor.ExternalProcessor{
			ProcessorName: name,
			Command:       pc.Command,
			Dir:           c.dir,
			Timeout:       timeout,
			Options:       pc.Options,
		})
	}
	return out, nil
}
