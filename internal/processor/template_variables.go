package processor

import (
	"strings"

	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	TemplateVariablesName = "template_variables"
	DefaultStartDelimiter = "{{"
	DefaultEndDelimiter   = "}}"
)

// TemplateVariables replaces delimited keys such as {{title}}. Generator
// outputs take precedence over metadata; unknown keys are left verbatim.
// Substituted values are not scanned again.
type TemplateVariables struct {
	Start string
	End   string
}

// NewTemplateVariables creates the processor with the default {{ }} delimiters.
func NewTemplateVariables() *TemplateVariables {
	return &TemplateVariables{Start: DefaultStartDelimiter, End: DefaultEndDelimiter}
}

func (p *TemplateVariables) Name() string { return TemplateVariablesName }

func (p *TemplateVariables) delimiters() (string, string) {
	start, end := p.Start, p.End
	if start == "" {
		start = DefaultStartDelimiter
	}
	if end == "" {
		end = DefaultEndDelimiter
	}
	return start, end
}

func (p *TemplateVariables) Process(doc string, md metadata.Metadata, outputs generator.Outputs, _ string) (string, error) {
	start, end := p.delimiters()

	var b strings.Builder
	b.Grow(len(doc))
	rest := doc
	for {
		i := strings.Index(rest, start)
		if i < 0 {
			break
		}
		j := strings.Index(rest[i+len(start):], end)
		if j < 0 {
			break
		}
		key := rest[i+len(start) : i+len(start)+j]
		value, ok := outputs[key]
		if !ok {
			value, ok = md[key]
		}
		if !ok {
			// Keep the start delimiter and rescan after it so "{{ {{title}}" still resolves.
			b.WriteString(rest[:i+len(start)])
			rest = rest[i+len(start):]
			continue
		}
		b.WriteString(rest[:i])
		b.WriteString(value)
		rest = rest[i+len(start)+j+len(end):]
	}
	b.WriteString(rest)
	return b.String(), nil
}
