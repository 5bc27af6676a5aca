// Package renderer supplies the base document every page is built from.
package renderer

import (
	"fmt"
	"os"
	"sync"

	"github.com/aymerick/raymond"
	"go.uber.org/zap"

	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/metadata"
)

// DefaultTemplate is used when neither a template file nor an inline template
// is configured. It is a Handlebars template; every other base template is
// passed to the processors as-is.
const DefaultTemplate = `<!DOCTYPE html>
<html lang="{{#if lang}}{{lang}}{{else}}en{{/if}}">
    <head>
        <meta charset="utf-8">
        <meta name="viewport" content="width=device-width, initial-scale=1.0">
        {{#if title_tag}}{{{title_tag}}}{{else}}<title>{{#if title}}{{title}}{{else}}Page: {{path}}{{/if}}</title>{{/if}}
        {{{meta_tags}}}
        {{{robots_meta}}}
        {{{canonical_links}}}
        {{{open_graph}}}
        {{{twitter_card}}}
        {{{json_ld}}}
        <link rel="stylesheet" href="/styles.css">
        <script defer src="/app.js"></script>
    </head>
    <body>
        <div id="app">{{{content}}}</div>
    </body>
</html>
`

// Origin says where a base template came from.
type Origin string

const (
	OriginFile    Origin = "file"
	OriginInline  Origin = "inline"
	OriginBuiltin Origin = "builtin"
)

var (
	builtinOnce sync.Once
	builtinTpl  *raymond.Template
	builtinErr  error
)

func builtin() (*raymond.Template, error) {
	builtinOnce.Do(func() {
		builtinTpl, builtinErr = raymond.Parse(DefaultTemplate)
	})
	return builtinTpl, builtinErr
}

// BaseTemplate is the document skeleton shared by every page.
type BaseTemplate struct {
	Origin Origin
	// Source is the raw template text.
	Source string
	// File is set when Origin is OriginFile.
	File string
}

// LoadBaseTemplate picks the template file, then the inline template, then
// the built-in default. An unreadable template file is logged and skipped.
func LoadBaseTemplate(path, inline string, log *zap.Logger) *BaseTemplate {
	if log == nil {
		log = zap.NewNop()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			log.Debug("Using template file", logger.File(path))
			return &BaseTemplate{Origin: OriginFile, Source: string(data), File: path}
		}
		log.Warn("Failed to read template file; falling back", logger.File(path), zap.Error(err))
	}
	if inline != "" {
		log.Debug("Using inline default_template")
		return &BaseTemplate{Origin: OriginInline, Source: inline}
	}
	log.Info("Using built-in default HTML template")
	return &BaseTemplate{Origin: OriginBuiltin, Source: DefaultTemplate}
}

// Render produces the starting document for one page. Only the built-in
// template is expanded here; custom templates use the {{key}} and data-ssg
// vocabularies handled by the processors.
func (t *BaseTemplate) Render(route string, md metadata.Metadata, outputs generator.Outputs, content string) (string, error) {
	if t.Origin != OriginBuiltin {
		return t.Source, nil
	}
	tpl, err := builtin()
	if err != nil {
		return "", fmt.Errorf("failed to parse built-in template: %w", err)
	}

	ctx := make(map[string]any, len(md)+len(outputs)+2)
	for k, v := range md {
		ctx[k] = v
	}
	for k, v := range outputs {
		ctx[k] = v
	}
	ctx["path"] = route
	ctx["content"] = content

	out, err := tpl.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render built-in template: %w", err)
	}
	return out, nil
}
