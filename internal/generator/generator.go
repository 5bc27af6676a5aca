// Package generator turns page metadata into named HTML fragments.
package generator

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/geocine/geossg/internal/metadata"
)

// Generator produces HTML fragments for a fixed set of output keys. The key
// equal to Name is the generator's main output.
//
// Implementations are shared across concurrently built pages and must be
// pure functions of their arguments.
type Generator interface {
	Name() string
	SupportedOutputs() []string
	Generate(key, route, content string, md metadata.Metadata) (string, error)
}

// Outputs maps output keys to the fragments generated for one page.
type Outputs map[string]string

// Supports reports whether g declares key among its outputs.
func Supports(g Generator, key string) bool {
	return slices.Contains(g.SupportedOutputs(), key)
}

func metaName(name, content string) string {
	return fmt.Sprintf("<meta name=\"%s\" content=\"%s\">\n", name, html.EscapeString(content))
}

func metaProperty(property, content string) string {
	return fmt.Sprintf("<meta property=\"%s\" content=\"%s\">\n", property, html.EscapeString(content))
}

func linkTag(rel, href string) string {
	return fmt.Sprintf("<link rel=\"%s\" href=\"%s\">\n", rel, html.EscapeString(href))
}

// joinURL joins a site domain and an absolute path without doubling slashes.
func joinURL(domain, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(domain, "/") + path
}

// pagePath returns the page path from metadata, falling back to the route.
func pagePath(route string, md metadata.Metadata) string {
	if p, ok := md.First("path"); ok {
		return p
	}
	if route == "" {
		return "/"
	}
	return route
}
