package generator

import (
	"strings"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const OpenGraphName = "open_graph"

// openGraphFields is the emission order of the main output.
var openGraphFields = []string{"type", "title", "description", "url", "image", "site_name"}

// OpenGraphGenerator emits og:* properties.
type OpenGraphGenerator struct {
	SiteName     string
	DefaultImage string
	Domain       string
}

func (g *OpenGraphGenerator) Name() string { return OpenGraphName }

func (g *OpenGraphGenerator) SupportedOutputs() []string {
	out := []string{OpenGraphName}
	for _, f := range openGraphFields {
		out = append(out, "og:"+f)
	}
	return out
}

func (g *OpenGraphGenerator) Generate(key, route, _ string, md metadata.Metadata) (string, error) {
	if key == OpenGraphName {
		var b strings.Builder
		for _, f := range openGraphFields {
			if v := g.value(f, route, md); v != "" || f == "title" || f == "description" {
				b.WriteString(metaProperty("og:"+f, v))
			}
		}
		return b.String(), nil
	}

	field, ok := strings.CutPrefix(key, "og:")
	if !ok || !Supports(g, key) {
		return "", ssgerrors.UnsupportedKey(OpenGraphName, key)
	}
	v := g.value(field, route, md)
	if v == "" {
		return "", nil
	}
	return metaProperty(key, v), nil
}

func (g *OpenGraphGenerator) value(field, route string, md metadata.Metadata) string {
	switch field {
	case "type":
		return md.GetOr("og:type", "website")
	case "title":
		v, _ := md.First("og:title", "title")
		return v
	case "description":
		v, _ := md.First("og:description", "description")
		return v
	case "url":
		if v, ok := md.First("og:url", "canonical", "url"); ok {
			return v
		}
		if domain, ok := md.First("domain"); ok {
			return joinURL(domain, pagePath(route, md))
		}
		if g.Domain != "" {
			return joinURL(g.Domain, pagePath(route, md))
		}
		return ""
	case "image":
		if v, ok := md.First("og:image", "default_image"); ok {
			return v
		}
		return g.DefaultImage
	case "site_name":
		if v, ok := md.First("og:site_name", "site_name"); ok {
			return v
		}
		return g.SiteName
	}
	return ""
}
