package generator

import (
	"strings"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const MetaTagsName = "meta_tags"

// MetaTagGenerator emits the description, keywords and (when given) canonical tags.
type MetaTagGenerator struct {
	DefaultDescription string
	DefaultKeywords    []string
}

func (g *MetaTagGenerator) Name() string { return MetaTagsName }

func (g *MetaTagGenerator) SupportedOutputs() []string {
	return []string{MetaTagsName, "meta_description", "meta_keywords", "meta_canonical"}
}

func (g *MetaTagGenerator) Generate(key, _, _ string, md metadata.Metadata) (string, error) {
	switch key {
	case MetaTagsName:
		return g.description(md) + g.keywords(md) + g.canonical(md), nil
	case "meta_description":
		return g.description(md), nil
	case "meta_keywords":
		return g.keywords(md), nil
	case "meta_canonical":
		return g.canonical(md), nil
	}
	return "", ssgerrors.UnsupportedKey(MetaTagsName, key)
}

func (g *MetaTagGenerator) description(md metadata.Metadata) string {
	return metaName("description", md.GetOr("description", g.DefaultDescription))
}

func (g *MetaTagGenerator) keywords(md metadata.Metadata) string {
	return metaName("keywords", md.GetOr("keywords", strings.Join(g.DefaultKeywords, ", ")))
}

func (g *MetaTagGenerator) canonical(md metadata.Metadata) string {
	if c, ok := md.First("canonical"); ok {
		return linkTag("canonical", c)
	}
	return ""
}
