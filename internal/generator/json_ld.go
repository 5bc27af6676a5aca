package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	JSONLDName            = "json_ld"
	DefaultJSONLDType     = "WebPage"
	schemaOrgContext      = "https://schema.org"
	jsonLDScriptOpen      = "<script type=\"application/ld+json\">\n"
	jsonLDScriptClose     = "\n</script>"
	jsonLDEnabledKey      = "json_ld_enabled"
	jsonLDFileKey         = "json_ld_file"
	jsonLDTypeKey         = "json_ld_type"
	breadcrumbOverrideKey = "breadcrumb_"
)

// jsonLDShape accepts a single node object or an array of node objects.
const jsonLDShape = `{
  "oneOf": [
    {"type": "object", "minProperties": 1},
    {"type": "array", "minItems": 1, "items": {"type": "object", "minProperties": 1}}
  ]
}`

var jsonLDSchema = gojsonschema.NewStringLoader(jsonLDShape)

// JSONLDGenerator emits schema.org structured data, either loaded from a
// file named by json_ld_file or synthesized from metadata by json_ld_type.
type JSONLDGenerator struct {
	Domain          string
	DefaultType     string
	BaseDir         string
	DefaultLanguage string
}

func (g *JSONLDGenerator) Name() string { return JSONLDName }

func (g *JSONLDGenerator) SupportedOutputs() []string {
	return []string{
		JSONLDName,
		"json_ld_data",
		"webpage_json_ld",
		"article_json_ld",
		"organization_json_ld",
		"breadcrumbs_json_ld",
		"all_json_ld",
	}
}

func (g *JSONLDGenerator) Generate(key, route, _ string, md metadata.Metadata) (string, error) {
	if !Supports(g, key) {
		return "", ssgerrors.UnsupportedKey(JSONLDName, key)
	}
	if !md.Bool(jsonLDEnabledKey, true) {
		return "", nil
	}

	path := pagePath(route, md)
	switch key {
	case JSONLDName:
		data, err := g.document(path, md)
		if err != nil {
			return "", err
		}
		return scriptTag(data), nil
	case "json_ld_data":
		return g.document(path, md)
	case "webpage_json_ld":
		return marshalScript(g.webPage(path, md))
	case "article_json_ld":
		return marshalScript(g.article(path, md))
	case "organization_json_ld":
		return marshalScript(g.organization(md))
	case "breadcrumbs_json_ld":
		return marshalScript(g.breadcrumbs(path, md))
	}

	// all_json_ld
	if file, ok := md.First(jsonLDFileKey); ok {
		data, err := g.loadFile(file)
		if err != nil {
			return "", err
		}
		return scriptTag(data), nil
	}
	var parts []string
	for _, node := range []map[string]any{g.webPage(path, md), g.organization(md), g.breadcrumbs(path, md)} {
		s, err := marshalScript(node)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

// document returns the page's JSON-LD text without the script wrapper.
func (g *JSONLDGenerator) document(path string, md metadata.Metadata) (string, error) {
	if file, ok := md.First(jsonLDFileKey); ok {
		return g.loadFile(file)
	}

	var node map[string]any
	switch md.GetOr(jsonLDTypeKey, g.defaultType()) {
	case "Article", "BlogPosting", "TechArticle":
		node = g.article(path, md)
	case "Organization":
		node = g.organization(md)
	case "BreadcrumbList":
		node = g.breadcrumbs(path, md)
	case "AboutPage":
		node = g.webPage(path, md)
		node["@type"] = "AboutPage"
	case "WebSite":
		node = g.webPage(path, md)
		node["@type"] = "WebSite"
	default:
		node = g.webPage(path, md)
	}
	return marshal(node)
}

// loadFile reads an external JSON-LD document and returns it verbatim once it
// parses as a JSON object or array of objects.
func (g *JSONLDGenerator) loadFile(file string) (string, error) {
	resolved := file
	if !filepath.IsAbs(file) && g.BaseDir != "" {
		resolved = filepath.Join(g.BaseDir, file)
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return "", ssgerrors.MalformedExternalDocument(JSONLDName, resolved, err)
	}
	if !json.Valid(raw) {
		return "", ssgerrors.MalformedExternalDocument(JSONLDName, resolved, fmt.Errorf("invalid JSON"))
	}

	result, err := gojsonschema.Validate(jsonLDSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return "", ssgerrors.MalformedExternalDocument(JSONLDName, resolved, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", ssgerrors.MalformedExternalDocument(JSONLDName, resolved,
			fmt.Errorf("not a JSON-LD document: %s", strings.Join(msgs, "; ")))
	}
	return strings.TrimSpace(string(raw)), nil
}

func (g *JSONLDGenerator) defaultType() string {
	if g.DefaultType != "" {
		return g.DefaultType
	}
	return DefaultJSONLDType
}

func (g *JSONLDGenerator) domain(md metadata.Metadata) string {
	if d, ok := md.First("domain"); ok {
		return d
	}
	return g.Domain
}

// pageURL is the canonical metadata, else domain + path, else the bare path.
func (g *JSONLDGenerator) pageURL(path string, md metadata.Metadata) string {
	if c, ok := md.First("canonical"); ok {
		return c
	}
	if d := g.domain(md); d != "" {
		return joinURL(d, path)
	}
	return path
}

func (g *JSONLDGenerator) webPage(path string, md metadata.Metadata) map[string]any {
	url := g.pageURL(path, md)
	lang, ok := md.First("lang", "language")
	if !ok {
		lang = g.DefaultLanguage
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	return map[string]any{
		"@context":    schemaOrgContext,
		"@type":       "WebPage",
		"@id":         url + "#webpage",
		"url":         url,
		"name":        md.Get("title"),
		"description": md.Get("description"),
		"inLanguage":  lang,
	}
}

func (g *JSONLDGenerator) article(path string, md metadata.Metadata) map[string]any {
	url := g.pageURL(path, md)
	articleType := md.GetOr(jsonLDTypeKey, "Article")
	switch articleType {
	case "Article", "BlogPosting", "TechArticle":
	default:
		articleType = "Article"
	}
	node := map[string]any{
		"@context":    schemaOrgContext,
		"@type":       articleType,
		"@id":         url + "#article",
		"headline":    md.Get("title"),
		"description": md.Get("description"),
		"url":         url,
	}
	if author, ok := md.First("author"); ok {
		node["author"] = map[string]any{"@type": "Person", "name": author}
	}
	if v, ok := md.First("date_published"); ok {
		node["datePublished"] = v
	}
	if v, ok := md.First("date_modified"); ok {
		node["dateModified"] = v
	}
	if v, ok := md.First("og:image", "default_image"); ok {
		node["image"] = v
	}
	return node
}

func (g *JSONLDGenerator) organization(md metadata.Metadata) map[string]any {
	name, ok := md.First("organization_name", "site_name")
	if !ok {
		name = "Organization"
	}
	node := map[string]any{
		"@context": schemaOrgContext,
		"@type":    "Organization",
		"name":     name,
		"url":      g.domain(md),
	}
	if logo, ok := md.First("organization_logo"); ok {
		node["logo"] = logo
	}
	return node
}

func (g *JSONLDGenerator) breadcrumbs(path string, md metadata.Metadata) map[string]any {
	domain := strings.TrimRight(g.domain(md), "/")
	items := []map[string]any{{
		"@type":    "ListItem",
		"position": 1,
		"name":     "Home",
		"item":     domain + "/",
	}}

	current := ""
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		current += "/" + seg
		name, ok := md.First(breadcrumbOverrideKey + seg)
		if !ok {
			name = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
		}
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": len(items) + 1,
			"name":     name,
			"item":     domain + current,
		})
	}

	return map[string]any{
		"@context":        schemaOrgContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

func marshal(node map[string]any) (string, error) {
	b, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON-LD: %w", err)
	}
	return string(b), nil
}

func marshalScript(node map[string]any) (string, error) {
	s, err := marshal(node)
	if err != nil {
		return "", err
	}
	return scriptTag(s), nil
}

func scriptTag(data string) string {
	return jsonLDScriptOpen + data + jsonLDScriptClose
}
