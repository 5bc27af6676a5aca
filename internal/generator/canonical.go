package generator

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	CanonicalName         = "canonical_links"
	DefaultLanguage       = "en"
	xDefault              = "x-default"
	alternateURLPrefix    = "alternate_url_"
	alternateURLXDefault  = "alternate_url_x_default"
	alternateLanguagesKey = "alternate_languages"
	canonicalAllLanguages = "*"
)

// CanonicalLinkGenerator emits the canonical link and hreflang alternates.
type CanonicalLinkGenerator struct {
	// Domain is used when metadata carries no "domain".
	Domain string
	// DefaultLanguage is served without a path prefix. Defaults to "en".
	DefaultLanguage string
	// CanonicalToDefault lists languages whose canonical URL points at the
	// default-language page. "*" selects every language.
	CanonicalToDefault []string
}

func (g *CanonicalLinkGenerator) Name() string { return CanonicalName }

func (g *CanonicalLinkGenerator) SupportedOutputs() []string {
	return []string{CanonicalName, "canonical_link", "canonical_url", "alternate_links"}
}

func (g *CanonicalLinkGenerator) Generate(key, route, _ string, md metadata.Metadata) (string, error) {
	switch key {
	case CanonicalName:
		return g.canonicalLink(route, md) + g.alternateLinks(route, md), nil
	case "canonical_link":
		return g.canonicalLink(route, md), nil
	case "canonical_url":
		return g.CanonicalURL(route, md), nil
	case "alternate_links":
		return g.alternateLinks(route, md), nil
	}
	return "", ssgerrors.UnsupportedKey(CanonicalName, key)
}

func (g *CanonicalLinkGenerator) defaultLanguage() string {
	if g.DefaultLanguage != "" {
		return g.DefaultLanguage
	}
	return DefaultLanguage
}

func (g *CanonicalLinkGenerator) domain(md metadata.Metadata) string {
	if d, ok := md.First("domain"); ok {
		return d
	}
	return g.Domain
}

func (g *CanonicalLinkGenerator) canonicalLink(route string, md metadata.Metadata) string {
	u := g.CanonicalURL(route, md)
	if u == "" {
		return ""
	}
	return linkTag("canonical", u)
}

// CanonicalURL is the explicit "canonical" metadata, else domain + path.
// Languages selected by CanonicalToDefault drop their prefix so the canonical
// URL points at the default-language page. Without a domain it is empty.
func (g *CanonicalLinkGenerator) CanonicalURL(route string, md metadata.Metadata) string {
	if c, ok := md.First("canonical"); ok {
		return c
	}
	domain := g.domain(md)
	if domain == "" {
		return ""
	}
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}

	path := pagePath(route, md)
	lang := md.GetOr("lang", g.defaultLanguage())
	if lang != g.defaultLanguage() && g.pointsToDefault(lang) {
		path = StripLanguagePrefix(path, []string{lang})
	}
	return joinURL(domain, path)
}

func (g *CanonicalLinkGenerator) pointsToDefault(lang string) bool {
	return slices.Contains(g.CanonicalToDefault, canonicalAllLanguages) ||
		slices.Contains(g.CanonicalToDefault, lang)
}

// alternateLinks emits one hreflang link per listed language other than the
// current one, then an x-default link. A missing or malformed domain yields
// nothing.
func (g *CanonicalLinkGenerator) alternateLinks(route string, md metadata.Metadata) string {
	langs := ParseLanguages(md.Get(alternateLanguagesKey))
	if len(langs) == 0 {
		return ""
	}
	base, ok := parseDomain(g.domain(md))
	if !ok {
		return ""
	}

	current := md.GetOr("lang", g.defaultLanguage())
	strip := langs
	if !slices.Contains(strip, current) {
		strip = append(strip[:len(strip):len(strip)], current)
	}
	basePath := StripLanguagePrefix(pagePath(route, md), strip)

	var b strings.Builder
	for _, lang := range langs {
		if lang == current {
			continue
		}
		href, ok := md.First(alternateURLPrefix + lang)
		if !ok {
			href = resolve(base, g.LanguagePath(basePath, lang))
		}
		b.WriteString(alternateTag(lang, href))
	}

	xLang := g.defaultLanguage()
	if !slices.Contains(langs, xLang) {
		xLang = langs[0]
	}
	href, ok := md.First(alternateURLXDefault, alternateURLPrefix+xLang)
	if !ok {
		href = resolve(base, g.LanguagePath(basePath, xLang))
	}
	b.WriteString(alternateTag(xDefault, href))
	return b.String()
}

// LanguagePath prefixes a language-neutral path for lang. The default
// language stays unprefixed; a trailing slash is preserved.
//
//	LanguagePath("/page/", "es") == "/es/page/"
//	LanguagePath("/", "es") == "/es/"
func (g *CanonicalLinkGenerator) LanguagePath(basePath, lang string) string {
	clean := strings.Trim(basePath, "/")
	trailing := strings.HasSuffix(basePath, "/") && basePath != "/"

	prefix := ""
	if lang != g.defaultLanguage() {
		prefix = "/" + lang
	}
	switch {
	case clean == "" && prefix == "":
		return "/"
	case clean == "":
		return prefix + "/"
	case trailing:
		return prefix + "/" + clean + "/"
	default:
		return prefix + "/" + clean
	}
}

// StripLanguagePrefix removes the first matching "/<lang>/" or bare "/<lang>"
// prefix from path.
func StripLanguagePrefix(path string, langs []string) string {
	for _, lang := range langs {
		if lang == "" {
			continue
		}
		bare := "/" + lang
		if path == bare {
			return "/"
		}
		if rest, ok := strings.CutPrefix(path, bare+"/"); ok {
			return "/" + rest
		}
	}
	return path
}

// ParseLanguages splits a comma-separated language list, dropping blanks.
func ParseLanguages(list string) []string {
	var out []string
	for _, l := range strings.Split(list, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func parseDomain(domain string) (*url.URL, bool) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, false
	}
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	u, err := url.Parse(domain)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

func resolve(base *url.URL, path string) string {
	return base.ResolveReference(&url.URL{Path: path}).String()
}

func alternateTag(lang, href string) string {
	return `<link rel="alternate" hreflang="` + lang + `" href="` + html.EscapeString(href) + "\">\n"
}
