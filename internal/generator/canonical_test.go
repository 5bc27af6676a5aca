package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/geossg/internal/metadata"
)

func alt(lang, href string) string {
	return `<link rel="alternate" hreflang="` + lang + `" href="` + href + `">`
}

func TestCanonicalURL(t *testing.T) {
	g := &CanonicalLinkGenerator{Domain: "https://default.example"}
	tests := []struct {
		name string
		md   metadata.Metadata
		want string
	}{
		{"explicit canonical", metadata.Metadata{"canonical": "https://x.example/c", "path": "/p"}, "https://x.example/c"},
		{"metadata domain", metadata.Metadata{"domain": "https://example.com/", "path": "/about"}, "https://example.com/about"},
		{"generator domain", metadata.Metadata{"path": "/about"}, "https://default.example/about"},
		{"scheme added", metadata.Metadata{"domain": "example.com", "path": "/"}, "https://example.com/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.CanonicalURL("/", tt.md))
		})
	}

	none := &CanonicalLinkGenerator{}
	out, err := none.Generate("canonical_link", "/x", "", metadata.Metadata{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCanonicalToDefaultLanguage(t *testing.T) {
	md := metadata.Metadata{"domain": "https://example.com", "path": "/de/page", "lang": "de"}

	own := &CanonicalLinkGenerator{}
	assert.Equal(t, "https://example.com/de/page", own.CanonicalURL("/de/page", md))

	listed := &CanonicalLinkGenerator{CanonicalToDefault: []string{"de"}}
	assert.Equal(t, "https://example.com/page", listed.CanonicalURL("/de/page", md))

	all := &CanonicalLinkGenerator{CanonicalToDefault: []string{"*"}}
	assert.Equal(t, "https://example.com/page", all.CanonicalURL("/de/page", md))
}

func TestAlternateLinksFromDefaultLanguage(t *testing.T) {
	g := &CanonicalLinkGenerator{}
	md := metadata.Metadata{
		"domain":              "https://example.com",
		"path":                "/products",
		"lang":                "en",
		"alternate_languages": "en, es, fr,de",
	}
	out, err := g.Generate("alternate_links", "/products", "", md)
	require.NoError(t, err)

	assert.NotContains(t, out, `hreflang="en"`)
	assert.Contains(t, out, alt("es", "https://example.com/es/products"))
	assert.Contains(t, out, alt("fr", "https://example.com/fr/products"))
	assert.Contains(t, out, alt("de", "https://example.com/de/products"))
	assert.Contains(t, out, alt("x-default", "https://example.com/products"))
}

func TestAlternateLinksExcludeCurrentLanguage(t *testing.T) {
	g := &CanonicalLinkGenerator{}
	md := metadata.Metadata{
		"domain":              "https://example.com",
		"path":                "/de/404",
		"lang":                "de",
		"alternate_languages": "en,de,es",
	}
	out, err := g.Generate("alternate_links", "/de/404", "", md)
	require.NoError(t, err)

	assert.Contains(t, out, alt("en", "https://example.com/404"))
	assert.Contains(t, out, alt("es", "https://example.com/es/404"))
	assert.NotContains(t, out, `hreflang="de"`)
	assert.Contains(t, out, alt("x-default", "https://example.com/404"))
}

func TestAlternateLinksPreserveTrailingSlashAndRoot(t *testing.T) {
	g := &CanonicalLinkGenerator{}

	out, err := g.Generate("alternate_links", "", "", metadata.Metadata{
		"domain": "example.com", "path": "/de/page/", "lang": "de", "alternate_languages": "en,de,es",
	})
	require.NoError(t, err)
	assert.Contains(t, out, alt("es", "https://example.com/es/page/"))
	assert.Contains(t, out, alt("en", "https://example.com/page/"))

	root, err := g.Generate("alternate_links", "", "", metadata.Metadata{
		"domain": "https://example.com", "path": "/", "alternate_languages": "en,es",
	})
	require.NoError(t, err)
	assert.Contains(t, root, alt("es", "https://example.com/es/"))
	assert.Contains(t, root, alt("x-default", "https://example.com/"))

	bare, err := g.Generate("alternate_links", "", "", metadata.Metadata{
		"domain": "https://example.com", "path": "/es", "lang": "es", "alternate_languages": "en,es",
	})
	require.NoError(t, err)
	assert.Contains(t, bare, alt("en", "https://example.com/"))
}

func TestXDefaultAlwaysPresent(t *testing.T) {
	g := &CanonicalLinkGenerator{}
	out, err := g.Generate("alternate_links", "", "", metadata.Metadata{
		"domain": "https://example.com", "path": "/de/about", "lang": "de", "alternate_languages": "de",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, `hreflang="de"`)
	assert.Equal(t, alt("x-default", "https://example.com/de/about")+"\n", out)
}

func TestXDefaultFallsBackToFirstListedLanguage(t *testing.T) {
	g := &CanonicalLinkGenerator{}
	out, err := g.Generate("alternate_links", "", "", metadata.Metadata{
		"domain": "https://example.com", "path": "/fr/a", "lang": "fr", "alternate_languages": "fr,es",
	})
	require.NoError(t, err)
	assert.Contains(t, out, alt("es", "https://example.com/es/a"))
	assert.Contains(t, out, alt("x-default", "https://example.com/fr/a"))
}

func TestAlternateOverrides(t *testing.T) {
	g := &CanonicalLinkGenerator{}
	md := metadata.Metadata{
		"domain":                  "https://example.com",
		"path":                    "/page",
		"alternate_languages":     "en,es",
		"alternate_url_es":        "https://es.example.com/pagina",
		"alternate_url_x_default": "https://example.com/choose",
	}
	out, err := g.Generate("alternate_links", "", "", md)
	require.NoError(t, err)
	assert.Contains(t, out, alt("es", "https://es.example.com/pagina"))
	assert.Contains(t, out, alt("x-default", "https://example.com/choose"))

	delete(md, "alternate_url_x_default")
	md["alternate_url_en"] = "https://en.example.com/page"
	out, err = g.Generate("alternate_links", "", "", md)
	require.NoError(t, err)
	assert.Contains(t, out, alt("x-default", "https://en.example.com/page"))
}

func TestAlternateLinksNeedValidDomain(t *testing.T) {
	g := &CanonicalLinkGenerator{}
	for _, domain := range []string{"", "http://[::1", "https://"} {
		out, err := g.Generate("alternate_links", "", "", metadata.Metadata{
			"domain": domain, "path": "/x", "alternate_languages": "en,es",
		})
		require.NoError(t, err)
		assert.Empty(t, out, "domain=%q", domain)
	}
}

func TestCanonicalLinksMainOutput(t *testing.T) {
	g := &CanonicalLinkGenerator{Domain: "https://example.com"}
	out, err := g.Generate(CanonicalName, "/a", "", metadata.Metadata{"path": "/a", "alternate_languages": "en,es"})
	require.NoError(t, err)
	assert.Contains(t, out, `<link rel="canonical" href="https://example.com/a">`)
	assert.Contains(t, out, alt("es", "https://example.com/es/a"))
}

func TestStripLanguagePrefix(t *testing.T) {
	langs := []string{"en", "de"}
	assert.Equal(t, "/page", StripLanguagePrefix("/de/page", langs))
	assert.Equal(t, "/", StripLanguagePrefix("/de", langs))
	assert.Equal(t, "/", StripLanguagePrefix("/de/", langs))
	assert.Equal(t, "/design", StripLanguagePrefix("/design", langs))
	assert.Equal(t, []string{"en", "es"}, ParseLanguages(" en, ,es "))
}
