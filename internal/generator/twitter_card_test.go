package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/geossg/internal/metadata"
)

func TestTwitterTitleFallbackChain(t *testing.T) {
	g := &TwitterCardGenerator{}
	tests := []struct {
		name string
		md   metadata.Metadata
		want string
	}{
		{"twitter title wins", metadata.Metadata{"twitter:title": "A", "og:title": "B", "title": "C"}, "A"},
		{"og title next", metadata.Metadata{"og:title": "B", "title": "C"}, "B"},
		{"plain title last", metadata.Metadata{"title": "C"}, "C"},
		{"none is empty", metadata.Metadata{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Value("title", tt.md))

			tag, err := g.Generate("twitter:title", "/", "", tt.md)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Empty(t, tag)
			} else {
				assert.Equal(t, `<meta name="twitter:title" content="`+tt.want+"\">\n", tag)
			}
		})
	}
}

func TestTwitterImageFallsBackToConfiguredDefault(t *testing.T) {
	g := &TwitterCardGenerator{DefaultImage: "/img/default.png"}
	assert.Equal(t, "/img/tw.png", g.Value("image", metadata.Metadata{"twitter:image": "/img/tw.png", "og:image": "/img/og.png"}))
	assert.Equal(t, "/img/og.png", g.Value("image", metadata.Metadata{"og:image": "/img/og.png"}))
	assert.Equal(t, "/img/default.png", g.Value("image", metadata.Metadata{}))
}

func TestTwitterSiteHandle(t *testing.T) {
	g := &TwitterCardGenerator{Site: "fallback"}
	assert.Equal(t, "@explicit", g.Value("site", metadata.Metadata{"twitter:site": "@explicit"}))
	assert.Equal(t, "@handle", g.Value("site", metadata.Metadata{"twitter_handle": "handle"}))
	assert.Equal(t, "@fallback", g.Value("site", metadata.Metadata{}))
}

func TestTwitterMainOutput(t *testing.T) {
	g := &TwitterCardGenerator{Site: "@geossg"}
	md := metadata.Metadata{
		"title":          "Hello",
		"description":    "World",
		"og:image":       "https://example.com/a.png",
		"image_alt":      "An image",
		"domain":         "example.com",
		"twitter:card":   "summary_large_image",
		"twitter:player": "https://example.com/player",
	}
	out, err := g.Generate(TwitterCardName, "/", "", md)
	require.NoError(t, err)

	assert.Contains(t, out, `<meta name="twitter:card" content="summary_large_image">`)
	assert.Contains(t, out, `<meta name="twitter:site" content="@geossg">`)
	assert.Contains(t, out, `<meta name="twitter:title" content="Hello">`)
	assert.Contains(t, out, `<meta name="twitter:description" content="World">`)
	assert.Contains(t, out, `<meta name="twitter:image" content="https://example.com/a.png">`)
	assert.Contains(t, out, `<meta name="twitter:image:alt" content="An image">`)
	assert.Contains(t, out, `<meta name="twitter:domain" content="example.com">`)
	assert.NotContains(t, out, "twitter:player", "player fields only for player cards")
	assert.NotContains(t, out, "twitter:creator")
}

func TestTwitterPlayerAndAppCards(t *testing.T) {
	g := &TwitterCardGenerator{}

	player, err := g.Generate(TwitterCardName, "/", "", metadata.Metadata{
		"twitter_card":         "player",
		"twitter:player":       "https://example.com/embed",
		"twitter:player:width": "640",
		"twitter:app:id:ipad":  "123",
	})
	require.NoError(t, err)
	assert.Contains(t, player, `<meta name="twitter:card" content="player">`)
	assert.Contains(t, player, `<meta name="twitter:player" content="https://example.com/embed">`)
	assert.Contains(t, player, `<meta name="twitter:player:width" content="640">`)
	assert.NotContains(t, player, "twitter:app:")

	app, err := g.Generate(TwitterCardName, "/", "", metadata.Metadata{
		"twitter:card":        "app",
		"twitter:app:id:ipad": "123",
	})
	require.NoError(t, err)
	assert.Contains(t, app, `<meta name="twitter:app:id:ipad" content="123">`)
}

func TestTwitterValueKeys(t *testing.T) {
	g := &TwitterCardGenerator{Site: "@site"}
	md := metadata.Metadata{"title": "T"}

	card, err := g.Generate("twitter_value:card", "/", "", md)
	require.NoError(t, err)
	assert.Equal(t, "summary", card)

	site, err := g.Generate("twitter_value:site", "/", "", md)
	require.NoError(t, err)
	assert.Equal(t, "@site", site)

	title, err := g.Generate("twitter_value:title", "/", "", md)
	require.NoError(t, err)
	assert.Equal(t, "T", title)
}
