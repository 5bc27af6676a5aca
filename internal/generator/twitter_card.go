package generator

import (
	"strings"

	"golang.org/x/net/html"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	TwitterCardName    = "twitter_card"
	DefaultTwitterCard = "summary"
	twitterValuePrefix = "twitter_value:"
	twitterPlayerCard  = "player"
	twitterAppCard     = "app"
)

var (
	twitterBaseFields   = []string{"card", "site", "creator", "title", "description", "image", "image:alt", "domain"}
	twitterPlayerFields = []string{"player", "player:width", "player:height", "player:stream"}
	twitterAppFields    = []string{
		"app:id:iphone", "app:name:iphone",
		"app:id:ipad", "app:name:ipad",
		"app:id:googleplay", "app:name:googleplay",
	}
	twitterValueFields = []string{"card", "site", "creator", "title", "description", "image"}
)

// TwitterCardGenerator emits twitter:* meta tags. Every field resolves through
// its own fallback chain, e.g. title: twitter:title, og:title, title.
type TwitterCardGenerator struct {
	// Site is the fallback @handle of the site.
	Site            string
	DefaultCardType string
	DefaultImage    string
}

func (g *TwitterCardGenerator) Name() string { return TwitterCardName }

func (g *TwitterCardGenerator) SupportedOutputs() []string {
	out := []string{TwitterCardName}
	for _, group := range [][]string{twitterBaseFields, twitterPlayerFields, twitterAppFields} {
		for _, f := range group {
			out = append(out, "twitter:"+f)
		}
	}
	for _, f := range twitterValueFields {
		out = append(out, twitterValuePrefix+f)
	}
	return out
}

func (g *TwitterCardGenerator) Generate(key, _, _ string, md metadata.Metadata) (string, error) {
	if key == TwitterCardName {
		return g.all(md), nil
	}
	if !Supports(g, key) {
		return "", ssgerrors.UnsupportedKey(TwitterCardName, key)
	}
	if field, ok := strings.CutPrefix(key, twitterValuePrefix); ok {
		return html.EscapeString(g.Value(field, md)), nil
	}
	field := strings.TrimPrefix(key, "twitter:")
	if v := g.Value(field, md); v != "" {
		return metaName(key, v), nil
	}
	return "", nil
}

func (g *TwitterCardGenerator) all(md metadata.Metadata) string {
	fields := twitterBaseFields
	switch g.Value("card", md) {
	case twitterPlayerCard:
		fields = append(fields[:len(fields):len(fields)], twitterPlayerFields...)
	case twitterAppCard:
		fields = append(fields[:len(fields):len(fields)], twitterAppFields...)
	}

	hasImage := g.Value("image", md) != ""
	var b strings.Builder
	for _, f := range fields {
		if f == "image:alt" && !hasImage {
			continue
		}
		if v := g.Value(f, md); v != "" {
			b.WriteString(metaName("twitter:"+f, v))
		}
	}
	return b.String()
}

// Value resolves the raw value of a twitter field such as "title" or "player:width".
func (g *TwitterCardGenerator) Value(field string, md metadata.Metadata) string {
	switch field {
	case "card":
		if v, ok := md.First("twitter:card", "twitter_card"); ok {
			return v
		}
		if g.DefaultCardType != "" {
			return g.DefaultCardType
		}
		return DefaultTwitterCard
	case "site":
		if v, ok := md.First("twitter:site"); ok {
			return v
		}
		if v, ok := md.First("twitter_handle"); ok {
			return atHandle(v)
		}
		if g.Site != "" {
			return atHandle(g.Site)
		}
		return ""
	case "title":
		v, _ := md.First("twitter:title", "og:title", "title")
		return v
	case "description":
		v, _ := md.First("twitter:description", "og:description", "description")
		return v
	case "image":
		if v, ok := md.First("twitter:image", "og:image", "default_image"); ok {
			return v
		}
		return g.DefaultImage
	case "image:alt":
		v, _ := md.First("twitter:image:alt", "og:image:alt", "image_alt")
		return v
	case "domain":
		v, _ := md.First("twitter:domain", "domain")
		return v
	}
	v, _ := md.First("twitter:" + field)
	return v
}

func atHandle(h string) string {
	if strings.HasPrefix(h, "@") {
		return h
	}
	return "@" + h
}
