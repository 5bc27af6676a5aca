package generator

import (
	"strings"

	"golang.org/x/net/html"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metadata"
)

const (
	TitleName    = "title_tag"
	titleTextKey = "page_title"
)

// TitleGenerator builds the document <title>.
//
// Format may reference {title}, {site_name} and {path}; "{title} | {site_name}"
// is a common choice. An empty format emits the title alone.
type TitleGenerator struct {
	DefaultTitle string
	Format       string
}

func (g *TitleGenerator) Name() string { return TitleName }

func (g *TitleGenerator) SupportedOutputs() []string {
	return []string{TitleName, titleTextKey}
}

func (g *TitleGenerator) Generate(key, route, _ string, md metadata.Metadata) (string, error) {
	switch key {
	case TitleName:
		return "<title>" + html.EscapeString(g.text(route, md)) + "</title>", nil
	case titleTextKey:
		return html.EscapeString(g.text(route, md)), nil
	}
	return "", ssgerrors.UnsupportedKey(TitleName, key)
}

func (g *TitleGenerator) text(route string, md metadata.Metadata) string {
	title, ok := md.First("title")
	if !ok {
		title = g.DefaultTitle
	}
	if g.Format == "" || title == "" {
		return title
	}
	siteName := md.Get("site_name")
	if siteName == "" {
		return title
	}
	r := strings.NewReplacer("{title}", title, "{site_name}", siteName, "{path}", pagePath(route, md))
	return r.Replace(g.Format)
}
