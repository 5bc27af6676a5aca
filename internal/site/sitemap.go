package site

import (
	"bytes"
	"encoding/xml"
	"path/filepath"

	"go.uber.org/zap"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/utils"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders the sitemap for the written pages. Pages without a
// canonical URL or marked noindex are left out, and a canonical URL shared by
// several pages is listed once.
func Sitemap(pages []WrittenPage) ([]byte, int, error) {
	set := sitemapURLSet{XMLNS: sitemapNamespace}
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		if p.Canonical == "" || p.NoIndex || seen[p.Canonical] {
			continue
		}
		seen[p.Canonical] = true
		set.URLs = append(set.URLs, sitemapURL{Loc: p.Canonical, LastMod: p.LastMod})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, 0, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), len(set.URLs), nil
}

func (b *Builder) writeSitemap(outDir string, report *Report, log *zap.Logger) error {
	if !b.cfg.General.Sitemap {
		return nil
	}
	if b.cfg.General.Domain == "" {
		log.Debug("No domain configured; skipping sitemap")
		return nil
	}
	data, n, err := Sitemap(report.Written)
	if err != nil {
		return ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "failed to encode sitemap").Build()
	}
	path := filepath.Join(outDir, "sitemap.xml")
	if err := utils.WriteFile(path, data); err != nil {
		return ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "failed to write sitemap").WithPath(path).Build()
	}
	report.Sitemap = path
	log.Debug("Sitemap written", logger.File(path), logger.Count("urls", n))
	return nil
}
