package site

import (
	"sort"

	"go.uber.org/zap"

	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/metadata"
)

// Origin says which part of the configuration produced a page.
type Origin string

const (
	OriginStatic        Origin = "static"
	OriginParameterized Origin = "parameterized"
	OriginContent       Origin = "content"
)

// Page is one concrete route ready for the pipeline.
type Page struct {
	Path     string
	Metadata metadata.Metadata
	// Content is the rendered page body; empty when no content file matches.
	Content string
	Origin  Origin
	Params  map[string]string
}

// Plan lists every page of the site: static routes sorted by path, then the
// expansion of each parameterized route in declared order, then content
// files no route mentions. A path claimed twice keeps its first page.
func (b *Builder) Plan() []Page {
	cfg := b.cfg
	global := cfg.GlobalMetadata()
	table := cfg.RouteTable()
	resolve := metadata.Resolve
	if cfg.General.InheritRouteMetadata {
		resolve = metadata.ResolveInherited
	}

	var pages []Page
	seen := make(map[string]bool)
	add := func(p Page) {
		if seen[p.Path] {
			b.logger.Warn("Route already planned; skipping duplicate",
				logger.Path(p.Path), zap.String("origin", string(p.Origin)))
			return
		}
		seen[p.Path] = true
		pages = append(pages, b.attachContent(p))
	}

	static := make([]string, 0, len(table))
	for path := range table {
		static = append(static, path)
	}
	sort.Strings(static)
	for _, path := range static {
		add(Page{Path: path, Metadata: resolve(global, table, path), Origin: OriginStatic})
	}

	for _, route := range cfg.PatternRoutes() {
		for _, er := range b.expander.Expand(global, route) {
			md := er.Metadata
			if entry, ok := table[er.Path]; ok {
				md.Merge(entry)
			}
			add(Page{Path: er.Path, Metadata: md, Origin: OriginParameterized, Params: er.Params})
		}
	}

	for _, path := range b.content.Routes() {
		if !seen[path] {
			add(Page{Path: path, Metadata: resolve(global, table, path), Origin: OriginContent})
		}
	}
	return pages
}

// attachContent injects the page path, overlays content front matter and
// fills the title from the first heading when nothing else set one.
func (b *Builder) attachContent(p Page) Page {
	p.Metadata["path"] = p.Path
	page, ok := b.content.Lookup(p.Path)
	if !ok {
		return p
	}
	p.Content = page.HTML
	p.Metadata.Merge(page.Metadata)
	p.Metadata["path"] = p.Path
	if page.Heading != "" {
		p.Metadata.SetDefault("title", page.Heading)
	}
	return p
}
