// Package content loads markdown pages, their front matter and rendered HTML.
package content

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/metadata"
)

// Page is one markdown file mapped to a route.
type Page struct {
	Route    string
	File     string
	Metadata metadata.Metadata
	// HTML is the rendered body.
	HTML string
	// Heading is the text of the first level-one heading.
	Heading string
}

// Source indexes markdown pages by route.
type Source struct {
	pages  map[string]*Page
	logger *zap.Logger
}

// RouteForFile maps a path relative to the content directory to a route:
// "index.md" -> "/", "docs/index.md" -> "/docs", "a/b.md" -> "/a/b".
func RouteForFile(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if rel == "index" {
		return "/"
	}
	rel = strings.TrimSuffix(rel, "/index")
	return "/" + rel
}

// Load reads every .md file under dir. A missing directory yields an empty
// source. Files that fail to parse are returned as an error naming the file.
func Load(dir string, log *zap.Logger) (*Source, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Source{pages: make(map[string]*Page), logger: log}
	if dir == "" {
		return s, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Debug("Content directory not found; routes render without content", logger.File(dir))
		return s, nil
	}

	md := NewMarkdown()
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		page, err := loadPage(md, p, RouteForFile(rel))
		if err != nil {
			return err
		}
		if existing, dup := s.pages[page.Route]; dup {
			log.Warn("Two content files map to the same route; keeping the first",
				logger.Path(page.Route), zap.String("kept", existing.File), logger.File(p))
			return nil
		}
		s.pages[page.Route] = page
		return nil
	})
	if err != nil {
		return nil, ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "failed to load content").
			WithPath(dir).
			Build()
	}

	log.Debug("Loaded content", logger.Count("pages", len(s.pages)), logger.File(dir))
	return s, nil
}

func loadPage(md *Markdown, file, route string) (*Page, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	fm, body, err := SplitFrontMatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	html, heading, err := md.Convert([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return &Page{
		Route:    route,
		File:     file,
		Metadata: fm.Metadata(),
		HTML:     html,
		Heading:  heading,
	}, nil
}

// Lookup returns the page for route, ignoring a trailing slash.
func (s *Source) Lookup(route string) (*Page, bool) {
	if s == nil {
		return nil, false
	}
	if p, ok := s.pages[route]; ok {
		return p, true
	}
	if route != "/" {
		p, ok := s.pages[strings.TrimSuffix(route, "/")]
		return p, ok
	}
	return nil, false
}

// Routes lists every content route in sorted order.
func (s *Source) Routes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.pages))
	for r := range s.pages {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of loaded pages.
func (s *Source) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pages)
}
