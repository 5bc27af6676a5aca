package site

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/geossg/internal/config"
	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/metrics"
	"github.com/geocine/geossg/internal/testutil"
)

func newConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.OutputDir = filepath.Join(dir, "dist")
	cfg.General.ContentDir = filepath.Join(dir, "content")
	cfg.General.Concurrency = 2
	return cfg
}

func build(t *testing.T, cfg *config.Config, opts ...Option) *Report {
	t.Helper()
	b, err := New(cfg, opts...)
	require.NoError(t, err)
	report, err := b.Build(context.Background())
	require.NoError(t, err)
	return report
}

func TestBuildConcreteScenario(t *testing.T) {
	dir := testutil.TempSite(t)
	cfg := newConfig(t, dir)
	cfg.General.DefaultTemplate = `<title data-ssg="title">x</title><meta name="description" data-ssg-content="description" content="y">`
	cfg.Routes = []config.RouteConfig{{Path: "/", Metadata: map[string]string{"title": "T", "description": "D"}}}

	report := build(t, cfg)
	require.True(t, report.OK())
	require.Len(t, report.Written, 1)
	assert.NotEmpty(t, report.BuildID)

	got := testutil.ReadFile(t, cfg.General.OutputDir, "index.html")
	assert.Equal(t, `<title>T</title><meta name="description" content="D">`, got)
}

func TestBuildParameterizedRoutes(t *testing.T) {
	dir := testutil.TempSite(t)
	cfg := newConfig(t, dir)
	cfg.General.DefaultTemplate = `<h1>{{title}}</h1><p>{{param_lang}}/{{param_id}}</p>`
	cfg.ParameterizedRoutes = []config.ParameterizedRouteConfig{{
		Pattern:  "/:lang/crate/:id",
		Metadata: map[string]string{"title": "Crate"},
		Parameters: []config.ParameterDefinition{
			{Name: "lang", Values: []string{"en", "de"}},
			{Name: "id", Values: []string{"a", "b", "c"}},
		},
		Variants: []config.ParameterVariant{
			{Values: map[string]string{"id": "b"}, Metadata: map[string]string{"title": "Crate B"}},
		},
	}}

	report := build(t, cfg)
	require.True(t, report.OK())
	require.Len(t, report.Written, 6)

	for _, lang := range []string{"en", "de"} {
		for _, id := range []string{"a", "b", "c"} {
			got := testutil.ReadFile(t, cfg.General.OutputDir, filepath.Join(lang, "crate", id, "index.html"))
			title := "Crate"
			if id == "b" {
				title = "Crate B"
			}
			assert.Equal(t, "<h1>"+title+"</h1><p>"+lang+"/"+id+"</p>", got)
		}
	}
}

func TestBuildFailedPageIsNotWritten(t *testing.T) {
	dir := testutil.TempSite(t)
	testutil.WriteFile(t, dir, "ld/broken.json", `{"@type": `)
	cfg := newConfig(t, dir)
	cfg.General.JSONLDBaseDir = filepath.Join(dir, "ld")
	cfg.Routes = []config.RouteConfig{
		{Path: "/broken", Metadata: map[string]string{"json_ld_file": "broken.json"}},
		{Path: "/fine", Metadata: map[string]string{"title": "Fine"}},
	}

	recorder := metrics.NewPrometheusRecorder(nil)
	report := build(t, cfg, WithRecorder(recorder))

	assert.False(t, report.OK())
	require.Len(t, report.Failed, 1)
	failure := report.Failed[0]
	assert.Equal(t, "/broken", failure.Path)
	assert.Equal(t, "json_ld", failure.Component)
	assert.ErrorIs(t, failure.Err, ssgerrors.ErrGenerationFailure)
	assert.ErrorIs(t, failure.Err, ssgerrors.ErrMalformedExternalDocument)

	assert.False(t, testutil.FileExists(t, filepath.Join(cfg.General.OutputDir, "broken", "index.html")))
	assert.True(t, testutil.FileExists(t, filepath.Join(cfg.General.OutputDir, "fine", "index.html")))
}

func TestBuildWithContentAndBuiltinTemplate(t *testing.T) {
	dir := testutil.TempSite(t)
	testutil.WriteFile(t, dir, "content/index.md", "---\ndescription: Home page\n---\n# Welcome\n\nHello.\n")
	testutil.WriteFile(t, dir, "content/docs/guide.md", "---\nrobots: noindex\n---\n# Guide\n")
	cfg := newConfig(t, dir)
	cfg.General.Domain = "example.com"
	cfg.General.SiteName = "Example"
	cfg.Redirects = map[string]string{"/old": "/docs/guide/"}

	report := build(t, cfg)
	require.True(t, report.OK())
	require.Len(t, report.Written, 2)
	assert.Equal(t, []string{"/old"}, report.Redirects)

	home := testutil.ReadFile(t, cfg.General.OutputDir, "index.html")
	assert.Contains(t, home, "<title>Welcome | Example</title>")
	assert.Contains(t, home, `<meta name="description" content="Home page">`)
	assert.Contains(t, home, `<link rel="canonical" href="https://example.com/">`)
	assert.Contains(t, home, `<h1 id="welcome">Welcome</h1>`)
	assert.Contains(t, home, `application/ld+json`)
	assert.False(t, testutil.HasMarkers(home))

	sitemap := testutil.ReadFile(t, cfg.General.OutputDir, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>https://example.com/</loc>")
	assert.NotContains(t, sitemap, "docs/guide", "noindex pages stay out of the sitemap")

	redirect := testutil.ReadFile(t, cfg.General.OutputDir, "old/index.html")
	assert.Contains(t, redirect, `<link rel="canonical" href="/docs/guide/">`)
}

func TestBuildWithoutDomainSkipsSitemap(t *testing.T) {
	dir := testutil.TempSite(t)
	cfg := newConfig(t, dir)
	cfg.Routes = []config.RouteConfig{{Path: "/", Metadata: map[string]string{"title": "Home"}}}

	report := build(t, cfg)
	assert.Empty(t, report.Sitemap)
	assert.False(t, testutil.FileExists(t, filepath.Join(cfg.General.OutputDir, "sitemap.xml")))
}

func TestBuildCanceled(t *testing.T) {
	dir := testutil.TempSite(t)
	cfg := newConfig(t, dir)
	cfg.Routes = []config.RouteConfig{{Path: "/a"}, {Path: "/b"}}

	b, err := New(cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlan(t *testing.T) {
	dir := testutil.TempSite(t)
	testutil.WriteFile(t, dir, "content/about.md", "---\ntitle: From Content\n---\nbody")
	testutil.WriteFile(t, dir, "content/extra.md", "# Extra")
	cfg := newConfig(t, dir)
	cfg.General.InheritRouteMetadata = true
	cfg.GlobalMetadata["site"] = "g"
	cfg.Routes = []config.RouteConfig{
		{Path: "/de", Metadata: map[string]string{"lang": "de"}},
		{Path: "/de/about", Metadata: map[string]string{"title": "Über"}},
		{Path: "/about", Metadata: map[string]string{"title": "About"}},
	}
	cfg.ParameterizedRoutes = []config.ParameterizedRouteConfig{{
		Pattern:    "/:lang",
		Parameters: []config.ParameterDefinition{{Name: "lang", Values: []string{"de", "fr"}}},
	}}

	b, err := New(cfg)
	require.NoError(t, err)
	pages := b.Plan()

	var paths []string
	byPath := make(map[string]Page)
	for _, p := range pages {
		paths = append(paths, p.Path)
		byPath[p.Path] = p
	}
	assert.Equal(t, []string{"/about", "/de", "/de/about", "/fr", "/extra"}, paths)

	assert.Equal(t, "From Content", byPath["/about"].Metadata["title"], "front matter overlays route metadata")
	assert.Equal(t, "/about", byPath["/about"].Metadata["path"])
	assert.Equal(t, "de", byPath["/de/about"].Metadata["lang"], "ancestor metadata is inherited")
	assert.Equal(t, OriginStatic, byPath["/de"].Origin, "static route wins over the pattern")
	assert.Equal(t, OriginParameterized, byPath["/fr"].Origin)
	assert.Equal(t, "fr", byPath["/fr"].Metadata["param_lang"])
	assert.Equal(t, "Extra", byPath["/extra"].Metadata["title"])
	assert.Equal(t, "g", byPath["/extra"].Metadata["site"])
	assert.True(t, strings.Contains(byPath["/extra"].Content, "Extra</h1>"))
}

func TestOutputPath(t *testing.T) {
	out := filepath.Join("dist")
	tests := []struct {
		route   string
		want    string
		wantErr bool
	}{
		{route: "/", want: filepath.Join(out, "index.html")},
		{route: "/about", want: filepath.Join(out, "about", "index.html")},
		{route: "/a/b/", want: filepath.Join(out, "a", "b", "index.html")},
		{route: "/../../etc/passwd", wantErr: true},
	}
	for _, tt := range tests {
		got, err := OutputPath(out, tt.route)
		if tt.wantErr {
			assert.ErrorIs(t, err, ssgerrors.ErrFileSystem, tt.route)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSitemap(t *testing.T) {
	data, n, err := Sitemap([]WrittenPage{
		{Path: "/", Canonical: "https://example.com/", LastMod: "2024-01-02"},
		{Path: "/de/", Canonical: "https://example.com/"},
		{Path: "/private", Canonical: "https://example.com/private", NoIndex: true},
		{Path: "/nodomain"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	s := string(data)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, s, "<lastmod>2024-01-02</lastmod>")
	assert.Equal(t, 1, strings.Count(s, "<loc>"))
}
