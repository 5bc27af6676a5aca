// Package site plans the pages of a site and runs each one through the
// generator registry and processor chain.
package site

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/geocine/geossg/internal/config"
	"github.com/geocine/geossg/internal/content"
	ssgerrors "github.com/geocine/geossg/internal/errors"
	"github.com/geocine/geossg/internal/generator"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/metadata"
	"github.com/geocine/geossg/internal/metrics"
	"github.com/geocine/geossg/internal/processor"
	"github.com/geocine/geossg/internal/renderer"
	"github.com/geocine/geossg/internal/utils"
)

// Builder turns a configuration into a written site.
type Builder struct {
	cfg       *config.Config
	registry  *generator.Registry
	chain     *processor.Chain
	base      *renderer.BaseTemplate
	content   *content.Source
	expander  *metadata.Expander
	canonical *generator.CanonicalLinkGenerator
	recorder  metrics.Recorder
	logger    *zap.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithContent uses src instead of loading general.content_dir.
func WithContent(src *content.Source) Option {
	return func(b *Builder) { b.content = src }
}

// WithRegistry replaces the built-in generators.
func WithRegistry(r *generator.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// New wires the registry, processor chain, base template and content source
// described by cfg.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	b := &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.recorder == nil {
		b.recorder = metrics.NoopRecorder{}
	}

	if b.registry == nil {
		b.registry = cfg.Registry(b.logger.Named("generator"))
	}
	chain, err := cfg.Chain(b.registry)
	if err != nil {
		return nil, err
	}
	b.chain = chain

	if b.content == nil {
		src, err := content.Load(cfg.General.ContentDir, b.logger.Named("content"))
		if err != nil {
			return nil, err
		}
		b.content = src
	}

	opt := cfg.GeneratorOptions()
	b.canonical = &generator.CanonicalLinkGenerator{
		Domain:             opt.Domain,
		DefaultLanguage:    opt.DefaultLanguage,
		CanonicalToDefault: opt.CanonicalToDefault,
	}
	b.base = renderer.LoadBaseTemplate(cfg.General.TemplatePath, cfg.General.DefaultTemplate, b.logger)
	b.expander = metadata.NewExpander(b.logger.Named("expander"))
	return b, nil
}

// RenderPage runs one page through generators, the base template and the
// processor chain. Failures carry the failing component's name.
func (b *Builder) RenderPage(p Page) (string, error) {
	outputs, err := b.registry.Generate(p.Path, p.Content, p.Metadata)
	if err != nil {
		return "", err
	}

	doc, err := b.base.Render(p.Path, p.Metadata, outputs, p.Content)
	if err != nil {
		return "", ssgerrors.TransformFailure("base_template", err).WithPath(p.Path)
	}

	doc, err = b.chain.Process(doc, p.Metadata, outputs, p.Content)
	if err != nil {
		if se, ok := ssgerrors.As(err); ok {
			return "", se.WithPath(p.Path)
		}
		return "", err
	}
	return doc, nil
}

// OutputPath is where a route's document is written:
// "/" -> <out>/index.html, "/a/b" -> <out>/a/b/index.html.
func OutputPath(outDir, route string) (string, error) {
	dir, err := utils.RoutePath(outDir, route)
	if err != nil {
		return "", ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "invalid output path").WithPath(route).Build()
	}
	return filepath.Join(dir, "index.html"), nil
}

func (b *Builder) concurrency() int {
	if n := b.cfg.General.Concurrency; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Build renders and writes every planned page. A failed page is recorded in
// the report and not written; its siblings continue. The returned error is
// reserved for cancellation and site-level write failures.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := newReport(uuid.NewString(), start)
	log := b.logger.With(logger.BuildID(report.BuildID))
	outDir := b.cfg.General.OutputDir

	pages := b.Plan()
	log.Info("Building site",
		logger.Count("pages", len(pages)),
		zap.String("output_dir", outDir),
		zap.String("template", string(b.base.Origin)))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())

	for _, page := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pageStart := time.Now()
			written, err := b.buildPage(outDir, page)
			b.recorder.ObservePageDuration(time.Since(pageStart))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failure := newFailure(page.Path, err)
				report.Failed = append(report.Failed, failure)
				b.recorder.IncPageResult(metrics.ResultFailed)
				b.recorder.IncPageFailure(failure.Component)
				log.Error("Page failed", logger.Path(page.Path), logger.Component(failure.Component), zap.Error(err))
				return nil
			}
			report.Written = append(report.Written, written)
			b.recorder.IncPageResult(metrics.ResultWritten)
			log.Debug("Page written", logger.Path(page.Path), logger.File(written.File))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report.finish(), err
	}
	if err := ctx.Err(); err != nil {
		return report.finish(), err
	}

	report.sortResults()
	if err := b.writeRedirects(outDir, report, log); err != nil {
		return report.finish(), err
	}
	if err := b.writeSitemap(outDir, report, log); err != nil {
		return report.finish(), err
	}

	report.finish()
	b.recorder.ObserveBuildDuration(report.Duration)
	log.Info("Build finished",
		logger.Count("written", len(report.Written)),
		logger.Count("failed", len(report.Failed)),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func (b *Builder) buildPage(outDir string, p Page) (WrittenPage, error) {
	path, err := OutputPath(outDir, p.Path)
	if err != nil {
		return WrittenPage{}, err
	}
	doc, err := b.RenderPage(p)
	if err != nil {
		return WrittenPage{}, err
	}
	if err := utils.WriteFile(path, []byte(doc)); err != nil {
		return WrittenPage{}, ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "failed to write page").WithPath(p.Path).Build()
	}
	return WrittenPage{
		Path:      p.Path,
		File:      path,
		Canonical: b.canonical.CanonicalURL(p.Path, p.Metadata),
		LastMod:   lastModified(p.Metadata),
		NoIndex:   strings.Contains(strings.ToLower(p.Metadata.Get("robots")), "noindex"),
	}, nil
}

func (b *Builder) writeRedirects(outDir string, report *Report, log *zap.Logger) error {
	written := make(map[string]bool, len(report.Written))
	for _, w := range report.Written {
		written[w.Path] = true
	}
	for _, r := range renderer.Redirects(b.cfg.Redirects) {
		if written[r.From] {
			log.Warn("Redirect source is also a page; keeping the page", logger.Path(r.From))
			continue
		}
		path, err := OutputPath(outDir, r.From)
		if err != nil {
			return err
		}
		doc, err := renderer.RenderRedirect(r)
		if err != nil {
			return err
		}
		if err := utils.WriteFile(path, []byte(doc)); err != nil {
			return ssgerrors.Wrap(err, ssgerrors.KindFileSystem, "failed to write redirect").WithPath(r.From).Build()
		}
		report.Redirects = append(report.Redirects, r.From)
	}
	return nil
}

func lastModified(md metadata.Metadata) string {
	v, _ := md.First("lastmod", "date_modified", "date")
	return v
}
