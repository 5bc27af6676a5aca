package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/geocine/geossg/internal/config"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/metrics"
	"github.com/geocine/geossg/internal/site"
)

var version = "dev"

// CLI is the root command with its global flags.
type CLI struct {
	Config    string           `short:"c" help:"Config file (default: first of ssg.toml, ssg.yaml, ssg.yml, ssg.json)"`
	LogLevel  string           `name:"log-level" help:"Override logging.level (debug, info, warn, error)"`
	LogFormat string           `name:"log-format" help:"Override logging.format (text, json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render every configured route into the output directory"`
	Serve ServeCmd `cmd:"" help:"Build, serve and rebuild on change with live reload"`
	Clean CleanCmd `cmd:"" help:"Remove the contents of the output directory"`
	Init  InitCmd  `cmd:"" help:"Scaffold a new site"`
}

func main() {
	var root CLI
	ctx := kong.Parse(&root,
		kong.Name("geossg"),
		kong.Description("SEO-focused static site generator."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&root)
	logger.Sync()
	ctx.FatalIfErrorf(err)
}

// loadConfig finds and loads the config file, applies the logging flags and
// initializes the global logger. Without a config file the defaults are used.
func (c *CLI) loadConfig() (*config.Config, string, error) {
	path := c.Config
	if path == "" {
		path, _ = config.Discover(".")
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
		cfg.ResolvePaths(filepath.Dir(path))
	} else {
		cfg.UpdateFromEnv()
	}

	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, "", fmt.Errorf("init logging: %w", err)
	}
	if path == "" {
		logger.L().Warn("No config file found, using defaults")
	} else {
		logger.L().Debug("Loaded config", logger.File(path))
	}
	return cfg, path, nil
}

// signalContext is canceled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// buildSite runs one build. When general.metrics_file is set the build
// metrics are written there afterwards, whether or not pages failed.
func buildSite(ctx context.Context, cfg *config.Config, log *zap.Logger) (*site.Report, error) {
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.General.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	b, err := site.New(cfg, site.WithLogger(log), site.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}
	report, err := b.Build(ctx)
	if prom != nil {
		if werr := prom.WriteTextfile(cfg.General.MetricsFile); werr != nil {
			log.Warn("Failed to write metrics", zap.Error(werr))
		}
	}
	return report, err
}
