package main

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/geocine/geossg/internal/cli"
	"github.com/geocine/geossg/internal/config"
	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/server"
	"github.com/geocine/geossg/internal/utils"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides general.output_dir)"`
	Concurrency int    `short:"j" help:"Pages rendered in parallel (overrides general.concurrency)"`
	Clean       bool   `help:"Empty the output directory before building"`
}

func (b *BuildCmd) Run(root *CLI) error {
	cfg, _, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.General.OutputDir = b.Output
	}
	if b.Concurrency > 0 {
		cfg.General.Concurrency = b.Concurrency
	}
	log := logger.L()
	if err := cfg.Validate(log.Named("config")); err != nil {
		return err
	}
	if b.Clean && utils.DirExists(cfg.General.OutputDir) {
		if err := utils.RemoveDirContents(cfg.General.OutputDir); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()
	report, err := buildSite(ctx, cfg, log)
	if err != nil {
		return err
	}

	fmt.Printf("Built %d pages into '%s' in %s.\n", len(report.Written), cfg.General.OutputDir, report.Duration.Round(time.Millisecond))
	if report.Sitemap != "" {
		fmt.Printf("Sitemap: %s\n", report.Sitemap)
	}
	if !report.OK() {
		for _, f := range report.Failed {
			fmt.Fprintf(os.Stderr, "  %s (%s): %v\n", f.Path, f.Component, f.Err)
		}
		return fmt.Errorf("%d of %d pages failed", len(report.Failed), len(report.Failed)+len(report.Written))
	}
	return nil
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host   string `help:"Interface to listen on" default:"127.0.0.1"`
	Port   int    `short:"p" help:"Port to serve on" default:"3000"`
	Output string `short:"o" help:"Output directory (overrides general.output_dir)"`
	Open   bool   `help:"Open the site in a browser"`
}

func (s *ServeCmd) Run(root *CLI) error {
	cfg, cfgPath, err := root.loadConfig()
	if err != nil {
		return err
	}
	if s.Output != "" {
		cfg.General.OutputDir = s.Output
	}
	log := logger.L()
	if err := cfg.Validate(log.Named("config")); err != nil {
		return err
	}
	outDir := cfg.General.OutputDir

	// Each rebuild reloads the config so edits to it take effect; the
	// output directory stays the one being served.
	rebuild := func(ctx context.Context) error {
		next := cfg
		if cfgPath != "" {
			loaded, err := config.LoadFromFile(cfgPath)
			if err != nil {
				return err
			}
			loaded.ResolvePaths(filepath.Dir(cfgPath))
			if err := loaded.Validate(log.Named("config")); err != nil {
				return err
			}
			next = loaded
		}
		next.General.OutputDir = outDir
		report, err := buildSite(ctx, next, log)
		if err != nil {
			return err
		}
		if !report.OK() {
			log.Warn("Some pages failed", logger.Count("failed", len(report.Failed)))
		}
		return nil
	}

	watch := []string{cfg.General.ContentDir, cfg.General.TemplatePath, cfgPath}
	if cfg.General.JSONLDBaseDir != "" {
		watch = append(watch, cfg.General.JSONLDBaseDir)
	}
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	srv := server.New(server.Options{
		Addr:      addr,
		OutputDir: outDir,
		Watch:     watch,
		Rebuild:   rebuild,
		Logger:    log.Named("serve"),
	})

	ctx, cancel := signalContext()
	defer cancel()
	if s.Open {
		go func() {
			time.Sleep(300 * time.Millisecond)
			if err := openBrowser("http://" + addr); err != nil {
				log.Warn("Failed to open browser", zap.Error(err))
			}
		}()
	}
	return srv.Run(ctx)
}

// openBrowser attempts to open url in the desktop's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	Output string `short:"o" help:"Directory to clean (overrides general.output_dir)"`
}

func (c *CleanCmd) Run(root *CLI) error {
	cfg, _, err := root.loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.General.OutputDir
	if c.Output != "" {
		outDir = c.Output
	}
	if !utils.DirExists(outDir) {
		fmt.Printf("Nothing to clean; directory '%s' does not exist.\n", outDir)
		return nil
	}

	files, dirs, size := dirSummary(outDir)
	if err := utils.RemoveDirContents(outDir); err != nil {
		return err
	}
	fmt.Printf("Removed %d files, %d directories, %s from '%s'.\n", files, dirs, humanBytes(size), outDir)
	return nil
}

func dirSummary(root string) (files, dirs int, size int64) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root {
				dirs++
			}
			return nil
		}
		files++
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return files, dirs, size
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 3; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), []string{"KiB", "MiB", "GiB", "TiB"}[exp])
}

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir      string `arg:"" optional:"" help:"Directory to create" default:"my-site"`
	Name     string `help:"Site name (defaults to the directory name)"`
	Domain   string `help:"Site domain, e.g. https://example.com"`
	Language string `help:"Default language" default:"en"`
	Format   string `help:"Config file format" enum:"toml,yaml,json" default:"toml"`
	Force    bool   `help:"Overwrite an existing config file"`
	Yes      bool   `short:"y" help:"Skip interactive prompts"`
}

func (i *InitCmd) Run() error {
	opts := cli.InitOptions{
		Dir:      i.Dir,
		SiteName: i.Name,
		Domain:   i.Domain,
		Language: i.Language,
		Format:   config.Format(i.Format),
		Force:    i.Force,
	}
	if !i.Yes && isTerminal(os.Stdin) {
		cli.FillInitOptionsInteractive(&opts, os.Stdin, os.Stdout)
	}
	path, err := cli.Init(opts)
	if err != nil {
		return err
	}
	fmt.Printf("Created site in '%s' (config: %s).\n", opts.Dir, path)
	fmt.Printf("Next: cd %s && geossg serve\n", opts.Dir)
	return nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
