// Package server previews a built site over HTTP and rebuilds it when its
// sources change, telling connected browsers to reload.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RebuildFunc produces the site again. A returned error keeps the previous
// output in place and skips the reload.
type RebuildFunc func(ctx context.Context) error

// Options configure a preview server.
type Options struct {
	Addr      string
	OutputDir string
	Watch     []string
	Debounce  time.Duration
	Rebuild   RebuildFunc
	Logger    *zap.Logger
}

// Server serves OutputDir and rebuilds on changes under Watch.
type Server struct {
	opts   Options
	hub    *Hub
	logger *zap.Logger
}

// New applies defaults: 127.0.0.1:3000 and a 150ms debounce.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:3000"
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 150 * time.Millisecond
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{opts: opts, hub: NewHub(log.Named("livereload")), logger: log}
}

// Handler routes the live reload stream and the static site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(LiveReloadPath, s.hub)
	mux.Handle("/", NewStaticHandler(s.opts.OutputDir, true, s.logger.Named("static")))
	return mux
}

// Run builds once, then serves and watches until ctx is canceled. A failed
// initial build is logged and serving continues.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx, false)

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Open event streams end with ctx so Shutdown does not wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	s.logger.Info("Serving site", zap.String("url", "http://"+ln.Addr().String()))

	watcher, err := NewWatcher(s.opts.Watch, []string{s.opts.OutputDir}, s.opts.Debounce, s.logger.Named("watch"))
	if err != nil {
		_ = httpServer.Close()
		return err
	}

	// A buffered slot coalesces changes that arrive while a build is running.
	pending := make(chan struct{}, 1)
	go func() {
		_ = watcher.Run(ctx, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}()

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(httpServer)
		case err, ok := <-serveErr:
			if ok && err != nil {
				return err
			}
			return nil
		case <-pending:
			s.rebuild(ctx, true)
		}
	}
}

func (s *Server) rebuild(ctx context.Context, notify bool) {
	if s.opts.Rebuild == nil {
		return
	}
	start := time.Now()
	if err := s.opts.Rebuild(ctx); err != nil {
		s.logger.Warn("Rebuild failed", zap.Error(err))
		return
	}
	s.logger.Info("Rebuilt site", zap.Duration("duration", time.Since(start)))
	if notify {
		s.hub.Broadcast(strconv.FormatInt(time.Now().UnixNano(), 10))
	}
}

func (s *Server) shutdown(httpServer *http.Server) error {
	s.logger.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
