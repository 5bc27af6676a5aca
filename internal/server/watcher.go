package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/geocine/geossg/internal/logger"
)

// Watcher reports debounced changes under a set of files and directories.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	ignore   []string
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher watches every path that exists. Directories are watched
// recursively; single files are matched by name inside their parent.
// Events under an ignored directory are dropped.
func NewWatcher(paths, ignore []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, files: map[string]bool{}, debounce: debounce, logger: log}
	for _, p := range ignore {
		if abs, err := filepath.Abs(p); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			log.Debug("Skipping missing watch path", logger.Path(p))
			continue
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
			w.addRecursive(abs)
			continue
		}
		w.files[abs] = true
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			log.Warn("Watch add failed", logger.Path(abs), zap.Error(err))
		}
	}
	return w, nil
}

// Run delivers change notifications to onChange until ctx is done. Bursts
// of events within the debounce window produce one call.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fsw.Close()

	var mu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, onChange)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addRecursive(ev.Name)
				}
			}
			w.logger.Debug("Change detected", logger.Path(ev.Name), zap.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	if ignoredName(filepath.Base(name)) {
		return false
	}
	for _, dir := range w.ignore {
		if within(dir, name) {
			return false
		}
	}
	if w.files[name] {
		return true
	}
	for _, dir := range w.dirs {
		if within(dir, name) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		for _, dir := range w.ignore {
			if within(dir, p) {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(p); err != nil {
			w.logger.Warn("Watch add failed", logger.Path(p), zap.Error(err))
		}
		return nil
	})
}

func within(dir, name string) bool {
	rel, err := filepath.Rel(dir, name)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ignoredName matches hidden files and editor swap or backup files.
func ignoredName(base string) bool {
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
