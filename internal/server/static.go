package server

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/geocine/geossg/internal/logger"
	"github.com/geocine/geossg/internal/utils"
)

// StaticHandler serves a built site. HTML responses get the live reload
// script; unknown paths fall back to 404.html when the site has one.
type StaticHandler struct {
	Root       string
	LiveReload bool
	logger     *zap.Logger
}

// NewStaticHandler serves files under root.
func NewStaticHandler(root string, liveReload bool, log *zap.Logger) *StaticHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StaticHandler{Root: root, LiveReload: liveReload, logger: log}
}

func (s *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, err := s.resolve(r.URL.Path)
	if err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	if target == "" {
		s.notFound(w, r)
		return
	}
	if isHTML(target) {
		s.serveHTML(w, target, http.StatusOK)
		return
	}
	http.ServeFile(w, r, target)
}

// resolve maps a request path to a file under Root. Directories resolve to
// their index.html; "" means nothing matched.
func (s *StaticHandler) resolve(urlPath string) (string, error) {
	p, err := utils.RoutePath(s.Root, urlPath)
	if err != nil {
		return "", err
	}
	if utils.DirExists(p) {
		p = filepath.Join(p, "index.html")
	}
	if !utils.FileExists(p) {
		return "", nil
	}
	return p, nil
}

func (s *StaticHandler) notFound(w http.ResponseWriter, r *http.Request) {
	page := filepath.Join(s.Root, "404.html")
	if utils.FileExists(page) {
		s.serveHTML(w, page, http.StatusNotFound)
		return
	}
	http.NotFound(w, r)
}

func (s *StaticHandler) serveHTML(w http.ResponseWriter, file string, status int) {
	doc, err := os.ReadFile(file)
	if err != nil {
		s.logger.Warn("Failed to read page", logger.File(file), zap.Error(err))
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	if s.LiveReload {
		doc = injectReloadScript(doc)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(doc)
}

func isHTML(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	return ext == ".html" || ext == ".htm"
}

// injectReloadScript places the script before the last </body>, or appends
// it when the document has none.
func injectReloadScript(doc []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(doc), []byte("</body>"))
	if idx < 0 {
		return append(doc, reloadScript...)
	}
	out := make([]byte, 0, len(doc)+len(reloadScript))
	out = append(out, doc[:idx]...)
	out = append(out, reloadScript...)
	return append(out, doc[idx:]...)
}
