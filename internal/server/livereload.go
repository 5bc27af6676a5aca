package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LiveReloadPath is the event stream served pages subscribe to.
const LiveReloadPath = "/__livereload"

const reloadScript = `<script>(function(){var es=new EventSource("` + LiveReloadPath + `");` +
	`es.addEventListener("reload",function(){location.reload();});})();</script>`

// Hub fans reload events out to connected browsers over server-sent events.
type Hub struct {
	mu        sync.Mutex
	clients   map[chan string]struct{}
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewHub returns a hub with a 25s heartbeat.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[chan string]struct{}),
		heartbeat: 25 * time.Second,
		logger:    log,
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	fmt.Fprint(w, ":ok\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ":hb\n\n")
			flusher.Flush()
		case msg := <-ch:
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Broadcast queues msg for every client and returns how many were reached.
// A client that has not drained its previous message is skipped.
func (h *Hub) Broadcast(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	sent := 0
	for ch := range h.clients {
		select {
		case ch <- msg:
			sent++
		default:
		}
	}
	h.logger.Debug("Reload broadcast", zap.Int("clients", sent))
	return sent
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) subscribe() chan string {
	ch := make(chan string, 1)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}
