// Package progressws streams sync progress snapshots to websocket clients.
//
// Every connected client receives a JSON SyncProgress for each snapshot the
// sync engine publishes while it is connected. Slow clients lose their oldest
// queued snapshots rather than stall the engine; the latest one is kept.
package progressws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// Source publishes progress snapshots.
type Source interface {
	Subscribe(fn func(models.SyncProgress)) (unsubscribe func())
}

const (
	clientBuffer = 32
	writeTimeout = 5 * time.Second
)

// Handler serves GET /progress.
type Handler struct {
	src Source
	log logging.Logger

	mu      sync.Mutex
	clients int
}

func NewHandler(src Source, log logging.Logger) *Handler {
	return &Handler{src: src, log: log}
}

// ClientCount returns the number of connected clients.
func (h *Handler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

func (h *Handler) track(delta int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients += delta
	return h.clients
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	n := h.track(1)
	defer h.track(-1)
	h.log.Debug(r.Context(), "progress client connected", "clients", n)

	updates := make(chan models.SyncProgress, clientBuffer)
	unsubscribe := h.src.Subscribe(func(p models.SyncProgress) {
		if offerLatest(updates, p) {
			h.log.Debug(context.Background(), "progress client too slow, dropped oldest snapshot")
		}
	})
	defer unsubscribe()

	// CloseRead handles control frames and cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-updates:
			data, err := json.Marshal(p)
			if err != nil {
				h.log.Error(ctx, "marshal progress", "error", err)
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.log.Debug(ctx, "progress client write failed", "error", err)
				return
			}
		}
	}
}

// offerLatest enqueues p without blocking. When ch is full the oldest queued
// snapshot is evicted, so the newest one (including a run's final snapshot)
// always reaches the client. It reports whether anything was dropped.
func offerLatest(ch chan models.SyncProgress, p models.SyncProgress) (dropped bool) {
	for {
		select {
		case ch <- p:
			return dropped
		default:
		}
		select {
		case <-ch:
			dropped = true
		default:
		}
	}
}

// Server hosts the progress feed on its own listener.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log logging.Logger
	wg  sync.WaitGroup
}

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves in the
// background.
func Start(addr string, src Source, log logging.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/progress", NewHandler(src, log))

	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		ln:  ln,
		log: log,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "progress server error", "error", err)
		}
	}()
	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Stop shuts the server down, waiting up to five seconds for open streams.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = s.srv.Close()
	}
	s.wg.Wait()
	if err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}
