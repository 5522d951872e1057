package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/viswa-prakash/estatebot/internal/concurrency"
	"github.com/viswa-prakash/estatebot/internal/config"
)

// Health reports whether the server is serving.
type Health struct {
	Name    string
	Healthy bool
	Error   error
}

// HTTPServer owns the listener lifecycle of the web front end.
type HTTPServer struct {
	cfg         config.ServerConfig
	handler     http.Handler
	server      *http.Server
	listener    net.Listener
	shutdownTTL time.Duration
	initialized bool
	started     bool
	mu          sync.RWMutex
	startTime   time.Time
}

func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *HTTPServer {
	return &HTTPServer{cfg: cfg, handler: handler}
}

func (h *HTTPServer) Name() string {
	return "HTTPServer"
}

func (h *HTTPServer) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	readTimeout, err := config.DurationOrDefault(h.cfg.ReadTimeout, config.DefaultServerReadTimeout)
	if err != nil {
		return fmt.Errorf("parse server read timeout: %w", err)
	}
	writeTimeout, err := config.DurationOrDefault(h.cfg.WriteTimeout, config.DefaultServerWriteTimeout)
	if err != nil {
		return fmt.Errorf("parse server write timeout: %w", err)
	}
	shutdownTimeout, err := config.DurationOrDefault(h.cfg.ShutdownTimeout, config.DefaultServerShutdownTimeout)
	if err != nil {
		return fmt.Errorf("parse server shutdown timeout: %w", err)
	}

	h.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", h.cfg.Port),
		Handler:           h.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
	h.shutdownTTL = shutdownTimeout

	h.initialized = true
	slog.Info("HTTPServer initialized", "component", h.Name(), "port", h.cfg.Port)
	return nil
}

// Start binds the listener and serves in the background.
func (h *HTTPServer) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		return fmt.Errorf("HTTPServer not initialized")
	}
	if h.started {
		return nil
	}

	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.server.Addr, err)
	}
	h.listener = ln

	concurrency.SafeGo(h.Name(), func() {
		slog.Info("HTTP server listening", "component", h.Name(), "addr", ln.Addr().String())
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "component", h.Name(), "error", err)
		}
	}, nil)

	h.started = true
	h.startTime = time.Now()
	return nil
}

// Addr is the bound address, or the configured one before Start.
func (h *HTTPServer) Addr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.listener != nil {
		return h.listener.Addr().String()
	}
	if h.server != nil {
		return h.server.Addr
	}
	return ""
}

func (h *HTTPServer) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		slog.Info("HTTPServer not started, skipping stop", "component", h.Name())
		return nil
	}

	slog.Info("Stopping HTTPServer...", "component", h.Name(), "uptime", time.Since(h.startTime))
	shutdownCtx, cancel := context.WithTimeout(ctx, h.shutdownTTL)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTPServer shutdown error", "component", h.Name(), "error", err)
		return err
	}

	h.started = false
	h.listener = nil
	slog.Info("HTTPServer stopped", "component", h.Name())
	return nil
}

func (h *HTTPServer) Health(ctx context.Context) *Health {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch {
	case !h.initialized:
		return &Health{Name: h.Name(), Error: fmt.Errorf("not initialized")}
	case !h.started:
		return &Health{Name: h.Name(), Error: fmt.Errorf("not started")}
	default:
		return &Health{Name: h.Name(), Healthy: true}
	}
}

// Serve runs the server until ctx is done, then shuts it down.
func (h *HTTPServer) Serve(ctx context.Context) error {
	if err := h.Init(ctx); err != nil {
		return err
	}
	if err := h.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return h.Stop(context.Background())
}
