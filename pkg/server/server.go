package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"helios-hq/atlas/pkg/telemetry/metrics"
)

// Server exposes metrics and health over HTTP for one Atlas process.
type Server struct {
	addr        string
	metricsPath string
	process     string
	collector   *metrics.Collector

	httpServer *http.Server
	mu         sync.RWMutex
	isRunning  bool
	listenAddr string
}

// NewServer creates a telemetry server. process names the owning
// process in the health payload ("certd" or "edge").
func NewServer(addr, metricsPath, process string, collector *metrics.Collector) *Server {
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Server{
		addr:        addr,
		metricsPath: metricsPath,
		process:     process,
		collector:   collector,
	}
}

// Start begins serving in a background goroutine and returns once the
// listener is bound. Use Shutdown to stop.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("telemetry server is already running")
	}

	mux := http.NewServeMux()
	mux.Handle(s.metricsPath, s.collector.Handler())
	mux.HandleFunc("/healthz", s.handleHealth)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind telemetry listener on %s: %w", s.addr, err)
	}
	s.listenAddr = ln.Addr().String()

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.isRunning = true

	go func() {
		slog.Info("telemetry server listening",
			"address", s.listenAddr,
			"metrics_path", s.metricsPath,
		)
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("telemetry server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, which differs from the
// configured address when port 0 was requested.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listenAddr
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"process": s.process,
	})
}
