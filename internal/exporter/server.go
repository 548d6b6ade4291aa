package exporter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// MetricsPath is where the exposition is served
const MetricsPath = "/metrics"

// Server serves the container gauges over HTTP
type Server struct {
	srv      *http.Server
	registry *prometheus.Registry
	log      logrus.FieldLogger
}

// NewServer registers a Collector over source and prepares the handler.
// The listener is not opened until ListenAndServe or Serve.
func NewServer(addr string, source Snapshotter, log logrus.FieldLogger) (*Server, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(source)); err != nil {
		return nil, fmt.Errorf("register collector: %w", err)
	}

	s := &Server{
		registry: registry,
		log:      log.WithField("addr", addr),
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog:      s.log,
		ErrorHandling: promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServe blocks until the server is shut down
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is shut down
func (s *Server) Serve(ln net.Listener) error {
	s.log.Infof("Prometheus endpoint on http://%s%s", ln.Addr(), MetricsPath)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight scrapes
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
