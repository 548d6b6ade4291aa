// Package app wires the stats source, the ingester and the selected
// reporting target together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rusenback/docker-stats-exporter/internal/config"
	"github.com/rusenback/docker-stats-exporter/internal/docker"
	"github.com/rusenback/docker-stats-exporter/internal/exporter"
	"github.com/rusenback/docker-stats-exporter/internal/ingest"
	"github.com/rusenback/docker-stats-exporter/internal/sink"
	"github.com/rusenback/docker-stats-exporter/internal/storage"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg      *config.Config
	log      *logrus.Logger
	source   docker.Source
	listener net.Listener
	store    *storage.Storage
}

type Option func(*App)

// WithSource replaces the source selected by the configuration
func WithSource(src docker.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithListener serves the pull variant on ln instead of the configured port
func WithListener(ln net.Listener) Option {
	return func(a *App) {
		a.listener = ln
	}
}

func New(cfg *config.Config, log *logrus.Logger, opts ...Option) *App {
	a := &App{
		cfg: cfg,
		log: log,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.store = storage.NewStorage(storage.WithEviction(cfg.EvictAfter))
	return a
}

// Store is the metrics store fed by the ingester
func (a *App) Store() *storage.Storage {
	return a.store
}

// Run blocks until ctx ends. The push variant also returns once the
// stats source is exhausted.
func (a *App) Run(ctx context.Context) error {
	defer a.store.Close()

	if a.cfg.IsPush() {
		return a.runPush(ctx)
	}
	return a.runPull(ctx)
}

func (a *App) runPull(ctx context.Context) error {
	srv, err := exporter.NewServer(a.cfg.ListenAddr(), a.store, a.log)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		if a.listener != nil {
			serveErr <- srv.Serve(a.listener)
			return
		}
		serveErr <- srv.ListenAndServe()
	}()

	ing := ingest.New(a.store, a.log)
	go func() {
		if err := a.Ingest(ctx, ing); err != nil {
			a.log.WithError(err).Error("Stats ingestion stopped")
		}
		if ctx.Err() == nil {
			a.log.Warn("Stats source ended, serving last known values")
		}
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) runPush(ctx context.Context) error {
	s, err := sink.New(sink.Config{
		Target:      a.cfg.Target,
		Host:        a.cfg.Host,
		Port:        a.cfg.Port,
		Database:    a.cfg.Database,
		Measurement: a.cfg.Measurement,
		Timeout:     a.cfg.SinkTimeout,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	log := a.log.WithField("target", a.cfg.Target)
	log.Infof("Writing samples to %s", sink.Config{Host: a.cfg.Host, Port: a.cfg.Port}.URL())

	ing := ingest.New(a.store, log, ingest.WithSink(s), ingest.WithSinkTimeout(a.cfg.SinkTimeout))
	if err := a.Ingest(ctx, ing); err != nil {
		return err
	}

	ingested, dropped, failures := ing.Stats()
	log.WithFields(logrus.Fields{
		"ingested":      ingested,
		"dropped":       dropped,
		"sink_failures": failures,
	}).Info("Stats source ended")
	return nil
}

// Ingest opens the source and feeds it to ing until it ends. Cancellation
// of ctx is not an error.
func (a *App) Ingest(ctx context.Context, ing *ingest.Ingester) error {
	r, cleanup, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	err = ing.Run(ctx, r)
	if cerr := r.Close(); cerr != nil {
		a.log.WithError(cerr).Debug("Closing stats source")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) openSource(ctx context.Context) (io.ReadCloser, func(), error) {
	if a.source != nil {
		r, err := a.source.Open(ctx)
		return r, func() {}, err
	}

	switch a.cfg.Source {
	case config.SourceAPI:
		dcfg := docker.DefaultConfig()
		dcfg.Host = a.cfg.DockerHost

		client, err := docker.NewClient(ctx, dcfg)
		if err != nil {
			return nil, nil, err
		}
		r, err := docker.NewAPISource(client, 0, a.log).Open(ctx)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("stream container stats: %w", err)
		}
		return r, func() { client.Close() }, nil

	default:
		r, err := docker.NewCLISource(a.cfg.DockerBin, a.log).Open(ctx)
		return r, func() {}, err
	}
}
