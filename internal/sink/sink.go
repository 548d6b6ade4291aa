// Package sink pushes every ingested sample to an external time-series store.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// Targets understood by New
const (
	TargetInflux      = "influxdb"
	TargetPushgateway = "pushgateway"
)

// ErrUnknownTarget is returned by New for an unsupported target name
var ErrUnknownTarget = errors.New("unknown sink target")

// DefaultTimeout bounds a single write
const DefaultTimeout = 5 * time.Second

// Sink receives one record per ingested sample
type Sink interface {
	Write(ctx context.Context, name string, m model.Metrics) error
	Close() error
}

// Config selects and addresses a sink
type Config struct {
	Target      string
	Host        string
	Port        int
	Database    string
	Measurement string
	Timeout     time.Duration
}

// URL is the base address of the sink
func (c Config) URL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// New creates the sink named by cfg.Target
func New(cfg Config) (Sink, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Target {
	case TargetInflux:
		return NewInflux(cfg)
	case TargetPushgateway:
		return NewPushgateway(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, cfg.Target)
	}
}
