package sink

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/rusenback/docker-stats-exporter/internal/exporter"
	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// Pushgateway replaces the gauges of one container group on every sample
type Pushgateway struct {
	url string
	job string
}

// NewPushgateway pushes to cfg.URL() under job cfg.Measurement
func NewPushgateway(cfg Config) *Pushgateway {
	return &Pushgateway{
		url: cfg.URL(),
		job: cfg.Measurement,
	}
}

// Write pushes the seven gauges of one container. The group key is
// "container" since the gateway refuses grouping labels that also appear
// on the pushed series.
func (p *Pushgateway) Write(ctx context.Context, name string, m model.Metrics) error {
	c := exporter.NewCollector(exporter.Static{{Name: name, Metrics: m}})
	err := push.New(p.url, p.job).
		Collector(c).
		Grouping("container", name).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push to gateway: %w", err)
	}
	return nil
}

// Close is a no-op
func (p *Pushgateway) Close() error {
	return nil
}
