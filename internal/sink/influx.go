package sink

import (
	"context"
	"fmt"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// Influx writes one point per sample to an InfluxDB 1.x database
type Influx struct {
	cli         client.Client
	database    string
	measurement string
	now         func() time.Time
}

// NewInflux connects lazily, nothing is sent until the first Write
func NewInflux(cfg Config) (*Influx, error) {
	cli, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:    cfg.URL(),
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create influxdb client: %w", err)
	}

	return &Influx{
		cli:         cli,
		database:    cfg.Database,
		measurement: cfg.Measurement,
		now:         time.Now,
	}, nil
}

// Write sends the sample tagged with the container name.
// The InfluxDB client has no context support, cancellation is bounded by
// the client timeout instead.
func (i *Influx) Write(_ context.Context, name string, m model.Metrics) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database: i.database,
	})
	if err != nil {
		return err
	}

	pt, err := client.NewPoint(i.measurement, map[string]string{"name": name}, fields(m), i.now())
	if err != nil {
		return fmt.Errorf("build point: %w", err)
	}
	bp.AddPoint(pt)

	if err := i.cli.Write(bp); err != nil {
		return fmt.Errorf("influxdb write: %w", err)
	}
	return nil
}

// Close releases the HTTP client
func (i *Influx) Close() error {
	return i.cli.Close()
}

// fields uses signed integers, InfluxDB 1.x rejects unsigned fields by default
func fields(m model.Metrics) map[string]interface{} {
	return map[string]interface{}{
		"cpu_percent": m.CPUPercent,
		"mem_usage":   int64(m.MemoryUsage),
		"mem_limit":   int64(m.MemoryLimit),
		"net_input":   int64(m.NetworkRx),
		"net_output":  int64(m.NetworkTx),
		"block_read":  int64(m.BlockRead),
		"block_write": int64(m.BlockWrite),
	}
}
