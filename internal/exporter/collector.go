// Package exporter exposes the stored container metrics for Prometheus.
package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// Snapshotter is anything that can list the latest metrics per container
type Snapshotter interface {
	Snapshot() []model.ContainerMetrics
}

// Static is a fixed snapshot, used when pushing a single sample
type Static []model.ContainerMetrics

// Snapshot returns the fixed entries
func (s Static) Snapshot() []model.ContainerMetrics { return s }

type gauge struct {
	desc  *prometheus.Desc
	value func(model.Metrics) float64
}

// Collector reads a snapshot on every scrape, so each container's gauges
// always come from the same sample.
type Collector struct {
	source Snapshotter
	gauges []gauge
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over source
func NewCollector(source Snapshotter) *Collector {
	labels := []string{"name"}
	newDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(name, help, labels, nil)
	}

	return &Collector{
		source: source,
		gauges: []gauge{
			{newDesc("docker_cpu_percent", "CPU usage %"),
				func(m model.Metrics) float64 { return m.CPUPercent }},
			{newDesc("docker_mem_usage_bytes", "Memory used"),
				func(m model.Metrics) float64 { return float64(m.MemoryUsage) }},
			{newDesc("docker_mem_limit_bytes", "Memory limit"),
				func(m model.Metrics) float64 { return float64(m.MemoryLimit) }},
			{newDesc("docker_net_input_bytes", "Network In"),
				func(m model.Metrics) float64 { return float64(m.NetworkRx) }},
			{newDesc("docker_net_output_bytes", "Network Out"),
				func(m model.Metrics) float64 { return float64(m.NetworkTx) }},
			{newDesc("docker_block_read_bytes", "Block I/O Read"),
				func(m model.Metrics) float64 { return float64(m.BlockRead) }},
			{newDesc("docker_block_write_bytes", "Block I/O Write"),
				func(m model.Metrics) float64 { return float64(m.BlockWrite) }},
		},
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, g := range c.gauges {
		ch <- g.desc
	}
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, cm := range c.source.Snapshot() {
		for _, g := range c.gauges {
			ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, g.value(cm.Metrics), cm.Name)
		}
	}
}
