// internal/model/stats.go
package model

// RawSample is one line of `docker stats --format "{{json .}}"` output.
// All values are kept exactly as the runtime printed them.
type RawSample struct {
	Name     string `json:"Name"`
	CPUPerc  string `json:"CPUPerc"`
	MemUsage string `json:"MemUsage"`
	NetIO    string `json:"NetIO"`
	BlockIO  string `json:"BlockIO"`
}

// Metrics holds the normalized resource usage of a single container
type Metrics struct {
	// CPU
	CPUPercent float64

	// Memory
	MemoryUsage uint64
	MemoryLimit uint64

	// Network
	NetworkRx uint64 // Total bytes received
	NetworkTx uint64 // Total bytes transmitted

	// Block I/O (Disk)
	BlockRead  uint64
	BlockWrite uint64
}

// MemoryPercent returns usage relative to the limit, or 0 without a limit
func (m Metrics) MemoryPercent() float64 {
	if m.MemoryLimit == 0 {
		return 0
	}
	return float64(m.MemoryUsage) / float64(m.MemoryLimit) * 100.0
}

// ContainerMetrics pairs a container name with its latest metrics
type ContainerMetrics struct {
	Name    string
	Metrics Metrics
}
