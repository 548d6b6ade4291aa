// internal/docker/stats.go
package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	units "github.com/docker/go-units"

	"github.com/rusenback/docker-stats-exporter/internal/model"
	"github.com/rusenback/docker-stats-exporter/internal/parse"
)

// sizeUnits renders sizes with exactly the suffixes the parser understands
var sizeUnits = func() []string {
	names := make([]string, len(parse.Units))
	for i, u := range parse.Units {
		// parse.Units is ordered largest first
		names[len(names)-1-i] = u.Suffix
	}
	return names
}()

// StreamContainerStats streams the stats of a container until ctx ends or
// the container stops. Both channels are closed when the stream ends.
func (c *Client) StreamContainerStats(ctx context.Context, id string) (<-chan *types.StatsJSON, <-chan error) {
	statsChan := make(chan *types.StatsJSON)
	errChan := make(chan error, 1)

	go func() {
		defer close(statsChan)
		defer close(errChan)

		resp, err := c.cli.ContainerStats(ctx, id, true) // stream: true
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		decoder := json.NewDecoder(resp.Body)
		for {
			var stats types.StatsJSON
			if err := decoder.Decode(&stats); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				errChan <- err
				return
			}

			select {
			case statsChan <- &stats:
			case <-ctx.Done():
				return
			}
		}
	}()

	return statsChan, errChan
}

// FormatSample renders Engine API stats the way `docker stats` prints them
func FormatSample(name string, stats *types.StatsJSON) model.RawSample {
	memUsage := calculateMemUsageNoCache(stats.MemoryStats)
	netRx, netTx := calculateNetwork(stats.Networks)
	blkRead, blkWrite := calculateBlockIO(stats.BlkioStats)

	return model.RawSample{
		Name:     name,
		CPUPerc:  fmt.Sprintf("%.2f%%", calculateCPUPercent(stats)),
		MemUsage: formatPair(memUsage, stats.MemoryStats.Limit),
		NetIO:    formatPair(netRx, netTx),
		BlockIO:  formatPair(blkRead, blkWrite),
	}
}

func formatPair(a, b uint64) string {
	return formatSize(a) + " / " + formatSize(b)
}

func formatSize(n uint64) string {
	return units.CustomSize("%.4g%s", float64(n), 1024.0, sizeUnits)
}

// calculateCPUPercent calculates CPU usage in percent
func calculateCPUPercent(stats *types.StatsJSON) float64 {
	cpuDelta := float64(stats.CPUStats.CPUUsage.TotalUsage) - float64(stats.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(stats.CPUStats.SystemUsage) - float64(stats.PreCPUStats.SystemUsage)

	onlineCPUs := float64(stats.CPUStats.OnlineCPUs)
	if onlineCPUs == 0 {
		onlineCPUs = float64(len(stats.CPUStats.CPUUsage.PercpuUsage))
	}

	if systemDelta > 0.0 && cpuDelta > 0.0 {
		return (cpuDelta / systemDelta) * onlineCPUs * 100.0
	}
	return 0.0
}

// calculateMemUsageNoCache subtracts the page cache like the docker CLI
func calculateMemUsageNoCache(mem types.MemoryStats) uint64 {
	// cgroup v1
	if v, ok := mem.Stats["total_inactive_file"]; ok && v < mem.Usage {
		return mem.Usage - v
	}
	// cgroup v2
	if v := mem.Stats["inactive_file"]; v < mem.Usage {
		return mem.Usage - v
	}
	return mem.Usage
}

func calculateNetwork(networks map[string]types.NetworkStats) (uint64, uint64) {
	var rx, tx uint64
	for _, network := range networks {
		rx += network.RxBytes
		tx += network.TxBytes
	}
	return rx, tx
}

func calculateBlockIO(blkio types.BlkioStats) (uint64, uint64) {
	var read, write uint64
	for _, entry := range blkio.IoServiceBytesRecursive {
		switch strings.ToLower(entry.Op) {
		case "read":
			read += entry.Value
		case "write":
			write += entry.Value
		}
	}
	return read, write
}
