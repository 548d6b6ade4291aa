// internal/docker/interface.go
package docker

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
)

// Source produces a stream of `docker stats --format "{{json .}}"` lines
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// StatsClient is the part of the Engine API the APISource needs.
// Tests replace it with a fake.
type StatsClient interface {
	RunningContainers(ctx context.Context) ([]Container, error)
	StreamContainerStats(ctx context.Context, id string) (<-chan *types.StatsJSON, <-chan error)
}

// Make sure the implementations satisfy the interfaces
var (
	_ StatsClient = (*Client)(nil)
	_ Source      = (*APISource)(nil)
	_ Source      = (*CLISource)(nil)
)
