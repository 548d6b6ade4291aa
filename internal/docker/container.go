// internal/docker/container.go
package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
)

// Container identifies a running container
type Container struct {
	ID   string
	Name string
}

// RunningContainers lists the containers `docker stats` would show
func (c *Client) RunningContainers(ctx context.Context) ([]Container, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, err
	}

	result := make([]Container, 0, len(containers))
	for _, cont := range containers {
		name := cont.ID
		if len(cont.Names) > 0 {
			// Remove the leading "/" from the container name
			name = strings.TrimPrefix(cont.Names[0], "/")
		}
		result = append(result, Container{
			ID:   cont.ID,
			Name: name,
		})
	}

	return result, nil
}
