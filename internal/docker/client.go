package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/client"
)

// Config contains the Docker Engine API client configuration
type Config struct {
	// Host overrides DOCKER_HOST when set
	Host    string
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// Client wraps the Docker Engine API client
type Client struct {
	cli *client.Client
}

// NewClient connects to the engine and pings it
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if cfg.Host != "" {
		opts = append(opts, client.WithHost(cfg.Host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if _, err := cli.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("ping docker daemon: %w", err)
	}

	return &Client{
		cli: cli,
	}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
