// Package config holds the runtime settings of the exporter.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Targets
const (
	TargetPrometheus  = "prometheus"
	TargetInfluxDB    = "influxdb"
	TargetPushgateway = "pushgateway"
)

// Sources
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

// Defaults
const (
	DefaultTarget      = TargetPrometheus
	DefaultPort        = 9187
	DefaultHost        = "localhost"
	DefaultDatabase    = "metrics"
	DefaultMeasurement = "docker_stats"
	DefaultSource      = SourceCLI
	DefaultDockerBin   = "docker"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Target      string        `mapstructure:"target"`
	Port        int           `mapstructure:"port"`
	Host        string        `mapstructure:"host"`
	Database    string        `mapstructure:"db"`
	Measurement string        `mapstructure:"measurement"`
	Source      string        `mapstructure:"source"`
	DockerBin   string        `mapstructure:"docker-bin"`
	DockerHost  string        `mapstructure:"docker-host"`
	EvictAfter  time.Duration `mapstructure:"evict-after"`
	SinkTimeout time.Duration `mapstructure:"sink-timeout"`
	Log         Log           `mapstructure:",squash"`
}

type Log struct {
	Level  string `mapstructure:"log-level"`
	Format string `mapstructure:"log-format"`
	File   string `mapstructure:"log-file"`
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("target", DefaultTarget)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("db", DefaultDatabase)
	v.SetDefault("measurement", DefaultMeasurement)
	v.SetDefault("source", DefaultSource)
	v.SetDefault("docker-bin", DefaultDockerBin)
	v.SetDefault("sink-timeout", 5*time.Second)
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("log-format", DefaultLogFormat)
}

// Load decodes and validates the settings held by v
func (c *Config) Load(v *viper.Viper) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return c.Validate()
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	switch c.Target {
	case TargetPrometheus, TargetInfluxDB, TargetPushgateway:
	default:
		return fmt.Errorf("%w: unknown target %q", ErrInvalid, c.Target)
	}

	switch c.Source {
	case SourceCLI, SourceAPI:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	}

	if c.Target != TargetPrometheus {
		if c.Host == "" {
			return fmt.Errorf("%w: host is required for target %s", ErrInvalid, c.Target)
		}
		if c.Measurement == "" {
			return fmt.Errorf("%w: measurement is required for target %s", ErrInvalid, c.Target)
		}
	}
	if c.Target == TargetInfluxDB && c.Database == "" {
		return fmt.Errorf("%w: db is required for target %s", ErrInvalid, c.Target)
	}

	if c.EvictAfter < 0 {
		return fmt.Errorf("%w: evict-after must not be negative", ErrInvalid)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// IsPush reports whether samples are written to a sink instead of served
func (c *Config) IsPush() bool {
	return c.Target != TargetPrometheus
}

// ListenAddr is the exposition address of the pull variant
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
