package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, set map[string]interface{}) (*Config, error) {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for k, val := range set {
		v.Set(k, val)
	}
	cfg := &Config{}
	return cfg, cfg.Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, nil)
	require.NoError(t, err)

	assert.Equal(t, TargetPrometheus, cfg.Target)
	assert.Equal(t, 9187, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "metrics", cfg.Database)
	assert.Equal(t, "docker_stats", cfg.Measurement)
	assert.Equal(t, SourceCLI, cfg.Source)
	assert.Equal(t, "docker", cfg.DockerBin)
	assert.Equal(t, time.Duration(0), cfg.EvictAfter)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsPush())
	assert.Equal(t, "0.0.0.0:9187", cfg.ListenAddr())
}

func TestLoad_Invalid(t *testing.T) {
	tcs := []struct {
		name string
		set  map[string]interface{}
	}{
		{"unknown target", map[string]interface{}{"target": "graphite"}},
		{"unknown source", map[string]interface{}{"source": "cgroups"}},
		{"port zero", map[string]interface{}{"port": 0}},
		{"port too large", map[string]interface{}{"port": 70000}},
		{"push without host", map[string]interface{}{"target": "influxdb", "host": ""}},
		{"influx without db", map[string]interface{}{"target": "influxdb", "db": ""}},
		{"negative eviction", map[string]interface{}{"evict-after": "-1m"}},
		{"port not a number", map[string]interface{}{"port": "http"}},
		{"unknown log level", map[string]interface{}{"log-level": "loud"}},
		{"unknown log format", map[string]interface{}{"log-format": "xml"}},
	}

	for _, tt := range tcs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.set)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoad_Push(t *testing.T) {
	cfg, err := load(t, map[string]interface{}{
		"target":      "influxdb",
		"host":        "influx.local",
		"port":        8086,
		"evict-after": "10m",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsPush())
	assert.Equal(t, 10*time.Minute, cfg.EvictAfter)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: pushgateway\nport: 9091\nlog-level: debug\n"), 0o600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := &Config{}
	require.NoError(t, cfg.Load(v))
	assert.Equal(t, TargetPushgateway, cfg.Target)
	assert.Equal(t, 9091, cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}
