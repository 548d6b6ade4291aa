package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusenback/docker-stats-exporter/internal/config"
)

func TestSetup_LevelAndFormat(t *testing.T) {
	log := logrus.New()
	closer, err := Setup(log, config.Log{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestSetup_Invalid(t *testing.T) {
	_, err := Setup(logrus.New(), config.Log{Level: "loud"})
	assert.True(t, errors.Is(err, config.ErrInvalid))

	_, err = Setup(logrus.New(), config.Log{Level: "info", Format: "xml"})
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.log")
	log := logrus.New()

	closer, err := Setup(log, config.Log{Level: "info", File: path})
	require.NoError(t, err)

	log.WithField("container", "web").Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "container=web")
	assert.Contains(t, string(data), "hello")
}
