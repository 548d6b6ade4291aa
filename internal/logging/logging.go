// Package logging configures the process wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	"github.com/rusenback/docker-stats-exporter/internal/config"
)

// Setup applies level, format and output to log. When a file is
// configured the output goes there, rotated at 50MB.
func Setup(log *logrus.Logger, cfg config.Log) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", config.ErrInvalid, err)
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", config.ErrInvalid, cfg.Format)
	}

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(file)
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
