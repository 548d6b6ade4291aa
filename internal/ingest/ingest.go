// Package ingest reads stats lines, normalizes them and records the result.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rusenback/docker-stats-exporter/internal/model"
	"github.com/rusenback/docker-stats-exporter/internal/parse"
	"github.com/rusenback/docker-stats-exporter/internal/sink"
)

// Writer stores the latest metrics of a container
type Writer interface {
	Write(name string, m model.Metrics)
}

// Ingester is the single producer of metric updates
type Ingester struct {
	store        Writer
	sink         sink.Sink
	sinkTimeout  time.Duration
	log          logrus.FieldLogger
	ingested     atomic.Uint64
	dropped      atomic.Uint64
	sinkFailures atomic.Uint64
}

// Option configures an Ingester
type Option func(*Ingester)

// WithSink forwards every ingested sample to s
func WithSink(s sink.Sink) Option {
	return func(i *Ingester) {
		i.sink = s
	}
}

// WithSinkTimeout bounds each sink write, non-positive keeps the default
func WithSinkTimeout(d time.Duration) Option {
	return func(i *Ingester) {
		if d > 0 {
			i.sinkTimeout = d
		}
	}
}

// New creates an Ingester writing to store
func New(store Writer, log logrus.FieldLogger, opts ...Option) *Ingester {
	i := &Ingester{
		store:       store,
		sinkTimeout: sink.DefaultTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest handles one stats line. A line that is not a valid stats record
// is rejected without touching the store; a sink failure is only logged.
func (i *Ingester) Ingest(ctx context.Context, line []byte) error {
	raw, err := parse.Line(line)
	if err != nil {
		i.dropped.Add(1)
		return err
	}

	m := parse.Sample(raw)
	i.store.Write(raw.Name, m)
	i.ingested.Add(1)

	if i.sink != nil {
		wctx, cancel := context.WithTimeout(ctx, i.sinkTimeout)
		defer cancel()
		if err := i.sink.Write(wctx, raw.Name, m); err != nil {
			i.sinkFailures.Add(1)
			i.log.WithField("container", raw.Name).WithError(err).Warn("Sink write error")
		}
	}
	return nil
}

// Run consumes r line by line until it is exhausted, fails, or ctx ends.
// A clean end of stream returns nil.
func (i *Ingester) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// older clients prefix each refresh with screen clearing escapes
		if j := bytes.IndexByte(line, '{'); j > 0 {
			line = line[j:]
		}

		if err := i.Ingest(ctx, line); err != nil {
			i.log.WithError(err).Debugf("Dropping stats line %q", line)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stats: %w", err)
	}
	return nil
}

// Stats reports counters since start
func (i *Ingester) Stats() (ingested, dropped, sinkFailures uint64) {
	return i.ingested.Load(), i.dropped.Load(), i.sinkFailures.Load()
}
