package docker

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// APISource reads stats from the Engine API instead of spawning the CLI.
// Every running container gets its own stream; the container list is
// refreshed periodically so new containers are picked up.
type APISource struct {
	client  StatsClient
	refresh time.Duration
	log     logrus.FieldLogger
}

// NewAPISource creates a source over client
func NewAPISource(client StatsClient, refresh time.Duration, log logrus.FieldLogger) *APISource {
	if refresh <= 0 {
		refresh = 10 * time.Second
	}
	return &APISource{
		client:  client,
		refresh: refresh,
		log:     log,
	}
}

// Open starts streaming. The returned reader yields one JSON line per
// container per sample and reaches EOF once ctx ends or Close is called.
func (s *APISource) Open(ctx context.Context) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()

	st := &apiStream{
		source: s,
		pw:     pw,
		active: make(map[string]struct{}),
	}

	// List once up front so an unreachable daemon fails Open
	containers, err := s.client.RunningContainers(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	st.follow(ctx, containers)

	go st.run(ctx, cancel)

	return &pipeReader{PipeReader: pr, cancel: cancel}, nil
}

type apiStream struct {
	source *APISource
	pw      *io.PipeWriter
	writeMu sync.Mutex
	wg      sync.WaitGroup

	mu     sync.Mutex
	active map[string]struct{}
}

func (st *apiStream) run(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	ticker := time.NewTicker(st.source.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			containers, err := st.source.client.RunningContainers(ctx)
			if err != nil {
				if ctx.Err() == nil {
					st.source.log.WithError(err).Warn("Failed to list containers")
				}
				continue
			}
			st.follow(ctx, containers)

		case <-ctx.Done():
			// unblocks writers waiting on a reader that went away
			st.pw.Close()
			st.wg.Wait()
			return
		}
	}
}

// follow starts a stream for every container not streamed yet
func (st *apiStream) follow(ctx context.Context, containers []Container) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, c := range containers {
		if _, ok := st.active[c.ID]; ok {
			continue
		}
		st.active[c.ID] = struct{}{}
		st.wg.Add(1)
		go st.stream(ctx, c)
	}
}

func (st *apiStream) stream(ctx context.Context, c Container) {
	defer st.wg.Done()
	defer func() {
		st.mu.Lock()
		delete(st.active, c.ID)
		st.mu.Unlock()
	}()

	log := st.source.log.WithField("container", c.Name)
	statsChan, errChan := st.source.client.StreamContainerStats(ctx, c.ID)

	for stats := range statsChan {
		line, err := json.Marshal(FormatSample(c.Name, stats))
		if err != nil {
			log.WithError(err).Warn("Failed to encode stats")
			continue
		}
		if err := st.writeLine(line); err != nil {
			// reader closed
			return
		}
	}

	if err, ok := <-errChan; ok && err != nil {
		log.WithError(err).Warn("Stats stream ended")
	}
}

// writeLine keeps lines from different containers from interleaving
func (st *apiStream) writeLine(line []byte) error {
	st.writeMu.Lock()
	defer st.writeMu.Unlock()
	_, err := st.pw.Write(append(line, '\n'))
	return err
}

type pipeReader struct {
	*io.PipeReader
	cancel context.CancelFunc
}

func (p *pipeReader) Close() error {
	p.cancel()
	return p.PipeReader.Close()
}
