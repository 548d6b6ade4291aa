package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/rusenback/docker-stats-exporter/internal/model"
)

// entry is replaced as a whole on every write, never patched field by field
type entry struct {
	metrics  model.Metrics
	lastSeen time.Time
}

// Storage keeps the latest metrics of every container seen so far.
// One writer and any number of readers may use it concurrently.
type Storage struct {
	mu      sync.RWMutex
	entries map[string]entry

	now       func() time.Time
	maxAge    time.Duration
	closeOnce sync.Once
	closeChan chan struct{}
}

// Option configures a Storage
type Option func(*Storage)

// WithEviction drops containers that have not reported for maxAge.
// Zero keeps stale containers until restart.
func WithEviction(maxAge time.Duration) Option {
	return func(s *Storage) {
		s.maxAge = maxAge
	}
}

// WithClock overrides time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// NewStorage creates an empty in-memory storage
func NewStorage(opts ...Option) *Storage {
	s := &Storage{
		entries:   make(map[string]entry),
		now:       time.Now,
		closeChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.maxAge > 0 {
		go s.cleanup()
	}

	return s
}

// Write inserts or replaces the metrics for a container
func (s *Storage) Write(name string, m model.Metrics) {
	e := entry{metrics: m, lastSeen: s.now()}

	s.mu.Lock()
	s.entries[name] = e
	s.mu.Unlock()
}

// Get returns the latest metrics for a container
func (s *Storage) Get(name string) (model.Metrics, bool) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	return e.metrics, ok
}

// Snapshot copies every entry, sorted by container name
func (s *Storage) Snapshot() []model.ContainerMetrics {
	s.mu.RLock()
	result := make([]model.ContainerMetrics, 0, len(s.entries))
	for name, e := range s.entries {
		result = append(result, model.ContainerMetrics{Name: name, Metrics: e.metrics})
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Len returns the number of known containers
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Evict removes containers last written before cutoff and returns how many
func (s *Storage) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for name, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, name)
			removed++
		}
	}
	return removed
}

// cleanup evicts stale containers periodically
func (s *Storage) cleanup() {
	interval := s.maxAge / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Evict(s.now().Add(-s.maxAge))

		case <-s.closeChan:
			return
		}
	}
}

// Close stops the background cleanup
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})
	return nil
}
