package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusenback/docker-stats-exporter/internal/model"
	"github.com/rusenback/docker-stats-exporter/internal/storage"
)

const webLine = `{"Name":"web","CPUPerc":"5.00%","MemUsage":"10MiB / 100MiB","NetIO":"1kB / 2kB","BlockIO":"0B / 0B"}`

var webMetrics = model.Metrics{
	CPUPercent:  5.0,
	MemoryUsage: 10485760,
	MemoryLimit: 104857600,
	NetworkRx:   1024,
	NetworkTx:   2048,
}

type fakeSink struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (f *fakeSink) Write(_ context.Context, name string, _ model.Metrics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, name)
	return f.err
}

func (f *fakeSink) Close() error { return nil }

func newIngester(opts ...Option) (*Ingester, *storage.Storage, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	store := storage.NewStorage()
	return New(store, log, opts...), store, hook
}

func TestIngest_EndToEnd(t *testing.T) {
	ing, store, _ := newIngester()

	require.NoError(t, ing.Ingest(context.Background(), []byte(webLine)))

	m, ok := store.Get("web")
	require.True(t, ok)
	assert.Equal(t, webMetrics, m)
}

func TestIngest_MalformedLineLeavesStoreUntouched(t *testing.T) {
	ing, store, _ := newIngester()

	err := ing.Ingest(context.Background(), []byte(`{"CPUPerc":"5.00%","MemUsage":"1B / 1B","NetIO":"0B / 0B","BlockIO":"0B / 0B"}`))
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())

	_, dropped, _ := ing.Stats()
	assert.Equal(t, uint64(1), dropped)
}

func TestIngest_LastWriteWins(t *testing.T) {
	ing, store, _ := newIngester()
	ctx := context.Background()

	require.NoError(t, ing.Ingest(ctx, []byte(webLine)))
	require.NoError(t, ing.Ingest(ctx, []byte(`{"Name":"web","CPUPerc":"1.50%","MemUsage":"-- / --","NetIO":"3kB / 4kB","BlockIO":"1MiB / 2MiB"}`)))

	m, _ := store.Get("web")
	assert.Equal(t, model.Metrics{
		CPUPercent: 1.5,
		NetworkRx:  3072,
		NetworkTx:  4096,
		BlockRead:  1048576,
		BlockWrite: 2097152,
	}, m)
}

func TestRun_SkipsBadLinesAndKeepsGoing(t *testing.T) {
	ing, store, hook := newIngester()

	input := strings.Join([]string{
		`{"CPUPerc":"9%","MemUsage":"","NetIO":"","BlockIO":""}`,
		`garbage`,
		``,
		"\x1b[2J\x1b[H" + webLine,
		`{"Name":"db","CPUPerc":"bogus","MemUsage":"1GiB / 2GiB","NetIO":"--","BlockIO":"0B / 0B"}`,
	}, "\n")

	require.NoError(t, ing.Run(context.Background(), strings.NewReader(input)))

	assert.Equal(t, 2, store.Len())
	m, _ := store.Get("web")
	assert.Equal(t, webMetrics, m)
	m, _ = store.Get("db")
	assert.Equal(t, model.Metrics{MemoryUsage: 1 << 30, MemoryLimit: 2 << 30}, m)

	ingested, dropped, _ := ing.Stats()
	assert.Equal(t, uint64(2), ingested)
	assert.Equal(t, uint64(2), dropped)

	debug := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel {
			debug++
		}
	}
	assert.Equal(t, 2, debug)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestRun_ReadError(t *testing.T) {
	ing, _, _ := newIngester()
	boom := errors.New("boom")

	err := ing.Run(context.Background(), io.MultiReader(strings.NewReader(webLine+"\n"), failingReader{boom}))
	assert.True(t, errors.Is(err, boom))
}

func TestRun_ContextCanceled(t *testing.T) {
	ing, store, _ := newIngester()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ing.Run(ctx, strings.NewReader(webLine+"\n"))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, store.Len())
}

func TestIngest_SinkReceivesSamples(t *testing.T) {
	s := &fakeSink{}
	ing, _, _ := newIngester(WithSink(s))

	require.NoError(t, ing.Run(context.Background(), strings.NewReader(webLine+"\nnope\n"+webLine)))
	assert.Equal(t, []string{"web", "web"}, s.writes)
}

func TestIngest_SinkFailureIsNotFatal(t *testing.T) {
	s := &fakeSink{err: errors.New("connection refused")}
	ing, store, hook := newIngester(WithSink(s))

	require.NoError(t, ing.Run(context.Background(), strings.NewReader(webLine+"\n"+webLine)))

	assert.Len(t, s.writes, 2)
	assert.Equal(t, 1, store.Len())
	_, _, failures := ing.Stats()
	assert.Equal(t, uint64(2), failures)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "web", hook.LastEntry().Data["container"])
}
