package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/tasklist/internal/models"
)

// gatedStore records every Save and blocks each one until released.
type gatedStore struct {
	mu       sync.Mutex
	saved    [][]models.Task
	inFlight int
	maxLive  int
	err      error

	started chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		started: make(chan struct{}, 16),
		release: make(chan struct{}, 16),
	}
}

func (s *gatedStore) Load(context.Context) ([]models.Task, error) {
	return []models.Task{}, nil
}

func (s *gatedStore) Save(_ context.Context, tasks []models.Task) error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxLive {
		s.maxLive = s.inFlight
	}
	s.mu.Unlock()

	s.started <- struct{}{}
	<-s.release

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	s.saved = append(s.saved, tasks)
	return s.err
}

func (s *gatedStore) history() [][]models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]models.Task(nil), s.saved...)
}

func titled(titles ...string) []models.Task {
	tasks := make([]models.Task, 0, len(titles))
	for _, title := range titles {
		tasks = append(tasks, models.Task{ID: title, Title: title})
	}
	return tasks
}

func waitStarted(t *testing.T, s *gatedStore) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(5 * time.Second):
		t.Fatal("save did not start")
	}
}

func flush(t *testing.T, q *SaveQueue) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := q.Flush(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestSaveQueue_SupersedesPendingSnapshot(t *testing.T) {
	store := newGatedStore()
	q := NewSaveQueue(zerolog.Nop(), store, nil)
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	q.Enqueue(titled("a"))
	waitStarted(t, store)

	// Both arrive while "a" is still being written; only the newest survives.
	q.Enqueue(titled("a", "b"))
	q.Enqueue(titled("a", "b", "c"))

	store.release <- struct{}{}
	waitStarted(t, store)
	store.release <- struct{}{}

	require.NoError(t, flush(t, q))
	assert.Equal(t, [][]models.Task{
		titled("a"),
		titled("a", "b", "c"),
	}, store.history())
	assert.Equal(t, 1, store.maxLive)
}

func TestSaveQueue_SnapshotIsCopied(t *testing.T) {
	store := newGatedStore()
	q := NewSaveQueue(zerolog.Nop(), store, nil)
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	tasks := titled("a", "b")
	q.Enqueue(tasks)
	tasks[0].Title = "mutated"

	waitStarted(t, store)
	store.release <- struct{}{}
	require.NoError(t, flush(t, q))

	assert.Equal(t, [][]models.Task{titled("a", "b")}, store.history())
}

func TestSaveQueue_ReportsFailures(t *testing.T) {
	store := newGatedStore()
	store.err = &PersistenceError{Op: "save", Key: "tasks", Err: errors.New("disk full")}

	var (
		mu       sync.Mutex
		reported []error
	)
	reporter := ErrorReporterFunc(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	})

	q := NewSaveQueue(zerolog.Nop(), store, reporter)
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	q.Enqueue(titled("a"))
	waitStarted(t, store)
	store.release <- struct{}{}

	err := flush(t, q)
	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.ErrorIs(t, q.LastErr(), store.err)

	mu.Lock()
	assert.Len(t, reported, 1)
	mu.Unlock()

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	q.Enqueue(titled("a", "b"))
	waitStarted(t, store)
	store.release <- struct{}{}

	assert.NoError(t, flush(t, q))
	assert.NoError(t, q.LastErr())
}

func TestSaveQueue_FlushWithoutSaves(t *testing.T) {
	q := NewSaveQueue(zerolog.Nop(), newGatedStore(), nil)
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	assert.NoError(t, flush(t, q))
}

func TestSaveQueue_FlushHonoursContext(t *testing.T) {
	store := newGatedStore()
	q := NewSaveQueue(zerolog.Nop(), store, nil)

	q.Enqueue(titled("a"))
	waitStarted(t, store)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Flush(ctx), context.DeadlineExceeded)

	store.release <- struct{}{}
	require.NoError(t, q.Close(context.Background()))
}

func TestSaveQueue_CloseDrainsPending(t *testing.T) {
	store := newGatedStore()
	q := NewSaveQueue(zerolog.Nop(), store, nil)

	q.Enqueue(titled("a"))
	waitStarted(t, store)
	q.Enqueue(titled("a", "b"))

	closed := make(chan error, 1)
	go func() { closed <- q.Close(context.Background()) }()

	store.release <- struct{}{}
	waitStarted(t, store)
	store.release <- struct{}{}

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
	assert.Equal(t, [][]models.Task{titled("a"), titled("a", "b")}, store.history())
}

func TestSaveQueue_EnqueueAfterClose(t *testing.T) {
	var reported error
	q := NewSaveQueue(zerolog.Nop(), newGatedStore(), ErrorReporterFunc(func(err error) {
		reported = err
	}))
	require.NoError(t, q.Close(context.Background()))

	q.Enqueue(titled("late"))
	assert.ErrorIs(t, reported, ErrSaveQueueClosed)
	assert.NoError(t, flush(t, q))
}

func TestSaveQueue_ReportersSeeLastErr(t *testing.T) {
	store := newGatedStore()
	store.err = errors.New("disk full")
	q := NewSaveQueue(zerolog.Nop(), store, nil)
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	var (
		mu    sync.Mutex
		calls []string
	)
	q.AddReporter(ErrorReporterFunc(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "first")
		assert.Equal(t, err, q.LastErr())
	}))
	remove := q.AddReporter(ErrorReporterFunc(func(error) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "removed")
	}))
	q.AddReporter(ErrorReporterFunc(func(error) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, "last")
	}))
	remove()

	q.Enqueue(titled("a"))
	waitStarted(t, store)
	store.release <- struct{}{}
	assert.ErrorIs(t, flush(t, q), store.err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "last"}, calls)
}
