package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasklist/internal/models"
)

type reporterEntry struct {
	id       int
	reporter ErrorReporter
}

type saveWaiter struct {
	generation uint64
	ch         chan struct{}
}

// SaveQueue writes collection snapshots through a TaskStore one at a
// time. It holds at most one pending snapshot: a newer snapshot
// replaces an older one that has not started yet, so a slow write can
// never land after the write of a later snapshot.
type SaveQueue struct {
	logger zerolog.Logger
	store  TaskStore

	mu         sync.Mutex
	reporters  []reporterEntry
	nextRepID  int
	pending    []models.Task
	hasPending bool
	pendingGen uint64
	issued     uint64
	completed  uint64
	lastErr    error
	waiters    []saveWaiter
	closed     bool

	wake chan struct{}
	done chan struct{}
}

func NewSaveQueue(
	logger zerolog.Logger,
	store TaskStore,
	reporter ErrorReporter,
) *SaveQueue {
	q := &SaveQueue{
		logger: logger,
		store:  store,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	if reporter != nil {
		q.AddReporter(reporter)
	}
	go q.run()
	return q
}

// AddReporter registers r to be told about failed writes, in
// registration order. The returned function removes it.
func (q *SaveQueue) AddReporter(r ErrorReporter) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextRepID
	q.nextRepID++
	q.reporters = append(q.reporters, reporterEntry{id: id, reporter: r})
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		for i, e := range q.reporters {
			if e.id == id {
				q.reporters = append(q.reporters[:i:i], q.reporters[i+1:]...)
				return
			}
		}
	}
}

// Enqueue schedules tasks to be written. The slice is copied, so the
// caller may keep mutating its own.
func (q *SaveQueue) Enqueue(tasks []models.Task) {
	snapshot := make([]models.Task, len(tasks))
	copy(snapshot, tasks)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Error().
			Int("count", len(snapshot)).
			Msg("dropped save issued after close")
		q.report(&PersistenceError{Op: "save", Err: ErrSaveQueueClosed})
		return
	}
	defer q.mu.Unlock()

	q.issued++
	if q.hasPending {
		q.logger.Debug().
			Uint64("superseded", q.pendingGen).
			Uint64("generation", q.issued).
			Msg("superseded pending save")
	}
	q.pending = snapshot
	q.pendingGen = q.issued
	q.hasPending = true

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every snapshot enqueued before the call has been
// written or superseded by a written one. It returns the error of the
// latest write.
func (q *SaveQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	target := q.issued
	if q.completed >= target {
		err := q.lastErr
		q.mu.Unlock()
		return err
	}
	ch := make(chan struct{})
	q.waiters = append(q.waiters, saveWaiter{generation: target, ch: ch})
	q.mu.Unlock()

	select {
	case <-ch:
		return q.LastErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastErr returns the error of the latest completed write, or nil if
// it succeeded.
func (q *SaveQueue) LastErr() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastErr
}

// Close writes the pending snapshot, if any, and stops the worker.
// Snapshots enqueued after Close are dropped and reported.
func (q *SaveQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.wake)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		q.logger.Info().Msg("closed save queue")
		return q.LastErr()
	case <-ctx.Done():
		q.logger.Error().
			Err(ctx.Err()).
			Msg("timed out waiting for pending saves")
		return ctx.Err()
	}
}

func (q *SaveQueue) run() {
	defer close(q.done)

	for range q.wake {
		for {
			q.mu.Lock()
			if !q.hasPending {
				q.mu.Unlock()
				break
			}
			tasks, gen := q.pending, q.pendingGen
			q.pending, q.hasPending = nil, false
			q.mu.Unlock()

			err := q.store.Save(context.Background(), tasks)
			q.complete(gen, len(tasks), err)
		}
	}
}

// complete records the outcome of the write of generation gen.
// Reporters already see the new LastErr, and they run before any Flush
// waiting on gen returns.
func (q *SaveQueue) complete(gen uint64, count int, err error) {
	q.mu.Lock()
	q.lastErr = err
	q.mu.Unlock()

	if err != nil {
		q.logger.Error().
			Err(err).
			Uint64("generation", gen).
			Msg("failed to save tasks")
		q.report(err)
	} else {
		q.logger.Debug().
			Uint64("generation", gen).
			Int("count", count).
			Msg("saved snapshot")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.completed = gen

	remaining := q.waiters[:0]
	for _, w := range q.waiters {
		if w.generation <= gen {
			close(w.ch)
			continue
		}
		remaining = append(remaining, w)
	}
	q.waiters = remaining
}

func (q *SaveQueue) report(err error) {
	q.mu.Lock()
	reporters := make([]ErrorReporter, 0, len(q.reporters))
	for _, e := range q.reporters {
		reporters = append(reporters, e.reporter)
	}
	q.mu.Unlock()

	for _, r := range reporters {
		r.ReportPersistenceError(err)
	}
}
