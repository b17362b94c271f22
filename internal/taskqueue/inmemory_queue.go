package taskqueue

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryQueue is a bounded Queue kept in process memory. It is safe for
// concurrent use. Tasks are served in (NotBefore, arrival) order, so a task
// that is not due yet never holds back one that is.
type InMemoryQueue struct {
	mu       sync.Mutex
	items    []queued
	seq      uint64
	capacity int

	// changed is closed and replaced whenever items changes.
	changed chan struct{}
}

type queued struct {
	task Task
	due  time.Time
	seq  uint64
}

func (a queued) before(b queued) int {
	if c := a.due.Compare(b.due); c != 0 {
		return c
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

// NewInMemoryQueue creates a new queue with the given capacity. A
// non-positive capacity means 1024.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &InMemoryQueue{
		capacity: capacity,
		changed:  make(chan struct{}),
	}
}

// Ensure InMemoryQueue implements Queue.
var _ Queue = (*InMemoryQueue)(nil)

// Enqueue adds t, waiting for room while the queue is full.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	due := t.NotBefore
	if due.IsZero() {
		due = t.EnqueuedAt
	}

	for {
		q.mu.Lock()
		if len(q.items) < q.capacity {
			q.seq++
			e := queued{task: t, due: due, seq: q.seq}
			i, _ := slices.BinarySearchFunc(q.items, e, queued.before)
			q.items = slices.Insert(q.items, i, e)
			q.notifyLocked()
			q.mu.Unlock()
			return nil
		}
		changed := q.changed
		q.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Dequeue removes and returns the first due task. A task that is not due
// stays queued when ctx ends.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (*Task, error) {
	for {
		q.mu.Lock()
		var wait time.Duration
		if len(q.items) > 0 {
			head := q.items[0]
			if wait = time.Until(head.due); wait <= 0 {
				q.items = slices.Delete(q.items, 0, 1)
				q.notifyLocked()
				q.mu.Unlock()
				return &head.task, nil
			}
		}
		changed := q.changed
		q.mu.Unlock()

		var timer *time.Timer
		var due <-chan time.Time
		if wait > 0 {
			timer = time.NewTimer(wait)
			due = timer.C
		}
		select {
		case <-changed:
		case <-due:
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil, ctx.Err()
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

func (q *InMemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *InMemoryQueue) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}
