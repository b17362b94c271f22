// Package actionqueue implements the per-actor FIFO that runs queued actions
// one at a time, handing control forward through continuations.
package actionqueue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/petrijr/pointer/internal/scheduler"
	"github.com/petrijr/pointer/pkg/api"
)

// Config configures a Queue.
type Config struct {
	Name      string
	ActorID   string
	Scheduler scheduler.Scheduler
	Gate      *Gate
	Observer  api.Observer
	Context   context.Context
}

// Queue is a named FIFO of actions. At most one action is in flight at any
// time; the next one is dequeued on the scheduler after the previous action
// calls its continuation.
type Queue struct {
	name    string
	actorID string
	sched   scheduler.Scheduler
	gate    *Gate
	obs     api.Observer
	ctx     context.Context

	mu       sync.Mutex
	items    []entry
	draining bool
	inFlight bool
}

type entry struct {
	name   string
	action api.Action
}

// New creates an empty Queue. A nil Gate means actions are never held, a nil
// Observer discards events.
func New(cfg Config) *Queue {
	if cfg.Scheduler == nil {
		panic("actionqueue: nil scheduler")
	}
	if cfg.Name == "" {
		cfg.Name = api.DefaultQueue
	}
	if cfg.Observer == nil {
		cfg.Observer = api.NoopObserver{}
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	return &Queue{
		name:    cfg.Name,
		actorID: cfg.ActorID,
		sched:   cfg.Scheduler,
		gate:    cfg.Gate,
		obs:     cfg.Observer,
		ctx:     cfg.Context,
	}
}

// Name returns the queue name.
func (q *Queue) Name() string { return q.name }

func (q *Queue) info(action string) api.ActionInfo {
	return api.ActionInfo{ActorID: q.actorID, Queue: q.name, Action: action}
}

// Enqueue appends action and starts draining if the queue is idle.
func (q *Queue) Enqueue(name string, action api.Action) {
	if action == nil {
		panic("actionqueue: nil action")
	}

	q.mu.Lock()
	q.items = append(q.items, entry{name: name, action: action})
	start := !q.draining
	q.draining = true
	q.mu.Unlock()

	q.obs.OnActionEnqueued(q.ctx, q.info(name))
	if start {
		q.sched.Post(q.dispatch)
	}
}

// Len returns the number of actions waiting to run, excluding the one in
// flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Busy reports whether an action has been dequeued and has not yet released
// the queue. Actions parked at the gate count as busy.
func (q *Queue) Busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// Clear drops every action that has not started. The in-flight action, if
// any, is unaffected.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

func (q *Queue) dispatch() {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.draining = false
		q.mu.Unlock()
		return
	}
	e := q.items[0]
	q.items[0] = entry{}
	q.items = q.items[1:]
	q.inFlight = true
	q.mu.Unlock()

	if q.gate == nil {
		q.run(e)
		return
	}
	q.gate.Admit(func() { q.run(e) }, q.release)
}

func (q *Queue) release() {
	q.mu.Lock()
	q.inFlight = false
	q.mu.Unlock()
	q.sched.Post(q.dispatch)
}

func (q *Queue) run(e entry) {
	info := q.info(e.name)
	q.obs.OnActionStart(q.ctx, info)
	started := q.sched.Now()

	var called atomic.Bool
	next := func() {
		if !called.CompareAndSwap(false, true) {
			q.obs.OnActionFailed(q.ctx, info, api.ErrContinuationReused)
			return
		}
		q.obs.OnActionCompleted(q.ctx, info, q.sched.Now().Sub(started))
		q.release()
	}

	defer func() {
		if r := recover(); r != nil {
			q.obs.OnActionFailed(q.ctx, info, fmt.Errorf("action %q panicked: %v", e.name, r))
			if !called.Load() {
				next()
			}
		}
	}()
	e.action(next)
}
