package actionqueue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/petrijr/pointer/internal/scheduler"
	"github.com/petrijr/pointer/pkg/api"
)

// Gate holds dequeued actions while its owner is paused. Every queue of an
// actor shares the same Gate.
type Gate struct {
	sched    scheduler.Scheduler
	interval time.Duration
	strategy api.PauseStrategy

	paused atomic.Bool

	mu     sync.Mutex
	parked map[uint64]*parkedAction
	nextID uint64
}

type parkedAction struct {
	run   func()
	drop  func()
	timer scheduler.Timer
}

// NewGate returns an open gate. interval is the re-check period used while
// paused; values <= 0 fall back to the default poll interval.
func NewGate(sched scheduler.Scheduler, interval time.Duration, strategy api.PauseStrategy) *Gate {
	if interval <= 0 {
		interval = api.DefaultTimings().PausePoll
	}
	return &Gate{
		sched:    sched,
		interval: interval,
		strategy: strategy,
		parked:   make(map[uint64]*parkedAction),
	}
}

// Pause closes the gate. It reports whether the state changed.
func (g *Gate) Pause() bool {
	return g.paused.CompareAndSwap(false, true)
}

// Resume opens the gate and reports whether the state changed. With
// PausePoll, parked actions notice on their next poll; with PauseNotify
// they are re-checked right away.
func (g *Gate) Resume() bool {
	if !g.paused.CompareAndSwap(true, false) {
		return false
	}
	if g.strategy != api.PauseNotify {
		return true
	}

	g.mu.Lock()
	ids := make([]uint64, 0, len(g.parked))
	for id, p := range g.parked {
		if p.timer != nil && p.timer.Stop() {
			ids = append(ids, id)
		}
	}
	g.mu.Unlock()

	for _, id := range ids {
		id := id
		g.sched.Post(func() { g.retry(id) })
	}
	return true
}

// Paused reports whether the gate is closed.
func (g *Gate) Paused() bool {
	return g.paused.Load()
}

// Parked returns the number of actions waiting at the gate.
func (g *Gate) Parked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.parked)
}

// Admit calls run now if the gate is open. Otherwise the action is parked
// and re-checked every interval; drop is called instead of run if the
// parked action is cancelled.
func (g *Gate) Admit(run, drop func()) {
	if !g.paused.Load() {
		run()
		return
	}

	g.mu.Lock()
	g.nextID++
	id := g.nextID
	p := &parkedAction{run: run, drop: drop}
	g.parked[id] = p
	p.timer = g.sched.AfterFunc(g.interval, func() { g.retry(id) })
	g.mu.Unlock()
}

func (g *Gate) retry(id uint64) {
	g.mu.Lock()
	p, ok := g.parked[id]
	if !ok {
		g.mu.Unlock()
		return
	}
	if g.paused.Load() {
		p.timer = g.sched.AfterFunc(g.interval, func() { g.retry(id) })
		g.mu.Unlock()
		return
	}
	delete(g.parked, id)
	g.mu.Unlock()

	p.run()
}

// Cancel drops every parked action, stopping its poll timer. It returns the
// number of actions dropped.
func (g *Gate) Cancel() int {
	g.mu.Lock()
	dropped := make([]*parkedAction, 0, len(g.parked))
	for id, p := range g.parked {
		if p.timer != nil {
			p.timer.Stop()
		}
		dropped = append(dropped, p)
		delete(g.parked, id)
	}
	g.mu.Unlock()

	for _, p := range dropped {
		if p.drop != nil {
			p.drop()
		}
	}
	return len(dropped)
}
