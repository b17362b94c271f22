package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// EventLoop is a real-time Scheduler driven by Run. Callbacks posted before
// Run starts are kept and executed once it does.
type EventLoop struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   []func()
	signal  chan struct{}
	running bool
}

// NewEventLoop returns an idle EventLoop. A nil logger means slog.Default().
func NewEventLoop(logger *slog.Logger) *EventLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLoop{
		logger: logger,
		signal: make(chan struct{}, 1),
	}
}

func (l *EventLoop) Now() time.Time { return time.Now() }

func (l *EventLoop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *EventLoop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

// Run executes posted callbacks until ctx is cancelled. Only one Run may be
// active at a time.
func (l *EventLoop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("scheduler: event loop already running")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		l.drain()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.signal:
		}
	}
}

func (l *EventLoop) drain() {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			l.invoke(fn)
		}
	}
}

func (l *EventLoop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			// A misbehaving action must not take the loop down with it.
			l.logger.Error("scheduler_callback_panic", slog.Any("panic", r))
		}
	}()
	fn()
}

const (
	timerPending int32 = iota
	timerStopped
	timerFired
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.timer.Stop()
	return true
}
