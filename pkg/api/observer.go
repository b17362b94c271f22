package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// ActionInfo identifies a queued action.
type ActionInfo struct {
	ActorID string
	Queue   string
	Action  string
}

// Observer receives callbacks from the engine for logging and metrics.
//
// Callbacks run on the scheduler goroutine, so implementations should be fast
// and non-blocking.
type Observer interface {
	// OnActionEnqueued is called when an action is appended to a queue.
	OnActionEnqueued(ctx context.Context, info ActionInfo)

	// OnActionStart is called when an action passes the pause gate and is
	// about to be invoked.
	OnActionStart(ctx context.Context, info ActionInfo)

	// OnActionCompleted is called when the action releases its queue.
	OnActionCompleted(ctx context.Context, info ActionInfo, duration time.Duration)

	// OnActionFailed reports a non-fatal error raised while running an
	// action. The action still completes.
	OnActionFailed(ctx context.Context, info ActionInfo, err error)

	OnActorPaused(ctx context.Context, actorID string)
	OnActorResumed(ctx context.Context, actorID string)
	OnActorReset(ctx context.Context, actorID string)
}

// NoopObserver is an Observer that does nothing.
type NoopObserver struct{}

func (NoopObserver) OnActionEnqueued(ctx context.Context, info ActionInfo)                   {}
func (NoopObserver) OnActionStart(ctx context.Context, info ActionInfo)                      {}
func (NoopObserver) OnActionCompleted(ctx context.Context, info ActionInfo, d time.Duration) {}
func (NoopObserver) OnActionFailed(ctx context.Context, info ActionInfo, err error)          {}
func (NoopObserver) OnActorPaused(ctx context.Context, actorID string)                       {}
func (NoopObserver) OnActorResumed(ctx context.Context, actorID string)                      {}
func (NoopObserver) OnActorReset(ctx context.Context, actorID string)                        {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnActionEnqueued(ctx context.Context, info ActionInfo) {
	for _, o := range c.observers {
		o.OnActionEnqueued(ctx, info)
	}
}

func (c *CompositeObserver) OnActionStart(ctx context.Context, info ActionInfo) {
	for _, o := range c.observers {
		o.OnActionStart(ctx, info)
	}
}

func (c *CompositeObserver) OnActionCompleted(ctx context.Context, info ActionInfo, d time.Duration) {
	for _, o := range c.observers {
		o.OnActionCompleted(ctx, info, d)
	}
}

func (c *CompositeObserver) OnActionFailed(ctx context.Context, info ActionInfo, err error) {
	for _, o := range c.observers {
		o.OnActionFailed(ctx, info, err)
	}
}

func (c *CompositeObserver) OnActorPaused(ctx context.Context, actorID string) {
	for _, o := range c.observers {
		o.OnActorPaused(ctx, actorID)
	}
}

func (c *CompositeObserver) OnActorResumed(ctx context.Context, actorID string) {
	for _, o := range c.observers {
		o.OnActorResumed(ctx, actorID)
	}
}

func (c *CompositeObserver) OnActorReset(ctx context.Context, actorID string) {
	for _, o := range c.observers {
		o.OnActorReset(ctx, actorID)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs action and actor lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnActionEnqueued(ctx context.Context, info ActionInfo) {
	o.Logger.DebugContext(ctx, "action_enqueued",
		slog.String("actor_id", info.ActorID),
		slog.String("queue", info.Queue),
		slog.String("action", info.Action),
	)
}

func (o *LoggingObserver) OnActionStart(ctx context.Context, info ActionInfo) {
	o.Logger.DebugContext(ctx, "action_start",
		slog.String("actor_id", info.ActorID),
		slog.String("queue", info.Queue),
		slog.String("action", info.Action),
	)
}

func (o *LoggingObserver) OnActionCompleted(ctx context.Context, info ActionInfo, d time.Duration) {
	o.Logger.DebugContext(ctx, "action_completed",
		slog.String("actor_id", info.ActorID),
		slog.String("queue", info.Queue),
		slog.String("action", info.Action),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnActionFailed(ctx context.Context, info ActionInfo, err error) {
	o.Logger.WarnContext(ctx, "action_failed",
		slog.String("actor_id", info.ActorID),
		slog.String("queue", info.Queue),
		slog.String("action", info.Action),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnActorPaused(ctx context.Context, actorID string) {
	o.Logger.DebugContext(ctx, "actor_paused", slog.String("actor_id", actorID))
}

func (o *LoggingObserver) OnActorResumed(ctx context.Context, actorID string) {
	o.Logger.DebugContext(ctx, "actor_resumed", slog.String("actor_id", actorID))
}

func (o *LoggingObserver) OnActorReset(ctx context.Context, actorID string) {
	o.Logger.InfoContext(ctx, "actor_reset", slog.String("actor_id", actorID))
}

// BasicMetrics collects simple counters and aggregate action durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	actionsEnqueued     atomic.Int64
	actionsStarted      atomic.Int64
	actionsCompleted    atomic.Int64
	actionsFailed       atomic.Int64
	totalActionDuration atomic.Int64 // nanoseconds
	pauses              atomic.Int64
	resets              atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	ActionsEnqueued  int64
	ActionsStarted   int64
	ActionsCompleted int64
	ActionsFailed    int64
	PendingActions   int64

	AvgActionDuration time.Duration

	Pauses int64
	Resets int64
}

func (m *BasicMetrics) OnActionEnqueued(ctx context.Context, info ActionInfo) {
	m.actionsEnqueued.Add(1)
}

func (m *BasicMetrics) OnActionStart(ctx context.Context, info ActionInfo) {
	m.actionsStarted.Add(1)
}

func (m *BasicMetrics) OnActionCompleted(ctx context.Context, info ActionInfo, d time.Duration) {
	m.actionsCompleted.Add(1)
	m.totalActionDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnActionFailed(ctx context.Context, info ActionInfo, err error) {
	m.actionsFailed.Add(1)
}

func (m *BasicMetrics) OnActorPaused(ctx context.Context, actorID string) {
	m.pauses.Add(1)
}

func (m *BasicMetrics) OnActorReset(ctx context.Context, actorID string) {
	m.resets.Add(1)
}

// Snapshot returns a snapshot of the current metrics. PendingActions counts
// enqueued actions that have not completed yet, including ones dropped by a
// reset before they ran.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	enqueued := m.actionsEnqueued.Load()
	completed := m.actionsCompleted.Load()
	totalNs := m.totalActionDuration.Load()

	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(totalNs / completed)
	}

	return BasicMetricsSnapshot{
		ActionsEnqueued:   enqueued,
		ActionsStarted:    m.actionsStarted.Load(),
		ActionsCompleted:  completed,
		ActionsFailed:     m.actionsFailed.Load(),
		PendingActions:    enqueued - completed,
		AvgActionDuration: avg,
		Pauses:            m.pauses.Load(),
		Resets:            m.resets.Load(),
	}
}
