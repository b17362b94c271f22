package api

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingObserver records one span per executed action and one span per
// pause interval.
type TracingObserver struct {
	NoopObserver

	tracer trace.Tracer

	mu      sync.Mutex
	actions map[ActionInfo]trace.Span
	pauses  map[string]trace.Span
}

// NewTracingObserver returns an Observer that starts spans on tracer.
func NewTracingObserver(tracer trace.Tracer) *TracingObserver {
	return &TracingObserver{
		tracer:  tracer,
		actions: make(map[ActionInfo]trace.Span),
		pauses:  make(map[string]trace.Span),
	}
}

func actionAttrs(info ActionInfo) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("pointer.actor_id", info.ActorID),
		attribute.String("pointer.queue", info.Queue),
		attribute.String("pointer.action", info.Action),
	}
}

func (o *TracingObserver) OnActionStart(ctx context.Context, info ActionInfo) {
	_, span := o.tracer.Start(ctx, "pointer.action "+info.Action,
		trace.WithAttributes(actionAttrs(info)...),
	)

	o.mu.Lock()
	defer o.mu.Unlock()
	// A queue has at most one action in flight; a stale span here means the
	// previous action never completed.
	if prev, ok := o.actions[info]; ok {
		prev.End()
	}
	o.actions[info] = span
}

func (o *TracingObserver) OnActionCompleted(ctx context.Context, info ActionInfo, d time.Duration) {
	o.mu.Lock()
	span, ok := o.actions[info]
	delete(o.actions, info)
	o.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("pointer.duration_ms", d.Milliseconds()))
	span.End()
}

func (o *TracingObserver) OnActionFailed(ctx context.Context, info ActionInfo, err error) {
	o.mu.Lock()
	span, ok := o.actions[info]
	o.mu.Unlock()
	if !ok {
		_, span = o.tracer.Start(ctx, "pointer.action "+info.Action,
			trace.WithAttributes(actionAttrs(info)...),
		)
		defer span.End()
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (o *TracingObserver) OnActorPaused(ctx context.Context, actorID string) {
	_, span := o.tracer.Start(ctx, "pointer.pause",
		trace.WithAttributes(attribute.String("pointer.actor_id", actorID)),
	)
	o.mu.Lock()
	defer o.mu.Unlock()
	if prev, ok := o.pauses[actorID]; ok {
		prev.End()
	}
	o.pauses[actorID] = span
}

func (o *TracingObserver) OnActorResumed(ctx context.Context, actorID string) {
	o.mu.Lock()
	span, ok := o.pauses[actorID]
	delete(o.pauses, actorID)
	o.mu.Unlock()
	if ok {
		span.End()
	}
}

func (o *TracingObserver) OnActorReset(ctx context.Context, actorID string) {
	o.OnActorResumed(ctx, actorID)

	o.mu.Lock()
	defer o.mu.Unlock()
	for info, span := range o.actions {
		if info.ActorID == actorID {
			span.SetAttributes(attribute.Bool("pointer.reset", true))
		}
	}
}
