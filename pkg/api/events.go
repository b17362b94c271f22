package api

import "time"

// EventType identifies an actor journal event.
type EventType string

const (
	EventActionEnqueued  EventType = "action.enqueued"
	EventActionStarted   EventType = "action.started"
	EventActionCompleted EventType = "action.completed"
	EventActionFailed    EventType = "action.failed"

	EventActorPaused  EventType = "actor.paused"
	EventActorResumed EventType = "actor.resumed"
	EventActorReset   EventType = "actor.reset"
)

// ActorEvent is a minimal append-only journal record for replay debugging.
type ActorEvent struct {
	ActorID string
	At      time.Time
	Type    EventType

	// Optional context; empty for actor-level events.
	Queue  string
	Action string

	// Small, human-oriented details (error string, duration).
	Detail string
}
