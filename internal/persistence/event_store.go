// Package persistence stores the actor journal: an append-only history of
// what each actor's queues did, kept for replay debugging.
package persistence

import (
	"context"
	"errors"

	"github.com/petrijr/pointer/pkg/api"
)

// ErrNoEvents is returned by stores that distinguish an unknown actor from
// an actor with an empty history.
var ErrNoEvents = errors.New("no events recorded")

// EventStore is an append-only history store for actor events.
type EventStore interface {
	AppendEvent(ctx context.Context, ev api.ActorEvent) error
	ListEvents(ctx context.Context, actorID string) ([]api.ActorEvent, error)
	ListActors(ctx context.Context) ([]string, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.ActorEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, actorID string) ([]api.ActorEvent, error) {
	return nil, nil
}
func (NoopEventStore) ListActors(ctx context.Context) ([]string, error) { return nil, nil }
