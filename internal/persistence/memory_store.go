package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petrijr/pointer/pkg/api"
)

// InMemoryEventStore is a goroutine-safe EventStore backed by a map.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]api.ActorEvent
}

// NewInMemoryEventStore creates an empty InMemoryEventStore.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{events: make(map[string][]api.ActorEvent)}
}

// Ensure InMemoryEventStore implements the interface.
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(ctx context.Context, ev api.ActorEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ActorID] = append(s.events[ev.ActorID], ev)
	return nil
}

func (s *InMemoryEventStore) ListEvents(ctx context.Context, actorID string) ([]api.ActorEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	evs, ok := s.events[actorID]
	if !ok {
		return nil, ErrNoEvents
	}
	out := make([]api.ActorEvent, len(evs))
	copy(out, evs)
	return out, nil
}

func (s *InMemoryEventStore) ListActors(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.events))
	for id := range s.events {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
