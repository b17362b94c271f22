package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/petrijr/pointer/pkg/api"
)

func newSQLiteEventStore(t *testing.T) EventStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every statement on the same in-memory
	// database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewSQLiteEventStore(db)
	require.NoError(t, err)
	return store
}

func eventStoreFactories() map[string]func(t *testing.T) EventStore {
	return map[string]func(t *testing.T) EventStore{
		"in-memory": func(t *testing.T) EventStore { return NewInMemoryEventStore() },
		"sqlite":    newSQLiteEventStore,
	}
}

func TestEventStore_AppendAndList(t *testing.T) {
	for name, factory := range eventStoreFactories() {
		factory := factory
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := factory(t)
			ctx := context.Background()
			at := time.Unix(1700000000, 42)

			require.NoError(t, store.AppendEvent(ctx, api.ActorEvent{
				ActorID: "p1", At: at, Type: api.EventActionStarted,
				Queue: api.DefaultQueue, Action: "move",
			}))
			require.NoError(t, store.AppendEvent(ctx, api.ActorEvent{
				ActorID: "p1", At: at.Add(time.Second), Type: api.EventActionFailed,
				Queue: api.MoveQueue, Action: "move", Detail: "target not found",
			}))
			require.NoError(t, store.AppendEvent(ctx, api.ActorEvent{
				ActorID: "p2", Type: api.EventActorPaused,
			}))

			evs, err := store.ListEvents(ctx, "p1")
			require.NoError(t, err)
			require.Len(t, evs, 2)
			require.Equal(t, api.EventActionStarted, evs[0].Type)
			require.True(t, at.Equal(evs[0].At))
			require.Equal(t, api.MoveQueue, evs[1].Queue)
			require.Equal(t, "target not found", evs[1].Detail)

			evs, err = store.ListEvents(ctx, "p2")
			require.NoError(t, err)
			require.Len(t, evs, 1)
			require.False(t, evs[0].At.IsZero())

			_, err = store.ListEvents(ctx, "nobody")
			require.True(t, errors.Is(err, ErrNoEvents))

			actors, err := store.ListActors(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"p1", "p2"}, actors)
		})
	}
}

func TestNoopEventStore(t *testing.T) {
	var s EventStore = NoopEventStore{}
	ctx := context.Background()

	require.NoError(t, s.AppendEvent(ctx, api.ActorEvent{ActorID: "x"}))
	evs, err := s.ListEvents(ctx, "x")
	require.NoError(t, err)
	require.Empty(t, evs)
}
