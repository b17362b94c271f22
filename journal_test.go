package pointer

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

type failingStore struct{ EventStore }

func (failingStore) AppendEvent(context.Context, ActorEvent) error {
	return errors.New("disk full")
}

func TestJournalObserver_RecordsActorHistory(t *testing.T) {
	t.Parallel()
	loop := NewVirtualLoop(epoch)
	doc := memdoc.New(memdoc.Options{})
	store := NewInMemoryEventStore()
	journal := NewJournalObserver(store, nil, loop.Now)

	a := NewActor(doc, loop, Options{ID: "p1", Observer: journal})
	a.WaitForEvent("click").Move(To("#missing"))
	loop.RunPending()
	doc.Trigger(a.Element(), "click")
	loop.Advance(2 * time.Second)
	a.Reset()

	events, err := store.ListEvents(context.Background(), "p1")
	require.NoError(t, err)

	var types []string
	for _, ev := range events {
		types = append(types, string(ev.Type))
	}
	require.Equal(t, []string{
		"action.enqueued", "action.enqueued",
		"action.started", "actor.paused", "action.completed",
		"actor.resumed",
		"action.started", "action.enqueued", "action.started", "action.failed", "action.completed",
		"action.completed",
		"actor.reset",
	}, types)

	failed := events[9]
	require.Equal(t, MoveQueue, failed.Queue)
	require.Contains(t, failed.Detail, "not found")
	require.Equal(t, epoch.Add(250*time.Millisecond), failed.At)
}

func TestJournalObserver_LogsAppendFailures(t *testing.T) {
	t.Parallel()
	journal := NewJournalObserver(failingStore{}, nil, nil)

	require.NotPanics(t, func() {
		journal.OnActorPaused(context.Background(), "p1")
	})
}

func TestNewSQLiteJournal_SurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bundle, err := NewSQLiteJournal(db, nil, func() time.Time { return epoch })
	require.NoError(t, err)

	loop := NewVirtualLoop(epoch)
	a := NewActor(memdoc.New(memdoc.Options{}), loop, Options{ID: "p1", Observer: bundle.Observer})
	a.Pause().Resume()
	require.NoError(t, db.Close())

	db, err = sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLiteEventStore(db)
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, EventActorPaused, events[0].Type)
	require.Equal(t, EventActorResumed, events[1].Type)
	require.True(t, events[0].At.Equal(epoch))

	actors, err := store.ListActors(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, actors)

	_, err = store.ListEvents(ctx, "nobody")
	require.ErrorIs(t, err, ErrNoEvents)
}
