package pointer

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/petrijr/pointer/internal/persistence"
	"github.com/petrijr/pointer/pkg/api"
)

// EventStore is the append-only actor journal.
type EventStore = persistence.EventStore

// Journal event types.
const (
	EventActionEnqueued  = api.EventActionEnqueued
	EventActionStarted   = api.EventActionStarted
	EventActionCompleted = api.EventActionCompleted
	EventActionFailed    = api.EventActionFailed
	EventActorPaused     = api.EventActorPaused
	EventActorResumed    = api.EventActorResumed
	EventActorReset      = api.EventActorReset
)

// ErrNoEvents is returned when an actor has no journal entries.
var ErrNoEvents = persistence.ErrNoEvents

// NewInMemoryEventStore returns a journal kept in memory.
func NewInMemoryEventStore() EventStore {
	return persistence.NewInMemoryEventStore()
}

// NewSQLiteEventStore returns a journal stored in the actor_events table of
// db, creating it if needed.
func NewSQLiteEventStore(db *sql.DB) (EventStore, error) {
	return persistence.NewSQLiteEventStore(db)
}

// JournalObserver records every observer callback as an ActorEvent.
// Append failures are logged and otherwise ignored.
type JournalObserver struct {
	store  EventStore
	logger *slog.Logger
	now    func() time.Time
}

// NewJournalObserver returns an Observer writing to store. now stamps the
// events; nil means time.Now. A nil logger means slog.Default().
func NewJournalObserver(store EventStore, logger *slog.Logger, now func() time.Time) *JournalObserver {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &JournalObserver{store: store, logger: logger, now: now}
}

func (j *JournalObserver) append(ctx context.Context, ev ActorEvent) {
	ev.At = j.now()
	if err := j.store.AppendEvent(ctx, ev); err != nil {
		j.logger.WarnContext(ctx, "journal_append_failed",
			slog.String("actor_id", ev.ActorID),
			slog.String("type", string(ev.Type)),
			slog.Any("error", err),
		)
	}
}

func (j *JournalObserver) action(ctx context.Context, typ api.EventType, info ActionInfo, detail string) {
	j.append(ctx, ActorEvent{
		ActorID: info.ActorID,
		Type:    typ,
		Queue:   info.Queue,
		Action:  info.Action,
		Detail:  detail,
	})
}

func (j *JournalObserver) OnActionEnqueued(ctx context.Context, info ActionInfo) {
	j.action(ctx, EventActionEnqueued, info, "")
}

func (j *JournalObserver) OnActionStart(ctx context.Context, info ActionInfo) {
	j.action(ctx, EventActionStarted, info, "")
}

func (j *JournalObserver) OnActionCompleted(ctx context.Context, info ActionInfo, d time.Duration) {
	j.action(ctx, EventActionCompleted, info, d.String())
}

func (j *JournalObserver) OnActionFailed(ctx context.Context, info ActionInfo, err error) {
	j.action(ctx, EventActionFailed, info, err.Error())
}

func (j *JournalObserver) OnActorPaused(ctx context.Context, actorID string) {
	j.append(ctx, ActorEvent{ActorID: actorID, Type: EventActorPaused})
}

func (j *JournalObserver) OnActorResumed(ctx context.Context, actorID string) {
	j.append(ctx, ActorEvent{ActorID: actorID, Type: EventActorResumed})
}

func (j *JournalObserver) OnActorReset(ctx context.Context, actorID string) {
	j.append(ctx, ActorEvent{ActorID: actorID, Type: EventActorReset})
}
