package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/petrijr/pointer/pkg/api"
)

// SQLiteEventStore stores actor events in SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements the interface.
var _ EventStore = (*SQLiteEventStore)(nil)

func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init actor_events schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS actor_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			actor_id TEXT NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			queue TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_actor_events_actor_id ON actor_events(actor_id, id);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.ActorEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO actor_events (actor_id, at, type, queue, action, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ActorID,
		at.UnixNano(),
		string(ev.Type),
		ev.Queue,
		ev.Action,
		ev.Detail,
	)
	return err
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, actorID string) ([]api.ActorEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT actor_id, at, type, queue, action, detail
		FROM actor_events
		WHERE actor_id = ?
		ORDER BY id ASC`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.ActorEvent
	for rows.Next() {
		var (
			id     string
			atN    int64
			typ    string
			queue  string
			action string
			detail string
		)
		if err := rows.Scan(&id, &atN, &typ, &queue, &action, &detail); err != nil {
			return nil, err
		}
		out = append(out, api.ActorEvent{
			ActorID: id,
			At:      time.Unix(0, atN),
			Type:    api.EventType(typ),
			Queue:   queue,
			Action:  action,
			Detail:  detail,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoEvents
	}
	return out, nil
}

func (s *SQLiteEventStore) ListActors(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT actor_id FROM actor_events ORDER BY actor_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
