package taskqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteQueue is a persistent Queue backed by SQLite. Several processes may
// share the database file: one enqueues, another dequeues. Tasks are served
// in (not_before, id) order.
type SQLiteQueue struct {
	db           *sql.DB
	pollInterval time.Duration
}

// NewSQLiteQueue initializes the pointer_tasks table in the given DB and
// returns a new queue.
func NewSQLiteQueue(db *sql.DB) (*SQLiteQueue, error) {
	q := &SQLiteQueue{
		db:           db,
		pollInterval: 20 * time.Millisecond,
	}
	if err := q.initSchema(); err != nil {
		return nil, fmt.Errorf("init pointer_tasks schema: %w", err)
	}
	return q, nil
}

func (q *SQLiteQueue) initSchema() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS pointer_tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL,
			type TEXT NOT NULL,
			actor_id TEXT,
			selector TEXT,
			event TEXT,
			payload BLOB,
			enqueued_at INTEGER NOT NULL,
			not_before INTEGER NOT NULL,
			attempts INTEGER NOT NULL
		);
	`)
	return err
}

// Ensure SQLiteQueue implements Queue.
var _ Queue = (*SQLiteQueue)(nil)

func (q *SQLiteQueue) Enqueue(ctx context.Context, t Task) error {
	payload, err := encodePayload(t.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", t.Type, err)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	notBefore := t.NotBefore
	if notBefore.IsZero() {
		notBefore = t.EnqueuedAt
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO pointer_tasks (task_id, type, actor_id, selector, event, payload, enqueued_at, not_before, attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		string(t.Type),
		t.ActorID,
		t.Selector,
		t.Event,
		payload,
		t.EnqueuedAt.UnixNano(),
		notBefore.UnixNano(),
		t.Attempts,
	)
	return err
}

func (q *SQLiteQueue) Dequeue(ctx context.Context) (*Task, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		task, err := q.claim(ctx)
		if err != nil {
			return nil, err
		}
		if task != nil {
			return task, nil
		}

		// Nothing available: sleep a bit and retry.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

// claim deletes and returns the first eligible row, or nil when there is
// none.
func (q *SQLiteQueue) claim(ctx context.Context) (*Task, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		id         int64
		taskID     string
		typ        string
		actorID    sql.NullString
		selector   sql.NullString
		event      sql.NullString
		payload    []byte
		enqueuedAt int64
		notBefore  int64
		attempts   int
	)
	row := tx.QueryRowContext(ctx, `
		SELECT id, task_id, type, actor_id, selector, event, payload, enqueued_at, not_before, attempts
		FROM pointer_tasks
		WHERE not_before <= ?
		ORDER BY not_before, id
		LIMIT 1`, time.Now().UnixNano())
	err = row.Scan(&id, &taskID, &typ, &actorID, &selector, &event, &payload, &enqueuedAt, &notBefore, &attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pointer_tasks WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	decoded, err := decodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("decode task %s payload: %w", taskID, err)
	}

	return &Task{
		ID:         taskID,
		Type:       TaskType(typ),
		ActorID:    actorID.String,
		Selector:   selector.String,
		Event:      event.String,
		Payload:    decoded,
		EnqueuedAt: time.Unix(0, enqueuedAt),
		NotBefore:  time.Unix(0, notBefore),
		Attempts:   attempts,
	}, nil
}

func (q *SQLiteQueue) Len() int {
	var n int
	if err := q.db.QueryRow(`SELECT COUNT(*) FROM pointer_tasks`).Scan(&n); err != nil {
		return 0
	}
	return n
}
