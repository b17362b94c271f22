package pointer

import (
	"database/sql"
	"log/slog"
	"time"
)

// JournalBundle wires a durable journal store to the observer that feeds
// it.
type JournalBundle struct {
	Store    EventStore
	Observer *JournalObserver
}

// NewSQLiteJournal constructs a journal persisted in db. Events written
// through Observer survive process restarts.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:pointer.db?_journal=WAL")
//	journal, err := pointer.NewSQLiteJournal(db, logger, nil)
//	stage := pointer.NewStage(surface, pointer.StageOptions{Observer: journal.Observer})
func NewSQLiteJournal(db *sql.DB, logger *slog.Logger, now func() time.Time) (*JournalBundle, error) {
	store, err := NewSQLiteEventStore(db)
	if err != nil {
		return nil, err
	}
	return &JournalBundle{
		Store:    store,
		Observer: NewJournalObserver(store, logger, now),
	}, nil
}
