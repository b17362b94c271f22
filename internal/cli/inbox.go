package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/pointer/internal/taskqueue"
)

// inboxTarget names where remote commands are queued. A Redis address wins
// over a SQLite path.
type inboxTarget struct {
	redisAddr string
	path      string
}

func (t inboxTarget) configured() bool {
	return t.redisAddr != "" || t.path != ""
}

func (t inboxTarget) String() string {
	if t.redisAddr != "" {
		return "redis://" + t.redisAddr
	}
	return t.path
}

// openInbox returns the queue for t and a function that releases it.
func openInbox(ctx context.Context, t inboxTarget, logger *slog.Logger) (taskqueue.Queue, func() error, error) {
	switch {
	case t.redisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: t.redisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect %s: %w", t, err)
		}
		return taskqueue.NewRedisQueue(client, "pointer:", logger), client.Close, nil
	case t.path != "":
		db, err := openSQLite(t.path)
		if err != nil {
			return nil, nil, err
		}
		q, err := taskqueue.NewSQLiteQueue(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return q, db.Close, nil
	default:
		return nil, nil, errors.New("no inbox configured")
	}
}
