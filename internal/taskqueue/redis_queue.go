package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements the Queue interface using Redis.
//
// Tasks live in a single sorted set with key:
//
//	<prefix>tasks
//
// Members are gob-encoded Task structs scored by NotBefore in Unix
// microseconds, so delayed redeliveries stay behind tasks that are due.
// Tasks due in the same microsecond come out in no particular order.
type RedisQueue struct {
	client       *redis.Client
	key          string
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewRedisQueue constructs a Redis-backed Queue.
// prefix is optional but recommended (e.g. "pointer:").
func NewRedisQueue(client *redis.Client, prefix string, logger *slog.Logger) *RedisQueue {
	if prefix == "" {
		prefix = "pointer:"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisQueue{
		client:       client,
		key:          prefix + "tasks",
		pollInterval: 20 * time.Millisecond,
		logger:       logger,
	}
}

// Ensure RedisQueue implements Queue.
var _ Queue = (*RedisQueue)(nil)

// Enqueue adds the task to the sorted set (ZADD).
func (q *RedisQueue) Enqueue(ctx context.Context, t Task) error {
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
	data, err := encodeTask(t)
	if err != nil {
		return fmt.Errorf("encode %s task: %w", t.Type, err)
	}
	return q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(notBefore.UnixMicro()),
		Member: data,
	}).Err()
}

// Dequeue polls for the first due task until one is claimed or ctx is
// cancelled.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Task, error) {
	for {
		task, err := q.claim(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if task != nil {
			return task, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

// claim removes and returns the first due member. ZREM decides between
// consumers racing for the same member; the loser sees nil.
func (q *RedisQueue) claim(ctx context.Context) (*Task, error) {
	members, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().UnixMicro(), 10),
		Count: 1,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	removed, err := q.client.ZRem(ctx, q.key, members[0]).Result()
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		return nil, nil
	}
	return decodeTask([]byte(members[0]))
}

// Len returns the number of tasks queued (ZCARD), due or not.
func (q *RedisQueue) Len() int {
	n, err := q.client.ZCard(context.Background(), q.key).Result()
	if err != nil {
		// For a Len() helper, it's better to log and return 0 than panic.
		q.logger.Warn("redis_queue_len_failed", slog.Any("error", err))
		return 0
	}
	return int(n)
}
