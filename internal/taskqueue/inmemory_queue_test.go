package taskqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	q := NewInMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, Task{ID: "1", Type: TaskTypePlay}))
	require.NoError(t, q.Enqueue(ctx, Task{ID: "2", Type: TaskTypeReset}))
	require.Equal(t, 2, q.Len())

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)
	require.False(t, got.EnqueuedAt.IsZero())

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "2", got.ID)
	require.Zero(t, q.Len())
}

func TestInMemoryQueue_DequeueHonoursContext(t *testing.T) {
	q := NewInMemoryQueue(0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := q.Dequeue(ctx)
	require.Nil(t, got)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInMemoryQueue_EnqueueHonoursContextWhenFull(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue(context.Background(), Task{ID: "1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, q.Enqueue(ctx, Task{ID: "2"}), context.Canceled)
}

func TestInMemoryQueue_HoldsTaskUntilNotBefore(t *testing.T) {
	q := NewInMemoryQueue(1)
	at := time.Now().Add(60 * time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Task{ID: "later", NotBefore: at}))

	short, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Dequeue(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, q.Len())

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "later", got.ID)
	require.False(t, time.Now().Before(at))
}

func TestInMemoryQueue_DueTaskOvertakesFutureOne(t *testing.T) {
	q := NewInMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, Task{ID: "later", Type: TaskTypeTrigger, NotBefore: time.Now().Add(time.Hour)}))
	require.NoError(t, q.Enqueue(ctx, Task{ID: "due", Type: TaskTypeReset}))

	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	got, err := q.Dequeue(short)
	require.NoError(t, err)
	require.Equal(t, "due", got.ID)
	require.Equal(t, 1, q.Len())
}

func TestInMemoryQueue_EarlierEnqueueWakesWaitingDequeue(t *testing.T) {
	q := NewInMemoryQueue(4)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Task{ID: "later", NotBefore: time.Now().Add(time.Hour)}))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = q.Enqueue(ctx, Task{ID: "now"})
	}()

	short, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	got, err := q.Dequeue(short)
	require.NoError(t, err)
	require.Equal(t, "now", got.ID)
}

func TestInMemoryQueue_AssignsIDs(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue(context.Background(), Task{Type: TaskTypeReset}))

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Len(t, got.ID, 36)
}

func TestInMemoryQueue_CancelledWaitKeepsTaskInFullQueue(t *testing.T) {
	q := NewInMemoryQueue(1)
	at := time.Now().Add(40 * time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Task{ID: "held", NotBefore: at}))

	short, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Dequeue(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, q.Len())

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "held", got.ID)
}

func TestInMemoryQueue_FullEnqueueWaitsForRoom(t *testing.T) {
	q := NewInMemoryQueue(1)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Task{ID: "1"}))

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(ctx, Task{ID: "2"}) }()

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)
	require.NoError(t, <-done)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "2", got.ID)
}
