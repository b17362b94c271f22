// Package taskqueue carries remote-control tasks to a running stage. One
// process enqueues scripts to play, events to trigger and resets; the
// process hosting the stage dequeues and applies them.
package taskqueue

import (
	"context"
	"time"
)

// TaskType identifies what the worker should do.
type TaskType string

const (
	TaskTypePlay    TaskType = "play"
	TaskTypeTrigger TaskType = "trigger"
	TaskTypeReset   TaskType = "reset"
)

// Task represents a unit of work for the worker.
type Task struct {
	ID   string
	Type TaskType

	// ActorID names the actor for play and reset tasks. An empty id on a
	// reset task means every actor.
	ActorID string

	// For trigger tasks
	Selector string
	Event    string

	// Payload is task-type specific:
	//   - play: worker.PlayPayload
	//   - trigger, reset: unused
	Payload any

	EnqueuedAt time.Time

	// NotBefore is the earliest time this task should be eligible
	// for processing. Zero value means "immediately".
	NotBefore time.Time

	// Attempts counts earlier failed deliveries of the task.
	Attempts int
}

// Queue is a simple async task queue interface.
type Queue interface {
	// Enqueue adds a task to the queue. It should respect ctx for cancellation.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue removes and returns the next eligible task, blocking until one
	// is available or the context is cancelled.
	Dequeue(ctx context.Context) (*Task, error)

	// Len returns the approximate number of tasks queued.
	Len() int
}
