package worker

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/pointer"
	"github.com/petrijr/pointer/internal/scenario"
	"github.com/petrijr/pointer/internal/taskqueue"
)

func init() {
	gob.Register(PlayPayload{})
}

// ErrUnknownTask is returned for tasks whose type the worker does not know.
var ErrUnknownTask = errors.New("unknown task type")

// ErrNoStage is returned by ProcessOne on a worker built without a stage.
var ErrNoStage = errors.New("worker has no stage")

// PlayPayload is the payload of a play task. Steps holds the YAML form of
// the step list, the same shape as an actor's steps in a scenario file.
type PlayPayload struct {
	Steps string
}

// Config controls redelivery of trigger tasks whose element is missing.
type Config struct {
	// MaxAttempts is the total number of deliveries. Values below 1 mean 1.
	MaxAttempts int

	// Backoff is the delay before a redelivery.
	Backoff time.Duration
}

// Worker pulls tasks from a Queue and applies them to a Stage. Tasks are
// applied on the stage's scheduler, never on the caller's goroutine.
type Worker struct {
	stage  *pointer.Stage
	queue  taskqueue.Queue
	cfg    Config
	logger *slog.Logger
}

// New creates a Worker that delivers every task once. stage may be nil for
// a worker that only enqueues.
func New(stage *pointer.Stage, queue taskqueue.Queue, logger *slog.Logger) *Worker {
	return NewWithConfig(stage, queue, logger, Config{MaxAttempts: 1})
}

// NewWithConfig creates a Worker with a redelivery policy.
func NewWithConfig(stage *pointer.Stage, queue taskqueue.Queue, logger *slog.Logger, cfg Config) *Worker {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		stage:  stage,
		queue:  queue,
		cfg:    cfg,
		logger: logger,
	}
}

// EnqueuePlay enqueues steps to be played by the actor with the given id,
// which is created on the stage if needed. The steps are validated before
// anything is queued.
func (w *Worker) EnqueuePlay(ctx context.Context, actorID string, steps []scenario.Step) error {
	return w.EnqueuePlayAt(ctx, actorID, steps, time.Time{})
}

// EnqueuePlayAt is EnqueuePlay for a task that becomes eligible at at.
func (w *Worker) EnqueuePlayAt(ctx context.Context, actorID string, steps []scenario.Step, at time.Time) error {
	if actorID == "" {
		return fmt.Errorf("%w: play task needs an actor id", scenario.ErrInvalidScenario)
	}
	if _, err := (scenario.ActorDef{ID: actorID, Steps: steps}).Script(); err != nil {
		return err
	}
	data, err := yaml.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	return w.queue.Enqueue(ctx, taskqueue.Task{
		Type:       taskqueue.TaskTypePlay,
		ActorID:    actorID,
		Payload:    PlayPayload{Steps: string(data)},
		EnqueuedAt: time.Now(),
		NotBefore:  at,
	})
}

// EnqueueTrigger enqueues a synthetic event on the first element matching
// selector.
func (w *Worker) EnqueueTrigger(ctx context.Context, selector, event string) error {
	if selector == "" || event == "" {
		return errors.New("trigger task needs a selector and an event")
	}
	return w.queue.Enqueue(ctx, taskqueue.Task{
		Type:       taskqueue.TaskTypeTrigger,
		Selector:   selector,
		Event:      event,
		EnqueuedAt: time.Now(),
	})
}

// EnqueueReset enqueues a reset of one actor, or of every actor when
// actorID is empty.
func (w *Worker) EnqueueReset(ctx context.Context, actorID string) error {
	return w.queue.Enqueue(ctx, taskqueue.Task{
		Type:       taskqueue.TaskTypeReset,
		ActorID:    actorID,
		EnqueuedAt: time.Now(),
	})
}

// ProcessOne pulls a single task from the queue and processes it.
// Returns (processed, error):
//   - processed == false: no task was obtained, err is the dequeue error
//   - processed == true: a task was taken; err reports whether it applied
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	if w.stage == nil {
		return false, ErrNoStage
	}
	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}

	switch task.Type {
	case taskqueue.TaskTypePlay:
		return true, w.play(task)
	case taskqueue.TaskTypeTrigger:
		return true, w.trigger(ctx, task)
	case taskqueue.TaskTypeReset:
		w.reset(task.ActorID)
		return true, nil
	default:
		return true, fmt.Errorf("%w: %q", ErrUnknownTask, task.Type)
	}
}

// Run processes tasks until ctx is cancelled. Task failures are logged and
// do not stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	for {
		processed, err := w.ProcessOne(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if !processed {
				return err
			}
			w.logger.Warn("worker_task_failed", slog.Any("error", err))
		}
	}
}

func (w *Worker) play(task *taskqueue.Task) error {
	payload, ok := task.Payload.(PlayPayload)
	if !ok {
		return fmt.Errorf("invalid payload type %T for play task", task.Payload)
	}
	var steps []scenario.Step
	if err := yaml.Unmarshal([]byte(payload.Steps), &steps); err != nil {
		return fmt.Errorf("play task %s: unmarshal steps: %w", task.ID, err)
	}
	script, err := (scenario.ActorDef{ID: task.ActorID, Steps: steps}).Script()
	if err != nil {
		return fmt.Errorf("play task %s: %w", task.ID, err)
	}

	w.stage.Scheduler.Post(func() {
		script.Play(w.stage.NewActor(pointer.Options{ID: task.ActorID}))
	})
	w.logger.Info("worker_play",
		slog.String("task_id", task.ID),
		slog.String("actor_id", task.ActorID),
		slog.Int("steps", len(steps)),
	)
	return nil
}

func (w *Worker) trigger(ctx context.Context, task *taskqueue.Task) error {
	el, ok := w.stage.Surface.FindElement(task.Selector)
	if !ok {
		err := fmt.Errorf("trigger %s on %q: %w", task.Event, task.Selector, pointer.ErrTargetNotFound)
		if task.Attempts+1 >= w.cfg.MaxAttempts {
			return err
		}
		retry := *task
		retry.Attempts++
		retry.NotBefore = time.Now().Add(w.cfg.Backoff)
		if qerr := w.queue.Enqueue(ctx, retry); qerr != nil {
			return errors.Join(err, qerr)
		}
		w.logger.Debug("worker_trigger_retry",
			slog.String("selector", task.Selector),
			slog.Int("attempt", retry.Attempts),
		)
		return nil
	}

	w.stage.Scheduler.Post(func() {
		w.stage.Surface.Trigger(el, task.Event)
	})
	return nil
}

func (w *Worker) reset(actorID string) {
	w.stage.Scheduler.Post(func() {
		if actorID == "" {
			w.stage.ResetAll()
			return
		}
		if a, err := w.stage.Actor(actorID); err == nil {
			a.Reset()
		}
	})
}
