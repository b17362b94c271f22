// Package worker lets another goroutine or process drive a running stage.
//
// Tasks are written to a task queue and applied by a Worker that owns the
// stage. Three kinds of task exist:
//
//   - play: a list of scenario steps for one actor, created on demand
//   - trigger: a synthetic event on the first element matching a selector
//   - reset: a reset of one actor, or of every actor on the stage
//
// A Worker never touches actors from its own goroutine. Every task is
// posted onto the stage's scheduler, so it runs between actions like any
// other callback.
//
// # Queues
//
// The in-memory queue serves workers inside one process. The SQLite queue
// lets a separate process enqueue into a shared database file, which is how
// the pointerdemo "send" command talks to a running demo.
//
// # Redelivery
//
// A trigger whose element is missing can be delivered again after a
// backoff, for up to Config.MaxAttempts deliveries. This covers elements
// that a scenario reload has not created yet. Play and reset tasks are
// delivered once.
//
// # Usage
//
//	w := worker.New(stage, queue, logger)
//	go func() { _ = w.Run(ctx) }()
//
//	_ = w.EnqueuePlay(ctx, "guide", []scenario.Step{
//	    {Do: "move", Target: &scenario.Target{Selector: "#signup"}},
//	    {Do: "click"},
//	})
package worker
