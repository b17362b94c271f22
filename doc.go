// Package pointer provides scripted pointer actors for guided tours and
// interactive demos.
//
// A pointer is a visual cursor that moves across a document, flashes clicks,
// pulses for attention, shows annotations, and waits for the user to click
// before continuing. Scripts are written as chained calls that only enqueue
// work; a single scheduler then plays each actor's queue in order.
//
// # Core Concepts
//
// The programming model is small:
//
//  1. Surface
//  2. Scheduler
//  3. Actor
//  4. Script
//  5. Stage
//
// # Surface
//
// A Surface is the document the pointers live on. It finds elements by
// selector, reports their boxes, applies transitions, delivers events, and
// shows overlays. Two implementations ship with the module:
//
//   - pkg/surface/memdoc: an in-memory document for tests and headless runs
//   - pkg/surface/term: a terminal renderer built on tcell
//
// # Scheduler
//
// Every action, continuation and timer runs on one Scheduler, so actor
// state is never touched by two callbacks at once:
//
//   - EventLoop runs in real time; drive it with Run or Stage.Start
//   - VirtualLoop has a manual clock; drive it with RunPending and Advance
//
// # Actor
//
// An Actor owns one element and a set of named FIFO queues. Each queued
// action receives a continuation and must call it exactly once; the next
// action starts only after that. Moves are resolved when they are dequeued,
// so a script can target elements that do not exist yet.
//
//	guide.Show().
//	    Move(pointer.To("#signup")).
//	    AnnotateUntilClicked("Start here").
//	    Click().
//	    Move(pointer.By(0, 40)).
//	    PulsateUntilClicked()
//
// Pause stops queued actions from starting without interrupting the one in
// flight. WaitForEvent pauses until an event fires once. Reset drops every
// pending action and restores a clean, resumed actor.
//
// # Script
//
// Script records a reusable sequence of steps that can be played on any
// actor:
//
//	tour := pointer.NewScript("Tour").
//	    Move(pointer.To("#menu")).
//	    Click().
//	    Annotate("Settings live here")
//
//	tour.Play(guide)
//
// # Stage
//
// Stage bundles a Surface, a Scheduler and a Registry of actors. It applies
// shared defaults (observer, timings, pause strategy) and starts or stops
// the scheduler for the whole document.
//
// # Observability
//
// Actors report queue activity to an Observer. LoggingObserver writes slog
// records, BasicMetrics counts, TracingObserver opens OpenTelemetry spans,
// and JournalObserver appends to an EventStore (in memory or SQLite) for
// replay debugging. Combine them with NewCompositeObserver.
//
// For runnable programs, see the /examples and /cmd directories.
package pointer
