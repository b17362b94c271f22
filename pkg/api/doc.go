// Package api contains the core building blocks used by the pointer engine.
// It defines the value types that flow through an actor's action queue, the
// Surface capability the engine drives, and the observability hooks that
// report what the engine is doing.
//
// Most users interact with the higher-level pointer package, which re-exports
// selected types and helpers from this package. The api package is intended
// for surface implementers, custom observers, and contributors extending the
// engine itself.
//
// # Move arguments
//
// A move target is expressed as a MoveArgs value. MoveArgs is a tagged union
// whose Kind selects one of the supported shapes:
//
//   - MoveSelector: the center of the first element matching a selector
//   - MoveSelectorOffset: the same, shifted by a pixel offset
//   - MovePoint: a coordinate object ({Left, Top} or {X, Y})
//   - MovePointOffset: a coordinate object shifted by an offset
//   - MovePair: two raw numbers
//   - MoveRelative: per-axis deltas from the actor's current position
//
// Use the constructors (To, ToOffset, ToPoint, ToPointOffset, ToXY, By) rather
// than filling the struct by hand.
//
// # Surface
//
// Surface abstracts whatever hosts the actors: a browser bridge, a terminal,
// or the in-memory document used by tests. The engine only needs to find
// elements, read their bounds, apply transitions, toggle visual state, show
// overlays, and subscribe to events under a namespace.
//
// # Observability
//
// Observer receives callbacks for every queued action and every pause/resume
// transition. LoggingObserver, BasicMetrics, TracingObserver and
// CompositeObserver are ready-made implementations.
package api
