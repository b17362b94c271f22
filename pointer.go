package pointer

import (
	"time"

	"github.com/petrijr/pointer/internal/scheduler"
	"github.com/petrijr/pointer/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Surface      = api.Surface
	Element      = api.Element
	Event        = api.Event
	Subscription = api.Subscription
	Transition   = api.Transition
	VisualState  = api.VisualState
	Overlay      = api.Overlay
	OverlayLink  = api.OverlayLink

	Point    = api.Point
	Rect     = api.Rect
	Coords   = api.Coords
	MoveArgs = api.MoveArgs
	MoveKind = api.MoveKind

	Action        = api.Action
	Continuation  = api.Continuation
	Timings       = api.Timings
	PauseStrategy = api.PauseStrategy

	Observer             = api.Observer
	ActionInfo           = api.ActionInfo
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
	TracingObserver      = api.TracingObserver
	ActorEvent           = api.ActorEvent

	// Scheduler serializes every action, continuation and timer.
	Scheduler = scheduler.Scheduler
)

// Re-export move argument constructors and observer helpers.

var (
	To            = api.To
	ToOffset      = api.ToOffset
	ToPoint       = api.ToPoint
	ToPointOffset = api.ToPointOffset
	ToXY          = api.ToXY
	By            = api.By
	LeftTop       = api.LeftTop
	XY            = api.XY

	DefaultTimings = api.DefaultTimings

	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	NewTracingObserver   = api.NewTracingObserver
)

// Re-export sentinel errors.

var (
	ErrInvalidTarget          = api.ErrInvalidTarget
	ErrTargetNotFound         = api.ErrTargetNotFound
	ErrInvalidAnnotationInput = api.ErrInvalidAnnotationInput
	ErrContinuationReused     = api.ErrContinuationReused
)

const (
	DefaultQueue = api.DefaultQueue
	MoveQueue    = api.MoveQueue

	PauseDefault = api.PauseDefault
	PausePoll    = api.PausePoll
	PauseNotify  = api.PauseNotify
)

// Scheduler constructors.
// These wrap the internal/scheduler package so external callers
// never need to import internal packages.

// EventLoop is a real-time Scheduler. Call Run (or Stage.Start) to drive it.
type EventLoop = scheduler.EventLoop

// VirtualLoop is a Scheduler with a manual clock.
type VirtualLoop = scheduler.VirtualLoop

// NewEventLoop returns an idle real-time scheduler.
var NewEventLoop = scheduler.NewEventLoop

// NewVirtualLoop returns a manual-clock scheduler starting at start.
func NewVirtualLoop(start time.Time) *VirtualLoop {
	return scheduler.NewVirtualLoop(start)
}
