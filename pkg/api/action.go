package api

import "time"

// Continuation releases the queue so the next action can run. It must be
// called exactly once per action; extra calls are ignored and reported.
type Continuation func()

// Action is a unit of queued work. It receives the continuation that hands
// control to the next queued action.
type Action func(next Continuation)

// Queue names used by an actor.
const (
	// DefaultQueue holds every chained action.
	DefaultQueue = "fx"

	// MoveQueue carries the instant repositioning step of a move. It drains
	// independently of DefaultQueue.
	MoveQueue = "move-now"
)

// PauseStrategy selects how a paused gate notices that it was resumed.
type PauseStrategy uint8

const (
	// PauseDefault leaves the choice to the owner: a stage substitutes its
	// own strategy, a standalone gate polls.
	PauseDefault PauseStrategy = iota

	// PausePoll re-checks the paused flag every Timings.PausePoll.
	PausePoll

	// PauseNotify re-checks parked actions as soon as Resume is called.
	PauseNotify
)

func (s PauseStrategy) String() string {
	if s == PauseNotify {
		return "notify"
	}
	return "poll"
}

// ParsePauseStrategy maps "poll" and "notify" to a strategy. Anything else
// yields PausePoll and false.
func ParsePauseStrategy(s string) (PauseStrategy, bool) {
	switch s {
	case "poll", "":
		return PausePoll, true
	case "notify":
		return PauseNotify, true
	default:
		return PausePoll, false
	}
}

// Timings holds the durations used by the built-in actions.
type Timings struct {
	MoveDuration   time.Duration
	MoveSettle     time.Duration
	TeleportSettle time.Duration
	ClickSettle    time.Duration
	ClickFlash     time.Duration
	PausePoll      time.Duration
	AnnotateSwap   time.Duration
	AnnotateSettle time.Duration
	ScrollMargin   float64
}

// DefaultTimings returns the stock timing profile.
func DefaultTimings() Timings {
	return Timings{
		MoveDuration:   time.Second,
		MoveSettle:     time.Second,
		TeleportSettle: 200 * time.Millisecond,
		ClickSettle:    400 * time.Millisecond,
		ClickFlash:     200 * time.Millisecond,
		PausePoll:      250 * time.Millisecond,
		AnnotateSwap:   500 * time.Millisecond,
		AnnotateSettle: time.Second,
		ScrollMargin:   200,
	}
}

// WithDefaults returns DefaultTimings when t is the zero value. Otherwise it
// returns t with a non-positive PausePoll replaced by the default, since the
// gate cannot poll at a zero interval.
func (t Timings) WithDefaults() Timings {
	if t == (Timings{}) {
		return DefaultTimings()
	}
	if t.PausePoll <= 0 {
		t.PausePoll = DefaultTimings().PausePoll
	}
	return t
}
