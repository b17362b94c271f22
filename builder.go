package pointer

import (
	"fmt"
	"time"
)

// ScriptStep is one named step of a Script. It enqueues work on the actor
// it is played on.
type ScriptStep struct {
	Name string
	Fn   func(a *Actor)
}

// Script provides a fluent API for defining reusable choreography:
//
//	tour := pointer.NewScript("Tour").
//	    Show().
//	    Move(pointer.To("#signup")).
//	    AnnotateUntilClicked("Start here").
//	    Click()
//
//	tour.Play(guide)
//
// Playing a script only enqueues actions; the actor's scheduler runs them.
type Script struct {
	name  string
	steps []ScriptStep
}

// NewScript creates a new empty script with the given name.
func NewScript(name string) *Script {
	return &Script{name: name, steps: make([]ScriptStep, 0)}
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// Steps returns a copy of the script's steps.
func (s *Script) Steps() []ScriptStep {
	out := make([]ScriptStep, len(s.steps))
	copy(out, s.steps)
	return out
}

// Len returns the number of steps.
func (s *Script) Len() int {
	return len(s.steps)
}

// Step appends a custom step.
func (s *Script) Step(name string, fn func(a *Actor)) *Script {
	if name == "" {
		panic("pointer: step name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("pointer: step %q has nil function", name))
	}
	s.steps = append(s.steps, ScriptStep{Name: name, Fn: fn})
	return s
}

// Then appends every step of other.
func (s *Script) Then(other *Script) *Script {
	if other == nil {
		panic("pointer: Then with nil script")
	}
	s.steps = append(s.steps, other.Steps()...)
	return s
}

func (s *Script) Move(dest MoveArgs) *Script {
	return s.Step("move", func(a *Actor) { a.Move(dest) })
}

func (s *Script) Teleport(dest MoveArgs) *Script {
	return s.Step("teleport", func(a *Actor) { a.Teleport(dest) })
}

func (s *Script) Click(dest ...MoveArgs) *Script {
	return s.Step("click", func(a *Actor) { a.Click(dest...) })
}

func (s *Script) DoubleClick(dest ...MoveArgs) *Script {
	return s.Step("double-click", func(a *Actor) { a.DoubleClick(dest...) })
}

func (s *Script) RealClick(selector string) *Script {
	return s.Step("real-click", func(a *Actor) { a.RealClick(selector) })
}

func (s *Script) Pulsate(on bool) *Script {
	return s.Step("pulsate", func(a *Actor) { a.Pulsate(on) })
}

func (s *Script) PulsateUntilClicked(dest ...MoveArgs) *Script {
	return s.Step("pulsate-until-clicked", func(a *Actor) { a.PulsateUntilClicked(dest...) })
}

func (s *Script) Annotate(input any) *Script {
	return s.Step("annotate", func(a *Actor) { a.Annotate(input) })
}

func (s *Script) AnnotateUntilClicked(input any) *Script {
	return s.Step("annotate-until-clicked", func(a *Actor) { a.AnnotateUntilClicked(input) })
}

func (s *Script) WaitForEvent(event string, selector ...string) *Script {
	return s.Step("wait", func(a *Actor) { a.WaitForEvent(event, selector...) })
}

func (s *Script) Delay(d time.Duration) *Script {
	return s.Step("delay", func(a *Actor) { a.Delay(d) })
}

func (s *Script) Show() *Script {
	return s.Step("show", func(a *Actor) { a.Show() })
}

func (s *Script) Hide() *Script {
	return s.Step("hide", func(a *Actor) { a.Hide() })
}

// Runner appends a step that enqueues fn with a trailing delay.
func (s *Script) Runner(name string, fn func(), delay time.Duration) *Script {
	if fn == nil {
		panic(fmt.Sprintf("pointer: runner %q has nil function", name))
	}
	return s.Step(name, func(a *Actor) { a.Runner(fn, delay) })
}

// Play enqueues every step on a, in order, and returns a.
func (s *Script) Play(a *Actor) *Actor {
	for _, step := range s.steps {
		step.Fn(a)
	}
	return a
}

// PlayOn plays the script on the stage actor with the given id, creating it
// if needed.
func (s *Script) PlayOn(stage *Stage, id string) *Actor {
	return s.Play(stage.NewActor(Options{ID: id}))
}
