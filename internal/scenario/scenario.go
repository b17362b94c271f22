// Package scenario loads pointer choreography from YAML files: the elements
// to place on a document and the steps each actor plays.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/pointer"
	"github.com/petrijr/pointer/pkg/api"
)

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is the decoded form of a scenario file.
type Scenario struct {
	Name     string     `yaml:"name"`
	Viewport *Viewport  `yaml:"viewport,omitempty"`
	Elements []Element  `yaml:"elements"`
	Actors   []ActorDef `yaml:"actors"`
}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Element is a document node created before the actors start.
type Element struct {
	ID     string            `yaml:"id"`
	Left   float64           `yaml:"left"`
	Top    float64           `yaml:"top"`
	Width  float64           `yaml:"width"`
	Height float64           `yaml:"height"`
	Tag    string            `yaml:"tag,omitempty"`
	Class  []string          `yaml:"class,omitempty"`
	Text   string            `yaml:"text,omitempty"`
	Attrs  map[string]string `yaml:"attrs,omitempty"`
	Parent string            `yaml:"parent,omitempty"`
}

func (e Element) Rect() api.Rect {
	return api.Rect{Left: e.Left, Top: e.Top, Width: e.Width, Height: e.Height}
}

// ActorDef names an actor and the steps it plays.
type ActorDef struct {
	ID    string `yaml:"id"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted call. Do selects the call; the other fields are its
// arguments.
type Step struct {
	Do        string        `yaml:"do"`
	Target    *Target       `yaml:"target,omitempty"`
	Selector  string        `yaml:"selector,omitempty"`
	Event     string        `yaml:"event,omitempty"`
	Text      string        `yaml:"text,omitempty"`
	Title     string        `yaml:"title,omitempty"`
	Placement string        `yaml:"placement,omitempty"`
	On        *bool         `yaml:"on,omitempty"`
	Duration  time.Duration `yaml:"duration,omitempty"`
}

// Target is the YAML form of a move destination. Exactly one of Selector,
// Left/Top, X/Y or By is expected; DX and DY offset the first three.
type Target struct {
	Selector string    `yaml:"selector,omitempty"`
	Left     *float64  `yaml:"left,omitempty"`
	Top      *float64  `yaml:"top,omitempty"`
	X        *float64  `yaml:"x,omitempty"`
	Y        *float64  `yaml:"y,omitempty"`
	DX       float64   `yaml:"dx,omitempty"`
	DY       float64   `yaml:"dy,omitempty"`
	By       []float64 `yaml:"by,omitempty"`
}

// MoveArgs converts t.
func (t Target) MoveArgs() (api.MoveArgs, error) {
	offset := t.DX != 0 || t.DY != 0
	coords := api.Coords{Left: t.Left, Top: t.Top, X: t.X, Y: t.Y}
	_, _, hasCoords := coords.Point()

	switch {
	case t.Selector != "":
		if offset {
			return api.ToOffset(t.Selector, t.DX, t.DY), nil
		}
		return api.To(t.Selector), nil
	case hasCoords:
		if offset {
			return api.ToPointOffset(coords, t.DX, t.DY), nil
		}
		return api.ToPoint(coords), nil
	case len(t.By) == 2:
		return api.By(t.By[0], t.By[1]), nil
	case len(t.By) != 0:
		return api.MoveArgs{}, fmt.Errorf("%w: by needs two values, got %d", ErrInvalidScenario, len(t.By))
	default:
		return api.MoveArgs{}, fmt.Errorf("%w: target needs a selector, left/top, x/y or by", ErrInvalidScenario)
	}
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseSteps decodes a bare YAML list of steps and checks that each one
// can be turned into a call.
func ParseSteps(data []byte) ([]Step, error) {
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	if _, err := (ActorDef{ID: "steps", Steps: steps}).Script(); err != nil {
		return nil, err
	}
	return steps, nil
}

// Validate checks ids and that every step can be turned into a call.
func (s *Scenario) Validate() error {
	elements := make(map[string]bool, len(s.Elements))
	for i, el := range s.Elements {
		if el.ID == "" {
			return fmt.Errorf("%w: element %d has no id", ErrInvalidScenario, i)
		}
		if elements[el.ID] {
			return fmt.Errorf("%w: duplicate element %q", ErrInvalidScenario, el.ID)
		}
		if el.Parent != "" && !elements[el.Parent] {
			return fmt.Errorf("%w: element %q: parent %q must be declared first", ErrInvalidScenario, el.ID, el.Parent)
		}
		elements[el.ID] = true
	}

	actors := make(map[string]bool, len(s.Actors))
	for _, a := range s.Actors {
		if a.ID == "" {
			return fmt.Errorf("%w: actor without id", ErrInvalidScenario)
		}
		if actors[a.ID] {
			return fmt.Errorf("%w: duplicate actor %q", ErrInvalidScenario, a.ID)
		}
		actors[a.ID] = true
		if _, err := a.Script(); err != nil {
			return err
		}
	}
	return nil
}

// Script builds the actor's choreography.
func (a ActorDef) Script() (*pointer.Script, error) {
	script := pointer.NewScript(a.ID)
	for i, step := range a.Steps {
		if err := step.apply(script); err != nil {
			return nil, fmt.Errorf("actor %q step %d (%s): %w", a.ID, i, step.Do, err)
		}
	}
	return script, nil
}

func (st Step) target() (api.MoveArgs, error) {
	if st.Target == nil {
		return api.MoveArgs{}, fmt.Errorf("%w: missing target", ErrInvalidScenario)
	}
	return st.Target.MoveArgs()
}

// optionalTarget returns nil when the step has no target.
func (st Step) optionalTarget() ([]api.MoveArgs, error) {
	if st.Target == nil {
		return nil, nil
	}
	dest, err := st.Target.MoveArgs()
	if err != nil {
		return nil, err
	}
	return []api.MoveArgs{dest}, nil
}

func (st Step) overlay() api.Overlay {
	return api.Overlay{Title: st.Title, Content: st.Text, Placement: st.Placement}
}

func (st Step) apply(s *pointer.Script) error {
	switch st.Do {
	case "move", "teleport":
		dest, err := st.target()
		if err != nil {
			return err
		}
		if st.Do == "move" {
			s.Move(dest)
		} else {
			s.Teleport(dest)
		}
	case "click", "double_click", "pulsate_until_clicked":
		dest, err := st.optionalTarget()
		if err != nil {
			return err
		}
		switch st.Do {
		case "click":
			s.Click(dest...)
		case "double_click":
			s.DoubleClick(dest...)
		default:
			s.PulsateUntilClicked(dest...)
		}
	case "real_click":
		if st.Selector == "" {
			return fmt.Errorf("%w: real_click needs a selector", ErrInvalidScenario)
		}
		s.RealClick(st.Selector)
	case "pulsate":
		s.Pulsate(st.On == nil || *st.On)
	case "annotate":
		if st.On != nil {
			s.Annotate(*st.On)
			return nil
		}
		if st.Text == "" && st.Title == "" {
			return fmt.Errorf("%w: annotate needs text, title or on", ErrInvalidScenario)
		}
		s.Annotate(st.overlay())
	case "annotate_until_clicked":
		if st.Text == "" && st.Title == "" {
			return fmt.Errorf("%w: annotate_until_clicked needs text or title", ErrInvalidScenario)
		}
		s.AnnotateUntilClicked(st.overlay())
	case "wait":
		event := st.Event
		if event == "" {
			event = "click"
		}
		s.WaitForEvent(event, st.Selector)
	case "delay":
		if st.Duration <= 0 {
			return fmt.Errorf("%w: delay needs a positive duration", ErrInvalidScenario)
		}
		s.Delay(st.Duration)
	case "show":
		s.Show()
	case "hide":
		s.Hide()
	case "":
		return fmt.Errorf("%w: step without do", ErrInvalidScenario)
	default:
		return fmt.Errorf("%w: unknown step %q", ErrInvalidScenario, st.Do)
	}
	return nil
}
