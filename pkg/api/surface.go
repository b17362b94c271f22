package api

import "time"

// Element is an opaque handle to something a Surface renders. Handles are
// compared by identity.
type Element interface {
	ElementID() string
}

// VisualState is a set of presentation flags a Surface toggles on an element.
type VisualState uint8

const (
	StateVisible VisualState = 1 << iota
	StateActive
	StatePulsing
	StateHasOverlay
	StateHidden
)

func (s VisualState) String() string {
	names := []string{"visible", "active", "pulsing", "has-overlay", "hidden"}
	out := ""
	for i, n := range names {
		if s&(1<<i) != 0 {
			if out != "" {
				out += "|"
			}
			out += n
		}
	}
	if out == "" {
		return "none"
	}
	return out
}

// Transition animates an element's top-left corner to To over Duration. A
// zero Duration applies the position immediately.
type Transition struct {
	To       Point
	Duration time.Duration
}

// Event is delivered to subscription handlers.
type Event struct {
	Type   string
	Target Element
	X, Y   float64
}

// Subscription registers Handler for Event. When Selector is set the
// subscription is delegated: it fires for events whose target, or any
// ancestor of the target, matches Selector. Otherwise it fires for events
// targeting Element. Namespace groups subscriptions for Unsubscribe.
type Subscription struct {
	Event     string
	Selector  string
	Element   Element
	Namespace string
	Handler   func(Event)
}

// OverlayLink is an anchor appended to an overlay's content.
type OverlayLink struct {
	ID    string
	Text  string
	URL   string
	Class string
}

// Overlay is the annotation bubble attached to an actor. Rendering is left
// entirely to the Surface.
type Overlay struct {
	Title     string
	Content   string
	Placement string
	HTML      bool
	Trigger   string
	Link      *OverlayLink
}

// Surface is the capability an actor drives. Implementations must be safe
// for concurrent use; handlers and transition callbacks may be invoked from
// any goroutine.
type Surface interface {
	// FindElement returns the first element matching selector.
	FindElement(selector string) (Element, bool)

	// ElementAt returns the topmost visible element under (x, y).
	ElementAt(x, y float64) (Element, bool)

	// Bounds returns the element's page-relative box.
	Bounds(el Element) Rect

	// ApplyTransition starts moving el and calls onComplete once it has
	// arrived.
	ApplyTransition(el Element, t Transition, onComplete func())

	// Subscribe registers a handler.
	Subscribe(s Subscription)

	// Unsubscribe removes every subscription registered under exactly
	// namespace.
	Unsubscribe(namespace string)

	// Trigger dispatches a synthetic event targeting el.
	Trigger(el Element, event string)

	ShowOverlay(el Element, o Overlay)
	HideOverlay(el Element)
	RemoveOverlay(el Element)

	// CreateElement adds a new element with the given id. content is
	// surface specific markup and may be empty.
	CreateElement(id, content string) Element

	SetAttribute(el Element, name, value string)

	// SetState turns the given flags on or off.
	SetState(el Element, s VisualState, on bool)

	// Viewport returns the visible region in page coordinates.
	Viewport() Rect

	// ScrollTo scrolls the viewport so that its top edge is at top.
	ScrollTo(top float64)
}
