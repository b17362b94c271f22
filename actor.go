package pointer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/pointer/internal/actionqueue"
	"github.com/petrijr/pointer/internal/scheduler"
	"github.com/petrijr/pointer/internal/target"
	"github.com/petrijr/pointer/pkg/api"
)

// DefaultContent is the markup used when an actor has to create its own
// element.
const DefaultContent = `<div class="pointer-container"><span class="pulsar"></span><div class="pointer-glyph"></div></div>`

// IDAttribute is set on every actor element to the actor's id.
const IDAttribute = "data-pointer-id"

// Options configures NewActor. Every field is optional.
type Options struct {
	// ID identifies the actor. A random UUID is used when empty.
	ID string

	// Content is passed to Surface.CreateElement when no element exists
	// yet. Defaults to DefaultContent.
	Content string

	// Element adopts an existing element instead of looking one up by id.
	Element Element

	// Observer receives action and actor lifecycle callbacks. Defaults to
	// a LoggingObserver on Logger.
	Observer Observer

	// Logger is used by the default observer. Defaults to slog.Default().
	Logger *slog.Logger

	// Timings overrides the built-in durations.
	Timings Timings

	// PauseStrategy selects how parked actions notice Resume. PauseDefault
	// takes the stage's strategy, or polling outside a stage.
	PauseStrategy PauseStrategy

	// Context is handed to observer callbacks.
	Context context.Context
}

// Actor is one scripted pointer. Chaining methods enqueue work and return
// the actor; nothing runs until the scheduler drains the queue.
//
// Actor methods are safe for concurrent use.
type Actor struct {
	id       string
	surface  Surface
	sched    scheduler.Scheduler
	resolver *target.Resolver
	timings  Timings
	obs      Observer
	ctx      context.Context
	el       Element
	gate     *actionqueue.Gate

	mu          sync.Mutex
	queues      map[string]*actionqueue.Queue
	place       string
	lastOverlay *Overlay
	timers      map[uint64]scheduler.Timer
	timerSeq    uint64
}

// NewActor attaches an actor to surface. The element is adopted from
// opts.Element, found by "#<id>", or created from opts.Content, in that
// order.
func NewActor(surface Surface, sched Scheduler, opts Options) *Actor {
	if surface == nil {
		panic("pointer: nil surface")
	}
	if sched == nil {
		panic("pointer: nil scheduler")
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Content == "" {
		opts.Content = DefaultContent
	}
	if opts.Observer == nil {
		opts.Observer = api.NewLoggingObserver(opts.Logger)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	opts.Timings = opts.Timings.WithDefaults()

	a := &Actor{
		id:       opts.ID,
		surface:  surface,
		sched:    sched,
		resolver: target.NewResolver(surface),
		timings:  opts.Timings,
		obs:      opts.Observer,
		ctx:      opts.Context,
		gate:     actionqueue.NewGate(sched, opts.Timings.PausePoll, opts.PauseStrategy),
		queues:   make(map[string]*actionqueue.Queue),
		timers:   make(map[uint64]scheduler.Timer),
	}

	a.el = a.findOrCreateElement(opts)
	surface.SetAttribute(a.el, IDAttribute, a.id)
	surface.Subscribe(Subscription{
		Event:     "click",
		Element:   a.el,
		Namespace: a.passthroughNamespace(),
		Handler:   a.passClick,
	})
	return a
}

func (a *Actor) findOrCreateElement(opts Options) Element {
	if opts.Element != nil {
		return opts.Element
	}
	if el, ok := a.surface.FindElement("#" + a.id); ok {
		return el
	}
	return a.surface.CreateElement(a.id, opts.Content)
}

func (a *Actor) passthroughNamespace() string {
	return a.id + ".passthrough"
}

// passClick forwards a click on the actor to whatever lies beneath it.
func (a *Actor) passClick(ev Event) {
	a.surface.SetState(a.el, api.StateHidden, true)
	under, ok := a.surface.ElementAt(ev.X, ev.Y)
	if ok {
		a.surface.Trigger(under, "click")
	}
	a.surface.SetState(a.el, api.StateHidden, false)
}

// ID returns the actor's id.
func (a *Actor) ID() string { return a.id }

// Element returns the surface element the actor drives.
func (a *Actor) Element() Element { return a.el }

// Position returns the element's current top-left corner.
func (a *Actor) Position() Point {
	return a.surface.Bounds(a.el).Origin()
}

// Place returns the caller-owned location label.
func (a *Actor) Place() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.place
}

// SetPlace stores a caller-owned location label. The engine never reads it.
func (a *Actor) SetPlace(place string) *Actor {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.place = place
	return a
}

func (a *Actor) queue(name string) *actionqueue.Queue {
	a.mu.Lock()
	defer a.mu.Unlock()
	q, ok := a.queues[name]
	if !ok {
		q = actionqueue.New(actionqueue.Config{
			Name:      name,
			ActorID:   a.id,
			Scheduler: a.sched,
			Gate:      a.gate,
			Observer:  a.obs,
			Context:   a.ctx,
		})
		a.queues[name] = q
	}
	return q
}

func (a *Actor) fail(queue, action string, err error) {
	a.obs.OnActionFailed(a.ctx, api.ActionInfo{ActorID: a.id, Queue: queue, Action: action}, err)
}

// after runs fn on the scheduler after d unless Reset cancels it first.
func (a *Actor) after(d time.Duration, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timerSeq++
	id := a.timerSeq
	a.timers[id] = a.sched.AfterFunc(d, func() {
		a.mu.Lock()
		delete(a.timers, id)
		a.mu.Unlock()
		fn()
	})
}

// run enqueues fn on the default queue. The queue is released delay after
// fn returns.
func (a *Actor) run(name string, delay time.Duration, fn func()) *Actor {
	a.queue(api.DefaultQueue).Enqueue(name, func(next api.Continuation) {
		fn()
		if delay > 0 {
			a.sched.AfterFunc(delay, next)
			return
		}
		next()
	})
	return a
}

// Runner enqueues fn and holds the queue for delay once it returns.
func (a *Actor) Runner(fn func(), delay time.Duration) *Actor {
	if fn == nil {
		panic("pointer: Runner with nil function")
	}
	return a.run("runner", delay, fn)
}

// Queue enqueues a raw action on the default queue. The action must call
// next exactly once.
func (a *Actor) Queue(action Action) *Actor {
	return a.QueueOn(api.DefaultQueue, action)
}

// QueueOn enqueues a raw action on the named queue. Queues other than the
// default drain independently but share the actor's pause state.
func (a *Actor) QueueOn(queue string, action Action) *Actor {
	if action == nil {
		panic("pointer: Queue with nil action")
	}
	a.queue(queue).Enqueue("queue", action)
	return a
}

// Center shifts p so that the actor's center, rather than its top-left
// corner, lands on it. Half the rendered width is used for both axes.
func (a *Actor) Center(p Point) Point {
	offset := a.surface.Bounds(a.el).Width / 2
	return Point{Left: p.Left - offset, Top: p.Top - offset}
}

// Move animates the actor to dest and holds the queue while it travels.
func (a *Actor) Move(dest MoveArgs) *Actor {
	return a.run("move", a.timings.MoveSettle, func() {
		a.transition("move", dest, a.timings.MoveDuration, true)
	})
}

// Teleport jumps to dest without animating or scrolling.
func (a *Actor) Teleport(dest MoveArgs) *Actor {
	return a.run("teleport", a.timings.TeleportSettle, func() {
		a.transition("teleport", dest, 0, false)
	})
}

// transition resolves dest when the move queue reaches it and applies it.
// Resolution failures are reported and skipped.
func (a *Actor) transition(name string, dest MoveArgs, d time.Duration, scroll bool) {
	a.queue(api.MoveQueue).Enqueue(name, func(next api.Continuation) {
		t, err := a.resolver.Resolve(dest, a.Position())
		if err != nil {
			a.fail(api.MoveQueue, name, fmt.Errorf("%s %s: %w", name, dest, err))
			next()
			return
		}

		pos := t.Point
		if t.Centerable {
			pos = a.Center(pos)
		}
		if scroll {
			vp := a.surface.Viewport()
			if pos.Top > vp.Bottom() {
				a.surface.ScrollTo(pos.Top - a.timings.ScrollMargin)
			}
		}

		a.surface.ApplyTransition(a.el, Transition{To: pos, Duration: d}, func() {
			a.sched.Post(next)
		})
	})
}

// Click flashes the actor's active state. With a destination, the actor
// moves there first.
func (a *Actor) Click(dest ...MoveArgs) *Actor {
	if len(dest) > 0 {
		a.Move(dest[0])
	}
	return a.run("click", a.timings.ClickSettle, a.flash)
}

func (a *Actor) flash() {
	a.surface.SetState(a.el, api.StateActive, true)
	a.after(a.timings.ClickFlash, func() {
		a.surface.SetState(a.el, api.StateActive, false)
	})
}

// DoubleClick queues two clicks back to back.
func (a *Actor) DoubleClick(dest ...MoveArgs) *Actor {
	a.Click(dest...)
	return a.Click()
}

// RealClick moves to the element matching selector, flashes, and then
// triggers a genuine click on it.
func (a *Actor) RealClick(selector string) *Actor {
	a.Click(api.To(selector))
	return a.run("real-click", 0, func() {
		el, ok := a.surface.FindElement(selector)
		if !ok {
			a.fail(api.DefaultQueue, "real-click", fmt.Errorf("real-click: %w: %q", api.ErrTargetNotFound, selector))
			return
		}
		a.surface.Trigger(el, "click")
	})
}

// Pulsate starts or stops the attention pulse.
func (a *Actor) Pulsate(on bool) *Actor {
	name := "pulsate"
	if !on {
		name = "pulsate-stop"
	}
	return a.run(name, 0, func() {
		a.surface.SetState(a.el, api.StatePulsing, on)
	})
}

// PulsateUntilClicked optionally moves to dest, then pulses until a click
// lands on dest (when it is a selector) or on the actor itself.
func (a *Actor) PulsateUntilClicked(dest ...MoveArgs) *Actor {
	var selector []string
	if len(dest) > 0 {
		a.Move(dest[0])
		if dest[0].IsSelector() {
			selector = append(selector, dest[0].Selector)
		}
	}
	a.Pulsate(true)
	a.WaitForEvent("click", selector...)
	return a.Pulsate(false)
}

// WaitForEvent pauses the actor until event fires on selector, or on the
// actor's own element when no selector is given. The wait fires once.
func (a *Actor) WaitForEvent(event string, selector ...string) *Actor {
	sel := fmt.Sprintf(`[%s="%s"]`, IDAttribute, a.id)
	if len(selector) > 0 && selector[0] != "" {
		sel = selector[0]
	}
	return a.run("wait", 0, func() {
		a.pause()
		var fired atomic.Bool
		a.surface.Subscribe(Subscription{
			Event:     event,
			Selector:  sel,
			Namespace: a.id,
			Handler: func(Event) {
				if !fired.CompareAndSwap(false, true) {
					return
				}
				a.surface.Unsubscribe(a.id)
				a.resume()
			},
		})
	})
}

// Delay holds the queue for d.
func (a *Actor) Delay(d time.Duration) *Actor {
	return a.run("delay", d, func() {})
}

// Pause stops queued actions from starting. The action in flight, if any,
// still completes.
func (a *Actor) Pause() *Actor {
	a.pause()
	return a
}

// Resume lets queued actions start again.
func (a *Actor) Resume() *Actor {
	a.resume()
	return a
}

func (a *Actor) pause() {
	if a.gate.Pause() {
		a.obs.OnActorPaused(a.ctx, a.id)
	}
}

func (a *Actor) resume() {
	if a.gate.Resume() {
		a.obs.OnActorResumed(a.ctx, a.id)
	}
}

// Paused reports whether the actor is paused.
func (a *Actor) Paused() bool {
	return a.gate.Paused()
}

// HasQueued reports whether the default queue has work pending or in
// flight.
func (a *Actor) HasQueued() bool {
	q := a.queue(api.DefaultQueue)
	return q.Len() > 0 || q.Busy()
}

// IsMoving reports whether the default queue holds at least one action
// that has not started.
func (a *Actor) IsMoving() bool {
	return a.queue(api.DefaultQueue).Len() > 0
}

// ClearQueue drops the default queue's backlog.
func (a *Actor) ClearQueue() *Actor {
	return a.ClearQueueOn(api.DefaultQueue)
}

// ClearQueueOn drops the backlog of the named queue. An action already
// running is left to finish.
func (a *Actor) ClearQueueOn(queue string) *Actor {
	a.queue(queue).Clear()
	return a
}

// Show makes the actor visible.
func (a *Actor) Show() *Actor {
	return a.run("show", 0, func() {
		a.surface.SetState(a.el, api.StateVisible, true)
	})
}

// Hide makes the actor invisible and removes its annotation.
func (a *Actor) Hide() *Actor {
	return a.run("hide", 0, func() {
		a.surface.SetState(a.el, api.StateVisible, false)
		a.surface.RemoveOverlay(a.el)
	})
}

// Annotate attaches an annotation. It accepts a string (the content), an
// Overlay or *Overlay, or a bool that re-shows (true) or hides (false) the
// current annotation. Anything else is reported as
// ErrInvalidAnnotationInput and ignored.
func (a *Actor) Annotate(input any) *Actor {
	switch v := input.(type) {
	case string:
		return a.annotate(Overlay{Content: v})
	case Overlay:
		return a.annotate(v)
	case *Overlay:
		if v != nil {
			return a.annotate(*v)
		}
	case bool:
		if v {
			return a.run("annotate-show", 0, func() {
				a.mu.Lock()
				last := a.lastOverlay
				a.mu.Unlock()
				if last != nil {
					a.surface.ShowOverlay(a.el, *last)
				}
			})
		}
		return a.run("annotate-hide", 0, func() {
			a.surface.HideOverlay(a.el)
		})
	}
	a.fail(api.DefaultQueue, "annotate", fmt.Errorf("annotate %T: %w", input, api.ErrInvalidAnnotationInput))
	return a
}

func (a *Actor) annotate(o Overlay) *Actor {
	if o.Trigger == "" {
		o.Trigger = "manual"
	}
	return a.run("annotate", a.timings.AnnotateSettle, func() {
		a.surface.HideOverlay(a.el)
		a.surface.SetState(a.el, api.StateHasOverlay, true)
		a.after(a.timings.AnnotateSwap, func() {
			a.surface.RemoveOverlay(a.el)
			a.surface.ShowOverlay(a.el, o)
			a.mu.Lock()
			a.lastOverlay = &o
			a.mu.Unlock()
		})
	})
}

// AnnotateUntilClicked shows an annotation with a "Continue" link and waits
// for the link to be clicked before removing it. Input is a string, an
// Overlay or an *Overlay; a Link on the overlay customizes the URL, text
// and class of the continue link.
func (a *Actor) AnnotateUntilClicked(input any) *Actor {
	var o Overlay
	switch v := input.(type) {
	case string:
		o = Overlay{Content: v}
	case Overlay:
		o = v
	case *Overlay:
		if v == nil {
			return a.Annotate(v)
		}
		o = *v
	default:
		return a.Annotate(input)
	}

	link := OverlayLink{URL: "#", Text: "Continue →", Class: "pointer-next-link"}
	if o.Link != nil {
		if o.Link.URL != "" {
			link.URL = o.Link.URL
		}
		if o.Link.Text != "" {
			link.Text = o.Link.Text
		}
		if o.Link.Class != "" {
			link.Class = o.Link.Class
		}
	}
	link.ID = a.id + "-next-link"
	o.Link = &link
	o.HTML = true

	a.annotate(o)
	a.WaitForEvent("click", "#"+link.ID)
	return a.run("annotate-remove", 0, func() {
		a.surface.RemoveOverlay(a.el)
	})
}

// Reset abandons the script: it drops every backlog and parked action,
// removes the annotation and wait subscriptions, stops pulsing, and
// resumes the actor. An action already running is not interrupted.
func (a *Actor) Reset() *Actor {
	a.mu.Lock()
	queues := make([]*actionqueue.Queue, 0, len(a.queues))
	for _, q := range a.queues {
		queues = append(queues, q)
	}
	timers := a.timers
	a.timers = make(map[uint64]scheduler.Timer)
	a.mu.Unlock()

	for _, q := range queues {
		q.Clear()
	}
	a.gate.Cancel()
	for _, t := range timers {
		t.Stop()
	}

	a.surface.RemoveOverlay(a.el)
	a.resume()
	a.surface.Unsubscribe(a.id)
	a.surface.SetState(a.el, api.StatePulsing|api.StateActive, false)

	a.obs.OnActorReset(a.ctx, a.id)
	return a
}

// Close resets the actor and detaches its click passthrough.
func (a *Actor) Close() {
	a.Reset()
	a.surface.Unsubscribe(a.passthroughNamespace())
}
