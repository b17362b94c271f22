package memdoc

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/petrijr/pointer/pkg/api"
)

// Options configures a Document.
type Options struct {
	// Viewport is the initial visible region. Defaults to 1024x768 at the
	// origin.
	Viewport api.Rect

	// ElementWidth and ElementHeight size elements made by CreateElement.
	// Both default to 16.
	ElementWidth  float64
	ElementHeight float64

	// AfterFunc, when set, defers the end of timed transitions by their
	// duration. Without it every transition lands immediately.
	AfterFunc func(d time.Duration, fn func())
}

// TransitionRecord describes one ApplyTransition call.
type TransitionRecord struct {
	ElementID string
	From      api.Point
	To        api.Point
	Duration  time.Duration
}

// Document is a concurrency-safe in-memory Surface.
type Document struct {
	opts Options

	mu          sync.RWMutex
	order       []*Node
	byID        map[string]*Node
	subs        []*subscription
	viewport    api.Rect
	scrolls     []float64
	transitions []TransitionRecord
	events      []api.Event
	seq         int
}

type subscription struct {
	api.Subscription
	sel   selector
	valid bool
}

var _ api.Surface = (*Document)(nil)

// New returns an empty Document.
func New(opts Options) *Document {
	if opts.Viewport == (api.Rect{}) {
		opts.Viewport = api.Rect{Width: 1024, Height: 768}
	}
	if opts.ElementWidth <= 0 {
		opts.ElementWidth = 16
	}
	if opts.ElementHeight <= 0 {
		opts.ElementHeight = 16
	}
	return &Document{
		opts:     opts,
		byID:     make(map[string]*Node),
		viewport: opts.Viewport,
	}
}

// NodeOption customizes a node created by Add.
type NodeOption func(*Node)

// Class adds CSS-style classes.
func Class(names ...string) NodeOption {
	return func(n *Node) { n.classes = append(n.classes, names...) }
}

// Attr sets an attribute.
func Attr(name, value string) NodeOption {
	return func(n *Node) { n.attrs[name] = value }
}

// Tag sets the tag name matched by bare selectors such as "button".
func Tag(tag string) NodeOption {
	return func(n *Node) { n.tag = tag }
}

// Text sets the node's content.
func Text(content string) NodeOption {
	return func(n *Node) { n.content = content }
}

// Parent nests the node under p for event bubbling. Bounds stay absolute.
func Parent(p *Node) NodeOption {
	return func(n *Node) { n.parent = p }
}

// Add appends a node on top of the painter order. An empty id gets a
// generated one. Adding an id that already exists replaces that node.
func (d *Document) Add(id string, rect api.Rect, opts ...NodeOption) *Node {
	n := &Node{tag: "div", rect: rect, attrs: make(map[string]string)}
	for _, opt := range opts {
		opt(n)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertLocked(id, n)
	return n
}

func (d *Document) insertLocked(id string, n *Node) {
	if id == "" {
		d.seq++
		id = fmt.Sprintf("_n%d", d.seq)
	}
	if old, ok := d.byID[id]; ok {
		d.removeLocked(old)
	}
	n.id = id
	d.byID[id] = n
	d.order = append(d.order, n)
}

// Remove deletes el and everything nested under it.
func (d *Document) Remove(el api.Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		d.removeLocked(n)
	}
}

func (d *Document) removeLocked(n *Node) {
	doomed := map[*Node]bool{n: true}
	if n.link != nil {
		doomed[n.link] = true
	}
	for changed := true; changed; {
		changed = false
		for _, c := range d.order {
			if !doomed[c] && c.parent != nil && doomed[c.parent] {
				doomed[c] = true
				changed = true
			}
		}
	}
	d.order = slices.DeleteFunc(d.order, func(c *Node) bool { return doomed[c] })
	for c := range doomed {
		if d.byID[c.id] == c {
			delete(d.byID, c.id)
		}
	}
}

// Lookup returns the node with the given id.
func (d *Document) Lookup(id string) (*Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.byID[id]
	return n, ok
}

func (d *Document) nodeLocked(el api.Element) *Node {
	n, ok := el.(*Node)
	if !ok || n == nil || d.byID[n.id] != n {
		return nil
	}
	return n
}

func (d *Document) FindElement(sel string) (api.Element, bool) {
	parsed, err := parseSelector(sel)
	if err != nil {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, n := range d.order {
		if parsed.matches(n) {
			return n, true
		}
	}
	return nil, false
}

// FindAll returns every node matching sel in document order.
func (d *Document) FindAll(sel string) []*Node {
	parsed, err := parseSelector(sel)
	if err != nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Node
	for _, n := range d.order {
		if parsed.matches(n) {
			out = append(out, n)
		}
	}
	return out
}

func (d *Document) ElementAt(x, y float64) (api.Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n := d.hitLocked(x, y); n != nil {
		return n, true
	}
	return nil, false
}

// hitLocked walks the painter order backwards so the topmost node wins.
func (d *Document) hitLocked(x, y float64) *Node {
	for i := len(d.order) - 1; i >= 0; i-- {
		n := d.order[i]
		if n.hiddenLocked() {
			continue
		}
		if n.rect.Contains(x, y) {
			return n
		}
	}
	return nil
}

func (d *Document) Bounds(el api.Element) api.Rect {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n := d.nodeLocked(el); n != nil {
		return n.rect
	}
	return api.Rect{}
}

// SetBounds replaces the box of el.
func (d *Document) SetBounds(el api.Element, r api.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		n.rect = r
	}
}

// MoveTo sets the top-left corner of el without recording a transition.
func (d *Document) MoveTo(el api.Element, p api.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		n.rect.Left, n.rect.Top = p.Left, p.Top
	}
}

func (d *Document) ApplyTransition(el api.Element, t api.Transition, onComplete func()) {
	d.mu.Lock()
	n := d.nodeLocked(el)
	if n == nil {
		d.mu.Unlock()
		if onComplete != nil {
			onComplete()
		}
		return
	}
	d.transitions = append(d.transitions, TransitionRecord{
		ElementID: n.id,
		From:      n.rect.Origin(),
		To:        t.To,
		Duration:  t.Duration,
	})
	d.mu.Unlock()

	land := func() {
		d.MoveTo(el, t.To)
		if onComplete != nil {
			onComplete()
		}
	}
	if t.Duration <= 0 || d.opts.AfterFunc == nil {
		land()
		return
	}
	d.opts.AfterFunc(t.Duration, land)
}

// Transitions returns every transition applied so far.
func (d *Document) Transitions() []TransitionRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.transitions)
}

func (d *Document) Subscribe(s api.Subscription) {
	sub := &subscription{Subscription: s, valid: true}
	if s.Selector != "" {
		sel, err := parseSelector(s.Selector)
		sub.sel, sub.valid = sel, err == nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, sub)
}

func (d *Document) Unsubscribe(namespace string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = slices.DeleteFunc(d.subs, func(s *subscription) bool {
		return s.Namespace == namespace
	})
}

// Subscriptions counts the live subscriptions registered under namespace.
func (d *Document) Subscriptions(namespace string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, s := range d.subs {
		if s.Namespace == namespace {
			n++
		}
	}
	return n
}

func (d *Document) Trigger(el api.Element, event string) {
	d.mu.RLock()
	n := d.nodeLocked(el)
	d.mu.RUnlock()
	if n == nil {
		return
	}
	c := d.Bounds(n).Center()
	d.Dispatch(api.Event{Type: event, Target: n, X: c.Left, Y: c.Top})
}

// Click hit-tests (x, y) and dispatches a click on the topmost node. It
// reports whether anything was hit.
func (d *Document) Click(x, y float64) bool {
	d.mu.RLock()
	n := d.hitLocked(x, y)
	d.mu.RUnlock()
	if n == nil {
		return false
	}
	d.Dispatch(api.Event{Type: "click", Target: n, X: x, Y: y})
	return true
}

// ClickID triggers a click on the node with the given id.
func (d *Document) ClickID(id string) bool {
	n, ok := d.Lookup(id)
	if !ok {
		return false
	}
	d.Trigger(n, "click")
	return true
}

// Dispatch delivers ev to every matching subscription. Handlers run on the
// calling goroutine without the document lock held.
func (d *Document) Dispatch(ev api.Event) {
	d.mu.Lock()
	d.events = append(d.events, ev)
	target := d.nodeLocked(ev.Target)
	var path []*Node
	for n := target; n != nil; n = n.parent {
		path = append(path, n)
	}

	var handlers []func(api.Event)
	for _, s := range d.subs {
		if s.Event != ev.Type || s.Handler == nil || !s.valid {
			continue
		}
		if s.matchesPath(path) {
			handlers = append(handlers, s.Handler)
		}
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (s *subscription) matchesPath(path []*Node) bool {
	switch {
	case s.Selector != "":
		for _, n := range path {
			if s.sel.matches(n) {
				return true
			}
		}
		return false
	case s.Element != nil:
		for _, n := range path {
			if api.Element(n) == s.Element {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Events returns every dispatched event in order.
func (d *Document) Events() []api.Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.events)
}

func (d *Document) ShowOverlay(el api.Element, o api.Overlay) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := d.nodeLocked(el)
	if n == nil {
		return
	}
	ov := o
	n.overlay = &ov
	n.overlayShown = true

	if n.link != nil {
		d.removeLocked(n.link)
		n.link = nil
	}
	if o.Link != nil {
		link := &Node{
			tag:     "a",
			content: o.Link.Text,
			attrs:   map[string]string{"href": o.Link.URL},
			rect: api.Rect{
				Left:   n.rect.Left + n.rect.Width + 4,
				Top:    n.rect.Top,
				Width:  8 * float64(len(o.Link.Text)+1),
				Height: 16,
			},
		}
		if o.Link.Class != "" {
			link.classes = strings.Fields(o.Link.Class)
		}
		d.insertLocked(o.Link.ID, link)
		n.link = link
	}
}

func (d *Document) HideOverlay(el api.Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		n.overlayShown = false
		if n.link != nil {
			n.link.state |= api.StateHidden
		}
	}
}

func (d *Document) RemoveOverlay(el api.Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		n.overlay = nil
		n.overlayShown = false
		if n.link != nil {
			d.removeLocked(n.link)
			n.link = nil
		}
	}
}

// Overlay returns the overlay attached to el and whether it is shown.
func (d *Document) Overlay(el api.Element) (o api.Overlay, shown bool, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := d.nodeLocked(el)
	if n == nil || n.overlay == nil {
		return api.Overlay{}, false, false
	}
	return *n.overlay, n.overlayShown, true
}

var classAttr = regexp.MustCompile(`class\s*=\s*["']([^"']*)["']`)

func (d *Document) CreateElement(id, content string) api.Element {
	n := &Node{
		tag:     "div",
		content: content,
		attrs:   make(map[string]string),
		rect:    api.Rect{Width: d.opts.ElementWidth, Height: d.opts.ElementHeight},
	}
	if m := classAttr.FindStringSubmatch(content); m != nil {
		n.classes = strings.Fields(m[1])
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertLocked(id, n)
	return n
}

func (d *Document) SetAttribute(el api.Element, name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		n.attrs[name] = value
	}
}

// Attribute reads an attribute of el.
func (d *Document) Attribute(el api.Element, name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := d.nodeLocked(el)
	if n == nil {
		return "", false
	}
	v, ok := n.attrs[name]
	return v, ok
}

func (d *Document) SetState(el api.Element, s api.VisualState, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := d.nodeLocked(el); n != nil {
		if on {
			n.state |= s
		} else {
			n.state &^= s
		}
	}
}

// State returns the visual flags of el.
func (d *Document) State(el api.Element) api.VisualState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n := d.nodeLocked(el); n != nil {
		return n.state
	}
	return 0
}

func (d *Document) Viewport() api.Rect {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.viewport
}

func (d *Document) ScrollTo(top float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if top < 0 {
		top = 0
	}
	d.viewport.Top = top
	d.scrolls = append(d.scrolls, top)
}

// Scrolls returns every ScrollTo target in order.
func (d *Document) Scrolls() []float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.scrolls)
}

// Resize changes the viewport size, keeping the scroll offset.
func (d *Document) Resize(width, height float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport.Width, d.viewport.Height = width, height
}

// Snapshot returns a copy of every node in painter order.
func (d *Document) Snapshot() []NodeView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]NodeView, 0, len(d.order))
	for _, n := range d.order {
		out = append(out, n.viewLocked())
	}
	return out
}
