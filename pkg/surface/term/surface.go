// Package term renders a pointer document in a terminal with tcell. One
// document unit is one character cell.
package term

import (
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/petrijr/pointer/pkg/api"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

// Options configures a Surface.
type Options struct {
	// Now defaults to time.Now. Animations are timed against it.
	Now func() time.Time

	// OnFlash is called whenever an element enters the active state, which
	// is how actors show a click.
	OnFlash func(el api.Element)

	// PulsePeriod is the blink period of pulsing actors. Defaults to 500ms.
	PulsePeriod time.Duration
}

// Surface is a memdoc.Document whose timed transitions are animated by
// Tick and whose contents are drawn on a tcell screen.
type Surface struct {
	*memdoc.Document

	screen tcell.Screen
	opts   Options

	mu    sync.Mutex
	anims map[api.Element]*animation
	held  bool
}

type animation struct {
	from, to api.Point
	start    time.Time
	duration time.Duration
	done     func()
}

var _ api.Surface = (*Surface)(nil)

// New wraps screen, which must already be initialised. The viewport follows
// the screen size.
func New(screen tcell.Screen, opts Options) *Surface {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PulsePeriod <= 0 {
		opts.PulsePeriod = 500 * time.Millisecond
	}
	w, h := screen.Size()
	doc := memdoc.New(memdoc.Options{
		Viewport:      api.Rect{Width: float64(w), Height: float64(h)},
		ElementWidth:  2,
		ElementHeight: 1,
	})
	return &Surface{
		Document: doc,
		screen:   screen,
		opts:     opts,
		anims:    make(map[api.Element]*animation),
	}
}

// ApplyTransition lands zero-duration transitions at once and animates the
// rest on Tick. A new transition on an element replaces the running one,
// whose completion still fires.
func (s *Surface) ApplyTransition(el api.Element, t api.Transition, onComplete func()) {
	if t.Duration <= 0 {
		s.Document.ApplyTransition(el, t, onComplete)
		return
	}

	a := &animation{
		from:     s.Bounds(el).Origin(),
		to:       t.To,
		start:    s.opts.Now(),
		duration: t.Duration,
		done:     onComplete,
	}
	s.mu.Lock()
	prev := s.anims[el]
	s.anims[el] = a
	s.mu.Unlock()

	if prev != nil && prev.done != nil {
		prev.done()
	}
}

// SetState forwards to the document and reports active flashes.
func (s *Surface) SetState(el api.Element, state api.VisualState, on bool) {
	s.Document.SetState(el, state, on)
	if on && state&api.StateActive != 0 && s.opts.OnFlash != nil {
		s.opts.OnFlash(el)
	}
}

// Animating returns the number of running animations.
func (s *Surface) Animating() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.anims)
}

// Tick advances every animation to now. Finished animations land on their
// target and fire their completion callbacks.
func (s *Surface) Tick(now time.Time) {
	var finished []func()

	s.mu.Lock()
	for el, a := range s.anims {
		p := float64(now.Sub(a.start)) / float64(a.duration)
		if p >= 1 {
			s.MoveTo(el, a.to)
			delete(s.anims, el)
			if a.done != nil {
				finished = append(finished, a.done)
			}
			continue
		}
		if p < 0 {
			p = 0
		}
		k := swing(p)
		s.MoveTo(el, api.Point{
			Left: a.from.Left + (a.to.Left-a.from.Left)*k,
			Top:  a.from.Top + (a.to.Top-a.from.Top)*k,
		})
	}
	s.mu.Unlock()

	for _, fn := range finished {
		fn()
	}
}

// swing eases in and out.
func swing(p float64) float64 {
	return 0.5 - math.Cos(p*math.Pi)/2
}

// HandleEvent applies a tcell event. Left-button presses become document
// clicks and resizes update the viewport. It returns false when the user
// asked to quit.
func (s *Surface) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0
		s.mu.Lock()
		edge := pressed && !s.held
		s.held = pressed
		s.mu.Unlock()
		if edge {
			x, y := ev.Position()
			vp := s.Viewport()
			s.Click(float64(x)+vp.Left, float64(y)+vp.Top)
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		s.Resize(float64(w), float64(h))
	}
	return true
}
