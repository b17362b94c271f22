package pointer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/pointer/pkg/api"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recordingObserver keeps the callbacks tests assert on.
type recordingObserver struct {
	NoopObserver

	mu      sync.Mutex
	started []ActionInfo
	errs    []error
	pauses  int
	resumes int
	resets  int
}

func (o *recordingObserver) OnActionStart(ctx context.Context, info ActionInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, info)
}

func (o *recordingObserver) OnActionFailed(ctx context.Context, info ActionInfo, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) OnActorPaused(ctx context.Context, actorID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pauses++
}

func (o *recordingObserver) OnActorResumed(ctx context.Context, actorID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resumes++
}

func (o *recordingObserver) OnActorReset(ctx context.Context, actorID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resets++
}

func (o *recordingObserver) countStarted(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, info := range o.started {
		if info.Action == name {
			n++
		}
	}
	return n
}

func (o *recordingObserver) startedIn(queue string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, info := range o.started {
		if info.Queue == queue {
			out = append(out, info.Action)
		}
	}
	return out
}

type harness struct {
	loop *VirtualLoop
	doc  *memdoc.Document
	obs  *recordingObserver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	loop := NewVirtualLoop(epoch)
	doc := memdoc.New(memdoc.Options{
		AfterFunc: func(d time.Duration, fn func()) { loop.AfterFunc(d, fn) },
	})
	return &harness{loop: loop, doc: doc, obs: &recordingObserver{}}
}

func (h *harness) actor(id string, opts ...func(*Options)) *Actor {
	o := Options{ID: id, Observer: h.obs}
	for _, fn := range opts {
		fn(&o)
	}
	return NewActor(h.doc, h.loop, o)
}

func TestNewActor_CreatesElementAndTagsIt(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	a := h.actor("p1")
	require.Equal(t, "p1", a.ID())

	el, ok := h.doc.Lookup("p1")
	require.True(t, ok)
	require.Same(t, el, a.Element())

	v, ok := h.doc.Attribute(a.Element(), IDAttribute)
	require.True(t, ok)
	require.Equal(t, "p1", v)

	found, ok := h.doc.FindElement(".pointer-container")
	require.True(t, ok)
	require.Same(t, el, found)

	require.Equal(t, 1, h.doc.Subscriptions("p1.passthrough"))
}

func TestNewActor_AdoptsExistingElement(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	existing := h.doc.Add("guide", api.Rect{Left: 5, Top: 5, Width: 20, Height: 20})
	a := h.actor("guide")
	require.Same(t, existing, a.Element())
	require.Equal(t, Point{Left: 5, Top: 5}, a.Position())

	other := h.doc.Add("custom", api.Rect{Width: 10, Height: 10})
	b := h.actor("b", func(o *Options) { o.Element = other })
	require.Same(t, other, b.Element())
}

func TestNewActor_GeneratesID(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	a := h.actor("")
	b := h.actor("")
	require.NotEmpty(t, a.ID())
	require.NotEqual(t, a.ID(), b.ID())
}

func TestActor_RunsActionsInOrderOneAtATime(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	var log []string
	inFlight := 0
	step := func(name string, d time.Duration) {
		a.Queue(func(next Continuation) {
			inFlight++
			require.Equal(t, 1, inFlight)
			log = append(log, name)
			h.loop.AfterFunc(d, func() {
				inFlight--
				next()
			})
		})
	}
	for i, name := range []string{"a", "b", "c", "d"} {
		step(name, time.Duration(40-10*i)*time.Millisecond)
	}

	require.True(t, a.HasQueued())
	require.True(t, a.IsMoving())

	h.loop.Advance(time.Second)
	require.Equal(t, []string{"a", "b", "c", "d"}, log)
	require.False(t, a.HasQueued())
	require.False(t, a.IsMoving())
}

func TestActor_PauseBlocksNextAction(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	var log []string
	a.Runner(func() {
		log = append(log, "first")
		a.Pause()
	}, 100*time.Millisecond)
	a.Runner(func() { log = append(log, "second") }, 0)

	h.loop.Advance(5 * time.Second)
	require.Equal(t, []string{"first"}, log)
	require.True(t, a.Paused())
	require.True(t, a.HasQueued())

	a.Resume()
	h.loop.Advance(250 * time.Millisecond)
	require.Equal(t, []string{"first", "second"}, log)
	require.Equal(t, 1, h.obs.pauses)
	require.Equal(t, 1, h.obs.resumes)
}

func TestActor_PauseWhileIdleHasNoEffectUntilEnqueue(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Pause()
	h.loop.Advance(time.Second)

	ran := false
	a.Runner(func() { ran = true }, 0)
	h.loop.Advance(time.Second)
	require.False(t, ran)

	a.Resume()
	h.loop.Advance(250 * time.Millisecond)
	require.True(t, ran)
}

func TestActor_NotifyStrategyResumesImmediately(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1", func(o *Options) { o.PauseStrategy = PauseNotify })

	a.Pause()
	ran := false
	a.Runner(func() { ran = true }, 0)
	h.loop.RunPending()
	require.False(t, ran)

	a.Resume()
	h.loop.RunPending()
	require.True(t, ran)
}

func TestActor_WaitForEventResumesExactlyOnce(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("btn", api.Rect{Left: 500, Top: 500, Width: 50, Height: 20})
	a := h.actor("p1")

	after := 0
	a.WaitForEvent("click", "#btn").Runner(func() { after++ }, 0)

	h.loop.Advance(time.Second)
	require.True(t, a.Paused())
	require.Zero(t, after)
	require.Equal(t, 1, h.doc.Subscriptions("p1"))

	require.True(t, h.doc.ClickID("btn"))
	require.False(t, a.Paused())
	require.Zero(t, h.doc.Subscriptions("p1"))

	h.loop.Advance(250 * time.Millisecond)
	require.Equal(t, 1, after)

	// A later click must not re-trigger the finished wait.
	a.Pause()
	h.doc.ClickID("btn")
	require.True(t, a.Paused())
	require.Equal(t, 1, h.obs.resumes)
}

func TestActor_WaitForEventDefaultsToOwnElement(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.WaitForEvent("click")
	h.loop.RunPending()
	require.True(t, a.Paused())

	h.doc.Trigger(a.Element(), "click")
	require.False(t, a.Paused())
}

func TestActor_ResetRemovesWaitSubscriptions(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	ran := false
	a.WaitForEvent("click").Runner(func() { ran = true }, 0)
	h.loop.RunPending()
	require.True(t, a.Paused())
	require.Equal(t, 1, h.doc.Subscriptions("p1"))

	a.Reset()
	require.False(t, a.Paused())
	require.Zero(t, h.doc.Subscriptions("p1"))
	require.Equal(t, 1, h.doc.Subscriptions("p1.passthrough"))
	require.Equal(t, 1, h.obs.resets)

	resumes := h.obs.resumes
	h.doc.Trigger(a.Element(), "click")
	require.Equal(t, resumes, h.obs.resumes)

	h.loop.Advance(time.Second)
	require.False(t, ran)
	require.False(t, a.HasQueued())

	// The actor keeps working after a reset.
	a.Runner(func() { ran = true }, 0)
	h.loop.RunPending()
	require.True(t, ran)
}

func TestActor_ResetStopsPulsingAndOverlay(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Pulsate(true).Annotate("hello")
	h.loop.Advance(600 * time.Millisecond)
	require.NotZero(t, h.doc.State(a.Element())&api.StatePulsing)
	_, shown, ok := h.doc.Overlay(a.Element())
	require.True(t, ok)
	require.True(t, shown)

	a.Reset()
	require.Zero(t, h.doc.State(a.Element())&api.StatePulsing)
	_, _, ok = h.doc.Overlay(a.Element())
	require.False(t, ok)
}

func TestActor_ResetCancelsPendingOverlaySwap(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Annotate("late")
	h.loop.Advance(100 * time.Millisecond)
	a.Reset()
	h.loop.Advance(time.Second)

	_, _, ok := h.doc.Overlay(a.Element())
	require.False(t, ok)
}

func TestActor_RelativeRoundTrip(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("a", api.Rect{Left: 100, Top: 100, Width: 40, Height: 20})
	a := h.actor("p1")

	a.Move(To("#a"))
	h.loop.Advance(2 * time.Second)
	home := a.Position()
	require.Equal(t, Point{Left: 112, Top: 102}, home)

	a.Move(By(10, 0))
	h.loop.Advance(1500 * time.Millisecond)
	require.Equal(t, Point{Left: 122, Top: 102}, a.Position())

	a.Move(By(-10, 0))
	h.loop.Advance(2 * time.Second)
	require.Equal(t, home, a.Position())
}

func TestActor_SelectorOffsetsAreFromElementCenter(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("a", api.Rect{Left: 100, Top: 100, Width: 40, Height: 20})
	a := h.actor("p1")

	a.Move(ToOffset("#a", 10, 0))
	h.loop.Advance(2 * time.Second)
	require.Equal(t, Point{Left: 122, Top: 102}, a.Position())

	// Offsets are taken from the element each time, not from the actor.
	a.Move(ToOffset("#a", -10, 0))
	h.loop.Advance(2 * time.Second)
	require.Equal(t, Point{Left: 102, Top: 102}, a.Position())

	a.Move(ToOffset("#a", 0, 0))
	h.loop.Advance(2 * time.Second)
	require.Equal(t, Point{Left: 112, Top: 102}, a.Position())
}

func TestActor_TargetResolvedAtDequeueTime(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	target := h.doc.Add("a", api.Rect{Left: 100, Top: 100, Width: 16, Height: 16})
	a := h.actor("p1")

	a.Delay(time.Second).Teleport(To("#a"))
	h.doc.MoveTo(target, Point{Left: 300, Top: 300})

	h.loop.Advance(2 * time.Second)
	require.Equal(t, Point{Left: 300, Top: 300}, a.Position())
}

func TestActor_TeleportCentersWithZeroDuration(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Teleport(ToPoint(LeftTop(50, 50)))
	h.loop.RunPending()

	recs := h.doc.Transitions()
	require.Len(t, recs, 1)
	require.Equal(t, "p1", recs[0].ElementID)
	require.Equal(t, Point{Left: 42, Top: 42}, recs[0].To)
	require.Zero(t, recs[0].Duration)
	require.Equal(t, Point{Left: 42, Top: 42}, a.Position())

	require.True(t, a.HasQueued())
	h.loop.Advance(200 * time.Millisecond)
	require.False(t, a.HasQueued())
}

func TestActor_XYCoordinatesAreNotCentered(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Teleport(ToPoint(XY(50, 50)))
	h.loop.Advance(time.Second)
	require.Equal(t, Point{Left: 50, Top: 50}, a.Position())
}

func TestActor_MoveAnimatesAndScrolls(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Move(ToXY(100, 2000))
	h.loop.RunPending()

	recs := h.doc.Transitions()
	require.Len(t, recs, 1)
	require.Equal(t, time.Second, recs[0].Duration)
	require.Equal(t, []float64{2000 - 8 - 200}, h.doc.Scrolls())

	// Still travelling.
	require.Equal(t, Point{}, a.Position())
	require.True(t, a.HasQueued())

	h.loop.Advance(time.Second)
	require.Equal(t, Point{Left: 92, Top: 1992}, a.Position())
	require.False(t, a.HasQueued())

	a.Teleport(ToXY(100, 5000))
	h.loop.Advance(time.Second)
	require.Len(t, h.doc.Scrolls(), 1)
}

func TestActor_InvalidTargetsAreSkipped(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	ran := false
	a.Move(To("#missing")).Teleport(MoveArgs{}).Runner(func() { ran = true }, 0)
	h.loop.Advance(3 * time.Second)

	require.True(t, ran)
	require.Len(t, h.obs.errs, 2)
	require.True(t, errors.Is(h.obs.errs[0], ErrTargetNotFound))
	require.True(t, errors.Is(h.obs.errs[1], ErrInvalidTarget))
	require.Empty(t, h.doc.Transitions())
}

func TestActor_ClickFlashesForFixedDuration(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")
	h.doc.MoveTo(a.Element(), Point{Left: 30, Top: 40})

	a.Click()
	h.loop.RunPending()
	require.NotZero(t, h.doc.State(a.Element())&api.StateActive)

	h.loop.Advance(199 * time.Millisecond)
	require.NotZero(t, h.doc.State(a.Element())&api.StateActive)

	h.loop.Advance(time.Millisecond)
	require.Zero(t, h.doc.State(a.Element())&api.StateActive)

	require.Empty(t, h.doc.Transitions())
	require.Equal(t, Point{Left: 30, Top: 40}, a.Position())

	require.True(t, a.HasQueued())
	h.loop.Advance(200 * time.Millisecond)
	require.False(t, a.HasQueued())
}

func TestActor_ClickWithTargetMovesFirst(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("a", api.Rect{Left: 100, Top: 100, Width: 16, Height: 16})
	a := h.actor("p1")

	a.Click(To("#a"))
	h.loop.Advance(500 * time.Millisecond)
	require.Zero(t, h.obs.countStarted("click"))

	h.loop.Advance(500 * time.Millisecond)
	require.Equal(t, 1, h.obs.countStarted("click"))
	require.Equal(t, Point{Left: 100, Top: 100}, a.Position())
}

func TestActor_DoubleClickIsTwoClicks(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.DoubleClick()
	h.loop.Advance(2 * time.Second)
	require.Equal(t, 2, h.obs.countStarted("click"))
}

func TestActor_RealClickTriggersTarget(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("go", api.Rect{Left: 100, Top: 100, Width: 16, Height: 16})
	a := h.actor("p1")

	clicks := 0
	h.doc.Subscribe(Subscription{
		Event: "click", Selector: "#go", Namespace: "test",
		Handler: func(Event) { clicks++ },
	})

	a.RealClick("#go")
	h.loop.Advance(1200 * time.Millisecond)
	require.Zero(t, clicks)

	h.loop.Advance(300 * time.Millisecond)
	require.Equal(t, 1, clicks)
}

func TestActor_ClickPassesThrough(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("under", api.Rect{Left: 0, Top: 0, Width: 100, Height: 100})
	a := h.actor("p1")
	h.doc.MoveTo(a.Element(), Point{Left: 10, Top: 10})

	var hits []string
	h.doc.Subscribe(Subscription{
		Event: "click", Selector: "#under", Namespace: "test",
		Handler: func(ev Event) { hits = append(hits, ev.Target.ElementID()) },
	})

	// Paused actors still pass clicks through.
	a.Pause()
	require.True(t, h.doc.Click(15, 15))

	require.Equal(t, []string{"under"}, hits)
	require.Zero(t, h.doc.State(a.Element())&api.StateHidden)
}

func TestActor_IndependentPulsateUntilClicked(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("A")
	b := h.actor("B")
	h.doc.MoveTo(a.Element(), Point{Left: 100, Top: 100})
	h.doc.MoveTo(b.Element(), Point{Left: 300, Top: 300})

	a.PulsateUntilClicked()
	b.PulsateUntilClicked()
	h.loop.RunPending()

	require.True(t, a.Paused())
	require.True(t, b.Paused())
	require.NotZero(t, h.doc.State(a.Element())&api.StatePulsing)
	require.NotZero(t, h.doc.State(b.Element())&api.StatePulsing)

	require.True(t, h.doc.Click(108, 108))
	require.False(t, a.Paused())
	require.True(t, b.Paused())

	h.loop.Advance(250 * time.Millisecond)
	require.Zero(t, h.doc.State(a.Element())&api.StatePulsing)
	require.NotZero(t, h.doc.State(b.Element())&api.StatePulsing)
	require.Equal(t, 1, h.doc.Subscriptions("B"))
}

func TestActor_PulsateUntilClickedOnTargetSelector(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("next", api.Rect{Left: 400, Top: 400, Width: 30, Height: 10})
	a := h.actor("p1")

	a.PulsateUntilClicked(To("#next"))
	h.loop.Advance(time.Second)
	require.True(t, a.Paused())

	// Clicking the actor itself does not satisfy a wait on the target.
	h.doc.Trigger(a.Element(), "click")
	require.True(t, a.Paused())

	h.doc.ClickID("next")
	require.False(t, a.Paused())
}

func TestActor_Annotate(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Annotate("hello")
	h.loop.RunPending()
	require.NotZero(t, h.doc.State(a.Element())&api.StateHasOverlay)
	_, _, ok := h.doc.Overlay(a.Element())
	require.False(t, ok)

	h.loop.Advance(500 * time.Millisecond)
	o, shown, ok := h.doc.Overlay(a.Element())
	require.True(t, ok)
	require.True(t, shown)
	require.Equal(t, "hello", o.Content)
	require.Equal(t, "manual", o.Trigger)

	a.Annotate(false)
	h.loop.Advance(time.Second)
	_, shown, _ = h.doc.Overlay(a.Element())
	require.False(t, shown)

	a.Annotate(true)
	h.loop.Advance(time.Second)
	_, shown, _ = h.doc.Overlay(a.Element())
	require.True(t, shown)

	a.Annotate(&Overlay{Title: "T", Content: "obj", Trigger: "hover"})
	h.loop.Advance(time.Second)
	o, _, _ = h.doc.Overlay(a.Element())
	require.Equal(t, "obj", o.Content)
	require.Equal(t, "hover", o.Trigger)
}

func TestActor_AnnotateRejectsUnknownInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	var nilOverlay *Overlay
	a.Annotate(42).Annotate(nilOverlay).AnnotateUntilClicked(3.5)

	require.Len(t, h.obs.errs, 3)
	for _, err := range h.obs.errs {
		require.True(t, errors.Is(err, ErrInvalidAnnotationInput))
	}
	require.False(t, a.HasQueued())
}

func TestActor_AnnotateUntilClicked(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	after := false
	a.AnnotateUntilClicked("Read me").Runner(func() { after = true }, 0)

	h.loop.Advance(time.Second)
	require.True(t, a.Paused())

	o, shown, ok := h.doc.Overlay(a.Element())
	require.True(t, ok)
	require.True(t, shown)
	require.True(t, o.HTML)
	require.NotNil(t, o.Link)
	require.Equal(t, "p1-next-link", o.Link.ID)
	require.Equal(t, "#", o.Link.URL)

	require.True(t, h.doc.ClickID("p1-next-link"))
	require.False(t, a.Paused())

	h.loop.Advance(250 * time.Millisecond)
	_, _, ok = h.doc.Overlay(a.Element())
	require.False(t, ok)
	require.True(t, after)
}

func TestActor_ShowHide(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Show().Annotate("x")
	h.loop.Advance(time.Second)
	require.NotZero(t, h.doc.State(a.Element())&api.StateVisible)

	a.Hide()
	h.loop.RunPending()
	require.Zero(t, h.doc.State(a.Element())&api.StateVisible)
	_, _, ok := h.doc.Overlay(a.Element())
	require.False(t, ok)
}

func TestActor_ClearQueueKeepsInFlight(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	var log []string
	a.Runner(func() { log = append(log, "a") }, time.Second)
	a.Runner(func() { log = append(log, "b") }, 0)
	h.loop.RunPending()

	a.ClearQueue()
	require.False(t, a.IsMoving())
	require.True(t, a.HasQueued())

	h.loop.Advance(2 * time.Second)
	require.Equal(t, []string{"a"}, log)
}

func TestActor_QueueOnSeparateQueue(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	var log []string
	a.Delay(time.Second)
	a.QueueOn("side", func(next Continuation) {
		log = append(log, "side")
		next()
	})
	h.loop.RunPending()
	require.Equal(t, []string{"side"}, log)
}

func TestActor_ClearQueueOnDropsOnlyThatQueue(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	var log []string
	var release Continuation
	a.QueueOn("side", func(next Continuation) {
		log = append(log, "side-1")
		release = next
	})
	a.QueueOn("side", func(next Continuation) {
		log = append(log, "side-2")
		next()
	})
	a.Runner(func() { log = append(log, "fx") }, 0)
	h.loop.RunPending()
	require.Equal(t, []string{"side-1", "fx"}, log)

	a.ClearQueueOn("side")
	release()
	h.loop.RunPending()
	require.Equal(t, []string{"side-1", "fx"}, log)
	require.False(t, a.HasQueued())
}

func TestActor_ContinuationReuseReported(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Queue(func(next Continuation) {
		next()
		next()
	})
	h.loop.RunPending()

	require.Len(t, h.obs.errs, 1)
	require.True(t, errors.Is(h.obs.errs[0], ErrContinuationReused))
}

func TestActor_CenterAndPlace(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	require.Equal(t, Point{Left: 42, Top: 92}, a.Center(Point{Left: 50, Top: 100}))

	a.SetPlace("signup")
	require.Equal(t, "signup", a.Place())
}

func TestActor_CloseDetachesPassthrough(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	a := h.actor("p1")

	a.Close()
	require.Zero(t, h.doc.Subscriptions("p1.passthrough"))
}
