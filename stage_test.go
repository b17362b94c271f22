package pointer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

func newVirtualStage(t *testing.T) (*Stage, *VirtualLoop, *memdoc.Document) {
	t.Helper()
	loop := NewVirtualLoop(epoch)
	doc := memdoc.New(memdoc.Options{
		AfterFunc: func(d time.Duration, fn func()) { loop.AfterFunc(d, fn) },
	})
	stage := NewStage(doc, StageOptions{
		Scheduler: loop,
		Observer:  NoopObserver{},
	})
	return stage, loop, doc
}

func TestStage_NewActorFindsOrCreates(t *testing.T) {
	t.Parallel()
	stage, _, _ := newVirtualStage(t)

	a := stage.NewActor(Options{ID: "guide"})
	b := stage.NewActor(Options{ID: "guide"})
	require.Same(t, a, b)
	require.Equal(t, 1, stage.Registry.Len())

	c := stage.NewActor(Options{})
	require.NotSame(t, a, c)
	require.Equal(t, 2, stage.Registry.Len())

	got, err := stage.Actor("guide")
	require.NoError(t, err)
	require.Same(t, a, got)

	_, err = stage.Actor("nobody")
	require.Error(t, err)
}

func TestStage_AppliesDefaults(t *testing.T) {
	t.Parallel()
	loop := NewVirtualLoop(epoch)
	doc := memdoc.New(memdoc.Options{})
	metrics := &BasicMetrics{}
	stage := NewStage(doc, StageOptions{
		Scheduler:     loop,
		Observer:      metrics,
		PauseStrategy: PauseNotify,
		Timings:       Timings{TeleportSettle: 10 * time.Millisecond},
	})

	a := stage.NewActor(Options{ID: "p1"})
	a.Pause()
	ran := false
	a.Teleport(ToXY(10, 10)).Runner(func() { ran = true }, 0)
	loop.RunPending()
	require.False(t, ran)

	a.Resume()
	loop.Advance(10 * time.Millisecond)
	require.True(t, ran)

	snap := metrics.Snapshot()
	require.Equal(t, int64(1), snap.Pauses)
	require.NotZero(t, snap.ActionsCompleted)
}

func TestStage_ExplicitPollOverridesNotifyDefault(t *testing.T) {
	t.Parallel()
	loop := NewVirtualLoop(epoch)
	doc := memdoc.New(memdoc.Options{})
	stage := NewStage(doc, StageOptions{
		Scheduler:     loop,
		PauseStrategy: PauseNotify,
		Timings:       Timings{TeleportSettle: 10 * time.Millisecond},
	})

	a := stage.NewActor(Options{ID: "p1", PauseStrategy: PausePoll})
	a.Pause()
	ran := false
	a.Teleport(ToXY(10, 10)).Runner(func() { ran = true }, 0)
	loop.RunPending()

	a.Resume()
	loop.Advance(10 * time.Millisecond)
	require.False(t, ran, "a polling actor waits for the next poll")

	loop.Advance(300 * time.Millisecond)
	require.True(t, ran)
}

func TestStage_RemoveClosesActor(t *testing.T) {
	t.Parallel()
	stage, _, doc := newVirtualStage(t)

	stage.NewActor(Options{ID: "p1"})
	require.Equal(t, 1, doc.Subscriptions("p1.passthrough"))

	require.True(t, stage.Remove("p1"))
	require.False(t, stage.Remove("p1"))
	require.Zero(t, doc.Subscriptions("p1.passthrough"))
	require.Empty(t, stage.Actors())
}

func TestStage_ResetAll(t *testing.T) {
	t.Parallel()
	stage, loop, doc := newVirtualStage(t)

	a := stage.NewActor(Options{ID: "a"})
	b := stage.NewActor(Options{ID: "b"})
	a.WaitForEvent("click")
	b.PulsateUntilClicked()
	loop.RunPending()
	require.True(t, a.Paused())
	require.True(t, b.Paused())

	stage.ResetAll()
	require.False(t, a.Paused())
	require.False(t, b.Paused())
	require.Zero(t, doc.Subscriptions("a"))
	require.Zero(t, doc.Subscriptions("b"))

	ids := make([]string, 0, 2)
	for _, actor := range stage.Actors() {
		ids = append(ids, actor.ID())
	}
	require.Equal(t, []string{"a", "b"}, ids)
}

func TestStage_StartRequiresRunnableScheduler(t *testing.T) {
	t.Parallel()
	stage, _, _ := newVirtualStage(t)

	err := stage.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot be started")
}

func TestStage_StartAndStopEventLoop(t *testing.T) {
	t.Parallel()
	doc := memdoc.New(memdoc.Options{})
	stage := NewStage(doc, StageOptions{
		Observer: NoopObserver{},
		Timings:  Timings{TeleportSettle: time.Millisecond},
	})

	require.NoError(t, stage.Start(context.Background()))
	require.Error(t, stage.Start(context.Background()))
	defer stage.Stop()

	done := make(chan struct{})
	a := stage.NewActor(Options{ID: "p1"})
	a.Teleport(ToXY(48, 48)).Runner(func() { close(done) }, 0)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("actor did not drain its queue")
	}
	require.Equal(t, Point{Left: 40, Top: 40}, a.Position())

	stage.Stop()
	// A second Stop is a no-op.
	stage.Stop()
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	loop := NewVirtualLoop(epoch)
	doc := memdoc.New(memdoc.Options{})
	reg := NewRegistry()

	a := NewActor(doc, loop, Options{ID: "a", Observer: NoopObserver{}})
	dup := NewActor(doc, loop, Options{ID: "a", Observer: NoopObserver{}})

	require.NoError(t, reg.Register(a))
	require.Error(t, reg.Register(dup))
	require.Equal(t, 1, reg.Len())

	got, err := reg.Get("a")
	require.NoError(t, err)
	require.Same(t, a, got)

	removed, ok := reg.Remove("a")
	require.True(t, ok)
	require.Same(t, a, removed)

	_, ok = reg.Remove("a")
	require.False(t, ok)
	require.Zero(t, reg.Len())
}
