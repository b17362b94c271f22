package pointer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/pointer/pkg/api"
)

func TestScript_PlayEnqueuesStepsInOrder(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.doc.Add("signup", api.Rect{Left: 200, Top: 100, Width: 40, Height: 20})
	a := h.actor("guide")

	var log []string
	tour := NewScript("tour").
		Show().
		Move(To("#signup")).
		Runner("mark", func() { log = append(log, "arrived") }, 0).
		Annotate("Sign up here").
		Delay(100*time.Millisecond).
		Hide()

	require.Equal(t, "tour", tour.Name())
	require.Equal(t, 6, tour.Len())

	require.Same(t, a, tour.Play(a))
	require.True(t, a.HasQueued())

	h.loop.Advance(5 * time.Second)
	require.Equal(t, []string{"arrived"}, log)
	require.Equal(t, Point{Left: 212, Top: 102}, a.Position())
	require.Zero(t, h.doc.State(a.Element())&api.StateVisible)
	require.Equal(t,
		[]string{"show", "move", "runner", "annotate", "delay", "hide"},
		h.obs.startedIn(DefaultQueue))
}

func TestScript_ThenConcatenates(t *testing.T) {
	t.Parallel()

	intro := NewScript("intro").Show().Pulsate(true)
	outro := NewScript("outro").Pulsate(false).Hide()
	full := NewScript("full").Then(intro).Then(outro)

	names := make([]string, 0, full.Len())
	for _, step := range full.Steps() {
		names = append(names, step.Name)
	}
	require.Equal(t, []string{"show", "pulsate", "pulsate", "hide"}, names)

	// Steps returns a copy.
	steps := full.Steps()
	steps[0].Name = "changed"
	require.Equal(t, "show", full.Steps()[0].Name)
}

func TestScript_PlayOnStage(t *testing.T) {
	t.Parallel()
	stage, loop, _ := newVirtualStage(t)

	a := NewScript("s").Teleport(ToXY(58, 58)).PlayOn(stage, "guide")
	require.Equal(t, "guide", a.ID())

	loop.Advance(time.Second)
	require.Equal(t, Point{Left: 50, Top: 50}, a.Position())

	b := NewScript("again").PlayOn(stage, "guide")
	require.Same(t, a, b)
}

func TestScript_InvalidStepsPanic(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { NewScript("s").Step("", func(*Actor) {}) })
	require.Panics(t, func() { NewScript("s").Step("x", nil) })
	require.Panics(t, func() { NewScript("s").Then(nil) })
	require.Panics(t, func() { NewScript("s").Runner("r", nil, 0) })
}
