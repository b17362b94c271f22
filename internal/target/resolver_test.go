package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/pointer/pkg/api"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

func newDoc() *memdoc.Document {
	d := memdoc.New(memdoc.Options{})
	d.Add("a", api.Rect{Left: 100, Top: 200, Width: 40, Height: 20})
	return d
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := NewResolver(newDoc())
	current := api.Point{Left: 10, Top: 20}

	tests := []struct {
		name       string
		args       api.MoveArgs
		want       api.Point
		centerable bool
	}{
		{"selector", api.To("#a"), api.Point{Left: 120, Top: 210}, true},
		{"selector offset", api.ToOffset("#a", 5, -10), api.Point{Left: 125, Top: 200}, true},
		{"selector zero offset", api.ToOffset("#a", 0, 0), api.Point{Left: 120, Top: 210}, true},
		{"left/top", api.ToPoint(api.LeftTop(50, 60)), api.Point{Left: 50, Top: 60}, true},
		{"x/y", api.ToPoint(api.XY(50, 60)), api.Point{Left: 50, Top: 60}, false},
		{"point offset", api.ToPointOffset(api.LeftTop(50, 60), 1, 2), api.Point{Left: 51, Top: 62}, true},
		{"pair", api.ToXY(7, 8), api.Point{Left: 7, Top: 8}, true},
		{"relative", api.By(5, -5), api.Point{Left: 15, Top: 15}, false},
		{"relative zero axis", api.By(0, 30), api.Point{Left: 10, Top: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.args, current)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Point)
			require.Equal(t, tt.centerable, got.Centerable)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	r := NewResolver(newDoc())
	left := 1.0

	tests := []struct {
		name string
		args api.MoveArgs
		want error
	}{
		{"zero value", api.MoveArgs{}, api.ErrInvalidTarget},
		{"unknown kind", api.MoveArgs{Kind: 99}, api.ErrInvalidTarget},
		{"empty selector", api.To(""), api.ErrInvalidTarget},
		{"incomplete coords", api.ToPoint(api.Coords{Left: &left}), api.ErrInvalidTarget},
		{"missing element", api.To("#nope"), api.ErrTargetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.args, api.Point{})
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
