// Package target turns MoveArgs into absolute destinations.
package target

import (
	"fmt"

	"github.com/petrijr/pointer/pkg/api"
)

// Resolver looks selectors up on a Surface.
type Resolver struct {
	surface api.Surface
}

// NewResolver returns a Resolver backed by surface.
func NewResolver(surface api.Surface) *Resolver {
	return &Resolver{surface: surface}
}

// Resolve returns the absolute destination for args. current is the actor's
// present top-left corner and is only consulted for relative moves.
func (r *Resolver) Resolve(args api.MoveArgs, current api.Point) (api.Target, error) {
	switch args.Kind {
	case api.MoveSelector, api.MoveSelectorOffset:
		if args.Selector == "" {
			return api.Target{}, fmt.Errorf("%w: empty selector", api.ErrInvalidTarget)
		}
		el, ok := r.surface.FindElement(args.Selector)
		if !ok {
			return api.Target{}, fmt.Errorf("%w: %q", api.ErrTargetNotFound, args.Selector)
		}
		p := r.surface.Bounds(el).Center()
		if args.Kind == api.MoveSelectorOffset {
			p = p.Add(args.DX, args.DY)
		}
		return api.Target{Point: p, Centerable: true}, nil

	case api.MovePoint, api.MovePointOffset:
		p, centerable, ok := args.Coords.Point()
		if !ok {
			return api.Target{}, fmt.Errorf("%w: coordinates need left/top or x/y", api.ErrInvalidTarget)
		}
		if args.Kind == api.MovePointOffset {
			p = p.Add(args.DX, args.DY)
		}
		return api.Target{Point: p, Centerable: centerable}, nil

	case api.MovePair:
		return api.Target{Point: api.Point{Left: args.DX, Top: args.DY}, Centerable: true}, nil

	case api.MoveRelative:
		p := current
		// A zero delta leaves the axis untouched.
		if args.DX != 0 {
			p.Left += args.DX
		}
		if args.DY != 0 {
			p.Top += args.DY
		}
		return api.Target{Point: p}, nil

	default:
		return api.Target{}, fmt.Errorf("%w: unknown move kind %s", api.ErrInvalidTarget, args.Kind)
	}
}
