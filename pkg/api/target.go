package api

import "fmt"

// MoveKind discriminates the MoveArgs variants.
type MoveKind uint8

const (
	moveInvalid MoveKind = iota
	MoveSelector
	MoveSelectorOffset
	MovePoint
	MovePointOffset
	MovePair
	MoveRelative
)

func (k MoveKind) String() string {
	switch k {
	case MoveSelector:
		return "selector"
	case MoveSelectorOffset:
		return "selector+offset"
	case MovePoint:
		return "point"
	case MovePointOffset:
		return "point+offset"
	case MovePair:
		return "pair"
	case MoveRelative:
		return "relative"
	default:
		return fmt.Sprintf("MoveKind(%d)", uint8(k))
	}
}

// MoveArgs describes where a move should go. The zero value is invalid.
//
// Which fields are read depends on Kind:
//
//	MoveSelector        Selector
//	MoveSelectorOffset  Selector, DX, DY
//	MovePoint           Coords
//	MovePointOffset     Coords, DX, DY
//	MovePair            DX (left), DY (top)
//	MoveRelative        DX, DY (0 leaves that axis unchanged)
type MoveArgs struct {
	Kind     MoveKind
	Selector string
	Coords   Coords
	DX       float64
	DY       float64
}

// To targets the center of the first element matching selector.
func To(selector string) MoveArgs {
	return MoveArgs{Kind: MoveSelector, Selector: selector}
}

// ToOffset targets the center of the element matching selector shifted by
// (dx, dy).
func ToOffset(selector string, dx, dy float64) MoveArgs {
	return MoveArgs{Kind: MoveSelectorOffset, Selector: selector, DX: dx, DY: dy}
}

// ToPoint targets a coordinate object.
func ToPoint(c Coords) MoveArgs {
	return MoveArgs{Kind: MovePoint, Coords: c}
}

// ToPointOffset targets a coordinate object shifted by (dx, dy).
func ToPointOffset(c Coords, dx, dy float64) MoveArgs {
	return MoveArgs{Kind: MovePointOffset, Coords: c, DX: dx, DY: dy}
}

// ToXY targets the raw page coordinate (left, top).
func ToXY(left, top float64) MoveArgs {
	return MoveArgs{Kind: MovePair, DX: left, DY: top}
}

// By moves relative to the actor's current position. A zero delta leaves
// that axis untouched.
func By(dx, dy float64) MoveArgs {
	return MoveArgs{Kind: MoveRelative, DX: dx, DY: dy}
}

// IsSelector reports whether the target is resolved through a selector.
func (m MoveArgs) IsSelector() bool {
	return m.Kind == MoveSelector || m.Kind == MoveSelectorOffset
}

func (m MoveArgs) String() string {
	switch m.Kind {
	case MoveSelector:
		return m.Selector
	case MoveSelectorOffset:
		return fmt.Sprintf("%s%+g%+g", m.Selector, m.DX, m.DY)
	case MoveRelative:
		return fmt.Sprintf("by(%g,%g)", m.DX, m.DY)
	case MovePair:
		return fmt.Sprintf("(%g,%g)", m.DX, m.DY)
	default:
		return m.Kind.String()
	}
}

// Target is a resolved, absolute destination for the actor's top-left
// corner. Centerable is false for targets the centering policy must not
// touch (relative moves and X/Y coordinate objects).
type Target struct {
	Point
	Centerable bool
}
