package api

// Point is an absolute page coordinate.
type Point struct {
	Left float64
	Top  float64
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{Left: p.Left + dx, Top: p.Top + dy}
}

// Rect is a page-relative bounding box.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Origin returns the top-left corner of r.
func (r Rect) Origin() Point {
	return Point{Left: r.Left, Top: r.Top}
}

// Center returns the center of r.
func (r Rect) Center() Point {
	return Point{Left: r.Left + r.Width/2, Top: r.Top + r.Height/2}
}

// Bottom returns the bottom edge of r.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Contains reports whether (x, y) lies inside r. Empty rectangles contain
// nothing.
func (r Rect) Contains(x, y float64) bool {
	if r.Width <= 0 && r.Height <= 0 {
		return false
	}
	return x >= r.Left && x <= r.Left+r.Width &&
		y >= r.Top && y <= r.Top+r.Height
}

// Coords is a coordinate object. Either Left and Top or X and Y must both be
// set; a nil field means "not provided".
type Coords struct {
	Left *float64
	Top  *float64
	X    *float64
	Y    *float64
}

// LeftTop builds a Coords value with Left and Top set.
func LeftTop(left, top float64) Coords {
	return Coords{Left: &left, Top: &top}
}

// XY builds a Coords value with X and Y set.
func XY(x, y float64) Coords {
	return Coords{X: &x, Y: &y}
}

// Point reports the absolute point described by c. centered is true when the
// point came from Left/Top, which is the only form the centering policy
// applies to. ok is false when neither pair is complete.
func (c Coords) Point() (p Point, centered bool, ok bool) {
	if c.Left != nil && c.Top != nil {
		return Point{Left: *c.Left, Top: *c.Top}, true, true
	}
	if c.X != nil && c.Y != nil {
		return Point{Left: *c.X, Top: *c.Y}, false, true
	}
	return Point{}, false, false
}
