package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Box is an axis-aligned rectangle given by its lower-left (X, Y) and
// upper-right (X2, Y2) corners, in the unit of the enclosing page or
// xobject.
type Box struct {
	X  float64
	Y  float64
	X2 float64
	Y2 float64
}

// NewBox creates a box from corner coordinates
func NewBox(x, y, x2, y2 float64) Box {
	return Box{X: x, Y: y, X2: x2, Y2: y2}
}

// NewBoxFromPoints creates the smallest box covering two points
func NewBoxFromPoints(p1, p2 Point) Box {
	return Box{
		X:  math.Min(p1.X, p2.X),
		Y:  math.Min(p1.Y, p2.Y),
		X2: math.Max(p1.X, p2.X),
		Y2: math.Max(p1.Y, p2.Y),
	}
}

// Width returns the horizontal extent
func (b Box) Width() float64 {
	return b.X2 - b.X
}

// Height returns the vertical extent
func (b Box) Height() float64 {
	return b.Y2 - b.Y
}

// Area returns the area of the box
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the center point
func (b Box) Center() Point {
	return Point{
		X: (b.X + b.X2) / 2,
		Y: (b.Y + b.Y2) / 2,
	}
}

// Valid reports whether the box has non-negative extent on both axes.
// Zero-area boxes are valid.
func (b Box) Valid() bool {
	return b.X <= b.X2 && b.Y <= b.Y2
}

// IsFinite reports whether every corner coordinate is a finite number
func (b Box) IsFinite() bool {
	return IsFinite(b.X) && IsFinite(b.Y) && IsFinite(b.X2) && IsFinite(b.Y2)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsEmpty returns true if the box has zero or negative area
func (b Box) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Contains checks if a point is inside the box
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X2 &&
		p.Y >= b.Y && p.Y <= b.Y2
}

// ContainsBox reports whether other lies entirely within b
func (b Box) ContainsBox(other Box) bool {
	return b.ContainsBoxEps(other, 0)
}

// ContainsBoxEps reports whether other lies within b grown by eps on every
// side.
func (b Box) ContainsBoxEps(other Box, eps float64) bool {
	return other.X >= b.X-eps && other.Y >= b.Y-eps &&
		other.X2 <= b.X2+eps && other.Y2 <= b.Y2+eps
}

// Intersects checks if two boxes intersect
func (b Box) Intersects(other Box) bool {
	return !(b.X2 < other.X ||
		b.X > other.X2 ||
		b.Y2 < other.Y ||
		b.Y > other.Y2)
}

// Intersection returns the intersection of two boxes
func (b Box) Intersection(other Box) Box {
	if !b.Intersects(other) {
		return Box{}
	}

	return Box{
		X:  math.Max(b.X, other.X),
		Y:  math.Max(b.Y, other.Y),
		X2: math.Min(b.X2, other.X2),
		Y2: math.Min(b.Y2, other.Y2),
	}
}

// Union returns the smallest box covering both boxes
func (b Box) Union(other Box) Box {
	return Box{
		X:  math.Min(b.X, other.X),
		Y:  math.Min(b.Y, other.Y),
		X2: math.Max(b.X2, other.X2),
		Y2: math.Max(b.Y2, other.Y2),
	}
}

// Expand grows the box by a margin on all sides
func (b Box) Expand(margin float64) Box {
	return Box{
		X:  b.X - margin,
		Y:  b.Y - margin,
		X2: b.X2 + margin,
		Y2: b.Y2 + margin,
	}
}

// Overflow returns how far other sticks out of b, taking the worst side.
// It is zero when other is contained.
func (b Box) Overflow(other Box) float64 {
	return math.Max(
		math.Max(b.X-other.X, other.X2-b.X2),
		math.Max(math.Max(b.Y-other.Y, other.Y2-b.Y2), 0),
	)
}

// UnionAll returns the union of all boxes, or the zero Box if there are none
func UnionAll(boxes ...Box) Box {
	if len(boxes) == 0 {
		return Box{}
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u
}
