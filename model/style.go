package model

import "slices"

// GraphicState holds the stroke and fill parameters recorded for a glyph or
// a vector shape. Every field is optional: nil means the value was not
// recorded and the renderer default or inherited value applies.
type GraphicState struct {
	LineWidth           *float64
	Dash                []float64
	Flatness            *float64
	Intent              *string
	LineCap             *int
	LineJoin            *int
	MiterLimit          *float64
	NonStrokeColor      []float64 // ncolor
	StrokeColor         []float64 // scolor
	StrokeColorSpace    *string
	NonStrokeColorSpace *string
	Passthrough         *string // raw per-character instruction
}

// IsZero reports whether no field of the graphic state is set
func (g GraphicState) IsZero() bool {
	return g.LineWidth == nil && g.Dash == nil && g.Flatness == nil &&
		g.Intent == nil && g.LineCap == nil && g.LineJoin == nil &&
		g.MiterLimit == nil && g.NonStrokeColor == nil && g.StrokeColor == nil &&
		g.StrokeColorSpace == nil && g.NonStrokeColorSpace == nil &&
		g.Passthrough == nil
}

// Equal compares two graphic states by value. An absent field only equals
// another absent field.
func (g GraphicState) Equal(other GraphicState) bool {
	return eqPtr(g.LineWidth, other.LineWidth) &&
		eqFloats(g.Dash, other.Dash) &&
		eqPtr(g.Flatness, other.Flatness) &&
		eqPtr(g.Intent, other.Intent) &&
		eqPtr(g.LineCap, other.LineCap) &&
		eqPtr(g.LineJoin, other.LineJoin) &&
		eqPtr(g.MiterLimit, other.MiterLimit) &&
		eqFloats(g.NonStrokeColor, other.NonStrokeColor) &&
		eqFloats(g.StrokeColor, other.StrokeColor) &&
		eqPtr(g.StrokeColorSpace, other.StrokeColorSpace) &&
		eqPtr(g.NonStrokeColorSpace, other.NonStrokeColorSpace) &&
		eqPtr(g.Passthrough, other.Passthrough)
}

// Style is the resolved text style of a character, run or paragraph.
// FontID names a Font in the page scope or in the scope of the xobject the
// text belongs to.
type Style struct {
	FontID       string
	FontSize     float64
	GraphicState GraphicState
}

// Equal compares two styles by value
func (s Style) Equal(other Style) bool {
	return s.FontID == other.FontID &&
		s.FontSize == other.FontSize &&
		s.GraphicState.Equal(other.GraphicState)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// eqFloats distinguishes a nil (absent) list from an empty one
func eqFloats(a, b []float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}

// Ptr returns a pointer to v. It is a convenience for filling optional
// fields.
func Ptr[T any](v T) *T {
	return &v
}
