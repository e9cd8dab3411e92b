package model

// Xobject is an embedded PDF form or resource object. Geometry of content
// drawn inside it is expressed in the xobject's own coordinate space.
type Xobject struct {
	XobjID         int
	XrefID         int
	Box            Box
	Fonts          []*Font
	BaseOperations string
}

// Font returns the xobject-scope font with the given id
func (x *Xobject) Font(fontID string) *Font {
	for _, f := range x.Fonts {
		if f.FontID == fontID {
			return f
		}
	}
	return nil
}

// Layout is a machine-detected layout region
type Layout struct {
	ID        int
	Conf      float64
	ClassName string
	Box       Box
}

// Figure is an opaque non-text region
type Figure struct {
	Box Box
}

// Rectangle is a vector-drawn rectangle
type Rectangle struct {
	Box            Box
	GraphicState   GraphicState
	DebugInfo      *bool
	FillBackground *bool
	XobjID         *int
	LineWidth      *float64
}

// Character is a single positioned glyph. It appears loose on a page, inside
// lines, formulas and same-style runs, and as a composition variant of its
// own.
type Character struct {
	Unicode         string
	Box             Box
	Style           Style
	Vertical        *bool
	Scale           *float64
	CharacterID     *int
	Advance         *float64
	XobjID          *int
	DebugInfo       *bool
	FormulaLayoutID *int
	VisualBox       *Box
}

// IsVertical reports whether the glyph is set in vertical writing mode
func (c *Character) IsVertical() bool {
	return c.Vertical != nil && *c.Vertical
}

// Paragraph is a semantic text block
type Paragraph struct {
	Unicode         string
	Box             Box
	Style           Style
	Scale           *float64
	OptimalScale    *float64
	Vertical        *bool
	FirstLineIndent *bool
	DebugID         *string
	LayoutLabel     *string
	LayoutID        *int
	Compositions    []Composition
}

// IsVertical reports whether the paragraph is set in vertical writing mode
func (p *Paragraph) IsVertical() bool {
	return p.Vertical != nil && *p.Vertical
}

// Text returns the paragraph text reconstructed from its compositions
func (p *Paragraph) Text() string {
	return ComposedText(p.Compositions)
}
