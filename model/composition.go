package model

import "strings"

// CompositionKind identifies the variant held by a Composition
type CompositionKind int

const (
	CompositionLine CompositionKind = iota + 1
	CompositionFormula
	CompositionSameStyleCharacters
	CompositionCharacter
	CompositionSameStyleUnicodeCharacters
)

func (k CompositionKind) String() string {
	switch k {
	case CompositionLine:
		return "pdfLine"
	case CompositionFormula:
		return "pdfFormula"
	case CompositionSameStyleCharacters:
		return "pdfSameStyleCharacters"
	case CompositionCharacter:
		return "pdfCharacter"
	case CompositionSameStyleUnicodeCharacters:
		return "pdfSameStyleUnicodeCharacters"
	default:
		return "unknown"
	}
}

// Composition is one entry of a paragraph's content. The set of
// implementations is closed: *Line, *Formula, *SameStyleCharacters,
// *Character and *SameStyleUnicodeCharacters.
type Composition interface {
	Kind() CompositionKind
	// BoundingBox returns the variant's own box. Unicode runs carry no
	// geometry and report false.
	BoundingBox() (Box, bool)
	// Text returns the leaf text of the variant in reading order
	Text() string

	composition()
}

// Line is a visual text line
type Line struct {
	Box        Box
	Characters []*Character
}

// Formula is a recognized math expression. The offsets are relative to the
// paragraph baseline.
type Formula struct {
	Box        Box
	Characters []*Character
	XOffset    float64
	YOffset    float64
	XAdvance   *float64
}

// SameStyleCharacters is a run of characters sharing one style
type SameStyleCharacters struct {
	Box        Box
	Style      Style
	Characters []*Character
}

// SameStyleUnicodeCharacters is a compact run of text without per-glyph
// geometry
type SameStyleUnicodeCharacters struct {
	Unicode   string
	Style     *Style
	DebugInfo *bool
}

func (l *Line) Kind() CompositionKind                       { return CompositionLine }
func (f *Formula) Kind() CompositionKind                    { return CompositionFormula }
func (s *SameStyleCharacters) Kind() CompositionKind        { return CompositionSameStyleCharacters }
func (c *Character) Kind() CompositionKind                  { return CompositionCharacter }
func (s *SameStyleUnicodeCharacters) Kind() CompositionKind { return CompositionSameStyleUnicodeCharacters }

func (l *Line) BoundingBox() (Box, bool)                       { return l.Box, true }
func (f *Formula) BoundingBox() (Box, bool)                    { return f.Box, true }
func (s *SameStyleCharacters) BoundingBox() (Box, bool)        { return s.Box, true }
func (c *Character) BoundingBox() (Box, bool)                  { return c.Box, true }
func (s *SameStyleUnicodeCharacters) BoundingBox() (Box, bool) { return Box{}, false }

func (l *Line) Text() string                       { return charactersText(l.Characters) }
func (f *Formula) Text() string                    { return charactersText(f.Characters) }
func (s *SameStyleCharacters) Text() string        { return charactersText(s.Characters) }
func (c *Character) Text() string                  { return c.Unicode }
func (s *SameStyleUnicodeCharacters) Text() string { return s.Unicode }

func (*Line) composition()                       {}
func (*Formula) composition()                    {}
func (*SameStyleCharacters) composition()        {}
func (*Character) composition()                  {}
func (*SameStyleUnicodeCharacters) composition() {}

// IsNil reports whether c is nil or wraps a nil pointer
func IsNil(c Composition) bool {
	switch v := c.(type) {
	case *Line:
		return v == nil
	case *Formula:
		return v == nil
	case *SameStyleCharacters:
		return v == nil
	case *Character:
		return v == nil
	case *SameStyleUnicodeCharacters:
		return v == nil
	}
	return true
}

// Members returns the characters nested in a composition. A *Character
// returns itself; unicode runs and nil compositions return nil. The result
// may hold nil entries of a document built in code.
func Members(c Composition) []*Character {
	if IsNil(c) {
		return nil
	}
	switch v := c.(type) {
	case *Line:
		return v.Characters
	case *Formula:
		return v.Characters
	case *SameStyleCharacters:
		return v.Characters
	case *Character:
		return []*Character{v}
	default:
		return nil
	}
}

// ComposedText concatenates the text of all compositions in order
func ComposedText(cs []Composition) string {
	var sb strings.Builder
	for _, c := range cs {
		if !IsNil(c) {
			sb.WriteString(c.Text())
		}
	}
	return sb.String()
}

func charactersText(chars []*Character) string {
	var sb strings.Builder
	for _, c := range chars {
		if c != nil {
			sb.WriteString(c.Unicode)
		}
	}
	return sb.String()
}
