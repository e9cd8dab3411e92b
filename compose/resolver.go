package compose

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/model"
)

// Normalization selects how text is normalized before the reconstructed
// paragraph text is compared with the declared text
type Normalization int

const (
	// NormalizeNone compares code points exactly
	NormalizeNone Normalization = iota
	// NormalizeNFC compares canonical compositions
	NormalizeNFC
	// NormalizeNFKC also folds compatibility forms such as ligatures
	NormalizeNFKC
)

func (n Normalization) String() string {
	switch n {
	case NormalizeNFC:
		return "nfc"
	case NormalizeNFKC:
		return "nfkc"
	default:
		return "none"
	}
}

// ParseNormalization parses "none", "nfc" or "nfkc"
func ParseNormalization(s string) (Normalization, error) {
	switch s {
	case "", "none":
		return NormalizeNone, nil
	case "nfc", "NFC":
		return NormalizeNFC, nil
	case "nfkc", "NFKC":
		return NormalizeNFKC, nil
	}
	return NormalizeNone, fmt.Errorf("unknown normalization %q", s)
}

func (n Normalization) apply(s string) string {
	switch n {
	case NormalizeNFC:
		return norm.NFC.String(s)
	case NormalizeNFKC:
		return norm.NFKC.String(s)
	default:
		return s
	}
}

// Config holds resolver configuration
type Config struct {
	// Epsilon is how far a child box may stick out of its parent box
	Epsilon float64
	// TextMismatchFatal reports text reconstruction mismatches with error
	// severity instead of warning severity
	TextMismatchFatal bool
	// Normalization is applied to both texts before comparing them
	Normalization Normalization
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Epsilon:       0.01,
		Normalization: NormalizeNone,
	}
}

// Resolver checks the compositions of paragraphs
type Resolver struct {
	config Config
}

// NewResolver creates a resolver with default configuration
func NewResolver() *Resolver {
	return NewResolverWithConfig(DefaultConfig())
}

// NewResolverWithConfig creates a resolver with custom configuration
func NewResolverWithConfig(config Config) *Resolver {
	return &Resolver{config: config}
}

// Config returns the resolver configuration
func (r *Resolver) Config() Config {
	return r.config
}

// Resolve checks one paragraph: box nesting of every composition and its
// characters, reading order inside lines, style equality inside same-style
// runs, and that the composed text matches the declared text. path is the
// element path of the paragraph.
func (r *Resolver) Resolve(p *model.Paragraph, path string) diag.List {
	var list diag.List
	if p == nil {
		list.Add(diag.New(diag.StructuralError, path, "paragraph is nil"))
		return list
	}

	for i, c := range p.Compositions {
		if model.IsNil(c) {
			list.Add(diag.New(diag.StructuralError, fmt.Sprintf("%s/pdfParagraphComposition[%d]", path, i),
				"composition is nil"))
			continue
		}
		cpath := fmt.Sprintf("%s/pdfParagraphComposition[%d]/%s", path, i, c.Kind())

		box, ok := c.BoundingBox()
		if ch, isChar := c.(*model.Character); isChar && ch.XobjID != nil {
			ok = false
		}
		if ok && finite(p.Box, box) && !p.Box.ContainsBoxEps(box, r.config.Epsilon) {
			list.Add(diag.New(diag.GeometryError, cpath,
				"%s box %s escapes paragraph box %s by %g", c.Kind(), formatBox(box), formatBox(p.Box), p.Box.Overflow(box)))
		}

		switch v := c.(type) {
		case *model.Line:
			list.Add(r.checkMembers(v.Box, v.Characters, cpath)...)
			list.Add(r.checkReadingOrder(v, cpath)...)
		case *model.Formula:
			list.Add(r.checkMembers(v.Box, v.Characters, cpath)...)
		case *model.SameStyleCharacters:
			list.Add(r.checkMembers(v.Box, v.Characters, cpath)...)
			list.Add(checkSameStyle(v, cpath)...)
		case *model.Character, *model.SameStyleUnicodeCharacters:
			// leaf variants: nothing nested
		}
	}

	if d, ok := r.CheckText(p, path); !ok {
		list.Add(d)
	}
	return list
}

// CheckText compares the text reconstructed from the compositions with the
// declared paragraph text. Paragraphs without compositions always pass.
func (r *Resolver) CheckText(p *model.Paragraph, path string) (diag.Diagnostic, bool) {
	if len(p.Compositions) == 0 {
		return diag.Diagnostic{}, true
	}
	composed := model.ComposedText(p.Compositions)
	if r.config.Normalization.apply(composed) == r.config.Normalization.apply(p.Unicode) {
		return diag.Diagnostic{}, true
	}

	format := "composed text %q does not match paragraph unicode %q"
	args := []interface{}{truncate(composed), truncate(p.Unicode)}
	if r.config.TextMismatchFatal {
		return diag.New(diag.ConsistencyWarning, path, format, args...), false
	}
	return diag.NewWarning(diag.ConsistencyWarning, path, format, args...), false
}

// checkMembers verifies that member glyphs lie inside their container.
// Glyphs drawn inside an xobject use the xobject's coordinate space and
// are skipped.
func (r *Resolver) checkMembers(container model.Box, chars []*model.Character, path string) diag.List {
	var list diag.List
	for j, ch := range chars {
		if ch == nil {
			list.Add(diag.New(diag.StructuralError, fmt.Sprintf("%s/pdfCharacter[%d]", path, j), "character is nil"))
			continue
		}
		if ch.XobjID != nil {
			continue
		}
		if finite(container, ch.Box) && !container.ContainsBoxEps(ch.Box, r.config.Epsilon) {
			list.Add(diag.New(diag.GeometryError, fmt.Sprintf("%s/pdfCharacter[%d]", path, j),
				"character %q box %s escapes its container %s by %g", ch.Unicode, formatBox(ch.Box), formatBox(container), container.Overflow(ch.Box)))
		}
	}
	return list
}

// checkReadingOrder verifies that the glyphs of a line advance in reading
// direction: left to right, or top to bottom when the line starts with a
// vertical glyph. Pairs involving an xobject glyph are not compared, since
// its box is in another coordinate space.
func (r *Resolver) checkReadingOrder(l *model.Line, path string) diag.List {
	var list diag.List
	if len(l.Characters) < 2 || l.Characters[0] == nil {
		return list
	}
	vertical := l.Characters[0].IsVertical()
	eps := r.config.Epsilon

	for j := 1; j < len(l.Characters); j++ {
		prev, cur := l.Characters[j-1], l.Characters[j]
		if prev == nil || cur == nil || prev.XobjID != nil || cur.XobjID != nil {
			continue
		}
		var backwards bool
		if vertical {
			backwards = cur.Box.Y2 > prev.Box.Y2+eps
		} else {
			backwards = cur.Box.X < prev.Box.X-eps
		}
		if backwards {
			list.Add(diag.New(diag.GeometryError, fmt.Sprintf("%s/pdfCharacter[%d]", path, j),
				"character %q at %s precedes character %q at %s in reading order", cur.Unicode, formatBox(cur.Box), prev.Unicode, formatBox(prev.Box)))
		}
	}
	return list
}

func checkSameStyle(s *model.SameStyleCharacters, path string) diag.List {
	var list diag.List
	for j, ch := range s.Characters {
		if ch != nil && !ch.Style.Equal(s.Style) {
			list.Add(diag.New(diag.StructuralError, fmt.Sprintf("%s/pdfCharacter[%d]", path, j),
				"character %q style (font %q, size %g) differs from its run style (font %q, size %g)",
				ch.Unicode, ch.Style.FontID, ch.Style.FontSize, s.Style.FontID, s.Style.FontSize))
		}
	}
	return list
}

// finite reports whether every box is finite. Non-finite boxes are
// reported by the validator, not compared.
func finite(boxes ...model.Box) bool {
	for _, b := range boxes {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

func formatBox(b model.Box) string {
	return fmt.Sprintf("(%g,%g,%g,%g)", b.X, b.Y, b.X2, b.Y2)
}

func truncate(s string) string {
	const limit = 80
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
