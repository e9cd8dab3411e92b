package model

// Font describes a font used on a page or inside an xobject
type Font struct {
	Name           string
	FontID         string
	XrefID         int
	EncodingLength int

	Bold      *bool
	Italic    *bool
	Monospace *bool
	Serif     *bool
	Ascent    *float64
	Descent   *float64

	CharBoxes []CharBox
}

// CharBox holds the glyph bounding box of one encoded character slot
type CharBox struct {
	CharID int
	Box    Box
}

// CharBox returns the bounding box registered for charID
func (f *Font) CharBox(charID int) (Box, bool) {
	for _, cb := range f.CharBoxes {
		if cb.CharID == charID {
			return cb.Box, true
		}
	}
	return Box{}, false
}

// InEncoding reports whether charID addresses a slot of the font encoding
func (f *Font) InEncoding(charID int) bool {
	return charID >= 0 && charID < f.EncodingLength
}
