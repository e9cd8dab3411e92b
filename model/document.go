package model

// Document is a whole extracted PDF
type Document struct {
	TotalPages int
	Pages      []*Page
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Pages: make([]*Page, 0),
	}
}

// AddPage appends a page and keeps TotalPages in step
func (d *Document) AddPage(page *Page) {
	d.Pages = append(d.Pages, page)
	d.TotalPages = len(d.Pages)
}

// GetPage returns the page with the given page number, or nil
func (d *Document) GetPage(number int) *Page {
	for _, p := range d.Pages {
		if p.PageNumber == number {
			return p
		}
	}
	return nil
}

// PageCount returns the number of pages actually present
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// ExtractText returns all paragraph text concatenated
func (d *Document) ExtractText() string {
	var text string
	for _, page := range d.Pages {
		if page != nil {
			text += page.ExtractText() + "\n\n"
		}
	}
	return text
}

// Stats counts the entities of a document
type Stats struct {
	PageCount      int
	XobjectCount   int
	FontCount      int
	LayoutCount    int
	RectangleCount int
	ParagraphCount int
	FigureCount    int
	CharacterCount int // loose and nested glyphs
}

// Stats returns entity counts for the whole document. Nil entries of a
// document built in code are not counted.
func (d *Document) Stats() Stats {
	var s Stats
	for _, page := range d.Pages {
		if page == nil {
			continue
		}
		s.PageCount++
		s.FontCount += countNonNil(page.Fonts)
		for _, x := range page.Xobjects {
			if x != nil {
				s.XobjectCount++
				s.FontCount += countNonNil(x.Fonts)
			}
		}
		s.LayoutCount += countNonNil(page.Layouts)
		s.RectangleCount += countNonNil(page.Rectangles)
		s.ParagraphCount += countNonNil(page.Paragraphs)
		s.FigureCount += countNonNil(page.Figures)
		s.CharacterCount += countNonNil(page.Characters)
		for _, para := range page.Paragraphs {
			if para == nil {
				continue
			}
			for _, c := range para.Compositions {
				s.CharacterCount += countNonNil(Members(c))
			}
		}
	}
	return s
}

func countNonNil[T any](items []*T) int {
	n := 0
	for _, item := range items {
		if item != nil {
			n++
		}
	}
	return n
}
