package model

// Page represents a single page of an extracted document
type Page struct {
	PageNumber     int
	Unit           string
	MediaBox       Box
	CropBox        Box
	BaseOperations string

	// Children keep their document order within each kind
	Xobjects   []*Xobject
	Layouts    []*Layout
	Rectangles []*Rectangle
	Fonts      []*Font
	Paragraphs []*Paragraph
	Figures    []*Figure
	Characters []*Character
}

// NewPage creates a page whose crop box equals its media box
func NewPage(number int, unit string, mediaBox Box) *Page {
	return &Page{
		PageNumber: number,
		Unit:       unit,
		MediaBox:   mediaBox,
		CropBox:    mediaBox,
	}
}

// Font returns the page-scope font with the given id
func (p *Page) Font(fontID string) *Font {
	for _, f := range p.Fonts {
		if f.FontID == fontID {
			return f
		}
	}
	return nil
}

// Xobject returns the xobject with the given local id
func (p *Page) Xobject(xobjID int) *Xobject {
	for _, x := range p.Xobjects {
		if x.XobjID == xobjID {
			return x
		}
	}
	return nil
}

// Layout returns the layout region with the given id
func (p *Page) Layout(id int) *Layout {
	for _, l := range p.Layouts {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ExtractText joins the declared text of all paragraphs
func (p *Page) ExtractText() string {
	var text string
	for _, para := range p.Paragraphs {
		if para != nil {
			text += para.Unicode + "\n"
		}
	}
	return text
}

// GetParagraphsInRegion returns paragraphs whose box intersects region
func (p *Page) GetParagraphsInRegion(region Box) []*Paragraph {
	var paras []*Paragraph
	for _, para := range p.Paragraphs {
		if region.Intersects(para.Box) {
			paras = append(paras, para)
		}
	}
	return paras
}

// ParagraphsInLayout returns the paragraphs assigned to a layout region
func (p *Page) ParagraphsInLayout(id int) []*Paragraph {
	var paras []*Paragraph
	for _, para := range p.Paragraphs {
		if para.LayoutID != nil && *para.LayoutID == id {
			paras = append(paras, para)
		}
	}
	return paras
}
