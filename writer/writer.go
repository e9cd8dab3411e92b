package writer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/ildoc/model"
)

// Marshal returns the markup for doc
func Marshal(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes doc to w. Attributes are written in a fixed order and
// absent optional values are omitted, so equal documents produce
// identical bytes.
func Write(w io.Writer, doc *model.Document) error {
	if doc == nil {
		return errors.New("writing document: document is nil")
	}

	e := newEncoder(w)
	e.write(xml.Header)

	var as attrs
	as.integer("totalPages", doc.TotalPages)
	e.open("document", as)
	for i, page := range doc.Pages {
		if page == nil {
			return fmt.Errorf("writing document: page %d is nil", i)
		}
		if err := e.page(page); err != nil {
			return fmt.Errorf("writing page %d: %w", page.PageNumber, err)
		}
	}
	e.close("document")

	if err := e.flush(); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (e *encoder) page(p *model.Page) error {
	if err := checkNil(p); err != nil {
		return err
	}
	var as attrs
	as.integer("pageNumber", p.PageNumber)
	as.str("Unit", p.Unit)
	e.open("page", as)

	e.boxWrapper("mediabox", p.MediaBox)
	e.boxWrapper("cropbox", p.CropBox)
	for _, x := range p.Xobjects {
		e.xobject(x)
	}
	for _, l := range p.Layouts {
		e.layout(l)
	}
	for _, r := range p.Rectangles {
		e.rectangle(r)
	}
	for _, f := range p.Fonts {
		e.font(f)
	}
	for _, para := range p.Paragraphs {
		if err := e.paragraph(para); err != nil {
			return err
		}
	}
	for _, f := range p.Figures {
		e.boxWrapper("pdfFigure", f.Box)
	}
	for _, c := range p.Characters {
		e.character("pdfCharacter", c)
	}
	e.text("baseOperations", p.BaseOperations)

	e.close("page")
	return e.err
}

// checkNil rejects a page holding nil entries before anything of it is
// written
func checkNil(p *model.Page) error {
	for i, x := range p.Xobjects {
		if x == nil {
			return fmt.Errorf("xobject %d is nil", i)
		}
		if j := firstNil(x.Fonts); j >= 0 {
			return fmt.Errorf("font %d of xobject %d is nil", j, i)
		}
	}
	checks := []struct {
		what string
		at   int
	}{
		{"layout", firstNil(p.Layouts)},
		{"rectangle", firstNil(p.Rectangles)},
		{"font", firstNil(p.Fonts)},
		{"paragraph", firstNil(p.Paragraphs)},
		{"figure", firstNil(p.Figures)},
		{"character", firstNil(p.Characters)},
	}
	for _, c := range checks {
		if c.at >= 0 {
			return fmt.Errorf("%s %d is nil", c.what, c.at)
		}
	}
	for i, para := range p.Paragraphs {
		for j, c := range para.Compositions {
			if model.IsNil(c) {
				return fmt.Errorf("paragraph %d: composition %d is nil", i, j)
			}
			if k := firstNil(model.Members(c)); k >= 0 {
				return fmt.Errorf("paragraph %d: composition %d: character %d is nil", i, j, k)
			}
		}
	}
	return nil
}

func firstNil[T any](items []*T) int {
	for i, item := range items {
		if item == nil {
			return i
		}
	}
	return -1
}

func (e *encoder) box(b model.Box) {
	var as attrs
	as.box(b)
	e.empty("box", as)
}

func (e *encoder) boxWrapper(name string, b model.Box) {
	e.open(name, nil)
	e.box(b)
	e.close(name)
}

func (e *encoder) xobject(x *model.Xobject) {
	var as attrs
	as.integer("xobjId", x.XobjID)
	as.integer("xrefId", x.XrefID)
	e.open("pdfXobject", as)
	e.box(x.Box)
	for _, f := range x.Fonts {
		e.font(f)
	}
	e.text("baseOperations", x.BaseOperations)
	e.close("pdfXobject")
}

func (e *encoder) font(f *model.Font) {
	var as attrs
	as.str("name", f.Name)
	as.str("fontId", f.FontID)
	as.integer("xrefId", f.XrefID)
	as.integer("encodingLength", f.EncodingLength)
	as.optBool("bold", f.Bold)
	as.optBool("italic", f.Italic)
	as.optBool("monospace", f.Monospace)
	as.optBool("serif", f.Serif)
	as.optFloat("ascent", f.Ascent)
	as.optFloat("descent", f.Descent)

	if len(f.CharBoxes) == 0 {
		e.empty("pdfFont", as)
		return
	}
	e.open("pdfFont", as)
	for _, cb := range f.CharBoxes {
		var cas attrs
		cas.box(cb.Box)
		cas.integer("char_id", cb.CharID)
		e.empty("pdfFontCharBoundingBox", cas)
	}
	e.close("pdfFont")
}

func (e *encoder) layout(l *model.Layout) {
	var as attrs
	as.integer("id", l.ID)
	as.float("conf", l.Conf)
	as.str("class_name", l.ClassName)
	e.open("pageLayout", as)
	e.box(l.Box)
	e.close("pageLayout")
}

func (e *encoder) graphicState(g model.GraphicState) {
	var as attrs
	as.optFloat("linewidth", g.LineWidth)
	as.optFloats("dash", g.Dash)
	as.optFloat("flatness", g.Flatness)
	as.optStr("intent", g.Intent)
	as.optInt("linecap", g.LineCap)
	as.optInt("linejoin", g.LineJoin)
	as.optFloat("miterlimit", g.MiterLimit)
	as.optFloats("ncolor", g.NonStrokeColor)
	as.optFloats("scolor", g.StrokeColor)
	as.optStr("stroking_color_space_name", g.StrokeColorSpace)
	as.optStr("non_stroking_color_space_name", g.NonStrokeColorSpace)
	as.optStr("passthrough_per_char_instruction", g.Passthrough)
	e.empty("graphicState", as)
}

func (e *encoder) style(s model.Style) {
	var as attrs
	as.str("font_id", s.FontID)
	as.float("font_size", s.FontSize)
	e.open("pdfStyle", as)
	e.graphicState(s.GraphicState)
	e.close("pdfStyle")
}

func (e *encoder) rectangle(r *model.Rectangle) {
	var as attrs
	as.optBool("debug_info", r.DebugInfo)
	as.optBool("fill_background", r.FillBackground)
	as.optInt("xobjId", r.XobjID)
	as.optFloat("lineWidth", r.LineWidth)
	e.open("pdfRectangle", as)
	e.box(r.Box)
	e.graphicState(r.GraphicState)
	e.close("pdfRectangle")
}

func (e *encoder) character(name string, c *model.Character) {
	var as attrs
	as.optBool("vertical", c.Vertical)
	as.optFloat("scale", c.Scale)
	as.optInt("pdfCharacterId", c.CharacterID)
	as.str("char_unicode", c.Unicode)
	as.optFloat("advance", c.Advance)
	as.optInt("xobjId", c.XobjID)
	as.optBool("debug_info", c.DebugInfo)
	as.optInt("formula_layout_id", c.FormulaLayoutID)

	e.open(name, as)
	e.style(c.Style)
	e.box(c.Box)
	if c.VisualBox != nil {
		e.boxWrapper("visual_bbox", *c.VisualBox)
	}
	e.close(name)
}

func (e *encoder) characters(chars []*model.Character) {
	for _, c := range chars {
		e.character("pdfCharacter", c)
	}
}

func (e *encoder) paragraph(p *model.Paragraph) error {
	var as attrs
	as.optFloat("scale", p.Scale)
	as.optFloat("optimal_scale", p.OptimalScale)
	as.optBool("vertical", p.Vertical)
	as.optBool("FirstLineIndent", p.FirstLineIndent)
	as.optStr("debug_id", p.DebugID)
	as.optStr("layout_label", p.LayoutLabel)
	as.optInt("layout_id", p.LayoutID)
	as.str("unicode", p.Unicode)

	e.open("pdfParagraph", as)
	e.box(p.Box)
	e.style(p.Style)
	for i, c := range p.Compositions {
		if err := e.composition(c); err != nil {
			return fmt.Errorf("paragraph composition %d: %w", i, err)
		}
	}
	e.close("pdfParagraph")
	return nil
}

func (e *encoder) composition(c model.Composition) error {
	e.open("pdfParagraphComposition", nil)

	switch v := c.(type) {
	case *model.Line:
		e.open("pdfLine", nil)
		e.box(v.Box)
		e.characters(v.Characters)
		e.close("pdfLine")

	case *model.Formula:
		var as attrs
		as.float("x_offset", v.XOffset)
		as.float("y_offset", v.YOffset)
		as.optFloat("x_advance", v.XAdvance)
		e.open("pdfFormula", as)
		e.box(v.Box)
		e.characters(v.Characters)
		e.close("pdfFormula")

	case *model.SameStyleCharacters:
		e.open("pdfSameStyleCharacters", nil)
		e.box(v.Box)
		e.style(v.Style)
		e.characters(v.Characters)
		e.close("pdfSameStyleCharacters")

	case *model.Character:
		e.character("pdfCharacter", v)

	case *model.SameStyleUnicodeCharacters:
		var as attrs
		as.str("unicode", v.Unicode)
		as.optBool("debug_info", v.DebugInfo)
		if v.Style == nil {
			e.empty("pdfSameStyleUnicodeCharacters", as)
		} else {
			e.open("pdfSameStyleUnicodeCharacters", as)
			e.style(*v.Style)
			e.close("pdfSameStyleUnicodeCharacters")
		}

	default:
		return fmt.Errorf("unknown composition type %T", c)
	}

	e.close("pdfParagraphComposition")
	return nil
}
