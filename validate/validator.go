package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/ildoc/compose"
	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/model"
	"github.com/tsawler/ildoc/xref"
)

// Config holds validator configuration
type Config struct {
	// Compose configures the paragraph composition checks
	Compose compose.Config
	// Workers bounds how many pages are checked concurrently. Zero or less
	// means runtime.GOMAXPROCS(0).
	Workers int
	// Logger receives debug records, one per page. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Compose: compose.DefaultConfig(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Validator checks every invariant of a built document
type Validator struct {
	config   Config
	resolver *compose.Resolver
	logger   *slog.Logger
}

// NewValidator creates a validator with default configuration
func NewValidator() *Validator {
	return NewValidatorWithConfig(DefaultConfig())
}

// NewValidatorWithConfig creates a validator with custom configuration
func NewValidatorWithConfig(config Config) *Validator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Validator{
		config:   config,
		resolver: compose.NewResolverWithConfig(config.Compose),
		logger:   logger,
	}
}

// Config returns the validator configuration
func (v *Validator) Config() Config {
	return v.config
}

// Validate checks doc and returns every violation found. The result is
// ordered by page, and within a page by element order.
func (v *Validator) Validate(doc *model.Document) diag.List {
	list, _ := v.ValidateContext(context.Background(), doc)
	return list
}

// ValidateContext is Validate with cancellation. Cancellation is checked
// between pages; the diagnostics of pages already checked are returned
// together with the context error.
func (v *Validator) ValidateContext(ctx context.Context, doc *model.Document) (diag.List, error) {
	var list diag.List
	if doc == nil {
		list.Add(diag.New(diag.StructuralError, "document", "document is nil"))
		return list, nil
	}

	list.Add(checkDocument(doc)...)

	results := make([]diag.List, len(doc.Pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.config.Workers)

	for i, page := range doc.Pages {
		path := fmt.Sprintf("document/page[%d]", i)
		if page == nil {
			results[i] = diag.List{diag.New(diag.StructuralError, path, "page is nil")}
			continue
		}
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = v.checkPage(page, path)
			v.logger.Debug("validated page",
				slog.Int("page", page.PageNumber),
				slog.Int("diagnostics", len(results[i])))
			return nil
		})
	}
	err := g.Wait()

	for _, r := range results {
		list.Add(r...)
	}
	if err != nil {
		return list, fmt.Errorf("validating document: %w", err)
	}
	return list, nil
}

// checkDocument verifies page count agreement and page numbering
func checkDocument(doc *model.Document) diag.List {
	var list diag.List

	if doc.TotalPages != len(doc.Pages) {
		list.Add(diag.New(diag.StructuralError, "document",
			"totalPages is %d but the document holds %d pages", doc.TotalPages, len(doc.Pages)))
	}
	for i := 1; i < len(doc.Pages); i++ {
		if doc.Pages[i-1] == nil || doc.Pages[i] == nil {
			continue
		}
		prev, cur := doc.Pages[i-1].PageNumber, doc.Pages[i].PageNumber
		if cur <= prev {
			list.Add(diag.New(diag.StructuralError, fmt.Sprintf("document/page[%d]", i),
				"pageNumber %d does not increase over the previous page's %d", cur, prev))
		}
	}
	return list
}

// pageChecker accumulates the diagnostics of one page
type pageChecker struct {
	table *xref.Page
	eps   float64
	list  diag.List
}

func (v *Validator) checkPage(page *model.Page, path string) diag.List {
	table, dups := xref.Index(page)
	c := &pageChecker{table: table, eps: v.config.Compose.Epsilon}

	for _, err := range dups {
		c.list.Add(diag.New(diag.ReferenceError, path, "%v", err))
	}

	c.box(page.MediaBox, path+"/mediabox")
	c.box(page.CropBox, path+"/cropbox")
	if page.MediaBox.IsFinite() && page.CropBox.IsFinite() && !page.MediaBox.ContainsBoxEps(page.CropBox, c.eps) {
		c.list.Add(diag.New(diag.GeometryError, path+"/cropbox",
			"cropbox %s escapes mediabox %s by %g", formatBox(page.CropBox), formatBox(page.MediaBox), page.MediaBox.Overflow(page.CropBox)))
	}

	for i, x := range page.Xobjects {
		xpath := fmt.Sprintf("%s/pdfXobject[%d]", path, i)
		if c.isNil(x == nil, "xobject", xpath) {
			continue
		}
		c.box(x.Box, xpath+"/box")
		for j, f := range x.Fonts {
			c.font(f, fmt.Sprintf("%s/pdfFont[%d]", xpath, j))
		}
	}
	for i, l := range page.Layouts {
		c.layout(l, fmt.Sprintf("%s/pageLayout[%d]", path, i))
	}
	for i, r := range page.Rectangles {
		rpath := fmt.Sprintf("%s/pdfRectangle[%d]", path, i)
		if c.isNil(r == nil, "rectangle", rpath) {
			continue
		}
		c.box(r.Box, rpath+"/box")
		c.optNumber("lineWidth", r.LineWidth, rpath)
		c.graphicState(r.GraphicState, rpath+"/graphicState")
		c.xobject(r.XobjID, rpath)
	}
	for i, f := range page.Fonts {
		c.font(f, fmt.Sprintf("%s/pdfFont[%d]", path, i))
	}
	for i, p := range page.Paragraphs {
		ppath := fmt.Sprintf("%s/pdfParagraph[%d]", path, i)
		if c.isNil(p == nil, "paragraph", ppath) {
			continue
		}
		c.paragraph(p, ppath)
		c.list.Add(v.resolver.Resolve(p, ppath)...)
	}
	for i, f := range page.Figures {
		fpath := fmt.Sprintf("%s/pdfFigure[%d]", path, i)
		if c.isNil(f == nil, "figure", fpath) {
			continue
		}
		c.box(f.Box, fpath)
	}
	for i, ch := range page.Characters {
		cpath := fmt.Sprintf("%s/pdfCharacter[%d]", path, i)
		if c.isNil(ch == nil, "character", cpath) {
			continue
		}
		c.character(ch, cpath)
	}

	return c.list
}

// isNil reports a nil entry of a document built in code
func (c *pageChecker) isNil(missing bool, what, path string) bool {
	if missing {
		c.list.Add(diag.New(diag.StructuralError, path, "%s is nil", what))
	}
	return missing
}

// box reports non-finite corners, or else a negative extent
func (c *pageChecker) box(b model.Box, path string) {
	if !b.IsFinite() {
		c.list.Add(diag.New(diag.GeometryError, path, "box %s has a non-finite corner", formatBox(b)))
		return
	}
	if !b.Valid() {
		c.list.Add(diag.New(diag.GeometryError, path, "box %s has negative extent", formatBox(b)))
	}
}

// number reports a NaN or infinite attribute value
func (c *pageChecker) number(name string, v float64, path string) {
	if !model.IsFinite(v) {
		c.list.Add(diag.New(diag.RangeError, path, "%s %g is not finite", name, v))
	}
}

func (c *pageChecker) optNumber(name string, v *float64, path string) {
	if v != nil {
		c.number(name, *v, path)
	}
}

func (c *pageChecker) numbers(name string, vs []float64, path string) {
	for _, v := range vs {
		if !model.IsFinite(v) {
			c.list.Add(diag.New(diag.RangeError, path, "%s holds non-finite value %g", name, v))
			return
		}
	}
}

func (c *pageChecker) graphicState(g model.GraphicState, path string) {
	c.optNumber("linewidth", g.LineWidth, path)
	c.numbers("dash", g.Dash, path)
	c.optNumber("flatness", g.Flatness, path)
	c.optNumber("miterlimit", g.MiterLimit, path)
	c.numbers("ncolor", g.NonStrokeColor, path)
	c.numbers("scolor", g.StrokeColor, path)
}

func (c *pageChecker) font(f *model.Font, path string) {
	if c.isNil(f == nil, "font", path) {
		return
	}
	if f.EncodingLength < 0 {
		c.list.Add(diag.New(diag.RangeError, path, "font %q has negative encodingLength %d", f.FontID, f.EncodingLength))
	}
	c.optNumber("ascent", f.Ascent, path)
	c.optNumber("descent", f.Descent, path)
	seen := make(map[int]bool, len(f.CharBoxes))
	for i, cb := range f.CharBoxes {
		cpath := fmt.Sprintf("%s/pdfFontCharBoundingBox[%d]", path, i)
		c.box(cb.Box, cpath)
		if !f.InEncoding(cb.CharID) {
			c.list.Add(diag.New(diag.RangeError, cpath,
				"char_id %d is outside the encoding of font %q [0, %d)", cb.CharID, f.FontID, f.EncodingLength))
		}
		if seen[cb.CharID] {
			c.list.Add(diag.New(diag.ReferenceError, cpath,
				"duplicate char_id %d in font %q", cb.CharID, f.FontID))
		}
		seen[cb.CharID] = true
	}
}

func (c *pageChecker) layout(l *model.Layout, path string) {
	if c.isNil(l == nil, "layout", path) {
		return
	}
	c.box(l.Box, path+"/box")
	if !(l.Conf >= 0 && l.Conf <= 1) {
		c.list.Add(diag.New(diag.RangeError, path, "layout %d conf %g is outside [0, 1]", l.ID, l.Conf))
	}
}

func (c *pageChecker) xobject(id *int, path string) {
	if id == nil {
		return
	}
	if _, ok := c.table.Xobject(*id); !ok {
		c.list.Add(diag.New(diag.ReferenceError, path, "xobjId %d does not name an xobject on this page", *id))
	}
}

func (c *pageChecker) layoutRef(attr string, id *int, path string) {
	if id == nil {
		return
	}
	if _, ok := c.table.Layout(*id); !ok {
		c.list.Add(diag.New(diag.ReferenceError, path, "%s %d does not name a layout on this page", attr, *id))
	}
}

// style checks the values of a style and resolves its font in the scope
// selected by xobjID
func (c *pageChecker) style(s model.Style, xobjID *int, path string) {
	c.number("font_size", s.FontSize, path+"/pdfStyle")
	c.graphicState(s.GraphicState, path+"/pdfStyle/graphicState")
	if _, ok := c.table.ResolveFont(s.FontID, xobjID); ok {
		return
	}
	scope := "page"
	if xobjID != nil {
		scope = fmt.Sprintf("xobject %d or its page", *xobjID)
	}
	c.list.Add(diag.New(diag.ReferenceError, path+"/pdfStyle",
		"font_id %q is not defined in %s", s.FontID, scope))
}

func (c *pageChecker) character(ch *model.Character, path string) {
	c.box(ch.Box, path+"/box")
	c.optNumber("scale", ch.Scale, path)
	c.optNumber("advance", ch.Advance, path)
	c.xobject(ch.XobjID, path)
	c.style(ch.Style, ch.XobjID, path)
	c.layoutRef("formula_layout_id", ch.FormulaLayoutID, path)

	if ch.VisualBox != nil {
		c.box(*ch.VisualBox, path+"/visual_bbox")
		if ch.VisualBox.IsFinite() && !ch.Box.ContainsBoxEps(*ch.VisualBox, c.eps) {
			c.list.Add(diag.New(diag.GeometryError, path+"/visual_bbox",
				"visual_bbox %s escapes character box %s by %g", formatBox(*ch.VisualBox), formatBox(ch.Box), ch.Box.Overflow(*ch.VisualBox)))
		}
	}
}

func (c *pageChecker) paragraph(p *model.Paragraph, path string) {
	c.box(p.Box, path+"/box")
	c.optNumber("scale", p.Scale, path)
	c.optNumber("optimal_scale", p.OptimalScale, path)
	c.style(p.Style, scopeOf(p.Compositions), path)
	c.layoutRef("layout_id", p.LayoutID, path)

	// Nil compositions and nil member characters are reported by the
	// resolver.
	for i, comp := range p.Compositions {
		if model.IsNil(comp) {
			continue
		}
		cpath := fmt.Sprintf("%s/pdfParagraphComposition[%d]/%s", path, i, comp.Kind())
		switch v := comp.(type) {
		case *model.Line:
			c.box(v.Box, cpath+"/box")
			c.characters(v.Characters, cpath)
		case *model.Formula:
			c.box(v.Box, cpath+"/box")
			c.number("x_offset", v.XOffset, cpath)
			c.number("y_offset", v.YOffset, cpath)
			c.optNumber("x_advance", v.XAdvance, cpath)
			c.characters(v.Characters, cpath)
		case *model.SameStyleCharacters:
			c.box(v.Box, cpath+"/box")
			c.style(v.Style, scopeOf([]model.Composition{v}), cpath)
			c.characters(v.Characters, cpath)
		case *model.Character:
			c.character(v, cpath)
		case *model.SameStyleUnicodeCharacters:
			if v.Style != nil {
				c.style(*v.Style, scopeOf(p.Compositions), cpath)
			}
		}
	}
}

func (c *pageChecker) characters(chars []*model.Character, path string) {
	for j, ch := range chars {
		if ch != nil {
			c.character(ch, fmt.Sprintf("%s/pdfCharacter[%d]", path, j))
		}
	}
}

// scopeOf picks the xobject a paragraph or run belongs to: the xobjId of
// its first member character that carries one, or nil for the page.
func scopeOf(cs []model.Composition) *int {
	for _, comp := range cs {
		for _, ch := range model.Members(comp) {
			if ch != nil && ch.XobjID != nil {
				return ch.XobjID
			}
		}
	}
	return nil
}

func formatBox(b model.Box) string {
	return fmt.Sprintf("(%g,%g,%g,%g)", b.X, b.Y, b.X2, b.Y2)
}
