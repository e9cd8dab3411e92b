package builder

import (
	"errors"
	"fmt"

	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/internal/xmltree"
	"github.com/tsawler/ildoc/model"
	"github.com/tsawler/ildoc/xref"
)

// Result is the output of Build
type Result struct {
	// Document holds every page that was built successfully. It is
	// non-nil unless the root element itself was rejected.
	Document *model.Document
	// Tables holds the cross-reference table of each built page, in page
	// order.
	Tables []*xref.Page
	// Diagnostics lists one error per rejected element. Building stops at
	// the first problem inside a page, then continues with the next page.
	Diagnostics diag.List
}

// Build constructs a document from a parsed markup tree
func Build(root *xmltree.Node) *Result {
	res := &Result{}
	const path = "document"

	if root.Name != "document" {
		res.Diagnostics.Add(diagnostic(structural(root, root.Name, "root element is <%s>, want <document>", root.Name)))
		return res
	}

	a := readAttrs(root, path)
	doc := model.NewDocument()
	doc.TotalPages = a.integer("totalPages")
	if err := a.done(); err != nil {
		res.Diagnostics.Add(diagnostic(err))
		return res
	}
	if _, err := readChildren(root, path, "page"); err != nil {
		res.Diagnostics.Add(diagnostic(err))
		return res
	}

	res.Document = doc
	for i, pn := range root.Children {
		page, table, err := buildPage(pn, indexed(path, "page", i))
		if err != nil {
			res.Diagnostics.Add(diagnostic(err))
			continue
		}
		doc.Pages = append(doc.Pages, page)
		res.Tables = append(res.Tables, table)
	}
	return res
}

// buildPage builds one page and its cross-reference table. The page is
// rejected as a whole on the first error.
func buildPage(n *xmltree.Node, path string) (*model.Page, *xref.Page, error) {
	a := readAttrs(n, path)
	page := &model.Page{
		PageNumber: a.integer("pageNumber"),
		Unit:       a.str("Unit"),
	}
	if err := a.done(); err != nil {
		return nil, nil, err
	}

	cs, err := readChildren(n, path,
		"mediabox", "cropbox", "baseOperations",
		"pdfXobject", "pageLayout", "pdfRectangle", "pdfFont",
		"pdfParagraph", "pdfFigure", "pdfCharacter")
	if err != nil {
		return nil, nil, err
	}
	for _, name := range []string{"mediabox", "cropbox", "baseOperations"} {
		if _, err := cs.one(name); err != nil {
			return nil, nil, err
		}
	}

	table := xref.NewPage(page.PageNumber)
	counts := make(map[string]int)

	for _, c := range n.Children {
		cpath := indexed(path, c.Name, counts[c.Name])
		counts[c.Name]++

		switch c.Name {
		case "mediabox":
			page.MediaBox, err = buildBoxWrapper(c, path+"/mediabox")
		case "cropbox":
			page.CropBox, err = buildBoxWrapper(c, path+"/cropbox")
		case "baseOperations":
			page.BaseOperations, err = buildText(c, path+"/baseOperations")

		case "pdfXobject":
			var x *model.Xobject
			if x, err = buildXobject(c, cpath); err == nil {
				err = defineXobject(table, x, c, cpath)
				page.Xobjects = append(page.Xobjects, x)
			}
		case "pageLayout":
			var l *model.Layout
			if l, err = buildLayout(c, cpath); err == nil {
				err = reference(table.DefineLayout(l), c, cpath)
				page.Layouts = append(page.Layouts, l)
			}
		case "pdfFont":
			var f *model.Font
			if f, err = buildFont(c, cpath); err == nil {
				err = reference(table.DefineFont(f), c, cpath)
				page.Fonts = append(page.Fonts, f)
			}

		case "pdfRectangle":
			var r *model.Rectangle
			if r, err = buildRectangle(c, cpath); err == nil {
				page.Rectangles = append(page.Rectangles, r)
			}
		case "pdfParagraph":
			var p *model.Paragraph
			if p, err = buildParagraph(c, cpath); err == nil {
				page.Paragraphs = append(page.Paragraphs, p)
			}
		case "pdfFigure":
			var f *model.Figure
			if f, err = buildFigure(c, cpath); err == nil {
				page.Figures = append(page.Figures, f)
			}
		case "pdfCharacter":
			var ch *model.Character
			if ch, err = buildCharacter(c, cpath); err == nil {
				page.Characters = append(page.Characters, ch)
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return page, table, nil
}

// defineXobject registers an xobject and its own font scope
func defineXobject(table *xref.Page, x *model.Xobject, n *xmltree.Node, path string) error {
	scope := xref.NewScope(table.XobjectScopeName(x.XobjID))
	for i, f := range x.Fonts {
		if err := scope.DefineFont(f); err != nil {
			return reference(err, n, indexed(path, "pdfFont", i))
		}
	}
	return reference(table.DefineXobject(x, scope), n, path)
}

// reference turns a duplicate-definition error into a ReferenceError
func reference(err error, n *xmltree.Node, path string) error {
	if err == nil {
		return nil
	}
	return fail(diag.ReferenceError, n, path, "%v", err)
}

func diagnostic(err error) diag.Diagnostic {
	var be *buildError
	if errors.As(err, &be) {
		return be.Diagnostic
	}
	return diag.New(diag.StructuralError, "", "%s", fmt.Sprint(err))
}
