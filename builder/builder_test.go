package builder

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/internal/xmltree"
	"github.com/tsawler/ildoc/model"
)

func build(t *testing.T, input string) *Result {
	t.Helper()
	root, err := xmltree.ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return Build(root)
}

// page wraps page children in a one-page document
func page(children string) string {
	return `<document totalPages="1"><page pageNumber="1" Unit="point">` +
		`<mediabox><box x="0" y="0" x2="612" y2="792"/></mediabox>` +
		`<cropbox><box x="0" y="0" x2="612" y2="792"/></cropbox>` +
		children +
		`<baseOperations></baseOperations></page></document>`
}

const style = `<pdfStyle font_id="F1" font_size="10"><graphicState/></pdfStyle>`

// ============================================================================
// Document and Page Tests
// ============================================================================

func TestBuildMinimalDocument(t *testing.T) {
	res := build(t, page(""))

	if len(res.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	want := &model.Document{
		TotalPages: 1,
		Pages: []*model.Page{{
			PageNumber: 1,
			Unit:       "point",
			MediaBox:   model.NewBox(0, 0, 612, 792),
			CropBox:    model.NewBox(0, 0, 612, 792),
		}},
	}
	if diff := cmp.Diff(want, res.Document); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
	if len(res.Tables) != 1 {
		t.Errorf("len(Tables) = %d, want 1", len(res.Tables))
	}
}

func TestBuildPageChildrenAnyOrder(t *testing.T) {
	input := `<document totalPages="1"><page Unit="point" pageNumber="0">
		<pdfFigure><box x="1" y="1" x2="2" y2="2"/></pdfFigure>
		<baseOperations>BT ET</baseOperations>
		<pdfFont name="Helvetica" fontId="F1" xrefId="7" encodingLength="256"/>
		<cropbox><box x="0" y="0" x2="10" y2="10"/></cropbox>
		<pdfFigure><box x="3" y="3" x2="4" y2="4"/></pdfFigure>
		<mediabox><box x="0" y="0" x2="10" y2="10"/></mediabox>
		<pageLayout id="2" conf="0.9" class_name="text"><box x="0" y="0" x2="5" y2="5"/></pageLayout>
	</page></document>`

	res := build(t, input)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	p := res.Document.Pages[0]
	if p.BaseOperations != "BT ET" {
		t.Errorf("BaseOperations = %q", p.BaseOperations)
	}
	if len(p.Figures) != 2 || p.Figures[1].Box.X != 3 {
		t.Errorf("Figures = %+v", p.Figures)
	}
	if len(p.Fonts) != 1 || len(p.Layouts) != 1 {
		t.Errorf("Fonts = %d, Layouts = %d", len(p.Fonts), len(p.Layouts))
	}
	if _, ok := res.Tables[0].Layout(2); !ok {
		t.Error("layout 2 not registered")
	}
}

func TestBuildOptionalAttributes(t *testing.T) {
	input := page(`
		<pdfCharacter char_unicode="a" advance="0"><pdfStyle font_id="F1" font_size="10"><graphicState linewidth="0" dash="" ncolor="0 0.5 1"/></pdfStyle><box x="1" y="1" x2="2" y2="2"/></pdfCharacter>
		<pdfCharacter char_unicode="b" vertical="true" xobjId="3"><pdfStyle font_id="F1" font_size="10"><graphicState/></pdfStyle><box x="1" y="1" x2="2" y2="2"/><visual_bbox><box x="1.25" y="1.25" x2="1.75" y2="1.75"/></visual_bbox></pdfCharacter>`)

	res := build(t, input)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	chars := res.Document.Pages[0].Characters

	a := chars[0]
	if a.Advance == nil || *a.Advance != 0 {
		t.Errorf("advance=0 should be present and zero, got %v", a.Advance)
	}
	if a.Vertical != nil || a.Scale != nil || a.XobjID != nil || a.VisualBox != nil {
		t.Error("absent attributes should stay nil")
	}
	gs := a.Style.GraphicState
	if gs.LineWidth == nil || *gs.LineWidth != 0 {
		t.Errorf("linewidth = %v", gs.LineWidth)
	}
	if gs.Dash == nil || len(gs.Dash) != 0 {
		t.Errorf("empty dash should be present and empty, got %#v", gs.Dash)
	}
	if diff := cmp.Diff([]float64{0, 0.5, 1}, gs.NonStrokeColor); diff != "" {
		t.Errorf("ncolor mismatch (-want +got):\n%s", diff)
	}
	if gs.StrokeColor != nil {
		t.Errorf("scolor = %v, want nil", gs.StrokeColor)
	}

	b := chars[1]
	if !b.IsVertical() || b.XobjID == nil || *b.XobjID != 3 {
		t.Errorf("character b = %+v", b)
	}
	if b.VisualBox == nil || *b.VisualBox != model.NewBox(1.25, 1.25, 1.75, 1.75) {
		t.Errorf("VisualBox = %v", b.VisualBox)
	}
}

func TestBuildXobject(t *testing.T) {
	input := page(`<pdfXobject xobjId="1" xrefId="40">
		<box x="0" y="0" x2="100" y2="100"/>
		<pdfFont name="Times" fontId="T1" xrefId="41" encodingLength="2" bold="false">
			<pdfFontCharBoundingBox x="0" y="0" x2="1" y2="1" char_id="0"/>
			<pdfFontCharBoundingBox x="0" y="0" x2="1" y2="2" char_id="1"/>
		</pdfFont>
		<baseOperations>0 0 m 1 1 l S</baseOperations>
	</pdfXobject>`)

	res := build(t, input)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	x := res.Document.Pages[0].Xobjects[0]
	if x.XobjID != 1 || x.XrefID != 40 || x.BaseOperations != "0 0 m 1 1 l S" {
		t.Errorf("xobject = %+v", x)
	}
	if len(x.Fonts) != 1 || len(x.Fonts[0].CharBoxes) != 2 {
		t.Fatalf("fonts = %+v", x.Fonts)
	}
	if f := x.Fonts[0]; f.Bold == nil || *f.Bold || f.Italic != nil {
		t.Errorf("font flags = bold %v italic %v", f.Bold, f.Italic)
	}
	if _, ok := res.Tables[0].ResolveFont("T1", model.Ptr(1)); !ok {
		t.Error("xobject font T1 not registered in xobject scope")
	}
	if _, ok := res.Tables[0].ResolveFont("T1", nil); ok {
		t.Error("xobject font T1 should not be visible in the page scope")
	}
}

// ============================================================================
// Paragraph Tests
// ============================================================================

func TestBuildParagraphCompositions(t *testing.T) {
	char := func(u string, x float64) string {
		return `<pdfCharacter char_unicode="` + u + `">` + style +
			`<box x="` + ftoa(x) + `" y="0" x2="` + ftoa(x+1) + `" y2="1"/></pdfCharacter>`
	}
	input := page(`<pdfParagraph unicode="abcde=f" layout_id="3" FirstLineIndent="1">
		<box x="0" y="0" x2="50" y2="10"/>` + style + `
		<pdfParagraphComposition><pdfLine><box x="0" y="0" x2="2" y2="1"/>` + char("a", 0) + char("b", 1) + `</pdfLine></pdfParagraphComposition>
		<pdfParagraphComposition><pdfSameStyleCharacters><box x="2" y="0" x2="3" y2="1"/>` + style + char("c", 2) + `</pdfSameStyleCharacters></pdfParagraphComposition>
		<pdfParagraphComposition>` + char("d", 3) + `</pdfParagraphComposition>
		<pdfParagraphComposition><pdfSameStyleUnicodeCharacters unicode="e="/></pdfParagraphComposition>
		<pdfParagraphComposition><pdfFormula x_offset="0.5" y_offset="-1"><box x="4" y="0" x2="5" y2="1"/>` + char("f", 4) + `</pdfFormula></pdfParagraphComposition>
	</pdfParagraph>`)

	res := build(t, input)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	p := res.Document.Pages[0].Paragraphs[0]

	wantKinds := []model.CompositionKind{
		model.CompositionLine,
		model.CompositionSameStyleCharacters,
		model.CompositionCharacter,
		model.CompositionSameStyleUnicodeCharacters,
		model.CompositionFormula,
	}
	var gotKinds []model.CompositionKind
	for _, c := range p.Compositions {
		gotKinds = append(gotKinds, c.Kind())
	}
	if diff := cmp.Diff(wantKinds, gotKinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got := p.Text(); got != "abcde=f" {
		t.Errorf("Text() = %q", got)
	}
	if p.LayoutID == nil || *p.LayoutID != 3 || p.FirstLineIndent == nil || !*p.FirstLineIndent {
		t.Errorf("paragraph attributes = %+v", p)
	}
	f := p.Compositions[4].(*model.Formula)
	if f.XOffset != 0.5 || f.YOffset != -1 || f.XAdvance != nil {
		t.Errorf("formula = %+v", f)
	}
	if u := p.Compositions[3].(*model.SameStyleUnicodeCharacters); u.Style != nil {
		t.Error("unicode run without pdfStyle should have nil Style")
	}
}

// ============================================================================
// Error Tests
// ============================================================================

func TestBuildStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		path     string
		contains string
	}{
		{
			name:     "missing required attribute",
			input:    page(`<pdfFont name="A" xrefId="1" encodingLength="1"/>`),
			path:     "document/page[0]/pdfFont[0]",
			contains: `missing required attribute "fontId"`,
		},
		{
			name:     "non-numeric coordinate",
			input:    page(`<pdfFigure><box x="left" y="0" x2="1" y2="1"/></pdfFigure>`),
			path:     "document/page[0]/pdfFigure[0]/box",
			contains: `"left" is not a valid float`,
		},
		{
			name:     "bad boolean",
			input:    page(`<pdfRectangle fill_background="maybe"><box x="0" y="0" x2="1" y2="1"/><graphicState/></pdfRectangle>`),
			path:     "document/page[0]/pdfRectangle[0]",
			contains: "not a valid boolean",
		},
		{
			name:     "bad float list",
			input:    page(`<pdfRectangle><box x="0" y="0" x2="1" y2="1"/><graphicState dash="1 x"/></pdfRectangle>`),
			path:     "document/page[0]/pdfRectangle[0]/graphicState",
			contains: "not a valid float list",
		},
		{
			name:     "non-finite float",
			input:    page(`<pdfFigure><box x="NaN" y="0" x2="1" y2="1"/></pdfFigure>`),
			path:     "document/page[0]/pdfFigure[0]/box",
			contains: "not a valid float",
		},
		{
			name:     "unknown attribute",
			input:    page(`<pdfFigure color="red"><box x="0" y="0" x2="1" y2="1"/></pdfFigure>`),
			path:     "document/page[0]/pdfFigure[0]",
			contains: `unknown attribute "color"`,
		},
		{
			name:     "unknown element",
			input:    page(`<pdfTable/>`),
			path:     "document/page[0]/pdfTable",
			contains: "unexpected element <pdfTable>",
		},
		{
			name:     "missing box",
			input:    page(`<pageLayout id="1" conf="0.5" class_name="text"/>`),
			path:     "document/page[0]/pageLayout[0]",
			contains: "missing required element <box>",
		},
		{
			name:     "two graphic states",
			input:    page(`<pdfRectangle><box x="0" y="0" x2="1" y2="1"/><graphicState/><graphicState/></pdfRectangle>`),
			path:     "document/page[0]/pdfRectangle[0]/graphicState",
			contains: "want exactly 1",
		},
		{
			name:     "empty line",
			input:    page(`<pdfParagraph unicode=""><box x="0" y="0" x2="1" y2="1"/>` + style + `<pdfParagraphComposition><pdfLine><box x="0" y="0" x2="1" y2="1"/></pdfLine></pdfParagraphComposition></pdfParagraph>`),
			path:     "document/page[0]/pdfParagraph[0]/pdfParagraphComposition[0]/pdfLine",
			contains: "want at least 1",
		},
		{
			name:     "composition with two variants",
			input:    page(`<pdfParagraph unicode=""><box x="0" y="0" x2="1" y2="1"/>` + style + `<pdfParagraphComposition><pdfSameStyleUnicodeCharacters unicode="a"/><pdfSameStyleUnicodeCharacters unicode="b"/></pdfParagraphComposition></pdfParagraph>`),
			path:     "document/page[0]/pdfParagraph[0]/pdfParagraphComposition[0]",
			contains: "want exactly 1",
		},
		{
			name:     "empty composition",
			input:    page(`<pdfParagraph unicode=""><box x="0" y="0" x2="1" y2="1"/>` + style + `<pdfParagraphComposition/></pdfParagraph>`),
			path:     "document/page[0]/pdfParagraph[0]/pdfParagraphComposition[0]",
			contains: "has 0 variant elements",
		},
		{
			name:     "text in a box",
			input:    page(`<pdfFigure><box x="0" y="0" x2="1" y2="1">oops</box></pdfFigure>`),
			path:     "document/page[0]/pdfFigure[0]/box",
			contains: "must not contain text",
		},
		{
			name:     "missing cropbox",
			input:    `<document totalPages="1"><page pageNumber="1" Unit="point"><mediabox><box x="0" y="0" x2="1" y2="1"/></mediabox><baseOperations/></page></document>`,
			path:     "document/page[0]",
			contains: "missing required element <cropbox>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := build(t, tt.input)
			if len(res.Diagnostics) != 1 {
				t.Fatalf("len(Diagnostics) = %d, want 1: %v", len(res.Diagnostics), res.Diagnostics)
			}
			d := res.Diagnostics[0]
			if d.Kind != diag.StructuralError {
				t.Errorf("Kind = %v, want StructuralError", d.Kind)
			}
			if d.Path != tt.path {
				t.Errorf("Path = %q, want %q", d.Path, tt.path)
			}
			if !strings.Contains(d.Message, tt.contains) {
				t.Errorf("Message = %q, want it to contain %q", d.Message, tt.contains)
			}
			if len(res.Document.Pages) != 0 {
				t.Error("rejected page should not be in the document")
			}
		})
	}
}

func TestBuildDuplicateFontRejectsPage(t *testing.T) {
	input := page(`
		<pdfFont name="A" fontId="F1" xrefId="1" encodingLength="1"/>
		<pdfFont name="B" fontId="F1" xrefId="2" encodingLength="1"/>`)

	res := build(t, input)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Kind != diag.ReferenceError || d.Path != "document/page[0]/pdfFont[1]" {
		t.Errorf("diagnostic = %+v", d)
	}
	if len(res.Document.Pages) != 0 {
		t.Error("page with duplicate font should be rejected")
	}
}

func TestBuildDuplicateIdentifiers(t *testing.T) {
	layout := `<pageLayout id="1" conf="0.5" class_name="text"><box x="0" y="0" x2="1" y2="1"/></pageLayout>`
	xobj := func(fonts string) string {
		return `<pdfXobject xobjId="4" xrefId="9"><box x="0" y="0" x2="1" y2="1"/>` + fonts + `<baseOperations/></pdfXobject>`
	}
	font := `<pdfFont name="A" fontId="X" xrefId="1" encodingLength="1"/>`

	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"layout", page(layout + layout), "document/page[0]/pageLayout[1]"},
		{"xobject", page(xobj("") + xobj("")), "document/page[0]/pdfXobject[1]"},
		{"font inside xobject", page(xobj(font + font)), "document/page[0]/pdfXobject[0]/pdfFont[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := build(t, tt.input)
			if len(res.Diagnostics) != 1 {
				t.Fatalf("Diagnostics = %v", res.Diagnostics)
			}
			if d := res.Diagnostics[0]; d.Kind != diag.ReferenceError || d.Path != tt.path {
				t.Errorf("diagnostic = %+v", d)
			}
		})
	}
}

func TestBuildSameFontIDInDifferentScopes(t *testing.T) {
	input := page(`<pdfFont name="A" fontId="F1" xrefId="1" encodingLength="1"/>
		<pdfXobject xobjId="1" xrefId="9"><box x="0" y="0" x2="1" y2="1"/><pdfFont name="B" fontId="F1" xrefId="2" encodingLength="1"/><baseOperations/></pdfXobject>`)

	res := build(t, input)
	if len(res.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v", res.Diagnostics)
	}
}

func TestBuildContinuesAfterRejectedPage(t *testing.T) {
	input := `<document totalPages="3">
<page pageNumber="1" Unit="point"><mediabox><box x="0" y="0" x2="1" y2="1"/></mediabox><cropbox><box x="0" y="0" x2="1" y2="1"/></cropbox><baseOperations/></page>
<page pageNumber="2" Unit="point"><mediabox><box x="0" y="0" x2="1" y2="1"/></mediabox><baseOperations/></page>
<page pageNumber="3"><mediabox><box x="0" y="0" x2="1" y2="1"/></mediabox><cropbox><box x="0" y="0" x2="1" y2="1"/></cropbox><baseOperations/></page>
</document>`

	res := build(t, input)
	if len(res.Diagnostics) != 2 {
		t.Fatalf("len(Diagnostics) = %d, want 2: %v", len(res.Diagnostics), res.Diagnostics)
	}
	if res.Diagnostics[0].Line != 3 || res.Diagnostics[1].Line != 4 {
		t.Errorf("lines = %d, %d, want 3, 4", res.Diagnostics[0].Line, res.Diagnostics[1].Line)
	}
	if len(res.Document.Pages) != 1 || res.Document.Pages[0].PageNumber != 1 {
		t.Errorf("pages = %+v", res.Document.Pages)
	}
}

func TestBuildRootErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong root", `<doc totalPages="0"/>`},
		{"missing totalPages", `<document/>`},
		{"non-page child", `<document totalPages="0"><font/></document>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := build(t, tt.input)
			if res.Document != nil {
				t.Error("Document should be nil when the root is rejected")
			}
			if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != diag.StructuralError {
				t.Errorf("Diagnostics = %v", res.Diagnostics)
			}
		})
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
