package builder

import (
	"github.com/tsawler/ildoc/internal/xmltree"
	"github.com/tsawler/ildoc/model"
)

var compositionVariants = []string{
	"pdfLine",
	"pdfFormula",
	"pdfSameStyleCharacters",
	"pdfCharacter",
	"pdfSameStyleUnicodeCharacters",
}

func buildParagraph(n *xmltree.Node, path string) (*model.Paragraph, error) {
	a := readAttrs(n, path)
	p := &model.Paragraph{
		Scale:           a.optFloat("scale"),
		OptimalScale:    a.optFloat("optimal_scale"),
		Vertical:        a.optBool("vertical"),
		FirstLineIndent: a.optBool("FirstLineIndent"),
		DebugID:         a.optStr("debug_id"),
		LayoutLabel:     a.optStr("layout_label"),
		LayoutID:        a.optInt("layout_id"),
		Unicode:         a.str("unicode"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}

	cs, err := readChildren(n, path, "box", "pdfStyle", "pdfParagraphComposition")
	if err != nil {
		return nil, err
	}
	if p.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	if p.Style, err = styleOf(cs); err != nil {
		return nil, err
	}
	nodes, _ := cs.many("pdfParagraphComposition", 0)
	for i, cn := range nodes {
		c, err := buildComposition(cn, indexed(path, "pdfParagraphComposition", i))
		if err != nil {
			return nil, err
		}
		p.Compositions = append(p.Compositions, c)
	}
	return p, nil
}

// buildComposition decodes the tagged union: exactly one variant element
func buildComposition(n *xmltree.Node, path string) (model.Composition, error) {
	if err := readAttrs(n, path).done(); err != nil {
		return nil, err
	}
	if _, err := readChildren(n, path, compositionVariants...); err != nil {
		return nil, err
	}
	if len(n.Children) != 1 {
		return nil, structural(n, path, "<%s> has %d variant elements, want exactly 1", n.Name, len(n.Children))
	}

	v := n.Children[0]
	vpath := path + "/" + v.Name
	switch v.Name {
	case "pdfLine":
		return buildLine(v, vpath)
	case "pdfFormula":
		return buildFormula(v, vpath)
	case "pdfSameStyleCharacters":
		return buildSameStyleCharacters(v, vpath)
	case "pdfCharacter":
		return buildCharacter(v, vpath)
	default:
		return buildSameStyleUnicodeCharacters(v, vpath)
	}
}

func buildLine(n *xmltree.Node, path string) (*model.Line, error) {
	if err := readAttrs(n, path).done(); err != nil {
		return nil, err
	}
	cs, err := readChildren(n, path, "box", "pdfCharacter")
	if err != nil {
		return nil, err
	}
	l := &model.Line{}
	if l.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	if l.Characters, err = charactersOf(cs); err != nil {
		return nil, err
	}
	return l, nil
}

func buildFormula(n *xmltree.Node, path string) (*model.Formula, error) {
	a := readAttrs(n, path)
	f := &model.Formula{
		XOffset:  a.float("x_offset"),
		YOffset:  a.float("y_offset"),
		XAdvance: a.optFloat("x_advance"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}
	cs, err := readChildren(n, path, "box", "pdfCharacter")
	if err != nil {
		return nil, err
	}
	if f.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	if f.Characters, err = charactersOf(cs); err != nil {
		return nil, err
	}
	return f, nil
}

func buildSameStyleCharacters(n *xmltree.Node, path string) (*model.SameStyleCharacters, error) {
	if err := readAttrs(n, path).done(); err != nil {
		return nil, err
	}
	cs, err := readChildren(n, path, "box", "pdfStyle", "pdfCharacter")
	if err != nil {
		return nil, err
	}
	s := &model.SameStyleCharacters{}
	if s.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	if s.Style, err = styleOf(cs); err != nil {
		return nil, err
	}
	if s.Characters, err = charactersOf(cs); err != nil {
		return nil, err
	}
	return s, nil
}

func buildSameStyleUnicodeCharacters(n *xmltree.Node, path string) (*model.SameStyleUnicodeCharacters, error) {
	a := readAttrs(n, path)
	s := &model.SameStyleUnicodeCharacters{
		Unicode:   a.str("unicode"),
		DebugInfo: a.optBool("debug_info"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}
	cs, err := readChildren(n, path, "pdfStyle")
	if err != nil {
		return nil, err
	}
	styleNode, err := cs.optional("pdfStyle")
	if err != nil {
		return nil, err
	}
	if styleNode != nil {
		style, err := buildStyle(styleNode, path+"/pdfStyle")
		if err != nil {
			return nil, err
		}
		s.Style = &style
	}
	return s, nil
}
