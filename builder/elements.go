package builder

import (
	"github.com/tsawler/ildoc/internal/xmltree"
	"github.com/tsawler/ildoc/model"
)

// buildBox decodes <box x y x2 y2/>
func buildBox(n *xmltree.Node, path string) (model.Box, error) {
	a := readAttrs(n, path)
	box := model.Box{
		X:  a.float("x"),
		Y:  a.float("y"),
		X2: a.float("x2"),
		Y2: a.float("y2"),
	}
	if err := a.done(); err != nil {
		return model.Box{}, err
	}
	if _, err := readChildren(n, path); err != nil {
		return model.Box{}, err
	}
	return box, nil
}

// boxOf decodes the required <box> child
func boxOf(cs *childSet) (model.Box, error) {
	n, err := cs.one("box")
	if err != nil {
		return model.Box{}, err
	}
	return buildBox(n, cs.path+"/box")
}

// buildBoxWrapper decodes an element holding nothing but a <box>:
// mediabox, cropbox, visual_bbox and pdfFigure.
func buildBoxWrapper(n *xmltree.Node, path string) (model.Box, error) {
	if err := readAttrs(n, path).done(); err != nil {
		return model.Box{}, err
	}
	cs, err := readChildren(n, path, "box")
	if err != nil {
		return model.Box{}, err
	}
	return boxOf(cs)
}

// buildText decodes an element whose only content is character data
func buildText(n *xmltree.Node, path string) (string, error) {
	if err := readAttrs(n, path).done(); err != nil {
		return "", err
	}
	if len(n.Children) > 0 {
		c := n.Children[0]
		return "", structural(c, path+"/"+c.Name, "unexpected element <%s> in <%s>", c.Name, n.Name)
	}
	return n.Text, nil
}

func buildGraphicState(n *xmltree.Node, path string) (model.GraphicState, error) {
	a := readAttrs(n, path)
	gs := model.GraphicState{
		LineWidth:           a.optFloat("linewidth"),
		Dash:                a.optFloats("dash"),
		Flatness:            a.optFloat("flatness"),
		Intent:              a.optStr("intent"),
		LineCap:             a.optInt("linecap"),
		LineJoin:            a.optInt("linejoin"),
		MiterLimit:          a.optFloat("miterlimit"),
		NonStrokeColor:      a.optFloats("ncolor"),
		StrokeColor:         a.optFloats("scolor"),
		StrokeColorSpace:    a.optStr("stroking_color_space_name"),
		NonStrokeColorSpace: a.optStr("non_stroking_color_space_name"),
		Passthrough:         a.optStr("passthrough_per_char_instruction"),
	}
	if err := a.done(); err != nil {
		return model.GraphicState{}, err
	}
	if _, err := readChildren(n, path); err != nil {
		return model.GraphicState{}, err
	}
	return gs, nil
}

func buildStyle(n *xmltree.Node, path string) (model.Style, error) {
	a := readAttrs(n, path)
	style := model.Style{
		FontID:   a.str("font_id"),
		FontSize: a.float("font_size"),
	}
	if err := a.done(); err != nil {
		return model.Style{}, err
	}
	cs, err := readChildren(n, path, "graphicState")
	if err != nil {
		return model.Style{}, err
	}
	gsNode, err := cs.one("graphicState")
	if err != nil {
		return model.Style{}, err
	}
	if style.GraphicState, err = buildGraphicState(gsNode, path+"/graphicState"); err != nil {
		return model.Style{}, err
	}
	return style, nil
}

func styleOf(cs *childSet) (model.Style, error) {
	n, err := cs.one("pdfStyle")
	if err != nil {
		return model.Style{}, err
	}
	return buildStyle(n, cs.path+"/pdfStyle")
}

func buildFont(n *xmltree.Node, path string) (*model.Font, error) {
	a := readAttrs(n, path)
	font := &model.Font{
		Name:           a.str("name"),
		FontID:         a.str("fontId"),
		XrefID:         a.integer("xrefId"),
		EncodingLength: a.integer("encodingLength"),
		Bold:           a.optBool("bold"),
		Italic:         a.optBool("italic"),
		Monospace:      a.optBool("monospace"),
		Serif:          a.optBool("serif"),
		Ascent:         a.optFloat("ascent"),
		Descent:        a.optFloat("descent"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}

	cs, err := readChildren(n, path, "pdfFontCharBoundingBox")
	if err != nil {
		return nil, err
	}
	nodes, _ := cs.many("pdfFontCharBoundingBox", 0)
	for i, c := range nodes {
		cb, err := buildCharBox(c, indexed(path, "pdfFontCharBoundingBox", i))
		if err != nil {
			return nil, err
		}
		font.CharBoxes = append(font.CharBoxes, cb)
	}
	return font, nil
}

func buildCharBox(n *xmltree.Node, path string) (model.CharBox, error) {
	a := readAttrs(n, path)
	cb := model.CharBox{
		Box: model.Box{
			X:  a.float("x"),
			Y:  a.float("y"),
			X2: a.float("x2"),
			Y2: a.float("y2"),
		},
		CharID: a.integer("char_id"),
	}
	if err := a.done(); err != nil {
		return model.CharBox{}, err
	}
	if _, err := readChildren(n, path); err != nil {
		return model.CharBox{}, err
	}
	return cb, nil
}

func buildLayout(n *xmltree.Node, path string) (*model.Layout, error) {
	a := readAttrs(n, path)
	l := &model.Layout{
		ID:        a.integer("id"),
		Conf:      a.float("conf"),
		ClassName: a.str("class_name"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}
	cs, err := readChildren(n, path, "box")
	if err != nil {
		return nil, err
	}
	if l.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	return l, nil
}

func buildFigure(n *xmltree.Node, path string) (*model.Figure, error) {
	box, err := buildBoxWrapper(n, path)
	if err != nil {
		return nil, err
	}
	return &model.Figure{Box: box}, nil
}

func buildRectangle(n *xmltree.Node, path string) (*model.Rectangle, error) {
	a := readAttrs(n, path)
	r := &model.Rectangle{
		DebugInfo:      a.optBool("debug_info"),
		FillBackground: a.optBool("fill_background"),
		XobjID:         a.optInt("xobjId"),
		LineWidth:      a.optFloat("lineWidth"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}
	cs, err := readChildren(n, path, "box", "graphicState")
	if err != nil {
		return nil, err
	}
	if r.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	gsNode, err := cs.one("graphicState")
	if err != nil {
		return nil, err
	}
	if r.GraphicState, err = buildGraphicState(gsNode, path+"/graphicState"); err != nil {
		return nil, err
	}
	return r, nil
}

func buildCharacter(n *xmltree.Node, path string) (*model.Character, error) {
	a := readAttrs(n, path)
	c := &model.Character{
		Vertical:        a.optBool("vertical"),
		Scale:           a.optFloat("scale"),
		CharacterID:     a.optInt("pdfCharacterId"),
		Unicode:         a.str("char_unicode"),
		Advance:         a.optFloat("advance"),
		XobjID:          a.optInt("xobjId"),
		DebugInfo:       a.optBool("debug_info"),
		FormulaLayoutID: a.optInt("formula_layout_id"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}

	cs, err := readChildren(n, path, "pdfStyle", "box", "visual_bbox")
	if err != nil {
		return nil, err
	}
	if c.Style, err = styleOf(cs); err != nil {
		return nil, err
	}
	if c.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	visual, err := cs.optional("visual_bbox")
	if err != nil {
		return nil, err
	}
	if visual != nil {
		box, err := buildBoxWrapper(visual, path+"/visual_bbox")
		if err != nil {
			return nil, err
		}
		c.VisualBox = &box
	}
	return c, nil
}

// charactersOf decodes the one-or-more <pdfCharacter> children of a line,
// formula or same-style run
func charactersOf(cs *childSet) ([]*model.Character, error) {
	nodes, err := cs.many("pdfCharacter", 1)
	if err != nil {
		return nil, err
	}
	chars := make([]*model.Character, 0, len(nodes))
	for i, n := range nodes {
		c, err := buildCharacter(n, indexed(cs.path, "pdfCharacter", i))
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}
	return chars, nil
}

func buildXobject(n *xmltree.Node, path string) (*model.Xobject, error) {
	a := readAttrs(n, path)
	x := &model.Xobject{
		XobjID: a.integer("xobjId"),
		XrefID: a.integer("xrefId"),
	}
	if err := a.done(); err != nil {
		return nil, err
	}

	cs, err := readChildren(n, path, "box", "pdfFont", "baseOperations")
	if err != nil {
		return nil, err
	}
	if x.Box, err = boxOf(cs); err != nil {
		return nil, err
	}
	fonts, _ := cs.many("pdfFont", 0)
	for i, fn := range fonts {
		f, err := buildFont(fn, indexed(path, "pdfFont", i))
		if err != nil {
			return nil, err
		}
		x.Fonts = append(x.Fonts, f)
	}
	ops, err := cs.one("baseOperations")
	if err != nil {
		return nil, err
	}
	if x.BaseOperations, err = buildText(ops, path+"/baseOperations"); err != nil {
		return nil, err
	}
	return x, nil
}
