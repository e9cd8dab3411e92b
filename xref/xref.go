package xref

import (
	"fmt"
	"strconv"

	"github.com/tsawler/ildoc/model"
)

// DuplicateError reports a local identifier registered twice in one scope
type DuplicateError struct {
	What  string // "font", "xobject" or "layout"
	ID    string
	Scope string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s id %q in %s", e.What, e.ID, e.Scope)
}

// Scope is a font namespace: a page, or an xobject inside a page
type Scope struct {
	name  string
	fonts map[string]*model.Font
}

// NewScope creates an empty font scope. name is used in error messages.
func NewScope(name string) *Scope {
	return &Scope{
		name:  name,
		fonts: make(map[string]*model.Font),
	}
}

// Name returns the scope name given to NewScope
func (s *Scope) Name() string {
	return s.name
}

// DefineFont registers a font under its FontID
func (s *Scope) DefineFont(f *model.Font) error {
	if _, ok := s.fonts[f.FontID]; ok {
		return &DuplicateError{What: "font", ID: f.FontID, Scope: s.name}
	}
	s.fonts[f.FontID] = f
	return nil
}

// Font looks up a font by id
func (s *Scope) Font(fontID string) (*model.Font, bool) {
	f, ok := s.fonts[fontID]
	return f, ok
}

// Len returns the number of fonts in the scope
func (s *Scope) Len() int {
	return len(s.fonts)
}

type xobjectEntry struct {
	xobject *model.Xobject
	fonts   *Scope
}

// Page is the cross-reference table of one page. It owns the page font
// scope, the xobjects with their nested font scopes, and the layout
// regions. Tables never span pages.
type Page struct {
	*Scope
	number   int
	xobjects map[int]xobjectEntry
	layouts  map[int]*model.Layout
}

// NewPage creates an empty table for the page with the given number
func NewPage(number int) *Page {
	return &Page{
		Scope:    NewScope("page " + strconv.Itoa(number)),
		number:   number,
		xobjects: make(map[int]xobjectEntry),
		layouts:  make(map[int]*model.Layout),
	}
}

// XobjectScopeName returns the scope name used for an xobject's fonts
func (p *Page) XobjectScopeName(xobjID int) string {
	return fmt.Sprintf("xobject %d of page %d", xobjID, p.number)
}

// DefineXobject registers an xobject together with its already populated
// font scope. A nil scope registers an xobject without fonts.
func (p *Page) DefineXobject(x *model.Xobject, fonts *Scope) error {
	if _, ok := p.xobjects[x.XobjID]; ok {
		return &DuplicateError{What: "xobject", ID: strconv.Itoa(x.XobjID), Scope: p.name}
	}
	if fonts == nil {
		fonts = NewScope(p.XobjectScopeName(x.XobjID))
	}
	p.xobjects[x.XobjID] = xobjectEntry{xobject: x, fonts: fonts}
	return nil
}

// DefineLayout registers a layout region under its id
func (p *Page) DefineLayout(l *model.Layout) error {
	if _, ok := p.layouts[l.ID]; ok {
		return &DuplicateError{What: "layout", ID: strconv.Itoa(l.ID), Scope: p.name}
	}
	p.layouts[l.ID] = l
	return nil
}

// Xobject looks up an xobject by its local id
func (p *Page) Xobject(xobjID int) (*model.Xobject, bool) {
	e, ok := p.xobjects[xobjID]
	return e.xobject, ok
}

// Layout looks up a layout region by id
func (p *Page) Layout(id int) (*model.Layout, bool) {
	l, ok := p.layouts[id]
	return l, ok
}

// ResolveFont finds the font a style refers to. When xobjID names a known
// xobject its font scope is searched first, then the page scope.
func (p *Page) ResolveFont(fontID string, xobjID *int) (*model.Font, bool) {
	if xobjID != nil {
		if e, ok := p.xobjects[*xobjID]; ok {
			if f, ok := e.fonts.Font(fontID); ok {
				return f, true
			}
		}
	}
	return p.Font(fontID)
}

// Index builds the table for an already constructed page. Every duplicate
// identifier is returned; the first definition wins. Nil entries are
// skipped.
func Index(page *model.Page) (*Page, []error) {
	p := NewPage(page.PageNumber)
	var errs []error

	for _, f := range page.Fonts {
		if f == nil {
			continue
		}
		if err := p.DefineFont(f); err != nil {
			errs = append(errs, err)
		}
	}
	for _, x := range page.Xobjects {
		if x == nil {
			continue
		}
		scope := NewScope(p.XobjectScopeName(x.XobjID))
		for _, f := range x.Fonts {
			if f == nil {
				continue
			}
			if err := scope.DefineFont(f); err != nil {
				errs = append(errs, err)
			}
		}
		if err := p.DefineXobject(x, scope); err != nil {
			errs = append(errs, err)
		}
	}
	for _, l := range page.Layouts {
		if l == nil {
			continue
		}
		if err := p.DefineLayout(l); err != nil {
			errs = append(errs, err)
		}
	}

	return p, errs
}
