// Package xref provides the per-page cross-reference tables of an IL
// document.
//
// IL entities refer to each other by local identifiers: styles name a font
// by fontId, characters and rectangles name an xobject by xobjId, and
// paragraphs name a layout region by layout_id. A [Page] table maps those
// identifiers to their definitions for one page. Fonts live in a [Scope];
// the page has one and every xobject has its own.
//
// # Building
//
// The builder registers definitions as it meets them, so a duplicate is
// detected immediately:
//
//	table := xref.NewPage(1)
//	if err := table.DefineFont(font); err != nil {
//	    // *xref.DuplicateError
//	}
//
// For a page constructed in code, [Index] builds the whole table at once
// and reports every duplicate.
//
// # Resolution
//
// [Page.ResolveFont] searches the xobject scope first when the referring
// glyph carries an xobjId, then the page scope. External xref ids are
// opaque and are never looked up here.
package xref
