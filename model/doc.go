// Package model provides the in-memory representation of an intermediate
// layout (IL) document.
//
// An IL document is what a PDF layout-extraction pipeline produces: pages
// with their geometry, embedded xobjects, fonts, detected layout regions and
// the reconstructed text and graphics structure. All types are plain values
// owned by their parent; references between entities are ids, never
// pointers.
//
// # Document Structure
//
//	doc := model.NewDocument()
//	page := model.NewPage(0, "point", model.NewBox(0, 0, 612, 792))
//	doc.AddPage(page)
//
// A [Page] holds [Xobject], [Layout], [Rectangle], [Font], [Paragraph],
// [Figure] and loose [Character] children.
//
// # Compositions
//
// A paragraph's content is an ordered list of [Composition] values. The
// interface is sealed; the variants are:
//
//   - [Line] - a visual text line of characters
//   - [Formula] - a math expression with baseline offsets
//   - [SameStyleCharacters] - characters sharing one [Style]
//   - [Character] - a single glyph
//   - [SameStyleUnicodeCharacters] - text without per-glyph geometry
//
// # Optional Attributes
//
// Optional attributes are pointers (or nil slices for number lists). nil
// always means "not recorded", which is distinct from an explicit zero.
// [Ptr] helps fill them:
//
//	ch.Advance = model.Ptr(0.0)
//
// # Geometry
//
// [Box] is an axis-aligned rectangle given by its corners, with
// containment (optionally epsilon-tolerant), union and intersection.
package model
