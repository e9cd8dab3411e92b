// Package validate runs the invariant checks on a fully built document.
//
// Unlike the builder, which stops a page at its first grammar problem, the
// validator reports every violation it finds so one pass over a document
// yields the complete list:
//
//   - totalPages agreement and strictly increasing page numbers
//   - boxes with negative extent, cropbox escaping mediabox, visual_bbox
//     escaping its character box
//   - duplicate font, xobject and layout ids
//   - font char_id range and uniqueness, layout confidence in [0, 1]
//   - font_id, xobjId, layout_id and formula_layout_id resolution
//   - the paragraph composition checks of package compose
//
// Pages are independent and are checked concurrently, bounded by
// Config.Workers. Results are merged in page order so the output does not
// depend on scheduling.
package validate
