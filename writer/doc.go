// Package writer serializes a [model.Document] back to IL markup.
//
// Output is deterministic. Page children are grouped by kind (xobjects,
// layouts, rectangles, fonts, paragraphs, figures, characters) keeping
// their order within a kind, attributes follow a fixed order, absent
// optional attributes are omitted and floats use the shortest decimal
// form that parses back to the same value. Parsing the output yields a
// document equal to the input.
package writer
