// Package builder constructs a [model.Document] from the markup tree of an
// IL document.
//
// The builder enforces the grammar: required attributes must be present
// and well typed, unknown attributes and elements are rejected, and each
// element must have the declared number of children. Children of a page
// may come in any order; within one kind their order is kept.
//
// # Failure Handling
//
// Every problem is reported as a [diag.Diagnostic] with the element path
// and source line. A page is built atomically: the first problem inside it
// rejects the whole page, and building continues with the next page so
// that one run reports every broken page.
//
// Local identifiers (font ids, xobject ids, layout ids) are registered in
// the page's [xref.Page] table while the page is built. A duplicate is a
// [diag.ReferenceError] and rejects the page.
//
// # Usage
//
//	root, err := xmltree.ParseBytes(data)
//	if err != nil {
//	    return err
//	}
//	res := builder.Build(root)
//	if res.Diagnostics.HasErrors() {
//	    return res.Diagnostics
//	}
//
// Reference resolution, geometry and text checks are left to the validate
// package, which runs once every page is complete.
package builder
