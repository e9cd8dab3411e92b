package ildoc

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/tsawler/ildoc/builder"
	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/format"
	"github.com/tsawler/ildoc/internal/xmltree"
	"github.com/tsawler/ildoc/model"
	"github.com/tsawler/ildoc/validate"
)

// buildTree reads the markup and builds the model without validating it
func buildTree(r io.Reader) (*builder.Result, error) {
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}
	return builder.Build(root), nil
}

// parse runs the whole pipeline: markup, builder, then validator. The
// validator only runs when every page was built, since diagnostics of a
// partial document would point at the wrong page indexes.
func parse(data []byte, o options) (*model.Document, diag.List, error) {
	data, err := format.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing IL document: %w", err)
	}
	res, err := buildTree(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing IL document: %w", err)
	}

	diags := res.Diagnostics
	pages := 0
	if res.Document != nil {
		pages = len(res.Document.Pages)
	}
	o.logger.Debug("built document",
		slog.Int("pages", pages),
		slog.Int("diagnostics", len(diags)))

	if diags.HasErrors() {
		return res.Document, diags, fmt.Errorf("building IL document: %w", diags.Errors())
	}

	v := validate.NewValidatorWithConfig(o.validatorConfig())
	diags.Add(v.Validate(res.Document)...)
	if diags.HasErrors() {
		return res.Document, diags, fmt.Errorf("validating IL document: %w", diags.Errors())
	}
	return res.Document, diags, nil
}
