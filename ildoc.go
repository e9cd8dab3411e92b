// Package ildoc parses, validates and serializes IL documents: the XML
// intermediate layout produced by a PDF layout-extraction pipeline.
//
// Basic usage:
//
//	doc, err := ildoc.Parse(data)
//	if err != nil {
//	    var diags diag.List
//	    if errors.As(err, &diags) {
//	        for _, d := range diags {
//	            fmt.Println(d)
//	        }
//	    }
//	    return err
//	}
//
// Warnings, such as paragraph text that does not match its compositions,
// do not fail Parse. Use ParseWithDiagnostics to see them:
//
//	doc, diags, err := ildoc.ParseWithDiagnostics(data, ildoc.WithEpsilon(0.5))
//
// Fluent access to a file:
//
//	text, warnings, err := ildoc.Open("page.il.xml").Normalize(compose.NormalizeNFKC).Text()
//
// Documents built in code can be checked with Validate and written with
// Serialize. Parsing the output of Serialize returns an equal document.
package ildoc

import (
	"bytes"
	"fmt"

	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/model"
	"github.com/tsawler/ildoc/validate"
	"github.com/tsawler/ildoc/writer"
)

// Parse builds and validates a document. The returned error wraps a
// diag.List holding the error-severity diagnostics.
func Parse(data []byte, opts ...Option) (*model.Document, error) {
	doc, _, err := ParseWithDiagnostics(data, opts...)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseWithDiagnostics is Parse that also returns every diagnostic,
// warnings included. On failure the partially built document is returned
// when the markup itself was readable.
func ParseWithDiagnostics(data []byte, opts ...Option) (*model.Document, diag.List, error) {
	return parse(data, applyOptions(opts))
}

// Validate checks a document built in code and returns every violation.
func Validate(doc *model.Document, opts ...Option) diag.List {
	o := applyOptions(opts)
	return validate.NewValidatorWithConfig(o.validatorConfig()).Validate(doc)
}

// Serialize returns the markup of doc.
func Serialize(doc *model.Document) ([]byte, error) {
	return writer.Marshal(doc)
}

// RoundTrip serializes doc, parses the result and serializes it again,
// failing when the two outputs differ. It checks that doc survives a trip
// through its markup unchanged.
func RoundTrip(doc *model.Document) error {
	first, err := Serialize(doc)
	if err != nil {
		return err
	}
	res, err := buildTree(bytes.NewReader(first))
	if err != nil {
		return fmt.Errorf("round trip: %w", err)
	}
	if err := res.Diagnostics.Err(); err != nil {
		return fmt.Errorf("round trip: reparsing: %w", err)
	}
	second, err := Serialize(res.Document)
	if err != nil {
		return err
	}
	if line, ok := firstDifference(first, second); !ok {
		return fmt.Errorf("round trip: output differs at line %d", line)
	}
	return nil
}

// firstDifference compares two outputs line by line. It returns the first
// differing line number and false, or 0 and true when they are equal.
func firstDifference(a, b []byte) (int, bool) {
	if bytes.Equal(a, b) {
		return 0, true
	}
	al, bl := bytes.Split(a, []byte("\n")), bytes.Split(b, []byte("\n"))
	for i := 0; i < len(al) && i < len(bl); i++ {
		if !bytes.Equal(al[i], bl[i]) {
			return i + 1, false
		}
	}
	return min(len(al), len(bl)) + 1, false
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := ildoc.Must(ildoc.Parse(data))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
