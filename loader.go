package ildoc

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/ildoc/compose"
	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/model"
)

// Loader provides a fluent interface for reading one IL document. Each
// configuration method returns a new Loader, making it safe for concurrent
// use and allowing method chaining. The document is read and checked by a
// terminal operation (Document, Diagnostics, Text, PageCount, Serialize).
type Loader struct {
	// Source: a file name or in-memory data
	filename string
	data     []byte
	hasData  bool

	options options

	// Accumulated error (fail-fast)
	err error
}

// Open returns a Loader for the named file. The file is not read until a
// terminal operation is called.
//
// Example:
//
//	doc, warnings, err := ildoc.Open("page.il.xml").Document()
func Open(filename string) *Loader {
	return &Loader{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Loader for a document held in memory.
func FromBytes(data []byte) *Loader {
	return &Loader{
		data:    data,
		hasData: true,
		options: defaultOptions(),
	}
}

// FromReader returns a Loader that reads the document from r. The reader
// is consumed immediately; a read error is reported by the terminal
// operation.
func FromReader(r io.Reader) *Loader {
	data, err := io.ReadAll(r)
	l := FromBytes(data)
	if err != nil {
		l.err = fmt.Errorf("reading IL document: %w", err)
	}
	return l
}

// clone creates a shallow copy of the Loader. The source bytes are never
// modified so they may be shared.
func (l *Loader) clone() *Loader {
	c := *l
	return &c
}

// With applies functional options to a copy of the Loader.
func (l *Loader) With(opts ...Option) *Loader {
	c := l.clone()
	for _, opt := range opts {
		opt(&c.options)
	}
	return c
}

// Epsilon sets the box containment tolerance.
//
// Example:
//
//	doc, _, err := ildoc.Open("page.il.xml").Epsilon(0.5).Document()
func (l *Loader) Epsilon(eps float64) *Loader {
	return l.With(WithEpsilon(eps))
}

// Workers bounds how many pages are validated concurrently.
func (l *Loader) Workers(n int) *Loader {
	return l.With(WithWorkers(n))
}

// StrictText makes paragraph text mismatches errors instead of warnings.
//
// Example:
//
//	_, _, err := ildoc.Open("page.il.xml").StrictText().Document()
func (l *Loader) StrictText() *Loader {
	return l.With(WithStrictText())
}

// Normalize selects the Unicode normalization used when comparing
// paragraph text with its compositions.
func (l *Loader) Normalize(n compose.Normalization) *Loader {
	return l.With(WithNormalization(n))
}

// Logger sets the logger for debug records.
func (l *Loader) Logger(logger *slog.Logger) *Loader {
	return l.With(WithLogger(logger))
}

// read returns the source bytes
func (l *Loader) read() ([]byte, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.hasData {
		return l.data, nil
	}
	if l.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	data, err := os.ReadFile(l.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open IL document: %w", err)
	}
	return data, nil
}

// Document parses and validates the document. Warnings are returned
// alongside a valid document; when the document has errors, err wraps
// them as a diag.List.
//
// Example:
//
//	doc, warnings, err := ildoc.Open("page.il.xml").Document()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Println(w)
//	}
func (l *Loader) Document() (*model.Document, diag.List, error) {
	data, err := l.read()
	if err != nil {
		return nil, nil, err
	}
	doc, diags, err := parse(data, l.options)
	if err != nil {
		return nil, diags, err
	}
	return doc, diags.Warnings(), nil
}

// Diagnostics parses and validates the document and returns every
// diagnostic. The error is only set when the document could not be read
// or is not well-formed markup.
func (l *Loader) Diagnostics() (diag.List, error) {
	data, err := l.read()
	if err != nil {
		return nil, err
	}
	_, diags, err := parse(data, l.options)
	if diags == nil && err != nil {
		return nil, err
	}
	return diags, nil
}

// Text returns the declared text of every paragraph, one paragraph per
// line, pages in order.
//
// Example:
//
//	text, _, err := ildoc.Open("page.il.xml").Text()
func (l *Loader) Text() (string, diag.List, error) {
	doc, warnings, err := l.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.ExtractText(), warnings, nil
}

// PageCount returns the number of pages in the document.
func (l *Loader) PageCount() (int, error) {
	doc, _, err := l.Document()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Serialize parses the document and writes it back out in canonical form:
// page children grouped by kind and attributes in a fixed order.
func (l *Loader) Serialize() ([]byte, error) {
	doc, _, err := l.Document()
	if err != nil {
		return nil, err
	}
	return Serialize(doc)
}
