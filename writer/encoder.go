package writer

import (
	"bufio"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/ildoc/model"
)

const indent = "  "

// attr is one attribute in output order
type attr struct {
	name  string
	value string
}

// attrs collects attributes in the order they are added. Optional values
// are skipped when nil.
type attrs []attr

func (a *attrs) str(name, v string) {
	*a = append(*a, attr{name, v})
}

func (a *attrs) optStr(name string, v *string) {
	if v != nil {
		a.str(name, *v)
	}
}

func (a *attrs) integer(name string, v int) {
	a.str(name, strconv.Itoa(v))
}

func (a *attrs) optInt(name string, v *int) {
	if v != nil {
		a.integer(name, *v)
	}
}

func (a *attrs) float(name string, v float64) {
	a.str(name, formatFloat(v))
}

func (a *attrs) optFloat(name string, v *float64) {
	if v != nil {
		a.float(name, *v)
	}
}

// optFloats writes a space separated list. An empty non-nil list is
// written as an empty attribute so that it survives a round trip.
func (a *attrs) optFloats(name string, v []float64) {
	if v == nil {
		return
	}
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = formatFloat(f)
	}
	a.str(name, strings.Join(parts, " "))
}

func (a *attrs) optBool(name string, v *bool) {
	if v != nil {
		a.str(name, strconv.FormatBool(*v))
	}
}

func (a *attrs) box(b model.Box) {
	a.float("x", b.X)
	a.float("y", b.Y)
	a.float("x2", b.X2)
	a.float("y2", b.Y2)
}

// formatFloat renders the shortest text that parses back to v
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encoder writes indented XML. The first write error is kept and every
// later call becomes a no-op.
type encoder struct {
	w     *bufio.Writer
	depth int
	err   error
}

func newEncoder(w io.Writer) *encoder {
	return &encoder{w: bufio.NewWriter(w)}
}

func (e *encoder) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *encoder) escape(s string) {
	if e.err != nil {
		return
	}
	e.err = xml.EscapeText(e.w, []byte(s))
}

func (e *encoder) startTag(name string, as attrs) {
	e.write(strings.Repeat(indent, e.depth))
	e.write("<")
	e.write(name)
	for _, a := range as {
		e.write(" ")
		e.write(a.name)
		e.write(`="`)
		e.escape(a.value)
		e.write(`"`)
	}
}

// empty writes a self-closing element
func (e *encoder) empty(name string, as attrs) {
	e.startTag(name, as)
	e.write("/>\n")
}

// open writes a start tag on its own line and indents what follows
func (e *encoder) open(name string, as attrs) {
	e.startTag(name, as)
	e.write(">\n")
	e.depth++
}

func (e *encoder) close(name string) {
	e.depth--
	e.write(strings.Repeat(indent, e.depth))
	e.write("</")
	e.write(name)
	e.write(">\n")
}

// text writes an element holding only character data, kept on one line so
// that no whitespace is added to the content
func (e *encoder) text(name, content string) {
	e.startTag(name, nil)
	e.write(">")
	e.escape(content)
	e.write("</")
	e.write(name)
	e.write(">\n")
}

func (e *encoder) flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
