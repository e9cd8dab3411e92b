package builder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tsawler/ildoc/diag"
	"github.com/tsawler/ildoc/internal/xmltree"
)

// buildError carries the diagnostic that aborted an element
type buildError struct {
	diag.Diagnostic
}

func (e *buildError) Error() string {
	return e.Diagnostic.String()
}

func fail(kind diag.Kind, n *xmltree.Node, path, format string, args ...interface{}) error {
	d := diag.New(kind, path, format, args...)
	d.Line = n.Line
	return &buildError{d}
}

func structural(n *xmltree.Node, path, format string, args ...interface{}) error {
	return fail(diag.StructuralError, n, path, format, args...)
}

// attrReader decodes the attributes of one element. The first problem is
// kept and later calls become no-ops; done reports it, together with any
// attribute nobody asked for.
type attrReader struct {
	n    *xmltree.Node
	path string
	used map[string]bool
	err  error
}

func readAttrs(n *xmltree.Node, path string) *attrReader {
	return &attrReader{n: n, path: path, used: make(map[string]bool, len(n.Attrs))}
}

func (a *attrReader) lookup(name string, required bool) (string, bool) {
	a.used[name] = true
	if a.err != nil {
		return "", false
	}
	v, ok := a.n.Attr(name)
	if !ok && required {
		a.err = structural(a.n, a.path, "<%s> missing required attribute %q", a.n.Name, name)
	}
	return v, ok
}

func (a *attrReader) mismatch(name, typ, v string) {
	a.err = structural(a.n, a.path, "<%s> attribute %q: %q is not a valid %s", a.n.Name, name, v, typ)
}

func (a *attrReader) str(name string) string {
	v, _ := a.lookup(name, true)
	return v
}

func (a *attrReader) optStr(name string) *string {
	v, ok := a.lookup(name, false)
	if !ok {
		return nil
	}
	return &v
}

func (a *attrReader) integer(name string) int {
	v, ok := a.lookup(name, true)
	if !ok {
		return 0
	}
	return a.parseInt(name, v)
}

func (a *attrReader) optInt(name string) *int {
	v, ok := a.lookup(name, false)
	if !ok {
		return nil
	}
	i := a.parseInt(name, v)
	if a.err != nil {
		return nil
	}
	return &i
}

func (a *attrReader) parseInt(name, v string) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		a.mismatch(name, "int", v)
	}
	return i
}

func (a *attrReader) float(name string) float64 {
	v, ok := a.lookup(name, true)
	if !ok {
		return 0
	}
	return a.parseFloat(name, v)
}

func (a *attrReader) optFloat(name string) *float64 {
	v, ok := a.lookup(name, false)
	if !ok {
		return nil
	}
	f := a.parseFloat(name, v)
	if a.err != nil {
		return nil
	}
	return &f
}

func (a *attrReader) parseFloat(name, v string) float64 {
	f, err := parseFinite(v)
	if err != nil {
		a.mismatch(name, "float", v)
	}
	return f
}

// optFloats reads a space-separated float list. An empty attribute yields
// an empty, non-nil list.
func (a *attrReader) optFloats(name string) []float64 {
	v, ok := a.lookup(name, false)
	if !ok {
		return nil
	}
	fields := strings.Fields(v)
	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		f, err := parseFinite(field)
		if err != nil {
			a.mismatch(name, "float list", v)
			return nil
		}
		out = append(out, f)
	}
	return out
}

func (a *attrReader) optBool(name string) *bool {
	v, ok := a.lookup(name, false)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		a.mismatch(name, "boolean", v)
		return nil
	}
	return &b
}

// done returns the first decoding error, or a structural error for an
// attribute the grammar does not declare on this element.
func (a *attrReader) done() error {
	if a.err != nil {
		return a.err
	}
	for _, attr := range a.n.Attrs {
		if !a.used[attr.Name] {
			return structural(a.n, a.path, "<%s> has unknown attribute %q", a.n.Name, attr.Name)
		}
	}
	return nil
}

func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", v)
	}
	return f, nil
}

// childSet groups the child elements of a node by name after checking that
// every child is one the grammar allows.
type childSet struct {
	n      *xmltree.Node
	path   string
	byName map[string][]*xmltree.Node
}

func readChildren(n *xmltree.Node, path string, allowed ...string) (*childSet, error) {
	if n.HasText() {
		return nil, structural(n, path, "<%s> must not contain text", n.Name)
	}
	cs := &childSet{n: n, path: path, byName: make(map[string][]*xmltree.Node)}
	for _, c := range n.Children {
		if !contains(allowed, c.Name) {
			return nil, structural(c, path+"/"+c.Name, "unexpected element <%s> in <%s>", c.Name, n.Name)
		}
		cs.byName[c.Name] = append(cs.byName[c.Name], c)
	}
	return cs, nil
}

// one returns the single child with the given name
func (cs *childSet) one(name string) (*xmltree.Node, error) {
	nodes := cs.byName[name]
	switch len(nodes) {
	case 1:
		return nodes[0], nil
	case 0:
		return nil, structural(cs.n, cs.path, "<%s> missing required element <%s>", cs.n.Name, name)
	default:
		return nil, structural(nodes[1], cs.path+"/"+name, "<%s> has %d <%s> elements, want exactly 1", cs.n.Name, len(nodes), name)
	}
}

// optional returns the child with the given name, or nil
func (cs *childSet) optional(name string) (*xmltree.Node, error) {
	nodes := cs.byName[name]
	if len(nodes) > 1 {
		return nil, structural(nodes[1], cs.path+"/"+name, "<%s> has %d <%s> elements, want at most 1", cs.n.Name, len(nodes), name)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

// many returns every child with the given name, requiring at least atLeast
func (cs *childSet) many(name string, atLeast int) ([]*xmltree.Node, error) {
	nodes := cs.byName[name]
	if len(nodes) < atLeast {
		return nil, structural(cs.n, cs.path, "<%s> has %d <%s> elements, want at least %d", cs.n.Name, len(nodes), name, atLeast)
	}
	return nodes, nil
}

func indexed(path, name string, i int) string {
	return fmt.Sprintf("%s/%s[%d]", path, name, i)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
