// Package diag defines the diagnostics reported while building and
// validating an IL document.
//
// Every problem is a [Diagnostic] carrying a [Kind], a [Severity], the
// element path it concerns and, when it came from parsed input, the source
// line. A [List] collects them and implements error, so a failed parse can
// be returned as a plain error and recovered with errors.As:
//
//	var list diag.List
//	if errors.As(err, &list) {
//	    for _, d := range list {
//	        fmt.Println(d)
//	    }
//	}
package diag

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic
type Kind int

const (
	// StructuralError is a missing or unknown attribute or element, a type
	// mismatch or a cardinality violation.
	StructuralError Kind = iota + 1
	// ReferenceError is an unresolved or duplicate identifier.
	ReferenceError
	// GeometryError is a box that escapes its container or has negative
	// extent.
	GeometryError
	// RangeError is a value outside its permitted range, such as a
	// confidence above 1.
	RangeError
	// ConsistencyWarning is text reconstructed from a paragraph's
	// compositions that differs from the declared text.
	ConsistencyWarning
)

func (k Kind) String() string {
	switch k {
	case StructuralError:
		return "StructuralError"
	case ReferenceError:
		return "ReferenceError"
	case GeometryError:
		return "GeometryError"
	case RangeError:
		return "RangeError"
	case ConsistencyWarning:
		return "ConsistencyWarning"
	default:
		return "Unknown"
	}
}

// MarshalText renders the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Severity tells whether a diagnostic makes a document invalid
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// MarshalText renders the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a single reported problem
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"` // 0 when unknown
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", d.Line)
	}
	fmt.Fprintf(&sb, "%s: %s: %s", d.Severity, d.Kind, d.Message)
	if d.Path != "" {
		fmt.Fprintf(&sb, " (at %s)", d.Path)
	}
	return sb.String()
}

// New creates an error-severity diagnostic
func New(kind Kind, path, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: Error,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewWarning creates a warning-severity diagnostic
func NewWarning(kind Kind, path, format string, args ...interface{}) Diagnostic {
	d := New(kind, path, format, args...)
	d.Severity = Warning
	return d
}

// List is an ordered collection of diagnostics
type List []Diagnostic

// Error joins the diagnostics, one per line
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d diagnostics:", len(l))
	for _, d := range l {
		sb.WriteString("\n\t")
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Add appends diagnostics
func (l *List) Add(d ...Diagnostic) {
	*l = append(*l, d...)
}

// HasErrors reports whether any diagnostic has error severity
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics
func (l List) Errors() List {
	return l.filter(func(d Diagnostic) bool { return d.Severity == Error })
}

// Warnings returns the warning-severity diagnostics
func (l List) Warnings() List {
	return l.filter(func(d Diagnostic) bool { return d.Severity == Warning })
}

// OfKind returns the diagnostics of one kind
func (l List) OfKind(kind Kind) List {
	return l.filter(func(d Diagnostic) bool { return d.Kind == kind })
}

// Count returns the number of diagnostics of one kind
func (l List) Count(kind Kind) int {
	return len(l.OfKind(kind))
}

// Err returns the list as an error when it holds errors, nil otherwise
func (l List) Err() error {
	if l.HasErrors() {
		return l
	}
	return nil
}

func (l List) filter(keep func(Diagnostic) bool) List {
	var out List
	for _, d := range l {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
