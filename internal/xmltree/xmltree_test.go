package xmltree

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<!-- produced by the extractor -->
<document totalPages="1">
  <page pageNumber="0" Unit="point">
    <mediabox><box x="0" y="0" x2="612" y2="792"/></mediabox>
    <baseOperations>q 1 0 0 1 0 0 cm &amp; Q</baseOperations>
  </page>
</document>`

	root, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if root.Name != "document" || root.Line != 3 {
		t.Errorf("root = %s at line %d, want document at line 3", root.Name, root.Line)
	}
	if v, ok := root.Attr("totalPages"); !ok || v != "1" {
		t.Errorf("Attr(totalPages) = %q, %v", v, ok)
	}
	if root.HasText() {
		t.Error("whitespace-only document should not report text")
	}

	pages := root.ChildrenNamed("page")
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	page := pages[0]
	if page.Line != 4 {
		t.Errorf("page line = %d, want 4", page.Line)
	}
	if len(page.Children) != 2 {
		t.Fatalf("len(page.Children) = %d, want 2", len(page.Children))
	}

	box := page.Children[0].Children[0]
	if box.Name != "box" || len(box.Attrs) != 4 || box.Attrs[2].Name != "x2" {
		t.Errorf("box = %+v", box)
	}

	ops := page.ChildrenNamed("baseOperations")[0]
	if ops.Text != "q 1 0 0 1 0 0 cm & Q" {
		t.Errorf("baseOperations text = %q", ops.Text)
	}
}

func TestParseDropsNamespaceDeclarations(t *testing.T) {
	root, err := ParseBytes([]byte(`<document xmlns="urn:il" xmlns:x="urn:x" totalPages="0"/>`))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(root.Attrs) != 1 || root.Attrs[0].Name != "totalPages" {
		t.Errorf("Attrs = %+v", root.Attrs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed", "<document><page>"},
		{"mismatched", "<document></page>"},
		{"two roots", "<document/><document/>"},
		{"stray text", "<document/>junk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(tt.input)); err == nil {
				t.Errorf("ParseBytes(%q) succeeded, want error", tt.input)
			}
		})
	}
}
