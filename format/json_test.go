package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONType(t *testing.T) {
	res := generate(t)
	r := &JSON{}
	l := NewLinker(res.Model, LayoutType, r.Ext()).At("com/example/Derived.json")

	out, err := r.Type(l, typeView(t, res, "com.example.Derived"))
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	var got jsonType
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Name != "com.example.Derived" || got.Kind != "class" {
		t.Errorf("type = %s %s, want com.example.Derived class", got.Name, got.Kind)
	}
	if got.Supertype == nil || got.Supertype.Href != "Base.json" || got.Supertype.State != "resolved" {
		t.Errorf("Supertype = %+v, want a resolved link to Base.json", got.Supertype)
	}
	if len(got.Methods) != 2 {
		t.Fatalf("len(Methods) = %d, want 2", len(got.Methods))
	}
	area, scale := got.Methods[0], got.Methods[1]
	if area.InheritedFrom != "com.example.Base#area()" {
		t.Errorf("area.InheritedFrom = %q, want %q", area.InheritedFrom, "com.example.Base#area()")
	}
	if area.Summary != "Returns the area." {
		t.Errorf("area.Summary = %q, want %q", area.Summary, "Returns the area.")
	}
	if scale.Anchor != "scale-double-" || scale.Signature != "scale(double)" {
		t.Errorf("scale = %+v", scale)
	}
	if len(got.Nested) != 1 || got.Nested[0].Href != "Derived.Inner.json" {
		t.Errorf("Nested = %+v", got.Nested)
	}
}

func TestJSONPackageAndIndex(t *testing.T) {
	res := generate(t)
	r := &JSON{}
	l := NewLinker(res.Model, LayoutPackage, r.Ext())

	out, err := r.Package(l.At("com/example/package-summary.json"), res.View.Packages[0])
	if err != nil {
		t.Fatalf("Package: %v", err)
	}
	var pkg jsonPackage
	if err := json.Unmarshal(out, &pkg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(pkg.Types) != 3 || len(pkg.Details) != 3 {
		t.Errorf("package has %d types and %d details, want 3 and 3", len(pkg.Types), len(pkg.Details))
	}
	if pkg.Types[0].Href != "#Base" {
		t.Errorf("Types[0].Href = %q, want %q", pkg.Types[0].Href, "#Base")
	}

	out, err = r.Index(l.At("index.json"), res.View)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if !strings.Contains(string(out), `"href": "com/example/package-summary.json"`) {
		t.Errorf("Index() = %s", out)
	}
}

func TestEncoders(t *testing.T) {
	m := generate(t).Model

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(m); err != nil {
		t.Fatalf("JSONEncoder.Encode: %v", err)
	}
	var entities []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entities); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(entities) != m.Len() {
		t.Errorf("encoded %d entities, want %d", len(entities), m.Len())
	}

	buf.Reset()
	if err := NewLineEncoder(&buf).Encode(m); err != nil {
		t.Fatalf("LineEncoder.Encode: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != m.Len() {
		t.Fatalf("got %d lines, want %d", len(lines), m.Len())
	}
	want := "type\tcom.example.Base\t1/2\tThe base."
	if lines[1] != want {
		t.Errorf("lines[1] = %q, want %q", lines[1], want)
	}
}
