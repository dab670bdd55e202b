package java

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/doclet/doc"
)

func sampleRoot() *Root {
	return &Root{Packages: []*PackageModel{{
		Name:    "com.example",
		Javadoc: "/** Example. */",
		Classes: []*ClassModel{{
			Name:       "Foo",
			Visibility: VisibilityPublic,
			SuperClass: "Base",
			SourceFile: "Foo.java",
			Fields:     []FieldModel{{Name: "count", Type: "int", Visibility: VisibilityPrivate}},
			Constructors: []MethodModel{{
				Visibility: VisibilityPublic,
				Parameters: []ParameterModel{{Name: "n", Type: "int"}},
			}},
			Methods: []MethodModel{{
				Name:       "bar",
				ReturnType: "void",
				Visibility: VisibilityPublic,
				Modifiers:  []string{"public", "static", "@Override"},
				Parameters: []ParameterModel{{Name: "m", Type: "Map<String, Integer>"}},
			}},
			Classes: []*ClassModel{{Name: "Inner", Visibility: VisibilityProtected, Line: 9}},
		}},
	}}}
}

func TestRootDeclarations(t *testing.T) {
	decls := sampleRoot().Declarations()
	var got []string
	for _, d := range decls {
		got = append(got, d.Kind.String()+" "+d.Scope+" "+d.Name)
	}
	want := []string{
		"package  com.example",
		"type com.example Foo",
		"field com.example.Foo count",
		"constructor com.example.Foo Foo",
		"method com.example.Foo bar",
		"type com.example.Foo Inner",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Declarations() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if !reflect.DeepEqual(decls[4].Modifiers, []string{"public", "static"}) {
		t.Errorf("bar modifiers = %v", decls[4].Modifiers)
	}
	if decls[5].Position != (doc.Position{File: "Foo.java", Line: 9}) {
		t.Errorf("Inner position = %+v", decls[5].Position)
	}
}

func TestRootExtracts(t *testing.T) {
	m, err := doc.Extract(doc.NewRun(), sampleRoot())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, q := range []doc.QualifiedName{
		"com.example",
		"com.example.Foo#Foo(int)",
		"com.example.Foo#bar(Map)",
		"com.example.Foo.Inner",
	} {
		if _, ok := m.Lookup(q); !ok {
			t.Errorf("%s missing from %v", q, m.Names())
		}
	}
}

func TestRootFilter(t *testing.T) {
	filtered := sampleRoot().Filter(VisibilityPublic)
	foo := filtered.Packages[0].Classes[0]
	if len(foo.Fields) != 0 {
		t.Errorf("private field kept: %+v", foo.Fields)
	}
	if len(foo.Methods) != 1 || len(foo.Constructors) != 1 {
		t.Errorf("public members dropped: %+v", foo)
	}
	if len(foo.Classes) != 0 {
		t.Errorf("protected class kept")
	}
	if len(sampleRoot().Filter(VisibilityProtected).Packages[0].Classes[0].Classes) != 1 {
		t.Errorf("protected class dropped at protected visibility")
	}
}

func TestRootMerge(t *testing.T) {
	root := &Root{}
	root.Merge(&Root{Packages: []*PackageModel{{Name: "p", Classes: []*ClassModel{{Name: "A"}}}}})
	root.Merge(&Root{Packages: []*PackageModel{{Name: "p", Javadoc: "/** P. */", Classes: []*ClassModel{{Name: "B"}}}}})
	if len(root.Packages) != 1 {
		t.Fatalf("len(Packages) = %d, want 1", len(root.Packages))
	}
	p := root.Packages[0]
	if len(p.Classes) != 2 || p.Javadoc != "/** P. */" {
		t.Errorf("merged package = %+v", p)
	}
}

func TestVisibilityAtLeast(t *testing.T) {
	tests := []struct {
		v, min Visibility
		want   bool
	}{
		{VisibilityPublic, VisibilityProtected, true},
		{VisibilityPackage, VisibilityProtected, false},
		{"", VisibilityPackage, true},
		{VisibilityPrivate, VisibilityPrivate, true},
	}
	for _, tt := range tests {
		if got := tt.v.AtLeast(tt.min); got != tt.want {
			t.Errorf("%q.AtLeast(%q) = %v, want %v", tt.v, tt.min, got, tt.want)
		}
	}
}
