package doc

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func shapes() Declarations {
	return Declarations{
		{Kind: KindPackage, Name: "com.example", Comment: "/** Geometry. */"},
		{Kind: KindType, Name: "Shape", Scope: "com.example", TypeKind: "interface",
			Comment: "/** A closed figure. */"},
		{Kind: KindMethod, Name: "area", Scope: "com.example.Shape", Type: "double",
			Comment: "/** Computes the area. */"},
		{Kind: KindType, Name: "Base", Scope: "com.example", Interfaces: []string{"Shape"},
			Comment: "/** The base shape.\n * Extend it. */"},
		{Kind: KindMethod, Name: "area", Scope: "com.example.Base", Type: "double",
			Comment: "/**\n * Returns the area of this shape.\n * @return the area\n */"},
		{Kind: KindField, Name: "bar", Scope: "com.example.Base", Type: "int"},
		{Kind: KindType, Name: "Derived", Scope: "com.example", Supertype: "Base"},
		{Kind: KindMethod, Name: "area", Scope: "com.example.Derived", Type: "double"},
		{Kind: KindMethod, Name: "scale", Scope: "com.example.Derived", Type: "void",
			Params: []string{"double"},
			Comment: "/** Scales by {@link #area()}.\n * @param factor the factor\n * @see java.util.Collections */"},
		{Kind: KindConstructor, Name: "Derived", Scope: "com.example.Derived", Params: []string{"int", "java.lang.String"}},
		{Kind: KindField, Name: "bar", Scope: "com.example.Derived", Type: "String",
			Comment: "/** See {@link bar}. */"},
	}
}

func extract(t *testing.T, api APIModel, opts ...RunOption) *DocumentModel {
	t.Helper()
	m, err := Extract(NewRun(opts...), api)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return m
}

func TestExtractNames(t *testing.T) {
	m := extract(t, shapes())
	want := []QualifiedName{
		"com.example",
		"com.example.Shape",
		"com.example.Shape#area()",
		"com.example.Base",
		"com.example.Base#area()",
		"com.example.Base#bar",
		"com.example.Derived",
		"com.example.Derived#area()",
		"com.example.Derived#scale(double)",
		"com.example.Derived#Derived(int,java.lang.String)",
		"com.example.Derived#bar",
	}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() =\n%v\nwant\n%v", got, want)
	}
}

func TestExtractSplitsComment(t *testing.T) {
	m := extract(t, shapes())

	base, _ := m.Lookup("com.example.Base")
	if base.Summary != "The base shape." {
		t.Errorf("Summary = %q, want %q", base.Summary, "The base shape.")
	}
	if base.Body != "Extend it." {
		t.Errorf("Body = %q, want %q", base.Body, "Extend it.")
	}

	scale, _ := m.Lookup("com.example.Derived#scale(double)")
	if len(scale.Tags) != 2 {
		t.Fatalf("len(Tags) = %d, want 2", len(scale.Tags))
	}
	if p := scale.Tags[0]; p.Kind != TagParam || p.Name != "factor" || p.Text != "the factor" {
		t.Errorf("Tags[0] = %+v", p)
	}
	if see := scale.Tags[1]; see.Kind != TagSee || see.Ref == nil || see.Ref.Text != "java.util.Collections" {
		t.Errorf("Tags[1] = %+v", see)
	}
	if len(scale.Links) != 1 || scale.Links[0].Text != "#area()" {
		t.Errorf("Links = %v, want [#area()]", scale.Links)
	}
}

func TestExtractUndocumented(t *testing.T) {
	m := extract(t, shapes())
	e, ok := m.Lookup("com.example.Derived#area()")
	if !ok {
		t.Fatal("Derived#area() missing")
	}
	if e.Summary != "" || e.Body != "" || len(e.Tags) != 0 {
		t.Errorf("undocumented member has documentation: %+v", e)
	}
}

func TestExtractDeclaredOrder(t *testing.T) {
	m := extract(t, shapes())
	d, _ := m.Lookup("com.example.Derived")
	want := []string{"area", "scale", "Derived", "bar"}
	for i, q := range d.Info.Members {
		e, _ := m.Lookup(q)
		if e.Order != i {
			t.Errorf("%s: Order = %d, want %d", q, e.Order, i)
		}
		if e.SimpleName != want[i] {
			t.Errorf("member %d = %s, want %s", i, e.SimpleName, want[i])
		}
	}
}

func TestExtractAncestors(t *testing.T) {
	m := extract(t, shapes())
	d, _ := m.Lookup("com.example.Derived")
	if d.Info.Supertype != "com.example.Base" {
		t.Errorf("Supertype = %q, want com.example.Base", d.Info.Supertype)
	}
	want := []QualifiedName{"com.example.Base", "com.example.Shape"}
	if !reflect.DeepEqual(d.Info.Ancestors, want) {
		t.Errorf("Ancestors = %v, want %v", d.Info.Ancestors, want)
	}
}

func TestExtractAncestorCycle(t *testing.T) {
	m := extract(t, Declarations{
		{Kind: KindPackage, Name: "p"},
		{Kind: KindType, Name: "A", Scope: "p", Supertype: "B"},
		{Kind: KindType, Name: "B", Scope: "p", Supertype: "A"},
	})
	a, _ := m.Lookup("p.A")
	if want := []QualifiedName{"p.B"}; !reflect.DeepEqual(a.Info.Ancestors, want) {
		t.Errorf("Ancestors = %v, want %v", a.Info.Ancestors, want)
	}
}

func TestExtractNestedAndImports(t *testing.T) {
	m := extract(t, Declarations{
		{Kind: KindPackage, Name: "p"},
		{Kind: KindPackage, Name: "q"},
		{Kind: KindType, Name: "Base", Scope: "q"},
		{Kind: KindType, Name: "Outer", Scope: "p", Imports: []string{"q.Base"}},
		{Kind: KindType, Name: "Inner", Scope: "p.Outer", Supertype: "Base"},
	})
	outer, _ := m.Lookup("p.Outer")
	if want := []QualifiedName{"p.Outer.Inner"}; !reflect.DeepEqual(outer.Info.Nested, want) {
		t.Errorf("Nested = %v, want %v", outer.Info.Nested, want)
	}
	inner, _ := m.Lookup("p.Outer.Inner")
	if inner.Package != "p" {
		t.Errorf("Package = %q, want p", inner.Package)
	}
	if inner.Info.Supertype != "q.Base" {
		t.Errorf("Supertype = %q, want q.Base", inner.Info.Supertype)
	}
}

func TestExtractDuplicate(t *testing.T) {
	api := Declarations{
		{Kind: KindPackage, Name: "com.example"},
		{Kind: KindType, Name: "Foo", Scope: "com.example"},
		{Kind: KindMethod, Name: "bar", Scope: "com.example.Foo"},
		{Kind: KindMethod, Name: "bar", Scope: "com.example.Foo", Params: []string{}},
	}
	_, err := Extract(NewRun(), api)
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Fatalf("Extract() error = %v, want ErrDuplicateDeclaration", err)
	}
}

func TestExtractCrossPartitionDuplicate(t *testing.T) {
	// Type a.b in package a collides with package a.b.
	api := Declarations{
		{Kind: KindPackage, Name: "a"},
		{Kind: KindType, Name: "b", Scope: "a"},
		{Kind: KindPackage, Name: "a.b"},
		{Kind: KindType, Name: "C", Scope: "a.b"},
	}
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			_, err := Extract(NewRun(WithWorkers(workers)), api)
			if !errors.Is(err, ErrDuplicateDeclaration) {
				t.Fatalf("Extract() error = %v, want ErrDuplicateDeclaration", err)
			}
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
	}{
		{"orphan member", Declaration{Kind: KindMethod, Name: "bar", Scope: "com.example.Missing"}},
		{"member of package", Declaration{Kind: KindField, Name: "x", Scope: "com.example"}},
		{"orphan type", Declaration{Kind: KindType, Name: "Foo", Scope: "org.missing"}},
		{"empty name", Declaration{Kind: KindType, Scope: "com.example"}},
		{"unknown kind", Declaration{Kind: Kind(42), Name: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := Declarations{{Kind: KindPackage, Name: "com.example"}, tt.decl}
			_, err := Extract(NewRun(), api)
			if !errors.Is(err, ErrMalformedDeclaration) {
				t.Fatalf("Extract() error = %v, want ErrMalformedDeclaration", err)
			}
		})
	}
}

func TestExtractUnnamedPackage(t *testing.T) {
	m := extract(t, Declarations{
		{Kind: KindType, Name: "Main"},
		{Kind: KindMethod, Name: "main", Scope: "Main", Params: []string{"String[]"}},
	})
	if _, ok := m.Lookup("Main#main(String[])"); !ok {
		t.Errorf("Main#main(String[]) missing from %v", m.Names())
	}
}

func manyPackages() Declarations {
	var api Declarations
	for p := 0; p < 8; p++ {
		pkg := fmt.Sprintf("pkg%d", p)
		api = append(api, Declaration{Kind: KindPackage, Name: pkg})
		for c := 0; c < 5; c++ {
			typ := fmt.Sprintf("T%d", c)
			api = append(api, Declaration{Kind: KindType, Name: typ, Scope: pkg, Supertype: "T0",
				Comment: "/** Type {@link T0}. */"})
			for f := 0; f < 3; f++ {
				api = append(api, Declaration{Kind: KindMethod, Name: fmt.Sprintf("m%d", f),
					Scope: pkg + "." + typ, Params: []string{"int"}})
			}
		}
	}
	return api
}

func TestExtractParallelMatchesSequential(t *testing.T) {
	seq := extract(t, manyPackages(), WithWorkers(1))
	par := extract(t, manyPackages(), WithWorkers(6))
	if !reflect.DeepEqual(seq.Names(), par.Names()) {
		t.Fatalf("parallel names differ from sequential")
	}
	for _, q := range seq.Names() {
		a, _ := seq.Lookup(q)
		b, _ := par.Lookup(q)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: parallel entity differs:\n%+v\n%+v", q, a, b)
		}
	}
}

func TestExtractUniqueNames(t *testing.T) {
	m := extract(t, manyPackages())
	seen := make(map[QualifiedName]bool)
	for _, e := range m.Entities() {
		if seen[e.Name] {
			t.Errorf("duplicate name %s", e.Name)
		}
		seen[e.Name] = true
	}
	if len(seen) != len(manyPackages()) {
		t.Errorf("got %d entities, want %d", len(seen), len(manyPackages()))
	}
}
