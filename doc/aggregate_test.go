package doc

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func aggregate(t *testing.T, api APIModel) (*DocumentModel, *View) {
	t.Helper()
	run := NewRun()
	m, err := Extract(run, api)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	Resolve(run, m)
	v, err := Aggregate(run, m)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	return m, v
}

func TestAggregateInheritsFromBase(t *testing.T) {
	m, v := aggregate(t, shapes())
	derived, ok := v.Type("com.example.Derived")
	if !ok {
		t.Fatal("Derived missing from view")
	}
	var area *MemberView
	for _, mv := range derived.Methods {
		if mv.Entity.SimpleName == "area" {
			area = mv
		}
	}
	if area == nil {
		t.Fatal("Derived#area() missing from view")
	}
	if area.Doc.Summary != "Returns the area of this shape." {
		t.Errorf("Summary = %q, want Base's summary", area.Doc.Summary)
	}
	if area.InheritedFrom != "com.example.Base#area()" {
		t.Errorf("InheritedFrom = %q, want com.example.Base#area()", area.InheritedFrom)
	}
	if len(area.Doc.Tags) != 1 || area.Doc.Tags[0].Kind != TagReturn {
		t.Errorf("Tags = %+v, want inherited @return", area.Doc.Tags)
	}

	raw, _ := m.Lookup("com.example.Derived#area()")
	if raw.Summary != "" || raw.Body != "" || len(raw.Tags) != 0 {
		t.Errorf("raw entity was modified: %+v", raw)
	}
	fresh := extract(t, shapes())
	again, _ := fresh.Lookup("com.example.Derived#area()")
	if again.Summary != "" {
		t.Errorf("re-extracted summary = %q, want empty", again.Summary)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	m, first := aggregate(t, shapes())
	second, err := Aggregate(NewRun(), m)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second Aggregate differs from the first")
	}
}

func TestAggregateOrdering(t *testing.T) {
	_, v := aggregate(t, Declarations{
		{Kind: KindPackage, Name: "b"},
		{Kind: KindPackage, Name: "a"},
		{Kind: KindType, Name: "Zed", Scope: "a"},
		{Kind: KindType, Name: "Amy", Scope: "a"},
		{Kind: KindMethod, Name: "zeta", Scope: "a.Amy"},
		{Kind: KindField, Name: "y", Scope: "a.Amy"},
		{Kind: KindConstructor, Name: "Amy", Scope: "a.Amy"},
		{Kind: KindMethod, Name: "alpha", Scope: "a.Amy"},
		{Kind: KindField, Name: "x", Scope: "a.Amy"},
		{Kind: KindConstructor, Name: "Amy", Scope: "a.Amy", Params: []string{"int"}},
		{Kind: KindType, Name: "Only", Scope: "b"},
	})

	var pkgs []QualifiedName
	for _, p := range v.Packages {
		pkgs = append(pkgs, p.Name)
	}
	if want := []QualifiedName{"a", "b"}; !reflect.DeepEqual(pkgs, want) {
		t.Errorf("packages = %v, want %v", pkgs, want)
	}
	var types []QualifiedName
	for _, tv := range v.Packages[0].Types {
		types = append(types, tv.Entity.Name)
	}
	if want := []QualifiedName{"a.Amy", "a.Zed"}; !reflect.DeepEqual(types, want) {
		t.Errorf("types = %v, want %v", types, want)
	}

	amy, _ := v.Type("a.Amy")
	var got []string
	lastGroup, lastOrder := GroupNone, -1
	for _, mv := range amy.Members() {
		got = append(got, mv.Entity.Signature())
		group := mv.Entity.Kind.Group()
		if group < lastGroup || (group == lastGroup && mv.Entity.Order < lastOrder) {
			t.Errorf("%s out of order", mv.Entity.Name)
		}
		lastGroup, lastOrder = group, mv.Entity.Order
	}
	want := []string{"Amy()", "Amy(int)", "y", "x", "zeta()", "alpha()"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("members = %v, want %v", got, want)
	}
}

func TestAggregateNoAncestorDoc(t *testing.T) {
	_, v := aggregate(t, Declarations{
		{Kind: KindPackage, Name: "p"},
		{Kind: KindType, Name: "Base", Scope: "p"},
		{Kind: KindMethod, Name: "run", Scope: "p.Base"},
		{Kind: KindType, Name: "Impl", Scope: "p", Supertype: "Base"},
		{Kind: KindMethod, Name: "run", Scope: "p.Impl"},
	})
	impl, _ := v.Type("p.Impl")
	if mv := impl.Methods[0]; mv.Doc.Summary != "" || mv.InheritedFrom != "" {
		t.Errorf("member = %+v, want empty documentation", mv)
	}
}

func TestAggregateInheritDocAndSkips(t *testing.T) {
	_, v := aggregate(t, Declarations{
		{Kind: KindPackage, Name: "p"},
		{Kind: KindType, Name: "Top", Scope: "p", TypeKind: "interface"},
		{Kind: KindMethod, Name: "get", Scope: "p.Top", Params: []string{"int"}, Summary: "Gets an element."},
		{Kind: KindField, Name: "SIZE", Scope: "p.Top", Summary: "The size."},
		{Kind: KindType, Name: "Mid", Scope: "p", Interfaces: []string{"Top"}},
		{Kind: KindMethod, Name: "get", Scope: "p.Mid", Params: []string{"int"}},
		{Kind: KindMethod, Name: "get", Scope: "p.Mid", Params: []string{"long"}, Summary: "Gets by long."},
		{Kind: KindConstructor, Name: "Mid", Scope: "p.Mid", Summary: "Creates a Mid."},
		{Kind: KindType, Name: "Leaf", Scope: "p", Supertype: "Mid"},
		{Kind: KindConstructor, Name: "Leaf", Scope: "p.Leaf"},
		{Kind: KindMethod, Name: "get", Scope: "p.Leaf", Params: []string{"int"}, Summary: "{@inheritDoc}"},
		{Kind: KindField, Name: "SIZE", Scope: "p.Leaf"},
	})
	leaf, _ := v.Type("p.Leaf")
	if c := leaf.Constructors[0]; c.Doc.Summary != "" {
		t.Errorf("constructor inherited %q", c.Doc.Summary)
	}
	if f := leaf.Fields[0]; f.Doc.Summary != "The size." || f.InheritedFrom != "p.Top#SIZE" {
		t.Errorf("field = %+v, want The size. from p.Top#SIZE", f)
	}
	if g := leaf.Methods[0]; g.Doc.Summary != "Gets an element." || g.InheritedFrom != "p.Top#get(int)" {
		t.Errorf("method doc = %q from %q, want Top's", g.Doc.Summary, g.InheritedFrom)
	}
}

func TestAggregateUnknownMember(t *testing.T) {
	m := extract(t, shapes())
	base, _ := m.Lookup("com.example.Base")
	base.Info.Members = append(base.Info.Members, "com.example.Base#ghost")
	_, err := Aggregate(NewRun(), m)
	if !errors.Is(err, ErrMalformedDeclaration) {
		t.Fatalf("Aggregate() error = %v, want ErrMalformedDeclaration", err)
	}
}
