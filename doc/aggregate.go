package doc

import (
	"sort"
	"strings"

	"github.com/dhamidi/doclet/java/javadoc"
)

// View is the ordered emission view of a DocumentModel. It is derived data:
// building it never changes the entities it points to.
type View struct {
	Packages []*PackageView
	types    map[QualifiedName]*TypeView
}

// PackageView is a package with its types in lexical order. Entity is nil
// for the unnamed package and for packages without a declaration.
type PackageView struct {
	Name   QualifiedName
	Entity *DocEntity
	Types  []*TypeView
}

// TypeView is a type with its members grouped and ordered for emission.
type TypeView struct {
	Entity       *DocEntity
	Constructors []*MemberView
	Fields       []*MemberView
	Methods      []*MemberView
}

// MemberView carries the documentation to emit for a member, which may come
// from an ancestor.
type MemberView struct {
	Entity        *DocEntity
	Doc           Documentation
	InheritedFrom QualifiedName
}

type Documentation struct {
	Summary string
	Body    string
	Tags    []Tag
}

// Type returns the view of a type.
func (v *View) Type(q QualifiedName) (*TypeView, bool) {
	t, ok := v.types[q]
	return t, ok
}

// Types returns every type view in emission order.
func (v *View) Types() []*TypeView {
	var out []*TypeView
	for _, p := range v.Packages {
		out = append(out, p.Types...)
	}
	return out
}

// Members returns constructors, fields and methods in that order.
func (t *TypeView) Members() []*MemberView {
	out := make([]*MemberView, 0, len(t.Constructors)+len(t.Fields)+len(t.Methods))
	out = append(out, t.Constructors...)
	out = append(out, t.Fields...)
	return append(out, t.Methods...)
}

// Aggregate orders m for emission and fills undocumented members from their
// nearest documented ancestor. Running it again yields an equal view.
func Aggregate(run *Run, m *DocumentModel) (*View, error) {
	run = orDefault(run)
	v := &View{types: make(map[QualifiedName]*TypeView)}
	byName := make(map[QualifiedName]*PackageView)
	pkg := func(name QualifiedName) *PackageView {
		p, ok := byName[name]
		if !ok {
			p = &PackageView{Name: name}
			byName[name] = p
			v.Packages = append(v.Packages, p)
		}
		return p
	}

	inherited := 0
	for _, e := range m.Entities() {
		switch e.Kind {
		case KindPackage:
			pkg(e.Name).Entity = e
		case KindType:
			t, err := aggregateType(m, e)
			if err != nil {
				return nil, err
			}
			for _, mv := range t.Members() {
				if mv.InheritedFrom != "" {
					inherited++
				}
			}
			p := pkg(e.Package)
			p.Types = append(p.Types, t)
			v.types[e.Name] = t
		}
	}

	sort.Slice(v.Packages, func(i, j int) bool { return v.Packages[i].Name < v.Packages[j].Name })
	for _, p := range v.Packages {
		sort.Slice(p.Types, func(i, j int) bool { return p.Types[i].Entity.Name < p.Types[j].Entity.Name })
	}
	run.Log.Debugf("run %s: %d packages, %d types, %d members with inherited documentation",
		run.ID, len(v.Packages), len(v.types), inherited)
	return v, nil
}

func aggregateType(m *DocumentModel, t *DocEntity) (*TypeView, error) {
	tv := &TypeView{Entity: t}
	for _, q := range t.Info.Members {
		e, ok := m.Lookup(q)
		if !ok || !e.Kind.IsMember() {
			return nil, malformed("type %s lists unknown member %s", t.Name, q)
		}
		mv := &MemberView{
			Entity: e,
			Doc:    Documentation{Summary: e.Summary, Body: e.Body, Tags: e.Tags},
		}
		if needsInheritedDoc(e) {
			if src := inheritedDoc(m, t, e); src != nil {
				mv.Doc.Summary, mv.Doc.Body = src.Summary, src.Body
				if len(e.Tags) == 0 {
					mv.Doc.Tags = src.Tags
				}
				mv.InheritedFrom = src.Name
			}
		}
		switch e.Kind.Group() {
		case GroupConstructors:
			tv.Constructors = append(tv.Constructors, mv)
		case GroupFields:
			tv.Fields = append(tv.Fields, mv)
		case GroupMethods:
			tv.Methods = append(tv.Methods, mv)
		}
	}
	for _, group := range [][]*MemberView{tv.Constructors, tv.Fields, tv.Methods} {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Entity.Order < group[j].Entity.Order })
	}
	return tv, nil
}

func needsInheritedDoc(e *DocEntity) bool {
	if e.Kind == KindConstructor {
		return false
	}
	return !e.Documented() || javadoc.IsInheritDoc(strings.TrimSpace(e.Summary+" "+e.Body))
}

// inheritedDoc walks t's ancestors nearest first for a documented member
// matching e.
func inheritedDoc(m *DocumentModel, t *DocEntity, e *DocEntity) *DocEntity {
	for _, a := range t.Info.Ancestors {
		anc := m.typeEntity(a)
		if anc == nil {
			continue
		}
		for _, q := range anc.Info.Members {
			cand := m.entities[q]
			if cand.Kind != e.Kind || cand.SimpleName != e.SimpleName {
				continue
			}
			if e.Kind == KindMethod && !sameParams(cand.Params, e.Params) {
				continue
			}
			if !needsInheritedDoc(cand) {
				return cand
			}
		}
	}
	return nil
}
