package doc

import (
	"strings"
)

// ResolveReport summarizes one Resolve pass.
type ResolveReport struct {
	Resolved   int          `json:"resolved"`
	Unresolved int          `json:"unresolved"`
	Missing    []MissingRef `json:"missing,omitempty"`
}

// MissingRef is a reference that matched nothing in the model.
type MissingRef struct {
	Owner QualifiedName `json:"owner"`
	Text  string        `json:"text"`
}

// Resolve decides every tag reference and inline link in m. Each reference
// is reset first, so repeated passes over the same model agree.
func Resolve(run *Run, m *DocumentModel) *ResolveReport {
	run = orDefault(run)
	report := &ResolveReport{}
	for _, e := range m.Entities() {
		for _, ref := range e.References() {
			ref.State, ref.Target = RefPending, ""
			if target, ok := Lookup(m, e.Name, ref.Text); ok {
				ref.State, ref.Target = RefResolved, target
				report.Resolved++
				continue
			}
			ref.State = RefUnresolved
			report.Unresolved++
			report.Missing = append(report.Missing, MissingRef{Owner: e.Name, Text: ref.Text})
			run.Log.Infof("%s: unresolved reference %q", e.Name, ref.Text)
		}
	}
	return report
}

// Lookup resolves text as a reference written in the documentation of from.
// Scopes are tried in order: an exact name, the members and nested types of
// the enclosing type, the members of its ancestors nearest first, enclosing
// outer types, the types of the enclosing package in lexical order, and
// finally the enclosing type's imports. Lookup does not modify m.
func Lookup(m *DocumentModel, from QualifiedName, text string) (QualifiedName, bool) {
	text = normalizeReference(text)
	if text == "" {
		return "", false
	}
	ctx := lookupContext(m, from)

	if member, ok := strings.CutPrefix(text, "#"); ok {
		if ctx.typ == nil {
			return "", false
		}
		return memberInHierarchy(m, ctx.typ, member)
	}
	if _, ok := m.Lookup(QualifiedName(text)); ok {
		return QualifiedName(text), true
	}
	if owner, member, ok := strings.Cut(text, "#"); ok {
		t := findType(m, ctx, owner)
		if t == nil {
			return "", false
		}
		return memberInHierarchy(m, t, member)
	}

	if ctx.typ != nil {
		if q, ok := memberInHierarchy(m, ctx.typ, text); ok {
			return q, true
		}
		for outer := m.typeEntity(ctx.typ.Scope); outer != nil; outer = m.typeEntity(outer.Scope) {
			if q, ok := memberInHierarchy(m, outer, text); ok {
				return q, true
			}
		}
	}
	if t := siblingType(m, ctx.pkg, text); t != nil {
		return t.Name, true
	}
	if ctx.typ != nil {
		if q, ok := importedType(m, ctx.typ, text); ok {
			return q, true
		}
	}
	return "", false
}

type scopeContext struct {
	typ *DocEntity // nil for package documentation
	pkg QualifiedName
}

func lookupContext(m *DocumentModel, from QualifiedName) scopeContext {
	e, ok := m.Lookup(from)
	if !ok {
		if t := m.typeEntity(from.Owner()); t != nil {
			return scopeContext{typ: t, pkg: t.Package}
		}
		return scopeContext{}
	}
	switch {
	case e.Kind == KindType:
		return scopeContext{typ: e, pkg: e.Package}
	case e.Kind.IsMember():
		return scopeContext{typ: m.typeEntity(e.Scope), pkg: e.Package}
	default:
		return scopeContext{pkg: e.Name}
	}
}

// normalizeReference trims text and removes whitespace and type arguments
// from a parameter list: "bar(int, List<String>)" becomes "bar(int,List)".
func normalizeReference(text string) string {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return text
	}
	name, params, _ := splitSignature(text)
	return strings.TrimSpace(name) + "(" + strings.Join(params, ",") + ")"
}

// findType resolves the type part of a Type#member reference.
func findType(m *DocumentModel, ctx scopeContext, name string) *DocEntity {
	if t := m.typeEntity(QualifiedName(name)); t != nil {
		return t
	}
	if ctx.typ != nil {
		for scope := ctx.typ; scope != nil; scope = m.typeEntity(scope.Scope) {
			if t := nestedType(m, scope, name); t != nil {
				return t
			}
		}
		for _, a := range ctx.typ.Info.Ancestors {
			if t := nestedType(m, m.typeEntity(a), name); t != nil {
				return t
			}
		}
	}
	if t := siblingType(m, ctx.pkg, name); t != nil {
		return t
	}
	if ctx.typ != nil {
		if q, ok := importedType(m, ctx.typ, name); ok {
			return m.typeEntity(q)
		}
	}
	return nil
}

func nestedType(m *DocumentModel, t *DocEntity, name string) *DocEntity {
	if t == nil {
		return nil
	}
	return m.typeEntity(typeName(t.Name, name))
}

// siblingType looks name up among the types of pkg: a top-level type first,
// then types nested in the package's types, taking the first in lexical order.
func siblingType(m *DocumentModel, pkg QualifiedName, name string) *DocEntity {
	if t := m.typeEntity(typeName(pkg, name)); t != nil {
		return t
	}
	for _, q := range m.TypesIn(pkg) {
		if t := m.typeEntity(typeName(q, name)); t != nil {
			return t
		}
	}
	return nil
}

// memberInHierarchy looks member up in t, then in t's ancestors nearest first.
func memberInHierarchy(m *DocumentModel, t *DocEntity, member string) (QualifiedName, bool) {
	if q, ok := memberIn(m, t, member); ok {
		return q, true
	}
	for _, a := range t.Info.Ancestors {
		if q, ok := memberIn(m, m.typeEntity(a), member); ok {
			return q, true
		}
	}
	return "", false
}

// memberIn finds member in a single type. An exact signature wins, then a
// field, then constructors and methods in declared order, then nested types.
func memberIn(m *DocumentModel, t *DocEntity, member string) (QualifiedName, bool) {
	if t == nil || member == "" {
		return "", false
	}
	name, params, callable := splitSignature(member)
	if callable {
		if q := memberName(t.Name, name, params, true); m.entities[q] != nil {
			return q, true
		}
		for _, q := range t.Info.Members {
			e := m.entities[q]
			if kinds[e.Kind].callable && e.SimpleName == name && sameParams(e.Params, params) {
				return q, true
			}
		}
		return "", false
	}

	if q := memberName(t.Name, name, nil, false); m.entities[q] != nil {
		return q, true
	}
	for _, q := range t.Info.Members {
		if e := m.entities[q]; kinds[e.Kind].callable && e.SimpleName == name {
			return q, true
		}
	}
	if n := nestedType(m, t, name); n != nil {
		return n.Name, true
	}
	return "", false
}
