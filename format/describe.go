package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/doclet/doc"
)

// Describe renders the declaration and documentation of a single entity as
// Markdown, linking relative to the output root. Members carry the
// documentation the view merged for them.
func Describe(m *doc.DocumentModel, v *doc.View, q doc.QualifiedName) (string, bool) {
	e, ok := m.Lookup(q)
	if !ok {
		return "", false
	}
	l := NewLinker(m, LayoutType, ".md")
	l = l.At(l.IndexPath())

	var sb strings.Builder
	switch {
	case e.Kind == doc.KindPackage:
		fmt.Fprintf(&sb, "```java\npackage %s\n```\n\n", e.Name)
		writeDoc(&sb, l, e, doc.Documentation{Summary: e.Summary, Body: e.Body, Tags: e.Tags})
	case e.Kind == doc.KindType:
		fmt.Fprintf(&sb, "```java\n%s\n```\n\n", typeDeclaration(e))
		writeDoc(&sb, l, e, doc.Documentation{Summary: e.Summary, Body: e.Body, Tags: e.Tags})
	default:
		fmt.Fprintf(&sb, "```java\n%s\n```\n\n", memberDeclaration(e))
		mv := memberView(v, e)
		owner := e
		if src, ok := m.Lookup(mv.InheritedFrom); ok {
			owner = src
		}
		writeDoc(&sb, l, owner, mv.Doc)
		if mv.InheritedFrom != "" {
			fmt.Fprintf(&sb, "_Description copied from %s._\n", l.Ref(&doc.Reference{
				Text: string(mv.InheritedFrom), State: doc.RefResolved, Target: mv.InheritedFrom,
			}, ""))
		}
	}
	return strings.TrimSpace(sb.String()), true
}

func memberView(v *doc.View, e *doc.DocEntity) *doc.MemberView {
	if v != nil {
		if tv, ok := v.Type(e.Scope); ok {
			for _, mv := range tv.Members() {
				if mv.Entity == e {
					return mv
				}
			}
		}
	}
	return &doc.MemberView{Entity: e, Doc: doc.Documentation{Summary: e.Summary, Body: e.Body, Tags: e.Tags}}
}
