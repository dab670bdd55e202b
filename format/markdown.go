package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/doclet/doc"
)

// Markdown renders units as Markdown. Member anchors are written as inline
// HTML so the same text also serves the HTML renderer.
type Markdown struct{}

func (*Markdown) Ext() string { return ".md" }

func (r *Markdown) Type(l *Linker, t *doc.TypeView) ([]byte, error) {
	var sb strings.Builder
	writeType(&sb, l, t, 1)
	return []byte(sb.String()), nil
}

func (r *Markdown) Package(l *Linker, p *doc.PackageView) ([]byte, error) {
	var sb strings.Builder
	name := string(p.Name)
	if name == "" {
		name = "(unnamed package)"
	}
	fmt.Fprintf(&sb, "# Package %s\n\n", name)
	if p.Entity != nil {
		writeDoc(&sb, l, p.Entity, doc.Documentation{Summary: p.Entity.Summary, Body: p.Entity.Body, Tags: p.Entity.Tags})
	}
	if len(p.Types) > 0 {
		sb.WriteString("## Types\n\n")
		sb.WriteString("| Type | Description |\n|---|---|\n")
		for _, t := range p.Types {
			fmt.Fprintf(&sb, "| %s | %s |\n", l.TypeRef(t.Entity.Name), tableCell(l.Text(t.Entity, t.Entity.Summary)))
		}
		sb.WriteString("\n")
	}
	if l.Layout() == LayoutPackage {
		for _, t := range p.Types {
			writeType(&sb, l, t, 2)
		}
	}
	return []byte(sb.String()), nil
}

func (r *Markdown) Index(l *Linker, v *doc.View) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# API Documentation\n\n")
	sb.WriteString("| Package | Description |\n|---|---|\n")
	for _, p := range v.Packages {
		name := string(p.Name)
		if name == "" {
			name = "(unnamed package)"
		}
		summary := ""
		if p.Entity != nil {
			summary = tableCell(l.Text(p.Entity, p.Entity.Summary))
		}
		fmt.Fprintf(&sb, "| [%s](%s) | %s |\n", name, l.relative(l.PackagePath(p.Name)), summary)
	}
	return []byte(sb.String()), nil
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func heading(level int) string {
	return strings.Repeat("#", level) + " "
}

func anchor(sb *strings.Builder, id string) {
	if id != "" {
		fmt.Fprintf(sb, "<a id=\"%s\"></a>\n\n", id)
	}
}

var kindTitles = map[string]string{
	"class":      "Class",
	"interface":  "Interface",
	"enum":       "Enum",
	"record":     "Record",
	"annotation": "Annotation",
}

func writeType(sb *strings.Builder, l *Linker, t *doc.TypeView, level int) {
	e := t.Entity
	anchor(sb, l.Anchor(e))
	title := kindTitles[e.Info.Kind]
	if title == "" {
		title = "Type"
	}
	fmt.Fprintf(sb, "%s%s %s\n\n", heading(level), title, typeChain(e))
	fmt.Fprintf(sb, "```java\n%s\n```\n\n", typeDeclaration(e))

	if e.Package != "" {
		fmt.Fprintf(sb, "Package: %s\n\n", l.Ref(&doc.Reference{Text: string(e.Package), State: stateOf(l, e.Package), Target: e.Package}, ""))
	}
	if len(e.Info.Ancestors) > 0 {
		refs := make([]string, len(e.Info.Ancestors))
		for i, a := range e.Info.Ancestors {
			refs[i] = l.TypeRef(a)
		}
		fmt.Fprintf(sb, "All supertypes: %s\n\n", strings.Join(refs, ", "))
	}
	writeDoc(sb, l, e, doc.Documentation{Summary: e.Summary, Body: e.Body, Tags: e.Tags})

	if len(e.Info.Nested) > 0 {
		fmt.Fprintf(sb, "%sNested types\n\n", heading(level+1))
		for _, q := range e.Info.Nested {
			fmt.Fprintf(sb, "- %s\n", l.TypeRef(q))
		}
		sb.WriteString("\n")
	}
	writeGroup(sb, l, "Constructors", t.Constructors, level+1)
	writeGroup(sb, l, "Fields", t.Fields, level+1)
	writeGroup(sb, l, "Methods", t.Methods, level+1)
}

func stateOf(l *Linker, q doc.QualifiedName) doc.RefState {
	if _, ok := l.Model().Lookup(q); ok {
		return doc.RefResolved
	}
	return doc.RefUnresolved
}

func typeDeclaration(e *doc.DocEntity) string {
	parts := append([]string{}, e.Modifiers...)
	kind := e.Info.Kind
	if kind == "annotation" {
		kind = "@interface"
	}
	parts = append(parts, kind, e.SimpleName)
	if e.Info.Supertype != "" {
		parts = append(parts, "extends", string(e.Info.Supertype))
	}
	if len(e.Info.Interfaces) > 0 {
		keyword := "implements"
		if e.Info.Kind == "interface" {
			keyword = "extends"
		}
		names := make([]string, len(e.Info.Interfaces))
		for i, iface := range e.Info.Interfaces {
			names[i] = string(iface)
		}
		parts = append(parts, keyword, strings.Join(names, ", "))
	}
	return strings.Join(parts, " ")
}

func memberDeclaration(e *doc.DocEntity) string {
	parts := append([]string{}, e.Modifiers...)
	if e.Kind != doc.KindConstructor && e.Type != "" {
		parts = append(parts, e.Type)
	}
	parts = append(parts, e.Signature())
	return strings.Join(parts, " ")
}

func writeGroup(sb *strings.Builder, l *Linker, title string, members []*doc.MemberView, level int) {
	if len(members) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s%s\n\n", heading(level), title)
	for _, mv := range members {
		e := mv.Entity
		anchor(sb, l.Anchor(e))
		fmt.Fprintf(sb, "%s%s\n\n", heading(level+1), e.Signature())
		fmt.Fprintf(sb, "```java\n%s\n```\n\n", memberDeclaration(e))

		owner := e
		if mv.InheritedFrom != "" {
			if src, ok := l.Model().Lookup(mv.InheritedFrom); ok {
				owner = src
			}
		}
		if e.Deprecated && !owner.Deprecated {
			sb.WriteString("**Deprecated.**\n\n")
		}
		writeDoc(sb, l, owner, mv.Doc)
		if mv.InheritedFrom != "" {
			fmt.Fprintf(sb, "_Description copied from %s._\n\n", l.Ref(&doc.Reference{
				Text: string(mv.InheritedFrom), State: doc.RefResolved, Target: mv.InheritedFrom,
			}, "`"+typeChain(typeOf(l, owner))+"."+owner.Signature()+"`"))
		}
	}
}

func typeOf(l *Linker, member *doc.DocEntity) *doc.DocEntity {
	if t, ok := l.Model().Lookup(member.Scope); ok {
		return t
	}
	return member
}

var tagTitles = []struct {
	kind  doc.TagKind
	title string
}{
	{doc.TagParam, "Parameters"},
	{doc.TagReturn, "Returns"},
	{doc.TagThrows, "Throws"},
	{doc.TagSince, "Since"},
	{doc.TagAuthor, "Author"},
	{doc.TagSee, "See also"},
}

// writeDoc writes a description and its tags. The references in d were
// resolved in the documentation of owner.
func writeDoc(sb *strings.Builder, l *Linker, owner *doc.DocEntity, d doc.Documentation) {
	for _, t := range d.Tags {
		if t.Kind == doc.TagDeprecated {
			fmt.Fprintf(sb, "**Deprecated.** %s\n\n", l.Text(owner, t.Text))
			break
		}
	}
	if owner.Deprecated && !hasTag(d.Tags, doc.TagDeprecated) {
		sb.WriteString("**Deprecated.**\n\n")
	}
	if s := l.Text(owner, d.Summary); s != "" {
		sb.WriteString(s + "\n\n")
	}
	if b := l.Text(owner, d.Body); b != "" {
		sb.WriteString(b + "\n\n")
	}

	for _, tt := range tagTitles {
		var items []string
		for _, t := range d.Tags {
			if t.Kind != tt.kind {
				continue
			}
			items = append(items, tagItem(l, owner, t))
		}
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(sb, "**%s:**\n\n", tt.title)
		for _, item := range items {
			fmt.Fprintf(sb, "- %s\n", item)
		}
		sb.WriteString("\n")
	}
}

func hasTag(tags []doc.Tag, kind doc.TagKind) bool {
	for _, t := range tags {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

func tagItem(l *Linker, owner *doc.DocEntity, t doc.Tag) string {
	text := l.Text(owner, t.Text)
	switch {
	case t.Ref != nil:
		if text == "" {
			return l.Ref(t.Ref, "")
		}
		if t.Kind == doc.TagSee {
			return l.Ref(t.Ref, text)
		}
		return l.Ref(t.Ref, "") + " " + text
	case t.Kind == doc.TagParam:
		return strings.TrimSpace("`" + t.Name + "` " + text)
	case t.Kind == doc.TagSee:
		return l.Text(owner, t.Text)
	}
	return text
}
