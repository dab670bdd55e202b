package format

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/dhamidi/doclet/doc"
	"github.com/dhamidi/doclet/java/javadoc"
)

// Layout decides how types map to output units.
type Layout string

const (
	// LayoutType writes one unit per type.
	LayoutType Layout = "type"
	// LayoutPackage collapses all types of a package into one unit.
	LayoutPackage Layout = "package"
)

const (
	indexName   = "index"
	packageName = "package-summary"
)

// Linker maps entities to unit paths and anchors and renders cross
// references relative to the unit being written.
type Linker struct {
	model  *doc.DocumentModel
	layout Layout
	ext    string
	from   string
}

func NewLinker(m *doc.DocumentModel, layout Layout, ext string) *Linker {
	return &Linker{model: m, layout: layout, ext: ext}
}

// At returns a linker rendering links relative to the unit at unitPath.
func (l *Linker) At(unitPath string) *Linker {
	c := *l
	c.from = unitPath
	return &c
}

// Layout returns the layout units are rendered for.
func (l *Linker) Layout() Layout { return l.layout }

// Model returns the document model being rendered.
func (l *Linker) Model() *doc.DocumentModel { return l.model }

func packageDir(pkg doc.QualifiedName) string {
	return strings.ReplaceAll(string(pkg), ".", "/")
}

// typeChain is the name of a type relative to its package, e.g. "Map.Entry".
func typeChain(e *doc.DocEntity) string {
	if e.Package == "" {
		return string(e.Name)
	}
	return strings.TrimPrefix(string(e.Name), string(e.Package)+".")
}

// IndexPath is the unit listing every package.
func (l *Linker) IndexPath() string { return indexName + l.ext }

// PackagePath is the unit of a package summary.
func (l *Linker) PackagePath(pkg doc.QualifiedName) string {
	return path.Join(packageDir(pkg), packageName+l.ext)
}

// TypePath is the unit a type is written to.
func (l *Linker) TypePath(t *doc.DocEntity) string {
	if l.layout == LayoutPackage {
		return l.PackagePath(t.Package)
	}
	return path.Join(packageDir(t.Package), typeChain(t)+l.ext)
}

// Anchor returns the fragment identifying e inside its unit, or "" when e
// starts its own unit.
func (l *Linker) Anchor(e *doc.DocEntity) string {
	switch {
	case e.Kind.IsMember():
		return memberAnchor(e.Name.Member())
	case e.Kind == doc.KindType && l.layout == LayoutPackage:
		return typeChain(e)
	}
	return ""
}

// memberAnchor writes a member signature the way classic javadoc anchors
// do: "bar(int,String[])" becomes "bar-int-String:A-".
func memberAnchor(member string) string {
	r := strings.NewReplacer("(", "-", ")", "-", ",", "-", "[]", ":A", " ", "")
	return r.Replace(member)
}

// Href returns the link to target relative to the current unit.
func (l *Linker) Href(target doc.QualifiedName) string {
	e, ok := l.model.Lookup(target)
	if !ok {
		return ""
	}
	var unit string
	switch {
	case e.Kind == doc.KindPackage:
		unit = l.PackagePath(e.Name)
	case e.Kind == doc.KindType:
		unit = l.TypePath(e)
	default:
		owner, ok := l.model.Lookup(e.Scope)
		if !ok {
			return ""
		}
		unit = l.TypePath(owner)
	}
	href := l.relative(unit)
	if anchor := l.Anchor(e); anchor != "" {
		if href == "" {
			return "#" + anchor
		}
		return href + "#" + anchor
	}
	if href == "" {
		return path.Base(unit)
	}
	return href
}

func (l *Linker) relative(unit string) string {
	if unit == l.from {
		return ""
	}
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(l.from)), filepath.FromSlash(unit))
	if err != nil {
		return unit
	}
	return filepath.ToSlash(rel)
}

// Ref renders a reference as a Markdown link when it is resolved and as
// literal code otherwise.
func (l *Linker) Ref(ref *doc.Reference, label string) string {
	if !ref.Resolved() {
		if label != "" {
			return label
		}
		return "`" + ref.Text + "`"
	}
	if label == "" {
		label = "`" + l.displayName(ref.Target) + "`"
	}
	href := l.Href(ref.Target)
	if href == "" {
		return label
	}
	return "[" + label + "](" + href + ")"
}

func (l *Linker) displayName(q doc.QualifiedName) string {
	e, ok := l.model.Lookup(q)
	if !ok {
		return javadoc.ShortReference(string(q))
	}
	switch {
	case e.Kind == doc.KindType:
		return typeChain(e)
	case e.Kind.IsMember():
		return e.Signature()
	}
	return string(e.Name)
}

// TypeRef renders a supertype or interface name, linking it when it is in the model.
func (l *Linker) TypeRef(q doc.QualifiedName) string {
	if _, ok := l.model.Lookup(q); ok {
		return l.Ref(&doc.Reference{Text: string(q), State: doc.RefResolved, Target: q}, "")
	}
	return "`" + string(q) + "`"
}

// Text renders a description fragment written in the documentation of
// owner, linking the inline references owner's entity resolved.
func (l *Linker) Text(owner *doc.DocEntity, text string) string {
	return javadoc.Markdown(text, func(ref, label string) string {
		r := owner.Link(ref)
		if r == nil {
			r = &doc.Reference{Text: ref, State: doc.RefUnresolved}
		}
		return l.Ref(r, label)
	})
}
