package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/doclet/doc"
)

// JSON renders units as indented JSON documents. Descriptions are rendered
// to Markdown; references carry their resolution and a relative href.
type JSON struct{}

func (*JSON) Ext() string { return ".json" }

type jsonRef struct {
	Text   string `json:"text"`
	State  string `json:"state"`
	Target string `json:"target,omitempty"`
	Href   string `json:"href,omitempty"`
}

type jsonTag struct {
	Kind string   `json:"kind"`
	Name string   `json:"name,omitempty"`
	Text string   `json:"text,omitempty"`
	Ref  *jsonRef `json:"ref,omitempty"`
}

type jsonMember struct {
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Signature     string    `json:"signature"`
	Anchor        string    `json:"anchor"`
	Type          string    `json:"type,omitempty"`
	Modifiers     []string  `json:"modifiers,omitempty"`
	Deprecated    bool      `json:"deprecated,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	Body          string    `json:"body,omitempty"`
	Tags          []jsonTag `json:"tags,omitempty"`
	InheritedFrom string    `json:"inheritedFrom,omitempty"`
}

type jsonType struct {
	Name         string       `json:"name"`
	Kind         string       `json:"kind"`
	Package      string       `json:"package"`
	Modifiers    []string     `json:"modifiers,omitempty"`
	Deprecated   bool         `json:"deprecated,omitempty"`
	Supertype    *jsonRef     `json:"supertype,omitempty"`
	Interfaces   []jsonRef    `json:"interfaces,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Body         string       `json:"body,omitempty"`
	Tags         []jsonTag    `json:"tags,omitempty"`
	Nested       []jsonRef    `json:"nested,omitempty"`
	Constructors []jsonMember `json:"constructors,omitempty"`
	Fields       []jsonMember `json:"fields,omitempty"`
	Methods      []jsonMember `json:"methods,omitempty"`
}

type jsonPackage struct {
	Name    string     `json:"name"`
	Summary string     `json:"summary,omitempty"`
	Body    string     `json:"body,omitempty"`
	Types   []jsonRef  `json:"types"`
	Details []jsonType `json:"details,omitempty"`
}

func (r *JSON) Type(l *Linker, t *doc.TypeView) ([]byte, error) {
	return json.MarshalIndent(buildType(l, t), "", "  ")
}

func (r *JSON) Package(l *Linker, p *doc.PackageView) ([]byte, error) {
	data := jsonPackage{Name: string(p.Name), Types: []jsonRef{}}
	if p.Entity != nil {
		data.Summary = l.Text(p.Entity, p.Entity.Summary)
		data.Body = l.Text(p.Entity, p.Entity.Body)
	}
	for _, t := range p.Types {
		data.Types = append(data.Types, typeRef(l, t.Entity.Name))
		if l.Layout() == LayoutPackage {
			data.Details = append(data.Details, buildType(l, t))
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

func (r *JSON) Index(l *Linker, v *doc.View) ([]byte, error) {
	pkgs := []jsonRef{}
	for _, p := range v.Packages {
		pkgs = append(pkgs, jsonRef{
			Text:  string(p.Name),
			State: doc.RefResolved.String(),
			Href:  l.relative(l.PackagePath(p.Name)),
		})
	}
	return json.MarshalIndent(map[string]any{"packages": pkgs}, "", "  ")
}

func ref(l *Linker, r *doc.Reference) *jsonRef {
	if r == nil {
		return nil
	}
	out := &jsonRef{Text: r.Text, State: r.State.String()}
	if r.Resolved() {
		out.Target = string(r.Target)
		out.Href = l.Href(r.Target)
	}
	return out
}

func typeRef(l *Linker, q doc.QualifiedName) jsonRef {
	state := doc.RefUnresolved
	if _, ok := l.Model().Lookup(q); ok {
		state = doc.RefResolved
	}
	return *ref(l, &doc.Reference{Text: string(q), State: state, Target: q})
}

func tags(l *Linker, owner *doc.DocEntity, in []doc.Tag) []jsonTag {
	var out []jsonTag
	for _, t := range in {
		out = append(out, jsonTag{
			Kind: string(t.Kind),
			Name: t.Name,
			Text: l.Text(owner, t.Text),
			Ref:  ref(l, t.Ref),
		})
	}
	return out
}

func buildType(l *Linker, t *doc.TypeView) jsonType {
	e := t.Entity
	data := jsonType{
		Name:       string(e.Name),
		Kind:       e.Info.Kind,
		Package:    string(e.Package),
		Modifiers:  e.Modifiers,
		Deprecated: e.Deprecated,
		Summary:    l.Text(e, e.Summary),
		Body:       l.Text(e, e.Body),
		Tags:       tags(l, e, e.Tags),
	}
	if e.Info.Supertype != "" {
		sup := typeRef(l, e.Info.Supertype)
		data.Supertype = &sup
	}
	for _, iface := range e.Info.Interfaces {
		data.Interfaces = append(data.Interfaces, typeRef(l, iface))
	}
	for _, q := range e.Info.Nested {
		data.Nested = append(data.Nested, typeRef(l, q))
	}
	data.Constructors = members(l, t.Constructors)
	data.Fields = members(l, t.Fields)
	data.Methods = members(l, t.Methods)
	return data
}

func members(l *Linker, in []*doc.MemberView) []jsonMember {
	var out []jsonMember
	for _, mv := range in {
		e := mv.Entity
		owner := e
		if src, ok := l.Model().Lookup(mv.InheritedFrom); ok {
			owner = src
		}
		out = append(out, jsonMember{
			Name:          string(e.Name),
			Kind:          e.Kind.String(),
			Signature:     e.Signature(),
			Anchor:        l.Anchor(e),
			Type:          e.Type,
			Modifiers:     e.Modifiers,
			Deprecated:    e.Deprecated,
			Summary:       l.Text(owner, mv.Doc.Summary),
			Body:          l.Text(owner, mv.Doc.Body),
			Tags:          tags(l, owner, mv.Doc.Tags),
			InheritedFrom: string(mv.InheritedFrom),
		})
	}
	return out
}

// JSONEncoder writes a whole document model as JSON.
type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(m *doc.DocumentModel) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(data, '\n'))
	return err
}
