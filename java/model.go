// Package java reads Java API surfaces into a tree model and flattens it into
// doc.Declarations. Models come from Java sources, parsed with tree-sitter,
// or from YAML and JSON descriptions.
package java

import (
	"strings"

	"github.com/dhamidi/doclet/doc"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
	VisibilityPrivate   Visibility = "private"
)

var visibilityRank = map[Visibility]int{
	VisibilityPrivate:   0,
	VisibilityPackage:   1,
	VisibilityProtected: 2,
	VisibilityPublic:    3,
	"":                  1,
}

// AtLeast reports whether v is as visible as min.
func (v Visibility) AtLeast(min Visibility) bool {
	return visibilityRank[v] >= visibilityRank[min]
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// Root is a whole API surface.
type Root struct {
	Packages []*PackageModel `yaml:"packages" json:"packages"`
}

type PackageModel struct {
	Name    string        `yaml:"name" json:"name"`
	Javadoc string        `yaml:"javadoc,omitempty" json:"javadoc,omitempty"`
	Classes []*ClassModel `yaml:"classes,omitempty" json:"classes,omitempty"`
}

type ClassModel struct {
	Name         string        `yaml:"name" json:"name"`
	Kind         ClassKind     `yaml:"kind,omitempty" json:"kind,omitempty"`
	Visibility   Visibility    `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Modifiers    []string      `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	SuperClass   string        `yaml:"superClass,omitempty" json:"superClass,omitempty"`
	Interfaces   []string      `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Imports      []string      `yaml:"imports,omitempty" json:"imports,omitempty"`
	IsDeprecated bool          `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Javadoc      string        `yaml:"javadoc,omitempty" json:"javadoc,omitempty"`
	SourceFile   string        `yaml:"sourceFile,omitempty" json:"sourceFile,omitempty"`
	Line         int           `yaml:"line,omitempty" json:"line,omitempty"`
	Fields       []FieldModel  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Constructors []MethodModel `yaml:"constructors,omitempty" json:"constructors,omitempty"`
	Methods      []MethodModel `yaml:"methods,omitempty" json:"methods,omitempty"`
	Classes      []*ClassModel `yaml:"classes,omitempty" json:"classes,omitempty"`
}

type FieldModel struct {
	Name         string     `yaml:"name" json:"name"`
	Type         string     `yaml:"type,omitempty" json:"type,omitempty"`
	Visibility   Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Modifiers    []string   `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	IsDeprecated bool       `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Javadoc      string     `yaml:"javadoc,omitempty" json:"javadoc,omitempty"`
	Line         int        `yaml:"line,omitempty" json:"line,omitempty"`
}

// MethodModel describes a method or, with an empty ReturnType, a constructor.
type MethodModel struct {
	Name         string           `yaml:"name,omitempty" json:"name,omitempty"`
	ReturnType   string           `yaml:"returnType,omitempty" json:"returnType,omitempty"`
	Parameters   []ParameterModel `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Exceptions   []string         `yaml:"exceptions,omitempty" json:"exceptions,omitempty"`
	Visibility   Visibility       `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Modifiers    []string         `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	IsDeprecated bool             `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Javadoc      string           `yaml:"javadoc,omitempty" json:"javadoc,omitempty"`
	Line         int              `yaml:"line,omitempty" json:"line,omitempty"`
}

type ParameterModel struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`
}

// ParameterTypes returns the declared parameter types in order.
func (m MethodModel) ParameterTypes() []string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}

// Package returns the package with the given name, creating it if needed.
func (r *Root) Package(name string) *PackageModel {
	for _, p := range r.Packages {
		if p.Name == name {
			return p
		}
	}
	p := &PackageModel{Name: name}
	r.Packages = append(r.Packages, p)
	return p
}

// Merge adds the packages of other to r. Packages with the same name are
// combined; the first non-empty package comment wins.
func (r *Root) Merge(other *Root) {
	for _, op := range other.Packages {
		p := r.Package(op.Name)
		if p.Javadoc == "" {
			p.Javadoc = op.Javadoc
		}
		p.Classes = append(p.Classes, op.Classes...)
	}
}

// AddSource adds the declarations of one parsed source file.
func (r *Root) AddSource(sf *SourceFile) {
	p := r.Package(sf.Package)
	if p.Javadoc == "" {
		p.Javadoc = sf.PackageJavadoc
	}
	p.Classes = append(p.Classes, sf.Classes...)
}

// Filter returns a copy of r without types and members less visible than min.
func (r *Root) Filter(min Visibility) *Root {
	out := &Root{}
	for _, p := range r.Packages {
		np := &PackageModel{Name: p.Name, Javadoc: p.Javadoc}
		for _, c := range p.Classes {
			if fc := filterClass(c, min); fc != nil {
				np.Classes = append(np.Classes, fc)
			}
		}
		out.Packages = append(out.Packages, np)
	}
	return out
}

func filterClass(c *ClassModel, min Visibility) *ClassModel {
	if !c.Visibility.AtLeast(min) {
		return nil
	}
	nc := *c
	nc.Fields, nc.Constructors, nc.Methods, nc.Classes = nil, nil, nil, nil
	for _, f := range c.Fields {
		if f.Visibility.AtLeast(min) {
			nc.Fields = append(nc.Fields, f)
		}
	}
	for _, m := range c.Constructors {
		if m.Visibility.AtLeast(min) {
			nc.Constructors = append(nc.Constructors, m)
		}
	}
	for _, m := range c.Methods {
		if m.Visibility.AtLeast(min) {
			nc.Methods = append(nc.Methods, m)
		}
	}
	for _, inner := range c.Classes {
		if fi := filterClass(inner, min); fi != nil {
			nc.Classes = append(nc.Classes, fi)
		}
	}
	return &nc
}

// Declarations flattens r in declaration order: each package, then for each
// class the class itself, its fields, constructors, methods and nested classes.
func (r *Root) Declarations() []doc.Declaration {
	var decls []doc.Declaration
	for _, p := range r.Packages {
		if p.Name != "" {
			decls = append(decls, doc.Declaration{
				Kind:    doc.KindPackage,
				Name:    p.Name,
				Comment: p.Javadoc,
			})
		}
		for _, c := range p.Classes {
			decls = appendClass(decls, p.Name, "", c)
		}
	}
	return decls
}

func appendClass(decls []doc.Declaration, scope, file string, c *ClassModel) []doc.Declaration {
	if c.SourceFile != "" {
		file = c.SourceFile
	}
	kind := c.Kind
	if kind == "" {
		kind = ClassKindClass
	}
	decls = append(decls, doc.Declaration{
		Kind:       doc.KindType,
		Name:       c.Name,
		Scope:      scope,
		TypeKind:   string(kind),
		Supertype:  c.SuperClass,
		Interfaces: c.Interfaces,
		Imports:    c.Imports,
		Modifiers:  modifiers(c.Visibility, c.Modifiers),
		Comment:    c.Javadoc,
		Deprecated: c.IsDeprecated,
		Position:   doc.Position{File: file, Line: c.Line},
	})

	qualified := c.Name
	if scope != "" {
		qualified = scope + "." + c.Name
	}
	for _, f := range c.Fields {
		decls = append(decls, doc.Declaration{
			Kind:       doc.KindField,
			Name:       f.Name,
			Scope:      qualified,
			Type:       f.Type,
			Modifiers:  modifiers(f.Visibility, f.Modifiers),
			Comment:    f.Javadoc,
			Deprecated: f.IsDeprecated,
			Position:   doc.Position{File: file, Line: f.Line},
		})
	}
	for _, m := range c.Constructors {
		decls = append(decls, methodDecl(doc.KindConstructor, c.Name, qualified, file, m))
	}
	for _, m := range c.Methods {
		decls = append(decls, methodDecl(doc.KindMethod, m.Name, qualified, file, m))
	}
	for _, inner := range c.Classes {
		decls = appendClass(decls, qualified, file, inner)
	}
	return decls
}

func methodDecl(kind doc.Kind, name, scope, file string, m MethodModel) doc.Declaration {
	return doc.Declaration{
		Kind:       kind,
		Name:       name,
		Scope:      scope,
		Params:     m.ParameterTypes(),
		Type:       m.ReturnType,
		Modifiers:  modifiers(m.Visibility, m.Modifiers),
		Comment:    m.Javadoc,
		Deprecated: m.IsDeprecated,
		Position:   doc.Position{File: file, Line: m.Line},
	}
}

func modifiers(v Visibility, rest []string) []string {
	var out []string
	if v != "" && v != VisibilityPackage {
		out = append(out, string(v))
	}
	for _, m := range rest {
		if m != string(v) && !strings.HasPrefix(m, "@") {
			out = append(out, m)
		}
	}
	return out
}
