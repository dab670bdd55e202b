package java

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	tsjava "github.com/smacker/go-tree-sitter/java"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("doclet.java")

// SourceFile is what one compilation unit declares.
type SourceFile struct {
	Path           string
	Package        string
	PackageJavadoc string
	Imports        []string
	Classes        []*ClassModel
}

// NewSourceParser returns a tree-sitter parser for Java. Parsers are not
// safe for concurrent use; each goroutine needs its own.
func NewSourceParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsjava.GetLanguage())
	return p
}

// ParseSource parses one compilation unit. Syntax errors are logged and the
// declarations that could be recovered are returned.
func ParseSource(ctx context.Context, parser *sitter.Parser, source []byte, path string) (*SourceFile, error) {
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		log.Warningf("%s: syntax errors, declarations may be incomplete", path)
	}

	b := &sourceBuilder{source: source, file: &SourceFile{Path: path}}
	b.compilationUnit(root)
	return b.file, nil
}

// ClassModelsFromSource parses source and returns its top-level classes.
func ClassModelsFromSource(source []byte) ([]*ClassModel, error) {
	parser := NewSourceParser()
	defer parser.Close()
	sf, err := ParseSource(context.Background(), parser, source, "")
	if err != nil {
		return nil, err
	}
	return sf.Classes, nil
}

type sourceBuilder struct {
	source []byte
	file   *SourceFile
}

func (b *sourceBuilder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.source)
}

func line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

func isDocComment(n *sitter.Node, source []byte) bool {
	switch n.Type() {
	case "block_comment", "comment":
		return strings.HasPrefix(n.Content(source), "/**")
	}
	return false
}

func isComment(n *sitter.Node) bool {
	switch n.Type() {
	case "block_comment", "line_comment", "comment":
		return true
	}
	return false
}

// eachDeclaration calls fn for every named non-comment child of n together
// with the doc comment directly preceding it.
func (b *sourceBuilder) eachDeclaration(n *sitter.Node, fn func(decl *sitter.Node, javadoc string)) {
	if n == nil {
		return
	}
	pending := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isComment(child) {
			if isDocComment(child, b.source) {
				pending = b.text(child)
			}
			continue
		}
		fn(child, pending)
		pending = ""
	}
}

func (b *sourceBuilder) compilationUnit(root *sitter.Node) {
	b.eachDeclaration(root, func(n *sitter.Node, javadoc string) {
		switch n.Type() {
		case "package_declaration":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				if c := n.NamedChild(i); c.Type() == "scoped_identifier" || c.Type() == "identifier" {
					b.file.Package = b.text(c)
				}
			}
			b.file.PackageJavadoc = javadoc
		case "import_declaration":
			b.file.Imports = append(b.file.Imports, importName(b.text(n)))
		default:
			if c := b.typeDeclaration(n, javadoc, VisibilityPackage); c != nil {
				c.Imports = b.file.Imports
				c.SourceFile = b.file.Path
				b.file.Classes = append(b.file.Classes, c)
			}
		}
	})
}

// importName turns "import static a.b.C.*;" into "a.b.C.*".
func importName(decl string) string {
	s := strings.TrimSpace(decl)
	s = strings.TrimPrefix(s, "import")
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "static ")
	return strings.Join(strings.Fields(s), "")
}

var classKinds = map[string]ClassKind{
	"class_declaration":           ClassKindClass,
	"interface_declaration":       ClassKindInterface,
	"enum_declaration":            ClassKindEnum,
	"record_declaration":          ClassKindRecord,
	"annotation_type_declaration": ClassKindAnnotation,
}

// typeDeclaration builds a class model, or returns nil if n declares no type.
// defaultVisibility applies when no access modifier is written.
func (b *sourceBuilder) typeDeclaration(n *sitter.Node, javadoc string, defaultVisibility Visibility) *ClassModel {
	kind, ok := classKinds[n.Type()]
	if !ok {
		return nil
	}
	c := &ClassModel{
		Name:    b.text(n.ChildByFieldName("name")),
		Kind:    kind,
		Javadoc: javadoc,
		Line:    line(n),
	}
	mods := b.modifiers(n)
	c.Visibility, c.Modifiers, c.IsDeprecated = mods.visibility(defaultVisibility), mods.keywords, mods.deprecated

	if sup := n.ChildByFieldName("superclass"); sup != nil && sup.NamedChildCount() > 0 {
		c.SuperClass = b.text(sup.NamedChild(0))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch child := n.NamedChild(i); child.Type() {
		case "super_interfaces", "extends_interfaces":
			c.Interfaces = append(c.Interfaces, b.typeList(child)...)
		}
	}

	memberVisibility := VisibilityPackage
	if kind == ClassKindInterface || kind == ClassKindAnnotation {
		memberVisibility = VisibilityPublic
	}
	if kind == ClassKindRecord {
		b.recordComponents(c, n.ChildByFieldName("parameters"))
	}

	body := n.ChildByFieldName("body")
	if kind == ClassKindEnum && body != nil {
		b.eachDeclaration(body, func(child *sitter.Node, javadoc string) {
			switch child.Type() {
			case "enum_constant":
				f := FieldModel{
					Name:       b.text(child.ChildByFieldName("name")),
					Type:       c.Name,
					Visibility: VisibilityPublic,
					Modifiers:  []string{"static", "final"},
					Javadoc:    javadoc,
					Line:       line(child),
				}
				m := b.modifiers(child)
				f.IsDeprecated = m.deprecated
				c.Fields = append(c.Fields, f)
			case "enum_body_declarations":
				b.members(c, child, memberVisibility)
			}
		})
		return c
	}
	b.members(c, body, memberVisibility)
	return c
}

func (b *sourceBuilder) typeList(n *sitter.Node) []string {
	var types []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "type_list" {
			return b.typeList(child)
		}
		types = append(types, b.text(child))
	}
	return types
}

func (b *sourceBuilder) members(c *ClassModel, body *sitter.Node, defaultVisibility Visibility) {
	b.eachDeclaration(body, func(n *sitter.Node, javadoc string) {
		switch n.Type() {
		case "field_declaration", "constant_declaration":
			mods := b.modifiers(n)
			typ := b.text(n.ChildByFieldName("type"))
			for i := 0; i < int(n.NamedChildCount()); i++ {
				d := n.NamedChild(i)
				if d.Type() != "variable_declarator" {
					continue
				}
				c.Fields = append(c.Fields, FieldModel{
					Name:         b.text(d.ChildByFieldName("name")),
					Type:         typ,
					Visibility:   mods.visibility(defaultVisibility),
					Modifiers:    mods.keywords,
					IsDeprecated: mods.deprecated,
					Javadoc:      javadoc,
					Line:         line(d),
				})
			}
		case "method_declaration", "annotation_type_element_declaration":
			m := b.method(n, javadoc, defaultVisibility)
			m.ReturnType = b.text(n.ChildByFieldName("type"))
			if dims := n.ChildByFieldName("dimensions"); dims != nil {
				m.ReturnType += strings.Join(strings.Fields(b.text(dims)), "")
			}
			c.Methods = append(c.Methods, m)
		case "constructor_declaration", "compact_constructor_declaration":
			m := b.method(n, javadoc, defaultVisibility)
			m.Name = c.Name
			if n.Type() == "compact_constructor_declaration" {
				m.Parameters = recordParameters(c)
			}
			c.Constructors = append(c.Constructors, m)
		default:
			if inner := b.typeDeclaration(n, javadoc, defaultVisibility); inner != nil {
				c.Classes = append(c.Classes, inner)
			}
		}
	})
}

func (b *sourceBuilder) method(n *sitter.Node, javadoc string, defaultVisibility Visibility) MethodModel {
	mods := b.modifiers(n)
	m := MethodModel{
		Name:         b.text(n.ChildByFieldName("name")),
		Visibility:   mods.visibility(defaultVisibility),
		Modifiers:    mods.keywords,
		IsDeprecated: mods.deprecated,
		Javadoc:      javadoc,
		Line:         line(n),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.Parameters = b.parameters(params)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "throws" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				m.Exceptions = append(m.Exceptions, b.text(child.NamedChild(j)))
			}
		}
	}
	return m
}

func (b *sourceBuilder) parameters(n *sitter.Node) []ParameterModel {
	params := []ParameterModel{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			typ := b.text(p.ChildByFieldName("type"))
			if dims := p.ChildByFieldName("dimensions"); dims != nil {
				typ += strings.Join(strings.Fields(b.text(dims)), "")
			}
			params = append(params, ParameterModel{Name: b.text(p.ChildByFieldName("name")), Type: typ})
		case "spread_parameter":
			var param ParameterModel
			for j := 0; j < int(p.NamedChildCount()); j++ {
				switch child := p.NamedChild(j); child.Type() {
				case "modifiers":
				case "variable_declarator":
					param.Name = b.text(child.ChildByFieldName("name"))
				default:
					if param.Type == "" {
						param.Type = b.text(child) + "..."
					}
				}
			}
			params = append(params, param)
		}
	}
	return params
}

func (b *sourceBuilder) recordComponents(c *ClassModel, params *sitter.Node) {
	if params == nil {
		return
	}
	components := b.parameters(params)
	for _, p := range components {
		c.Fields = append(c.Fields, FieldModel{
			Name:       p.Name,
			Type:       p.Type,
			Visibility: VisibilityPrivate,
			Modifiers:  []string{"final"},
			Line:       line(params),
		})
		c.Methods = append(c.Methods, MethodModel{
			Name:       p.Name,
			ReturnType: p.Type,
			Parameters: []ParameterModel{},
			Visibility: VisibilityPublic,
			Line:       line(params),
		})
	}
}

// recordParameters returns the canonical constructor parameters of a record.
func recordParameters(c *ClassModel) []ParameterModel {
	params := []ParameterModel{}
	for _, f := range c.Fields {
		if f.Visibility == VisibilityPrivate {
			params = append(params, ParameterModel{Name: f.Name, Type: f.Type})
		}
	}
	return params
}

type modifierSet struct {
	keywords   []string
	deprecated bool
}

func (m modifierSet) visibility(def Visibility) Visibility {
	for _, k := range m.keywords {
		switch k {
		case "public":
			return VisibilityPublic
		case "protected":
			return VisibilityProtected
		case "private":
			return VisibilityPrivate
		}
	}
	return def
}

// modifiers reads the modifiers child of a declaration. Annotations are not
// kept, except that @Deprecated marks the declaration deprecated.
func (b *sourceBuilder) modifiers(n *sitter.Node) modifierSet {
	var set modifierSet
	var mods *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "modifiers" {
			mods = child
			break
		}
	}
	if mods == nil {
		return set
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		child := mods.Child(i)
		switch child.Type() {
		case "marker_annotation", "annotation":
			name := b.text(child.ChildByFieldName("name"))
			if name == "Deprecated" || name == "java.lang.Deprecated" {
				set.deprecated = true
			}
		default:
			if !child.IsNamed() {
				set.keywords = append(set.keywords, b.text(child))
			}
		}
	}
	return set
}
