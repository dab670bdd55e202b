package doc

import (
	"strings"

	"github.com/dhamidi/doclet/java/javadoc"
	"golang.org/x/sync/errgroup"
)

// Extract walks api once and builds the DocumentModel. Declarations are
// partitioned by package; with run.Workers > 1 partitions are filled
// concurrently and merged in order of first appearance.
func Extract(run *Run, api APIModel) (*DocumentModel, error) {
	run = orDefault(run)
	decls := api.Declarations()
	scopes, err := identifyScopes(decls)
	if err != nil {
		return nil, err
	}

	parts := partitionByPackage(decls, scopes)
	var g errgroup.Group
	g.SetLimit(max(1, run.Workers))
	for _, p := range parts {
		g.Go(p.fill)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := newDocumentModel(len(decls))
	for _, p := range parts {
		for _, e := range p.entities {
			if err := m.add(e); err != nil {
				return nil, err
			}
		}
	}

	link(m)
	m.buildIndex()
	run.Log.Debugf("run %s: extracted %d entities from %d partitions", run.ID, m.Len(), len(parts))
	return m, nil
}

// declScope is the identified enclosing scope and package of a declaration.
type declScope struct {
	scope QualifiedName
	pkg   QualifiedName
}

// identifyScopes checks that every declaration names a known enclosing scope
// and finds the package each one belongs to.
func identifyScopes(decls []Declaration) ([]declScope, error) {
	packages := make(map[QualifiedName]bool)
	typeScope := make(map[QualifiedName]QualifiedName)
	for i := range decls {
		d := &decls[i]
		if !d.Kind.valid() {
			return nil, malformed("%s %q", d.Kind, d.Name)
		}
		if d.Name == "" {
			return nil, malformed("%s with empty name in %q", d.Kind, d.Scope)
		}
		switch d.Kind {
		case KindPackage:
			packages[QualifiedName(d.Name)] = true
		case KindType:
			typeScope[typeName(QualifiedName(d.Scope), d.Name)] = QualifiedName(d.Scope)
		}
	}

	// packageOf follows enclosing types up to their package.
	packageOf := func(scope QualifiedName) (QualifiedName, bool) {
		for steps := 0; steps <= len(typeScope); steps++ {
			if scope == "" || packages[scope] {
				return scope, true
			}
			next, ok := typeScope[scope]
			if !ok {
				return "", false
			}
			scope = next
		}
		return "", false
	}

	out := make([]declScope, len(decls))
	for i := range decls {
		d := &decls[i]
		scope := QualifiedName(d.Scope)
		switch d.Kind {
		case KindPackage:
			out[i] = declScope{pkg: QualifiedName(d.Name)}
			continue
		case KindType:
			if _, isType := typeScope[scope]; scope != "" && !packages[scope] && !isType {
				return nil, malformed("type %s: enclosing scope %q is not declared", d.Name, d.Scope)
			}
		default:
			if _, isType := typeScope[scope]; !isType {
				return nil, malformed("%s %s: enclosing type %q is not declared", d.Kind, d.Name, d.Scope)
			}
		}
		pkg, ok := packageOf(scope)
		if !ok {
			return nil, malformed("%s %s: no package encloses %q", d.Kind, d.Name, d.Scope)
		}
		out[i] = declScope{scope: scope, pkg: pkg}
	}
	return out, nil
}

// partition is the private output of one extraction worker.
type partition struct {
	pkg      QualifiedName
	decls    []*Declaration
	scopes   []declScope
	entities []*DocEntity
}

func partitionByPackage(decls []Declaration, scopes []declScope) []*partition {
	var parts []*partition
	byPkg := make(map[QualifiedName]*partition)
	for i := range decls {
		pkg := scopes[i].pkg
		p, ok := byPkg[pkg]
		if !ok {
			p = &partition{pkg: pkg}
			byPkg[pkg] = p
			parts = append(parts, p)
		}
		p.decls = append(p.decls, &decls[i])
		p.scopes = append(p.scopes, scopes[i])
	}
	return parts
}

func (p *partition) fill() error {
	seen := make(map[QualifiedName]bool, len(p.decls))
	order := make(map[QualifiedName]int)
	p.entities = make([]*DocEntity, 0, len(p.decls))
	for i, d := range p.decls {
		e := newEntity(d, p.scopes[i])
		if seen[e.Name] {
			return duplicate(e.Name)
		}
		seen[e.Name] = true
		e.Order = order[e.Scope]
		order[e.Scope]++
		p.entities = append(p.entities, e)
	}
	return nil
}

func newEntity(d *Declaration, s declScope) *DocEntity {
	e := &DocEntity{
		Name:       kinds[d.Kind].qualify(s.scope, d),
		Kind:       d.Kind,
		SimpleName: d.Name,
		Scope:      s.scope,
		Package:    s.pkg,
		Type:       d.Type,
		Modifiers:  d.Modifiers,
		Deprecated: d.Deprecated,
		Position:   d.Position,
	}
	if kinds[d.Kind].callable {
		e.Params = make([]string, len(d.Params))
		copy(e.Params, d.Params)
	}

	summary, body, tags := d.Summary, d.Body, d.Tags
	if summary == "" && body == "" && len(tags) == 0 && d.Comment != "" {
		c := javadoc.Split(d.Comment)
		summary, body = c.Summary, c.Body
		tags = make([]TagDecl, len(c.Tags))
		for i, t := range c.Tags {
			tags[i] = TagDecl{Name: t.Name, Text: t.Text}
		}
	}
	e.Summary, e.Body = summary, body
	for _, t := range tags {
		tag := newTag(t.Name, t.Text)
		if tag.Kind == TagDeprecated {
			e.Deprecated = true
		}
		e.Tags = append(e.Tags, tag)
	}
	e.Links = collectLinks(e)

	if d.Kind == KindType {
		e.Info = &TypeInfo{
			Kind:    d.TypeKind,
			Imports: d.Imports,
		}
		if e.Info.Kind == "" {
			e.Info.Kind = "class"
		}
		if d.Supertype != "" {
			e.Info.Supertype = QualifiedName(EraseType(d.Supertype))
		}
		for _, iface := range d.Interfaces {
			e.Info.Interfaces = append(e.Info.Interfaces, QualifiedName(EraseType(iface)))
		}
	}
	return e
}

func newTag(name, text string) Tag {
	text = strings.TrimSpace(text)
	t := Tag{Kind: tagKind(name), Text: text}
	switch t.Kind {
	case TagParam:
		t.Name, t.Text = cutWord(text)
	case TagThrows:
		ref, rest := javadoc.SplitReference(text)
		t.Name, t.Text = ref, rest
		if ref != "" {
			t.Ref = &Reference{Text: ref}
		}
	case TagSee:
		if text == "" || text[0] == '"' || text[0] == '<' {
			break
		}
		ref, rest := javadoc.SplitReference(text)
		t.Text = rest
		t.Ref = &Reference{Text: ref}
	case TagOther:
		t.Name = name
	}
	return t
}

func cutWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}

// collectLinks gathers inline link targets from the summary, body and tag
// texts, each target once.
func collectLinks(e *DocEntity) []*Reference {
	var links []*Reference
	seen := make(map[string]bool)
	add := func(text string) {
		for _, ref := range javadoc.Links(text) {
			if !seen[ref] {
				seen[ref] = true
				links = append(links, &Reference{Text: ref})
			}
		}
	}
	add(e.Summary)
	add(e.Body)
	for _, t := range e.Tags {
		add(t.Text)
	}
	return links
}

// link connects members and nested types to their types and computes the
// type hierarchy once the entity set is final.
func link(m *DocumentModel) {
	var types []*DocEntity
	for _, e := range m.Entities() {
		switch {
		case e.Kind.IsMember():
			owner := m.typeEntity(e.Scope)
			owner.Info.Members = append(owner.Info.Members, e.Name)
		case e.Kind == KindType:
			types = append(types, e)
			if owner := m.typeEntity(e.Scope); owner != nil {
				owner.Info.Nested = append(owner.Info.Nested, e.Name)
			}
		}
	}

	for _, t := range types {
		if len(t.Info.Imports) == 0 {
			t.Info.Imports = inheritedImports(m, t)
		}
	}
	for _, t := range types {
		if t.Info.Supertype != "" {
			t.Info.Supertype = qualifyType(m, t, string(t.Info.Supertype))
		}
		for i, iface := range t.Info.Interfaces {
			t.Info.Interfaces[i] = qualifyType(m, t, string(iface))
		}
	}
	for _, t := range types {
		t.Info.Ancestors = ancestors(m, t)
	}
}

// inheritedImports returns the imports of the outermost enclosing type.
func inheritedImports(m *DocumentModel, t *DocEntity) []string {
	for owner := m.typeEntity(t.Scope); owner != nil; owner = m.typeEntity(owner.Scope) {
		if len(owner.Info.Imports) > 0 {
			return owner.Info.Imports
		}
	}
	return nil
}

// qualifyType finds the type a name written inside t refers to. Names that
// match nothing in the model are returned as written.
func qualifyType(m *DocumentModel, t *DocEntity, name string) QualifiedName {
	if m.typeEntity(QualifiedName(name)) != nil {
		return QualifiedName(name)
	}
	for scope := t.Scope; m.typeEntity(scope) != nil; scope = m.typeEntity(scope).Scope {
		if q := typeName(scope, name); m.typeEntity(q) != nil {
			return q
		}
	}
	if q := typeName(t.Package, name); m.typeEntity(q) != nil {
		return q
	}
	if q, ok := importedType(m, t, name); ok {
		return q
	}
	return QualifiedName(name)
}

// importedType looks name up through t's single-type imports, then its
// on-demand imports.
func importedType(m *DocumentModel, t *DocEntity, name string) (QualifiedName, bool) {
	if t.Info == nil {
		return "", false
	}
	head, rest := firstSegment(name)
	for _, imp := range t.Info.Imports {
		if strings.HasSuffix(imp, ".*") {
			continue
		}
		if imp == head || strings.HasSuffix(imp, "."+head) {
			if q := QualifiedName(imp + rest); m.typeEntity(q) != nil {
				return q, true
			}
		}
	}
	for _, imp := range t.Info.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if q := typeName(QualifiedName(pkg), name); m.typeEntity(q) != nil {
				return q, true
			}
		}
	}
	return "", false
}

// ancestors lists the superclass chain nearest first, followed by the
// implemented interfaces breadth first. Only types in the model appear.
func ancestors(m *DocumentModel, t *DocEntity) []QualifiedName {
	seen := map[QualifiedName]bool{t.Name: true}
	var out []QualifiedName

	chain := []*DocEntity{t}
	for cur := t; ; {
		sup := m.typeEntity(cur.Info.Supertype)
		if sup == nil || seen[sup.Name] {
			break
		}
		seen[sup.Name] = true
		out = append(out, sup.Name)
		chain = append(chain, sup)
		cur = sup
	}

	var queue []QualifiedName
	for _, c := range chain {
		queue = append(queue, c.Info.Interfaces...)
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		iface := m.typeEntity(q)
		if iface == nil || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		queue = append(queue, iface.Info.Interfaces...)
		if iface.Info.Supertype != "" {
			queue = append(queue, iface.Info.Supertype)
		}
	}
	return out
}
