package doc

import (
	"encoding/json"
	"sort"
)

// DocumentModel maps qualified names to entities. Iteration follows
// insertion order, which is extraction order.
type DocumentModel struct {
	entities map[QualifiedName]*DocEntity
	order    []QualifiedName

	// typesByPackage lists the top-level types of each package in lexical order.
	typesByPackage map[QualifiedName][]QualifiedName
}

func newDocumentModel(capacity int) *DocumentModel {
	return &DocumentModel{
		entities: make(map[QualifiedName]*DocEntity, capacity),
	}
}

func (m *DocumentModel) add(e *DocEntity) error {
	if _, exists := m.entities[e.Name]; exists {
		return duplicate(e.Name)
	}
	m.entities[e.Name] = e
	m.order = append(m.order, e.Name)
	return nil
}

// Lookup returns the entity with the given name.
func (m *DocumentModel) Lookup(q QualifiedName) (*DocEntity, bool) {
	e, ok := m.entities[q]
	return e, ok
}

// Len returns the number of entities.
func (m *DocumentModel) Len() int { return len(m.order) }

// Entities returns all entities in insertion order.
func (m *DocumentModel) Entities() []*DocEntity {
	out := make([]*DocEntity, len(m.order))
	for i, q := range m.order {
		out[i] = m.entities[q]
	}
	return out
}

// Names returns all qualified names in insertion order.
func (m *DocumentModel) Names() []QualifiedName {
	return append([]QualifiedName(nil), m.order...)
}

// TypesIn returns the top-level types of a package in lexical order.
func (m *DocumentModel) TypesIn(pkg QualifiedName) []QualifiedName {
	return m.typesByPackage[pkg]
}

func (m *DocumentModel) typeEntity(q QualifiedName) *DocEntity {
	if e, ok := m.entities[q]; ok && e.Kind == KindType {
		return e
	}
	return nil
}

// buildIndex is called once the entity set is final.
func (m *DocumentModel) buildIndex() {
	m.typesByPackage = make(map[QualifiedName][]QualifiedName)
	for _, q := range m.order {
		e := m.entities[q]
		if e.Kind == KindType && e.Scope == e.Package {
			m.typesByPackage[e.Package] = append(m.typesByPackage[e.Package], q)
		}
	}
	for _, names := range m.typesByPackage {
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	}
}

func (m *DocumentModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entities())
}
