package doc

import (
	"fmt"
	"strings"
)

// Kind is the closed set of documentable declaration shapes.
type Kind int

const (
	KindPackage Kind = iota
	KindType
	KindField
	KindConstructor
	KindMethod
)

// Group is the emission group of a member. Groups are emitted in this order.
type Group int

const (
	GroupNone Group = iota
	GroupConstructors
	GroupFields
	GroupMethods
)

type kindInfo struct {
	name     string
	group    Group
	callable bool
	// qualify builds the entity name from its enclosing scope.
	qualify func(scope QualifiedName, d *Declaration) QualifiedName
}

var kinds = [...]kindInfo{
	KindPackage: {
		name:    "package",
		qualify: func(_ QualifiedName, d *Declaration) QualifiedName { return QualifiedName(d.Name) },
	},
	KindType: {
		name:    "type",
		qualify: func(scope QualifiedName, d *Declaration) QualifiedName { return typeName(scope, d.Name) },
	},
	KindField: {
		name:  "field",
		group: GroupFields,
		qualify: func(scope QualifiedName, d *Declaration) QualifiedName {
			return memberName(scope, d.Name, nil, false)
		},
	},
	KindConstructor: {
		name:     "constructor",
		group:    GroupConstructors,
		callable: true,
		qualify: func(scope QualifiedName, d *Declaration) QualifiedName {
			return memberName(scope, d.Name, d.Params, true)
		},
	},
	KindMethod: {
		name:     "method",
		group:    GroupMethods,
		callable: true,
		qualify: func(scope QualifiedName, d *Declaration) QualifiedName {
			return memberName(scope, d.Name, d.Params, true)
		},
	},
}

func (k Kind) valid() bool { return k >= KindPackage && int(k) < len(kinds) }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kinds[k].name
}

// IsMember reports whether k is a field, constructor, or method.
func (k Kind) IsMember() bool { return k.valid() && kinds[k].group != GroupNone }

// Group returns the emission group of a member kind.
func (k Kind) Group() Group {
	if !k.valid() {
		return GroupNone
	}
	return kinds[k].group
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(kinds[k].name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, info := range kinds {
		if info.name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}

// TagKind classifies a block tag.
type TagKind string

const (
	TagParam      TagKind = "param"
	TagReturn     TagKind = "return"
	TagThrows     TagKind = "throws"
	TagSee        TagKind = "see"
	TagDeprecated TagKind = "deprecated"
	TagSince      TagKind = "since"
	TagAuthor     TagKind = "author"
	TagOther      TagKind = "other"
)

func tagKind(name string) TagKind {
	switch name {
	case "param":
		return TagParam
	case "return":
		return TagReturn
	case "throws", "exception":
		return TagThrows
	case "see":
		return TagSee
	case "deprecated":
		return TagDeprecated
	case "since":
		return TagSince
	case "author":
		return TagAuthor
	default:
		return TagOther
	}
}

// Tag is a structured block tag. Name holds the parameter name for @param,
// the exception for @throws, and the tag name for unknown tags.
type Tag struct {
	Kind TagKind    `json:"kind"`
	Name string     `json:"name,omitempty"`
	Text string     `json:"text,omitempty"`
	Ref  *Reference `json:"ref,omitempty"`
}

// RefState is the resolution state of a Reference.
type RefState int

const (
	RefPending RefState = iota
	RefResolved
	RefUnresolved
)

func (s RefState) String() string {
	switch s {
	case RefResolved:
		return "resolved"
	case RefUnresolved:
		return "unresolved"
	default:
		return "pending"
	}
}

func (s RefState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Reference is a textual cross reference. After Resolve it is either
// resolved, with Target set, or unresolved, keeping only Text.
type Reference struct {
	Text   string        `json:"text"`
	State  RefState      `json:"state"`
	Target QualifiedName `json:"target,omitempty"`
}

// Resolved reports whether r links to an entity in the model.
func (r *Reference) Resolved() bool { return r != nil && r.State == RefResolved }

// Position is where a declaration appears in source.
type Position struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// DocEntity is one documentable declaration. Core fields are fixed by
// Extract; Resolve only writes to References.
type DocEntity struct {
	Name       QualifiedName `json:"name"`
	Kind       Kind          `json:"kind"`
	SimpleName string        `json:"simpleName"`
	Scope      QualifiedName `json:"scope,omitempty"`
	Package    QualifiedName `json:"package,omitempty"`
	Params     []string      `json:"params,omitempty"`
	Type       string        `json:"type,omitempty"` // field type or method return type
	Modifiers  []string      `json:"modifiers,omitempty"`

	Summary    string       `json:"summary,omitempty"`
	Body       string       `json:"body,omitempty"`
	Tags       []Tag        `json:"tags,omitempty"`
	Links      []*Reference `json:"links,omitempty"`
	Deprecated bool         `json:"deprecated,omitempty"`

	Order    int       `json:"order"`
	Position Position  `json:"position"`
	Info     *TypeInfo `json:"typeInfo,omitempty"` // set for KindType only
}

// TypeInfo holds what a type entity owns beyond the common fields. Members
// and Nested are lookups into the DocumentModel, not owned entities.
type TypeInfo struct {
	Kind       string          `json:"kind"` // class, interface, enum, record, annotation
	Members    []QualifiedName `json:"members,omitempty"`
	Nested     []QualifiedName `json:"nested,omitempty"`
	Supertype  QualifiedName   `json:"supertype,omitempty"`
	Interfaces []QualifiedName `json:"interfaces,omitempty"`
	Imports    []string        `json:"imports,omitempty"`
	Ancestors  []QualifiedName `json:"ancestors,omitempty"` // nearest first, in-model only
}

// Documented reports whether the entity carries its own summary or body.
func (e *DocEntity) Documented() bool {
	return e.Summary != "" || e.Body != ""
}

// References returns every reference owned by e: tag references first, then inline links.
func (e *DocEntity) References() []*Reference {
	var refs []*Reference
	for i := range e.Tags {
		if e.Tags[i].Ref != nil {
			refs = append(refs, e.Tags[i].Ref)
		}
	}
	return append(refs, e.Links...)
}

// Link returns the inline link reference with the given text, if any.
func (e *DocEntity) Link(text string) *Reference {
	for _, l := range e.Links {
		if l.Text == text {
			return l
		}
	}
	return nil
}

// Signature renders the member part of the name for display, e.g. "area(double)".
func (e *DocEntity) Signature() string {
	if !e.Kind.IsMember() {
		return e.SimpleName
	}
	if !kinds[e.Kind].callable {
		return e.SimpleName
	}
	return e.SimpleName + "(" + strings.Join(e.Params, ", ") + ")"
}
