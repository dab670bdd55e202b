package doc

// APIModel is the read-only reflective view of an API. Declarations may come
// in any order; members name their enclosing type through Scope.
type APIModel interface {
	Declarations() []Declaration
}

// Declaration is one declared package, type, or member.
type Declaration struct {
	Kind Kind
	// Name is the simple name; for packages, the full package name.
	Name string
	// Scope is the qualified name of the enclosing package or type.
	// Types in the unnamed package have an empty scope.
	Scope string

	Params    []string // constructors and methods
	Type      string   // field type or method return type
	Modifiers []string

	// Type declarations.
	TypeKind   string
	Supertype  string
	Interfaces []string
	Imports    []string

	// Comment is the raw doc comment. It is split into summary, body and tags
	// when those are all empty.
	Comment    string
	Summary    string
	Body       string
	Tags       []TagDecl
	Deprecated bool

	Position Position
}

// TagDecl is a block tag as supplied by the API model, e.g. {"param", "x the value"}.
type TagDecl struct {
	Name string
	Text string
}

// Declarations is an APIModel backed by a slice.
type Declarations []Declaration

func (d Declarations) Declarations() []Declaration { return d }
