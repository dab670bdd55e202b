// Package javadoc splits doc comments into summary, body and block tags,
// and renders their description fragments.
package javadoc

// Node is one element of a parsed description fragment.
type Node interface {
	node()
}

// Text is plain text. Markup the scanner does not recognize stays in Text.
type Text string

// Code is the content of a {@code} tag.
type Code string

// Literal is the content of a {@literal} tag.
type Literal string

// Entity is a character reference without its & and ;, e.g. "lt" or "#160".
type Entity string

// Link is a {@link}, {@linkplain} or {@value} tag.
type Link struct {
	Tag   string
	Ref   string
	Label []Node
}

// InheritDoc is an {@inheritDoc} tag.
type InheritDoc struct{}

// Summary is the content of a {@summary} tag.
type Summary []Node

// InlineTag is any other inline tag with its raw content.
type InlineTag struct {
	Name    string
	Content string
}

// Element is an HTML start or end tag. Name is lower case; attributes are dropped.
type Element struct {
	Name    string
	Closing bool
}

func (Text) node()       {}
func (Code) node()       {}
func (Literal) node()    {}
func (Entity) node()     {}
func (Link) node()       {}
func (InheritDoc) node() {}
func (Summary) node()    {}
func (InlineTag) node()  {}
func (Element) node()    {}
