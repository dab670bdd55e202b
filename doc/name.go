// Package doc turns a reflected Java API surface into a cross-referenced
// documentation model.
//
// A run has four stages. Extract walks an APIModel once and builds a
// DocumentModel keyed by QualifiedName. Resolve turns textual references in
// tags and inline links into links to other entities, leaving references to
// unknown symbols as literal text. Aggregate orders the model for emission and
// fills undocumented members from their nearest documented ancestor without
// touching the stored entities. An Emitter then serializes the result.
package doc

import (
	"strings"
)

// QualifiedName identifies a package, type, or member.
//
//	com.example                    package
//	com.example.Foo                type
//	com.example.Foo.Inner          nested type
//	com.example.Foo#count          field
//	com.example.Foo#Foo(int)       constructor
//	com.example.Foo#area(double[]) method
type QualifiedName string

func (q QualifiedName) String() string { return string(q) }

// Owner returns the type part of a member name, or q itself for packages and types.
func (q QualifiedName) Owner() QualifiedName {
	if i := strings.IndexByte(string(q), '#'); i >= 0 {
		return q[:i]
	}
	return q
}

// Member returns the member part of q (after '#'), or "".
func (q QualifiedName) Member() string {
	if i := strings.IndexByte(string(q), '#'); i >= 0 {
		return string(q[i+1:])
	}
	return ""
}

// Params returns the parameter types of a constructor or method name.
func (q QualifiedName) Params() []string {
	_, params, _ := splitSignature(q.Member())
	return params
}

func typeName(scope QualifiedName, simple string) QualifiedName {
	if scope == "" {
		return QualifiedName(simple)
	}
	return scope + "." + QualifiedName(simple)
}

func memberName(owner QualifiedName, name string, params []string, callable bool) QualifiedName {
	if !callable {
		return owner + "#" + QualifiedName(name)
	}
	erased := make([]string, len(params))
	for i, p := range params {
		erased[i] = EraseType(p)
	}
	return owner + "#" + QualifiedName(name+"("+strings.Join(erased, ",")+")")
}

// EraseType normalizes a declared type for use in a signature: type arguments
// and whitespace are dropped and varargs are written as arrays.
//
//	Map<String, List<T>>  ->  Map
//	String...             ->  String[]
func EraseType(t string) string {
	var sb strings.Builder
	depth := 0
	for _, ch := range t {
		switch {
		case ch == '<':
			depth++
		case ch == '>':
			if depth > 0 {
				depth--
			}
		case depth > 0, ch == ' ', ch == '\t', ch == '\n', ch == '\r':
		default:
			sb.WriteRune(ch)
		}
	}
	s := sb.String()
	if strings.HasSuffix(s, "...") {
		s = strings.TrimSuffix(s, "...") + "[]"
	}
	return s
}

// simpleType strips the package qualification from an erased type: java.lang.String[] -> String[].
func simpleType(t string) string {
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		return t[i+1:]
	}
	return t
}

// splitSignature splits "name(A,B)" into its parts. ok is false when there is no parameter list.
func splitSignature(s string) (name string, params []string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, false
	}
	name = s[:open]
	inner := strings.TrimSuffix(s[open+1:], ")")
	if strings.TrimSpace(inner) == "" {
		return name, []string{}, true
	}
	for _, p := range splitParams(inner) {
		params = append(params, EraseType(paramType(p)))
	}
	return name, params, true
}

// paramType drops the parameter name a reference may carry:
// "List<String> xs" -> "List", "int [] counts" -> "int[]".
func paramType(p string) string {
	var sb strings.Builder
	depth := 0
	for _, ch := range p {
		switch {
		case ch == '<':
			depth++
		case ch == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(ch)
		}
	}
	fields := strings.Fields(sb.String())
	if len(fields) == 0 {
		return ""
	}
	typ := fields[0]
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, "[") && !strings.HasPrefix(f, ".") {
			break
		}
		typ += f
	}
	return typ
}

// splitParams splits on commas outside of type arguments.
func splitParams(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// sameParams compares parameter lists by their unqualified erased types, so
// that String and java.lang.String match.
func sameParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if simpleType(EraseType(a[i])) != simpleType(EraseType(b[i])) {
			return false
		}
	}
	return true
}

func firstSegment(s string) (head, rest string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}
