package java

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// EnclosingType returns the qualified name of the innermost type declared
// around a position. line is 1-based and column 0-based. A doc comment
// belongs to the declaration that follows it.
func EnclosingType(ctx context.Context, source []byte, line, column int) string {
	parser := NewSourceParser()
	defer parser.Close()
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return ""
	}
	defer tree.Close()

	root := tree.RootNode()
	pkg := ""
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			if c := decl.NamedChild(j); c.Type() == "scoped_identifier" || c.Type() == "identifier" {
				pkg = c.Content(source)
			}
		}
		break
	}

	if line < 1 {
		return ""
	}
	point := sitter.Point{Row: uint32(line - 1), Column: uint32(max(0, column))}
	node := root.NamedDescendantForPointRange(point, point)
	if node == nil {
		return ""
	}
	if isComment(node) {
		if next := node.NextNamedSibling(); next != nil {
			node = next
		}
	}

	var names []string
	for n := node; n != nil; n = n.Parent() {
		if _, ok := classKinds[n.Type()]; ok {
			names = append(names, n.ChildByFieldName("name").Content(source))
		}
	}
	if len(names) == 0 {
		return ""
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	if pkg != "" {
		names = append([]string{pkg}, names...)
	}
	return strings.Join(names, ".")
}

func isReferenceChar(ch byte) bool {
	return ch == '_' || ch == '$' || ch == '.' || ch == '#' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// ReferenceAt returns the reference written around column (0-based) of a
// line, such as "Foo#bar(int, long)" in "{@link Foo#bar(int, long) bar}".
func ReferenceAt(text string, column int) string {
	if column < 0 || column > len(text) {
		return ""
	}
	start, end := column, column
	for start > 0 && isReferenceChar(text[start-1]) {
		start--
	}
	for end < len(text) && isReferenceChar(text[end]) {
		end++
	}
	if end < len(text) && text[end] == '(' {
		if close := strings.IndexByte(text[end:], ')'); close >= 0 {
			end += close + 1
		}
	}
	return strings.Trim(text[start:end], ".")
}
