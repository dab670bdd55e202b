package javadoc

import (
	"strings"
	"unicode"
)

// Comment is a raw doc comment split into the parts a doclet consumes.
// Summary and Body keep their inline tags in source form.
type Comment struct {
	Summary string
	Body    string
	Tags    []BlockTag
}

// BlockTag is a block tag in source form, e.g. Name "param", Text "x the x value".
type BlockTag struct {
	Name string
	Text string
}

// Clean strips comment delimiters and leading asterisks from a raw comment.
// Text without a leading "/**" is returned trimmed but otherwise unchanged.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "/**") {
		return s
	}
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed[1:], " ")
		} else {
			trimmed = line
		}
		lines[i] = strings.TrimRight(trimmed, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Split separates a raw comment into summary, body and block tags.
func Split(raw string) Comment {
	text := Clean(raw)
	if text == "" {
		return Comment{}
	}

	var desc []string
	var tags []BlockTag
	for _, line := range strings.Split(text, "\n") {
		if name, rest, ok := blockTagLine(line); ok {
			tags = append(tags, BlockTag{Name: name, Text: rest})
			continue
		}
		if len(tags) > 0 {
			last := &tags[len(tags)-1]
			if last.Text == "" {
				last.Text = strings.TrimSpace(line)
			} else {
				last.Text += "\n" + line
			}
			continue
		}
		desc = append(desc, line)
	}
	for i := range tags {
		tags[i].Text = strings.TrimSpace(tags[i].Text)
	}

	summary, body := FirstSentence(strings.TrimSpace(strings.Join(desc, "\n")))
	return Comment{Summary: summary, Body: body, Tags: tags}
}

func blockTagLine(line string) (name, rest string, ok bool) {
	s := strings.TrimLeft(line, " \t")
	if len(s) < 2 || s[0] != '@' || !unicode.IsLetter(rune(s[1])) {
		return "", "", false
	}
	end := 1
	for end < len(s) && isJavaIdentifierPart(rune(s[end])) {
		end++
	}
	return s[1:end], strings.TrimSpace(s[end:]), true
}

// blockElements end the first sentence when they appear after some text.
var blockElements = map[string]bool{
	"p": true, "pre": true, "ul": true, "ol": true, "dl": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "blockquote": true, "div": true,
}

// FirstSentence splits a description into its first sentence and the remainder.
// A leading {@summary ...} tag defines the first sentence explicitly.
func FirstSentence(desc string) (summary, rest string) {
	desc = strings.TrimSpace(desc)
	if strings.HasPrefix(desc, "{@summary") {
		if end := matchingBrace(desc, 0); end > 0 {
			inner := strings.TrimPrefix(desc[:end], "{@summary")
			return strings.TrimSpace(inner), strings.TrimSpace(desc[end+1:])
		}
	}

	depth := 0
	for i := 0; i < len(desc); i++ {
		switch desc[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 && (i+1 == len(desc) || isWhitespace(rune(desc[i+1]))) {
				return strings.TrimSpace(desc[:i+1]), strings.TrimSpace(desc[i+1:])
			}
		case '<':
			if depth == 0 && i > 0 && strings.TrimSpace(desc[:i]) != "" && blockElements[htmlName(desc[i+1:])] {
				return strings.TrimSpace(desc[:i]), strings.TrimSpace(desc[i:])
			}
		}
	}
	return desc, ""
}

func htmlName(s string) string {
	s = strings.TrimPrefix(s, "/")
	end := 0
	for end < len(s) && (unicode.IsLetter(rune(s[end])) || unicode.IsDigit(rune(s[end]))) {
		end++
	}
	return strings.ToLower(s[:end])
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// SplitReference splits tag text into a leading reference and the remaining label.
// Parameter lists may contain spaces: "Foo#bar(int, long) the bar" yields
// "Foo#bar(int, long)" and "the bar".
func SplitReference(text string) (ref, rest string) {
	s := &scanner{src: []rune(strings.TrimSpace(text))}
	ref = s.reference()
	return ref, strings.TrimSpace(string(s.src[s.pos:]))
}

// Links returns the targets of {@link}, {@linkplain} and {@value} tags in
// a description fragment, in order of first appearance.
func Links(text string) []string {
	if !strings.Contains(text, "{@") {
		return nil
	}
	var refs []string
	seen := make(map[string]bool)
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case Link:
				if n.Ref != "" && !seen[n.Ref] {
					seen[n.Ref] = true
					refs = append(refs, n.Ref)
				}
			case Summary:
				walk(n)
			}
		}
	}
	walk(ParseText(text))
	return refs
}

// IsInheritDoc reports whether a description consists solely of {@inheritDoc}.
func IsInheritDoc(text string) bool {
	nodes := ParseText(strings.TrimSpace(text))
	if len(nodes) != 1 {
		return false
	}
	_, ok := nodes[0].(InheritDoc)
	return ok
}
