package javadoc

import (
	"html"
	"strings"
)

// LinkFunc renders a cross reference. label is empty when the tag has none.
type LinkFunc func(ref, label string) string

// Markdown renders a description fragment as Markdown. References found in
// {@link} and {@value} tags are passed to link; a nil link renders them as code.
func Markdown(text string, link LinkFunc) string {
	if link == nil {
		link = func(ref, label string) string {
			if label != "" {
				return label
			}
			return "`" + ref + "`"
		}
	}
	r := &renderer{link: link}
	return r.render(ParseText(text))
}

// PlainText renders a description fragment without any markup. Links are
// replaced by their label or the short form of their reference.
func PlainText(text string) string {
	r := &renderer{plain: true, link: func(ref, label string) string {
		if label != "" {
			return label
		}
		return ShortReference(ref)
	}}
	return r.render(ParseText(text))
}

// ShortReference returns the display name of a reference such as
// java.util.List#add(E), which is "add".
func ShortReference(ref string) string {
	if _, member, ok := strings.Cut(ref, "#"); ok {
		name, _, _ := strings.Cut(member, "(")
		return name
	}
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// markdownElements maps HTML elements to the Markdown emitted for their
// start and end tags. Unlisted elements are dropped.
var markdownElements = map[string][2]string{
	"p":          {"\n\n", ""},
	"br":         {"\n", ""},
	"pre":        {"\n```\n", "\n```\n"},
	"code":       {"`", "`"},
	"tt":         {"`", "`"},
	"b":          {"**", "**"},
	"strong":     {"**", "**"},
	"i":          {"_", "_"},
	"em":         {"_", "_"},
	"ul":         {"\n", "\n"},
	"ol":         {"\n", "\n"},
	"dl":         {"\n", ""},
	"table":      {"\n", ""},
	"tr":         {"\n", ""},
	"li":         {"\n- ", ""},
	"dt":         {"\n", ""},
	"dd":         {"\n  ", ""},
	"blockquote": {"\n> ", ""},
	"td":         {" ", ""},
	"th":         {" ", ""},
	"h1":         {"\n\n", "\n"},
	"h2":         {"\n\n", "\n"},
	"h3":         {"\n\n", "\n"},
	"h4":         {"\n\n", "\n"},
	"h5":         {"\n\n", "\n"},
	"h6":         {"\n\n", "\n"},
}

type renderer struct {
	link  LinkFunc
	plain bool
	out   strings.Builder
}

func (r *renderer) render(nodes []Node) string {
	r.nodes(nodes)
	return strings.TrimSpace(collapseBlankLines(r.out.String()))
}

func (r *renderer) nodes(nodes []Node) {
	for i, n := range nodes {
		// <pre>{@code ...}</pre> becomes a single fenced block, written by the Code node.
		if e, ok := n.(Element); ok && e.Name == "pre" && wrapsCodeBlock(nodes, i, e.Closing) {
			continue
		}
		r.node(n)
	}
}

func (r *renderer) node(n Node) {
	switch n := n.(type) {
	case Text:
		r.out.WriteString(string(n))
	case Literal:
		r.out.WriteString(string(n))
	case Code:
		content := strings.TrimSpace(string(n))
		switch {
		case r.plain:
			r.out.WriteString(content)
		case strings.Contains(content, "\n"):
			r.out.WriteString("\n```java\n" + content + "\n```\n")
		default:
			r.out.WriteString("`" + content + "`")
		}
	case Link:
		label := &renderer{link: r.link, plain: r.plain}
		r.out.WriteString(r.link(n.Ref, label.render(n.Label)))
	case Summary:
		r.nodes(n)
	case InlineTag:
		r.out.WriteString(n.Content)
	case Element:
		if r.plain {
			return
		}
		if md, ok := markdownElements[n.Name]; ok {
			if n.Closing {
				r.out.WriteString(md[1])
			} else {
				r.out.WriteString(md[0])
			}
		}
	case Entity:
		r.out.WriteString(strings.ReplaceAll(html.UnescapeString("&"+string(n)+";"), "\u00a0", " "))
	}
}

// wrapsCodeBlock reports whether the <pre> or </pre> at i directly
// encloses a multi-line {@code} tag.
func wrapsCodeBlock(nodes []Node, i int, closing bool) bool {
	step := 1
	if closing {
		step = -1
	}
	for j := i + step; j >= 0 && j < len(nodes); j += step {
		switch n := nodes[j].(type) {
		case Text:
			if strings.TrimSpace(string(n)) != "" {
				return false
			}
		case Code:
			return strings.Contains(strings.TrimSpace(string(n)), "\n")
		default:
			return false
		}
	}
	return false
}

// collapseBlankLines trims trailing blanks and keeps at most one empty line in a row.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.Join(out, "\n")
}
