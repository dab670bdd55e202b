package javadoc

import (
	"strings"
	"unicode"
)

// ParseText parses a description fragment, such as a summary or a body,
// into nodes. Fragments carry no comment delimiters and no block tags, so
// an '@' at the start of a line is plain text.
func ParseText(text string) []Node {
	s := &scanner{src: []rune(text)}
	return s.nodes(false)
}

type scanner struct {
	src []rune
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek(off int) rune {
	if i := s.pos + off; i >= 0 && i < len(s.src) {
		return s.src[i]
	}
	return 0
}

// nodes reads until the end of input, or inside a tag until the '}' that
// closes it. The closing brace is left unread.
func (s *scanner) nodes(inTag bool) []Node {
	var out []Node
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Text(text.String()))
			text.Reset()
		}
	}

	depth := 0
	for !s.eof() {
		ch := s.peek(0)
		switch {
		case ch == '{' && s.peek(1) == '@':
			flush()
			out = append(out, s.inlineTag())
			continue
		case ch == '{' && inTag:
			depth++
		case ch == '}' && inTag:
			if depth == 0 {
				flush()
				return out
			}
			depth--
		case ch == '<':
			if n, ok := s.element(); ok {
				flush()
				out = append(out, n)
				continue
			}
		case ch == '&':
			if n, ok := s.entity(); ok {
				flush()
				out = append(out, n)
				continue
			}
		}
		text.WriteRune(ch)
		s.pos++
	}
	flush()
	return out
}

// inlineTag reads a tag starting at "{@" including its closing brace.
func (s *scanner) inlineTag() Node {
	s.pos += 2
	name := s.identifier()
	if name == "" {
		return Text("{@")
	}
	s.skipBlanks()

	var n Node
	switch name {
	case "code":
		n = Code(s.balanced())
	case "literal":
		n = Literal(s.balanced())
	case "link", "linkplain":
		l := Link{Tag: name, Ref: s.reference()}
		s.skipBlanks()
		if s.peek(0) != '}' {
			l.Label = s.nodes(true)
		}
		n = l
	case "value":
		n = Link{Tag: name, Ref: s.reference()}
		s.balanced()
	case "inheritDoc":
		s.balanced()
		n = InheritDoc{}
	case "summary":
		n = Summary(s.nodes(true))
	default:
		n = InlineTag{Name: name, Content: s.balanced()}
	}
	if s.peek(0) == '}' {
		s.pos++
	}
	return n
}

// element reads an HTML tag such as <p>, </b> or <a href="x">.
func (s *scanner) element() (Node, bool) {
	i := s.pos + 1
	closing := i < len(s.src) && s.src[i] == '/'
	if closing {
		i++
	}
	start := i
	for i < len(s.src) && (unicode.IsLetter(s.src[i]) || unicode.IsDigit(s.src[i])) {
		i++
	}
	if i == start {
		return nil, false
	}
	name := strings.ToLower(string(s.src[start:i]))

	var quote rune
	for ; i < len(s.src); i++ {
		switch ch := s.src[i]; {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '>':
			s.pos = i + 1
			return Element{Name: name, Closing: closing}, true
		case ch == '<':
			return nil, false
		}
	}
	return nil, false
}

// entity reads a character reference such as &amp; or &#8212;.
func (s *scanner) entity() (Node, bool) {
	i := s.pos + 1
	start := i
	if i < len(s.src) && s.src[i] == '#' {
		i++
	}
	for i < len(s.src) && (unicode.IsLetter(s.src[i]) || unicode.IsDigit(s.src[i])) {
		i++
	}
	if i == start || i >= len(s.src) || s.src[i] != ';' {
		return nil, false
	}
	s.pos = i + 1
	return Entity(s.src[start:i]), true
}

// reference reads a program element reference like pkg.Type#member(A, B).
// Whitespace inside a parameter list does not end it.
func (s *scanner) reference() string {
	start, parens := s.pos, 0
	for ; !s.eof(); s.pos++ {
		ch := s.src[s.pos]
		if ch == '}' {
			break
		}
		if ch == '(' {
			parens++
		} else if ch == ')' && parens > 0 {
			parens--
		} else if parens == 0 && isWhitespace(ch) {
			break
		}
	}
	return strings.TrimSpace(string(s.src[start:s.pos]))
}

// balanced reads up to the '}' closing the current tag, keeping nested
// brace pairs.
func (s *scanner) balanced() string {
	start, depth := s.pos, 0
	for ; !s.eof(); s.pos++ {
		switch s.src[s.pos] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return string(s.src[start:s.pos])
			}
			depth--
		}
	}
	return string(s.src[start:])
}

func (s *scanner) identifier() string {
	start := s.pos
	for !s.eof() && isJavaIdentifierPart(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

func (s *scanner) skipBlanks() {
	for s.peek(0) == ' ' || s.peek(0) == '\t' {
		s.pos++
	}
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isJavaIdentifierPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$'
}
