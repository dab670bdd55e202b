package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/doclet/doc"
	"github.com/dhamidi/doclet/java/javadoc"
)

// LineEncoder writes one tab separated line per entity:
// kind, qualified name, reference counts and the plain text summary.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(m *doc.DocumentModel) error {
	text, err := e.marshal(m)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.w, text)
	return err
}

func (e *LineEncoder) marshal(m *doc.DocumentModel) (string, error) {
	var sb strings.Builder
	for _, ent := range m.Entities() {
		resolved, unresolved := 0, 0
		for _, r := range ent.References() {
			if r.Resolved() {
				resolved++
			} else {
				unresolved++
			}
		}
		fmt.Fprintf(&sb, "%s\t%s\t%d/%d\t%s\n",
			ent.Kind,
			ent.Name,
			resolved,
			resolved+unresolved,
			e.summary(ent),
		)
	}
	return sb.String(), nil
}

func (e *LineEncoder) summary(ent *doc.DocEntity) string {
	s := javadoc.PlainText(ent.Summary)
	s = strings.ReplaceAll(s, "\t", " ")
	if ent.Deprecated {
		s = strings.TrimSpace("[deprecated] " + s)
	}
	return strings.ReplaceAll(s, "\n", " ")
}
