package format

import (
	"bytes"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/dhamidi/doclet/doc"
)

// HTML renders the Markdown units as complete HTML pages.
type HTML struct {
	md  Markdown
	css string
}

func NewHTML() *HTML { return &HTML{} }

// WithCSS links a stylesheet from every page.
func (r *HTML) WithCSS(href string) *HTML {
	r.css = href
	return r
}

func (*HTML) Ext() string { return ".html" }

func (r *HTML) Type(l *Linker, t *doc.TypeView) ([]byte, error) {
	md, err := r.md.Type(l, t)
	if err != nil {
		return nil, err
	}
	return r.page(typeChain(t.Entity), md), nil
}

func (r *HTML) Package(l *Linker, p *doc.PackageView) ([]byte, error) {
	md, err := r.md.Package(l, p)
	if err != nil {
		return nil, err
	}
	title := string(p.Name)
	if title == "" {
		title = "(unnamed package)"
	}
	return r.page(title, md), nil
}

func (r *HTML) Index(l *Linker, v *doc.View) ([]byte, error) {
	md, err := r.md.Index(l, v)
	if err != nil {
		return nil, err
	}
	return r.page("API Documentation", md), nil
}

func (r *HTML) page(title string, md []byte) []byte {
	p := gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.Autolink)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
		CSS:   r.css,
	})
	out := gm.ToHTML(bytes.TrimSpace(md), p, renderer)
	return out
}
