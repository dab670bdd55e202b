// Package format renders a documentation view into output units and writes
// them to a destination directory.
package format

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/doclet/doc"
)

// Renderer turns parts of a view into unit contents. Renderers read the
// model and view only.
type Renderer interface {
	// Ext is the file extension of rendered units, including the dot.
	Ext() string
	Type(l *Linker, t *doc.TypeView) ([]byte, error)
	// Package renders a package summary; with LayoutPackage it includes every type.
	Package(l *Linker, p *doc.PackageView) ([]byte, error)
	Index(l *Linker, v *doc.View) ([]byte, error)
}

// Encoder writes a whole document model, as the dump command does.
type Encoder interface {
	Encode(m *doc.DocumentModel) error
}

var renderers = map[string]func() Renderer{
	"markdown": func() Renderer { return &Markdown{} },
	"md":       func() Renderer { return &Markdown{} },
	"html":     func() Renderer { return NewHTML() },
	"json":     func() Renderer { return &JSON{} },
}

// ErrUnknownFormat is returned for format names without a renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// ForName returns the renderer registered under name.
func ForName(name string) (Renderer, error) {
	newRenderer, ok := renderers[name]
	if !ok {
		return nil, errors.WithHintf(errors.Wrapf(ErrUnknownFormat, "%q", name),
			"choose one of %v", Names())
	}
	return newRenderer(), nil
}

// Names lists the registered format names.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseLayout validates a layout name.
func ParseLayout(name string) (Layout, error) {
	switch Layout(name) {
	case LayoutType, LayoutPackage:
		return Layout(name), nil
	case "":
		return LayoutType, nil
	}
	return "", errors.Newf("unknown layout %q, want %q or %q", name, LayoutType, LayoutPackage)
}
