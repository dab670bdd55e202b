package format

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/doclet/doc"
)

// Unit is one rendered output file, addressed relative to the output directory.
type Unit struct {
	Path string
	Data []byte
}

// Writer renders a view and writes its units below Dir. It implements
// doc.Emitter.
type Writer struct {
	Dir      string
	Renderer Renderer
	Layout   Layout
	// Compress writes every unit zstd compressed with a ".zst" suffix.
	Compress bool
	Log      commonlog.Logger
}

func NewWriter(dir string, r Renderer, layout Layout) *Writer {
	return &Writer{
		Dir:      dir,
		Renderer: r,
		Layout:   layout,
		Log:      commonlog.GetLogger("doclet.format"),
	}
}

// Render produces every unit of v in memory: the index, one summary per
// package and, with LayoutType, one unit per type.
func (w *Writer) Render(m *doc.DocumentModel, v *doc.View) ([]Unit, error) {
	base := NewLinker(m, w.layout(), w.Renderer.Ext())
	var units []Unit

	index := base.IndexPath()
	data, err := w.Renderer.Index(base.At(index), v)
	if err != nil {
		return nil, errors.Wrap(err, "rendering index")
	}
	units = append(units, Unit{Path: index, Data: data})

	for _, p := range v.Packages {
		unit := base.PackagePath(p.Name)
		data, err := w.Renderer.Package(base.At(unit), p)
		if err != nil {
			return nil, errors.Wrapf(err, "rendering package %q", p.Name)
		}
		units = append(units, Unit{Path: unit, Data: data})

		if w.layout() != LayoutType {
			continue
		}
		for _, t := range p.Types {
			unit := base.TypePath(t.Entity)
			data, err := w.Renderer.Type(base.At(unit), t)
			if err != nil {
				return nil, errors.Wrapf(err, "rendering type %s", t.Entity.Name)
			}
			units = append(units, Unit{Path: unit, Data: data})
		}
	}
	return units, nil
}

func (w *Writer) layout() Layout {
	if w.Layout == "" {
		return LayoutType
	}
	return w.Layout
}

// Emit renders every unit before the first file is written, so a rendering
// failure leaves the output directory untouched.
func (w *Writer) Emit(run *doc.Run, m *doc.DocumentModel, v *doc.View) error {
	units, err := w.Render(m, v)
	if err != nil {
		return err
	}
	for _, u := range units {
		if err := w.write(u); err != nil {
			return err
		}
	}
	w.logger(run).Infof("wrote %d units to %s", len(units), w.Dir)
	return nil
}

func (w *Writer) logger(run *doc.Run) commonlog.Logger {
	switch {
	case w.Log != nil:
		return w.Log
	case run != nil:
		return run.Log
	}
	return commonlog.GetLogger("doclet.format")
}

func (w *Writer) write(u Unit) error {
	p := filepath.Join(w.Dir, filepath.FromSlash(u.Path))
	data := u.Data
	if w.Compress {
		compressed, err := compress(data)
		if err != nil {
			return errors.Wrapf(err, "compressing %s", u.Path)
		}
		p += ".zst"
		data = compressed
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", u.Path)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", u.Path)
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
