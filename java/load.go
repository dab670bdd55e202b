package java

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Decode reads a Root from YAML. JSON input is accepted as well.
func Decode(r io.Reader) (*Root, error) {
	var root Root
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &root, nil
		}
		return nil, errors.Wrap(err, "decode API model")
	}
	return &root, nil
}

// LoadModelFile reads a YAML or JSON model file.
func LoadModelFile(path string) (*Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	root, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return root, nil
}

type loadConfig struct {
	exclude    []string
	workers    int
	visibility Visibility
	overlay    map[string][]byte
}

type LoadOption func(*loadConfig)

// WithExclude skips files matching the gitignore style patterns.
func WithExclude(patterns ...string) LoadOption {
	return func(c *loadConfig) { c.exclude = append(c.exclude, patterns...) }
}

// WithParseWorkers sets how many files are parsed concurrently.
func WithParseWorkers(n int) LoadOption {
	return func(c *loadConfig) { c.workers = n }
}

// WithVisibility drops declarations less visible than min.
func WithVisibility(min Visibility) LoadOption {
	return func(c *loadConfig) { c.visibility = min }
}

// WithOverlay reads the given contents instead of the files on disk. Overlay
// files that do not exist on disk are loaded as well.
func WithOverlay(files map[string][]byte) LoadOption {
	return func(c *loadConfig) { c.overlay = files }
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Load discovers the input files under paths and merges them into one Root
// in lexical file order.
func Load(ctx context.Context, paths []string, opts ...LoadOption) (*Root, error) {
	cfg := newLoadConfig(opts)
	files, err := Discover(paths, cfg.exclude)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f] = true
	}
	for f := range cfg.overlay {
		if !seen[f] && IsInputFile(f) {
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return loadFiles(ctx, files, cfg)
}

// LoadFiles parses files and merges them in the given order.
func LoadFiles(ctx context.Context, files []string, opts ...LoadOption) (*Root, error) {
	return loadFiles(ctx, files, newLoadConfig(opts))
}

func loadFiles(ctx context.Context, files []string, cfg loadConfig) (*Root, error) {
	parts := make([]*Root, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.workers))
	for i, path := range files {
		g.Go(func() error {
			part, err := loadFile(ctx, path, cfg.overlay[path])
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	root := &Root{}
	for _, part := range parts {
		root.Merge(part)
	}
	if cfg.visibility != "" {
		root = root.Filter(cfg.visibility)
	}
	log.Debugf("loaded %d files into %d packages", len(files), len(root.Packages))
	return root, nil
}

// loadFile reads path, or parses source when it is not nil.
func loadFile(ctx context.Context, path string, source []byte) (*Root, error) {
	if strings.ToLower(filepath.Ext(path)) != ".java" {
		if source == nil {
			return LoadModelFile(path)
		}
		root, err := Decode(bytes.NewReader(source))
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
		return root, nil
	}
	if source == nil {
		var err error
		if source, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	parser := NewSourceParser()
	defer parser.Close()
	sf, err := ParseSource(ctx, parser, source, path)
	if err != nil {
		return nil, err
	}
	root := &Root{}
	root.AddSource(sf)
	return root, nil
}
