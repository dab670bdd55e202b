// Package codebase keeps the documentation of a set of input paths up to
// date as files change, and serves it to editors and tools.
package codebase

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/doclet/doc"
	"github.com/dhamidi/doclet/format"
	"github.com/dhamidi/doclet/java"
)

var log = commonlog.GetLogger("doclet.codebase")

// Snapshot is the result of one successful build.
type Snapshot struct {
	Root   *java.Root
	Result *doc.Result
	Built  time.Time
}

type Codebase struct {
	mu      sync.RWMutex
	paths   []string
	overlay map[string][]byte
	snap    *Snapshot
	lastErr error

	// build serializes rebuilds so readers are only blocked while a
	// finished snapshot is swapped in.
	build    sync.Mutex
	loadOpts []java.LoadOption
	workers  int
	emit     doc.Emitter
}

type Option func(*Codebase)

// WithLoadOptions passes options to java.Load on every build.
func WithLoadOptions(opts ...java.LoadOption) Option {
	return func(c *Codebase) { c.loadOpts = append(c.loadOpts, opts...) }
}

// WithWorkers sets the extraction workers of every run.
func WithWorkers(n int) Option {
	return func(c *Codebase) { c.workers = n }
}

// WithEmitter emits every successful build, as `doclet watch` does.
func WithEmitter(e doc.Emitter) Option {
	return func(c *Codebase) { c.emit = e }
}

func New(paths []string, opts ...Option) *Codebase {
	c := &Codebase{
		paths:   paths,
		overlay: make(map[string][]byte),
		workers: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) Paths() []string {
	return c.paths
}

// UpdateFile replaces the contents of path for the following builds,
// typically with an unsaved editor buffer.
func (c *Codebase) UpdateFile(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay[path] = content
}

// CloseFile drops the contents set by UpdateFile; builds read the file from disk again.
func (c *Codebase) CloseFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.overlay, path)
}

// File returns the current contents of path.
func (c *Codebase) File(path string) ([]byte, error) {
	c.mu.RLock()
	content, ok := c.overlay[path]
	c.mu.RUnlock()
	if ok {
		return content, nil
	}
	return os.ReadFile(path)
}

// Rebuild loads every input and regenerates the documentation. A failed
// build keeps the previous snapshot.
func (c *Codebase) Rebuild(ctx context.Context) (*Snapshot, error) {
	c.build.Lock()
	defer c.build.Unlock()

	c.mu.RLock()
	overlay := make(map[string][]byte, len(c.overlay))
	for path, content := range c.overlay {
		overlay[path] = content
	}
	c.mu.RUnlock()

	snap, err := c.rebuild(ctx, overlay)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		log.Warningf("build failed: %s", err)
		return nil, err
	}
	c.snap = snap
	return snap, nil
}

func (c *Codebase) rebuild(ctx context.Context, overlay map[string][]byte) (*Snapshot, error) {
	start := time.Now()
	opts := append([]java.LoadOption{java.WithOverlay(overlay)}, c.loadOpts...)
	root, err := java.Load(ctx, c.paths, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	run := doc.NewRun(doc.WithWorkers(c.workers))
	res, err := doc.Generate(run, root, c.emit)
	if err != nil {
		return nil, err
	}
	log.Infof("built %d entities in %s (run %s)", res.Model.Len(), time.Since(start).Round(time.Millisecond), run.ID)
	return &Snapshot{Root: root, Result: res, Built: time.Now()}, nil
}

// Snapshot returns the latest successful build, or nil before the first one.
func (c *Codebase) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Err returns the error of the latest build, if it failed.
func (c *Codebase) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Resolve finds the entity a reference written in the documentation of
// scope points to. An empty scope resolves only qualified names.
func (c *Codebase) Resolve(ref string, scope doc.QualifiedName) (*doc.DocEntity, bool) {
	snap := c.Snapshot()
	if snap == nil || ref == "" {
		return nil, false
	}
	m := snap.Result.Model
	if e, ok := m.Lookup(doc.QualifiedName(ref)); ok {
		return e, true
	}
	q, ok := doc.Lookup(m, scope, ref)
	if !ok {
		return nil, false
	}
	return m.Lookup(q)
}

// Describe renders the documentation ref resolves to from scope.
func (c *Codebase) Describe(ref string, scope doc.QualifiedName) (string, bool) {
	e, ok := c.Resolve(ref, scope)
	if !ok {
		return "", false
	}
	res := c.Snapshot().Result
	return format.Describe(res.Model, res.View, e.Name)
}

// Search returns entities whose qualified name contains query, ignoring
// case. Entities whose simple name equals the query come first; otherwise
// declaration order is kept.
func (c *Codebase) Search(query string, limit int) []*doc.DocEntity {
	snap := c.Snapshot()
	if snap == nil {
		return nil
	}
	q := strings.ToLower(query)
	var exact, partial []*doc.DocEntity
	for _, e := range snap.Result.Model.Entities() {
		switch {
		case strings.EqualFold(e.SimpleName, query):
			exact = append(exact, e)
		case strings.Contains(strings.ToLower(string(e.Name)), q):
			partial = append(partial, e)
		}
	}
	out := append(exact, partial...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Unresolved lists the references the latest build could not resolve,
// sorted by owner.
func (c *Codebase) Unresolved() []doc.MissingRef {
	snap := c.Snapshot()
	if snap == nil {
		return nil
	}
	missing := append([]doc.MissingRef(nil), snap.Result.Report.Missing...)
	sort.SliceStable(missing, func(i, j int) bool { return missing[i].Owner < missing[j].Owner })
	return missing
}
