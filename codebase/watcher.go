package codebase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/dhamidi/doclet/java"
)

// BuildFunc is called after every rebuild the watcher triggers.
type BuildFunc func(snap *Snapshot, err error)

// Watcher rebuilds a Codebase when its input files change. Bursts of
// events within Debounce of each other cause a single rebuild.
type Watcher struct {
	Debounce time.Duration

	codebase *Codebase
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	ctx     context.Context
	onBuild []BuildFunc
}

func NewWatcher(c *Codebase) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &Watcher{
		Debounce: 300 * time.Millisecond,
		codebase: c,
		watcher:  fw,
		ctx:      context.Background(),
	}
	for _, p := range c.Paths() {
		if err := w.addTree(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnBuild registers fn to run after each rebuild.
func (w *Watcher) OnBuild(fn BuildFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onBuild = append(w.onBuild, fn)
}

// addTree watches root and every directory below it, except hidden ones.
// A file root is watched through its directory.
func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "watch %s", root)
	}
	if !info.IsDir() {
		return w.watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// Start watches in the background until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
	go w.run(ctx)
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("watch error: %s", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				log.Warningf("%s", err)
			}
			w.Schedule()
			return
		}
	}
	if !java.IsInputFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		log.Debugf("%s %s", event.Op, event.Name)
		w.Schedule()
	}
}

// Schedule requests a rebuild after the debounce period, replacing any
// pending request.
func (w *Watcher) Schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, w.rebuild)
}

func (w *Watcher) rebuild() {
	w.mu.Lock()
	ctx := w.ctx
	callbacks := append([]BuildFunc(nil), w.onBuild...)
	w.mu.Unlock()

	snap, err := w.codebase.Rebuild(ctx)
	for _, fn := range callbacks {
		fn(snap, err)
	}
}
