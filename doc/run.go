package doc

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// Run is the explicit context threaded through every stage. Runs share no
// state, so several may execute in the same process.
type Run struct {
	ID      uuid.UUID
	Log     commonlog.Logger
	Workers int
}

// RunOption configures a Run.
type RunOption func(*Run)

// WithWorkers sets the number of extraction workers. Values below 2 extract sequentially.
func WithWorkers(n int) RunOption {
	return func(r *Run) { r.Workers = n }
}

// WithLogger replaces the default logger. A nil log keeps the default.
func WithLogger(log commonlog.Logger) RunOption {
	return func(r *Run) {
		if log != nil {
			r.Log = log
		}
	}
}

// NewRun returns a run with a fresh ID, the doclet.doc logger and one worker.
func NewRun(opts ...RunOption) *Run {
	r := &Run{
		ID:      uuid.New(),
		Log:     commonlog.GetLogger("doclet.doc"),
		Workers: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// orDefault lets every stage accept a nil run.
func orDefault(run *Run) *Run {
	if run == nil {
		return NewRun()
	}
	return run
}

// Emitter consumes a finished run. It is called only after every earlier stage succeeded.
type Emitter interface {
	Emit(run *Run, m *DocumentModel, v *View) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(run *Run, m *DocumentModel, v *View) error

func (f EmitterFunc) Emit(run *Run, m *DocumentModel, v *View) error { return f(run, m, v) }

// Result is everything a successful run produced.
type Result struct {
	Model  *DocumentModel
	View   *View
	Report *ResolveReport
}

// Generate runs Extract, Resolve and Aggregate over api and hands the result
// to emit. A nil emit skips emission. Nothing is emitted when a stage fails.
func Generate(run *Run, api APIModel, emit Emitter) (*Result, error) {
	run = orDefault(run)
	m, err := Extract(run, api)
	if err != nil {
		return nil, errors.Wrap(err, "extract")
	}
	report := Resolve(run, m)
	view, err := Aggregate(run, m)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate")
	}
	res := &Result{Model: m, View: view, Report: report}
	run.Log.Infof("run %s: %d entities, %d references resolved, %d unresolved",
		run.ID, m.Len(), report.Resolved, report.Unresolved)
	if emit == nil {
		return res, nil
	}
	if err := emit.Emit(run, m, view); err != nil {
		return nil, errors.Wrap(err, "emit")
	}
	return res, nil
}
