package doc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"
)

type recordingEmitter struct {
	calls int
	types []QualifiedName
}

func (r *recordingEmitter) Emit(run *Run, m *DocumentModel, v *View) error {
	r.calls++
	for _, t := range v.Types() {
		r.types = append(r.types, t.Entity.Name)
	}
	return nil
}

func TestGenerate(t *testing.T) {
	emit := &recordingEmitter{}
	res, err := Generate(NewRun(), shapes(), emit)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if emit.calls != 1 {
		t.Errorf("Emit called %d times, want 1", emit.calls)
	}
	if len(emit.types) != 3 {
		t.Errorf("emitted %v, want 3 types", emit.types)
	}
	if res.Report.Unresolved == 0 {
		t.Errorf("expected java.util.Collections to stay unresolved")
	}
}

func TestGenerateDuplicateEmitsNothing(t *testing.T) {
	emit := &recordingEmitter{}
	api := append(shapes(),
		Declaration{Kind: KindType, Name: "Foo", Scope: "com.example"},
		Declaration{Kind: KindMethod, Name: "bar", Scope: "com.example.Foo"},
		Declaration{Kind: KindMethod, Name: "bar", Scope: "com.example.Foo", Comment: "/** Again. */"},
	)
	_, err := Generate(NewRun(), api, emit)
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Fatalf("Generate() error = %v, want ErrDuplicateDeclaration", err)
	}
	if !strings.Contains(err.Error(), "com.example.Foo#bar()") {
		t.Errorf("error %q does not name com.example.Foo#bar()", err)
	}
	if emit.calls != 0 {
		t.Errorf("Emit called %d times after failure", emit.calls)
	}
}

func TestGenerateEmitError(t *testing.T) {
	boom := errors.New("disk full")
	_, err := Generate(NewRun(), shapes(), EmitterFunc(func(*Run, *DocumentModel, *View) error { return boom }))
	if !errors.Is(err, boom) {
		t.Fatalf("Generate() error = %v, want %v", err, boom)
	}
}

func TestRunsAreIndependent(t *testing.T) {
	a, b := NewRun(), NewRun(WithWorkers(3))
	if a.ID == b.ID {
		t.Errorf("runs share ID %s", a.ID)
	}
	if a.Workers != 1 || b.Workers != 3 {
		t.Errorf("Workers = %d, %d; want 1, 3", a.Workers, b.Workers)
	}
}

func TestModelJSON(t *testing.T) {
	res, err := Generate(NewRun(), shapes(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := json.Marshal(res.Model)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var entities []map[string]any
	if err := json.Unmarshal(data, &entities); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(entities) != res.Model.Len() {
		t.Fatalf("got %d entities, want %d", len(entities), res.Model.Len())
	}
	if entities[0]["name"] != "com.example" || entities[0]["kind"] != "package" {
		t.Errorf("first entity = %v", entities[0])
	}
}

func TestStagesAcceptNilRun(t *testing.T) {
	m, err := Extract(nil, shapes())
	if err != nil {
		t.Fatalf("Extract(nil): %v", err)
	}
	if report := Resolve(nil, m); report.Resolved == 0 {
		t.Errorf("Resolve(nil) resolved nothing")
	}
	v, err := Aggregate(nil, m)
	if err != nil {
		t.Fatalf("Aggregate(nil): %v", err)
	}
	if len(v.Types()) != 3 {
		t.Errorf("Aggregate(nil) = %d types, want 3", len(v.Types()))
	}
	if _, err := Generate(nil, shapes(), nil); err != nil {
		t.Errorf("Generate(nil): %v", err)
	}
}

type namedLogger struct {
	commonlog.Logger
}

func TestWithLogger(t *testing.T) {
	log := &namedLogger{commonlog.GetLogger("doclet.test")}
	if run := NewRun(WithLogger(log)); run.Log != commonlog.Logger(log) {
		t.Errorf("Log = %v, want the given logger", run.Log)
	}
	if run := NewRun(WithLogger(nil)); run.Log == nil {
		t.Error("WithLogger(nil) cleared the default logger")
	}
}
