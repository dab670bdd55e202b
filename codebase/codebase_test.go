package codebase

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/doclet/doc"
)

const baseSource = `package com.example;

/** The base shape. */
public class Base {
    /** Returns the area. */
    public double area() { return 0; }
}
`

const derivedSource = `package com.example;

/** Uses {@link Base#area()} and {@link Missing}. */
public class Derived extends Base {
    public double area() { return 1; }
}
`

func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pkg := filepath.Join(dir, "src", "com", "example")
	if err := os.MkdirAll(pkg, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{"Base.java": baseSource, "Derived.java": derivedSource} {
		if err := os.WriteFile(filepath.Join(pkg, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func rebuild(t *testing.T, c *Codebase) *Snapshot {
	t.Helper()
	snap, err := c.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return snap
}

func TestCodebaseRebuild(t *testing.T) {
	c := New([]string{workspace(t)})
	if c.Snapshot() != nil {
		t.Fatal("Snapshot() before the first build is not nil")
	}
	snap := rebuild(t, c)
	if c.Snapshot() != snap {
		t.Errorf("Snapshot() is not the latest build")
	}
	for _, name := range []doc.QualifiedName{"com.example.Base", "com.example.Derived#area()"} {
		if _, ok := snap.Result.Model.Lookup(name); !ok {
			t.Errorf("model has no %s", name)
		}
	}
}

func TestCodebaseOverlay(t *testing.T) {
	dir := workspace(t)
	c := New([]string{dir})
	path := filepath.Join(dir, "src", "com", "example", "Derived.java")
	c.UpdateFile(path, []byte(strings.Replace(derivedSource, "double area()", "double area(int scale)", 1)))

	snap := rebuild(t, c)
	if _, ok := snap.Result.Model.Lookup("com.example.Derived#area(int)"); !ok {
		t.Errorf("overlay contents were not built: %v", snap.Result.Model.Names())
	}
	content, _ := c.File(path)
	if !strings.Contains(string(content), "area(int scale)") {
		t.Errorf("File() = %q, want the overlay", content)
	}

	c.CloseFile(path)
	snap = rebuild(t, c)
	if _, ok := snap.Result.Model.Lookup("com.example.Derived#area()"); !ok {
		t.Errorf("closed file was not read from disk again")
	}
}

func TestCodebaseFailedBuildKeepsSnapshot(t *testing.T) {
	dir := workspace(t)
	c := New([]string{dir})
	good := rebuild(t, c)

	bad := filepath.Join(dir, "broken.yaml")
	c.UpdateFile(bad, []byte("packages: ["))
	if _, err := c.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild() succeeded with a broken model file")
	}
	if c.Snapshot() != good {
		t.Errorf("failed build replaced the snapshot")
	}
	if c.Err() == nil {
		t.Errorf("Err() = nil after a failed build")
	}

	c.CloseFile(bad)
	rebuild(t, c)
	if c.Err() != nil {
		t.Errorf("Err() = %v after a successful build", c.Err())
	}
}

func TestCodebaseDescribe(t *testing.T) {
	c := New([]string{workspace(t)})
	rebuild(t, c)

	tests := []struct {
		ref   string
		scope doc.QualifiedName
		want  string
	}{
		{"com.example.Base", "", "The base shape."},
		{"area()", "com.example.Derived", "Returns the area."},
		{"Base#area()", "com.example.Derived", "Returns the area."},
		{"Base", "com.example", "The base shape."},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := c.Describe(tt.ref, tt.scope)
			if !ok {
				t.Fatalf("Describe(%q, %q) found nothing", tt.ref, tt.scope)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Describe() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
	if _, ok := c.Describe("Missing", "com.example.Derived"); ok {
		t.Errorf("Describe(%q) found an entity", "Missing")
	}
}

func TestCodebaseSearch(t *testing.T) {
	c := New([]string{workspace(t)})
	rebuild(t, c)

	names := func(es []*doc.DocEntity) []doc.QualifiedName {
		var out []doc.QualifiedName
		for _, e := range es {
			out = append(out, e.Name)
		}
		return out
	}
	tests := []struct {
		query string
		limit int
		want  []doc.QualifiedName
	}{
		{"area", 0, []doc.QualifiedName{"com.example.Base#area()", "com.example.Derived#area()"}},
		{"DERIV", 0, []doc.QualifiedName{"com.example.Derived", "com.example.Derived#area()"}},
		{"derived", 1, []doc.QualifiedName{"com.example.Derived"}},
		{"nothing", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := names(c.Search(tt.query, tt.limit)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q, %d) = %v, want %v", tt.query, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCodebaseUnresolved(t *testing.T) {
	c := New([]string{workspace(t)})
	if got := c.Unresolved(); got != nil {
		t.Errorf("Unresolved() before a build = %v", got)
	}
	rebuild(t, c)
	want := []doc.MissingRef{{Owner: "com.example.Derived", Text: "Missing"}}
	if got := c.Unresolved(); !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved() = %v, want %v", got, want)
	}
}
