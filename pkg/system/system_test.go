package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/value"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestImport_CurvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.curv", "2 + 3")

	sys := New()
	v, err := sys.Import(path, location.Location{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	n, ok := v.Num()
	if !ok || n != 5 {
		t.Errorf("Import(a.curv) = %v, want 5", v.Print())
	}
}

func TestImport_CachesByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.curv", "1 + 1")

	sys := New()
	first, err := sys.Import(path, location.Location{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	second, err := sys.Import(path, location.Location{})
	if err != nil {
		t.Fatalf("second Import failed: %v", err)
	}
	if !first.Equal(second) {
		t.Error("expected repeated imports of the same path to agree")
	}
}

func TestImport_CycleDetected(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.loop", "")

	sys := New()
	sys.RegisterImporter(".loop", func(s *System, p string, loc location.Location) (value.Value, error) {
		return s.Import(p, loc) // re-enters Import on the same path while it's still active
	})
	if _, err := sys.Import(path, location.Location{}); err == nil {
		t.Fatal("expected an include cycle error")
	}
}

func TestImport_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.curv", "2 + 2")
	writeFile(t, dir, "b.curv", "10 - 1")

	sys := New()
	v, err := sys.Import(dir, location.Location{})
	if err != nil {
		t.Fatalf("Import(dir) failed: %v", err)
	}
	ref, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a record result, got %v", v.Print())
	}
	rec, ok := ref.(*value.Record)
	if !ok {
		t.Fatalf("expected *value.Record, got %T", ref)
	}
	a, ok := rec.Get("a")
	if !ok {
		t.Fatal("expected a field named \"a\"")
	}
	if n, _ := a.Num(); n != 4 {
		t.Errorf("a = %v, want 4", a.Print())
	}
	b, ok := rec.Get("b")
	if !ok {
		t.Fatal("expected a field named \"b\"")
	}
	if n, _ := b.Num(); n != 9 {
		t.Errorf("b = %v, want 9", b.Print())
	}
}

func TestImport_GPUValueBundle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.gpu", `{"value": 42}`)

	sys := New()
	v, err := sys.Import(path, location.Location{})
	if err != nil {
		t.Fatalf("Import(.gpu) failed: %v", err)
	}
	n, ok := v.Num()
	if !ok || n != 42 {
		t.Errorf("Import(.gpu value bundle) = %v, want 42", v.Print())
	}
}

func TestImport_GPUShapeBundle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.gpu", `{"shape": {
		"is_2d": false, "is_3d": true,
		"bbox": [[-1,-1,-1],[1,1,1]],
		"shader": "float dist(vec3 p) { return length(p) - 1.0; }"
	}}`)

	sys := New()
	v, err := sys.Import(path, location.Location{})
	if err != nil {
		t.Fatalf("Import(.gpu shape bundle) failed: %v", err)
	}
	ref, ok := v.RefValue()
	if !ok {
		t.Fatalf("expected a record result, got %v", v.Print())
	}
	rec := ref.(*value.Record)
	is3d, ok := rec.Get("is_3d")
	if !ok {
		t.Fatal("expected an is_3d field")
	}
	if b, _ := is3d.Bool(); !b {
		t.Error("expected is_3d = true")
	}
	shader, ok := rec.Get("shader")
	if !ok {
		t.Fatal("expected a shader field")
	}
	sref, _ := shader.RefValue()
	if sref.(*value.String).Text == "" {
		t.Error("expected non-empty shader text")
	}
}

func TestReportError_WritesToErrorSink(t *testing.T) {
	var buf testWriter
	sys := New()
	sys.SetErrorOutput(&buf)
	sys.ReportError(os.ErrNotExist)
	if buf.String() == "" {
		t.Error("expected ReportError to write to the configured error sink")
	}
}

type testWriter struct{ data []byte }

func (w *testWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
func (w *testWriter) String() string { return string(w.data) }
