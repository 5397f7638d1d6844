// Package system implements Curv's host embedding context (spec.md §6
// GLOSSARY "System"): the builtin namespace, the file/directory importer
// table keyed by extension, the active-file set used to reject cyclic
// `include`s, an error sink, and a tempfile registry. Every one of these
// lives on an *Impl value rather than behind package-level globals, per
// spec.md §9's "Global state" resolution ("kept inside System_Impl, not as
// true globals, so multiple embedded instances can coexist").
//
// Grounded on `original_source/curv/system.cc`'s stdlib-bootstrap shape
// (a System wraps a builtin namespace plus an ostream error sink) and on
// the teacher's `pkg/cpu/peripheral.go` registry-by-name pattern
// (`RegisterPeripheral`/`PeripheralFactory` keyed by a string), here
// generalized to "importer factory keyed by lowercase file extension".
package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/curv-lang/curv/pkg/analyser"
	"github.com/curv-lang/curv/pkg/builtin"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/parser"
	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/value"
)

// Viewer is the small interface spec.md §1 leaves the OpenGL viewer window
// behind: Curv's language core only ever needs to hand a compiled shape to
// something that can display it, never to drive a window itself. No
// implementation of this interface lives in this module (see DESIGN.md:
// the viewer is explicitly out of scope), but the host-embedding seam is
// still named here so `System` has somewhere to hold one.
type Viewer interface {
	Show(shader string, isGLSL bool) error
}

// Importer loads the member named by path (already resolved relative to
// the importing file) and returns the Value it denotes.
type Importer func(sys *System, path string, loc location.Location) (value.Value, error)

// System is the host embedding context threaded through compilation:
// builtin namespace, importers, cycle detection, error sink, tempfiles.
type System struct {
	mu sync.Mutex

	builtins map[string]value.Value
	// importers maps a lowercase file extension (including the leading
	// dot, "" for a directory) to the Importer that handles it. A file
	// with an unknown extension, or with none, uses importers[".curv"]
	// (spec.md §6 "unknown extension defaults to curv").
	importers map[string]Importer

	active map[string]bool // canonical paths currently being imported
	cache  map[string]value.Value

	errOut io.Writer
	deprecationsWarned map[string]bool

	tempfiles []string

	viewer Viewer
}

// New constructs a System seeded with the builtin root namespace
// (pkg/builtin.Root) and the standard `.curv`/`.gpu`/directory importers.
func New() *System {
	s := &System{
		builtins:            builtin.Root(),
		importers:           map[string]Importer{},
		active:              map[string]bool{},
		cache:               map[string]value.Value{},
		errOut:              os.Stderr,
		deprecationsWarned:  map[string]bool{},
	}
	s.importers[".curv"] = importCurv
	s.importers[".gpu"] = importGPU
	s.importers[""] = importDirectory
	return s
}

// SetViewer installs the host's shape viewer (spec.md §1 out-of-scope
// collaborator); nil is the default, meaning no viewer is available.
func (s *System) SetViewer(v Viewer) { s.viewer = v }

// SetErrorOutput redirects the error sink (defaults to os.Stderr),
// spec.md §6 "error sink".
func (s *System) SetErrorOutput(w io.Writer) { s.errOut = w }

// ReportError writes a diagnostic to the error sink, the one place this
// package performs I/O outside of file loading, matching the teacher's
// rule that only `main`/`cmd` packages call `fmt.Fprintln(os.Stderr, ...)`
// — `System` is the single seam library code funnels errors through
// before they reach that boundary.
func (s *System) ReportError(err error) {
	fmt.Fprintln(s.errOut, err)
}

// Builtins returns the root namespace map, consumed by analyser.Root.
func (s *System) Builtins() map[string]value.Value { return s.builtins }

// RegisterImporter adds or overrides the Importer for ext (lowercase,
// with leading dot); host programs use this to add e.g. a `.png` importer
// without this package needing to depend on an image-decoding library.
func (s *System) RegisterImporter(ext string, imp Importer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importers[strings.ToLower(ext)] = imp
}

// RegisterTempFile records path for cleanup by Cleanup, spec.md §4.4
// "Temporary files created for shape export are registered and removed on
// process exit."
func (s *System) RegisterTempFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempfiles = append(s.tempfiles, path)
}

// Cleanup removes every registered tempfile, best-effort.
func (s *System) Cleanup() {
	s.mu.Lock()
	files := append([]string(nil), s.tempfiles...)
	s.tempfiles = nil
	s.mu.Unlock()
	for _, f := range files {
		os.Remove(f)
	}
}

// WarnDeprecatedOnce logs name's deprecation message the first time it is
// used by this System instance, then stays silent — per-instance state,
// not a process global (spec.md §9).
func (s *System) WarnDeprecatedOnce(name, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deprecationsWarned[name] {
		return
	}
	s.deprecationsWarned[name] = true
	fmt.Fprintf(s.errOut, "warning: %s is deprecated: %s\n", name, message)
}

// Interrupted always reports false: this implementation has no
// cancellation signal wired in yet, but satisfies eval.Interrupter so a
// System can be installed directly on an eval.Frame (spec.md §5).
func (s *System) Interrupted() bool { return false }

// Import resolves path (relative to the importing file when not
// absolute) and returns the Value it denotes, caching by canonical path
// and rejecting import cycles via the active-file set (supplemented
// feature recovered from `original_source`'s module cache, not named
// explicitly by spec.md but implied by "every Scanner and Program owns
// its Source by shared reference"). This is the function wired as
// analyser.Root.Include.
func (s *System) Import(path string, loc location.Location) (value.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return value.Value{}, err
	}

	s.mu.Lock()
	if v, ok := s.cache[abs]; ok {
		s.mu.Unlock()
		return v, nil
	}
	if s.active[abs] {
		s.mu.Unlock()
		return value.Value{}, fmt.Errorf("include cycle detected at %s", path)
	}
	s.active[abs] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.active, abs)
		s.mu.Unlock()
	}()

	info, err := os.Stat(abs)
	if err != nil {
		return value.Value{}, err
	}
	ext := ""
	if !info.IsDir() {
		ext = strings.ToLower(filepath.Ext(abs))
		if ext == "" {
			ext = ".curv"
		}
	}
	imp, ok := s.importers[ext]
	if !ok {
		imp = s.importers[".curv"]
	}
	v, err := imp(s, abs, loc)
	if err != nil {
		return value.Value{}, err
	}

	s.mu.Lock()
	s.cache[abs] = v
	s.mu.Unlock()
	return v, nil
}

// importCurv parses and evaluates a `.curv` file as a standalone program
// (spec.md §6).
func importCurv(sys *System, path string, loc location.Location) (value.Value, error) {
	src, err := source.FromFile(path)
	if err != nil {
		return value.Value{}, err
	}
	prog, err := parser.ParseProgram(src)
	if err != nil {
		return value.Value{}, err
	}
	root := &analyser.Root{Builtins: sys.builtins, Include: sys.Import}
	env := analyser.NewModuleEnviron(nil, root)
	op, err := analyser.Analyse(env, prog)
	if err != nil {
		return value.Value{}, err
	}
	frame := eval.NewFrame(nil, location.Location{}, nil, env.NSlots())
	frame.System = sys
	return op.Eval(frame)
}

// importDirectory loads every sorted member of a directory as a record
// field named after its filename stem (spec.md §6 "directory record").
func importDirectory(sys *System, path string, loc location.Location) (value.Value, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return value.Value{}, err
	}
	rec := value.NewRecord()
	for _, e := range entries {
		member := filepath.Join(path, e.Name())
		v, err := sys.Import(member, loc)
		if err != nil {
			continue // an unreadable/unparsable member is skipped, spec.md §6 soft-failure posture
		}
		rec.Set(source.Stem(e.Name()), v)
	}
	return value.Ref(rec), nil
}
