// Package source holds the immutable (name, bytes) pairs that every token,
// location and diagnostic ultimately points back into.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind distinguishes how a Source's bytes should be imported.
type Kind int

const (
	// KindCurv is plain ".curv" program text (the default for unknown
	// extensions, per spec.md §6).
	KindCurv Kind = iota
	// KindGPU is a cached compiled shape+shader bundle serialised as JSON.
	KindGPU
	// KindDirectory is a directory whose members become record fields.
	KindDirectory
)

// Source is an immutable blob of UTF-8 bytes plus a display name and a
// Kind. Ownership: shared by every Scanner and Location that references it.
type Source struct {
	Name  string
	Bytes []byte
	Kind  Kind

	// Members holds, for KindDirectory sources, the sorted-by-filename
	// child sources. Non-curv/gpu extensions are still recorded here;
	// the importer table (pkg/system) decides how to interpret each.
	Members []*Source
}

// FromBytes wraps an in-memory byte slice (e.g. a `-x` expression, or a
// string passed to `file`) as a Source.
func FromBytes(name string, data []byte, kind Kind) *Source {
	return &Source{Name: name, Bytes: data, Kind: kind}
}

// FromString is a convenience wrapper for FromBytes over a Go string.
func FromString(name, text string, kind Kind) *Source {
	return FromBytes(name, []byte(text), kind)
}

// kindForExt maps a lowercase file extension to its Kind. Unknown
// extensions default to KindCurv, per spec.md §6.
func kindForExt(ext string) Kind {
	switch strings.ToLower(ext) {
	case ".gpu":
		return KindGPU
	default:
		return KindCurv
	}
}

// Stem returns the filename without its directory or extension, used as
// the record field name for a directory member (spec.md §6).
func Stem(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// FromFile loads path as a Source. A directory path is loaded recursively,
// member files sorted by filename (mirrors the teacher's
// VirtualDisk.List() sorted-directory-listing rule).
func FromFile(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return fromDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{
		Name:  path,
		Bytes: data,
		Kind:  kindForExt(filepath.Ext(path)),
	}, nil
}

func fromDir(path string) (*Source, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	byName := make(map[string]os.DirEntry, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
		byName[e.Name()] = e
	}
	sort.Strings(names)

	dir := &Source{Name: path, Kind: KindDirectory}
	for _, name := range names {
		e := byName[name]
		child, err := FromFile(filepath.Join(path, name))
		if err != nil {
			continue // unreadable member is skipped, not fatal
		}
		if e.IsDir() {
			child.Kind = KindDirectory
		}
		dir.Members = append(dir.Members, child)
	}
	return dir, nil
}

// Text returns the Source bytes as a string.
func (s *Source) Text() string { return string(s.Bytes) }
