// Package location implements Location / Source-Range values: a
// (Source, Token) pair that can be widened around a parse sub-tree and
// whose line/column is recomputed on demand (spec.md §3).
package location

import (
	"fmt"

	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/token"
)

// Location is a source range: a Source plus the Token (or synthetic span)
// it covers.
type Location struct {
	Source *source.Source
	Tok    token.Token
}

// New builds a Location for a single scanned Token.
func New(src *source.Source, tok token.Token) Location {
	return Location{Source: src, Tok: tok}
}

// StartingAt returns a Location that starts where other starts and ends
// where this Location ends, widening this Location to cover a larger
// sub-tree (spec.md §3 "supports starting_at, ending_at").
func (l Location) StartingAt(other Location) Location {
	return Location{
		Source: l.Source,
		Tok: token.Token{
			Kind:            token.PhraseSpan,
			WhitespaceFirst: other.Tok.WhitespaceFirst,
			First:           other.Tok.First,
			Last:            l.Tok.Last,
		},
	}
}

// EndingAt returns a Location that starts where this Location starts and
// ends where other ends.
func (l Location) EndingAt(other Location) Location {
	return Location{
		Source: l.Source,
		Tok: token.Token{
			Kind:            token.PhraseSpan,
			WhitespaceFirst: l.Tok.WhitespaceFirst,
			First:           l.Tok.First,
			Last:            other.Tok.Last,
		},
	}
}

// Text returns the exact source text covered by this Location.
func (l Location) Text() string {
	if l.Source == nil {
		return ""
	}
	return l.Tok.Text(l.Source.Bytes)
}

// LineInfo is the 1-based line/column computed by scanning from the start
// of the Source (spec.md §3: "Line and column are never stored... they are
// recomputed from offsets on demand").
type LineInfo struct {
	Line, Column       int
	EndLine, EndColumn int
}

func lineColAt(data []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// LineInfo computes the start/end line and column of this Location.
func (l Location) LineInfo() LineInfo {
	if l.Source == nil {
		return LineInfo{}
	}
	sl, sc := lineColAt(l.Source.Bytes, l.Tok.First)
	el, ec := lineColAt(l.Source.Bytes, l.Tok.Last)
	return LineInfo{Line: sl, Column: sc, EndLine: el, EndColumn: ec}
}

// String renders "<name>:<line>.<col>" for use in diagnostic output.
func (l Location) String() string {
	if l.Source == nil {
		return "<no location>"
	}
	li := l.LineInfo()
	return fmt.Sprintf("%s:%d.%d", l.Source.Name, li.Line, li.Column)
}

// IsNull reports whether this Location carries no Source.
func (l Location) IsNull() bool { return l.Source == nil }
