package analyser

import (
	"strconv"
	"strings"

	"github.com/curv-lang/curv/pkg/diag"
	"github.com/curv-lang/curv/pkg/eval"
	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/phrase"
	"github.com/curv-lang/curv/pkg/value"
)

// parseNumeral parses the scanner's raw numeral text (spec.md §4.1: the
// scanner only recognises the shape, the analyser gives it meaning).
func parseNumeral(text string, loc location.Location) (float64, error) {
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, diag.New("invalid numeral " + strconv.Quote(text)).At(diag.AtPhrase{Loc: loc})
	}
	return n, nil
}

// compileString compiles a (possibly interpolated) string literal.
// Segments with no interpolation at all fold to a single Constant;
// anything else becomes a StringInterp.
func compileString(env *Environ, s *phrase.String) (eval.Operation, error) {
	parts := make([]eval.Operation, 0, len(s.Segments))
	allLiteral := true
	for _, seg := range s.Segments {
		if seg.Interpolate != nil {
			allLiteral = false
			sub, err := Analyse(env, seg.Interpolate)
			if err != nil {
				return nil, err
			}
			parts = append(parts, sub)
		} else {
			parts = append(parts, eval.NewConstant(seg.Location(), value.Ref(value.NewString(seg.Literal))))
		}
	}
	if allLiteral {
		var b strings.Builder
		for _, seg := range s.Segments {
			b.WriteString(seg.Literal)
		}
		return eval.NewConstant(s.Location(), value.Ref(value.NewString(b.String()))), nil
	}
	return eval.NewStringInterp(s.Location(), parts), nil
}

// literalString extracts the plain text of a string phrase with no
// interpolation, the form `include` requires for its path argument since
// the import must resolve at analysis time (spec.md §6, documented as a
// simplification in DESIGN.md: libcurv allows richer compile-time string
// folding here).
func literalString(p phrase.Phrase) (string, bool) {
	s, ok := p.(*phrase.String)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for _, seg := range s.Segments {
		if seg.Interpolate != nil {
			return "", false
		}
		b.WriteString(seg.Literal)
	}
	return b.String(), true
}
