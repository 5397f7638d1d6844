// Package token defines the lexical token kinds shared by the scanner and
// parser. The naming and "don't store what you can recompute" philosophy
// follows the teacher's pkg/compiler/token.go, generalized to Curv's
// whitespace-sensitive grammar (spec.md §3, §4.1).
package token

import "fmt"

// Kind identifies the category of a lexed Token.
type Kind int

const (
	EOF Kind = iota // sentinel: end of input

	BadToken // a byte that started no valid token
	BadUTF8  // an invalid UTF-8 byte sequence

	Identifier
	Numeral
	StringSegment // one literal run of a (possibly interpolated) string

	// Punctuation is a catch-all kind; the exact operator/delimiter is
	// recovered from the token's source text (spec.md §3: "Token...kind
	// enum (... punctuation ...)"; the scanner never needs a distinct
	// kind per punctuation mark because the parser dispatches on lexeme).
	Punctuation

	// PhraseSpan is a synthetic token kind used by Location values that
	// were widened to cover a sub-tree (`starting_at`/`ending_at`) rather
	// than a single lexed token.
	PhraseSpan
)

var names = [...]string{
	EOF:           "EOF",
	BadToken:      "bad-token",
	BadUTF8:       "bad-utf8",
	Identifier:    "identifier",
	Numeral:       "numeral",
	StringSegment: "string",
	Punctuation:   "punctuation",
	PhraseSpan:    "phrase-span",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is three byte offsets into a Source plus a Kind (spec.md §3).
// Line and column are never stored; pkg/location recomputes them on demand
// by scanning from the start of the Source.
type Token struct {
	Kind Kind

	// WhitespaceFirst is the offset of the first byte of whitespace/line
	// comment preceding this token (== First if there was none). Keeping
	// this lets attributes hidden in comments be retrieved later
	// (spec.md §4.1).
	WhitespaceFirst int
	First           int // offset of the token's first byte
	Last            int // offset one past the token's last byte
}

// Text extracts the exact token text (excluding leading whitespace) from
// src, which must be the byte slice this Token's offsets were computed
// against.
func (t Token) Text(src []byte) string {
	return string(src[t.First:t.Last])
}
