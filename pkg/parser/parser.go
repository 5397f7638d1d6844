// Package parser implements Curv's Pratt-style recursive-descent parser
// (spec.md §4.2): a precedence-climbing expression grammar plus the
// `let/where/if/do/for/while/parametric/include` compound forms, producing
// a phrase.Phrase tree that preserves every token.
//
// Structurally grounded on the teacher's pkg/compiler/parser.go
// (peek/peekNext/advance/expect helpers, one parseX method per precedence
// level calling the next-tighter level and looping while the current
// token matches that level's operators) generalized to Curv's operator
// table and juxtaposition-as-application syntax.
package parser

import (
	"fmt"

	"github.com/curv-lang/curv/pkg/location"
	"github.com/curv-lang/curv/pkg/phrase"
	"github.com/curv-lang/curv/pkg/scanner"
	"github.com/curv-lang/curv/pkg/source"
	"github.com/curv-lang/curv/pkg/token"
)

// Parser holds all state for a single parse of a token stream.
type Parser struct {
	src    *source.Source
	sc     *scanner.Scanner
	tokens []token.Token
	pos    int
}

// New tokenises src completely (the parser never performs semantic checks,
// only needs lookahead) and returns a ready Parser.
func New(src *source.Source) *Parser {
	sc := scanner.New(src)
	var toks []token.Token
	for {
		t := sc.GetToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return &Parser{src: src, sc: sc, tokens: toks}
}

func (p *Parser) peek() token.Token { return p.peekAt(0) }

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) text(t token.Token) string { return t.Text(p.src.Bytes) }

func (p *Parser) loc(t token.Token) location.Location { return location.New(p.src, t) }

// ParseError is a syntax error raised while parsing.
type ParseError struct {
	Message  string
	Location location.Location
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func (p *Parser) errorf(t token.Token, format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Location: p.loc(t)}
}

func (p *Parser) isPunct(t token.Token, lexeme string) bool {
	return t.Kind == token.Punctuation && p.text(t) == lexeme
}

func (p *Parser) isIdent(t token.Token, name string) bool {
	return t.Kind == token.Identifier && p.text(t) == name
}

func (p *Parser) expectPunct(lexeme string) (token.Token, error) {
	t := p.peek()
	if !p.isPunct(t, lexeme) {
		return t, p.errorf(t, "expected %q, got %q", lexeme, p.text(t))
	}
	return p.advance(), nil
}

// ParseProgram parses the whole Source as a single top-level body wrapped
// in a Program_Phrase (spec.md §4.2).
func ParseProgram(src *source.Source) (*phrase.Program, error) {
	p := New(src)
	start := p.peek()
	body, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	end := p.peek()
	if end.Kind != token.EOF {
		return nil, p.errorf(end, "unexpected token %q", p.text(end))
	}
	loc := p.loc(start).EndingAt(p.loc(end))
	return phrase.NewProgram(loc, body), nil
}

// parseSemicolonSeq parses `stmt ; stmt ; ...` (lowest precedence,
// spec.md §4.2 `;` statements).
func (p *Parser) parseSemicolonSeq() (phrase.Phrase, error) {
	first, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	elems := []phrase.Phrase{first}
	start := first.Location()
	last := first.Location()
	for p.isPunct(p.peek(), ";") {
		p.advance()
		if p.atSequenceEnd() {
			break
		}
		next, err := p.parseCompoundOrExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
		last = next.Location()
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	return phrase.NewSemicolonList(start.EndingAt(last), elems), nil
}

func (p *Parser) atSequenceEnd() bool {
	t := p.peek()
	return t.Kind == token.EOF || p.isPunct(t, ")") || p.isPunct(t, "]") || p.isPunct(t, "}")
}

// parseCompoundOrExpr dispatches the keyword-introduced compound forms,
// falling through to ordinary expression parsing (spec.md §4.2's lowest
// grammar tier: let/where/if/do/for/while/parametric/include).
func (p *Parser) parseCompoundOrExpr() (phrase.Phrase, error) {
	t := p.peek()
	switch {
	case p.isIdent(t, "let"):
		return p.parseLet()
	case p.isIdent(t, "if"):
		return p.parseIf()
	case p.isIdent(t, "do"):
		return p.parseDo()
	case p.isIdent(t, "for"):
		return p.parseFor()
	case p.isIdent(t, "while"):
		return p.parseWhile()
	case p.isIdent(t, "parametric"):
		return p.parseParametric()
	case p.isIdent(t, "include"):
		return p.parseInclude()
	default:
		return p.parseWhereSuffixed()
	}
}

// parseWhereSuffixed parses an expression, then an optional trailing
// `where Defs` (spec.md §4.2).
func (p *Parser) parseWhereSuffixed() (phrase.Phrase, error) {
	body, err := p.parseDefinitionOrExpr()
	if err != nil {
		return nil, err
	}
	if p.isIdent(p.peek(), "where") {
		p.advance()
		defs, err := p.parseSemicolonSeq()
		if err != nil {
			return nil, err
		}
		return phrase.NewWhere(body.Location().EndingAt(defs.Location()), body, defs), nil
	}
	return body, nil
}

// parseDefinitionOrExpr parses `Target = Value`, `Target := Value`, or a
// plain expression (spec.md §3 Assignment, Definition).
func (p *Parser) parseDefinitionOrExpr() (phrase.Phrase, error) {
	left, err := p.parseLambda()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if p.isPunct(t, "=") {
		p.advance()
		value, err := p.parseCompoundOrExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewDefinition(left.Location().EndingAt(value.Location()), left, value), nil
	}
	if p.isPunct(t, ":=") {
		p.advance()
		value, err := p.parseCompoundOrExpr()
		if err != nil {
			return nil, err
		}
		return phrase.NewAssignment(left.Location().EndingAt(value.Location()), left, value), nil
	}
	return left, nil
}

func (p *Parser) parseLet() (phrase.Phrase, error) {
	start := p.advance() // "let"
	defs, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	if p.isIdent(p.peek(), "in") {
		p.advance()
	} else {
		t := p.peek()
		return nil, p.errorf(t, "expected 'in', got %q", p.text(t))
	}
	body, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewLet(p.loc(start).EndingAt(body.Location()), defs, body), nil
}

func (p *Parser) parseIf() (phrase.Phrase, error) {
	start := p.advance() // "if"
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	var els phrase.Phrase = phrase.NewEmpty(then.Location())
	end := then.Location()
	if p.isIdent(p.peek(), "else") {
		p.advance()
		els, err = p.parseCompoundOrExpr()
		if err != nil {
			return nil, err
		}
		end = els.Location()
	}
	return phrase.NewIf(p.loc(start).EndingAt(end), cond, then, els), nil
}

func (p *Parser) parseDo() (phrase.Phrase, error) {
	start := p.advance() // "do"
	actions, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	if p.isIdent(p.peek(), "in") {
		p.advance()
	}
	body, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewDo(p.loc(start).EndingAt(body.Location()), actions, body), nil
}

func (p *Parser) parseFor() (phrase.Phrase, error) {
	start := p.advance() // "for"
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	pat, err := p.parseLambda()
	if err != nil {
		return nil, err
	}
	if !p.isIdent(p.peek(), "in") {
		t := p.peek()
		return nil, p.errorf(t, "expected 'in' in for-clause")
	}
	p.advance()
	seq, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewFor(p.loc(start).EndingAt(body.Location()), pat, seq, body), nil
}

func (p *Parser) parseWhile() (phrase.Phrase, error) {
	start := p.advance() // "while"
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewWhile(p.loc(start).EndingAt(body.Location()), cond, body), nil
}

func (p *Parser) parseParametric() (phrase.Phrase, error) {
	start := p.advance() // "parametric"
	params, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	if p.isIdent(p.peek(), "in") {
		p.advance()
	}
	body, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	return phrase.NewParametric(p.loc(start).EndingAt(body.Location()), params, body), nil
}

func (p *Parser) parseInclude() (phrase.Phrase, error) {
	start := p.advance() // "include"
	arg, err := p.parseLambda()
	if err != nil {
		return nil, err
	}
	return phrase.NewInclude(p.loc(start).EndingAt(arg.Location()), arg), nil
}

// parseLambda handles `Params -> Body` (lowest of the ordinary-expression
// tiers, spec.md §4.2).
func (p *Parser) parseLambda() (phrase.Phrase, error) {
	left, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	if p.isPunct(p.peek(), "->") {
		p.advance()
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return phrase.NewLambda(left.Location().EndingAt(body.Location()), left, body), nil
	}
	return left, nil
}

// parseCommaList handles `,`-separated lists used inside [] () {} and as
// multi-parameter lambda patterns.
func (p *Parser) parseCommaList() (phrase.Phrase, error) {
	first, err := p.parseFieldLevel()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(p.peek(), ",") {
		return first, nil
	}
	elems := []phrase.Phrase{first}
	last := first.Location()
	for p.isPunct(p.peek(), ",") {
		p.advance()
		if p.atSequenceEnd() || p.isPunct(p.peek(), "->") {
			break
		}
		next, err := p.parseFieldLevel()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
		last = next.Location()
	}
	return phrase.NewCommaList(first.Location().EndingAt(last), elems), nil
}

// parseFieldLevel handles `key : value` record-field syntax and
// `pattern => body` piecewise-function match arms (spec.md §4.2).
func (p *Parser) parseFieldLevel() (phrase.Phrase, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if p.isPunct(t, ":") {
		p.advance()
		right, err := p.parseFieldLevel()
		if err != nil {
			return nil, err
		}
		return phrase.NewBinary(left.Location().EndingAt(right.Location()), ":", left, right), nil
	}
	if p.isPunct(t, "=>") {
		p.advance()
		right, err := p.parseFieldLevel()
		if err != nil {
			return nil, err
		}
		return phrase.NewBinary(left.Location().EndingAt(right.Location()), "=>", left, right), nil
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (phrase.Phrase, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.isPunct(p.peek(), "||") {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinary(left.Location().EndingAt(right.Location()), "||", left, right)
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (phrase.Phrase, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.isPunct(p.peek(), "&&") {
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinary(left.Location().EndingAt(right.Location()), "&&", left, right)
	}
	return left, nil
}

var relOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *Parser) parseRelational() (phrase.Phrase, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		matched := ""
		for _, op := range relOps {
			if p.isPunct(t, op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return left, nil
		}
		p.advance()
		right, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		left = phrase.NewBinary(left.Location().EndingAt(right.Location()), matched, left, right)
	}
}

// parseRange handles `lo..hi`, binding tighter than comparison so
// `1..3 == x` parses as `(1..3) == x`, looser than `+`/`-` so the bounds
// can be arithmetic expressions (spec.md §8 scenario 2: `for (i in 1..3) i*i`).
func (p *Parser) parseRange() (phrase.Phrase, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.isPunct(p.peek(), "..") {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return phrase.NewBinary(left.Location().EndingAt(right.Location()), "..", left, right), nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (phrase.Phrase, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if p.isPunct(t, "+") || p.isPunct(t, "-") {
			op := p.text(t)
			p.advance()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = phrase.NewBinary(left.Location().EndingAt(right.Location()), op, left, right)
			continue
		}
		return left, nil
	}
}

func (p *Parser) parseMultiplicative() (phrase.Phrase, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if p.isPunct(t, "*") || p.isPunct(t, "/") {
			op := p.text(t)
			p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = phrase.NewBinary(left.Location().EndingAt(right.Location()), op, left, right)
			continue
		}
		return left, nil
	}
}

// parsePower handles `^`, right-associative.
func (p *Parser) parsePower() (phrase.Phrase, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.isPunct(p.peek(), "^") {
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return phrase.NewBinary(left.Location().EndingAt(right.Location()), "^", left, right), nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (phrase.Phrase, error) {
	t := p.peek()
	if p.isPunct(t, "-") || p.isPunct(t, "+") || p.isPunct(t, "!") {
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return phrase.NewUnary(p.loc(t).EndingAt(arg.Location()), p.text(t), arg), nil
	}
	return p.parsePostfix()
}

// parsePostfix handles application-by-juxtaposition and `.field`/`[index]`
// indexing, the highest-precedence tier (spec.md §4.2).
func (p *Parser) parsePostfix() (phrase.Phrase, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case p.isPunct(t, "."):
			p.advance()
			nameTok := p.advance()
			if nameTok.Kind != token.Identifier {
				return nil, p.errorf(nameTok, "expected field name after '.'")
			}
			id := phrase.NewIdentifier(p.loc(nameTok), p.text(nameTok))
			left = phrase.NewIndex(left.Location().EndingAt(id.Location()), left, id, true)
		case p.isPunct(t, "[") && t.WhitespaceFirst == t.First:
			// `a[i]` indexes; `f [x]` (whitespace before `[`) is application.
			p.advance()
			idx, err := p.parseSemicolonSeq()
			if err != nil {
				return nil, err
			}
			end, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			left = phrase.NewIndex(left.Location().EndingAt(p.loc(end)), left, idx, false)
		case p.startsApplicationArg(t):
			arg, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = phrase.NewCall(left.Location().EndingAt(arg.Location()), left, arg)
		default:
			return left, nil
		}
	}
}

// startsApplicationArg reports whether t can begin a juxtaposed-application
// argument: an identifier, literal, or opening bracket, but not an
// operator or a keyword that introduces the next statement.
func (p *Parser) startsApplicationArg(t token.Token) bool {
	switch t.Kind {
	case token.Identifier:
		switch p.text(t) {
		case "in", "else", "where", "then":
			return false
		}
		return true
	case token.Numeral, token.StringSegment:
		return true
	case token.Punctuation:
		switch p.text(t) {
		case "(", "[", "{":
			return true
		}
	}
	return false
}

func (p *Parser) parsePrimary() (phrase.Phrase, error) {
	t := p.peek()
	switch t.Kind {
	case token.Identifier:
		p.advance()
		switch p.text(t) {
		case "_":
			return phrase.NewWildcard(p.loc(t)), nil
		}
		return phrase.NewIdentifier(p.loc(t), p.text(t)), nil
	case token.Numeral:
		p.advance()
		return phrase.NewNumeral(p.loc(t), p.text(t)), nil
	case token.StringSegment:
		return p.parseStringLiteral()
	case token.Punctuation:
		switch p.text(t) {
		case "(":
			return p.parseParenOrTuple()
		case "[":
			return p.parseListLiteral()
		case "{":
			return p.parseRecordLiteral()
		case "...":
			p.advance()
			arg, err := p.parseLogicalOr()
			if err != nil {
				return nil, err
			}
			return phrase.NewSpread(p.loc(t).EndingAt(arg.Location()), arg), nil
		case "$":
			return p.parseReactiveHole()
		}
	}
	return nil, p.errorf(t, "unexpected token %q", p.text(t))
}

// parseReactiveHole handles `$name` uniform references used inside
// `parametric` shader parameter bodies.
func (p *Parser) parseReactiveHole() (phrase.Phrase, error) {
	dollar := p.advance()
	nameTok := p.advance()
	if nameTok.Kind != token.Identifier {
		return nil, p.errorf(nameTok, "expected identifier after '$'")
	}
	return phrase.NewUnary(p.loc(dollar).EndingAt(p.loc(nameTok)), "$", phrase.NewIdentifier(p.loc(nameTok), p.text(nameTok))), nil
}

func (p *Parser) parseStringLiteral() (phrase.Phrase, error) {
	t := p.advance()
	raw := p.text(t)
	// strip surrounding quotes; the rest of the text, including backslash
	// escapes and `$[...]` runs, becomes one literal segment verbatim.
	// Neither the parser nor the analyser decodes escapes or interpolation.
	inner := raw
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	seg := phrase.NewStringSegment(p.loc(t), inner, nil)
	return phrase.NewString(p.loc(t), []*phrase.StringSegment{seg}), nil
}

func (p *Parser) parseParenOrTuple() (phrase.Phrase, error) {
	open := p.advance() // "("
	if p.isPunct(p.peek(), ")") {
		close := p.advance()
		return phrase.NewParen(p.loc(open).EndingAt(p.loc(close)), phrase.NewEmpty(p.loc(close)), true), nil
	}
	body, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	close, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	_, isComma := body.(*phrase.CommaList)
	return phrase.NewParen(p.loc(open).EndingAt(p.loc(close)), body, isComma), nil
}

func (p *Parser) parseListLiteral() (phrase.Phrase, error) {
	open := p.advance() // "["
	if p.isPunct(p.peek(), "]") {
		close := p.advance()
		return phrase.NewList(p.loc(open).EndingAt(p.loc(close)), phrase.NewEmpty(p.loc(close))), nil
	}
	body, err := p.parseGeneratorSeq()
	if err != nil {
		return nil, err
	}
	close, err := p.expectPunct("]")
	if err != nil {
		return nil, err
	}
	return phrase.NewList(p.loc(open).EndingAt(p.loc(close)), body), nil
}

// parseGeneratorSeq parses the body of a list literal: a comma-list of
// generator-producing phrases, where each element may itself be a compound
// form (`for`, `if`, `while`) that yields zero or more elements
// (spec.md §4.4 generators).
func (p *Parser) parseGeneratorSeq() (phrase.Phrase, error) {
	first, err := p.parseCompoundOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(p.peek(), ",") {
		return first, nil
	}
	elems := []phrase.Phrase{first}
	last := first.Location()
	for p.isPunct(p.peek(), ",") {
		p.advance()
		if p.isPunct(p.peek(), "]") {
			break
		}
		next, err := p.parseCompoundOrExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
		last = next.Location()
	}
	return phrase.NewCommaList(first.Location().EndingAt(last), elems), nil
}

func (p *Parser) parseRecordLiteral() (phrase.Phrase, error) {
	open := p.advance() // "{"
	if p.isPunct(p.peek(), "}") {
		close := p.advance()
		return phrase.NewRecord(p.loc(open).EndingAt(p.loc(close)), phrase.NewEmpty(p.loc(close))), nil
	}
	body, err := p.parseSemicolonSeq()
	if err != nil {
		return nil, err
	}
	close, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	return phrase.NewRecord(p.loc(open).EndingAt(p.loc(close)), body), nil
}
