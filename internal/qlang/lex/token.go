package lex

import (
	"fmt"

	"github.com/dekarrin/physunits/internal/qlang/types"
)

type token struct {
	class    types.TokenClass
	lexeme   string
	value    any
	line     int
	linePos  int
	fullLine string
}

func (t token) Class() types.TokenClass { return t.class }
func (t token) Lexeme() string          { return t.lexeme }
func (t token) LinePos() int            { return t.linePos }
func (t token) Line() int               { return t.line }
func (t token) FullLine() string        { return t.fullLine }
func (t token) Value() any              { return t.value }

func (t token) String() string {
	return fmt.Sprintf("(%s %q @ %d:%d)", t.class.ID(), t.lexeme, t.line, t.linePos)
}

// tokenStream is a fully-materialized slice of tokens lexed up front, the
// only mode this lexer supports (parse(text) always has the full string in
// hand; there is no streaming input).
type tokenStream struct {
	toks []types.Token
	pos  int
}

func newTokenStream(toks []types.Token) *tokenStream {
	return &tokenStream{toks: toks}
}

func (ts *tokenStream) Next() types.Token {
	t := ts.Peek()
	if ts.pos < len(ts.toks) {
		ts.pos++
	}
	return t
}

func (ts *tokenStream) Peek() types.Token {
	if ts.pos >= len(ts.toks) {
		return ts.toks[len(ts.toks)-1]
	}
	return ts.toks[ts.pos]
}

func (ts *tokenStream) HasNext() bool {
	return ts.pos < len(ts.toks)-1
}
