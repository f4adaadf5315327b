package parse

import (
	"fmt"
	"testing"

	"github.com/dekarrin/physunits/internal/qlang/grammar"
	"github.com/dekarrin/physunits/internal/qlang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockToken struct {
	class  types.TokenClass
	lexeme string
	value  any
}

func (t mockToken) Class() types.TokenClass { return t.class }
func (t mockToken) Lexeme() string          { return t.lexeme }
func (t mockToken) LinePos() int            { return 1 }
func (t mockToken) Line() int                { return 1 }
func (t mockToken) FullLine() string        { return t.lexeme }
func (t mockToken) Value() any              { return t.value }
func (t mockToken) String() string          { return t.lexeme }

type mockStream struct {
	toks []types.Token
	pos  int
}

func mockTokens(toks ...types.Token) *mockStream {
	return &mockStream{toks: toks}
}

func (s *mockStream) Next() types.Token {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func (s *mockStream) Peek() types.Token {
	if s.pos >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[s.pos]
}

func (s *mockStream) HasNext() bool {
	return s.pos < len(s.toks)-1
}

func numTok(v float64) types.Token {
	return mockToken{class: types.MakeDefaultClass("num"), lexeme: fmt.Sprintf("%v", v), value: v}
}

func addTok() types.Token {
	return mockToken{class: types.MakeDefaultClass("add"), lexeme: "+"}
}

func eofTok() types.Token {
	return mockToken{class: types.TokenEndOfText, lexeme: ""}
}

// arithGrammar is START -> EXP; EXP -> EXP add TERM | TERM; TERM -> num,
// with semantic actions summing the num payloads left to right.
func arithGrammar() grammar.Grammar {
	var g grammar.Grammar
	g.AddTerminal("num")
	g.AddTerminal("add")

	g.AddProduction("START", []string{"EXP"}, func(p []any) (any, error) {
		return p[0], nil
	}, -1)
	g.AddProduction("EXP", []string{"EXP", "add", "TERM"}, func(p []any) (any, error) {
		return p[0].(float64) + p[1].(float64), nil
	}, -1)
	g.AddProduction("EXP", []string{"TERM"}, func(p []any) (any, error) {
		return p[0], nil
	}, -1)
	g.AddProduction("TERM", []string{"num"}, func(p []any) (any, error) {
		return p[0], nil
	}, -1)

	return g
}

func Test_GenerateSimpleLRParser_buildsWithoutConflicts(t *testing.T) {
	g := arithGrammar()

	_, diagnostics, err := GenerateSimpleLRParser(g)

	require.NoError(t, err)
	assert.Empty(t, diagnostics)
}

func Test_LRParse_sumsLeftToRight(t *testing.T) {
	g := arithGrammar()
	parser, _, err := GenerateSimpleLRParser(g)
	require.NoError(t, err)

	stream := mockTokens(numTok(3), addTok(), numTok(4), addTok(), numTok(5), eofTok())

	result, err := parser.Parse(stream)
	require.NoError(t, err)
	assert.Equal(t, 12.0, result)
}

func Test_LRParse_singleNumber(t *testing.T) {
	g := arithGrammar()
	parser, _, err := GenerateSimpleLRParser(g)
	require.NoError(t, err)

	stream := mockTokens(numTok(42), eofTok())

	result, err := parser.Parse(stream)
	require.NoError(t, err)
	assert.Equal(t, 42.0, result)
}

func Test_LRParse_unexpectedTokenIsSyntaxError(t *testing.T) {
	g := arithGrammar()
	parser, _, err := GenerateSimpleLRParser(g)
	require.NoError(t, err)

	stream := mockTokens(addTok(), eofTok())

	_, err = parser.Parse(stream)
	assert.Error(t, err)
}

func Test_LRParse_semanticActionErrorPropagates(t *testing.T) {
	var g grammar.Grammar
	g.AddTerminal("num")
	g.AddProduction("START", []string{"num"}, func(p []any) (any, error) {
		return nil, fmt.Errorf("boom")
	}, -1)

	parser, _, err := GenerateSimpleLRParser(g)
	require.NoError(t, err)

	stream := mockTokens(numTok(1), eofTok())

	_, err = parser.Parse(stream)
	assert.ErrorContains(t, err, "boom")
}

func Test_SLRTable_String_roundTripsForAmbiguityFreeGrammar(t *testing.T) {
	g := arithGrammar()
	_, _, err := GenerateSimpleLRParser(g)
	require.NoError(t, err)
}
