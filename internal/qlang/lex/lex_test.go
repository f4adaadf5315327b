package lex

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithLexer(t *testing.T) *Lexer {
	lx, err := New([]TokenType{
		{Name: "ws", Pattern: `\s+`, Ignore: true},
		{Name: "func", Pattern: "a^"},
		{Name: "id", Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Value: func(s string) (any, error) { return s, nil }},
		{Name: "num", Pattern: `[0-9]+(\.[0-9]+)?`, Value: func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, 64)
			return f, err
		}},
		{Name: "add", Pattern: `\+`},
		{Name: "lparen", Pattern: `\(`},
		{Name: "rparen", Pattern: `\)`},
	})
	require.NoError(t, err)
	return lx
}

func Test_Lexer_Lex_basicTokens(t *testing.T) {
	lx := arithLexer(t)

	toks, err := lx.Lex("12 + foo")
	require.NoError(t, err)

	var classes []string
	for toks.HasNext() {
		classes = append(classes, toks.Next().Class().ID())
	}
	classes = append(classes, toks.Next().Class().ID())

	assert.Equal(t, []string{"num", "add", "id", "$"}, classes)
}

func Test_Lexer_Lex_numberValue(t *testing.T) {
	lx := arithLexer(t)

	toks, err := lx.Lex("42")
	require.NoError(t, err)

	tok := toks.Next()
	assert.Equal(t, "num", tok.Class().ID())
	assert.Equal(t, 42.0, tok.Value())
}

func Test_Lexer_Lex_unmatchedInputIsError(t *testing.T) {
	lx := arithLexer(t)

	_, err := lx.Lex("12 @ 3")
	assert.Error(t, err)

	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 3, lexErr.Pos)
}

func Test_Lexer_SetFuncNames_longerNameWinsOverShorterPrefix(t *testing.T) {
	lx := arithLexer(t)
	require.NoError(t, lx.SetFuncNames([]string{"sin", "sinh"}))

	toks, err := lx.Lex("sinh")
	require.NoError(t, err)

	tok := toks.Next()
	assert.Equal(t, "func", tok.Class().ID())
	assert.Equal(t, "sinh", tok.Lexeme())
}

func Test_Lexer_SetFuncNames_laterDeclaredWinsEqualLengthTie(t *testing.T) {
	// "id" is declared after "func" would otherwise tie in length with a
	// registered function name; rebuild with func declared last to exercise
	// the later-wins tie-break rule directly against an identical-length
	// identifier pattern match.
	lx, err := New([]TokenType{
		{Name: "id", Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Value: func(s string) (any, error) { return s, nil }},
		{Name: "func", Pattern: "a^"},
	})
	require.NoError(t, err)
	require.NoError(t, lx.SetFuncNames([]string{"abs"}))

	toks, err := lx.Lex("abs")
	require.NoError(t, err)

	tok := toks.Next()
	assert.Equal(t, "func", tok.Class().ID())
}

func Test_Lexer_Lex_emptyInputYieldsOnlyEOF(t *testing.T) {
	lx := arithLexer(t)

	toks, err := lx.Lex("")
	require.NoError(t, err)

	assert.False(t, toks.HasNext())
	assert.Equal(t, "$", toks.Next().Class().ID())
}
