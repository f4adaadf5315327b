package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func simpleArithGrammar() Grammar {
	var g Grammar
	g.AddTerminal("num")
	g.AddTerminal("add")

	g.AddProduction("START", []string{"EXP"}, nil, -1)
	g.AddProduction("EXP", []string{"EXP", "add", "TERM"}, nil, -1)
	g.AddProduction("EXP", []string{"TERM"}, nil, -1)
	g.AddProduction("TERM", []string{"num"}, nil, -1)

	return g
}

func Test_Grammar_AddProduction_assignsSequentialIDs(t *testing.T) {
	g := simpleArithGrammar()

	ids := []int{}
	for _, p := range g.Productions() {
		ids = append(ids, p.ID)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, ids)
	assert.Equal(t, "START", g.Productions()[0].Target)
}

func Test_Grammar_IsTerminal_IsNonTerminal(t *testing.T) {
	g := simpleArithGrammar()

	assert.True(t, g.IsNonTerminal("EXP"))
	assert.True(t, g.IsNonTerminal("TERM"))
	assert.True(t, g.IsNonTerminal("START"))
	assert.False(t, g.IsNonTerminal("num"))

	assert.True(t, g.IsTerminal("num"))
	assert.True(t, g.IsTerminal("add"))
	assert.False(t, g.IsTerminal("EXP"))
}

func Test_Grammar_Validate_ok(t *testing.T) {
	g := simpleArithGrammar()
	assert.NoError(t, g.Validate())
}

func Test_Grammar_Validate_missingSymbol(t *testing.T) {
	var g Grammar
	g.AddTerminal("num")
	g.AddProduction("START", []string{"EXP"}, nil, -1)
	g.AddProduction("EXP", []string{"num", "UNDEFINED"}, nil, -1)

	err := g.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UNDEFINED")
}

func Test_Grammar_Validate_noProductions(t *testing.T) {
	var g Grammar
	assert.Error(t, g.Validate())
}

func Test_Grammar_FIRST_terminal(t *testing.T) {
	g := simpleArithGrammar()

	first := g.FIRST("num")
	assert.Equal(t, map[string]bool{"num": true}, first)
}

func Test_Grammar_FIRST_nonTerminal(t *testing.T) {
	g := simpleArithGrammar()

	first := g.FIRST("EXP")
	assert.Equal(t, map[string]bool{"num": true}, first)
}

func Test_Grammar_FOLLOW_start(t *testing.T) {
	g := simpleArithGrammar()

	follow := g.FOLLOW("START")
	assert.True(t, follow[endOfText])
}

func Test_Grammar_FOLLOW_exp(t *testing.T) {
	g := simpleArithGrammar()

	follow := g.FOLLOW("EXP")
	assert.True(t, follow["add"])
	assert.True(t, follow[endOfText])
}

func Test_Grammar_Nullable_noneNullableByDefault(t *testing.T) {
	g := simpleArithGrammar()

	assert.False(t, g.Nullable("EXP"))
	assert.False(t, g.Nullable("TERM"))
	assert.False(t, g.Nullable("START"))
}

func Test_Grammar_Augmented(t *testing.T) {
	g := simpleArithGrammar()
	aug := g.Augmented()

	assert.Equal(t, "START'", aug.StartSymbol())
	assert.True(t, aug.IsNonTerminal("START'"))

	augRule := aug.Rule("START'")
	if assert.Len(t, augRule.Productions, 1) {
		assert.Equal(t, []string{"START"}, augRule.Productions[0].Symbols)
	}

	// original grammar is untouched
	assert.Equal(t, "START", g.StartSymbol())
}

func Test_Grammar_LR0Items_countsOnePerDotPosition(t *testing.T) {
	g := simpleArithGrammar()

	items := g.LR0Items()

	// START -> EXP (2 items) + EXP -> EXP add TERM (4 items) +
	// EXP -> TERM (2 items) + TERM -> num (2 items) = 10
	assert.Len(t, items, 10)
}
