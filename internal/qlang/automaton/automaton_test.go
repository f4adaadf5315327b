package automaton

import (
	"testing"

	"github.com/dekarrin/physunits/internal/qlang/grammar"
	"github.com/dekarrin/physunits/internal/util"
	"github.com/stretchr/testify/assert"
)

// simpleArithGrammar builds START -> EXP; EXP -> EXP add TERM | TERM;
// TERM -> num, the smallest grammar with a genuine shift/reduce choice.
func simpleArithGrammar() grammar.Grammar {
	var g grammar.Grammar
	g.AddTerminal("num")
	g.AddTerminal("add")

	g.AddProduction("START", []string{"EXP"}, nil, -1)
	g.AddProduction("EXP", []string{"EXP", "add", "TERM"}, nil, -1)
	g.AddProduction("EXP", []string{"TERM"}, nil, -1)
	g.AddProduction("TERM", []string{"num"}, nil, -1)

	return g
}

func Test_NewLR0ViablePrefixNFA_startState(t *testing.T) {
	g := simpleArithGrammar()
	nfa := NewLR0ViablePrefixNFA(g)

	assert.NotEmpty(t, nfa.Start)
	assert.True(t, nfa.States().Has(nfa.Start))
}

func Test_NewLR0ViablePrefixNFA_epsilonClosureReachesAllStartItems(t *testing.T) {
	g := simpleArithGrammar()
	nfa := NewLR0ViablePrefixNFA(g)

	closure := nfa.EpsilonClosure(nfa.Start)

	// From START' -> . START, epsilon moves must reach START -> . EXP,
	// EXP -> . EXP add TERM, EXP -> . TERM, and TERM -> . num.
	assert.True(t, closure.Has(nfa.Start))
	assert.GreaterOrEqual(t, closure.Len(), 4)
}

func Test_NFA_ToDFA_buildsReachableAcceptingStates(t *testing.T) {
	g := simpleArithGrammar()
	nfa := NewLR0ViablePrefixNFA(g)

	dfa := nfa.ToDFA()
	dfa.NumberStates()

	assert.NoError(t, dfa.Validate())
	assert.Equal(t, "0", dfa.Start)

	// Shifting "num" from the start state must land in an accepting state
	// (the item set containing TERM -> num .).
	next := dfa.Next(dfa.Start, "num")
	assert.NotEmpty(t, next)
	assert.True(t, dfa.IsAccepting(next))
}

func Test_NFA_ToDFA_shiftThenShiftAddReachesExpAddDotTerm(t *testing.T) {
	g := simpleArithGrammar()
	nfa := NewLR0ViablePrefixNFA(g)
	dfa := nfa.ToDFA()
	dfa.NumberStates()

	s1 := dfa.Next(dfa.Start, "num")
	require := dfa.Next(s1, "add")
	assert.Empty(t, require, "no 'add' transition directly out of TERM -> num .")
}

func Test_DFA_NumberStates_isIdempotentOnShape(t *testing.T) {
	g := simpleArithGrammar()
	nfa := NewLR0ViablePrefixNFA(g)
	dfa := nfa.ToDFA()
	dfa.NumberStates()

	statesBefore := dfa.States().Len()
	dfa.NumberStates()
	assert.Equal(t, statesBefore, dfa.States().Len())
}

func Test_TransformDFA_preservesShapeAndStart(t *testing.T) {
	g := simpleArithGrammar()
	nfa := NewLR0ViablePrefixNFA(g)
	dfa := nfa.ToDFA()
	dfa.NumberStates()

	projected := TransformDFA(dfa, func(items util.SVSet[grammar.LR0Item]) []string {
		return items.Elements()
	})

	assert.Equal(t, dfa.Start, projected.Start)
	assert.Equal(t, dfa.States().Len(), projected.States().Len())
}
