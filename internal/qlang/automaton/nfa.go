package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/physunits/internal/qlang/grammar"
	"github.com/dekarrin/physunits/internal/util"
)

// NFA is a non-deterministic finite automaton whose states each carry a
// value of type E. Transitions keyed by the empty string are epsilon moves.
type NFA[E any] struct {
	states map[string]NFAState[E]
	Start  string
}

// States returns the set of all state names in the NFA.
func (nfa NFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range nfa.states {
		states.Add(k)
	}
	return states
}

// AddState adds a new, transition-less state. No-op if the state already
// exists.
func (nfa *NFA[E]) AddState(state string, accepting bool) {
	if _, ok := nfa.states[state]; ok {
		return
	}
	if nfa.states == nil {
		nfa.states = map[string]NFAState[E]{}
	}
	nfa.states[state] = NFAState[E]{
		name:        state,
		transitions: make(map[string][]FATransition),
		accepting:   accepting,
	}
}

// SetValue assigns the value stored at state. Panics if state doesn't exist.
func (nfa *NFA[E]) SetValue(state string, v E) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existent state: %q", state))
	}
	s.value = v
	nfa.states[state] = s
}

// GetValue returns the value stored at state. Panics if state doesn't exist.
func (nfa NFA[E]) GetValue(state string) E {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existent state: %q", state))
	}
	return s.value
}

// AddTransition adds an edge from fromState to toState labeled input (the
// empty string for an epsilon move). Both states must already exist.
func (nfa *NFA[E]) AddTransition(fromState, input, toState string) {
	from, ok := nfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := nfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	trans := from.transitions[input]
	trans = append(trans, FATransition{input: input, next: toState})
	from.transitions[input] = trans
	nfa.states[fromState] = from
}

// InputSymbols returns every symbol (including epsilon, "") labeling some
// transition in the NFA.
func (nfa NFA[E]) InputSymbols() util.StringSet {
	symbols := util.NewStringSet()
	for _, st := range nfa.states {
		for a := range st.transitions {
			symbols.Add(a)
		}
	}
	return symbols
}

// MOVE returns the set of states reachable from some state in X on input a.
func (nfa NFA[E]) MOVE(X util.StringSet, a string) util.StringSet {
	moves := util.NewStringSet()
	for s := range X {
		st, ok := nfa.states[s]
		if !ok {
			continue
		}
		for _, t := range st.transitions[a] {
			moves.Add(t.next)
		}
	}
	return moves
}

// EpsilonClosure returns the set of states reachable from s via zero or more
// epsilon moves (s included).
func (nfa NFA[E]) EpsilonClosure(s string) util.StringSet {
	start, ok := nfa.states[s]
	if !ok {
		return nil
	}

	closure := util.NewStringSet()
	stack := util.Stack[NFAState[E]]{}
	stack.Push(start)

	for stack.Len() > 0 {
		cur := stack.Pop()
		if closure.Has(cur.name) {
			continue
		}
		closure.Add(cur.name)

		for _, move := range cur.transitions[""] {
			next, ok := nfa.states[move.next]
			if !ok {
				panic(fmt.Sprintf("epsilon transition points to invalid state: %q", move.next))
			}
			stack.Push(next)
		}
	}

	return closure
}

// EpsilonClosureOfSet is EpsilonClosure applied to every state in X and
// unioned together.
func (nfa NFA[E]) EpsilonClosureOfSet(X util.StringSet) util.StringSet {
	all := util.NewStringSet()
	for s := range X {
		all.AddAll(nfa.EpsilonClosure(s))
	}
	return all
}

// ToDFA performs subset construction (purple dragon book algorithm 3.20),
// producing a DFA whose states are item sets (epsilon closures of reachable
// NFA state sets) and whose value at each state is the set of original NFA
// state values making it up.
func (nfa NFA[E]) ToDFA() *DFA[util.SVSet[E]] {
	inputSymbols := nfa.InputSymbols()

	dStart := nfa.EpsilonClosure(nfa.Start)

	dStates := map[string]util.StringSet{dStart.StringOrdered(): dStart}
	marked := util.NewStringSet()

	dfa := &DFA[util.SVSet[E]]{states: map[string]DFAState[util.SVSet[E]]{}}

	for {
		names := util.StringSetOf(util.OrderedKeys(dStates))
		unmarked := names.Difference(marked)
		if unmarked.Empty() {
			break
		}

		for _, tName := range unmarked.Elements() {
			T := dStates[tName]
			marked.Add(tName)

			values := util.NewSVSet[E]()
			for nfaState := range T {
				values.Set(nfaState, nfa.GetValue(nfaState))
			}

			accepting := T.Any(func(v string) bool { return nfa.states[v].accepting })

			newState := DFAState[util.SVSet[E]]{
				name:        tName,
				value:       values,
				transitions: map[string]FATransition{},
				accepting:   accepting,
				ordering:    dfa.order,
			}
			dfa.order++

			for a := range inputSymbols {
				if a == "" {
					continue
				}

				U := nfa.EpsilonClosureOfSet(nfa.MOVE(T, a))
				if U.Empty() {
					continue
				}

				uName := U.StringOrdered()
				if _, ok := dStates[uName]; !ok {
					dStates[uName] = U
				}

				newState.transitions[a] = FATransition{input: a, next: uName}
			}

			dfa.states[tName] = newState
			if dfa.Start == "" {
				dfa.Start = tName
			}
		}
	}

	return dfa
}

// NumberStates renames every state to a small integer string, with the start
// state guaranteed to become "0". Used once tables are frozen so that states
// read out in a friendly, deterministic order.
func (nfa *NFA[E]) NumberStates() {
	if _, ok := nfa.states[nfa.Start]; !ok {
		panic("cannot number states of an NFA with no start state")
	}

	names := util.OrderedKeys(nfa.states)
	ordered := make([]string, 0, len(names))
	ordered = append(ordered, nfa.Start)
	for _, n := range names {
		if n != nfa.Start {
			ordered = append(ordered, n)
		}
	}

	mapping := map[string]string{}
	for i, n := range ordered {
		mapping[n] = fmt.Sprintf("%d", i)
	}

	renamed := NFA[E]{states: map[string]NFAState[E]{}, Start: mapping[nfa.Start]}
	for _, n := range ordered {
		st := nfa.states[n]
		renamed.AddState(mapping[n], st.accepting)
		renamed.SetValue(mapping[n], st.value)
	}
	for _, n := range ordered {
		st := nfa.states[n]
		from := mapping[n]
		for sym, trans := range st.transitions {
			for _, t := range trans {
				renamed.AddTransition(from, sym, mapping[t.next])
			}
		}
	}

	nfa.states = renamed.states
	nfa.Start = renamed.Start
}

func (nfa NFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", nfa.Start))
	names := util.OrderedKeys(nfa.states)
	for i, n := range names {
		sb.WriteString("\n\t")
		sb.WriteString(nfa.states[n].String())
		if i+1 < len(names) {
			sb.WriteRune(',')
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}

// NewLR0ViablePrefixNFA builds the LR(0) item NFA for the augmented grammar
// g.Augmented(): one state per item (k+1 states for a production of length
// k), a single transition per item advancing the dot over the next symbol,
// and epsilon transitions fanning out from any item with the dot before a
// nonterminal to every first-item of that nonterminal's productions. See
// spec §4.3.
func NewLR0ViablePrefixNFA(g grammar.Grammar) NFA[grammar.LR0Item] {
	oldStart := g.StartSymbol()
	g = g.Augmented()

	nfa := NFA[grammar.LR0Item]{}
	nfa.Start = grammar.LR0Item{NonTerminal: g.StartSymbol(), Right: []string{oldStart}}.String()

	items := g.LR0Items()
	for _, it := range items {
		nfa.AddState(it.String(), true)
		nfa.SetValue(it.String(), it)
	}

	for _, item := range items {
		if len(item.Right) < 1 {
			continue
		}

		alpha := item.Left
		X := item.Right[0]
		beta := item.Right[1:]

		advanced := grammar.LR0Item{
			NonTerminal: item.NonTerminal,
			Left:        append(append([]string{}, alpha...), X),
			Right:       beta,
		}
		nfa.AddTransition(item.String(), X, advanced.String())

		if g.IsNonTerminal(X) {
			for _, prod := range g.Rule(X).Productions {
				target := grammar.LR0Item{NonTerminal: X, Right: prod.Symbols}
				nfa.AddTransition(item.String(), "", target.String())
			}
		}
	}

	return nfa
}
