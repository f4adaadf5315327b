package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/physunits/internal/util"
)

// DFA is a deterministic finite automaton whose states each carry a value of
// type E (for the item-set DFA built by NFA.ToDFA, E is util.SVSet[LR0Item]).
type DFA[E any] struct {
	order  int
	states map[string]DFAState[E]
	Start  string
}

// TransformDFA produces a new DFA with the same shape (states, transitions,
// start, ordering) but with every state's value mapped through transform.
// Used to project the item-set DFA down to the plain DFA[string] the action
// table exposes via GetDFA.
func TransformDFA[E1, E2 any](dfa *DFA[E1], transform func(E1) E2) *DFA[E2] {
	out := &DFA[E2]{states: map[string]DFAState[E2]{}, Start: dfa.Start, order: dfa.order}
	for k, st := range dfa.states {
		trans := make(map[string]FATransition, len(st.transitions))
		for sym, t := range st.transitions {
			trans[sym] = t
		}
		out.states[k] = DFAState[E2]{
			name:        st.name,
			value:       transform(st.value),
			transitions: trans,
			accepting:   st.accepting,
			ordering:    st.ordering,
		}
	}
	return out
}

// States returns the set of all state names in the DFA.
func (dfa DFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range dfa.states {
		states.Add(k)
	}
	return states
}

// AddState adds a new, transition-less state. No-op if it already exists.
func (dfa *DFA[E]) AddState(state string, accepting bool) {
	if _, ok := dfa.states[state]; ok {
		return
	}
	if dfa.states == nil {
		dfa.states = map[string]DFAState[E]{}
	}
	dfa.states[state] = DFAState[E]{
		name:        state,
		transitions: map[string]FATransition{},
		accepting:   accepting,
		ordering:    dfa.order,
	}
	dfa.order++
}

// SetValue assigns the value stored at state. Panics if state doesn't exist.
func (dfa *DFA[E]) SetValue(state string, v E) {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existent state: %q", state))
	}
	s.value = v
	dfa.states[state] = s
}

// GetValue returns the value stored at state. Panics if state doesn't exist.
func (dfa DFA[E]) GetValue(state string) E {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existent state: %q", state))
	}
	return s.value
}

// IsAccepting returns whether state is an accepting state. False if state
// doesn't exist.
func (dfa DFA[E]) IsAccepting(state string) bool {
	s, ok := dfa.states[state]
	return ok && s.accepting
}

// Next returns the state reached from fromState on input, or "" if there is
// no such state or transition.
func (dfa DFA[E]) Next(fromState, input string) string {
	st, ok := dfa.states[fromState]
	if !ok {
		return ""
	}
	return st.transitions[input].next
}

// AddTransition adds (or replaces) an edge from fromState to toState labeled
// input. Both states must already exist.
func (dfa *DFA[E]) AddTransition(fromState, input, toState string) {
	from, ok := dfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := dfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}
	from.transitions[input] = FATransition{input: input, next: toState}
	dfa.states[fromState] = from
}

// NumberStates renames every state to a small integer string, with the start
// state guaranteed to become "0", ordered thereafter by each state's
// insertion order during subset construction. This is what gives DFA state
// ids the low, stable numbers printed in diagnostics and referenced by the
// action table.
func (dfa *DFA[E]) NumberStates() {
	if _, ok := dfa.states[dfa.Start]; !ok {
		panic("cannot number states of a DFA with no start state")
	}

	names := util.OrderedKeys(dfa.states)
	sortedByOrder := append([]string{}, names...)
	sort.SliceStable(sortedByOrder, func(i, j int) bool {
		return dfa.states[sortedByOrder[i]].ordering < dfa.states[sortedByOrder[j]].ordering
	})

	ordered := make([]string, 0, len(names))
	ordered = append(ordered, dfa.Start)
	for _, n := range sortedByOrder {
		if n != dfa.Start {
			ordered = append(ordered, n)
		}
	}

	mapping := map[string]string{}
	for i, n := range ordered {
		mapping[n] = fmt.Sprintf("%d", i)
	}

	renamed := &DFA[E]{states: map[string]DFAState[E]{}, Start: mapping[dfa.Start]}
	for _, n := range ordered {
		st := dfa.states[n]
		renamed.AddState(mapping[n], st.accepting)
		renamed.SetValue(mapping[n], st.value)
	}
	for _, n := range ordered {
		st := dfa.states[n]
		from := mapping[n]
		for sym, t := range st.transitions {
			renamed.AddTransition(from, sym, mapping[t.next])
		}
	}

	dfa.states = renamed.states
	dfa.Start = renamed.Start
	dfa.order = renamed.order
}

// Validate returns an error describing any state unreachable from the start
// state, any transition to a non-existent state, or a missing start state.
func (dfa DFA[E]) Validate() error {
	var errs []string

	for sName := range dfa.states {
		if sName == dfa.Start {
			continue
		}
		reachable := false
		for otherName, st := range dfa.states {
			if otherName == sName {
				continue
			}
			for _, t := range st.transitions {
				if t.next == sName {
					reachable = true
					break
				}
			}
			if reachable {
				break
			}
		}
		if !reachable {
			errs = append(errs, fmt.Sprintf("no transitions to non-start state %q", sName))
		}
	}

	for sName, st := range dfa.states {
		for sym, t := range st.transitions {
			if _, ok := dfa.states[t.next]; !ok {
				errs = append(errs, fmt.Sprintf("state %q transitions on %q to non-existent state %q", sName, sym, t.next))
			}
		}
	}

	if _, ok := dfa.states[dfa.Start]; !ok {
		errs = append(errs, fmt.Sprintf("start state does not exist: %q", dfa.Start))
	}

	if len(errs) > 0 {
		return fmt.Errorf(strings.Join(errs, "\n"))
	}
	return nil
}

func (dfa DFA[E]) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", dfa.Start))
	names := util.OrderedKeys(dfa.states)
	for i, n := range names {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.states[n].String())
		if i+1 < len(names) {
			sb.WriteRune(',')
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}
