// Package automaton builds the LR(0) item NFA and, via subset construction,
// the deterministic item-set DFA that the SLR(1) table is read off of. It is
// generic over the value stored at each state so the same machinery serves
// both the raw NFA (value = a single grammar.LR0Item) and the DFA produced
// from it (value = the set of LR0Items making up that state's item set).
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/physunits/internal/util"
)

// FATransition is a single labeled edge in either an NFA or a DFA. The empty
// input string denotes an epsilon transition (NFA only).
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "eps"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

// DFAState is a single state of a DFA: a name (the canonical item-set key),
// the value stored there, its outgoing transitions, and whether it is
// accepting.
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
	ordering    int
}

func (ds DFAState[E]) String() string {
	var moves strings.Builder
	inputs := util.OrderedKeys(ds.transitions)
	for i, in := range inputs {
		moves.WriteString(ds.transitions[in].String())
		if i+1 < len(inputs) {
			moves.WriteString(", ")
		}
	}
	str := fmt.Sprintf("(%s [%s])", ds.name, moves.String())
	if ds.accepting {
		str = "(" + str + ")"
	}
	return str
}

// NFAState is a single state of an NFA: a name, the value stored there (an
// LR0Item when constructed via NewLR0ViablePrefixNFA), its (possibly
// multi-valued, possibly epsilon) outgoing transitions, and whether it is
// accepting.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder
	inputs := util.OrderedKeys(ns.transitions)
	for i, in := range inputs {
		var tStrs []string
		for _, t := range ns.transitions[in] {
			tStrs = append(tStrs, t.String())
		}
		sort.Strings(tStrs)
		for tIdx, t := range tStrs {
			moves.WriteString(t)
			if tIdx+1 < len(tStrs) || i+1 < len(inputs) {
				moves.WriteString(", ")
			}
		}
	}
	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())
	if ns.accepting {
		str = "(" + str + ")"
	}
	return str
}
