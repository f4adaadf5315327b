package parse

import (
	"fmt"

	"github.com/dekarrin/physunits/internal/qlang/automaton"
	"github.com/dekarrin/physunits/internal/qlang/grammar"
	"github.com/dekarrin/physunits/internal/qlang/qerr"
	"github.com/dekarrin/physunits/internal/qlang/types"
	"github.com/dekarrin/physunits/internal/util"
)

// LRParseTable is the table of information a bottom-up LR parser drives off
// of, generated from a grammar.
type LRParseTable interface {
	// Initial returns the table's start state.
	Initial() string

	// Action gets the next action to take based on a state i and terminal a.
	Action(state, symbol string) LRAction

	// Goto maps a state and a grammar symbol to some other state.
	Goto(state, symbol string) (string, error)

	// String prints a string representation of the table.
	String() string

	// GetDFA returns the DFA simulated by the table.
	GetDFA() automaton.DFA[util.StringSet]
}

// Parser is a constructed shift-reduce parser for one grammar, driven by
// semantic actions rather than a parse tree (see Parse).
type Parser interface {
	Parse(stream types.TokenStream) (any, error)
	GetDFA() *automaton.DFA[util.StringSet]
	RegisterTraceListener(listener func(s string))
	TableString() string
}

// frame is one entry of the parser's state stack: the LR0 automaton state
// plus the semantic payload carried by whatever symbol caused the push (a
// shifted token's Value(), or a reduced production's Action result).
type frame struct {
	state   string
	payload any
}

type lrParser struct {
	table LRParseTable
	gram  grammar.Grammar
	trace func(s string)
}

func (lr *lrParser) GetDFA() *automaton.DFA[util.StringSet] {
	dfa := lr.table.GetDFA()
	return &dfa
}

func (lr *lrParser) RegisterTraceListener(listener func(s string)) {
	lr.trace = listener
}

func (lr *lrParser) TableString() string {
	return lr.table.String()
}

func (lr lrParser) notifyTraceFn(fn func() string) {
	if lr.trace != nil {
		lr.trace(fn())
	}
}

func (lr lrParser) notifyTrace(fmtStr string, args ...interface{}) {
	lr.notifyTraceFn(func() string { return fmt.Sprintf(fmtStr, args...) })
}

func (lr lrParser) notifyAction(act LRAction) {
	lr.notifyTrace("state %s", act.String())
}

func (lr lrParser) notifyNextToken(tok types.Token) {
	lr.notifyTrace("got next token: %s", tok.String())
}

// Parse runs the shift-reduce driver over stream, applying each reduced
// production's semantic action as the reduction happens (instead of
// building a parse tree) and returning whatever the entry production's
// action produced.
//
// This is an implementation of Algorithm 4.44, "LR-parsing algorithm", from
// the purple dragon book, adapted per the grammar's SDT convention (no
// separate tree-walk pass): semantic action inputs are the payloads of the
// |β| symbols just popped, left to right, with any payload-less terminal
// (a purely syntactic token like "(" whose Value() is nil) filtered out
// before the action is called.
func (lr *lrParser) Parse(stream types.TokenStream) (any, error) {
	stack := util.Stack[frame]{Of: []frame{{state: lr.table.Initial()}}}

	a := stream.Next()
	lr.notifyNextToken(a)

	for {
		s := stack.Peek().state

		action := lr.table.Action(s, a.Class().ID())
		lr.notifyAction(action)

		switch action.Type {
		case LRShift:
			t := action.State
			stack.Push(frame{state: t, payload: a.Value()})

			a = stream.Next()
			lr.notifyNextToken(a)

		case LRReduce:
			A := action.Symbol
			prod := action.Production

			n := len(prod.Symbols)
			payloads := make([]any, n)
			for i := n - 1; i >= 0; i-- {
				payloads[i] = stack.Pop().payload
			}

			var result any
			if prod.Action != nil {
				filtered := make([]any, 0, n)
				for _, p := range payloads {
					if p != nil {
						filtered = append(filtered, p)
					}
				}
				var err error
				result, err = prod.Action(filtered)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", prod.String(), err)
				}
			}

			t := stack.Peek().state
			toPush, err := lr.table.Goto(t, A)
			if err != nil {
				return nil, qerr.NewSyntaxErrorFromToken(fmt.Sprintf("parsing error; no valid transition from here on %q", A), a)
			}
			stack.Push(frame{state: toPush, payload: result})

		case LRAccept:
			return stack.Pop().payload, nil

		case LRError:
			expMessage := lr.getExpectedString(s)
			return nil, qerr.NewSyntaxErrorFromToken(fmt.Sprintf("unexpected %s; %s", a.Class().Human(), expMessage), a)
		}
	}
}

func (lr lrParser) getExpectedString(stateName string) string {
	expected := lr.findExpectedTokens(stateName)

	var result string
	result = "expected "

	finalOr := len(expected) > 1
	commas := len(expected) > 2

	for i, t := range expected {
		if i == 0 {
			result += util.ArticleFor(t.Human(), false) + " "
		}
		if finalOr && i+1 == len(expected) {
			result += "or "
		}
		result += t.Human()
		if commas && i+1 < len(expected) {
			result += ", "
		}
	}

	return result
}

// findExpectedTokens returns every terminal that results in a non-error
// action from the given state, for use in syntax error messages.
func (lr lrParser) findExpectedTokens(stateName string) []types.TokenClass {
	terms := lr.gram.Terminals()

	classes := make([]types.TokenClass, 0, len(terms))
	for _, name := range terms {
		act := lr.table.Action(stateName, name)
		if act.Type != LRError {
			classes = append(classes, types.MakeDefaultClass(name))
		}
	}

	return classes
}
