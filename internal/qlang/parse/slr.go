package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/physunits/internal/qlang/automaton"
	"github.com/dekarrin/physunits/internal/qlang/grammar"
	"github.com/dekarrin/physunits/internal/util"
	"github.com/dekarrin/rosed"
)

// GenerateSimpleLRParser returns a parser that uses SLR bottom-up parsing to
// parse languages in g. It will return an error if g is not SLR(1) once
// every production's priority has been taken into account; productions with
// no priority assigned (-1) that still clash are reported in the returned
// diagnostics slice rather than rejected.
func GenerateSimpleLRParser(g grammar.Grammar) (Parser, []string, error) {
	table, diagnostics, err := constructSimpleLRParseTable(g)
	if err != nil {
		return &lrParser{}, diagnostics, err
	}

	return &lrParser{table: table, gram: g}, diagnostics, nil
}

// constructSimpleLRParseTable constructs the SLR(1) table for g. It augments
// g to produce g', then the canonical collection of sets of items of g' is
// used to construct a table with applicable GOTO and ACTION columns.
//
// This is an implementation of Algorithm 4.46, "Constructing an SLR-parsing
// table", from the purple dragon book, with one departure: where the
// classic algorithm rejects any grammar with a shift/reduce or
// reduce/reduce clash, this construction first tries to resolve the clash
// using each involved production's Priority. The production (or, for an
// incumbent shift, the highest-priority production reachable by shifting)
// with the greater priority wins; ties favor whichever action is being
// newly considered. If either side of a clash carries the default priority
// (-1), the clash is still resolved this way but is reported as a
// diagnostic instead of a hard error, since grammars that never intended to
// rely on priority ought not to silently depend on it.
func constructSimpleLRParseTable(g grammar.Grammar) (LRParseTable, []string, error) {
	// we will skip a few steps here and simply grab the LR0 DFA for g' which
	// will pretty immediately give us our GOTO() function, since as purple
	// dragon book mentions, "intuitively, the GOTO function is used to define
	// the transitions in the LR(0) automaton for a grammar."
	lr0Automaton := automaton.NewLR0ViablePrefixNFA(g).ToDFA()
	lr0Automaton.NumberStates()

	gPrime := g.Augmented()

	table := &slrTable{
		gPrime:    gPrime,
		gStart:    g.StartSymbol(),
		gTerms:    g.Terminals(),
		gNonTerms: g.NonTerminals(),
		lr0:       *lr0Automaton,
		itemCache: map[string]grammar.LR0Item{},
		prodByKey: map[string]grammar.Production{},
	}

	for _, item := range table.gPrime.LR0Items() {
		table.itemCache[item.String()] = item
	}
	for _, p := range g.Productions() {
		table.prodByKey[prodKey(p.Target, p.Symbols)] = p
	}

	var diagnostics []string
	for i := range lr0Automaton.States() {
		for _, a := range append(append([]string{}, table.gPrime.Terminals()...), "$") {
			_, warn, err := table.computeAction(i, a)
			if warn != "" {
				diagnostics = append(diagnostics, warn)
			}
			if err != nil {
				return nil, diagnostics, err
			}
		}
	}

	return table, diagnostics, nil
}

func prodKey(target string, symbols []string) string {
	key := target + " ->"
	for _, s := range symbols {
		key += " " + s
	}
	return key
}

type slrTable struct {
	gPrime    grammar.Grammar
	gStart    string
	lr0       automaton.DFA[util.SVSet[grammar.LR0Item]]
	itemCache map[string]grammar.LR0Item
	prodByKey map[string]grammar.Production
	gTerms    []string
	gNonTerms []string
}

func (slr *slrTable) GetDFA() automaton.DFA[util.StringSet] {
	trans := automaton.TransformDFA(&slr.lr0, func(old util.SVSet[grammar.LR0Item]) util.StringSet {
		newSet := util.NewStringSet()

		for _, name := range old.Elements() {
			item := old.Get(name)
			newSet.Add(item.String())
		}

		return newSet
	})
	return *trans
}

func (slr *slrTable) String() string {
	// need mapping of state to indexes
	stateRefs := map[string]string{}

	// need to guarantee order
	stateNames := slr.lr0.States().Elements()
	sort.Strings(stateNames)

	// put the initial state first
	for i := range stateNames {
		if stateNames[i] == slr.lr0.Start {
			old := stateNames[0]
			stateNames[0] = stateNames[i]
			stateNames[i] = old
			break
		}
	}
	for i := range stateNames {
		stateRefs[stateNames[i]] = fmt.Sprintf("%d", i)
	}

	allTerms := make([]string, len(slr.gTerms))
	copy(allTerms, slr.gTerms)
	allTerms = append(allTerms, "$")

	data := [][]string{}

	headers := []string{"S", "|"}
	for _, t := range allTerms {
		headers = append(headers, fmt.Sprintf("A:%s", t))
	}
	headers = append(headers, "|")
	for _, nt := range slr.gNonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for stateIdx := range stateNames {
		i := stateNames[stateIdx]
		row := []string{stateRefs[i], "|"}

		for _, t := range allTerms {
			act := slr.Action(i, t)

			cell := ""
			switch act.Type {
			case LRAccept:
				cell = "acc"
			case LRReduce:
				cell = fmt.Sprintf("r%s -> %s", act.Symbol, act.Production.String())
			case LRShift:
				cell = fmt.Sprintf("s%s", stateRefs[act.State])
			case LRError:
				// do nothing, err is blank
			}

			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range slr.gNonTerms {
			var cell = ""

			gotoState, err := slr.Goto(i, nt)
			if err == nil {
				cell = stateRefs[gotoState]
			}

			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func (slr *slrTable) Initial() string {
	return slr.lr0.Start
}

func (slr *slrTable) Goto(state, symbol string) (string, error) {
	// as purple dragon book mentions, "intuitively, the GOTO function is used
	// to define the transitions in the LR(0) automaton for a grammar." We
	// take advantage of the corollary; the automaton is already built, so its
	// transitions directly give the value of GOTO(i, a).
	newState := slr.lr0.Next(state, symbol)

	if newState == "" {
		return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
	}
	return newState, nil
}

// advanceToCompletion walks item's single "move the dot forward" successor
// chain, purely algebraically via its Left/Right fields, until Right is
// empty, then looks up the production that dot-position corresponds to.
// This is how a shift's "downstream" productions are found for priority
// comparison without needing direct access to the underlying NFA.
func advanceToCompletion(item grammar.LR0Item, prodByKey map[string]grammar.Production) (grammar.Production, bool) {
	left := append([]string{}, item.Left...)
	right := append([]string{}, item.Right...)

	for len(right) > 0 {
		left = append(left, right[0])
		right = right[1:]
	}

	full := left
	p, ok := prodByKey[prodKey(item.NonTerminal, full)]
	return p, ok
}

// shiftPriority is the priority attributed to an incumbent shift action at
// (state, symbol): the max priority over every production whose accepting
// state lies downstream of that shift, per the item-set's items with the dot
// immediately before symbol.
func (slr *slrTable) shiftPriority(itemSet util.SVSet[grammar.LR0Item], symbol string) int {
	best := -1
	for itemStr := range itemSet {
		item := slr.itemCache[itemStr]
		if len(item.Right) == 0 || item.Right[0] != symbol {
			continue
		}
		if p, ok := advanceToCompletion(item, slr.prodByKey); ok {
			if p.Priority > best {
				best = p.Priority
			}
		}
	}
	return best
}

// wins reports whether a newly-proposed action with priority newP should
// replace an incumbent action with priority existingP, per the "new wins iff
// priority_new >= priority_existing" rule, and whether the clash involved a
// default (unset, -1) priority and so should be reported only as a
// diagnostic rather than a hard SLR(1) violation.
func wins(newP, existingP int) (replace bool, diagnosticOnly bool) {
	diagnosticOnly = newP == -1 || existingP == -1
	replace = newP >= existingP
	return replace, diagnosticOnly
}

// computeAction determines ACTION[i, a], resolving any clash by priority,
// and returns a non-empty warning string if the clash involved a default
// priority, or a non-nil error if a clash could not be resolved (both sides
// carrying equal, non-default priority).
func (slr *slrTable) computeAction(i, a string) (LRAction, string, error) {
	itemSet := slr.lr0.GetValue(i)

	var alreadySet bool
	var act LRAction
	var actPriority int
	var diagnostics []string

	// resolve folds a newly-proposed action into the running incumbent,
	// applying the priority rule. It returns an error only when the clash
	// cannot be resolved (neither side carrying a default priority, and
	// neither priority dominating the other).
	resolve := func(candidate LRAction, candidatePriority int) error {
		if !alreadySet {
			act = candidate
			actPriority = candidatePriority
			alreadySet = true
			return nil
		}
		if candidate.Equal(act) {
			return nil
		}

		replace, diagOnly := wins(candidatePriority, actPriority)
		if diagOnly {
			diagnostics = append(diagnostics, makeLRConflictError(act, candidate, a).Error())
		} else if !replace {
			return makeLRConflictError(act, candidate, a)
		}
		if replace {
			act = candidate
			actPriority = candidatePriority
		}
		return nil
	}

	for itemStr := range itemSet {
		item := slr.itemCache[itemStr]

		// given item is [A -> α.β]:
		A := item.NonTerminal
		alpha := item.Left
		beta := item.Right

		var followA map[string]bool
		if A != slr.gPrime.StartSymbol() {
			followA = slr.gPrime.FOLLOW(A)
		}

		// (a) If [A -> α.aβ] is in Iᵢ and GOTO(Iᵢ, a) = Iⱼ, then
		// ACTION[i, a] is "shift j." Here a must be a terminal.
		if slr.gPrime.IsTerminal(a) && len(beta) > 0 && beta[0] == a {
			j, err := slr.Goto(i, a)
			if err == nil {
				shiftAct := LRAction{Type: LRShift, State: j}
				shiftPrio := slr.shiftPriority(itemSet, a)
				if err := resolve(shiftAct, shiftPrio); err != nil {
					return act, "", fmt.Errorf("grammar is not SLR(1): %w", err)
				}
			}
		}

		// (b) If [A -> α.] is in Iᵢ, ACTION[i, a] is "reduce A -> α" for all
		// a in FOLLOW(A); here A may not be S'.
		if len(beta) == 0 && A != slr.gPrime.StartSymbol() && followA[a] {
			prod := slr.prodByKey[prodKey(A, alpha)]
			reduceAct := LRAction{Type: LRReduce, Symbol: A, Production: prod}
			if err := resolve(reduceAct, prod.Priority); err != nil {
				return act, "", fmt.Errorf("grammar is not SLR(1): %w", err)
			}
		}

		// (c) If [S' -> S.] is in Iᵢ, ACTION[i, $] is "accept". The
		// augmented production never appears in prodByKey (it is keyed from
		// the original grammar only), so this is detected structurally
		// instead of by production identity.
		if a == "$" && A == slr.gPrime.StartSymbol() && len(alpha) == 1 && alpha[0] == slr.gStart && len(beta) == 0 {
			acceptAct := LRAction{Type: LRAccept}
			// priority is irrelevant for accept; it never legitimately
			// clashes with anything reachable on "$" in a valid grammar.
			if err := resolve(acceptAct, actPriority); err != nil {
				return act, "", fmt.Errorf("grammar is not SLR(1): %w", err)
			}
		}
	}

	if !alreadySet {
		act.Type = LRError
	}

	var diag string
	if len(diagnostics) > 0 {
		diag = diagnostics[0]
		for _, d := range diagnostics[1:] {
			diag += "; " + d
		}
	}

	return act, diag, nil
}

func (slr *slrTable) Action(i, a string) LRAction {
	act, _, err := slr.computeAction(i, a)
	if err != nil {
		panic(err.Error())
	}
	return act
}
