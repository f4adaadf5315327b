// Package grammar collects terminals and nonterminals from a set of
// productions and computes the nullable/FIRST/FOLLOW fixpoints the
// automaton and table-building packages need. See Grammar.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/physunits/internal/util"
)

// epsilon is the internal marker used within FIRST/FOLLOW sets to denote
// "the empty string is derivable here". It never appears as a real grammar
// symbol.
const epsilon = ""

// Production is one alternative expansion of a nonterminal: a target, an
// ordered list of expansion symbols, the semantic reduction function applied
// at reduce time, and a priority used only to break shift/reduce and
// reduce/reduce ties during action table construction. Every production has
// at least one expansion symbol; there are no ε productions at this layer.
type Production struct {
	ID       int
	Target   string
	Symbols  []string
	Action   func(payloads []any) (any, error)
	Priority int
}

func (p Production) String() string {
	return fmt.Sprintf("%s -> %s", p.Target, strings.Join(p.Symbols, " "))
}

// Rule is every production sharing the same target nonterminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Grammar holds a set of productions, the terminals they reference, and the
// nullable/FIRST/FOLLOW sets derived from them. The zero value is usable;
// productions are added with AddProduction and terminals with AddTerminal.
// Start defaults to "START" if left blank, matching the entry nonterminal
// of the expression grammar (production id 0 is always START -> EXP).
type Grammar struct {
	Start string

	rulesByName map[string]int
	rules       []Rule
	terminals   util.StringSet
	nextID      int

	nullableCache map[string]bool
	firstCache    map[string]map[string]bool
	followCache   map[string]map[string]bool
}

// StartSymbol returns the grammar's entry nonterminal, "START" if Start was
// never set.
func (g Grammar) StartSymbol() string {
	if g.Start == "" {
		return "START"
	}
	return g.Start
}

// AddTerminal registers name as a terminal symbol (a lexer token name). It
// is an error to later add a production targeting the same name.
func (g *Grammar) AddTerminal(name string) {
	if name == "" {
		panic("empty terminal name not allowed")
	}
	if g.terminals == nil {
		g.terminals = util.NewStringSet()
	}
	g.terminals.Add(name)
	g.invalidateCaches()
}

// AddProduction adds one expansion of nonterminal to the grammar and returns
// its assigned, stable id. Ids are assigned in insertion order starting at
// 0; the first production added to an empty grammar is conventionally
// START -> EXP, giving it id 0. priority defaults to -1 (only consulted
// during conflict resolution) when passed as -1 or left unspecified by the
// caller.
func (g *Grammar) AddProduction(nonterminal string, symbols []string, action func(payloads []any) (any, error), priority int) int {
	if nonterminal == "" {
		panic("empty nonterminal name not allowed")
	}
	if len(symbols) < 1 {
		panic("production must have at least one expansion symbol")
	}

	id := g.nextID
	g.nextID++

	prod := Production{ID: id, Target: nonterminal, Symbols: symbols, Action: action, Priority: priority}

	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}
	idx, ok := g.rulesByName[nonterminal]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		idx = len(g.rules) - 1
		g.rulesByName[nonterminal] = idx
	}
	g.rules[idx].Productions = append(g.rules[idx].Productions, prod)

	g.invalidateCaches()
	return id
}

func (g *Grammar) invalidateCaches() {
	g.nullableCache = nil
	g.firstCache = nil
	g.followCache = nil
}

// Rule returns the grammar rule (all productions) for nonterminal. If no
// production targets it, an empty Rule is returned.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}
	idx, ok := g.rulesByName[nonterminal]
	if !ok {
		return Rule{}
	}
	return g.rules[idx]
}

// Productions returns every production in the grammar, in id order.
func (g Grammar) Productions() []Production {
	var all []Production
	for _, r := range g.rules {
		all = append(all, r.Productions...)
	}
	return all
}

// NonTerminals returns every nonterminal with at least one production, in
// the order their first production was added.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.NonTerminal
	}
	return names
}

// Terminals returns every registered terminal symbol, sorted.
func (g Grammar) Terminals() []string {
	return g.terminals.Elements()
}

// IsNonTerminal returns whether sym has at least one production.
func (g Grammar) IsNonTerminal(sym string) bool {
	if g.rulesByName == nil {
		return false
	}
	_, ok := g.rulesByName[sym]
	return ok
}

// IsTerminal returns whether sym was registered via AddTerminal.
func (g Grammar) IsTerminal(sym string) bool {
	return g.terminals.Has(sym)
}

// Augmented returns a copy of g with one synthetic nonterminal added:
// START' -> START (the grammar's current start symbol), and sets the
// returned grammar's Start to that new symbol. Used only to build the
// item NFA and to seed FOLLOW(START) with the end-of-text marker; the
// augmenting production never appears in the action table.
func (g Grammar) Augmented() Grammar {
	oldStart := g.StartSymbol()

	g2 := g.copy()
	augStart := oldStart + "'"
	for g2.IsNonTerminal(augStart) {
		augStart += "'"
	}
	g2.AddProduction(augStart, []string{oldStart}, nil, -1)
	g2.Start = augStart

	return g2
}

func (g Grammar) copy() Grammar {
	g2 := Grammar{
		Start:       g.Start,
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		terminals:   g.terminals.Copy(),
		nextID:      g.nextID,
	}
	for k, v := range g.rulesByName {
		g2.rulesByName[k] = v
	}
	for i, r := range g.rules {
		prods := make([]Production, len(r.Productions))
		copy(prods, r.Productions)
		g2.rules[i] = Rule{NonTerminal: r.NonTerminal, Productions: prods}
	}
	return g2
}

// LR0Items returns every LR(0) item (one per dot position, 0..len(symbols))
// of every production in the grammar, in production-id then dot-position
// order.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, p := range g.Productions() {
		for dot := 0; dot <= len(p.Symbols); dot++ {
			items = append(items, LR0Item{
				NonTerminal: p.Target,
				Left:        append([]string{}, p.Symbols[:dot]...),
				Right:       append([]string{}, p.Symbols[dot:]...),
			})
		}
	}
	return items
}

// Nullable reports whether nonterminal X can derive the empty string. Under
// this grammar's invariant that every production has at least one symbol,
// X is nullable only if it has a production all of whose symbols are
// themselves nullable nonterminals.
func (g *Grammar) Nullable(X string) bool {
	g.computeNullable()
	return g.nullableCache[X]
}

func (g *Grammar) computeNullable() {
	if g.nullableCache != nil {
		return
	}
	nullable := map[string]bool{}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if nullable[r.NonTerminal] {
				continue
			}
			for _, p := range r.Productions {
				allNullable := true
				for _, sym := range p.Symbols {
					if g.IsTerminal(sym) || !nullable[sym] {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable[r.NonTerminal] = true
					changed = true
					break
				}
			}
		}
	}

	g.nullableCache = nullable
}

// FIRST returns the set of terminals (plus, if X is nullable, the internal
// epsilon marker) that can begin a string derived from X. If X is a
// terminal, FIRST(X) = {X}.
func (g *Grammar) FIRST(X string) map[string]bool {
	g.computeFirst()
	if set, ok := g.firstCache[X]; ok {
		return set
	}
	if g.IsTerminal(X) || !g.IsNonTerminal(X) {
		return map[string]bool{X: true}
	}
	return map[string]bool{}
}

// firstOfSequence computes FIRST of a sequence of symbols, the standard
// FIRST(X1 X2 ... Xk) extension used when scanning across a production.
func (g *Grammar) firstOfSequence(symbols []string) map[string]bool {
	result := map[string]bool{}
	if len(symbols) == 0 {
		result[epsilon] = true
		return result
	}

	allNullableSoFar := true
	for _, sym := range symbols {
		firstSym := g.FIRST(sym)
		for s := range firstSym {
			if s != epsilon {
				result[s] = true
			}
		}
		if !firstSym[epsilon] {
			allNullableSoFar = false
			break
		}
	}
	if allNullableSoFar {
		result[epsilon] = true
	}
	return result
}

func (g *Grammar) computeFirst() {
	if g.firstCache != nil {
		return
	}
	g.computeNullable()

	first := map[string]map[string]bool{}
	for _, r := range g.rules {
		first[r.NonTerminal] = map[string]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			cur := first[r.NonTerminal]
			for _, p := range r.Productions {
				before := len(cur)
				seq := g.firstOfSequenceUsing(first, p.Symbols)
				for s := range seq {
					cur[s] = true
				}
				if len(cur) != before {
					changed = true
				}
			}
		}
	}

	g.firstCache = first
}

// firstOfSequenceUsing is firstOfSequence but reads nonterminal FIRST sets
// out of an in-progress fixpoint table instead of the (not yet finished)
// cache, so it is safe to call from computeFirst's iteration loop.
func (g *Grammar) firstOfSequenceUsing(table map[string]map[string]bool, symbols []string) map[string]bool {
	result := map[string]bool{}
	allNullableSoFar := true
	for _, sym := range symbols {
		var firstSym map[string]bool
		if g.IsNonTerminal(sym) {
			firstSym = table[sym]
		} else {
			firstSym = map[string]bool{sym: true}
		}
		for s := range firstSym {
			if s != epsilon {
				result[s] = true
			}
		}
		if !firstSym[epsilon] {
			allNullableSoFar = false
			break
		}
	}
	if allNullableSoFar {
		result[epsilon] = true
	}
	return result
}

// FOLLOW returns the set of terminals (and possibly "$", the end-of-text
// marker) that can immediately follow X in some sentential form, computed
// over the extended production set (the grammar's own productions plus the
// augmenting START' -> START production). See spec §4.2.
func (g *Grammar) FOLLOW(X string) map[string]bool {
	g.computeFollow()
	if set, ok := g.followCache[X]; ok {
		return set
	}
	return map[string]bool{}
}

const endOfText = "$"

func (g *Grammar) computeFollow() {
	if g.followCache != nil {
		return
	}
	g.computeFirst()

	ext := g.Augmented()

	follow := map[string]map[string]bool{}
	for _, nt := range ext.NonTerminals() {
		follow[nt] = map[string]bool{}
	}
	follow[ext.StartSymbol()][endOfText] = true

	changed := true
	for changed {
		changed = false
		for _, r := range ext.rules {
			for _, p := range r.Productions {
				for i, X := range p.Symbols {
					if !ext.IsNonTerminal(X) {
						continue
					}
					before := len(follow[X])

					beta := p.Symbols[i+1:]
					betaFirst := ext.firstOfSequenceUsingFollow(beta)
					for s := range betaFirst {
						if s != epsilon {
							follow[X][s] = true
						}
					}
					if betaFirst[epsilon] && r.NonTerminal != X {
						for s := range follow[r.NonTerminal] {
							follow[X][s] = true
						}
					}

					if len(follow[X]) != before {
						changed = true
					}
				}
			}
		}
	}

	g.followCache = follow
}

// firstOfSequenceUsingFollow is firstOfSequence restricted to the grammar's
// own FIRST cache, which must already be populated (computeFollow always
// calls computeFirst first).
func (g *Grammar) firstOfSequenceUsingFollow(symbols []string) map[string]bool {
	result := map[string]bool{}
	allNullableSoFar := true
	for _, sym := range symbols {
		firstSym := g.FIRST(sym)
		for s := range firstSym {
			if s != epsilon {
				result[s] = true
			}
		}
		if !firstSym[epsilon] {
			allNullableSoFar = false
			break
		}
	}
	if allNullableSoFar {
		result[epsilon] = true
	}
	return result
}

// Validate reports any nonterminal referenced by a production but never
// defined, any terminal referenced but never registered, and a missing
// start symbol.
func (g Grammar) Validate() error {
	if len(g.rules) < 1 {
		return fmt.Errorf("no productions defined in grammar")
	}
	if g.terminals.Empty() {
		return fmt.Errorf("no terminals defined in grammar")
	}

	var errs []string
	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, sym := range p.Symbols {
				if g.IsNonTerminal(sym) || g.IsTerminal(sym) {
					continue
				}
				errs = append(errs, fmt.Sprintf("production %q references undefined symbol %q", p, sym))
			}
		}
	}

	if _, ok := g.rulesByName[g.StartSymbol()]; !ok {
		errs = append(errs, fmt.Sprintf("no productions defined for start symbol %q", g.StartSymbol()))
	}

	if len(errs) > 0 {
		return fmt.Errorf(strings.Join(errs, "\n"))
	}
	return nil
}

func (g Grammar) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("(start=%q, T=%v, R=[", g.StartSymbol(), g.Terminals()))
	for i, r := range g.rules {
		sb.WriteString(r.NonTerminal)
		sb.WriteString(" -> ")
		for j, p := range r.Productions {
			sb.WriteString(strings.Join(p.Symbols, " "))
			if j+1 < len(r.Productions) {
				sb.WriteString(" | ")
			}
		}
		if i+1 < len(g.rules) {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("])")
	return sb.String()
}
