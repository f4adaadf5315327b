// Package physunits parses arithmetic expressions over physical quantities:
// numbers, unit names, and function calls combine under a small grammar
// into dimensioned values, with dimensional-homogeneity checked at every
// operator.
package physunits

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dekarrin/physunits/internal/qlang/lex"
	"github.com/dekarrin/physunits/internal/qlang/parse"
	"github.com/dekarrin/physunits/internal/quantity"
	"github.com/dekarrin/physunits/internal/units"
)

// Facade is a fully constructed expression evaluator: a frozen unit
// catalog, lexer, and parser table built from one Config. All parser-
// generator state is immutable after New returns; parsing is a pure
// function of the input text over that frozen state (see §5's concurrency
// model — a Facade is not safe for concurrent AddFunction calls, by design,
// though concurrent Parse/InUnitsOf calls never mutate anything and are
// safe).
type Facade struct {
	catalog *units.Catalog
	lexer   *lex.Lexer
	parser  parse.Parser
}

// New builds a Facade from the JSON configuration at path, following the
// eight-step construction sequence of §4.9.
func New(path string) (*Facade, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return build(cfg)
}

// NewFromConfig builds a Facade directly from an already-parsed Config,
// useful for embedding a configuration as Go data instead of a JSON file.
func NewFromConfig(cfg Config) (*Facade, error) {
	return build(cfg)
}

func build(cfg Config) (*Facade, error) {
	// Step 1 is the caller's Config; steps 2-8 follow.

	baseSymbols := make([]string, len(cfg.BaseUnits))
	for i, bu := range cfg.BaseUnits {
		baseSymbols[i] = bu[1]
	}
	cat := units.NewCatalog(baseSymbols)

	// Step 2: register base x prefix combinations.
	cat.AddPrefix(units.Prefix{Name: "", Symbol: "", Multiplier: 1})
	for _, p := range cfg.Prefixes {
		cat.AddPrefix(units.Prefix{Name: p.Name, Symbol: p.Symbol, Multiplier: p.Multiplier})
	}
	if err := cat.RegisterBaseUnits(); err != nil {
		return nil, fmt.Errorf("registering base units: %w", err)
	}

	// Step 3: lexer + parser tables.
	lexer, err := buildLexer()
	if err != nil {
		return nil, fmt.Errorf("building lexer: %w", err)
	}
	g := buildGrammar(cat)
	parser, diagnostics, err := parse.GenerateSimpleLRParser(g)
	if err != nil {
		return nil, fmt.Errorf("grammar is not SLR(1): %w", err)
	}
	_ = diagnostics // the layered grammar is conflict-free; nothing to surface

	f := &Facade{catalog: cat, lexer: lexer, parser: parser}

	// Step 4: install default functions.
	installDefaultFunctions(cat)

	// Step 5: update the func lexer pattern.
	if err := lexer.SetFuncNames(cat.FunctionNames()); err != nil {
		return nil, fmt.Errorf("updating func pattern: %w", err)
	}

	// Step 6: resolve derived units by parsing against the now-functional
	// parser, then register prefix x derived cross-products.
	for _, du := range cfg.DerivedUnits {
		name, symbol, expr := du[0], du[1], du[2]
		value, err := f.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("resolving derived unit %q (%s): %w", name, symbol, err)
		}
		if err := cat.RegisterDerived(symbol, value); err != nil {
			return nil, fmt.Errorf("registering derived unit %q: %w", name, err)
		}
	}

	// Step 7: resolve constants similarly (unprefixed only).
	for _, c := range cfg.Constants {
		name, symbol, expr := c[0], c[1], c[2]
		value, err := f.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("resolving constant %q (%s): %w", name, symbol, err)
		}
		if err := cat.RegisterConstant(symbol, value); err != nil {
			return nil, fmt.Errorf("registering constant %q: %w", name, err)
		}
	}

	// Step 8: synonyms and removals, then freeze.
	for newKey, existingKey := range cfg.Synonyms {
		if err := cat.AddSynonym(newKey, existingKey); err != nil {
			return nil, fmt.Errorf("registering synonym %q: %w", newKey, err)
		}
	}
	for _, key := range cfg.Remove {
		cat.Remove(key)
	}
	cat.Freeze()

	return f, nil
}

// Parse evaluates text and returns the dimensioned value it denotes.
func (f *Facade) Parse(text string) (quantity.Value, error) {
	stream, err := f.lexer.Lex(text)
	if err != nil {
		return quantity.Value{}, err
	}

	result, err := f.parser.Parse(stream)
	if err != nil {
		return quantity.Value{}, err
	}

	v, ok := result.(quantity.Value)
	if !ok {
		return quantity.Value{}, fmt.Errorf("internal error: parse produced %T, not a dimensioned value", result)
	}
	return v, nil
}

// InUnitsOf returns v expressed as a multiple of r's units: v / r, demanded
// to be unitless. The raw magnitude is returned on success.
func (f *Facade) InUnitsOf(v, r quantity.Value) (float64, error) {
	ratio, err := v.DivDimensioned(r)
	if err != nil {
		return 0, err
	}
	if !ratio.IsUnitless() {
		return 0, fmt.Errorf("%s is not commensurable with %s: %w", v, r, quantity.ErrNotUnitless)
	}
	return ratio.Num, nil
}

// AddFunction registers a unitless custom function and re-updates the
// lexer's func pattern; the parser tables are unaffected, since the
// grammar already admits the func terminal generically.
func (f *Facade) AddFunction(name string, arity int, unitless bool, scalar units.UnitlessFunc, dimensioned units.DimensionedFunc) error {
	f.catalog.AddFunction(units.Function{
		Name: name, Arity: arity, Unitless: unitless,
		Scalar: scalar, Dimensioned: dimensioned,
	})
	return f.lexer.SetFuncNames(f.catalog.FunctionNames())
}

// DumpTables returns the SLR(1) action/goto table as a formatted string,
// for the --dump-tables debug flag.
func (f *Facade) DumpTables() string {
	return f.parser.TableString()
}

// Registry returns the catalog's dimension registry, needed to reattach a
// Value decoded from persisted storage (see quantity.DecodeValue).
func (f *Facade) Registry() *quantity.Registry {
	return f.catalog.Registry()
}
