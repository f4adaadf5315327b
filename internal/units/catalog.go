// Package units implements the unit catalog: base units, prefixes, derived
// units, constants, synonyms, and the function registry, plus ambiguous-
// decomposition lookup for concatenated unit strings like "nm" or "kPa".
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/physunits/internal/quantity"
)

var (
	ErrConfigConflict = errors.New("duplicate catalog key")
	ErrUnknownUnit    = errors.New("unknown unit")
	ErrAmbiguousUnit  = errors.New("ambiguous unit")
	ErrFrozen         = errors.New("catalog is frozen")
	ErrArityMismatch  = errors.New("wrong argument count")
)

// Prefix is a named multiplier, e.g. "n" = 1e-9.
type Prefix struct {
	Name       string
	Symbol     string
	Multiplier float64
}

type underlyingKind int

const (
	underlyingBase underlyingKind = iota
	underlyingDerived
	underlyingConstant
)

type unitEntry struct {
	prefix Prefix
	kind   underlyingKind
	axis   int             // valid when kind == underlyingBase
	value  quantity.Value   // unprefixed value; valid when kind is derived or constant
}

// Catalog is the unit catalog described by §3: base units fix the
// dimensionality, prefixes combine with base/derived units, derived units
// and constants are resolved lazily (they require a working parser),
// synonyms and removals are applied last, after which the catalog is
// frozen for the lifetime of the façade.
type Catalog struct {
	reg         *quantity.Registry
	baseSymbols []string
	prefixes    []Prefix
	units       map[string]unitEntry
	order       []string // insertion order; decomposition search walks this
	functions   map[string]Function
	frozen      bool
}

// NewCatalog creates an empty catalog over the given ordered base unit
// symbols, fixing the dimensionality d = len(baseSymbols).
func NewCatalog(baseSymbols []string) *Catalog {
	return &Catalog{
		reg:         quantity.NewRegistry(append([]string(nil), baseSymbols...)),
		baseSymbols: baseSymbols,
		units:       make(map[string]unitEntry),
		functions:   make(map[string]Function),
	}
}

// Registry returns the shared identity handle used to decide whether two
// dimensioned values are combinable.
func (c *Catalog) Registry() *quantity.Registry {
	return c.reg
}

func (c *Catalog) checkMutable() error {
	if c.frozen {
		return ErrFrozen
	}
	return nil
}

func (c *Catalog) insert(key string, e unitEntry) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if _, exists := c.units[key]; exists {
		return fmt.Errorf("catalog key %q already registered: %w", key, ErrConfigConflict)
	}
	c.units[key] = e
	c.order = append(c.order, key)
	return nil
}

// AddPrefix registers a prefix for later base×prefix cross-products. The
// empty-symbol sentinel prefix (multiplier 1) must be added once so that
// unprefixed units are handled uniformly with prefixed ones.
func (c *Catalog) AddPrefix(p Prefix) {
	c.prefixes = append(c.prefixes, p)
}

// RegisterBaseUnits registers every (prefix × base unit) combination for
// every prefix already added via AddPrefix, including the sentinel empty
// prefix. axis is the base unit's position in the registry's exponent
// vector, i.e. its index in the baseSymbols slice passed to NewCatalog.
func (c *Catalog) RegisterBaseUnits() error {
	for axis, symbol := range c.baseSymbols {
		for _, p := range c.prefixes {
			key := p.Symbol + symbol
			if err := c.insert(key, unitEntry{prefix: p, kind: underlyingBase, axis: axis}); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterDerived resolves a derived unit's already-parsed value and
// registers it, along with its prefix × derived cross-products, as
// described by §4.9 step 6.
func (c *Catalog) RegisterDerived(symbol string, value quantity.Value) error {
	for _, p := range c.prefixes {
		key := p.Symbol + symbol
		if err := c.insert(key, unitEntry{prefix: p, kind: underlyingDerived, value: value}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterConstant resolves a constant's already-parsed value and
// registers only its unprefixed entry — constants ignore prefixes by
// construction (§3).
func (c *Catalog) RegisterConstant(symbol string, value quantity.Value) error {
	empty := Prefix{Multiplier: 1}
	return c.insert(symbol, unitEntry{prefix: empty, kind: underlyingConstant, value: value})
}

// AddSynonym remaps newKey to whatever existingKey currently resolves to.
// Applied after derived units/constants are resolved, per §4.9 step 8.
func (c *Catalog) AddSynonym(newKey, existingKey string) error {
	existing, ok := c.units[existingKey]
	if !ok {
		return fmt.Errorf("synonym %q references unknown key %q: %w", newKey, existingKey, ErrUnknownUnit)
	}
	return c.insert(newKey, existing)
}

// Remove excises a key, applied after synonym installation per §4.9 step 8.
func (c *Catalog) Remove(key string) {
	delete(c.units, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Freeze fixes the iteration list; no further keys may be registered.
// Decomposition search depends on the catalog being frozen while in
// progress, so Freeze must be called before any Lookup.
func (c *Catalog) Freeze() {
	c.frozen = true
}

func (e unitEntry) resolve(reg *quantity.Registry) quantity.Value {
	switch e.kind {
	case underlyingBase:
		return quantity.NewBase(e.prefix.Multiplier, e.axis, reg)
	case underlyingDerived:
		return quantity.Value{Num: e.prefix.Multiplier * e.value.Num, Exps: e.value.Exps, Reg: reg}
	default: // underlyingConstant
		return e.value
	}
}

// Lookup resolves a unit name per §4.7: an exact catalog key match wins
// outright; otherwise a decomposition search runs over the frozen key set.
func (c *Catalog) Lookup(name string) (quantity.Value, error) {
	if e, ok := c.units[name]; ok {
		return e.resolve(c.reg), nil
	}

	decompositions := c.decompose(name)
	switch len(decompositions) {
	case 0:
		return quantity.Value{}, fmt.Errorf("%q: %w", name, ErrUnknownUnit)
	case 1:
		return c.multiplyPieces(decompositions[0]), nil
	default:
		return quantity.Value{}, fmt.Errorf("%q has %d decompositions (%s): %w", name, len(decompositions), describeCandidates(decompositions), ErrAmbiguousUnit)
	}
}

func (c *Catalog) multiplyPieces(keys []string) quantity.Value {
	result := quantity.NewUnitless(1, c.reg)
	for _, k := range keys {
		piece := c.units[k].resolve(c.reg)
		result.Num *= piece.Num
		for i := range result.Exps {
			result.Exps[i] = result.Exps[i].Add(piece.Exps[i])
		}
	}
	return result
}

func describeCandidates(decompositions [][]string) string {
	parts := make([]string, len(decompositions))
	for i, d := range decompositions {
		parts[i] = strings.Join(d, " ")
	}
	return strings.Join(parts, "; ")
}

// decompose recursively enumerates every way to split name into a
// concatenation of catalog keys, per §4.7. It is a plain recursive
// enumeration over catalog key prefixes: at every offset it tries every
// registered key as the next piece and recurses into the remainder,
// terminating when the remainder is consumed entirely.
func (c *Catalog) decompose(name string) [][]string {
	if name == "" {
		return [][]string{{}}
	}
	var results [][]string
	for _, key := range c.order {
		if key == "" || !strings.HasPrefix(name, key) {
			continue
		}
		rest := name[len(key):]
		for _, sub := range c.decompose(rest) {
			piece := append([]string{key}, sub...)
			results = append(results, piece)
		}
	}
	return results
}
