package physunits

import (
	"fmt"

	"github.com/dekarrin/physunits/internal/qlang/grammar"
	"github.com/dekarrin/physunits/internal/quantity"
	"github.com/dekarrin/physunits/internal/units"
)

// buildGrammar constructs the unambiguous layered expression grammar from
// §6: EXP/EXP1/EXP2/EXP3/EXP4/ARGS, entry production START -> EXP at id 0.
// Every semantic action closes over cat to resolve identifiers, apply
// functions, and tag bare numeric literals with cat's registry so they
// combine correctly with dimensioned operands.
func buildGrammar(cat *units.Catalog) grammar.Grammar {
	var g grammar.Grammar

	for _, t := range []string{"num", "id", "open", "close", "add", "mul", "pow", "comma", "func"} {
		g.AddTerminal(t)
	}

	reg := cat.Registry()

	g.AddProduction("START", []string{"EXP"}, passthrough, -1)

	g.AddProduction("EXP", []string{"EXP1"}, passthrough, -1)
	g.AddProduction("EXP", []string{"EXP", "add", "EXP1"}, func(p []any) (any, error) {
		return applyAddSub(p[0].(quantity.Value), p[1].(bool), p[2].(quantity.Value))
	}, -1)

	g.AddProduction("EXP1", []string{"EXP2"}, passthrough, -1)
	g.AddProduction("EXP1", []string{"EXP1", "mul", "EXP2"}, func(p []any) (any, error) {
		return applyMulDiv(p[0].(quantity.Value), p[1].(bool), p[2].(quantity.Value))
	}, -1)
	g.AddProduction("EXP1", []string{"EXP1", "EXP3"}, func(p []any) (any, error) {
		// juxtaposition = multiply
		return p[0].(quantity.Value).MulDimensioned(p[1].(quantity.Value))
	}, -1)

	g.AddProduction("EXP2", []string{"EXP3"}, passthrough, -1)
	g.AddProduction("EXP2", []string{"add", "EXP3"}, func(p []any) (any, error) {
		v := p[1].(quantity.Value)
		if p[0].(bool) {
			return v, nil
		}
		return v.Neg(), nil
	}, -1)

	g.AddProduction("EXP3", []string{"EXP4"}, passthrough, -1)
	g.AddProduction("EXP3", []string{"EXP4", "pow", "EXP2"}, func(p []any) (any, error) {
		return p[0].(quantity.Value).Pow(p[1].(quantity.Value))
	}, -1)

	g.AddProduction("EXP4", []string{"num"}, func(p []any) (any, error) {
		return quantity.NewUnitless(p[0].(float64), reg), nil
	}, -1)
	g.AddProduction("EXP4", []string{"id"}, func(p []any) (any, error) {
		return cat.Lookup(p[0].(string))
	}, -1)
	g.AddProduction("EXP4", []string{"open", "EXP", "close"}, passthrough, -1)
	g.AddProduction("EXP4", []string{"func", "open", "ARGS", "close"}, func(p []any) (any, error) {
		name := p[0].(string)
		args := p[1].([]quantity.Value)
		fn, ok := cat.Function(name)
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownFunction)
		}
		return cat.Apply(fn, args)
	}, -1)

	g.AddProduction("ARGS", []string{"EXP"}, func(p []any) (any, error) {
		return []quantity.Value{p[0].(quantity.Value)}, nil
	}, -1)
	g.AddProduction("ARGS", []string{"ARGS", "comma", "EXP"}, func(p []any) (any, error) {
		args := p[0].([]quantity.Value)
		return append(args, p[1].(quantity.Value)), nil
	}, -1)

	return g
}

func passthrough(p []any) (any, error) {
	return p[0], nil
}

func applyAddSub(a quantity.Value, plus bool, b quantity.Value) (quantity.Value, error) {
	if plus {
		return a.Add(b)
	}
	return a.Sub(b)
}

func applyMulDiv(a quantity.Value, times bool, b quantity.Value) (quantity.Value, error) {
	if times {
		return a.MulDimensioned(b)
	}
	return a.DivDimensioned(b)
}
