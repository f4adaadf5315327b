package units

import (
	"fmt"

	"github.com/dekarrin/physunits/internal/quantity"
)

// UnitlessFunc receives raw magnitudes (every argument has already been
// checked dimensionless) and returns a raw magnitude, re-wrapped into a
// zero-exponent Value by Apply.
type UnitlessFunc func(args []float64) (float64, error)

// DimensionedFunc receives full dimensioned values and must itself produce
// a dimensionally-correct result; used for functions like sqrt and pow
// whose result's exponent vector depends on the arguments'.
type DimensionedFunc func(args []quantity.Value) (quantity.Value, error)

// Function is one function-registry entry: name, declared arity, whether
// arguments must be dimensionless, and exactly one of Scalar/Dimensioned
// depending on the Unitless flag.
type Function struct {
	Name        string
	Arity       int
	Unitless    bool
	Scalar      UnitlessFunc
	Dimensioned DimensionedFunc
}

// AddFunction registers or replaces a function. Per §9's "function
// registry pattern mutation" note, registering a function never
// invalidates values already parsed — it only changes what subsequent
// lexes of the func token recognize.
func (c *Catalog) AddFunction(fn Function) {
	c.functions[fn.Name] = fn
}

// Function looks up a registered function by name.
func (c *Catalog) Function(name string) (Function, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// FunctionNames returns every currently registered function name, in no
// particular order; the lexer sorts them by descending length itself.
func (c *Catalog) FunctionNames() []string {
	names := make([]string, 0, len(c.functions))
	for name := range c.functions {
		names = append(names, name)
	}
	return names
}

// Apply invokes fn on args per §4.7: arity is checked first; if fn is
// unitless every argument must be dimensionless and the callable receives
// raw magnitudes, with its result re-wrapped into a zero-exponent value;
// otherwise arguments and the result pass through as full dimensioned
// values.
func (c *Catalog) Apply(fn Function, args []quantity.Value) (quantity.Value, error) {
	if len(args) != fn.Arity {
		return quantity.Value{}, fmt.Errorf("%s expects %d argument(s), got %d: %w", fn.Name, fn.Arity, len(args), ErrArityMismatch)
	}

	if !fn.Unitless {
		return fn.Dimensioned(args)
	}

	magnitudes := make([]float64, len(args))
	for i, a := range args {
		if !a.IsUnitless() {
			return quantity.Value{}, fmt.Errorf("%s: argument %d is not dimensionless: %w", fn.Name, i, quantity.ErrNotUnitless)
		}
		magnitudes[i] = a.Num
	}

	result, err := fn.Scalar(magnitudes)
	if err != nil {
		return quantity.Value{}, err
	}
	return quantity.NewUnitless(result, c.reg), nil
}
