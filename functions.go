package physunits

import (
	"math"

	"github.com/dekarrin/physunits/internal/quantity"
	"github.com/dekarrin/physunits/internal/units"
)

// installDefaultFunctions registers the §6 default function set.
//
// log's open question (§9): the façade declares log at arity 2 and
// implements base-b logarithm as ln(x)/ln(b) rather than silently reusing
// the single-argument ln implementation — see DESIGN.md.
func installDefaultFunctions(cat *units.Catalog) {
	unary := func(name string, f func(float64) float64) {
		cat.AddFunction(units.Function{
			Name: name, Arity: 1, Unitless: true,
			Scalar: func(args []float64) (float64, error) { return f(args[0]), nil },
		})
	}

	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("asinh", math.Asinh)
	unary("acosh", math.Acosh)
	unary("atanh", math.Atanh)
	unary("exp", math.Exp)
	unary("ln", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)

	cat.AddFunction(units.Function{
		Name: "log", Arity: 2, Unitless: true,
		Scalar: func(args []float64) (float64, error) {
			return math.Log(args[0]) / math.Log(args[1]), nil
		},
	})

	cat.AddFunction(units.Function{
		Name: "sqrt", Arity: 1, Unitless: false,
		Dimensioned: func(args []quantity.Value) (quantity.Value, error) {
			return args[0].Sqrt(), nil
		},
	})

	cat.AddFunction(units.Function{
		Name: "pow", Arity: 2, Unitless: false,
		Dimensioned: func(args []quantity.Value) (quantity.Value, error) {
			return args[0].Pow(args[1])
		},
	})
}
