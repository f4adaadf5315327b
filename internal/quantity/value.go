// Package quantity implements dimensioned values: a numeric magnitude
// paired with a rational exponent vector over a frozen base-unit registry,
// plus the arithmetic operator table that enforces dimensional homogeneity.
package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dekarrin/physunits/internal/rational"
)

// Exponent is one component of a dimensioned value's exponent vector.
type Exponent = rational.Rat

// OneExponent is the exponent 1, used for one-hot base-unit vectors.
func OneExponent() Exponent { return rational.One() }

// Value is a dimensioned value: a magnitude paired with an exponent vector
// over a shared Registry. Two Values are combinable only when Reg is the
// same registry instance (see Registry's doc comment).
type Value struct {
	Num  float64
	Exps []Exponent
	Reg  *Registry
}

// NewUnitless builds a dimensionless value (all-zero exponent vector) over
// reg, e.g. the result of applying a unitless function.
func NewUnitless(num float64, reg *Registry) Value {
	return Value{Num: num, Exps: reg.ZeroExponents(), Reg: reg}
}

// NewBase builds the one-hot value for base unit axis i scaled by a
// prefix/unit multiplier.
func NewBase(num float64, axis int, reg *Registry) Value {
	return Value{Num: num, Exps: reg.OneHot(axis), Reg: reg}
}

// IsUnitless reports whether every exponent is zero.
func (v Value) IsUnitless() bool {
	for _, e := range v.Exps {
		if !e.IsZero() {
			return false
		}
	}
	return true
}

// DimensionallyEqual reports whether v and o have component-wise equal
// exponent vectors. It does not check registry identity.
func (v Value) DimensionallyEqual(o Value) bool {
	if len(v.Exps) != len(o.Exps) {
		return false
	}
	for i := range v.Exps {
		if !v.Exps[i].Equal(o.Exps[i]) {
			return false
		}
	}
	return true
}

func (v Value) sameRegistry(o Value) error {
	if v.Reg != o.Reg {
		return ErrForeignRegistry
	}
	return nil
}

// Add implements dimensioned a + b: requires equal exponent vectors,
// unchanged in the result.
func (v Value) Add(o Value) (Value, error) {
	if err := v.sameRegistry(o); err != nil {
		return Value{}, err
	}
	if !v.DimensionallyEqual(o) {
		return Value{}, fmt.Errorf("cannot add %s and %s: %w", v.unitSuffix(), o.unitSuffix(), ErrDimensionMismatch)
	}
	return Value{Num: v.Num + o.Num, Exps: v.Exps, Reg: v.Reg}, nil
}

// Sub implements dimensioned a - b, symmetric to Add.
func (v Value) Sub(o Value) (Value, error) {
	if err := v.sameRegistry(o); err != nil {
		return Value{}, err
	}
	if !v.DimensionallyEqual(o) {
		return Value{}, fmt.Errorf("cannot subtract %s from %s: %w", o.unitSuffix(), v.unitSuffix(), ErrDimensionMismatch)
	}
	return Value{Num: v.Num - o.Num, Exps: v.Exps, Reg: v.Reg}, nil
}

// MulDimensioned implements dimensioned a * b: magnitudes multiply,
// exponent vectors add.
func (v Value) MulDimensioned(o Value) (Value, error) {
	if err := v.sameRegistry(o); err != nil {
		return Value{}, err
	}
	return Value{Num: v.Num * o.Num, Exps: addVec(v.Exps, o.Exps), Reg: v.Reg}, nil
}

// MulScalar implements a * k / k * a: the exponent vector is unchanged.
func (v Value) MulScalar(k float64) Value {
	return Value{Num: v.Num * k, Exps: v.Exps, Reg: v.Reg}
}

// DivDimensioned implements dimensioned a / b: magnitudes divide, exponent
// vectors subtract.
func (v Value) DivDimensioned(o Value) (Value, error) {
	if err := v.sameRegistry(o); err != nil {
		return Value{}, err
	}
	return Value{Num: v.Num / o.Num, Exps: subVec(v.Exps, o.Exps), Reg: v.Reg}, nil
}

// DivScalar implements a / k: scale the magnitude, exponents unchanged.
func (v Value) DivScalar(k float64) Value {
	return Value{Num: v.Num / k, Exps: v.Exps, Reg: v.Reg}
}

// ScalarDivBy implements k / a: the scalar divides a dimensioned value, so
// the exponent vector negates.
func (v Value) ScalarDivBy(k float64) Value {
	return Value{Num: k / v.Num, Exps: negVec(v.Exps), Reg: v.Reg}
}

// Neg implements unary -a: negate the magnitude only.
func (v Value) Neg() Value {
	return Value{Num: -v.Num, Exps: v.Exps, Reg: v.Reg}
}

// Pow implements a ** b: b must be unitless; its magnitude is promoted to
// an exact rational and used to scale the exponent vector, while the
// result magnitude uses ordinary float exponentiation (exact rational
// exponentiation is not generally rational-valued).
func (v Value) Pow(exponent Value) (Value, error) {
	if !exponent.IsUnitless() {
		return Value{}, fmt.Errorf("exponent %s is not dimensionless: %w", exponent.unitSuffix(), ErrNotUnitless)
	}
	expRat, err := rational.FromFloat64(exponent.Num)
	if err != nil {
		return Value{}, err
	}
	scaled := make([]Exponent, len(v.Exps))
	for i, e := range v.Exps {
		scaled[i] = e.Mul(expRat)
	}
	return Value{Num: math.Pow(v.Num, exponent.Num), Exps: scaled, Reg: v.Reg}, nil
}

// Sqrt is the dimension-preserving sqrt: exponents halve.
func (v Value) Sqrt() Value {
	half := rational.FromInt64(1).Quo(rational.FromInt64(2))
	scaled := make([]Exponent, len(v.Exps))
	for i, e := range v.Exps {
		scaled[i] = e.Mul(half)
	}
	return Value{Num: math.Sqrt(v.Num), Exps: scaled, Reg: v.Reg}
}

func addVec(a, b []Exponent) []Exponent {
	out := make([]Exponent, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i])
	}
	return out
}

func subVec(a, b []Exponent) []Exponent {
	out := make([]Exponent, len(a))
	for i := range a {
		out[i] = a[i].Sub(b[i])
	}
	return out
}

func negVec(a []Exponent) []Exponent {
	out := make([]Exponent, len(a))
	for i := range a {
		out[i] = a[i].Neg()
	}
	return out
}

func (v Value) unitSuffix() string {
	var sb strings.Builder
	for i, e := range v.Exps {
		if e.IsZero() {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(v.Reg.Symbol(i))
		if !e.IsOne() {
			sb.WriteByte('^')
			sb.WriteString(e.String())
		}
	}
	return strings.TrimSpace(sb.String())
}

// String formats v to 12 significant digits of floating-point
// representation, followed by " <symbol>" or " <symbol>^<rational>" for
// each base unit with a non-zero exponent.
func (v Value) String() string {
	mag := strconv.FormatFloat(v.Num, 'g', 12, 64)
	suffix := v.unitSuffix()
	if suffix == "" {
		return mag
	}
	return mag + " " + suffix
}
