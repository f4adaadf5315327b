// Package rational wraps math/big.Rat to give the evaluator exact integer
// ratios for unit exponents and for magnitudes that arise from integer or
// rational literals, per the "num is an integer, float, or exact rational"
// requirement on a dimensioned value.
package rational

import (
	"fmt"
	"math/big"
)

// Rat is an exact rational number. The zero value is 0/1 and usable
// directly, matching big.Rat's own zero-value contract.
type Rat struct {
	r big.Rat
}

// Zero is the additive identity.
func Zero() Rat { return Rat{} }

// One is the multiplicative identity.
func One() Rat {
	var r Rat
	r.r.SetInt64(1)
	return r
}

// FromInt64 builds an exact rational from an integer.
func FromInt64(n int64) Rat {
	var r Rat
	r.r.SetInt64(n)
	return r
}

// FromFloat64 builds the closest exact rational representation of f, per
// big.Rat.SetFloat64 (exact for any finite IEEE-754 float64).
func FromFloat64(f float64) (Rat, error) {
	var r Rat
	if _, ok := r.r.SetFloat64(f); !ok {
		return Rat{}, fmt.Errorf("rational: %v is not a finite float", f)
	}
	return r, nil
}

// FromAny coerces a magnitude-shaped value (int, int64, float64, string,
// Rat, *big.Rat) into a Rat. Mirrors the coercion-by-type-switch idiom used
// for generic numeric storage cells elsewhere in this codebase's lineage.
func FromAny(v any) (Rat, bool) {
	switch t := v.(type) {
	case Rat:
		return t, true
	case *big.Rat:
		var r Rat
		r.r.Set(t)
		return r, true
	case big.Rat:
		var r Rat
		r.r.Set(&t)
		return r, true
	case int:
		return FromInt64(int64(t)), true
	case int64:
		return FromInt64(t), true
	case float64:
		r, err := FromFloat64(t)
		return r, err == nil
	case string:
		var r Rat
		if _, ok := r.r.SetString(t); ok {
			return r, true
		}
		return Rat{}, false
	default:
		return Rat{}, false
	}
}

func (a Rat) Add(b Rat) Rat {
	var r Rat
	r.r.Add(&a.r, &b.r)
	return r
}

func (a Rat) Sub(b Rat) Rat {
	var r Rat
	r.r.Sub(&a.r, &b.r)
	return r
}

func (a Rat) Mul(b Rat) Rat {
	var r Rat
	r.r.Mul(&a.r, &b.r)
	return r
}

func (a Rat) Quo(b Rat) Rat {
	var r Rat
	r.r.Quo(&a.r, &b.r)
	return r
}

func (a Rat) Neg() Rat {
	var r Rat
	r.r.Neg(&a.r)
	return r
}

// Scale multiplies a by the small integer n; used for exponent-vector
// scaling by an integer power (a^n).
func (a Rat) Scale(n int64) Rat {
	return a.Mul(FromInt64(n))
}

func (a Rat) IsZero() bool {
	return a.r.Sign() == 0
}

func (a Rat) Equal(b Rat) bool {
	return a.r.Cmp(&b.r) == 0
}

// IsOne reports whether a == 1, used when formatting an exponent vector
// (bare symbol vs "symbol^exponent").
func (a Rat) IsOne() bool {
	return a.r.Cmp(big.NewRat(1, 1)) == 0
}

// Float64 returns the nearest float64 approximation of a.
func (a Rat) Float64() float64 {
	f, _ := a.r.Float64()
	return f
}

// Pow raises a to an integer power. Negative n produces 1/a^|n|.
func (a Rat) Pow(n int64) Rat {
	if n == 0 {
		return One()
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result := One()
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	if neg {
		return One().Quo(result)
	}
	return result
}

// String renders a as an integer when the denominator is 1, else as a
// reduced "p/q" fraction.
func (a Rat) String() string {
	if a.r.IsInt() {
		return a.r.Num().String()
	}
	return a.r.RatString()
}

// RatString returns the exact "p/q" (or bare integer) wire form of a,
// parseable back losslessly by FromRatString. Used for binary persistence of
// exponent vectors, where String's formatting is not guaranteed stable.
func (a Rat) RatString() string {
	return a.r.RatString()
}

// FromRatString parses the exact wire form produced by RatString.
func FromRatString(s string) (Rat, error) {
	var r Rat
	if _, ok := r.r.SetString(s); !ok {
		return Rat{}, fmt.Errorf("rational: invalid rat string %q", s)
	}
	return r, nil
}
