package quantity

import (
	"fmt"

	"github.com/dekarrin/physunits/internal/rational"
	"github.com/dekarrin/rezi"
)

// wireValue is the REZI-encodable storage representation of a Value. The
// registry itself is never encoded; a decoded Value is re-attached to
// whatever Registry the caller supplies, since that's the only thing that
// can say what the axes mean.
type wireValue struct {
	Num  float64
	Exps []string
}

// Encode returns the REZI binary encoding of v, for persistence layers that
// need to store a Value (e.g. an evaluation history record).
func (v Value) Encode() []byte {
	w := wireValue{Num: v.Num}
	for _, e := range v.Exps {
		w.Exps = append(w.Exps, e.RatString())
	}
	return rezi.EncBinary(w)
}

// DecodeValue reconstructs a Value from data produced by Encode, attaching
// it to reg. An error is returned if the stored exponent count does not
// match reg's axis count.
func DecodeValue(data []byte, reg *Registry) (Value, error) {
	var w wireValue
	n, err := rezi.DecBinary(data, &w)
	if err != nil {
		return Value{}, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return Value{}, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	if len(w.Exps) != reg.Len() {
		return Value{}, fmt.Errorf("stored exponent count %d does not match registry axis count %d", len(w.Exps), reg.Len())
	}

	exps := make([]Exponent, len(w.Exps))
	for i, s := range w.Exps {
		r, err := rational.FromRatString(s)
		if err != nil {
			return Value{}, fmt.Errorf("stored exponent %q is invalid: %w", s, err)
		}
		exps[i] = r
	}

	return Value{Num: w.Num, Exps: exps, Reg: reg}, nil
}
