package quantity

// Registry is the shared, immutable handle identifying one base-unit list.
// Combinability of two Values is decided by comparing *Registry pointers
// (reference equality), never by comparing the symbol slices structurally —
// two catalogs that happen to declare the same base units are still
// distinct registries.
type Registry struct {
	symbols []string
}

// NewRegistry freezes dim as the base-unit symbol list for a catalog. The
// caller must not reuse the slice afterward; NewRegistry takes ownership.
func NewRegistry(dim []string) *Registry {
	return &Registry{symbols: dim}
}

// Len is the dimensionality d: the length every exponent vector must have.
func (reg *Registry) Len() int {
	return len(reg.symbols)
}

// Symbol returns the base unit symbol at axis i, used when formatting a
// dimensioned value's unit suffix.
func (reg *Registry) Symbol(i int) string {
	return reg.symbols[i]
}

// ZeroExponents builds a fresh all-zero exponent vector sized for reg.
func (reg *Registry) ZeroExponents() []Exponent {
	return make([]Exponent, reg.Len())
}

// OneHot builds an exponent vector with a 1 at axis i and zero elsewhere,
// the exponent vector of an unprefixed base unit.
func (reg *Registry) OneHot(i int) []Exponent {
	v := reg.ZeroExponents()
	v[i] = OneExponent()
	return v
}
