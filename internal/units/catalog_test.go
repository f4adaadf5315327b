package units

import (
	"testing"

	"github.com/dekarrin/physunits/internal/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog([]string{"m", "kg", "s"})
	c.AddPrefix(Prefix{Name: "", Symbol: "", Multiplier: 1})
	c.AddPrefix(Prefix{Name: "nano", Symbol: "n", Multiplier: 1e-9})
	c.AddPrefix(Prefix{Name: "exa", Symbol: "E", Multiplier: 1e18})
	require.NoError(t, c.RegisterBaseUnits())
	return c
}

func Test_Catalog_ExactKeyMatchResolvesDirectly(t *testing.T) {
	c := buildTestCatalog(t)
	v, err := c.Lookup("nm")
	require.NoError(t, err)
	assert.Equal(t, 1e-9, v.Num)
	assert.True(t, v.Exps[0].IsOne())
}

func Test_Catalog_UnknownUnitErrors(t *testing.T) {
	c := buildTestCatalog(t)
	c.Freeze()
	_, err := c.Lookup("zz")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func Test_Catalog_DuplicateKeyIsConfigConflict(t *testing.T) {
	c := NewCatalog([]string{"m"})
	c.AddPrefix(Prefix{Symbol: "", Multiplier: 1})
	require.NoError(t, c.RegisterBaseUnits())

	err := c.insert("m", unitEntry{})
	assert.ErrorIs(t, err, ErrConfigConflict)
}

func Test_Catalog_AmbiguousDecompositionListsCandidates(t *testing.T) {
	// Base units "m","s" with prefixes "" and "m" (milli, 1e-3) register
	// keys m, mm, s, ms. The string "mms" is not itself a key, but
	// decomposes two ways: "m"+"ms" (meter, milli-second) or "mm"+"s"
	// (milli-meter, second).
	c := NewCatalog([]string{"m", "s"})
	c.AddPrefix(Prefix{Symbol: "", Multiplier: 1})
	c.AddPrefix(Prefix{Symbol: "m", Multiplier: 1e-3})
	require.NoError(t, c.RegisterBaseUnits())

	_, err := c.Lookup("mms")
	assert.ErrorIs(t, err, ErrAmbiguousUnit)
}

func Test_Catalog_Decompose_SingleCandidateForUnambiguousName(t *testing.T) {
	c := buildTestCatalog(t)
	decompositions := c.decompose("EPa")
	// "EPa" has no catalog keys registered yet (no derived units in this
	// fixture), so it should yield zero decompositions, not one.
	assert.Empty(t, decompositions)
}

func Test_Catalog_RegisterDerivedThenLookup(t *testing.T) {
	c := buildTestCatalog(t)
	newton := quantity.Value{Num: 1, Exps: []quantity.Exponent{quantity.OneExponent(), quantity.OneExponent(), quantity.OneExponent().Neg().Neg()}, Reg: c.Registry()}
	require.NoError(t, c.RegisterDerived("N", newton))

	v, err := c.Lookup("N")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.Num)
}

func Test_Catalog_RegisterConstantIgnoresPrefixes(t *testing.T) {
	c := buildTestCatalog(t)
	c_light := quantity.NewBase(2.998e8, 0, c.Registry())
	require.NoError(t, c.RegisterConstant("c", c_light))

	_, err := c.Lookup("nc")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func Test_Catalog_SynonymAndRemove(t *testing.T) {
	c := buildTestCatalog(t)
	require.NoError(t, c.AddSynonym("meter", "m"))

	v, err := c.Lookup("meter")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.Num)

	c.Remove("meter")
	_, err = c.Lookup("meter")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func Test_Catalog_Apply_UnitlessFunctionChecksArguments(t *testing.T) {
	c := buildTestCatalog(t)
	sin := Function{Name: "sin", Arity: 1, Unitless: true, Scalar: func(args []float64) (float64, error) {
		return args[0], nil
	}}

	dimensioned := quantity.NewBase(1, 0, c.Registry())
	_, err := c.Apply(sin, []quantity.Value{dimensioned})
	assert.ErrorIs(t, err, quantity.ErrNotUnitless)
}

func Test_Catalog_Apply_WrongArityErrors(t *testing.T) {
	c := buildTestCatalog(t)
	sin := Function{Name: "sin", Arity: 1, Unitless: true, Scalar: func(args []float64) (float64, error) { return 0, nil }}

	_, err := c.Apply(sin, nil)
	assert.ErrorIs(t, err, ErrArityMismatch)
}
