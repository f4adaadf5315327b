package physunits

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFacade(t *testing.T) *Facade {
	t.Helper()
	f, err := New("testdata/config.json")
	require.NoError(t, err)
	return f
}

func Test_Facade_AddsCommensurableUnits(t *testing.T) {
	f := testFacade(t)

	a, err := f.Parse("nm")
	require.NoError(t, err)
	b, err := f.Parse("5 Angstrom")
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)

	assert.InDelta(t, 1.5e-9, sum.Num, 1e-15)
	assert.True(t, sum.Exps[0].IsOne())
}

func Test_Facade_JuxtapositionMultiplies(t *testing.T) {
	f := testFacade(t)

	v, err := f.Parse("2 * 3 m")
	require.NoError(t, err)

	assert.Equal(t, float64(6), v.Num)
	assert.True(t, v.Exps[0].IsOne())
}

func Test_Facade_CombiningExponentsCancelsOut(t *testing.T) {
	f := testFacade(t)

	v, err := f.Parse("m s^-1 * s")
	require.NoError(t, err)

	assert.Equal(t, float64(1), v.Num)
	assert.True(t, v.Exps[0].IsOne())
	assert.True(t, v.Exps[2].IsZero())
}

func Test_Facade_AddingIncompatibleUnitsIsDimensionError(t *testing.T) {
	f := testFacade(t)

	_, err := f.Parse("m + s")
	assert.Error(t, err)
}

func Test_Facade_UnitlessFunctionRejectsDimensionedArgument(t *testing.T) {
	f := testFacade(t)

	_, err := f.Parse("sin(m)")
	assert.Error(t, err)
}

func Test_Facade_DoubleCaretIsSyntaxError(t *testing.T) {
	f := testFacade(t)

	_, err := f.Parse("2^^3")
	assert.Error(t, err)
}

func Test_Facade_InUnitsOfRoundTrips(t *testing.T) {
	f := testFacade(t)

	v, err := f.Parse("200 sqrt(nN/EPa)")
	require.NoError(t, err)

	one, err := f.Parse("nm")
	require.NoError(t, err)
	five, err := f.Parse("5 Angstrom")
	require.NoError(t, err)
	reference, err := one.Add(five)
	require.NoError(t, err)

	ratio, err := f.InUnitsOf(v, reference)
	require.NoError(t, err)
	expected := 200 * math.Sqrt(1e-9/1e18) / 1.5e-9
	assert.InDelta(t, expected, ratio, 1e-6)
}

func Test_Facade_ConstantResolvesToDimensionedValue(t *testing.T) {
	f := testFacade(t)

	v, err := f.Parse("c")
	require.NoError(t, err)

	assert.InDelta(t, 2.998e8, v.Num, 1)
	assert.True(t, v.Exps[0].IsOne())
}

func Test_Facade_SynonymResolvesSameAsOriginalKey(t *testing.T) {
	f := testFacade(t)

	a, err := f.Parse("3 meter")
	require.NoError(t, err)
	b, err := f.Parse("3 m")
	require.NoError(t, err)

	assert.Equal(t, a.Num, b.Num)
}

func Test_Facade_AddFunctionRegistersAndLexes(t *testing.T) {
	f := testFacade(t)

	err := f.AddFunction("double", 1, true, func(args []float64) (float64, error) {
		return args[0] * 2, nil
	}, nil)
	require.NoError(t, err)

	v, err := f.Parse("double(21)")
	require.NoError(t, err)
	assert.Equal(t, float64(42), v.Num)
}
