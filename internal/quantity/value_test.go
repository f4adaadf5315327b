package quantity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry([]string{"m", "kg", "s"})
}

func Test_Value_AddThenSubRoundTrips(t *testing.T) {
	reg := testRegistry()
	a := NewBase(3, 0, reg)
	b := NewBase(4, 0, reg)

	sum, err := a.Add(b)
	require.NoError(t, err)

	back, err := sum.Sub(b)
	require.NoError(t, err)

	assert.InDelta(t, a.Num, back.Num, 1e-9)
	assert.True(t, a.DimensionallyEqual(back))
}

func Test_Value_AddMismatchedDimensionsErrors(t *testing.T) {
	reg := testRegistry()
	length := NewBase(1, 0, reg)
	mass := NewBase(1, 1, reg)

	_, err := length.Add(mass)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func Test_Value_AddAcrossRegistriesErrors(t *testing.T) {
	a := NewBase(1, 0, testRegistry())
	b := NewBase(1, 0, testRegistry())

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrForeignRegistry)
}

func Test_Value_MulDimensionedAddsExponents(t *testing.T) {
	reg := testRegistry()
	length := NewBase(2, 0, reg)
	time := NewBase(3, 2, reg)

	product, err := length.MulDimensioned(time)
	require.NoError(t, err)

	assert.Equal(t, float64(6), product.Num)
	assert.True(t, product.Exps[0].IsOne())
	assert.True(t, product.Exps[2].IsOne())
}

func Test_Value_DivDimensionedSubtractsExponents(t *testing.T) {
	reg := testRegistry()
	lengthPerTime := func() Value {
		length := NewBase(10, 0, reg)
		time := NewBase(2, 2, reg)
		v, err := length.DivDimensioned(time)
		require.NoError(t, err)
		return v
	}()

	assert.Equal(t, float64(5), lengthPerTime.Num)
	assert.True(t, lengthPerTime.Exps[0].IsOne())
	assert.True(t, lengthPerTime.Exps[2].Equal(lengthPerTime.Exps[2].Neg().Neg()))
}

func Test_Value_ScalarDivByNegatesExponents(t *testing.T) {
	reg := testRegistry()
	length := NewBase(2, 0, reg)

	inverse := length.ScalarDivBy(10)

	assert.Equal(t, float64(5), inverse.Num)
	assert.True(t, inverse.Exps[0].Equal(inverse.Exps[0]))
	assert.False(t, inverse.Exps[0].IsZero())
}

func Test_Value_PowRejectsDimensionedExponent(t *testing.T) {
	reg := testRegistry()
	base := NewBase(2, 0, reg)
	exponent := NewBase(3, 1, reg)

	_, err := base.Pow(exponent)
	assert.True(t, errors.Is(err, ErrNotUnitless))
}

func Test_Value_PowScalesExponentVectorByIntegerPower(t *testing.T) {
	reg := testRegistry()
	base := NewBase(2, 0, reg)
	exponent := NewUnitless(3, reg)

	result, err := base.Pow(exponent)
	require.NoError(t, err)

	assert.Equal(t, float64(8), result.Num)
	assert.Equal(t, "3", result.Exps[0].String())
}

func Test_Value_StringFormatsTwelveSigFigsAndUnitSuffix(t *testing.T) {
	reg := testRegistry()
	v := Value{Num: 1.5e-9, Exps: reg.OneHot(0), Reg: reg}

	assert.Contains(t, v.String(), "m")
}
