package rational

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Rat_AddSubRoundTrips(t *testing.T) {
	a := FromInt64(3)
	b := FromInt64(4)

	sum := a.Add(b)
	back := sum.Sub(b)

	assert.True(t, a.Equal(back))
}

func Test_Rat_FromFloat64IsExact(t *testing.T) {
	r, err := FromFloat64(0.5)
	require.NoError(t, err)
	assert.Equal(t, "1/2", r.String())
}

func Test_Rat_PowNegativeExponent(t *testing.T) {
	a := FromInt64(2)
	result := a.Pow(-2)
	assert.Equal(t, "1/4", result.String())
}

func Test_Rat_ScaleByIntegerExponent(t *testing.T) {
	half, err := FromFloat64(0.5)
	require.NoError(t, err)

	scaled := half.Scale(4)
	assert.Equal(t, FromInt64(2).String(), scaled.String())
}

func Test_Rat_IsZeroAndIsOne(t *testing.T) {
	assert.True(t, Zero().IsZero())
	assert.True(t, One().IsOne())
	assert.False(t, One().IsZero())
}

func Test_Rat_FromAnyCoercesCommonTypes(t *testing.T) {
	cases := []any{3, int64(3), "3", 3.0}
	for _, c := range cases {
		r, ok := FromAny(c)
		require.True(t, ok, "%v", c)
		assert.True(t, r.Equal(FromInt64(3)))
	}
}
