package fint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	a := assert.New(t)

	result := New(1.0).Add(New(1.0))
	a.InDelta(2.0, result.Lower(), 1e-14)
	a.Greater(result.Upper(), result.Lower())
}

func TestOutwardRounding(t *testing.T) {
	a := assert.New(t)

	// The exact result of each operation must lie inside the returned
	// interval.
	cases := []struct {
		x, y  float64
		op    func(Interval, Interval) Interval
		exact float64
	}{
		{0.1, 0.2, Interval.Add, 0.1 + 0.2},
		{0.3, 0.1, Interval.Sub, 0.3 - 0.1},
		{0.1, 0.3, Interval.Mul, 0.1 * 0.3},
		{1.0, 3.0, Interval.Div, 1.0 / 3.0},
		{-0.7, 0.3, Interval.Mul, -0.7 * 0.3},
		{-0.7, -0.3, Interval.Mul, -0.7 * -0.3},
	}
	for _, tc := range cases {
		result := tc.op(New(tc.x), New(tc.y))
		a.LessOrEqual(result.Lower(), tc.exact)
		a.GreaterOrEqual(result.Upper(), tc.exact)
	}
}

func TestComplexOperation(t *testing.T) {
	a := assert.New(t)

	result := New(1.2).Div(New(1.00001).Sub(New(0.5).Mul(New(2.0)))).
		Sub(New(120000.0))

	// The rounding errors accumulate to a width on the order of 1e-5, and
	// the interval must straddle zero.
	a.True(result.Equals(Zero()))
	a.Less(result.Lower(), 0.0)
	a.Greater(result.Upper(), 0.0)
	width := result.Upper() - result.Lower()
	a.Greater(width, 1e-6)
	a.Less(width, 1e-4)
}

func TestInverse(t *testing.T) {
	a := assert.New(t)

	a.False(WithBounds(-1.0, 1.0).Inverse().WellFormed())
	a.False(Zero().Inverse().WellFormed())

	inv := WithBounds(2.0, 4.0).Inverse()
	a.LessOrEqual(inv.Lower(), 0.25)
	a.GreaterOrEqual(inv.Upper(), 0.5)

	neg := WithBounds(-4.0, -2.0).Inverse()
	a.LessOrEqual(neg.Lower(), -0.5)
	a.GreaterOrEqual(neg.Upper(), -0.25)
}

func TestSqrt(t *testing.T) {
	a := assert.New(t)

	root := New(4.0).Sqrt()
	a.True(root.Equals(New(2.0)))
	a.False(New(-4.0).Sqrt().WellFormed())
}

func TestEqualsIsOverlap(t *testing.T) {
	a := assert.New(t)

	a.True(WithBounds(0.0, 2.0).Equals(WithBounds(1.0, 3.0)))
	a.True(WithBounds(1.0, 3.0).Equals(WithBounds(0.0, 2.0)))
	a.False(WithBounds(0.0, 1.0).Equals(WithBounds(2.0, 3.0)))
}

func TestPrecise(t *testing.T) {
	a := assert.New(t)

	a.True(New(1.0).Precise())
	a.False(WithBounds(1.0, 1.1).Precise())
	a.True(WithBounds(1e6, 1e6+1).Precise())
}

func TestWithBoundsPanics(t *testing.T) {
	assert.Panics(t, func() { WithBounds(1.0, 0.0) })
	assert.Panics(t, func() { WithDelta(1.0, 0.0) })
}

func TestString(t *testing.T) {
	a := assert.New(t)

	a.Equal("1", New(1.0).String())
	a.Equal("1.5", New(1.5).String())
	a.Equal("-2", New(-2.0).String())

	// Numerical noise collapses to the shortest in-interval rendering.
	noisy := New(1.9999999999999998)
	a.Equal("2", noisy.String())
}

func TestNegAndAbsBound(t *testing.T) {
	a := assert.New(t)

	n := WithBounds(-1.0, 2.0).Neg()
	a.Equal(-2.0, n.Lower())
	a.Equal(1.0, n.Upper())
	a.Equal(2.0, WithBounds(-1.0, 2.0).AbsBound())
	a.True(math.Abs(WithBounds(1.0, 3.0).Midpoint()-2.0) < 1e-15)
}
