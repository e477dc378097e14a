package draw

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathanmweiss/go-locus/fint"
	"github.com/jonathanmweiss/go-locus/poly"
)

func circlePoly() XYPoly {
	// x^2 + y^2 - 1
	return NewXYPoly([]XPoly{
		NewXPoly([]fint.Interval{fint.New(-1.0), fint.New(0.0), fint.New(1.0)}),
		NewXPoly([]fint.Interval{fint.New(0.0)}),
		NewXPoly([]fint.Interval{fint.New(1.0)}),
	})
}

func TestRectangleSubdivision(t *testing.T) {
	a := assert.New(t)

	rect := NewRectangle(0, 0, 4, 4)
	subregions := rect.Subdivide()

	a.Equal(NewRectangle(0, 0, 2, 2), subregions[0])
	a.Equal(NewRectangle(2, 0, 4, 2), subregions[1])
	a.Equal(NewRectangle(0, 2, 2, 4), subregions[2])
	a.Equal(NewRectangle(2, 2, 4, 4), subregions[3])
	a.Equal(16, rect.Size())
}

func TestSubInterval(t *testing.T) {
	a := assert.New(t)

	xRegion := fint.WithBounds(-1.0, 1.0)
	yRegion := fint.WithBounds(-1.0, 1.0)
	rect := NewRectangle(0, 0, 4, 4)

	cases := []struct {
		sub                Rectangle
		xLo, xHi, yLo, yHi float64
	}{
		{NewRectangle(0, 0, 2, 2), -1.0, 0.0, -1.0, 0.0},
		{NewRectangle(2, 0, 4, 2), 0.0, 1.0, -1.0, 0.0},
		{NewRectangle(0, 2, 2, 4), -1.0, 0.0, 0.0, 1.0},
		{NewRectangle(2, 2, 4, 4), 0.0, 1.0, 0.0, 1.0},
	}
	for _, tc := range cases {
		subX, subY := subInterval(xRegion, yRegion, rect, tc.sub)
		a.Equal(tc.xLo, subX.Lower())
		a.Equal(tc.xHi, subX.Upper())
		a.Equal(tc.yLo, subY.Lower())
		a.Equal(tc.yHi, subY.Upper())
	}
}

func TestCurvePointsCircle(t *testing.T) {
	a := assert.New(t)

	drawer := NewDrawer(circlePoly())
	points := drawer.CurvePoints(
		fint.WithBounds(-1.0, 1.0), fint.WithBounds(-1.0, 1.0), 4, 4)

	// All 16 pixels except the central 2x2 block touch the unit circle.
	require.Len(t, points, 12)
	set := make(map[Point]bool, len(points))
	for _, p := range points {
		set[p] = true
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			inside := (i == 1 || i == 2) && (j == 1 || j == 2)
			a.Equal(!inside, set[Point{X: i, Y: j}], "pixel (%d, %d)", i, j)
		}
	}
}

func TestSmoothedPoints(t *testing.T) {
	a := assert.New(t)

	drawer := NewDrawer(circlePoly())
	points := drawer.CurvePoints(
		fint.WithBounds(-1.0, 1.0), fint.WithBounds(-1.0, 1.0), 16, 16)
	smoothed := drawer.SmoothedPoints(points, 16, 16)

	a.NotEmpty(smoothed)
	sawRed := false
	for _, p := range smoothed {
		a.GreaterOrEqual(p.X, 0)
		a.Less(p.X, 4)
		a.GreaterOrEqual(p.Y, 0)
		a.Less(p.Y, 4)
		a.Equal(uint8(255), p.Color.R)
		if p.Color.G == 0 && p.Color.B == 0 {
			sawRed = true
		}
	}
	// The densest coarse cell normalizes to pure red.
	a.True(sawRed)
}

func TestColorInterpolate(t *testing.T) {
	a := assert.New(t)

	white := NewColor(255, 255, 255)
	red := NewColor(255, 0, 0)
	a.Equal(white, Interpolate(white, red, 0.0))
	a.Equal(red, Interpolate(white, red, 1.0))
	mid := Interpolate(white, red, 0.5)
	a.Equal(uint8(255), mid.R)
	a.InDelta(127, int(mid.G), 1)
}

func TestXYPolyEvaluateAndFlip(t *testing.T) {
	a := assert.New(t)

	circle := circlePoly()
	a.True(circle.Evaluate(fint.New(1.0), fint.New(0.0)).Equals(fint.New(0.0)))
	a.True(circle.Evaluate(fint.New(0.6), fint.New(0.8)).Equals(fint.New(0.0)))
	a.False(circle.Evaluate(fint.New(0.5), fint.New(0.5)).Equals(fint.New(0.0)))

	// x + 2*y flips to y + 2*x.
	p := NewXYPoly([]XPoly{
		NewXPoly([]fint.Interval{fint.New(0.0), fint.New(2.0)}),
		NewXPoly([]fint.Interval{fint.New(1.0)}),
	})
	flipped := p.Flip()
	value := flipped.Evaluate(fint.New(3.0), fint.New(5.0))
	a.True(value.Equals(fint.New(11.0)))
}

func TestXPolyDivideIdentity(t *testing.T) {
	a := assert.New(t)

	// (x^2 + 2x + 1) / (x + 1) = (x + 1), remainder 0.
	dividend := NewXPoly([]fint.Interval{fint.New(1.0), fint.New(2.0), fint.New(1.0)})
	divisor := NewXPoly([]fint.Interval{fint.New(1.0), fint.New(1.0)})
	quotient, remainder := dividend.Divide(divisor)

	a.Equal(1, quotient.DegreeOf())
	a.True(quotient.Coeffs[0].Equals(fint.New(1.0)))
	a.True(quotient.Coeffs[1].Equals(fint.New(1.0)))
	a.True(remainder.IsEmpty() || remainder.Evaluate(fint.New(0.3)).Equals(fint.New(0.0)))

	// dividend == quotient*divisor + remainder at sample points.
	for _, x := range []float64{-2.0, 0.5, 3.0} {
		left := dividend.Evaluate(fint.New(x))
		right := quotient.Mul(divisor).Add(remainder).Evaluate(fint.New(x))
		a.True(left.AlmostEquals(right), "x = %v", x)
	}
}

func TestXPolyDivideByMonomial(t *testing.T) {
	a := assert.New(t)

	// x^2 - 1 = (x - 1)(x + 1).
	p := NewXPoly([]fint.Interval{fint.New(-1.0), fint.New(0.0), fint.New(1.0)})
	quotient, remainder := p.DivideByMonomial(fint.New(1.0))
	a.True(remainder.Equals(fint.New(0.0)))
	a.Equal(1, quotient.DegreeOf())
	a.True(quotient.Evaluate(fint.New(-1.0)).Equals(fint.New(0.0)))
}

func TestXPolyRoots(t *testing.T) {
	a := assert.New(t)

	// x^2 - 1 has roots -1 and 1.
	p := NewXPoly([]fint.Interval{fint.New(-1.0), fint.New(0.0), fint.New(1.0)})
	roots := p.Roots(-2.0, 2.0)
	require.Len(t, roots, 2)
	values := []float64{roots[0].Midpoint(), roots[1].Midpoint()}
	sort.Float64s(values)
	a.InDelta(-1.0, values[0], 1e-6)
	a.InDelta(1.0, values[1], 1e-6)

	// No roots outside the bracket.
	a.Empty(p.Roots(2.0, 5.0))
}

func TestXPolyDerivativeAndGCD(t *testing.T) {
	a := assert.New(t)

	// d/dx (x^3) = 3x^2.
	p := NewXPoly([]fint.Interval{
		fint.New(0.0), fint.New(0.0), fint.New(0.0), fint.New(1.0)})
	derivative := p.Derivative()
	a.Equal(2, derivative.DegreeOf())
	a.True(derivative.Evaluate(fint.New(2.0)).Equals(fint.New(12.0)))

	// gcd(x^2 - 1, x - 1) is proportional to x - 1.
	q := NewXPoly([]fint.Interval{fint.New(-1.0), fint.New(1.0)})
	r := NewXPoly([]fint.Interval{fint.New(-1.0), fint.New(0.0), fint.New(1.0)})
	gcd := r.GCD(q)
	a.Equal(1, gcd.DegreeOf())
	a.True(gcd.Evaluate(fint.New(1.0)).Equals(fint.New(0.0)))
}

func TestPointsAtFixedCrossSections(t *testing.T) {
	a := assert.New(t)

	circle := circlePoly()

	ys := circle.PointsAtFixedX(0.0, -2.0, 2.0)
	require.Len(t, ys, 2)
	a.InDelta(1.0, ys[0].Midpoint()*ys[0].Midpoint(), 1e-6)

	xs := circle.PointsAtFixedY(0.6, -2.0, 2.0)
	require.Len(t, xs, 2)
	a.InDelta(0.64, xs[0].Midpoint()*xs[0].Midpoint(), 1e-6)
}

func TestConversionsFromPoly(t *testing.T) {
	a := assert.New(t)

	// Univariate conversion.
	xp, err := XPolyFromPoly(poly.MustParse("a^2 + 2*a + 1"), 0)
	require.NoError(t, err)
	a.Equal(2, xp.DegreeOf())
	a.True(xp.Evaluate(fint.New(-1.0)).Equals(fint.New(0.0)))

	// Constant conversion.
	xp, err = XPolyFromPoly(poly.MustParse("5"), 0)
	require.NoError(t, err)
	a.True(xp.Evaluate(fint.New(2.0)).Equals(fint.New(5.0)))

	// Wrong variable and non-constant coefficients fail.
	_, err = XPolyFromPoly(poly.MustParse("b + 1"), 0)
	a.Error(err)
	_, err = XPolyFromPoly(poly.MustParse("a*b"), 0)
	a.Error(err)

	// Bivariate conversion of the unit circle.
	xyp, err := XYPolyFromPoly(poly.MustParse("a^2 + b^2 - 1"), 0, 1)
	require.NoError(t, err)
	a.True(xyp.Evaluate(fint.New(0.6), fint.New(0.8)).Equals(fint.New(0.0)))

	// A polynomial in y only still converts.
	xyp, err = XYPolyFromPoly(poly.MustParse("2*b + 3"), 0, 1)
	require.NoError(t, err)
	a.True(xyp.Evaluate(fint.New(9.0), fint.New(-1.5)).Equals(fint.New(0.0)))

	// Too many variables, or inverted axes, fail.
	_, err = XYPolyFromPoly(poly.MustParse("a*b*c"), 0, 1)
	a.Error(err)
	_, err = XYPolyFromPoly(poly.MustParse("a + b"), 1, 0)
	a.Error(err)
}
