// Package fint implements interval arithmetic over float64 with directed
// rounding. Every elementary operation widens its result outward by one ULP,
// so the exact real result is always contained in the returned interval.
package fint

import (
	"math"
	"strconv"
)

// Interval is a closed interval [lo, hi] with lo <= hi. A NaN pair marks an
// undefined result, e.g. the reciprocal of an interval straddling zero.
type Interval struct {
	lo, hi float64
}

func inc(x float64) float64 {
	return math.Nextafter(x, math.Inf(1))
}

func dec(x float64) float64 {
	return math.Nextafter(x, math.Inf(-1))
}

// Zero returns the exact interval [0, 0].
func Zero() Interval {
	return Interval{0, 0}
}

// New returns an interval around value, widened by one ULP outward on each
// side.
func New(value float64) Interval {
	return WithBounds(dec(value), inc(value))
}

// WithDelta returns [value-delta, value+delta]. Panics if delta <= 0.
func WithDelta(value, delta float64) Interval {
	if delta <= 0 {
		panic("fint: delta must be positive")
	}
	return WithBounds(value-delta, value+delta)
}

// WithBounds returns [lower, upper] exactly. Panics if lower > upper.
func WithBounds(lower, upper float64) Interval {
	if lower > upper {
		panic("fint: inverted interval bounds")
	}
	return Interval{lower, upper}
}

// Lower returns the lower bound.
func (a Interval) Lower() float64 { return a.lo }

// Upper returns the upper bound.
func (a Interval) Upper() float64 { return a.hi }

// Neg returns -a.
func (a Interval) Neg() Interval {
	return WithBounds(-a.hi, -a.lo)
}

// Inverse returns 1/a. An interval containing zero, or an undefined input,
// yields the undefined interval.
func (a Interval) Inverse() Interval {
	if math.IsNaN(a.lo) || math.IsNaN(a.hi) || (a.lo <= 0 && a.hi >= 0) {
		return Interval{math.NaN(), math.NaN()}
	}
	if a.lo > 0 {
		return WithBounds(dec(1/a.hi), inc(1/a.lo))
	}
	return a.Neg().Inverse().Neg()
}

// Add returns a + b with outward rounding.
func (a Interval) Add(b Interval) Interval {
	return WithBounds(dec(a.lo+b.lo), inc(a.hi+b.hi))
}

// Sub returns a - b with outward rounding.
func (a Interval) Sub(b Interval) Interval {
	return WithBounds(dec(a.lo-b.hi), inc(a.hi-b.lo))
}

// Mul returns a * b with outward rounding. Sign-definite operands take the
// two-product fast paths; the general case takes the min/max of all four
// endpoint products.
func (a Interval) Mul(b Interval) Interval {
	if a.lo >= 0 {
		if b.lo >= 0 {
			return WithBounds(dec(a.lo*b.lo), inc(a.hi*b.hi))
		} else if b.hi <= 0 {
			return WithBounds(dec(a.hi*b.lo), inc(a.lo*b.hi))
		}
	} else if a.hi <= 0 {
		if b.lo >= 0 {
			return WithBounds(dec(a.lo*b.hi), inc(a.hi*b.lo))
		} else if b.hi <= 0 {
			return WithBounds(dec(a.hi*b.hi), inc(a.lo*b.lo))
		}
	}
	v00 := a.lo * b.lo
	v01 := a.lo * b.hi
	v10 := a.hi * b.lo
	v11 := a.hi * b.hi
	return WithBounds(
		dec(math.Min(math.Min(v00, v01), math.Min(v10, v11))),
		inc(math.Max(math.Max(v00, v01), math.Max(v10, v11))),
	)
}

// Div returns a / b.
func (a Interval) Div(b Interval) Interval {
	return a.Mul(b.Inverse())
}

// Sqr returns a * a.
func (a Interval) Sqr() Interval {
	return a.Mul(a)
}

// Sqrt returns the square root, or the undefined interval when the lower
// bound is negative.
func (a Interval) Sqrt() Interval {
	if a.lo < 0 {
		return Interval{math.NaN(), math.NaN()}
	}
	return WithBounds(dec(math.Sqrt(a.lo)), inc(math.Sqrt(a.hi)))
}

// Equals reports whether the two intervals overlap. This is the equality the
// rasterizer relies on: an interval "equals zero" when it may contain zero.
func (a Interval) Equals(b Interval) bool {
	return !(b.hi < a.lo || b.lo > a.hi)
}

// AlwaysPositive reports whether every point of the interval is positive.
func (a Interval) AlwaysPositive() bool {
	return a.lo > 0
}

// Midpoint returns the center of the interval.
func (a Interval) Midpoint() float64 {
	return 0.5 * (a.lo + a.hi)
}

// AbsBound returns the largest absolute value attained on the interval.
func (a Interval) AbsBound() float64 {
	return math.Max(math.Abs(a.lo), math.Abs(a.hi))
}

// WellFormed reports whether the interval is defined.
func (a Interval) WellFormed() bool {
	return !math.IsNaN(a.lo) && !math.IsNaN(a.hi)
}

// Precise reports whether the interval is tight: width below
// max(1e-5*|lo|, 1e-10).
func (a Interval) Precise() bool {
	return a.WellFormed() && a.hi-a.lo < math.Max(1e-5*math.Abs(a.lo), 1e-10)
}

// AlmostEquals reports whether the two intervals agree up to a tolerance
// scaled by their widths and magnitudes.
func (a Interval) AlmostEquals(b Interval) bool {
	if math.Abs(a.lo-b.lo) > 0.001 && math.Abs(b.lo) < 1000.0 &&
		a.hi-a.lo < 0.001 && b.hi-b.lo < 0.001 {
		return false
	}
	m1 := a.Midpoint()
	m2 := b.Midpoint()
	delta := math.Max(0.001, math.Max(3.0*(a.hi-a.lo), 3.0*(b.hi-b.lo)))
	maxAbs := math.Max(a.AbsBound(), b.AbsBound())
	if maxAbs > 1000.0 {
		delta *= maxAbs / 1000.0
	}
	return math.Abs(m1-m2) < delta
}

// String renders wide intervals as "lo to hi"; tight intervals print the
// shortest decimal form of the midpoint that still lies inside the interval.
func (a Interval) String() string {
	mean := a.Midpoint()
	if a.hi-a.lo > 1e-8 && a.hi-a.lo > math.Abs(mean)*1e-8 {
		return strconv.FormatFloat(a.lo, 'f', 3, 64) + " to " + strconv.FormatFloat(a.hi, 'f', 3, 64)
	}
	def := strconv.FormatFloat(mean, 'g', -1, 64)
	if len(def) <= 12 {
		return def
	}
	for precision := 0; precision <= 12; precision++ {
		formatted := strconv.FormatFloat(mean, 'f', precision, 64)
		value, err := strconv.ParseFloat(formatted, 64)
		if err == nil && value >= a.lo && value <= a.hi {
			return formatted
		}
	}
	return def
}
