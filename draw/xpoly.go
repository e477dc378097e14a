// Package draw plots implicit curves F(x,y)=0. Polynomials are re-expressed
// with interval coefficients, evaluated with outward rounding, and a plane
// region survives subdivision only while its interval value may contain
// zero.
package draw

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/jonathanmweiss/go-locus/fint"
)

const (
	newtonMaxAttempts   = 20
	newtonMaxIterations = 100
)

// XPoly is a univariate polynomial with interval coefficients, ascending
// order, used for evaluation and root isolation only.
type XPoly struct {
	Coeffs []fint.Interval
}

// NewXPoly builds a polynomial and trims leading coefficients that are
// precisely zero.
func NewXPoly(coeffs []fint.Interval) XPoly {
	p := XPoly{Coeffs: coeffs}
	p.cleanup()
	return p
}

func (p *XPoly) cleanup() {
	for len(p.Coeffs) > 0 {
		last := p.Coeffs[len(p.Coeffs)-1]
		if last.Precise() && last.Equals(fint.New(0.0)) {
			p.Coeffs = p.Coeffs[:len(p.Coeffs)-1]
		} else {
			break
		}
	}
}

// DegreeOf returns the degree; the zero polynomial has degree 0.
func (p XPoly) DegreeOf() int {
	if len(p.Coeffs) == 0 {
		return 0
	}
	return len(p.Coeffs) - 1
}

// IsEmpty reports whether no coefficients remain after cleanup.
func (p XPoly) IsEmpty() bool {
	return len(p.Coeffs) == 0
}

func (p XPoly) clone() XPoly {
	return XPoly{Coeffs: append([]fint.Interval(nil), p.Coeffs...)}
}

// Evaluate computes p(x) by the ascending power walk.
func (p XPoly) Evaluate(x fint.Interval) fint.Interval {
	result := fint.New(0.0)
	power := fint.New(1.0)
	for _, coeff := range p.Coeffs {
		result = result.Add(coeff.Mul(power))
		power = power.Mul(x)
	}
	return result
}

// Add returns p + q.
func (p XPoly) Add(q XPoly) XPoly {
	result := p.clone()
	for i, coeff := range q.Coeffs {
		if i < len(result.Coeffs) {
			result.Coeffs[i] = result.Coeffs[i].Add(coeff)
		} else {
			result.Coeffs = append(result.Coeffs, coeff)
		}
	}
	result.cleanup()
	return result
}

// Sub returns p - q.
func (p XPoly) Sub(q XPoly) XPoly {
	result := p.clone()
	for i, coeff := range q.Coeffs {
		if i < len(result.Coeffs) {
			result.Coeffs[i] = result.Coeffs[i].Sub(coeff)
		} else {
			result.Coeffs = append(result.Coeffs, fint.New(0.0).Sub(coeff))
		}
	}
	result.cleanup()
	return result
}

// Mul returns p * q.
func (p XPoly) Mul(q XPoly) XPoly {
	if p.IsEmpty() || q.IsEmpty() {
		return XPoly{}
	}
	result := make([]fint.Interval, p.DegreeOf()+q.DegreeOf()+1)
	for i := range result {
		result[i] = fint.New(0.0)
	}
	for i, a := range p.Coeffs {
		for j, b := range q.Coeffs {
			result[i+j] = result[i+j].Add(a.Mul(b))
		}
	}
	return NewXPoly(result)
}

func (p XPoly) negate() XPoly {
	return NewXPoly([]fint.Interval{fint.New(-1.0)}).Mul(p)
}

// Divide returns the quotient and remainder of p by divisor. Panics on an
// empty divisor.
func (p XPoly) Divide(divisor XPoly) (quotient, remainder XPoly) {
	if divisor.IsEmpty() {
		panic("draw: division by zero polynomial")
	}

	quotient = XPoly{}
	remainder = p.clone()
	remainder.cleanup()

	for !remainder.IsEmpty() && remainder.DegreeOf() >= divisor.DegreeOf() {
		degreeDiff := remainder.DegreeOf() - divisor.DegreeOf()
		leading := remainder.Coeffs[remainder.DegreeOf()].
			Mul(divisor.Coeffs[divisor.DegreeOf()].Inverse())

		term := make([]fint.Interval, degreeDiff+1)
		for i := range term {
			term[i] = fint.New(0.0)
		}
		term[degreeDiff] = leading
		termPoly := XPoly{Coeffs: term}

		quotient = quotient.Add(termPoly)
		remainder = remainder.Sub(termPoly.Mul(divisor))
	}
	return quotient, remainder
}

// DivideByMonomial divides p by (x - a) synthetically, returning the
// quotient and the remainder value.
func (p XPoly) DivideByMonomial(a fint.Interval) (XPoly, fint.Interval) {
	if len(p.Coeffs) == 0 {
		return XPoly{}, fint.New(0.0)
	}
	degree := p.DegreeOf()
	quotient := make([]fint.Interval, degree)
	remainder := p.Coeffs[degree]
	for i := degree - 1; i >= 0; i-- {
		quotient[i] = remainder
		remainder = p.Coeffs[i].Add(remainder.Mul(a))
	}
	return NewXPoly(quotient), remainder
}

// GCD runs the Euclidean algorithm and normalizes the leading coefficient
// to be positive. Panics on empty inputs.
func (p XPoly) GCD(q XPoly) XPoly {
	if p.IsEmpty() || q.IsEmpty() {
		panic("draw: gcd of empty polynomials")
	}
	a, b := p.clone(), q.clone()
	for !b.IsEmpty() {
		_, remainder := a.Divide(b)
		a, b = b, remainder
	}
	if !a.IsEmpty() && a.Coeffs[a.DegreeOf()].Midpoint() < 0 {
		a = a.negate()
	}
	return a
}

// Derivative differentiates p.
func (p XPoly) Derivative() XPoly {
	if len(p.Coeffs) <= 1 {
		return XPoly{}
	}
	result := make([]fint.Interval, len(p.Coeffs)-1)
	for i := 1; i < len(p.Coeffs); i++ {
		result[i-1] = fint.New(float64(i)).Mul(p.Coeffs[i])
	}
	return NewXPoly(result)
}

// sturmSequence builds the Sturm chain p, p', -rem(...), ...
func (p XPoly) sturmSequence() []XPoly {
	sequence := []XPoly{p.clone()}
	if p.IsEmpty() {
		return sequence
	}
	sequence = append(sequence, p.Derivative())
	for sequence[len(sequence)-1].DegreeOf() > 0 {
		_, remainder := sequence[len(sequence)-2].Divide(sequence[len(sequence)-1])
		sequence = append(sequence, remainder.negate())
	}
	return sequence
}

func (p XPoly) signChangesAt(x float64) int {
	changes := 0
	prevSign := 0
	for _, q := range p.sturmSequence() {
		value := q.Evaluate(fint.New(x))
		sign := 0
		if !value.Equals(fint.New(0.0)) {
			if value.Midpoint() > 0 {
				sign = 1
			} else {
				sign = -1
			}
		}
		if sign != 0 {
			if prevSign != 0 && sign != prevSign {
				changes++
			}
			prevSign = sign
		}
	}
	return changes
}

func (p XPoly) countRootsBetween(low, high float64) int {
	return p.signChangesAt(low) - p.signChangesAt(high)
}

func (p XPoly) findRootNewton(low, high float64) (fint.Interval, bool) {
	derivative := p.Derivative()
	for attempt := 0; attempt < newtonMaxAttempts; attempt++ {
		x := fint.New(low + rand.Float64()*(high-low))
		minAbsValue := -1.0
		withoutImprovement := 0

		for iter := 0; iter < newtonMaxIterations; iter++ {
			value := p.Evaluate(x)
			if value.Equals(fint.New(0.0)) {
				return x, true
			}
			slope := derivative.Evaluate(x)
			if slope.Equals(fint.New(0.0)) {
				break
			}
			next := x.Sub(value.Div(slope))
			if next.Midpoint() < low || next.Midpoint() > high {
				break
			}
			absValue := value.AbsBound()
			if minAbsValue < 0 || absValue < minAbsValue {
				minAbsValue = absValue
				withoutImprovement = 0
			} else {
				withoutImprovement++
			}
			if withoutImprovement >= 5 {
				break
			}
			x = fint.New(next.Midpoint())
		}
	}
	return fint.Interval{}, false
}

func (p XPoly) findRootBisection(low, high float64) (fint.Interval, bool) {
	a := fint.New(low)
	b := fint.New(high)
	valueA := p.Evaluate(a)
	if valueA.Midpoint()*p.Evaluate(b).Midpoint() >= 0 {
		return fint.Interval{}, false
	}
	for i := 0; i < 100; i++ {
		mid := fint.New((a.Midpoint() + b.Midpoint()) / 2)
		if p.Evaluate(mid).Midpoint()*valueA.Midpoint() < 0 {
			b = mid
		} else {
			a = mid
		}
		if b.Midpoint()-a.Midpoint() < 1e-10 {
			return mid, true
		}
	}
	return fint.Interval{}, false
}

func (p XPoly) findRoot(low, high float64) (fint.Interval, bool) {
	if root, ok := p.findRootNewton(low, high); ok {
		return root, true
	}
	return p.findRootBisection(low, high)
}

// Roots isolates the real roots of p in [low, high]: the square-free part
// is found via gcd with the derivative, Sturm counting bounds the work, and
// each found root is deflated out.
func (p XPoly) Roots(low, high float64) []fint.Interval {
	if p.IsEmpty() {
		return nil
	}

	derivative := p.Derivative()
	var squareFree XPoly
	if derivative.IsEmpty() {
		squareFree = p.clone()
	} else {
		gcd := p.GCD(derivative)
		squareFree, _ = p.Divide(gcd)
	}

	var roots []fint.Interval
	current := squareFree
	for {
		if current.countRootsBetween(low, high) <= 0 {
			break
		}
		root, ok := current.findRoot(low, high)
		if !ok {
			break
		}
		roots = append(roots, root)
		current, _ = current.DivideByMonomial(root)
	}
	return roots
}

// StringVar renders the polynomial with the given variable name.
func (p XPoly) StringVar(varName string) string {
	if len(p.Coeffs) == 0 {
		return "0"
	}
	var b strings.Builder
	first := true
	for i, coeff := range p.Coeffs {
		if coeff.Equals(fint.New(0.0)) {
			continue
		}
		if !first {
			if coeff.Midpoint() < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if coeff.Midpoint() < 0 {
			b.WriteByte('-')
		}
		first = false

		absCoeff := coeff
		if coeff.Midpoint() < 0 {
			absCoeff = coeff.Neg()
		}
		if !absCoeff.Equals(fint.New(1.0)) || i == 0 {
			b.WriteString(absCoeff.String())
		}
		if i > 0 {
			b.WriteString(varName)
			if i > 1 {
				b.WriteByte('^')
				b.WriteString(strconv.Itoa(i))
			}
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func (p XPoly) String() string {
	return p.StringVar("x")
}
