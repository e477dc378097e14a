package draw

import (
	"fmt"
	"strings"

	"github.com/jonathanmweiss/go-locus/fint"
	"github.com/jonathanmweiss/go-locus/poly"
)

// XYPoly is a bivariate polynomial p(x,y) = Sum coeffs[i](y) * x^i with
// interval coefficients, used only for evaluation during plotting.
type XYPoly struct {
	Coeffs []XPoly
}

// NewXYPoly wraps the coefficient polynomials.
func NewXYPoly(coeffs []XPoly) XYPoly {
	return XYPoly{Coeffs: coeffs}
}

// Evaluate computes p(x, y).
func (p XYPoly) Evaluate(x, y fint.Interval) fint.Interval {
	result := fint.New(0.0)
	xPower := fint.New(1.0)
	for _, coeff := range p.Coeffs {
		result = result.Add(coeff.Evaluate(y).Mul(xPower))
		xPower = xPower.Mul(x)
	}
	return result
}

// Flip transposes the coefficient matrix, turning f(x,y) into f(y,x).
func (p XYPoly) Flip() XYPoly {
	if len(p.Coeffs) == 0 {
		return XYPoly{}
	}
	maxDegree := 0
	for _, coeff := range p.Coeffs {
		if d := coeff.DegreeOf(); d > maxDegree {
			maxDegree = d
		}
	}
	flipped := make([]XPoly, maxDegree+1)
	for yPower := 0; yPower <= maxDegree; yPower++ {
		coeffs := make([]fint.Interval, len(p.Coeffs))
		for i, original := range p.Coeffs {
			if yPower < len(original.Coeffs) {
				coeffs[i] = original.Coeffs[yPower]
			} else {
				coeffs[i] = fint.New(0.0)
			}
		}
		flipped[yPower] = NewXPoly(coeffs)
	}
	return NewXYPoly(flipped)
}

// PointsAtFixedX fixes x and returns the curve's y values in [yLow, yHigh].
func (p XYPoly) PointsAtFixedX(x, yLow, yHigh float64) []fint.Interval {
	polyY := XPoly{}
	xPower := 1.0
	for _, coeffInY := range p.Coeffs {
		scaled := coeffInY.Mul(XPoly{Coeffs: []fint.Interval{fint.New(xPower)}})
		polyY = polyY.Add(scaled)
		xPower *= x
	}
	return polyY.Roots(yLow, yHigh)
}

// PointsAtFixedY fixes y and returns the curve's x values in [xLow, xHigh].
func (p XYPoly) PointsAtFixedY(y, xLow, xHigh float64) []fint.Interval {
	if len(p.Coeffs) == 0 {
		return nil
	}
	coeffs := make([]fint.Interval, len(p.Coeffs))
	for i, coeffInY := range p.Coeffs {
		coeffs[i] = coeffInY.Evaluate(fint.New(y))
	}
	return NewXPoly(coeffs).Roots(xLow, xHigh)
}

// StringVars renders p with the given variable names.
func (p XYPoly) StringVars(varX, varY string) string {
	if len(p.Coeffs) == 0 {
		return "0"
	}
	var b strings.Builder
	first := true
	for i, coeff := range p.Coeffs {
		allZero := true
		for _, c := range coeff.Coeffs {
			if !c.Equals(fint.New(0.0)) {
				allZero = false
				break
			}
		}
		if allZero {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false

		coeffStr := coeff.StringVar(varY)
		if coeffStr != "1" || i == 0 {
			if strings.ContainsAny(coeffStr, "+-") {
				b.WriteString("(" + coeffStr + ")")
			} else {
				b.WriteString(coeffStr)
			}
		}
		if i > 0 {
			b.WriteString(varX)
			if i > 1 {
				fmt.Fprintf(&b, "^%d", i)
			}
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func (p XYPoly) String() string {
	return p.StringVars("x", "y")
}

// XPolyFromPoly converts a univariate integer polynomial in variable v. All
// coefficients must be constants.
func XPolyFromPoly(p *poly.Poly, v uint8) (XPoly, error) {
	if p.IsConstant() {
		return NewXPoly([]fint.Interval{fint.New(float64(p.Const()))}), nil
	}
	if p.Var() != v {
		return XPoly{}, fmt.Errorf("draw: variable %s not found in polynomial", poly.VarName(v))
	}
	children := p.Children()
	coeffs := make([]fint.Interval, len(children))
	for i, child := range children {
		if !child.IsConstant() {
			return XPoly{}, fmt.Errorf("draw: non-constant coefficient %s", child)
		}
		coeffs[i] = fint.New(float64(child.Const()))
	}
	return NewXPoly(coeffs), nil
}

// XYPolyFromPoly converts a bivariate integer polynomial over (xv, yv); xv
// must be the lower variable index.
func XYPolyFromPoly(p *poly.Poly, xv, yv uint8) (XYPoly, error) {
	if xv >= yv {
		return XYPoly{}, fmt.Errorf("draw: x variable must be less than y variable")
	}
	if p.IsConstant() || p.Var() == yv {
		inner, err := XPolyFromPoly(p, yv)
		if err != nil {
			return XYPoly{}, err
		}
		return NewXYPoly([]XPoly{inner}), nil
	}
	if p.Var() != xv {
		return XYPoly{}, fmt.Errorf("draw: polynomial must be in variables %s and %s",
			poly.VarName(xv), poly.VarName(yv))
	}
	children := p.Children()
	coeffs := make([]XPoly, len(children))
	for i, child := range children {
		inner, err := XPolyFromPoly(child, yv)
		if err != nil {
			return XYPoly{}, err
		}
		coeffs[i] = inner
	}
	return NewXYPoly(coeffs), nil
}
