// Package elim implements variable elimination over systems of multivariate
// integer polynomials by subresultant-style pseudo-remainder reduction, and
// the probabilistic check that filters the spurious factors the reduction
// introduces.
package elim

import (
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v6/utils/sampling"

	"github.com/jonathanmweiss/go-locus/field"
	"github.com/jonathanmweiss/go-locus/poly"
)

// Step is one pseudo-remainder reduction state for a pair of polynomials.
// The combiners tie the live pair back to the sources:
//
//	A = Poly1*Factor1a + Poly2*Factor2a
//	B = Poly1*Factor1b + Poly2*Factor2b
//
// which is what lets the factor check re-derive the eliminated variable.
type Step struct {
	V            uint8
	Poly1, Poly2 *poly.Poly
	Factor1a     *poly.Poly
	Factor2a     *poly.Poly
	Factor1b     *poly.Poly
	Factor2b     *poly.Poly
	A, B         *poly.Poly
	DegreeA      int
	DegreeB      int
}

// NewStep starts the reduction of the pair (poly1, poly2) over v, ordered so
// that DegreeA >= DegreeB, with identity combiners.
func NewStep(v uint8, poly1, poly2 *poly.Poly) *Step {
	degree1 := poly1.Degree(v)
	degree2 := poly2.Degree(v)
	if degree1 < degree2 {
		poly1, poly2 = poly2, poly1
		degree1, degree2 = degree2, degree1
	}
	return &Step{
		V:        v,
		Poly1:    poly1,
		Poly2:    poly2,
		Factor1a: poly.NewConstant(1),
		Factor2a: poly.NewConstant(0),
		Factor1b: poly.NewConstant(0),
		Factor2b: poly.NewConstant(1),
		A:        poly1,
		B:        poly2,
		DegreeA:  degree1,
		DegreeB:  degree2,
	}
}

// Next runs one reduction: with A = alpha*v^dB + alpha' and
// B = beta*v^dB + beta', the new remainder is B' = beta*alpha' - alpha*beta'
// and the combiner rows shift accordingly. ok is false once B is free of v.
func (s *Step) Next() (*Step, bool) {
	if s.DegreeB == 0 {
		return nil, false
	}

	pa1, pa2 := s.A.ExtractFactorAndRemainder(s.V, s.DegreeB)
	pb1, pb2 := s.B.ExtractFactorAndRemainder(s.V, s.DegreeB)

	newB := pa2.Multiply(pb1)
	newB.AddScaled(pa1.Multiply(pb2), -1)
	newB.ReduceCoefficientsIfLarge()

	factor1b := s.Factor1a.Multiply(pb1)
	factor1b.AddScaled(s.Factor1b.Multiply(pa1), -1)

	factor2b := s.Factor2a.Multiply(pb1)
	factor2b.AddScaled(s.Factor2b.Multiply(pa1), -1)

	return &Step{
		V:        s.V,
		Poly1:    s.Poly1,
		Poly2:    s.Poly2,
		Factor1a: s.Factor1b,
		Factor2a: s.Factor2b,
		Factor1b: factor1b,
		Factor2b: factor2b,
		A:        s.B,
		B:        newB,
		DegreeA:  s.DegreeB,
		DegreeB:  newB.Degree(s.V),
	}, true
}

// expressVar solves the step's A polynomial for its variable modulo q: with
// A = factor*v^d + remainder and factor, remainder free of v, the image is
// v^d = -remainder * factor^-1 (mod q). When both reduce to zero the
// parameterization is degenerate for this variable and a fresh random
// degree-one image is used instead.
func (s *Step) expressVar(replacements map[uint8]poly.ModImage, q field.Poly, prng io.Reader) (field.Poly, int, error) {
	degree := s.A.Degree(s.V)
	factor, remainder := s.A.ExtractFactorAndRemainder(s.V, degree)
	if factor.HasVar(s.V) {
		return field.Poly{}, 0, fmt.Errorf("elim: %s^%d in %s has factor %s containing the variable",
			poly.VarName(s.V), degree, s.A, factor)
	}
	if remainder.HasVar(s.V) {
		return field.Poly{}, 0, fmt.Errorf("elim: %s^%d in %s has remainder %s containing the variable",
			poly.VarName(s.V), degree, s.A, remainder)
	}

	modularFactor, err := factor.SubstituteModularPolys(replacements)
	if err != nil {
		return field.Poly{}, 0, err
	}
	modularFactor, _ = modularFactor.Rem(q)
	modularRemainder, err := remainder.SubstituteModularPolys(replacements)
	if err != nil {
		return field.Poly{}, 0, err
	}
	modularRemainder, _ = modularRemainder.Rem(q)

	if modularFactor.IsZero() && modularRemainder.IsZero() {
		return field.Random(1, q.P, prng), 1, nil
	}

	inv, ok := modularFactor.Inverse(q)
	if !ok {
		return field.Poly{}, 0, fmt.Errorf("elim: %s has no inverse modulo %s", modularFactor, q)
	}
	product, _ := modularRemainder.Mul(inv).Rem(q)
	result := field.Zero(q.P).Sub(product)
	return result, degree, nil
}

// Elimination drives the variable-by-variable reduction of a polynomial
// system down to the plot variables, recording the terminal Step of each
// eliminated variable for the factor check.
type Elimination struct {
	Initial []*poly.Poly
	Polys   []*poly.Poly
	Steps   []*Step
	XVar    uint8
	YVar    uint8

	// PRNG drives the factor check's randomness. Left nil, a fresh
	// cryptographic PRNG is used; tests inject a keyed one.
	PRNG io.Reader
}

// New builds an Elimination over the system. The initial polynomials are
// kept by reference for the final verification of the factor check.
func New(initial []*poly.Poly, xVar, yVar uint8) *Elimination {
	return &Elimination{
		Initial: initial,
		Polys:   append([]*poly.Poly(nil), initial...),
		XVar:    xVar,
		YVar:    yVar,
	}
}

// VarToEliminate picks the next variable by minimal degree across the live
// system. ok is false when only the plot variables remain.
func (e *Elimination) VarToEliminate() (poly.VarSearch, bool) {
	return poly.MinDegreeVar(e.Polys, e.XVar, e.YVar)
}

// EliminateVar removes the variable from the live system: the chosen pivot
// is reduced against every other polynomial containing it, the terminal
// remainders (now free of the variable) replace them, and the terminal step
// of the last reduction is logged.
func (e *Elimination) EliminateVar(search poly.VarSearch) {
	var newPolys []*poly.Poly
	var finalStep *Step
	polyWithVar := e.Polys[search.PolyIndex]

	for i, p := range e.Polys {
		if i == search.PolyIndex {
			continue
		}
		if !p.HasVar(search.Var) {
			newPolys = append(newPolys, p)
			continue
		}

		step := NewStep(search.Var, polyWithVar, p)
		for {
			next, ok := step.Next()
			if !ok {
				break
			}
			step = next
		}
		if !step.B.IsZero() {
			newPolys = append(newPolys, step.B)
		}
		polyWithVar = step.A
		finalStep = step
	}

	if finalStep == nil {
		// The variable occurs in a single polynomial; the system cannot
		// constrain it away. Caller contract violation.
		panic("elim: variable " + poly.VarName(search.Var) + " occurs in only one polynomial")
	}
	e.Steps = append(e.Steps, finalStep)
	e.Polys = newPolys
}

func (e *Elimination) prng() io.Reader {
	if e.PRNG == nil {
		prng, err := sampling.NewPRNG()
		if err != nil {
			panic(err)
		}
		e.PRNG = prng
	}
	return e.PRNG
}

// CheckFactor tests a candidate factor of the eliminated polynomial against
// the recorded steps. It substitutes a random line (X(t), Y(t)) over a
// random large prime, reduces everything modulo q = F(X(t), Y(t)), walks the
// steps in reverse to reconstruct an image for every eliminated variable,
// and accepts the factor iff every initial polynomial vanishes modulo q.
func (e *Elimination) CheckFactor(factor *poly.Poly) (bool, error) {
	prng := e.prng()
	p := checkModuli[field.RandUniform(prng, uint64(len(checkModuli)))]

	// Two independent degree-one parameterizations; retry while they are
	// proportional, so that together they describe a generic line.
	var xPoly, yPoly field.Poly
	for {
		xPoly = field.Random(1, p, prng)
		yPoly = field.Random(1, p, prng)
		ax, bx := xPoly.Coeffs[0], xPoly.Coeffs[1]
		ay, by := yPoly.Coeffs[0], yPoly.Coeffs[1]
		if field.MulMod(ax, by, p) != field.MulMod(ay, bx, p) {
			break
		}
	}

	replacements := map[uint8]poly.ModImage{
		e.XVar: {Poly: xPoly, Degree: 1},
		e.YVar: {Poly: yPoly, Degree: 1},
	}

	q, err := factor.SubstituteModularPolys(replacements)
	if err != nil {
		return false, err
	}
	if q.IsZero() {
		// The random line lies on the candidate curve; nothing can be
		// concluded, so reject.
		return false, nil
	}

	xPoly, _ = xPoly.Rem(q)
	yPoly, _ = yPoly.Rem(q)
	replacements[e.XVar] = poly.ModImage{Poly: xPoly, Degree: 1}
	replacements[e.YVar] = poly.ModImage{Poly: yPoly, Degree: 1}

	for i := len(e.Steps) - 1; i >= 0; i-- {
		step := e.Steps[i]
		varPoly, varDegree, err := step.expressVar(replacements, q, prng)
		if err != nil {
			return false, err
		}
		replacements[step.V] = poly.ModImage{Poly: varPoly, Degree: varDegree}
	}

	return e.verifyEquationsHold(replacements, q), nil
}

// verifyEquationsHold substitutes the variable images into every initial
// polynomial and checks that each reduces to zero modulo q.
func (e *Elimination) verifyEquationsHold(replacements map[uint8]poly.ModImage, q field.Poly) bool {
	for _, p := range e.Initial {
		substituted, err := p.SubstituteModularPolys(replacements)
		if err != nil {
			return false
		}
		remainder, ok := substituted.Rem(q)
		if !ok || !remainder.IsZero() {
			return false
		}
	}
	return true
}
