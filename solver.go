// Package locus derives the implicit polynomial equation F(x,y) = 0 of a
// geometric locus. The caller supplies a system of integer polynomial
// constraints over indexed variables and names the two plot variables; the
// solver substitutes out linear variables, splits the system along the
// factors of its equations, eliminates the remaining variables by
// pseudo-remainder reduction, factors the result through an external
// factorer, and keeps only the factors that survive the probabilistic
// back-substitution check.
package locus

import (
	"errors"
	"fmt"
	"io"

	"github.com/jonathanmweiss/go-locus/elim"
	"github.com/jonathanmweiss/go-locus/poly"
)

// Factorer produces a factorization of an integer polynomial: a non-empty
// list of its distinct factors, each listed once whatever its multiplicity.
// factor.Service implements it against a Pari/GP child process.
type Factorer interface {
	Factor(p *poly.Poly) ([]*poly.Poly, error)
}

// Plot names the curve and designates the two variables to retain as the
// plot axes.
type Plot struct {
	Name string
	XVar uint8
	YVar uint8
}

// Result is the derived curve: the product of the accepted factors, plus
// the factors themselves.
type Result struct {
	Curve   *poly.Poly
	Factors []*poly.Poly
}

var (
	// ErrEliminationIncomplete: elimination did not reduce a system to a
	// single equation.
	ErrEliminationIncomplete = errors.New("locus: expected exactly one equation after elimination")
	// ErrResidualVariable: the eliminated equation still depends on a
	// non-plot variable.
	ErrResidualVariable = errors.New("locus: remaining equation depends on an eliminated variable")
	// ErrNoValidFactor: every factor of every eliminated polynomial failed
	// the probabilistic check.
	ErrNoValidFactor = errors.New("locus: no factor passed the validity check")
)

// Solver wires the elimination pipeline to a factorer.
type Solver struct {
	factorer Factorer

	// PRNG seeds the factor check; nil means fresh cryptographic
	// randomness. Tests inject a keyed PRNG for determinism.
	PRNG io.Reader
}

// NewSolver returns a Solver using the given factorer.
func NewSolver(factorer Factorer) *Solver {
	return &Solver{factorer: factorer}
}

// CurveEquation derives the implicit equation of the locus traced by the
// plot variables under the given constraint system.
func (s *Solver) CurveEquation(polys []*poly.Poly, plot Plot) (Result, error) {
	polys = substituteLinearVars(polys, plot.XVar, plot.YVar)
	polys = poly.RetainRelevantPolys(polys, plot.XVar, plot.YVar)

	// A reducible equation means the locus splits into components; each
	// combination of factors is an independent system.
	var accepted []*poly.Poly
	for _, system := range s.splitIntoIrreducibleSystems(polys) {
		factors, err := s.eliminateAndFactor(system, plot)
		if err != nil {
			return Result{}, err
		}
		for _, factor := range factors {
			if !containsProportional(accepted, factor) {
				accepted = append(accepted, factor)
			}
		}
	}
	if len(accepted) == 0 {
		return Result{}, ErrNoValidFactor
	}

	curve := accepted[0]
	for _, factor := range accepted[1:] {
		curve = curve.Multiply(factor)
	}
	return Result{Curve: curve, Factors: accepted}, nil
}

// eliminateAndFactor reduces one system to a single bivariate equation,
// factors it, and returns the factors that pass the check. An empty list is
// not an error here: another combination system may still contribute.
func (s *Solver) eliminateAndFactor(polys []*poly.Poly, plot Plot) ([]*poly.Poly, error) {
	elimination := elim.New(polys, plot.XVar, plot.YVar)
	elimination.PRNG = s.PRNG
	for {
		search, ok := elimination.VarToEliminate()
		if !ok {
			break
		}
		elimination.EliminateVar(search)
	}

	remaining := elimination.Polys
	if len(remaining) != 1 {
		return nil, fmt.Errorf("%w, got %d", ErrEliminationIncomplete, len(remaining))
	}

	var vars [256]bool
	remaining[0].FillInVariables(&vars)
	for v := 0; v < 256; v++ {
		if vars[v] && v != int(plot.XVar) && v != int(plot.YVar) {
			return nil, fmt.Errorf("%w: %s", ErrResidualVariable, poly.VarName(uint8(v)))
		}
	}

	eliminated := remaining[0].Clone()
	eliminated.ReduceCoefficientsIfAbove(1)

	factors, err := s.factorer.Factor(eliminated)
	if err != nil {
		return nil, err
	}

	var accepted []*poly.Poly
	for _, factor := range factors {
		ok, err := elimination.CheckFactor(factor)
		if err != nil {
			return nil, err
		}
		if ok {
			accepted = append(accepted, factor)
		}
	}
	return accepted, nil
}

// splitIntoIrreducibleSystems factors every equation and forms one system
// per combination of factors. An equation that fails to factor is treated
// as irreducible.
func (s *Solver) splitIntoIrreducibleSystems(polys []*poly.Poly) [][]*poly.Poly {
	if len(polys) == 0 {
		return nil
	}
	factored := make([][]*poly.Poly, len(polys))
	for i, p := range polys {
		factors, err := s.factorer.Factor(p)
		if err != nil || len(factors) == 0 {
			factors = []*poly.Poly{p}
		}
		factored[i] = factors
	}

	var combinations [][]*poly.Poly
	current := make([]*poly.Poly, 0, len(polys))
	generateCombinations(factored, 0, current, &combinations)
	return combinations
}

func generateCombinations(factored [][]*poly.Poly, index int, current []*poly.Poly, combinations *[][]*poly.Poly) {
	if index >= len(factored) {
		*combinations = append(*combinations, append([]*poly.Poly(nil), current...))
		return
	}
	for _, factor := range factored[index] {
		generateCombinations(factored, index+1, append(current, factor), combinations)
	}
}

// substituteLinearVars removes every non-plot variable that some equation
// defines linearly: the first polynomial reporting Linear(g, k) for v pins
// v = g/k, the definition is dropped, and v is substituted out of the rest.
func substituteLinearVars(polys []*poly.Poly, xVar, yVar uint8) []*poly.Poly {
	var vars [256]bool
	for _, p := range polys {
		p.FillInVariables(&vars)
	}

	for v := 0; v < 256; v++ {
		if !vars[v] || v == int(xVar) || v == int(yVar) {
			continue
		}

		results := make([]poly.SingleOut, len(polys))
		for i, p := range polys {
			results[i] = p.SingleOut(uint8(v))
		}

		linearIndex := -1
		for i, result := range results {
			if result.Kind == poly.SingleOutLinear {
				linearIndex = i
				break
			}
		}
		if linearIndex < 0 {
			continue
		}

		linear := results[linearIndex]
		var newPolys []*poly.Poly
		for i, result := range results {
			if i == linearIndex {
				continue
			}
			if result.Kind == poly.SingleOutConstant {
				newPolys = append(newPolys, polys[i])
			} else {
				newPolys = append(newPolys,
					polys[i].SubstituteLinear(uint8(v), linear.Coeff, linear.K))
			}
		}
		polys = newPolys
	}
	return polys
}

func containsProportional(factors []*poly.Poly, candidate *poly.Poly) bool {
	for _, existing := range factors {
		if candidate.IsProportional(existing) {
			return true
		}
	}
	return false
}
