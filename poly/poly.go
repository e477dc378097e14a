// Package poly implements multivariate polynomials with exact integer
// coefficients, stored in a recursive dense form: a polynomial is either a
// constant or a coefficient vector in its lowest variable, each coefficient
// being a polynomial in strictly higher variables. The representation is the
// working currency of the whole elimination pipeline.
package poly

import (
	"errors"
	"fmt"

	"github.com/jonathanmweiss/go-locus/field"
)

// Poly is either a constant (children == nil) or the polynomial
// Sum children[i] * v^i. Invariants: every child is a constant or nested in
// a variable strictly greater than v; the last child is nonzero; a nested
// node never has fewer than two children (cleanup collapses those).
//
// Children are shared freely between polynomials. Every mutating operation
// detaches (clones) a child before writing to it, so values previously
// handed out stay valid.
type Poly struct {
	n        int64
	v        uint8
	children []*Poly
}

// NewConstant returns the constant polynomial n.
func NewConstant(n int64) *Poly {
	return &Poly{n: n}
}

// NewNested builds Sum children[i] * v^i and normalizes it. The children are
// shared, not copied.
func NewNested(v uint8, children []*Poly) *Poly {
	p := &Poly{v: v, children: children}
	p.cleanup()
	return p
}

// IsConstant reports whether the polynomial is a plain constant.
func (p *Poly) IsConstant() bool {
	return p.children == nil
}

// Const returns the constant value; meaningful only when IsConstant.
func (p *Poly) Const() int64 {
	return p.n
}

// Var returns the top variable index; meaningful only when !IsConstant.
func (p *Poly) Var() uint8 {
	return p.v
}

// Children returns the coefficient vector of a nested polynomial. The slice
// is shared: callers must treat it as read-only.
func (p *Poly) Children() []*Poly {
	return p.children
}

// IsZero reports whether the polynomial is the constant zero.
func (p *Poly) IsZero() bool {
	return p.children == nil && p.n == 0
}

// Clone returns a new top node sharing the children of p. Mutating
// operations on the clone detach before writing, so p is unaffected.
func (p *Poly) Clone() *Poly {
	clone := &Poly{n: p.n, v: p.v}
	if p.children != nil {
		clone.children = make([]*Poly, len(p.children))
		copy(clone.children, p.children)
	}
	return clone
}

// detach replaces *pp with a clone of itself and returns the clone. It is
// the copy-on-write step taken before any in-place mutation of a child.
func detach(pp **Poly) *Poly {
	clone := (*pp).Clone()
	*pp = clone
	return clone
}

// cleanup restores the canonical form: trailing zero children are dropped, a
// single remaining child replaces the node, an empty node becomes zero.
func (p *Poly) cleanup() {
	if p.children == nil {
		return
	}
	for i := range p.children {
		detach(&p.children[i]).cleanup()
	}
	for len(p.children) > 0 && p.children[len(p.children)-1].IsZero() {
		p.children = p.children[:len(p.children)-1]
	}
	switch len(p.children) {
	case 0:
		*p = Poly{n: 0}
	case 1:
		child := p.children[0]
		children := child.children
		if children != nil {
			children = append([]*Poly(nil), children...)
		}
		*p = Poly{n: child.n, v: child.v, children: children}
	}
}

// Equal reports structural equality.
func (p *Poly) Equal(q *Poly) bool {
	if p.children == nil || q.children == nil {
		return p.children == nil && q.children == nil && p.n == q.n
	}
	if p.v != q.v || len(p.children) != len(q.children) {
		return false
	}
	for i, c := range p.children {
		if !c.Equal(q.children[i]) {
			return false
		}
	}
	return true
}

// Degree returns the degree of the polynomial in variable v.
func (p *Poly) Degree(v uint8) int {
	if p.children == nil {
		return 0
	}
	if p.v > v {
		return 0
	}
	if p.v == v {
		return len(p.children) - 1
	}
	maxDegree := 0
	for _, c := range p.children {
		if d := c.Degree(v); d > maxDegree {
			maxDegree = d
		}
	}
	return maxDegree
}

// HasVar reports whether variable v occurs in the polynomial.
func (p *Poly) HasVar(v uint8) bool {
	if p.children == nil {
		return false
	}
	if p.v == v {
		return true
	}
	if p.v > v {
		return false
	}
	for _, c := range p.children {
		if c.HasVar(v) {
			return true
		}
	}
	return false
}

// FillInVariables marks every variable occurring in the polynomial.
func (p *Poly) FillInVariables(vars *[256]bool) {
	if p.children == nil {
		return
	}
	vars[p.v] = true
	for _, c := range p.children {
		c.FillInVariables(vars)
	}
}

// IsUnivariate reports whether the polynomial involves exactly its top
// variable, i.e. all coefficients are constants.
func (p *Poly) IsUnivariate() bool {
	if p.children == nil {
		return false
	}
	for _, c := range p.children {
		if !c.IsConstant() {
			return false
		}
	}
	return true
}

// observeCoefficients calls f for every integer coefficient.
func (p *Poly) observeCoefficients(f func(int64)) {
	if p.children == nil {
		f(p.n)
		return
	}
	for _, c := range p.children {
		c.observeCoefficients(f)
	}
}

// applyToCoefficients rewrites every integer coefficient through f and
// cleans up.
func (p *Poly) applyToCoefficients(f func(int64) int64) {
	p.applyToCoefficientsRaw(f)
	p.cleanup()
}

func (p *Poly) applyToCoefficientsRaw(f func(int64) int64) {
	if p.children == nil {
		p.n = f(p.n)
		return
	}
	for i := range p.children {
		detach(&p.children[i]).applyToCoefficientsRaw(f)
	}
}

// Negate flips the sign of every coefficient.
func (p *Poly) Negate() {
	p.applyToCoefficients(func(x int64) int64 { return -x })
}

func gcd64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ReduceCoefficientsIfLarge divides all coefficients by their common GCD
// when the largest absolute coefficient exceeds 10000. Pseudo-remainder
// elimination grows coefficients super-polynomially; this keeps them inside
// int64 for longer.
func (p *Poly) ReduceCoefficientsIfLarge() {
	p.ReduceCoefficientsIfAbove(10000)
}

// ReduceCoefficientsIfAbove divides all coefficients by their common GCD
// when the largest absolute coefficient exceeds threshold.
func (p *Poly) ReduceCoefficientsIfAbove(threshold int64) {
	var maxAbs int64
	p.observeCoefficients(func(x int64) {
		if x < 0 {
			x = -x
		}
		if x > maxAbs {
			maxAbs = x
		}
	})
	if maxAbs <= threshold {
		return
	}

	gcdValue := uint64(1)
	first := true
	p.observeCoefficients(func(x int64) {
		if x == 0 {
			return
		}
		abs := uint64(x)
		if x < 0 {
			abs = uint64(-x)
		}
		if first {
			gcdValue = abs
			first = false
		} else {
			gcdValue = gcd64(gcdValue, abs)
		}
	})
	if gcdValue == 1 {
		return
	}
	p.applyToCoefficients(func(x int64) int64 { return x / int64(gcdValue) })
}

// RetainRelevantPolys keeps only the polynomials transitively connected to
// the plot variables: starting from {x, y}, any polynomial sharing a
// variable with the needed set is kept and its variables join the set, until
// a fixed point.
func RetainRelevantPolys(polys []*Poly, xVar, yVar uint8) []*Poly {
	varsUsed := make([][256]bool, len(polys))
	for i, p := range polys {
		p.FillInVariables(&varsUsed[i])
	}

	needed := make([]bool, len(polys))
	var varsNeeded [256]bool
	varsNeeded[xVar] = true
	varsNeeded[yVar] = true

	for {
		found := -1
		for i := range polys {
			if needed[i] {
				continue
			}
			for j := 0; j < 256; j++ {
				if varsUsed[i][j] && varsNeeded[j] {
					found = i
					break
				}
			}
			if found >= 0 {
				break
			}
		}
		if found < 0 {
			break
		}
		needed[found] = true
		for j := 0; j < 256; j++ {
			varsNeeded[j] = varsNeeded[j] || varsUsed[found][j]
		}
	}

	var result []*Poly
	for i, p := range polys {
		if needed[i] {
			result = append(result, p)
		}
	}
	return result
}

// VarSearch identifies the next variable to eliminate: the one whose minimum
// degree across the polynomials containing it is smallest, together with the
// polynomial attaining that minimum.
type VarSearch struct {
	Var       uint8
	MinDegree int
	PolyIndex int
}

// MinDegreeVar picks the variable to eliminate next, skipping the plot
// variables. ok is false when only the plot variables remain.
func MinDegreeVar(polys []*Poly, xVar, yVar uint8) (VarSearch, bool) {
	var allVars [256]bool
	for _, p := range polys {
		p.FillInVariables(&allVars)
	}

	best := VarSearch{}
	bestDegree := -1
	for v := 0; v < 256; v++ {
		if !allVars[v] || v == int(xVar) || v == int(yVar) {
			continue
		}
		currentMin := -1
		currentIndex := 0
		for i, p := range polys {
			d := p.Degree(uint8(v))
			if d > 0 && (currentMin < 0 || d < currentMin) {
				currentMin = d
				currentIndex = i
			}
		}
		if currentMin > 0 && (bestDegree < 0 || currentMin < bestDegree) {
			bestDegree = currentMin
			best = VarSearch{Var: uint8(v), MinDegree: currentMin, PolyIndex: currentIndex}
		}
	}
	if bestDegree < 0 {
		return VarSearch{}, false
	}
	return best, true
}

// ModImage is the modular image of a variable: the variable's d-th power
// maps to the univariate polynomial P(t) over Z/pZ.
type ModImage struct {
	Poly   field.Poly
	Degree int
}

// ErrIncompatibleDegree is returned by SubstituteModularPolys when the
// polynomial carries a power of a variable that the stored per-variable
// degree cannot express.
var ErrIncompatibleDegree = errors.New("poly: coefficient at a power not divisible by the substituted degree")

// SubstituteModularPolys maps every variable through its modular image and
// returns the resulting univariate polynomial over Z/pZ. A variable image
// with degree d covers only powers divisible by d; any other nonzero
// coefficient is an error.
func (p *Poly) SubstituteModularPolys(images map[uint8]ModImage) (field.Poly, error) {
	var prime uint64
	for _, image := range images {
		prime = image.Poly.P
		break
	}

	if p.children == nil {
		return field.Constant(field.FromInt64(p.n, prime), prime), nil
	}

	image, ok := images[p.v]
	if !ok {
		return field.Poly{}, fmt.Errorf("poly: no modular image for variable %s", VarName(p.v))
	}

	result := field.Zero(prime)
	power := field.Constant(1, prime)
	for i, child := range p.children {
		if i%image.Degree != 0 && !child.IsZero() {
			return field.Poly{}, fmt.Errorf("%w: %s^%d", ErrIncompatibleDegree, VarName(p.v), i)
		}
		coeff, err := child.SubstituteModularPolys(images)
		if err != nil {
			return field.Poly{}, err
		}
		result = result.Add(coeff.Mul(power))
		if i%image.Degree == 0 {
			power = power.Mul(image.Poly)
		}
	}
	return result, nil
}
