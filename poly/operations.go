package poly

// Scale multiplies every coefficient by factor.
func (p *Poly) Scale(factor int64) {
	if p.children == nil {
		p.n *= factor
		return
	}
	for i := range p.children {
		detach(&p.children[i]).Scale(factor)
	}
}

// AddScaled computes p += factor * q in place. The six variable-ordering
// cases: when q's top variable is lower than p's, p is folded into a scaled
// copy of q instead.
func (p *Poly) AddScaled(q *Poly, factor int64) {
	switch {
	case p.children == nil && q.children == nil:
		p.n += factor * q.n

	case p.children != nil && (q.children == nil || q.v > p.v):
		// q is constant with respect to p's variable: add into the
		// degree-zero coefficient.
		detach(&p.children[0]).AddScaled(q, factor)

	case q.children != nil && (p.children == nil || p.v > q.v):
		scaled := q.Clone()
		scaled.Scale(factor)
		scaled.AddScaled(p, 1)
		*p = *scaled

	default:
		// Same top variable: add coefficient vectors, padding p.
		for len(p.children) < len(q.children) {
			p.children = append(p.children, NewConstant(0))
		}
		for i, c := range q.children {
			detach(&p.children[i]).AddScaled(c, factor)
		}
	}
	p.cleanup()
}

// Multiply returns p * q. On a shared top variable this is the Cauchy
// product of the coefficient vectors; with distinct variables the lower
// variable's coefficients are each multiplied by the other polynomial.
func (p *Poly) Multiply(q *Poly) *Poly {
	switch {
	case p.children == nil:
		result := q.Clone()
		result.Scale(p.n)
		return result

	case q.children == nil:
		result := p.Clone()
		result.Scale(q.n)
		return result

	case p.v != q.v:
		low, high := p, q
		if q.v < p.v {
			low, high = q, p
		}
		children := make([]*Poly, len(low.children))
		for i, c := range low.children {
			children[i] = c.Multiply(high)
		}
		result := &Poly{v: low.v, children: children}
		result.cleanup()
		return result

	default:
		n := len(p.children) + len(q.children) - 1
		children := make([]*Poly, n)
		for i := 0; i < n; i++ {
			sum := NewConstant(0)
			for j := 0; j <= i && j < len(p.children); j++ {
				if i-j < len(q.children) {
					sum.AddScaled(p.children[j].Multiply(q.children[i-j]), 1)
				}
			}
			children[i] = sum
		}
		result := &Poly{v: p.v, children: children}
		result.cleanup()
		return result
	}
}

// ExtractFactorAndRemainder splits p as v^degree * factor + remainder with
// deg_v(remainder) < degree. A polynomial free of v yields a zero factor
// and itself as the remainder.
func (p *Poly) ExtractFactorAndRemainder(v uint8, degree int) (factor, remainder *Poly) {
	switch {
	case p.children == nil || p.v > v:
		return NewConstant(0), p.Clone()

	case p.v < v:
		factorChildren := make([]*Poly, len(p.children))
		remainderChildren := make([]*Poly, len(p.children))
		for i, c := range p.children {
			f, r := c.ExtractFactorAndRemainder(v, degree)
			factorChildren[i] = f
			remainderChildren[i] = r
		}
		return NewNested(p.v, factorChildren), NewNested(p.v, remainderChildren)

	default:
		d := degree
		if d > len(p.children) {
			d = len(p.children)
		}
		remainder = NewNested(p.v, append([]*Poly(nil), p.children[:d]...))
		if degree >= len(p.children) {
			factor = NewConstant(0)
		} else {
			factor = NewNested(p.v, append([]*Poly(nil), p.children[degree:]...))
		}
		return factor, remainder
	}
}

// SingleOutKind classifies a polynomial's shape with respect to one
// variable.
type SingleOutKind int

const (
	// SingleOutConstant: the polynomial does not involve the variable.
	SingleOutConstant SingleOutKind = iota
	// SingleOutLinear: the polynomial is coeff + K'*v with constant v-part,
	// reported as Linear(coeff, K) so that v = Coeff / K.
	SingleOutLinear
	// SingleOutNonlinear: anything else.
	SingleOutNonlinear
)

// SingleOut is the result of classifying a polynomial against a variable.
// For a linear result the defining relation is v = Coeff / K.
type SingleOut struct {
	Kind  SingleOutKind
	Coeff *Poly
	K     int64
}

// SingleOut classifies p with respect to v. The polynomial is linear when
// its v-part is a single constant-coefficient degree-one term across the
// whole tree: at the top level Nested(v, [c0, c1]) with constant c1 gives
// Linear(c0, -c1); below v, the leading subtree must be linear and all
// others constant in v.
func (p *Poly) SingleOut(v uint8) SingleOut {
	if p.children == nil || p.v > v {
		return SingleOut{Kind: SingleOutConstant}
	}
	if p.v == v {
		if len(p.children) == 2 && p.children[1].IsConstant() {
			return SingleOut{Kind: SingleOutLinear, Coeff: p.children[0], K: -p.children[1].n}
		}
		return SingleOut{Kind: SingleOutNonlinear}
	}

	results := make([]SingleOut, len(p.children))
	for i, c := range p.children {
		results[i] = c.SingleOut(v)
	}
	restConstant := true
	for _, r := range results[1:] {
		if r.Kind != SingleOutConstant {
			restConstant = false
			break
		}
	}
	switch results[0].Kind {
	case SingleOutLinear:
		if restConstant {
			children := append([]*Poly(nil), p.children...)
			children[0] = results[0].Coeff
			return SingleOut{
				Kind:  SingleOutLinear,
				Coeff: &Poly{v: p.v, children: children},
				K:     results[0].K,
			}
		}
		return SingleOut{Kind: SingleOutNonlinear}
	case SingleOutConstant:
		if restConstant {
			return SingleOut{Kind: SingleOutConstant}
		}
		return SingleOut{Kind: SingleOutNonlinear}
	default:
		return SingleOut{Kind: SingleOutNonlinear}
	}
}

func powInt64(base int64, exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// SubstituteLinear substitutes v = g/k by homogenizing: with p written as
// Sum C_i * v^i up to degree d, the result is Sum C_i * g^i * k^(d-i), so
// that result equals k^d times p with v replaced by g/k.
func (p *Poly) SubstituteLinear(v uint8, g *Poly, k int64) *Poly {
	d := p.Degree(v)
	factors := make([]*Poly, d+1)
	for i := range factors {
		factors[i] = NewConstant(0)
	}
	p.computeFactors(v, factors)

	result := factors[0]
	result.Scale(powInt64(k, d))
	polyPower := g
	for i := 1; i <= d; i++ {
		product := factors[i].Multiply(polyPower)
		result.AddScaled(product, powInt64(k, d-i))
		polyPower = polyPower.Multiply(g)
	}
	result.cleanup()
	result.ReduceCoefficientsIfLarge()
	return result
}

// computeFactors accumulates p into factors so that
// p = factors[0] + v*factors[1] + ... + v^d*factors[d].
func (p *Poly) computeFactors(v uint8, factors []*Poly) {
	switch {
	case p.children == nil || p.v > v:
		factors[0].AddScaled(p, 1)

	case p.v == v:
		for i, c := range p.children {
			if i < len(factors) {
				factors[i].AddScaled(c, 1)
			}
		}

	default:
		inner := make([][]*Poly, len(p.children))
		dMax := 0
		for i, c := range p.children {
			d := c.Degree(v)
			if d > dMax {
				dMax = d
			}
			inner[i] = make([]*Poly, d+1)
			for j := range inner[i] {
				inner[i][j] = NewConstant(0)
			}
			c.computeFactors(v, inner[i])
		}
		for j := 0; j <= dMax; j++ {
			children := make([]*Poly, len(p.children))
			for i := range p.children {
				if j >= len(inner[i]) {
					children[i] = NewConstant(0)
				} else {
					children[i] = inner[i][j]
				}
			}
			factors[j].AddScaled(&Poly{v: p.v, children: children}, 1)
		}
	}
}

// Derivative differentiates with respect to v.
func (p *Poly) Derivative(v uint8) *Poly {
	if p.children == nil || p.v > v {
		return NewConstant(0)
	}
	if p.v == v {
		children := make([]*Poly, len(p.children)-1)
		for i := 0; i < len(p.children)-1; i++ {
			c := p.children[i+1].Clone()
			c.Scale(int64(i + 1))
			children[i] = c
		}
		return NewNested(p.v, children)
	}
	children := make([]*Poly, len(p.children))
	for i, c := range p.children {
		children[i] = c.Derivative(v)
	}
	return NewNested(p.v, children)
}

// IsProportional reports whether p and q differ only by a rational constant
// factor. The first structurally encountered nonzero coefficient of each
// side cross-scales the other; proportional polynomials then compare equal.
func (p *Poly) IsProportional(q *Poly) bool {
	cp := firstCoefficient(p)
	cq := firstCoefficient(q)
	if cp == 0 || cq == 0 {
		return cp == 0 && cq == 0
	}
	return p.Multiply(NewConstant(cq)).Equal(q.Multiply(NewConstant(cp)))
}

func firstCoefficient(p *Poly) int64 {
	if p.children == nil {
		return p.n
	}
	for _, c := range p.children {
		if v := firstCoefficient(c); v != 0 {
			return v
		}
	}
	return 0
}
