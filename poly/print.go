package poly

import (
	"strconv"
	"strings"
)

// Terms expands the polynomial into its monomials, in structural order:
// children by ascending degree, depth first; each term lists its higher
// variables first.
func (p *Poly) Terms() []Term {
	if p.children == nil {
		if p.n == 0 {
			return nil
		}
		return []Term{{Constant: p.n}}
	}
	var terms []Term
	for i, c := range p.children {
		for _, term := range c.Terms() {
			if i > 0 {
				term.Vars = append(term.Vars, VarPower{Var: p.v, Degree: i})
			}
			terms = append(terms, term)
		}
	}
	return terms
}

// String renders the polynomial in the textual format shared with the
// parser and the external factorer: signed integer coefficients, '*'
// products, '^' powers, "1*" elided for non-constant terms.
func (p *Poly) String() string {
	terms := p.Terms()
	if len(terms) == 0 {
		return "0"
	}

	var b strings.Builder
	for i, term := range terms {
		if i > 0 {
			if term.Constant < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if term.Constant < 0 {
			b.WriteByte('-')
		}

		absConstant := term.Constant
		if absConstant < 0 {
			absConstant = -absConstant
		}
		if absConstant != 1 || len(term.Vars) == 0 {
			b.WriteString(strconv.FormatInt(absConstant, 10))
		}

		for j, vp := range term.Vars {
			if absConstant != 1 || j > 0 {
				b.WriteByte('*')
			}
			b.WriteString(VarName(vp.Var))
			if vp.Degree > 1 {
				b.WriteByte('^')
				b.WriteString(strconv.Itoa(vp.Degree))
			}
		}
	}
	return b.String()
}

// GoString prints the nested structure, mainly for debugging tests.
func (p *Poly) GoString() string {
	if p.children == nil {
		return "Constant(" + strconv.FormatInt(p.n, 10) + ")"
	}
	var b strings.Builder
	b.WriteString("Nested(")
	b.WriteString(strconv.Itoa(int(p.v)))
	b.WriteString(", [")
	for i, c := range p.children {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.GoString())
	}
	b.WriteString("])")
	return b.String()
}
