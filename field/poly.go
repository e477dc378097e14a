package field

import (
	"io"
	"strconv"
	"strings"
)

// Poly is a univariate polynomial over Z/pZ, with coefficients stored in
// ascending order (constant term first). Polynomials are normalized: all
// coefficients are reduced modulo P and trailing zeros are trimmed. The zero
// polynomial keeps a single zero coefficient.
type Poly struct {
	Coeffs []uint64
	P      uint64
}

// New builds a normalized polynomial from the given coefficients.
func New(coeffs []uint64, p uint64) Poly {
	normalized := make([]uint64, len(coeffs))
	for i, c := range coeffs {
		normalized[i] = c % p
	}
	for len(normalized) > 1 && normalized[len(normalized)-1] == 0 {
		normalized = normalized[:len(normalized)-1]
	}
	return Poly{Coeffs: normalized, P: p}
}

// Zero returns the zero polynomial over Z/pZ.
func Zero(p uint64) Poly {
	return New([]uint64{0}, p)
}

// Constant returns the constant polynomial c over Z/pZ.
func Constant(c, p uint64) Poly {
	return New([]uint64{c % p}, p)
}

// Random returns a polynomial of exactly the given degree with uniform
// coefficients and a nonzero leading coefficient.
func Random(degree int, p uint64, prng io.Reader) Poly {
	coeffs := make([]uint64, degree+1)
	for i := range coeffs {
		coeffs[i] = RandUniform(prng, p)
	}
	for coeffs[degree] == 0 {
		coeffs[degree] = RandUniform(prng, p)
	}
	return New(coeffs, p)
}

// Degree returns the degree; constants (including zero) have degree 0.
func (p Poly) Degree() int {
	if len(p.Coeffs) <= 1 {
		return 0
	}
	return len(p.Coeffs) - 1
}

// IsZero reports whether the polynomial is zero.
func (p Poly) IsZero() bool {
	return len(p.Coeffs) == 0 || (len(p.Coeffs) == 1 && p.Coeffs[0] == 0)
}

// IsConstant reports whether the polynomial has no variable part.
func (p Poly) IsConstant() bool {
	return len(p.Coeffs) <= 1
}

// Equal reports coefficient-wise equality.
func (p Poly) Equal(q Poly) bool {
	if p.P != q.P || len(p.Coeffs) != len(q.Coeffs) {
		return false
	}
	for i, c := range p.Coeffs {
		if c != q.Coeffs[i] {
			return false
		}
	}
	return true
}

func checkModuli(p, q Poly) {
	if p.P != q.P {
		panic("field: mismatched moduli")
	}
}

func (p Poly) coeff(i int) uint64 {
	if i < len(p.Coeffs) {
		return p.Coeffs[i]
	}
	return 0
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	checkModuli(p, q)
	n := max(len(p.Coeffs), len(q.Coeffs))
	result := make([]uint64, n)
	for i := 0; i < n; i++ {
		result[i] = addMod(p.coeff(i), q.coeff(i), p.P)
	}
	return New(result, p.P)
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly {
	checkModuli(p, q)
	n := max(len(p.Coeffs), len(q.Coeffs))
	result := make([]uint64, n)
	for i := 0; i < n; i++ {
		result[i] = subMod(p.coeff(i), q.coeff(i), p.P)
	}
	return New(result, p.P)
}

// Mul returns p * q via the schoolbook convolution, with coefficient
// products taken in 128 bits.
func (p Poly) Mul(q Poly) Poly {
	checkModuli(p, q)
	if p.IsZero() || q.IsZero() {
		return Zero(p.P)
	}
	result := make([]uint64, len(p.Coeffs)+len(q.Coeffs)-1)
	for i, a := range p.Coeffs {
		if a == 0 {
			continue
		}
		for j, b := range q.Coeffs {
			result[i+j] = addMod(result[i+j], mulMod(a, b, p.P), p.P)
		}
	}
	return New(result, p.P)
}

// Neg returns -p.
func (p Poly) Neg() Poly {
	result := make([]uint64, len(p.Coeffs))
	for i, c := range p.Coeffs {
		result[i] = negMod(c, p.P)
	}
	return New(result, p.P)
}

// QuoRem divides p by divisor, returning quotient and remainder such that
// p = quotient*divisor + remainder and deg(remainder) < deg(divisor).
// ok is false when the divisor is zero.
func (p Poly) QuoRem(divisor Poly) (quotient, remainder Poly, ok bool) {
	checkModuli(p, divisor)

	if divisor.IsZero() {
		return Poly{}, Poly{}, false
	}
	if p.IsZero() {
		return Zero(p.P), Zero(p.P), true
	}
	if divisor.IsConstant() {
		inv, ok := modInverse(divisor.Coeffs[0], p.P)
		if !ok {
			return Poly{}, Poly{}, false
		}
		result := make([]uint64, len(p.Coeffs))
		for i, c := range p.Coeffs {
			result[i] = mulMod(c, inv, p.P)
		}
		return New(result, p.P), Zero(p.P), true
	}

	divisorDegree := divisor.Degree()
	if p.Degree() < divisorDegree {
		return Zero(p.P), New(p.Coeffs, p.P), true
	}

	dividend := New(p.Coeffs, p.P)
	leadInv, _ := modInverse(divisor.Coeffs[divisorDegree], p.P)
	quotientCoeffs := make([]uint64, p.Degree()-divisorDegree+1)

	for !dividend.IsZero() && dividend.Degree() >= divisorDegree {
		d := dividend.Degree()
		q := mulMod(dividend.Coeffs[d], leadInv, p.P)
		quotientCoeffs[d-divisorDegree] = q

		// Subtract q * x^(d-divisorDegree) * divisor.
		term := make([]uint64, d-divisorDegree+1)
		term[d-divisorDegree] = q
		dividend = dividend.Sub(New(term, p.P).Mul(divisor))
		if dividend.Degree() >= d && !dividend.IsZero() {
			return Poly{}, Poly{}, false
		}
	}

	return New(quotientCoeffs, p.P), dividend, true
}

// Rem returns the remainder of p modulo divisor; ok is false for a zero
// divisor.
func (p Poly) Rem(divisor Poly) (Poly, bool) {
	_, r, ok := p.QuoRem(divisor)
	return r, ok
}

// Quo returns the quotient of p by divisor; ok is false for a zero divisor.
func (p Poly) Quo(divisor Poly) (Poly, bool) {
	q, _, ok := p.QuoRem(divisor)
	return q, ok
}

// Inverse returns the multiplicative inverse of p modulo q via the extended
// Euclidean algorithm over polynomials. ok is false when gcd(p, q) is not a
// nonzero constant, i.e. no inverse exists.
func (p Poly) Inverse(q Poly) (Poly, bool) {
	checkModuli(p, q)

	if p.IsZero() || q.IsZero() {
		return Poly{}, false
	}

	// Invariant: rCurr = sCurr*p (mod q), up to multiples of q.
	rPrev, rCurr := q, New(p.Coeffs, p.P)
	sPrev, sCurr := Zero(p.P), Constant(1, p.P)

	for !rCurr.IsZero() {
		quotient, rNext, ok := rPrev.QuoRem(rCurr)
		if !ok {
			return Poly{}, false
		}
		if !rNext.IsZero() {
			sPrev, sCurr = sCurr, sPrev.Sub(quotient.Mul(sCurr))
		}
		rPrev, rCurr = rCurr, rNext
	}

	// rPrev is the gcd; it must be a nonzero constant.
	if rPrev.Degree() > 0 {
		return Poly{}, false
	}
	gcdInv, ok := modInverse(rPrev.Coeffs[0], p.P)
	if !ok {
		return Poly{}, false
	}
	result := make([]uint64, len(sCurr.Coeffs))
	for i, c := range sCurr.Coeffs {
		result[i] = mulMod(c, gcdInv, p.P)
	}
	return New(result, p.P), true
}

// String renders the polynomial as "c0 + c1x + c2x^2 ...", skipping zero
// terms.
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var terms []string
	for i, c := range p.Coeffs {
		if c == 0 {
			continue
		}
		var term string
		switch {
		case i == 0:
			term = strconv.FormatUint(c, 10)
		case i == 1 && c == 1:
			term = "x"
		case i == 1:
			term = strconv.FormatUint(c, 10) + "x"
		case c == 1:
			term = "x^" + strconv.Itoa(i)
		default:
			term = strconv.FormatUint(c, 10) + "x^" + strconv.Itoa(i)
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}
