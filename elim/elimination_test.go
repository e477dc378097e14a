package elim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"

	"github.com/jonathanmweiss/go-locus/poly"
)

func keyedPRNG(t *testing.T, key byte) *sampling.KeyedPRNG {
	t.Helper()
	seed := make([]byte, 64)
	seed[0] = key
	prng, err := sampling.NewKeyedPRNG(seed)
	require.NoError(t, err)
	return prng
}

func TestEliminationStep(t *testing.T) {
	a := assert.New(t)

	poly1 := poly.MustParse("a + a*c^2 - 1 + c^2")
	poly2 := poly.MustParse("b + b*c^2 - 2*c")
	const v = uint8(2) // c

	step := NewStep(v, poly1, poly2)
	a.Equal(2, step.DegreeA)
	a.Equal(2, step.DegreeB)

	next, ok := step.Next()
	require.True(t, ok)
	a.Equal(2, next.DegreeA)
	a.Equal(1, next.DegreeB)

	a.Equal("-2*c + b + c^2*b", next.A.String())
	a.Equal("2*c - 2*b + 2*c*a", next.B.String())

	a.Equal("0", next.Factor1a.String())
	a.Equal("1", next.Factor2a.String())
	a.Equal("b", next.Factor1b.String())
	a.Equal("-1 - a", next.Factor2b.String())

	step3, ok := next.Next()
	require.True(t, ok)
	a.Equal(1, step3.DegreeA)
	a.Equal(1, step3.DegreeB)

	a.Equal("2*c - 2*b + 2*c*a", step3.A.String())
	a.Equal("-2*b + 2*c*b^2 + 2*b*a", step3.B.String())

	a.Equal("b", step3.Factor1a.String())
	a.Equal("-1 - a", step3.Factor2a.String())
	a.Equal("2*b - c*b^2", step3.Factor1b.String())
	a.Equal("c*b + c*b*a", step3.Factor2b.String())

	step4, ok := step3.Next()
	require.True(t, ok)
	a.Equal(1, step4.DegreeA)
	a.Equal(0, step4.DegreeB)

	a.Equal("-2*b + 2*c*b^2 + 2*b*a", step4.A.String())
	a.Equal("4*b - 4*b^3 - 4*b*a^2", step4.B.String())

	a.Equal("2*b - c*b^2", step4.Factor1a.String())
	a.Equal("c*b + c*b*a", step4.Factor2a.String())
	a.Equal("-4*b + 2*c*b^2 + 2*b^3 - 4*b*a + 2*c*b^2*a", step4.Factor1b.String())
	a.Equal("-2*c*b - 2*b^2 - 4*c*b*a - 2*b^2*a - 2*c*b*a^2", step4.Factor2b.String())

	// The combiner identity: A = p1*F1a + p2*F2a, B = p1*F1b + p2*F2b.
	pa := step4.Poly1.Multiply(step4.Factor1a)
	pa.AddScaled(step4.Poly2.Multiply(step4.Factor2a), 1)
	pb := step4.Poly1.Multiply(step4.Factor1b)
	pb.AddScaled(step4.Poly2.Multiply(step4.Factor2b), 1)
	a.Equal("-2*b + 2*c*b^2 + 2*b*a", pa.String())
	a.Equal("4*b - 4*b^3 - 4*b*a^2", pb.String())
}

func TestCombinerIdentityHoldsAtEveryStep(t *testing.T) {
	a := assert.New(t)

	step := NewStep(2, poly.MustParse("a + a*c^2 - 1 + c^2"), poly.MustParse("b + b*c^2 - 2*c"))
	for {
		pa := step.Poly1.Multiply(step.Factor1a)
		pa.AddScaled(step.Poly2.Multiply(step.Factor2a), 1)
		a.True(pa.Equal(step.A), "A combiner identity at degree %d", step.DegreeB)

		pb := step.Poly1.Multiply(step.Factor1b)
		pb.AddScaled(step.Poly2.Multiply(step.Factor2b), 1)
		a.True(pb.Equal(step.B), "B combiner identity at degree %d", step.DegreeB)

		next, ok := step.Next()
		if !ok {
			break
		}
		step = next
	}
}

func circleElimination(t *testing.T, key byte) *Elimination {
	t.Helper()

	initial := []*poly.Poly{
		poly.MustParse("a + a*c^2 - 1 + c^2"),
		poly.MustParse("b + b*c^2 - 2*c"),
	}
	e := New(initial, 0, 1)
	e.PRNG = keyedPRNG(t, key)

	search, ok := e.VarToEliminate()
	require.True(t, ok)
	assert.Equal(t, uint8(2), search.Var)
	assert.Equal(t, 2, search.MinDegree)
	assert.Equal(t, 0, search.PolyIndex)

	e.EliminateVar(search)
	return e
}

func TestEliminateVar(t *testing.T) {
	a := assert.New(t)

	e := circleElimination(t, 1)
	require.Len(t, e.Polys, 1)
	a.Equal("4*b - 4*b^3 - 4*b*a^2", e.Polys[0].String())
	require.Len(t, e.Steps, 1)
	a.Equal(uint8(2), e.Steps[0].V)

	_, ok := e.VarToEliminate()
	a.False(ok)
}

func TestCheckFactor(t *testing.T) {
	a := assert.New(t)

	e := circleElimination(t, 2)

	// The stereographic parameterization traces the unit circle; a + 1 does
	// not describe the locus and is rejected.
	wrong, err := e.CheckFactor(poly.MustParse("a + 1"))
	require.NoError(t, err)
	a.False(wrong)

	correct, err := e.CheckFactor(poly.MustParse("a^2 + b^2 - 1"))
	require.NoError(t, err)
	a.True(correct)

	// The stray linear factor b of the eliminated polynomial fails too.
	stray, err := e.CheckFactor(poly.MustParse("b"))
	require.NoError(t, err)
	a.False(stray)
}

func TestCheckFactorIsRepeatable(t *testing.T) {
	a := assert.New(t)

	// Fresh randomness per run; the check tolerates repetition.
	for key := byte(10); key < 13; key++ {
		e := circleElimination(t, key)
		ok, err := e.CheckFactor(poly.MustParse("a^2 + b^2 - 1"))
		require.NoError(t, err)
		a.True(ok, "seed %d", key)
	}
}

func TestCheckModuliTable(t *testing.T) {
	a := assert.New(t)

	a.NotEmpty(checkModuli)
	for _, p := range checkModuli {
		a.Greater(p, uint64(1)<<60)
		a.Less(p, uint64(1)<<62)
	}
}
