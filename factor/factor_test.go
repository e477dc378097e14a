package factor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathanmweiss/go-locus/poly"
)

// stubChild writes an executable shell script that answers every request
// with the given response lines followed by the sentinel.
func stubChild(t *testing.T, responses ...string) string {
	t.Helper()
	script := "#!/bin/sh\nwhile read line; do\n"
	for _, response := range responses {
		script += "  echo '" + response + "'\n"
	}
	script += "  echo Done\ndone\n"

	path := filepath.Join(t.TempDir(), "gp-stub")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestFactorSimpleProduct(t *testing.T) {
	a := assert.New(t)

	service := NewService(stubChild(t, "[a - b, a + b]~", "[1, 1]~"))
	defer service.Close()

	factors, err := service.Factor(poly.MustParse("a^2 - b^2"))
	require.NoError(t, err)
	require.Len(t, factors, 2)
	a.Equal("-b + a", factors[0].String())
	a.Equal("b + a", factors[1].String())
}

func TestFactorSignMismatchIsRecovered(t *testing.T) {
	a := assert.New(t)

	// b*(a^2 + b^2 - 1) is the negation of the input; the service flips the
	// reconstructed product once before giving up.
	service := NewService(stubChild(t, "[b, a^2 + b^2 - 1]~", "[1, 1]~"))
	defer service.Close()

	factors, err := service.Factor(poly.MustParse("b - b^3 - b*a^2"))
	require.NoError(t, err)
	require.Len(t, factors, 2)
	a.Equal("b", factors[0].String())
	a.Equal("-1 + b^2 + a^2", factors[1].String())
}

func TestFactorMultiplicities(t *testing.T) {
	a := assert.New(t)

	service := NewService(stubChild(t, "[a + 1]~", "[2]~"))
	defer service.Close()

	factors, err := service.Factor(poly.MustParse("a^2 + 2*a + 1"))
	require.NoError(t, err)
	require.Len(t, factors, 1)
	a.Equal("1 + a", factors[0].String())
}

func TestFactorVerificationFailure(t *testing.T) {
	a := assert.New(t)

	service := NewService(stubChild(t, "[a + 2]~", "[1]~"))
	defer service.Close()

	_, err := service.Factor(poly.MustParse("a + 1"))
	a.ErrorIs(err, ErrVerification)
}

func TestFactorBadResponse(t *testing.T) {
	a := assert.New(t)

	service := NewService(stubChild(t, "unexpected garbage", "[1]~"))
	defer service.Close()

	_, err := service.Factor(poly.MustParse("a + 1"))
	a.ErrorIs(err, ErrBadResponse)
}

func TestFactorTimeoutTreatsInputAsIrreducible(t *testing.T) {
	a := assert.New(t)

	// A child that answers nothing: the deadline expires and the input comes
	// back as its own factorization.
	path := filepath.Join(t.TempDir(), "gp-stub")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nsleep 60\n"), 0o755))

	service := NewService(path)
	service.timeout = 100 * time.Millisecond
	defer service.Close()

	input := poly.MustParse("a^2 - b^2")
	factors, err := service.Factor(input)
	require.NoError(t, err)
	require.Len(t, factors, 1)
	a.True(factors[0].Equal(input))
}

func TestFactorSpawnFailure(t *testing.T) {
	service := NewService("/nonexistent/gp-binary")
	defer service.Close()

	_, err := service.Factor(poly.MustParse("a + 1"))
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	a := assert.New(t)

	parts, err := parseList("[a - b, a + b]~")
	require.NoError(t, err)
	a.Equal([]string{"a - b", "a + b"}, parts)

	parts, err = parseList("([x^2 + 1, x - 1]~)")
	require.NoError(t, err)
	a.Equal([]string{"x^2 + 1", "x - 1"}, parts)

	_, err = parseList("not a list")
	a.ErrorIs(err, ErrBadResponse)
}
