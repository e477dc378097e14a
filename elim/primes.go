package elim

import "github.com/tuneinsight/lattigo/v6/ring"

// checkModuli is the fixed table of large primes the factor check draws
// from. 61-bit primes keep reduced coefficient sums inside uint64 while
// leaving the chance of a false positive negligible.
var checkModuli = mustCheckModuli()

func mustCheckModuli() []uint64 {
	generator := ring.NewNTTFriendlyPrimesGenerator(61, 16)
	primes, err := generator.NextDownstreamPrimes(8)
	if err != nil {
		panic(err)
	}
	return primes
}
