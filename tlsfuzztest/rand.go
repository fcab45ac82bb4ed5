package tlsfuzztest

import "math/rand"

// FixedSeed is the deterministic seed NewDeterministicRand uses, so tests
// that draw their rand.Rand from it are reproducible across runs.
const FixedSeed = 1337

// NewDeterministicRand returns a rand.Rand seeded for reproducible mutator
// test runs.
func NewDeterministicRand() *rand.Rand {
	return rand.New(rand.NewSource(FixedSeed))
}
