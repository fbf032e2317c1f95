package generator

import "math/rand/v2"

// Source is the random stream a run draws from, strictly in record order.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

// pcgStream separates the second PCG word from the seed.
const pcgStream = 0x9e3779b97f4a7c15

// NewSource returns a stream fully determined by seed. It must not be shared
// between concurrent runs.
func NewSource(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^pcgStream))
}

// uniform draws from [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// gaussian draws from N(0, std²).
func gaussian(src Source, std float64) float64 {
	return src.NormFloat64() * std
}
