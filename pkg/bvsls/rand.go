package bvsls

// RandomSource supplies the randomness for sampling operations. It is
// always passed in by the caller so that one seeded generator can drive
// every variable of a search run reproducibly; the kernel never owns or
// caches a generator. *math/rand.Rand satisfies the interface.
type RandomSource interface {
	// Uint64 returns a uniformly random 64-bit value.
	Uint64() uint64
	// Intn returns a uniformly random int in [0, n). n must be > 0.
	Intn(n int) int
}
