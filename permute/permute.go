// Package permute produces the deterministic, seed-driven bit-to-slot
// mapping that disperses payload bits across channel positions. Given the
// same (seed, n) it always produces the same sequence, which is the
// contract both the embed and extract drivers depend on.
package permute

import "math/rand/v2"

// Order is a permutation of [0, N) addressable in O(1) by index. It is
// backed by a narrower slice type when N fits in 32 bits, halving memory
// for the common case.
type Order interface {
	// At returns the i-th element of the permutation.
	At(i uint64) uint64
	// Len returns N.
	Len() uint64
}

type order32 []uint32

func (o order32) At(i uint64) uint64 { return uint64(o[i]) }
func (o order32) Len() uint64        { return uint64(len(o)) }

type order64 []uint64

func (o order64) At(i uint64) uint64 { return o[i] }
func (o order64) Len() uint64        { return uint64(len(o)) }

// maxUint32 bounds the n for which the narrower order32 backing applies.
const maxUint32 = 1<<32 - 1

// Generate draws the full permutation of [0, n) seeded by seed. It always
// draws all n elements, even when a caller only needs a prefix: the PRNG
// stream position for element k depends on having drawn elements 0..k
// first, so two calls that need different prefix lengths only agree on
// the shared prefix if both draw the full sequence.
func Generate(seed uint64, n uint64) Order {
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := floydPermutation(rng, n)

	if n <= maxUint32 {
		out := make([]uint32, n)
		for i, v := range perm {
			out[i] = uint32(v)
		}
		return order32(out)
	}
	return order64(perm)
}

// floydPermutation draws a uniformly random permutation of [0, n) using the
// inside-out variant of Fisher-Yates, equivalent to Floyd's algorithm for
// sampling all n of n items without replacement: at step i, swap the
// not-yet-written element at a uniformly chosen earlier-or-equal position
// into place, carrying forward whatever value that position had already
// received.
func floydPermutation(rng *rand.Rand, n uint64) []uint64 {
	a := make([]uint64, n)
	for i := uint64(0); i < n; i++ {
		j := randUint64n(rng, i+1)
		a[i] = a[j]
		a[j] = i
	}
	return a
}

// randUint64n returns a uniformly distributed value in [0, n) using
// rejection sampling against the PRNG's full output, avoiding modulo bias
// for n that doesn't evenly divide the output range.
func randUint64n(rng *rand.Rand, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	if n&(n-1) == 0 {
		return rng.Uint64() & (n - 1)
	}
	lim := maxUint64 - maxUint64%n
	for {
		v := rng.Uint64()
		if v < lim {
			return v % n
		}
	}
}

const maxUint64 = 1<<64 - 1
