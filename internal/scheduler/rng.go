package scheduler

import "math/bits"

// tickRNG is a splitmix64 stream, re-seeded fresh every tick from
// session_seed XOR tick_number, per spec §9: "do not thread a single
// stream across ticks or workers." It exists only to drive Phase 3's
// shuffle; nothing else in the scheduler consumes randomness.
type tickRNG struct {
	state uint64
}

func newTickRNG(sessionSeed, tick uint64) *tickRNG {
	return &tickRNG{state: sessionSeed ^ tick}
}

func (r *tickRNG) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// intn returns a uniform value in [0, n) via Lemire's widened-multiply
// method, avoiding the modulo bias a plain `next() % n` would introduce.
func (r *tickRNG) intn(n int) int {
	if n <= 1 {
		return 0
	}
	x := uint64(n)
	hi, lo := bits.Mul64(r.next(), x)
	if lo < x {
		threshold := -x % x
		for lo < threshold {
			hi, lo = bits.Mul64(r.next(), x)
		}
	}
	return int(hi)
}

// fisherYatesShuffle permutes items in place using rng, per spec §4.6
// Phase 3.
func fisherYatesShuffle[T any](items []T, rng *tickRNG) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
