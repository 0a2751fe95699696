package stats

import (
	"math/rand"

	xxhash "github.com/cespare/xxhash/v2"
)

// SeedFor derives a deterministic random seed from a sequence of naming
// parts. Reservoir sampling decisions are only reproducible across runs when
// every random source is seeded from something stable, so workers derive
// their generators from their partition identity rather than from an ambient
// unseeded source.
func SeedFor(parts ...string) int64 {
	hasher := xxhash.New()
	for _, part := range parts {
		hasher.WriteString(part)
		hasher.Write([]byte{0})
	}
	return int64(hasher.Sum64())
}

// NewRand creates a random source deterministically seeded from the given
// naming parts. The returned source is not safe for concurrent use and must
// be owned by a single worker.
func NewRand(parts ...string) *rand.Rand {
	return rand.New(rand.NewSource(SeedFor(parts...)))
}
