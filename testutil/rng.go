package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/cellmap/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Shuffle permutes darts in place.
func (r *RNG) Shuffle(darts []model.Dart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(darts), func(i, j int) {
		darts[i], darts[j] = darts[j], darts[i]
	})
}

// Pick returns a random element of darts.
func (r *RNG) Pick(darts []model.Dart) model.Dart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return darts[r.rand.Intn(len(darts))]
}

// Records returns n pseudo-random record indexes in [0, limit), with roughly
// nullRate of them replaced by model.NullRecord.
func (r *RNG) Records(n int, limit uint32, nullRate float64) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := make([]uint32, n)
	for i := range n {
		if r.rand.Float64() < nullRate {
			recs[i] = model.NullRecord
			continue
		}
		recs[i] = uint32(r.rand.Int63n(int64(limit)))
	}
	return recs
}
