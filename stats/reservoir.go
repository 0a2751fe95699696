package stats

import (
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/go-ehr/vocab/errors"
)

// DefaultReservoirCapacity is the reservoir capacity used for numeric value
// streams unless configured otherwise
const DefaultReservoirCapacity = 10000

// ReservoirSampler maintains a fixed-capacity weighted random sample of a
// numeric stream. Once the reservoir is full, a new item is admitted with
// probability proportional to its weight's share of the total weight seen so
// far, evicting a uniformly random resident item, so higher-weight items are
// more likely to remain in the sample. Weights must be positive and finite;
// the caller owns that invariant.
type ReservoirSampler struct {
	capacity    int
	totalWeight float64
	samples     []float64
}

// NewReservoirSampler creates an empty ReservoirSampler with the given
// capacity
func NewReservoirSampler(capacity int) *ReservoirSampler {
	return &ReservoirSampler{capacity: capacity}
}

// Add performs one weighted reservoir insertion, using the supplied random
// source for all sampling decisions
func (r *ReservoirSampler) Add(value float64, weight float64, rng *rand.Rand) {
	r.totalWeight += weight
	r.insert(value, weight, r.totalWeight, rng)
}

// insert admits a value into the reservoir given the total weight seen at the
// point of insertion, without touching the weight bookkeeping
func (r *ReservoirSampler) insert(value float64, weight float64, totalWeight float64, rng *rand.Rand) {
	if len(r.samples) < r.capacity {
		r.samples = append(r.samples, value)
		return
	}
	if rng.Float64() < float64(r.capacity)*weight/totalWeight {
		r.samples[rng.Intn(r.capacity)] = value
	}
}

// Combine merges another reservoir into this one in O(capacity) work. Each of
// the other reservoir's retained samples is re-inserted carrying an equal
// share of that reservoir's total weight, which preserves expected membership
// probabilities for the union of the two underlying populations. Total weight
// is added once as a single exact sum, so additivity holds bit-for-bit
// regardless of which samples survive.
func (r *ReservoirSampler) Combine(o *ReservoirSampler, rng *rand.Rand) {
	if len(o.samples) > 0 {
		share := o.totalWeight / float64(len(o.samples))
		seen := r.totalWeight
		for _, value := range o.samples {
			seen += share
			r.insert(value, share, seen, rng)
		}
	}
	r.totalWeight += o.totalWeight
}

// Capacity returns the maximum number of samples this reservoir retains
func (r *ReservoirSampler) Capacity() int {
	return r.capacity
}

// TotalWeight returns the exact total weight of every item ever offered to
// this reservoir, including items which were not admitted
func (r *ReservoirSampler) TotalWeight() float64 {
	return r.totalWeight
}

// Samples returns the values currently retained in the reservoir, in no
// particular order. The returned slice is owned by the reservoir and must not
// be modified.
func (r *ReservoirSampler) Samples() []float64 {
	return r.samples
}

// MarshalBinary serializes this ReservoirSampler
func (r *ReservoirSampler) MarshalBinary() ([]byte, error) {
	buff := make([]byte, 24+8*len(r.samples))
	binary.LittleEndian.PutUint64(buff[0:], uint64(r.capacity))
	binary.LittleEndian.PutUint64(buff[8:], math.Float64bits(r.totalWeight))
	binary.LittleEndian.PutUint64(buff[16:], uint64(len(r.samples)))
	for i, value := range r.samples {
		binary.LittleEndian.PutUint64(buff[24+8*i:], math.Float64bits(value))
	}
	return buff, nil
}

// UnmarshalBinary restores this ReservoirSampler from serialized data
func (r *ReservoirSampler) UnmarshalBinary(buff []byte) error {
	if len(buff) < 24 {
		return errors.BufferTooSmallError{Expected: 24, Actual: len(buff)}
	}
	r.capacity = int(binary.LittleEndian.Uint64(buff[0:]))
	r.totalWeight = math.Float64frombits(binary.LittleEndian.Uint64(buff[8:]))
	n := int(binary.LittleEndian.Uint64(buff[16:]))
	if len(buff) < 24+8*n {
		return errors.BufferTooSmallError{Expected: 24 + 8*n, Actual: len(buff)}
	}
	r.samples = make([]float64, n)
	for i := range r.samples {
		r.samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(buff[24+8*i:]))
	}
	return nil
}
