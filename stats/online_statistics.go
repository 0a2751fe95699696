package stats

import (
	"encoding/binary"
	"math"

	"github.com/go-ehr/vocab/errors"
)

// OnlineStatistics maintains a weighted running mean and variance using a
// weight-aware form of Welford's algorithm. Add and Combine are both O(1).
// Weights must be positive and finite.
type OnlineStatistics struct {
	weight float64
	mean   float64
	m2     float64
}

// Add incorporates a value with the given weight into the running statistics
func (s *OnlineStatistics) Add(weight float64, value float64) {
	s.weight += weight
	delta := value - s.mean
	s.mean += delta * (weight / s.weight)
	delta2 := value - s.mean
	s.m2 += weight * delta * delta2
}

// Combine merges another independently accumulated OnlineStatistics into this
// one, producing statistics equivalent to having accumulated both inputs into
// a single instance (up to floating-point summation order)
func (s *OnlineStatistics) Combine(o *OnlineStatistics) {
	if o.weight == 0 {
		return
	}
	if s.weight == 0 {
		*s = *o
		return
	}
	total := s.weight + o.weight
	delta := o.mean - s.mean
	s.m2 += o.m2 + delta*delta*s.weight*(o.weight/total)
	s.mean += delta * (o.weight / total)
	s.weight = total
}

// TotalWeight returns the total weight accumulated so far
func (s *OnlineStatistics) TotalWeight() float64 {
	return s.weight
}

// Mean returns the current weighted mean, or 0 if nothing has been accumulated
func (s *OnlineStatistics) Mean() float64 {
	return s.mean
}

// Stddev returns the current weighted standard deviation, or 0 if nothing has
// been accumulated
func (s *OnlineStatistics) Stddev() float64 {
	if s.weight == 0 {
		return 0
	}
	return math.Sqrt(s.m2 / s.weight)
}

// MarshalBinary serializes this OnlineStatistics
func (s OnlineStatistics) MarshalBinary() ([]byte, error) {
	buff := make([]byte, 24)
	binary.LittleEndian.PutUint64(buff[0:], math.Float64bits(s.weight))
	binary.LittleEndian.PutUint64(buff[8:], math.Float64bits(s.mean))
	binary.LittleEndian.PutUint64(buff[16:], math.Float64bits(s.m2))
	return buff, nil
}

// UnmarshalBinary restores this OnlineStatistics from serialized data
func (s *OnlineStatistics) UnmarshalBinary(buff []byte) error {
	if len(buff) < 24 {
		return errors.BufferTooSmallError{Expected: 24, Actual: len(buff)}
	}
	s.weight = math.Float64frombits(binary.LittleEndian.Uint64(buff[0:]))
	s.mean = math.Float64frombits(binary.LittleEndian.Uint64(buff[8:]))
	s.m2 = math.Float64frombits(binary.LittleEndian.Uint64(buff[16:]))
	return nil
}
