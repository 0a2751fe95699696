package aggregate

import (
	"fmt"
	"testing"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/errors"
	"github.com/stretchr/testify/require"
)

// testPopulation builds a deterministic mixed-kind population
func testPopulation(n int) []*vocab.Patient {
	patients := make([]*vocab.Patient, n)
	for i := range patients {
		code := uint32(5 + i%3)
		patients[i] = &vocab.Patient{ID: uint64(i), Events: []vocab.Event{
			{Code: code, Age: float64(20 + i), Kind: vocab.ValueNone},
			{Code: 100, Age: float64(21 + i), Kind: vocab.ValueNumeric, NumericValue: float64(i)},
			{Code: 200, Age: float64(22 + i), Kind: vocab.ValueSharedText, TextValue: fmt.Sprintf("cat-%d", i%4)},
		}}
	}
	return patients
}

func aggregateRange(t *testing.T, patients []*vocab.Patient, numPatients, lo, hi int, seed string) *Accumulator {
	cfg := testConfig(numPatients)
	cfg.Seed = []string{seed}
	acc := NewAccumulator(cfg)
	for _, p := range patients[lo:hi] {
		require.Nil(t, acc.AddPatient(p))
	}
	return acc
}

func requireCountsEqual(t *testing.T, expected, actual *Accumulator) {
	require.Equal(t, len(expected.CodeCounts()), len(actual.CodeCounts()))
	for code, weight := range expected.CodeCounts() {
		require.InDelta(t, weight, actual.CodeCounts()[code], 1e-9)
	}
	require.Equal(t, len(expected.HierarchicalCounts()), len(actual.HierarchicalCounts()))
	for code, weight := range expected.HierarchicalCounts() {
		require.InDelta(t, weight, actual.HierarchicalCounts()[code], 1e-9)
	}
	require.Equal(t, len(expected.TextCounts()), len(actual.TextCounts()))
	for code, texts := range expected.TextCounts() {
		for text, weight := range texts {
			require.InDelta(t, weight, actual.TextCounts()[code][text], 1e-9)
		}
	}
	require.InDelta(t, expected.AgeStats().Mean(), actual.AgeStats().Mean(), 1e-9)
	require.InDelta(t, expected.AgeStats().Stddev(), actual.AgeStats().Stddev(), 1e-9)
}

func TestMergeMatchesSingleWorker(t *testing.T) {
	patients := testPopulation(24)
	whole := aggregateRange(t, patients, 24, 0, 24, "single")

	// split into 4 partitions and fold sequentially
	bounds := []int{0, 6, 12, 18, 24}
	parts := make([]*Accumulator, 4)
	for i := 0; i < 4; i++ {
		parts[i] = aggregateRange(t, patients, 24, bounds[i], bounds[i+1], fmt.Sprintf("worker-%d", i))
	}
	result := parts[0]
	for _, part := range parts[1:] {
		require.Nil(t, result.Merge(part))
	}
	requireCountsEqual(t, whole, result)

	// numeric reservoirs agree exactly on total weight even though
	// membership is probabilistic
	require.InDelta(t,
		whole.NumericSamples()[100].TotalWeight(),
		result.NumericSamples()[100].TotalWeight(), 1e-9)
}

func TestMergeFoldOrderIndependent(t *testing.T) {
	patients := testPopulation(20)
	whole := aggregateRange(t, patients, 20, 0, 20, "single")

	build := func() []*Accumulator {
		return []*Accumulator{
			aggregateRange(t, patients, 20, 0, 5, "w0"),
			aggregateRange(t, patients, 20, 5, 10, "w1"),
			aggregateRange(t, patients, 20, 10, 15, "w2"),
			aggregateRange(t, patients, 20, 15, 20, "w3"),
		}
	}

	// sequential fold
	seq := build()
	for _, part := range seq[1:] {
		require.Nil(t, seq[0].Merge(part))
	}
	requireCountsEqual(t, whole, seq[0])

	// pairwise tree fold in a different order
	tree := build()
	require.Nil(t, tree[2].Merge(tree[3]))
	require.Nil(t, tree[0].Merge(tree[1]))
	require.Nil(t, tree[0].Merge(tree[2]))
	requireCountsEqual(t, whole, tree[0])
	requireCountsEqual(t, seq[0], tree[0])
}

func TestMergeDisjointKeys(t *testing.T) {
	a := NewAccumulator(testConfig(2))
	require.Nil(t, a.AddPatient(&vocab.Patient{Events: []vocab.Event{
		{Code: 5, Age: 10, Kind: vocab.ValueNone},
	}}))
	b := NewAccumulator(testConfig(2))
	require.Nil(t, b.AddPatient(&vocab.Patient{Events: []vocab.Event{
		{Code: 9, Age: 20, Kind: vocab.ValueSharedText, TextValue: "x"},
		{Code: 10, Age: 30, Kind: vocab.ValueNumeric, NumericValue: 7},
	}}))

	require.Nil(t, a.Merge(b))
	require.InDelta(t, 0.5, a.CodeCounts()[5], 1e-12)
	require.InDelta(t, 0.25, a.TextCounts()[9]["x"], 1e-12)
	require.NotNil(t, a.NumericSamples()[10])
	require.InDelta(t, 0.25, a.NumericSamples()[10].TotalWeight(), 1e-12)
}

func TestMergeIncompatibleAccumulator(t *testing.T) {
	acc := NewAccumulator(testConfig(1))
	require.Equal(t, errors.IncompatibleAccumulatorError{}, acc.Merge(otherAccumulator{}))
}

// otherAccumulator is a vocab.Accumulator of a foreign type
type otherAccumulator struct{}

func (otherAccumulator) AddPatient(p *vocab.Patient) error { return nil }
func (otherAccumulator) Merge(o vocab.Accumulator) error   { return nil }
func (otherAccumulator) ToBytes() ([]byte, error)          { return nil, nil }
func (otherAccumulator) FromBytes(buf []byte) (vocab.Accumulator, error) {
	return otherAccumulator{}, nil
}

func TestAccumulatorBytesRoundTrip(t *testing.T) {
	patients := testPopulation(8)
	acc := aggregateRange(t, patients, 8, 0, 8, "codec")

	buff, err := acc.ToBytes()
	require.Nil(t, err)

	restored, err := NewAccumulator(testConfig(8)).FromBytes(buff)
	require.Nil(t, err)
	requireCountsEqual(t, acc, restored.(*Accumulator))
	require.Equal(t,
		acc.NumericSamples()[100].Samples(),
		restored.(*Accumulator).NumericSamples()[100].Samples())
}
