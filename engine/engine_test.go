package engine

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/aggregate"
	"github.com/go-ehr/vocab/datasource/memory"
	"github.com/go-ehr/vocab/dictionary"
	"github.com/go-ehr/vocab/errors"
)

func testOntology() vocab.Ontology {
	return vocab.CreateOntology(map[uint32][]uint32{6: {5}, 7: {6}})
}

func testPatients(n int) []*vocab.Patient {
	patients := make([]*vocab.Patient, n)
	for i := range patients {
		patients[i] = &vocab.Patient{ID: uint64(i), Events: []vocab.Event{
			{Code: uint32(5 + i%3), Age: float64(30 + i), Kind: vocab.ValueNone},
			{Code: 100, Age: float64(31 + i), Kind: vocab.ValueNumeric, NumericValue: float64(i)},
			{Code: 200, Age: float64(32 + i), Kind: vocab.ValueSharedText, TextValue: fmt.Sprintf("t%d", i%2)},
		}}
	}
	return patients
}

func quietConfig() Config {
	return Config{
		Ontology: testOntology(),
		Log:      log.New(ioutil.Discard, "", 0),
	}
}

func TestReduceMatchesSingleWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	patients := testPatients(30)
	source := memory.CreateSource(patients)

	cfg := quietConfig()
	cfg.NumWorkers = 4
	result, err := Reduce(context.Background(), source, cfg)
	require.Nil(t, err)

	whole := aggregate.NewAccumulator(aggregate.Config{
		Ontology:    cfg.Ontology,
		NumPatients: len(patients),
		Seed:        []string{"reference"},
	})
	for _, p := range patients {
		require.Nil(t, whole.AddPatient(p))
	}

	for code, weight := range whole.CodeCounts() {
		require.InDelta(t, weight, result.CodeCounts()[code], 1e-9)
	}
	for code, weight := range whole.HierarchicalCounts() {
		require.InDelta(t, weight, result.HierarchicalCounts()[code], 1e-9)
	}
	require.InDelta(t, whole.AgeStats().Mean(), result.AgeStats().Mean(), 1e-9)
	require.InDelta(t, whole.AgeStats().Stddev(), result.AgeStats().Stddev(), 1e-9)
	require.InDelta(t,
		whole.NumericSamples()[100].TotalWeight(),
		result.NumericSamples()[100].TotalWeight(), 1e-9)
}

func TestReduceMoreWorkersThanPatients(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := memory.CreateSource(testPatients(3))
	cfg := quietConfig()
	cfg.NumWorkers = 16
	result, err := Reduce(context.Background(), source, cfg)
	require.Nil(t, err)
	require.InDelta(t, 1.0, result.AgeStats().TotalWeight(), 1e-9)
}

func TestReduceBoundedConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := memory.CreateSource(testPatients(20))
	cfg := quietConfig()
	cfg.NumWorkers = 8
	cfg.MaxConcurrency = 2
	result, err := Reduce(context.Background(), source, cfg)
	require.Nil(t, err)
	require.InDelta(t, 1.0, result.AgeStats().TotalWeight(), 1e-9)
}

func TestReduceEmptyPopulation(t *testing.T) {
	source := memory.CreateSource(nil)
	_, err := Reduce(context.Background(), source, quietConfig())
	require.Equal(t, errors.EmptyPopulationError{}, err)
}

func TestReduceCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := memory.CreateSource(testPatients(100))
	cfg := quietConfig()
	cfg.NumWorkers = 4
	result, err := Reduce(ctx, source, cfg)
	require.NotNil(t, err)
	require.Nil(t, result)
}

func TestReduceWorkerErrorDiscardsBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	patients := testPatients(10)
	patients[7].Events[0].Kind = vocab.ValueKind(42)
	source := memory.CreateSource(patients)

	cfg := quietConfig()
	cfg.NumWorkers = 4
	result, err := Reduce(context.Background(), source, cfg)
	require.NotNil(t, err)
	require.Nil(t, result)
	require.Contains(t, err.Error(), "not a known kind")
}

func TestReduceDeterministicForFixedWorkerCount(t *testing.T) {
	defer goleak.VerifyNone(t)

	run := func() *dictionary.Dictionary {
		cfg := quietConfig()
		cfg.NumWorkers = 3
		dict, err := BuildDictionary(context.Background(), memory.CreateSource(testPatients(40)), cfg)
		require.Nil(t, err)
		return dict
	}
	require.Equal(t, run(), run())
}

func TestBuildDictionary(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := quietConfig()
	cfg.NumWorkers = 2
	cfg.Banned = vocab.BannedCodes{200: {}}
	dict, err := BuildDictionary(context.Background(), memory.CreateSource(testPatients(12)), cfg)
	require.Nil(t, err)

	require.NotEmpty(t, dict.Regular)
	require.NotEmpty(t, dict.OntologyRollup)
	require.True(t, dict.AgeStats.Mean > 0)

	// both lists are sorted and reference no banned code
	for _, entries := range [][]dictionary.Entry{dict.Regular, dict.OntologyRollup} {
		for i, entry := range entries {
			require.NotEqual(t, uint32(200), entry.Code)
			if i > 0 {
				require.False(t, entry.Less(&entries[i-1]))
			}
		}
	}
}
