package aggregate

import (
	"math/rand"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/errors"
	"github.com/go-ehr/vocab/stats"
)

// Config describes the shared, read-only inputs of an aggregation run
type Config struct {
	Ontology    vocab.Ontology
	Banned      vocab.BannedCodes
	NumPatients int
	// Seed parts for this accumulator's random source. Each worker must use
	// a distinct, stable identity so reservoir contents are reproducible
	// across runs.
	Seed []string
}

// Validate returns an error if this Config cannot support aggregation
func (c *Config) Validate() error {
	if c.NumPatients <= 0 {
		return errors.EmptyPopulationError{}
	}
	if c.Ontology == nil {
		return errors.MissingOntologyError{}
	}
	return nil
}

// Accumulator folds patient timelines into the weighted statistics a
// vocabulary is built from: code frequencies, hierarchical (ancestor-rolled)
// frequencies, shared-text frequencies, reservoir samples of numeric values,
// and age statistics. An Accumulator is owned by a single worker until it is
// handed to Merge, and performs no synchronization of its own.
type Accumulator struct {
	cfg                Config
	ageStats           stats.OnlineStatistics
	codeCounts         map[uint32]float64
	hierarchicalCounts map[uint32]float64
	textCounts         map[uint32]map[string]float64
	numericSamples     map[uint32]*stats.ReservoirSampler
	rng                *rand.Rand
}

// NewAccumulator creates an empty Accumulator for the given run configuration
func NewAccumulator(cfg Config) *Accumulator {
	return &Accumulator{
		cfg:                cfg,
		codeCounts:         make(map[uint32]float64),
		hierarchicalCounts: make(map[uint32]float64),
		textCounts:         make(map[uint32]map[string]float64),
		numericSamples:     make(map[uint32]*stats.ReservoirSampler),
		rng:                stats.NewRand(cfg.Seed...),
	}
}

// AddPatient folds one patient's events into this Accumulator. Every
// contributing event carries the weight 1/(population * event count), so each
// patient's total contribution across its contributing events is
// 1/population. Banned-code and unique-text events contribute nothing at all.
// An event whose value kind is outside the closed set aborts the batch with
// an InvalidValueKindError.
func (a *Accumulator) AddPatient(p *vocab.Patient) error {
	if len(p.Events) == 0 {
		return nil
	}
	weight := 1.0 / (float64(a.cfg.NumPatients) * float64(len(p.Events)))

	for i := range p.Events {
		event := &p.Events[i]
		if a.cfg.Banned.Has(event.Code) {
			continue
		}
		if event.Kind == vocab.ValueUniqueText {
			continue
		}

		a.ageStats.Add(weight, event.Age)

		switch event.Kind {
		case vocab.ValueNone:
			for _, ancestor := range a.cfg.Ontology.AllParents(event.Code) {
				// a banned ancestor stays out of the counts entirely, so no
				// banned code can ever surface as a dictionary entry
				if a.cfg.Banned.Has(ancestor) {
					continue
				}
				a.hierarchicalCounts[ancestor] += weight
			}
			a.codeCounts[event.Code] += weight
		case vocab.ValueNumeric:
			sampler := a.numericSamples[event.Code]
			if sampler == nil {
				sampler = stats.NewReservoirSampler(stats.DefaultReservoirCapacity)
				a.numericSamples[event.Code] = sampler
			}
			sampler.Add(event.NumericValue, weight, a.rng)
		case vocab.ValueSharedText:
			texts := a.textCounts[event.Code]
			if texts == nil {
				texts = make(map[string]float64)
				a.textCounts[event.Code] = texts
			}
			texts[event.TextValue] += weight
		default:
			return errors.InvalidValueKindError{Kind: int(event.Kind)}
		}
	}
	return nil
}

// Merge merges another Accumulator into this one. The incoming Accumulator is
// consumed and must not be used afterwards. Merging is associative and
// commutative for all exact-sum fields; reservoir contents are only
// order-independent in distribution.
func (a *Accumulator) Merge(o vocab.Accumulator) error {
	incoming, ok := o.(*Accumulator)
	if !ok {
		return errors.IncompatibleAccumulatorError{}
	}

	a.ageStats.Combine(&incoming.ageStats)

	for code, weight := range incoming.codeCounts {
		a.codeCounts[code] += weight
	}
	for code, weight := range incoming.hierarchicalCounts {
		a.hierarchicalCounts[code] += weight
	}
	for code, texts := range incoming.textCounts {
		target := a.textCounts[code]
		if target == nil {
			target = make(map[string]float64, len(texts))
			a.textCounts[code] = target
		}
		for text, weight := range texts {
			target[text] += weight
		}
	}
	for code, sampler := range incoming.numericSamples {
		target := a.numericSamples[code]
		if target == nil {
			target = stats.NewReservoirSampler(stats.DefaultReservoirCapacity)
			a.numericSamples[code] = target
		}
		target.Combine(sampler, a.rng)
	}
	return nil
}

// AgeStats returns the accumulated weighted age statistics
func (a *Accumulator) AgeStats() *stats.OnlineStatistics {
	return &a.ageStats
}

// CodeCounts returns the accumulated weight per code for valueless events
func (a *Accumulator) CodeCounts() map[uint32]float64 {
	return a.codeCounts
}

// HierarchicalCounts returns the accumulated weight per code with every
// valueless event also counted toward all of the code's ancestors
func (a *Accumulator) HierarchicalCounts() map[uint32]float64 {
	return a.hierarchicalCounts
}

// TextCounts returns the accumulated weight per (code, shared text value) pair
func (a *Accumulator) TextCounts() map[uint32]map[string]float64 {
	return a.textCounts
}

// NumericSamples returns the reservoir of numeric values per code
func (a *Accumulator) NumericSamples() map[uint32]*stats.ReservoirSampler {
	return a.numericSamples
}
