package dictionary

import (
	"math"
	"sort"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/aggregate"
)

// numericBins is the nominal number of value bins derived per numeric code.
// The bin frequency divisor stays at this value even when degenerate bins are
// dropped.
const numericBins = 10

// entropyScore computes the binary entropy score p*ln(p) + (1-p)*ln(1-p) for
// p in (0,1). It is symmetric around 0.5 and most negative near the extremes,
// which makes rarer (and near-universal) items rank as more informative.
// Outside (0,1) the expression is undefined, so degenerate frequencies score
// 0, the continuous limit: an item seen with probability exactly 1 is the
// least informative entry possible, not an absent one.
func entropyScore(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return p*math.Log(p) + (1-p)*math.Log(1-p)
}

// Build converts a fully merged accumulator into a Dictionary. The
// accumulator is consumed: it must not be mutated afterwards, and the
// ontology must be the one aggregation ran with.
func Build(acc *aggregate.Accumulator, ontology vocab.Ontology) *Dictionary {
	// both lists start non-nil so a degenerate population still serializes
	// its entry lists as empty arrays rather than null
	dict := &Dictionary{
		Regular:        []Entry{},
		OntologyRollup: []Entry{},
		AgeStats: AgeStats{
			Mean: acc.AgeStats().Mean(),
			Std:  acc.AgeStats().Stddev(),
		},
	}

	// plain code entries, scored by their own frequency
	for code, p := range acc.CodeCounts() {
		dict.Regular = append(dict.Regular, Entry{
			Kind:   CodeEntry,
			Code:   code,
			Weight: entropyScore(p),
		})
	}

	// rollup code entries: a code's frequency is normalized against its
	// rarest ancestor, discounting rarity already explained by the hierarchy
	hierarchical := acc.HierarchicalCounts()
	for code, observed := range hierarchical {
		baseline := 1.0
		for _, parent := range ontology.Parents(code) {
			if weight, ok := hierarchical[parent]; ok && weight < baseline {
				baseline = weight
			}
		}
		dict.OntologyRollup = append(dict.OntologyRollup, Entry{
			Kind:   CodeEntry,
			Code:   code,
			Weight: baseline * entropyScore(observed/baseline),
		})
	}

	// text entries are identical in both lists
	for code, texts := range acc.TextCounts() {
		for text, p := range texts {
			entry := Entry{
				Kind:      TextEntry,
				Code:      code,
				TextValue: text,
				Weight:    entropyScore(p),
			}
			dict.Regular = append(dict.Regular, entry)
			dict.OntologyRollup = append(dict.OntologyRollup, entry)
		}
	}

	// numeric entries: contiguous value bins cut from the sorted reservoir
	// sample, identical in both lists
	for code, sampler := range acc.NumericSamples() {
		for _, entry := range binEntries(code, sampler.Samples(), sampler.TotalWeight()) {
			dict.Regular = append(dict.Regular, entry)
			dict.OntologyRollup = append(dict.OntologyRollup, entry)
		}
	}

	sortEntries(dict.Regular)
	sortEntries(dict.OntologyRollup)
	return dict
}

// binEntries partitions a code's retained numeric samples into up to
// numericBins contiguous bins. The first bin is open below and the last open
// above; interior boundaries are sample values at the partition cuts.
// Zero-width bins are dropped. Every bin carries the same frequency,
// totalWeight spread uniformly over the nominal bin count regardless of how
// many bins survive.
func binEntries(code uint32, samples []float64, totalWeight float64) []Entry {
	if len(samples) == 0 {
		return nil
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	weight := entropyScore(totalWeight / numericBins)
	samplesPerBin := (len(sorted) + numericBins) / (numericBins + 1)

	var entries []Entry
	for bin := 0; bin < numericBins; bin++ {
		start := math.Inf(-1)
		if bin > 0 {
			cut := bin * samplesPerBin
			if cut >= len(sorted) {
				break
			}
			start = sorted[cut]
		}
		end := math.Inf(1)
		if bin < numericBins-1 {
			if cut := (bin + 1) * samplesPerBin; cut < len(sorted) {
				end = sorted[cut]
			}
		}
		if start == end {
			continue
		}
		entries = append(entries, Entry{
			Kind:     NumericEntry,
			Code:     code,
			ValStart: start,
			ValEnd:   end,
			Weight:   weight,
		})
	}
	return entries
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Less(&entries[j])
	})
}
