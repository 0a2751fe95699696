package aggregate

import (
	"bytes"
	"encoding/gob"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/stats"
)

// snapshot is the wire form of an Accumulator, used when worker results are
// handed between processes rather than merged in-memory
type snapshot struct {
	AgeStats           stats.OnlineStatistics
	CodeCounts         map[uint32]float64
	HierarchicalCounts map[uint32]float64
	TextCounts         map[uint32]map[string]float64
	NumericSamples     map[uint32]*stats.ReservoirSampler
}

// ToBytes serializes this Accumulator
func (a *Accumulator) ToBytes() ([]byte, error) {
	var buff bytes.Buffer
	err := gob.NewEncoder(&buff).Encode(snapshot{
		AgeStats:           a.ageStats,
		CodeCounts:         a.codeCounts,
		HierarchicalCounts: a.hierarchicalCounts,
		TextCounts:         a.textCounts,
		NumericSamples:     a.numericSamples,
	})
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// FromBytes produces a new Accumulator from serialized data, adopting this
// Accumulator's configuration and random source identity
func (a *Accumulator) FromBytes(buff []byte) (vocab.Accumulator, error) {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(buff)).Decode(&snap); err != nil {
		return nil, err
	}
	restored := NewAccumulator(a.cfg)
	restored.ageStats = snap.AgeStats
	if snap.CodeCounts != nil {
		restored.codeCounts = snap.CodeCounts
	}
	if snap.HierarchicalCounts != nil {
		restored.hierarchicalCounts = snap.HierarchicalCounts
	}
	if snap.TextCounts != nil {
		restored.textCounts = snap.TextCounts
	}
	if snap.NumericSamples != nil {
		restored.numericSamples = snap.NumericSamples
	}
	return restored, nil
}
