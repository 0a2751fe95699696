package dictionary

import (
	"encoding/json"
	"fmt"
	"math"
)

// EntryKind describes the kind of a dictionary Entry
type EntryKind int

const (
	// CodeEntry is an entry for a bare clinical code
	CodeEntry EntryKind = iota
	// TextEntry is an entry for a (code, shared text value) pair
	TextEntry
	// NumericEntry is an entry for a numeric value bin of a code
	NumericEntry
)

// String returns the wire name of this EntryKind
func (k EntryKind) String() string {
	switch k {
	case TextEntry:
		return "text"
	case NumericEntry:
		return "numeric"
	default:
		return "code"
	}
}

// An Entry is one ranked, weighted vocabulary item. TextValue is meaningful
// only for TextEntry, and the [ValStart, ValEnd) bounds only for
// NumericEntry. Weight is the informativeness score used for ranking, not a
// raw frequency. Entries are immutable once built.
type Entry struct {
	Kind      EntryKind
	Code      uint32
	TextValue string
	ValStart  float64
	ValEnd    float64
	Weight    float64
}

// Less defines the total order entries are sorted by: weight ascending (both
// entropy scores are negative, so the most informative entries sort first),
// then kind, code, text value, and bin bounds as tie-breakers
func (e *Entry) Less(o *Entry) bool {
	if e.Weight != o.Weight {
		return e.Weight < o.Weight
	}
	if e.Kind != o.Kind {
		return e.Kind < o.Kind
	}
	if e.Code != o.Code {
		return e.Code < o.Code
	}
	if e.TextValue != o.TextValue {
		return e.TextValue < o.TextValue
	}
	if e.ValStart != o.ValStart {
		return e.ValStart < o.ValStart
	}
	return e.ValEnd < o.ValEnd
}

// wireEntry is the JSON form of an Entry. Bin bounds are boundFloats so the
// infinite outer bounds of numeric entries survive JSON, which has no
// representation for infinity.
type wireEntry struct {
	Kind      string      `json:"kind"`
	Code      uint32      `json:"code"`
	Weight    float64     `json:"weight"`
	TextValue *string     `json:"text_value,omitempty"`
	ValStart  *boundFloat `json:"val_start,omitempty"`
	ValEnd    *boundFloat `json:"val_end,omitempty"`
}

// boundFloat is a float64 which encodes ±infinity as the JSON strings "-inf"
// and "+inf"
type boundFloat float64

// MarshalJSON serializes this boundFloat
func (b boundFloat) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(b), -1) {
		return []byte(`"-inf"`), nil
	}
	if math.IsInf(float64(b), 1) {
		return []byte(`"+inf"`), nil
	}
	return json.Marshal(float64(b))
}

// UnmarshalJSON restores this boundFloat from either a number or an infinity
// string
func (b *boundFloat) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"-inf"`:
		*b = boundFloat(math.Inf(-1))
		return nil
	case `"+inf"`:
		*b = boundFloat(math.Inf(1))
		return nil
	}
	return json.Unmarshal(data, (*float64)(b))
}

// MarshalJSON serializes this Entry, emitting only the fields meaningful for
// its kind
func (e Entry) MarshalJSON() ([]byte, error) {
	wire := wireEntry{
		Kind:   e.Kind.String(),
		Code:   e.Code,
		Weight: e.Weight,
	}
	switch e.Kind {
	case TextEntry:
		wire.TextValue = &e.TextValue
	case NumericEntry:
		start := boundFloat(e.ValStart)
		end := boundFloat(e.ValEnd)
		wire.ValStart = &start
		wire.ValEnd = &end
	}
	return json.Marshal(wire)
}

// UnmarshalJSON restores this Entry from its wire form
func (e *Entry) UnmarshalJSON(data []byte) error {
	var wire wireEntry
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Kind {
	case "code":
		e.Kind = CodeEntry
	case "text":
		e.Kind = TextEntry
	case "numeric":
		e.Kind = NumericEntry
	default:
		return fmt.Errorf("unknown entry kind %q", wire.Kind)
	}
	e.Code = wire.Code
	e.Weight = wire.Weight
	if wire.TextValue != nil {
		e.TextValue = *wire.TextValue
	}
	if wire.ValStart != nil {
		e.ValStart = float64(*wire.ValStart)
	}
	if wire.ValEnd != nil {
		e.ValEnd = float64(*wire.ValEnd)
	}
	return nil
}

// AgeStats is the weighted age distribution of the aggregated population
type AgeStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// A Dictionary is the final output of the pipeline: the flat and
// ontology-rollup entry lists, each sorted by Entry.Less, plus the population
// age statistics. Never mutated after construction.
type Dictionary struct {
	Regular        []Entry  `json:"regular"`
	OntologyRollup []Entry  `json:"ontology_rollup"`
	AgeStats       AgeStats `json:"age_stats"`
}
