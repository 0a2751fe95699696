package vocab

// ValueKind describes the kind of value attached to an Event, used to control
// which statistic an event contributes to during aggregation
type ValueKind int

const (
	// ValueNone indicates that an Event carries no value beyond its code
	ValueNone ValueKind = iota
	// ValueNumeric indicates that an Event carries a numeric measurement
	ValueNumeric
	// ValueSharedText indicates that an Event carries a textual value drawn
	// from a finite set shared across patients (e.g. a categorical result)
	ValueSharedText
	// ValueUniqueText indicates that an Event carries per-patient-unique free
	// text, which carries no statistical signal across patients and is
	// excluded from all aggregation
	ValueUniqueText
)

// IsValid returns true iff this ValueKind is a member of the closed set of
// known kinds
func (k ValueKind) IsValid() bool {
	return k >= ValueNone && k <= ValueUniqueText
}

// An Event is a single entry in a patient timeline: a clinical code observed
// at a patient-relative age, optionally carrying a numeric or textual value.
// NumericValue is meaningful only when Kind is ValueNumeric, and TextValue
// only when Kind is ValueSharedText or ValueUniqueText.
type Event struct {
	Code         uint32
	Age          float64
	Kind         ValueKind
	NumericValue float64
	TextValue    string
}

// A Patient is an ordered sequence of Events belonging to one individual
type Patient struct {
	ID     uint64
	Events []Event
}
