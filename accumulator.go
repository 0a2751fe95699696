package vocab

// An Accumulator siphons weighted statistics from patient timelines into a
// custom data structure. Aggregation is performed locally on all workers, each
// of which owns its Accumulator exclusively, then worker results are merged
// into a single Accumulator by the driver. Merge consumes the incoming
// Accumulator, which must not be used afterwards.
type Accumulator interface {
	AddPatient(p *Patient) error               // AddPatient folds one patient's events into this Accumulator
	Merge(o Accumulator) error                 // Merge merges another Accumulator into this one, consuming it
	ToBytes() ([]byte, error)                  // ToBytes serializes this Accumulator
	FromBytes(buf []byte) (Accumulator, error) // FromBytes produces a new Accumulator from serialized data
}
