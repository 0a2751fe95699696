package vocab

// A PatientSource provides random access to a finite patient population.
// NumPatients must be known before aggregation begins: it is both the weight
// normalizer and what allows the driver to shard the population statically
// across workers.
type PatientSource interface {
	NumPatients() int
	Patient(i int) (*Patient, error)
}
