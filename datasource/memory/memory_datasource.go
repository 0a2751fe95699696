// Package memory provides a PatientSource over an in-memory patient slice
package memory

import (
	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/errors"
)

// Source is a patient population held in memory
type Source struct {
	patients []*vocab.Patient
}

// CreateSource is a factory for memory Sources
func CreateSource(patients []*vocab.Patient) *Source {
	return &Source{patients: patients}
}

// NumPatients returns the size of this population
func (s *Source) NumPatients() int {
	return len(s.patients)
}

// Patient returns the i-th patient of this population
func (s *Source) Patient(i int) (*vocab.Patient, error) {
	if i < 0 || i >= len(s.patients) {
		return nil, errors.NoSuchPatientError{Index: i}
	}
	return s.patients[i], nil
}
