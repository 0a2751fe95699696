package errors

import (
	"fmt"
)

// InvalidValueKindError occurs when an Event's value kind is outside the
// closed set of known kinds. This is an input-contract violation, so the
// whole batch is aborted rather than the event being skipped.
type InvalidValueKindError struct{ Kind int }

// Error returns a textual representation of this InvalidValueKindError
func (e InvalidValueKindError) Error() string {
	return fmt.Sprintf("Event value kind %d is not a known kind", e.Kind)
}

// EmptyPopulationError occurs when aggregation is configured with a patient
// population of zero, which would make per-event weights undefined
type EmptyPopulationError struct{}

// Error returns a textual representation of this EmptyPopulationError
func (e EmptyPopulationError) Error() string {
	return "Patient population is empty"
}

// MissingOntologyError occurs when aggregation is configured without an
// Ontology
type MissingOntologyError struct{}

// Error returns a textual representation of this MissingOntologyError
func (e MissingOntologyError) Error() string {
	return "No ontology was provided for aggregation"
}

// IncompatibleAccumulatorError occurs when an Accumulator is asked to merge
// an Accumulator of a different type
type IncompatibleAccumulatorError struct{}

// Error returns a textual representation of this IncompatibleAccumulatorError
func (e IncompatibleAccumulatorError) Error() string {
	return "Incoming accumulator is not compatible with this accumulator"
}

// BufferTooSmallError occurs when serialized accumulator data is truncated
type BufferTooSmallError struct {
	Expected int
	Actual   int
}

// Error returns a textual representation of this BufferTooSmallError
func (e BufferTooSmallError) Error() string {
	return fmt.Sprintf("Serialized data is %d bytes but at least %d are required", e.Actual, e.Expected)
}

// NoSuchPatientError occurs when a PatientSource is asked for an index
// outside its population
type NoSuchPatientError struct{ Index int }

// Error returns a textual representation of this NoSuchPatientError
func (e NoSuchPatientError) Error() string {
	return fmt.Sprintf("Patient index %d does not exist in source", e.Index)
}

// MalformedPatientError occurs when a serialized patient record cannot be
// parsed
type MalformedPatientError struct {
	Line   int
	Reason string
}

// Error returns a textual representation of this MalformedPatientError
func (e MalformedPatientError) Error() string {
	return fmt.Sprintf("Malformed patient record on line %d: %s", e.Line, e.Reason)
}
