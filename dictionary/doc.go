// Package dictionary converts a fully merged accumulator into ranked,
// weighted vocabulary entries: plain code entries, ontology-rollup code
// entries, shared-text entries and numeric-bin entries, ordered by a
// binary-entropy informativeness score.
package dictionary
