// Package aggregate implements the vocabulary accumulator: per-patient
// ingestion of weighted event statistics, and the associative merge which
// folds independently accumulated worker results into one.
package aggregate
