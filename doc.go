// Package vocab contains the core components of Vocab, a library for building
// statistical vocabularies from populations of patient event timelines. This
// root package defines the event and patient data model, the ontology and
// patient source contracts, and the accumulator interface which the aggregation
// pipeline is built around, and is an excellent overview of Vocab's key concepts.
package vocab
