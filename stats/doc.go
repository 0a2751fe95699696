// Package stats provides the combinable statistical accumulators underlying
// vocabulary construction: a weight-aware streaming mean/variance and a
// weighted reservoir sampler, plus deterministic seeding for the random
// sources the sampler consumes.
package stats
