// Package engine implements the parallel reduction driver: it shards a
// patient population across workers, each of which owns an accumulator and a
// deterministic random source, then folds all worker results into a single
// accumulator. Every patient is processed by exactly one worker exactly once,
// and any worker failure discards the whole batch.
package engine
