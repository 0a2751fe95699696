package engine

import (
	"context"
	"log"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/aggregate"
	"github.com/go-ehr/vocab/dictionary"
	"github.com/go-ehr/vocab/logging"
)

// Config configures a reduction run
type Config struct {
	Ontology vocab.Ontology
	Banned   vocab.BannedCodes
	// NumWorkers is the number of partitions the population is sharded
	// into, each owning one accumulator. Defaults to runtime.GOMAXPROCS(0).
	// Worker count affects reservoir contents (not any exact-sum statistic),
	// so runs are reproducible for a fixed worker count.
	NumWorkers int
	// MaxConcurrency bounds how many workers aggregate simultaneously.
	// Defaults to NumWorkers.
	MaxConcurrency int
	// Log receives progress messages. Defaults to a stderr logger.
	Log *log.Logger
}

// Reduce aggregates the given patient population into a single merged
// accumulator. The fold is all-or-nothing: any worker error (including
// context cancellation) discards every partial result.
func Reduce(ctx context.Context, source vocab.PatientSource, cfg Config) (*aggregate.Accumulator, error) {
	numPatients := source.NumPatients()
	baseCfg := aggregate.Config{
		Ontology:    cfg.Ontology,
		Banned:      cfg.Banned,
		NumPatients: numPatients,
	}
	if err := baseCfg.Validate(); err != nil {
		return nil, err
	}

	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > numPatients {
		numWorkers = numPatients
	}
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = numWorkers
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	jobID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	logging.Logf(logger, logging.InfoLevel, "job %s: aggregating %d patients across %d workers", jobID, numPatients, numWorkers)

	// static contiguous shards: patient i belongs to worker i/chunkSize
	chunkSize := (numPatients + numWorkers - 1) / numWorkers
	limit := semaphore.NewWeighted(int64(maxConcurrency))
	accumulators := make([]*aggregate.Accumulator, numWorkers)
	errs := make(chan error, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > numPatients {
			end = numPatients
		}
		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			errs <- runWorker(ctx, source, baseCfg, limit, accumulators, worker, start, end)
		}(w, start, end)
	}
	wg.Wait()
	close(errs)

	var merged *multierror.Error
	for err := range errs {
		merged = multierror.Append(merged, err)
	}
	if err := merged.ErrorOrNil(); err != nil {
		logging.Logf(logger, logging.ErrorLevel, "job %s: aggregation failed: %v", jobID, err)
		return nil, err
	}

	// sequential fold; merge associativity is what would make a pairwise
	// tree fold equally correct
	result := accumulators[0]
	for _, acc := range accumulators[1:] {
		if err := result.Merge(acc); err != nil {
			return nil, err
		}
	}
	logging.Logf(logger, logging.InfoLevel, "job %s: merged %d worker results", jobID, numWorkers)
	return result, nil
}

func runWorker(ctx context.Context, source vocab.PatientSource, baseCfg aggregate.Config, limit *semaphore.Weighted, accumulators []*aggregate.Accumulator, worker, start, end int) error {
	if err := limit.Acquire(ctx, 1); err != nil {
		return err
	}
	defer limit.Release(1)

	cfg := baseCfg
	cfg.Seed = []string{"worker", strconv.Itoa(worker)}
	acc := aggregate.NewAccumulator(cfg)
	accumulators[worker] = acc

	for i := start; i < end; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		p, err := source.Patient(i)
		if err != nil {
			return err
		}
		if err := acc.AddPatient(p); err != nil {
			return err
		}
	}
	return nil
}

// BuildDictionary runs the full pipeline: parallel reduction of the patient
// population followed by entry construction
func BuildDictionary(ctx context.Context, source vocab.PatientSource, cfg Config) (*dictionary.Dictionary, error) {
	acc, err := Reduce(ctx, source, cfg)
	if err != nil {
		return nil, err
	}
	return dictionary.Build(acc, cfg.Ontology), nil
}
