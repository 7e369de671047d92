package sniff

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vertti/fqsniff/internal/format"
)

// Result is the outcome for one input of a batch.
type Result struct {
	Path   string
	Status *format.Status
	Err    error
}

// sniffJob is one path to classify.
type sniffJob struct {
	seqNum int
	path   string
}

// sniffResult is a classified path tagged with its position in the batch.
type sniffResult struct {
	seqNum int
	result Result
}

// Files classifies several inputs in parallel and hands each result to
// emit in input order. Per-input failures travel in Result.Err; the batch
// stops early only when ctx is cancelled or emit returns an error.
func Files(ctx context.Context, paths []string, opts Options, emit func(Result) error) error {
	opts = opts.withDefaults()
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers > len(paths) {
		opts.Workers = max(len(paths), 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan sniffJob, opts.Workers*2)
	results := make(chan sniffResult, opts.Workers*2)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < opts.Workers; i++ {
		g.Go(func() error {
			return runSniffWorker(gctx, jobs, results, opts)
		})
	}

	g.Go(func() error {
		defer close(jobs)
		return produceSniffJobs(gctx, jobs, paths)
	})

	var collectorErr error
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		collectorErr = collectResults(results, func(r Result) error {
			if err := emit(r); err != nil {
				cancel()
				return err
			}
			return nil
		})
	}()

	workerErr := g.Wait()
	close(results)

	<-collectorDone

	if collectorErr != nil {
		return collectorErr
	}
	return workerErr
}

func runSniffWorker(ctx context.Context, jobs <-chan sniffJob, results chan<- sniffResult, opts Options) error {
	for job := range jobs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		status, err := File(job.path, opts)
		select {
		case results <- sniffResult{seqNum: job.seqNum, result: Result{Path: job.path, Status: status, Err: err}}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func produceSniffJobs(ctx context.Context, jobs chan<- sniffJob, paths []string) error {
	for i, path := range paths {
		select {
		case jobs <- sniffJob{seqNum: i, path: path}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// collectResults emits results in sequence order. After an emit error it
// keeps draining so workers never block on a full channel.
func collectResults(results <-chan sniffResult, emit func(Result) error) error {
	pending := make(map[int]Result)
	nextSeqNum := 0
	var emitErr error

	for r := range results {
		if emitErr != nil {
			continue
		}

		pending[r.seqNum] = r.result

		for {
			res, ok := pending[nextSeqNum]
			if !ok {
				break
			}
			delete(pending, nextSeqNum)
			nextSeqNum++
			if err := emit(res); err != nil {
				emitErr = err
				break
			}
		}
	}

	return emitErr
}
