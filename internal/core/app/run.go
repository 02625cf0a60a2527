package app

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"apidrift/internal/core/errors"
	"apidrift/internal/core/ports"
	"apidrift/internal/findings"
	"apidrift/internal/shared/observability"
)

// RunOnce compares every changed file pair and returns the run record with
// its findings. Findings keep pair order so output is deterministic
// regardless of worker scheduling.
func (a *App) RunOnce(ctx context.Context) (ports.RunRecord, []findings.Finding, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunOnce", trace.WithAttributes())
	defer span.End()

	start := time.Now()
	run := ports.RunRecord{
		ID:        uuid.NewString(),
		StartedAt: start.UTC(),
	}
	if a.Baseline != nil {
		run.BaseRev = a.Baseline.BaseRev
		run.HeadRev = a.Baseline.HeadRev
	}

	filePairs, err := a.Source.Pairs(ctx)
	if err != nil {
		return run, nil, errors.AddContext(err, errors.CtxOperation, "collect_pairs")
	}
	run.FilesScanned = len(filePairs)

	perPair := make([][]findings.Finding, len(filePairs))

	workers := runtime.NumCPU()
	if workers > len(filePairs) {
		workers = len(filePairs)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perPair[i] = a.ComparePair(ctx, filePairs[i])
			}
		}()
	}
	for i := range filePairs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var results []findings.Finding
	for _, batch := range perPair {
		results = append(results, batch...)
	}
	run.FindingCount = len(results)
	observability.RunDuration.Observe(time.Since(start).Seconds())

	if a.Store != nil {
		if err := a.Store.SaveRun(ctx, run, results); err != nil {
			return run, results, errors.AddContext(err, errors.CtxOperation, "save_run")
		}
	}

	return run, results, nil
}
