package exec

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Ensure LocalExecutor implements the interface.
var _ driven.Executor = (*LocalExecutor)(nil)

// LocalExecutor runs search subprocesses in a bounded worker pool: at
// most Parallelism processes exist at any instant. Chunks are
// independent, so workers share nothing but the task channel and write
// their descriptors to distinct slots.
type LocalExecutor struct {
	// Runner launches the subprocesses.
	Runner driven.CommandRunner

	// Parallelism bounds concurrent subprocesses. Values below 1
	// default to the CPU count, capped at 32.
	Parallelism int

	// Timeout bounds each chunk's subprocess. Zero means no timeout,
	// which is the default.
	Timeout time.Duration
}

// NewLocalExecutor creates a local pool executor.
func NewLocalExecutor(runner driven.CommandRunner, parallelism int) *LocalExecutor {
	return &LocalExecutor{Runner: runner, Parallelism: parallelism}
}

// Execute drives every task to a terminal state. A chunk's failure is
// recorded in its descriptor and never aborts siblings; the returned
// error is reserved for cancellation.
func (e *LocalExecutor) Execute(ctx context.Context, tasks []driven.Task) ([]domain.JobDescriptor, error) {
	workers := e.Parallelism
	if workers < 1 {
		workers = runtime.NumCPU()
		if workers > 32 {
			workers = 32
		}
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	descs := make([]domain.JobDescriptor, len(tasks))
	for i, task := range tasks {
		descs[i] = domain.JobDescriptor{Chunk: task.Chunk, State: domain.JobPending}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				e.runOne(ctx, tasks[idx], &descs[idx])
			}
		}()
	}

feed:
	for i := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return descs, nil
}

func (e *LocalExecutor) runOne(ctx context.Context, task driven.Task, jd *domain.JobDescriptor) {
	if ctx.Err() != nil {
		return
	}
	jd.State = domain.JobRunning
	start := time.Now()

	runCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	err := e.Runner.Run(runCtx, task.Command, task.Chunk.StdoutPath, task.Chunk.StderrPath)
	jd.Duration = time.Since(start)
	finish(jd, err)
	if jd.State == domain.JobFailed {
		logger.Warn("chunk %d failed: %s", jd.Chunk.Index, jd.Error)
	} else {
		logger.Debug("chunk %d done in %s", jd.Chunk.Index, jd.Duration)
	}
}
