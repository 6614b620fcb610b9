package driven

import (
	"context"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// Task pairs a chunk with the command that searches it.
type Task struct {
	Chunk   domain.Chunk
	Command CommandSpec
}

// Executor runs one search task per chunk and drives every task to a
// terminal state. Implementations: a bounded local worker pool, and a
// SLURM adapter submitting one job per chunk.
//
// A chunk's search failure is recorded in its JobDescriptor and must
// not abort sibling tasks. The returned error is reserved for
// infrastructure failure (submission failure, context cancellation),
// which halts the whole batch.
type Executor interface {
	Execute(ctx context.Context, tasks []Task) ([]domain.JobDescriptor, error)
}
