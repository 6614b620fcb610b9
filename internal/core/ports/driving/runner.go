package driving

import (
	"context"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// RunRequest describes one chunked search run.
type RunRequest struct {
	// InputPath is the query FASTA file ("-" for stdin is not
	// supported here; the CLI resolves that before calling).
	InputPath string

	// Database is either a filesystem path or a registry name that
	// the database provider resolves.
	Database string

	// OutputPath is where the merged result is written. Empty
	// derives "<input>.<algorithm>out" next to the input, matching
	// the single-search convention.
	OutputPath string

	Options domain.SearchOptions
	Split   domain.SplitSpec

	// Mode picks local pool or SLURM execution.
	Mode domain.ExecMode

	// Parallelism bounds concurrent local subprocesses and is the
	// default chunk count when Split sets no target.
	Parallelism int

	// WorkDir overrides where the run's temporary directory is
	// created. Empty uses the system temp dir.
	WorkDir string

	// KeepWorkDir preserves chunk files even on success.
	KeepWorkDir bool
}

// RunReport is the user-visible outcome of a run. A report is always
// produced for a completed run, listing every chunk's terminal state;
// failed chunks appear in Failed and are never silently dropped.
type RunReport struct {
	Manifest domain.RunManifest

	// Failed holds the indices of failed chunks, in order.
	Failed []int

	// ManifestPath is the on-disk failure manifest, set only when
	// chunks failed and their files were retained.
	ManifestPath string
}

// SearchRunner is the chunked search use case: split, search every
// chunk, merge in order, report per-chunk outcomes.
type SearchRunner interface {
	Run(ctx context.Context, req RunRequest) (*RunReport, error)
}
