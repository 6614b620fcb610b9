package driven

import (
	"context"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

// SearchBackend translates the common SearchOptions into one concrete
// tool's command line. One implementation exists per supported tool
// (BLAST+, VSEARCH, HMMER).
type SearchBackend interface {
	// Name is the backend's short name, matching domain.Algorithm.
	Name() string

	// BuildCommand returns the subprocess invocation that searches
	// queryPath against dbPath and writes results to outPath.
	BuildCommand(queryPath, dbPath, outPath string, opts domain.SearchOptions) (CommandSpec, error)

	// EnsureIndex prepares the reference database for searching,
	// building index files (e.g. via makeblastdb) when absent.
	EnsureIndex(ctx context.Context, dbPath string, dbType domain.SequenceType) error
}
