package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates the input FASTA contains no records.
	// Fatal to the whole run.
	ErrEmptyInput = errors.New("input contains no sequences")

	// ErrInvalidSplit indicates an impossible split request, e.g. more
	// chunks than records under the strict policy, or more than one
	// split target set. Fatal to the whole run.
	ErrInvalidSplit = errors.New("invalid split request")

	// ErrUnsupportedAlgorithm indicates an unknown search algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrMissingOutput indicates a search subprocess exited cleanly
	// but its expected output file is missing or empty.
	ErrMissingOutput = errors.New("search produced no output file")

	// ErrSubmission indicates job submission itself failed. Unlike a
	// per-chunk search failure this halts the whole batch.
	ErrSubmission = errors.New("job submission failed")

	// ErrNoSuccessfulChunks indicates every chunk failed, leaving
	// nothing to merge.
	ErrNoSuccessfulChunks = errors.New("no successful chunks to merge")

	// ErrDatabaseUnknown indicates a reference database name that is
	// not in the registry.
	ErrDatabaseUnknown = errors.New("unknown reference database")
)

// SearchError is a per-chunk search failure: non-zero exit, missing
// output, or a failed scheduler job. It is isolated to its chunk and
// reported in the run's failure summary.
type SearchError struct {
	// ChunkIndex identifies the failed chunk.
	ChunkIndex int

	// ExitCode is the subprocess exit status, -1 when unknown.
	ExitCode int

	// StderrTail carries the end of the tool's captured stderr.
	StderrTail string

	// Err is the underlying cause.
	Err error
}

func (e *SearchError) Error() string {
	if e.StderrTail != "" {
		return fmt.Sprintf("chunk %d: %v: %s", e.ChunkIndex, e.Err, e.StderrTail)
	}
	return fmt.Sprintf("chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
