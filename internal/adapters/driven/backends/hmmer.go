package backends

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// Ensure HMMER implements the interface.
var _ driven.SearchBackend = (*HMMER)(nil)

// HMMER drives hmmsearch against a profile HMM database. Results go
// to the per-sequence table (--tblout); the alignment output is
// discarded.
type HMMER struct {
	// Executable overrides the program path.
	Executable string
}

// NewHMMER creates the hmmsearch backend.
func NewHMMER() *HMMER {
	return &HMMER{}
}

// Name returns the backend's algorithm name.
func (h *HMMER) Name() string { return string(domain.AlgorithmHMMER) }

// BuildCommand translates the options into one hmmsearch invocation.
// The RNG seed is pinned so re-running a chunk reproduces its output.
func (h *HMMER) BuildCommand(queryPath, dbPath, outPath string, opts domain.SearchOptions) (driven.CommandSpec, error) {
	program := "hmmsearch"
	if h.Executable != "" {
		program = h.Executable
	}

	args := []string{
		"-o", os.DevNull,
		"--tblout", outPath,
		"--seed", "1",
		"--notextw",
		"--acc",
	}
	if opts.Threads > 0 {
		args = append(args, "--cpu", strconv.Itoa(opts.Threads))
	}
	if opts.EValue > 0 {
		args = append(args, "-E", formatFloat(opts.EValue))
	}
	args = append(args, opts.Extra...)
	args = append(args, dbPath, queryPath)

	return driven.CommandSpec{Path: program, Args: args}, nil
}

// EnsureIndex checks the profile database exists; hmmsearch reads the
// .hmm file directly.
func (h *HMMER) EnsureIndex(_ context.Context, dbPath string, _ domain.SequenceType) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database %s: %w", dbPath, err)
	}
	return nil
}
