package backends

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// Ensure VSEARCH implements the interface.
var _ driven.SearchBackend = (*VSEARCH)(nil)

// defaultMaxAccepts is vsearch's hit cap when the options set none.
// vsearch's own default of 1 stops at the first acceptable hit, which
// is rarely what a similarity search wants.
const defaultMaxAccepts = 20

// VSEARCH drives vsearch in usearch_global mode, emitting results in
// BLAST tabular (blast6) format so the merger and filters treat all
// backends uniformly.
type VSEARCH struct {
	// Executable overrides the program path.
	Executable string
}

// NewVSEARCH creates the vsearch backend.
func NewVSEARCH() *VSEARCH {
	return &VSEARCH{}
}

// Name returns the backend's algorithm name.
func (v *VSEARCH) Name() string { return string(domain.AlgorithmVSEARCH) }

// BuildCommand translates the options into one vsearch invocation.
func (v *VSEARCH) BuildCommand(queryPath, dbPath, outPath string, opts domain.SearchOptions) (driven.CommandSpec, error) {
	program := "vsearch"
	if v.Executable != "" {
		program = v.Executable
	}

	maxAccepts := opts.MaxTargets
	if maxAccepts == 0 {
		maxAccepts = defaultMaxAccepts
	}
	args := []string{
		"--usearch_global", queryPath,
		"-db", dbPath,
		"-maxaccepts", strconv.Itoa(maxAccepts),
		"--blast6out", outPath,
	}
	if opts.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(opts.Threads))
	}
	args = append(args, opts.Extra...)

	return driven.CommandSpec{Path: program, Args: args}, nil
}

// EnsureIndex only checks the database file exists: vsearch searches
// plain FASTA directly, an indexed .udb file is an optional
// optimisation the caller can build themselves.
func (v *VSEARCH) EnsureIndex(_ context.Context, dbPath string, _ domain.SequenceType) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database %s: %w", dbPath, err)
	}
	return nil
}
