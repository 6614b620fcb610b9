package backends

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Ensure BLAST implements the interface.
var _ driven.SearchBackend = (*BLAST)(nil)

// BLAST drives the NCBI BLAST+ suite. The concrete program is chosen
// from the query and database sequence types:
//
//	nucl vs nucl -> blastn    prot vs prot -> blastp
//	nucl vs prot -> blastx    prot vs nucl -> tblastn
type BLAST struct {
	// Runner invokes makeblastdb for index builds.
	Runner driven.CommandRunner

	// Executable overrides the auto-selected program path.
	Executable string
}

// NewBLAST creates the BLAST+ backend.
func NewBLAST(runner driven.CommandRunner) *BLAST {
	return &BLAST{Runner: runner}
}

// Name returns the backend's algorithm name.
func (b *BLAST) Name() string { return string(domain.AlgorithmBLAST) }

// BuildCommand translates the options into one blast invocation.
func (b *BLAST) BuildCommand(queryPath, dbPath, outPath string, opts domain.SearchOptions) (driven.CommandSpec, error) {
	program, err := selectProgram(opts.QueryType, opts.DBType)
	if err != nil {
		return driven.CommandSpec{}, err
	}
	if b.Executable != "" {
		program = b.Executable
	}

	args := []string{
		"-db", dbPath,
		"-query", queryPath,
		"-out", outPath,
	}
	if opts.Threads > 0 {
		args = append(args, "-num_threads", strconv.Itoa(opts.Threads))
	}
	if opts.OutFormat != "" {
		args = append(args, "-outfmt", opts.OutFormat)
	}
	if opts.EValue > 0 {
		args = append(args, "-evalue", formatFloat(opts.EValue))
	}
	if opts.MaxTargets > 0 {
		args = append(args, "-max_target_seqs", strconv.Itoa(opts.MaxTargets))
	}
	args = append(args, opts.Extra...)

	return driven.CommandSpec{Path: program, Args: args}, nil
}

// EnsureIndex runs makeblastdb when the index files are absent. The
// presence check mirrors the tool's own: a .nsq volume for nucleotide
// databases, .psq for protein.
func (b *BLAST) EnsureIndex(ctx context.Context, dbPath string, dbType domain.SequenceType) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database %s: %w", dbPath, err)
	}
	if indexed(dbPath, dbType) {
		return nil
	}
	logger.Info("indexing %s with makeblastdb", dbPath)
	spec := driven.CommandSpec{
		Path: "makeblastdb",
		Args: []string{"-in", dbPath, "-dbtype", string(dbType)},
	}
	if err := b.Runner.Run(ctx, spec, "", ""); err != nil {
		return fmt.Errorf("makeblastdb: %w", err)
	}
	return nil
}

func indexed(dbPath string, dbType domain.SequenceType) bool {
	ext := ".nsq"
	if dbType == domain.Protein {
		ext = ".psq"
	}
	// Multi-volume databases index through an alias file instead.
	for _, suffix := range []string{ext, ".nal", ".pal"} {
		if _, err := os.Stat(dbPath + suffix); err == nil {
			return true
		}
	}
	return false
}

func selectProgram(query, db domain.SequenceType) (string, error) {
	switch {
	case query == domain.Nucleotide && db == domain.Nucleotide:
		return "blastn", nil
	case query == domain.Protein && db == domain.Protein:
		return "blastp", nil
	case query == domain.Nucleotide && db == domain.Protein:
		return "blastx", nil
	case query == domain.Protein && db == domain.Nucleotide:
		return "tblastn", nil
	default:
		return "", fmt.Errorf("%w: query %q vs database %q", domain.ErrInvalidInput, query, db)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
