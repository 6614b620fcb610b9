package backends

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// recordingRunner implements driven.CommandRunner and records every
// command it is asked to run.
type recordingRunner struct {
	specs []driven.CommandSpec
	err   error
}

func (r *recordingRunner) Run(_ context.Context, spec driven.CommandSpec, _, _ string) error {
	r.specs = append(r.specs, spec)
	return r.err
}

func (r *recordingRunner) Output(context.Context, driven.CommandSpec) (string, error) {
	return "", nil
}

func (r *recordingRunner) LookPath(string) error { return nil }

func TestSelectProgram(t *testing.T) {
	tests := []struct {
		query, db domain.SequenceType
		want      string
	}{
		{domain.Nucleotide, domain.Nucleotide, "blastn"},
		{domain.Protein, domain.Protein, "blastp"},
		{domain.Nucleotide, domain.Protein, "blastx"},
		{domain.Protein, domain.Nucleotide, "tblastn"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := selectProgram(tt.query, tt.db)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectProgram_InvalidTypes(t *testing.T) {
	_, err := selectProgram("dna", domain.Nucleotide)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBLAST_BuildCommand(t *testing.T) {
	backend := NewBLAST(&recordingRunner{})
	opts := domain.SearchOptions{
		Algorithm:  domain.AlgorithmBLAST,
		QueryType:  domain.Nucleotide,
		DBType:     domain.Nucleotide,
		OutFormat:  "6",
		EValue:     1e-5,
		MaxTargets: 50,
		Threads:    4,
	}

	spec, err := backend.BuildCommand("q.fasta", "ref.fasta", "out.tsv", opts)

	require.NoError(t, err)
	assert.Equal(t, "blastn", spec.Path)
	assert.Equal(t, []string{
		"-db", "ref.fasta",
		"-query", "q.fasta",
		"-out", "out.tsv",
		"-num_threads", "4",
		"-outfmt", "6",
		"-evalue", "1e-05",
		"-max_target_seqs", "50",
	}, spec.Args)
}

func TestBLAST_BuildCommandMinimal(t *testing.T) {
	backend := NewBLAST(&recordingRunner{})
	opts := domain.SearchOptions{
		QueryType: domain.Protein,
		DBType:    domain.Protein,
	}

	spec, err := backend.BuildCommand("q.fasta", "ref.fasta", "out.tsv", opts)

	require.NoError(t, err)
	assert.Equal(t, "blastp", spec.Path)
	assert.Equal(t, []string{"-db", "ref.fasta", "-query", "q.fasta", "-out", "out.tsv"}, spec.Args)
}

func TestBLAST_BuildCommandExtraArgs(t *testing.T) {
	backend := NewBLAST(&recordingRunner{})
	opts := domain.SearchOptions{
		QueryType: domain.Nucleotide,
		DBType:    domain.Nucleotide,
		Extra:     []string{"-task", "megablast"},
	}

	spec, err := backend.BuildCommand("q.fasta", "ref.fasta", "out.tsv", opts)

	require.NoError(t, err)
	assert.Equal(t, "-task", spec.Args[len(spec.Args)-2])
	assert.Equal(t, "megablast", spec.Args[len(spec.Args)-1])
}

func TestBLAST_EnsureIndexBuildsWhenAbsent(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewBLAST(runner)
	dbPath := filepath.Join(t.TempDir(), "ref.fasta")
	require.NoError(t, os.WriteFile(dbPath, []byte(">r\nACGT\n"), 0o644))

	err := backend.EnsureIndex(context.Background(), dbPath, domain.Nucleotide)

	require.NoError(t, err)
	require.Len(t, runner.specs, 1)
	assert.Equal(t, "makeblastdb", runner.specs[0].Path)
	assert.Equal(t, []string{"-in", dbPath, "-dbtype", "nucl"}, runner.specs[0].Args)
}

func TestBLAST_EnsureIndexSkipsWhenPresent(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewBLAST(runner)
	dbPath := filepath.Join(t.TempDir(), "ref.fasta")
	require.NoError(t, os.WriteFile(dbPath, []byte(">r\nACGT\n"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+".nsq", []byte("x"), 0o644))

	err := backend.EnsureIndex(context.Background(), dbPath, domain.Nucleotide)

	require.NoError(t, err)
	assert.Empty(t, runner.specs, "makeblastdb should not run")
}

func TestBLAST_EnsureIndexAcceptsAliasFile(t *testing.T) {
	runner := &recordingRunner{}
	backend := NewBLAST(runner)
	dbPath := filepath.Join(t.TempDir(), "nt")
	require.NoError(t, os.WriteFile(dbPath, []byte("alias"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+".nal", []byte("x"), 0o644))

	err := backend.EnsureIndex(context.Background(), dbPath, domain.Nucleotide)

	require.NoError(t, err)
	assert.Empty(t, runner.specs)
}

func TestBLAST_EnsureIndexMissingDatabase(t *testing.T) {
	backend := NewBLAST(&recordingRunner{})

	err := backend.EnsureIndex(context.Background(), filepath.Join(t.TempDir(), "nope"), domain.Nucleotide)

	assert.Error(t, err)
}
