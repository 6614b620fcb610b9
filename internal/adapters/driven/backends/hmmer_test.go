package backends

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

func TestHMMER_BuildCommand(t *testing.T) {
	backend := NewHMMER()
	opts := domain.SearchOptions{
		Algorithm: domain.AlgorithmHMMER,
		EValue:    0.01,
		Threads:   4,
	}

	spec, err := backend.BuildCommand("q.fasta", "pfam.hmm", "out.tbl", opts)

	require.NoError(t, err)
	assert.Equal(t, "hmmsearch", spec.Path)
	assert.Equal(t, []string{
		"-o", os.DevNull,
		"--tblout", "out.tbl",
		"--seed", "1",
		"--notextw",
		"--acc",
		"--cpu", "4",
		"-E", "0.01",
		"pfam.hmm", "q.fasta",
	}, spec.Args)
}

func TestHMMER_DatabaseBeforeQuery(t *testing.T) {
	backend := NewHMMER()

	spec, err := backend.BuildCommand("q.fasta", "pfam.hmm", "out.tbl", domain.SearchOptions{})

	require.NoError(t, err)
	n := len(spec.Args)
	assert.Equal(t, "pfam.hmm", spec.Args[n-2], "hmmsearch takes the HMM file first")
	assert.Equal(t, "q.fasta", spec.Args[n-1])
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry(&recordingRunner{})

	require.Contains(t, registry, domain.AlgorithmBLAST)
	require.Contains(t, registry, domain.AlgorithmVSEARCH)
	require.Contains(t, registry, domain.AlgorithmHMMER)
	assert.Equal(t, "blast", registry[domain.AlgorithmBLAST].Name())
}
