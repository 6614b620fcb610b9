package fasta

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

func TestReadAll_Basic(t *testing.T) {
	in := ">seq1 first sequence\nACGT\nACGT\n>seq2\nTTTT\n"

	records, err := ReadAll(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "seq1", records[0].ID)
	assert.Equal(t, "first sequence", records[0].Description)
	assert.Equal(t, "ACGTACGT", string(records[0].Seq))
	assert.Equal(t, "seq2", records[1].ID)
	assert.Empty(t, records[1].Description)
	assert.Equal(t, "TTTT", string(records[1].Seq))
}

func TestReadAll_SkipsBlankLines(t *testing.T) {
	in := ">a\n\nAC\n\nGT\n"

	records, err := ReadAll(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ACGT", string(records[0].Seq))
}

func TestReadAll_Empty(t *testing.T) {
	records, err := ReadAll(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadAll_DataBeforeHeader(t *testing.T) {
	_, err := ReadAll(strings.NewReader("ACGT\n>late\nAC\n"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWrite_RoundTrip(t *testing.T) {
	records := domain.SequenceCollection{
		{ID: "a", Description: "desc here", Seq: []byte(strings.Repeat("ACGT", 50))},
		{ID: "b", Seq: []byte("TT")},
	}

	var sb strings.Builder
	require.NoError(t, Write(&sb, records))

	back, err := ReadAll(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestWrite_WrapsLongSequences(t *testing.T) {
	records := domain.SequenceCollection{{ID: "a", Seq: []byte(strings.Repeat("A", 150))}}

	var sb strings.Builder
	require.NoError(t, Write(&sb, records))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 4) // header + 70 + 70 + 10
	assert.Len(t, lines[1], 70)
	assert.Len(t, lines[3], 10)
}

func TestReadFile_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.fasta.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(">z\nGGCC\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	records, err := ReadFile(path)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "GGCC", string(records[0].Seq))
}

func TestWriteFile_ThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fasta")
	records := domain.SequenceCollection{{ID: "x", Seq: []byte("ACGT")}}

	require.NoError(t, WriteFile(path, records))
	back, err := ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, records, back)
}
