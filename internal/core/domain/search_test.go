package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchOptions_Validate(t *testing.T) {
	valid := SearchOptions{
		Algorithm: AlgorithmBLAST,
		QueryType: Nucleotide,
		DBType:    Nucleotide,
	}

	tests := []struct {
		name    string
		mutate  func(*SearchOptions)
		wantErr error
	}{
		{"valid", func(*SearchOptions) {}, nil},
		{"unknown algorithm", func(o *SearchOptions) { o.Algorithm = "blat" }, ErrUnsupportedAlgorithm},
		{"unknown query type", func(o *SearchOptions) { o.QueryType = "rna" }, ErrInvalidInput},
		{"identity above one", func(o *SearchOptions) { o.MinIdentity = 97 }, ErrInvalidInput},
		{"negative coverage", func(o *SearchOptions) { o.MinCoverage = -0.5 }, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)

			err := opts.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSplitSpec_Targets(t *testing.T) {
	assert.Equal(t, 0, SplitSpec{}.Targets())
	assert.Equal(t, 1, SplitSpec{Parts: 4}.Targets())
	assert.Equal(t, 2, SplitSpec{Parts: 4, PartSizeBytes: 1024}.Targets())
}

func TestRunManifest_FailedChunks(t *testing.T) {
	m := RunManifest{Chunks: []JobDescriptor{
		{Chunk: Chunk{Index: 0}, State: JobDone},
		{Chunk: Chunk{Index: 1}, State: JobFailed},
		{Chunk: Chunk{Index: 2}, State: JobDone},
	}}

	assert.Equal(t, []int{1}, m.FailedChunks())
	assert.False(t, m.Succeeded())
}

func TestRunManifest_Succeeded(t *testing.T) {
	m := RunManifest{Chunks: []JobDescriptor{{State: JobDone}}}
	assert.True(t, m.Succeeded())

	assert.False(t, (&RunManifest{}).Succeeded())
}
