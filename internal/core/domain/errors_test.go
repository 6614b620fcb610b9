package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchError_Error(t *testing.T) {
	err := &SearchError{
		ChunkIndex: 3,
		ExitCode:   2,
		StderrTail: "BLAST Database error",
		Err:        ErrMissingOutput,
	}

	msg := err.Error()

	assert.Contains(t, msg, "chunk 3")
	assert.Contains(t, msg, "BLAST Database error")
}

func TestSearchError_Unwrap(t *testing.T) {
	err := &SearchError{ChunkIndex: 0, Err: ErrMissingOutput}

	assert.True(t, errors.Is(err, ErrMissingOutput))
}

func TestSearchError_NoStderr(t *testing.T) {
	err := &SearchError{ChunkIndex: 1, Err: ErrMissingOutput}

	assert.Equal(t, "chunk 1: search produced no output file", err.Error())
}
