package services

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/fasta"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Splitter partitions a sequence collection into contiguous,
// non-overlapping, ordered chunks and writes one FASTA file per chunk.
// The concatenation of all chunks always reconstructs the input
// exactly: no record is duplicated or dropped.
type Splitter struct{}

// Split writes the chunk files into dir and returns their descriptors
// in input order.
//
// The chunk count comes from the spec: an explicit part count, a
// records-per-part target, or an approximate byte-size target. At most
// one target may be set. When the count exceeds the record count the
// spec's policy decides: clamp to one record per chunk, or reject.
func (Splitter) Split(records domain.SequenceCollection, spec domain.SplitSpec, dir string) ([]domain.Chunk, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if spec.Targets() > 1 {
		return nil, fmt.Errorf("%w: more than one split target set", domain.ErrInvalidSplit)
	}

	parts := chunkCount(records, spec)
	if parts < 1 {
		return nil, fmt.Errorf("%w: chunk count %d", domain.ErrInvalidSplit, parts)
	}
	if parts > len(records) {
		policy := spec.Policy
		if policy == "" {
			policy = domain.SplitClamp
		}
		switch policy {
		case domain.SplitClamp:
			parts = len(records)
		case domain.SplitStrict:
			return nil, fmt.Errorf("%w: %d chunks requested for %d records",
				domain.ErrInvalidSplit, parts, len(records))
		default:
			return nil, fmt.Errorf("%w: unknown split policy %q", domain.ErrInvalidSplit, policy)
		}
	}

	logger.Debug("splitting %d records into %d chunks under %s", len(records), parts, dir)

	// First rem chunks carry one extra record so sizes differ by at
	// most one while the partition stays contiguous.
	base := len(records) / parts
	rem := len(records) % parts

	chunks := make([]domain.Chunk, 0, parts)
	offset := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < rem {
			size++
		}
		part := records[offset : offset+size]
		offset += size

		prefix := filepath.Join(dir, fmt.Sprintf("chunk-%04d", i))
		chunk := domain.Chunk{
			Index:      i,
			Records:    size,
			InputPath:  prefix + ".fasta",
			OutputPath: prefix + ".out",
			StdoutPath: prefix + ".stdout",
			StderrPath: prefix + ".stderr",
		}
		if err := fasta.WriteFile(chunk.InputPath, part); err != nil {
			return nil, fmt.Errorf("writing chunk %d: %w", i, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// chunkCount resolves the spec's single target into a chunk count.
func chunkCount(records domain.SequenceCollection, spec domain.SplitSpec) int {
	switch {
	case spec.Parts > 0:
		return spec.Parts
	case spec.RecordsPerPart > 0:
		return ceilDiv(len(records), spec.RecordsPerPart)
	case spec.PartSizeBytes > 0:
		n := int((records.ApproxSize() + spec.PartSizeBytes - 1) / spec.PartSizeBytes)
		if n < 1 {
			n = 1
		}
		return n
	default:
		return 1
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
