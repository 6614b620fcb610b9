package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Merger concatenates successful chunk results, in chunk order, into
// one output file. Failed chunks are reported by the caller from the
// descriptors; the merger only refuses to run when nothing succeeded.
type Merger struct{}

// Merge writes the concatenation of all done chunks' output files to
// outputPath. The write goes through a temp file in the destination
// directory followed by a rename, so re-merging the same completed
// chunks yields byte-identical output and readers never observe a
// partial file.
func (Merger) Merge(descs []domain.JobDescriptor, outputPath string) error {
	ordered := make([]domain.JobDescriptor, len(descs))
	copy(ordered, descs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Chunk.Index < ordered[j].Chunk.Index
	})

	var done []domain.JobDescriptor
	for _, jd := range ordered {
		if jd.State == domain.JobDone {
			done = append(done, jd)
		}
	}
	if len(done) == 0 {
		return domain.ErrNoSuccessfulChunks
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".merge-*")
	if err != nil {
		return fmt.Errorf("creating merge temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, jd := range done {
		if err := appendFile(tmp, jd.Chunk.OutputPath); err != nil {
			tmp.Close()
			return fmt.Errorf("merging chunk %d: %w", jd.Chunk.Index, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing merge temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return fmt.Errorf("renaming merged output: %w", err)
	}

	logger.Info("merged %d/%d chunk results into %s", len(done), len(descs), outputPath)
	return nil
}

func appendFile(dst io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}
