package exec

import (
	"errors"
	"os"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// stderrTailBytes is how much captured stderr is attached to a
// failure report.
const stderrTailBytes = 2048

// finish turns the outcome of one chunk's subprocess into a terminal
// job descriptor. A clean exit still fails the chunk when the expected
// output file is missing or empty.
func finish(jd *domain.JobDescriptor, runErr error) {
	if runErr != nil {
		jd.State = domain.JobFailed
		jd.StderrTail = tailFile(jd.Chunk.StderrPath)
		searchErr := &domain.SearchError{
			ChunkIndex: jd.Chunk.Index,
			ExitCode:   exitCode(runErr),
			StderrTail: jd.StderrTail,
			Err:        runErr,
		}
		jd.Error = searchErr.Error()
		return
	}
	if info, err := os.Stat(jd.Chunk.OutputPath); err != nil || info.Size() == 0 {
		jd.State = domain.JobFailed
		jd.StderrTail = tailFile(jd.Chunk.StderrPath)
		jd.Error = (&domain.SearchError{
			ChunkIndex: jd.Chunk.Index,
			ExitCode:   0,
			StderrTail: jd.StderrTail,
			Err:        domain.ErrMissingOutput,
		}).Error()
		return
	}
	jd.State = domain.JobDone
}

func exitCode(err error) int {
	var exitErr *driven.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

// tailFile returns the last stderrTailBytes of the file, best effort.
func tailFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if len(data) > stderrTailBytes {
		data = data[len(data)-stderrTailBytes:]
	}
	return string(data)
}
