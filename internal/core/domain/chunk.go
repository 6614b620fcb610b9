package domain

import "time"

// Chunk is a contiguous sub-range of the input collection, written to
// its own file inside the run's working directory. The runner owns the
// chunk files from creation until cleanup.
type Chunk struct {
	// Index is the 0-based position of the chunk in input order.
	// Merged output preserves this order.
	Index int

	// Records is the number of sequence records in the chunk.
	Records int

	// InputPath is the chunk's FASTA file.
	InputPath string

	// OutputPath is where the search tool writes this chunk's results.
	OutputPath string

	// StdoutPath and StderrPath capture the subprocess streams.
	StdoutPath string
	StderrPath string
}

// JobState is the lifecycle state of one chunk's search invocation.
type JobState string

const (
	JobPending   JobState = "pending"
	JobSubmitted JobState = "submitted"
	JobRunning   JobState = "running"
	JobDone      JobState = "done"
	JobFailed    JobState = "failed"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	return s == JobDone || s == JobFailed
}

// JobDescriptor associates a chunk with its (possibly scheduler-side)
// job and records its terminal state. A failed chunk never aborts its
// siblings; the failure surfaces here and in the run's summary.
type JobDescriptor struct {
	Chunk Chunk

	// JobID is the scheduler job identifier in SLURM mode, empty for
	// local execution.
	JobID string

	State JobState

	// Error describes why the chunk failed, empty when State is done.
	Error string

	// StderrTail is the last portion of the tool's captured stderr,
	// attached so a failure report never consists of a bare exit code.
	StderrTail string

	Duration time.Duration
}
