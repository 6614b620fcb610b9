package domain

import "time"

// ExecMode selects where chunk searches run.
type ExecMode string

const (
	// ExecLocal runs subprocesses in a bounded local worker pool.
	ExecLocal ExecMode = "local"

	// ExecSlurm submits one scheduler job per chunk.
	ExecSlurm ExecMode = "slurm"
)

// RunManifest records everything about one chunked search run. It is
// persisted to the run store on completion and, on partial failure,
// written alongside the retained chunk files for diagnosis.
type RunManifest struct {
	// ID is a UUID assigned at run start.
	ID string `toml:"id"`

	CreatedAt  time.Time `toml:"created_at"`
	FinishedAt time.Time `toml:"finished_at"`

	// InputPath is the original query FASTA.
	InputPath string `toml:"input_path"`

	// Database is the resolved reference database path.
	Database string `toml:"database"`

	// OutputPath is the merged result file.
	OutputPath string `toml:"output_path"`

	// WorkDir is the run's temporary directory.
	WorkDir string `toml:"work_dir"`

	Mode    ExecMode      `toml:"mode"`
	Options SearchOptions `toml:"options"`

	// Chunks holds the terminal descriptor of every chunk, in order.
	Chunks []JobDescriptor `toml:"chunks"`
}

// FailedChunks returns the indices of chunks that did not complete,
// in order.
func (m *RunManifest) FailedChunks() []int {
	var failed []int
	for _, jd := range m.Chunks {
		if jd.State != JobDone {
			failed = append(failed, jd.Chunk.Index)
		}
	}
	return failed
}

// Succeeded reports whether every chunk completed.
func (m *RunManifest) Succeeded() bool {
	return len(m.FailedChunks()) == 0 && len(m.Chunks) > 0
}
