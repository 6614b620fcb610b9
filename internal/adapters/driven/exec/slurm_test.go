package exec

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// fakeSlurm simulates the sbatch/squeue/scancel command surface. Jobs
// stay visible in the queue for a configurable number of squeue polls,
// then disappear, at which point the executor reads the exit file this
// fake wrote at submission time.
type fakeSlurm struct {
	mu sync.Mutex

	failAfter     int // fail sbatch from this submission on, 0 = never
	pollsVisible  int
	exitCodes     map[int]int // chunk index -> exit code written to the exit file
	noExitFile    map[int]bool
	missingSbatch bool
	onPoll        func() // invoked on every squeue call

	submissions int
	polls       map[string]int
	cancelled   []string
	scripts     []string
}

func newFakeSlurm() *fakeSlurm {
	return &fakeSlurm{
		polls:     make(map[string]int),
		exitCodes: make(map[int]int),
	}
}

func (f *fakeSlurm) LookPath(name string) error {
	if name == "sbatch" && f.missingSbatch {
		return fmt.Errorf("executable %q not found", name)
	}
	return nil
}

func (f *fakeSlurm) Run(context.Context, driven.CommandSpec, string, string) error {
	return fmt.Errorf("unexpected Run call")
}

func (f *fakeSlurm) Output(ctx context.Context, spec driven.CommandSpec) (string, error) {
	// A cancelled context kills the subprocess before it produces
	// output, like the real runner.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch spec.Path {
	case "sbatch":
		f.submissions++
		if f.failAfter > 0 && f.submissions >= f.failAfter {
			return "", fmt.Errorf("sbatch: error: invalid partition")
		}
		script := spec.Args[len(spec.Args)-1]
		f.scripts = append(f.scripts, script)
		// Play the scheduler: leave behind the exit file the script
		// would have written.
		idx := f.submissions - 1
		if !f.noExitFile[idx] {
			exitPath := strings.TrimSuffix(script, ".slurm") + ".exit"
			code := f.exitCodes[idx]
			if err := os.WriteFile(exitPath, []byte(fmt.Sprintf("%d\n", code)), 0o644); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%d;cluster", 1000+idx), nil
	case "squeue":
		if f.onPoll != nil {
			f.onPoll()
		}
		jobID := spec.Args[2]
		f.polls[jobID]++
		if f.polls[jobID] <= f.pollsVisible {
			return "RUNNING", nil
		}
		return "", fmt.Errorf("slurm_load_jobs error: Invalid job id specified")
	case "scancel":
		f.cancelled = append(f.cancelled, spec.Args[0])
		return "", nil
	}
	return "", fmt.Errorf("unexpected command %s", spec.Path)
}

func newSlurmExecutor(fake *fakeSlurm) *SlurmExecutor {
	executor := NewSlurmExecutor(fake, SlurmOptions{})
	executor.PollInterval = time.Millisecond
	return executor
}

func slurmTasks(t *testing.T, n int) []driven.Task {
	t.Helper()
	tasks := makeTasks(t, n)
	for _, task := range tasks {
		require.NoError(t, os.WriteFile(task.Chunk.InputPath, []byte(">s\nACGT\n"), 0o644))
		require.NoError(t, os.WriteFile(task.Chunk.OutputPath, []byte("hit\n"), 0o644))
	}
	return tasks
}

func TestSlurmExecutor_AllJobsSucceed(t *testing.T) {
	fake := newFakeSlurm()
	fake.pollsVisible = 2
	executor := newSlurmExecutor(fake)
	tasks := slurmTasks(t, 3)

	descs, err := executor.Execute(context.Background(), tasks)

	require.NoError(t, err)
	require.Len(t, descs, 3)
	for i, jd := range descs {
		assert.Equal(t, domain.JobDone, jd.State, "chunk %d", i)
		assert.Equal(t, fmt.Sprintf("%d", 1000+i), jd.JobID, "cluster suffix stripped")
	}
	assert.Empty(t, fake.cancelled)
}

func TestSlurmExecutor_NonZeroExit(t *testing.T) {
	fake := newFakeSlurm()
	fake.exitCodes[1] = 2
	executor := newSlurmExecutor(fake)
	tasks := slurmTasks(t, 3)

	descs, err := executor.Execute(context.Background(), tasks)

	require.NoError(t, err)
	assert.Equal(t, domain.JobDone, descs[0].State)
	require.Equal(t, domain.JobFailed, descs[1].State)
	assert.Contains(t, descs[1].Error, "exit status 2")
	assert.Equal(t, domain.JobDone, descs[2].State)
}

func TestSlurmExecutor_MissingExitFile(t *testing.T) {
	fake := newFakeSlurm()
	fake.noExitFile = map[int]bool{0: true}
	executor := newSlurmExecutor(fake)
	tasks := slurmTasks(t, 1)

	descs, err := executor.Execute(context.Background(), tasks)

	require.NoError(t, err)
	require.Equal(t, domain.JobFailed, descs[0].State)
	assert.Contains(t, descs[0].Error, "finished without exit status")
}

func TestSlurmExecutor_SubmissionFailureCancelsEarlierJobs(t *testing.T) {
	fake := newFakeSlurm()
	fake.failAfter = 3
	executor := newSlurmExecutor(fake)
	tasks := slurmTasks(t, 4)

	_, err := executor.Execute(context.Background(), tasks)

	require.ErrorIs(t, err, domain.ErrSubmission)
	assert.ElementsMatch(t, []string{"1000", "1001"}, fake.cancelled)
}

func TestSlurmExecutor_MissingSbatch(t *testing.T) {
	fake := newFakeSlurm()
	fake.missingSbatch = true
	executor := newSlurmExecutor(fake)

	_, err := executor.Execute(context.Background(), slurmTasks(t, 1))

	assert.ErrorIs(t, err, domain.ErrSubmission)
	assert.Zero(t, fake.submissions)
}

func TestSlurmExecutor_CancellationCancelsJobs(t *testing.T) {
	fake := newFakeSlurm()
	fake.pollsVisible = 1 << 30 // jobs never leave the queue
	ctx, cancel := context.WithCancel(context.Background())
	fake.onPoll = cancel
	executor := newSlurmExecutor(fake)

	descs, err := executor.Execute(ctx, slurmTasks(t, 2))

	// Cancellation must surface as an error with every job scancelled,
	// never as a run full of per-chunk failures.
	assert.Nil(t, descs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ElementsMatch(t, []string{"1000", "1001"}, fake.cancelled)
}

func TestWriteScript_Directives(t *testing.T) {
	executor := NewSlurmExecutor(newFakeSlurm(), SlurmOptions{
		Partition: "short",
		QOS:       "normal",
		Time:      "01:00:00",
		Memory:    "4G",
		CPUs:      8,
	})
	tasks := makeTasks(t, 1)

	path, err := executor.writeScript(tasks[0])

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	script := string(data)
	assert.True(t, strings.HasPrefix(script, "#!/bin/sh\n"))
	assert.Contains(t, script, "#SBATCH --partition=short\n")
	assert.Contains(t, script, "#SBATCH --qos=normal\n")
	assert.Contains(t, script, "#SBATCH --time=01:00:00\n")
	assert.Contains(t, script, "#SBATCH --mem=4G\n")
	assert.Contains(t, script, "#SBATCH --cpus-per-task=8\n")
	assert.Contains(t, script, "mocksearch "+tasks[0].Chunk.InputPath)
	assert.Contains(t, script, "echo $? > ")
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain", shellQuote("plain"))
	assert.Equal(t, "''", shellQuote(""))
	assert.Equal(t, "'two words'", shellQuote("two words"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, "'a$b'", shellQuote("a$b"))
}
