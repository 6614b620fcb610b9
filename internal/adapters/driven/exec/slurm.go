package exec

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Ensure SlurmExecutor implements the interface.
var _ driven.Executor = (*SlurmExecutor)(nil)

// defaultPollInterval is how often job states are queried.
const defaultPollInterval = 15 * time.Second

// SlurmOptions are the resource directives attached to every chunk
// job.
type SlurmOptions struct {
	// Partition is the SLURM partition (--partition).
	Partition string

	// QOS is the quality-of-service class (--qos).
	QOS string

	// Time is the wall-clock limit, e.g. "01:00:00" (--time).
	Time string

	// Memory is the per-job memory request, e.g. "4G" (--mem).
	Memory string

	// CPUs is --cpus-per-task. Zero leaves the scheduler default.
	CPUs int
}

// SlurmExecutor submits one batch job per chunk and polls squeue with
// a fixed interval until every job has left the queue. Our own process
// stays single-threaded; parallelism is the scheduler's business.
//
// Each job's script records the search command's exit status in a file
// next to the chunk, since SLURM's own exit bookkeeping is not
// reliably queryable on every site (sacct may be disabled).
type SlurmExecutor struct {
	Runner       driven.CommandRunner
	Options      SlurmOptions
	PollInterval time.Duration
}

// NewSlurmExecutor creates a SLURM executor.
func NewSlurmExecutor(runner driven.CommandRunner, opts SlurmOptions) *SlurmExecutor {
	return &SlurmExecutor{Runner: runner, Options: opts, PollInterval: defaultPollInterval}
}

// Execute submits every task, then blocks until all jobs terminate.
// A submission failure cancels already-submitted jobs and halts the
// whole batch.
func (e *SlurmExecutor) Execute(ctx context.Context, tasks []driven.Task) ([]domain.JobDescriptor, error) {
	if err := e.Runner.LookPath("sbatch"); err != nil {
		return nil, fmt.Errorf("%w: sbatch not found: %v", domain.ErrSubmission, err)
	}

	descs := make([]domain.JobDescriptor, len(tasks))
	for i, task := range tasks {
		descs[i] = domain.JobDescriptor{Chunk: task.Chunk, State: domain.JobPending}

		script, err := e.writeScript(task)
		if err != nil {
			e.cancelJobs(descs[:i])
			return nil, fmt.Errorf("%w: writing batch script for chunk %d: %v",
				domain.ErrSubmission, task.Chunk.Index, err)
		}
		jobID, err := e.Runner.Output(ctx, driven.CommandSpec{
			Path: "sbatch",
			Args: []string{"--parsable", script},
		})
		if err != nil {
			e.cancelJobs(descs[:i])
			return nil, fmt.Errorf("%w: chunk %d: %v", domain.ErrSubmission, task.Chunk.Index, err)
		}
		// --parsable prints "jobid[;cluster]".
		if i := strings.IndexByte(jobID, ';'); i >= 0 {
			jobID = jobID[:i]
		}
		descs[i].JobID = jobID
		descs[i].State = domain.JobSubmitted
		logger.Info("chunk %d submitted as job %s", task.Chunk.Index, jobID)
	}

	if err := e.wait(ctx, descs); err != nil {
		e.cancelJobs(descs)
		return nil, err
	}
	return descs, nil
}

// wait polls until every job reaches a terminal state.
func (e *SlurmExecutor) wait(ctx context.Context, descs []domain.JobDescriptor) error {
	interval := e.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		remaining := 0
		for i := range descs {
			if descs[i].State.Terminal() {
				continue
			}
			e.poll(ctx, &descs[i])
			if !descs[i].State.Terminal() {
				remaining++
			}
		}
		if remaining == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll advances one job's state from the queue's view of it.
func (e *SlurmExecutor) poll(ctx context.Context, jd *domain.JobDescriptor) {
	out, err := e.Runner.Output(ctx, driven.CommandSpec{
		Path: "squeue",
		Args: []string{"-h", "-j", jd.JobID, "-o", "%T"},
	})
	if err == nil && out != "" {
		if strings.Contains(out, "RUNNING") {
			jd.State = domain.JobRunning
		}
		return
	}
	// After cancellation the failure is our own killed squeue, not the
	// job leaving the queue. Leave the job non-terminal so wait
	// surfaces the cancellation and Execute scancels it.
	if ctx.Err() != nil {
		return
	}
	// The job has left the queue (squeue errors on unknown job ids).
	e.collect(jd)
}

// collect reads the exit status file the batch script left behind and
// settles the job's terminal state.
func (e *SlurmExecutor) collect(jd *domain.JobDescriptor) {
	data, err := os.ReadFile(exitFile(jd.Chunk))
	if err != nil {
		jd.State = domain.JobFailed
		jd.StderrTail = tailFile(jd.Chunk.StderrPath)
		jd.Error = fmt.Sprintf("chunk %d: job %s finished without exit status",
			jd.Chunk.Index, jd.JobID)
		return
	}
	code, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		jd.State = domain.JobFailed
		jd.Error = fmt.Sprintf("chunk %d: unreadable exit status %q", jd.Chunk.Index, data)
		return
	}
	var runErr error
	if code != 0 {
		runErr = fmt.Errorf("job %s: %w", jd.JobID, &driven.ExitError{Code: code})
	}
	finish(jd, runErr)
}

// cancelJobs best-effort scancels everything that got a job id. Used
// on submission failure and on cancellation.
func (e *SlurmExecutor) cancelJobs(descs []domain.JobDescriptor) {
	for _, jd := range descs {
		if jd.JobID == "" || jd.State.Terminal() {
			continue
		}
		_, err := e.Runner.Output(context.Background(), driven.CommandSpec{
			Path: "scancel",
			Args: []string{jd.JobID},
		})
		if err != nil {
			logger.Warn("scancel %s: %v", jd.JobID, err)
		}
	}
}

// writeScript renders the batch script for one chunk next to the
// chunk's input file.
func (e *SlurmExecutor) writeScript(task driven.Task) (string, error) {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "#SBATCH --job-name=seqsearch-%04d\n", task.Chunk.Index)
	fmt.Fprintf(&b, "#SBATCH --output=%s\n", task.Chunk.StdoutPath)
	fmt.Fprintf(&b, "#SBATCH --error=%s\n", task.Chunk.StderrPath)
	if e.Options.Partition != "" {
		fmt.Fprintf(&b, "#SBATCH --partition=%s\n", e.Options.Partition)
	}
	if e.Options.QOS != "" {
		fmt.Fprintf(&b, "#SBATCH --qos=%s\n", e.Options.QOS)
	}
	if e.Options.Time != "" {
		fmt.Fprintf(&b, "#SBATCH --time=%s\n", e.Options.Time)
	}
	if e.Options.Memory != "" {
		fmt.Fprintf(&b, "#SBATCH --mem=%s\n", e.Options.Memory)
	}
	if e.Options.CPUs > 0 {
		fmt.Fprintf(&b, "#SBATCH --cpus-per-task=%d\n", e.Options.CPUs)
	}
	b.WriteString(shellLine(task.Command))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "echo $? > %s\n", shellQuote(exitFile(task.Chunk)))

	path := scriptFile(task.Chunk)
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

func scriptFile(chunk domain.Chunk) string {
	return chunkFile(chunk, ".slurm")
}

func exitFile(chunk domain.Chunk) string {
	return chunkFile(chunk, ".exit")
}

func chunkFile(chunk domain.Chunk, ext string) string {
	return strings.TrimSuffix(chunk.InputPath, ".fasta") + ext
}

func shellLine(spec driven.CommandSpec) string {
	parts := make([]string, 0, len(spec.Args)+1)
	parts = append(parts, shellQuote(spec.Path))
	for _, a := range spec.Args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes an argument for POSIX sh.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$&|;<>()*?[]#~%") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
