package driven

import (
	"context"
	"fmt"
)

// CommandSpec is one subprocess invocation: an executable and its
// arguments. Backends build these; executors run them.
type CommandSpec struct {
	// Path is the executable name or path.
	Path string

	// Args are the arguments, not including the executable itself.
	Args []string
}

// String renders the command roughly as a shell line, for logs.
func (c CommandSpec) String() string {
	s := c.Path
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// CommandRunner executes external commands. It exists as a port so
// executors and backends can be tested without spawning processes.
type CommandRunner interface {
	// Run executes the command, streaming stdout and stderr to the
	// given file paths (either may be empty to discard). It blocks
	// until the process exits and returns an *ExitError wrapped in
	// the result when the process exits non-zero. Cancelling ctx
	// kills the process.
	Run(ctx context.Context, spec CommandSpec, stdoutPath, stderrPath string) error

	// Output executes the command and returns its trimmed stdout.
	// Used for short control commands (sbatch, squeue).
	Output(ctx context.Context, spec CommandSpec) (string, error)

	// LookPath reports whether the executable can be found.
	LookPath(name string) error
}

// ExitError reports a subprocess that terminated with a non-zero
// status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
