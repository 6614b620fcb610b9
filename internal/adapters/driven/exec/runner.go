package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Ensure Runner implements the interface.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner executes commands with os/exec. Cancelling the context kills
// the subprocess.
type Runner struct{}

// NewRunner creates the real command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command, streaming stdout and stderr to files.
func (Runner) Run(ctx context.Context, spec driven.CommandSpec, stdoutPath, stderrPath string) error {
	logger.Command(spec.String())
	cmd := osexec.CommandContext(ctx, spec.Path, spec.Args...)

	if stdoutPath != "" {
		fh, err := os.Create(stdoutPath)
		if err != nil {
			return fmt.Errorf("opening stdout capture: %w", err)
		}
		defer fh.Close()
		cmd.Stdout = fh
	}
	if stderrPath != "" {
		fh, err := os.Create(stderrPath)
		if err != nil {
			return fmt.Errorf("opening stderr capture: %w", err)
		}
		defer fh.Close()
		cmd.Stderr = fh
	}

	err := cmd.Run()
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s: %w", spec.Path, &driven.ExitError{Code: exitErr.ExitCode()})
	}
	return err
}

// Output executes the command and returns its trimmed stdout.
func (Runner) Output(ctx context.Context, spec driven.CommandSpec) (string, error) {
	logger.Command(spec.String())
	cmd := osexec.CommandContext(ctx, spec.Path, spec.Args...)
	out, err := cmd.Output()
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return "", fmt.Errorf("%s: %s: %w",
			spec.Path, strings.TrimSpace(string(exitErr.Stderr)), &driven.ExitError{Code: exitErr.ExitCode()})
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// LookPath reports whether the executable can be found in PATH.
func (Runner) LookPath(name string) error {
	_, err := osexec.LookPath(name)
	return err
}
