// Package exec provides subprocess execution helpers for the git and gh
// command-line tools.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"
	"strings"
)

// Runner executes external commands. Implementations must capture combined
// stdout+stderr so callers can surface tool output on failure.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current
	// working directory). extraEnv entries are appended to the inherited
	// process environment in KEY=VALUE form.
	Run(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (string, error)
}

// ExitError reports a command that started but exited non-zero.
type ExitError struct {
	Command  string
	Args     []string
	ExitCode int
	Output   string
	Cause    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command failed with exit code %d: %s %s", e.ExitCode, e.Command, strings.Join(e.Args, " "))
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// DefaultRunner implements Runner using os/exec.
type DefaultRunner struct{}

// NewRunner creates a new default runner.
func NewRunner() *DefaultRunner {
	return &DefaultRunner{}
}

// Run executes the command and returns combined stdout+stderr output.
// A non-zero exit is returned as *ExitError with the exit code and the
// captured output preserved.
func (r *DefaultRunner) Run(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (string, error) {
	slog.Debug("executing", "cmd", name, "args", strings.Join(args, " "), "dir", dir)

	cmd := osexec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*osexec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return string(out), &ExitError{
			Command:  name,
			Args:     args,
			ExitCode: exitCode,
			Output:   string(out),
			Cause:    err,
		}
	}

	return string(out), nil
}
