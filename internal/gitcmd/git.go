// Package gitcmd runs the git executable. It is the only place gp spawns
// child processes.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Result is the outcome of one git invocation. A non-zero ExitCode is a
// normal result, not an error.
type Result struct {
	Stdout   string
	ExitCode int
}

// Trimmed returns Stdout without surrounding whitespace.
func (r Result) Trimmed() string {
	return strings.TrimSpace(r.Stdout)
}

// OK reports whether git exited with status 0.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Runner abstracts git command execution for testability.
type Runner interface {
	// Run executes git with args in dir. err is non-nil only when the
	// process could not be started or was cancelled.
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// ExecRunner is the production implementation of Runner.
type ExecRunner struct {
	// Binary is the git executable. Defaults to "git".
	Binary string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{Binary: "git"}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	// Prompt reads must never take the index lock or localize output.
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0", "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Stdout: stdout.String(), ExitCode: exitErr.ExitCode()}, nil
		}
		return Result{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return Result{Stdout: stdout.String()}, nil
}
