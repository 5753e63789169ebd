// package chezmoi wraps the chezmoi command line tool
package chezmoi

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result is the raw outcome of one subprocess invocation
// consumed once and discarded
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes the external binary
// swapped for a fake in tests so no subprocess ever runs
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (Result, error)
}

// execRunner is the real thing, backed by os/exec
type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		// the deadline firing shows up as a killed process, check the context first
		if ctx.Err() == context.DeadlineExceeded {
			return res, context.DeadlineExceeded
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// ran but exited non-zero - not an invocation failure,
			// the caller decides whether that's fatal
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}

		// couldn't start at all (missing binary, bad permissions)
		return res, err
	}

	return res, nil
}
