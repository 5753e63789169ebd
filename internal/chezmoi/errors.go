// package chezmoi wraps the chezmoi command line tool
package chezmoi

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError means the chezmoi binary isn't on the path
// this is a missing dependency, not a bad invocation
type NotFoundError struct {
	Bin string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s is not installed or not in PATH", e.Bin)
}

// CommandError means chezmoi ran but exited non-zero on a strict operation
// carries stderr and the exit code for display
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: chezmoi %s (exit %d)", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// TimeoutError means the invocation exceeded its allotted duration
type TimeoutError struct {
	Args []string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out: chezmoi %s", strings.Join(e.Args, " "))
}

// Suggest returns a hint for known failure modes, or "" if we have none
// matching is by substring on stderr, same phrases chezmoi actually emits
func Suggest(err error) string {
	if err == nil {
		return ""
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return "install chezmoi first: https://www.chezmoi.io/install/"
	}

	var te *TimeoutError
	if errors.As(err, &te) {
		return "chezmoi is taking too long - check for hung hooks or prompts"
	}

	var ce *CommandError
	if errors.As(err, &ce) {
		stderr := strings.ToLower(ce.Stderr)
		switch {
		case strings.Contains(stderr, "already in source state"):
			return "this file is already managed - edit it instead of adding it again"
		case strings.Contains(stderr, "not in source state"):
			return "this file isn't managed yet - add it first"
		case strings.Contains(stderr, "permission denied"):
			return "check file permissions or retry with elevated privileges"
		case strings.Contains(stderr, "no such file"):
			return "check that the path exists and is spelled correctly"
		}
	}

	return ""
}
