// package chezmoi wraps the chezmoi command line tool
// every operation builds an argument vector, execs the binary with a
// timeout, and maps exit status to either a value or a typed error
package chezmoi

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Client is the single choke point for talking to chezmoi
// pass it around explicitly, there is no package-level instance
type Client struct {
	bin          string
	timeout      time.Duration
	probeTimeout time.Duration
	homeDir      string
	runner       Runner
}

// Options configures a Client
// zero values fall back to sane defaults
type Options struct {
	Bin          string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	HomeDir      string
	Runner       Runner
}

// NewClient creates a chezmoi client
func NewClient(opts Options) *Client {
	c := &Client{
		bin:          opts.Bin,
		timeout:      opts.Timeout,
		probeTimeout: opts.ProbeTimeout,
		homeDir:      opts.HomeDir,
		runner:       opts.Runner,
	}

	if c.bin == "" {
		c.bin = "chezmoi"
	}
	if c.timeout == 0 {
		c.timeout = 30 * time.Second
	}
	if c.probeTimeout == 0 {
		c.probeTimeout = 5 * time.Second
	}
	if c.homeDir == "" {
		c.homeDir, _ = os.UserHomeDir()
	}
	if c.runner == nil {
		c.runner = execRunner{}
	}

	return c
}

// Bin returns the configured executable name
func (c *Client) Bin() string { return c.bin }

// run executes one invocation with the given timeout and classifies failures
func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, c.bin, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return res, &TimeoutError{Args: args}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return res, &NotFoundError{Bin: c.bin}
		}
		return res, err
	}

	return res, nil
}

// strict runs a command where non-zero exit is a failure
func (c *Client) strict(ctx context.Context, args ...string) (string, error) {
	res, err := c.run(ctx, c.timeout, args...)
	if err != nil {
		return "", err
	}

	if res.ExitCode != 0 {
		return "", &CommandError{Args: args, Stderr: res.Stderr, ExitCode: res.ExitCode}
	}

	return res.Stdout, nil
}

// tolerant runs a command where non-zero exit just means "nothing to show"
// only a missing binary or a timeout still surfaces
func (c *Client) tolerant(ctx context.Context, args ...string) (string, error) {
	res, err := c.run(ctx, c.timeout, args...)
	if err != nil {
		return "", err
	}

	return res.Stdout, nil
}

// CheckInstalled reports whether the chezmoi binary is usable
// never fails - any problem folds into false
func (c *Client) CheckInstalled(ctx context.Context) bool {
	res, err := c.run(ctx, c.probeTimeout, "--version")
	return err == nil && res.ExitCode == 0
}

// Version returns the chezmoi version string
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.run(ctx, c.probeTimeout, "--version")
	if err != nil {
		return "", err
	}

	if res.ExitCode != 0 {
		return "", &CommandError{Args: []string{"--version"}, Stderr: res.Stderr, ExitCode: res.ExitCode}
	}

	return strings.TrimSpace(res.Stdout), nil
}

// AddOptions are the attribute flags for the add subcommand
// any combination is passed through verbatim, chezmoi validates
type AddOptions struct {
	Template     bool
	Encrypt      bool
	NoRecurse    bool // emits --recursive=false, recursion is chezmoi's default
	Exact        bool
	AutoTemplate bool
	Follow       bool
	Create       bool
	Prompt       bool
	Private      bool
	Executable   bool
	Readonly     bool
}

// Flags returns one flag per enabled option, in stable order
func (o AddOptions) Flags() []string {
	var flags []string

	if o.Template {
		flags = append(flags, "--template")
	}
	if o.Encrypt {
		flags = append(flags, "--encrypt")
	}
	if o.NoRecurse {
		flags = append(flags, "--recursive=false")
	}
	if o.Exact {
		flags = append(flags, "--exact")
	}
	if o.AutoTemplate {
		flags = append(flags, "--autotemplate")
	}
	if o.Follow {
		flags = append(flags, "--follow")
	}
	if o.Create {
		flags = append(flags, "--create")
	}
	if o.Prompt {
		flags = append(flags, "--prompt")
	}
	if o.Private {
		flags = append(flags, "--private")
	}
	if o.Executable {
		flags = append(flags, "--executable")
	}
	if o.Readonly {
		flags = append(flags, "--readonly")
	}

	return flags
}

// Add puts targets under chezmoi management
func (c *Client) Add(ctx context.Context, targets []string, opts AddOptions) (string, error) {
	args := append([]string{"add"}, opts.Flags()...)
	args = append(args, targets...)
	return c.strict(ctx, args...)
}

// Remove takes targets out of the source state
func (c *Client) Remove(ctx context.Context, targets []string) (string, error) {
	args := append([]string{"remove"}, targets...)
	return c.strict(ctx, args...)
}

// Diff returns the unified diff between the source and target state
// target scopes the diff to one file; empty means everything
// "no diff" and "tool warning" are both legitimate, so exit code is ignored
func (c *Client) Diff(ctx context.Context, target string) (string, error) {
	args := []string{"diff"}
	if target != "" {
		args = append(args, target)
	}
	return c.tolerant(ctx, args...)
}

// ApplyOptions tunes the apply subcommand
type ApplyOptions struct {
	DryRun  bool
	Verbose bool
}

// Apply writes the target state to disk
func (c *Client) Apply(ctx context.Context, targets []string, opts ApplyOptions) (string, error) {
	args := []string{"apply"}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, targets...)
	return c.strict(ctx, args...)
}

// Managed returns the list of managed target paths
// one trimmed path per non-blank output line, order preserved
func (c *Client) Managed(ctx context.Context) ([]string, error) {
	out, err := c.strict(ctx, "managed")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}

	return paths, nil
}

// Status returns the git-status-like summary of pending changes
func (c *Client) Status(ctx context.Context, targets []string) (string, error) {
	args := append([]string{"status"}, targets...)
	return c.tolerant(ctx, args...)
}

// Data returns the template data tree
// anything that doesn't parse as a single json document degrades to an
// empty map - this operation is informational, not transactional
func (c *Client) Data(ctx context.Context) (map[string]any, error) {
	out, err := c.tolerant(ctx, "data", "--format", "json")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(out) == "" {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		return map[string]any{}, nil
	}

	return data, nil
}

// SourcePath returns the source directory, or the source path of a target
func (c *Client) SourcePath(ctx context.Context, target string) (string, error) {
	args := []string{"source-path"}
	if target != "" {
		args = append(args, target)
	}

	out, err := c.strict(ctx, args...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// Doctor runs chezmoi's own diagnostics
// absence of output just yields an empty string
func (c *Client) Doctor(ctx context.Context) (string, error) {
	return c.tolerant(ctx, "doctor")
}

// Verify checks that the target state matches the source state
// returns the relevant stream for display alongside the verdict
func (c *Client) Verify(ctx context.Context) (bool, string) {
	res, err := c.run(ctx, c.timeout, "verify")
	if err != nil {
		return false, err.Error()
	}

	if res.ExitCode == 0 {
		return true, strings.TrimSpace(res.Stdout)
	}
	return false, strings.TrimSpace(res.Stderr)
}

// Update pulls the source repo and optionally applies the result
func (c *Client) Update(ctx context.Context, apply bool) (string, error) {
	args := []string{"update"}
	if !apply {
		args = append(args, "--no-apply")
	}
	return c.strict(ctx, args...)
}

// Init initializes chezmoi, optionally from a git repository
func (c *Client) Init(ctx context.Context, repo string) (string, error) {
	args := []string{"init"}
	if repo != "" {
		args = append(args, repo)
	}
	return c.strict(ctx, args...)
}

// IsManaged reports whether a path is tracked by chezmoi
// compares canonical forms; any failure folds into false
func (c *Client) IsManaged(ctx context.Context, path string) bool {
	managed, err := c.Managed(ctx)
	if err != nil {
		return false
	}

	candidate, err := c.canonicalize(path)
	if err != nil {
		return false
	}

	for _, entry := range managed {
		resolved, err := c.canonicalize(entry)
		if err != nil {
			// entries that fail to resolve are skipped, not fatal
			continue
		}
		if resolved == candidate {
			return true
		}
	}

	return false
}

// ResolveTarget returns the canonical absolute form of a target path
// falls back to the input when resolution fails
func (c *Client) ResolveTarget(path string) string {
	resolved, err := c.canonicalize(path)
	if err != nil {
		return path
	}
	return resolved
}

// canonicalize expands ~, anchors relative paths at home (chezmoi prints
// managed entries relative to the destination directory), and resolves
// symlinks where possible
func (c *Client) canonicalize(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}

	if path == "~" {
		path = c.homeDir
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(c.homeDir, path[2:])
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(c.homeDir, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	// path may not exist yet - the absolute form is still comparable
	return abs, nil
}
