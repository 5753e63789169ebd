// package chezmoi contains tests for the command adapter
package chezmoi

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner plays back canned results and records every invocation
// no subprocess ever runs in these tests
type fakeRunner struct {
	result Result
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(ctx context.Context, bin string, args ...string) (Result, error) {
	f.calls = append(f.calls, args)
	return f.result, f.err
}

// newTestClient wires a client to a fake runner with a throwaway home
func newTestClient(t *testing.T, runner Runner) *Client {
	t.Helper()
	return NewClient(Options{
		Runner:  runner,
		HomeDir: t.TempDir(),
	})
}

func TestAddBuildsOneFlagPerEnabledOption(t *testing.T) {
	runner := &fakeRunner{result: Result{Stdout: "ok"}}
	client := newTestClient(t, runner)

	opts := AddOptions{
		Template:  true,
		Encrypt:   false,
		NoRecurse: true,
		Exact:     false,
		Create:    true,
	}

	_, err := client.Add(context.Background(), []string{"~/.bashrc", "~/.zshrc"}, opts)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t,
		[]string{"add", "--template", "--recursive=false", "--create", "~/.bashrc", "~/.zshrc"},
		runner.calls[0])
}

func TestAddWithNoOptionsPassesOnlyTargets(t *testing.T) {
	runner := &fakeRunner{result: Result{}}
	client := newTestClient(t, runner)

	_, err := client.Add(context.Background(), []string{"~/.vimrc"}, AddOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "~/.vimrc"}, runner.calls[0])
}

func TestAddNonZeroExitRaisesCommandError(t *testing.T) {
	runner := &fakeRunner{result: Result{Stderr: "chezmoi: file already in source state", ExitCode: 1}}
	client := newTestClient(t, runner)

	_, err := client.Add(context.Background(), []string{"~/.bashrc"}, AddOptions{})
	require.Error(t, err)

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "chezmoi: file already in source state", ce.Stderr)
	assert.Equal(t, 1, ce.ExitCode)
}

func TestDiffToleratesNonZeroExit(t *testing.T) {
	runner := &fakeRunner{result: Result{Stdout: "partial diff\n", ExitCode: 2}}
	client := newTestClient(t, runner)

	out, err := client.Diff(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "partial diff\n", out)
}

func TestDiffScopesToTarget(t *testing.T) {
	runner := &fakeRunner{result: Result{}}
	client := newTestClient(t, runner)

	_, err := client.Diff(context.Background(), "~/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, []string{"diff", "~/.bashrc"}, runner.calls[0])

	_, err = client.Diff(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"diff"}, runner.calls[1])
}

func TestManagedParsesLines(t *testing.T) {
	runner := &fakeRunner{result: Result{Stdout: "a\nb\n\n c \n"}}
	client := newTestClient(t, runner)

	paths, err := client.Managed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, paths)
}

func TestDataDegradesOnBadJSON(t *testing.T) {
	for _, stdout := range []string{"", "   \n", "not json at all", "{broken"} {
		runner := &fakeRunner{result: Result{Stdout: stdout}}
		client := newTestClient(t, runner)

		data, err := client.Data(context.Background())
		require.NoError(t, err, "stdout %q", stdout)
		assert.Empty(t, data, "stdout %q", stdout)
	}
}

func TestDataParsesValidJSON(t *testing.T) {
	runner := &fakeRunner{result: Result{Stdout: `{"chezmoi":{"os":"linux","arch":"amd64"}}`}}
	client := newTestClient(t, runner)

	data, err := client.Data(context.Background())
	require.NoError(t, err)

	inner, ok := data["chezmoi"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "linux", inner["os"])

	// --format json must be requested
	assert.Equal(t, []string{"data", "--format", "json"}, runner.calls[0])
}

func TestCheckInstalledFoldsFailuresToFalse(t *testing.T) {
	cases := []struct {
		name   string
		runner *fakeRunner
		want   bool
	}{
		{"installed", &fakeRunner{result: Result{Stdout: "chezmoi version v2.0.0"}}, true},
		{"missing binary", &fakeRunner{err: exec.ErrNotFound}, false},
		{"non-zero exit", &fakeRunner{result: Result{ExitCode: 1}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.runner)
			assert.Equal(t, tc.want, client.CheckInstalled(context.Background()))
		})
	}
}

func TestVersionMissingBinaryIsNotFound(t *testing.T) {
	runner := &fakeRunner{err: exec.ErrNotFound}
	client := newTestClient(t, runner)

	_, err := client.Version(context.Background())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestTimeoutIsDistinctError(t *testing.T) {
	runner := &fakeRunner{err: context.DeadlineExceeded}
	client := newTestClient(t, runner)

	_, err := client.Apply(context.Background(), nil, ApplyOptions{})
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
}

func TestApplyFlags(t *testing.T) {
	runner := &fakeRunner{result: Result{}}
	client := newTestClient(t, runner)

	_, err := client.Apply(context.Background(), []string{"~/.bashrc"}, ApplyOptions{DryRun: true, Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"apply", "--verbose", "--dry-run", "~/.bashrc"}, runner.calls[0])
}

func TestUpdateNoApply(t *testing.T) {
	runner := &fakeRunner{result: Result{}}
	client := newTestClient(t, runner)

	_, err := client.Update(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"update", "--no-apply"}, runner.calls[0])

	_, err = client.Update(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"update"}, runner.calls[1])
}

func TestIsManagedResolvesPaths(t *testing.T) {
	home := t.TempDir()
	target := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(target, []byte("export PATH\n"), 0644))

	// chezmoi prints managed entries relative to the destination dir
	runner := &fakeRunner{result: Result{Stdout: ".bashrc\n.vimrc\n"}}
	client := NewClient(Options{Runner: runner, HomeDir: home})

	assert.True(t, client.IsManaged(context.Background(), "~/.bashrc"))
	assert.True(t, client.IsManaged(context.Background(), target))
	assert.False(t, client.IsManaged(context.Background(), "~/.zshrc"))
}

func TestIsManagedFoldsFailuresToFalse(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		client := newTestClient(t, &fakeRunner{result: Result{Stdout: ""}})
		assert.False(t, client.IsManaged(context.Background(), "~/.bashrc"))
	})

	t.Run("invocation fails", func(t *testing.T) {
		client := newTestClient(t, &fakeRunner{result: Result{ExitCode: 1, Stderr: "boom"}})
		assert.False(t, client.IsManaged(context.Background(), "~/.bashrc"))
	})

	t.Run("binary missing", func(t *testing.T) {
		client := newTestClient(t, &fakeRunner{err: exec.ErrNotFound})
		assert.False(t, client.IsManaged(context.Background(), "~/.bashrc"))
	})
}

func TestIsManagedFollowsSymlinks(t *testing.T) {
	home := t.TempDir()
	real := filepath.Join(home, "dotfiles", "bashrc")
	require.NoError(t, os.MkdirAll(filepath.Dir(real), 0755))
	require.NoError(t, os.WriteFile(real, []byte("#\n"), 0644))

	link := filepath.Join(home, ".bashrc")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	runner := &fakeRunner{result: Result{Stdout: "dotfiles/bashrc\n"}}
	client := NewClient(Options{Runner: runner, HomeDir: home})

	// the symlink and its destination canonicalize to the same file
	assert.True(t, client.IsManaged(context.Background(), "~/.bashrc"))
}

func TestVerify(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		client := newTestClient(t, &fakeRunner{result: Result{}})
		ok, _ := client.Verify(context.Background())
		assert.True(t, ok)
	})

	t.Run("dirty", func(t *testing.T) {
		client := newTestClient(t, &fakeRunner{result: Result{ExitCode: 1, Stderr: "  .bashrc differs "}})
		ok, out := client.Verify(context.Background())
		assert.False(t, ok)
		assert.Equal(t, ".bashrc differs", out)
	})
}

func TestSourcePathTrimsOutput(t *testing.T) {
	runner := &fakeRunner{result: Result{Stdout: "/home/u/.local/share/chezmoi/dot_bashrc\n"}}
	client := newTestClient(t, runner)

	path, err := client.SourcePath(context.Background(), "~/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.local/share/chezmoi/dot_bashrc", path)
}

func TestSuggestKnownPhrases(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&NotFoundError{Bin: "chezmoi"}, "install chezmoi"},
		{&TimeoutError{}, "taking too long"},
		{&CommandError{Stderr: "chezmoi: ~/.bashrc already in source state"}, "already managed"},
		{&CommandError{Stderr: "open /etc/shadow: permission denied"}, "elevated privileges"},
		{&CommandError{Stderr: "something novel"}, ""},
		{nil, ""},
	}

	for _, tc := range cases {
		hint := Suggest(tc.err)
		if tc.want == "" {
			assert.Empty(t, hint)
		} else {
			assert.Contains(t, hint, tc.want)
		}
	}
}

func TestCommandErrorMessageCarriesStderr(t *testing.T) {
	err := &CommandError{Args: []string{"remove", "x"}, Stderr: "no such file\n", ExitCode: 1}
	assert.Contains(t, err.Error(), "exit 1")
	assert.Contains(t, err.Error(), "no such file")
}

func TestStrictOpsPropagateErrNotFound(t *testing.T) {
	client := newTestClient(t, &fakeRunner{err: errors.New("fork failed")})
	_, err := client.Remove(context.Background(), []string{"x"})
	require.Error(t, err)
}
