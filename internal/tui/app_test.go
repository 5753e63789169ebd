// package tui contains flow tests for the screen state machine
// models are driven by messages directly - no subprocess ever runs
package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrij/chezman/internal/config"
)

const sampleDiff = `diff --git a/.bashrc b/.bashrc
--- a/.bashrc
+++ b/.bashrc
+alias ll='ls -l'
diff --git a/.vimrc b/.vimrc
--- a/.vimrc
+++ b/.vimrc
-set nocompatible
`

// newTestModel builds a model wired to a throwaway export dir
// the configured binary doesn't exist, which is fine - these tests never
// execute a fetch command, they feed result messages in by hand
func newTestModel(t *testing.T) *Model {
	t.Helper()

	m, err := New(&config.Config{
		Bin:            "chezmoi-test-does-not-exist",
		CommandTimeout: time.Second,
		ProbeTimeout:   time.Second,
		ExportDir:      t.TempDir(),
		ExportPrefix:   "chezman",
	})
	require.NoError(t, err)
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDiffLoadedDerivesStats(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff

	seq := m.nextSeq(ScreenDiff)
	m.Update(diffLoadedMsg{seq: seq, text: sampleDiff})

	assert.Equal(t, sampleDiff, m.diffText)
	assert.Equal(t, []string{".bashrc", ".vimrc"}, m.diffStats.Files)
	assert.Equal(t, 1, m.diffStats.Additions)
	assert.Equal(t, 1, m.diffStats.Deletions)
	assert.False(t, m.diffLoading)
}

func TestStaleDiffFetchIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.diffLoading = true

	stale := m.nextSeq(ScreenDiff)
	current := m.nextSeq(ScreenDiff)

	m.Update(diffLoadedMsg{seq: stale, text: "old text"})
	assert.Empty(t, m.diffText, "stale result must be discarded")
	assert.True(t, m.diffLoading)

	m.Update(diffLoadedMsg{seq: current, text: sampleDiff})
	assert.Equal(t, sampleDiff, m.diffText)
	assert.False(t, m.diffLoading)
}

func TestApplyGatedOnEmptyDiff(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.setDiff("")

	_, cmd := m.handleDiffKey(key("a"))

	assert.Nil(t, cmd, "empty diff must not invoke the subprocess")
	assert.Equal(t, confirmNone, m.confirming)
	assert.Contains(t, m.notice, "nothing to apply")
}

func TestApplyRequiresConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.setDiff(sampleDiff)

	_, cmd := m.handleDiffKey(key("a"))
	assert.Nil(t, cmd)
	assert.Equal(t, confirmApply, m.confirming)
	assert.False(t, m.applying)

	// declining leaves everything as it was
	m.handleConfirmKey(key("n"))
	assert.Equal(t, confirmNone, m.confirming)
	assert.False(t, m.applying)

	// confirming kicks off the apply
	m.handleDiffKey(key("a"))
	_, cmd = m.handleConfirmKey(key("y"))
	assert.NotNil(t, cmd)
	assert.True(t, m.applying)
}

func TestApplyFailureKeepsDiffView(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.setDiff(sampleDiff)
	m.applying = true

	m.Update(applyDoneMsg{err: assert.AnError})

	assert.Equal(t, ScreenDiff, m.screen)
	assert.Equal(t, sampleDiff, m.diffText, "pre-apply diff must survive a failed apply")
	assert.False(t, m.applying)
	assert.Contains(t, m.notice, "apply failed")
}

func TestApplySuccessReturnsToUnscopedDiff(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.setDiff(sampleDiff)
	m.diffTarget = "~/.bashrc"
	m.applying = true

	_, cmd := m.Update(applyDoneMsg{scope: "~/.bashrc"})

	assert.Empty(t, m.diffTarget, "post-apply view is the full diff")
	assert.True(t, m.diffLoading)
	assert.NotNil(t, cmd, "a refresh fetch must start")
}

func TestScopedBackReturnsToFullDiff(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.diffTarget = "~/.bashrc"

	_, cmd := m.handleBack()

	assert.Equal(t, ScreenDiff, m.screen)
	assert.Empty(t, m.diffTarget)
	assert.NotNil(t, cmd, "backing out of a scope re-fetches the full diff")
}

func TestDiffFileSelection(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	seq := m.nextSeq(ScreenDiff)
	m.Update(diffLoadedMsg{seq: seq, text: sampleDiff})

	// tab cycles through changed files
	m.handleDiffKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.diffCursor)
	m.handleDiffKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.diffCursor)
	m.handleDiffKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.diffCursor)

	// enter scopes to the selected file
	_, cmd := m.handleDiffKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ".bashrc", m.diffTarget)
	assert.NotNil(t, cmd)
}

func TestFileSelectionAlwaysRefetches(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	seq := m.nextSeq(ScreenDiff)
	m.Update(diffLoadedMsg{seq: seq, text: sampleDiff})

	// scope to a file once
	m.handleDiffKey(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.handleDiffKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.diffLoading)

	// land the scoped result, then select the same file again - the
	// tool computes scoped diffs authoritatively, so a repeat selection
	// still starts a fresh fetch even though the text was seen before
	m.Update(diffLoadedMsg{seq: m.seqs[ScreenDiff], target: ".bashrc", text: sampleDiff})
	m.handleDiffKey(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd = m.handleDiffKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd, "re-selecting a file must re-invoke the tool")
	assert.True(t, m.diffLoading)
}

func TestSetDiffMemoizesRendering(t *testing.T) {
	m := newTestModel(t)

	m.setDiff(sampleDiff)
	assert.True(t, m.renderCache.Contains(sampleDiff))

	// the same bytes come back after a re-fetch - rendering is reused,
	// the derived state is identical
	m.setDiff(sampleDiff)
	assert.Equal(t, sampleDiff, m.diffText)
	assert.Equal(t, []string{".bashrc", ".vimrc"}, m.diffStats.Files)
}

func TestManagedFilterOwnsKeys(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenManaged
	seq := m.nextSeq(ScreenManaged)
	m.Update(managedLoadedMsg{seq: seq, files: []string{".bashrc", ".vimrc"}})

	// start typing a filter
	m.handleKey(key("/"))
	require.Equal(t, list.Filtering, m.managedList.FilterState())

	// q is a filter character while typing, not quit
	_, cmd := m.handleKey(key("q"))
	assert.Equal(t, ScreenManaged, m.screen)
	assert.Equal(t, "q", m.managedList.FilterInput.Value())
	if cmd != nil {
		assert.NotEqual(t, tea.Quit(), cmd())
	}

	// esc cancels the filter instead of leaving the screen
	m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenManaged, m.screen)
	assert.NotEqual(t, list.Filtering, m.managedList.FilterState())
}

func TestManagedLoadedFillsList(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenManaged
	m.managedLoading = true

	seq := m.nextSeq(ScreenManaged)
	m.Update(managedLoadedMsg{seq: seq, files: []string{".bashrc", ".vimrc"}})

	assert.False(t, m.managedLoading)
	assert.Len(t, m.managedList.Items(), 2)
}

func TestErrorScreenRemembersOrigin(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenManaged

	seq := m.nextSeq(ScreenManaged)
	m.Update(managedLoadedMsg{seq: seq, err: assert.AnError})

	assert.Equal(t, ScreenError, m.screen)

	m.handleBack()
	assert.Equal(t, ScreenHome, m.screen)
	assert.Nil(t, m.err)
}

func TestRenderValueWalksArbitraryNesting(t *testing.T) {
	data := map[string]any{
		"chezmoi": map[string]any{
			"os": "linux",
			"kernel": map[string]any{
				"version": float64(6),
			},
		},
		"tags":    []any{"work", "laptop", map[string]any{"nested": true}},
		"empty":   nil,
		"count":   float64(3.5),
		"enabled": true,
	}

	var b strings.Builder
	renderValue(&b, data, 0)
	out := b.String()

	assert.Contains(t, out, "os")
	assert.Contains(t, out, "linux")
	assert.Contains(t, out, "version")
	assert.Contains(t, out, "- work")
	assert.Contains(t, out, "nested")
	assert.Contains(t, out, "null")
	assert.Contains(t, out, "3.5")
	// whole numbers lose the trailing .0
	assert.Contains(t, out, "version: 6")
}

func TestConfirmOverlaySwallowsOtherKeys(t *testing.T) {
	m := newTestModel(t)
	m.screen = ScreenDiff
	m.setDiff(sampleDiff)
	m.confirming = confirmApply

	// a stray key neither confirms nor cancels
	m.handleKey(key("x"))
	assert.Equal(t, confirmApply, m.confirming)

	m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, confirmNone, m.confirming)
}
