// package tui provides the terminal user interface
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/davrij/chezman/internal/chezmoi"
	"github.com/davrij/chezman/internal/diffstat"
)

// startDiffFetch switches to the diff screen and loads the given scope
// empty target means the full diff across all managed files
// every entry here re-invokes the tool - the scoped diff is computed
// per target authoritatively, never filtered from text fetched earlier
func (m *Model) startDiffFetch(target string) (tea.Model, tea.Cmd) {
	m.screen = ScreenDiff
	m.diffTarget = target
	m.diffCursor = -1
	m.notice = ""
	m.diffLoading = true
	return m, tea.Batch(m.spinner.Tick, m.fetchDiff(m.nextSeq(ScreenDiff), target))
}

// fetchDiff asks chezmoi for the diff, scoped or not
// the operation is tolerant - only a missing binary or timeout errors
func (m *Model) fetchDiff(seq int, target string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		text, err := client.Diff(context.Background(), target)
		return diffLoadedMsg{seq: seq, target: target, text: text, err: err}
	}
}

// setDiff stores diff text and derives everything shown from it
// colorizing is pure on the text, so when a re-fetch comes back with
// the same bytes the rendered form is reused instead of restyling
// every line again
func (m *Model) setDiff(text string) {
	m.diffText = text
	m.diffStats = diffstat.Parse(text)

	rendered, ok := m.renderCache.Get(text)
	if !ok {
		var b strings.Builder
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(formatDiffLine(line))
			b.WriteString("\n")
		}
		rendered = b.String()
		m.renderCache.Add(text, rendered)
	}

	m.diffView.SetContent(rendered)
	m.diffView.GotoTop()
}

// handleDiffLoaded lands a finished diff fetch
func (m *Model) handleDiffLoaded(msg diffLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.current(ScreenDiff, msg.seq) {
		return m, nil
	}

	m.diffLoading = false

	if msg.err != nil {
		m.err = msg.err
		m.prev = ScreenHome
		m.screen = ScreenError
		return m, nil
	}

	m.setDiff(msg.text)
	return m, nil
}

// handleDiffKey routes keys on the diff screen
func (m *Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.applying {
		return m, nil
	}

	switch msg.String() {
	case "r":
		return m.startDiffFetch(m.diffTarget)

	case "a":
		// applying is only offered when there's something to apply
		if strings.TrimSpace(m.diffText) == "" {
			m.notice = mutedStyle.Render("nothing to apply")
			return m, nil
		}
		m.confirming = confirmApply
		return m, nil

	case "e":
		if strings.TrimSpace(m.diffText) == "" {
			m.notice = mutedStyle.Render("nothing to export")
			return m, nil
		}
		return m, m.exportCmd(m.diffText, m.diffTarget)

	case "y":
		if strings.TrimSpace(m.diffText) == "" {
			m.notice = mutedStyle.Render("nothing to copy")
			return m, nil
		}
		return m, m.copyCmd(m.diffText)

	case "tab":
		if len(m.diffStats.Files) > 0 {
			m.diffCursor = (m.diffCursor + 1) % len(m.diffStats.Files)
		}
		return m, nil

	case "shift+tab":
		if n := len(m.diffStats.Files); n > 0 {
			m.diffCursor = (m.diffCursor - 1 + n) % n
		}
		return m, nil

	case "enter":
		// re-query the tool for the selected file - a full re-fetch, the
		// tool computes per-target diffs authoritatively
		if m.diffCursor >= 0 && m.diffCursor < len(m.diffStats.Files) {
			return m.startDiffFetch(m.diffStats.Files[m.diffCursor])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.diffView, cmd = m.diffView.Update(msg)
	return m, cmd
}

// applyCmd runs chezmoi apply for the current scope
// empty target applies everything
func (m *Model) applyCmd(target string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var targets []string
		if target != "" {
			targets = []string{target}
		}
		out, err := client.Apply(context.Background(), targets, chezmoi.ApplyOptions{})
		return applyDoneMsg{scope: target, out: out, err: err}
	}
}

// handleApplyDone lands an apply attempt
// failure keeps the pre-apply diff on screen so nothing is lost
func (m *Model) handleApplyDone(msg applyDoneMsg) (tea.Model, tea.Cmd) {
	m.applying = false

	if msg.err != nil {
		line := warnStyle.Render("apply failed: " + msg.err.Error())
		if hint := chezmoi.Suggest(msg.err); hint != "" {
			line += "\n" + mutedStyle.Render("hint: "+hint)
		}
		m.notice = line
		return m, nil
	}

	if msg.scope != "" {
		m.notice = formatSuccess("applied " + msg.scope)
	} else {
		m.notice = formatSuccess("all changes applied")
	}

	// the screen is stale now - go back to the full diff
	m.diffTarget = ""
	m.diffCursor = -1
	m.diffLoading = true
	return m, tea.Batch(
		m.spinner.Tick,
		m.fetchDiff(m.nextSeq(ScreenDiff), ""),
		m.fetchHomeStatus(m.nextSeq(ScreenHome)),
	)
}

// exportCmd writes the diff text to a timestamped patch file
func (m *Model) exportCmd(text, scope string) tea.Cmd {
	exporter := m.exporter
	return func() tea.Msg {
		meta, err := exporter.Export(text, scope)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: meta.Path}
	}
}

// copyCmd puts the diff text on the system clipboard
func (m *Model) copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardDoneMsg{err: clipboard.WriteAll(text)}
	}
}

// viewDiff shows the diff screen
func (m *Model) viewDiff() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	if m.diffTarget != "" {
		b.WriteString(formatSubtitle("diff: " + m.diffTarget))
	} else {
		b.WriteString(formatSubtitle("pending changes"))
	}
	b.WriteString("\n\n")

	if m.diffLoading {
		b.WriteString(fmt.Sprintf("   %s computing diff...\n", m.spinner.View()))
		return b.String()
	}

	if strings.TrimSpace(m.diffText) == "" {
		b.WriteString(formatSuccess("no pending changes - target state matches source state"))
		b.WriteString("\n")
		if m.notice != "" {
			b.WriteString("\n" + m.notice + "\n")
		}
		b.WriteString("\n")
		b.WriteString(formatHelp("r: refresh • esc: back • q: quit"))
		return b.String()
	}

	stats := m.diffStats
	b.WriteString(fmt.Sprintf("%d file(s)  %s  %s  net %+d\n",
		len(stats.Files),
		diffAddStyle.Render(fmt.Sprintf("+%d", stats.Additions)),
		diffDelStyle.Render(fmt.Sprintf("-%d", stats.Deletions)),
		stats.Net()))

	if len(stats.Files) > 0 {
		b.WriteString("\n")
		for i, f := range stats.Files {
			cursor := "  "
			if i == m.diffCursor {
				cursor = checkedStyle.Render("› ")
			}
			b.WriteString(cursor + f + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.diffView.View())
	b.WriteString("\n")

	if m.applying {
		b.WriteString(fmt.Sprintf("\n   %s applying...\n", m.spinner.View()))
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("a: apply • tab: select file • enter: scope to file • e: export patch • y: copy • r: refresh • esc: back"))

	return b.String()
}
