// package tui provides the terminal user interface
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davrij/chezman/internal/chezmoi"
	"github.com/davrij/chezman/internal/repo"
)

// fetchStatus loads pending-change status plus source repo info
// the status op is tolerant, so only a missing binary or timeout errors
func (m *Model) fetchStatus(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		text, err := client.Status(ctx, nil)
		if err != nil {
			return statusLoadedMsg{seq: seq, err: err}
		}

		msg := statusLoadedMsg{seq: seq, text: text}

		if dir, err := client.SourcePath(ctx, ""); err == nil {
			msg.sourceDir = dir
			// a source dir without git is fine, chezmoi doesn't require it
			if info, err := repo.Read(dir); err == nil {
				msg.repoInfo = info
			}
		}

		return msg
	}
}

// handleStatusLoaded lands a finished status fetch
func (m *Model) handleStatusLoaded(msg statusLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.current(ScreenStatus, msg.seq) {
		return m, nil
	}

	m.statusLoading = false

	if msg.err != nil {
		m.err = msg.err
		m.prev = ScreenHome
		m.screen = ScreenError
		return m, nil
	}

	m.statusText = msg.text
	m.sourceDir = msg.sourceDir
	m.statusRepo = msg.repoInfo
	return m, nil
}

// handleStatusKey routes keys on the status screen
func (m *Model) handleStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.statusLoading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchStatus(m.nextSeq(ScreenStatus)))
	case "u":
		m.confirming = confirmUpdate
		return m, nil
	case "v":
		return m.startDiffFetch("")
	}
	return m, nil
}

// updateCmd pulls the source repo and applies the result
func (m *Model) updateCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		out, err := client.Update(context.Background(), true)
		return updateDoneMsg{out: out, err: err}
	}
}

// handleUpdateDone lands an update attempt and refreshes the screen
func (m *Model) handleUpdateDone(msg updateDoneMsg) (tea.Model, tea.Cmd) {
	m.updating = false

	if msg.err != nil {
		line := warnStyle.Render("update failed: " + msg.err.Error())
		if hint := chezmoi.Suggest(msg.err); hint != "" {
			line += "\n" + mutedStyle.Render("hint: "+hint)
		}
		m.notice = line
		return m, nil
	}

	m.notice = formatSuccess("source repo updated and applied")
	m.statusLoading = true
	return m, tea.Batch(
		m.spinner.Tick,
		m.fetchStatus(m.nextSeq(ScreenStatus)),
		m.fetchHomeStatus(m.nextSeq(ScreenHome)),
	)
}

// statusLegend explains chezmoi's two-column status codes
var statusLegend = []string{
	"A  added    M  modified    D  deleted    R  run script",
	"first column: last apply    second column: pending change",
}

// viewStatus shows pending changes and source repo state
func (m *Model) viewStatus() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("status"))
	b.WriteString("\n\n")

	if m.statusLoading {
		b.WriteString(fmt.Sprintf("   %s checking status...\n", m.spinner.View()))
		return b.String()
	}

	if text := strings.TrimSpace(m.statusText); text != "" {
		for _, line := range strings.Split(text, "\n") {
			b.WriteString("  " + formatStatusLine(line) + "\n")
		}
		b.WriteString("\n")
		for _, line := range statusLegend {
			b.WriteString("  " + mutedStyle.Render(line) + "\n")
		}
	} else {
		b.WriteString(formatSuccess("everything is up to date"))
		b.WriteString("\n")
	}

	if m.statusRepo != nil {
		b.WriteString("\n")
		b.WriteString(formatSubtitle("source repo"))
		b.WriteString("\n")
		info := m.statusRepo
		switch {
		case info.Missing:
			b.WriteString(mutedStyle.Render("  source directory is not a git repo"))
			b.WriteString("\n")
		case info.Head == "":
			b.WriteString(mutedStyle.Render("  git repo with no commits yet"))
			b.WriteString("\n")
		default:
			b.WriteString(fmt.Sprintf("  branch %s at %s", info.Branch, info.Head))
			if info.Summary != "" {
				b.WriteString(mutedStyle.Render("  " + info.Summary))
			}
			b.WriteString("\n")
			if info.Dirty > 0 {
				b.WriteString(warnStyle.Render(fmt.Sprintf("  %d uncommitted file(s)", info.Dirty)))
				b.WriteString("\n")
			}
		}
	}

	if m.updating {
		b.WriteString(fmt.Sprintf("\n   %s updating...\n", m.spinner.View()))
	}
	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("v: view diff • u: update from repo • r: refresh • esc: back"))

	return b.String()
}

// formatStatusLine colorizes one chezmoi status row by its change codes
func formatStatusLine(line string) string {
	if len(line) < 3 {
		return line
	}

	codes := line[:2]
	rest := line[2:]

	switch {
	case strings.ContainsAny(codes, "D"):
		return diffDelStyle.Render(codes) + rest
	case strings.ContainsAny(codes, "AM"):
		return diffAddStyle.Render(codes) + rest
	default:
		return mutedStyle.Render(codes) + rest
	}
}
