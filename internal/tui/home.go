// package tui provides the terminal user interface
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// handleHomeKey routes keys on the welcome screen
func (m *Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.screen = ScreenAdd
		m.addResult = ""
		m.addErr = nil
		m.addFocus = focusInput
		m.addInput.Focus()
		return m, nil
	case "m", "f":
		m.screen = ScreenManaged
		m.managedLoading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchManaged(m.nextSeq(ScreenManaged)))
	case "v":
		return m.startDiffFetch("")
	case "t":
		m.screen = ScreenData
		m.dataLoading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchData(m.nextSeq(ScreenData)))
	case "c":
		m.screen = ScreenDoctor
		m.doctorLoading = true
		m.verifyLine = ""
		return m, tea.Batch(m.spinner.Tick, m.fetchDoctor(m.nextSeq(ScreenDoctor)))
	case "s":
		m.screen = ScreenStatus
		m.statusLoading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchStatus(m.nextSeq(ScreenStatus)))
	case "r":
		m.homeLoaded = false
		return m, tea.Batch(m.spinner.Tick, m.fetchHomeStatus(m.nextSeq(ScreenHome)))
	}
	return m, nil
}

// fetchHomeStatus collects the welcome panel data in one background call
func (m *Model) fetchHomeStatus(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		msg := homeStatusMsg{seq: seq}
		msg.installed = client.CheckInstalled(ctx)
		if !msg.installed {
			return msg
		}

		if v, err := client.Version(ctx); err == nil {
			msg.version = v
		}
		if managed, err := client.Managed(ctx); err == nil {
			msg.managedCount = len(managed)
		}
		if dir, err := client.SourcePath(ctx, ""); err == nil {
			msg.sourceDir = dir
		}

		return msg
	}
}

// viewHome shows the welcome screen
func (m *Model) viewHome() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("manage your dotfiles with chezmoi"))
	b.WriteString("\n\n")

	if !m.homeLoaded {
		b.WriteString(fmt.Sprintf("   %s checking chezmoi...\n", m.spinner.View()))
		return b.String()
	}

	if !m.installed {
		b.WriteString(formatError("chezmoi not found - please install it first"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("   visit: https://www.chezmoi.io/install/"))
		b.WriteString("\n\n")
		b.WriteString(formatHelp("r: re-check • q: quit"))
		return b.String()
	}

	b.WriteString(formatSuccess("✓ chezmoi detected"))
	if m.version != "" {
		b.WriteString(mutedStyle.Render("  " + m.version))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Managed files: %d\n", m.managedCount))
	if m.sourceDir != "" {
		b.WriteString("Source directory: " + mutedStyle.Render(m.sourceDir) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatSubtitle("actions"))
	b.WriteString("\n\n")
	b.WriteString("  a  add a file\n")
	b.WriteString("  m  managed files\n")
	b.WriteString("  v  view diff\n")
	b.WriteString("  s  status\n")
	b.WriteString("  t  template data\n")
	b.WriteString("  c  doctor\n")

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("r: refresh • q: quit"))

	return b.String()
}
