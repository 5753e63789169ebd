// package tui provides the terminal user interface
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/davrij/chezman/internal/doctor"
)

// fetchDoctor probes the local toolchain and runs chezmoi's own doctor
// the doctor op is tolerant - whatever it prints is what we show, and
// nothing here is fatal
func (m *Model) fetchDoctor(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		checks := doctor.CheckAll(doctor.DefaultTools())

		output, err := client.Doctor(ctx)
		if err != nil {
			// missing binary or timeout - the checks above still tell
			// the user something useful
			output = ""
		}

		return doctorLoadedMsg{seq: seq, checks: checks, output: output}
	}
}

// verifyCmd checks that the target state matches the source state
func (m *Model) verifyCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ok, out := client.Verify(context.Background())
		return verifyDoneMsg{ok: ok, output: out}
	}
}

// handleDoctorKey routes keys on the doctor screen
func (m *Model) handleDoctorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.doctorLoading = true
		m.verifyLine = ""
		return m, tea.Batch(m.spinner.Tick, m.fetchDoctor(m.nextSeq(ScreenDoctor)))
	case "V":
		m.verifyLine = mutedStyle.Render("verifying...")
		return m, m.verifyCmd()
	}
	return m, nil
}

// viewDoctor shows the diagnostics screen
func (m *Model) viewDoctor() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("doctor"))
	b.WriteString("\n\n")

	if m.doctorLoading {
		b.WriteString(fmt.Sprintf("   %s running diagnostics...\n", m.spinner.View()))
		return b.String()
	}

	b.WriteString(formatSubtitle("local tools"))
	b.WriteString("\n")
	for _, check := range m.doctorChecks {
		if check.Installed {
			b.WriteString(fmt.Sprintf("  %s %-8s %s\n",
				successStyle.Render("✓"), check.Tool.Name, mutedStyle.Render(check.Version)))
		} else {
			b.WriteString(fmt.Sprintf("  %s %-8s %s\n",
				warnStyle.Render("✗"), check.Tool.Name, mutedStyle.Render("not found - "+check.Tool.Hint)))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatSubtitle("chezmoi doctor"))
	b.WriteString("\n")
	if out := strings.TrimSpace(m.doctorOut); out != "" {
		for _, line := range strings.Split(out, "\n") {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(mutedStyle.Render("  no output"))
		b.WriteString("\n")
	}

	if m.verifyLine != "" {
		b.WriteString("\n" + m.verifyLine + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("V: verify target state • r: re-run • esc: back • q: quit"))

	return b.String()
}
