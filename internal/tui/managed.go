// package tui provides the terminal user interface
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/davrij/chezman/internal/localdiff"
)

// managedItem implements list.Item for managed target paths
type managedItem struct {
	path string
}

func (i managedItem) Title() string       { return i.path }
func (i managedItem) Description() string { return "" }
func (i managedItem) FilterValue() string { return i.path }

// buildManagedList sets up the managed files list widget
func (m *Model) buildManagedList() {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = selectedStyle

	m.managedList = list.New([]list.Item{}, delegate, 80, 20)
	m.managedList.Title = ""
	m.managedList.SetShowStatusBar(false)
	m.managedList.SetShowHelp(false)
	m.managedList.SetFilteringEnabled(true)
}

// fetchManaged loads the managed file list
func (m *Model) fetchManaged(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		files, err := client.Managed(context.Background())
		return managedLoadedMsg{seq: seq, files: files, err: err}
	}
}

// handleManagedLoaded fills the list when a fetch lands
func (m *Model) handleManagedLoaded(msg managedLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.current(ScreenManaged, msg.seq) {
		return m, nil
	}

	m.managedLoading = false

	if msg.err != nil {
		m.err = msg.err
		m.prev = ScreenHome
		m.screen = ScreenError
		return m, nil
	}

	items := make([]list.Item, 0, len(msg.files))
	for _, f := range msg.files {
		items = append(items, managedItem{path: f})
	}
	m.managedList.SetItems(items)

	return m, nil
}

// handleManagedKey routes keys on the managed files screen
func (m *Model) handleManagedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// don't steal keys from the list's filter prompt
	if m.managedList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.managedList, cmd = m.managedList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if item, ok := m.managedList.SelectedItem().(managedItem); ok {
			m.screen = ScreenDrift
			m.driftTarget = item.path
			m.drift = nil
			m.driftLoad = true
			return m, tea.Batch(m.spinner.Tick, m.fetchDrift(m.nextSeq(ScreenDrift), item.path))
		}
		return m, nil

	case "x":
		if item, ok := m.managedList.SelectedItem().(managedItem); ok {
			m.removeTarget = item.path
			m.confirming = confirmRemove
		}
		return m, nil

	case "r":
		m.managedLoading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchManaged(m.nextSeq(ScreenManaged)))
	}

	var cmd tea.Cmd
	m.managedList, cmd = m.managedList.Update(msg)
	return m, cmd
}

// removeCmd takes a file out of chezmoi management
func (m *Model) removeCmd(target string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.Remove(context.Background(), []string{target})
		return removeDoneMsg{path: target, err: err}
	}
}

// handleRemoveDone refreshes the list or surfaces the failure
func (m *Model) handleRemoveDone(msg removeDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.prev = ScreenManaged
		m.screen = ScreenError
		return m, nil
	}

	m.notice = formatSuccess(msg.path + " removed")
	m.managedLoading = true
	return m, tea.Batch(
		m.spinner.Tick,
		m.fetchManaged(m.nextSeq(ScreenManaged)),
		m.fetchHomeStatus(m.nextSeq(ScreenHome)),
	)
}

// viewManaged shows the managed files screen
func (m *Model) viewManaged() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("managed files"))
	b.WriteString("\n\n")

	if m.managedLoading {
		b.WriteString(fmt.Sprintf("   %s loading managed files...\n", m.spinner.View()))
		return b.String()
	}

	if len(m.managedList.Items()) == 0 {
		b.WriteString(mutedStyle.Render("no files are managed yet - add one first"))
		b.WriteString("\n\n")
		b.WriteString(formatHelp("r: refresh • esc: back • q: quit"))
		return b.String()
	}

	b.WriteString(m.managedList.View())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("enter: preview drift • x: remove • /: filter • r: refresh • esc: back"))

	return b.String()
}

// fetchDrift compares the source state file against the target on disk
func (m *Model) fetchDrift(seq int, target string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		sourcePath, err := client.SourcePath(ctx, target)
		if err != nil {
			return driftLoadedMsg{seq: seq, target: target, err: err}
		}

		result, err := localdiff.Compare(sourcePath, client.ResolveTarget(target))
		return driftLoadedMsg{seq: seq, target: target, result: result, err: err}
	}
}

// handleDriftLoaded stores a finished drift preview
func (m *Model) handleDriftLoaded(msg driftLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.current(ScreenDrift, msg.seq) {
		return m, nil
	}

	m.driftLoad = false

	if msg.err != nil {
		m.err = msg.err
		m.prev = ScreenManaged
		m.screen = ScreenError
		return m, nil
	}

	m.drift = msg.result
	return m, nil
}

// handleDriftKey routes keys on the drift preview
func (m *Model) handleDriftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.driftLoad = true
		return m, tea.Batch(m.spinner.Tick, m.fetchDrift(m.nextSeq(ScreenDrift), m.driftTarget))
	case "v":
		// jump to the authoritative diff, scoped to this file
		return m.startDiffFetch(m.driftTarget)
	}
	return m, nil
}

// viewDrift shows the local source-vs-target preview for one file
func (m *Model) viewDrift() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("drift: " + m.driftTarget))
	b.WriteString("\n\n")

	if m.driftLoad {
		b.WriteString(fmt.Sprintf("   %s comparing...\n", m.spinner.View()))
		return b.String()
	}

	if m.drift == nil {
		b.WriteString(mutedStyle.Render("nothing to show"))
		b.WriteString("\n\n")
		b.WriteString(formatHelp("esc: back"))
		return b.String()
	}

	switch {
	case m.drift.IsIdentical:
		b.WriteString(formatSuccess("source and target are identical"))
		b.WriteString("\n")
	case m.drift.IsNew:
		b.WriteString(warnStyle.Render("target doesn't exist on disk yet"))
		b.WriteString("\n\n")
		fallthrough
	default:
		adds, dels := localdiff.Stats(m.drift)
		if adds > 0 || dels > 0 {
			b.WriteString(fmt.Sprintf("Changes: +%d additions, -%d deletions\n\n", adds, dels))
		}
		for _, line := range strings.Split(m.drift.Diff, "\n") {
			b.WriteString(formatDiffLine(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("v: full diff for this file • r: refresh • esc: back"))

	return b.String()
}
