// package tui provides the terminal user interface
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// fetchData loads the template data tree
func (m *Model) fetchData(seq int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		data, err := client.Data(context.Background())
		return dataLoadedMsg{seq: seq, data: data, err: err}
	}
}

// handleDataLoaded lands a finished template data fetch
func (m *Model) handleDataLoaded(msg dataLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.current(ScreenData, msg.seq) {
		return m, nil
	}

	m.dataLoading = false

	if msg.err != nil {
		m.err = msg.err
		m.prev = ScreenHome
		m.screen = ScreenError
		return m, nil
	}

	m.dataEmpty = len(msg.data) == 0
	if !m.dataEmpty {
		var b strings.Builder
		renderValue(&b, msg.data, 0)
		m.dataView.SetContent(b.String())
		m.dataView.GotoTop()
	}

	return m, nil
}

// renderValue walks a value of unknown shape and depth
// json gives us maps, slices, strings, float64, bool and nil - anything
// else falls through to %v
func renderValue(b *strings.Builder, value any, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			child := v[k]
			if isScalar(child) {
				b.WriteString(indent + diffHeaderStyle.Render(k) + ": " + renderScalar(child) + "\n")
			} else {
				b.WriteString(indent + diffHeaderStyle.Render(k) + ":\n")
				renderValue(b, child, depth+1)
			}
		}

	case []any:
		for _, item := range v {
			if isScalar(item) {
				b.WriteString(indent + "- " + renderScalar(item) + "\n")
			} else {
				b.WriteString(indent + "-\n")
				renderValue(b, item, depth+1)
			}
		}

	default:
		b.WriteString(indent + renderScalar(v) + "\n")
	}
}

// isScalar reports whether a value renders on a single line
func isScalar(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

// renderScalar formats a leaf value
func renderScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return mutedStyle.Render("null")
	case string:
		return v
	case bool:
		if v {
			return successStyle.Render("true")
		}
		return warnStyle.Render("false")
	case float64:
		// json numbers arrive as float64, show integers without the .0
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// handleDataKey routes keys on the template data screen
func (m *Model) handleDataKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.dataLoading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchData(m.nextSeq(ScreenData)))
	}

	var cmd tea.Cmd
	m.dataView, cmd = m.dataView.Update(msg)
	return m, cmd
}

// viewData shows the template data tree
func (m *Model) viewData() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("template data"))
	b.WriteString("\n\n")

	if m.dataLoading {
		b.WriteString(fmt.Sprintf("   %s loading template data...\n", m.spinner.View()))
		return b.String()
	}

	if m.dataEmpty {
		b.WriteString(mutedStyle.Render("no template data available"))
		b.WriteString("\n\n")
		b.WriteString(formatHelp("r: refresh • esc: back • q: quit"))
		return b.String()
	}

	b.WriteString(m.dataView.View())
	b.WriteString("\n\n")
	b.WriteString(formatHelp("↑/↓: scroll • r: refresh • esc: back"))

	return b.String()
}
