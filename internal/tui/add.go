// package tui provides the terminal user interface
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/davrij/chezman/internal/chezmoi"
)

// addFocusZone is which part of the add screen has keyboard focus
type addFocusZone int

const (
	focusInput addFocusZone = iota
	focusOptions
	focusCommon
)

// commonDotfiles are offered for quick selection
var commonDotfiles = []string{
	"~/.bashrc",
	"~/.zshrc",
	"~/.vimrc",
	"~/.gitconfig",
	"~/.ssh/config",
	"~/.tmux.conf",
	"~/.config/nvim/init.vim",
	"~/.config/fish/config.fish",
}

// commonItem implements list.Item for the quick-select list
type commonItem struct {
	path string
}

func (i commonItem) Title() string       { return i.path }
func (i commonItem) Description() string { return "" }
func (i commonItem) FilterValue() string { return i.path }

// addOption pairs a display label with its flag toggle
type addOption struct {
	label string
	flag  string
	on    *bool
}

// buildAddScreen sets up the add form widgets
func (m *Model) buildAddScreen() {
	ti := textinput.New()
	ti.Placeholder = "~/.bashrc"
	ti.Prompt = "path: "
	ti.CharLimit = 512
	m.addInput = ti

	var items []list.Item
	for _, path := range commonDotfiles {
		items = append(items, commonItem{path: path})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = selectedStyle

	m.commonList = list.New(items, delegate, 80, 10)
	m.commonList.Title = ""
	m.commonList.SetShowStatusBar(false)
	m.commonList.SetShowHelp(false)
	m.commonList.SetFilteringEnabled(false)
}

// addOptions returns the toggle rows in display order
// the flag column is what the preview shows, chezmoi takes any combination
func (m *Model) addOptions() []addOption {
	o := &m.addOpts
	return []addOption{
		{"template", "--template", &o.Template},
		{"encrypt", "--encrypt", &o.Encrypt},
		{"no recurse", "--recursive=false", &o.NoRecurse},
		{"exact", "--exact", &o.Exact},
		{"autotemplate", "--autotemplate", &o.AutoTemplate},
		{"follow symlinks", "--follow", &o.Follow},
		{"create", "--create", &o.Create},
		{"prompt", "--prompt", &o.Prompt},
		{"private", "--private", &o.Private},
		{"executable", "--executable", &o.Executable},
		{"readonly", "--readonly", &o.Readonly},
	}
}

// handleAddKey routes keys on the add screen
func (m *Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.addFocus != focusInput {
			m.addFocus = focusInput
			m.addInput.Focus()
			return m, nil
		}
		m.addInput.Blur()
		m.screen = ScreenHome
		return m, nil

	case "tab":
		switch m.addFocus {
		case focusInput:
			m.addFocus = focusOptions
			m.addInput.Blur()
		case focusOptions:
			m.addFocus = focusCommon
		case focusCommon:
			m.addFocus = focusInput
			m.addInput.Focus()
		}
		return m, nil

	case "ctrl+b":
		m.browser = NewFileBrowser(m.client.ResolveTarget("~"), m.width, m.height)
		m.screen = ScreenBrowser
		return m, nil

	case "enter":
		switch m.addFocus {
		case focusCommon:
			if item, ok := m.commonList.SelectedItem().(commonItem); ok {
				m.addInput.SetValue(item.path)
				m.addFocus = focusInput
				m.addInput.Focus()
			}
			return m, nil
		default:
			return m.submitAdd()
		}
	}

	switch m.addFocus {
	case focusOptions:
		opts := m.addOptions()
		switch msg.String() {
		case "up", "k":
			if m.addCursor > 0 {
				m.addCursor--
			}
		case "down", "j":
			if m.addCursor < len(opts)-1 {
				m.addCursor++
			}
		case " ":
			*opts[m.addCursor].on = !*opts[m.addCursor].on
		}
		return m, nil

	case focusCommon:
		var cmd tea.Cmd
		m.commonList, cmd = m.commonList.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		return m, cmd
	}
}

// submitAdd validates the form and kicks off the add
func (m *Model) submitAdd() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.addInput.Value())
	if path == "" {
		m.addErr = errors.New("enter a file path first")
		return m, nil
	}

	m.adding = true
	m.addErr = nil
	m.addResult = ""
	return m, tea.Batch(m.spinner.Tick, m.addCmd(path, m.addOpts))
}

// addCmd runs the already-managed guard and then the add itself
func (m *Model) addCmd(path string, opts chezmoi.AddOptions) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		if client.IsManaged(ctx, path) {
			return addDoneMsg{
				path: path,
				err:  errors.New("this file is already managed by chezmoi - edit it instead"),
			}
		}

		out, err := client.Add(ctx, []string{path}, opts)
		return addDoneMsg{path: path, out: out, err: err}
	}
}

// handleAddDone records the outcome on the form
func (m *Model) handleAddDone(msg addDoneMsg) (tea.Model, tea.Cmd) {
	m.adding = false

	if msg.err != nil {
		m.addErr = msg.err
		return m, nil
	}

	m.addResult = msg.path + " added successfully"
	m.addInput.SetValue("")
	m.addOpts = chezmoi.AddOptions{}
	// the home panel count is stale now
	return m, m.fetchHomeStatus(m.nextSeq(ScreenHome))
}

// viewAdd shows the add form
func (m *Model) viewAdd() string {
	var b strings.Builder

	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("add a file to chezmoi"))
	b.WriteString("\n\n")

	b.WriteString(m.addInput.View())
	b.WriteString("\n\n")

	b.WriteString(formatSubtitle("options"))
	b.WriteString("\n")
	for i, opt := range m.addOptions() {
		marker := "[ ]"
		if *opt.on {
			marker = checkedStyle.Render("[x]")
		}

		cursor := "  "
		if m.addFocus == focusOptions && i == m.addCursor {
			cursor = checkedStyle.Render("› ")
		}
		b.WriteString(fmt.Sprintf("%s%s %-16s %s\n", cursor, marker, opt.label, mutedStyle.Render(opt.flag)))
	}

	b.WriteString("\n")
	b.WriteString(formatSubtitle("common files"))
	b.WriteString("\n")
	b.WriteString(m.commonList.View())
	b.WriteString("\n")

	// preview of the exact invocation
	preview := m.client.Bin() + " add"
	for _, flag := range m.addOpts.Flags() {
		preview += " " + flag
	}
	if path := strings.TrimSpace(m.addInput.Value()); path != "" {
		preview += " " + path
	}
	b.WriteString(mutedStyle.Render("will run: " + preview))
	b.WriteString("\n")

	if m.adding {
		b.WriteString(fmt.Sprintf("\n   %s adding...\n", m.spinner.View()))
	}
	if m.addErr != nil {
		b.WriteString("\n" + formatError(m.addErr.Error()) + "\n")
	}
	if m.addResult != "" {
		b.WriteString("\n" + formatSuccess(m.addResult) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatHelp("enter: add • tab: switch section • space: toggle option • ctrl+b: browse • esc: back"))

	return b.String()
}
