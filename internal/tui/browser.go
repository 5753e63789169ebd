// package tui provides a file browser for picking a dotfile to add
package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// browserEntry represents a file or directory in the browser
type browserEntry struct {
	name  string
	path  string
	isDir bool
}

// FilterValue implements list.Item
func (e browserEntry) FilterValue() string { return e.name }

// Title implements list.DefaultItem
func (e browserEntry) Title() string {
	if e.isDir {
		return e.name + "/"
	}
	return e.name
}

// Description implements list.DefaultItem
func (e browserEntry) Description() string { return "" }

// FileBrowser navigates the home directory to pick a file
type FileBrowser struct {
	rootPath    string
	currentPath string
	list        list.Model
}

// NewFileBrowser creates a browser rooted at the given directory
func NewFileBrowser(rootPath string, width, height int) *FileBrowser {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = selectedStyle

	l := list.New([]list.Item{}, delegate, width-4, height-10)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	b := &FileBrowser{
		rootPath:    rootPath,
		currentPath: rootPath,
		list:        l,
	}

	b.loadDirectory(rootPath)
	return b
}

// loadDirectory reads a directory into the list
// dotfiles are the whole point here, so hidden entries stay visible
func (b *FileBrowser) loadDirectory(path string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		b.list.SetItems([]list.Item{})
		return
	}

	items := []list.Item{}

	if path != b.rootPath {
		items = append(items, browserEntry{
			name:  "..",
			path:  filepath.Dir(path),
			isDir: true,
		})
	}

	var dirs, files []browserEntry
	for _, entry := range entries {
		// .git inside config dirs is noise, everything else shows
		if entry.Name() == ".git" {
			continue
		}

		be := browserEntry{
			name:  entry.Name(),
			path:  filepath.Join(path, entry.Name()),
			isDir: entry.IsDir(),
		}

		if entry.IsDir() {
			dirs = append(dirs, be)
		} else {
			files = append(files, be)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	for _, d := range dirs {
		items = append(items, d)
	}
	for _, f := range files {
		items = append(items, f)
	}

	b.list.SetItems(items)
	b.currentPath = path
	b.updateTitle()
}

// updateTitle shows where we are relative to the root
func (b *FileBrowser) updateTitle() {
	relPath, err := filepath.Rel(b.rootPath, b.currentPath)
	if err != nil || relPath == "." {
		relPath = "~"
	} else {
		relPath = "~/" + relPath
	}
	b.list.Title = "browse: " + relPath
}

// SetSize resizes the embedded list
func (b *FileBrowser) SetSize(width, height int) {
	b.list.SetSize(width-4, height-10)
}

// Update handles messages
func (b *FileBrowser) Update(msg tea.Msg) (*FileBrowser, tea.Cmd) {
	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return b, cmd
}

// Selected returns the entry under the cursor, if any
func (b *FileBrowser) Selected() (browserEntry, bool) {
	item, ok := b.list.SelectedItem().(browserEntry)
	return item, ok
}

// Enter navigates into a directory or picks a file
// returns the chosen file path, or "" if we just navigated
func (b *FileBrowser) Enter() string {
	entry, ok := b.Selected()
	if !ok {
		return ""
	}

	if entry.isDir {
		b.loadDirectory(entry.path)
		return ""
	}

	return entry.path
}

// View renders the browser
func (b *FileBrowser) View() string {
	var view strings.Builder
	view.WriteString(b.list.View())
	view.WriteString("\n")
	view.WriteString(formatHelp("enter: open / pick file • esc: cancel"))
	return view.String()
}

// handleBrowserKey routes keys while the browser is up
func (m *Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browser == nil {
		m.screen = ScreenAdd
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.screen = ScreenAdd
		m.browser = nil
		m.addInput.Focus()
		return m, nil
	case "enter":
		if picked := m.browser.Enter(); picked != "" {
			return m, func() tea.Msg { return browseResultMsg{path: picked} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// viewBrowser shows the file browser screen
func (m *Model) viewBrowser() string {
	if m.browser == nil {
		return "browser not initialized"
	}

	var b strings.Builder
	b.WriteString(formatTitle("chezman"))
	b.WriteString("\n")
	b.WriteString(formatSubtitle("pick a file to add"))
	b.WriteString("\n\n")
	b.WriteString(m.browser.View())
	return b.String()
}
