// package tui provides the terminal user interface
package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davrij/chezman/internal/chezmoi"
	"github.com/davrij/chezman/internal/config"
	"github.com/davrij/chezman/internal/diffstat"
	"github.com/davrij/chezman/internal/doctor"
	"github.com/davrij/chezman/internal/export"
	"github.com/davrij/chezman/internal/localdiff"
	"github.com/davrij/chezman/internal/repo"
)

// renderCacheSize bounds how many colorized diff renderings we keep
// keyed by the raw text, so entries never go stale
const renderCacheSize = 16

// Model represents the entire app state
type Model struct {
	// current screen
	screen Screen
	prev   Screen

	// configuration and services
	cfg      *config.Config
	client   *chezmoi.Client
	exporter *export.Manager

	// per-screen fetch sequence numbers for single-flight
	seqs map[Screen]int

	// ui state
	spinner spinner.Model
	width   int
	height  int
	err     error
	notice  string

	// home
	homeLoaded   bool
	installed    bool
	version      string
	managedCount int
	sourceDir    string

	// add screen
	addInput   textinput.Model
	addOpts    chezmoi.AddOptions
	addFocus   addFocusZone
	addCursor  int
	commonList list.Model
	addResult  string
	addErr     error
	adding     bool

	// file browser
	browser *FileBrowser

	// managed files
	managedList    list.Model
	managedLoading bool
	removeTarget   string

	// drift preview
	drift       *localdiff.Result
	driftTarget string
	driftLoad   bool

	// diff screen
	diffView    viewport.Model
	diffText    string
	diffTarget  string
	diffStats   diffstat.Stats
	diffLoading bool
	diffCursor  int
	applying    bool
	renderCache *lru.Cache[string, string]

	// confirmation overlay
	confirming confirmKind

	// template data
	dataView    viewport.Model
	dataLoading bool
	dataEmpty   bool

	// doctor
	doctorChecks  []doctor.CheckResult
	doctorOut     string
	doctorLoading bool
	verifyLine    string

	// status
	statusText    string
	statusRepo    *repo.Info
	statusLoading bool
	updating      bool
}

// New creates a new TUI model
func New(cfg *config.Config) (*Model, error) {
	client := chezmoi.NewClient(chezmoi.Options{
		Bin:          cfg.Bin,
		Timeout:      cfg.CommandTimeout,
		ProbeTimeout: cfg.ProbeTimeout,
	})

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	cache, err := lru.New[string, string](renderCacheSize)
	if err != nil {
		return nil, err
	}

	m := &Model{
		screen:      ScreenHome,
		cfg:         cfg,
		client:      client,
		exporter:    export.NewManager(cfg.ExportDir, cfg.ExportPrefix),
		seqs:        make(map[Screen]int),
		spinner:     s,
		renderCache: cache,
		diffCursor:  -1,
	}

	m.buildAddScreen()
	m.buildManagedList()

	return m, nil
}

// nextSeq starts a new fetch for a screen, invalidating in-flight ones
func (m *Model) nextSeq(s Screen) int {
	m.seqs[s]++
	return m.seqs[s]
}

// current reports whether a fetch result is still the latest for its screen
func (m *Model) current(s Screen, seq int) bool {
	return m.seqs[s] == seq
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchHomeStatus(m.nextSeq(ScreenHome)),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case homeStatusMsg:
		if !m.current(ScreenHome, msg.seq) {
			return m, nil
		}
		m.homeLoaded = true
		m.installed = msg.installed
		m.version = msg.version
		m.managedCount = msg.managedCount
		m.sourceDir = msg.sourceDir
		return m, nil

	case managedLoadedMsg:
		return m.handleManagedLoaded(msg)

	case diffLoadedMsg:
		return m.handleDiffLoaded(msg)

	case applyDoneMsg:
		return m.handleApplyDone(msg)

	case addDoneMsg:
		return m.handleAddDone(msg)

	case removeDoneMsg:
		return m.handleRemoveDone(msg)

	case driftLoadedMsg:
		return m.handleDriftLoaded(msg)

	case dataLoadedMsg:
		return m.handleDataLoaded(msg)

	case doctorLoadedMsg:
		if !m.current(ScreenDoctor, msg.seq) {
			return m, nil
		}
		m.doctorLoading = false
		m.doctorChecks = msg.checks
		m.doctorOut = msg.output
		return m, nil

	case verifyDoneMsg:
		if msg.ok {
			m.verifyLine = formatSuccess("verify passed - target state matches source state")
		} else {
			out := msg.output
			if out == "" {
				out = "target state differs from source state"
			}
			m.verifyLine = warnStyle.Render("verify failed: " + out)
		}
		return m, nil

	case statusLoadedMsg:
		return m.handleStatusLoaded(msg)

	case updateDoneMsg:
		return m.handleUpdateDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			// non-fatal, the diff view stays up
			m.notice = warnStyle.Render("export failed: " + msg.err.Error())
		} else {
			m.notice = formatSuccess("exported to " + msg.path)
		}
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.notice = warnStyle.Render("copy failed: " + msg.err.Error())
		} else {
			m.notice = formatSuccess("diff copied to clipboard")
		}
		return m, nil

	case browseResultMsg:
		m.screen = ScreenAdd
		m.browser = nil
		if msg.path != "" {
			m.addInput.SetValue(msg.path)
		}
		m.addFocus = focusInput
		m.addInput.Focus()
		return m, nil

	case errorMsg:
		m.err = msg.err
		m.prev = m.screen
		m.screen = ScreenError
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// handleKey routes key presses
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// confirmation overlay swallows everything except yes/no
	if m.confirming != confirmNone {
		return m.handleConfirmKey(msg)
	}

	// the add screen owns most keys while typing
	if m.screen == ScreenAdd {
		return m.handleAddKey(msg)
	}

	if m.screen == ScreenBrowser {
		return m.handleBrowserKey(msg)
	}

	// an active list filter owns the keyboard - q and esc belong to it
	if m.screen == ScreenManaged && m.managedList.FilterState() == list.Filtering {
		return m.handleManagedKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		// q quits everywhere except text entry, handled above
		return m, tea.Quit
	case "esc":
		return m.handleBack()
	}

	switch m.screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenManaged:
		return m.handleManagedKey(msg)
	case ScreenDrift:
		return m.handleDriftKey(msg)
	case ScreenDiff:
		return m.handleDiffKey(msg)
	case ScreenData:
		return m.handleDataKey(msg)
	case ScreenDoctor:
		return m.handleDoctorKey(msg)
	case ScreenStatus:
		return m.handleStatusKey(msg)
	}

	return m, nil
}

// handleBack pops to the logical previous screen
func (m *Model) handleBack() (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenHome:
		return m, tea.Quit
	case ScreenDrift:
		m.screen = ScreenManaged
	case ScreenBrowser:
		m.screen = ScreenAdd
		m.browser = nil
	case ScreenDiff:
		// scoped view backs out to the full diff first
		if m.diffTarget != "" {
			return m.startDiffFetch("")
		}
		m.screen = ScreenHome
	case ScreenError:
		m.err = nil
		if m.prev == ScreenError {
			m.screen = ScreenHome
		} else {
			m.screen = m.prev
		}
	default:
		m.screen = ScreenHome
	}
	return m, nil
}

// handleConfirmKey resolves a pending yes/no
func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		kind := m.confirming
		m.confirming = confirmNone
		switch kind {
		case confirmApply:
			m.applying = true
			return m, tea.Batch(m.spinner.Tick, m.applyCmd(m.diffTarget))
		case confirmRemove:
			target := m.removeTarget
			m.removeTarget = ""
			return m, tea.Batch(m.spinner.Tick, m.removeCmd(target))
		case confirmUpdate:
			m.updating = true
			return m, tea.Batch(m.spinner.Tick, m.updateCmd())
		}
	case "n", "N", "esc":
		m.confirming = confirmNone
		m.removeTarget = ""
		m.notice = mutedStyle.Render("cancelled")
	}
	return m, nil
}

// updateFocused forwards non-key messages to the active component
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenAdd:
		m.addInput, cmd = m.addInput.Update(msg)
	case ScreenManaged:
		m.managedList, cmd = m.managedList.Update(msg)
	case ScreenDiff:
		m.diffView, cmd = m.diffView.Update(msg)
	case ScreenData:
		m.dataView, cmd = m.dataView.Update(msg)
	case ScreenBrowser:
		if m.browser != nil {
			m.browser, cmd = m.browser.Update(msg)
		}
	}
	return m, cmd
}

// resize propagates terminal dimensions to components
func (m *Model) resize() {
	listHeight := m.height - 10
	if listHeight < 5 {
		listHeight = 5
	}

	m.managedList.SetSize(m.width-4, listHeight)
	m.commonList.SetSize(m.width-4, 10)

	viewHeight := m.height - 12
	if viewHeight < 5 {
		viewHeight = 5
	}
	m.diffView.Width = m.width - 4
	m.diffView.Height = viewHeight
	m.dataView.Width = m.width - 4
	m.dataView.Height = viewHeight

	if m.browser != nil {
		m.browser.SetSize(m.width, m.height)
	}
}

// View renders the UI
func (m *Model) View() string {
	var body string

	switch m.screen {
	case ScreenHome:
		body = m.viewHome()
	case ScreenAdd:
		body = m.viewAdd()
	case ScreenBrowser:
		body = m.viewBrowser()
	case ScreenManaged:
		body = m.viewManaged()
	case ScreenDrift:
		body = m.viewDrift()
	case ScreenDiff:
		body = m.viewDiff()
	case ScreenData:
		body = m.viewData()
	case ScreenDoctor:
		body = m.viewDoctor()
	case ScreenStatus:
		body = m.viewStatus()
	case ScreenError:
		body = m.viewError()
	default:
		body = "unknown screen"
	}

	if m.confirming != confirmNone {
		body += "\n" + m.viewConfirm()
	}

	return body
}

// viewError shows a fatal operation failure with a hint when we have one
func (m *Model) viewError() string {
	out := formatTitle("chezman") + "\n\n"

	if m.err == nil {
		out += formatError("an unknown error occurred")
	} else {
		out += formatError(m.err.Error())
		if hint := chezmoi.Suggest(m.err); hint != "" {
			out += "\n\n" + warnStyle.Render("hint: "+hint)
		}
	}

	out += "\n\n" + formatHelp("esc: back • q: quit")
	return out
}

// viewConfirm renders the yes/no overlay
func (m *Model) viewConfirm() string {
	var text string
	switch m.confirming {
	case confirmApply:
		if m.diffTarget != "" {
			text = "Apply pending changes to " + m.diffTarget + "?"
		} else {
			text = "Apply all pending changes to your system?"
		}
	case confirmRemove:
		text = "Remove " + m.removeTarget + " from chezmoi management?"
	case confirmUpdate:
		text = "Pull the source repo and apply the result?"
	}

	return confirmBoxStyle.Render(text + "\n\n" + formatHelp("y: confirm • n: cancel"))
}

// Run starts the TUI application
func Run(cfg *config.Config) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
