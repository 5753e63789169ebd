// package tui defines shared types and messages for the TUI
package tui

import (
	"github.com/davrij/chezman/internal/doctor"
	"github.com/davrij/chezman/internal/localdiff"
	"github.com/davrij/chezman/internal/repo"
)

// Screen represents different views in the app
type Screen int

const (
	ScreenHome Screen = iota
	ScreenAdd
	ScreenBrowser
	ScreenManaged
	ScreenDrift
	ScreenDiff
	ScreenData
	ScreenDoctor
	ScreenStatus
	ScreenError
)

// confirmKind is which destructive action is awaiting a yes/no
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmApply
	confirmRemove
	confirmUpdate
)

// messages for bubble tea
// fetch results carry the sequence number of the fetch that produced
// them - stale results from a replaced fetch are dropped on arrival
type (
	// homeStatusMsg is sent when the welcome panel data is ready
	homeStatusMsg struct {
		seq          int
		installed    bool
		version      string
		managedCount int
		sourceDir    string
	}

	// managedLoadedMsg is sent when the managed file list is ready
	managedLoadedMsg struct {
		seq   int
		files []string
		err   error
	}

	// diffLoadedMsg is sent when a diff fetch completes
	diffLoadedMsg struct {
		seq    int
		target string
		text   string
		err    error
	}

	// applyDoneMsg is sent when an apply attempt finishes
	applyDoneMsg struct {
		scope string
		out   string
		err   error
	}

	// addDoneMsg is sent when an add attempt finishes
	addDoneMsg struct {
		path string
		out  string
		err  error
	}

	// removeDoneMsg is sent when a remove attempt finishes
	removeDoneMsg struct {
		path string
		err  error
	}

	// driftLoadedMsg is sent when a local drift preview is ready
	driftLoadedMsg struct {
		seq    int
		target string
		result *localdiff.Result
		err    error
	}

	// dataLoadedMsg is sent when template data is ready
	dataLoadedMsg struct {
		seq  int
		data map[string]any
		err  error
	}

	// doctorLoadedMsg is sent when diagnostics are ready
	doctorLoadedMsg struct {
		seq    int
		checks []doctor.CheckResult
		output string
	}

	// verifyDoneMsg is sent when a verify run finishes
	verifyDoneMsg struct {
		ok     bool
		output string
	}

	// updateDoneMsg is sent when a source repo update finishes
	updateDoneMsg struct {
		out string
		err error
	}

	// statusLoadedMsg is sent when the status screen data is ready
	statusLoadedMsg struct {
		seq       int
		text      string
		sourceDir string
		repoInfo  *repo.Info
		err       error
	}

	// exportDoneMsg is sent when a patch export finishes
	exportDoneMsg struct {
		path string
		err  error
	}

	// clipboardDoneMsg is sent when a clipboard copy finishes
	clipboardDoneMsg struct {
		err error
	}

	// browseResultMsg is sent when the file browser picks a file
	browseResultMsg struct {
		path string
	}

	// errorMsg is sent when an operation fails fatally
	errorMsg struct {
		err error
	}
)
