// package localdiff previews drift between a chezmoi source file and
// its target on disk, without shelling out
package localdiff

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how much unchanged text survives around a change
const contextLines = 2

// newFilePreviewLines caps the preview of a not-yet-applied file
const newFilePreviewLines = 20

// Result represents the comparison of one source/target pair
type Result struct {
	SourcePath  string
	TargetPath  string
	Diff        string
	IsNew       bool // target doesn't exist on disk yet
	IsIdentical bool
}

// Compare reads both files and renders a readable line-level diff
// source is what chezmoi holds, target is what's on disk; dotfiles
// change by whole lines, so the diff runs in line mode rather than
// character mode
func Compare(sourcePath, targetPath string) (*Result, error) {
	result := &Result{
		SourcePath: sourcePath,
		TargetPath: targetPath,
	}

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("couldn't read source file: %w", err)
	}

	targetData, err := os.ReadFile(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.IsNew = true
			result.Diff = formatNewFile(string(sourceData))
			return result, nil
		}
		return nil, fmt.Errorf("couldn't read target file: %w", err)
	}

	sourceStr := string(sourceData)
	targetStr := string(targetData)

	if sourceStr == targetStr {
		result.IsIdentical = true
		return result, nil
	}

	// map each distinct line to a rune, diff the rune strings, then
	// translate back - the standard line-mode recipe for this library
	dmp := diffmatchpatch.New()
	targetChars, sourceChars, lineTable := dmp.DiffLinesToChars(targetStr, sourceStr)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(targetChars, sourceChars, false), lineTable)

	result.Diff = render(diffs)
	return result, nil
}

// render turns line-mode diff chunks into prefixed display lines
// long unchanged stretches collapse to their first and last couple of
// lines around a ... marker
func render(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder

	for _, d := range diffs {
		lines := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writeLines(&b, "+ ", lines)
		case diffmatchpatch.DiffDelete:
			writeLines(&b, "- ", lines)
		case diffmatchpatch.DiffEqual:
			if len(lines) > contextLines*2+1 {
				writeLines(&b, "  ", lines[:contextLines])
				b.WriteString("  ...\n")
				writeLines(&b, "  ", lines[len(lines)-contextLines:])
			} else {
				writeLines(&b, "  ", lines)
			}
		}
	}

	return b.String()
}

// splitLines breaks chunk text into lines without a trailing phantom
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// writeLines emits each line under the given prefix
func writeLines(b *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// formatNewFile previews a file that doesn't exist on disk yet
func formatNewFile(content string) string {
	var b strings.Builder
	b.WriteString("target doesn't exist yet\n\n")

	lines := splitLines(content)
	shown := lines
	if len(lines) > newFilePreviewLines {
		shown = lines[:newFilePreviewLines]
	}

	writeLines(&b, "+ ", shown)
	if hidden := len(lines) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "\n... and %d more lines", hidden)
	}

	return b.String()
}

// Stats counts the prefixed lines in a rendered result
func Stats(result *Result) (additions, deletions int) {
	if result.IsNew || result.IsIdentical {
		return 0, 0
	}

	for _, line := range strings.Split(result.Diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+ "):
			additions++
		case strings.HasPrefix(line, "- "):
			deletions++
		}
	}

	return additions, deletions
}
