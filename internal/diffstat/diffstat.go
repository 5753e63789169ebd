// package diffstat derives summary statistics from unified diff text
// parsing is heuristic - file headers and line prefixes only, never a
// full patch parser
package diffstat

import (
	"regexp"
	"strings"
)

// fileHeaderRe matches the per-file header chezmoi emits
// the b/ side is what we show - it names the target path
var fileHeaderRe = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)

// Stats summarizes one block of diff text
// derived data, recomputed whenever the text changes
type Stats struct {
	Files     []string // changed files, order of first appearance
	Additions int
	Deletions int
}

// Net is additions minus deletions, may be negative
func (s Stats) Net() int {
	return s.Additions - s.Deletions
}

// Empty reports whether the diff contained no changes at all
func (s Stats) Empty() bool {
	return len(s.Files) == 0 && s.Additions == 0 && s.Deletions == 0
}

// Parse extracts changed files and line counts from diff text
// additions are + lines excluding the +++ file marker, deletions are
// - lines excluding ---
func Parse(text string) Stats {
	var stats Stats

	for _, line := range strings.Split(text, "\n") {
		if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
			stats.Files = append(stats.Files, m[2])
			continue
		}

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// file markers, not content
		case strings.HasPrefix(line, "+"):
			stats.Additions++
		case strings.HasPrefix(line, "-"):
			stats.Deletions++
		}
	}

	return stats
}
