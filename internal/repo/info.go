// package repo reads git state from the chezmoi source directory
package repo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Info summarizes the source repo for display
type Info struct {
	Branch  string
	Head    string // short hash
	Summary string // head commit message, first line only
	Dirty   int    // files with uncommitted changes
	Missing bool   // source dir isn't a git repo
}

// Read opens the repo at dir and collects display info
// a missing repo is a normal condition, not an error - chezmoi works
// fine without git
func Read(dir string) (*Info, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return &Info{Missing: true}, nil
		}
		return nil, fmt.Errorf("couldn't open source repo: %w", err)
	}

	info := &Info{}

	head, err := r.Head()
	if err != nil {
		// repo exists but has no commits yet
		return info, nil
	}

	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	info.Head = head.Hash().String()[:7]

	if commit, err := r.CommitObject(head.Hash()); err == nil {
		info.Summary = firstLine(commit.Message)
	}

	worktree, err := r.Worktree()
	if err != nil {
		return info, nil
	}

	status, err := worktree.Status()
	if err != nil {
		return info, nil
	}

	for _, s := range status {
		if s.Worktree != git.Unmodified || s.Staging != git.Unmodified {
			info.Dirty++
		}
	}

	return info, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
