// pattern: Functional Core

package registry

import (
	"bufio"
	"strings"
)

// Entry is one record from `git worktree list --porcelain` output.
// Fields that are absent in the output stay at their zero value.
type Entry struct {
	// Path is the absolute worktree path from the `worktree` line.
	Path string
	// Head is the commit hash from the `HEAD` line.
	Head string
	// Branch is the checked-out branch with the refs/heads/ prefix
	// stripped. Empty for detached or bare entries; an empty Branch
	// never matches any branch name.
	Branch string
	// Bare is set for the bare main entry of a bare repository.
	Bare bool
	// Detached is set when the worktree has no branch checked out.
	Detached bool
	// Prunable is set when git has flagged the entry's path as gone
	// or otherwise invalid.
	Prunable bool
	// PrunableReason carries the optional reason text after the
	// `prunable` marker.
	PrunableReason string
}

// HasBranch reports whether the entry is checked out on the named branch.
// Entries without a branch (bare, detached, malformed) match nothing.
func (e Entry) HasBranch(branch string) bool {
	return e.Branch != "" && e.Branch == branch
}

const branchRefPrefix = "refs/heads/"

// Parse converts the porcelain output of `git worktree list` into entries.
// The format is line-oriented with blank-line-separated records:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	<blank line>
//
// A `prunable` line (bare or with reason text after a space) marks the
// record stale. Unrecognized lines are ignored. A trailing record without
// a terminating blank line is still captured. Parse never fails: malformed
// input simply yields entries with unset fields.
func Parse(output string) []Entry {
	var entries []Entry
	var current *Entry

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			// A new `worktree` line without a preceding blank line
			// still starts a fresh record.
			flush()
			current = &Entry{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			// Attribute lines before any worktree line carry no meaning.
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, branchRefPrefix)
		case line == "bare":
			current.Bare = true
		case line == "detached":
			current.Detached = true
		case line == "prunable":
			current.Prunable = true
		case strings.HasPrefix(line, "prunable "):
			current.Prunable = true
			current.PrunableReason = strings.TrimPrefix(line, "prunable ")
		}
	}

	// Sentinel blank line for the last record
	flush()

	return entries
}

// ForBranch returns the entries checked out on the named branch.
func ForBranch(entries []Entry, branch string) []Entry {
	var matched []Entry
	for _, e := range entries {
		if e.HasBranch(branch) {
			matched = append(matched, e)
		}
	}
	return matched
}
