// pattern: Functional Core

package task

import (
	"fmt"
	"regexp"
	"strings"
)

// validKeyRe matches valid issue keys and suffixes: alphanumeric start,
// then alphanumeric, dots, underscores, hyphens.
var validKeyRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// ValidateKey checks an issue key (e.g. "DEV-123").
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("issue key cannot be empty")
	}
	if len(key) > 100 {
		return fmt.Errorf("issue key too long (max 100 characters)")
	}
	if !validKeyRe.MatchString(key) {
		return fmt.Errorf("invalid issue key %q: must start with alphanumeric, may contain a-z A-Z 0-9 . _ -", key)
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("issue key cannot contain '..'")
	}
	return nil
}

// ValidateSuffix checks the extra-worktree suffix. The empty suffix is
// valid: it selects the default directory and branch names.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return nil
	}
	if !validKeyRe.MatchString(suffix) {
		return fmt.Errorf("invalid suffix %q: must start with alphanumeric, may contain a-z A-Z 0-9 . _ -", suffix)
	}
	return nil
}

// Slugify lowercases text and reduces it to hyphen-separated alphanumeric
// runs, for embedding issue titles in directory names.
func Slugify(text string) string {
	s := slugStripRe.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

// DirName derives the task directory name from an issue key and an
// optional slug: the key lowercased, then `-<slug>` when a slug is given.
func DirName(issueKey, slug string) string {
	name := strings.ToLower(issueKey)
	if slug = Slugify(slug); slug != "" {
		name += "-" + slug
	}
	return name
}

// WorktreeDirName is the binding directory name inside a task directory.
// It defaults to the repository name; a suffix yields `<repo>-<suffix>`.
func WorktreeDirName(repoName, suffix string) string {
	if suffix == "" {
		return repoName
	}
	return repoName + "-" + suffix
}

// BranchName is the branch checked out in a binding. It defaults to the
// task directory name; a suffix yields `<task-dir>-<suffix>` so that two
// worktrees of the same repository never share a branch.
func BranchName(taskDirName, suffix string) string {
	if suffix == "" {
		return taskDirName
	}
	return taskDirName + "-" + suffix
}
