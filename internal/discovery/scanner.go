// pattern: Imperative Shell

package discovery

import (
	"os"
	"path/filepath"
	"strings"
)

// Scanner discovers repositories and task directories under the
// configured base paths.
type Scanner struct{}

// NewScanner creates a new scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanRepos walks the repos base directory one level deep and returns
// every entry that looks like a git store: it must contain a HEAD file
// and a refs directory. Works for both bare stores (api.git) and plain
// checkouts (api/.git).
func (s *Scanner) ScanRepos(reposDir string) []Repo {
	var repos []Repo
	seen := make(map[string]bool)

	entries, err := os.ReadDir(reposDir)
	if err != nil {
		return nil // Inaccessible base yields no repositories
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		repoPath := filepath.Join(reposDir, entry.Name())

		// Resolve symlinks to get canonical path
		resolved, err := filepath.EvalSymlinks(repoPath)
		if err != nil {
			resolved = repoPath
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		if !isGitStore(resolved) {
			continue
		}

		repos = append(repos, Repo{
			Name: strings.TrimSuffix(entry.Name(), ".git"),
			Path: resolved,
		})
	}

	return repos
}

// ScanTasks returns the immediate subdirectories of the tasks base.
func (s *Scanner) ScanTasks(tasksDir string) []Task {
	var tasks []Task

	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tasks = append(tasks, Task{
			Name: entry.Name(),
			Path: filepath.Join(tasksDir, entry.Name()),
		})
	}

	return tasks
}

// isGitStore checks for the head-reference file and refs directory that
// identify a git object store. A plain checkout qualifies through its
// .git directory.
func isGitStore(path string) bool {
	if hasGitLayout(path) {
		return true
	}
	return hasGitLayout(filepath.Join(path, ".git"))
}

func hasGitLayout(path string) bool {
	if info, err := os.Stat(filepath.Join(path, "HEAD")); err != nil || info.IsDir() {
		return false
	}
	info, err := os.Stat(filepath.Join(path, "refs"))
	return err == nil && info.IsDir()
}

// FindOwner maps a worktree binding directory name to its owning
// repository. The name is either the repository name itself or
// `<repo-name>-<suffix>`; the longest matching repository name wins so
// that a repo named "api" does not claim "api-gateway" when a repo of
// that name exists.
func FindOwner(repos []Repo, bindingName string) (Repo, bool) {
	var best Repo
	found := false
	for _, r := range repos {
		if bindingName != r.Name && !strings.HasPrefix(bindingName, r.Name+"-") {
			continue
		}
		if !found || len(r.Name) > len(best.Name) {
			best = r
			found = true
		}
	}
	return best, found
}
