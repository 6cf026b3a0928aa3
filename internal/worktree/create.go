// pattern: Imperative Shell

package worktree

import (
	"os"
	"path/filepath"

	"taskwt/internal/discovery"
	"taskwt/internal/logging"
)

// Creator orchestrates single-worktree creation: collision checks, branch
// resolution, stale-entry reclamation, and the add call.
type Creator struct {
	gw       Gateway
	resolver *Resolver
	logger   *logging.ScopedLogger
}

// NewCreator creates a Creator. A nil logger is replaced with a no-op.
func NewCreator(gw Gateway, logger *logging.ScopedLogger) *Creator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Creator{gw: gw, resolver: NewResolver(gw, logger), logger: logger}
}

// Create adds a worktree of repo under taskDir, checked out on branch.
// dirName defaults to the repository name. The task directory is created
// on first use. Returns the worktree path.
//
// Creation-only contract: an existing target directory is always a
// conflict, even if it holds a matching worktree — adopting an unrelated
// directory silently would be worse than failing.
func (c *Creator) Create(taskDir string, repo discovery.Repo, branch, dirName string) (string, error) {
	if dirName == "" {
		dirName = repo.Name
	}

	if _, err := os.Stat(repo.Path); err != nil {
		return "", &Error{Kind: KindNotFound, Repo: repo.Name, Path: repo.Path, Msg: "repository missing"}
	}

	target := filepath.Join(taskDir, dirName)
	if _, err := os.Stat(target); err == nil {
		return "", &Error{Kind: KindConflict, Repo: repo.Name, Path: target, Msg: "worktree directory already exists"}
	}

	resolution, err := c.resolver.Resolve(repo, branch)
	if err != nil {
		return "", err
	}
	if resolution == BranchBlocked {
		return "", &Error{Kind: KindConflict, Repo: repo.Name, Branch: branch,
			Msg: "branch is checked out by another worktree"}
	}

	if err := os.MkdirAll(taskDir, 0755); err != nil {
		return "", &Error{Kind: KindInfra, Path: taskDir, Msg: "cannot create task directory", Err: err}
	}

	res, err := c.gw.AddWorktree(repo.Path, target, branch, resolution == BranchNew)
	if err != nil {
		return "", &Error{Kind: KindInfra, Repo: repo.Name, Branch: branch, Msg: "cannot add worktree", Err: err}
	}
	if !res.OK() {
		return "", &Error{Kind: KindInfra, Repo: repo.Name, Branch: branch, Path: target,
			Msg: "worktree add failed: " + res.Output}
	}

	c.logger.Info("created worktree",
		"repo", repo.Name, "branch", branch, "path", target, "resolution", resolution.String())
	return target, nil
}
