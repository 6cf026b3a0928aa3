package worktree

import "taskwt/internal/gitcmd"

// Gateway abstracts the backend command vocabulary for testability.
// *gitcmd.Runner is the production implementation. A nil error with a
// nonzero Result.Code means the command ran and failed; a non-nil error
// means the process could not run at all.
type Gateway interface {
	VerifyBranch(repoDir, branch string) (gitcmd.Result, error)
	ListWorktrees(repoDir string) (gitcmd.Result, error)
	AddWorktree(repoDir, dir, branch string, createBranch bool) (gitcmd.Result, error)
	RemoveWorktree(repoDir, dir string) (gitcmd.Result, error)
	PruneWorktrees(repoDir string) (gitcmd.Result, error)
}
