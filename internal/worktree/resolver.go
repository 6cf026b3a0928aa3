// pattern: Imperative Shell

package worktree

import (
	"taskwt/internal/discovery"
	"taskwt/internal/gitcmd"
	"taskwt/internal/logging"
	"taskwt/internal/registry"
)

// Resolution is the outcome of resolving a branch against a repository's
// worktree registry.
type Resolution int

const (
	// BranchNew: the branch does not exist, create it fresh.
	BranchNew Resolution = iota
	// BranchReuse: the branch exists and no active worktree owns it.
	BranchReuse
	// BranchBlocked: the branch is checked out by a live worktree.
	BranchBlocked
)

func (r Resolution) String() string {
	switch r {
	case BranchNew:
		return "new"
	case BranchReuse:
		return "reuse"
	case BranchBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Resolver decides whether a branch can be created, reattached, or is in
// use, reclaiming stale registry entries along the way.
type Resolver struct {
	gw     Gateway
	logger *logging.ScopedLogger
}

// NewResolver creates a Resolver. A nil logger is replaced with a no-op.
func NewResolver(gw Gateway, logger *logging.ScopedLogger) *Resolver {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Resolver{gw: gw, logger: logger}
}

// Resolve determines the branch's state in repo. It returns BranchBlocked
// as a normal outcome, not an error; only infrastructure and
// reclamation failures are errors.
func (r *Resolver) Resolve(repo discovery.Repo, branch string) (Resolution, error) {
	verify, err := r.gw.VerifyBranch(repo.Path, branch)
	if err != nil {
		return 0, &Error{Kind: KindInfra, Repo: repo.Name, Branch: branch, Msg: "cannot verify branch", Err: err}
	}
	if verify.Code == gitcmd.BranchNotFoundCode {
		return BranchNew, nil
	}
	if !verify.OK() {
		// Any exit other than the designated not-found code is an
		// infrastructure problem, never "branch does not exist".
		return 0, &Error{Kind: KindInfra, Repo: repo.Name, Branch: branch,
			Msg: "branch verification failed: " + verify.Output}
	}

	entries, err := r.list(repo)
	if err != nil {
		return 0, err
	}

	matches := registry.ForBranch(entries, branch)
	if len(matches) == 0 {
		// Exists in the object store but checked out nowhere.
		return BranchReuse, nil
	}

	var stale []registry.Entry
	for _, e := range matches {
		if !e.Prunable {
			r.logger.Info("branch owned by live worktree", "repo", repo.Name, "branch", branch, "path", e.Path)
			return BranchBlocked, nil
		}
		stale = append(stale, e)
	}

	if err := r.reclaim(repo, branch, stale); err != nil {
		return 0, err
	}
	return BranchReuse, nil
}

// reclaim removes stale entries for branch, prunes, then re-lists to
// confirm the branch is free. The sequence is strictly ordered: prune
// depends on removal, the re-check depends on prune.
func (r *Resolver) reclaim(repo discovery.Repo, branch string, stale []registry.Entry) error {
	for _, e := range stale {
		res, err := r.gw.RemoveWorktree(repo.Path, e.Path)
		if err != nil {
			return &Error{Kind: KindInfra, Repo: repo.Name, Path: e.Path, Msg: "cannot remove stale worktree", Err: err}
		}
		if !res.OK() {
			// Expected for entries whose directory is already gone;
			// the prune pass clears what remove could not.
			r.logger.Debug("stale worktree remove exited nonzero",
				"repo", repo.Name, "path", e.Path, "output", res.Output)
		}
	}

	prune, err := r.gw.PruneWorktrees(repo.Path)
	if err != nil {
		return &Error{Kind: KindInfra, Repo: repo.Name, Msg: "cannot prune worktrees", Err: err}
	}
	if !prune.OK() {
		return &Error{Kind: KindInfra, Repo: repo.Name, Msg: "worktree prune failed: " + prune.Output}
	}

	entries, err := r.list(repo)
	if err != nil {
		return err
	}
	if remaining := registry.ForBranch(entries, branch); len(remaining) > 0 {
		// Registry diverged from expectation mid-operation, likely a
		// concurrent external modification. Never silently proceed.
		return &Error{Kind: KindReclaimFailed, Repo: repo.Name, Branch: branch,
			Path: remaining[0].Path, Msg: "branch still bound after reclamation"}
	}

	r.logger.Info("reclaimed stale worktree entries", "repo", repo.Name, "branch", branch, "count", len(stale))
	return nil
}

func (r *Resolver) list(repo discovery.Repo) ([]registry.Entry, error) {
	res, err := r.gw.ListWorktrees(repo.Path)
	if err != nil {
		return nil, &Error{Kind: KindInfra, Repo: repo.Name, Msg: "cannot list worktrees", Err: err}
	}
	if !res.OK() {
		return nil, &Error{Kind: KindInfra, Repo: repo.Name, Msg: "worktree list failed: " + res.Output}
	}
	return registry.Parse(res.Output), nil
}
