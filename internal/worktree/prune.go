// pattern: Imperative Shell

package worktree

import (
	"taskwt/internal/discovery"
	"taskwt/internal/logging"
)

// RepoFailure attributes one failure message to one repository.
type RepoFailure struct {
	Repo    string `json:"repo"`
	Message string `json:"message"`
}

// PruneReport aggregates a bulk prune across repositories.
type PruneReport struct {
	Pruned   int           `json:"pruned"`
	Failures []RepoFailure `json:"failures,omitempty"`
}

// Pruner runs worktree pruning across repositories, never aborting early:
// one repository's failure does not prevent attempting the rest.
type Pruner struct {
	gw     Gateway
	logger *logging.ScopedLogger
}

// NewPruner creates a Pruner. A nil logger is replaced with a no-op.
func NewPruner(gw Gateway, logger *logging.ScopedLogger) *Pruner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Pruner{gw: gw, logger: logger}
}

// PruneAll prunes every repository in enumeration order and reports
// per-repository outcomes. Idempotent and safe to run unconditionally
// after any deletion.
func (p *Pruner) PruneAll(repos []discovery.Repo) PruneReport {
	var report PruneReport

	for _, repo := range repos {
		res, err := p.gw.PruneWorktrees(repo.Path)
		if err != nil {
			p.logger.Error("prune failed to run", "repo", repo.Name, "error", err)
			report.Failures = append(report.Failures, RepoFailure{Repo: repo.Name, Message: err.Error()})
			continue
		}
		if !res.OK() {
			p.logger.Warn("prune exited nonzero", "repo", repo.Name, "output", res.Output)
			report.Failures = append(report.Failures, RepoFailure{Repo: repo.Name, Message: res.Output})
			continue
		}
		report.Pruned++
	}

	return report
}
