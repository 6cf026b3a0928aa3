// pattern: Imperative Shell

package worktree

import (
	"os"
	"path/filepath"

	"taskwt/internal/discovery"
	"taskwt/internal/logging"
)

// DeleteReport describes a cascading task deletion.
type DeleteReport struct {
	// Removed lists binding names whose backend removal succeeded.
	Removed []string `json:"removed"`
	// Skipped lists children with no matching repository; they were
	// swept by the directory deletion but never backend-tracked.
	Skipped []string `json:"skipped,omitempty"`
	// Failures lists per-binding backend failures. The directory is
	// deleted regardless.
	Failures []RepoFailure `json:"failures,omitempty"`
}

// Deleter removes a task directory and every worktree binding inside it.
type Deleter struct {
	gw     Gateway
	pruner *Pruner
	logger *logging.ScopedLogger
}

// NewDeleter creates a Deleter. A nil logger is replaced with a no-op.
func NewDeleter(gw Gateway, logger *logging.ScopedLogger) *Deleter {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Deleter{gw: gw, pruner: NewPruner(gw, logger), logger: logger}
}

// DeleteTask walks taskPath's immediate children, force-removes each
// worktree through its owning repository, then deletes the whole
// directory tree and prunes all repositories. Per-binding failures never
// block the directory deletion: a confusing leftover directory is worse
// than a dangling registry entry, and the final prune cleans those up.
//
// The returned error is non-nil only when the task directory is absent
// (no partial effects) or the tree deletion itself failed.
func (d *Deleter) DeleteTask(taskPath string, repos []discovery.Repo) (DeleteReport, error) {
	var report DeleteReport

	if _, err := os.Stat(taskPath); err != nil {
		return report, &Error{Kind: KindNotFound, Path: taskPath, Msg: "task directory not found"}
	}

	entries, err := os.ReadDir(taskPath)
	if err != nil {
		return report, &Error{Kind: KindInfra, Path: taskPath, Msg: "cannot read task directory", Err: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".git" {
			continue
		}
		name := entry.Name()

		repo, found := discovery.FindOwner(repos, name)
		if !found {
			// Manually copied in, not backend-tracked: no removal
			// command is meaningful, the tree delete sweeps it.
			d.logger.Warn("no repository matches binding, skipping backend removal", "binding", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		bindingPath := filepath.Join(taskPath, name)
		res, err := d.gw.RemoveWorktree(repo.Path, bindingPath)
		if err != nil {
			report.Failures = append(report.Failures, RepoFailure{Repo: repo.Name, Message: err.Error()})
			continue
		}
		if !res.OK() {
			report.Failures = append(report.Failures, RepoFailure{Repo: repo.Name, Message: res.Output})
			continue
		}
		report.Removed = append(report.Removed, name)
	}

	if err := os.RemoveAll(taskPath); err != nil {
		return report, &Error{Kind: KindInfra, Path: taskPath, Msg: "cannot delete task directory", Err: err}
	}
	d.logger.Info("deleted task directory", "path", taskPath,
		"removed", len(report.Removed), "skipped", len(report.Skipped), "failed", len(report.Failures))

	// Clear registry entries left dangling by forced removals or the
	// raw tree deletion.
	pruneReport := d.pruner.PruneAll(repos)
	for _, f := range pruneReport.Failures {
		report.Failures = append(report.Failures, RepoFailure{Repo: f.Repo, Message: "prune: " + f.Message})
	}

	return report, nil
}
