// pattern: Imperative Shell

package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"taskwt/internal/logging"
)

// BranchNotFoundCode is the exit code `git show-ref --verify` uses for a
// missing ref, distinguished from all other nonzero codes.
const BranchNotFoundCode = 1

// Result is the outcome of a git command that ran to completion.
type Result struct {
	Code   int    // process exit code
	Output string // combined stdout+stderr, trailing whitespace trimmed
}

// OK reports whether the command exited zero.
func (r Result) OK() bool {
	return r.Code == 0
}

// StartError means the git process could not be run at all (binary missing,
// permission problem, timeout). It is distinct from a nonzero exit, which
// is reported through Result so callers can interpret the code.
type StartError struct {
	Args []string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// Runner executes a fixed vocabulary of git subcommands against a
// repository path. It performs no interpretation of output; decision
// logic lives in callers.
type Runner struct {
	gitPath string
	timeout time.Duration
	logger  *logging.ScopedLogger
}

// NewRunner creates a Runner. A zero timeout disables the per-command
// deadline. A nil logger is replaced with a no-op logger.
func NewRunner(gitPath string, timeout time.Duration, logger *logging.ScopedLogger) *Runner {
	if gitPath == "" {
		gitPath = "git"
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{gitPath: gitPath, timeout: timeout, logger: logger}
}

// VerifyBranch checks whether a local branch exists.
// Exit 0 means the branch exists; BranchNotFoundCode means it does not.
func (r *Runner) VerifyBranch(repoDir, branch string) (Result, error) {
	return r.run(repoDir, verifyArgs(branch)...)
}

// ListWorktrees emits the porcelain worktree listing for registry.Parse.
func (r *Runner) ListWorktrees(repoDir string) (Result, error) {
	return r.run(repoDir, "worktree", "list", "--porcelain")
}

// AddWorktree materializes a worktree at dir. With createBranch the branch
// is created at HEAD; otherwise the existing branch is checked out.
func (r *Runner) AddWorktree(repoDir, dir, branch string, createBranch bool) (Result, error) {
	return r.run(repoDir, addArgs(dir, branch, createBranch)...)
}

// RemoveWorktree force-removes the worktree at dir from the registry.
func (r *Runner) RemoveWorktree(repoDir, dir string) (Result, error) {
	return r.run(repoDir, "worktree", "remove", "--force", dir)
}

// PruneWorktrees clears prunable registry entries with no grace window.
func (r *Runner) PruneWorktrees(repoDir string) (Result, error) {
	return r.run(repoDir, "worktree", "prune", "--expire", "now")
}

func verifyArgs(branch string) []string {
	return []string{"show-ref", "--verify", "--quiet", "refs/heads/" + branch}
}

func addArgs(dir, branch string, createBranch bool) []string {
	if createBranch {
		return []string{"worktree", "add", dir, "-b", branch}
	}
	return []string{"worktree", "add", dir, branch}
}

func (r *Runner) run(repoDir string, args ...string) (Result, error) {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	cmd.Dir = repoDir

	out, err := cmd.CombinedOutput()
	output := strings.TrimRight(string(out), " \t\r\n")

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			r.logger.Error("git command timed out", "repo", repoDir, "args", strings.Join(args, " "))
			return Result{}, &StartError{Args: args, Err: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug("git command exited nonzero",
				"repo", repoDir, "args", strings.Join(args, " "), "code", exitErr.ExitCode())
			return Result{Code: exitErr.ExitCode(), Output: output}, nil
		}
		r.logger.Error("git command failed to start", "repo", repoDir, "error", err)
		return Result{}, &StartError{Args: args, Err: err}
	}

	r.logger.Debug("git command ok", "repo", repoDir, "args", strings.Join(args, " "))
	return Result{Code: 0, Output: output}, nil
}
