package worktree

import (
	"taskwt/internal/gitcmd"
)

// fakeGateway is a scriptable Gateway for tests. Canned results are keyed
// by the argument that distinguishes calls; every invocation is recorded
// in order.
type fakeGateway struct {
	verifyResult  gitcmd.Result
	verifyErr     error
	listResults   []gitcmd.Result // consumed in order; last one repeats
	listErr       error
	addResult     gitcmd.Result
	addErr        error
	removeResults map[string]gitcmd.Result // by worktree dir
	removeErr     error
	pruneResults  map[string]gitcmd.Result // by repo dir
	pruneErr      error

	calls    []string // "op arg" in invocation order
	listCall int
}

func (f *fakeGateway) VerifyBranch(repoDir, branch string) (gitcmd.Result, error) {
	f.calls = append(f.calls, "verify "+branch)
	return f.verifyResult, f.verifyErr
}

func (f *fakeGateway) ListWorktrees(repoDir string) (gitcmd.Result, error) {
	f.calls = append(f.calls, "list "+repoDir)
	if f.listErr != nil {
		return gitcmd.Result{}, f.listErr
	}
	if len(f.listResults) == 0 {
		return gitcmd.Result{}, nil
	}
	i := f.listCall
	if i >= len(f.listResults) {
		i = len(f.listResults) - 1
	}
	f.listCall++
	return f.listResults[i], nil
}

func (f *fakeGateway) AddWorktree(repoDir, dir, branch string, createBranch bool) (gitcmd.Result, error) {
	op := "add"
	if createBranch {
		op = "add-new"
	}
	f.calls = append(f.calls, op+" "+dir+" "+branch)
	return f.addResult, f.addErr
}

func (f *fakeGateway) RemoveWorktree(repoDir, dir string) (gitcmd.Result, error) {
	f.calls = append(f.calls, "remove "+dir)
	if f.removeErr != nil {
		return gitcmd.Result{}, f.removeErr
	}
	if res, ok := f.removeResults[dir]; ok {
		return res, nil
	}
	return gitcmd.Result{}, nil
}

func (f *fakeGateway) PruneWorktrees(repoDir string) (gitcmd.Result, error) {
	f.calls = append(f.calls, "prune "+repoDir)
	if f.pruneErr != nil {
		return gitcmd.Result{}, f.pruneErr
	}
	if res, ok := f.pruneResults[repoDir]; ok {
		return res, nil
	}
	return gitcmd.Result{}, nil
}
