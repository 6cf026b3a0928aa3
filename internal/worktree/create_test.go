package worktree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskwt/internal/discovery"
	"taskwt/internal/gitcmd"
)

// tempRepo returns a Repo whose path exists on disk.
func tempRepo(t *testing.T) discovery.Repo {
	t.Helper()
	return discovery.Repo{Name: "api", Path: t.TempDir()}
}

func TestCreate_MissingRepositoryIsNotFound(t *testing.T) {
	gw := &fakeGateway{}
	repo := discovery.Repo{Name: "api", Path: filepath.Join(t.TempDir(), "gone")}

	_, err := NewCreator(gw, nil).Create(t.TempDir(), repo, "dev-123", "")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Errorf("no backend calls expected, got %v", gw.calls)
	}
}

func TestCreate_ExistingTargetIsConflict(t *testing.T) {
	gw := &fakeGateway{}
	repo := tempRepo(t)
	taskDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(taskDir, "api"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := NewCreator(gw, nil).Create(taskDir, repo, "dev-123", "")
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Errorf("collision must be detected before any backend call, got %v", gw.calls)
	}
}

func TestCreate_NewBranch(t *testing.T) {
	gw := &fakeGateway{verifyResult: gitcmd.Result{Code: gitcmd.BranchNotFoundCode}}
	repo := tempRepo(t)
	taskDir := filepath.Join(t.TempDir(), "dev-123")

	path, err := NewCreator(gw, nil).Create(taskDir, repo, "dev-123", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if path != filepath.Join(taskDir, "api") {
		t.Errorf("path = %q", path)
	}

	// Task directory is created on first worktree addition.
	if _, err := os.Stat(taskDir); err != nil {
		t.Errorf("task dir not created: %v", err)
	}

	want := "add-new " + path + " dev-123"
	if gw.calls[len(gw.calls)-1] != want {
		t.Errorf("last call = %q, want %q", gw.calls[len(gw.calls)-1], want)
	}
}

func TestCreate_ReusesExistingBranch(t *testing.T) {
	gw := &fakeGateway{
		verifyResult: gitcmd.Result{Code: 0},
		listResults:  []gitcmd.Result{{Output: ""}},
	}
	repo := tempRepo(t)
	taskDir := filepath.Join(t.TempDir(), "dev-123")

	path, err := NewCreator(gw, nil).Create(taskDir, repo, "dev-123", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := "add " + path + " dev-123"
	if gw.calls[len(gw.calls)-1] != want {
		t.Errorf("last call = %q, want attach without -b", gw.calls[len(gw.calls)-1])
	}
}

func TestCreate_BlockedBranchIsConflict(t *testing.T) {
	gw := &fakeGateway{
		verifyResult: gitcmd.Result{Code: 0},
		listResults: []gitcmd.Result{{Output: "worktree /tasks/dev-123/api\nbranch refs/heads/dev-123\n\n"}},
	}
	repo := tempRepo(t)

	_, err := NewCreator(gw, nil).Create(filepath.Join(t.TempDir(), "dev-123"), repo, "dev-123", "")
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "dev-123") || !strings.Contains(err.Error(), "api") {
		t.Errorf("conflict error must name branch and repo: %v", err)
	}
	for _, c := range gw.calls {
		if strings.HasPrefix(c, "add") {
			t.Errorf("no add call expected when blocked: %v", gw.calls)
		}
	}
}

func TestCreate_AddFailureSurfacesBackendMessage(t *testing.T) {
	gw := &fakeGateway{
		verifyResult: gitcmd.Result{Code: gitcmd.BranchNotFoundCode},
		addResult:    gitcmd.Result{Code: 128, Output: "fatal: could not create work tree dir"},
	}
	repo := tempRepo(t)

	_, err := NewCreator(gw, nil).Create(filepath.Join(t.TempDir(), "dev-123"), repo, "dev-123", "")
	if err == nil {
		t.Fatal("expected creation failure")
	}
	if KindOf(err) != KindInfra {
		t.Errorf("kind = %v, want KindInfra", KindOf(err))
	}
	if !strings.Contains(err.Error(), "could not create work tree dir") {
		t.Errorf("backend message lost: %v", err)
	}
}

func TestCreate_SecondCallWithSameTargetFails(t *testing.T) {
	gw := &fakeGateway{verifyResult: gitcmd.Result{Code: gitcmd.BranchNotFoundCode}}
	repo := tempRepo(t)
	taskDir := filepath.Join(t.TempDir(), "dev-123")
	creator := NewCreator(gw, nil)

	path, err := creator.Create(taskDir, repo, "dev-123", "")
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	// The backend would have materialized the directory.
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	addCalls := len(gw.calls)

	_, err = creator.Create(taskDir, repo, "dev-123", "")
	if !IsConflict(err) {
		t.Fatalf("second Create should collide, got %v", err)
	}
	if len(gw.calls) != addCalls {
		t.Errorf("second call must not reach the backend: %v", gw.calls[addCalls:])
	}
}

func TestCreate_SuffixedDirName(t *testing.T) {
	gw := &fakeGateway{verifyResult: gitcmd.Result{Code: gitcmd.BranchNotFoundCode}}
	repo := tempRepo(t)
	taskDir := filepath.Join(t.TempDir(), "dev-123")

	path, err := NewCreator(gw, nil).Create(taskDir, repo, "dev-123-alt", "api-alt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if filepath.Base(path) != "api-alt" {
		t.Errorf("path = %q, want api-alt dir", path)
	}
}
