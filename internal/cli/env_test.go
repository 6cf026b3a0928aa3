package cli

import (
	"os"
	"path/filepath"
	"testing"

	"taskwt/internal/discovery"
)

// writeTestConfig fabricates a config dir pointing at temp base dirs.
func writeTestConfig(t *testing.T) (configDir, reposDir, tasksDir string) {
	t.Helper()
	configDir = t.TempDir()
	reposDir = t.TempDir()
	tasksDir = t.TempDir()

	data := "repos_dir: " + reposDir + "\ntasks_dir: " + tasksDir + "\ngit_path: /bin/sh\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return configDir, reposDir, tasksDir
}

func makeBareStore(t *testing.T, reposDir, name string) {
	t.Helper()
	root := filepath.Join(reposDir, name)
	if err := os.MkdirAll(filepath.Join(root, "refs", "heads"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "HEAD"), []byte("ref: refs/heads/main\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewEnv_LoadsConfigAndLogsToDataDir(t *testing.T) {
	configDir, reposDir, _ := writeTestConfig(t)
	makeBareStore(t, reposDir, "api.git")

	env, err := newEnv(configDir, false)
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	defer env.Close()

	if env.DataDir != configDir {
		t.Errorf("DataDir = %q, want %q", env.DataDir, configDir)
	}

	repos := env.Repos()
	if len(repos) != 1 || repos[0].Name != "api" {
		t.Errorf("Repos = %+v", repos)
	}

	env.Logs.For("test").Info("hello")
	_ = env.Logs.Sync()
	if _, err := os.Stat(filepath.Join(configDir, "taskwt.log")); err != nil {
		t.Errorf("log file not created in data dir: %v", err)
	}
}

func TestLockRepos_AcquiresAndReleasesAll(t *testing.T) {
	configDir, reposDir, _ := writeTestConfig(t)
	makeBareStore(t, reposDir, "api.git")
	makeBareStore(t, reposDir, "frontend.git")

	env, err := newEnv(configDir, false)
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	defer env.Close()

	repos := []discovery.Repo{
		{Name: "frontend", Path: filepath.Join(reposDir, "frontend.git")},
		{Name: "api", Path: filepath.Join(reposDir, "api.git")},
	}
	locks, err := env.lockRepos(repos)
	if err != nil {
		t.Fatalf("lockRepos: %v", err)
	}
	if len(locks) != 2 {
		t.Fatalf("locks = %d, want 2", len(locks))
	}
	unlockAll(locks)

	for _, name := range []string{"api", "frontend"} {
		if _, err := os.Stat(filepath.Join(configDir, "locks", name+".lock")); err != nil {
			t.Errorf("lock file for %s missing: %v", name, err)
		}
	}
}
