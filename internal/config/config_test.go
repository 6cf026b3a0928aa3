package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: unexpected error: %v", err)
	}
	if cfg.GitPath != "git" {
		t.Errorf("GitPath = %q, want %q", cfg.GitPath, "git")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.CommandTimeout != 60 {
		t.Errorf("CommandTimeout = %d, want 60", cfg.CommandTimeout)
	}
}

func TestLoadFrom_ParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("repos_dir: /srv/repos\ntasks_dir: /srv/tasks\nlog_level: debug\ngit_path: /usr/local/bin/git\ncommand_timeout_seconds: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ReposDir != "/srv/repos" {
		t.Errorf("ReposDir = %q", cfg.ReposDir)
	}
	if cfg.TasksDir != "/srv/tasks" {
		t.Errorf("TasksDir = %q", cfg.TasksDir)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadFrom_InvalidYAMLReturnsDefaultsAndError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("repos_dir: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Error("LoadFrom: expected error for invalid YAML")
	}
	if cfg.GitPath != "git" {
		t.Errorf("GitPath = %q, want default after parse failure", cfg.GitPath)
	}
}

func TestLoadFrom_ZeroTimeoutGetsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("command_timeout_seconds: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.CommandTimeout != 60 {
		t.Errorf("CommandTimeout = %d, want default 60", cfg.CommandTimeout)
	}
}

func TestValidateGitWith_Found(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ValidateGitWith(func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	})
	if err != nil {
		t.Errorf("ValidateGit: expected nil, got %v", err)
	}
}

func TestValidateGitWith_Missing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitPath = "definitely-not-git"
	err := cfg.ValidateGitWith(func(name string) (string, error) {
		return "", errors.New("not found")
	})
	if err == nil {
		t.Error("ValidateGit: expected error when binary missing")
	}
}

func TestResolveDirs_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	cfg := Config{ReposDir: "~/repos", TasksDir: "/abs/tasks"}
	if got := cfg.ResolveReposDir(); got != filepath.Join(home, "repos") {
		t.Errorf("ResolveReposDir = %q", got)
	}
	if got := cfg.ResolveTasksDir(); got != "/abs/tasks" {
		t.Errorf("ResolveTasksDir = %q, want unchanged absolute path", got)
	}
}
