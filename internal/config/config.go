package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all taskwt settings. A value is loaded once at startup and
// passed into constructors; nothing reads it through a global.
type Config struct {
	ReposDir       string `yaml:"repos_dir"`
	TasksDir       string `yaml:"tasks_dir"`
	LogLevel       string `yaml:"log_level"`
	GitPath        string `yaml:"git_path"`
	CommandTimeout int    `yaml:"command_timeout_seconds"`
}

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

func DefaultConfig() Config {
	return Config{
		ReposDir:       "~/repos",
		TasksDir:       "~/tasks",
		LogLevel:       "info",
		GitPath:        "git",
		CommandTimeout: 60,
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from an explicit directory, for the
// --config-dir flag.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.GitPath == "" {
		cfg.GitPath = "git"
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 60
	}

	return cfg, nil
}

// ResolveReposDir returns the repos base directory with ~ expanded.
func (c *Config) ResolveReposDir() string {
	return expandHome(c.ReposDir)
}

// ResolveTasksDir returns the tasks base directory with ~ expanded.
func (c *Config) ResolveTasksDir() string {
	return expandHome(c.TasksDir)
}

// Timeout returns the per-command timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

// ValidateGit checks that the configured git binary can be found.
func (c *Config) ValidateGit() error {
	return c.ValidateGitWith(exec.LookPath)
}

// ValidateGitWith checks the git binary using the provided lookup function.
func (c *Config) ValidateGitWith(lookPath LookPathFunc) error {
	if _, err := lookPath(c.GitPath); err != nil {
		return fmt.Errorf("git binary %q not found in PATH", c.GitPath)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "taskwt", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "taskwt", "config.yaml")
	}

	return filepath.Join(home, ".config", "taskwt", "config.yaml")
}
