// pattern: Imperative Shell
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"

	"taskwt/internal/config"
	"taskwt/internal/discovery"
	"taskwt/internal/gitcmd"
	"taskwt/internal/instance"
	"taskwt/internal/logging"
)

// ResolveDataDir returns the directory for lock files and logs.
// If configDir is specified, uses that; otherwise uses ~/.config/taskwt.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "taskwt")
	}
	return filepath.Join(home, ".config", "taskwt")
}

// Env bundles the shared pieces every command needs: configuration,
// logging, the repository scanner, and the git gateway.
type Env struct {
	Cfg     config.Config
	Logs    *logging.Manager
	DataDir string
	Scanner *discovery.Scanner
	Runner  *gitcmd.Runner
}

// newEnv loads configuration and initializes logging for one command
// invocation. verbose mirrors log output to stderr.
func newEnv(configDir string, verbose bool) (*Env, error) {
	var cfg config.Config
	var err error
	if configDir != "" {
		cfg, err = config.LoadFromDir(configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.ValidateGit(); err != nil {
		return nil, err
	}

	dataDir := ResolveDataDir(configDir)
	logs, err := logging.NewManager(logging.Config{
		FilePath: filepath.Join(dataDir, "taskwt.log"),
		Level:    cfg.LogLevel,
		Console:  verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	return &Env{
		Cfg:     cfg,
		Logs:    logs,
		DataDir: dataDir,
		Scanner: discovery.NewScanner(),
		Runner:  gitcmd.NewRunner(cfg.GitPath, cfg.Timeout(), logs.For("git")),
	}, nil
}

// Close flushes and releases logging resources.
func (e *Env) Close() {
	if e.Logs != nil {
		_ = e.Logs.Close()
	}
}

// Repos enumerates the configured repositories.
func (e *Env) Repos() []discovery.Repo {
	return e.Scanner.ScanRepos(e.Cfg.ResolveReposDir())
}

// lockRepos takes every repository's lock in name order, so concurrent
// taskwt processes acquire in the same sequence and cannot deadlock.
func (e *Env) lockRepos(repos []discovery.Repo) ([]*flock.Flock, error) {
	ordered := make([]discovery.Repo, len(repos))
	copy(ordered, repos)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	var locks []*flock.Flock
	for _, repo := range ordered {
		fl, err := instance.LockRepo(e.DataDir, repo.Name)
		if err != nil {
			unlockAll(locks)
			return nil, err
		}
		locks = append(locks, fl)
	}
	return locks, nil
}

func unlockAll(locks []*flock.Flock) {
	for _, fl := range locks {
		instance.Unlock(fl)
	}
}

// PrintJSON writes v to stdout as indented JSON.
func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints an error and exits nonzero.
func fail(err error) error {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
	return nil
}
