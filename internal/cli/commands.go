// pattern: Imperative Shell
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskwt/internal/instance"
	"taskwt/internal/watch"
	"taskwt/internal/worktree"
)

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, configDir string, verbose bool) *App {
	app := NewApp(version)

	app.AddCommand(&Command{
		Name:    "repos",
		Summary: "Output JSON data about all configured repositories",
		Usage:   "Usage: taskwt repos",
		Run: func(args []string) error {
			return runReposCommand(configDir, verbose)
		},
	})

	app.AddCommand(&Command{
		Name:    "prune",
		Summary: "Prune stale worktree entries in every repository",
		Usage:   "Usage: taskwt prune",
		Run: func(args []string) error {
			return runPruneCommand(configDir, verbose)
		},
	})

	app.AddCommand(&Command{
		Name:    "watch",
		Summary: "Watch the tasks directory and prune after external deletions",
		Usage:   "Usage: taskwt watch",
		Run: func(args []string) error {
			return runWatchCommand(configDir, verbose)
		},
	})

	app.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove a stale watch lock from a crashed watcher",
		Usage:   "Usage: taskwt cleanup",
		Run: func(args []string) error {
			return runCleanupCommand(configDir)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: taskwt version",
		Run: func(args []string) error {
			fmt.Println(version)
			return nil
		},
	})

	taskGroup := app.AddGroup("task", "Manage per-issue task directories and their worktrees")
	RegisterTaskCommands(taskGroup, configDir, verbose)

	return app
}

func runReposCommand(configDir string, verbose bool) error {
	env, err := newEnv(configDir, verbose)
	if err != nil {
		return fail(err)
	}
	defer env.Close()

	return PrintJSON(env.Repos())
}

func runPruneCommand(configDir string, verbose bool) error {
	env, err := newEnv(configDir, verbose)
	if err != nil {
		return fail(err)
	}
	defer env.Close()

	repos := env.Repos()
	locks, err := env.lockRepos(repos)
	if err != nil {
		return fail(err)
	}
	defer unlockAll(locks)

	pruner := worktree.NewPruner(env.Runner, env.Logs.For("prune"))
	report := pruner.PruneAll(repos)
	if err := PrintJSON(report); err != nil {
		return fail(err)
	}
	if len(report.Failures) > 0 {
		os.Exit(1)
	}
	return nil
}

func runWatchCommand(configDir string, verbose bool) error {
	env, err := newEnv(configDir, verbose)
	if err != nil {
		return fail(err)
	}
	defer env.Close()

	fl, err := instance.LockWatch(env.DataDir)
	if err != nil {
		return fail(err)
	}
	defer instance.Unlock(fl)

	logger := env.Logs.For("watch")
	pruner := worktree.NewPruner(env.Runner, logger)
	watcher := watch.New(env.Cfg.ResolveTasksDir(), 2*time.Second, func() {
		report := pruner.PruneAll(env.Repos())
		logger.Info("prune complete", "pruned", report.Pruned, "failures", len(report.Failures))
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return fail(err)
	}
	return nil
}

// runCleanupCommand removes a stale watch lock left by a crashed watcher.
func runCleanupCommand(configDir string) error {
	dataDir := ResolveDataDir(configDir)

	if err := instance.CleanupWatch(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: a taskwt watcher appears to be running. Stop it first.\n")
		os.Exit(1)
	}
	fmt.Println("Cleaned up stale watch lock.")
	return nil
}
