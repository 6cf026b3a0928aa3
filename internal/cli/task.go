// pattern: Imperative Shell
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"taskwt/internal/discovery"
	"taskwt/internal/instance"
	"taskwt/internal/task"
	"taskwt/internal/worktree"
)

// createResult is the JSON shape printed after a successful creation.
type createResult struct {
	Task   string `json:"task"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	Path   string `json:"path"`
}

// taskListing is one task directory with its bindings, for `task list`.
type taskListing struct {
	Task     string        `json:"task"`
	Path     string        `json:"path"`
	Bindings []taskBinding `json:"bindings"`
}

type taskBinding struct {
	Name string `json:"name"`
	Repo string `json:"repo,omitempty"` // empty when no repository matches
}

// RegisterTaskCommands registers the task command group commands.
func RegisterTaskCommands(group *Group, configDir string, verbose bool) {
	group.AddCommand(&Command{
		Name:    "create",
		Summary: "Create a task worktree for an issue",
		Usage:   "Usage: taskwt task create <issue-key> <repo> [--slug <text>] [--suffix <name>]",
		Run: func(args []string) error {
			fs := flag.NewFlagSet("task create", flag.ContinueOnError)
			slug := fs.String("slug", "", "issue title slug appended to the task directory name")
			suffix := fs.String("suffix", "", "suffix for an additional worktree of the same repository")
			if err := fs.Parse(args); err != nil {
				fmt.Fprintf(os.Stderr, "Usage: taskwt task create <issue-key> <repo> [--slug <text>] [--suffix <name>]\n")
				os.Exit(1)
			}
			if fs.NArg() < 2 {
				fmt.Fprintf(os.Stderr, "Usage: taskwt task create <issue-key> <repo> [--slug <text>] [--suffix <name>]\n")
				os.Exit(1)
			}
			return runTaskCreate(configDir, verbose, fs.Arg(0), fs.Arg(1), *slug, *suffix)
		},
	})

	group.AddCommand(&Command{
		Name:    "delete",
		Summary: "Delete a task directory and all its worktrees",
		Usage:   "Usage: taskwt task delete <task-name>",
		Run: func(args []string) error {
			if len(args) < 1 {
				fmt.Fprintf(os.Stderr, "Usage: taskwt task delete <task-name>\n")
				os.Exit(1)
			}
			return runTaskDelete(configDir, verbose, args[0])
		},
	})

	group.AddCommand(&Command{
		Name:    "list",
		Summary: "Output JSON data about all task directories",
		Usage:   "Usage: taskwt task list",
		Run: func(args []string) error {
			return runTaskList(configDir, verbose)
		},
	})
}

func runTaskCreate(configDir string, verbose bool, issueKey, repoName, slug, suffix string) error {
	if err := task.ValidateKey(issueKey); err != nil {
		return fail(err)
	}
	if err := task.ValidateSuffix(suffix); err != nil {
		return fail(err)
	}

	env, err := newEnv(configDir, verbose)
	if err != nil {
		return fail(err)
	}
	defer env.Close()

	repo, ok := findRepo(env.Repos(), repoName)
	if !ok {
		return fail(fmt.Errorf("unknown repository %q under %s", repoName, env.Cfg.ResolveReposDir()))
	}

	taskDirName := task.DirName(issueKey, slug)
	taskPath := filepath.Join(env.Cfg.ResolveTasksDir(), taskDirName)
	branch := task.BranchName(taskDirName, suffix)
	dirName := task.WorktreeDirName(repo.Name, suffix)

	fl, err := instance.LockRepo(env.DataDir, repo.Name)
	if err != nil {
		return fail(err)
	}
	defer instance.Unlock(fl)

	creator := worktree.NewCreator(env.Runner, env.Logs.For("create"))
	path, err := creator.Create(taskPath, repo, branch, dirName)
	if err != nil {
		return fail(err)
	}

	return PrintJSON(createResult{Task: taskDirName, Repo: repo.Name, Branch: branch, Path: path})
}

func runTaskDelete(configDir string, verbose bool, taskName string) error {
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

	deleter := worktree.NewDeleter(env.Runner, env.Logs.For("delete"))
	report, err := deleter.DeleteTask(filepath.Join(env.Cfg.ResolveTasksDir(), taskName), repos)
	if err != nil {
		return fail(err)
	}

	// Backend failures are surfaced in the report, but the directory is
	// gone, so this is a successful deletion.
	return PrintJSON(report)
}

func runTaskList(configDir string, verbose bool) error {
	env, err := newEnv(configDir, verbose)
	if err != nil {
		return fail(err)
	}
	defer env.Close()

	repos := env.Repos()
	listings := []taskListing{}
	for _, t := range env.Scanner.ScanTasks(env.Cfg.ResolveTasksDir()) {
		listing := taskListing{Task: t.Name, Path: t.Path, Bindings: []taskBinding{}}
		entries, err := os.ReadDir(t.Path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || entry.Name() == ".git" {
				continue
			}
			binding := taskBinding{Name: entry.Name()}
			if repo, ok := discovery.FindOwner(repos, entry.Name()); ok {
				binding.Repo = repo.Name
			}
			listing.Bindings = append(listing.Bindings, binding)
		}
		listings = append(listings, listing)
	}

	return PrintJSON(listings)
}

func findRepo(repos []discovery.Repo, name string) (discovery.Repo, bool) {
	for _, r := range repos {
		if r.Name == name {
			return r, true
		}
	}
	return discovery.Repo{}, false
}
