package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestExecute_NoArgsRequestsHelp(t *testing.T) {
	app := BuildApp("test", "", false)
	if !app.Execute(nil) {
		t.Error("Execute with no args should request help")
	}
}

func TestExecute_KnownCommandDoesNotRequestHelp(t *testing.T) {
	app := BuildApp("test", "", false)
	if app.Execute([]string{"version"}) {
		t.Error("Execute with a known command should not request help")
	}
}

func TestBuildApp_RegistersAllCommands(t *testing.T) {
	app := BuildApp("test", "", false)

	for _, name := range []string{"repos", "prune", "watch", "cleanup", "version"} {
		if _, ok := app.commands[name]; !ok {
			t.Errorf("command %q not registered", name)
		}
	}

	group, ok := app.groups["task"]
	if !ok {
		t.Fatal("task group not registered")
	}
	for _, name := range []string{"create", "delete", "list"} {
		if _, ok := group.Commands[name]; !ok {
			t.Errorf("task subcommand %q not registered", name)
		}
	}
}

func TestPrintHelp_ListsCommandsAndGroups(t *testing.T) {
	app := BuildApp("test", "", false)

	var buf bytes.Buffer
	app.PrintHelp(&buf)
	out := buf.String()

	for _, want := range []string{"repos", "prune", "watch", "cleanup", "version", "task"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestGroupPrintHelp_SortsSubcommands(t *testing.T) {
	app := BuildApp("test", "", false)
	group := app.groups["task"]

	var buf bytes.Buffer
	group.PrintHelp(&buf)
	out := buf.String()

	create := strings.Index(out, "create")
	del := strings.Index(out, "delete")
	list := strings.Index(out, "list")
	if create < 0 || del < 0 || list < 0 {
		t.Fatalf("subcommands missing from group help:\n%s", out)
	}
	if !(create < del && del < list) {
		t.Errorf("subcommands not sorted:\n%s", out)
	}
}

func TestResolveDataDir(t *testing.T) {
	if got := ResolveDataDir("/explicit"); got != "/explicit" {
		t.Errorf("explicit config dir = %q", got)
	}
	if got := ResolveDataDir(""); !strings.HasSuffix(got, "taskwt") {
		t.Errorf("default data dir = %q, want a taskwt dir", got)
	}
}
