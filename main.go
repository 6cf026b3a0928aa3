// pattern: Imperative Shell
package main

import (
	"os"

	flag "github.com/spf13/pflag"

	"taskwt/internal/cli"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/taskwt)")
	verbose := flag.BoolP("verbose", "v", false, "mirror log output to stderr")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, *configDir, *verbose)
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	app := cli.BuildApp(version, *configDir, *verbose)

	if app.Execute(flag.Args()) {
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}
}
