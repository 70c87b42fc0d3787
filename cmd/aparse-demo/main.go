// Command aparse-demo parses its own arguments with aparse and prints what
// it found. It exists to exercise the library from a real process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnurzia/aparse"
	"github.com/mnurzia/aparse/internal/termio"
)

const progName = "aparse-demo"

var version = "dev"

const description = `Parses its arguments and reports every option's value, where the value
came from, and the positional arguments left over.`

const epilog = `Exit status is 0 on success, 2 for a command-line mistake and 1 otherwise.`

func versionText() string {
	return fmt.Sprintf("%s %s (default allocator: %t)", progName, version, aparse.UseMalloc)
}

func declarations() *aparse.DeclarationSet {
	set := aparse.NewDeclarationSet().MustRegister(
		aparse.HelpOption('h', "help", "show this help message and exit"),
		aparse.VersionOption('V', "version", versionText(), "print the version and exit"),
		aparse.Flag('v', "verbose", "log each parse step"),
		aparse.Flag('q', "quiet", "print positionals only"),
		aparse.IntOption('c', "count", 1, "number of times to print the report").WithMetavar("N"),
		aparse.StringOption('n', "name", "", "label printed before the report").WithMetavar("NAME"),
		aparse.StringOption(0, "log-level", "info", "minimum level of log lines").WithMetavar("LEVEL"),
		aparse.Flag(0, "stop", "treat everything after the first positional as positional"),
	)
	if err := set.RegisterPositional(aparse.PositionalSpec{Metavar: "ARG", Help: "printed after the report", Variadic: true}); err != nil {
		panic(err)
	}
	return set
}

func newRootCmd(tio *termio.IOManager) *cobra.Command {
	set := declarations()

	root := &cobra.Command{
		Use:                progName + " [options] [ARG...]",
		Short:              "Exercise the aparse option parser",
		Long:               description,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(tio, set, args)
		},
	}
	root.SetOut(tio.Out())
	root.SetErr(tio.Err())
	return root
}

func main() {
	tio := termio.New()
	err := newRootCmd(tio).Execute()
	os.Exit(exitCode(err))
}
