package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deltasync/rdelta/pkg/rdelta/trace"
)

func rootMain(command *cobra.Command, arguments []string) {
	// If no flags or subcommand were given, print help and bail.
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "rdelta",
	Short: "rdelta computes and applies rsync-style binary deltas",
	Run:   rootMain,
}

var rootConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// traceLevel is the name of the trace verbosity to install as the
	// package-wide default, one of trace.NameToLevel's recognized names.
	traceLevel string
	// traceID, if non-empty, is prefixed onto every trace line this
	// invocation produces, so log output from several concurrent
	// invocations sharing one destination can be told apart.
	traceID string
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.SortFlags = false
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVar(&rootConfiguration.traceLevel, "trace", "disabled", "Trace verbosity (disabled, error, warn, info, debug)")
	flags.StringVar(&rootConfiguration.traceID, "trace-id", "", "Tag this invocation's trace output with an identifier")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		signatureCommand,
		deltaCommand,
		patchCommand,
	)
}

func main() {
	cobra.OnInitialize(func() {
		level, ok := trace.NameToLevel(rootConfiguration.traceLevel)
		if !ok {
			fatal(errors.Errorf("invalid trace level: %s", rootConfiguration.traceLevel))
		}
		trace.SetLevel(level)
		if rootConfiguration.traceID != "" {
			trace.Root = trace.Root.Sublogger(rootConfiguration.traceID)
		}
	})

	if err := rootCommand.Execute(); err != nil {
		fatal(err)
	}
}
