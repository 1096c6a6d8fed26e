package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deltasync/rdelta/pkg/rdelta"
)

func patchMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 3 {
		return errors.New("patch requires exactly three arguments: <basis> <delta> <out>")
	}

	basisPath, deltaPath, outPath := arguments[0], arguments[1], arguments[2]

	basis, err := os.Open(basisPath)
	if err != nil {
		return errors.Wrap(err, "unable to open basis file")
	}
	defer basis.Close()

	deltaFile, err := os.Open(deltaPath)
	if err != nil {
		return errors.Wrap(err, "unable to open delta file")
	}
	defer deltaFile.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "unable to create output file")
	}
	defer outFile.Close()

	stats, err := rdelta.Patch(rdelta.ReaderAtCopyCallback(basis), nil, deltaFile, outFile)
	if err != nil {
		return errors.Wrap(err, "patch application failed")
	}

	if patchConfiguration.verbose {
		warning(stats.String())
	}

	return nil
}

var patchCommand = &cobra.Command{
	Use:   "patch <basis> <delta> <out>",
	Short: "Applies a delta to a basis file to reconstruct a new file",
	RunE:  patchMain,
}

var patchConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// verbose requests a summary of the operation on completion.
	verbose bool
}

func init() {
	flags := patchCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&patchConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&patchConfiguration.verbose, "verbose", "v", false, "Print a summary of the operation")
}
