package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deltasync/rdelta/pkg/rdelta"
)

func deltaMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 3 {
		return errors.New("delta requires exactly three arguments: <signature> <new-file> <delta-out>")
	}

	sigPath, newPath, deltaPath := arguments[0], arguments[1], arguments[2]

	sigFile, err := os.Open(sigPath)
	if err != nil {
		return errors.Wrap(err, "unable to open signature file")
	}
	defer sigFile.Close()

	sig, err := rdelta.LoadSignature(sigFile)
	if err != nil {
		return errors.Wrap(err, "unable to load signature")
	}

	newFile, err := os.Open(newPath)
	if err != nil {
		return errors.Wrap(err, "unable to open new file")
	}
	defer newFile.Close()

	deltaFile, err := os.Create(deltaPath)
	if err != nil {
		return errors.Wrap(err, "unable to create delta file")
	}
	defer deltaFile.Close()

	stats, err := rdelta.Delta(sig, newFile, deltaFile)
	if err != nil {
		return errors.Wrap(err, "delta generation failed")
	}

	if deltaConfiguration.verbose {
		warning(stats.String())
	}

	return nil
}

var deltaCommand = &cobra.Command{
	Use:   "delta <signature> <new-file> <delta-out>",
	Short: "Computes a delta between a signature and a new file",
	RunE:  deltaMain,
}

var deltaConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// verbose requests a summary of the operation on completion.
	verbose bool
}

func init() {
	flags := deltaCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&deltaConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&deltaConfiguration.verbose, "verbose", "v", false, "Print a summary of the operation")
}
