package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deltasync/rdelta/pkg/rdelta"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
)

// magicFor resolves the --rolling/--hash flag pair into a signature.Magic.
func magicFor(rolling, hash string) (signature.Magic, error) {
	switch rolling + "/" + hash {
	case "rollsum/md4":
		return signature.MagicMD4RollSum, nil
	case "rollsum/blake2b":
		return signature.MagicBlake2RollSum, nil
	case "rabinkarp/md4":
		return signature.MagicMD4RabinKarp, nil
	case "rabinkarp/blake2b":
		return signature.MagicBlake2RabinKarp, nil
	default:
		return 0, errors.Errorf("unrecognized rolling/hash combination: %s/%s", rolling, hash)
	}
}

func signatureMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 2 {
		return errors.New("signature requires exactly two arguments: <basis> <signature-out>")
	}

	basisPath, sigPath := arguments[0], arguments[1]

	magic, err := magicFor(signatureConfiguration.rolling, signatureConfiguration.hash)
	if err != nil {
		return err
	}

	basis, err := os.Open(basisPath)
	if err != nil {
		return errors.Wrap(err, "unable to open basis file")
	}
	defer basis.Close()

	sigFile, err := os.Create(sigPath)
	if err != nil {
		return errors.Wrap(err, "unable to create signature file")
	}
	defer sigFile.Close()

	stats, err := rdelta.Signature(basis, sigFile, signatureConfiguration.blockLen, signatureConfiguration.strongLen, magic)
	if err != nil {
		return errors.Wrap(err, "signature generation failed")
	}

	if signatureConfiguration.verbose {
		warning(stats.String())
	}

	return nil
}

var signatureCommand = &cobra.Command{
	Use:   "signature <basis> <signature-out>",
	Short: "Generates a block signature for a basis file",
	RunE:  signatureMain,
}

var signatureConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// blockLen is the block size to use, or 0 for the recommended default.
	blockLen uint32
	// strongLen is the strong checksum truncation length, or 0 for the
	// algorithm's full length.
	strongLen uint32
	// rolling selects the weak checksum algorithm.
	rolling string
	// hash selects the strong checksum algorithm.
	hash string
	// verbose requests a summary of the operation on completion.
	verbose bool
}

func init() {
	flags := signatureCommand.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&signatureConfiguration.help, "help", "h", false, "Show help information")
	flags.Uint32Var(&signatureConfiguration.blockLen, "block-size", 0, "Block size in bytes (0 picks a recommended default)")
	flags.Uint32Var(&signatureConfiguration.strongLen, "strong-length", 0, "Strong checksum truncation length in bytes (0 uses the full digest)")
	flags.StringVar(&signatureConfiguration.rolling, "rolling", "rabinkarp", "Rolling checksum algorithm (rollsum, rabinkarp)")
	flags.StringVar(&signatureConfiguration.hash, "hash", "blake2b", "Strong checksum algorithm (md4, blake2b)")
	flags.BoolVarP(&signatureConfiguration.verbose, "verbose", "v", false, "Print a summary of the operation")
}
