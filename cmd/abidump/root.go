package main

import (
	"fmt"
	"os"

	"github.com/branched-services/go-abicodec"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newLogger builds the --verbose logger.
var newLogger = zap.NewDevelopment

type globalFlags struct {
	verbose   bool
	maxLength uint64
	logger    *zap.Logger
}

// syncLogger flushes the --verbose logger, if one was installed.
func (f *globalFlags) syncLogger() {
	if f.logger != nil {
		_ = f.logger.Sync()
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "abidump",
		Short: "Encode and decode Ethereum contract ABI payloads",
		Long: `abidump works with the Ethereum contract ABI:
  selector and topic hashes for signatures,
  call data and revert data decoding against a JSON ABI or a signature,
  call data encoding from JSON arguments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !flags.verbose {
				abicodec.SetLogger(nil)
				return nil
			}
			l, err := newLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			flags.logger = l
			abicodec.SetLogger(l)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			flags.syncLogger()
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log dispatch misses and decode failures to stderr")
	root.PersistentFlags().Uint64Var(&flags.maxLength, "max-length", abicodec.DefaultMaxLength, "largest dynamic length accepted while decoding")

	root.AddCommand(
		newSelectorCmd(),
		newTopicCmd(),
		newDecodeCmd(flags),
		newRevertCmd(flags),
		newEncodeCmd(),
	)
	return root
}

func (f *globalFlags) decodeOptions() []abicodec.DecodeOption {
	return []abicodec.DecodeOption{abicodec.WithMaxLength(f.maxLength)}
}

// loadContract reads a JSON ABI file. An empty path yields a contract with
// only the built-in Error and Panic reverts.
func (f *globalFlags) loadContract(path string) (*abicodec.Contract, error) {
	opts := []abicodec.ContractOption{
		abicodec.WithLogger(abicodec.Logger()),
		abicodec.WithDecodeOptions(f.decodeOptions()...),
	}
	if path == "" {
		return abicodec.NewContract(nil, nil, nil, opts...)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open abi: %w", err)
	}
	defer file.Close()
	return abicodec.ReadABI(file, opts...)
}
