package main

import (
	"errors"
	"fmt"

	"github.com/branched-services/go-abicodec"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func newSelectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "selector <signature>",
		Short:   "Print the 4-byte selector of a function or error signature",
		Example: `  abidump selector "transfer(address to, uint256 amount)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := abicodec.ParseMethod(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.Selector().Hex(), m.Signature())
			return nil
		},
	}
}

func newTopicCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topic <signature>",
		Short:   "Print the topic0 hash of an event signature",
		Example: `  abidump topic "OwnershipTransferred(address indexed previousOwner, address indexed newOwner)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, inputs, _, err := abicodec.ParseSignature(args[0])
			if err != nil {
				return err
			}
			sig := abicodec.Signature(name, abicodec.Types(inputs))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", abicodec.EventSignatureHash(sig).Hex(), sig)
			return nil
		},
	}
}

func newDecodeCmd(flags *globalFlags) *cobra.Command {
	var abiPath, sig string

	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode call data against a JSON ABI or a function signature",
		Example: `  abidump decode --abi LightClient.abi.json 0x8da5cb5b
  abidump decode --sig "transfer(address,uint256)" 0xa9059cbb...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hexutil.Decode(args[0])
			if err != nil {
				return fmt.Errorf("call data: %w", err)
			}

			var d abicodec.Decoded
			switch {
			case abiPath != "" && sig != "":
				return errors.New("--abi and --sig are mutually exclusive")
			case abiPath != "":
				c, err := flags.loadContract(abiPath)
				if err != nil {
					return err
				}
				if d, err = c.DecodeCallData(data); err != nil {
					return err
				}
			case sig != "":
				m, err := abicodec.ParseMethod(sig)
				if err != nil {
					return err
				}
				values, err := m.DecodeCall(data, flags.decodeOptions()...)
				if err != nil {
					return err
				}
				d = abicodec.Decoded{Name: m.Name, Signature: m.Signature(), Values: values}
				for _, f := range m.Inputs {
					d.Names = append(d.Names, f.Name)
				}
			default:
				return errors.New("one of --abi or --sig is required")
			}
			return writeDecoded(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "path to a JSON ABI file")
	cmd.Flags().StringVar(&sig, "sig", "", "function signature, e.g. \"transfer(address,uint256)\"")
	return cmd
}

func newRevertCmd(flags *globalFlags) *cobra.Command {
	var abiPath string

	cmd := &cobra.Command{
		Use:   "revert <hex>",
		Short: "Decode revert data as a custom error, Error(string) or Panic(uint256)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hexutil.Decode(args[0])
			if err != nil {
				return fmt.Errorf("revert data: %w", err)
			}
			c, err := flags.loadContract(abiPath)
			if err != nil {
				return err
			}
			d, err := c.DecodeRevert(data)
			if err != nil {
				return err
			}
			return writeDecoded(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "path to a JSON ABI file (built-in reverts only if omitted)")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var sig string

	cmd := &cobra.Command{
		Use:     "encode <json-args>",
		Short:   "Encode call data from a JSON array of arguments",
		Example: `  abidump encode --sig "transfer(address,uint256)" '["0x4444444444444444444444444444444444444444", "1000"]'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sig == "" {
				return errors.New("--sig is required")
			}
			m, err := abicodec.ParseMethod(sig)
			if err != nil {
				return err
			}
			values, err := parseArgs(abicodec.Types(m.Inputs), args[0])
			if err != nil {
				return err
			}
			data, err := m.EncodeCall(values...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&sig, "sig", "", "function signature, e.g. \"transfer(address,uint256)\"")
	return cmd
}
