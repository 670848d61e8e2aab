// Command abidump computes selectors and topics and encodes or decodes
// contract ABI payloads from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/branched-services/go-abicodec"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// PersistentPostRun is skipped when a command fails.
		_ = abicodec.Logger().Sync()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
