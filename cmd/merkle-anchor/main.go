// Command merkle-anchor computes Merkle roots over JSON record batches,
// anchors them on a Hedera Consensus Service topic and verifies record
// inclusion proofs against anchored roots.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
