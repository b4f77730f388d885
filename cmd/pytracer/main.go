// Command pytracer is a minimal demo driver for the tracer package: given a
// Python snippet on disk, it produces one artifact JSON document. It is
// not the out-of-scope Orchestrator — just enough of a CLI to exercise
// Tracer.Run and validate.Directory from a shell, the way a teacher repo
// without its own CLI would be enriched from the rest of the example pack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pytracer",
		Short: "Trace a Python-like snippet and emit a replayable artifact",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	return root
}
