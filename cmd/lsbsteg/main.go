// Command lsbsteg is the thin CLI wrapper around the lsbsteg engine: it
// only marshals arguments and file I/O. The optional --zip/--key flags
// layer compression and encryption around the core embed/extract calls,
// never inside them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axbits/lsbsteg/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "lsbsteg",
		Short:         "Hide and recover data in the least-significant bits of a raster image",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newEmbedCmd())
	root.AddCommand(newExtractCmd())
	return root
}
