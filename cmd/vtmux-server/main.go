// Command vtmux-server runs a mux server (or, with the attach/list-panes/
// split-pane subcommands, acts as a thin client against a running one).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "vtmux-server",
		Short: "terminal multiplexer server and client",
	}
	root.PersistentFlags().String("addr", "127.0.0.1:7682", "mux server codec address for client subcommands")

	root.AddCommand(newServeCmd())
	root.AddCommand(newAttachCmd())
	root.AddCommand(newListPanesCmd())
	root.AddCommand(newSplitPaneCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
