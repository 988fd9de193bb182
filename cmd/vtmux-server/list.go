package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vtcore/vtcore/pkg/mux/codec"
)

func newListPanesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-panes",
		Short: "list windows and tabs known to a mux server",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			c, err := dial(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.Request(&codec.ListTabs{})
			if err != nil {
				return err
			}
			list, ok := resp.Payload.(*codec.ListTabsResponse)
			if !ok {
				return fmt.Errorf("unexpected response %T", resp.Payload)
			}
			for _, t := range list.Tabs {
				fmt.Printf("window=%d tab=%d %dx%d %q\n", t.WindowID, t.TabID, t.Rows, t.Cols, t.Title)
			}
			return nil
		},
	}
}

func newSplitPaneCmd() *cobra.Command {
	var windowID uint32
	var command string
	var rows, cols int

	cmd := &cobra.Command{
		Use:   "split-pane",
		Short: "spawn a new pane in a new tab of --window, or in a new window if --window is 0; no existing pane is split",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			c, err := dial(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.Request(&codec.Spawn{
				WindowID: windowID,
				Command:  command,
				Rows:     rows,
				Cols:     cols,
			})
			if err != nil {
				return err
			}
			spawned, ok := resp.Payload.(*codec.SpawnResponse)
			if !ok {
				return fmt.Errorf("unexpected response %T", resp.Payload)
			}
			fmt.Printf("pane=%d tab=%d window=%d\n", spawned.PaneID, spawned.TabID, spawned.WindowID)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&windowID, "window", 0, "window to add the new tab to; 0 creates a new window")
	cmd.Flags().StringVar(&command, "command", "", "command to run; empty uses the server's default shell")
	cmd.Flags().IntVar(&rows, "rows", 24, "pane row count")
	cmd.Flags().IntVar(&cols, "cols", 80, "pane column count")
	return cmd
}
