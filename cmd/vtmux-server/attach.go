package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vtcore/vtcore/pkg/mux/codec"
)

func newAttachCmd() *cobra.Command {
	var paneID uint32

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "attach the local terminal to a pane, proxying keystrokes and render updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			c, err := dial(addr)
			if err != nil {
				return err
			}
			defer c.Close()

			fd := int(os.Stdin.Fd())
			oldState, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("putting terminal into raw mode: %w", err)
			}
			defer term.Restore(fd, oldState)

			done := make(chan struct{})
			go pumpKeystrokes(c, paneID, done)
			pollRenderChanges(c, paneID, done)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&paneID, "pane", 0, "pane id to attach to")
	return cmd
}

// pumpKeystrokes forwards stdin bytes to the pane as WriteToPane requests
// until stdin closes or the connection breaks.
func pumpKeystrokes(c *client, paneID uint32, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			if _, err := c.Request(&codec.WriteToPane{PaneID: paneID, Data: append([]byte(nil), buf[:n]...)}); err != nil {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, "attach: reading stdin:", err)
			}
			return
		}
	}
}

// pollRenderChanges periodically asks the server what changed in the pane
// and writes the updated lines to stdout, until done closes.
func pollRenderChanges(c *client, paneID uint32, done chan struct{}) {
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			resp, err := c.Request(&codec.GetPaneRenderChanges{PaneID: paneID})
			if err != nil {
				return
			}
			changes, ok := resp.Payload.(*codec.GetPaneRenderChangesResponse)
			if !ok {
				continue
			}
			for _, sl := range changes.BonusLines {
				line := codec.DecodeLine(sl)
				fmt.Printf("\r%s\n", line.Text())
			}
		}
	}
}
