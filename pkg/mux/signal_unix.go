//go:build !windows

package mux

import (
	"os"
	"syscall"
)

// processTerminateSignal is the signal sent to a pane's child process
// group when the pane is closed: SIGHUP, matching what a real terminal
// sends its foreground job on hangup.
func processTerminateSignal() os.Signal { return syscall.SIGHUP }
