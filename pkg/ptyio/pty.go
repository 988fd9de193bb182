// Package ptyio wraps github.com/creack/pty to start and drive a child
// process attached to a pseudo-terminal, the one piece of the multiplexer
// core that must reach outside the process.
package ptyio

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Size is a pty's row/column/pixel dimensions, passed to pty.Setsize.
type Size struct {
	Rows, Cols uint16
	PixelX     uint16
	PixelY     uint16
}

// PTY is a running child process attached to a pseudo-terminal. Reads and
// writes go through the master side; Resize and Close affect the slave
// and the child together.
type PTY struct {
	master *os.File
	cmd    *exec.Cmd

	mu     sync.Mutex
	closed bool
}

// Start launches name with args in dir (the process's working directory;
// empty means inherit the mux's own), with env appended to the current
// environment, attached to a new pty of the given initial size.
func Start(name string, args []string, dir string, env []string, size Size) (*PTY, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: size.Rows, Cols: size.Cols, X: size.PixelX, Y: size.PixelY,
	})
	if err != nil {
		return nil, fmt.Errorf("ptyio: start %s: %w", name, err)
	}

	return &PTY{master: master, cmd: cmd}, nil
}

// Read reads pty output into p; it is safe to call concurrently with
// Write but not with another Read.
func (p *PTY) Read(b []byte) (int, error) { return p.master.Read(b) }

// Write sends bytes to the child's stdin.
func (p *PTY) Write(b []byte) (int, error) { return p.master.Write(b) }

// Resize updates the pty's window size, which delivers SIGWINCH to the
// foreground process group.
func (p *PTY) Resize(size Size) error {
	return pty.Setsize(p.master, &pty.Winsize{Rows: size.Rows, Cols: size.Cols, X: size.PixelX, Y: size.PixelY})
}

// Pid returns the child process's process id.
func (p *PTY) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Signal delivers a signal to the child process.
func (p *PTY) Signal(sig os.Signal) error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

// Wait blocks until the child process exits and returns its exit code.
func (p *PTY) Wait() (int, error) {
	err := p.cmd.Wait()
	if p.cmd.ProcessState != nil {
		return p.cmd.ProcessState.ExitCode(), err
	}
	return -1, err
}

// Close releases the pty master. The child is not killed; callers that
// want that should Signal it first.
func (p *PTY) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.master.Close()
}
