package mux

import (
	"fmt"
	"io"
	"sync"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/vtcore/vtcore/pkg/ptyio"
	"github.com/vtcore/vtcore/pkg/term"
)

// Pane is one independently addressable terminal surface. LocalPane runs
// a real child process; ClientPane mirrors a pane owned by a domain
// running in a different process (over the codec protocol); OverlayPane
// is a UI affordance (scrollback search, copy mode) stacked on top of an
// existing pane without itself driving a process.
type Pane interface {
	Id() PaneId
	DomainId() DomainId
	Title() string

	// Write sends bytes as if typed at the pane (keyboard input for a
	// LocalPane, forwarded to the owning domain for a ClientPane).
	Write(p []byte) (int, error)

	Resize(rows, cols int) error

	// RenderableState exposes the pane's terminal model for read-only
	// rendering and search. Screen.Dirty accumulates changed rows and is
	// never cleared; render.go diffs it against a per-pane snapshot.
	RenderableState() *term.State

	Dead() bool
	Close() error
}

// LocalPane drives a real pty-attached child process through a
// term.State, feeding pty output to it via a term.Feed and forwarding
// Kitty graphics responses back to the child.
type LocalPane struct {
	id     PaneId
	domain DomainId
	title  string

	pty   *ptyio.PTY
	state *term.State
	feed  *term.Feed

	// stateMu serializes Resize (called from whatever goroutine handles a
	// resize RPC) against pumpOutput's feed.Write, both of which mutate
	// state.Screen.
	stateMu sync.Mutex

	mu   sync.Mutex
	dead bool

	// OutputSubscribers are notified with newly produced pty bytes, used
	// by the render-change tracker and by raw passthrough clients.
	OutputSubscribers []func(data []byte)
}

// SpawnLocalPane starts name/args in a new pty of size rows x cols and
// returns a pane that drives it.
func SpawnLocalPane(domain DomainId, name string, args []string, dir string, env []string, rows, cols int) (*LocalPane, error) {
	p, err := ptyio.Start(name, args, dir, env, ptyio.Size{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}

	lp := &LocalPane{
		id:     allocPaneId(),
		domain: domain,
		title:  name,
		pty:    p,
		state:  term.NewState(rows, cols, 10_000, 64<<20),
	}
	lp.feed = term.NewFeed(lp.state)

	go lp.pumpOutput()
	go lp.reapOnExit()

	return lp, nil
}

func (p *LocalPane) Id() PaneId        { return p.id }
func (p *LocalPane) DomainId() DomainId { return p.domain }
func (p *LocalPane) Title() string     { return p.title }

func (p *LocalPane) Write(b []byte) (int, error) {
	if p.Dead() {
		return 0, fmt.Errorf("mux: pane %d is dead", p.id)
	}
	return p.pty.Write(b)
}

func (p *LocalPane) Resize(rows, cols int) error {
	p.stateMu.Lock()
	p.state.Screen.Resize(rows, cols)
	p.stateMu.Unlock()
	return p.pty.Resize(ptyio.Size{Rows: uint16(rows), Cols: uint16(cols)})
}

func (p *LocalPane) RenderableState() *term.State { return p.state }

func (p *LocalPane) Dead() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dead
}

func (p *LocalPane) Close() error {
	p.mu.Lock()
	p.dead = true
	p.mu.Unlock()
	_ = p.pty.Signal(processTerminateSignal())
	return p.pty.Close()
}

// pumpOutput is the pane's single reader goroutine: it owns the pty's
// read side and is the only goroutine allowed to call feed.Write. It
// still takes stateMu around that call, since Resize mutates the same
// term.State.Screen from whatever goroutine handles a resize RPC.
func (p *LocalPane) pumpOutput() {
	buf := make([]byte, 32*1024)
	for {
		n, err := p.pty.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			p.stateMu.Lock()
			p.feed.Write(chunk)
			p.stateMu.Unlock()
			for _, resp := range p.feed.DrainResponses() {
				_, _ = p.pty.Write([]byte(resp))
			}
			for _, sub := range p.OutputSubscribers {
				sub(chunk)
			}
		}
		if err != nil {
			if err != io.EOF {
				// A read error past EOF (e.g. the pty closing under us)
				// just ends the pump; the process exit is observed by
				// reapOnExit.
			}
			return
		}
	}
}

// ForegroundProcess returns the pid and executable name of the process
// currently running in the pane's foreground process group: the shell's
// pty-attached child if it has spawned one, else the shell itself. This is
// what a client's tab title or "close confirmation" prompt wants, rather
// than the shell's own pid, which rarely changes for the life of the pane.
func (p *LocalPane) ForegroundProcess() (pid int32, name string, err error) {
	shellPid := int32(p.pty.Pid())
	proc, err := process.NewProcess(shellPid)
	if err != nil {
		return 0, "", fmt.Errorf("mux: looking up pane %d's shell process: %w", p.id, err)
	}

	children, err := proc.Children()
	if err == nil && len(children) > 0 {
		proc = children[len(children)-1]
	}

	name, err = proc.Name()
	if err != nil {
		return proc.Pid, "", fmt.Errorf("mux: looking up foreground process name: %w", err)
	}
	return proc.Pid, name, nil
}

func (p *LocalPane) reapOnExit() {
	_, _ = p.pty.Wait()
	p.mu.Lock()
	p.dead = true
	p.mu.Unlock()
}
