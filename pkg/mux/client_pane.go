package mux

import (
	"fmt"

	"github.com/vtcore/vtcore/pkg/term"
)

// ClientPane mirrors a pane whose process lives in a different domain
// (a remote vtmux-server reached over the codec/transport stack). Writes
// are handed to Send, which the owning domain wires to its PDU
// connection; RenderableState is kept current by the domain replaying
// GetPaneRenderChanges / SetPaneZoomed-style PDUs into it, not by this
// pane reading a pty directly.
//
// Between the keystroke leaving this pane and the server's authoritative
// echo arriving back over the wire, Write also applies the bytes to a
// local display buffer speculatively ("local prediction"), so typing over
// a high-latency link feels responsive. confirmed holds only what the
// server has actually acknowledged via ApplyRemoteOutput; state is what
// RenderableState exposes to a renderer, and is rebuilt from confirmed
// (discarding any still-outstanding predictions) every time authoritative
// output arrives.
type ClientPane struct {
	id     PaneId
	domain DomainId
	title  string

	confirmed     *term.State
	confirmedFeed *term.Feed

	state *term.State
	feed  *term.Feed

	predicted [][]byte

	Send func(data []byte) error

	dead bool
}

// NewClientPane returns a pane for a remote-owned pty, sized rows x cols.
func NewClientPane(domain DomainId, id PaneId, title string, rows, cols int) *ClientPane {
	confirmed := term.NewState(rows, cols, 10_000, 64<<20)
	display := confirmed.Clone()
	return &ClientPane{
		id:            id,
		domain:        domain,
		title:         title,
		confirmed:     confirmed,
		confirmedFeed: term.NewFeed(confirmed),
		state:         display,
		feed:          term.NewFeed(display),
	}
}

func (p *ClientPane) Id() PaneId         { return p.id }
func (p *ClientPane) DomainId() DomainId { return p.domain }
func (p *ClientPane) Title() string      { return p.title }

func (p *ClientPane) Write(b []byte) (int, error) {
	if p.dead {
		return 0, fmt.Errorf("mux: client pane %d is dead", p.id)
	}
	if p.Send == nil {
		return 0, fmt.Errorf("mux: client pane %d has no transport attached", p.id)
	}
	if err := p.Send(b); err != nil {
		return 0, err
	}
	p.predict(b)
	return len(b), nil
}

// predict applies locally-typed input to the display buffer immediately,
// ahead of the round trip to the owning domain, and remembers it as
// outstanding until the next authoritative sync. Pasted or programmatic
// input that does not look like plain keystrokes (the common case this
// bothers with is single characters and short control sequences such as
// Enter/Backspace) still gets applied the same way; it is simply replaced
// once real output supersedes it.
func (p *ClientPane) predict(input []byte) {
	p.predicted = append(p.predicted, append([]byte(nil), input...))
	p.feed.Write(input)
}

func (p *ClientPane) Resize(rows, cols int) error {
	p.confirmed.Screen.Resize(rows, cols)
	p.state.Screen.Resize(rows, cols)
	return nil
}

func (p *ClientPane) RenderableState() *term.State { return p.state }
func (p *ClientPane) Dead() bool                   { return p.dead }
func (p *ClientPane) Close() error                  { p.dead = true; return nil }

// ApplyRemoteOutput feeds bytes received from the owning domain (the
// decoded payload of a PDU carrying pty output) into this pane's
// confirmed terminal model, then rebuilds the display buffer from it,
// reverting any predictions that were outstanding: the server's view
// always wins once it arrives.
func (p *ClientPane) ApplyRemoteOutput(data []byte) {
	p.confirmedFeed.Write(data)
	p.predicted = p.predicted[:0]
	p.state = p.confirmed.Clone()
	p.feed = term.NewFeed(p.state)
}

// OverlayPane stacks a transient UI (scrollback search, copy mode) over
// an existing pane. It owns no process; Write captures keystrokes for
// the overlay itself instead of forwarding them to the underlying pane.
type OverlayPane struct {
	id         PaneId
	domain     DomainId
	title      string
	state      *term.State
	feed       *term.Feed
	Underlying Pane

	dead bool
}

// NewOverlayPane returns an overlay of the same dimensions as under.
func NewOverlayPane(under Pane, title string) *OverlayPane {
	rows, cols := under.RenderableState().Screen.Rows(), under.RenderableState().Screen.Cols()
	state := term.NewState(rows, cols, 0, 0)
	return &OverlayPane{
		id:         allocPaneId(),
		domain:     under.DomainId(),
		title:      title,
		state:      state,
		feed:       term.NewFeed(state),
		Underlying: under,
	}
}

func (p *OverlayPane) Id() PaneId         { return p.id }
func (p *OverlayPane) DomainId() DomainId { return p.domain }
func (p *OverlayPane) Title() string      { return p.title }

func (p *OverlayPane) Write(b []byte) (int, error) {
	p.feed.Write(b)
	return len(b), nil
}

func (p *OverlayPane) Resize(rows, cols int) error {
	p.state.Screen.Resize(rows, cols)
	return nil
}

func (p *OverlayPane) RenderableState() *term.State { return p.state }
func (p *OverlayPane) Dead() bool                   { return p.dead }
func (p *OverlayPane) Close() error                 { p.dead = true; return nil }
