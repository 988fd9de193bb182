package term

import "github.com/vtcore/vtcore/pkg/vtparse"

// Feed drives the terminal from a chunk of pty output bytes. Kitty
// graphics APC sequences (`ESC _ G ... ST`) are extracted and handled
// directly: the generic DEC ANSI parser table treats APC/PM/SOS strings
// as opaque and ignores their contents (per the vt100.net state machine
// this parser implements), so Kitty support is layered above it here
// rather than by special-casing APC inside vtparse itself.
//
// Feed may be called repeatedly with successive chunks of a stream; an
// APC sequence split across calls is buffered until its terminator
// arrives.
type Feed struct {
	parser *vtparse.Parser
	state  *State

	inAPC bool
	apcBuf []byte

	// pendingEsc is set when a chunk ends in a lone ESC that might be the
	// first byte of a split 7-bit APC introducer ("ESC _"); the decision
	// of whether it starts an APC is deferred to the next Write call.
	pendingEsc bool

	Responses []string // pty-bound bytes accumulated since the last drain
}

// NewFeed returns a Feed that drives state from raw pty bytes.
func NewFeed(state *State) *Feed {
	return &Feed{parser: vtparse.NewParser(), state: state}
}

// Write feeds data through the parser, updating the underlying State and
// queuing any Kitty protocol responses that must be written back to the
// pty.
func (f *Feed) Write(data []byte) {
	if f.pendingEsc {
		f.pendingEsc = false
		if len(data) > 0 && data[0] == '_' {
			f.inAPC = true
			f.apcBuf = f.apcBuf[:0]
			data = data[1:]
		} else {
			f.parser.Parse([]byte{0x1B}, f.state)
		}
	}

	start := 0
	for i := 0; i < len(data); i++ {
		b := data[i]
		if f.inAPC {
			f.apcBuf = append(f.apcBuf, b)
			if isAPCTerminator(f.apcBuf) {
				f.finishAPC()
				start = i + 1
			}
			continue
		}
		if b == 0x9F || (b == 0x1B && i+1 < len(data) && data[i+1] == '_') {
			if start < i {
				f.parser.Parse(data[start:i], f.state)
			}
			f.inAPC = true
			f.apcBuf = f.apcBuf[:0]
			if b == 0x1B {
				i++ // consume the '_' of the 7-bit introducer too
			}
			start = i + 1
			continue
		}
		if b == 0x1B && i == len(data)-1 {
			// A lone ESC at the end of this chunk might be the start of a
			// split APC introducer; defer the decision to the next Write
			// call, which sees whatever byte follows it.
			if start < i {
				f.parser.Parse(data[start:i], f.state)
			}
			f.pendingEsc = true
			start = i + 1
			continue
		}
	}
	if !f.inAPC && !f.pendingEsc && start < len(data) {
		f.parser.Parse(data[start:], f.state)
	}
}

// isAPCTerminator reports whether buf ends in ST: either the 8-bit form
// (0x9C) or the 7-bit form (ESC \).
func isAPCTerminator(buf []byte) bool {
	n := len(buf)
	if n >= 1 && buf[n-1] == 0x9C {
		return true
	}
	if n >= 2 && buf[n-2] == 0x1B && buf[n-1] == '\\' {
		return true
	}
	return false
}

func (f *Feed) finishAPC() {
	body := f.apcBuf
	if n := len(body); n >= 2 && body[n-2] == 0x1B && body[n-1] == '\\' {
		body = body[:n-2]
	} else if n := len(body); n >= 1 && body[n-1] == 0x9C {
		body = body[:n-1]
	}
	f.inAPC = false
	f.apcBuf = nil

	if len(body) > 0 && body[0] == 'G' {
		if resp := f.state.HandleKittyGraphics(body); resp != "" {
			f.Responses = append(f.Responses, resp)
		}
	}
}

// DrainResponses returns and clears any pty-bound response bytes queued
// by Kitty graphics handling (e.g. the OK/error acknowledgement) and by
// the underlying State's status reports (DSR, DA).
func (f *Feed) DrainResponses() []string {
	out := append(f.Responses, f.state.DrainResponses()...)
	f.Responses = nil
	return out
}
