package term

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/vtcore/vtcore/pkg/kitty"
)

// dispatchOSC handles a complete operating system command string, split
// on ';' into byte-slice fields by the parser. params[0] is the OSC
// number.
func (s *State) dispatchOSC(params [][]byte) {
	if len(params) == 0 {
		return
	}
	num, ok := parseOSCNumber(params[0])
	if !ok {
		return
	}

	switch num {
	case 0, 2: // icon name + window title, or window title alone
		// Title text is ignored: the core model does not retain a title
		// field of its own.
	case 8: // hyperlink
		s.handleOSC8(params)
	case 52: // clipboard
		s.handleOSC52(params)
	case 133: // semantic prompt marks
		s.handleOSC133(params)
	case 1337: // iTerm2 proprietary, including inline images on some terminals
		// Not implemented: inline images go through the Kitty protocol
		// (ESC _G ... ST), which Feed extracts before the parser, not OSC.
	}
}

func parseOSCNumber(field []byte) (int, bool) {
	n, err := strconv.Atoi(string(field))
	if err != nil {
		return 0, false
	}
	return n, true
}

// handleOSC8 implements `OSC 8 ; params ; uri ST`. An empty uri closes
// the current hyperlink. The Hyperlink is shared by pointer across every
// cell it covers, so renderers can tell "same link" apart from "two
// links that happen to have equal text" by pointer identity; only a new
// OSC 8 or a soft reset (CSI !p) ever replaces it; a hard reset keeps it.
func (s *State) handleOSC8(params [][]byte) {
	if len(params) < 3 {
		s.curHyperlink = nil
		s.template.Hyperlink = nil
		return
	}
	uri := string(params[2])
	if uri == "" {
		s.curHyperlink = nil
		s.template.Hyperlink = nil
		return
	}
	id := extractHyperlinkID(string(params[1]))
	s.curHyperlink = &Hyperlink{ID: id, URI: uri}
	s.template.Hyperlink = s.curHyperlink
}

// extractHyperlinkID pulls the "id=" field out of OSC 8's params segment,
// which is itself a ':'-separated list of key=value pairs.
func extractHyperlinkID(raw string) string {
	for _, kv := range strings.Split(raw, ":") {
		if strings.HasPrefix(kv, "id=") {
			return kv[len("id="):]
		}
	}
	return ""
}

// handleOSC52 implements `OSC 52 ; selection ; data ST`. data is either a
// base64 payload to store, or the literal "?" (a query, which this core
// model does not answer since doing so means handing a pane whatever the
// last SetClipboard push contained) or empty (no-op).
func (s *State) handleOSC52(params [][]byte) {
	if len(params) < 3 {
		return
	}
	data := string(params[2])
	if data == "" || data == "?" {
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}
	s.Clipboard = string(decoded)
}

// handleOSC133 implements shell-integration semantic prompt marks:
// `OSC 133 ; A` (prompt start), `; B` (command start / input), `; C`
// (command output start), and `; D [; exit-code]` (command finished).
func (s *State) handleOSC133(params [][]byte) {
	if len(params) < 2 {
		return
	}
	row := s.Screen.StableIndex(s.Cursor.Y)
	switch string(params[1]) {
	case "A":
		s.Semantic.Mark(ZonePrompt, row, s.Cursor.X)
	case "B":
		s.Semantic.Mark(ZoneInput, row, s.Cursor.X)
	case "C":
		s.Semantic.Mark(ZoneOutput, row, s.Cursor.X)
	case "D":
		if len(params) >= 3 {
			if code, err := strconv.Atoi(string(params[2])); err == nil {
				s.Semantic.SetExitCode(code)
			}
		}
	}
}

// HandleKittyGraphics parses and applies one Kitty graphics APC payload
// (the bytes between `ESC _ G` and the terminating ST), returning the
// response string to write back to the pty, if any.
func (s *State) HandleKittyGraphics(payload []byte) string {
	cmd, err := kitty.Parse(payload)
	if err != nil {
		return kitty.FormatResponse(0, err.Error(), true)
	}
	return s.Graphics.Handle(cmd, s.Screen.StableIndex(s.Cursor.Y), s.Cursor.X)
}
