package codec

import "github.com/vtcore/vtcore/pkg/rangeset"

// Pdu is a decoded message: its payload plus the serial number the sender
// used to tag it, so a reply (carrying the same serial) can be matched to
// the request that triggered it without blocking on a response before the
// next request can be sent.
type Pdu struct {
	Serial  uint64
	Ident   Ident
	Payload interface{}
}

// ErrorResponse reports that a request could not be carried out.
type ErrorResponse struct {
	Reason string
}

// Ping/Pong are an idle connection's heartbeat: a client with no other
// traffic to send still wants to notice a half-closed socket before the
// next real request times out.
type Ping struct{}
type Pong struct{}

// ListTabs asks a domain for every window and tab it currently owns.
type ListTabs struct {
	DomainID string
}

// WindowAndTabEntry describes one tab for a ListTabsResponse.
type WindowAndTabEntry struct {
	WindowID uint32
	TabID    uint32
	Title    string
	Rows     int
	Cols     int
}

type ListTabsResponse struct {
	Tabs []WindowAndTabEntry
}

// Spawn asks a domain to start a new pane, either inside an existing
// window or (WindowID == 0) in a freshly created one.
type Spawn struct {
	DomainID   string
	WindowID   uint32 // 0 means create a new window
	Command    string
	Args       []string
	CommandDir string
	Rows, Cols int
}

type SpawnResponse struct {
	PaneID   uint32
	TabID    uint32
	WindowID uint32
}

// WriteToPane forwards raw input bytes (typically a key or paste) to a
// pane's pty.
type WriteToPane struct {
	PaneID uint32
	Data   []byte
}

// UnitResponse acknowledges a request with no data of its own to return.
type UnitResponse struct{}

type Resize struct {
	PaneID     uint32
	Rows, Cols int
}

// SetClipboard pushes (or, if Clipboard is nil, clears) the clipboard
// value recorded in a pane's terminal state, the same field OSC 52 writes.
type SetClipboard struct {
	PaneID    uint32
	Clipboard *string
}

// GetLines requests specific scrollback/viewport row ranges of a pane, by
// stable row index, so a client can fetch only the rows it is missing
// (e.g. after scrolling back) instead of the whole screen.
type GetLines struct {
	PaneID uint32
	Lines  []LineRange
}

type LineRange struct {
	Start, End rangeset.StableRowIndex
}

type GetLinesResponse struct {
	Lines []SerializedLine
}

// GetPaneRenderChanges asks for what changed in a pane since the client's
// last GetPaneRenderChanges against it.
type GetPaneRenderChanges struct {
	PaneID uint32
}

type StableCursorPosition struct {
	X, Y int
}

type GetPaneRenderChangesResponse struct {
	PaneID        uint32
	CursorVisible bool
	Cursor        StableCursorPosition
	Rows, Cols    int
	Title         string
	DirtyLines    []LineRange
	// BonusLines are lines the server expects the client to want right
	// away (the dirty rows plus the cursor's row), sent inline so a
	// typical update round-trips in one request instead of two.
	BonusLines []SerializedLine
}
