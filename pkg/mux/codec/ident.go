// Package codec frames and serializes the messages exchanged between a
// vtmux client and server over a transport connection. A frame is a
// length-prefixed envelope carrying a serial number (so responses can be
// matched to requests out of order) and an ident (so a PDU's payload type
// can be identified without relying on the decoder to have already guessed
// it) ahead of the payload bytes themselves.
package codec

// Ident identifies a Pdu's concrete payload type on the wire. Values are
// assigned once and never reused, so that a server and client built from
// different versions of this package can still tell an unknown PDU apart
// from a malformed one instead of silently misinterpreting its bytes.
type Ident uint64

const (
	IdentErrorResponse              Ident = 0
	IdentPing                       Ident = 1
	IdentPong                       Ident = 2
	IdentListTabs                   Ident = 3
	IdentListTabsResponse           Ident = 4
	IdentSpawn                      Ident = 7
	IdentSpawnResponse              Ident = 8
	IdentWriteToPane                Ident = 9
	IdentUnitResponse                Ident = 10
	IdentResize                      Ident = 14
	IdentSetClipboard                Ident = 20
	IdentGetLines                    Ident = 22
	IdentGetLinesResponse            Ident = 23
	IdentGetPaneRenderChanges         Ident = 24
	IdentGetPaneRenderChangesResponse Ident = 25
)

// payloadFor returns a fresh, empty value of the Go type registered for
// ident, or false if ident is not recognized. Decode needs a concrete
// target to unmarshal into before it can hand the caller a *Pdu.
func payloadFor(ident Ident) (interface{}, bool) {
	switch ident {
	case IdentErrorResponse:
		return &ErrorResponse{}, true
	case IdentPing:
		return &Ping{}, true
	case IdentPong:
		return &Pong{}, true
	case IdentListTabs:
		return &ListTabs{}, true
	case IdentListTabsResponse:
		return &ListTabsResponse{}, true
	case IdentSpawn:
		return &Spawn{}, true
	case IdentSpawnResponse:
		return &SpawnResponse{}, true
	case IdentWriteToPane:
		return &WriteToPane{}, true
	case IdentUnitResponse:
		return &UnitResponse{}, true
	case IdentResize:
		return &Resize{}, true
	case IdentSetClipboard:
		return &SetClipboard{}, true
	case IdentGetLines:
		return &GetLines{}, true
	case IdentGetLinesResponse:
		return &GetLinesResponse{}, true
	case IdentGetPaneRenderChanges:
		return &GetPaneRenderChanges{}, true
	case IdentGetPaneRenderChangesResponse:
		return &GetPaneRenderChangesResponse{}, true
	default:
		return nil, false
	}
}

// identFor returns the wire ident for a payload's concrete Go type.
func identFor(payload interface{}) (Ident, bool) {
	switch payload.(type) {
	case *ErrorResponse:
		return IdentErrorResponse, true
	case *Ping:
		return IdentPing, true
	case *Pong:
		return IdentPong, true
	case *ListTabs:
		return IdentListTabs, true
	case *ListTabsResponse:
		return IdentListTabsResponse, true
	case *Spawn:
		return IdentSpawn, true
	case *SpawnResponse:
		return IdentSpawnResponse, true
	case *WriteToPane:
		return IdentWriteToPane, true
	case *UnitResponse:
		return IdentUnitResponse, true
	case *Resize:
		return IdentResize, true
	case *SetClipboard:
		return IdentSetClipboard, true
	case *GetLines:
		return IdentGetLines, true
	case *GetLinesResponse:
		return IdentGetLinesResponse, true
	case *GetPaneRenderChanges:
		return IdentGetPaneRenderChanges, true
	case *GetPaneRenderChangesResponse:
		return IdentGetPaneRenderChangesResponse, true
	default:
		return 0, false
	}
}
