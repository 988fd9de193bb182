package transport

import (
	"fmt"

	"github.com/vtcore/vtcore/pkg/mux"
	"github.com/vtcore/vtcore/pkg/mux/codec"
	"github.com/vtcore/vtcore/pkg/rangeset"
	"github.com/vtcore/vtcore/pkg/term"
)

// MuxDispatcher answers codec requests against a local *mux.Mux, letting
// both WebSocketHandler and TCPServer share one request/response mapping
// regardless of which wire transport carried the request in.
type MuxDispatcher struct {
	Mux           *mux.Mux
	Tracker       *mux.RenderTracker
	DefaultDomain mux.DomainId
}

func NewMuxDispatcher(m *mux.Mux, defaultDomain mux.DomainId) *MuxDispatcher {
	return &MuxDispatcher{Mux: m, Tracker: mux.NewRenderTracker(), DefaultDomain: defaultDomain}
}

func (d *MuxDispatcher) Dispatch(req *codec.Pdu) (interface{}, error) {
	switch p := req.Payload.(type) {
	case *codec.Ping:
		return &codec.Pong{}, nil

	case *codec.WriteToPane:
		pane, ok := d.Mux.Pane(mux.PaneId(p.PaneID))
		if !ok {
			return nil, fmt.Errorf("no such pane %d", p.PaneID)
		}
		if _, err := pane.Write(p.Data); err != nil {
			return nil, err
		}
		return &codec.UnitResponse{}, nil

	case *codec.Resize:
		pane, ok := d.Mux.Pane(mux.PaneId(p.PaneID))
		if !ok {
			return nil, fmt.Errorf("no such pane %d", p.PaneID)
		}
		if err := pane.Resize(p.Rows, p.Cols); err != nil {
			return nil, err
		}
		return &codec.UnitResponse{}, nil

	case *codec.SetClipboard:
		pane, ok := d.Mux.Pane(mux.PaneId(p.PaneID))
		if !ok {
			return nil, fmt.Errorf("no such pane %d", p.PaneID)
		}
		if p.Clipboard == nil {
			pane.RenderableState().Clipboard = ""
		} else {
			pane.RenderableState().Clipboard = *p.Clipboard
		}
		return &codec.UnitResponse{}, nil

	case *codec.GetPaneRenderChanges:
		pane, ok := d.Mux.Pane(mux.PaneId(p.PaneID))
		if !ok {
			return nil, fmt.Errorf("no such pane %d", p.PaneID)
		}
		return d.renderChangesResponse(pane), nil

	case *codec.GetLines:
		pane, ok := d.Mux.Pane(mux.PaneId(p.PaneID))
		if !ok {
			return nil, fmt.Errorf("no such pane %d", p.PaneID)
		}
		return d.getLinesResponse(pane, p.Lines), nil

	case *codec.ListTabs:
		return d.listTabsResponse(), nil

	case *codec.Spawn:
		return d.spawn(p)

	default:
		return nil, fmt.Errorf("unsupported request %T", p)
	}
}

func (d *MuxDispatcher) renderChangesResponse(pane mux.Pane) *codec.GetPaneRenderChangesResponse {
	change := d.Tracker.Changes(pane)
	state := pane.RenderableState()

	ranges := make([]codec.LineRange, len(change.Rows))
	for i, r := range change.Rows {
		ranges[i] = codec.LineRange{Start: r, End: r + 1}
	}

	bonus := make([]codec.SerializedLine, 0, len(change.Rows))
	for _, row := range change.Rows {
		if line, ok := lineAt(state, row); ok {
			bonus = append(bonus, codec.EncodeLine(line))
		}
	}

	return &codec.GetPaneRenderChangesResponse{
		PaneID:        uint32(pane.Id()),
		CursorVisible: state.Cursor.Visible,
		Cursor:        codec.StableCursorPosition{X: change.CursorX, Y: change.CursorY},
		Rows:          state.Screen.Rows(),
		Cols:          state.Screen.Cols(),
		Title:         pane.Title(),
		DirtyLines:    ranges,
		BonusLines:    bonus,
	}
}

func (d *MuxDispatcher) getLinesResponse(pane mux.Pane, want []codec.LineRange) *codec.GetLinesResponse {
	state := pane.RenderableState()
	var out []codec.SerializedLine
	for _, r := range want {
		for row := r.Start; row < r.End; row++ {
			if line, ok := lineAt(state, row); ok {
				out = append(out, codec.EncodeLine(line))
			}
		}
	}
	return &codec.GetLinesResponse{Lines: out}
}

func (d *MuxDispatcher) listTabsResponse() *codec.ListTabsResponse {
	var entries []codec.WindowAndTabEntry
	for _, win := range d.Mux.Windows() {
		for _, tab := range win.Tabs() {
			rows, cols := 0, 0
			if pane, ok := tab.ActivePane(); ok {
				state := pane.RenderableState()
				rows, cols = state.Screen.Rows(), state.Screen.Cols()
			}
			entries = append(entries, codec.WindowAndTabEntry{
				WindowID: uint32(win.Id()),
				TabID:    uint32(tab.Id()),
				Title:    win.Title(),
				Rows:     rows,
				Cols:     cols,
			})
		}
	}
	return &codec.ListTabsResponse{Tabs: entries}
}

func (d *MuxDispatcher) spawn(p *codec.Spawn) (*codec.SpawnResponse, error) {
	domain := d.DefaultDomain
	rows, cols := p.Rows, p.Cols
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}

	pane, err := mux.SpawnLocalPane(domain, p.Command, p.Args, p.CommandDir, nil, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("spawning pane: %w", err)
	}

	if p.WindowID == 0 {
		win, tab := d.Mux.NewWindow(domain, p.Command, pane)
		return &codec.SpawnResponse{PaneID: uint32(pane.Id()), TabID: uint32(tab.Id()), WindowID: uint32(win.Id())}, nil
	}

	tab, err := d.Mux.AddTabToWindow(mux.WindowId(p.WindowID), pane)
	if err != nil {
		return nil, err
	}
	return &codec.SpawnResponse{PaneID: uint32(pane.Id()), TabID: uint32(tab.Id()), WindowID: p.WindowID}, nil
}

// lineAt resolves a stable row index against a pane's current scrollback
// plus viewport, since the wire protocol addresses rows by stable index
// but term.Screen's VisibleLines is indexed from the oldest retained row.
func lineAt(state *term.State, row rangeset.StableRowIndex) (term.Line, bool) {
	lines := state.Screen.VisibleLines()
	offset := int64(row - state.Screen.FirstStableRow())
	if offset < 0 || offset >= int64(len(lines)) {
		return term.Line{}, false
	}
	return lines[offset], true
}
