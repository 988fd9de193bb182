package mux

import (
	"github.com/vtcore/vtcore/pkg/rangeset"
	"github.com/vtcore/vtcore/pkg/term"
)

// RenderChange describes the rows a client needs to re-fetch to catch
// its view of a pane up to date.
type RenderChange struct {
	PaneId PaneId
	Rows   []rangeset.StableRowIndex
	CursorX, CursorY int
}

// RenderTracker computes, per client, the minimal set of rows that
// changed since the client's last sync: every row the pane's Screen
// marked dirty, plus a handful of "bonus" lines a client is likely to
// re-render anyway (the cursor's row, always included even if its
// content did not change, since the cursor itself moved) so that small,
// frequent cursor-only updates do not thrash a client's row cache with
// one-row diffs when a slightly larger batch would do.
type RenderTracker struct {
	seen map[PaneId]*rangeset.Set
}

// NewRenderTracker returns a tracker with no prior state: the first
// Changes call for any pane returns every retained row (scrollback plus
// viewport).
func NewRenderTracker() *RenderTracker {
	return &RenderTracker{seen: make(map[PaneId]*rangeset.Set)}
}

// Changes returns the rows of pane that changed since the tracker last
// observed it, and records the pane's current dirty set as the new
// baseline.
func (rt *RenderTracker) Changes(pane Pane) RenderChange {
	state := pane.RenderableState()
	current := state.Screen.Dirty

	prev, ok := rt.seen[pane.Id()]
	var delta *rangeset.Set
	if !ok {
		delta = allRows(state)
	} else {
		delta = current.Difference(prev)
	}
	rt.seen[pane.Id()] = current.Clone()

	rows := delta.Rows()
	cursorRow := state.Screen.StableIndex(state.Cursor.Y)
	if !delta.Contains(cursorRow) {
		rows = append(rows, cursorRow)
	}

	return RenderChange{
		PaneId:  pane.Id(),
		Rows:    rows,
		CursorX: state.Cursor.X,
		CursorY: state.Cursor.Y,
	}
}

// Forget drops tracking state for a pane, e.g. once it is closed.
func (rt *RenderTracker) Forget(id PaneId) {
	delete(rt.seen, id)
}

// allRows returns a set covering every row currently retained for
// state's screen (scrollback plus viewport), used as the delta for a
// client's first sync of a pane.
func allRows(state *term.State) *rangeset.Set {
	out := rangeset.New()
	first := state.Screen.FirstStableRow()
	total := len(state.Screen.VisibleLines())
	out.Add(first, first+rangeset.StableRowIndex(total))
	return out
}
