package mux

import (
	"fmt"
	"sync"

	"github.com/vtcore/vtcore/pkg/bintree"
)

// SplitDirection selects how a Tab's split node divides its two
// children's screen area.
type SplitDirection int

const (
	SplitHorizontal SplitDirection = iota // children side by side
	SplitVertical                         // children stacked
)

// SplitData is the node payload carried by a Tab's pane tree: how much
// of the parent's area the left child gets.
type SplitData struct {
	Direction SplitDirection
	// Ratio is the left (or top) child's share of the split, in (0, 1).
	Ratio float64
}

// Tab owns a binary tree of Panes reached by recursive splits, plus
// which leaf is active (receives keyboard input when the tab is
// focused).
type Tab struct {
	id     TabId
	domain DomainId

	mu     sync.Mutex
	tree   *bintree.Tree[Pane, SplitData]
	active int // index of the active leaf in a preorder walk
}

// NewTab returns a tab containing a single pane.
func NewTab(domain DomainId, root Pane) *Tab {
	t := &Tab{id: allocTabId(), domain: domain}
	cur := bintree.NewCursor[Pane, SplitData](bintree.Empty[Pane, SplitData]())
	cur, ok := cur.AssignTop(root)
	if !ok {
		panic("mux: AssignTop on empty cursor must succeed")
	}
	t.tree = cur.Tree()
	return t
}

func (t *Tab) Id() TabId { return t.id }

// Panes returns every pane in the tab, in preorder (left-to-right,
// top-to-bottom of the split tree).
func (t *Tab) Panes() []Pane {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Pane
	walkLeaves(t.tree, &out)
	return out
}

func walkLeaves(tr *bintree.Tree[Pane, SplitData], out *[]Pane) {
	if tr.IsEmpty() {
		return
	}
	if leaf, ok := tr.Leaf(); ok {
		*out = append(*out, leaf)
		return
	}
	left, right, _, _ := tr.Node()
	walkLeaves(left, out)
	walkLeaves(right, out)
}

// ActivePane returns the pane that currently receives keyboard input.
func (t *Tab) ActivePane() (Pane, bool) {
	panes := t.Panes()
	if t.active < 0 || t.active >= len(panes) {
		return nil, false
	}
	return panes[t.active], true
}

// SetActive selects the nth leaf (preorder) as active.
func (t *Tab) SetActive(n int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bintree.CountLeaves(t.tree) <= n {
		return false
	}
	t.active = n
	return true
}

// SplitPane splits the active pane, inserting newPane as its sibling.
// insertRight places newPane to the right (or below, for SplitVertical);
// otherwise it goes to the left (or above).
func (t *Tab) SplitPane(newPane Pane, dir SplitDirection, insertRight bool, ratio float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := bintree.NewCursor[Pane, SplitData](t.tree)
	cur, ok := cur.GoToNthLeaf(t.active)
	if !ok {
		return fmt.Errorf("mux: tab %d has no active leaf %d", t.id, t.active)
	}

	var split bool
	if insertRight {
		cur, split = cur.SplitLeafAndInsertRight(newPane)
	} else {
		cur, split = cur.SplitLeafAndInsertLeft(newPane)
	}
	if !split {
		return fmt.Errorf("mux: split failed: focus was not a leaf")
	}
	data := SplitData{Direction: dir, Ratio: ratio}
	cur, ok = cur.AssignNode(&data)
	if !ok {
		return fmt.Errorf("mux: assigning split data failed")
	}

	t.tree = cur.Tree()
	if !insertRight {
		t.active++ // the original leaf shifted right by one
	}
	return nil
}

// RemovePane removes the given pane from the tab. Returns false if the
// tab would become empty (callers should close the whole tab instead)
// or the pane was not found.
//
// The bintree zipper only exposes leaf-level mutation (SetLeaf) and
// whole-node insertion (Split*), not arbitrary subtree replacement, so a
// removal that leaves more than one pane behind is implemented by
// flattening the remaining leaves and rebuilding a fresh right-leaning
// chain of splits (each pane split off to the right of the one before it)
// rather than surgically excising one node from the existing
// tree; any custom split ratios among the untouched panes are not
// preserved.
func (t *Tab) RemovePane(id PaneId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	var remaining []Pane
	walkLeaves(t.tree, &remaining)
	idx := -1
	for i, p := range remaining {
		if p.Id() == id {
			idx = i
			break
		}
	}
	if idx < 0 || len(remaining) <= 1 {
		return false
	}
	remaining = append(remaining[:idx], remaining[idx+1:]...)
	if idx < t.active {
		t.active--
	}

	cur := bintree.NewCursor[Pane, SplitData](bintree.Empty[Pane, SplitData]())
	cur, ok := cur.AssignTop(remaining[0])
	if !ok {
		return false
	}
	for _, p := range remaining[1:] {
		var split bool
		cur, split = cur.SplitLeafAndInsertRight(p)
		if !split {
			return false
		}
		data := SplitData{Direction: SplitHorizontal, Ratio: 0.5}
		cur, ok = cur.AssignNode(&data)
		if !ok {
			return false
		}
		cur, ok = cur.GoRight()
		if !ok {
			return false
		}
	}

	t.tree = cur.Tree()
	if t.active >= len(remaining) {
		t.active = len(remaining) - 1
	}
	return true
}
