// Package bintree implements a binary tree with a zipper-based cursor,
// used by the mux to represent window splits. Leaves hold panes; interior
// nodes optionally carry split metadata (direction, size ratio).
package bintree

// Tree is a (mostly) proper binary tree: every Node has exactly two
// children, except for the special case of a tree rooted at a single leaf.
// Non-leaf nodes may carry an optional data value of type N; leaves carry
// a required value of type L.
type Tree[L any, N any] struct {
	kind  kind
	leaf  L
	left  *Tree[L, N]
	right *Tree[L, N]
	data  *N
}

type kind int

const (
	kindEmpty kind = iota
	kindLeaf
	kindNode
)

// Empty returns an empty tree.
func Empty[L any, N any]() *Tree[L, N] {
	return &Tree[L, N]{kind: kindEmpty}
}

// IsEmpty reports whether the tree holds no nodes at all.
func (t *Tree[L, N]) IsEmpty() bool {
	return t == nil || t.kind == kindEmpty
}

// IsLeaf reports whether the tree is a single leaf.
func (t *Tree[L, N]) IsLeaf() bool {
	return t != nil && t.kind == kindLeaf
}

// IsNode reports whether the tree is an interior node.
func (t *Tree[L, N]) IsNode() bool {
	return t != nil && t.kind == kindNode
}

// Leaf returns the leaf value and true if the tree is a leaf.
func (t *Tree[L, N]) Leaf() (L, bool) {
	var zero L
	if !t.IsLeaf() {
		return zero, false
	}
	return t.leaf, true
}

// Node returns the left/right children and node data of an interior node.
func (t *Tree[L, N]) Node() (left, right *Tree[L, N], data *N, ok bool) {
	if !t.IsNode() {
		return nil, nil, nil, false
	}
	return t.left, t.right, t.data, true
}

func cloneTree[L any, N any](t *Tree[L, N]) *Tree[L, N] {
	if t == nil {
		return Empty[L, N]()
	}
	cp := *t
	return &cp
}

// pathFrame is one step of the trail from a cursor's focus back to the
// root: the sibling subtree that was not descended into, plus the parent
// node's data.
type pathFrame[L any, N any] struct {
	isLeft bool
	sib    *Tree[L, N]
	data   *N
	up     *pathFrame[L, N]
}

// Cursor is a tree together with a focused position (the zipper). Every
// mutation consumes the cursor and returns either the updated cursor, or
// the unchanged cursor tagged as a failure — there is no way to leave the
// structure inconsistent mid-mutation.
type Cursor[L any, N any] struct {
	focus *Tree[L, N]
	path  *pathFrame[L, N] // nil means Top
}

// NewCursor wraps a tree in a cursor positioned at the root.
func NewCursor[L any, N any](t *Tree[L, N]) Cursor[L, N] {
	if t == nil {
		t = Empty[L, N]()
	}
	return Cursor[L, N]{focus: t, path: nil}
}

// AtTop reports whether the cursor is positioned at the root.
func (c Cursor[L, N]) AtTop() bool {
	return c.path == nil
}

// IsLeaf reports whether the focus is a leaf.
func (c Cursor[L, N]) IsLeaf() bool {
	return c.focus.IsLeaf()
}

// IsLeft reports whether the focus is the left child of its parent.
func (c Cursor[L, N]) IsLeft() bool {
	return c.path != nil && c.path.isLeft
}

// IsRight reports whether the focus is the right child of its parent.
func (c Cursor[L, N]) IsRight() bool {
	return c.path != nil && !c.path.isLeft
}

// Leaf returns the leaf value at the focus.
func (c Cursor[L, N]) Leaf() (L, bool) {
	return c.focus.Leaf()
}

// SetLeaf overwrites the leaf value at the focus, failing if the focus is
// not a leaf.
func (c Cursor[L, N]) SetLeaf(v L) (Cursor[L, N], bool) {
	if !c.IsLeaf() {
		return c, false
	}
	nf := cloneTree(c.focus)
	nf.leaf = v
	return Cursor[L, N]{focus: nf, path: c.path}, true
}

// AssignTop installs a leaf at the root. Valid only when the focus is
// Empty and the cursor is at Top.
func (c Cursor[L, N]) AssignTop(leaf L) (Cursor[L, N], bool) {
	if !c.AtTop() || !c.focus.IsEmpty() {
		return c, false
	}
	return Cursor[L, N]{focus: &Tree[L, N]{kind: kindLeaf, leaf: leaf}, path: nil}, true
}

// AssignNode sets the node data of the focus. Valid only when the focus is
// an interior node.
func (c Cursor[L, N]) AssignNode(data *N) (Cursor[L, N], bool) {
	if !c.IsNode() {
		return c, false
	}
	nf := cloneTree(c.focus)
	nf.data = data
	return Cursor[L, N]{focus: nf, path: c.path}, true
}

// IsNode reports whether the focus is an interior node.
func (c Cursor[L, N]) IsNode() bool {
	return c.focus.IsNode()
}

// NodeData returns the node data pointer at the focus.
func (c Cursor[L, N]) NodeData() (*N, bool) {
	if !c.IsNode() {
		return nil, false
	}
	return c.focus.data, true
}

func leafNode[L any, N any](v L) *Tree[L, N] {
	return &Tree[L, N]{kind: kindLeaf, leaf: v}
}

// SplitLeafAndInsertRight replaces a leaf with a Node whose left child is
// the existing leaf and whose right child is the new value. The cursor
// remains on the new Node. Fails if the focus is not a leaf.
func (c Cursor[L, N]) SplitLeafAndInsertRight(right L) (Cursor[L, N], bool) {
	left, ok := c.focus.Leaf()
	if !ok {
		return c, false
	}
	nf := &Tree[L, N]{
		kind:  kindNode,
		left:  leafNode[L, N](left),
		right: leafNode[L, N](right),
	}
	return Cursor[L, N]{focus: nf, path: c.path}, true
}

// SplitLeafAndInsertLeft replaces a leaf with a Node whose right child is
// the existing leaf and whose left child is the new value. The cursor
// remains on the new Node. Fails if the focus is not a leaf.
func (c Cursor[L, N]) SplitLeafAndInsertLeft(left L) (Cursor[L, N], bool) {
	right, ok := c.focus.Leaf()
	if !ok {
		return c, false
	}
	nf := &Tree[L, N]{
		kind:  kindNode,
		left:  leafNode[L, N](left),
		right: leafNode[L, N](right),
	}
	return Cursor[L, N]{focus: nf, path: c.path}, true
}

// GoLeft descends to the left child of an interior node, pushing a path
// frame. Fails if the focus is a leaf.
func (c Cursor[L, N]) GoLeft() (Cursor[L, N], bool) {
	left, right, data, ok := c.focus.Node()
	if !ok {
		return c, false
	}
	frame := &pathFrame[L, N]{isLeft: true, sib: right, data: data, up: c.path}
	return Cursor[L, N]{focus: left, path: frame}, true
}

// GoRight descends to the right child of an interior node, pushing a path
// frame. Fails if the focus is a leaf.
func (c Cursor[L, N]) GoRight() (Cursor[L, N], bool) {
	left, right, data, ok := c.focus.Node()
	if !ok {
		return c, false
	}
	frame := &pathFrame[L, N]{isLeft: false, sib: left, data: data, up: c.path}
	return Cursor[L, N]{focus: right, path: frame}, true
}

// GoUp moves to the parent of the focus, reconstructing the Node along the
// way. Fails at Top.
func (c Cursor[L, N]) GoUp() (Cursor[L, N], bool) {
	if c.path == nil {
		return c, false
	}
	frame := c.path
	var nf *Tree[L, N]
	if frame.isLeft {
		nf = &Tree[L, N]{kind: kindNode, left: c.focus, right: frame.sib, data: frame.data}
	} else {
		nf = &Tree[L, N]{kind: kindNode, left: frame.sib, right: c.focus, data: frame.data}
	}
	return Cursor[L, N]{focus: nf, path: frame.up}, true
}

// PreorderNext advances the cursor to the next position in a preorder
// traversal. On exhaustion it returns false; the caller must stop — a
// further call is not guaranteed to keep failing and may revisit nodes.
func (c Cursor[L, N]) PreorderNext() (Cursor[L, N], bool) {
	if !c.IsLeaf() {
		return c.GoLeft()
	}
	cur := c
	for {
		wasLeft := cur.path != nil && cur.path.isLeft
		up, ok := cur.GoUp()
		if !ok {
			return c, false
		}
		if wasLeft {
			return up.GoRight()
		}
		cur = up
	}
}

// GoToNthLeaf advances in preorder until the nth (0-based) leaf is reached,
// failing if the tree has fewer than n+1 leaves.
func (c Cursor[L, N]) GoToNthLeaf(n int) (Cursor[L, N], bool) {
	next := 0
	cur := c
	for {
		if cur.IsLeaf() {
			if next == n {
				return cur, true
			}
			next++
		}
		var ok bool
		cur, ok = cur.PreorderNext()
		if !ok {
			return cur, false
		}
	}
}

// Tree drives GoUp to exhaustion and returns the reconstructed root.
func (c Cursor[L, N]) Tree() *Tree[L, N] {
	cur := c
	for {
		up, ok := cur.GoUp()
		if !ok {
			return cur.focus
		}
		cur = up
	}
}

// PathToRoot returns the node data of each ancestor, from the immediate
// parent outward to the root. A nil entry means that ancestor's data was
// unset.
func (c Cursor[L, N]) PathToRoot() []*N {
	var out []*N
	for f := c.path; f != nil; f = f.up {
		out = append(out, f.data)
	}
	return out
}

// CountLeaves counts the number of leaves in a tree via a stateless
// preorder walk; used by callers that want to validate GoToNthLeaf bounds
// without mutating a cursor.
func CountLeaves[L any, N any](t *Tree[L, N]) int {
	if t.IsEmpty() {
		return 0
	}
	if t.IsLeaf() {
		return 1
	}
	left, right, _, _ := t.Node()
	return CountLeaves(left) + CountLeaves(right)
}

// Equal reports structural equality of two trees given element equality
// functions for leaves and node data.
func Equal[L any, N any](a, b *Tree[L, N], leafEq func(L, L) bool, dataEq func(*N, *N) bool) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty()
	}
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		al, _ := a.Leaf()
		bl, _ := b.Leaf()
		return leafEq(al, bl)
	}
	al, ar, ad, _ := a.Node()
	bl, br, bd, _ := b.Node()
	if !dataEq(ad, bd) {
		return false
	}
	return Equal(al, bl, leafEq, dataEq) && Equal(ar, br, leafEq, dataEq)
}
