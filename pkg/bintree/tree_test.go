package bintree

import "testing"

func intEq(a, b int) bool { return a == b }

func dataEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestPopulateAndPreorder(t *testing.T) {
	ptr := func(v int) *int { return &v }

	c := NewCursor[int, int](Empty[int, int]())
	c, ok := c.AssignTop(1)
	if !ok {
		t.Fatal("AssignTop failed")
	}
	c, ok = c.SplitLeafAndInsertRight(2)
	if !ok {
		t.Fatal("SplitLeafAndInsertRight failed")
	}
	tree := c.Tree()

	want := &Tree[int, int]{kind: kindNode, left: leafNode[int, int](1), right: leafNode[int, int](2)}
	if !Equal(tree, want, intEq, dataEq) {
		t.Fatalf("tree mismatch after split")
	}

	c = NewCursor[int, int](tree)
	c, ok = c.AssignNode(ptr(100))
	if !ok {
		t.Fatal("AssignNode failed")
	}
	tree = c.Tree()

	c = NewCursor[int, int](tree)
	c, ok = c.GoLeft()
	if !ok {
		t.Fatal("GoLeft failed")
	}
	c, ok = c.SplitLeafAndInsertLeft(3)
	if !ok {
		t.Fatal("SplitLeafAndInsertLeft failed")
	}
	c, ok = c.AssignNode(ptr(101))
	if !ok {
		t.Fatal("AssignNode failed")
	}
	c, ok = c.GoLeft()
	if !ok {
		t.Fatal("GoLeft failed")
	}
	c, ok = c.SplitLeafAndInsertRight(4)
	if !ok {
		t.Fatal("SplitLeafAndInsertRight failed")
	}
	c, ok = c.AssignNode(ptr(102))
	if !ok {
		t.Fatal("AssignNode failed")
	}
	c, ok = c.GoLeft()
	if !ok {
		t.Fatal("GoLeft failed")
	}
	c, ok = c.SplitLeafAndInsertRight(5)
	if !ok {
		t.Fatal("SplitLeafAndInsertRight failed")
	}
	c, ok = c.AssignNode(ptr(103))
	if !ok {
		t.Fatal("AssignNode failed")
	}
	tree = c.Tree()

	cursor := NewCursor[int, int](tree)
	data, ok := cursor.NodeData()
	if !ok || *data != 100 {
		t.Fatalf("expected root data 100, got %v", data)
	}

	expectedLeaves := []int{3, 5, 4, 1, 2}
	expectedNodeSeq := []int{101, 102, 103}
	nodeIdx := 0
	leafIdx := 0

	for {
		next, ok := cursor.PreorderNext()
		if !ok {
			break
		}
		cursor = next
		if cursor.IsLeaf() {
			leaf, _ := cursor.Leaf()
			if leafIdx >= len(expectedLeaves) || leaf != expectedLeaves[leafIdx] {
				t.Fatalf("leaf %d: got %d, want %d", leafIdx, leaf, expectedLeaves[leafIdx])
			}
			leafIdx++
		} else {
			data, _ := cursor.NodeData()
			if nodeIdx >= len(expectedNodeSeq) || data == nil || *data != expectedNodeSeq[nodeIdx] {
				t.Fatalf("node %d: got %v, want %d", nodeIdx, data, expectedNodeSeq[nodeIdx])
			}
			nodeIdx++
		}
	}

	if leafIdx != len(expectedLeaves) {
		t.Fatalf("visited %d leaves, want %d", leafIdx, len(expectedLeaves))
	}
}

func TestZipperRoundTrip(t *testing.T) {
	c := NewCursor[int, int](Empty[int, int]())
	c, _ = c.AssignTop(1)
	c, _ = c.SplitLeafAndInsertRight(2)
	c, _ = c.GoLeft()
	c, _ = c.SplitLeafAndInsertRight(3)
	original := c.Tree()

	cur := NewCursor[int, int](original)
	cur, ok := cur.GoLeft()
	if !ok {
		t.Fatal("GoLeft failed")
	}
	cur, ok = cur.GoLeft()
	if !ok {
		t.Fatal("GoLeft failed")
	}
	rebuilt := cur.Tree()

	if !Equal(original, rebuilt, intEq, dataEq) {
		t.Fatal("round trip through moves did not reconstruct the original tree")
	}
}

func TestGoToNthLeaf(t *testing.T) {
	c := NewCursor[int, int](Empty[int, int]())
	c, _ = c.AssignTop(1)
	c, _ = c.SplitLeafAndInsertRight(2)
	c, _ = c.GoLeft()
	c, _ = c.SplitLeafAndInsertRight(3)
	tree := c.Tree()

	leaves := CountLeaves(tree)
	if leaves != 3 {
		t.Fatalf("expected 3 leaves, got %d", leaves)
	}

	cur := NewCursor[int, int](tree)
	if _, ok := cur.GoToNthLeaf(leaves - 1); !ok {
		t.Fatalf("go_to_nth_leaf(%d) should succeed", leaves-1)
	}

	cur = NewCursor[int, int](tree)
	if _, ok := cur.GoToNthLeaf(leaves); ok {
		t.Fatalf("go_to_nth_leaf(%d) should fail", leaves)
	}
}

func TestAssignTopOnlyAtEmptyTop(t *testing.T) {
	c := NewCursor[int, int](Empty[int, int]())
	c, ok := c.AssignTop(1)
	if !ok {
		t.Fatal("expected AssignTop to succeed on empty top")
	}
	if _, ok := c.AssignTop(2); ok {
		t.Fatal("expected AssignTop to fail on non-empty focus")
	}
}

func TestSplitFailsOnNonLeaf(t *testing.T) {
	c := NewCursor[int, int](Empty[int, int]())
	c, _ = c.AssignTop(1)
	c, _ = c.SplitLeafAndInsertRight(2)
	if _, ok := c.SplitLeafAndInsertRight(3); ok {
		t.Fatal("expected split to fail on a node")
	}
}

func TestGoUpFailsAtTop(t *testing.T) {
	c := NewCursor[int, int](Empty[int, int]())
	c, _ = c.AssignTop(1)
	if _, ok := c.GoUp(); ok {
		t.Fatal("expected GoUp to fail at top")
	}
}
