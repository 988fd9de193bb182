package lfucache

import "testing"

func TestGetMissThenHit(t *testing.T) {
	c := New[string, int](4)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("got (%v, %v), want (1, true)", v, ok)
	}
}

func TestLenNeverExceedsCapacity(t *testing.T) {
	c := New[int, int](4)
	for i := 0; i < 50; i++ {
		c.Put(i, i)
		if c.Len() > 4 {
			t.Fatalf("len %d exceeds capacity 4 after put(%d)", c.Len(), i)
		}
	}
}

func TestEvictionPrefersLowestFrequency(t *testing.T) {
	// Scenario D from the spec: capacity 8, put 0..8 each once, then get
	// key i exactly i times so frequencies are 0,1,2,...,7. put(8,8) must
	// evict key 0, the only zero-frequency entry.
	c := New[int, int](8)
	for i := 0; i < 8; i++ {
		c.Put(i, i)
	}
	for i := 0; i < 8; i++ {
		for n := 0; n < i; n++ {
			c.Get(i)
		}
	}
	c.Put(8, 8)

	if _, ok := c.Get(0); ok {
		t.Fatal("key 0 should have been evicted")
	}
	for i := 1; i <= 8; i++ {
		if _, ok := c.Get(i); !ok {
			t.Fatalf("key %d should still be present", i)
		}
	}
}

func TestDecayReducesFrequencyOfStaleTailEntry(t *testing.T) {
	c := New[int, int](4)
	c.Put(0, 0) // tick 1, freq 0, last_tick 1

	// Touch enough other keys to advance tick well past 10 without
	// touching key 0 again, so it remains the recency-list tail.
	c.Put(1, 1)
	for i := 0; i < 30; i++ {
		c.Get(1)
	}

	c.arena[c.index[0]].freq = 5 // give it something to decay from
	before := c.arena[c.index[0]].freq

	c.decayLeastRecent()

	after := c.arena[c.index[0]].freq
	if after >= before {
		t.Fatalf("expected decay to reduce frequency from %d, got %d", before, after)
	}
}

func TestUpdateConfigShrinksToCapacity(t *testing.T) {
	c := New[int, int](8)
	for i := 0; i < 8; i++ {
		c.Put(i, i)
	}
	c.UpdateConfig(3)
	if c.Len() != 3 {
		t.Fatalf("expected len 3 after shrinking capacity, got %d", c.Len())
	}
}

func TestPutReplacesExistingKeyWithoutGrowingLength(t *testing.T) {
	c := New[string, int](4)
	c.Put("a", 1)
	c.Put("a", 2)
	if c.Len() != 1 {
		t.Fatalf("expected len 1 after replacing a key, got %d", c.Len())
	}
	v, ok := c.Get("a")
	if !ok || v != 2 {
		t.Fatalf("got (%v, %v), want (2, true)", v, ok)
	}
}

func TestClear(t *testing.T) {
	c := New[int, int](4)
	c.Put(1, 1)
	c.Put(2, 2)
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected len 0 after Clear, got %d", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Fatal("expected miss after Clear")
	}
}
