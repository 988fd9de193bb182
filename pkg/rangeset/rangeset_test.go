package rangeset

import "testing"

func TestAddMerge(t *testing.T) {
	s := New()
	s.Add(5, 10)
	s.Add(10, 15)
	s.Add(20, 25)
	s.Add(0, 3)

	want := []Interval{{0, 3}, {5, 15}, {20, 25}}
	got := s.Intervals()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interval %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	s := New()
	s.Add(5, 10)
	if s.Contains(4) || s.Contains(10) {
		t.Fatal("boundary rows should not be contained")
	}
	if !s.Contains(5) || !s.Contains(9) {
		t.Fatal("interior rows should be contained")
	}
}

func TestDifference(t *testing.T) {
	a := New()
	a.Add(0, 10)
	b := New()
	b.Add(2, 4)
	b.Add(8, 20)

	d := a.Difference(b)
	want := []Interval{{0, 2}, {4, 8}}
	got := d.Intervals()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interval %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestDifferenceEmptyOther(t *testing.T) {
	a := New()
	a.Add(3, 6)
	d := a.Difference(New())
	if d.Len() != 3 {
		t.Fatalf("expected all 3 rows to survive, got %d", d.Len())
	}
}
