package term

// Hyperlink is installed by OSC 8 and shared by every cell written while it
// is in effect. Cells hold a pointer to the same Hyperlink value so that
// identity comparison (by pointer) tells the renderer and the wire codec
// which cells belong to the same link without comparing URIs — the pointer
// itself is the arena handle the wire codec serializes once per distinct
// link, per the hyperlink-identity testable property.
type Hyperlink struct {
	ID  string
	URI string
}

// Equal reports whether two hyperlinks carry the same id/uri. Program
// logic, including the codec's dedup pass, compares by pointer identity
// instead, per the shared-reference invariant in the terminal state.
func (h *Hyperlink) Equal(o *Hyperlink) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.ID == o.ID && h.URI == o.URI
}
