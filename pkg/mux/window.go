package mux

import "sync"

// Window groups a sequence of Tabs, at most one of which is active for
// display at a time.
type Window struct {
	id     WindowId
	domain DomainId
	title  string

	mu     sync.Mutex
	tabs   []*Tab
	active int
}

// NewWindow returns a window containing a single tab.
func NewWindow(domain DomainId, title string, first *Tab) *Window {
	return &Window{id: allocWindowId(), domain: domain, title: title, tabs: []*Tab{first}}
}

func (w *Window) Id() WindowId { return w.id }
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

// AddTab appends a tab and returns its index.
func (w *Window) AddTab(t *Tab) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tabs = append(w.tabs, t)
	return len(w.tabs) - 1
}

// RemoveTab drops the tab with the given id. Returns false if not found
// or if it was the window's last tab (callers should close the window
// instead).
func (w *Window) RemoveTab(id TabId) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.tabs) <= 1 {
		return false
	}
	for i, t := range w.tabs {
		if t.Id() == id {
			w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
			if w.active >= len(w.tabs) {
				w.active = len(w.tabs) - 1
			}
			return true
		}
	}
	return false
}

// Tabs returns every tab in display order.
func (w *Window) Tabs() []*Tab {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Tab, len(w.tabs))
	copy(out, w.tabs)
	return out
}

// ActiveTab returns the currently selected tab.
func (w *Window) ActiveTab() (*Tab, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active < 0 || w.active >= len(w.tabs) {
		return nil, false
	}
	return w.tabs[w.active], true
}

// SetActiveTab selects the tab at index n.
func (w *Window) SetActiveTab(n int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n < 0 || n >= len(w.tabs) {
		return false
	}
	w.active = n
	return true
}
