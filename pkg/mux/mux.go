package mux

import (
	"fmt"
	"sync"
)

// Mux owns every Domain, Window, Tab and Pane in one server process.
// Lookups are by id under a single RWMutex; the pattern (map + mutex,
// never holding the lock across a callback) mirrors how the teacher's
// session manager guards its registry of running sessions.
type Mux struct {
	mu sync.RWMutex

	domains map[DomainId]*Domain
	windows map[WindowId]*Window
	tabs    map[TabId]*Tab
	panes   map[PaneId]Pane

	subsMu      sync.RWMutex
	paneClosed  []func(PaneId)
}

// New returns an empty Mux.
func New() *Mux {
	return &Mux{
		domains: make(map[DomainId]*Domain),
		windows: make(map[WindowId]*Window),
		tabs:    make(map[TabId]*Tab),
		panes:   make(map[PaneId]Pane),
	}
}

// AddDomain registers a domain.
func (m *Mux) AddDomain(d *Domain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domains[d.Id] = d
}

func (m *Mux) Domain(id DomainId) (*Domain, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.domains[id]
	return d, ok
}

// Domains returns every registered domain.
func (m *Mux) Domains() []*Domain {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Domain, 0, len(m.domains))
	for _, d := range m.domains {
		out = append(out, d)
	}
	return out
}

// NewWindow creates a window containing a single tab around root, and
// registers the window, its tab and root (and any pane reachable from
// root) with the mux.
func (m *Mux) NewWindow(domain DomainId, title string, root Pane) (*Window, *Tab) {
	tab := NewTab(domain, root)
	win := NewWindow(domain, title, tab)

	m.mu.Lock()
	m.windows[win.Id()] = win
	m.tabs[tab.Id()] = tab
	m.panes[root.Id()] = root
	m.mu.Unlock()

	return win, tab
}

// AddTabToWindow creates a new tab around root inside an existing
// window.
func (m *Mux) AddTabToWindow(winId WindowId, root Pane) (*Tab, error) {
	m.mu.Lock()
	win, ok := m.windows[winId]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("mux: no such window %d", winId)
	}
	m.mu.Unlock()

	tab := NewTab(win.domain, root)
	win.AddTab(tab)

	m.mu.Lock()
	m.tabs[tab.Id()] = tab
	m.panes[root.Id()] = root
	m.mu.Unlock()

	return tab, nil
}

// SplitPane splits the active pane of tabId, registering newPane.
func (m *Mux) SplitPane(tabId TabId, newPane Pane, dir SplitDirection, insertRight bool, ratio float64) error {
	m.mu.RLock()
	tab, ok := m.tabs[tabId]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("mux: no such tab %d", tabId)
	}
	if err := tab.SplitPane(newPane, dir, insertRight, ratio); err != nil {
		return err
	}
	m.mu.Lock()
	m.panes[newPane.Id()] = newPane
	m.mu.Unlock()
	return nil
}

// ClosePane closes and unregisters a pane, removing it from whichever
// tab holds it.
func (m *Mux) ClosePane(id PaneId) error {
	m.mu.Lock()
	pane, ok := m.panes[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("mux: no such pane %d", id)
	}
	delete(m.panes, id)
	tabs := make([]*Tab, 0, len(m.tabs))
	for _, t := range m.tabs {
		tabs = append(tabs, t)
	}
	m.mu.Unlock()

	for _, t := range tabs {
		t.RemovePane(id)
	}

	err := pane.Close()

	m.subsMu.RLock()
	subs := append([]func(PaneId){}, m.paneClosed...)
	m.subsMu.RUnlock()
	for _, fn := range subs {
		fn(id)
	}

	return err
}

func (m *Mux) Pane(id PaneId) (Pane, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.panes[id]
	return p, ok
}

func (m *Mux) Tab(id TabId) (*Tab, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tabs[id]
	return t, ok
}

func (m *Mux) Window(id WindowId) (*Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	return w, ok
}

// Windows returns every registered window.
func (m *Mux) Windows() []*Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, w)
	}
	return out
}

// OnPaneClosed registers a callback invoked after a pane is closed and
// unregistered, e.g. so a codec/transport layer can tell attached
// clients the pane is gone.
func (m *Mux) OnPaneClosed(fn func(PaneId)) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.paneClosed = append(m.paneClosed, fn)
}
