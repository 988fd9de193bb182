// Package mux owns the tree of panes, tabs and windows that make up a
// multiplexer session: it runs each pane's terminal state machine, tracks
// which screen rows changed since a client last saw them, and groups
// panes into tabs and windows independently of how any client renders
// them.
package mux

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// PaneId, TabId and WindowId are process-local monotonically increasing
// identifiers, unique for the lifetime of the mux process. DomainId is a
// uuid so that domains spun up by independent client processes (local,
// SSH, a reattached daemon) never collide.
type PaneId uint32
type TabId uint32
type WindowId uint32

type DomainId uuid.UUID

// NewDomainId returns a fresh random domain identifier.
func NewDomainId() DomainId {
	return DomainId(uuid.New())
}

func (d DomainId) String() string { return uuid.UUID(d).String() }

var (
	nextPaneId   uint32
	nextTabId    uint32
	nextWindowId uint32
)

func allocPaneId() PaneId     { return PaneId(atomic.AddUint32(&nextPaneId, 1)) }
func allocTabId() TabId       { return TabId(atomic.AddUint32(&nextTabId, 1)) }
func allocWindowId() WindowId { return WindowId(atomic.AddUint32(&nextWindowId, 1)) }
