package kitty

import "github.com/vtcore/vtcore/pkg/rangeset"

// Image is one transmitted picture, decoded to RGBA pixels and held until
// deleted or pruned for memory.
type Image struct {
	ID     uint32
	Number uint32 // I=, a client-chosen alias resolved at display time
	Width  uint32
	Height uint32
	RGBA   []byte
}

func (img *Image) memSize() int { return len(img.RGBA) }

// PlacementKey identifies one placement of an image on screen.
type PlacementKey struct {
	ImageID     uint32
	PlacementID uint32
}

// Placement is one instance of an image bound to a screen cell position.
// Row/Col are filled in by the caller (the terminal state, which owns the
// cursor) at display time; kitty itself has no notion of a cursor.
type Placement struct {
	Key PlacementKey

	Row rangeset.StableRowIndex
	Col int

	SrcX, SrcY uint32
	SrcW, SrcH uint32
	Cols, Rows uint32

	CellOffsetX, CellOffsetY uint32
	ZIndex                   int32
	DoNotMoveCursor          bool
}

// pendingTransmission accumulates chunked (m=1 ... m=0) payload bytes for
// an image that has not finished transmitting.
type pendingTransmission struct {
	cmd  *Command // the first chunk's command, parameters apply to the whole
	data []byte
}

// State owns every image and placement known to one terminal instance,
// bounded by a memory budget.
type State struct {
	images     map[uint32]*Image
	imageOrder []uint32 // insertion order, oldest first; ids may be stale after delete
	placements map[PlacementKey]*Placement

	pending *pendingTransmission

	usedMemory    int
	memoryBudget  int
	nextAnonID    uint32
}

// NewState returns an empty graphics state bounded to memoryBudget bytes
// of decoded image data. A budget of 0 means unbounded.
func NewState(memoryBudget int) *State {
	return &State{
		images:       make(map[uint32]*Image),
		placements:   make(map[PlacementKey]*Placement),
		memoryBudget: memoryBudget,
		nextAnonID:   1<<31 + 1,
	}
}

// UsedMemory returns the total size in bytes of every decoded image
// currently held.
func (s *State) UsedMemory() int { return s.usedMemory }

// Image looks up a stored image by id.
func (s *State) Image(id uint32) (*Image, bool) {
	img, ok := s.images[id]
	return img, ok
}

// Placements returns every recorded placement, in no particular order.
func (s *State) Placements() []*Placement {
	out := make([]*Placement, 0, len(s.placements))
	for _, p := range s.placements {
		out = append(out, p)
	}
	return out
}

// Handle processes one parsed Command, mutating image and placement state
// as needed, and returns the response string to write back to the pty
// (empty if Quiet suppresses it). cursorRow/cursorCol position any new
// placement; the caller (pkg/term) owns the real cursor.
func (s *State) Handle(cmd *Command, cursorRow rangeset.StableRowIndex, cursorCol int) string {
	switch cmd.Action {
	case ActionQuery:
		return s.respond(cmd, "", false)

	case ActionTransmit, ActionTransmitDisplay:
		img, err := s.transmit(cmd)
		if err != nil {
			return s.respond(cmd, err.Error(), true)
		}
		if img == nil {
			// more chunks still expected; no response until complete
			return ""
		}
		if cmd.Action == ActionTransmitDisplay {
			s.place(cmd, img.ID, cursorRow, cursorCol)
		}
		return s.respond(cmd, "", false)

	case ActionDisplay:
		img, ok := s.resolveImage(cmd)
		if !ok {
			return s.respond(cmd, "ENOENT:image not found", true)
		}
		s.place(cmd, img.ID, cursorRow, cursorCol)
		return s.respond(cmd, "", false)

	case ActionDelete:
		s.delete(cmd, cursorRow, cursorCol)
		return ""

	default:
		return s.respond(cmd, "EINVAL:unsupported action", true)
	}
}

func (s *State) respond(cmd *Command, message string, isError bool) string {
	if cmd.Quiet >= 1 && !isError {
		return ""
	}
	if cmd.Quiet >= 2 {
		return ""
	}
	return FormatResponse(cmd.ImageID, message, isError)
}

// transmit accumulates payload chunks and, once the final chunk (m=0 or
// no m= at all) arrives, decodes and stores the image. It returns
// (nil, nil) while a multi-chunk transmission is still in progress.
func (s *State) transmit(cmd *Command) (*Image, error) {
	if cmd.Transmission != TransmitDirect {
		return nil, errUnsupportedTransmission(cmd.Transmission)
	}

	if s.pending != nil {
		s.pending.data = append(s.pending.data, cmd.Payload...)
		if cmd.More {
			return nil, nil
		}
		complete := s.pending
		s.pending = nil
		complete.cmd.Payload = complete.data
		return s.finishTransmit(complete.cmd)
	}

	if cmd.More {
		cp := *cmd
		s.pending = &pendingTransmission{cmd: &cp, data: append([]byte(nil), cmd.Payload...)}
		return nil, nil
	}
	return s.finishTransmit(cmd)
}

func (s *State) finishTransmit(cmd *Command) (*Image, error) {
	rgba, width, height, err := cmd.DecodeImage()
	if err != nil {
		return nil, err
	}

	// An image sent with neither i= nor I= is stored under id 0, replacing
	// any earlier such image; an image sent with only I= gets a fresh id.
	id := cmd.ImageID
	if id == 0 && cmd.ImageNumber != 0 {
		id = s.nextAnonID
		s.nextAnonID++
	}

	img := &Image{ID: id, Number: cmd.ImageNumber, Width: width, Height: height, RGBA: rgba}
	s.store(img)
	return img, nil
}

func (s *State) store(img *Image) {
	if old, ok := s.images[img.ID]; ok {
		s.usedMemory -= old.memSize()
	} else {
		s.imageOrder = append(s.imageOrder, img.ID)
	}
	s.images[img.ID] = img
	s.usedMemory += img.memSize()
	s.prune()
}

// prune evicts the oldest images with no surviving placement until usage
// is back under budget, or until every remaining image is referenced by
// at least one placement.
func (s *State) prune() {
	if s.memoryBudget <= 0 || s.usedMemory <= s.memoryBudget {
		return
	}
	for i := 0; i < len(s.imageOrder) && s.usedMemory > s.memoryBudget; i++ {
		id := s.imageOrder[i]
		img, ok := s.images[id]
		if !ok {
			continue
		}
		if s.referenced(id) {
			continue
		}
		s.usedMemory -= img.memSize()
		delete(s.images, id)
	}
	s.compactOrder()
}

func (s *State) referenced(id uint32) bool {
	for key := range s.placements {
		if key.ImageID == id {
			return true
		}
	}
	return false
}

func (s *State) compactOrder() {
	kept := s.imageOrder[:0]
	for _, id := range s.imageOrder {
		if _, ok := s.images[id]; ok {
			kept = append(kept, id)
		}
	}
	s.imageOrder = kept
}

func (s *State) resolveImage(cmd *Command) (*Image, bool) {
	if cmd.ImageID != 0 {
		img, ok := s.images[cmd.ImageID]
		return img, ok
	}
	if cmd.ImageNumber != 0 {
		for _, id := range s.imageOrder {
			if img := s.images[id]; img != nil && img.Number == cmd.ImageNumber {
				return img, true
			}
		}
	}
	return nil, false
}

func (s *State) place(cmd *Command, imageID uint32, row rangeset.StableRowIndex, col int) {
	key := PlacementKey{ImageID: imageID, PlacementID: cmd.PlacementID}
	s.placements[key] = &Placement{
		Key: key, Row: row, Col: col,
		SrcX: cmd.SrcX, SrcY: cmd.SrcY, SrcW: cmd.SrcW, SrcH: cmd.SrcH,
		Cols: cmd.Cols, Rows: cmd.Rows,
		CellOffsetX: cmd.CellOffsetX, CellOffsetY: cmd.CellOffsetY,
		ZIndex: cmd.ZIndex, DoNotMoveCursor: cmd.DoNotMoveCursor,
	}
}

func (s *State) delete(cmd *Command, cursorRow rangeset.StableRowIndex, cursorCol int) {
	dropImage := func(id uint32) {
		if img, ok := s.images[id]; ok {
			s.usedMemory -= img.memSize()
			delete(s.images, id)
		}
	}

	match := func(p *Placement) bool {
		switch cmd.Delete {
		case DeleteAll, DeleteAllData:
			return true
		case DeleteByID, DeleteByIDData:
			return p.Key.ImageID == cmd.ImageID
		case DeleteByNumber, DeleteByNumberData:
			img, ok := s.images[p.Key.ImageID]
			return ok && img.Number == cmd.ImageNumber
		case DeleteAtCursor, DeleteAtCursorData:
			return p.Row == cursorRow && p.Col == cursorCol
		case DeleteAtPos, DeleteAtPosData:
			return p.Row == rangeset.StableRowIndex(cmd.SrcY) && p.Col == int(cmd.SrcX)
		case DeleteByColumn, DeleteByColumnData:
			return p.Col == int(cmd.SrcX)
		case DeleteByRow, DeleteByRowData:
			return p.Row == rangeset.StableRowIndex(cmd.SrcY)
		case DeleteByZIndex, DeleteByZIndexData:
			return p.ZIndex == cmd.ZIndex
		default:
			return false
		}
	}

	for key, p := range s.placements {
		if !match(p) {
			continue
		}
		delete(s.placements, key)
		if cmd.Delete.hasData() && !s.referenced(key.ImageID) {
			dropImage(key.ImageID)
		}
	}
	if cmd.Delete == DeleteAllData {
		for id := range s.images {
			if !s.referenced(id) {
				dropImage(id)
			}
		}
	}
	s.compactOrder()
}

type errUnsupportedTransmission Transmission

func (e errUnsupportedTransmission) Error() string {
	return "EINVAL:unsupported transmission medium " + string(rune(e))
}
