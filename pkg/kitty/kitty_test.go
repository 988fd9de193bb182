package kitty

import (
	"encoding/base64"
	"testing"

	"github.com/vtcore/vtcore/pkg/rangeset"
)

func TestParseDirectTransmitDisplay(t *testing.T) {
	payload := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
		255, 255, 0, 255,
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	cmd, err := Parse([]byte("Gf=32,s=2,v=2,a=T;" + encoded))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != ActionTransmitDisplay {
		t.Fatalf("Action = %q, want T", cmd.Action)
	}
	if cmd.Format != FormatRGBA {
		t.Fatalf("Format = %d, want 32", cmd.Format)
	}
	if cmd.Width != 2 || cmd.Height != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", cmd.Width, cmd.Height)
	}
	if len(cmd.Payload) != 16 {
		t.Fatalf("Payload len = %d, want 16", len(cmd.Payload))
	}
}

func TestHandleTransmitDisplayRecordsOnePlacement(t *testing.T) {
	payload := make([]byte, 16)
	for i := range payload {
		payload[i] = byte(i)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	cmd, err := Parse([]byte("Gf=32,s=2,v=2,a=T;" + encoded))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	st := NewState(0)
	resp := st.Handle(cmd, rangeset.StableRowIndex(5), 3)
	if resp == "" {
		t.Fatalf("expected an OK response")
	}

	placements := st.Placements()
	if len(placements) != 1 {
		t.Fatalf("len(Placements()) = %d, want 1", len(placements))
	}
	p := placements[0]
	if p.Key.ImageID != 0 || p.Key.PlacementID != 0 {
		t.Fatalf("Key = %+v, want zero image/placement id", p.Key)
	}
	if p.Row != 5 || p.Col != 3 {
		t.Fatalf("position = (%d,%d), want (5,3)", p.Row, p.Col)
	}
	if st.UsedMemory() != 16 {
		t.Fatalf("UsedMemory() = %d, want 16", st.UsedMemory())
	}
}

func TestHandleQueryDoesNotStoreImage(t *testing.T) {
	cmd, err := Parse([]byte("Gi=7,a=q,f=32,s=1,v=1;"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := NewState(0)
	resp := st.Handle(cmd, 0, 0)
	if resp == "" {
		t.Fatalf("expected a response to a query")
	}
	if _, ok := st.Image(7); ok {
		t.Fatalf("query must not store an image")
	}
}

func TestChunkedTransmissionAssemblesBeforeStoring(t *testing.T) {
	full := make([]byte, 16)
	for i := range full {
		full[i] = byte(100 + i)
	}
	chunk1 := base64.StdEncoding.EncodeToString(full[:8])
	chunk2 := base64.StdEncoding.EncodeToString(full[8:])

	first, err := Parse([]byte("Gi=9,f=32,s=2,v=2,m=1;" + chunk1))
	if err != nil {
		t.Fatalf("Parse chunk1: %v", err)
	}
	second, err := Parse([]byte("Gm=0;" + chunk2))
	if err != nil {
		t.Fatalf("Parse chunk2: %v", err)
	}

	st := NewState(0)
	if resp := st.Handle(first, 0, 0); resp != "" {
		t.Fatalf("expected no response while chunks are pending, got %q", resp)
	}
	st.Handle(second, 0, 0)

	img, ok := st.Image(9)
	if !ok {
		t.Fatalf("image 9 not stored after final chunk")
	}
	if len(img.RGBA) != 16 {
		t.Fatalf("RGBA len = %d, want 16", len(img.RGBA))
	}
}

func TestDeleteAllWithDataFreesUnreferencedImage(t *testing.T) {
	payload := make([]byte, 4)
	encoded := base64.StdEncoding.EncodeToString(payload)
	transmit, _ := Parse([]byte("Gi=3,f=32,s=1,v=1,a=t;" + encoded))

	st := NewState(0)
	st.Handle(transmit, 0, 0)
	if _, ok := st.Image(3); !ok {
		t.Fatalf("setup: image 3 not stored")
	}

	del, _ := Parse([]byte("Ga=d,d=A;"))
	st.delete(del, 0, 0)

	if _, ok := st.Image(3); ok {
		t.Fatalf("image 3 should have been freed by delete-all-with-data")
	}
}

func TestMemoryBudgetPrunesOldestUnreferencedImage(t *testing.T) {
	mk := func(id uint32, n byte) *Command {
		payload := make([]byte, 8)
		for i := range payload {
			payload[i] = n
		}
		encoded := base64.StdEncoding.EncodeToString(payload)
		cmd, err := Parse([]byte("Gi=" + itoa(id) + ",f=32,s=1,v=2,a=t;" + encoded))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		return cmd
	}

	st := NewState(8) // room for exactly one 8-byte image
	st.Handle(mk(1, 1), 0, 0)
	if _, ok := st.Image(1); !ok {
		t.Fatalf("setup: image 1 not stored")
	}
	st.Handle(mk(2, 2), 0, 0)

	if _, ok := st.Image(1); ok {
		t.Fatalf("image 1 should have been pruned to make room for image 2")
	}
	if _, ok := st.Image(2); !ok {
		t.Fatalf("image 2 should be present")
	}
	if st.UsedMemory() != 8 {
		t.Fatalf("UsedMemory() = %d, want 8", st.UsedMemory())
	}
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
