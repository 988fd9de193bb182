package codec

import (
	"bytes"
	"testing"

	"github.com/vtcore/vtcore/pkg/term"
)

func TestEncodeDecodePingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, 1, &Ping{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	pdu, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pdu.Serial != 1 {
		t.Fatalf("serial = %d, want 1", pdu.Serial)
	}
	if pdu.Ident != IdentPing {
		t.Fatalf("ident = %d, want %d", pdu.Ident, IdentPing)
	}
	if _, ok := pdu.Payload.(*Ping); !ok {
		t.Fatalf("payload type = %T, want *Ping", pdu.Payload)
	}
}

func TestEncodeDecodeLargePayloadCompresses(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 7) // low-entropy, compresses well
	}
	msg := &WriteToPane{PaneID: 3, Data: data}

	var buf bytes.Buffer
	if err := Encode(&buf, 42, msg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() >= len(data) {
		t.Fatalf("encoded frame (%d bytes) not smaller than raw payload (%d bytes)", buf.Len(), len(data))
	}

	pdu, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := pdu.Payload.(*WriteToPane)
	if !ok {
		t.Fatalf("payload type = %T, want *WriteToPane", pdu.Payload)
	}
	if got.PaneID != 3 || !bytes.Equal(got.Data, data) {
		t.Fatalf("round-tripped payload mismatch")
	}
}

func TestStreamDecodeReportsIncompleteFrame(t *testing.T) {
	var full bytes.Buffer
	if err := Encode(&full, 7, &Pong{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	whole := full.Bytes()

	if _, _, ok := StreamDecode(whole[:len(whole)-1]); ok {
		t.Fatalf("StreamDecode reported success on a truncated frame")
	}

	pdu, consumed, ok := StreamDecode(whole)
	if !ok {
		t.Fatalf("StreamDecode failed on a complete frame")
	}
	if consumed != len(whole) {
		t.Fatalf("consumed = %d, want %d", consumed, len(whole))
	}
	if pdu.Ident != IdentPong {
		t.Fatalf("ident = %d, want %d", pdu.Ident, IdentPong)
	}
}

func TestUnknownIdentDecodesAsErrorResponse(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, 1, &Ping{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw := buf.Bytes()
	// The ident varint is the third field (after tagged-len and serial);
	// both of those are single bytes for this tiny frame, so byte index 2
	// is the ident. Corrupt it to a value no payload is registered under.
	raw[2] = 99

	pdu, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := pdu.Payload.(*ErrorResponse); !ok {
		t.Fatalf("payload type = %T, want *ErrorResponse", pdu.Payload)
	}
}

func TestEncodeDecodeLinePreservesHyperlinkIdentity(t *testing.T) {
	link := &term.Hyperlink{ID: "1", URI: "https://example.com"}
	line := term.NewLine(4)
	line.Cells[0].Rune = 'h'
	line.Cells[0].Hyperlink = link
	line.Cells[1].Rune = 'i'
	line.Cells[1].Hyperlink = link
	line.Cells[2].Rune = ' '

	sl := EncodeLine(line)
	if len(sl.Hyperlinks) != 1 {
		t.Fatalf("encoded %d distinct hyperlinks, want 1", len(sl.Hyperlinks))
	}
	if sl.Cells[0].HyperlinkIdx != sl.Cells[1].HyperlinkIdx {
		t.Fatalf("cells sharing a hyperlink got different indices")
	}
	if sl.Cells[2].HyperlinkIdx != -1 {
		t.Fatalf("plain cell got a hyperlink index")
	}

	decoded := DecodeLine(sl)
	if decoded.Cells[0].Hyperlink != decoded.Cells[1].Hyperlink {
		t.Fatalf("decoded cells lost shared hyperlink identity")
	}
	if decoded.Cells[0].Hyperlink.URI != link.URI {
		t.Fatalf("decoded hyperlink URI = %q, want %q", decoded.Cells[0].Hyperlink.URI, link.URI)
	}
	if decoded.Cells[2].Hyperlink != nil {
		t.Fatalf("plain cell decoded with a non-nil hyperlink")
	}
}

func TestEncodeRejectsUnregisteredPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, 1, struct{}{}); err == nil {
		t.Fatalf("Encode succeeded on an unregistered payload type")
	}
}
