package term

import (
	"encoding/base64"
	"testing"
)

func TestOSC52SetsClipboard(t *testing.T) {
	s := NewState(24, 80, 1000, 0)
	payload := base64.StdEncoding.EncodeToString([]byte("hello clipboard"))
	s.OscDispatch([][]byte{[]byte("52"), []byte("c"), []byte(payload)})

	if s.Clipboard != "hello clipboard" {
		t.Fatalf("Clipboard = %q, want %q", s.Clipboard, "hello clipboard")
	}
}

func TestOSC52QueryDoesNotChangeClipboard(t *testing.T) {
	s := NewState(24, 80, 1000, 0)
	s.Clipboard = "previous"
	s.OscDispatch([][]byte{[]byte("52"), []byte("c"), []byte("?")})

	if s.Clipboard != "previous" {
		t.Fatalf("Clipboard = %q, want unchanged %q", s.Clipboard, "previous")
	}
}

func TestOSC52InvalidBase64Ignored(t *testing.T) {
	s := NewState(24, 80, 1000, 0)
	s.Clipboard = "previous"
	s.OscDispatch([][]byte{[]byte("52"), []byte("c"), []byte("not-base64!!")})

	if s.Clipboard != "previous" {
		t.Fatalf("Clipboard = %q, want unchanged %q", s.Clipboard, "previous")
	}
}
