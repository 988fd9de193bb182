package vtparse

import (
	"reflect"
	"testing"
)

func parseAsActions(t *testing.T, data []byte) []VTAction {
	t.Helper()
	p := NewParser()
	actor := &CollectingVTActor{}
	p.Parse(data, actor)
	return actor.Actions
}

func printAction(r rune) VTAction { return VTAction{Kind: KindPrint, Rune: r} }

func execAction(b byte) VTAction { return VTAction{Kind: KindExecute, Control: b} }

func csiAction(params []int64, intermediates []byte, ignored bool, b byte) VTAction {
	return VTAction{Kind: KindCsiDispatch, Params: params, Intermediates: intermediates, IgnoredExcessIntermediates: ignored, Byte: b}
}

func escAction(params []int64, intermediates []byte, ignored bool, b byte) VTAction {
	return VTAction{Kind: KindEscDispatch, Params: params, Intermediates: intermediates, IgnoredExcessIntermediates: ignored, Byte: b}
}

func oscAction(params ...string) VTAction {
	out := make([][]byte, len(params))
	for i, p := range params {
		out[i] = []byte(p)
	}
	return VTAction{Kind: KindOscDispatch, OscParams: out}
}

func assertActions(t *testing.T, data []byte, want []VTAction) {
	t.Helper()
	got := parseAsActions(t, data)
	if len(got) != len(want) {
		t.Fatalf("parse(%q): got %d actions %+v, want %d %+v", data, len(got), got, len(want), want)
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Kind != w.Kind || g.Rune != w.Rune || g.Control != w.Control || g.Byte != w.Byte ||
			g.IgnoredExcessIntermediates != w.IgnoredExcessIntermediates ||
			!reflect.DeepEqual(g.Params, w.Params) ||
			!bytesEqual(g.Intermediates, w.Intermediates) ||
			!oscParamsEqual(g.OscParams, w.OscParams) {
			t.Fatalf("parse(%q): action %d got %+v, want %+v", data, i, g, w)
		}
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func oscParamsEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestMixed(t *testing.T) {
	assertActions(t, []byte("yo\x07\x1b[32mwoot\x1b[0mdone"), []VTAction{
		printAction('y'),
		printAction('o'),
		execAction(0x07),
		csiAction([]int64{32}, nil, false, 'm'),
		printAction('w'),
		printAction('o'),
		printAction('o'),
		printAction('t'),
		csiAction([]int64{0}, nil, false, 'm'),
		printAction('d'),
		printAction('o'),
		printAction('n'),
		printAction('e'),
	})
}

func TestPrint(t *testing.T) {
	assertActions(t, []byte("yo"), []VTAction{printAction('y'), printAction('o')})
}

func TestOscWithC1ST(t *testing.T) {
	assertActions(t, []byte("\x1b]0;there\x9c"), []VTAction{oscAction("0", "there")})
}

func TestOscWithBelST(t *testing.T) {
	assertActions(t, []byte("\x1b]0;hello\x07"), []VTAction{oscAction("0", "hello")})
}

func TestOscTooManyParams(t *testing.T) {
	assertActions(t, []byte("\x1b]0;1;2;3;4;5;6;7;8;9;a;b;c;d;e;f;g\x07"), []VTAction{
		oscAction("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f"),
	})
}

func TestOscWithNoParams(t *testing.T) {
	assertActions(t, []byte("\x1b]\x07"), []VTAction{oscAction()})
}

func TestOscWithEscSequenceST(t *testing.T) {
	assertActions(t, []byte("\x1b]woot\x1b\\"), []VTAction{
		oscAction("woot"),
		escAction(nil, nil, false, '\\'),
	})
}

func TestCsiOmittedParam(t *testing.T) {
	assertActions(t, []byte("\x1b[;1m"), []VTAction{
		csiAction([]int64{0, 1}, nil, false, 'm'),
	})
}

func TestCsiTooManyParams(t *testing.T) {
	assertActions(t, []byte("\x1b[0;1;2;3;4;5;6;7;8;9;0;1;2;3;4;51;6p"), []VTAction{
		csiAction([]int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 51}, nil, false, 'p'),
	})
}

func TestCsiIntermediates(t *testing.T) {
	assertActions(t, []byte("\x1b[1 p"), []VTAction{
		csiAction([]int64{1}, []byte(" "), false, 'p'),
	})
	assertActions(t, []byte("\x1b[1 !p"), []VTAction{
		csiAction([]int64{1}, []byte(" !"), false, 'p'),
	})
	assertActions(t, []byte("\x1b[1 !#p"), []VTAction{
		csiAction([]int64{1}, []byte(" !"), true, 'p'),
	})
}

func TestCsiColonSubparameter(t *testing.T) {
	p := NewParser()
	actor := &CollectingVTActor{}
	p.Parse([]byte("\x1b[4:3m"), actor)
	if len(actor.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d: %+v", len(actor.Actions), actor.Actions)
	}
	got := actor.Actions[0]
	if !reflect.DeepEqual(got.Params, []int64{4, 3}) {
		t.Fatalf("Params = %v, want [4 3]", got.Params)
	}
	if !reflect.DeepEqual(got.SubParams, []bool{false, true}) {
		t.Fatalf("SubParams = %v, want [false true]", got.SubParams)
	}
}

func TestCsiSemicolonIsNotASubparameter(t *testing.T) {
	p := NewParser()
	actor := &CollectingVTActor{}
	p.Parse([]byte("\x1b[4;3m"), actor)
	got := actor.Actions[0]
	if !reflect.DeepEqual(got.SubParams, []bool{false, false}) {
		t.Fatalf("SubParams = %v, want [false false]", got.SubParams)
	}
}

func TestOscUTF8(t *testing.T) {
	assertActions(t, []byte("\x1b]¯\x07"), []VTAction{oscAction("¯")})
}

func TestPrintUTF8(t *testing.T) {
	assertActions(t, []byte("¯"), []VTAction{printAction('¯')})
}

func TestInvalidUTF8ReplacementChar(t *testing.T) {
	// A stray continuation byte cannot start a sequence and is replaced.
	assertActions(t, []byte{0xA0}, []VTAction{printAction(replacementChar)})
}

func TestParseAcrossMultipleCalls(t *testing.T) {
	p := NewParser()
	actor := &CollectingVTActor{}
	p.Parse([]byte("\x1b["), actor)
	p.Parse([]byte("32m"), actor)
	if len(actor.Actions) != 1 {
		t.Fatalf("expected 1 action once the CSI sequence completes across calls, got %d: %+v", len(actor.Actions), actor.Actions)
	}
	want := csiAction([]int64{32}, nil, false, 'm')
	got := actor.Actions[0]
	if got.Kind != want.Kind || got.Byte != want.Byte || !reflect.DeepEqual(got.Params, want.Params) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
