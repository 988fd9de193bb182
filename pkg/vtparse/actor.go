package vtparse

// VTActor receives the decoded actions of a byte stream as the parser
// advances through it. Terminology: an intermediate is a byte in the range
// 0x20-0x2f.
type VTActor interface {
	// Print is called for a single printable codepoint, already decoded
	// from UTF-8 if it arrived as a multi-byte sequence.
	Print(r rune)

	// ExecuteC0orC1 is called for a C0 or C1 control code that carries no
	// parameters (e.g. BEL, BS, LF).
	ExecuteC0orC1(control byte)

	// DcsHook is invoked when the final byte of a device control string
	// introducer arrives, selecting the handler for the bytes that follow
	// via DcsPut until DcsUnhook.
	DcsHook(params []int64, intermediates []byte, ignoredExcessIntermediates bool)

	// DcsPut delivers one byte of the body of a device control string.
	DcsPut(b byte)

	// DcsUnhook is called when the terminating ST is reached.
	DcsUnhook()

	// EscDispatch is called for a private escape sequence with no CSI
	// introducer (ESC followed by intermediates and a final byte).
	EscDispatch(params []int64, intermediates []byte, ignoredExcessIntermediates bool, b byte)

	// CsiDispatch is called once the final byte of a CSI sequence arrives.
	// subParams[i] is true when params[i] was introduced by ':' rather than
	// ';' — an xterm-style subparameter continuing params[i-1], used by
	// sequences like underline style (`4:3`) and extended color.
	CsiDispatch(params []int64, subParams []bool, intermediates []byte, ignoredExcessIntermediates bool, b byte)

	// OscDispatch is called once an operating system command string is
	// terminated (by BEL or ST), with each `;`-delimited field split out.
	OscDispatch(params [][]byte)
}

// ActionKind discriminates the variant stored in a recorded VTAction.
type ActionKind int

const (
	KindPrint ActionKind = iota
	KindExecute
	KindDcsHook
	KindDcsPut
	KindDcsUnhook
	KindEscDispatch
	KindCsiDispatch
	KindOscDispatch
)

// VTAction is a recorded call against the VTActor interface, used by
// CollectingVTActor to build up a flat action log for tests.
type VTAction struct {
	Kind                       ActionKind
	Rune                       rune
	Control                    byte
	Params                     []int64
	SubParams                  []bool
	Intermediates              []byte
	IgnoredExcessIntermediates bool
	Byte                       byte
	OscParams                  [][]byte
}

// CollectingVTActor is a VTActor that records every call it receives, in
// order, for use in table-driven parser tests.
type CollectingVTActor struct {
	Actions []VTAction
}

func (c *CollectingVTActor) Print(r rune) {
	c.Actions = append(c.Actions, VTAction{Kind: KindPrint, Rune: r})
}

func (c *CollectingVTActor) ExecuteC0orC1(control byte) {
	c.Actions = append(c.Actions, VTAction{Kind: KindExecute, Control: control})
}

func (c *CollectingVTActor) DcsHook(params []int64, intermediates []byte, ignoredExcessIntermediates bool) {
	c.Actions = append(c.Actions, VTAction{
		Kind:                       KindDcsHook,
		Params:                     append([]int64(nil), params...),
		Intermediates:              append([]byte(nil), intermediates...),
		IgnoredExcessIntermediates: ignoredExcessIntermediates,
	})
}

func (c *CollectingVTActor) DcsPut(b byte) {
	c.Actions = append(c.Actions, VTAction{Kind: KindDcsPut, Byte: b})
}

func (c *CollectingVTActor) DcsUnhook() {
	c.Actions = append(c.Actions, VTAction{Kind: KindDcsUnhook})
}

func (c *CollectingVTActor) EscDispatch(params []int64, intermediates []byte, ignoredExcessIntermediates bool, b byte) {
	c.Actions = append(c.Actions, VTAction{
		Kind:                       KindEscDispatch,
		Params:                     append([]int64(nil), params...),
		Intermediates:              append([]byte(nil), intermediates...),
		IgnoredExcessIntermediates: ignoredExcessIntermediates,
		Byte:                       b,
	})
}

func (c *CollectingVTActor) CsiDispatch(params []int64, subParams []bool, intermediates []byte, ignoredExcessIntermediates bool, b byte) {
	c.Actions = append(c.Actions, VTAction{
		Kind:                       KindCsiDispatch,
		Params:                     append([]int64(nil), params...),
		SubParams:                  append([]bool(nil), subParams...),
		Intermediates:              append([]byte(nil), intermediates...),
		IgnoredExcessIntermediates: ignoredExcessIntermediates,
		Byte:                       b,
	})
}

func (c *CollectingVTActor) OscDispatch(params [][]byte) {
	cp := make([][]byte, len(params))
	for i, p := range params {
		cp[i] = append([]byte(nil), p...)
	}
	c.Actions = append(c.Actions, VTAction{Kind: KindOscDispatch, OscParams: cp})
}
