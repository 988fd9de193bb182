package vtparse

const (
	maxIntermediates = 2
	maxOSC           = 16
	maxParams        = 16
)

// Parser drives the DEC ANSI state machine over a byte stream, dispatching
// decoded actions to a VTActor. A Parser is not safe for concurrent use; the
// pane that owns one feeds it from its pty-reader goroutine only.
type Parser struct {
	state State

	intermediates              [maxIntermediates]byte
	numIntermediates           int
	ignoredExcessIntermediates bool

	oscBuffer       []byte
	oscParamIndices [maxOSC]int
	oscNumParams    int
	oscFull         bool

	params       [maxParams]int64
	subParams    [maxParams]bool // subParams[i] true: params[i] continues params[i-1] via ':' rather than starting a fresh ';'-delimited slot
	pendingSub   bool
	numParams    int
	currentParam int64
	haveCurrent  bool
	paramsFull   bool

	utf8 utf8Decoder
}

// NewParser returns a Parser positioned in the Ground state.
func NewParser() *Parser {
	return &Parser{state: StateGround}
}

func (p *Parser) finishParam() {
	if p.haveCurrent {
		if p.numParams < maxParams {
			p.params[p.numParams] = p.currentParam
			p.subParams[p.numParams] = p.pendingSub
			p.numParams++
		}
		p.haveCurrent = false
		p.currentParam = 0
	}
	p.pendingSub = false
}

func (p *Parser) applyAction(action Action, param byte, actor VTActor) {
	switch action {
	case ActionNone, ActionIgnore:
	case ActionPrint:
		actor.Print(rune(param))
	case ActionExecute:
		actor.ExecuteC0orC1(param)
	case ActionClear:
		p.numIntermediates = 0
		p.ignoredExcessIntermediates = false
		p.oscNumParams = 0
		p.oscFull = false
		p.numParams = 0
		p.paramsFull = false
		p.haveCurrent = false
		p.currentParam = 0
		p.pendingSub = false
	case ActionCollect:
		if p.numIntermediates < maxIntermediates {
			p.intermediates[p.numIntermediates] = param
			p.numIntermediates++
		} else {
			p.ignoredExcessIntermediates = true
		}
	case ActionParam:
		if p.paramsFull {
			return
		}
		if param == ';' || param == ':' {
			if p.numParams+1 > maxParams {
				p.paramsFull = true
			} else {
				var v int64
				if p.haveCurrent {
					v = p.currentParam
				}
				p.params[p.numParams] = v
				p.subParams[p.numParams] = p.pendingSub
				p.numParams++
				p.haveCurrent = false
				p.currentParam = 0
				p.pendingSub = param == ':'
			}
		} else {
			var cur int64
			if p.haveCurrent {
				cur = p.currentParam
			}
			p.currentParam = saturatingAdd(saturatingMul(cur, 10), int64(param-'0'))
			p.haveCurrent = true
		}
	case ActionHook:
		p.finishParam()
		actor.DcsHook(p.params[:p.numParams], p.intermediates[:p.numIntermediates], p.ignoredExcessIntermediates)
	case ActionPut:
		actor.DcsPut(param)
	case ActionEscDispatch:
		p.finishParam()
		actor.EscDispatch(p.params[:p.numParams], p.intermediates[:p.numIntermediates], p.ignoredExcessIntermediates, param)
	case ActionCsiDispatch:
		p.finishParam()
		actor.CsiDispatch(p.params[:p.numParams], p.subParams[:p.numParams], p.intermediates[:p.numIntermediates], p.ignoredExcessIntermediates, param)
	case ActionUnhook:
		actor.DcsUnhook()
	case ActionOscStart:
		p.oscBuffer = p.oscBuffer[:0]
		p.oscNumParams = 0
		p.oscFull = false
	case ActionOscPut:
		if param == ';' {
			switch p.oscNumParams {
			case maxOSC:
				p.oscFull = true
			case 0:
				// An empty first param also ends at this ';'.
				p.oscParamIndices[0] = len(p.oscBuffer)
				p.oscNumParams = 2
			default:
				p.oscParamIndices[p.oscNumParams-1] = len(p.oscBuffer)
				p.oscNumParams++
			}
		} else if !p.oscFull {
			if p.oscNumParams == 0 {
				p.oscNumParams = 1
			}
			p.oscBuffer = append(p.oscBuffer, param)
		}
	case ActionOscEnd:
		if p.oscNumParams == 0 {
			actor.OscDispatch(nil)
		} else {
			limit := p.oscNumParams
			if limit > maxOSC {
				limit = maxOSC
			}
			params := make([][]byte, limit)
			offset := 0
			slice := p.oscBuffer
			for i := 0; i < limit-1; i++ {
				cut := p.oscParamIndices[i] - offset
				params[i] = slice[:cut]
				slice = slice[cut:]
				offset = p.oscParamIndices[i]
			}
			params[limit-1] = slice
			actor.OscDispatch(params)
		}
	case ActionUtf8:
		p.nextUTF8(actor, param)
	}
}

func (p *Parser) nextUTF8(actor VTActor, b byte) {
	if r, ok := p.utf8.feed(b); ok {
		actor.Print(r)
		p.state = StateGround
	}
}

// Parse feeds a chunk of bytes through the state machine, invoking actor
// methods for every decoded action. Parse may be called repeatedly with
// successive chunks of a stream; parser state (partial escape sequences,
// in-flight UTF-8 continuation bytes) carries over between calls.
func (p *Parser) Parse(data []byte, actor VTActor) {
	for _, b := range data {
		if p.state == StateUtf8Sequence {
			p.nextUTF8(actor, b)
			continue
		}
		if p.state == StateOscString && (b >= 0xC2 || (p.utf8.need > 0 && b >= 0x80)) {
			// Multi-byte UTF-8 inside an OSC string is decoded and kept in
			// the OSC buffer rather than read byte by byte as C1 controls.
			if r, ok := p.utf8.feed(b); ok && !p.oscFull {
				if p.oscNumParams == 0 {
					p.oscNumParams = 1
				}
				p.oscBuffer = append(p.oscBuffer, string(r)...)
			}
			continue
		}
		p.utf8.need = 0

		action, state := lookup(p.state, b)

		if state != p.state {
			p.applyAction(lookupExit(p.state), 0, actor)
			p.state = state
			p.applyAction(action, b, actor)
			p.applyAction(lookupEntry(state), 0, actor)
		} else {
			p.applyAction(action, b, actor)
		}
	}
}

func saturatingAdd(a, b int64) int64 {
	s := a + b
	if (s < a) != (b < 0) {
		if b > 0 {
			return 1<<63 - 1
		}
		return -(1 << 63)
	}
	return s
}

func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	r := a * b
	if r/b != a {
		if (a < 0) == (b < 0) {
			return 1<<63 - 1
		}
		return -(1 << 63)
	}
	return r
}
