// Package transport exposes a Mux over the network: a websocket endpoint
// that frames codec.Pdu messages over gorilla/websocket binary frames, and
// a plain TCP listener that frames them directly over the wire codec with
// no websocket envelope at all (for process-to-process domain
// attachments that don't need a browser-facing handshake).
package transport

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vtcore/vtcore/pkg/mux/codec"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Dispatcher handles one decoded request Pdu and returns the response
// payload to send back under the same serial.
type Dispatcher interface {
	Dispatch(req *codec.Pdu) (interface{}, error)
}

// WebSocketHandler upgrades an HTTP connection to a websocket and speaks
// the codec protocol over binary frames: one client request per frame in,
// one server response per frame out, plus periodic pings so a half-closed
// socket is noticed instead of leaking a goroutine forever.
type WebSocketHandler struct {
	dispatch Dispatcher
	log      *zap.Logger
}

// NewWebSocketHandler returns a handler that dispatches through d, logging
// through log (zap.NewNop() if nil).
func NewWebSocketHandler(d Dispatcher, log *zap.Logger) *WebSocketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketHandler{dispatch: d, log: log}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	send := make(chan []byte, 256)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	go h.writer(conn, send, ticker, done, closeDone)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			closeDone()
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		h.handleFrame(message, send, done)
	}
}

func (h *WebSocketHandler) handleFrame(frame []byte, send chan []byte, done chan struct{}) {
	req, _, ok := codec.StreamDecode(frame)
	if !ok {
		h.log.Warn("failed to decode websocket frame", zap.Int("bytes", len(frame)))
		return
	}

	resp, err := h.dispatch.Dispatch(req)
	if err != nil {
		resp = &codec.ErrorResponse{Reason: err.Error()}
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, req.Serial, resp); err != nil {
		h.log.Warn("failed to encode websocket response", zap.Error(err))
		return
	}
	safeSend(send, buf.Bytes(), done)
}

// writer is the connection's sole writer goroutine: gorilla/websocket
// connections are not safe for concurrent writes, so every outbound frame
// (responses and pings alike) funnels through here. On any exit path it
// calls closeDone to signal the reader loop, and closes conn itself so a
// reader blocked in conn.ReadMessage wakes up with an error instead of
// hanging until the peer notices on its own.
func (h *WebSocketHandler) writer(conn *websocket.Conn, send chan []byte, ticker *time.Ticker, done chan struct{}, closeDone func()) {
	defer func() {
		closeDone()
		conn.Close()
	}()
	for {
		select {
		case message := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// safeSend writes to a buffered channel without blocking forever on a
// connection that is already shutting down.
func safeSend(send chan []byte, msg []byte, done chan struct{}) bool {
	select {
	case send <- msg:
		return true
	case <-done:
		return false
	}
}
