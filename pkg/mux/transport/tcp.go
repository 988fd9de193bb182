package transport

import (
	"bufio"
	"crypto/tls"
	"net"

	"github.com/caddyserver/certmagic"
	"go.uber.org/zap"

	"github.com/vtcore/vtcore/pkg/mux/codec"
)

// TCPServer speaks the codec protocol directly over a raw connection, one
// request per frame followed by one response frame, with no websocket
// envelope: the transport domain-remote attachments use when both ends are
// vtmux-server processes rather than a browser.
type TCPServer struct {
	dispatch Dispatcher
	log      *zap.Logger
}

// NewTCPServer returns a server that dispatches through d, logging through
// log (zap.NewNop() if nil).
func NewTCPServer(d Dispatcher, log *zap.Logger) *TCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &TCPServer{dispatch: d, log: log}
}

// Serve accepts connections on ln until it returns an error (including the
// listener being closed).
func (s *TCPServer) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *TCPServer) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		req, err := codec.Decode(r)
		if err != nil {
			return
		}
		resp, err := s.dispatch.Dispatch(req)
		if err != nil {
			resp = &codec.ErrorResponse{Reason: err.Error()}
		}
		if err := codec.Encode(conn, req.Serial, resp); err != nil {
			s.log.Warn("tcp codec encode failed", zap.Error(err))
			return
		}
	}
}

// ListenAutoTLS returns a TLS listener for domain using certmagic's
// automatic ACME certificate management, so a mux server can be reachable
// directly on the open internet (e.g. behind a public DNS name) without a
// hand-managed certificate file.
func ListenAutoTLS(addr, domain, email string) (net.Listener, error) {
	certmagic.DefaultACME.Email = email
	tlsConfig, err := certmagic.TLS([]string{domain})
	if err != nil {
		return nil, err
	}
	return tls.Listen("tcp", addr, tlsConfig)
}
