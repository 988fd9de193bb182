package main

import (
	"bufio"
	"fmt"
	"net"

	"github.com/vtcore/vtcore/pkg/mux/codec"
)

// client is a thin wrapper over a codec connection to a mux server: it
// keeps one bufio.Reader alive across requests so bytes buffered past one
// frame's boundary aren't dropped before the next Request call reads them.
type client struct {
	conn   net.Conn
	reader *bufio.Reader
	serial uint64
}

// dial opens a plain TCP connection to a mux server's codec listener. The
// CLI speaks the raw wire codec directly rather than going over the
// websocket endpoint, since it has no browser in the loop.
func dial(addr string) (*client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

func (c *client) Close() error { return c.conn.Close() }

// Request sends one PDU and waits for its response.
func (c *client) Request(payload interface{}) (*codec.Pdu, error) {
	c.serial++
	if err := codec.Encode(c.conn, c.serial, payload); err != nil {
		return nil, err
	}
	return codec.Decode(c.reader)
}
