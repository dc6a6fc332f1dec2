// Package websocket carries the raw link byte stream over websocket messages.
package websocket

import "golang.org/x/net/websocket"

// ReadWriter exposes a websocket connection as a byte stream.
// Each Write is sent as one binary message, Read returns message bytes
// across calls when the buffer is smaller than a message.
type ReadWriter struct {
	conn    *websocket.Conn
	pending []byte
}

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return &ReadWriter{conn: conn}
}

// Dial connects to a websocket endpoint.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Read implements io.Reader.
func (p *ReadWriter) Read(b []byte) (int, error) {
	for len(p.pending) == 0 {
		var msg []byte
		if err := websocket.Message.Receive(p.conn, &msg); err != nil {
			return 0, err
		}
		p.pending = msg
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (p *ReadWriter) Write(b []byte) (int, error) {
	if err := websocket.Message.Send(p.conn, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return p.conn.Close()
}
