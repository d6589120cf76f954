package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is an in-memory net.Conn. Reads are served from the scripted pieces, each read
// returning at most one piece (or a part of it, if the destination is smaller). Writes are
// accumulated and may be artificially limited in size to imitate short writes.
type Conn struct {
	Data []byte

	reads      [][]byte
	readErr    error
	writeLimit int
	nop        bool
	closed     bool

	ReadDeadline, WriteDeadline time.Time
}

func NewConn(reads ...[]byte) *Conn {
	return &Conn{reads: reads}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if len(c.reads) == 0 {
		if c.readErr != nil {
			return 0, c.readErr
		}

		return 0, io.EOF
	}

	n = copy(b, c.reads[0])
	if c.reads[0] = c.reads[0][n:]; len(c.reads[0]) == 0 {
		c.reads = c.reads[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.writeLimit > 0 && len(b) > c.writeLimit {
		b = b[:c.writeLimit]
	}

	if !c.nop {
		c.Data = append(c.Data, b...)
	}

	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) IsClosed() bool {
	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(t time.Time) error {
	c.ReadDeadline, c.WriteDeadline = t, t
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.ReadDeadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	c.WriteDeadline = t
	return nil
}

// Nop discards all the written data.
func (c *Conn) Nop() *Conn {
	c.nop = true
	return c
}

// WriteLimit caps the amount of bytes accepted by a single write.
func (c *Conn) WriteLimit(n int) *Conn {
	c.writeLimit = n
	return c
}

// FailReads makes reads fail with the error instead of io.EOF once the data is exhausted.
func (c *Conn) FailReads(err error) *Conn {
	c.readErr = err
	return c
}
