package transport

import (
	"io"
	"time"

	"github.com/indigo-web/nanohttp/config"
)

// Conn is the byte-stream capability the engine runs on top of. Reads and writes may be
// partial. Plain net.Conn as well as *tls.Conn satisfy it, so the engine never differs
// between them.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// Client is what the protocol engine actually talks to. Read returns a view into the read
// buffer, which stays valid only until the next Read call. Data that was read but not consumed
// is returned back via Pushback and is served by the next Read.
type Client interface {
	Read() ([]byte, error)
	Pushback([]byte)
	Write([]byte) error
	Close() error
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// maxEmptyReads limits how many times in a row the connection may return neither data
// nor error before being considered stuck.
const maxEmptyReads = 100

var _ Client = new(client)

type client struct {
	conn         Conn
	buff         []byte
	pending      []byte
	readTimeout  time.Duration
	writeTimeout time.Duration
	err          error
}

// NewClient wraps the connection. The buff is used for every read, so its length
// determines the maximal size of a single read.
func NewClient(conn Conn, cfg config.NET, buff []byte) Client {
	return &client{
		conn:         conn,
		buff:         buff,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// Read reads data into the internal buffer and returns a piece of it back. It never returns
// empty data without an error. An error returned by the connection alongside with data is
// delayed until the next call.
func (c *client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if c.err != nil {
		return nil, c.err
	}

	if d, ok := c.conn.(readDeadliner); ok && c.readTimeout > 0 {
		if err := d.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return nil, err
		}
	}

	for range maxEmptyReads {
		n, err := c.conn.Read(c.buff)
		switch {
		case n > 0:
			c.err = err
			return c.buff[:n], nil
		case err != nil:
			c.err = err
			return nil, err
		}
	}

	return nil, io.ErrNoProgress
}

// Pushback preserves a chunk of data from previous read for the next read.
func (c *client) Pushback(b []byte) {
	c.pending = b
}

// Write writes the whole data into the underlying connection, retrying on short writes.
// A write making no progress results in io.ErrShortWrite.
func (c *client) Write(b []byte) error {
	if d, ok := c.conn.(writeDeadliner); ok && c.writeTimeout > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}

	for len(b) > 0 {
		n, err := c.conn.Write(b)
		if err != nil {
			return err
		}

		if n == 0 {
			return io.ErrShortWrite
		}

		b = b[n:]
	}

	return nil
}

// Close closes the connection.
func (c *client) Close() error {
	return c.conn.Close()
}
