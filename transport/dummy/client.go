package dummy

import (
	"io"

	"github.com/indigo-web/nanohttp/transport"
)

var _ transport.Client = new(Client)

// Client returns the data it was initialised with piece by piece and reports io.EOF once
// it runs out of them (unless set to loop or to fail). It also tracks all the written data,
// making it thereby a universal mock suitable for most of the tests.
type Client struct {
	closed    bool
	loop      bool
	pointer   int
	tmp       []byte
	written   []byte
	writes    int
	data      [][]byte
	readErr   error
	writeErr  error
	closeCall int
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		if !c.loop || len(c.data) == 0 {
			if c.readErr != nil {
				return nil, c.readErr
			}

			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}

	c.writes++
	c.written = append(c.written, p...)

	return nil
}

func (c *Client) Close() error {
	c.closed = true
	c.closeCall++
	return nil
}

// LoopReads makes the client start over once the data is exhausted.
func (c *Client) LoopReads() *Client {
	c.loop = true
	return c
}

// FailReads makes the client return the error instead of io.EOF once the data is exhausted.
func (c *Client) FailReads(err error) *Client {
	c.readErr = err
	return c
}

// FailWrites makes every write fail with the error.
func (c *Client) FailWrites(err error) *Client {
	c.writeErr = err
	return c
}

// Written returns everything written so far.
func (c *Client) Written() string {
	return string(c.written)
}

// Writes returns the number of successful write calls.
func (c *Client) Writes() int {
	return c.writes
}

// Closed reports whether Close was called at least once.
func (c *Client) Closed() bool {
	return c.closeCall > 0
}
