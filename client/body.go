package client

import (
	"io"

	"github.com/indigo-web/nanohttp/http/headers"
)

// Body is a forward-only view over the response body. It isn't restartable: every byte is
// returned exactly once, either by Fetch or by Read.
type Body struct {
	conn     *Conn
	trailers *headers.Headers
	pending  []byte
}

// Fetch returns the next piece of the body as a view into the read buffer, valid until the
// next call. io.EOF is returned once the body is over, possibly alongside with the last piece.
func (b *Body) Fetch() ([]byte, error) {
	if len(b.pending) > 0 {
		pending := b.pending
		b.pending = nil

		return pending, nil
	}

	return b.conn.fetch()
}

// Read copies the body into p. The part of a piece not fitting into p is retained for the
// next call. It implements io.Reader.
func (b *Body) Read(p []byte) (n int, err error) {
	if len(b.pending) == 0 {
		b.pending, err = b.conn.fetch()
	}

	n = copy(p, b.pending)
	b.pending = b.pending[n:]

	if err == io.EOF && len(b.pending) > 0 {
		// the remainder must be returned first, and the next fetch results in io.EOF again.
		err = nil
	}

	return n, err
}

// Discard reads the rest of the body out, so the connection can be reused.
func (b *Body) Discard() error {
	b.pending = nil

	for {
		_, err := b.conn.fetch()
		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}
	}
}

// Trailers returns trailer fields of a chunked body. They're available only once the body
// is read entirely.
func (b *Body) Trailers() *headers.Headers {
	return b.trailers
}

func (b *Body) reset() {
	b.pending = nil
}
