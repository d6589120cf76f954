package http1

import (
	"io"
	"math"

	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/transport"
)

// Body reads a response body, delimited by the framing, from the client. Pieces returned by
// Fetch are views into the client's read buffer and stay valid only until the next call.
// Bytes past the body end are pushed back, so they're available to the next response.
type Body struct {
	client   transport.Client
	framing  headers.Framing
	left     uint64
	received uint64
	maxSize  uint64
	chunked  chunkedParser
	done     bool
}

// NewBody returns a body reader. Trailers of chunked bodies are decoded into the trailers
// store, using trailersBuff as the backing memory. Zero maxSize disables the limit.
func NewBody(
	client transport.Client, trailersBuff []byte, trailers *headers.Headers, maxSize uint64,
) *Body {
	return &Body{
		client:  client,
		maxSize: maxSize,
		chunked: newChunkedParser(trailersBuff, trailers),
		done:    true,
	}
}

// Reset prepares the reader for the next body.
func (b *Body) Reset(framing headers.Framing) {
	b.framing = framing
	b.left = framing.Length
	b.received = 0
	b.chunked.Clear()
	b.done = framing.Kind == headers.ContentLength && framing.Length == 0
}

// Fetch returns the next piece of the body. io.EOF is returned once the body is over, which
// may come along with the last piece. Transport errors are classified, so io.EOF never
// escapes from it unless the body is actually complete.
func (b *Body) Fetch() (piece []byte, err error) {
	if b.done {
		return nil, io.EOF
	}

	switch b.framing.Kind {
	case headers.ContentLength:
		piece, err = b.fetchSized()
	case headers.Chunked:
		piece, err = b.fetchChunked()
	default:
		piece, err = b.fetchUntilClose()
	}

	if err == io.EOF {
		b.done = true
	}

	return piece, err
}

// Done reports whether the body was consumed entirely.
func (b *Body) Done() bool {
	return b.done
}

// Framing returns the framing of the current body.
func (b *Body) Framing() headers.Framing {
	return b.framing
}

func (b *Body) fetchSized() ([]byte, error) {
	data, err := b.client.Read()
	if err != nil {
		return nil, errors.FromTransport(err)
	}

	if err = b.account(int(min(uint64(len(data)), b.left))); err != nil {
		return nil, err
	}

	if uint64(len(data)) >= b.left {
		body, extra := data[:b.left], data[b.left:]
		b.client.Pushback(extra)
		b.left = 0

		return body, io.EOF
	}

	b.left -= uint64(len(data))

	return data, nil
}

func (b *Body) fetchChunked() ([]byte, error) {
	for {
		data, err := b.client.Read()
		if err != nil {
			return nil, errors.FromTransport(err)
		}

		chunk, extra, err := b.chunked.Parse(data)
		switch err {
		case nil, io.EOF:
		default:
			return nil, err
		}

		b.client.Pushback(extra)

		if acctErr := b.account(len(chunk)); acctErr != nil {
			return nil, acctErr
		}

		if len(chunk) == 0 && err == nil {
			continue
		}

		return chunk, err
	}
}

func (b *Body) fetchUntilClose() ([]byte, error) {
	data, err := b.client.Read()
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	default:
		return nil, errors.FromTransport(err)
	}

	if err = b.account(len(data)); err != nil {
		return nil, err
	}

	return data, nil
}

func (b *Body) account(n int) error {
	received, overflows := adduint(b.received, uint64(n))
	if overflows || (b.maxSize > 0 && received > b.maxSize) {
		return errors.ErrBodyTooLarge
	}

	b.received = received
	return nil
}

func adduint(x, y uint64) (uint64, bool) {
	return x + y, math.MaxUint64-x < y
}
