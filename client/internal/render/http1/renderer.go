package http1

import (
	"bytes"

	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/method"
	"github.com/indigo-web/nanohttp/http/proto"
	"github.com/indigo-web/nanohttp/internal/hexconv"
)

const crlf = "\r\n"

// CRLF terminates the data of a chunk written past the encoder.
var CRLF = []byte(crlf)

var chunkZeroTrailer = []byte("0\r\n\r\n")

// Encoder serializes requests into a fixed caller buffer. Every method appends one complete
// piece of the request and returns the new write offset. If the piece doesn't fit, nothing
// is appended and errors.ErrBufferTooSmall is returned.
type Encoder struct {
	buff []byte
	n    int
}

func NewEncoder(buff []byte) *Encoder {
	return &Encoder{
		buff: buff,
	}
}

// RequestLine appends the method, the request target and the protocol, separated by a single
// space each and terminated by CRLF. The target is written as is.
func (e *Encoder) RequestLine(m method.Method, path string, protocol proto.Protocol) (int, error) {
	methodToken, protoToken := m.String(), protocol.String()
	switch {
	case len(methodToken) == 0:
		return e.n, errors.ErrUnknownMethod
	case len(protoToken) == 0:
		return e.n, errors.ErrUnsupportedProtocol
	}

	if !e.fits(len(methodToken) + 1 + len(path) + 1 + len(protoToken) + len(crlf)) {
		return e.n, errors.ErrBufferTooSmall
	}

	e.appendString(methodToken)
	e.appendByte(' ')
	e.appendString(path)
	e.appendByte(' ')
	e.appendString(protoToken)
	e.appendString(crlf)

	return e.n, nil
}

// Header appends a single "Name: Value\r\n" line. Neither the name nor the value may contain
// CR or LF, and the name must be non-empty and colon-free. Otherwise, errors.ErrBadHeader
// is returned.
func (e *Encoder) Header(name, value []byte) (int, error) {
	if len(name) == 0 || bytes.ContainsAny(name, crlf+":") || bytes.ContainsAny(value, crlf) {
		return e.n, errors.ErrBadHeader
	}

	if !e.fits(len(name) + len(": ") + len(value) + len(crlf)) {
		return e.n, errors.ErrBufferTooSmall
	}

	e.append(name)
	e.appendString(": ")
	e.append(value)
	e.appendString(crlf)

	return e.n, nil
}

// HeadersEnd appends the blank line completing the headers block.
func (e *Encoder) HeadersEnd() (int, error) {
	if !e.fits(len(crlf)) {
		return e.n, errors.ErrBufferTooSmall
	}

	e.appendString(crlf)

	return e.n, nil
}

// Chunk appends the data framed as a single chunk. Empty data produces the terminating
// zero-length chunk with no trailers.
func (e *Encoder) Chunk(data []byte) (int, error) {
	if len(data) == 0 {
		if !e.fits(len(chunkZeroTrailer)) {
			return e.n, errors.ErrBufferTooSmall
		}

		e.append(chunkZeroTrailer)
		return e.n, nil
	}

	if !e.fits(ChunkOverhead(len(data)) + len(data)) {
		return e.n, errors.ErrBufferTooSmall
	}

	_, _ = e.ChunkHeader(len(data))
	e.append(data)
	e.appendString(crlf)

	return e.n, nil
}

// ChunkHeader appends only the chunk-size line. The caller is responsible for writing exactly
// size bytes of data followed by CRLF. It's useful for chunks not fitting into the buffer.
func (e *Encoder) ChunkHeader(size int) (int, error) {
	sizeLen := hexconv.Len(uint64(size))
	if !e.fits(sizeLen + len(crlf)) {
		return e.n, errors.ErrBufferTooSmall
	}

	hexconv.Put(e.buff[e.n:e.n+sizeLen], uint64(size))
	e.n += sizeLen
	e.appendString(crlf)

	return e.n, nil
}

// ChunkOverhead returns how many bytes of framing a chunk of the given size takes.
func ChunkOverhead(size int) int {
	return hexconv.Len(uint64(size)) + 2*len(crlf)
}

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte {
	return e.buff[:e.n]
}

// Len returns the current write offset.
func (e *Encoder) Len() int {
	return e.n
}

// Available returns the number of bytes left.
func (e *Encoder) Available() int {
	return len(e.buff) - e.n
}

// Reset rewinds the write offset to the beginning of the buffer.
func (e *Encoder) Reset() {
	e.n = 0
}

func (e *Encoder) fits(n int) bool {
	return n <= len(e.buff)-e.n
}

func (e *Encoder) append(b []byte) {
	e.n += copy(e.buff[e.n:], b)
}

func (e *Encoder) appendString(s string) {
	e.n += copy(e.buff[e.n:], s)
}

func (e *Encoder) appendByte(c byte) {
	e.buff[e.n] = c
	e.n++
}
