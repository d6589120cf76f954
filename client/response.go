package client

import (
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/http/proto"
	"github.com/indigo-web/nanohttp/http/status"
)

// Response is owned by the connection and is overridden by the next exchange. The Reason and
// the Headers reference the connection's header buffer.
type Response struct {
	Protocol proto.Protocol
	Code     status.Code
	Reason   []byte
	Headers  *headers.Headers
	Framing  headers.Framing
	Body     *Body
}

// ContentLength returns the declared body length, if the body is framed by it.
func (r *Response) ContentLength() (n uint64, ok bool) {
	if r.Framing.Kind != headers.ContentLength {
		return 0, false
	}

	return r.Framing.Length, true
}

// Chunked reports whether the body is chunk-encoded.
func (r *Response) Chunked() bool {
	return r.Framing.Kind == headers.Chunked
}
