package client

import (
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/http/method"
	"github.com/indigo-web/nanohttp/http/proto"
)

// BodyKind declares how the request body is framed on the wire.
type BodyKind uint8

const (
	// NoBody means the request carries no content and no framing headers are sent.
	NoBody BodyKind = iota
	// ContentLength means exactly the declared number of bytes must be written.
	ContentLength
	// Chunked means the body is streamed in chunks of arbitrary sizes.
	Chunked
)

// Request describes a single request. Neither the path nor the headers are copied, so they
// must stay intact until the request is sent. A request can be sent only once.
type Request struct {
	Method method.Method
	// Path is the request target, including the query. It's written as is, therefore must be
	// already percent-encoded.
	Path     string
	Protocol proto.Protocol
	Headers  *headers.Headers
	// Body, if set, is sent right after the headers with Content-Length framing.
	Body []byte
	// BodyKind together with BodyLength declare a body streamed via Conn.Write after Send.
	// Ignored if Body is set.
	BodyKind   BodyKind
	BodyLength uint64
	sent       bool
}

// NewRequest returns an HTTP/1.1 request with the headers store. The store must contain the
// Host field, as it isn't added automatically.
func NewRequest(m method.Method, path string, hdrs *headers.Headers) *Request {
	return &Request{
		Method:   m,
		Path:     path,
		Protocol: proto.HTTP11,
		Headers:  hdrs,
	}
}

// WithBody sets the body to be sent along with the request.
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	r.BodyKind = ContentLength
	r.BodyLength = uint64(len(body))
	return r
}

// WithContentLength declares a body of exactly n bytes, streamed after the request is sent.
func (r *Request) WithContentLength(n uint64) *Request {
	r.Body = nil
	r.BodyKind = ContentLength
	r.BodyLength = n
	return r
}

// WithChunked declares a chunked body, streamed after the request is sent.
func (r *Request) WithChunked() *Request {
	r.Body = nil
	r.BodyKind = Chunked
	r.BodyLength = 0
	return r
}

// WithProtocol overrides the protocol version.
func (r *Request) WithProtocol(p proto.Protocol) *Request {
	r.Protocol = p
	return r
}

// Sent reports whether the request was already transmitted.
func (r *Request) Sent() bool {
	return r.sent
}

// streamed reports whether the body is written by the caller after Send.
func (r *Request) streamed() bool {
	return r.Body == nil && r.BodyKind != NoBody
}
