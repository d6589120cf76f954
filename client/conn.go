package client

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/indigo-web/nanohttp/client/internal/parser/http1"
	render "github.com/indigo-web/nanohttp/client/internal/render/http1"
	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/http/method"
	"github.com/indigo-web/nanohttp/http/status"
	"github.com/indigo-web/nanohttp/transport"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Option configures the connection.
type Option func(*Conn)

// WithLogger enables logging of the connection lifecycle. By default, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithBodyLimit limits the size of response bodies. Exceeding it results in a BufferTooSmall
// error. 0 disables the limit.
func WithBodyLimit(n uint64) Option {
	return func(c *Conn) {
		c.bodyLimit = n
	}
}

// Conn is a single HTTP/1.1 connection, performing one exchange at a time. It owns the
// transport: any failure closes it, and the connection becomes unusable. Conn isn't safe
// for concurrent use.
type Conn struct {
	state     State
	client    transport.Client
	encoder   *render.Encoder
	parser    *http1.Parser
	body      *http1.Body
	response  Response
	respBody  Body
	method    method.Method
	closing   bool
	bodyKind  BodyKind
	bodyLeft  uint64
	bodyLimit uint64
	logger    *slog.Logger
	scratch   [20]byte
}

// NewConn returns an Idle connection over the client. The buffers are used exclusively by
// the connection for its whole life.
func NewConn(client transport.Client, buffers Buffers, opts ...Option) *Conn {
	c := &Conn{
		state:   Idle,
		client:  client,
		encoder: render.NewEncoder(buffers.Request),
		parser:  http1.NewParser(buffers.Headers, headers.New(buffers.HeaderPairs)),
	}

	for _, opt := range opts {
		opt(c)
	}

	trailers := headers.New(buffers.TrailerPairs)
	c.body = http1.NewBody(client, buffers.Trailers, trailers, c.bodyLimit)
	c.respBody = Body{
		conn:     c,
		trailers: trailers,
	}

	return c
}

// State returns the current lifecycle stage.
func (c *Conn) State() State {
	return c.state
}

func (c *Conn) String() string {
	return "nanohttp.Conn(" + c.state.String() + ")"
}

// Send serializes and transmits the request. If the request declares a streamed body, the
// connection moves to BodyWriting, otherwise to RequestSent.
//
// Sending a request twice, or sending while the previous exchange is in progress, fails with
// AlreadySent and produces no wire traffic.
func (c *Conn) Send(req *Request) error {
	if req.sent {
		return errors.ErrAlreadySent
	}

	switch c.state {
	case Idle:
	case Complete:
		c.transit(Idle)
	case Closed:
		return errors.ErrConnectionClosed
	default:
		return errors.ErrAlreadySent
	}

	if err := c.encodeHead(req); err != nil {
		return c.fail(err)
	}

	if err := c.client.Write(c.encoder.Bytes()); err != nil {
		return c.fail(errors.FromTransport(err))
	}

	req.sent = true
	c.method = req.Method
	c.closing = !req.Protocol.KeepAliveByDefault()
	if req.Headers != nil {
		c.closing = headers.WantsClose(req.Headers, req.Protocol)
	}

	if len(req.Body) > 0 {
		if err := c.client.Write(req.Body); err != nil {
			return c.fail(errors.FromTransport(err))
		}
	}

	c.bodyKind, c.bodyLeft = req.BodyKind, req.BodyLength
	if req.Body != nil {
		c.bodyLeft = 0
	}

	if req.streamed() && !c.bodyWritten() {
		c.transit(BodyWriting)
		return nil
	}

	c.transit(RequestSent)
	return nil
}

// bodyWritten reports whether a Content-Length body has no bytes left to write.
func (c *Conn) bodyWritten() bool {
	return c.bodyKind == ContentLength && c.bodyLeft == 0
}

func (c *Conn) encodeHead(req *Request) error {
	c.encoder.Reset()

	if _, err := c.encoder.RequestLine(req.Method, req.Path, req.Protocol); err != nil {
		return err
	}

	if req.Headers != nil {
		for name, value := range req.Headers.Iter() {
			if isFraming(name) {
				// framing is derived from the request body only
				continue
			}

			if _, err := c.encoder.Header(name, value); err != nil {
				return err
			}
		}
	}

	switch {
	case req.Body != nil || req.BodyKind == ContentLength:
		length := strconv.AppendUint(c.scratch[:0], req.BodyLength, 10)
		if req.Body != nil {
			length = strconv.AppendUint(c.scratch[:0], uint64(len(req.Body)), 10)
		}

		if _, err := c.encoder.Header(contentLength, length); err != nil {
			return err
		}
	case req.BodyKind == Chunked:
		if _, err := c.encoder.Header(transferEncoding, chunked); err != nil {
			return err
		}
	}

	_, err := c.encoder.HeadersEnd()
	return err
}

func isFraming(name []byte) bool {
	return strcomp.EqualFold(uf.B2S(name), "content-length") ||
		strcomp.EqualFold(uf.B2S(name), "transfer-encoding")
}

var (
	contentLength    = []byte("Content-Length")
	transferEncoding = []byte("Transfer-Encoding")
	chunked          = []byte("chunked")
)

// Write streams a piece of the declared request body. For Content-Length framing, writing
// more than declared fails with IncorrectBodyWritten, and writing the last declared byte
// finishes the body. For chunked framing, every non-empty piece is sent as a single chunk.
//
// Writing with no body being streamed fails with IncorrectBodyWritten, leaving the connection
// intact.
func (c *Conn) Write(p []byte) (n int, err error) {
	switch c.state {
	case BodyWriting:
	case Closed:
		return 0, errors.ErrConnectionClosed
	default:
		return 0, errors.ErrBodyNotDeclared
	}

	if len(p) == 0 {
		return 0, nil
	}

	if c.bodyKind == ContentLength {
		if uint64(len(p)) > c.bodyLeft {
			return 0, c.fail(errors.ErrBodyTooLong)
		}

		if err = c.client.Write(p); err != nil {
			return 0, c.fail(errors.FromTransport(err))
		}

		c.bodyLeft -= uint64(len(p))
		if c.bodyLeft == 0 {
			c.transit(RequestSent)
		}

		return len(p), nil
	}

	if err = c.writeChunk(p); err != nil {
		return 0, c.fail(err)
	}

	return len(p), nil
}

func (c *Conn) writeChunk(p []byte) error {
	c.encoder.Reset()

	if render.ChunkOverhead(len(p))+len(p) <= c.encoder.Available() {
		if _, err := c.encoder.Chunk(p); err != nil {
			return err
		}

		return errors.FromTransport(c.client.Write(c.encoder.Bytes()))
	}

	// the chunk doesn't fit, so only its framing goes through the encoder.
	if _, err := c.encoder.ChunkHeader(len(p)); err != nil {
		return err
	}

	for _, piece := range [...][]byte{c.encoder.Bytes(), p, render.CRLF} {
		if err := c.client.Write(piece); err != nil {
			return errors.FromTransport(err)
		}
	}

	return nil
}

// CloseBody completes the streamed request body. For Content-Length framing, fails with
// IncorrectBodyWritten if fewer bytes than declared were written, and does nothing if the body
// is already complete. For chunked framing, the terminating chunk is sent.
func (c *Conn) CloseBody() error {
	switch c.state {
	case BodyWriting:
	case RequestSent:
		if c.bodyWritten() {
			return nil
		}

		return errors.ErrBodyNotDeclared
	case Closed:
		return errors.ErrConnectionClosed
	default:
		return errors.ErrBodyNotDeclared
	}

	if c.bodyKind == ContentLength {
		if c.bodyLeft > 0 {
			return c.fail(errors.ErrBodyTooShort)
		}

		c.transit(RequestSent)
		return nil
	}

	c.encoder.Reset()
	if _, err := c.encoder.Chunk(nil); err != nil {
		return c.fail(err)
	}

	if err := c.client.Write(c.encoder.Bytes()); err != nil {
		return c.fail(errors.FromTransport(err))
	}

	c.transit(RequestSent)
	return nil
}

// ReadResponse reads the response head. Interim 1xx responses (except 101) are skipped. The
// returned response is owned by the connection and stays valid until the next exchange.
// Responses carrying no body complete the exchange right away.
func (c *Conn) ReadResponse() (*Response, error) {
	switch c.state {
	case RequestSent:
	case Closed:
		return nil, errors.ErrConnectionClosed
	case BodyWriting:
		return nil, c.fail(errors.ErrBodyNotFinished)
	default:
		return nil, errors.ErrOutOfOrder
	}

	c.transit(HeadersPending)
	c.parser.Reset()

	for {
		data, err := c.client.Read()
		if err != nil {
			return nil, c.fail(errors.FromTransport(err))
		}

		done, rest, err := c.parser.Parse(data)
		if err != nil {
			return nil, c.fail(err)
		}

		if !done {
			continue
		}

		c.client.Pushback(rest)

		head := c.parser.Head()
		if head.Code.IsInformational() && head.Code != status.SwitchingProtocols {
			c.debug("skipping interim response", slog.Int("code", int(head.Code)))
			c.parser.Reset()
			continue
		}

		framing, err := c.parser.Framing(c.method)
		if err != nil {
			return nil, c.fail(err)
		}

		// the protocol after 101 isn't HTTP anymore
		c.closing = c.closing || c.parser.WantsClose() || head.Code == status.SwitchingProtocols
		c.body.Reset(framing)
		c.respBody.reset()
		c.response = Response{
			Protocol: head.Protocol,
			Code:     head.Code,
			Reason:   head.Reason,
			Headers:  c.parser.Headers(),
			Framing:  framing,
			Body:     &c.respBody,
		}

		c.transit(BodyPending)
		if c.body.Done() {
			c.complete()
		}

		return &c.response, nil
	}
}

func (c *Conn) fetch() ([]byte, error) {
	if c.state != BodyPending {
		if c.body.Done() {
			return nil, io.EOF
		}

		return nil, errors.ErrConnectionClosed
	}

	piece, err := c.body.Fetch()
	switch err {
	case nil:
		return piece, nil
	case io.EOF:
		c.complete()
		return piece, io.EOF
	default:
		return nil, c.fail(err)
	}
}

// complete finishes the exchange. The connection stays for reuse only if the body was
// delimited and neither side asked to close.
func (c *Conn) complete() {
	c.transit(Complete)

	if c.closing || c.body.Framing().Kind == headers.UntilClose {
		_ = c.closeTransport()
	}
}

// Close closes the transport. It's safe to call it multiple times.
func (c *Conn) Close() error {
	if c.state == Closed {
		return nil
	}

	return c.closeTransport()
}

func (c *Conn) closeTransport() error {
	c.transit(Closed)

	if err := c.client.Close(); err != nil {
		return errors.FromTransport(err)
	}

	return nil
}

func (c *Conn) fail(err error) error {
	if c.logger != nil {
		c.logger.Warn("closing connection", slog.String("state", c.state.String()), slog.Any("error", err))
	}

	_ = c.closeTransport()
	return err
}

func (c *Conn) transit(to State) {
	c.debug("state transition", slog.String("from", c.state.String()), slog.String("to", to.String()))
	c.state = to
}

func (c *Conn) debug(msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
