package errors

import (
	"errors"
	"io"
)

// Kind classifies every failure the engine may report. The set is closed.
type Kind uint8

const (
	Unknown Kind = iota
	// DNS means the name resolution failed before the connection was established.
	DNS
	// Network is an I/O failure reported by the transport. The transport's own error
	// is preserved and reachable via errors.Unwrap.
	Network
	// Codec is malformed wire data: bad status line, header line, chunk-size line,
	// content length or text encoding.
	Codec
	// InvalidURL is a malformed request target.
	InvalidURL
	// TLS is a handshake or record failure of the optional TLS layer.
	TLS
	// BufferTooSmall means a caller-supplied buffer can't hold the data being written or parsed.
	BufferTooSmall
	// AlreadySent means a request or a connection was reused after transmission.
	AlreadySent
	// IncorrectBodyWritten means the declared request body length was violated.
	IncorrectBodyWritten
	// ConnectionClosed means the peer closed before the contracted amount of data arrived.
	ConnectionClosed
)

var kindMessages = [...]string{
	Unknown:              "unknown error",
	DNS:                  "name resolution failed",
	Network:              "network failure",
	Codec:                "malformed wire data",
	InvalidURL:           "invalid url",
	TLS:                  "tls failure",
	BufferTooSmall:       "buffer too small",
	AlreadySent:          "request already sent",
	IncorrectBodyWritten: "incorrect number of body bytes written",
	ConnectionClosed:     "connection closed",
}

var kindNames = [...]string{
	Unknown:              "Unknown",
	DNS:                  "DNS",
	Network:              "Network",
	Codec:                "Codec",
	InvalidURL:           "InvalidURL",
	TLS:                  "TLS",
	BufferTooSmall:       "BufferTooSmall",
	AlreadySent:          "AlreadySent",
	IncorrectBodyWritten: "IncorrectBodyWritten",
	ConnectionClosed:     "ConnectionClosed",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}

	return kindNames[k]
}

// Error is the only error type returned by the engine. Sentinels carry no Err; errors coming
// from the transport or the TLS layer are wrapped into Err.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func NewError(kind Kind, message string) error {
	return Error{
		Kind:    kind,
		Message: message,
	}
}

func (e Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message. Additionally, every error matches the
// generic sentinel of its kind, so errors.Is(ErrBadChunk, ErrCodec) holds.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || t.Kind != e.Kind {
		return false
	}

	return t.Message == e.Message || t.Message == kindMessages[t.Kind]
}

var (
	ErrDNS                  = NewError(DNS, kindMessages[DNS])
	ErrNetwork              = NewError(Network, kindMessages[Network])
	ErrCodec                = NewError(Codec, kindMessages[Codec])
	ErrInvalidURL           = NewError(InvalidURL, kindMessages[InvalidURL])
	ErrTLS                  = NewError(TLS, kindMessages[TLS])
	ErrBufferTooSmall       = NewError(BufferTooSmall, kindMessages[BufferTooSmall])
	ErrAlreadySent          = NewError(AlreadySent, kindMessages[AlreadySent])
	ErrIncorrectBodyWritten = NewError(IncorrectBodyWritten, kindMessages[IncorrectBodyWritten])
	ErrConnectionClosed     = NewError(ConnectionClosed, kindMessages[ConnectionClosed])

	ErrUnsupportedProtocol = NewError(Codec, "protocol is not supported")
	ErrUnknownMethod       = NewError(Codec, "request method is not supported")
	ErrBadStatusLine       = NewError(Codec, "malformed status line")
	ErrBadStatusCode       = NewError(Codec, "malformed status code")
	ErrBadHeader           = NewError(Codec, "malformed header line")
	ErrBadEncoding         = NewError(Codec, "invalid text encoding")
	ErrBadContentLength    = NewError(Codec, "malformed content length")
	ErrBadChunk            = NewError(Codec, "malformed chunk-encoded data")

	ErrTooManyHeaders      = NewError(BufferTooSmall, "too many headers")
	ErrHeaderFieldsTooLong = NewError(BufferTooSmall, "header section is too long")
	ErrBodyTooLarge        = NewError(BufferTooSmall, "body exceeds the limit")

	ErrBodyNotDeclared = NewError(IncorrectBodyWritten, "request declares no body")
	ErrBodyTooLong     = NewError(IncorrectBodyWritten, "more body bytes than declared")
	ErrBodyTooShort    = NewError(IncorrectBodyWritten, "fewer body bytes than declared")
	ErrBodyNotFinished = NewError(IncorrectBodyWritten, "request body is not finished")

	ErrOutOfOrder = NewError(AlreadySent, "call is out of the exchange order")
)

// Wrap attaches the underlying error to the generic sentinel of the kind.
func Wrap(kind Kind, err error) error {
	return Error{
		Kind:    kind,
		Message: kindMessages[kind],
		Err:     err,
	}
}

// FromTransport classifies an error returned by the transport. End-of-stream and zero-progress
// writes are reported as ConnectionClosed, everything else as Network. Errors already produced
// by the engine pass through untouched.
func FromTransport(err error) error {
	switch {
	case err == nil:
		return nil
	case KindOf(err) != Unknown:
		return err
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrShortWrite):
		return ErrConnectionClosed
	default:
		return Wrap(Network, err)
	}
}

// KindOf returns the kind of the error, or Unknown if it wasn't produced by the engine.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}

// Is is errors.Is from the standard library, re-exported to spare the importers from aliasing.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As from the standard library, re-exported to spare the importers from aliasing.
func As(err error, target any) bool {
	return errors.As(err, target)
}
