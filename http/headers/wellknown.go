package headers

import (
	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/proto"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// FramingKind tells how the end of a message body is determined.
type FramingKind uint8

const (
	// UntilClose means no length is known: the body extends until the transport signals
	// the end of stream.
	UntilClose FramingKind = iota
	// ContentLength means the exact length is declared in advance.
	ContentLength
	// Chunked means the body is split into length-prefixed chunks terminated by a zero-length one.
	Chunked
)

func (f FramingKind) String() string {
	switch f {
	case UntilClose:
		return "until-close"
	case ContentLength:
		return "content-length"
	case Chunked:
		return "chunked"
	default:
		return "unknown"
	}
}

// Framing describes the body framing of a message. Length is meaningful only for the
// ContentLength kind.
type Framing struct {
	Kind   FramingKind
	Length uint64
}

// Sized returns ContentLength framing of n bytes.
func Sized(n uint64) Framing {
	return Framing{Kind: ContentLength, Length: n}
}

// Streamed returns Chunked framing.
func Streamed() Framing {
	return Framing{Kind: Chunked}
}

// FramingOf derives the body framing from the fields. Transfer-Encoding having chunked as the
// final coding forces Chunked. Otherwise, Content-Length is used, and in its absence the body
// is delimited by the connection close. Duplicate Content-Length fields must agree on the value.
func FramingOf(h *Headers) (Framing, error) {
	var last []byte
	for value := range h.Values("transfer-encoding") {
		if token := lastToken(value); len(token) > 0 {
			last = token
		}
	}

	if strcomp.EqualFold(uf.B2S(last), "chunked") {
		return Streamed(), nil
	}

	var (
		length uint64
		seen   bool
	)

	for value := range h.Values("content-length") {
		for len(value) > 0 {
			var token []byte
			token, value = nextToken(value)

			n, err := parseUint(token)
			if err != nil {
				return Framing{}, err
			}

			if seen && n != length {
				return Framing{}, errors.ErrBadContentLength
			}

			length, seen = n, true
		}
	}

	if !seen {
		if h.Has("content-length") {
			return Framing{}, errors.ErrBadContentLength
		}

		return Framing{Kind: UntilClose}, nil
	}

	return Sized(length), nil
}

// WantsClose reports whether the message asks to close the connection after the exchange.
// HTTP/1.0 peers close unless keep-alive is explicitly requested.
func WantsClose(h *Headers, protocol proto.Protocol) bool {
	var keepAlive bool

	for value := range h.Values("connection") {
		if hasToken(value, "close") {
			return true
		}

		keepAlive = keepAlive || hasToken(value, "keep-alive")
	}

	return !protocol.KeepAliveByDefault() && !keepAlive
}

const maxUintDigits = 19

func parseUint(raw []byte) (n uint64, err error) {
	if len(raw) == 0 || len(raw) > maxUintDigits {
		return 0, errors.ErrBadContentLength
	}

	for _, char := range raw {
		if char < '0' || char > '9' {
			return 0, errors.ErrBadContentLength
		}

		n = n*10 + uint64(char-'0')
	}

	return n, nil
}
