package http1

import (
	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/http/method"
	"github.com/indigo-web/nanohttp/http/proto"
	"github.com/indigo-web/nanohttp/http/status"
	"github.com/indigo-web/nanohttp/internal/buffer"
)

// Head is the decoded status line. The Reason references the parser's buffer and therefore
// stays valid until the parser is reset.
type Head struct {
	Protocol proto.Protocol
	Code     status.Code
	Reason   []byte
}

// Parser is a resumable response head decoder. It may be fed the data in pieces of any size,
// down to a single byte. Everything, that must outlive the fed data (status line and field
// lines), is copied into the caller-provided memory, so the parser never allocates.
type Parser struct {
	state   parserState
	buff    buffer.Buffer
	headers *headers.Headers
	head    Head
}

// NewParser returns a parser storing the response head in the buff and header fields into
// the hdrs. The capacities of both determine the limits of the response head.
func NewParser(buff []byte, hdrs *headers.Headers) *Parser {
	return &Parser{
		state:   eStatusLine,
		buff:    buffer.New(buff),
		headers: hdrs,
	}
}

// Parse consumes the data, returning done once the blank line terminating the header
// section is met. The data past it is returned as rest untouched. Errors are fatal: the
// parser must be reset before being used again.
func (p *Parser) Parse(data []byte) (done bool, rest []byte, err error) {
	switch p.state {
	case eStatusLine:
		goto statusLine
	case eHeaderLine:
		goto headerLine
	case eDone:
		return true, data, nil
	default:
		panic("BUG: response parser: unknown state")
	}

statusLine:
	{
		line, rest, complete, err := readLine(&p.buff, data)
		if !complete || err != nil {
			return false, nil, err
		}

		if p.head, err = parseStatusLine(line); err != nil {
			return false, nil, err
		}

		data = rest
		p.state = eHeaderLine
		goto headerLine
	}

headerLine:
	{
		line, rest, complete, err := readLine(&p.buff, data)
		if !complete || err != nil {
			return false, nil, err
		}

		if len(line) == 0 {
			p.state = eDone
			return true, rest, nil
		}

		name, value, err := splitFieldLine(line)
		if err != nil {
			return false, nil, err
		}

		if err = p.headers.Add(name, value); err != nil {
			return false, nil, err
		}

		data = rest
		goto headerLine
	}
}

// Head returns the decoded status line. Meaningful only after Parse reported done.
func (p *Parser) Head() Head {
	return p.head
}

// Headers returns the store the header fields are being decoded into.
func (p *Parser) Headers() *headers.Headers {
	return p.headers
}

// Framing determines how the body of the decoded response is delimited. Responses to HEAD
// requests, as well as 1xx, 204 and 304 responses, carry no body regardless of the fields.
func (p *Parser) Framing(request method.Method) (headers.Framing, error) {
	if request == method.HEAD || p.head.Code.Bodiless() {
		return headers.Sized(0), nil
	}

	return headers.FramingOf(p.headers)
}

// WantsClose reports whether the connection must be closed after the body is consumed.
func (p *Parser) WantsClose() bool {
	return headers.WantsClose(p.headers, p.head.Protocol)
}

// Reset prepares the parser for the next response. All the previously returned values
// referencing the buffer become invalid.
func (p *Parser) Reset() {
	p.state = eStatusLine
	p.buff.Clear()
	p.headers.Clear()
	p.head = Head{}
}

const (
	protocolLength = len("HTTP/1.1")
	codeLength     = len("200")
)

// parseStatusLine parses the status-line = HTTP-version SP status-code SP [ reason-phrase ].
// A missing separator after the code is tolerated when the reason is absent.
func parseStatusLine(line []byte) (head Head, err error) {
	if len(line) < protocolLength+1+codeLength || line[protocolLength] != ' ' {
		return head, errors.ErrBadStatusLine
	}

	head.Protocol = proto.FromBytes(line[:protocolLength])
	if head.Protocol == proto.Unknown {
		return head, errors.ErrUnsupportedProtocol
	}

	line = line[protocolLength+1:]

	for _, c := range line[:codeLength] {
		if c < '0' || c > '9' {
			return head, errors.ErrBadStatusCode
		}

		head.Code = head.Code*10 + status.Code(c-'0')
	}

	if !head.Code.IsValid() {
		return head, errors.ErrBadStatusCode
	}

	line = line[codeLength:]
	if len(line) == 0 {
		return head, nil
	}

	if line[0] != ' ' {
		return head, errors.ErrBadStatusCode
	}

	head.Reason = line[1:]
	if !isText(head.Reason) {
		return head, errors.ErrBadEncoding
	}

	return head, nil
}
