package http1

import (
	"bytes"
	"unicode/utf8"

	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/internal/buffer"
)

// tchar is a lookup table of characters allowed in tokens (RFC 9110, 5.6.2)
var tchar = func() (lut [256]bool) {
	for c := 'a'; c <= 'z'; c++ {
		lut[c] = true
	}

	for c := 'A'; c <= 'Z'; c++ {
		lut[c] = true
	}

	for c := '0'; c <= '9'; c++ {
		lut[c] = true
	}

	for _, c := range "!#$%&'*+-.^_`|~" {
		lut[c] = true
	}

	return lut
}()

// readLine accumulates data into the buffer until LF is met. Once the line is complete, it's
// returned without the line terminator (either CRLF or a bare LF), and the data following it
// is returned as rest. Otherwise, the whole data is consumed and complete is false.
func readLine(buff *buffer.Buffer, data []byte) (line, rest []byte, complete bool, err error) {
	lf := bytes.IndexByte(data, '\n')
	if lf == -1 {
		if !buff.Append(data) {
			return nil, nil, false, errors.ErrHeaderFieldsTooLong
		}

		return nil, nil, false, nil
	}

	if !buff.Append(data[:lf]) {
		return nil, nil, false, errors.ErrHeaderFieldsTooLong
	}

	if segment := buff.Preview(); len(segment) > 0 && segment[len(segment)-1] == '\r' {
		buff.Trunc(1)
	}

	return buff.Finish(), data[lf+1:], true, nil
}

// splitFieldLine splits a field line into its name and value (RFC 9112, 5). The name must be
// a non-empty token immediately followed by a colon, the value is stripped of optional
// whitespaces and must be a valid UTF-8 text without control characters.
func splitFieldLine(line []byte) (name, value []byte, err error) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return nil, nil, errors.ErrBadHeader
	}

	name = line[:colon]
	for _, c := range name {
		if !tchar[c] {
			return nil, nil, errors.ErrBadHeader
		}
	}

	value = trimOWS(line[colon+1:])
	if !isText(value) {
		return nil, nil, errors.ErrBadEncoding
	}

	return name, value, nil
}

// isText reports whether the data is a valid UTF-8 string, containing no control characters
// except horizontal tabs.
func isText(b []byte) bool {
	for _, c := range b {
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return false
		}
	}

	return utf8.Valid(b)
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}

	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}

	return b
}
