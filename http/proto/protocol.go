package proto

import "github.com/indigo-web/utils/uf"

type Protocol uint8

const (
	Unknown Protocol = 0
	HTTP10  Protocol = 1 << iota
	HTTP11

	HTTP1 = HTTP10 | HTTP11
)

func (p Protocol) String() string {
	lut := [...]string{HTTP10: "HTTP/1.0", HTTP11: "HTTP/1.1"}
	if int(p) >= len(lut) {
		return ""
	}

	return lut[p]
}

// KeepAliveByDefault reports whether a connection stays open unless explicitly asked to close.
func (p Protocol) KeepAliveByDefault() bool {
	return p == HTTP11
}

var majorMinorVersionLUT = [10][10]Protocol{
	1: {0: HTTP10, 1: HTTP11},
}

func FromBytes(raw []byte) Protocol {
	const (
		protoTokenLength   = len("HTTP/x.x")
		majorVersionOffset = len("HTTP/x") - 1
		minorVersionOffset = len("HTTP/x.x") - 1
		httpScheme         = "HTTP/"
	)

	if len(raw) != protoTokenLength || uf.B2S(raw[:majorVersionOffset]) != httpScheme ||
		raw[majorVersionOffset+1] != '.' {
		return Unknown
	}

	return Parse(raw[majorVersionOffset]-'0', raw[minorVersionOffset]-'0')
}

func Parse(major, minor uint8) Protocol {
	if major > 9 || minor > 9 {
		return Unknown
	}

	return majorMinorVersionLUT[major][minor]
}
