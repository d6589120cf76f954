package headers

import (
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// nextToken cuts the first element of a comma-separated list, trimming optional whitespaces
// around it.
func nextToken(list []byte) (token, rest []byte) {
	for i := 0; i < len(list); i++ {
		if list[i] == ',' {
			return trimOWS(list[:i]), list[i+1:]
		}
	}

	return trimOWS(list), nil
}

// hasToken reports whether the comma-separated list contains the token case-insensitively.
func hasToken(list []byte, token string) bool {
	for len(list) > 0 {
		var t []byte
		t, list = nextToken(list)
		if strcomp.EqualFold(uf.B2S(t), token) {
			return true
		}
	}

	return false
}

// lastToken returns the last non-empty element of a comma-separated list.
func lastToken(list []byte) (last []byte) {
	for len(list) > 0 {
		var t []byte
		if t, list = nextToken(list); len(t) > 0 {
			last = t
		}
	}

	return last
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
