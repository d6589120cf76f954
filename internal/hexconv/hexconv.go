package hexconv

// Halfbyte maps an ASCII character into its hexadecimal value. Non-hex characters are mapped
// into 0xFF.
var Halfbyte = [256]byte{}

func init() {
	for i := range Halfbyte {
		Halfbyte[i] = 0xFF
	}

	for c := '0'; c <= '9'; c++ {
		Halfbyte[c] = byte(c - '0')
	}

	for c := 'a'; c <= 'f'; c++ {
		Halfbyte[c] = byte(c-'a') + 10
	}

	for c := 'A'; c <= 'F'; c++ {
		Halfbyte[c] = byte(c-'A') + 10
	}
}

const digits = "0123456789abcdef"

// Len returns the number of hexadecimal digits n takes.
func Len(n uint64) (l int) {
	for l = 1; n > 0xf; n >>= 4 {
		l++
	}

	return l
}

// Put writes n in hexadecimal into dst, which must be exactly Len(n) bytes long.
func Put(dst []byte, n uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = digits[n&0xf]
		n >>= 4
	}
}
