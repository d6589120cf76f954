package http1

import (
	"strings"
	"testing"

	"github.com/indigo-web/nanohttp/config"
	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/headers"
	"github.com/indigo-web/nanohttp/http/method"
	"github.com/indigo-web/nanohttp/http/proto"
	"github.com/indigo-web/nanohttp/http/status"
	"github.com/stretchr/testify/require"
)

func getParser(space, number int) *Parser {
	return NewParser(make([]byte, space), headers.New(make([]headers.Pair, number)))
}

func getDefaultParser() *Parser {
	cfg := config.Default().Headers

	return getParser(cfg.Space.Maximal, cfg.Number.Maximal)
}

// scatter splits the data into pieces of the step size. The last piece may be shorter.
func scatter(data []byte, step int) (pieces [][]byte) {
	for len(data) > 0 {
		n := min(step, len(data))
		pieces = append(pieces, data[:n])
		data = data[n:]
	}

	return pieces
}

func collectHeaders(h *headers.Headers) (pairs []string) {
	for name, value := range h.Iter() {
		pairs = append(pairs, string(name)+": "+string(value))
	}

	return pairs
}

// feedHead feeds the pieces one by one, ensuring the parser doesn't report completion
// prematurely.
func feedHead(t *testing.T, p *Parser, pieces [][]byte) (rest []byte, err error) {
	for i, piece := range pieces {
		done, rest, err := p.Parse(piece)
		if err != nil {
			return nil, err
		}

		if done {
			require.Equal(t, len(pieces)-1, i, "completed before the last piece")
			return rest, nil
		}
	}

	t.Fatal("the response head was never completed")
	return nil, nil
}

func TestResponseParser(t *testing.T) {
	t.Run("status only", func(t *testing.T) {
		p := getDefaultParser()
		done, rest, err := p.Parse([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, rest)

		head := p.Head()
		require.Equal(t, proto.HTTP11, head.Protocol)
		require.Equal(t, status.OK, head.Code)
		require.Equal(t, "OK", string(head.Reason))
		require.True(t, p.Headers().Empty())
	})

	t.Run("with headers and body", func(t *testing.T) {
		p := getDefaultParser()
		done, rest, err := p.Parse([]byte(
			"HTTP/1.1 200 OK\r\nContent-Length: 5\r\nServer:  nano \t\r\n\r\nhello",
		))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "hello", string(rest))
		require.Equal(t, []string{"Content-Length: 5", "Server: nano"}, collectHeaders(p.Headers()))

		framing, err := p.Framing(method.GET)
		require.NoError(t, err)
		require.Equal(t, headers.Sized(5), framing)
		require.False(t, p.WantsClose())
	})

	t.Run("every split offset", func(t *testing.T) {
		sample := []byte(
			"HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\nX-Trace: abc\r\n" +
				"x-trace: def\r\nTransfer-Encoding: gzip, chunked\r\n\r\n",
		)

		for i := range len(sample) - 1 {
			p := getDefaultParser()
			_, err := feedHead(t, p, [][]byte{sample[:i+1], sample[i+1:]})
			require.NoError(t, err)
			require.Equal(t, status.NotFound, p.Head().Code)
			require.Equal(t, "Not Found", string(p.Head().Reason))
			require.Equal(t, "abc", p.Headers().Value("x-trace"))
			require.Equal(t, "def", lastValue(p.Headers(), "X-TRACE"))
			require.Equal(t, 4, p.Headers().Len())
		}
	})

	t.Run("byte by byte", func(t *testing.T) {
		sample := []byte("HTTP/1.0 204 No Content\nConnection: keep-alive\n\n")
		p := getDefaultParser()
		rest, err := feedHead(t, p, scatter(sample, 1))
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, proto.HTTP10, p.Head().Protocol)
		require.False(t, p.WantsClose())

		framing, err := p.Framing(method.GET)
		require.NoError(t, err)
		require.Equal(t, headers.Sized(0), framing)
	})

	t.Run("missing reason", func(t *testing.T) {
		for _, line := range []string{"HTTP/1.1 200\r\n\r\n", "HTTP/1.1 200 \r\n\r\n"} {
			p := getDefaultParser()
			done, _, err := p.Parse([]byte(line))
			require.NoError(t, err)
			require.True(t, done)
			require.Equal(t, status.OK, p.Head().Code)
			require.Empty(t, p.Head().Reason)
		}
	})

	t.Run("reusability", func(t *testing.T) {
		p := getDefaultParser()

		for range 10 {
			done, _, err := p.Parse([]byte("HTTP/1.1 200 OK\r\nHello: world\r\n\r\n"))
			require.NoError(t, err)
			require.True(t, done)
			require.Equal(t, "world", p.Headers().Value("hello"))
			p.Reset()
			require.True(t, p.Headers().Empty())
		}
	})

	t.Run("HEAD response", func(t *testing.T) {
		p := getDefaultParser()
		_, _, err := p.Parse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 1024\r\n\r\n"))
		require.NoError(t, err)

		framing, err := p.Framing(method.HEAD)
		require.NoError(t, err)
		require.Equal(t, headers.Sized(0), framing)
	})

	t.Run("HTTP/1.0 closes by default", func(t *testing.T) {
		p := getDefaultParser()
		_, _, err := p.Parse([]byte("HTTP/1.0 200 OK\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, p.WantsClose())

		framing, err := p.Framing(method.GET)
		require.NoError(t, err)
		require.Equal(t, headers.UntilClose, framing.Kind)
	})
}

func lastValue(h *headers.Headers, name string) (last string) {
	for value := range h.Values(name) {
		last = string(value)
	}

	return last
}

func TestResponseParserErrors(t *testing.T) {
	for _, tc := range []struct {
		Name   string
		Sample string
		Err    error
	}{
		{"unsupported protocol", "HTTP/2.0 200 OK\r\n\r\n", errors.ErrUnsupportedProtocol},
		{"garbage protocol", "HTTPS/1.1 200 OK\r\n\r\n", errors.ErrBadStatusLine},
		{"short status line", "HTTP/1.1 20\r\n\r\n", errors.ErrBadStatusLine},
		{"4-digit code", "HTTP/1.1 2000 OK\r\n\r\n", errors.ErrBadStatusCode},
		{"non-digit code", "HTTP/1.1 2x0 OK\r\n\r\n", errors.ErrBadStatusCode},
		{"code out of range", "HTTP/1.1 600 Nope\r\n\r\n", errors.ErrBadStatusCode},
		{"control character in reason", "HTTP/1.1 200 O\x01K\r\n\r\n", errors.ErrBadEncoding},
		{"invalid utf-8 in reason", "HTTP/1.1 200 \xff\xfe\r\n\r\n", errors.ErrBadEncoding},
		{"missing colon", "HTTP/1.1 200 OK\r\nHello world\r\n\r\n", errors.ErrBadHeader},
		{"empty name", "HTTP/1.1 200 OK\r\n: world\r\n\r\n", errors.ErrBadHeader},
		{"space before colon", "HTTP/1.1 200 OK\r\nHello : world\r\n\r\n", errors.ErrBadHeader},
		{"obsolete line folding", "HTTP/1.1 200 OK\r\nA: b\r\n  c\r\n\r\n", errors.ErrBadHeader},
		{"stray CR in value", "HTTP/1.1 200 OK\r\nA: b\rc\r\n\r\n", errors.ErrBadEncoding},
		{"invalid utf-8 in value", "HTTP/1.1 200 OK\r\nA: \xc3\x28\r\n\r\n", errors.ErrBadEncoding},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			p := getDefaultParser()
			_, _, err := p.Parse([]byte(tc.Sample))
			require.ErrorIs(t, err, tc.Err)
			require.ErrorIs(t, err, errors.ErrCodec)
		})
	}

	t.Run("utf-8 in value", func(t *testing.T) {
		p := getDefaultParser()
		done, _, err := p.Parse([]byte("HTTP/1.1 200 OK\r\nGreeting: Привіт\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "Привіт", p.Headers().Value("greeting"))
	})
}

func TestResponseParserLimits(t *testing.T) {
	t.Run("too many headers", func(t *testing.T) {
		p := getParser(4096, 2)
		_, _, err := p.Parse([]byte("HTTP/1.1 200 OK\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"))
		require.ErrorIs(t, err, errors.ErrTooManyHeaders)
		require.ErrorIs(t, err, errors.ErrBufferTooSmall)
	})

	t.Run("exactly enough headers", func(t *testing.T) {
		p := getParser(4096, 2)
		done, _, err := p.Parse([]byte("HTTP/1.1 200 OK\r\nA: 1\r\nB: 2\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
	})

	t.Run("header section too long", func(t *testing.T) {
		p := getParser(64, 32)
		value := strings.Repeat("a", 64)
		_, _, err := p.Parse([]byte("HTTP/1.1 200 OK\r\nA: " + value + "\r\n\r\n"))
		require.ErrorIs(t, err, errors.ErrHeaderFieldsTooLong)
		require.ErrorIs(t, err, errors.ErrBufferTooSmall)
	})

	t.Run("header section too long streamingly", func(t *testing.T) {
		p := getParser(64, 32)
		value := strings.Repeat("a", 64)
		_, err := feedHead(t, p, scatter([]byte("HTTP/1.1 200 OK\r\nA: "+value+"\r\n\r\n"), 3))
		require.ErrorIs(t, err, errors.ErrHeaderFieldsTooLong)
	})
}
