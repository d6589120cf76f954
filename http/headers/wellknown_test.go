package headers

import (
	"testing"

	"github.com/indigo-web/nanohttp/errors"
	"github.com/indigo-web/nanohttp/http/proto"
	"github.com/stretchr/testify/require"
)

func TestFramingOf(t *testing.T) {
	t.Run("no headers", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 1))
		require.NoError(t, err)
		require.Equal(t, UntilClose, framing.Kind)
	})

	t.Run("content length", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 1, "Content-Length", "1024"))
		require.NoError(t, err)
		require.Equal(t, Sized(1024), framing)
	})

	t.Run("zero content length", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 1, "content-length", "0"))
		require.NoError(t, err)
		require.Equal(t, Sized(0), framing)
	})

	t.Run("agreeing duplicates", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 2, "Content-Length", "5, 5", "Content-Length", "5"))
		require.NoError(t, err)
		require.Equal(t, Sized(5), framing)
	})

	t.Run("conflicting duplicates", func(t *testing.T) {
		_, err := FramingOf(fill(t, 2, "Content-Length", "5", "Content-Length", "6"))
		require.ErrorIs(t, err, errors.ErrBadContentLength)
	})

	t.Run("malformed content length", func(t *testing.T) {
		for _, value := range []string{"", "-1", "0x10", "12a", "99999999999999999999"} {
			_, err := FramingOf(fill(t, 1, "Content-Length", value))
			require.ErrorIs(t, err, errors.ErrCodec, value)
		}
	})

	t.Run("chunked", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 1, "Transfer-Encoding", "Chunked"))
		require.NoError(t, err)
		require.Equal(t, Chunked, framing.Kind)
	})

	t.Run("chunked overrides content length", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 2, "Content-Length", "10", "transfer-encoding", "gzip, chunked"))
		require.NoError(t, err)
		require.Equal(t, Streamed(), framing)
	})

	t.Run("chunked across fields", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 2, "Transfer-Encoding", "gzip", "Transfer-Encoding", "chunked"))
		require.NoError(t, err)
		require.Equal(t, Chunked, framing.Kind)
	})

	t.Run("non-final chunked", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 1, "Transfer-Encoding", "chunked, gzip"))
		require.NoError(t, err)
		require.Equal(t, UntilClose, framing.Kind)
	})
	t.Run("non-chunked coding with content length", func(t *testing.T) {
		framing, err := FramingOf(fill(t, 2, "Transfer-Encoding", "gzip", "Content-Length", "10"))
		require.NoError(t, err)
		require.Equal(t, Sized(10), framing)

		framing, err = FramingOf(fill(t, 2, "Content-Length", "3", "Transfer-Encoding", "chunked, gzip"))
		require.NoError(t, err)
		require.Equal(t, Sized(3), framing)
	})
}

func TestWantsClose(t *testing.T) {
	t.Run("HTTP/1.1 default", func(t *testing.T) {
		require.False(t, WantsClose(fill(t, 1), proto.HTTP11))
	})

	t.Run("HTTP/1.1 close", func(t *testing.T) {
		require.True(t, WantsClose(fill(t, 1, "Connection", "Close"), proto.HTTP11))
		require.True(t, WantsClose(fill(t, 1, "Connection", "upgrade, close"), proto.HTTP11))
	})

	t.Run("HTTP/1.0 default", func(t *testing.T) {
		require.True(t, WantsClose(fill(t, 1), proto.HTTP10))
	})

	t.Run("HTTP/1.0 keep-alive", func(t *testing.T) {
		require.False(t, WantsClose(fill(t, 1, "Connection", "Keep-Alive"), proto.HTTP10))
	})
}

func TestTokens(t *testing.T) {
	require.Equal(t, "chunked", string(lastToken([]byte("gzip ,\tchunked ,"))))
	require.True(t, hasToken([]byte(" a, b ,c"), "B"))
	require.False(t, hasToken([]byte("abc"), "b"))
}
