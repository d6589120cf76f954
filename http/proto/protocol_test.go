package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	t.Run("supported", func(t *testing.T) {
		require.Equal(t, HTTP10, FromBytes([]byte("HTTP/1.0")))
		require.Equal(t, HTTP11, FromBytes([]byte("HTTP/1.1")))
	})

	t.Run("unsupported", func(t *testing.T) {
		for _, raw := range []string{"HTTP/2.0", "HTTP/1.2", "HTTP/1", "http/1.1", "HTTP/1,1", "HTTP/a.1", ""} {
			require.Equal(t, Unknown, FromBytes([]byte(raw)), raw)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		for _, p := range []Protocol{HTTP10, HTTP11} {
			require.Equal(t, p, FromBytes([]byte(p.String())))
		}
	})
}

func TestKeepAlive(t *testing.T) {
	require.True(t, HTTP11.KeepAliveByDefault())
	require.False(t, HTTP10.KeepAliveByDefault())
	require.Empty(t, Unknown.String())
}
