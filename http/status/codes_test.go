package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	t.Run("validity", func(t *testing.T) {
		require.True(t, Continue.IsValid())
		require.True(t, OK.IsValid())
		require.True(t, Code(599).IsValid())
		require.False(t, Code(99).IsValid())
		require.False(t, Code(600).IsValid())
	})

	t.Run("bodiless", func(t *testing.T) {
		for _, code := range []Code{Continue, SwitchingProtocols, EarlyHints, NoContent, NotModified} {
			require.True(t, code.Bodiless(), int(code))
		}

		for _, code := range []Code{OK, Created, NotFound, InternalServerError} {
			require.False(t, code.Bodiless(), int(code))
		}
	})
}
