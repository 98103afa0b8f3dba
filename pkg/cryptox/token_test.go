package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("produces unique url-safe tokens", func(t *testing.T) {
		a, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		b, err := GenerateToken(TokenSize256)
		require.NoError(t, err)

		require.Len(t, a, 43) // 32 bytes base64url, no padding
		require.NotEqual(t, a, b)
		require.NotContains(t, a, "=")
		require.NotContains(t, a, "+")
		require.NotContains(t, a, "/")
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)
		_, err = GenerateToken(-1)
		require.Error(t, err)
	})
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("some-session-token")

	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken("some-session-token"), "fingerprint must be deterministic")
	require.NotEqual(t, fp, FingerprintToken("other-session-token"))
}
