package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReferralCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 100 {
		code, err := newReferralCode()

		require.NoError(t, err)
		require.Len(t, code, 8)
		require.NotContains(t, code, "O", "ambiguous characters should not be used")
		require.NotContains(t, code, "0")
		require.NotContains(t, code, "I")
		require.NotContains(t, code, "1")

		seen[code] = true
	}

	require.Greater(t, len(seen), 95, "codes should be effectively unique")
}
