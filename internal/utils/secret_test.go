package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	t.Run("exact length", func(t *testing.T) {
		for _, n := range []int{16, 32, 64} {
			s, err := GenerateSecret(n)
			require.NoError(t, err)
			require.Len(t, s, n)
		}
	})

	t.Run("url safe", func(t *testing.T) {
		s, err := GenerateSecret(64)
		require.NoError(t, err)
		require.NotContains(t, s, "+")
		require.NotContains(t, s, "/")
		require.NotContains(t, s, "=")
	})

	t.Run("unique", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			s, err := GenerateSecret(32)
			require.NoError(t, err)
			require.False(t, seen[s], "secret repeated")
			seen[s] = true
		}
	})
}

func TestHashSecret(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("correct-horse-battery", 4)
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse-battery", hash)

	require.True(t, VerifySecret(hash, "correct-horse-battery"))
	require.False(t, VerifySecret(hash, "wrong-secret"))
	require.False(t, VerifySecret("not-a-bcrypt-hash", "correct-horse-battery"))
}
