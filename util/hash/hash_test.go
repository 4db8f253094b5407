package hash

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", h)

	require.True(t, Check(h, "secret123"))
	require.False(t, Check(h, "wrong"))
}

func TestRandomPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		p, err := RandomPassword(8)
		require.NoError(t, err)
		require.Len(t, p, 8)
		seen[p] = true
	}
	require.Greater(t, len(seen), 1, "passwords should differ")
}

func TestRandomDigits(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 10; i++ {
		d, err := RandomDigits(6)
		require.NoError(t, err)
		require.Regexp(t, re, d)
	}
}
