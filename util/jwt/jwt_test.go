package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, token, secret string) (jwt.MapClaims, error) {
	t.Helper()
	tok, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return tok.Claims.(jwt.MapClaims), nil
}

func TestIssue_Claims(t *testing.T) {
	tok, err := Issue("secret", 42, "user@example.com", 1, time.Hour)
	require.NoError(t, err)

	claims, err := parse(t, tok, "secret")
	require.NoError(t, err)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "user@example.com", claims["email"])
	require.Equal(t, float64(1), claims["role"])
}

func TestIssue_WrongSecretRejected(t *testing.T) {
	tok, err := Issue("secret", 7, "a@b.c", 0, time.Hour)
	require.NoError(t, err)

	_, err = parse(t, tok, "other")
	require.Error(t, err)
}

func TestIssue_ExpiredRejected(t *testing.T) {
	tok, err := Issue("secret", 7, "a@b.c", 0, -time.Minute)
	require.NoError(t, err)

	_, err = parse(t, tok, "secret")
	require.Error(t, err)
}
