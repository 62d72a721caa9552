package jwtclaims

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only-secret"))
	require.NoError(t, err)
	return s
}

func TestInspect_ReadsClaimsWithoutSecret(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := sign(t, tokenClaims{
		UserID: 7,
		Role:   "CREATOR",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana@example.com",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	c, err := New().Inspect(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", c.Subject)
	require.Equal(t, int64(7), c.UserID)
	require.Equal(t, "CREATOR", c.Role)
	require.True(t, c.ExpiresAt.Equal(exp))
	require.False(t, c.Expired(exp.Add(-time.Second)))
	require.True(t, c.Expired(exp))
}

func TestInspect_Errors(t *testing.T) {
	_, err := New().Inspect(context.Background(), "  ")
	require.ErrorIs(t, err, ErrTokenEmpty)

	_, err = New().Inspect(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestInspect_NoExpiry(t *testing.T) {
	tok := sign(t, jwt.RegisteredClaims{Subject: "bo@example.com"})

	c, err := New().Inspect(context.Background(), tok)
	require.NoError(t, err)
	require.True(t, c.ExpiresAt.IsZero())
	require.False(t, c.Expired(time.Now()))
}
