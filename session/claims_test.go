package session_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-news-portal/session"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("unrelated-secret"))
	require.NoError(t, err)
	return raw
}

func TestParseClaims(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := signed(t, jwtlib.MapClaims{
		"user_id":    42,
		"token_type": "access",
		"iat":        now.Unix(),
		"exp":        now.Add(5 * time.Minute).Unix(),
	})

	claims, err := session.ParseClaims(raw)
	require.NoError(t, err)
	require.Equal(t, "42", claims.UserID)
	require.Equal(t, "access", claims.TokenType)
	require.True(t, now.Equal(claims.IssuedAt))
	require.True(t, now.Add(5*time.Minute).Equal(claims.ExpiresAt))
}

func TestClaimsExpired(t *testing.T) {
	original := session.NowTimeFunc
	t.Cleanup(func() { session.NowTimeFunc = original })

	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	claims := session.Claims{ExpiresAt: exp}

	session.NowTimeFunc = func() time.Time { return exp.Add(-time.Second) }
	require.False(t, claims.Expired())

	session.NowTimeFunc = func() time.Time { return exp.Add(time.Second) }
	require.True(t, claims.Expired())

	require.False(t, session.Claims{}.Expired())
}

func TestParseClaims_Opaque(t *testing.T) {
	_, err := session.ParseClaims("not-a-jwt")
	require.Error(t, err)

	_, err = session.ParseClaims("")
	require.Error(t, err)
}

func TestParseClaims_SubFallback(t *testing.T) {
	claims, err := session.ParseClaims(signed(t, jwtlib.MapClaims{"sub": "user-9"}))
	require.NoError(t, err)
	require.Equal(t, "user-9", claims.UserID)
}
