package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	internalerrors "github.com/jrsteele09/go-news-portal/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the informational content of an access token. It is decoded
// without verification and must never be used to grant access.
type Claims struct {
	UserID    string    // "user_id" claim (falls back to "sub")
	TokenType string    // "token_type" claim
	IssuedAt  time.Time // "iat" claim
	ExpiresAt time.Time // "exp" claim
}

// Expired reports whether the token's exp claim lies in the past. Tokens
// without exp never expire locally.
func (c Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && NowTimeFunc().After(c.ExpiresAt)
}

// ParseClaims decodes a JWT access token without checking its signature.
func ParseClaims(rawToken string) (Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return Claims{}, errors.New("empty token")
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("[ParseClaims] %w", err)
	}
	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, errors.New("error extracting claims")
	}

	var parsed Claims
	parsed.UserID = claimString(claims["user_id"])
	if parsed.UserID == "" {
		parsed.UserID = claimString(claims["sub"])
	}
	parsed.TokenType, _ = claims["token_type"].(string)
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		parsed.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		parsed.ExpiresAt = exp.Time
	}
	return parsed, nil
}

func claimString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// AccessClaims decodes the current access token.
func (s *Store) AccessClaims() (Claims, error) {
	access, ok := s.CurrentAccessToken()
	if !ok {
		return Claims{}, fmt.Errorf("[Store.AccessClaims] %w", internalerrors.ErrNoSession)
	}
	return ParseClaims(access)
}
