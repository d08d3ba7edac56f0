package fakeapi

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-news-portal/session"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenCreator issues and verifies HS256 access/refresh pairs shaped like the
// ones a Django simplejwt backend hands out.
type TokenCreator struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenClaims are the verified claims of an issued token.
type TokenClaims struct {
	UserID    int
	TokenType string
	ID        string // jti
	ExpiresAt time.Time
}

// NewTokenCreator creates a token creator signing with secret.
func NewTokenCreator(secret []byte, accessTTL, refreshTTL time.Duration) *TokenCreator {
	return &TokenCreator{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// CreatePair issues a fresh access and refresh token for userID.
func (c *TokenCreator) CreatePair(userID int) (session.TokenPair, error) {
	access, err := c.create(userID, tokenTypeAccess, c.accessTTL)
	if err != nil {
		return session.TokenPair{}, err
	}
	refresh, err := c.create(userID, tokenTypeRefresh, c.refreshTTL)
	if err != nil {
		return session.TokenPair{}, err
	}
	return session.TokenPair{Access: access, Refresh: refresh}, nil
}

func (c *TokenCreator) create(userID int, tokenType string, ttl time.Duration) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"token_type": tokenType,                  // access or refresh
		"user_id":    userID,                     // Backend primary key of the user
		"iat":        int64(now.Unix()),          // Issued At
		"exp":        int64(now.Add(ttl).Unix()), // Expiry
		"jti":        uuid.New().String(),        // Unique token ID for blacklisting
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and checks it is of wantType.
func (c *TokenCreator) Parse(raw, wantType string) (TokenClaims, error) {
	token, err := jwtlib.Parse(raw, func(*jwtlib.Token) (any, error) { return c.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("[TokenCreator.Parse] %w", err)
	}
	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return TokenClaims{}, fmt.Errorf("[TokenCreator.Parse] unexpected claims type %T", token.Claims)
	}

	claims := TokenClaims{}
	claims.TokenType, _ = mapClaims["token_type"].(string)
	claims.ID, _ = mapClaims["jti"].(string)
	if userID, ok := mapClaims["user_id"].(float64); ok {
		claims.UserID = int(userID)
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if claims.TokenType != wantType {
		return TokenClaims{}, fmt.Errorf("[TokenCreator.Parse] token has wrong type %q", claims.TokenType)
	}
	if claims.UserID == 0 {
		return TokenClaims{}, fmt.Errorf("[TokenCreator.Parse] token contained no recognizable user identification")
	}
	return claims, nil
}
