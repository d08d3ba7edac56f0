package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/users"
)

const (
	pathLogin    = "auth/login/"
	pathRegister = "auth/register/"
	pathLogout   = "auth/logout/"
)

// AuthResult is what login and register return.
type AuthResult struct {
	User   users.User        `json:"user"`
	Tokens session.TokenPair `json:"tokens"`
}

// Credentials are the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up form.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// Login exchanges credentials for an identity and token pair.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var result AuthResult
	err := c.doJSON(ctx, http.MethodPost, pathLogin, creds, &result)
	return result, err
}

// Register creates an account and returns it already logged in.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var result AuthResult
	err := c.doJSON(ctx, http.MethodPost, pathRegister, reg, &result)
	return result, err
}

// Logout asks the backend to blacklist refresh.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	return c.doJSON(ctx, http.MethodPost, pathLogout, map[string]string{"refresh": refresh}, nil)
}
