package fakeapi

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/users"
)

// authResponse is the body returned by login and register.
type authResponse struct {
	User   users.User        `json:"user"`
	Tokens session.TokenPair `json:"tokens"`
}

const minPasswordLength = 8

// LoginHandler exchanges username and password for a token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		fields := map[string][]string{}
		if body.Username == "" {
			fields["username"] = []string{requiredField}
		}
		if body.Password == "" {
			fields["password"] = []string{requiredField}
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		user, ok := s.repo.Authenticate(body.Username, body.Password)
		if !ok {
			writeNonFieldError(w, "Invalid username or password")
			return
		}
		if !user.IsActive {
			writeNonFieldError(w, "Account is inactive")
			return
		}
		s.respondWithTokens(w, http.StatusOK, user)
	}
}

// RegisterHandler creates an account and logs it in.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username        string `json:"username"`
			Email           string `json:"email"`
			FirstName       string `json:"first_name"`
			LastName        string `json:"last_name"`
			Password        string `json:"password"`
			PasswordConfirm string `json:"password_confirm"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}

		fields := map[string][]string{}
		if strings.TrimSpace(body.Username) == "" {
			fields["username"] = []string{requiredField}
		} else if _, err := s.repo.UserByName(body.Username); err == nil {
			fields["username"] = []string{"A user with that username already exists."}
		}
		if body.Email != "" && !strings.Contains(body.Email, "@") {
			fields["email"] = []string{"Enter a valid email address."}
		}
		switch {
		case body.Password == "":
			fields["password"] = []string{requiredField}
		case len(body.Password) < minPasswordLength:
			fields["password"] = []string{"Ensure this field has at least 8 characters."}
		}
		if body.PasswordConfirm == "" {
			fields["password_confirm"] = []string{requiredField}
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}
		if body.Password != body.PasswordConfirm {
			writeNonFieldError(w, "Passwords do not match")
			return
		}

		user, err := s.repo.AddUser(users.User{
			Username:  body.Username,
			Email:     body.Email,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			IsActive:  true,
		}, body.Password)
		if err != nil {
			writeFieldErrors(w, map[string][]string{"username": {"A user with that username already exists."}})
			return
		}
		s.respondWithTokens(w, http.StatusCreated, user)
	}
}

func (s *Server) respondWithTokens(w http.ResponseWriter, status int, user users.User) {
	tokens, err := s.tokens.CreatePair(user.ID)
	if err != nil {
		s.logger.Err(err).Msg("Failed to issue tokens")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, status, authResponse{User: user, Tokens: tokens})
}

// LogoutHandler blacklists the posted refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Refresh string `json:"refresh"`
		}
		if err := decodeJSON(r, &body); err != nil || body.Refresh == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid token"})
			return
		}
		claims, err := s.tokens.Parse(body.Refresh, tokenTypeRefresh)
		if err != nil || s.repo.IsRevoked(claims.ID) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid token"})
			return
		}
		s.repo.Revoke(claims.ID, claims.ExpiresAt)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}
