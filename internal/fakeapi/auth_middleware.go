package fakeapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-news-portal/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated user
	ContextKeyUser ContextKey = "user"
)

const (
	detailNotAuthenticated = "Authentication credentials were not provided."
	detailTokenInvalid     = "Given token not valid for any token type"
	detailForbidden        = "You do not have permission to perform this action."
)

// currentUser returns the authenticated user of r, if any.
func currentUser(r *http.Request) (users.User, bool) {
	u, ok := r.Context().Value(ContextKeyUser).(users.User)
	return u, ok
}

// Authenticate resolves a Bearer access token into the request's user. A
// request without credentials stays anonymous; one with bad credentials is
// rejected even on public endpoints.
func (s *Server) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			writeTokenInvalid(w)
			return
		}

		token := parts[1]
		user, ok := s.staticUser(token)
		if !ok {
			claims, err := s.tokens.Parse(token, tokenTypeAccess)
			if err != nil {
				writeTokenInvalid(w)
				return
			}
			if user, err = s.repo.User(claims.UserID); err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "User not found", "code": "user_not_found"})
				return
			}
		}
		if !user.IsActive {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "User is inactive", "code": "user_inactive"})
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireAuth rejects anonymous requests.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r); !ok {
			writeDetail(w, http.StatusUnauthorized, detailNotAuthenticated)
			return
		}
		next(w, r)
	}
}

// RequireStaff rejects non-staff users. It must follow RequireAuth.
func (s *Server) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if u, _ := currentUser(r); !u.IsStaff {
			writeDetail(w, http.StatusForbidden, detailForbidden)
			return
		}
		next(w, r)
	}
}

// RequireSelfOrStaff admits staff and the user named by the {id} parameter.
func (s *Server) RequireSelfOrStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := currentUser(r)
		if !u.IsStaff && chi.URLParam(r, "id") != strconv.Itoa(u.ID) {
			writeDetail(w, http.StatusForbidden, detailForbidden)
			return
		}
		next(w, r)
	}
}

// RequireSelf admits only the user named by the {id} parameter.
func (s *Server) RequireSelf(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := currentUser(r)
		if chi.URLParam(r, "id") != strconv.Itoa(u.ID) {
			writeDetail(w, http.StatusForbidden, detailForbidden)
			return
		}
		next(w, r)
	}
}

func writeTokenInvalid(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"detail": detailTokenInvalid,
		"code":   "token_not_valid",
	})
}
