package fakeapi

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-news-portal/users"
)

// ListUsersHandler lists every user.
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, s.paginate, s.repo.Users())
	}
}

// MeHandler returns the authenticated user.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := currentUser(r)
		writeJSON(w, http.StatusOK, u)
	}
}

// GetUserHandler returns one user.
func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		u, err := s.repo.User(id)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// UpdateUserHandler applies a partial update. Only staff may change role flags.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		var body struct {
			Email     *string `json:"email"`
			FirstName *string `json:"first_name"`
			LastName  *string `json:"last_name"`
			IsStaff   *bool   `json:"is_staff"`
			IsActive  *bool   `json:"is_active"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}
		caller, _ := currentUser(r)
		if (body.IsStaff != nil || body.IsActive != nil) && !caller.IsStaff {
			writeDetail(w, http.StatusForbidden, detailForbidden)
			return
		}
		if body.Email != nil && *body.Email != "" && !strings.Contains(*body.Email, "@") {
			writeFieldErrors(w, map[string][]string{"email": {"Enter a valid email address."}})
			return
		}

		updated, err := s.repo.UpdateUser(id, func(u *users.User) {
			if body.Email != nil {
				u.Email = *body.Email
			}
			if body.FirstName != nil {
				u.FirstName = *body.FirstName
			}
			if body.LastName != nil {
				u.LastName = *body.LastName
			}
			if body.IsStaff != nil {
				u.IsStaff = *body.IsStaff
			}
			if body.IsActive != nil {
				u.IsActive = *body.IsActive
			}
		})
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteUserHandler removes a user.
func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		if err := s.repo.DeleteUser(id); err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ChangePasswordHandler replaces the caller's password after checking the old one.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeDetail(w, http.StatusBadRequest, "JSON parse error")
			return
		}
		caller, _ := currentUser(r)

		fields := map[string][]string{}
		switch {
		case body.OldPassword == "":
			fields["old_password"] = []string{requiredField}
		case !s.repo.CheckPassword(caller.ID, body.OldPassword):
			fields["old_password"] = []string{"Wrong password."}
		}
		switch {
		case body.NewPassword == "":
			fields["new_password"] = []string{requiredField}
		case len(body.NewPassword) < minPasswordLength:
			fields["new_password"] = []string{"Ensure this field has at least 8 characters."}
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		if err := s.repo.SetPassword(caller.ID, body.NewPassword); err != nil {
			s.logger.Err(err).Int("user_id", caller.ID).Msg("Failed to change password")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
	}
}

// DashboardStatsHandler returns the dashboard aggregates to staff.
func (s *Server) DashboardStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if u, _ := currentUser(r); !u.IsStaff {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Access denied"})
			return
		}
		writeJSON(w, http.StatusOK, s.repo.Stats())
	}
}
