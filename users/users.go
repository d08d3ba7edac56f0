package users

import "strings"

// RoleType is the coarse role the client derives from the user's flags
type RoleType string

const (
	RoleAnonymous RoleType = "anonymous"
	RoleUser      RoleType = "user"
	RoleStaff     RoleType = "staff"
)

// User is the identity as returned by the backend. The client never derives
// anything from it beyond the role flags used for view gating.
type User struct {
	ID         int       `json:"id"`                   // Backend primary key
	Username   string    `json:"username"`             // Unique username, immutable from the client
	Email      string    `json:"email"`                // Email address
	FirstName  string    `json:"first_name"`           // First name of the user
	LastName   string    `json:"last_name"`            // Last name of the user
	IsStaff    bool      `json:"is_staff"`             // Staff may open the administrative views
	IsActive   bool      `json:"is_active"`            // Inactive users cannot log in
	DateJoined Timestamp `json:"date_joined,omitzero"` // When the account was registered
}

// Role maps a possibly absent identity onto a RoleType.
func Role(u *User) RoleType {
	switch {
	case u == nil:
		return RoleAnonymous
	case u.IsStaff:
		return RoleStaff
	default:
		return RoleUser
	}
}

// FullName joins first and last name, trimming the gap when either is missing.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

// CanEditAuthoredBy reports whether u may modify content written by authorID.
func (u *User) CanEditAuthoredBy(authorID int) bool {
	if u == nil {
		return false
	}
	return u.IsStaff || u.ID == authorID
}

// Profile holds the self-editable part of a user.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// WithProfile overlays an updated user returned by the backend onto u. The
// profile fields always come from the response. When the response identifies
// the user, its username and staff flag replace the cached ones; IsActive is
// kept because the backend does not echo it.
func (u User) WithProfile(updated User) User {
	merged := u
	merged.FirstName = updated.FirstName
	merged.LastName = updated.LastName
	if updated.Email != "" {
		merged.Email = updated.Email
	}
	if updated.ID != 0 {
		merged.ID = updated.ID
		if updated.Username != "" {
			merged.Username = updated.Username
		}
		merged.IsStaff = updated.IsStaff
		if !updated.DateJoined.IsZero() {
			merged.DateJoined = updated.DateJoined
		}
	}
	return merged
}

// Filter returns the users whose username, email or full name contains term,
// case-insensitively. An empty term keeps everyone.
func Filter(list []User, term string) []User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	filtered := make([]User, 0, len(list))
	for _, u := range list {
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName), term) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
