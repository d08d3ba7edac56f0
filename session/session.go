package session

import (
	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/users"
)

// Fixed keys under which the session is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Keys lists every persisted key.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// TokenPair is the credential pair issued on login and registration.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is the client's record of who is logged in. Identity is non-nil
// exactly when AccessToken is non-empty.
type Session struct {
	Identity     *users.User
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the session holds an identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil && s.AccessToken != ""
}

// IsStaff reports whether the session belongs to a staff user.
func (s Session) IsStaff() bool {
	return s.Authenticated() && s.Identity.IsStaff
}

func (s Session) clone() Session {
	if s.Identity != nil {
		identity := *s.Identity
		s.Identity = &identity
	}
	return s
}

// Storage is durable key/value storage for the session. Put writes all values
// in one atomic operation; Delete of absent keys is not an error; Get returns
// errors.ErrNotFound for a missing key.
type Storage interface {
	Get(key string) (string, error)
	Put(values map[string]string) error
	Delete(keys ...string) error
}

// ErrNotFound is returned by Storage.Get for a missing key.
var ErrNotFound = errors.ErrNotFound
