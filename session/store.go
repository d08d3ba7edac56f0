package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Store is the single owner of the current session and of its persisted
// form. It is built once by the application and handed to every consumer.
type Store struct {
	storage Storage
	logger  zerolog.Logger

	mu        sync.RWMutex
	current   Session
	listeners map[int]func(Session)
	nextID    int
}

var _ oauth2.TokenSource = (*Store)(nil)

type Option func(*Store)

// WithLogger replaces the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty store backed by storage. Call Initialize to restore a
// persisted session.
func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		logger:    log.Logger,
		listeners: make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the persisted session. Missing or malformed data leaves
// the store empty; it never fails.
func (s *Store) Initialize() {
	restored, err := s.restore()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn().Err(err).Msg("Ignoring persisted session")
		}
		restored = Session{}
	}

	s.mu.Lock()
	s.current = restored
	s.mu.Unlock()
}

func (s *Store) restore() (restored Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: storage panic: %v", errors.ErrMalformedSession, r)
		}
	}()

	access, err := s.storage.Get(KeyAccessToken)
	if err != nil {
		return Session{}, err
	}
	rawUser, err := s.storage.Get(KeyUser)
	if err != nil {
		return Session{}, err
	}
	if access == "" || rawUser == "" {
		return Session{}, ErrNotFound
	}

	var identity users.User
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil {
		return Session{}, fmt.Errorf("%w: %v", errors.ErrMalformedSession, err)
	}
	if identity.ID == 0 && identity.Username == "" {
		return Session{}, fmt.Errorf("%w: empty identity %s", errors.ErrMalformedSession, rawUser)
	}

	refresh, err := s.storage.Get(KeyRefreshToken)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	return Session{Identity: &identity, AccessToken: access, RefreshToken: refresh}, nil
}

// Login persists identity and tokens together and makes them current.
// Subscribers have been notified when Login returns. If persisting fails the
// in-memory session is left untouched.
func (s *Store) Login(identity users.User, tokens TokenPair) error {
	if tokens.Access == "" {
		return errors.Wrapf(errors.ErrInvalidSession, "[Store.Login] empty access token")
	}
	rawUser, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("[Store.Login] encoding identity: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.Put(map[string]string{
		KeyAccessToken:  tokens.Access,
		KeyRefreshToken: tokens.Refresh,
		KeyUser:         string(rawUser),
	}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("[Store.Login] persisting session: %w: %w", errors.ErrStorage, err)
	}
	s.current = Session{Identity: &identity, AccessToken: tokens.Access, RefreshToken: tokens.Refresh}
	snapshot, listeners := s.current.clone(), s.listenersLocked()
	s.mu.Unlock()

	s.logger.Debug().Str("username", identity.Username).Bool("is_staff", identity.IsStaff).Msg("Session started")
	notify(listeners, snapshot)
	return nil
}

// Logout forgets the session in memory and in storage. Calling it without a
// session is a no-op apart from clearing any stray persisted keys.
func (s *Store) Logout() error {
	s.mu.Lock()
	wasAuthenticated := s.current.Authenticated()
	s.current = Session{}
	storageErr := s.storage.Delete(Keys...)
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if wasAuthenticated {
		s.logger.Debug().Msg("Session ended")
		notify(listeners, Session{})
	}
	if storageErr != nil {
		return fmt.Errorf("[Store.Logout] clearing persisted session: %w: %w", errors.ErrStorage, storageErr)
	}
	return nil
}

// UpdateIdentity replaces the identity of the current session. Tokens are kept.
func (s *Store) UpdateIdentity(identity users.User) error {
	rawUser, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("[Store.UpdateIdentity] encoding identity: %w", err)
	}

	s.mu.Lock()
	if !s.current.Authenticated() {
		s.mu.Unlock()
		return errors.ErrNoSession
	}
	if err := s.storage.Put(map[string]string{KeyUser: string(rawUser)}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("[Store.UpdateIdentity] persisting identity: %w: %w", errors.ErrStorage, err)
	}
	s.current.Identity = &identity
	snapshot, listeners := s.current.clone(), s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, snapshot)
	return nil
}

// CurrentAccessToken returns the access token, if any.
func (s *Store) CurrentAccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken, s.current.AccessToken != ""
}

// RefreshToken returns the refresh token, if any.
func (s *Store) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RefreshToken, s.current.RefreshToken != ""
}

// Identity returns a copy of the logged-in user or nil.
func (s *Store) Identity() *users.User {
	return s.Snapshot().Identity
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Token implements oauth2.TokenSource over the current access token.
func (s *Store) Token() (*oauth2.Token, error) {
	access, ok := s.CurrentAccessToken()
	if !ok {
		return nil, errors.ErrNoSession
	}
	refresh, _ := s.RefreshToken()
	token := &oauth2.Token{AccessToken: access, TokenType: "Bearer", RefreshToken: refresh}
	if claims, err := ParseClaims(access); err == nil && !claims.ExpiresAt.IsZero() {
		token.Expiry = claims.ExpiresAt
	}
	return token, nil
}

// Subscribe registers fn to run synchronously after every session change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) listenersLocked() []func(Session) {
	listeners := make([]func(Session), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	return listeners
}

func notify(listeners []func(Session), snapshot Session) {
	for _, fn := range listeners {
		fn(snapshot.clone())
	}
}
