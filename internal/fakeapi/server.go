// Package fakeapi is an in-memory stand-in for the portal's REST backend. It
// mirrors the backend's endpoints, permission rules and error bodies closely
// enough for the client packages to be exercised end to end in tests.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// RecordedRequest is what the fake saw of one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
}

// Server serves the fake API.
type Server struct {
	mux      *chi.Mux
	routes   []string
	repo     *Repo
	tokens   *TokenCreator
	logger   zerolog.Logger
	paginate bool

	mu           sync.RWMutex
	staticTokens map[string]int // opaque access token -> user id
	requests     []RecordedRequest
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPagination controls whether the news and user lists are wrapped in a
// {"count", "results"} page or returned as bare arrays.
func WithPagination(paginate bool) Option {
	return func(s *Server) {
		s.paginate = paginate
	}
}

// WithTokenCreator replaces the default token creator.
func WithTokenCreator(tokens *TokenCreator) Option {
	return func(s *Server) {
		s.tokens = tokens
	}
}

// New creates a fake backend over repo.
func New(repo *Repo, opts ...Option) *Server {
	s := &Server{
		mux:          chi.NewRouter(),
		repo:         repo,
		tokens:       NewTokenCreator([]byte("fake-backend-secret"), 5*time.Minute, 24*time.Hour),
		logger:       log.Logger,
		paginate:     true,
		staticTokens: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initRoutes()
	s.logRoutes()
	return s
}

// Start serves s on a local listener until the test ends. It returns the API
// root URL, with a trailing slash.
func Start(t testing.TB, repo *Repo, opts ...Option) (*Server, string) {
	s := New(repo, opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts.URL + "/"
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Repo exposes the backing data for seeding and assertions.
func (s *Server) Repo() *Repo {
	return s.repo
}

// Tokens exposes the token creator.
func (s *Server) Tokens() *TokenCreator {
	return s.tokens
}

// GrantToken makes the opaque access token valid for username.
func (s *Server) GrantToken(token, username string) error {
	u, err := s.repo.UserByName(username)
	if err != nil {
		return fmt.Errorf("[Server.GrantToken] %s: %w", username, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticTokens[token] = u.ID
	return nil
}

// Requests returns every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request matching method and path.
func (s *Server) LastRequest(method, path string) (RecordedRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method == method && s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

func (s *Server) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
		ContentType:   r.Header.Get("Content-Type"),
	})
}

func (s *Server) staticUser(token string) (users.User, bool) {
	s.mu.RLock()
	id, ok := s.staticTokens[token]
	s.mu.RUnlock()
	if !ok {
		return users.User{}, false
	}
	u, err := s.repo.User(id)
	return u, err == nil
}

// RegisterRoute adds handler for method and pattern wrapped in the standard middleware.
func (s *Server) RegisterRoute(method, pattern string, handler http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	s.mux.Method(method, pattern, ChainMiddleware(handler, s.APIMiddleware(mw...)...))
}

// Routes lists the registered routes as "METHOD pattern".
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		s.logger.Debug().Str("route", route).Msg("Registered route")
	}
}
