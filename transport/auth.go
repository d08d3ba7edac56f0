package transport

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Bearer attaches the source's current token to every request as
// "Authorization: Bearer <token>". The token is read on every request, never
// cached. When the source has no token, or fails, the request goes out
// without a credential and the backend's response reports the outcome.
func Bearer(source oauth2.TokenSource, opts ...BearerOption) Middleware {
	cfg := bearerConfig{logger: log.Logger}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			token, err := currentToken(source)
			if err != nil {
				cfg.logger.Debug().Err(err).Str("url", r.URL.Redacted()).Msg("Sending request without credential")
				return next.RoundTrip(r)
			}
			clone := r.Clone(r.Context())
			token.SetAuthHeader(clone)
			return next.RoundTrip(clone)
		})
	}
}

type bearerConfig struct {
	logger zerolog.Logger
}

type BearerOption func(*bearerConfig)

func WithBearerLogger(logger zerolog.Logger) BearerOption {
	return func(c *bearerConfig) {
		c.logger = logger
	}
}

type noTokenError struct{}

func (noTokenError) Error() string { return "no access token" }

func currentToken(source oauth2.TokenSource) (token *oauth2.Token, err error) {
	if source == nil {
		return nil, noTokenError{}
	}
	defer func() {
		if r := recover(); r != nil {
			token, err = nil, noTokenError{}
		}
	}()
	token, err = source.Token()
	if err != nil {
		return nil, err
	}
	if token == nil || token.AccessToken == "" {
		return nil, noTokenError{}
	}
	return token, nil
}

// OnUnauthorized calls hook when a request that carried a bearer credential
// comes back 401. The response is passed through unchanged.
func OnUnauthorized(hook func(*http.Response)) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err == nil && resp.StatusCode == http.StatusUnauthorized && hook != nil {
				if _, ok := BearerToken(r.Header.Get(HeaderAuthorization)); ok {
					hook(resp)
				}
			}
			return resp, err
		})
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(value string) (string, bool) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
