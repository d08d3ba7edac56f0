// Package transport builds the outbound HTTP stack shared by every API call.
//
// Credentials, request IDs, logging and the reaction to rejected credentials
// are RoundTripper decorators composed once, when the client is constructed.
// No call site attaches credentials itself.
package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)

// Middleware decorates a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base with mw so that mw[0] sees the request first.
func Chain(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// RequestID tags requests lacking an X-Request-ID with a fresh UUID.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(HeaderRequestID) != "" {
				return next.RoundTrip(r)
			}
			clone := r.Clone(r.Context())
			clone.Header.Set(HeaderRequestID, uuid.NewString())
			return next.RoundTrip(clone)
		})
	}
}

// Logging writes one debug line per request.
func Logging(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			event := logger.Debug().
				Str("method", r.Method).
				Str("url", r.URL.Redacted()).
				Str("request_id", r.Header.Get(HeaderRequestID)).
				Dur("duration", time.Since(start))
			if err != nil {
				event.Err(err).Msg("Request failed")
				return resp, err
			}
			event.Int("status", resp.StatusCode).Msg("Request completed")
			return resp, nil
		})
	}
}
