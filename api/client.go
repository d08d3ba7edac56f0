// Package api is the typed client for the portal's REST backend. Every call
// goes through the transport stack, so credentials are attached by the
// session-aware Bearer decorator and never by the call sites here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"
	defaultTimeout  = 15 * time.Second
)

// Client talks to the backend rooted at a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

type options struct {
	base    http.RoundTripper
	timeout time.Duration
	logger  zerolog.Logger
	store   *session.Store
	extra   []transport.Middleware
}

// Option configures a Client.
type Option func(*options)

// WithTransport sets the innermost RoundTripper. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the logger for the client and its transport.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSession authenticates every request with the store's current token and
// ends the session when the backend rejects it.
func WithSession(store *session.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithMiddleware appends decorators that run after the standard ones.
func WithMiddleware(mw ...transport.Middleware) Option {
	return func(o *options) {
		o.extra = append(o.extra, mw...)
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{timeout: defaultTimeout, logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[api.New] invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("[api.New] base URL %q must be http or https", baseURL)
	}

	mw := []transport.Middleware{
		transport.RequestID(),
		transport.Logging(o.logger),
	}
	if o.store != nil {
		mw = append(mw,
			transport.Bearer(o.store, transport.WithBearerLogger(o.logger)),
			transport.OnUnauthorized(expireSession(o.store, o.logger)),
		)
	}
	mw = append(mw, o.extra...)

	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Transport: transport.Chain(o.base, mw...),
			Timeout:   o.timeout,
		},
		logger: o.logger,
	}, nil
}

// expireSession logs the store out when the rejected credential is still the
// current one. A 401 for a token that was already replaced by a newer login
// leaves the newer session alone.
func expireSession(store *session.Store, logger zerolog.Logger) func(*http.Response) {
	return func(resp *http.Response) {
		if resp.Request != nil {
			rejected, _ := transport.BearerToken(resp.Request.Header.Get(transport.HeaderAuthorization))
			if current, ok := store.CurrentAccessToken(); !ok || current != rejected {
				return
			}
		}
		logger.Info().Msg("Credential rejected, ending session")
		if err := store.Logout(); err != nil {
			logger.Err(err).Msg("Failed to clear session after rejection")
		}
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")}).String()
}

// do sends one request and decodes a 2xx JSON body into out, when out is
// non-nil. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("[api] building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("[api] %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[api] reading %s %s response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("[api] decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("[api] encoding %s %s body: %w", method, path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), contentTypeJSON, out)
}

// getList fetches a list that may come back paginated or as a bare array.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, "", &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("[api] decoding list: %w", err)
		}
		return list, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("[api] decoding page: %w", err)
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return page.Results, nil
}

func itemPath(collection string, id int, suffix ...string) string {
	path := fmt.Sprintf("%s/%d/", collection, id)
	for _, s := range suffix {
		path += strings.Trim(s, "/") + "/"
	}
	return path
}
