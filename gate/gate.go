// Package gate decides, per navigable view, whether the current session may
// render it. It is a client-side convenience only: the backend enforces
// authorization, and its refusals win over anything decided here.
package gate

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/session"
)

// Decision is the outcome of evaluating one navigation.
type Decision struct {
	Path     string            // Path as requested
	Pattern  string            // Matched route pattern, empty for unknown paths
	Params   map[string]string // Pattern parameters, e.g. "id"
	Allowed  bool              // The view may render
	Redirect string            // Where to go instead when not allowed
	Reason   string            // Human readable explanation for a redirect
}

// Gate matches paths against a route table.
type Gate struct {
	mux        *chi.Mux
	visibility map[string]Visibility
}

// New builds a gate over routes, or DefaultRoutes when none are given.
func New(routes ...Route) *Gate {
	if len(routes) == 0 {
		routes = DefaultRoutes
	}
	g := &Gate{
		mux:        chi.NewRouter(),
		visibility: make(map[string]Visibility, len(routes)),
	}
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, r := range routes {
		g.mux.Get(r.Pattern, noop)
		g.visibility[r.Pattern] = r.Visibility
	}
	return g
}

// Match resolves path to its route pattern and parameters.
func (g *Gate) Match(path string) (pattern string, params map[string]string, ok bool) {
	path = normalise(path)
	rctx := chi.NewRouteContext()
	if !g.mux.Match(rctx, http.MethodGet, path) {
		return "", nil, false
	}
	pattern = rctx.RoutePattern()
	params = make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return pattern, params, true
}

// Decide evaluates path against s. It has no side effects.
func (g *Gate) Decide(path string, s session.Session) Decision {
	path = normalise(path)
	pattern, params, ok := g.Match(path)
	if !ok {
		return Decision{Path: path, Redirect: RouteHome, Reason: errors.ErrUnknownRoute.Error()}
	}

	d := Decision{Path: path, Pattern: pattern, Params: params}
	switch visibility := g.visibility[pattern]; visibility {
	case Public:
		d.Allowed = true
	case GuestOnly:
		d.Allowed = !s.Authenticated()
		d.Reason = "already logged in"
	case Authenticated:
		d.Allowed = s.Authenticated()
		d.Reason = "login required"
	case StaffOnly:
		d.Allowed = s.IsStaff()
		d.Reason = "staff only"
	}
	if d.Allowed {
		d.Reason = ""
		return d
	}
	d.Redirect = Fallback(g.visibility[pattern])
	return d
}

// VisibilityOf returns the visibility of the route matching path.
func (g *Gate) VisibilityOf(path string) (Visibility, bool) {
	pattern, _, ok := g.Match(path)
	if !ok {
		return Public, false
	}
	return g.visibility[pattern], true
}

func normalise(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
