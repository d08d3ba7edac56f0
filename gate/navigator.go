package gate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxRedirects bounds redirect chains. The default table needs at most one hop.
const maxRedirects = 4

// Navigator tracks the current location and keeps it consistent with the
// session: every session change re-evaluates where the user is and moves them
// off a view they may no longer see.
type Navigator struct {
	gate   *Gate
	store  *session.Store
	logger zerolog.Logger

	mu          sync.Mutex
	current     Decision
	listeners   []func(Decision)
	unsubscribe func()
}

// NewNavigator starts at the home route and subscribes to store.
func NewNavigator(g *Gate, store *session.Store, logger ...zerolog.Logger) *Navigator {
	n := &Navigator{gate: g, store: store, logger: log.Logger}
	if len(logger) > 0 {
		n.logger = logger[0]
	}
	n.current = g.Decide(RouteHome, store.Snapshot())
	n.unsubscribe = store.Subscribe(n.onSessionChange)
	return n
}

// Close stops following session changes.
func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

// OnNavigate registers fn to be called with every settled location.
func (n *Navigator) OnNavigate(fn func(Decision)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Current returns the settled location.
func (n *Navigator) Current() Decision {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate moves to path, following redirects until an allowed view is
// reached. The returned decision is the one for path itself; when it was not
// allowed, the error wraps errors.ErrRedirected and Current reports where the
// user ended up.
func (n *Navigator) Navigate(path string) (Decision, error) {
	requested := n.gate.Decide(path, n.store.Snapshot())
	settled, err := n.settle(requested)
	if err != nil {
		return requested, err
	}
	n.move(settled)
	if !requested.Allowed {
		n.logger.Debug().Str("path", requested.Path).Str("redirect", settled.Path).Str("reason", requested.Reason).Msg("Navigation redirected")
		if requested.Pattern == "" {
			return requested, fmt.Errorf("%w: %w: %s -> %s", errors.ErrRedirected, errors.ErrUnknownRoute, requested.Path, settled.Path)
		}
		return requested, fmt.Errorf("%w: %s -> %s (%s)", errors.ErrRedirected, requested.Path, settled.Path, requested.Reason)
	}
	return requested, nil
}

func (n *Navigator) settle(d Decision) (Decision, error) {
	visited := []string{d.Path}
	for hops := 0; !d.Allowed; hops++ {
		if hops >= maxRedirects {
			return d, fmt.Errorf("[Navigator] redirect loop: %s", strings.Join(visited, " -> "))
		}
		d = n.gate.Decide(d.Redirect, n.store.Snapshot())
		visited = append(visited, d.Path)
	}
	return d, nil
}

func (n *Navigator) onSessionChange(s session.Session) {
	n.mu.Lock()
	path := n.current.Path
	n.mu.Unlock()

	d := n.gate.Decide(path, s)
	if d.Allowed {
		return
	}
	settled, err := n.settle(d)
	if err != nil {
		n.logger.Err(err).Msg("Cannot settle after session change")
		return
	}
	n.logger.Debug().Str("from", path).Str("to", settled.Path).Msg("Session change moved navigation")
	n.move(settled)
}

func (n *Navigator) move(d Decision) {
	n.mu.Lock()
	n.current = d
	listeners := append([]func(Decision){}, n.listeners...)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(d)
	}
}
