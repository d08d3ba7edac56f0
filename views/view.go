// Package views holds the leaf consumers of the session: one model per page
// of the portal. Each model owns its loading, error and success state and
// turns every failure into that state instead of propagating it upward.
package views

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jrsteele09/go-news-portal/api"
	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators every view needs.
type Deps struct {
	API    *api.Client
	Store  *session.Store
	Logger *zerolog.Logger // Defaults to the global logger
}

func (d Deps) logger() *zerolog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return &log.Logger
}

// State is what a page shows besides its data.
type State struct {
	Loading     bool
	Error       string            // Page-level message
	FieldErrors map[string]string // First message per form field
	Success     string
}

func (s State) clone() State {
	s.FieldErrors = maps.Clone(s.FieldErrors)
	return s
}

// view carries the lifecycle shared by every page model. Results of a call
// are only applied when the view is still mounted and has not been remounted
// since the call began.
type view struct {
	deps Deps

	mu         sync.Mutex
	mounted    bool
	generation uint64
	state      State
}

// Mount makes the view live and resets its state.
func (v *view) Mount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = true
	v.generation++
	v.state = State{}
}

// Unmount discards any response still in flight.
func (v *view) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	v.generation++
}

// Mounted reports whether the view is live.
func (v *view) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// State returns a copy of the page state.
func (v *view) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// begin starts a call and returns the generation its result must match.
func (v *view) begin() (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return 0, errors.ErrUnmounted
	}
	v.state = State{Loading: true}
	return v.generation, nil
}

// commit applies fn under the view lock if gen is still current.
func (v *view) commit(gen uint64, fn func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || gen != v.generation {
		return errors.ErrUnmounted
	}
	v.state.Loading = false
	if fn != nil {
		fn()
	}
	return nil
}

// invalid records locally detected form errors without calling the backend.
func (v *view) invalid(gen uint64, fields map[string]string) error {
	if err := v.commit(gen, func() { v.state.FieldErrors = fields }); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", errors.ErrValidation, sortedKeys(fields))
}

// fail turns err into page state. A 403 means the cached role flags may be
// stale, so the identity is re-fetched before the error is shown.
func (v *view) fail(ctx context.Context, gen uint64, err error, fallback string) error {
	if api.IsForbidden(err) {
		v.refreshIdentity(ctx)
	}
	message, fields := describe(err, fallback)
	v.deps.logger().Debug().Err(err).Str("shown", message).Msg("View call failed")
	if commitErr := v.commit(gen, func() {
		v.state.Error = message
		v.state.FieldErrors = fields
	}); commitErr != nil {
		return commitErr
	}
	return err
}

// failLocal records a failure that happened after the backend call succeeded.
func (v *view) failLocal(err error, message string) error {
	v.deps.logger().Err(err).Msg(message)
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
	return err
}

func (v *view) refreshIdentity(ctx context.Context) {
	current := v.deps.Store.Identity()
	if current == nil {
		return
	}
	me, err := v.deps.API.Me(ctx)
	if err != nil {
		v.deps.logger().Warn().Err(err).Msg("Could not refresh identity after rejection")
		return
	}
	if err := v.deps.Store.UpdateIdentity(current.WithProfile(me)); err != nil && !errors.Is(err, errors.ErrNoSession) {
		v.deps.logger().Err(err).Msg("Could not store refreshed identity")
	}
}

// describe converts an error into a page message and per-field messages.
func describe(err error, fallback string) (string, map[string]string) {
	apiErr, ok := api.AsAPIError(err)
	if !ok {
		return fallback, nil
	}
	var fields map[string]string
	for _, name := range apiErr.FieldNames() {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[name] = apiErr.FieldError(name)
	}
	switch {
	case apiErr.IsUnauthorized():
		return "Your session has expired, please log in again", fields
	case apiErr.IsForbidden():
		return apiErr.Message("You are not allowed to do that"), fields
	}
	return apiErr.Message(fallback), fields
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

const requiredMessage = "This field is required."
