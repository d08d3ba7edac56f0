package views

import (
	"context"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/users"
)

// ProfileView edits the logged-in user's own account.
type ProfileView struct {
	view
}

func NewProfileView(deps Deps) *ProfileView {
	return &ProfileView{view: view{deps: deps}}
}

// UpdateProfile saves the profile and merges the backend's answer into the
// session identity.
func (v *ProfileView) UpdateProfile(ctx context.Context, profile users.Profile) (users.User, error) {
	gen, err := v.begin()
	if err != nil {
		return users.User{}, err
	}
	identity := v.deps.Store.Identity()
	if identity == nil {
		if err := v.commit(gen, func() { v.state.Error = "Not logged in" }); err != nil {
			return users.User{}, err
		}
		return users.User{}, errors.ErrNoSession
	}

	updated, err := v.deps.API.UpdateProfile(ctx, identity.ID, profile)
	if err != nil {
		return users.User{}, v.fail(ctx, gen, err, "Failed to update profile")
	}
	if err := v.commit(gen, func() { v.state.Success = "Profile updated" }); err != nil {
		return users.User{}, err
	}
	merged := identity.WithProfile(updated)
	if err := v.deps.Store.UpdateIdentity(merged); err != nil {
		return users.User{}, v.failLocal(err, "Could not save the updated profile")
	}
	return merged, nil
}

// ChangePassword checks the confirmation locally, then asks the backend.
func (v *ProfileView) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	fields := map[string]string{}
	if oldPassword == "" {
		fields["old_password"] = requiredMessage
	}
	if newPassword == "" {
		fields["new_password"] = requiredMessage
	}
	if newPassword != confirm {
		fields["confirm_password"] = "New passwords do not match"
	}
	if len(fields) > 0 {
		return v.invalid(gen, fields)
	}

	identity := v.deps.Store.Identity()
	if identity == nil {
		if err := v.commit(gen, func() { v.state.Error = "Not logged in" }); err != nil {
			return err
		}
		return errors.ErrNoSession
	}
	if err := v.deps.API.ChangePassword(ctx, identity.ID, oldPassword, newPassword); err != nil {
		return v.fail(ctx, gen, err, "Failed to change password")
	}
	return v.commit(gen, func() { v.state.Success = "Password changed" })
}
