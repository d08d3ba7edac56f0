package views

import (
	"context"
	"strings"

	"github.com/jrsteele09/go-news-portal/api"
	"github.com/jrsteele09/go-news-portal/users"
)

// LoginView is the login form.
type LoginView struct {
	view
}

func NewLoginView(deps Deps) *LoginView {
	return &LoginView{view: view{deps: deps}}
}

// Submit authenticates and, on success, starts the session.
func (v *LoginView) Submit(ctx context.Context, creds api.Credentials) (users.User, error) {
	gen, err := v.begin()
	if err != nil {
		return users.User{}, err
	}
	fields := map[string]string{}
	if strings.TrimSpace(creds.Username) == "" {
		fields["username"] = requiredMessage
	}
	if creds.Password == "" {
		fields["password"] = requiredMessage
	}
	if len(fields) > 0 {
		return users.User{}, v.invalid(gen, fields)
	}

	result, err := v.deps.API.Login(ctx, creds)
	if err != nil {
		return users.User{}, v.fail(ctx, gen, err, "Login failed")
	}
	if err := v.commit(gen, nil); err != nil {
		return users.User{}, err
	}
	if err := v.deps.Store.Login(result.User, result.Tokens); err != nil {
		return users.User{}, v.failLocal(err, "Could not save the session")
	}
	return result.User, nil
}

// RegisterView is the sign-up form.
type RegisterView struct {
	view
}

func NewRegisterView(deps Deps) *RegisterView {
	return &RegisterView{view: view{deps: deps}}
}

// Submit creates the account and logs it in.
func (v *RegisterView) Submit(ctx context.Context, reg api.Registration) (users.User, error) {
	gen, err := v.begin()
	if err != nil {
		return users.User{}, err
	}
	fields := map[string]string{}
	if strings.TrimSpace(reg.Username) == "" {
		fields["username"] = requiredMessage
	}
	if reg.Password == "" {
		fields["password"] = requiredMessage
	}
	if reg.PasswordConfirm == "" {
		fields["password_confirm"] = requiredMessage
	} else if reg.Password != reg.PasswordConfirm {
		fields["password_confirm"] = "Passwords do not match"
	}
	if len(fields) > 0 {
		return users.User{}, v.invalid(gen, fields)
	}

	result, err := v.deps.API.Register(ctx, reg)
	if err != nil {
		return users.User{}, v.fail(ctx, gen, err, "Registration failed")
	}
	if err := v.commit(gen, nil); err != nil {
		return users.User{}, err
	}
	if err := v.deps.Store.Login(result.User, result.Tokens); err != nil {
		return users.User{}, v.failLocal(err, "Could not save the session")
	}
	return result.User, nil
}

// Logout ends the session. The backend is asked to blacklist the refresh
// token, but the local session is cleared whatever it answers.
func Logout(ctx context.Context, deps Deps) error {
	if refresh, ok := deps.Store.RefreshToken(); ok {
		if err := deps.API.Logout(ctx, refresh); err != nil {
			deps.logger().Warn().Err(err).Msg("Backend logout failed, clearing local session anyway")
		}
	}
	return deps.Store.Logout()
}
