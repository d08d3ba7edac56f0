package cli

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-news-portal/api"
	"github.com/jrsteele09/go-news-portal/gate"
	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/jrsteele09/go-news-portal/views"
	"github.com/spf13/pflag"
)

func (a *App) loginCommand() *Command {
	var username, password string
	return &Command{
		Name:    "login",
		Summary: "Log in and remember the session",
		Usage:   "portal login [username] [flags]",
		Route:   gate.RouteLogin,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flags.StringVarP(&username, "username", "u", "", "account username")
			flags.StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
			return flags
		},
		Run: func(args []string) error {
			if username == "" && len(args) > 0 {
				username = args[0]
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}
			secret, err := a.secret(password, "Password")
			if err != nil {
				return err
			}

			v := views.NewLoginView(a.deps())
			v.Mount()
			defer v.Unmount()
			u, err := v.Submit(a.ctx, api.Credentials{Username: username, Password: secret})
			if err != nil {
				return a.refused(v, err)
			}
			fmt.Fprintf(a.stdout, "Logged in as %s (%s)\n", u.DisplayName(), users.Role(&u))
			return nil
		},
	}
}

func (a *App) registerCommand() *Command {
	var reg api.Registration
	return &Command{
		Name:    "register",
		Summary: "Create an account and log in",
		Route:   gate.RouteRegister,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
			flags.StringVarP(&reg.Username, "username", "u", "", "account username")
			flags.StringVar(&reg.Email, "email", "", "email address")
			flags.StringVar(&reg.FirstName, "first-name", "", "first name")
			flags.StringVar(&reg.LastName, "last-name", "", "last name")
			flags.StringVarP(&reg.Password, "password", "p", "", "password (prompted when omitted)")
			return flags
		},
		Run: func(args []string) error {
			prompted := reg.Password == ""
			var err error
			if reg.Password, err = a.secret(reg.Password, "Password"); err != nil {
				return err
			}
			reg.PasswordConfirm = reg.Password
			if prompted {
				if reg.PasswordConfirm, err = a.readPassword("Confirm password"); err != nil {
					return err
				}
			}

			v := views.NewRegisterView(a.deps())
			v.Mount()
			defer v.Unmount()
			u, err := v.Submit(a.ctx, reg)
			if err != nil {
				return a.refused(v, err)
			}
			fmt.Fprintf(a.stdout, "Welcome, %s. You are now logged in.\n", u.DisplayName())
			return nil
		},
	}
}

func (a *App) logoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "End the session",
		Run: func(args []string) error {
			if !a.Store.IsAuthenticated() {
				fmt.Fprintln(a.stdout, "Not logged in")
				return nil
			}
			if err := views.Logout(a.ctx, a.deps()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Logged out")
			return nil
		},
	}
}

// whoami is the one command that reads the session without opening a view.
func (a *App) whoamiCommand() *Command {
	var asJSON bool
	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in user",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			flags.BoolVar(&asJSON, "json", false, "print the identity as JSON")
			return flags
		},
		Run: func(args []string) error {
			identity := a.Store.Identity()
			if identity == nil {
				fmt.Fprintln(a.stdout, "Not logged in")
				return &ExitError{Code: ExitFailure}
			}
			if asJSON {
				return a.printJSON(identity)
			}
			if err := a.describeUser(*identity); err != nil {
				return err
			}
			a.describeExpiry()
			return nil
		},
	}
}

// describeExpiry reports the access token's lifetime when it is a JWT. The
// claims are informational; the backend alone decides validity.
func (a *App) describeExpiry() {
	claims, err := a.Store.AccessClaims()
	if err != nil || claims.ExpiresAt.IsZero() {
		return
	}
	if claims.Expired() {
		fmt.Fprintln(a.stdout, "Access token has expired; the next request will end the session.")
		return
	}
	remaining := claims.ExpiresAt.Sub(session.NowTimeFunc()).Round(time.Second)
	fmt.Fprintf(a.stdout, "Access token expires in %s\n", remaining)
}
