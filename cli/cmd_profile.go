package cli

import (
	"fmt"

	"github.com/jrsteele09/go-news-portal/gate"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/jrsteele09/go-news-portal/views"
	"github.com/spf13/pflag"
)

func (a *App) profileCommand() *Command {
	return &Command{
		Name:    "profile",
		Summary: "Show or edit your account",
		Route:   gate.RouteProfile,
		Run: func(args []string) error {
			identity := a.Store.Identity()
			if identity == nil {
				return fmt.Errorf("not logged in")
			}
			return a.describeUser(*identity)
		},
		Subcommands: []*Command{
			a.profileUpdateCommand(),
			a.profilePasswordCommand(),
		},
	}
}

func (a *App) profileUpdateCommand() *Command {
	var (
		profile users.Profile
		flags   *pflag.FlagSet
	)
	return &Command{
		Name:    "update",
		Summary: "Change your name or email",
		Route:   gate.RouteProfile,
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet("update", pflag.ContinueOnError)
			flags.StringVar(&profile.FirstName, "first-name", "", "first name")
			flags.StringVar(&profile.LastName, "last-name", "", "last name")
			flags.StringVar(&profile.Email, "email", "", "email address")
			return flags
		},
		Run: func(args []string) error {
			current := a.Store.Identity()
			if current == nil {
				return fmt.Errorf("not logged in")
			}
			in := users.Profile{FirstName: current.FirstName, LastName: current.LastName, Email: current.Email}
			if flags.Changed("first-name") {
				in.FirstName = profile.FirstName
			}
			if flags.Changed("last-name") {
				in.LastName = profile.LastName
			}
			if flags.Changed("email") {
				in.Email = profile.Email
			}

			v := views.NewProfileView(a.deps())
			v.Mount()
			defer v.Unmount()
			updated, err := v.UpdateProfile(a.ctx, in)
			if err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, "")
			return a.describeUser(updated)
		},
	}
}

func (a *App) profilePasswordCommand() *Command {
	return &Command{
		Name:    "password",
		Summary: "Change your password",
		Route:   gate.RouteProfile,
		Run: func(args []string) error {
			oldPassword, err := a.readPassword("Current password")
			if err != nil {
				return err
			}
			newPassword, err := a.readPassword("New password")
			if err != nil {
				return err
			}
			confirm, err := a.readPassword("Confirm new password")
			if err != nil {
				return err
			}

			v := views.NewProfileView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.ChangePassword(a.ctx, oldPassword, newPassword, confirm); err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, "")
			return nil
		},
	}
}
