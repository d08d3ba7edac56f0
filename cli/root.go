package cli

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
)

// Root builds the command tree bound to a.
func (a *App) Root() *Command {
	root := &Command{
		Name:        "portal",
		Description: "Browse and manage the news portal from the command line.",
		Guard:       a.navigate,
		Output:      a.stderr,
		Subcommands: []*Command{
			a.loginCommand(),
			a.registerCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.newsCommand(),
			a.categoriesCommand(),
			a.usersCommand(),
			a.profileCommand(),
			a.dashboardCommand(),
			a.versionCommand(),
		},
	}
	root.Run = func(args []string) error {
		if len(args) > 0 {
			if suggestion := suggestCommand(args[0], root.Subcommands); suggestion != "" {
				return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun 'portal --help' for usage.", args[0], suggestion)
			}
			return fmt.Errorf("unknown command %q\n\nRun 'portal --help' for usage.", args[0])
		}
		fmt.Fprint(a.stderr, a.banner())
		root.PrintHelp(a.stderr)
		return nil
	}
	return root
}

func (a *App) banner() string {
	return figure.NewFigure(a.Config.GetAppName(), "cybermedium", true).String() + "\n"
}

func (a *App) versionCommand() *Command {
	return &Command{
		Name:    "version",
		Summary: "Print the portal version",
		Run: func(args []string) error {
			fmt.Fprint(a.stdout, a.banner())
			fmt.Fprintf(a.stdout, "portal %s\n", a.Version)
			fmt.Fprintf(a.stdout, "api    %s\n", a.API.BaseURL())
			return nil
		},
	}
}
