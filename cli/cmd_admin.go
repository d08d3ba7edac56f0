package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-news-portal/gate"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/jrsteele09/go-news-portal/views"
	"github.com/spf13/pflag"
)

func (a *App) categoriesCommand() *Command {
	return &Command{
		Name:    "categories",
		Summary: "List and manage categories",
		Subcommands: []*Command{
			a.categoriesListCommand(),
			a.categorySaveCommand("create"),
			a.categorySaveCommand("update"),
			a.categoriesDeleteCommand(),
		},
	}
}

// categoriesListCommand reads categories from the public front page, so any
// visitor can list them.
func (a *App) categoriesListCommand() *Command {
	var asJSON bool
	return &Command{
		Name:    "list",
		Summary: "List categories",
		Route:   gate.RouteHome,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.BoolVar(&asJSON, "json", false, "print categories as JSON")
			return flags
		},
		Run: func(args []string) error {
			v := views.NewHomeView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx); err != nil {
				return a.refused(v, err)
			}
			categories := v.Categories()
			if asJSON {
				return a.printJSON(categories)
			}
			return a.categoryTable(categories)
		},
	}
}

func (a *App) categoryTable(categories []news.Category) error {
	if len(categories) == 0 {
		fmt.Fprintln(a.stdout, "No categories")
		return nil
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, strconv.Itoa(c.NewsCount), c.Description})
	}
	return a.table([]string{"ID", "NAME", "ARTICLES", "DESCRIPTION"}, rows)
}

// categorySaveCommand builds "create" and "update"; update takes an ID and
// keeps the fields that were not given.
func (a *App) categorySaveCommand(name string) *Command {
	var (
		in    news.CategoryInput
		flags *pflag.FlagSet
	)
	cmd := &Command{
		Name:    name,
		Summary: "Add a category",
		Usage:   "portal categories create --name <name> [flags]",
		Route:   gate.RouteAdminCategories,
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet(name, pflag.ContinueOnError)
			flags.StringVarP(&in.Name, "name", "n", "", "category name")
			flags.StringVarP(&in.Description, "description", "d", "", "category description")
			return flags
		},
	}
	if name == "update" {
		cmd.Summary = "Rename or describe a category"
		cmd.Usage = "portal categories update <id> [flags]"
	}

	cmd.Run = func(args []string) error {
		id := 0
		if name == "update" {
			if len(args) == 0 {
				return fmt.Errorf("missing ID argument")
			}
			parsed, err := parseID(args[0])
			if err != nil {
				return err
			}
			id = parsed
		}

		v := views.NewCategoryManagementView(a.deps())
		v.Mount()
		defer v.Unmount()
		if err := v.Load(a.ctx); err != nil {
			return a.refused(v, err)
		}
		input := in
		if id > 0 {
			for _, existing := range v.Categories() {
				if existing.ID != id {
					continue
				}
				if !flags.Changed("name") {
					input.Name = existing.Name
				}
				if !flags.Changed("description") {
					input.Description = existing.Description
				}
			}
		}
		saved, err := v.Save(a.ctx, id, input)
		if err != nil {
			return a.refused(v, err)
		}
		a.succeeded(v, "")
		fmt.Fprintf(a.stdout, "Category %d: %s\n", saved.ID, saved.Name)
		return nil
	}
	return cmd
}

func (a *App) categoriesDeleteCommand() *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete a category and its articles",
		Usage:   "portal categories delete <id>",
		Route:   gate.RouteAdminCategories,
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("missing ID argument")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := views.NewCategoryManagementView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx); err != nil {
				return a.refused(v, err)
			}
			if err := v.Delete(a.ctx, id); err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, "")
			return nil
		},
	}
}

func (a *App) usersCommand() *Command {
	return &Command{
		Name:    "users",
		Summary: "Administer accounts",
		Subcommands: []*Command{
			a.usersListCommand(),
			a.userActionCommand("staff", "Grant or revoke staff rights", "Staff status of user %d changed", (*views.UserManagementView).ToggleStaff),
			a.userActionCommand("active", "Activate or deactivate an account", "Active status of user %d changed", (*views.UserManagementView).ToggleActive),
			a.userActionCommand("delete", "Delete an account and its articles", "User %d deleted", (*views.UserManagementView).Delete),
		},
	}
}

func (a *App) usersListCommand() *Command {
	var (
		search string
		asJSON bool
	)
	return &Command{
		Name:    "list",
		Summary: "List accounts",
		Route:   gate.RouteAdminUsers,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVarP(&search, "search", "s", "", "match username, email or name")
			flags.BoolVar(&asJSON, "json", false, "print accounts as JSON")
			return flags
		},
		Run: func(args []string) error {
			v := views.NewUserManagementView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx); err != nil {
				return a.refused(v, err)
			}
			list := v.Filtered(search)
			if asJSON {
				return a.printJSON(list)
			}
			return a.userTable(list)
		},
	}
}

func (a *App) userTable(list []users.User) error {
	if len(list) == 0 {
		fmt.Fprintln(a.stdout, "No users found")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{
			strconv.Itoa(u.ID),
			u.Username,
			u.FullName(),
			u.Email,
			a.paint.Flag(u.IsStaff),
			a.paint.Flag(u.IsActive),
		})
	}
	return a.table([]string{"ID", "USERNAME", "NAME", "EMAIL", "STAFF", "ACTIVE"}, rows)
}

// userActionCommand runs one of the per-row actions of the user list.
func (a *App) userActionCommand(name, summary, done string, action func(*views.UserManagementView, context.Context, int) error) *Command {
	return &Command{
		Name:    name,
		Summary: summary,
		Usage:   fmt.Sprintf("portal users %s <id>", name),
		Route:   gate.RouteAdminUsers,
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("missing ID argument")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := views.NewUserManagementView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx); err != nil {
				return a.refused(v, err)
			}
			if err := action(v, a.ctx, id); err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, fmt.Sprintf(done, id))
			return nil
		},
	}
}
