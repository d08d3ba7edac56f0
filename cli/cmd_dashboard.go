package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/jrsteele09/go-news-portal/gate"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/views"
	"github.com/spf13/pflag"
)

func (a *App) dashboardCommand() *Command {
	var asJSON bool
	return &Command{
		Name:    "dashboard",
		Summary: "Show site statistics and recent articles",
		Route:   gate.RouteDashboard,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
			flags.BoolVar(&asJSON, "json", false, "print statistics and recent articles as JSON")
			return flags
		},
		Run: func(args []string) error {
			v := views.NewDashboardView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx); err != nil {
				return a.refused(v, err)
			}
			if asJSON {
				return a.printJSON(struct {
					Stats  news.DashboardStats `json:"stats"`
					Recent []news.Article      `json:"recent"`
				}{v.Stats(), v.Recent()})
			}
			return a.printDashboard(v)
		},
		Subcommands: []*Command{
			{
				Name:    "toggle",
				Summary: "Publish or unpublish one of the recent articles",
				Usage:   "portal dashboard toggle <id>",
				Route:   gate.RouteDashboard,
				Run: func(args []string) error {
					if len(args) == 0 {
						return fmt.Errorf("missing ID argument")
					}
					id, err := parseID(args[0])
					if err != nil {
						return err
					}
					v := views.NewDashboardView(a.deps())
					v.Mount()
					defer v.Unmount()
					if err := v.Load(a.ctx); err != nil {
						return a.refused(v, err)
					}
					if err := v.TogglePublish(a.ctx, id); err != nil {
						return a.refused(v, err)
					}
					return a.printDashboard(v)
				},
			},
		},
	}
}

func (a *App) printDashboard(v *views.DashboardView) error {
	stats := v.Stats()
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total news:\t%d\n", stats.TotalNews)
	fmt.Fprintf(tw, "Published:\t%d\n", stats.PublishedNews)
	fmt.Fprintf(tw, "Drafts:\t%d\n", stats.Drafts())
	fmt.Fprintf(tw, "Users:\t%d\n", stats.TotalUsers)
	fmt.Fprintf(tw, "Categories:\t%d\n", stats.TotalCategories)
	if err := tw.Flush(); err != nil {
		return err
	}

	recent := v.Recent()
	if len(recent) == 0 {
		return nil
	}
	fmt.Fprintln(a.stdout, "\nRecent news:")
	rows := make([][]string, 0, len(recent))
	for _, article := range recent {
		rows = append(rows, []string{
			strconv.Itoa(article.ID),
			news.Excerpt(article.Title, excerptLength),
			article.Author.Username,
			a.paint.Published(article.IsPublished),
		})
	}
	return a.table([]string{"ID", "TITLE", "AUTHOR", "STATUS"}, rows)
}
