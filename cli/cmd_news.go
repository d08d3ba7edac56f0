package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-news-portal/gate"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/views"
	"github.com/spf13/pflag"
)

const excerptLength = 60

func (a *App) newsCommand() *Command {
	return &Command{
		Name:    "news",
		Summary: "Browse and edit articles",
		Subcommands: []*Command{
			a.newsListCommand(),
			a.newsShowCommand(),
			a.newsCreateCommand(),
			a.newsEditCommand(),
			a.newsDeleteCommand(),
			a.newsPublishCommand(),
		},
	}
}

func (a *App) newsListCommand() *Command {
	var (
		search   string
		category string
		asJSON   bool
	)
	return &Command{
		Name:    "list",
		Summary: "List articles",
		Route:   gate.RouteHome,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVarP(&search, "search", "s", "", "match title or content")
			flags.StringVarP(&category, "category", "c", "", "category name or ID")
			flags.BoolVar(&asJSON, "json", false, "print articles as JSON")
			return flags
		},
		Run: func(args []string) error {
			v := views.NewHomeView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx); err != nil {
				return a.refused(v, err)
			}

			categoryID := 0
			if category != "" {
				id, err := resolveCategory(v.Categories(), category)
				if err != nil {
					return err
				}
				categoryID = id
			}
			articles := v.Filtered(search, categoryID)
			if asJSON {
				return a.printJSON(articles)
			}
			if len(articles) == 0 {
				fmt.Fprintln(a.stdout, "No news found")
				return nil
			}
			rows := make([][]string, 0, len(articles))
			for _, article := range articles {
				rows = append(rows, []string{
					strconv.Itoa(article.ID),
					news.Excerpt(article.Title, excerptLength),
					article.Category.Name,
					article.Author.DisplayName(),
					article.CreatedAt.Format("2006-01-02"),
					a.paint.Published(article.IsPublished),
				})
			}
			return a.table([]string{"ID", "TITLE", "CATEGORY", "AUTHOR", "CREATED", "STATUS"}, rows)
		},
	}
}

func (a *App) newsShowCommand() *Command {
	var asJSON bool
	return &Command{
		Name:    "show",
		Summary: "Show one article",
		Usage:   "portal news show <id> [flags]",
		Route:   gate.RouteNewsDetail,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flags.BoolVar(&asJSON, "json", false, "print the article as JSON")
			return flags
		},
		Run: func(args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := views.NewNewsDetailView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx, id); err != nil {
				return a.refused(v, err)
			}
			article := v.Article()
			if asJSON {
				return a.printJSON(article)
			}

			fmt.Fprintf(a.stdout, "%s\n%s\n", article.Title, strings.Repeat("=", len(article.Title)))
			fmt.Fprintf(a.stdout, "%s | %s | %s | %s\n",
				article.Category.Name,
				article.Author.DisplayName(),
				article.CreatedAt.Format("2 Jan 2006 15:04"),
				a.paint.Published(article.IsPublished))
			if article.Image != "" {
				fmt.Fprintf(a.stdout, "Image: %s\n", article.Image)
			}
			fmt.Fprintf(a.stdout, "\n%s\n", article.Content)
			if v.CanEdit() {
				fmt.Fprintf(a.stdout, "\nEdit with 'portal news edit %d', delete with 'portal news delete %d'.\n", article.ID, article.ID)
			}
			return nil
		},
	}
}

// articleFlags are the form fields shared by create and edit.
type articleFlags struct {
	title       string
	content     string
	contentFile string
	category    string
	publish     bool
	image       string
}

func (f *articleFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&f.title, "title", "t", "", "article title")
	flags.StringVar(&f.content, "content", "", "article body")
	flags.StringVar(&f.contentFile, "content-file", "", "read the body from a file, - for stdin")
	flags.StringVarP(&f.category, "category", "c", "", "category name or ID")
	flags.BoolVar(&f.publish, "publish", false, "publish immediately")
	flags.StringVar(&f.image, "image", "", "path of an image to attach")
}

// applyArticleFlags copies the flags that were set onto in. The returned function closes
// an attached image.
func (a *App) applyArticleFlags(f *articleFlags, flags *pflag.FlagSet, categories []news.Category, in *news.ArticleInput) (func(), error) {
	if flags.Changed("title") {
		in.Title = f.title
	}
	if flags.Changed("content") {
		in.Content = f.content
	}
	if f.contentFile != "" {
		content, err := readContent(f.contentFile, a.stdin)
		if err != nil {
			return nil, err
		}
		in.Content = content
	}
	if flags.Changed("category") {
		id, err := resolveCategory(categories, f.category)
		if err != nil {
			return nil, err
		}
		in.CategoryID = id
	}
	if flags.Changed("publish") {
		in.IsPublished = f.publish
	}
	if f.image == "" {
		return func() {}, nil
	}
	file, err := os.Open(f.image)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	in.Image = &news.Image{Filename: filepath.Base(f.image), Content: file}
	return func() { file.Close() }, nil
}

func (a *App) newsCreateCommand() *Command {
	var (
		f     articleFlags
		flags *pflag.FlagSet
	)
	return &Command{
		Name:    "create",
		Summary: "Write a new article",
		Route:   gate.RouteNewsCreate,
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet("create", pflag.ContinueOnError)
			f.register(flags)
			return flags
		},
		Run: func(args []string) error {
			v := views.NewNewsFormView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.LoadCategories(a.ctx); err != nil {
				return a.refused(v, err)
			}

			var in news.ArticleInput
			release, err := a.applyArticleFlags(&f, flags, v.Categories(), &in)
			if err != nil {
				return err
			}
			defer release()

			saved, err := v.Submit(a.ctx, in)
			if err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, "")
			fmt.Fprintf(a.stdout, "Article %d: %s (%s)\n", saved.ID, saved.Title, a.paint.Published(saved.IsPublished))
			return nil
		},
	}
}

func (a *App) newsEditCommand() *Command {
	var (
		f     articleFlags
		flags *pflag.FlagSet
	)
	return &Command{
		Name:    "edit",
		Summary: "Change an article",
		Usage:   "portal news edit <id> [flags]",
		Route:   gate.RouteNewsEdit,
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet("edit", pflag.ContinueOnError)
			f.register(flags)
			return flags
		},
		Run: func(args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := views.NewNewsFormView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.LoadCategories(a.ctx); err != nil {
				return a.refused(v, err)
			}
			in, err := v.LoadArticle(a.ctx, id)
			if err != nil {
				return a.refused(v, err)
			}
			release, err := a.applyArticleFlags(&f, flags, v.Categories(), &in)
			if err != nil {
				return err
			}
			defer release()

			saved, err := v.Submit(a.ctx, in)
			if err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, "")
			fmt.Fprintf(a.stdout, "Article %d: %s (%s)\n", saved.ID, saved.Title, a.paint.Published(saved.IsPublished))
			return nil
		},
	}
}

func (a *App) newsPublishCommand() *Command {
	var draft bool
	return &Command{
		Name:    "publish",
		Summary: "Publish an article, or return it to draft",
		Usage:   "portal news publish <id> [--draft]",
		Route:   gate.RouteNewsEdit,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("publish", pflag.ContinueOnError)
			flags.BoolVar(&draft, "draft", false, "unpublish instead")
			return flags
		},
		Run: func(args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := views.NewNewsFormView(a.deps())
			v.Mount()
			defer v.Unmount()
			in, err := v.LoadArticle(a.ctx, id)
			if err != nil {
				return a.refused(v, err)
			}
			in.IsPublished = !draft
			saved, err := v.Submit(a.ctx, in)
			if err != nil {
				return a.refused(v, err)
			}
			fmt.Fprintf(a.stdout, "Article %d is now %s\n", saved.ID, a.paint.Published(saved.IsPublished))
			return nil
		},
	}
}

func (a *App) newsDeleteCommand() *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete an article",
		Usage:   "portal news delete <id>",
		Route:   gate.RouteNewsDetail,
		Run: func(args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := views.NewNewsDetailView(a.deps())
			v.Mount()
			defer v.Unmount()
			if err := v.Load(a.ctx, id); err != nil {
				return a.refused(v, err)
			}
			if !v.CanEdit() {
				fmt.Fprintln(a.stderr, "Only staff or the author can delete this article")
				return &ExitError{Code: ExitFailure}
			}
			if err := v.Delete(a.ctx); err != nil {
				return a.refused(v, err)
			}
			a.succeeded(v, "News deleted")
			return nil
		},
	}
}

// resolveCategory accepts a category ID or a case-insensitive name.
func resolveCategory(categories []news.Category, value string) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, value) {
			return c.ID, nil
		}
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return 0, fmt.Errorf("unknown category %q (known: %s)", value, strings.Join(names, ", "))
}
