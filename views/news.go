package views

import (
	"context"
	"slices"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/news"
)

// HomeView is the public front page.
type HomeView struct {
	view
	articles   []news.Article
	categories []news.Category
}

func NewHomeView(deps Deps) *HomeView {
	return &HomeView{view: view{deps: deps}}
}

// Load fetches articles and categories. Only the articles are essential: a
// category failure is logged and leaves the filter empty.
func (v *HomeView) Load(ctx context.Context) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	articles, err := v.deps.API.ListNews(ctx)
	if err != nil {
		return v.fail(ctx, gen, err, "Failed to load news")
	}
	categories, err := v.deps.API.ListCategories(ctx)
	if err != nil {
		v.deps.logger().Warn().Err(err).Msg("Failed to load categories")
		categories = nil
	}
	return v.commit(gen, func() {
		v.articles = articles
		v.categories = categories
	})
}

func (v *HomeView) Articles() []news.Article {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.articles)
}

func (v *HomeView) Categories() []news.Category {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.categories)
}

// Filtered applies the search box and category selector.
func (v *HomeView) Filtered(search string, categoryID int) []news.Article {
	return news.Filter(v.Articles(), search, categoryID)
}

// NewsDetailView shows one article.
type NewsDetailView struct {
	view
	article *news.Article
	deleted bool
}

func NewNewsDetailView(deps Deps) *NewsDetailView {
	return &NewsDetailView{view: view{deps: deps}}
}

func (v *NewsDetailView) Load(ctx context.Context, id int) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	a, err := v.deps.API.GetNews(ctx, id)
	if err != nil {
		return v.fail(ctx, gen, err, "News not found")
	}
	return v.commit(gen, func() {
		v.article = &a
		v.deleted = false
	})
}

// Article returns the loaded article, or nil.
func (v *NewsDetailView) Article() *news.Article {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.article == nil {
		return nil
	}
	a := *v.article
	return &a
}

// CanEdit reports whether the edit and delete controls are offered: staff,
// or the article's author. The backend still decides.
func (v *NewsDetailView) CanEdit() bool {
	a := v.Article()
	if a == nil {
		return false
	}
	return v.deps.Store.Identity().CanEditAuthoredBy(a.Author.ID)
}

// Deleted reports whether the article was removed from this view.
func (v *NewsDetailView) Deleted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deleted
}

// Delete removes the loaded article.
func (v *NewsDetailView) Delete(ctx context.Context) error {
	a := v.Article()
	gen, err := v.begin()
	if err != nil {
		return err
	}
	if a == nil {
		if err := v.commit(gen, func() { v.state.Error = "Nothing to delete" }); err != nil {
			return err
		}
		return errors.ErrNotFound
	}
	if err := v.deps.API.DeleteNews(ctx, a.ID); err != nil {
		return v.fail(ctx, gen, err, "Failed to delete news")
	}
	return v.commit(gen, func() {
		v.article = nil
		v.deleted = true
		v.state.Success = "News deleted"
	})
}

// NewsFormView creates or edits an article.
type NewsFormView struct {
	view
	categories []news.Category
	editing    *news.Article
}

func NewNewsFormView(deps Deps) *NewsFormView {
	return &NewsFormView{view: view{deps: deps}}
}

func (v *NewsFormView) LoadCategories(ctx context.Context) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	categories, err := v.deps.API.ListCategories(ctx)
	if err != nil {
		return v.fail(ctx, gen, err, "Failed to load categories")
	}
	return v.commit(gen, func() { v.categories = categories })
}

// LoadArticle switches the form to editing id and returns its current values.
func (v *NewsFormView) LoadArticle(ctx context.Context, id int) (news.ArticleInput, error) {
	gen, err := v.begin()
	if err != nil {
		return news.ArticleInput{}, err
	}
	a, err := v.deps.API.GetNews(ctx, id)
	if err != nil {
		return news.ArticleInput{}, v.fail(ctx, gen, err, "News not found")
	}
	if err := v.commit(gen, func() { v.editing = &a }); err != nil {
		return news.ArticleInput{}, err
	}
	return news.ArticleInput{
		Title:       a.Title,
		Content:     a.Content,
		CategoryID:  a.Category.ID,
		IsPublished: a.IsPublished,
	}, nil
}

func (v *NewsFormView) Categories() []news.Category {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.categories)
}

// Editing reports whether the form edits an existing article.
func (v *NewsFormView) Editing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editing != nil
}

// Submit creates the article, or updates the one loaded with LoadArticle.
func (v *NewsFormView) Submit(ctx context.Context, in news.ArticleInput) (news.Article, error) {
	v.mu.Lock()
	editing := v.editing
	v.mu.Unlock()

	gen, err := v.begin()
	if err != nil {
		return news.Article{}, err
	}
	if missing := in.MissingFields(); len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, name := range missing {
			fields[name] = requiredMessage
		}
		return news.Article{}, v.invalid(gen, fields)
	}

	var saved news.Article
	if editing != nil {
		saved, err = v.deps.API.UpdateNews(ctx, editing.ID, in)
	} else {
		saved, err = v.deps.API.CreateNews(ctx, in)
	}
	if err != nil {
		return news.Article{}, v.fail(ctx, gen, err, "Failed to save news")
	}
	if err := v.commit(gen, func() {
		v.editing = &saved
		v.state.Success = "News saved"
	}); err != nil {
		return news.Article{}, err
	}
	return saved, nil
}
