package views

import (
	"context"
	"fmt"
	"slices"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/users"
)

// RecentCount is how many articles the dashboard lists.
const RecentCount = 10

// DashboardView is the staff overview.
type DashboardView struct {
	view
	stats  news.DashboardStats
	recent []news.Article
}

func NewDashboardView(deps Deps) *DashboardView {
	return &DashboardView{view: view{deps: deps}}
}

// Load fetches the aggregates and the most recent articles.
func (v *DashboardView) Load(ctx context.Context) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	stats, err := v.deps.API.DashboardStats(ctx)
	if err != nil {
		return v.fail(ctx, gen, err, "Failed to load dashboard")
	}
	articles, err := v.deps.API.ListNews(ctx)
	if err != nil {
		return v.fail(ctx, gen, err, "Failed to load dashboard")
	}
	return v.commit(gen, func() {
		v.stats = stats
		v.recent = news.Recent(articles, RecentCount)
	})
}

func (v *DashboardView) Stats() news.DashboardStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

func (v *DashboardView) Recent() []news.Article {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.recent)
}

// TogglePublish flips the publication state of a listed article, then reloads.
func (v *DashboardView) TogglePublish(ctx context.Context, id int) error {
	current, ok := findByID(v.Recent(), id, func(a news.Article) int { return a.ID })
	gen, err := v.begin()
	if err != nil {
		return err
	}
	if !ok {
		return v.notListed(gen, "article", id)
	}
	if _, err := v.deps.API.SetPublished(ctx, id, !current.IsPublished); err != nil {
		return v.fail(ctx, gen, err, "Failed to change publication status")
	}
	if err := v.commit(gen, nil); err != nil {
		return err
	}
	return v.Load(ctx)
}

// UserManagementView lists and administers accounts.
type UserManagementView struct {
	view
	users []users.User
}

func NewUserManagementView(deps Deps) *UserManagementView {
	return &UserManagementView{view: view{deps: deps}}
}

func (v *UserManagementView) Load(ctx context.Context) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	list, err := v.deps.API.ListUsers(ctx)
	if err != nil {
		return v.fail(ctx, gen, err, "Failed to load users")
	}
	return v.commit(gen, func() { v.users = list })
}

func (v *UserManagementView) Users() []users.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.users)
}

// Filtered matches term against username, email and full name.
func (v *UserManagementView) Filtered(term string) []users.User {
	return users.Filter(v.Users(), term)
}

// ToggleStaff grants or revokes staff rights on a listed user.
func (v *UserManagementView) ToggleStaff(ctx context.Context, id int) error {
	return v.toggle(ctx, id, "Failed to change staff status", func(u users.User) error {
		_, err := v.deps.API.SetStaff(ctx, id, !u.IsStaff)
		return err
	})
}

// ToggleActive enables or disables a listed user.
func (v *UserManagementView) ToggleActive(ctx context.Context, id int) error {
	return v.toggle(ctx, id, "Failed to change active status", func(u users.User) error {
		_, err := v.deps.API.SetActive(ctx, id, !u.IsActive)
		return err
	})
}

// Delete removes a user account.
func (v *UserManagementView) Delete(ctx context.Context, id int) error {
	return v.toggle(ctx, id, "Failed to delete user", func(users.User) error {
		return v.deps.API.DeleteUser(ctx, id)
	})
}

func (v *UserManagementView) toggle(ctx context.Context, id int, fallback string, call func(users.User) error) error {
	current, ok := findByID(v.Users(), id, func(u users.User) int { return u.ID })
	gen, err := v.begin()
	if err != nil {
		return err
	}
	if !ok {
		return v.notListed(gen, "user", id)
	}
	if err := call(current); err != nil {
		return v.fail(ctx, gen, err, fallback)
	}
	if err := v.commit(gen, nil); err != nil {
		return err
	}
	return v.Load(ctx)
}

// CategoryManagementView lists and administers categories.
type CategoryManagementView struct {
	view
	categories []news.Category
}

func NewCategoryManagementView(deps Deps) *CategoryManagementView {
	return &CategoryManagementView{view: view{deps: deps}}
}

func (v *CategoryManagementView) Load(ctx context.Context) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	list, err := v.deps.API.ListCategories(ctx)
	if err != nil {
		return v.fail(ctx, gen, err, "Failed to load categories")
	}
	return v.commit(gen, func() { v.categories = list })
}

func (v *CategoryManagementView) Categories() []news.Category {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.categories)
}

// Save creates a category when id is zero and updates category id otherwise.
func (v *CategoryManagementView) Save(ctx context.Context, id int, in news.CategoryInput) (news.Category, error) {
	gen, err := v.begin()
	if err != nil {
		return news.Category{}, err
	}
	if in.Name == "" {
		return news.Category{}, v.invalid(gen, map[string]string{"name": requiredMessage})
	}

	var saved news.Category
	success := "Category added"
	if id == 0 {
		saved, err = v.deps.API.CreateCategory(ctx, in)
	} else {
		saved, err = v.deps.API.UpdateCategory(ctx, id, in)
		success = "Category updated"
	}
	if err != nil {
		return news.Category{}, v.fail(ctx, gen, err, "Failed to save category")
	}
	if err := v.commit(gen, nil); err != nil {
		return news.Category{}, err
	}
	if err := v.Load(ctx); err != nil {
		return saved, err
	}
	v.setSuccess(success)
	return saved, nil
}

// Delete removes a category.
func (v *CategoryManagementView) Delete(ctx context.Context, id int) error {
	gen, err := v.begin()
	if err != nil {
		return err
	}
	if err := v.deps.API.DeleteCategory(ctx, id); err != nil {
		return v.fail(ctx, gen, err, "Failed to delete category. Make sure no news uses it.")
	}
	if err := v.commit(gen, nil); err != nil {
		return err
	}
	if err := v.Load(ctx); err != nil {
		return err
	}
	v.setSuccess("Category deleted")
	return nil
}

func (v *view) setSuccess(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted {
		v.state.Success = message
	}
}

func (v *view) notListed(gen uint64, kind string, id int) error {
	message := fmt.Sprintf("No %s %d in the list", kind, id)
	if err := v.commit(gen, func() { v.state.Error = message }); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", errors.ErrNotFound, message)
}

func findByID[T any](list []T, id int, idOf func(T) int) (T, bool) {
	for _, item := range list {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
