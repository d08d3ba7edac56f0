package news

import (
	"io"
	"strings"

	"github.com/jrsteele09/go-news-portal/users"
)

// Category groups articles. NewsCount only counts published articles.
type Category struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedAt   users.Timestamp `json:"created_at,omitzero"`
	NewsCount   int             `json:"news_count"`
}

// Article is a news item as returned by the backend.
type Article struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Image       string          `json:"image,omitempty"` // URL of the optional attachment
	Category    Category        `json:"category"`
	Author      users.User      `json:"author"`
	CreatedAt   users.Timestamp `json:"created_at,omitzero"`
	UpdatedAt   users.Timestamp `json:"updated_at,omitzero"`
	IsPublished bool            `json:"is_published"`
}

// DashboardStats is the aggregate read behind the staff dashboard.
type DashboardStats struct {
	TotalNews       int `json:"total_news"`
	PublishedNews   int `json:"published_news"`
	TotalUsers      int `json:"total_users"`
	TotalCategories int `json:"total_categories"`
}

// Drafts is the number of unpublished articles.
func (s DashboardStats) Drafts() int {
	return s.TotalNews - s.PublishedNews
}

// CategoryInput is the body for creating or editing a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Image is an optional attachment sent with an article form.
type Image struct {
	Filename string
	Content  io.Reader
}

// ArticleInput is the multipart form for creating or editing an article.
type ArticleInput struct {
	Title       string
	Content     string
	CategoryID  int
	IsPublished bool
	Image       *Image
}

// MissingFields lists the required fields left empty, in form order.
func (in ArticleInput) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Content) == "" {
		missing = append(missing, "content")
	}
	if in.CategoryID <= 0 {
		missing = append(missing, "category_id")
	}
	return missing
}

// Filter keeps the articles whose title or content contains search
// (case-insensitive) and, when categoryID is non-zero, that belong to it.
func Filter(articles []Article, search string, categoryID int) []Article {
	search = strings.ToLower(search)
	filtered := make([]Article, 0, len(articles))
	for _, a := range articles {
		matchesSearch := strings.Contains(strings.ToLower(a.Title), search) ||
			strings.Contains(strings.ToLower(a.Content), search)
		matchesCategory := categoryID == 0 || a.Category.ID == categoryID
		if matchesSearch && matchesCategory {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// Recent returns at most n leading articles. The backend already orders them
// newest first.
func Recent(articles []Article, n int) []Article {
	if n < 0 {
		n = 0
	}
	if len(articles) <= n {
		return articles
	}
	return articles[:n]
}

// Excerpt shortens content to at most n runes, marking the cut with an ellipsis.
func Excerpt(content string, n int) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= n {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
