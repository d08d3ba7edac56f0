package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-news-portal/news"
)

const pathNews = "news"

// ListNews lists the articles visible to the current session.
func (c *Client) ListNews(ctx context.Context) ([]news.Article, error) {
	return getList[news.Article](ctx, c, pathNews+"/")
}

// GetNews fetches one article.
func (c *Client) GetNews(ctx context.Context, id int) (news.Article, error) {
	var a news.Article
	err := c.doJSON(ctx, http.MethodGet, itemPath(pathNews, id), nil, &a)
	return a, err
}

// CreateNews posts a new article as a multipart form.
func (c *Client) CreateNews(ctx context.Context, in news.ArticleInput) (news.Article, error) {
	return c.sendArticle(ctx, http.MethodPost, pathNews+"/", in)
}

// UpdateNews replaces an article's fields with a multipart PATCH. The image
// is only sent when in carries one.
func (c *Client) UpdateNews(ctx context.Context, id int, in news.ArticleInput) (news.Article, error) {
	return c.sendArticle(ctx, http.MethodPatch, itemPath(pathNews, id), in)
}

// SetPublished flips an article between draft and published.
func (c *Client) SetPublished(ctx context.Context, id int, published bool) (news.Article, error) {
	var a news.Article
	err := c.doJSON(ctx, http.MethodPatch, itemPath(pathNews, id), map[string]bool{"is_published": published}, &a)
	return a, err
}

// DeleteNews removes an article.
func (c *Client) DeleteNews(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(pathNews, id), nil, nil)
}

func (c *Client) sendArticle(ctx context.Context, method, path string, in news.ArticleInput) (news.Article, error) {
	body, contentType, err := encodeArticleForm(in)
	if err != nil {
		return news.Article{}, fmt.Errorf("[api.sendArticle] %w", err)
	}
	var a news.Article
	err = c.do(ctx, method, path, body, contentType, &a)
	return a, err
}

func encodeArticleForm(in news.ArticleInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", in.Title},
		{"content", in.Content},
		{"category_id", categoryField(in.CategoryID)},
		{"is_published", strconv.FormatBool(in.IsPublished)},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	if in.Image != nil && in.Image.Content != nil {
		part, err := form.CreateFormFile("image", in.Image.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part: %w", err)
		}
		if _, err := io.Copy(part, in.Image.Content); err != nil {
			return nil, "", fmt.Errorf("copying image: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return &buf, form.FormDataContentType(), nil
}

// categoryField leaves an unselected category blank, as a browser form would.
func categoryField(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
