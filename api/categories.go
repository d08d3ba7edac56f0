package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-news-portal/news"
)

const pathCategories = "categories"

func (c *Client) ListCategories(ctx context.Context) ([]news.Category, error) {
	return getList[news.Category](ctx, c, pathCategories+"/")
}

func (c *Client) CreateCategory(ctx context.Context, in news.CategoryInput) (news.Category, error) {
	var created news.Category
	err := c.doJSON(ctx, http.MethodPost, pathCategories+"/", in, &created)
	return created, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int, in news.CategoryInput) (news.Category, error) {
	var updated news.Category
	err := c.doJSON(ctx, http.MethodPatch, itemPath(pathCategories, id), in, &updated)
	return updated, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(pathCategories, id), nil, nil)
}
