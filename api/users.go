package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/users"
)

const (
	pathUsers          = "users"
	pathMe             = "users/me/"
	pathDashboardStats = "dashboard/stats/"
)

// ListUsers lists every account. Staff only.
func (c *Client) ListUsers(ctx context.Context) ([]users.User, error) {
	return getList[users.User](ctx, c, pathUsers+"/")
}

// Me fetches the identity behind the current credential.
func (c *Client) Me(ctx context.Context) (users.User, error) {
	var u users.User
	err := c.doJSON(ctx, http.MethodGet, pathMe, nil, &u)
	return u, err
}

// UpdateProfile edits the self-editable fields of user id.
func (c *Client) UpdateProfile(ctx context.Context, id int, profile users.Profile) (users.User, error) {
	var u users.User
	err := c.doJSON(ctx, http.MethodPatch, itemPath(pathUsers, id), profile, &u)
	return u, err
}

// SetStaff grants or revokes staff rights.
func (c *Client) SetStaff(ctx context.Context, id int, staff bool) (users.User, error) {
	var u users.User
	err := c.doJSON(ctx, http.MethodPatch, itemPath(pathUsers, id), map[string]bool{"is_staff": staff}, &u)
	return u, err
}

// SetActive enables or disables an account.
func (c *Client) SetActive(ctx context.Context, id int, active bool) (users.User, error) {
	var u users.User
	err := c.doJSON(ctx, http.MethodPatch, itemPath(pathUsers, id), map[string]bool{"is_active": active}, &u)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(pathUsers, id), nil, nil)
}

// ChangePassword replaces the password of user id after the backend checks old.
func (c *Client) ChangePassword(ctx context.Context, id int, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	return c.doJSON(ctx, http.MethodPost, itemPath(pathUsers, id, "change_password"), body, nil)
}

// DashboardStats fetches the staff dashboard aggregates.
func (c *Client) DashboardStats(ctx context.Context) (news.DashboardStats, error) {
	var stats news.DashboardStats
	err := c.doJSON(ctx, http.MethodGet, pathDashboardStats, nil, &stats)
	return stats, err
}
