package fakeapi

// Route path constants
// All backend endpoints are defined here, relative to the API root
const (
	// Auth endpoints
	RouteAuthLogin    = "/auth/login/"
	RouteAuthRegister = "/auth/register/"
	RouteAuthLogout   = "/auth/logout/"

	// News endpoints
	RouteNews     = "/news/"
	RouteNewsItem = "/news/{id}/"

	// Category endpoints
	RouteCategories   = "/categories/"
	RouteCategoryItem = "/categories/{id}/"

	// User endpoints
	RouteUsers              = "/users/"
	RouteUsersMe            = "/users/me/"
	RouteUserItem           = "/users/{id}/"
	RouteUserChangePassword = "/users/{id}/change_password/"

	// Dashboard endpoints
	RouteDashboardStats = "/dashboard/stats/"

	// Uploaded article images
	RouteMedia = "/media/news/{name}"
)
