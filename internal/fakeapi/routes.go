package fakeapi

import "net/http"

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRoute(http.MethodPost, RouteAuthLogin, s.LoginHandler())
	s.RegisterRoute(http.MethodPost, RouteAuthRegister, s.RegisterHandler())
	s.RegisterRoute(http.MethodPost, RouteAuthLogout, s.LogoutHandler(), s.RequireAuth)

	// NEWS
	s.RegisterRoute(http.MethodGet, RouteNews, s.ListNewsHandler())
	s.RegisterRoute(http.MethodPost, RouteNews, s.CreateNewsHandler(), s.RequireAuth)
	s.RegisterRoute(http.MethodGet, RouteNewsItem, s.GetNewsHandler())
	s.RegisterRoute(http.MethodPatch, RouteNewsItem, s.UpdateNewsHandler(), s.RequireAuth)
	s.RegisterRoute(http.MethodPut, RouteNewsItem, s.UpdateNewsHandler(), s.RequireAuth)
	s.RegisterRoute(http.MethodDelete, RouteNewsItem, s.DeleteNewsHandler(), s.RequireAuth)

	// CATEGORIES
	s.RegisterRoute(http.MethodGet, RouteCategories, s.ListCategoriesHandler())
	s.RegisterRoute(http.MethodPost, RouteCategories, s.CreateCategoryHandler(), s.RequireAuth, s.RequireStaff)
	s.RegisterRoute(http.MethodGet, RouteCategoryItem, s.GetCategoryHandler())
	s.RegisterRoute(http.MethodPatch, RouteCategoryItem, s.UpdateCategoryHandler(), s.RequireAuth, s.RequireStaff)
	s.RegisterRoute(http.MethodPut, RouteCategoryItem, s.UpdateCategoryHandler(), s.RequireAuth, s.RequireStaff)
	s.RegisterRoute(http.MethodDelete, RouteCategoryItem, s.DeleteCategoryHandler(), s.RequireAuth, s.RequireStaff)

	// USERS
	s.RegisterRoute(http.MethodGet, RouteUsers, s.ListUsersHandler(), s.RequireAuth, s.RequireStaff)
	s.RegisterRoute(http.MethodGet, RouteUsersMe, s.MeHandler(), s.RequireAuth)
	s.RegisterRoute(http.MethodGet, RouteUserItem, s.GetUserHandler(), s.RequireAuth, s.RequireSelfOrStaff)
	s.RegisterRoute(http.MethodPatch, RouteUserItem, s.UpdateUserHandler(), s.RequireAuth, s.RequireSelfOrStaff)
	s.RegisterRoute(http.MethodPut, RouteUserItem, s.UpdateUserHandler(), s.RequireAuth, s.RequireSelfOrStaff)
	s.RegisterRoute(http.MethodDelete, RouteUserItem, s.DeleteUserHandler(), s.RequireAuth, s.RequireStaff)
	s.RegisterRoute(http.MethodPost, RouteUserChangePassword, s.ChangePasswordHandler(), s.RequireAuth, s.RequireSelf)

	// DASHBOARD
	s.RegisterRoute(http.MethodGet, RouteDashboardStats, s.DashboardStatsHandler(), s.RequireAuth)

	// MEDIA
	s.RegisterRoute(http.MethodGet, RouteMedia, s.MediaHandler())

	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, `Method "`+r.Method+`" not allowed.`)
	})
}
