package gate

// Route path constants
// All navigable views are defined here to ensure consistency and prevent typos
const (
	// Public views
	RouteHome       = "/"
	RouteNewsDetail = "/news/{id}"

	// Guest views, only meaningful without a session
	RouteLogin    = "/login"
	RouteRegister = "/register"

	// Authenticated views
	RouteNewsCreate = "/news/create"
	RouteNewsEdit   = "/news/edit/{id}"
	RouteProfile    = "/profile"

	// Staff views
	RouteDashboard       = "/dashboard"
	RouteAdminUsers      = "/admin/users"
	RouteAdminCategories = "/admin/categories"
)

// Visibility classifies who may render a view.
type Visibility int

const (
	Public Visibility = iota
	GuestOnly
	Authenticated
	StaffOnly
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case GuestOnly:
		return "guest"
	case Authenticated:
		return "authenticated"
	case StaffOnly:
		return "staff"
	default:
		return "unknown"
	}
}

// Route binds a path pattern to its visibility.
type Route struct {
	Pattern    string
	Visibility Visibility
}

// DefaultRoutes is the portal's navigation table.
var DefaultRoutes = []Route{
	{Pattern: RouteHome, Visibility: Public},
	{Pattern: RouteLogin, Visibility: GuestOnly},
	{Pattern: RouteRegister, Visibility: GuestOnly},
	{Pattern: RouteDashboard, Visibility: StaffOnly},
	{Pattern: RouteNewsCreate, Visibility: Authenticated},
	{Pattern: RouteNewsEdit, Visibility: Authenticated},
	{Pattern: RouteNewsDetail, Visibility: Public},
	{Pattern: RouteProfile, Visibility: Authenticated},
	{Pattern: RouteAdminUsers, Visibility: StaffOnly},
	{Pattern: RouteAdminCategories, Visibility: StaffOnly},
}

// Fallback is where a denied navigation for visibility v is sent.
func Fallback(v Visibility) string {
	switch v {
	case Authenticated:
		return RouteLogin
	default:
		return RouteHome
	}
}
