package routes

import (
	"strings"

	"campus-dashboard/internal/domain"
)

// Route names referenced by the guard and handlers.
const (
	NameLogin     = "login"
	NameRegister  = "register"
	NameDashboard = "dashboard"
)

// Meta is the per-route metadata consumed by the navigation guard. A route
// without roles is open to any authenticated user.
type Meta struct {
	Public bool
	Roles  []domain.Role
	Label  string
	Icon   string
}

// Route is one static route descriptor.
type Route struct {
	Path string
	Name string
	Meta Meta
}

// Allows reports whether the given role may enter the route. An empty role
// set means unrestricted.
func (r Route) Allows(role domain.Role) bool {
	if len(r.Meta.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Meta.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Table holds the immutable route set, loaded once at startup.
type Table struct {
	routes []Route
	byName map[string]Route
}

func NewTable(routes []Route) *Table {
	byName := make(map[string]Route, len(routes))
	for _, r := range routes {
		byName[r.Name] = r
	}
	return &Table{routes: routes, byName: byName}
}

// Default returns the dashboard's route table.
func Default() *Table {
	all := []domain.Role{domain.RoleConsumer, domain.RoleMerchant, domain.RoleAdmin}
	return NewTable([]Route{
		{Path: "/login", Name: NameLogin, Meta: Meta{Public: true}},
		{Path: "/register", Name: NameRegister, Meta: Meta{Public: true}},
		{Path: "/", Name: NameDashboard, Meta: Meta{Label: "首页", Icon: "🏠", Roles: all}},
		{Path: "/manage/users", Name: "user-management", Meta: Meta{Label: "用户管理", Icon: "👥", Roles: []domain.Role{domain.RoleAdmin}}},
		{Path: "/manage/merchants", Name: "merchant-management", Meta: Meta{Label: "商家管理", Icon: "🏬", Roles: []domain.Role{domain.RoleAdmin}}},
		{Path: "/manage/categories", Name: "category-management", Meta: Meta{Label: "分类管理", Icon: "🗂️", Roles: []domain.Role{domain.RoleAdmin, domain.RoleMerchant}}},
		{Path: "/catalog", Name: "product-management", Meta: Meta{Label: "产品管理", Icon: "📦", Roles: []domain.Role{domain.RoleAdmin, domain.RoleMerchant}}},
		{Path: "/orders", Name: "orders", Meta: Meta{Label: "订单管理", Icon: "📑", Roles: []domain.Role{domain.RoleMerchant}}},
		{Path: "/store", Name: "store", Meta: Meta{Label: "店铺", Icon: "🏬", Roles: []domain.Role{domain.RoleConsumer}}},
		{Path: "/store/:id", Name: "store-detail", Meta: Meta{Roles: []domain.Role{domain.RoleConsumer}}},
		{Path: "/products", Name: "consumer-products", Meta: Meta{Label: "产品", Icon: "🛍️", Roles: []domain.Role{domain.RoleConsumer}}},
		{Path: "/focus", Name: "focus", Meta: Meta{Label: "好物聚焦", Icon: "⭐", Roles: []domain.Role{domain.RoleConsumer, domain.RoleMerchant}}},
		{Path: "/cart", Name: "cart", Meta: Meta{Label: "购物车", Icon: "🛒", Roles: []domain.Role{domain.RoleConsumer}}},
		{Path: "/profile", Name: "profile", Meta: Meta{Label: "个人中心", Icon: "👤", Roles: all}},
		{Path: "/custom", Name: "custom", Meta: Meta{Label: "个性定制", Icon: "🎨", Roles: all}},
		{Path: "/analytics", Name: "analytics", Meta: Meta{Label: "销售分析", Icon: "📈", Roles: []domain.Role{domain.RoleAdmin, domain.RoleMerchant}}},
		{Path: "/stats", Name: "data-stats", Meta: Meta{Label: "数据统计", Icon: "📊", Roles: []domain.Role{domain.RoleAdmin}}},
		{Path: "/community", Name: "community", Meta: Meta{Label: "互动社区", Icon: "💬", Roles: all}},
		{Path: "/terminal", Name: "terminal", Meta: Meta{Label: "模拟终端", Icon: "🖥️", Roles: []domain.Role{domain.RoleAdmin}}},
		{Path: "/focus-admin", Name: "focus-admin", Meta: Meta{Label: "好物聚焦管理", Icon: "⭐", Roles: []domain.Role{domain.RoleAdmin}}},
		{Path: "/system", Name: "system-management", Meta: Meta{Label: "系统管理", Icon: "⚙️", Roles: []domain.Role{domain.RoleAdmin}}},
		{Path: "/health", Name: "health", Meta: Meta{Label: "健康状况", Icon: "❤️‍🩹", Roles: []domain.Role{domain.RoleAdmin}}},
	})
}

// All returns the route set in declaration order.
func (t *Table) All() []Route {
	return t.routes
}

// ByName looks a route up by its name.
func (t *Table) ByName(name string) (Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Match resolves a request path to its route. Unknown paths fall back to
// the dashboard route, mirroring the catch-all redirect of the route table.
func (t *Table) Match(path string) Route {
	path = normalize(path)
	for _, r := range t.routes {
		if matches(r.Path, path) {
			return r
		}
	}
	return t.byName[NameDashboard]
}

// Menu returns the labelled routes visible to the given role, for the
// navigation sidebar.
func (t *Table) Menu(role domain.Role) []Route {
	var visible []Route
	for _, r := range t.routes {
		if r.Meta.Public || r.Meta.Label == "" {
			continue
		}
		if r.Allows(role) {
			visible = append(visible, r)
		}
	}
	return visible
}

func normalize(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// matches compares path segments, treating ":name" pattern segments as
// single-segment wildcards.
func matches(pattern, path string) bool {
	if pattern == path {
		return true
	}
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}
