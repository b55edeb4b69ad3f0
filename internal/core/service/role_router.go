package service

import (
	"github.com/medicare/portal/internal/core/domain"
)

// Decision is the outcome of a navigation check. Redirect is set when Allow
// is false.
type Decision struct {
	Allow    bool
	Redirect string
}

// RoleRouter decides where a visitor may go based on their identity.
type RoleRouter struct {
	routes map[domain.Role]domain.Route
}

// NewRoleRouter uses routes as the role → dashboard table; nil means the
// default table.
func NewRoleRouter(routes map[domain.Role]domain.Route) *RoleRouter {
	if routes == nil {
		routes = domain.DashboardRoutes
	}
	return &RoleRouter{routes: routes}
}

// Dashboard returns the landing route of role.
func (r *RoleRouter) Dashboard(role domain.Role) (domain.Route, bool) {
	route, ok := r.routes[role]
	return route, ok
}

// Routes exposes the table, mainly for listing.
func (r *RoleRouter) Routes() map[domain.Role]domain.Route {
	return r.routes
}

// Resolve applies the navigation rules to a request for path:
//   - anonymous visitors only reach the login view;
//   - a recognised role visiting "/" or "/login" lands on its dashboard;
//   - an unrecognised role is treated as logged out, and the login view
//     itself is served so there is no redirect loop.
func (r *RoleRouter) Resolve(identity *domain.Identity, path string) Decision {
	if identity == nil {
		if path == domain.PathLogin {
			return Decision{Allow: true}
		}
		return Decision{Redirect: domain.PathLogin}
	}

	route, known := r.routes[identity.Role]
	if !known {
		if path == domain.PathLogin {
			return Decision{Allow: true}
		}
		return Decision{Redirect: domain.PathLogin}
	}

	if path == domain.PathRoot || path == domain.PathLogin {
		return Decision{Redirect: route.Path}
	}
	return Decision{Allow: true}
}

// Permits is the view-mount check: the identity must hold one of roles.
func (r *RoleRouter) Permits(identity *domain.Identity, roles ...domain.Role) bool {
	if identity == nil {
		return false
	}
	for _, role := range roles {
		if identity.Role == role {
			return true
		}
	}
	return false
}
