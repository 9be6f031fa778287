package ui

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/templui/portfolio/internal/access"
	"github.com/templui/portfolio/internal/model"
)

const (
	navItemBase     = "flex items-center space-x-2 px-4 py-2 rounded-lg transition-all duration-200"
	navItemActive   = "bg-linear-to-r from-blue-500 to-purple-600 text-white shadow-lg"
	navItemInactive = "text-gray-700 hover:text-blue-600 hover:bg-blue-50"

	badgeBase  = "inline-flex items-center px-2 py-0.5 rounded-full text-xs font-medium border"
	badgeAdmin = "bg-red-100 text-red-800 border-red-200"
	badgeUser  = "bg-gray-100 text-gray-800 border-gray-200"
)

type NavItem struct {
	Name   string `json:"name"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
	Class  string `json:"class"`
}

// Nav is everything the navigation bar needs to render for one session.
type Nav struct {
	Authenticated  bool            `json:"authenticated"`
	DisplayName    string          `json:"displayName"`
	Role           model.Role      `json:"role,omitempty"`
	RoleName       string          `json:"roleName"`
	RoleBadgeClass string          `json:"roleBadgeClass"`
	DashboardRoute string          `json:"dashboardRoute"`
	IsOAuthUser    bool            `json:"isOAuthUser"`
	ProviderName   string          `json:"providerName"`
	Features       access.Features `json:"features"`
	Items          []NavItem       `json:"items"`
}

// BuildNav derives the navigation for a session; session is nil for guests.
func BuildNav(session *model.SessionView, currentPath string) Nav {
	nav := Nav{
		DisplayName:    DisplayName(session),
		RoleName:       "User",
		RoleBadgeClass: RoleBadgeClass(""),
		DashboardRoute: access.DashboardRoute(""),
		ProviderName:   ProviderName(""),
	}

	if session != nil {
		nav.Authenticated = true
		nav.Role = session.Role
		nav.RoleName = RoleName(session.Role)
		nav.RoleBadgeClass = RoleBadgeClass(session.Role)
		nav.DashboardRoute = access.DashboardRoute(session.Role)
		nav.IsOAuthUser = session.AuthProvider.Federated()
		nav.ProviderName = ProviderName(session.AuthProvider)
		nav.Features = access.FeaturesFor(session.Role)
	}

	nav.Items = navItems(nav, currentPath)
	return nav
}

func navItems(nav Nav, currentPath string) []NavItem {
	items := []NavItem{{Name: "Home", Href: "/"}}

	if nav.Authenticated && nav.Role == model.RoleAdmin {
		items = append(items,
			NavItem{Name: "Users", Href: "/admin/users"},
			NavItem{Name: "Departments", Href: "/dashboard/admin/departments"},
			NavItem{Name: "Reports", Href: "/records"},
		)
	} else {
		items = append(items, NavItem{Name: "Shop", Href: "/shop/pharmacy"})
	}

	if nav.Authenticated {
		items = append(items, NavItem{Name: "Dashboard", Href: nav.DashboardRoute})
	}

	for i := range items {
		items[i].Active = items[i].Href == currentPath
		items[i].Class = NavItemClass(items[i].Active)
	}
	return items
}

func NavItemClass(active bool, extra ...string) string {
	state := navItemInactive
	if active {
		state = navItemActive
	}
	return twmerge.Merge(append([]string{navItemBase, state}, extra...)...)
}

// RoleBadgeClass falls back to the USER colors for empty or unknown roles.
func RoleBadgeClass(role model.Role, extra ...string) string {
	colors := badgeUser
	if role == model.RoleAdmin {
		colors = badgeAdmin
	}
	return twmerge.Merge(append([]string{badgeBase, colors}, extra...)...)
}

func RoleName(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "Administrator"
	case model.RoleUser, "":
		return "User"
	}
	return string(role)
}

func DisplayName(session *model.SessionView) string {
	if session == nil {
		return "Guest"
	}
	if session.Role == model.RoleAdmin {
		return "Mr. " + session.Name
	}
	if session.Name == "" {
		return "User"
	}
	return session.Name
}

func ProviderName(p model.AuthProvider) string {
	switch p {
	case "":
		return "Unknown"
	case model.ProviderCredentials:
		return "Email/Password"
	case model.ProviderGoogle:
		return "Google"
	case model.ProviderGitHub:
		return "GitHub"
	}
	return string(p)
}
