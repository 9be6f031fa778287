// Package access holds the role hierarchy. Route gating and presentation
// helpers both read it from here.
package access

import "github.com/templui/portfolio/internal/model"

// roles is ordered from most to least privileged.
var roles = []struct {
	role model.Role
	rank int
}{
	{model.RoleAdmin, 100},
	{model.RoleUser, 30},
}

// Rank returns the weight of a role, or 0 for an empty or unknown role.
func Rank(role model.Role) int {
	for _, r := range roles {
		if r.role == role {
			return r.rank
		}
	}
	return 0
}

// Roles lists every known role, most privileged first.
func Roles() []model.Role {
	out := make([]model.Role, len(roles))
	for i, r := range roles {
		out[i] = r.role
	}
	return out
}

// CanAccess reports whether role meets at least one of the required roles.
func CanAccess(role model.Role, required ...model.Role) bool {
	rank := Rank(role)
	if rank == 0 {
		return false
	}
	for _, req := range required {
		need := Rank(req)
		if need > 0 && rank >= need {
			return true
		}
	}
	return false
}

// HasRole is an exact membership check, without hierarchy.
func HasRole(role model.Role, candidates ...model.Role) bool {
	if role == "" {
		return false
	}
	for _, c := range candidates {
		if c == role {
			return true
		}
	}
	return false
}

type Features struct {
	CanManageUsers  bool `json:"canManageUsers"`
	CanViewAllData  bool `json:"canViewAllData"`
	CanEditSettings bool `json:"canEditSettings"`
}

func FeaturesFor(role model.Role) Features {
	admin := role == model.RoleAdmin
	return Features{
		CanManageUsers:  admin,
		CanViewAllData:  admin,
		CanEditSettings: admin,
	}
}

func DashboardRoute(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "/dashboard/admin"
	case model.RoleUser:
		return "/dashboard/user"
	case "":
		return "/dashboard"
	}
	return "/dashboard/user"
}
