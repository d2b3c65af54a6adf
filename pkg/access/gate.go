package access

import "net/url"

// Area is a session-guarded section of the site.
type Area string

const (
	AreaAdmin    Area = "admin"
	AreaPartner  Area = "partner"
	AreaDelivery Area = "delivery"
	AreaUser     Area = "user"
)

// Areas lists every guarded area.
var Areas = []Area{AreaAdmin, AreaPartner, AreaDelivery, AreaUser}

var areaRoles = map[Area][]Role{
	AreaAdmin:    {RoleAdmin},
	AreaPartner:  {RoleMarket, RoleRestaurant},
	AreaDelivery: {RoleDelivery},
	AreaUser:     {RoleCustomer},
}

// LoginPath returns the sign-in page for the area.
func (a Area) LoginPath() string {
	switch a {
	case AreaAdmin:
		return "/admin/login"
	case AreaPartner:
		return "/partner/login"
	case AreaDelivery:
		return "/delivery/login"
	default:
		return "/login"
	}
}

// Prefix returns the URL prefix the area is mounted on.
func (a Area) Prefix() string {
	switch a {
	case AreaAdmin:
		return "/admin"
	case AreaPartner:
		return "/partner"
	case AreaDelivery:
		return "/delivery"
	default:
		return "/account"
	}
}

// Allows reports whether role may enter the area.
func (a Area) Allows(role Role) bool {
	for _, r := range areaRoles[a] {
		if r == role {
			return true
		}
	}
	return false
}

// Decision is the outcome of a gate check. Redirect is set iff Allow is
// false.
type Decision struct {
	Allow    bool
	Redirect string
}

// Gate guards one area.
type Gate struct {
	Area Area
}

// NewGate creates a gate for area.
func NewGate(area Area) Gate {
	return Gate{Area: area}
}

// Admit decides whether principal, holding role, may open requestedPath.
// Anonymous callers go to the area login carrying the requested path; a
// signed-in account of the wrong role goes to its own landing page.
func (g Gate) Admit(principal *Principal, role Role, requestedPath string) Decision {
	if principal == nil {
		login := g.Area.LoginPath()
		if requestedPath != "" {
			login += "?next=" + url.QueryEscape(requestedPath)
		}
		return Decision{Redirect: login}
	}
	if !g.Area.Allows(role) {
		return Decision{Redirect: RouteFor(role, NoNext)}
	}
	return Decision{Allow: true}
}
