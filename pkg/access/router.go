package access

import "unicode"

// Landing paths per role.
const (
	PathAdmin      = "/admin"
	PathMarket     = "/partner/market"
	PathRestaurant = "/partner/restaurant"
	PathDelivery   = "/delivery"
	PathHome       = "/"
)

// Next is an optional post-login destination. The zero value is absent.
type Next struct {
	path  string
	valid bool
}

// NoNext is the absent destination.
var NoNext = Next{}

// ParseNext wraps a raw next parameter. The result is present only when raw
// is a same-origin relative path; anything else ("", "null", absolute URLs,
// protocol-relative paths) is absent.
func ParseNext(raw string) Next {
	if !safeRelativePath(raw) {
		return NoNext
	}
	return Next{path: raw, valid: true}
}

// Get returns the path and whether it is present.
func (n Next) Get() (string, bool) {
	return n.path, n.valid
}

// Present reports whether a destination was given.
func (n Next) Present() bool {
	return n.valid
}

// safeRelativePath accepts paths with a single leading slash. "//host" and
// "/\host" are treated as hosts by browsers.
func safeRelativePath(p string) bool {
	if len(p) == 0 || p[0] != '/' {
		return false
	}
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	for _, r := range p {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Landing returns the default landing path for role.
func Landing(role Role) string {
	switch role {
	case RoleAdmin:
		return PathAdmin
	case RoleMarket:
		return PathMarket
	case RoleRestaurant:
		return PathRestaurant
	case RoleDelivery:
		return PathDelivery
	default:
		return PathHome
	}
}

// RouteFor returns where an account with role should go after sign-in. A
// present next wins for every role.
func RouteFor(role Role, next Next) string {
	if p, ok := next.Get(); ok {
		return p
	}
	return Landing(role)
}

// RouteForString parses raw as a role and routes it. Any string is
// accepted.
func RouteForString(raw string, next Next) string {
	return RouteFor(ParseRole(raw), next)
}
