// Package access decides where a signed-in account lands and which areas
// of the storefront it may enter.
package access

import "strings"

// Role is the account role stored on the profile.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleMarket     Role = "market"
	RoleRestaurant Role = "restaurant"
	RoleDelivery   Role = "delivery"
	RoleCustomer   Role = "customer"
)

// legacyMarket is the partner role name used before markets and
// restaurants were split.
const legacyMarket = "aliado"

// ParseRole parses a stored role string. Unknown and empty values parse to
// RoleCustomer.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "market", legacyMarket:
		return RoleMarket
	case "restaurant":
		return RoleRestaurant
	case "delivery":
		return RoleDelivery
	default:
		return RoleCustomer
	}
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}
