package domain

import "errors"

// Role is the account category resolved from the booking API. It is the only
// authorization input used by route guards and content gates; nothing in the
// gateway re-derives it from job data.
type Role string

const (
	RoleUnknown     Role = ""
	RoleAdmin       Role = "admin"
	RoleInterpreter Role = "interpreter"
	RoleCustomer    Role = "customer"
)

var ErrUnauthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrSessionNotFound = errors.New("session not found")
var ErrFileNotFound = errors.New("file not found")

// ParseAccountType maps the API's single-letter account_type discriminator to
// a Role. Anything unrecognised maps to RoleUnknown.
func ParseAccountType(s string) Role {
	switch s {
	case "A":
		return RoleAdmin
	case "I":
		return RoleInterpreter
	case "C":
		return RoleCustomer
	}
	return RoleUnknown
}

// Known reports whether the role has been resolved to a real account category.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleInterpreter || r == RoleCustomer
}

// In reports whether the role is a member of the given allow-set. An unknown
// role is never allowed, regardless of the set.
func (r Role) In(allow ...Role) bool {
	if !r.Known() {
		return false
	}
	for _, a := range allow {
		if r == a {
			return true
		}
	}
	return false
}
