package domain

import "time"

// Session is the gateway-side record for one browser. It is the single source
// of truth for the resolved role, created with RoleUnknown and resolved by a
// successful login or an auth probe against the booking API.
//
// UpstreamCookie carries the booking API's own session credential, captured
// from the login response and replayed on every upstream call made on this
// browser's behalf.
type Session struct {
	ID             string    `json:"id"`
	Role           Role      `json:"role"`
	UpstreamCookie string    `json:"upstream_cookie"`
	CreatedAt      time.Time `json:"created_at"`
}
