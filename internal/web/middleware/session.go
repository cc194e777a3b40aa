package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

// SessionCookie is the gateway's own signed session cookie, distinct from the
// upstream API credential held inside the session record.
const SessionCookie = "bookingweb_session"

const sessionKey = "session"

// SessionResolver maps a signed token to a stored session. Implemented by the
// auth service; middleware only ever reads.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Session, error)
}

// Session resolves the browser's session cookie and, when valid, injects the
// session into the request context. A missing or invalid cookie is not an
// error here; the guards downstream decide what an absent session means.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err == nil && cookie.Value != "" {
				if sess, err := resolver.ResolveSession(c.Request().Context(), cookie.Value); err == nil {
					c.Set(sessionKey, sess)
				}
			}
			return next(c)
		}
	}
}

// SessionFromContext returns the resolved session, or nil when the visitor is
// anonymous.
func SessionFromContext(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}
