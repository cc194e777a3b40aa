package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/metrics"
)

const roleKey = "role"

// LoginPath is where guarded requests are redirected when access is denied.
const LoginPath = "/login"

// Prober resolves a session's role when it is not yet known. Implemented by
// the auth service, which holds the session store's write side.
type Prober interface {
	Probe(ctx context.Context, sess *domain.Session) (domain.Role, error)
}

// Guard is the route guard: it wraps a protected page and allows the render
// only when the visitor's role is in the declared allow-set.
//
// Per request it moves through checking → authorized | redirecting. If the
// session already carries a resolved role it is used directly; otherwise the
// prober is asked once. Anything short of an allowed role produces a 303 to
// the login view with no protected bytes written first. The verdict holds for
// the whole request; a role change elsewhere is seen by the next request, not
// this one.
func Guard(prober Prober, allow ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFromContext(c)
			if sess == nil {
				metrics.GuardRedirectsTotal.WithLabelValues("unauthenticated").Inc()
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			role := sess.Role
			if !role.Known() {
				resolved, err := prober.Probe(c.Request().Context(), sess)
				if err != nil {
					metrics.GuardRedirectsTotal.WithLabelValues("unauthenticated").Inc()
					return c.Redirect(http.StatusSeeOther, LoginPath)
				}
				role = resolved
			}

			if !role.In(allow...) {
				metrics.GuardRedirectsTotal.WithLabelValues("forbidden").Inc()
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			c.Set(roleKey, role)
			return next(c)
		}
	}
}

// RoleFromContext returns the role the guard resolved for this request.
func RoleFromContext(c echo.Context) domain.Role {
	role, _ := c.Get(roleKey).(domain.Role)
	return role
}
