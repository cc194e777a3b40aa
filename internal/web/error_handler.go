package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

type errorPage struct {
	Title string
	Role  domain.Role
	Error *view.ErrorView
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends auth failures back to the login view instead of rendering them.
//   - Renders everything else on the shared error page.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrSessionNotFound) {
			_ = c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			return
		}

		code := http.StatusInternalServerError
		title := "Error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if code == http.StatusNotFound {
				title = "Not Found"
			}
		}

		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		renderErr := c.Render(code, "error.html", errorPage{
			Title: title,
			Role:  middleware.RoleFromContext(c),
			Error: view.Errorify(err),
		})
		if renderErr != nil {
			_ = c.String(code, http.StatusText(code))
		}
	}
}
