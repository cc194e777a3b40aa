package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

type ProfileHandler struct {
	api ports.BookingAPI
	log zerolog.Logger
}

func NewProfileHandler(api ports.BookingAPI, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{api: api, log: log}
}

type profilePage struct {
	page
	Fields []domain.ProfileField
	Saved  bool
}

// Page renders the profile form. The field set is dictated by the booking API
// per account type, so the template iterates whatever comes back.
func (h *ProfileHandler) Page(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	fields, err := h.api.ProfileFields(c.Request().Context(), sess.UpstreamCookie, "self")
	if err != nil {
		return c.Render(http.StatusOK, "profile.html", profilePage{
			page: page{Title: "Profile", Role: middleware.RoleFromContext(c), Error: view.Errorify(err)},
		})
	}
	return c.Render(http.StatusOK, "profile.html", profilePage{
		page:   page{Title: "Profile", Role: middleware.RoleFromContext(c)},
		Fields: fields,
		Saved:  c.QueryParam("saved") == "1",
	})
}

// Save posts the edited fields back. Whatever named inputs the form carried
// are forwarded verbatim; the API validates against its own field set.
func (h *ProfileHandler) Save(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	form, err := c.FormParams()
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/profile")
	}
	fields := make(map[string]string, len(form))
	for name, values := range form {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	if err := h.api.EditProfile(c.Request().Context(), sess.UpstreamCookie, "self", fields); err != nil {
		current, fetchErr := h.api.ProfileFields(c.Request().Context(), sess.UpstreamCookie, "self")
		if fetchErr != nil {
			h.log.Warn().Err(fetchErr).Msg("profile fields fetch failed")
		}
		return c.Render(http.StatusOK, "profile.html", profilePage{
			page:   page{Title: "Profile", Role: middleware.RoleFromContext(c), Error: view.Errorify(err)},
			Fields: current,
		})
	}
	return c.Redirect(http.StatusSeeOther, "/profile?saved=1")
}
