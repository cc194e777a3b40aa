package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/poll"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

type AdminHandler struct {
	api      ports.BookingAPI
	requests *poll.Hub[domain.AccountRequest]
	log      zerolog.Logger
}

func NewAdminHandler(api ports.BookingAPI, requests *poll.Hub[domain.AccountRequest], log zerolog.Logger) *AdminHandler {
	return &AdminHandler{api: api, requests: requests, log: log}
}

type adminPage struct {
	page
	Tab       string
	Creating  string
	Created   bool
	Requests  ListView[domain.AccountRequest]
	Languages []domain.Language
}

// Page renders the admin screen. The requests tab is backed by a polling
// controller so newly submitted registrations appear without a reload; the
// create tab shows one of three field sets selected by the type query.
func (h *AdminHandler) Page(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	data := adminPage{
		page:     page{Title: "Admin", Role: middleware.RoleFromContext(c)},
		Tab:      c.QueryParam("tab"),
		Creating: c.QueryParam("type"),
		Created:  c.QueryParam("created") == "1",
	}
	if data.Tab == "" {
		data.Tab = "requests"
	}

	switch data.Tab {
	case "requests":
		cookie := sess.UpstreamCookie
		data.Requests = listView(h.requests.Snapshot(sess.ID, func(ctx context.Context) ([]domain.AccountRequest, error) {
			return h.api.PendingAccountRequests(ctx, cookie)
		}))
	case "create":
		if data.Creating == "" {
			data.Creating = "admin"
		}
		if data.Creating == "interpreter" {
			langs, err := h.api.Languages(c.Request().Context(), sess.UpstreamCookie)
			if err != nil {
				h.log.Warn().Err(err).Msg("languages fetch failed")
			}
			data.Languages = langs
		}
	}
	return c.Render(http.StatusOK, "admin.html", data)
}

// CreateAccount submits an admin/interpreter/customer creation. Success
// redirects back with the created marker; errors re-render the form inline.
func (h *AdminHandler) CreateAccount(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req ports.CreateAccountInput
	if err := c.Bind(&req); err != nil {
		return h.renderCreateError(c, "admin", &domain.APIError{Message: "invalid form submission"})
	}
	if err := c.Validate(&req); err != nil {
		return h.renderCreateError(c, req.Type, err)
	}

	if err := h.api.CreateAccount(c.Request().Context(), sess.UpstreamCookie, req); err != nil {
		return h.renderCreateError(c, req.Type, err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin?tab=create&type="+req.Type+"&created=1")
}

func (h *AdminHandler) renderCreateError(c echo.Context, creating string, err error) error {
	sess := middleware.SessionFromContext(c)

	data := adminPage{
		page:     page{Title: "Admin", Role: middleware.RoleFromContext(c), Error: view.Errorify(err)},
		Tab:      "create",
		Creating: creating,
	}
	if creating == "interpreter" {
		langs, langErr := h.api.Languages(c.Request().Context(), sess.UpstreamCookie)
		if langErr == nil {
			data.Languages = langs
		}
	}
	return c.Render(http.StatusOK, "admin.html", data)
}

type resolveRequestForm struct {
	Email    string `form:"email" validate:"required,email"`
	Accepted bool   `form:"accepted"`
}

// ResolveRequest accepts or rejects a pending account request and returns to
// the requests tab; the poller picks up the new list on its next refresh.
func (h *AdminHandler) ResolveRequest(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req resolveRequestForm
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin?tab=requests")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin?tab=requests")
	}

	if err := h.api.ResolveAccountRequest(c.Request().Context(), sess.UpstreamCookie, req.Email, req.Accepted); err != nil {
		data := adminPage{
			page: page{Title: "Admin", Role: middleware.RoleFromContext(c), Error: view.Errorify(err)},
			Tab:  "requests",
		}
		cookie := sess.UpstreamCookie
		data.Requests = listView(h.requests.Snapshot(sess.ID, func(ctx context.Context) ([]domain.AccountRequest, error) {
			return h.api.PendingAccountRequests(ctx, cookie)
		}))
		return c.Render(http.StatusOK, "admin.html", data)
	}
	return c.Redirect(http.StatusSeeOther, "/admin?tab=requests")
}
