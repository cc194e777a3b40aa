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

// AppointmentHubs groups the polling hubs behind the appointment screens.
// Each hub covers one list view; within a hub every session polls its own
// controller.
type AppointmentHubs struct {
	All        *poll.Hub[domain.Appointment] // admin: every appointment
	Unassigned *poll.Hub[domain.Appointment] // admin: awaiting matching
	Offered    *poll.Hub[domain.Appointment] // interpreter: open offers
	Accepted   *poll.Hub[domain.Appointment] // interpreter: accepted jobs
	Mine       *poll.Hub[domain.Appointment] // customer: own bookings
}

// Drop releases one session's controllers across all appointment views.
func (hubs *AppointmentHubs) Drop(sessionID string) {
	hubs.All.Drop(sessionID)
	hubs.Unassigned.Drop(sessionID)
	hubs.Offered.Drop(sessionID)
	hubs.Accepted.Drop(sessionID)
	hubs.Mine.Drop(sessionID)
}

// Close stops every controller; used on shutdown.
func (hubs *AppointmentHubs) Close() {
	hubs.All.Close()
	hubs.Unassigned.Close()
	hubs.Offered.Close()
	hubs.Accepted.Close()
	hubs.Mine.Close()
}

type AppointmentsHandler struct {
	api  ports.BookingAPI
	hubs *AppointmentHubs
	log  zerolog.Logger
}

func NewAppointmentsHandler(api ports.BookingAPI, hubs *AppointmentHubs, log zerolog.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{api: api, hubs: hubs, log: log}
}

type appointmentsPage struct {
	page
	Jobs         ListView[domain.Appointment]
	Unassigned   ListView[domain.Appointment]
	Interpreters []domain.Interpreter
	Languages    []domain.Language
	Requested    bool
}

// Page renders the appointments screen for whichever role is visiting: one
// route, three compositions. Lists are served from polling snapshots so the
// screen stays fresh while it is open.
func (h *AppointmentsHandler) Page(c echo.Context) error {
	return c.Render(http.StatusOK, "appointments.html", h.pageData(c, nil))
}

func (h *AppointmentsHandler) pageData(c echo.Context, actionErr error) appointmentsPage {
	sess := middleware.SessionFromContext(c)
	role := middleware.RoleFromContext(c)
	cookie := sess.UpstreamCookie

	data := appointmentsPage{
		page:      page{Title: "Appointments", Role: role, Error: view.Errorify(actionErr)},
		Requested: c.QueryParam("requested") == "1",
	}

	switch role {
	case domain.RoleAdmin:
		data.Jobs = listView(h.hubs.All.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Appointment, error) {
			return h.api.FetchAppointments(ctx, cookie, false)
		}))
		data.Unassigned = listView(h.hubs.Unassigned.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Appointment, error) {
			return h.api.FetchAppointments(ctx, cookie, true)
		}))
		interpreters, err := h.api.Interpreters(c.Request().Context(), cookie)
		if err != nil {
			h.log.Warn().Err(err).Msg("interpreters fetch failed")
		}
		data.Interpreters = interpreters
	case domain.RoleInterpreter:
		data.Jobs = listView(h.hubs.Offered.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Appointment, error) {
			return h.api.OfferedAppointments(ctx, cookie)
		}))
	case domain.RoleCustomer:
		data.Jobs = listView(h.hubs.Mine.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Appointment, error) {
			return h.api.FetchAppointments(ctx, cookie, false)
		}))
		languages, err := h.api.Languages(c.Request().Context(), cookie)
		if err != nil {
			h.log.Warn().Err(err).Msg("languages fetch failed")
		}
		data.Languages = languages
	}
	return data
}

// AcceptedPage is the interpreter's upcoming-appointments screen.
func (h *AppointmentsHandler) AcceptedPage(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	cookie := sess.UpstreamCookie

	data := appointmentsPage{
		page: page{Title: "My Appointments", Role: middleware.RoleFromContext(c)},
	}
	data.Jobs = listView(h.hubs.Accepted.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Appointment, error) {
		return h.api.AcceptedAppointments(ctx, cookie)
	}))
	return c.Render(http.StatusOK, "appointments_accepted.html", data)
}

// Request submits the customer booking form.
func (h *AppointmentsHandler) Request(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req ports.RequestAppointmentInput
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "appointments.html", h.pageData(c, &domain.APIError{Message: "invalid form submission"}))
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "appointments.html", h.pageData(c, err))
	}

	if err := h.api.RequestAppointment(c.Request().Context(), sess.UpstreamCookie, req); err != nil {
		return c.Render(http.StatusOK, "appointments.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/appointments?requested=1")
}

type offerForm struct {
	AppointmentID int      `form:"appointment_id" validate:"required"`
	Interpreters  []string `form:"interpreters" validate:"required,min=1"`
}

// Offer sends an unassigned appointment to the selected interpreters.
func (h *AppointmentsHandler) Offer(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req offerForm
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "appointments.html", h.pageData(c, &domain.APIError{Message: "invalid form submission"}))
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "appointments.html", h.pageData(c, err))
	}

	if err := h.api.OfferAppointment(c.Request().Context(), sess.UpstreamCookie, req.AppointmentID, req.Interpreters); err != nil {
		return c.Render(http.StatusOK, "appointments.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/appointments")
}

type respondForm struct {
	AppointmentID int  `form:"appointment_id" validate:"required"`
	Accepted      bool `form:"accepted"`
}

// Respond records an interpreter's accept/decline on an offer.
func (h *AppointmentsHandler) Respond(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req respondForm
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "appointments.html", h.pageData(c, &domain.APIError{Message: "invalid form submission"}))
	}

	if err := h.api.RespondToAppointmentOffer(c.Request().Context(), sess.UpstreamCookie, req.AppointmentID, req.Accepted); err != nil {
		return c.Render(http.StatusOK, "appointments.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/appointments")
}

// Edit updates an accepted appointment's actual start and duration.
func (h *AppointmentsHandler) Edit(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req ports.EditAppointmentInput
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/appointments/accepted")
	}

	if err := h.api.EditAppointment(c.Request().Context(), sess.UpstreamCookie, req); err != nil {
		data := appointmentsPage{
			page: page{Title: "My Appointments", Role: middleware.RoleFromContext(c), Error: view.Errorify(err)},
		}
		cookie := sess.UpstreamCookie
		data.Jobs = listView(h.hubs.Accepted.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Appointment, error) {
			return h.api.AcceptedAppointments(ctx, cookie)
		}))
		return c.Render(http.StatusOK, "appointments_accepted.html", data)
	}
	return c.Redirect(http.StatusSeeOther, "/appointments/accepted")
}

type invoiceForm struct {
	AppointmentID int `form:"appointment_id" validate:"required"`
}

// ToggleInvoice flips the invoiced flag on an appointment.
func (h *AppointmentsHandler) ToggleInvoice(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req invoiceForm
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/appointments")
	}

	if err := h.api.ToggleAppointmentInvoice(c.Request().Context(), sess.UpstreamCookie, req.AppointmentID); err != nil {
		return c.Render(http.StatusOK, "appointments.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/appointments")
}
