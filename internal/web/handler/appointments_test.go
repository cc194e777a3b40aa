package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/poll"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

type stubJobsAPI struct {
	ports.BookingAPI

	appointments []domain.Appointment
	unassigned   []domain.Appointment
	offered      []domain.Appointment
	interpreters []domain.Interpreter
	languages    []domain.Language

	requested  []ports.RequestAppointmentInput
	requestErr error
	responses  []bool
}

func (s *stubJobsAPI) FetchAppointments(_ context.Context, _ string, unassigned bool) ([]domain.Appointment, error) {
	if unassigned {
		return s.unassigned, nil
	}
	return s.appointments, nil
}

func (s *stubJobsAPI) OfferedAppointments(_ context.Context, _ string) ([]domain.Appointment, error) {
	return s.offered, nil
}

func (s *stubJobsAPI) Interpreters(_ context.Context, _ string) ([]domain.Interpreter, error) {
	return s.interpreters, nil
}

func (s *stubJobsAPI) Languages(_ context.Context, _ string) ([]domain.Language, error) {
	return s.languages, nil
}

func (s *stubJobsAPI) RequestAppointment(_ context.Context, _ string, in ports.RequestAppointmentInput) error {
	if s.requestErr != nil {
		return s.requestErr
	}
	s.requested = append(s.requested, in)
	return nil
}

func (s *stubJobsAPI) RespondToAppointmentOffer(_ context.Context, _ string, _ int, accepted bool) error {
	s.responses = append(s.responses, accepted)
	return nil
}

func newAppointmentsApp(t *testing.T, api ports.BookingAPI, role domain.Role) *echo.Echo {
	t.Helper()
	e := echo.New()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	e.Validator = NewValidator()

	hubs := &AppointmentHubs{
		All:        poll.NewHub[domain.Appointment]("appointments_all", time.Hour, time.Hour),
		Unassigned: poll.NewHub[domain.Appointment]("appointments_unassigned", time.Hour, time.Hour),
		Offered:    poll.NewHub[domain.Appointment]("appointments_offered", time.Hour, time.Hour),
		Accepted:   poll.NewHub[domain.Appointment]("appointments_accepted", time.Hour, time.Hour),
		Mine:       poll.NewHub[domain.Appointment]("appointments_mine", time.Hour, time.Hour),
	}
	t.Cleanup(hubs.Close)

	h := NewAppointmentsHandler(api, hubs, zerolog.Nop())

	withSession := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("session", &domain.Session{ID: "sess-" + string(role), Role: role, UpstreamCookie: "sessionid=up"})
			c.Set("role", role)
			return next(c)
		}
	}

	e.GET("/appointments", h.Page, withSession)
	e.POST("/appointments/request", h.Request, withSession)
	e.POST("/appointments/respond", h.Respond, withSession)
	return e
}

func getPage(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAppointments_AdminSeesUnassignedAndAll(t *testing.T) {
	api := &stubJobsAPI{
		appointments: []domain.Appointment{{ID: 1, Location: "Glasgow", Language: domain.Language{LanguageName: "Arabic"}}},
		unassigned:   []domain.Appointment{{ID: 2, Location: "Paisley", Language: domain.Language{LanguageName: "Polish"}}},
		interpreters: []domain.Interpreter{{ID: 9, FirstName: "Ira", LastName: "K", Email: "ira@example.org"}},
	}
	e := newAppointmentsApp(t, api, domain.RoleAdmin)

	rec := getPage(e, "/appointments")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-testid="unassigned-appointment"`) {
		t.Fatalf("unassigned list missing:\n%s", body)
	}
	if !strings.Contains(body, "Paisley") || !strings.Contains(body, "Glasgow") {
		t.Fatalf("appointment records missing:\n%s", body)
	}
	if strings.Contains(body, `data-testid="appointment-submit-button"`) {
		t.Fatalf("booking form must not render for admins")
	}
}

func TestAppointments_CustomerSeesBookingForm(t *testing.T) {
	api := &stubJobsAPI{
		appointments: []domain.Appointment{{ID: 4, Location: "Home visit", Language: domain.Language{LanguageName: "BSL"}}},
		languages:    []domain.Language{{ID: 1, LanguageName: "BSL"}},
	}
	e := newAppointmentsApp(t, api, domain.RoleCustomer)

	rec := getPage(e, "/appointments")
	body := rec.Body.String()
	if !strings.Contains(body, `data-testid="appointment-submit-button"`) {
		t.Fatalf("booking form missing for customer:\n%s", body)
	}
	if !strings.Contains(body, "Home visit") {
		t.Fatalf("customer's own list missing:\n%s", body)
	}
	if strings.Contains(body, `data-testid="unassigned-appointment"`) {
		t.Fatalf("admin matching list must not render for customers")
	}
}

func TestAppointments_CustomerRequestRedirectsWithMarker(t *testing.T) {
	api := &stubJobsAPI{}
	e := newAppointmentsApp(t, api, domain.RoleCustomer)

	rec := postForm(e, "/appointments/request", url.Values{
		"location":           {"Govan Clinic"},
		"planned_start_time": {"2025-04-01T09:00"},
		"planned_duration":   {"01:30"},
		"language":           {"Arabic"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/appointments?requested=1" {
		t.Fatalf("unexpected redirect: %s", loc)
	}
	if len(api.requested) != 1 || api.requested[0].Location != "Govan Clinic" {
		t.Fatalf("request not forwarded: %+v", api.requested)
	}
}

func TestAppointments_RequestBusinessErrorRendersInline(t *testing.T) {
	api := &stubJobsAPI{requestErr: &domain.APIError{List: []string{"no interpreter covers this language"}}}
	e := newAppointmentsApp(t, api, domain.RoleCustomer)

	rec := postForm(e, "/appointments/request", url.Values{
		"location":           {"Govan Clinic"},
		"planned_start_time": {"2025-04-01T09:00"},
		"planned_duration":   {"01:30"},
		"language":           {"Klingon"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected inline re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no interpreter covers this language") {
		t.Fatalf("business error missing:\n%s", rec.Body.String())
	}
}

func TestAppointments_InterpreterRespondsToOffer(t *testing.T) {
	api := &stubJobsAPI{
		offered: []domain.Appointment{{ID: 3, Location: "Court", Language: domain.Language{LanguageName: "Urdu"}}},
	}
	e := newAppointmentsApp(t, api, domain.RoleInterpreter)

	rec := getPage(e, "/appointments")
	if !strings.Contains(rec.Body.String(), `data-testid="offered-appointment"`) {
		t.Fatalf("offer list missing:\n%s", rec.Body.String())
	}

	rec = postForm(e, "/appointments/respond", url.Values{
		"appointment_id": {"3"},
		"accepted":       {"true"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if len(api.responses) != 1 || !api.responses[0] {
		t.Fatalf("acceptance not forwarded: %v", api.responses)
	}
}
