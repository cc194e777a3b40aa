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

type stubAdminAPI struct {
	ports.BookingAPI

	created    []ports.CreateAccountInput
	createErr  error
	requests   []domain.AccountRequest
	resolved   []string
	resolveErr error
	languages  []domain.Language
}

func (s *stubAdminAPI) CreateAccount(_ context.Context, _ string, in ports.CreateAccountInput) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, in)
	return nil
}

func (s *stubAdminAPI) PendingAccountRequests(_ context.Context, _ string) ([]domain.AccountRequest, error) {
	return s.requests, nil
}

func (s *stubAdminAPI) ResolveAccountRequest(_ context.Context, _, email string, _ bool) error {
	if s.resolveErr != nil {
		return s.resolveErr
	}
	s.resolved = append(s.resolved, email)
	return nil
}

func (s *stubAdminAPI) Languages(_ context.Context, _ string) ([]domain.Language, error) {
	return s.languages, nil
}

func newAdminApp(t *testing.T, api ports.BookingAPI) (*echo.Echo, *AdminHandler, *poll.Hub[domain.AccountRequest]) {
	t.Helper()
	e := echo.New()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	e.Validator = NewValidator()

	hub := poll.NewHub[domain.AccountRequest]("account_requests", time.Hour, time.Hour)
	t.Cleanup(hub.Close)

	h := NewAdminHandler(api, hub, zerolog.Nop())

	withSession := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("session", &domain.Session{ID: "admin-sess", Role: domain.RoleAdmin, UpstreamCookie: "sessionid=up"})
			c.Set("role", domain.RoleAdmin)
			return next(c)
		}
	}

	e.GET("/admin", h.Page, withSession)
	e.POST("/admin/accounts", h.CreateAccount, withSession)
	e.POST("/admin/requests", h.ResolveRequest, withSession)
	return e, h, hub
}

func TestAdmin_RequestsTabRendersPendingAccounts(t *testing.T) {
	api := &stubAdminAPI{requests: []domain.AccountRequest{
		{Email: "new@example.org", FirstName: "Nina", LastName: "Vale", Organisation: "NHS"},
	}}
	e, _, _ := newAdminApp(t, api)

	req := httptest.NewRequest(http.MethodGet, "/admin?tab=requests", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-testid="account-request"`) {
		t.Fatalf("pending request not rendered:\n%s", body)
	}
	if !strings.Contains(body, "new@example.org") {
		t.Fatalf("request email missing:\n%s", body)
	}
}

func TestAdmin_CreateCustomerAccount(t *testing.T) {
	api := &stubAdminAPI{}
	e, _, _ := newAdminApp(t, api)

	rec := postForm(e, "/admin/accounts", url.Values{
		"type":             {"customer"},
		"email":            {"c@example.org"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
		"first_name":       {"Cara"},
		"last_name":        {"Doe"},
		"organisation":     {"NHS"},
		"address":          {"1 High St"},
		"postcode":         {"G1 1AA"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "created=1") || !strings.Contains(loc, "type=customer") {
		t.Fatalf("unexpected redirect: %s", loc)
	}
	if len(api.created) != 1 {
		t.Fatalf("account not created")
	}
	in := api.created[0]
	if in.Type != "customer" || in.Organisation != "NHS" || in.Postcode != "G1 1AA" {
		t.Fatalf("customer fields not forwarded: %+v", in)
	}
}

func TestAdmin_CreateAccountBusinessErrorRendersInline(t *testing.T) {
	api := &stubAdminAPI{createErr: &domain.APIError{Message: "email already registered"}}
	e, _, _ := newAdminApp(t, api)

	rec := postForm(e, "/admin/accounts", url.Values{
		"type":             {"admin"},
		"email":            {"dup@example.org"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
		"first_name":       {"Ann"},
		"last_name":        {"Smith"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected inline re-render, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "email already registered") {
		t.Fatalf("business error not rendered:\n%s", body)
	}
	if strings.Contains(body, `data-testid="account-created"`) {
		t.Fatalf("success marker must not render on error")
	}
}

func TestAdmin_ResolveRequest(t *testing.T) {
	api := &stubAdminAPI{}
	e, _, _ := newAdminApp(t, api)

	rec := postForm(e, "/admin/requests", url.Values{
		"email":    {"new@example.org"},
		"accepted": {"true"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if len(api.resolved) != 1 || api.resolved[0] != "new@example.org" {
		t.Fatalf("request not resolved: %v", api.resolved)
	}
}
