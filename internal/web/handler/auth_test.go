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
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/service"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

// stubBookingAPI overrides only what each test needs; unused calls panic
// through the embedded nil interface.
type stubBookingAPI struct {
	ports.BookingAPI

	loginRole   domain.Role
	loginCookie string
	loginErr    error

	registerErr   error
	registerCalls int

	logoutErr error
}

func (s *stubBookingAPI) Logout(_ context.Context, _ string) error {
	return s.logoutErr
}

func (s *stubBookingAPI) Login(_ context.Context, _, _ string) (domain.Role, string, error) {
	return s.loginRole, s.loginCookie, s.loginErr
}

func (s *stubBookingAPI) RegisterCustomer(_ context.Context, _ ports.RegisterCustomerInput) error {
	s.registerCalls++
	return s.registerErr
}

type stubSessions struct {
	sessions map[string]*domain.Session
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessions) Put(_ context.Context, sess *domain.Session) error {
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *stubSessions) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newTestApp(t *testing.T, api ports.BookingAPI) (*echo.Echo, *service.AuthService) {
	t.Helper()
	e := echo.New()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	e.Validator = NewValidator()

	auth := service.NewAuthService(api, newStubSessions(), "test-secret", time.Hour, zerolog.Nop())
	return e, auth
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLogin_BusinessErrorRendersInline(t *testing.T) {
	api := &stubBookingAPI{loginErr: &domain.APIError{Code: "explosion"}}
	e, auth := newTestApp(t, api)
	h := NewAuthHandler(auth, nil, zerolog.Nop())
	e.POST("/login", h.Login)

	rec := postForm(e, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"wrong"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected inline re-render, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Fatalf("business error must not navigate, got redirect to %s", loc)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-testid="error-message"`) {
		t.Fatalf("inline error fragment missing:\n%s", body)
	}
	if !strings.Contains(body, "explosion") {
		t.Fatalf("error code not rendered:\n%s", body)
	}
	if !strings.Contains(body, `value="a@b.com"`) {
		t.Fatalf("submitted email not redisplayed:\n%s", body)
	}
}

func TestLogin_SuccessSetsCookieAndRedirectsHome(t *testing.T) {
	api := &stubBookingAPI{loginRole: domain.RoleAdmin, loginCookie: "sessionid=up"}
	e, auth := newTestApp(t, api)
	h := NewAuthHandler(auth, nil, zerolog.Nop())
	e.POST("/login", h.Login)

	rec := postForm(e, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"pw"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Fatalf("expected redirect to /home, got %s", loc)
	}

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.Value != "" {
			found = true
			if !ck.HttpOnly {
				t.Fatalf("session cookie must be HttpOnly")
			}
		}
	}
	if !found {
		t.Fatalf("session cookie not set")
	}
}

func TestLogin_ValidationErrorRendersInline(t *testing.T) {
	e, auth := newTestApp(t, &stubBookingAPI{})
	h := NewAuthHandler(auth, nil, zerolog.Nop())
	e.POST("/login", h.Login)

	rec := postForm(e, "/login", url.Values{"email": {"not-an-email"}, "password": {"pw"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected inline re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "must be a valid email") {
		t.Fatalf("validation message missing:\n%s", rec.Body.String())
	}
}

func TestLogout_DropsPollersAndClearsCookie(t *testing.T) {
	api := &stubBookingAPI{}
	e, auth := newTestApp(t, api)

	var dropped string
	h := NewAuthHandler(auth, func(sessionID string) { dropped = sessionID }, zerolog.Nop())
	e.POST("/logout", func(c echo.Context) error {
		c.Set("session", &domain.Session{ID: "s1"})
		return h.Logout(c)
	})

	rec := postForm(e, "/logout", url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
	if dropped != "s1" {
		t.Fatalf("pollers not dropped for the session, got %q", dropped)
	}

	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("session cookie not cleared")
	}
}

func TestRegister_SuccessShowsConfirmation(t *testing.T) {
	api := &stubBookingAPI{}
	e, auth := newTestApp(t, api)
	h := NewAuthHandler(auth, nil, zerolog.Nop())
	e.POST("/register", h.Register)

	rec := postForm(e, "/register", url.Values{
		"email":            {"c@example.org"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
		"first_name":       {"Cara"},
		"last_name":        {"Doe"},
		"organisation":     {"NHS"},
		"address":          {"1 High St"},
		"postcode":         {"G1 1AA"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if api.registerCalls != 1 {
		t.Fatalf("registration not forwarded")
	}
	if !strings.Contains(rec.Body.String(), `data-testid="register-success"`) {
		t.Fatalf("confirmation marker missing:\n%s", rec.Body.String())
	}
}

func TestRegister_MismatchedPasswordsKeepDraft(t *testing.T) {
	api := &stubBookingAPI{}
	e, auth := newTestApp(t, api)
	h := NewAuthHandler(auth, nil, zerolog.Nop())
	e.POST("/register", h.Register)

	rec := postForm(e, "/register", url.Values{
		"email":            {"c@example.org"},
		"password":         {"longenough"},
		"confirm_password": {"different1"},
		"first_name":       {"Cara"},
		"last_name":        {"Doe"},
		"organisation":     {"NHS"},
		"address":          {"1 High St"},
		"postcode":         {"G1 1AA"},
	})

	if api.registerCalls != 0 {
		t.Fatalf("invalid form must not reach the API")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "passwords do not match") {
		t.Fatalf("mismatch message missing:\n%s", body)
	}
	if !strings.Contains(body, `value="Cara"`) {
		t.Fatalf("draft not redisplayed:\n%s", body)
	}
}
