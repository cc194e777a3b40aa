package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/service"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

type AuthHandler struct {
	auth *service.AuthService
	// dropPollers releases every polling controller owned by a session when
	// that session logs out.
	dropPollers func(sessionID string)
	log         zerolog.Logger
}

func NewAuthHandler(auth *service.AuthService, dropPollers func(sessionID string), log zerolog.Logger) *AuthHandler {
	if dropPollers == nil {
		dropPollers = func(string) {}
	}
	return &AuthHandler{auth: auth, dropPollers: dropPollers, log: log}
}

type loginPage struct {
	page
	Email string
}

type loginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// LoginPage renders the login form. An already-authenticated visitor is sent
// straight to the home view instead (probing the session if its role is not
// yet resolved), so a stale login tab cannot shadow a live session.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if sess := middleware.SessionFromContext(c); sess != nil {
		if _, err := h.auth.Probe(c.Request().Context(), sess); err == nil {
			return c.Redirect(http.StatusSeeOther, "/home")
		}
	}
	return c.Render(http.StatusOK, "login.html", loginPage{page: page{Title: "Log In"}})
}

// Login authenticates the submitted credentials. A business error renders
// inline on the login page with no navigation; success sets the session
// cookie and navigates home.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", loginPage{
			page: page{Title: "Log In", Error: &view.ErrorView{Generic: true}},
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "login.html", loginPage{
			page:  page{Title: "Log In", Error: view.Errorify(err)},
			Email: req.Email,
		})
	}

	token, _, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.Render(http.StatusOK, "login.html", loginPage{
			page:  page{Title: "Log In", Error: view.Errorify(err)},
			Email: req.Email,
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.auth.SessionTTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/home")
}

// Logout clears the gateway session and its pollers, then returns to the
// login view. Safe to call without a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.SessionFromContext(c); sess != nil {
		h.dropPollers(sess.ID)
		if err := h.auth.Logout(c.Request().Context(), sess); err != nil {
			h.log.Warn().Err(err).Msg("session delete failed on logout")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

type registerPage struct {
	page
	Draft     ports.RegisterCustomerInput
	Submitted bool
}

// RegisterPage renders the customer self-registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", registerPage{page: page{Title: "Register"}})
}

// Register submits a customer account request for admin approval. The draft
// is redisplayed on failure so a validation slip does not wipe the form.
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterCustomerInput
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", registerPage{
			page: page{Title: "Register", Error: &view.ErrorView{Generic: true}},
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "register.html", registerPage{
			page:  page{Title: "Register", Error: view.Errorify(err)},
			Draft: req,
		})
	}

	if err := h.auth.RegisterCustomer(c.Request().Context(), req); err != nil {
		return c.Render(http.StatusOK, "register.html", registerPage{
			page:  page{Title: "Register", Error: view.Errorify(err)},
			Draft: req,
		})
	}
	return c.Render(http.StatusOK, "register.html", registerPage{
		page:      page{Title: "Register"},
		Submitted: true,
	})
}
