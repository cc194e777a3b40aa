package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home is the role-conditional landing page: one template composed
// differently per role through content gates.
func (h *HomeHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", page{
		Title: "Home",
		Role:  middleware.RoleFromContext(c),
	})
}

// Root sends the bare origin to the landing page; the guard on /home decides
// whether that means content or the login view.
func (h *HomeHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/home")
}
