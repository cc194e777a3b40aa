package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

type FilesHandler struct {
	api ports.BookingAPI
	log zerolog.Logger
}

func NewFilesHandler(api ports.BookingAPI, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{api: api, log: log}
}

// Download streams a protected document through the gateway. Only the file's
// owner, its assigned interpreter, or an admin get the bytes; everyone else
// sees a denial page distinct from plain not-found.
func (h *FilesHandler) Download(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	path := c.Param("*")

	file, err := h.api.DownloadFile(c.Request().Context(), sess.UpstreamCookie, path)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return c.Render(http.StatusForbidden, "error.html", page{
				Title: "Access Denied",
				Role:  middleware.RoleFromContext(c),
				Error: &view.ErrorView{Message: "you do not have permission to view this file"},
			})
		case errors.Is(err, domain.ErrFileNotFound):
			return c.Render(http.StatusNotFound, "error.html", page{
				Title: "Not Found",
				Role:  middleware.RoleFromContext(c),
				Error: &view.ErrorView{Message: "the requested file does not exist"},
			})
		default:
			h.log.Error().Err(err).Str("path", path).Msg("file download failed")
			return c.Render(http.StatusBadGateway, "error.html", page{
				Title: "Error",
				Role:  middleware.RoleFromContext(c),
				Error: &view.ErrorView{Generic: true},
			})
		}
	}
	defer file.Body.Close()

	if file.Filename != "" {
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, file.Body)
}
