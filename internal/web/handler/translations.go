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

// TranslationHubs groups the polling hubs behind the translation screens,
// one per list view.
type TranslationHubs struct {
	All        *poll.Hub[domain.Translation]
	Unassigned *poll.Hub[domain.Translation]
	Offered    *poll.Hub[domain.Translation]
	Accepted   *poll.Hub[domain.Translation]
	Mine       *poll.Hub[domain.Translation]
}

func (hubs *TranslationHubs) Drop(sessionID string) {
	hubs.All.Drop(sessionID)
	hubs.Unassigned.Drop(sessionID)
	hubs.Offered.Drop(sessionID)
	hubs.Accepted.Drop(sessionID)
	hubs.Mine.Drop(sessionID)
}

func (hubs *TranslationHubs) Close() {
	hubs.All.Close()
	hubs.Unassigned.Close()
	hubs.Offered.Close()
	hubs.Accepted.Close()
	hubs.Mine.Close()
}

type TranslationsHandler struct {
	api  ports.BookingAPI
	hubs *TranslationHubs
	log  zerolog.Logger
}

func NewTranslationsHandler(api ports.BookingAPI, hubs *TranslationHubs, log zerolog.Logger) *TranslationsHandler {
	return &TranslationsHandler{api: api, hubs: hubs, log: log}
}

type translationsPage struct {
	page
	Jobs         ListView[domain.Translation]
	Unassigned   ListView[domain.Translation]
	Interpreters []domain.Interpreter
	Languages    []domain.Language
	Requested    bool
}

// Page renders the translations screen for the visiting role, mirroring the
// appointments screen layout.
func (h *TranslationsHandler) Page(c echo.Context) error {
	return c.Render(http.StatusOK, "translations.html", h.pageData(c, nil))
}

func (h *TranslationsHandler) pageData(c echo.Context, actionErr error) translationsPage {
	sess := middleware.SessionFromContext(c)
	role := middleware.RoleFromContext(c)
	cookie := sess.UpstreamCookie

	data := translationsPage{
		page:      page{Title: "Translations", Role: role, Error: view.Errorify(actionErr)},
		Requested: c.QueryParam("requested") == "1",
	}

	switch role {
	case domain.RoleAdmin:
		data.Jobs = listView(h.hubs.All.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Translation, error) {
			return h.api.FetchTranslations(ctx, cookie, false)
		}))
		data.Unassigned = listView(h.hubs.Unassigned.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Translation, error) {
			return h.api.FetchTranslations(ctx, cookie, true)
		}))
		interpreters, err := h.api.Interpreters(c.Request().Context(), cookie)
		if err != nil {
			h.log.Warn().Err(err).Msg("interpreters fetch failed")
		}
		data.Interpreters = interpreters
	case domain.RoleInterpreter:
		data.Jobs = listView(h.hubs.Offered.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Translation, error) {
			return h.api.OfferedTranslations(ctx, cookie)
		}))
	case domain.RoleCustomer:
		data.Jobs = listView(h.hubs.Mine.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Translation, error) {
			return h.api.FetchTranslations(ctx, cookie, false)
		}))
		languages, err := h.api.Languages(c.Request().Context(), cookie)
		if err != nil {
			h.log.Warn().Err(err).Msg("languages fetch failed")
		}
		data.Languages = languages
	}
	return data
}

// AcceptedPage is the interpreter's in-progress translations screen.
func (h *TranslationsHandler) AcceptedPage(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	cookie := sess.UpstreamCookie

	data := translationsPage{
		page: page{Title: "My Translations", Role: middleware.RoleFromContext(c)},
	}
	data.Jobs = listView(h.hubs.Accepted.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Translation, error) {
		return h.api.AcceptedTranslations(ctx, cookie)
	}))
	return c.Render(http.StatusOK, "translations_accepted.html", data)
}

// Request submits the customer translation form together with its document
// upload.
func (h *TranslationsHandler) Request(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req ports.RequestTranslationInput
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "translations.html", h.pageData(c, &domain.APIError{Message: "invalid form submission"}))
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, err))
	}

	fh, err := c.FormFile("document")
	if err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, &domain.APIError{Message: "a document is required"}))
	}
	doc, err := fh.Open()
	if err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, &domain.APIError{Message: "could not read the uploaded document"}))
	}
	defer doc.Close()

	if err := h.api.RequestTranslation(c.Request().Context(), sess.UpstreamCookie, req, doc, fh.Filename); err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/translations?requested=1")
}

type translationOfferForm struct {
	TranslationID int      `form:"translation_id" validate:"required"`
	Interpreters  []string `form:"interpreters" validate:"required,min=1"`
}

// Offer sends an unassigned translation to the selected interpreters.
func (h *TranslationsHandler) Offer(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req translationOfferForm
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "translations.html", h.pageData(c, &domain.APIError{Message: "invalid form submission"}))
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, err))
	}

	if err := h.api.OfferTranslation(c.Request().Context(), sess.UpstreamCookie, req.TranslationID, req.Interpreters); err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/translations")
}

type translationRespondForm struct {
	TranslationID int  `form:"translation_id" validate:"required"`
	Accepted      bool `form:"accepted"`
}

// Respond records an interpreter's accept/decline on a translation offer.
func (h *TranslationsHandler) Respond(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req translationRespondForm
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "translations.html", h.pageData(c, &domain.APIError{Message: "invalid form submission"}))
	}

	if err := h.api.RespondToTranslationOffer(c.Request().Context(), sess.UpstreamCookie, req.TranslationID, req.Accepted); err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/translations")
}

type wordCountForm struct {
	TranslationID   int `form:"translation_id" validate:"required"`
	ActualWordCount int `form:"actual_word_count" validate:"required,gt=0"`
}

// SetWordCount records the actual word count on a finished translation.
func (h *TranslationsHandler) SetWordCount(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req wordCountForm
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/translations/accepted")
	}
	if err := c.Validate(&req); err != nil {
		return h.renderAccepted(c, err)
	}

	if err := h.api.SetTranslationWordCount(c.Request().Context(), sess.UpstreamCookie, req.TranslationID, req.ActualWordCount); err != nil {
		return h.renderAccepted(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/translations/accepted")
}

func (h *TranslationsHandler) renderAccepted(c echo.Context, err error) error {
	sess := middleware.SessionFromContext(c)
	cookie := sess.UpstreamCookie

	data := translationsPage{
		page: page{Title: "My Translations", Role: middleware.RoleFromContext(c), Error: view.Errorify(err)},
	}
	data.Jobs = listView(h.hubs.Accepted.Snapshot(sess.ID, func(ctx context.Context) ([]domain.Translation, error) {
		return h.api.AcceptedTranslations(ctx, cookie)
	}))
	return c.Render(http.StatusOK, "translations_accepted.html", data)
}

type translationInvoiceForm struct {
	TranslationID int `form:"translation_id" validate:"required"`
}

// ToggleInvoice flips the invoiced flag on a translation.
func (h *TranslationsHandler) ToggleInvoice(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	var req translationInvoiceForm
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/translations")
	}

	if err := h.api.ToggleTranslationInvoice(c.Request().Context(), sess.UpstreamCookie, req.TranslationID); err != nil {
		return c.Render(http.StatusOK, "translations.html", h.pageData(c, err))
	}
	return c.Redirect(http.StatusSeeOther, "/translations")
}
