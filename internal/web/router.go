// Package web wires the gateway's HTTP surface: session resolution, route
// guards, page handlers, and the polling hubs behind the list screens.
package web

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/service"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/poll"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/handler"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/middleware"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

// RouterDeps carries everything the router needs; nothing is constructed from
// globals.
type RouterDeps struct {
	Auth         *service.AuthService
	API          ports.BookingAPI
	Redis        *redis.Client // nil when sessions live in memory
	PollInterval time.Duration
	PollIdleTTL  time.Duration
	Log          zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered. The returned
// closer stops every polling hub and must be called on shutdown.
func NewRouter(deps RouterDeps) (*echo.Echo, func(), error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("bookingweb"))
	e.Use(middleware.Session(deps.Auth))

	// --- Polling hubs, one per list view ---
	requests := poll.NewHub[domain.AccountRequest]("account_requests", deps.PollInterval, deps.PollIdleTTL)
	appointments := &handler.AppointmentHubs{
		All:        poll.NewHub[domain.Appointment]("appointments_all", deps.PollInterval, deps.PollIdleTTL),
		Unassigned: poll.NewHub[domain.Appointment]("appointments_unassigned", deps.PollInterval, deps.PollIdleTTL),
		Offered:    poll.NewHub[domain.Appointment]("appointments_offered", deps.PollInterval, deps.PollIdleTTL),
		Accepted:   poll.NewHub[domain.Appointment]("appointments_accepted", deps.PollInterval, deps.PollIdleTTL),
		Mine:       poll.NewHub[domain.Appointment]("appointments_mine", deps.PollInterval, deps.PollIdleTTL),
	}
	translations := &handler.TranslationHubs{
		All:        poll.NewHub[domain.Translation]("translations_all", deps.PollInterval, deps.PollIdleTTL),
		Unassigned: poll.NewHub[domain.Translation]("translations_unassigned", deps.PollInterval, deps.PollIdleTTL),
		Offered:    poll.NewHub[domain.Translation]("translations_offered", deps.PollInterval, deps.PollIdleTTL),
		Accepted:   poll.NewHub[domain.Translation]("translations_accepted", deps.PollInterval, deps.PollIdleTTL),
		Mine:       poll.NewHub[domain.Translation]("translations_mine", deps.PollInterval, deps.PollIdleTTL),
	}

	dropPollers := func(sessionID string) {
		requests.Drop(sessionID)
		appointments.Drop(sessionID)
		translations.Drop(sessionID)
	}
	closeHubs := func() {
		requests.Close()
		appointments.Close()
		translations.Close()
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, dropPollers, deps.Log)
	homeHandler := handler.NewHomeHandler()
	adminHandler := handler.NewAdminHandler(deps.API, requests, deps.Log)
	appointmentsHandler := handler.NewAppointmentsHandler(deps.API, appointments, deps.Log)
	translationsHandler := handler.NewTranslationsHandler(deps.API, translations, deps.Log)
	profileHandler := handler.NewProfileHandler(deps.API, deps.Log)
	filesHandler := handler.NewFilesHandler(deps.API, deps.Log)

	anyRole := middleware.Guard(deps.Auth, domain.RoleAdmin, domain.RoleInterpreter, domain.RoleCustomer)
	adminOnly := middleware.Guard(deps.Auth, domain.RoleAdmin)
	interpreterOnly := middleware.Guard(deps.Auth, domain.RoleInterpreter)
	customerOnly := middleware.Guard(deps.Auth, domain.RoleCustomer)

	// --- Public routes ---
	e.GET("/", homeHandler.Root)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)

	// --- Guarded pages ---
	e.GET("/home", homeHandler.Home, anyRole)

	e.GET("/admin", adminHandler.Page, adminOnly)
	e.POST("/admin/accounts", adminHandler.CreateAccount, adminOnly)
	e.POST("/admin/requests", adminHandler.ResolveRequest, adminOnly)

	e.GET("/appointments", appointmentsHandler.Page, anyRole)
	e.POST("/appointments/request", appointmentsHandler.Request, customerOnly)
	e.POST("/appointments/offer", appointmentsHandler.Offer, adminOnly)
	e.POST("/appointments/respond", appointmentsHandler.Respond, interpreterOnly)
	e.POST("/appointments/invoice", appointmentsHandler.ToggleInvoice, adminOnly)
	e.GET("/appointments/accepted", appointmentsHandler.AcceptedPage, interpreterOnly)
	e.POST("/appointments/edit", appointmentsHandler.Edit, interpreterOnly)

	e.GET("/translations", translationsHandler.Page, anyRole)
	e.POST("/translations/request", translationsHandler.Request, customerOnly)
	e.POST("/translations/offer", translationsHandler.Offer, adminOnly)
	e.POST("/translations/respond", translationsHandler.Respond, interpreterOnly)
	e.POST("/translations/invoice", translationsHandler.ToggleInvoice, adminOnly)
	e.GET("/translations/accepted", translationsHandler.AcceptedPage, interpreterOnly)
	e.POST("/translations/word-count", translationsHandler.SetWordCount, interpreterOnly)

	e.GET("/profile", profileHandler.Page, anyRole)
	e.POST("/profile", profileHandler.Save, anyRole)

	e.GET("/files/*", filesHandler.Download, anyRole)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, closeHubs, nil
}
