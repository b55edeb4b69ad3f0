package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/api/handler"
	"github.com/medicare/portal/internal/api/middleware"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
	"github.com/medicare/portal/internal/core/service"
	"github.com/medicare/portal/internal/infrastructure/http/handlers"
)

// Deps is everything the router hands to its handlers.
type Deps struct {
	Log    zerolog.Logger
	Cookie middleware.Cookie
	Tokens ports.SessionTokens
	Store  ports.SessionStore
	Router *service.RoleRouter

	Auth       ports.AuthService
	Dashboards ports.DashboardService
	Clinical   ports.ClinicalService
	Booking    ports.BookingService
	Admin      ports.AdminService
	Chat       ports.ChatService

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.Pinger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Cookie)

	if d.Router == nil {
		d.Router = service.NewRoleRouter(nil)
	}
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Logger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || strings.HasPrefix(p, "/health")
		},
	}))
	e.Use(middleware.Session(d.Cookie, d.Tokens, d.Store))

	// --- Health probes and metrics (no session required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: is the session backend up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	nav := middleware.NavigationGuard(d.Router)
	// mount returns the guarded group of role's dashboard. A role missing from
	// the route table gets no routes at all rather than a group at the root.
	mount := func(role domain.Role) (*echo.Group, bool) {
		route, ok := d.Router.Dashboard(role)
		if !ok || route.Path == "" || route.Path == domain.PathRoot {
			d.Log.Warn().Str("role", string(role)).Msg("no dashboard route, role not mounted")
			return nil, false
		}
		return e.Group(route.Path, nav, middleware.RequireRole(d.Router, role)), true
	}

	// --- Session ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Tokens, d.Router, d.Cookie)
	e.GET(domain.PathRoot, authHandler.Home, nav)
	e.GET(domain.PathLogin, authHandler.LoginPage, nav)
	e.POST(domain.PathLogin, authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)

	// --- Chat widget (every page, anonymous allowed) ---
	chatHandler := handler.NewChatHandler(d.Chat)
	e.POST("/chat/message", chatHandler.Send)

	dashboards := handler.NewDashboardHandler(d.Dashboards, d.Router)
	clinical := handler.NewClinicalHandler(d.Clinical, d.Dashboards)
	booking := handler.NewBookingHandler(d.Booking, d.Dashboards)
	admin := handler.NewAdminHandler(d.Admin, d.Dashboards)

	// --- Patient ---
	if patient, ok := mount(domain.RolePatient); ok {
		patient.GET("", dashboards.Patient)
		patient.GET("/medical-history", dashboards.OwnMedicalHistory)
		patient.GET("/booking", booking.View)
		patient.DELETE("/booking", booking.Close)
		patient.POST("/booking/submit", booking.Submit)
		patient.POST("/booking/:step/:action", booking.Step)
	}

	// --- Doctor ---
	if doctor, ok := mount(domain.RoleDoctor); ok {
		doctor.GET("", dashboards.Doctor)
		doctor.POST("/reports", clinical.CreateReport)
		doctor.POST("/prescriptions", clinical.CreatePrescription)
		doctor.POST("/lab-orders", clinical.CreateLabOrder)
	}

	// --- Pharmacist ---
	if pharmacist, ok := mount(domain.RolePharmacist); ok {
		pharmacist.GET("", dashboards.Pharmacist)
		pharmacist.POST("/prescriptions/:id/fulfill", clinical.FulfillPrescription)
	}

	// --- Nurse ---
	if nurse, ok := mount(domain.RoleNurse); ok {
		nurse.GET("", dashboards.Nurse)
		nurse.GET("/patients", clinical.ListPatients)
		nurse.POST("/vitals", clinical.RecordVitals)
	}

	// --- Lab technician ---
	if labtech, ok := mount(domain.RoleLabTechnician); ok {
		labtech.GET("", dashboards.LabTech)
		labtech.GET("/templates", dashboards.Templates)
		labtech.POST("/results", clinical.RecordLabResult)
	}

	// --- Administrator ---
	if adm, ok := mount(domain.RoleAdministrator); ok {
		adm.GET("", dashboards.Admin)
		adm.POST("/users", admin.CreateUser)
		adm.GET("/users/:id", admin.GetUser)
		adm.PATCH("/users/:id", admin.UpdateUser)
		adm.DELETE("/users/:id", admin.DeleteUser)
		adm.GET("/user-type", admin.UserTypeDraft)
		adm.POST("/user-type/:action", admin.UserTypeStep)
	}

	// --- Shared clinical record ---
	e.GET("/patients/:id/medical-history", dashboards.MedicalHistory,
		nav, middleware.RequireRole(d.Router,
			domain.RolePatient, domain.RoleDoctor, domain.RoleNurse, domain.RoleAdministrator))

	return e
}
