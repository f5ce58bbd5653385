package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carepulse/booking-api/internal/appointments"
	httpmiddleware "github.com/carepulse/booking-api/internal/http/middleware"
	"github.com/carepulse/booking-api/internal/patients"
	"github.com/carepulse/booking-api/internal/physicians"
	"github.com/carepulse/booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	PatientsHandler     *patients.Handler
	PhysiciansHandler   *physicians.Handler
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	PublicRateLimit     float64
	PublicRateBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health, metrics, physician roster)
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.AppointmentsHandler.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.PhysiciansHandler != nil {
			public.Get("/physicians", cfg.PhysiciansHandler.ListPhysicians)
		}
	})

	// Public booking routes, rate limited per IP
	r.Group(func(public chi.Router) {
		if cfg.PublicRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateBurst))
		}
		if cfg.PatientsHandler != nil {
			public.Post("/patients", cfg.PatientsHandler.RegisterPatient)
			public.Get("/patients/{patientID}", cfg.PatientsHandler.GetPatient)
		}
		public.Post("/patients/{userID}/appointments", cfg.AppointmentsHandler.CreateAppointment)
		public.Get("/appointments/{appointmentID}", cfg.AppointmentsHandler.GetAppointment)
	})

	// Admin dashboard routes (protected by JWT)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Get("/appointments", cfg.AppointmentsHandler.ListRecent)
		admin.Patch("/appointments/{appointmentID}", cfg.AppointmentsHandler.UpdateAppointment)
	})

	return r
}
