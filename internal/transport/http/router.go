package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

type RouterConfig struct {
	Availability AvailabilityService
	Booking      BookingService
	DB           *bun.DB
	Redis        *redis.Client
	Log          *slog.Logger
	Version      string
}

// NewRouter assembles the HTTP surface. Health endpoints are open; every
// business route sits behind the identity middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(cfg.Log))

	health := &healthHandler{db: cfg.DB, redis: cfg.Redis, version: cfg.Version}
	r.Get("/health/live", health.liveness)
	r.Get("/health/ready", health.readiness)

	r.Group(func(r chi.Router) {
		r.Use(claimsMiddleware)

		r.Route("/availability", func(r chi.Router) {
			r.Post("/", createWindowHandler(cfg.Availability))
			r.Get("/{id}", getWindowHandler(cfg.Availability))
			r.Patch("/{id}", updateWindowHandler(cfg.Availability))
			r.Post("/{id}/deactivate", deactivateWindowHandler(cfg.Availability))
			r.Delete("/{id}", deleteWindowHandler(cfg.Availability))
		})

		r.Route("/providers/{providerID}", func(r chi.Router) {
			r.Get("/availability", listWindowsHandler(cfg.Availability))
			r.Get("/slots", openSlotsHandler(cfg.Booking))
			r.Get("/appointments/today", providerTodayHandler(cfg.Booking))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", bookAppointmentHandler(cfg.Booking))
			r.Get("/", listAppointmentsHandler(cfg.Booking))
			r.Get("/{id}", getAppointmentHandler(cfg.Booking))
			r.Post("/{id}/reschedule", rescheduleAppointmentHandler(cfg.Booking))
			r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Booking))
			r.Post("/{id}/complete", completeAppointmentHandler(cfg.Booking))
			r.Post("/{id}/no-show", noShowAppointmentHandler(cfg.Booking))
		})
	})

	return r
}
