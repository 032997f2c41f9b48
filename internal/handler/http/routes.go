package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	router.Method("GET", "/metrics", promhttp.Handler())

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/companions", func(r chi.Router) {
			r.Get("/", h.listCompanions)
			r.Post("/", h.createCompanion)
			r.Patch("/{companionID}/permissions", h.updateCompanionPermissions)
			r.Post("/{companionID}/unlink", h.unlinkCompanion)
			r.Delete("/{companionID}", h.deleteCompanion)
		})

		r.Route("/api/trips", func(r chi.Router) {
			r.Get("/", h.listAccessibleTrips)
			r.Post("/", h.createTrip)
			r.Get("/{tripID}", h.getTrip)
			r.Get("/{tripID}/companions", h.listTripCompanions)
			r.Post("/{tripID}/companions", h.addTripCompanion)
			r.Patch("/{tripID}/companions/{companionID}", h.updateTripCompanion)
			r.Delete("/{tripID}/companions/{companionID}", h.removeTripCompanion)
			r.Post("/{tripID}/items", h.createItem)
		})

		r.Route("/api/items/{itemType}/{itemID}", func(r chi.Router) {
			r.Get("/companions", h.getItemCompanions)
			r.Get("/permissions", h.getItemPermissions)
		})
	})

	return router
}
