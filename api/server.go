/*
server.go - HTTP router and middleware configuration

Wires URLs to handlers: chi for routing, the usual middleware stack
(Logger, Recoverer, RequestID) and permissive CORS for the back-office
frontend served elsewhere.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/{year}/{month}", h.GetMonth)
			r.Post("/click", h.Click)
			r.Post("/paint/toggle", h.PaintToggle)
			r.Post("/paint", h.Paint)
			r.Post("/all-present", h.AllPresent)
			r.Put("/note", h.PutNote)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
		})

		r.Post("/leave/validate", h.ValidateLeave)
	})

	return r
}
