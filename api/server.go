/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Employee management and records
  /api/clock            Bulk quick-clocking
  /api/models/*         Work-time models
  /api/lists/*          Rank and unit reference lists
  /api/statuses         Status configuration
  /api/preview/*        Ad-hoc calculations

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/records", h.ListRecords)
			r.Get("/{id}/records/{date}", h.GetRecord)
			r.Put("/{id}/records/{date}", h.UpdateRecord)
			r.Post("/{id}/materialize", h.Materialize)
		})

		// Clocking
		r.Post("/clock", h.Clock)

		// Work-time models
		r.Route("/models", func(r chi.Router) {
			r.Get("/", h.ListModels)
			r.Post("/", h.SaveModel)
			r.Delete("/{name}", h.DeleteModel)
		})

		// Reference lists
		r.Route("/lists", func(r chi.Router) {
			r.Get("/{name}", h.GetReferenceList)
			r.Put("/{name}", h.SaveReferenceList)
		})

		// Status configuration
		r.Get("/statuses", h.ListStatuses)

		// Ad-hoc calculations
		r.Get("/preview/net", h.PreviewNet)

		// Demo scenarios
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service":   "flexitime-engine",
			"employees": "/api/employees",
			"models":    "/api/models",
			"statuses":  "/api/statuses",
		})
	})

	return r
}
