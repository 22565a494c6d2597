package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/botconsole/internal/service/bots"
	"github.com/ignite/botconsole/internal/service/broadcast"
	"github.com/ignite/botconsole/internal/service/flows"
	"github.com/ignite/botconsole/internal/service/questions"
)

// Handlers bundles the services the HTTP layer exposes. loc is the
// platform's operating timezone; date-only filter params are interpreted
// as calendar days in it.
type Handlers struct {
	Bots       *bots.Service
	Flows      *flows.Service
	Questions  *questions.Service
	Broadcasts *broadcast.Service
	loc        *time.Location
}

// NewHandlers creates the handler set.
func NewHandlers(b *bots.Service, f *flows.Service, q *questions.Service, bc *broadcast.Service, loc *time.Location) *Handlers {
	return &Handlers{Bots: b, Flows: f, Questions: q, Broadcasts: bc, loc: loc}
}

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Name"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/bots", func(r chi.Router) {
			r.Get("/", h.ListBots)
			r.Get("/{abbr}", h.GetBot)
		})

		r.Route("/flows", func(r chi.Router) {
			r.Get("/", h.ListFlows)
			r.Post("/", h.CreateFlow)
			r.Delete("/", h.DeleteFlows)
			r.Get("/fields/{field}", h.FlowFieldValues)
			r.Get("/{id}", h.GetFlow)
			r.Put("/{id}", h.UpdateFlow)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.ListQuestions)
			r.Post("/", h.CreateQuestion)
			r.Delete("/", h.DeleteQuestions)
			r.Get("/{id}", h.GetQuestion)
			r.Put("/{id}", h.UpdateQuestion)
		})

		r.Route("/broadcasts", func(r chi.Router) {
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", h.ListTemplates)
				r.Post("/", h.CreateTemplate)
				r.Get("/{id}", h.GetTemplate)
				r.Put("/{id}", h.UpdateTemplate)
				r.Delete("/{id}", h.DeleteTemplate)
			})
			r.Get("/history", h.ListHistory)
			r.Get("/history/{id}", h.GetBroadcast)
			r.Get("/tags", h.UserTags)
			r.Get("/users", h.PreviewRecipients)
			r.Post("/send", h.SendBroadcast)
		})
	})

	return r
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
