package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"ouroboros-backend/internal/handlers"
	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	planHandler *handlers.PlanHandler,
	subjectHandler *handlers.SubjectHandler,
	recordHandler *handlers.RecordHandler,
	reviewHandler *handlers.ReviewHandler,
	examHandler *handlers.ExamHandler,
	cycleHandler *handlers.CycleHandler,
	statsHandler *handlers.StatsHandler,
	jobHandler *handlers.JobHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Cycle generation runs the full scorer; keep it off the hot path
	generateLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)

		// ──── Plans ────
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", planHandler.Create)
			r.Get("/", planHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", planHandler.Get)
				r.Put("/", planHandler.Update)
				r.Delete("/", planHandler.Delete)

				r.Get("/settings", planHandler.GetSettings)
				r.Put("/settings", planHandler.UpdateSettings)

				// Syllabus
				r.Get("/subjects", subjectHandler.List)
				r.Post("/subjects", subjectHandler.Create)

				// Study history
				r.Get("/records", recordHandler.List)
				r.Post("/records", recordHandler.Create)

				// Scheduled reviews
				r.Get("/reviews", reviewHandler.List)

				// Mock exams
				r.Get("/exams", examHandler.List)
				r.Post("/exams", examHandler.Create)

				// Cycle engine
				r.Get("/recommendations", cycleHandler.Recommendations)
				r.Route("/cycle", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(generateLimiter.Middleware)
						r.Post("/", cycleHandler.Generate)
					})
					r.Get("/", cycleHandler.Get)
					r.Delete("/", cycleHandler.Remove)
					r.Put("/sessions", cycleHandler.UpdateSessions)
				})
				r.Get("/progress", cycleHandler.Progress)

				r.Get("/stats", statsHandler.PlanStats)
			})
		})

		// ──── Subjects (addressed directly) ────
		r.Route("/subjects/{id}", func(r chi.Router) {
			r.Put("/", subjectHandler.Update)
			r.Delete("/", subjectHandler.Delete)
			r.Put("/topics/weight", subjectHandler.UpdateTopicWeight)
		})

		// ──── Study records ────
		r.Route("/records/{id}", func(r chi.Router) {
			r.Put("/", recordHandler.Update)
			r.Delete("/", recordHandler.Delete)
		})

		// ──── Reviews ────
		r.Route("/reviews/{id}", func(r chi.Router) {
			r.Put("/complete", reviewHandler.Complete)
			r.Put("/skip", reviewHandler.Skip)
		})

		// ──── Mock exams ────
		r.Route("/exams/{id}", func(r chi.Router) {
			r.Put("/", examHandler.Update)
			r.Delete("/", examHandler.Delete)
		})

		// ──── Jobs ────
		r.Get("/jobs/{id}", jobHandler.GetJob)
	})

	// WebSocket endpoint authenticates via token query param
	r.Get("/ws", wsHub.HandleWebSocket)

	return r
}
