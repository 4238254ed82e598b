package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Route("/prompts/{promptID}", func(r chi.Router) {
		r.Get("/score", h.GetPromptScore)
		r.Post("/ratings", h.RatePrompt)
	})
	r.Post("/activity", h.RecordActivity)
	r.Post("/users/{userID}/badges/check", h.CheckBadges)

	r.Route("/leaderboards", func(r chi.Router) {
		r.Get("/global", h.GetGlobalLeaderboard)
		r.Get("/categories/{categoryID}", h.GetCategoryLeaderboard)
		r.Get("/trending", h.GetTrendingLeaderboard)
	})

	r.Post("/admin/rescore", h.RescoreAll)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
