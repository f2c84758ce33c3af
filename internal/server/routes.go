package server

import (
	"net/http"

	"github.com/rs/cors"
)

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /group_tasks", s.requireAPIKey(http.HandlerFunc(s.handleGroupTasks)))
	mux.Handle("POST /infer_dependencies", s.requireAPIKey(http.HandlerFunc(s.handleInferDependencies)))
	mux.Handle("POST /prioritize_tasks", s.requireAPIKey(http.HandlerFunc(s.handlePrioritizeTasks)))
	mux.Handle("POST /create_pomodoro_schedule", s.requireAPIKey(http.HandlerFunc(s.handleCreateSchedule)))
	mux.Handle("POST /schedule_briefing", s.requireAPIKey(http.HandlerFunc(s.handleScheduleBriefing)))
	mux.Handle("POST /find_similar_tasks", s.requireAPIKey(http.HandlerFunc(s.handleFindSimilar)))

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", apiKeyHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return s.withRequestID(c.Handler(s.withTimeout(mux)))
}
