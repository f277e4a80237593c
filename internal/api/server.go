package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tutorboard/pkg/interfaces"
)

// StatsSource exposes counters without coupling to concrete registry or room
// manager implementations.
type StatsSource interface {
	Stats() map[string]int
}

// Server exposes the relay's ops endpoints: /health and /stats. No business
// logic here, only JSON over the injected components.
type Server struct {
	directory interfaces.UserDirectory
	registry  StatsSource
	rooms     StatsSource
	router    *http.ServeMux
}

// NewServer creates the ops server.
func NewServer(directory interfaces.UserDirectory, registry, rooms StatsSource) *Server {
	s := &Server{
		directory: directory,
		registry:  registry,
		rooms:     rooms,
		router:    http.NewServeMux(),
	}

	s.router.HandleFunc("/health", s.healthCheck)
	s.router.HandleFunc("/stats", s.stats)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	if err := s.directory.HealthCheck(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	s.sendJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"connections": s.registry.Stats(),
		"rooms":       s.rooms.Stats(),
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	s.sendJSON(w, code, map[string]string{"error": message})
}
