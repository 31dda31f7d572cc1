// Package api provides the ReadQuest HTTP server: the student-facing
// session/achievement/room endpoints and the teacher admin surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/readquest/readquest/internal/app/room"
	"github.com/readquest/readquest/internal/app/roster"
	"github.com/readquest/readquest/internal/app/sessions"
	"github.com/readquest/readquest/internal/domain"
	"github.com/readquest/readquest/internal/health"
	"github.com/readquest/readquest/internal/infra/metrics"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

// studentHeader carries the resolved student ID on student endpoints.
const studentHeader = "X-Student-ID"

// adminHeader carries the shared admin key on teacher endpoints.
const adminHeader = "X-Admin-Key"

// Server is the ReadQuest HTTP API server.
type Server struct {
	db             *sqlite.DB
	roster         *roster.Service
	sessions       *sessions.Service
	room           *room.Service
	health         *health.Checker
	adminKey       string
	metricsEnabled bool
}

// NewServer wires the API over the application services.
func NewServer(db *sqlite.DB, rosterSvc *roster.Service, sessionSvc *sessions.Service, roomSvc *room.Service) *Server {
	return &Server{db: db, roster: rosterSvc, sessions: sessionSvc, room: roomSvc}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetAdminKey sets the shared secret for teacher endpoints.
func (s *Server) SetAdminKey(key string) { s.adminKey = key }

// SetHealth sets the health checker backing /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)
	r.Use(timingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/join", s.handleJoin)

		// Student endpoints (X-Student-ID header)
		r.Group(func(r chi.Router) {
			r.Use(s.requireStudent)
			r.Get("/summary", s.handleSummary)
			r.Post("/books", s.handleCreateBook)
			r.Get("/books", s.handleListBooks)
			r.Post("/sessions", s.handleSubmitSession)
			r.Get("/achievements", s.handleAchievements)
			r.Get("/room", s.handleRoom)
			r.Post("/room/purchase", s.handleRoomPurchase)
			r.Post("/room/equip", s.handleRoomEquip)
		})

		// Teacher endpoints (X-Admin-Key header)
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/classes", s.handleCreateClass)
			r.Get("/classes/{code}/students", s.handleListStudents)
			r.Get("/classes/{code}/reflections", s.handleListReflections)
			r.Post("/students/{id}/coins", s.handleGrantCoins)
			r.Delete("/students/{id}", s.handleDeleteStudent)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil && !s.health.IsHealthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"checks": s.health.Statuses(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Middleware ─────────────────────────────────────────────────────────────

type contextKey string

const studentIDKey contextKey = "student_id"

// requireStudent resolves the X-Student-ID header to an existing student.
func (s *Server) requireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(studentHeader)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+studentHeader+" header")
			return
		}
		student, err := s.db.GetStudent(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "lookup student failed")
			return
		}
		if student == nil {
			writeError(w, http.StatusUnauthorized, "unknown student")
			return
		}
		next.ServeHTTP(w, r.WithContext(withStudentID(r.Context(), id)))
	})
}

// requireAdmin checks the shared admin key.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" || r.Header.Get(adminHeader) != s.adminKey {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+adminHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps sentinel errors to status codes; anything else is a
// generic server fault (transaction failures roll back cleanly, so retries
// are safe for the caller).
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrStudentNotFound),
		errors.Is(err, domain.ErrClassNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyNickname):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientCoins),
		errors.Is(err, domain.ErrItemAlreadyOwned),
		errors.Is(err, domain.ErrItemNotOwned):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// timingMiddleware records request duration by route pattern and status.
func timingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.RequestDuration.
			WithLabelValues(route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

// corsMiddleware adds CORS headers for the classroom web client.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+studentHeader+", "+adminHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
