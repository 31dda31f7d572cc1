package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/readquest/readquest/internal/domain"
)

// --- POST /api/admin/classes ---

type createClassRequest struct {
	Name string `json:"name" validate:"max=100"`
}

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	class, err := s.roster.CreateClass(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create class failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"class": class})
}

// --- GET /api/admin/classes/{code}/students ---

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.roster.Students(chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if students == nil {
		students = []domain.StudentSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": students})
}

// --- GET /api/admin/classes/{code}/reflections ---

func (s *Server) handleListReflections(w http.ResponseWriter, r *http.Request) {
	reflections, err := s.roster.Reflections(chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reflections == nil {
		reflections = []domain.ClassReflection{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reflections": reflections})
}

// --- POST /api/admin/students/{id}/coins ---

type grantCoinsRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1,max=100000"`
}

func (s *Server) handleGrantCoins(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	var req grantCoinsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stats, err := s.roster.GrantCoins(id, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// --- DELETE /api/admin/students/{id} ---

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	if err := s.roster.RemoveStudent(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
