package api

import (
	"net/http"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// --- POST /api/join ---

type joinRequest struct {
	ClassCode string `json:"class_code" validate:"required"`
	Nickname  string `json:"nickname" validate:"required,max=50"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	student, err := s.roster.Join(req.ClassCode, req.Nickname)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"student": student})
}

// --- GET /api/summary ---

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := studentID(r.Context())

	student, err := s.db.GetStudent(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load student failed")
		return
	}
	if student == nil {
		writeDomainError(w, domain.ErrStudentNotFound)
		return
	}
	stats, err := s.db.StudentStats(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load stats failed")
		return
	}
	books, err := s.db.CompletionCount(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load completions failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"student":         student,
		"stats":           stats,
		"completed_books": books,
	})
}

// --- POST /api/books ---

type createBookRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Author     string `json:"author" validate:"max=200"`
	TotalPages int    `json:"total_pages" validate:"min=0"`
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := s.db.InsertBook(domain.Book{
		StudentID:  studentID(r.Context()),
		Title:      req.Title,
		Author:     req.Author,
		TotalPages: req.TotalPages,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create book failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"book": book})
}

// --- GET /api/books ---

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.db.ListBooks(studentID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list books failed")
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}
