package api

import (
	"net/http"
	"time"

	"github.com/readquest/readquest/internal/app/rewards"
	"github.com/readquest/readquest/internal/app/sessions"
)

// --- POST /api/sessions ---

type submitSessionRequest struct {
	BookID           int64    `json:"book_id" validate:"required,min=1"`
	StartPage        int      `json:"start_page" validate:"min=0"`
	EndPage          int      `json:"end_page" validate:"min=0"`
	ChaptersFinished int      `json:"chapters_finished" validate:"min=0"`
	DurationMinutes  int      `json:"duration_minutes" validate:"min=0,max=1440"`
	GoalMinutes      int      `json:"goal_minutes" validate:"min=0,max=1440"`
	XPEarned         int64    `json:"xp_earned" validate:"min=0,max=100000"`
	Questions        []string `json:"questions"`
	Answers          []string `json:"answers"`
}

func (s *Server) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	var req submitSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.sessions.Submit(sessions.SubmitInput{
		StudentID:        studentID(r.Context()),
		BookID:           req.BookID,
		StartPage:        req.StartPage,
		EndPage:          req.EndPage,
		ChaptersFinished: req.ChaptersFinished,
		DurationMinutes:  req.DurationMinutes,
		GoalMinutes:      req.GoalMinutes,
		XPEarned:         req.XPEarned,
		Questions:        req.Questions,
		Answers:          req.Answers,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- GET /api/achievements ---

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	checklist, err := rewards.ProjectChecklist(s.db, studentID(r.Context()), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "project achievements failed")
		return
	}
	writeJSON(w, http.StatusOK, checklist)
}
