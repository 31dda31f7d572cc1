package domain

import "time"

// Class is a teacher-created roster that students join with a short code.
type Class struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Student is a member of a class, identified by (class, nickname).
// Joining with an existing nickname resolves to the same student.
type Student struct {
	ID        int64     `json:"id"`
	ClassID   int64     `json:"class_id"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentStats is the single mutable per-student progression row.
// TotalCoinsEarned is monotonic; spending never decrements it.
// LastActiveDate is a UTC calendar date ("2006-01-02"), empty if never active.
type StudentStats struct {
	StudentID        int64  `json:"student_id"`
	TotalXP          int64  `json:"total_xp"`
	Level            int    `json:"level"`
	Coins            int64  `json:"coins"`
	TotalCoinsEarned int64  `json:"total_coins_earned"`
	StreakDays       int    `json:"streak_days"`
	LastActiveDate   string `json:"last_active_date"`
}

// StudentSummary pairs a student with their stats for roster views.
type StudentSummary struct {
	Student Student      `json:"student"`
	Stats   StudentStats `json:"stats"`
}
