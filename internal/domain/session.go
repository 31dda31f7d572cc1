package domain

import "time"

// Book is one title on a student's shelf. CurrentPage is clamped to
// TotalPages; a book with TotalPages 0 can never complete.
type Book struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReadingSession is one submitted log entry. XPEarned is the streak-boosted
// amount actually credited, not the client-proposed base.
type ReadingSession struct {
	ID               int64     `json:"id"`
	StudentID        int64     `json:"student_id"`
	BookID           int64     `json:"book_id"`
	StartPage        int       `json:"start_page"`
	EndPage          int       `json:"end_page"`
	ChaptersFinished int       `json:"chapters_finished"`
	DurationMinutes  int       `json:"duration_minutes"`
	GoalMinutes      int       `json:"goal_minutes"`
	XPEarned         int64     `json:"xp_earned"`
	CreatedAt        time.Time `json:"created_at"`
}

// PagesRead returns the pages this session contributes to totals.
// Never negative, even if a student logs end < start.
func (s ReadingSession) PagesRead() int {
	if d := s.EndPage - s.StartPage; d > 0 {
		return d
	}
	return 0
}

// Reflection is one question/answer pair attached to a session.
type Reflection struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	StudentID int64     `json:"student_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// ClassReflection is a reflection joined with its author for teacher review.
type ClassReflection struct {
	Reflection
	Nickname  string `json:"nickname"`
	BookTitle string `json:"book_title"`
}

// BookCompletion marks the first time a student finished a book.
// CompletionNumber is 1, 2, 3, … per student, assigned at insert time.
// Unique per (student, book): re-reading never completes twice.
type BookCompletion struct {
	StudentID        int64     `json:"student_id"`
	BookID           int64     `json:"book_id"`
	CompletionNumber int       `json:"completion_number"`
	CompletedAt      time.Time `json:"completed_at"`
}
