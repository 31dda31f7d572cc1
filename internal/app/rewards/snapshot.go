package rewards

import (
	"fmt"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// Store is the persistence surface the engine reads and writes. Both the
// SQLite handle and its transaction scope satisfy it, so evaluation can run
// inside the session-completion transaction.
type Store interface {
	SessionTotals(studentID int64) (sessions, pages, minutes int, err error)
	SessionTotalsBetween(studentID int64, from, to time.Time) (sessions, pages, minutes int, err error)
	ReflectionSessionCount(studentID int64) (int, error)
	CompletionCount(studentID int64) (int, error)
	StudentStats(studentID int64) (domain.StudentStats, error)

	GrantUnlock(studentID int64, key, periodKey string, xp, coins int64, at time.Time) (*domain.Unlock, error)
	ExistingUnlockPeriods(studentID int64, keys []string) (map[string]map[string]bool, error)
	ListUnlocks(studentID int64) ([]domain.Unlock, error)
	UnlockCountsByKey(studentID int64) (map[string]int, error)
}

// BuildSnapshot aggregates a student's lifetime and current-week activity
// counters into one snapshot. weekKey selects which ISO week counts as
// "this week"; callers pass the same key across one logical operation so
// evaluation and persistence agree. Pure read, safe to call repeatedly.
func BuildSnapshot(s Store, studentID int64, weekKey string) (domain.Snapshot, error) {
	var snap domain.Snapshot

	sessions, pages, minutes, err := s.SessionTotals(studentID)
	if err != nil {
		return snap, fmt.Errorf("session totals: %w", err)
	}
	snap.TotalSessions = clampNonNegative(sessions)
	snap.TotalPages = clampNonNegative(pages)
	snap.TotalMinutes = clampNonNegative(minutes)

	stats, err := s.StudentStats(studentID)
	if err != nil {
		return snap, fmt.Errorf("student stats: %w", err)
	}
	snap.StreakDays = stats.StreakDays
	if snap.StreakDays < 1 {
		snap.StreakDays = 1
	}

	reflections, err := s.ReflectionSessionCount(studentID)
	if err != nil {
		return snap, fmt.Errorf("reflection count: %w", err)
	}
	snap.ReflectionSessions = clampNonNegative(reflections)

	weekStart, weekEnd, err := WeekBounds(weekKey)
	if err != nil {
		return snap, err
	}
	wSessions, wPages, wMinutes, err := s.SessionTotalsBetween(studentID, weekStart, weekEnd)
	if err != nil {
		return snap, fmt.Errorf("week totals: %w", err)
	}
	snap.WeekSessions = clampNonNegative(wSessions)
	snap.WeekPages = clampNonNegative(wPages)
	snap.WeekMinutes = clampNonNegative(wMinutes)

	books, err := s.CompletionCount(studentID)
	if err != nil {
		return snap, fmt.Errorf("completion count: %w", err)
	}
	snap.CompletedBooks = clampNonNegative(books)

	return snap, nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
