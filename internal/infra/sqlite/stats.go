package sqlite

import (
	"database/sql"

	"github.com/readquest/readquest/internal/domain"
)

// StudentStats loads a student's progression row. A missing row yields the
// defaults (level 1, streak 1, everything else zero) rather than an error.
func (s queries) StudentStats(studentID int64) (domain.StudentStats, error) {
	stats := domain.StudentStats{StudentID: studentID, Level: 1, StreakDays: 1}
	err := s.q.QueryRow(
		`SELECT total_xp, level, coins, total_coins_earned, streak_days, last_active_date
		 FROM student_stats WHERE student_id = ?`, studentID,
	).Scan(&stats.TotalXP, &stats.Level, &stats.Coins,
		&stats.TotalCoinsEarned, &stats.StreakDays, &stats.LastActiveDate)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	if stats.StreakDays < 1 {
		stats.StreakDays = 1
	}
	return stats, nil
}

// UpsertStats writes the full progression row.
func (s queries) UpsertStats(stats domain.StudentStats) error {
	_, err := s.q.Exec(
		`INSERT INTO student_stats (student_id, total_xp, level, coins, total_coins_earned, streak_days, last_active_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(student_id) DO UPDATE SET
			total_xp=excluded.total_xp,
			level=excluded.level,
			coins=excluded.coins,
			total_coins_earned=excluded.total_coins_earned,
			streak_days=excluded.streak_days,
			last_active_date=excluded.last_active_date`,
		stats.StudentID, stats.TotalXP, stats.Level, stats.Coins,
		stats.TotalCoinsEarned, stats.StreakDays, stats.LastActiveDate,
	)
	return err
}

// AddCoins credits coins to a student (admin grants). Both the spendable
// balance and the monotonic lifetime total increase.
func (s queries) AddCoins(studentID int64, amount int64) error {
	_, err := s.q.Exec(
		`INSERT INTO student_stats (student_id, coins, total_coins_earned)
		 VALUES (?, ?, ?)
		 ON CONFLICT(student_id) DO UPDATE SET
			coins = coins + excluded.coins,
			total_coins_earned = total_coins_earned + excluded.total_coins_earned`,
		studentID, amount, amount,
	)
	return err
}

// SpendCoins debits the spendable balance only; the lifetime total is
// untouched. Returns domain.ErrInsufficientCoins if the balance is short.
func (s queries) SpendCoins(studentID int64, amount int64) error {
	res, err := s.q.Exec(
		`UPDATE student_stats SET coins = coins - ?
		 WHERE student_id = ? AND coins >= ?`,
		amount, studentID, amount,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrInsufficientCoins
	}
	return nil
}

// ─── Book Completions ───────────────────────────────────────────────────────

// NextCompletionNumber returns max(existing)+1 for the student. Callers run
// this inside the session transaction so concurrent submissions for one
// student cannot observe the same maximum.
func (s queries) NextCompletionNumber(studentID int64) (int, error) {
	var n int
	err := s.q.QueryRow(
		`SELECT COALESCE(MAX(completion_number), 0) + 1 FROM book_completions WHERE student_id = ?`,
		studentID,
	).Scan(&n)
	return n, err
}

// InsertCompletion records a book completion. Returns false if the
// (student, book) pair has already completed: processing the same page
// crossing twice is a no-op.
func (s queries) InsertCompletion(c domain.BookCompletion) (bool, error) {
	res, err := s.q.Exec(
		`INSERT OR IGNORE INTO book_completions (student_id, book_id, completion_number, completed_at)
		 VALUES (?, ?, ?, ?)`,
		c.StudentID, c.BookID, c.CompletionNumber, c.CompletedAt.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CompletionCount returns a student's lifetime completed-book count.
func (s queries) CompletionCount(studentID int64) (int, error) {
	var n int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM book_completions WHERE student_id = ?`, studentID,
	).Scan(&n)
	return n, err
}

// HasCompleted reports whether the student has already completed the book.
func (s queries) HasCompleted(studentID, bookID int64) (bool, error) {
	var n int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM book_completions WHERE student_id = ? AND book_id = ?`,
		studentID, bookID,
	).Scan(&n)
	return n > 0, err
}
