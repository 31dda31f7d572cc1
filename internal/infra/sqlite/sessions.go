package sqlite

import (
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// InsertSession records one reading session.
func (s queries) InsertSession(sess domain.ReadingSession) (*domain.ReadingSession, error) {
	res, err := s.q.Exec(
		`INSERT INTO sessions (student_id, book_id, start_page, end_page, chapters,
		                       duration_minutes, goal_minutes, xp_earned, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.StudentID, sess.BookID, sess.StartPage, sess.EndPage, sess.ChaptersFinished,
		sess.DurationMinutes, sess.GoalMinutes, sess.XPEarned, sess.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, err
	}
	sess.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// InsertReflection records one question/answer pair for a session.
func (s queries) InsertReflection(r domain.Reflection) error {
	_, err := s.q.Exec(
		`INSERT INTO reflections (session_id, student_id, question, answer, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.SessionID, r.StudentID, r.Question, r.Answer, r.CreatedAt.Unix(),
	)
	return err
}

// SessionTotals aggregates a student's lifetime session count, pages read,
// and minutes. Pages per session never contribute negatively.
func (s queries) SessionTotals(studentID int64) (sessions, pages, minutes int, err error) {
	err = s.q.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(MAX(end_page - start_page, 0)), 0),
		        COALESCE(SUM(duration_minutes), 0)
		 FROM sessions WHERE student_id = ?`, studentID,
	).Scan(&sessions, &pages, &minutes)
	return sessions, pages, minutes, err
}

// SessionTotalsBetween aggregates the same counters for sessions whose
// timestamp falls in [from, to).
func (s queries) SessionTotalsBetween(studentID int64, from, to time.Time) (sessions, pages, minutes int, err error) {
	err = s.q.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(MAX(end_page - start_page, 0)), 0),
		        COALESCE(SUM(duration_minutes), 0)
		 FROM sessions WHERE student_id = ? AND created_at >= ? AND created_at < ?`,
		studentID, from.Unix(), to.Unix(),
	).Scan(&sessions, &pages, &minutes)
	return sessions, pages, minutes, err
}

// ReflectionSessionCount counts distinct sessions with at least one
// reflection answer.
func (s queries) ReflectionSessionCount(studentID int64) (int, error) {
	var n int
	err := s.q.QueryRow(
		`SELECT COUNT(DISTINCT session_id) FROM reflections
		 WHERE student_id = ? AND answer != ''`,
		studentID,
	).Scan(&n)
	return n, err
}

// ListClassReflections returns a class's reflections newest-first, joined
// with student nickname and book title for teacher review.
func (s queries) ListClassReflections(classID int64, limit int) ([]domain.ClassReflection, error) {
	rows, err := s.q.Query(
		`SELECT r.id, r.session_id, r.student_id, r.question, r.answer, r.created_at,
		        st.nickname, b.title
		 FROM reflections r
		 JOIN students st ON st.id = r.student_id
		 JOIN sessions se ON se.id = r.session_id
		 JOIN books b     ON b.id = se.book_id
		 WHERE st.class_id = ?
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`, classID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ClassReflection
	for rows.Next() {
		var cr domain.ClassReflection
		var createdAt int64
		if err := rows.Scan(&cr.ID, &cr.SessionID, &cr.StudentID,
			&cr.Question, &cr.Answer, &createdAt, &cr.Nickname, &cr.BookTitle); err != nil {
			return nil, err
		}
		cr.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, cr)
	}
	return out, rows.Err()
}
