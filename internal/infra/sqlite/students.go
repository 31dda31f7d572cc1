package sqlite

import (
	"database/sql"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// ─── Classes ────────────────────────────────────────────────────────────────

// InsertClass creates a new class roster.
func (s queries) InsertClass(code, name string, at time.Time) (*domain.Class, error) {
	res, err := s.q.Exec(
		`INSERT INTO classes (code, name, created_at) VALUES (?, ?, ?)`,
		code, name, at.Unix(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Class{ID: id, Code: code, Name: name, CreatedAt: at}, nil
}

// ClassByCode looks up a class by its join code.
// Returns nil if no such class exists.
func (s queries) ClassByCode(code string) (*domain.Class, error) {
	var c domain.Class
	var createdAt int64
	err := s.q.QueryRow(
		`SELECT id, code, name, created_at FROM classes WHERE code = ?`, code,
	).Scan(&c.ID, &c.Code, &c.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}

// ─── Students ───────────────────────────────────────────────────────────────

// UpsertStudent resolves (class, nickname) to a stable student ID, creating
// the student and their stats row on first join.
func (s queries) UpsertStudent(classID int64, nickname string, at time.Time) (*domain.Student, error) {
	_, err := s.q.Exec(
		`INSERT OR IGNORE INTO students (class_id, nickname, created_at) VALUES (?, ?, ?)`,
		classID, nickname, at.Unix(),
	)
	if err != nil {
		return nil, err
	}

	var st domain.Student
	var createdAt int64
	err = s.q.QueryRow(
		`SELECT id, class_id, nickname, created_at FROM students WHERE class_id = ? AND nickname = ?`,
		classID, nickname,
	).Scan(&st.ID, &st.ClassID, &st.Nickname, &createdAt)
	if err != nil {
		return nil, err
	}
	st.CreatedAt = time.Unix(createdAt, 0)

	// Stats row exists from first join onward
	_, err = s.q.Exec(
		`INSERT OR IGNORE INTO student_stats (student_id) VALUES (?)`, st.ID,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetStudent retrieves a student by ID. Returns nil if absent.
func (s queries) GetStudent(id int64) (*domain.Student, error) {
	var st domain.Student
	var createdAt int64
	err := s.q.QueryRow(
		`SELECT id, class_id, nickname, created_at FROM students WHERE id = ?`, id,
	).Scan(&st.ID, &st.ClassID, &st.Nickname, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.CreatedAt = time.Unix(createdAt, 0)
	return &st, nil
}

// ListStudents returns a class roster with stats, nickname order.
func (s queries) ListStudents(classID int64) ([]domain.StudentSummary, error) {
	rows, err := s.q.Query(
		`SELECT st.id, st.class_id, st.nickname, st.created_at,
		        COALESCE(ss.total_xp, 0), COALESCE(ss.level, 1),
		        COALESCE(ss.coins, 0), COALESCE(ss.total_coins_earned, 0),
		        COALESCE(ss.streak_days, 1), COALESCE(ss.last_active_date, '')
		 FROM students st
		 LEFT JOIN student_stats ss ON ss.student_id = st.id
		 WHERE st.class_id = ?
		 ORDER BY st.nickname`, classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StudentSummary
	for rows.Next() {
		var sum domain.StudentSummary
		var createdAt int64
		if err := rows.Scan(
			&sum.Student.ID, &sum.Student.ClassID, &sum.Student.Nickname, &createdAt,
			&sum.Stats.TotalXP, &sum.Stats.Level, &sum.Stats.Coins,
			&sum.Stats.TotalCoinsEarned, &sum.Stats.StreakDays, &sum.Stats.LastActiveDate,
		); err != nil {
			return nil, err
		}
		sum.Student.CreatedAt = time.Unix(createdAt, 0)
		sum.Stats.StudentID = sum.Student.ID
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteStudent removes a student; sessions, reflections, unlocks,
// completions, stats, and room items cascade.
func (s queries) DeleteStudent(id int64) error {
	res, err := s.q.Exec(`DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}
