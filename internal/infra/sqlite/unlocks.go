package sqlite

import (
	"strings"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// GrantUnlock attempts to append one unlock to the ledger. If the
// (student, key, period) triple already exists the insert is a silent no-op
// and nil is returned; the uniqueness constraint is the sole concurrency
// guard against double grants.
func (s queries) GrantUnlock(studentID int64, key, periodKey string, xp, coins int64, at time.Time) (*domain.Unlock, error) {
	res, err := s.q.Exec(
		`INSERT OR IGNORE INTO unlocks (student_id, achievement_key, period_key, awarded_xp, awarded_coins, unlocked_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		studentID, key, periodKey, xp, coins, at.Unix(),
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Already granted for this period
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Unlock{
		ID:             id,
		StudentID:      studentID,
		AchievementKey: key,
		PeriodKey:      periodKey,
		AwardedXP:      xp,
		AwardedCoins:   coins,
		UnlockedAt:     at,
	}, nil
}

// ListUnlocks returns all of a student's unlocks, newest first.
func (s queries) ListUnlocks(studentID int64) ([]domain.Unlock, error) {
	rows, err := s.q.Query(
		`SELECT id, student_id, achievement_key, period_key, awarded_xp, awarded_coins, unlocked_at
		 FROM unlocks WHERE student_id = ?
		 ORDER BY unlocked_at DESC, id DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []domain.Unlock
	for rows.Next() {
		var u domain.Unlock
		var unlockedAt int64
		if err := rows.Scan(&u.ID, &u.StudentID, &u.AchievementKey, &u.PeriodKey,
			&u.AwardedXP, &u.AwardedCoins, &unlockedAt); err != nil {
			return nil, err
		}
		u.UnlockedAt = time.Unix(unlockedAt, 0)
		unlocks = append(unlocks, u)
	}
	return unlocks, rows.Err()
}

// UnlockCountsByKey returns how many times each achievement key has been
// granted to the student.
func (s queries) UnlockCountsByKey(studentID int64) (map[string]int, error) {
	rows, err := s.q.Query(
		`SELECT achievement_key, COUNT(*) FROM unlocks WHERE student_id = ? GROUP BY achievement_key`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// ExistingUnlockPeriods returns, for the given achievement keys, the set of
// period keys already granted, one batched read so the evaluator avoids
// redundant grant attempts.
func (s queries) ExistingUnlockPeriods(studentID int64, keys []string) (map[string]map[string]bool, error) {
	existing := make(map[string]map[string]bool)
	if len(keys) == 0 {
		return existing, nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(keys)+1)
	args = append(args, studentID)
	for _, k := range keys {
		args = append(args, k)
	}

	rows, err := s.q.Query(
		`SELECT achievement_key, period_key FROM unlocks
		 WHERE student_id = ? AND achievement_key IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, period string
		if err := rows.Scan(&key, &period); err != nil {
			return nil, err
		}
		if existing[key] == nil {
			existing[key] = make(map[string]bool)
		}
		existing[key][period] = true
	}
	return existing, rows.Err()
}
