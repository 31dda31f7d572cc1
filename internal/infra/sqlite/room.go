package sqlite

import (
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// InsertRoomItem adds a decoration to a student's inventory. Returns false
// if already owned.
func (s queries) InsertRoomItem(studentID int64, itemKey string, at time.Time) (bool, error) {
	res, err := s.q.Exec(
		`INSERT OR IGNORE INTO room_items (student_id, item_key, equipped, purchased_at)
		 VALUES (?, ?, 0, ?)`,
		studentID, itemKey, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListRoomItems returns a student's inventory, oldest purchase first.
func (s queries) ListRoomItems(studentID int64) ([]domain.RoomItem, error) {
	rows, err := s.q.Query(
		`SELECT student_id, item_key, equipped, purchased_at
		 FROM room_items WHERE student_id = ? ORDER BY purchased_at, item_key`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RoomItem
	for rows.Next() {
		var it domain.RoomItem
		var purchasedAt int64
		if err := rows.Scan(&it.StudentID, &it.ItemKey, &it.Equipped, &purchasedAt); err != nil {
			return nil, err
		}
		it.PurchasedAt = time.Unix(purchasedAt, 0)
		items = append(items, it)
	}
	return items, rows.Err()
}

// OwnsRoomItem reports whether the student owns the decoration.
func (s queries) OwnsRoomItem(studentID int64, itemKey string) (bool, error) {
	var n int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM room_items WHERE student_id = ? AND item_key = ?`,
		studentID, itemKey,
	).Scan(&n)
	return n > 0, err
}

// SetEquipped equips or unequips one owned decoration.
func (s queries) SetEquipped(studentID int64, itemKey string, equipped bool) error {
	_, err := s.q.Exec(
		`UPDATE room_items SET equipped = ? WHERE student_id = ? AND item_key = ?`,
		equipped, studentID, itemKey,
	)
	return err
}

// UnequipItems clears the equipped flag for the given item keys (used to
// vacate a slot before equipping another item into it).
func (s queries) UnequipItems(studentID int64, itemKeys []string) error {
	for _, key := range itemKeys {
		if err := s.SetEquipped(studentID, key, false); err != nil {
			return err
		}
	}
	return nil
}
