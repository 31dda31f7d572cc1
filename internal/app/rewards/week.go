package rewards

import (
	"fmt"
	"time"
)

// WeekKey returns the ISO-8601 week identifier "YYYY-Www" for the given
// instant, computed in UTC. Weeks start Monday; the week containing the
// year's first Thursday is week 1.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekBounds returns the UTC [start, end) interval covered by an ISO week
// key produced by WeekKey.
func WeekBounds(key string) (start, end time.Time, err error) {
	var year, week int
	if _, err := fmt.Sscanf(key, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse week key %q: %w", key, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, time.Time{}, fmt.Errorf("week key %q out of range", key)
	}

	// January 4th is always in ISO week 1; walk back to its Monday.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	start = monday.AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 7), nil
}
