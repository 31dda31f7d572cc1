package rewards

import (
	"math"
	"time"
)

// dateLayout is how stats rows store calendar dates.
const dateLayout = "2006-01-02"

// StreakAdvance is the outcome of advancing a streak to "today".
type StreakAdvance struct {
	Days       int
	LastActive string
	Changed    bool
}

// NextStreak advances a streak given the stored state and today's UTC date.
// Same day: unchanged. Exactly one day later: increments. A longer gap or an
// unparseable date: resets to 1. No prior date: initializes to the current
// value (minimum 1) and records today. Pure function.
func NextStreak(current int, lastActive string, today time.Time) StreakAdvance {
	if current < 1 {
		current = 1
	}
	todayStr := today.UTC().Format(dateLayout)

	if lastActive == "" {
		return StreakAdvance{Days: current, LastActive: todayStr, Changed: true}
	}
	if lastActive == todayStr {
		return StreakAdvance{Days: current, LastActive: lastActive, Changed: false}
	}

	last, err := time.ParseInLocation(dateLayout, lastActive, time.UTC)
	if err != nil {
		return StreakAdvance{Days: 1, LastActive: todayStr, Changed: true}
	}

	todayDate, _ := time.ParseInLocation(dateLayout, todayStr, time.UTC)
	gapDays := int(todayDate.Sub(last).Hours() / 24)

	next := 1
	if gapDays == 1 {
		next = current + 1
	}
	return StreakAdvance{Days: next, LastActive: todayStr, Changed: true}
}

// Multiplier returns the streak XP multiplier: +5% per consecutive day
// beyond the first, capped at +50% (reached at an 11-day streak).
func Multiplier(streakDays int) float64 {
	bonus := float64(streakDays-1) * 0.05
	if bonus < 0 {
		bonus = 0
	}
	if bonus > 0.50 {
		bonus = 0.50
	}
	return 1.0 + bonus
}

// BoostXP applies the streak multiplier to a base XP amount, rounding to
// the nearest integer.
func BoostXP(baseXP int64, streakDays int) int64 {
	if baseXP <= 0 {
		return 0
	}
	return int64(math.Round(float64(baseXP) * Multiplier(streakDays)))
}
