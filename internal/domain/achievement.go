// Package domain holds the core ReadQuest types.
// The achievement engine drives engagement through streaks, levels,
// achievements, and the coin economy. Types here are pure, with no
// infrastructure dependency.
package domain

import "time"

// ─── Achievement Definitions ────────────────────────────────────────────────

// AchievementKind is the closed set of definition shapes in the catalog.
type AchievementKind string

const (
	// KindThreshold unlocks when a snapshot metric reaches a target.
	KindThreshold AchievementKind = "threshold"
	// KindBookMilestone unlocks on the Nth lifetime book completion (N = 1..5).
	KindBookMilestone AchievementKind = "book_milestone"
	// KindBookRepeat unlocks once per book completion beyond the 5th.
	KindBookRepeat AchievementKind = "book_repeat"
)

// PeriodMode controls how often an achievement can be granted.
type PeriodMode string

const (
	// PeriodLifetime grants at most once, ever.
	PeriodLifetime PeriodMode = "lifetime"
	// PeriodWeekly grants at most once per ISO week.
	PeriodWeekly PeriodMode = "weekly"
	// PeriodSessionBlock grants once per additional 10-session block
	// completed after the 30th session.
	PeriodSessionBlock PeriodMode = "session_block_10_after_30"
	// PeriodPerCompletion grants once per book completion ordinal.
	PeriodPerCompletion PeriodMode = "per_completion"
)

// Metric names a snapshot counter a threshold achievement is measured against.
type Metric string

const (
	MetricTotalSessions      Metric = "total_sessions"
	MetricTotalPages         Metric = "total_pages"
	MetricTotalMinutes       Metric = "total_minutes"
	MetricStreakDays         Metric = "streak_days"
	MetricReflectionSessions Metric = "reflection_sessions"
	MetricWeeklySessions     Metric = "weekly_sessions"
	MetricWeeklyPages        Metric = "weekly_pages"
	MetricWeeklyMinutes      Metric = "weekly_minutes"
)

// AchievementDef defines a single achievement. Tagged variant: Kind selects
// which extra fields are meaningful (Metric for thresholds, Target doubles
// as the completion ordinal for book milestones).
type AchievementDef struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Kind        AchievementKind `json:"kind"`
	Period      PeriodMode      `json:"period_mode"`
	Metric      Metric          `json:"metric,omitempty"`
	Target      int             `json:"target"`
	RewardXP    int64           `json:"reward_xp"`
	RewardCoins int64           `json:"reward_coins"`
	Repeatable  bool            `json:"is_repeatable"`
}

// HasMetric reports whether the definition is threshold-style.
func (d AchievementDef) HasMetric() bool { return d.Kind == KindThreshold }

// IsBookMilestone reports whether the definition is one of the five
// lifetime book milestones.
func (d AchievementDef) IsBookMilestone() bool { return d.Kind == KindBookMilestone }

// IsBookRepeat reports whether the definition is the per-completion repeat
// achievement.
func (d AchievementDef) IsBookRepeat() bool { return d.Kind == KindBookRepeat }

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of a student's activity counters fed to
// the reward evaluator. Derived entirely from stored records; never
// persisted itself. All values are non-negative.
type Snapshot struct {
	TotalSessions      int `json:"total_sessions"`
	TotalPages         int `json:"total_pages"`
	TotalMinutes       int `json:"total_minutes"`
	StreakDays         int `json:"streak_days"`
	ReflectionSessions int `json:"reflection_sessions"`
	WeekSessions       int `json:"weekly_sessions"`
	WeekPages          int `json:"weekly_pages"`
	WeekMinutes        int `json:"weekly_minutes"`
	CompletedBooks     int `json:"completed_books"`
}

// Value returns the counter named by the metric, 0 for unknown metrics.
func (s Snapshot) Value(m Metric) int {
	switch m {
	case MetricTotalSessions:
		return s.TotalSessions
	case MetricTotalPages:
		return s.TotalPages
	case MetricTotalMinutes:
		return s.TotalMinutes
	case MetricStreakDays:
		return s.StreakDays
	case MetricReflectionSessions:
		return s.ReflectionSessions
	case MetricWeeklySessions:
		return s.WeekSessions
	case MetricWeeklyPages:
		return s.WeekPages
	case MetricWeeklyMinutes:
		return s.WeekMinutes
	default:
		return 0
	}
}

// ─── Unlocks ────────────────────────────────────────────────────────────────

// PeriodKeyLifetime is the period key for one-shot grants.
const PeriodKeyLifetime = "lifetime"

// Unlock records one granted achievement instance. Append-only: the triple
// (student, achievement, period) is unique and a conflicting insert is a
// silent no-op.
type Unlock struct {
	ID             int64     `json:"id"`
	StudentID      int64     `json:"student_id"`
	AchievementKey string    `json:"achievement_key"`
	PeriodKey      string    `json:"period_key"`
	AwardedXP      int64     `json:"awarded_xp"`
	AwardedCoins   int64     `json:"awarded_coins"`
	UnlockedAt     time.Time `json:"unlocked_at"`
}
