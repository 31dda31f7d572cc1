// Package rewards implements the ReadQuest achievement and reward engine:
// the fixed achievement catalog, activity snapshots, the idempotent reward
// evaluator, and the read-only checklist projection.
package rewards

import (
	"fmt"

	"github.com/readquest/readquest/internal/domain"
)

// BookMilestoneCount is how many ordinal book milestones exist before the
// repeat achievement takes over.
const BookMilestoneCount = 5

// BookRepeatKey is granted for every completion beyond the fifth.
const BookRepeatKey = "book_complete_repeat"

// sessionBlockBase is the session count after which block achievements start.
const sessionBlockBase = 30

// Catalog returns the full ordered achievement catalog. Order is stable and
// defines both evaluation and display order. Keys are unique.
func Catalog() []domain.AchievementDef {
	return catalog
}

// Lookup finds a definition by key.
func Lookup(key string) (domain.AchievementDef, bool) {
	def, ok := catalogByKey[key]
	return def, ok
}

// BookMilestoneKey returns the achievement key for the Nth completion
// (book_complete_1..5), or BookRepeatKey beyond the fifth.
func BookMilestoneKey(n int) string {
	if n > BookMilestoneCount {
		return BookRepeatKey
	}
	return fmt.Sprintf("book_complete_%d", n)
}

// BookCompletionReward returns the XP/coin reward for the Nth completed
// book. Pure function, no I/O.
func BookCompletionReward(n int) (xp, coins int64) {
	def, ok := Lookup(BookMilestoneKey(n))
	if !ok {
		return 0, 0
	}
	return def.RewardXP, def.RewardCoins
}

// BlockPeriodKey names the period for the Nth completed 10-session block.
func BlockPeriodKey(block int) string {
	return fmt.Sprintf("session_block_%d", block)
}

// CompletionPeriodKey names the period for per-completion repeat grants.
func CompletionPeriodKey(n int) string {
	return fmt.Sprintf("completion_%d", n)
}

var catalog = buildCatalog()

var catalogByKey = func() map[string]domain.AchievementDef {
	m := make(map[string]domain.AchievementDef, len(catalog))
	for _, def := range catalog {
		m[def.Key] = def
	}
	return m
}()

// buildCatalog assembles the fixed business data: 5 book milestones, the
// per-completion repeat, and 18 threshold achievements. Titles, targets and
// rewards are user-visible and pinned by regression tests.
func buildCatalog() []domain.AchievementDef {
	defs := []domain.AchievementDef{
		// ── Book milestones (lifetime, ordinal completions 1..5) ───────
		{
			Key: "book_complete_1", Title: "First Finish",
			Description: "Finish your very first book.",
			Kind:        domain.KindBookMilestone, Period: domain.PeriodLifetime,
			Target: 1, RewardXP: 150, RewardCoins: 120,
		},
		{
			Key: "book_complete_2", Title: "Back for More",
			Description: "Finish your second book.",
			Kind:        domain.KindBookMilestone, Period: domain.PeriodLifetime,
			Target: 2, RewardXP: 225, RewardCoins: 180,
		},
		{
			Key: "book_complete_3", Title: "Shelf Starter",
			Description: "Finish three books.",
			Kind:        domain.KindBookMilestone, Period: domain.PeriodLifetime,
			Target: 3, RewardXP: 300, RewardCoins: 240,
		},
		{
			Key: "book_complete_4", Title: "Page Devourer",
			Description: "Finish four books.",
			Kind:        domain.KindBookMilestone, Period: domain.PeriodLifetime,
			Target: 4, RewardXP: 375, RewardCoins: 300,
		},
		{
			Key: "book_complete_5", Title: "Five-Book Champion",
			Description: "Finish five books.",
			Kind:        domain.KindBookMilestone, Period: domain.PeriodLifetime,
			Target: 5, RewardXP: 450, RewardCoins: 360,
		},
		{
			Key: BookRepeatKey, Title: "Serial Finisher",
			Description: "Finish another book beyond your fifth.",
			Kind:        domain.KindBookRepeat, Period: domain.PeriodPerCompletion,
			Target: 1, RewardXP: 450, RewardCoins: 360, Repeatable: true,
		},

		// ── Session count ──────────────────────────────────────────────
		{
			Key: "first_session", Title: "First Steps",
			Description: "Log your first reading session.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalSessions, Target: 1, RewardXP: 50, RewardCoins: 25,
		},
		{
			Key: "sessions_10", Title: "Getting Into It",
			Description: "Log 10 reading sessions.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalSessions, Target: 10, RewardXP: 100, RewardCoins: 60,
		},
		{
			Key: "sessions_30", Title: "Habit Formed",
			Description: "Log 30 reading sessions.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalSessions, Target: 30, RewardXP: 250, RewardCoins: 150,
		},
		{
			Key: "session_repeat_10", Title: "Still Going",
			Description: "Log another 10 sessions past your 30th.",
			Kind:        domain.KindThreshold, Period: domain.PeriodSessionBlock,
			Metric: domain.MetricTotalSessions, Target: 10, RewardXP: 120, RewardCoins: 80,
			Repeatable: true,
		},

		// ── Pages ──────────────────────────────────────────────────────
		{
			Key: "pages_100", Title: "Century Reader",
			Description: "Read 100 pages in total.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalPages, Target: 100, RewardXP: 100, RewardCoins: 60,
		},
		{
			Key: "pages_500", Title: "Page Turner",
			Description: "Read 500 pages in total.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalPages, Target: 500, RewardXP: 250, RewardCoins: 150,
		},
		{
			Key: "pages_1000", Title: "Thousand-Page Club",
			Description: "Read 1,000 pages in total.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalPages, Target: 1000, RewardXP: 500, RewardCoins: 300,
		},

		// ── Minutes ────────────────────────────────────────────────────
		{
			Key: "minutes_300", Title: "Five Hours In",
			Description: "Read for 300 minutes in total.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalMinutes, Target: 300, RewardXP: 150, RewardCoins: 90,
		},
		{
			Key: "minutes_1000", Title: "Time Well Spent",
			Description: "Read for 1,000 minutes in total.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricTotalMinutes, Target: 1000, RewardXP: 400, RewardCoins: 240,
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			Key: "streak_3", Title: "Three in a Row",
			Description: "Read three days in a row.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricStreakDays, Target: 3, RewardXP: 75, RewardCoins: 40,
		},
		{
			Key: "streak_7", Title: "Week Warrior",
			Description: "Read seven days in a row.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricStreakDays, Target: 7, RewardXP: 200, RewardCoins: 120,
		},
		{
			Key: "streak_14", Title: "Fortnight Force",
			Description: "Read fourteen days in a row.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricStreakDays, Target: 14, RewardXP: 350, RewardCoins: 210,
		},
		{
			Key: "streak_30", Title: "Monthly Machine",
			Description: "Read thirty days in a row.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricStreakDays, Target: 30, RewardXP: 750, RewardCoins: 450,
		},

		// ── Reflections ────────────────────────────────────────────────
		{
			Key: "reflections_5", Title: "Deep Thinker",
			Description: "Answer reflection questions in 5 sessions.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricReflectionSessions, Target: 5, RewardXP: 125, RewardCoins: 75,
		},
		{
			Key: "reflections_25", Title: "Thoughtful Reader",
			Description: "Answer reflection questions in 25 sessions.",
			Kind:        domain.KindThreshold, Period: domain.PeriodLifetime,
			Metric: domain.MetricReflectionSessions, Target: 25, RewardXP: 400, RewardCoins: 240,
		},

		// ── Weekly (one grant per ISO week) ────────────────────────────
		{
			Key: "weekly_sessions_5", Title: "Busy Week",
			Description: "Log 5 sessions in one week.",
			Kind:        domain.KindThreshold, Period: domain.PeriodWeekly,
			Metric: domain.MetricWeeklySessions, Target: 5, RewardXP: 100, RewardCoins: 50,
			Repeatable: true,
		},
		{
			Key: "weekly_pages_150", Title: "Weekly Sprint",
			Description: "Read 150 pages in one week.",
			Kind:        domain.KindThreshold, Period: domain.PeriodWeekly,
			Metric: domain.MetricWeeklyPages, Target: 150, RewardXP: 125, RewardCoins: 60,
			Repeatable: true,
		},
		{
			Key: "weekly_minutes_120", Title: "Two-Hour Week",
			Description: "Read for 120 minutes in one week.",
			Kind:        domain.KindThreshold, Period: domain.PeriodWeekly,
			Metric: domain.MetricWeeklyMinutes, Target: 120, RewardXP: 100, RewardCoins: 50,
			Repeatable: true,
		},
	}
	return defs
}
