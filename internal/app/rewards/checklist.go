package rewards

import (
	"fmt"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// ChecklistEntry is one catalog achievement with the student's progress
// toward it.
type ChecklistEntry struct {
	Key           string                 `json:"key"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Kind          domain.AchievementKind `json:"kind"`
	Period        domain.PeriodMode      `json:"period_mode"`
	Target        int                    `json:"target"`
	RewardXP      int64                  `json:"reward_xp"`
	RewardCoins   int64                  `json:"reward_coins"`
	Progress      int                    `json:"progress"`
	IsUnlocked    bool                   `json:"is_unlocked"`
	TimesEarned   int                    `json:"times_earned"`
	NextPeriodKey string                 `json:"next_period_key,omitempty"`
}

// RecentUnlock is a granted record resolved against the catalog for display.
// Unknown keys degrade to raw-key display rather than erroring.
type RecentUnlock struct {
	AchievementKey string    `json:"achievement_key"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PeriodKey      string    `json:"period_key"`
	AwardedXP      int64     `json:"awarded_xp"`
	AwardedCoins   int64     `json:"awarded_coins"`
	UnlockedAt     time.Time `json:"unlocked_at"`
}

// Checklist is the read-only achievements view served to the polling client.
type Checklist struct {
	Achievements     []ChecklistEntry `json:"achievements"`
	RecentUnlocks    []RecentUnlock   `json:"recent_unlocks"`
	CompletedBooks   int              `json:"completed_books_count"`
	UnlockedTotal    int              `json:"unlocked_total"`
	TotalAvailable   int              `json:"total_available"`
	CurrentPeriodKey string           `json:"current_period_key"`
}

// recentUnlockLimit caps the recent-unlocks feed.
const recentUnlockLimit = 10

// ProjectChecklist maps the catalog, a fresh snapshot, and the unlock
// ledger into per-achievement progress for display. Mutates nothing;
// independent of the evaluator.
func ProjectChecklist(s Store, studentID int64, now time.Time) (*Checklist, error) {
	weekKey := WeekKey(now)

	snap, err := BuildSnapshot(s, studentID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	unlocks, err := s.ListUnlocks(studentID)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	counts, err := s.UnlockCountsByKey(studentID)
	if err != nil {
		return nil, fmt.Errorf("count unlocks: %w", err)
	}

	// Period keys granted per achievement, for weekly "this week" checks.
	granted := make(map[string]map[string]bool)
	for _, u := range unlocks {
		if granted[u.AchievementKey] == nil {
			granted[u.AchievementKey] = make(map[string]bool)
		}
		granted[u.AchievementKey][u.PeriodKey] = true
	}

	catalog := Catalog()
	out := &Checklist{
		Achievements:     make([]ChecklistEntry, 0, len(catalog)),
		CompletedBooks:   snap.CompletedBooks,
		UnlockedTotal:    len(unlocks),
		TotalAvailable:   len(catalog),
		CurrentPeriodKey: weekKey,
	}

	for _, def := range catalog {
		entry := ChecklistEntry{
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			Kind:        def.Kind,
			Period:      def.Period,
			Target:      def.Target,
			RewardXP:    def.RewardXP,
			RewardCoins: def.RewardCoins,
			TimesEarned: counts[def.Key],
		}

		switch {
		case def.IsBookMilestone():
			entry.Progress = clampTo(snap.CompletedBooks, def.Target)
			entry.IsUnlocked = entry.TimesEarned > 0

		case def.IsBookRepeat():
			entry.Progress = entry.TimesEarned
			entry.IsUnlocked = entry.TimesEarned > 0

		case def.Period == domain.PeriodSessionBlock:
			over := snap.Value(def.Metric) - sessionBlockBase
			if over < 0 {
				over = 0
			}
			completedBlocks := over / def.Target
			entry.Progress = over - completedBlocks*def.Target
			entry.NextPeriodKey = BlockPeriodKey(completedBlocks + 1)
			entry.IsUnlocked = entry.TimesEarned > 0

		case def.Period == domain.PeriodWeekly:
			entry.Progress = clampTo(snap.Value(def.Metric), def.Target)
			// Weekly achievements count as unlocked only for this week.
			entry.IsUnlocked = granted[def.Key][weekKey]

		default:
			entry.Progress = clampTo(snap.Value(def.Metric), def.Target)
			entry.IsUnlocked = entry.TimesEarned > 0
		}

		out.Achievements = append(out.Achievements, entry)
	}

	for i, u := range unlocks {
		if i >= recentUnlockLimit {
			break
		}
		recent := RecentUnlock{
			AchievementKey: u.AchievementKey,
			Title:          u.AchievementKey,
			PeriodKey:      u.PeriodKey,
			AwardedXP:      u.AwardedXP,
			AwardedCoins:   u.AwardedCoins,
			UnlockedAt:     u.UnlockedAt,
		}
		if def, ok := Lookup(u.AchievementKey); ok {
			recent.Title = def.Title
			recent.Description = def.Description
		}
		out.RecentUnlocks = append(out.RecentUnlocks, recent)
	}

	return out, nil
}

func clampTo(v, target int) int {
	if v > target {
		return target
	}
	if v < 0 {
		return 0
	}
	return v
}
