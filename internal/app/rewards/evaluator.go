package rewards

import (
	"fmt"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

// ThresholdResult is the outcome of one threshold evaluation pass.
type ThresholdResult struct {
	Snapshot   domain.Snapshot `json:"snapshot"`
	Unlocks    []domain.Unlock `json:"unlocks"`
	BonusXP    int64           `json:"bonus_xp"`
	BonusCoins int64           `json:"bonus_coins"`
}

// Evaluator decides which achievement grants a student has newly earned.
// Grants are idempotent: the unlock ledger's uniqueness constraint resolves
// races, so a repeated or concurrent evaluation never double-grants.
// Callers run it inside the same transaction as any related book-completion
// write, so a crash mid-evaluation leaves no partial reward state.
type Evaluator struct {
	catalog []domain.AchievementDef
}

// NewEvaluator creates an evaluator over the fixed catalog.
func NewEvaluator() *Evaluator {
	return &Evaluator{catalog: Catalog()}
}

// EvaluateThresholds builds a fresh snapshot and grants every threshold
// achievement the student now qualifies for and has not yet been granted
// this period. Already-granted periods are skipped; the returned unlocks
// contain only new grants.
func (e *Evaluator) EvaluateThresholds(s Store, studentID int64, now time.Time) (*ThresholdResult, error) {
	weekKey := WeekKey(now)

	snap, err := BuildSnapshot(s, studentID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	// One batched read of existing grants avoids a grant attempt per def.
	var keys []string
	for _, def := range e.catalog {
		if def.HasMetric() {
			keys = append(keys, def.Key)
		}
	}
	existing, err := s.ExistingUnlockPeriods(studentID, keys)
	if err != nil {
		return nil, fmt.Errorf("load existing unlocks: %w", err)
	}

	result := &ThresholdResult{Snapshot: snap}
	for _, def := range e.catalog {
		if !def.HasMetric() {
			continue
		}
		value := snap.Value(def.Metric)

		if def.Period == domain.PeriodSessionBlock {
			// One grant per 10-session block completed past the 30th.
			// Catching up: a jump from 29 to 51 sessions grants both
			// block 1 and block 2 in this single pass.
			over := value - sessionBlockBase
			if over < 0 {
				over = 0
			}
			completedBlocks := over / def.Target
			for block := 1; block <= completedBlocks; block++ {
				periodKey := BlockPeriodKey(block)
				if existing[def.Key][periodKey] {
					continue
				}
				if err := e.grant(s, studentID, def, periodKey, now, result); err != nil {
					return nil, err
				}
			}
			continue
		}

		if value < def.Target {
			continue
		}
		periodKey := domain.PeriodKeyLifetime
		if def.Period == domain.PeriodWeekly {
			periodKey = weekKey
		}
		if existing[def.Key][periodKey] {
			continue
		}
		if err := e.grant(s, studentID, def, periodKey, now, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// grant attempts one ledger insert and folds a successful grant into the
// result. A conflicting insert is a no-op, not an error.
func (e *Evaluator) grant(s Store, studentID int64, def domain.AchievementDef, periodKey string, now time.Time, result *ThresholdResult) error {
	unlock, err := s.GrantUnlock(studentID, def.Key, periodKey, def.RewardXP, def.RewardCoins, now)
	if err != nil {
		return fmt.Errorf("grant %s: %w", def.Key, err)
	}
	if unlock == nil {
		return nil // Raced with another evaluation, already granted
	}
	result.Unlocks = append(result.Unlocks, *unlock)
	result.BonusXP += unlock.AwardedXP
	result.BonusCoins += unlock.AwardedCoins
	return nil
}

// EvaluateBookCompletion grants the reward for the Nth completed book:
// the ordinal milestone for completions 1..5, the repeat achievement
// beyond that. Returns nil if the grant already exists.
func (e *Evaluator) EvaluateBookCompletion(s Store, studentID int64, completionNumber int, now time.Time) (*domain.Unlock, error) {
	if completionNumber < 1 {
		return nil, fmt.Errorf("completion number must be positive, got %d", completionNumber)
	}

	key := BookMilestoneKey(completionNumber)
	periodKey := domain.PeriodKeyLifetime
	if completionNumber > BookMilestoneCount {
		periodKey = CompletionPeriodKey(completionNumber)
	}

	xp, coins := BookCompletionReward(completionNumber)
	unlock, err := s.GrantUnlock(studentID, key, periodKey, xp, coins, now)
	if err != nil {
		return nil, fmt.Errorf("grant %s: %w", key, err)
	}
	return unlock, nil
}
