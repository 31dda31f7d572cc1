package rewards

import (
	"testing"

	"github.com/readquest/readquest/internal/domain"
)

func TestCatalogKeysUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Catalog() {
		if def.Key == "" {
			t.Fatal("catalog contains a definition with no key")
		}
		if seen[def.Key] {
			t.Errorf("duplicate achievement key %q", def.Key)
		}
		seen[def.Key] = true
	}
}

func TestCatalogShape(t *testing.T) {
	var milestones, thresholds, repeats int
	for _, def := range Catalog() {
		switch def.Kind {
		case domain.KindBookMilestone:
			milestones++
		case domain.KindThreshold:
			thresholds++
		case domain.KindBookRepeat:
			repeats++
		default:
			t.Errorf("%s: unknown kind %q", def.Key, def.Kind)
		}
		if def.RewardXP <= 0 || def.RewardCoins <= 0 {
			t.Errorf("%s: rewards must be positive, got xp=%d coins=%d",
				def.Key, def.RewardXP, def.RewardCoins)
		}
	}
	if milestones != BookMilestoneCount {
		t.Errorf("book milestones = %d, want %d", milestones, BookMilestoneCount)
	}
	if repeats != 1 {
		t.Errorf("repeat achievements = %d, want 1", repeats)
	}
	if thresholds != 18 {
		t.Errorf("threshold achievements = %d, want 18", thresholds)
	}
}

func TestBookCompletionRewardCurve(t *testing.T) {
	tests := []struct {
		n     int
		xp    int64
		coins int64
	}{
		{1, 150, 120},
		{2, 225, 180},
		{3, 300, 240},
		{4, 375, 300},
		{5, 450, 360},
		{6, 450, 360},  // Repeat achievement takes over
		{20, 450, 360}, // And stays flat
	}
	for _, tt := range tests {
		xp, coins := BookCompletionReward(tt.n)
		if xp != tt.xp || coins != tt.coins {
			t.Errorf("BookCompletionReward(%d) = (%d, %d), want (%d, %d)",
				tt.n, xp, coins, tt.xp, tt.coins)
		}
	}
}

func TestBookMilestoneKey(t *testing.T) {
	if got := BookMilestoneKey(1); got != "book_complete_1" {
		t.Errorf("BookMilestoneKey(1) = %q", got)
	}
	if got := BookMilestoneKey(5); got != "book_complete_5" {
		t.Errorf("BookMilestoneKey(5) = %q", got)
	}
	if got := BookMilestoneKey(6); got != BookRepeatKey {
		t.Errorf("BookMilestoneKey(6) = %q, want %q", got, BookRepeatKey)
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("streak_7")
	if !ok {
		t.Fatal("streak_7 missing from catalog")
	}
	if def.Metric != domain.MetricStreakDays || def.Target != 7 {
		t.Errorf("streak_7 = %+v", def)
	}

	if _, ok := Lookup("no_such_achievement"); ok {
		t.Error("Lookup should miss on unknown keys")
	}
}
