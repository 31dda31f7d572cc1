package rewards

import (
	"testing"
	"time"

	"github.com/readquest/readquest/internal/domain"
)

func entryByKey(t *testing.T, c *Checklist, key string) ChecklistEntry {
	t.Helper()
	for _, e := range c.Achievements {
		if e.Key == key {
			return e
		}
	}
	t.Fatalf("checklist missing %q", key)
	return ChecklistEntry{}
}

func TestProjectChecklistEmptyStudent(t *testing.T) {
	db, studentID := testStore(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	c, err := ProjectChecklist(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}
	if c.TotalAvailable != len(Catalog()) {
		t.Errorf("TotalAvailable = %d, want %d", c.TotalAvailable, len(Catalog()))
	}
	if c.UnlockedTotal != 0 || c.CompletedBooks != 0 {
		t.Errorf("fresh student: unlocked=%d completed=%d", c.UnlockedTotal, c.CompletedBooks)
	}
	if c.CurrentPeriodKey != "2026-W11" {
		t.Errorf("CurrentPeriodKey = %q, want 2026-W11", c.CurrentPeriodKey)
	}
	if len(c.RecentUnlocks) != 0 {
		t.Errorf("RecentUnlocks = %d, want 0", len(c.RecentUnlocks))
	}

	first := entryByKey(t, c, "first_session")
	if first.Progress != 0 || first.IsUnlocked {
		t.Errorf("first_session entry = %+v", first)
	}

	// Streak floors at one even with no stats row.
	streak := entryByKey(t, c, "streak_3")
	if streak.Progress != 1 {
		t.Errorf("streak_3 progress = %d, want 1", streak.Progress)
	}
}

func TestProjectChecklistProgressAndUnlocks(t *testing.T) {
	db, studentID := testStore(t)
	book := seedBook(t, db, studentID, 500)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedSessions(t, db, studentID, book.ID, 4, now)
	eval := NewEvaluator()
	if _, err := eval.EvaluateThresholds(db, studentID, now); err != nil {
		t.Fatal(err)
	}

	c, err := ProjectChecklist(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}

	first := entryByKey(t, c, "first_session")
	if !first.IsUnlocked || first.TimesEarned != 1 {
		t.Errorf("first_session = %+v, want unlocked once", first)
	}

	// Progress clamps at the target.
	if first.Progress != 1 {
		t.Errorf("first_session progress = %d, want 1", first.Progress)
	}
	tens := entryByKey(t, c, "sessions_10")
	if tens.Progress != 4 || tens.IsUnlocked {
		t.Errorf("sessions_10 = %+v, want progress 4, locked", tens)
	}

	weekly := entryByKey(t, c, "weekly_sessions_5")
	if weekly.Progress != 4 || weekly.IsUnlocked {
		t.Errorf("weekly_sessions_5 = %+v, want progress 4, locked", weekly)
	}

	block := entryByKey(t, c, "session_repeat_10")
	if block.Progress != 0 || block.NextPeriodKey != BlockPeriodKey(1) {
		t.Errorf("session_repeat_10 = %+v", block)
	}

	if c.UnlockedTotal == 0 {
		t.Error("UnlockedTotal should count granted unlocks")
	}
	if len(c.RecentUnlocks) == 0 {
		t.Fatal("RecentUnlocks should list recent grants")
	}
	if c.RecentUnlocks[0].Title == "" {
		t.Error("recent unlock title should resolve from the catalog")
	}
}

func TestProjectChecklistWeeklyResetsNextWeek(t *testing.T) {
	db, studentID := testStore(t)
	book := seedBook(t, db, studentID, 500)
	week1 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedSessions(t, db, studentID, book.ID, 5, week1)
	eval := NewEvaluator()
	if _, err := eval.EvaluateThresholds(db, studentID, week1); err != nil {
		t.Fatal(err)
	}

	c, err := ProjectChecklist(db, studentID, week1)
	if err != nil {
		t.Fatal(err)
	}
	if !entryByKey(t, c, "weekly_sessions_5").IsUnlocked {
		t.Error("weekly_sessions_5 should show unlocked in the granting week")
	}

	// The following week it presents as locked again.
	c, err = ProjectChecklist(db, studentID, week1.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}
	weekly := entryByKey(t, c, "weekly_sessions_5")
	if weekly.IsUnlocked {
		t.Error("weekly_sessions_5 should reset for a new ISO week")
	}
	if weekly.TimesEarned != 1 {
		t.Errorf("TimesEarned = %d, want 1", weekly.TimesEarned)
	}
	if weekly.Progress != 0 {
		t.Errorf("weekly progress = %d, want 0 in the empty week", weekly.Progress)
	}
}

func TestProjectChecklistBookMilestones(t *testing.T) {
	db, studentID := testStore(t)
	book := seedBook(t, db, studentID, 100)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	eval := NewEvaluator()

	if _, err := db.InsertCompletion(domain.BookCompletion{
		StudentID:        studentID,
		BookID:           book.ID,
		CompletionNumber: 1,
		CompletedAt:      now,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := eval.EvaluateBookCompletion(db, studentID, 1, now); err != nil {
		t.Fatal(err)
	}

	c, err := ProjectChecklist(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}
	if c.CompletedBooks != 1 {
		t.Errorf("CompletedBooks = %d, want 1", c.CompletedBooks)
	}

	first := entryByKey(t, c, "book_complete_1")
	if !first.IsUnlocked || first.Progress != 1 {
		t.Errorf("book_complete_1 = %+v", first)
	}
	second := entryByKey(t, c, "book_complete_2")
	if second.IsUnlocked || second.Progress != 1 {
		t.Errorf("book_complete_2 = %+v, want locked with progress 1", second)
	}
	repeat := entryByKey(t, c, BookRepeatKey)
	if repeat.IsUnlocked || repeat.Progress != 0 {
		t.Errorf("repeat = %+v, want locked", repeat)
	}
}
