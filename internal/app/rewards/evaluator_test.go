package rewards

import (
	"testing"
	"time"

	"github.com/readquest/readquest/internal/domain"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

func testStore(t *testing.T) (*sqlite.DB, int64) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	class, err := db.InsertClass("TEST01", "Room 4B", time.Now().UTC())
	if err != nil {
		t.Fatalf("insert class: %v", err)
	}
	student, err := db.UpsertStudent(class.ID, "Milo", time.Now().UTC())
	if err != nil {
		t.Fatalf("upsert student: %v", err)
	}
	return db, student.ID
}

func seedBook(t *testing.T, db *sqlite.DB, studentID int64, totalPages int) *domain.Book {
	t.Helper()
	book, err := db.InsertBook(domain.Book{
		StudentID:  studentID,
		Title:      "The Phantom Tollbooth",
		TotalPages: totalPages,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert book: %v", err)
	}
	return book
}

func seedSessions(t *testing.T, db *sqlite.DB, studentID, bookID int64, count int, at time.Time) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := db.InsertSession(domain.ReadingSession{
			StudentID:       studentID,
			BookID:          bookID,
			StartPage:       i * 10,
			EndPage:         i*10 + 10,
			DurationMinutes: 20,
			XPEarned:        50,
			CreatedAt:       at,
		})
		if err != nil {
			t.Fatalf("insert session %d: %v", i, err)
		}
	}
}

func unlockedKeys(unlocks []domain.Unlock) map[string]int {
	keys := make(map[string]int)
	for _, u := range unlocks {
		keys[u.AchievementKey]++
	}
	return keys
}

func TestEvaluateThresholdsFirstSession(t *testing.T) {
	db, studentID := testStore(t)
	book := seedBook(t, db, studentID, 200)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedSessions(t, db, studentID, book.ID, 1, now)

	eval := NewEvaluator()
	result, err := eval.EvaluateThresholds(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}

	keys := unlockedKeys(result.Unlocks)
	if keys["first_session"] != 1 {
		t.Errorf("first_session grants = %d, want 1", keys["first_session"])
	}
	if keys["sessions_10"] != 0 {
		t.Error("sessions_10 should not unlock after one session")
	}
	if result.BonusXP != 50 || result.BonusCoins != 25 {
		t.Errorf("bonus = (%d xp, %d coins), want (50, 25)", result.BonusXP, result.BonusCoins)
	}

	// A second pass grants nothing new.
	again, err := eval.EvaluateThresholds(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Unlocks) != 0 {
		t.Errorf("re-evaluation granted %d unlocks, want 0", len(again.Unlocks))
	}
}

func TestEvaluateThresholdsWeeklyOncePerWeek(t *testing.T) {
	db, studentID := testStore(t)
	book := seedBook(t, db, studentID, 500)
	eval := NewEvaluator()

	week1 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedSessions(t, db, studentID, book.ID, 5, week1)

	result, err := eval.EvaluateThresholds(db, studentID, week1)
	if err != nil {
		t.Fatal(err)
	}
	keys := unlockedKeys(result.Unlocks)
	if keys["weekly_sessions_5"] != 1 {
		t.Fatalf("weekly_sessions_5 grants = %d, want 1", keys["weekly_sessions_5"])
	}

	// Same week, more sessions: no second weekly grant.
	seedSessions(t, db, studentID, book.ID, 2, week1.Add(24*time.Hour))
	result, err = eval.EvaluateThresholds(db, studentID, week1.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n := unlockedKeys(result.Unlocks)["weekly_sessions_5"]; n != 0 {
		t.Errorf("same-week re-grant = %d, want 0", n)
	}

	// Next ISO week: grants again under a new period key.
	week2 := week1.AddDate(0, 0, 7)
	seedSessions(t, db, studentID, book.ID, 5, week2)
	result, err = eval.EvaluateThresholds(db, studentID, week2)
	if err != nil {
		t.Fatal(err)
	}
	if n := unlockedKeys(result.Unlocks)["weekly_sessions_5"]; n != 1 {
		t.Fatalf("next-week grant = %d, want 1", n)
	}

	counts, err := db.UnlockCountsByKey(studentID)
	if err != nil {
		t.Fatal(err)
	}
	if counts["weekly_sessions_5"] != 2 {
		t.Errorf("total weekly_sessions_5 grants = %d, want 2", counts["weekly_sessions_5"])
	}
}

func TestEvaluateThresholdsSessionBlockCatchUp(t *testing.T) {
	db, studentID := testStore(t)
	book := seedBook(t, db, studentID, 2000)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 51 sessions: 21 past the 30th, two full 10-session blocks.
	seedSessions(t, db, studentID, book.ID, 51, now)

	eval := NewEvaluator()
	result, err := eval.EvaluateThresholds(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}
	if n := unlockedKeys(result.Unlocks)["session_repeat_10"]; n != 2 {
		t.Fatalf("session_repeat_10 catch-up grants = %d, want 2", n)
	}

	// Ten more sessions complete block 3 only.
	seedSessions(t, db, studentID, book.ID, 10, now.Add(time.Hour))
	result, err = eval.EvaluateThresholds(db, studentID, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	blocks := 0
	for _, u := range result.Unlocks {
		if u.AchievementKey == "session_repeat_10" {
			blocks++
			if u.PeriodKey != BlockPeriodKey(3) {
				t.Errorf("block period = %q, want %q", u.PeriodKey, BlockPeriodKey(3))
			}
		}
	}
	if blocks != 1 {
		t.Errorf("new block grants = %d, want 1", blocks)
	}
}

func TestEvaluateThresholdsStreak(t *testing.T) {
	db, studentID := testStore(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := db.UpsertStats(domain.StudentStats{
		StudentID:      studentID,
		Level:          1,
		StreakDays:     7,
		LastActiveDate: "2026-03-10",
	}); err != nil {
		t.Fatal(err)
	}

	eval := NewEvaluator()
	result, err := eval.EvaluateThresholds(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}
	keys := unlockedKeys(result.Unlocks)
	if keys["streak_3"] != 1 || keys["streak_7"] != 1 {
		t.Errorf("streak grants = %v, want streak_3 and streak_7", keys)
	}
	if keys["streak_14"] != 0 {
		t.Error("streak_14 should not unlock at a 7-day streak")
	}
}

func TestEvaluateBookCompletion(t *testing.T) {
	db, studentID := testStore(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	eval := NewEvaluator()

	// Completions 1..7: five milestones, then the repeat twice.
	for n := 1; n <= 7; n++ {
		unlock, err := eval.EvaluateBookCompletion(db, studentID, n, now)
		if err != nil {
			t.Fatalf("completion %d: %v", n, err)
		}
		if unlock == nil {
			t.Fatalf("completion %d: no unlock granted", n)
		}
		wantXP, wantCoins := BookCompletionReward(n)
		if unlock.AwardedXP != wantXP || unlock.AwardedCoins != wantCoins {
			t.Errorf("completion %d awarded (%d, %d), want (%d, %d)",
				n, unlock.AwardedXP, unlock.AwardedCoins, wantXP, wantCoins)
		}
	}

	counts, err := db.UnlockCountsByKey(studentID)
	if err != nil {
		t.Fatal(err)
	}
	if counts[BookRepeatKey] != 2 {
		t.Errorf("repeat grants = %d, want 2", counts[BookRepeatKey])
	}
	if counts["book_complete_3"] != 1 {
		t.Errorf("book_complete_3 grants = %d, want 1", counts["book_complete_3"])
	}

	// The checklist surfaces the repeat count.
	checklist, err := ProjectChecklist(db, studentID, now)
	if err != nil {
		t.Fatal(err)
	}
	repeat := entryByKey(t, checklist, BookRepeatKey)
	if repeat.TimesEarned != 2 {
		t.Errorf("checklist repeat TimesEarned = %d, want 2", repeat.TimesEarned)
	}

	// Re-processing the same completion number is a no-op.
	unlock, err := eval.EvaluateBookCompletion(db, studentID, 3, now)
	if err != nil {
		t.Fatal(err)
	}
	if unlock != nil {
		t.Error("duplicate completion grant should return nil")
	}

	if _, err := eval.EvaluateBookCompletion(db, studentID, 0, now); err == nil {
		t.Error("completion number 0 should be rejected")
	}
}
