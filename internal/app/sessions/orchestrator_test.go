package sessions

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/readquest/readquest/internal/domain"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

func testService(t *testing.T) (*Service, *sqlite.DB, int64) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	class, err := db.InsertClass("TEST01", "Room 4B", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	student, err := db.UpsertStudent(class.ID, "Nadia", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}

	svc := NewService(db)
	svc.SetClock(func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	})
	return svc, db, student.ID
}

func addBook(t *testing.T, db *sqlite.DB, studentID int64, totalPages, currentPage int) *domain.Book {
	t.Helper()
	book, err := db.InsertBook(domain.Book{
		StudentID:   studentID,
		Title:       "Holes",
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return book
}

func TestSubmitBasicEconomy(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 300, 0)

	result, err := svc.Submit(SubmitInput{
		StudentID:       studentID,
		BookID:          book.ID,
		StartPage:       0,
		EndPage:         10,
		DurationMinutes: 30,
		GoalMinutes:     20,
		XPEarned:        100,
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.StreakDays != 1 || result.StreakMultiplier != 1.0 {
		t.Errorf("streak = %d ×%v, want 1 ×1.0", result.StreakDays, result.StreakMultiplier)
	}
	if result.BoostedXP != 100 {
		t.Errorf("BoostedXP = %d, want 100", result.BoostedXP)
	}
	if result.SessionCoins != 10 {
		t.Errorf("SessionCoins = %d, want 10", result.SessionCoins)
	}
	if result.MilestoneCoins != 0 {
		t.Errorf("MilestoneCoins = %d, want 0", result.MilestoneCoins)
	}
	if result.OvertimeCoins != 30 {
		t.Errorf("OvertimeCoins = %d, want 30", result.OvertimeCoins)
	}

	// First session achievement: +50 XP, +25 coins.
	if result.BonusXP != 50 || result.BonusCoins != 25 {
		t.Errorf("bonus = (%d, %d), want (50, 25)", result.BonusXP, result.BonusCoins)
	}
	if result.Stats.TotalXP != 150 {
		t.Errorf("TotalXP = %d, want 150", result.Stats.TotalXP)
	}
	if want := int64(10 + 0 + 30 + 25); result.Stats.Coins != want {
		t.Errorf("Coins = %d, want %d", result.Stats.Coins, want)
	}
	if result.Stats.TotalCoinsEarned != result.Stats.Coins {
		t.Errorf("TotalCoinsEarned = %d, want %d", result.Stats.TotalCoinsEarned, result.Stats.Coins)
	}
	if result.LeveledUp {
		t.Error("150 XP should not level up")
	}
	if result.Completion != nil {
		t.Error("book should not complete at page 10 of 300")
	}
}

func TestSubmitStreakMultiplier(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 300, 0)

	// Active yesterday with a 4-day streak: today advances it to 5 (+20%).
	if err := db.UpsertStats(domain.StudentStats{
		StudentID:      studentID,
		Level:          1,
		StreakDays:     4,
		LastActiveDate: "2026-03-09",
	}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Submit(SubmitInput{
		StudentID: studentID,
		BookID:    book.ID,
		StartPage: 0,
		EndPage:   10,
		XPEarned:  100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.StreakDays != 5 {
		t.Errorf("StreakDays = %d, want 5", result.StreakDays)
	}
	if result.BoostedXP != 120 {
		t.Errorf("BoostedXP = %d, want 120", result.BoostedXP)
	}
	if result.Stats.LastActiveDate != "2026-03-10" {
		t.Errorf("LastActiveDate = %q", result.Stats.LastActiveDate)
	}

	// The evaluator sees the advanced streak in the same pass.
	var sawStreak3 bool
	for _, u := range result.Unlocks {
		if u.AchievementKey == "streak_3" {
			sawStreak3 = true
		}
	}
	if !sawStreak3 {
		t.Error("streak_3 should unlock when the streak reaches 5 mid-submission")
	}
}

func TestSubmitSameDayKeepsStreak(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 300, 0)

	for i := 0; i < 2; i++ {
		result, err := svc.Submit(SubmitInput{
			StudentID: studentID,
			BookID:    book.ID,
			StartPage: i * 10,
			EndPage:   i*10 + 10,
			XPEarned:  50,
		})
		if err != nil {
			t.Fatal(err)
		}
		if result.StreakDays != 1 {
			t.Errorf("submission %d: StreakDays = %d, want 1", i+1, result.StreakDays)
		}
	}
}

func TestSubmitCompletesBookOnce(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 100, 90)

	result, err := svc.Submit(SubmitInput{
		StudentID: studentID,
		BookID:    book.ID,
		StartPage: 90,
		EndPage:   100,
		XPEarned:  50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Completion == nil {
		t.Fatal("crossing the last page should complete the book")
	}
	if result.Completion.CompletionNumber != 1 {
		t.Errorf("CompletionNumber = %d, want 1", result.Completion.CompletionNumber)
	}

	var sawMilestone bool
	for _, u := range result.Unlocks {
		if u.AchievementKey == "book_complete_1" {
			sawMilestone = true
			if u.AwardedXP != 150 || u.AwardedCoins != 120 {
				t.Errorf("first-book reward = (%d, %d), want (150, 120)", u.AwardedXP, u.AwardedCoins)
			}
		}
	}
	if !sawMilestone {
		t.Error("book_complete_1 should unlock on the first completion")
	}

	// Reading past the end again must not complete twice.
	again, err := svc.Submit(SubmitInput{
		StudentID: studentID,
		BookID:    book.ID,
		StartPage: 100,
		EndPage:   110,
		XPEarned:  50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if again.Completion != nil {
		t.Error("already-finished book completed again")
	}

	count, err := db.CompletionCount(studentID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("completion count = %d, want 1", count)
	}

	// And the page stays clamped to the book's length.
	reloaded, err := db.BookForStudent(studentID, book.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.CurrentPage != 100 {
		t.Errorf("CurrentPage = %d, want clamped to 100", reloaded.CurrentPage)
	}
}

func TestSubmitZeroPageBookNeverCompletes(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 0, 0)

	result, err := svc.Submit(SubmitInput{
		StudentID: studentID,
		BookID:    book.ID,
		StartPage: 0,
		EndPage:   50,
		XPEarned:  50,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Completion != nil {
		t.Error("a book without a page count cannot complete")
	}
}

func TestSubmitUnknownBook(t *testing.T) {
	svc, _, studentID := testService(t)

	_, err := svc.Submit(SubmitInput{StudentID: studentID, BookID: 999, XPEarned: 50})
	if !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("err = %v, want ErrBookNotFound", err)
	}
}

func TestSubmitStoresReflections(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 300, 0)

	_, err := svc.Submit(SubmitInput{
		StudentID: studentID,
		BookID:    book.ID,
		StartPage: 0,
		EndPage:   10,
		XPEarned:  50,
		Questions: []string{"What surprised you?", "", "  "},
		Answers:   []string{"The twist", "An answer without a question", ""},
	})
	if err != nil {
		t.Fatal(err)
	}

	n, err := db.ReflectionSessionCount(studentID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("reflection sessions = %d, want 1", n)
	}
}

func TestNormalizeReflections(t *testing.T) {
	out := normalizeReflections(
		[]string{"Q1", "", "   ", "Q4"},
		[]string{"A1", "A2", "", ""},
	)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3 (both-empty pair dropped)", len(out))
	}
	if out[0].Question != "Q1" || out[0].Answer != "A1" {
		t.Errorf("pair 0 = %+v", out[0])
	}
	if out[1].Question != "Question 2" {
		t.Errorf("missing question should default, got %q", out[1].Question)
	}
	if out[2].Question != "Q4" || out[2].Answer != "" {
		t.Errorf("pair 2 = %+v", out[2])
	}

	// Answers beyond the questions array still come through.
	out = normalizeReflections(nil, []string{"orphan answer"})
	if len(out) != 1 || out[0].Question != "Question 1" {
		t.Fatalf("orphan answer = %+v", out)
	}
}

func TestNormalizeReflectionsTruncates(t *testing.T) {
	long := make([]byte, reflectionTextLimit+100)
	for i := range long {
		long[i] = 'a'
	}
	out := normalizeReflections([]string{string(long)}, []string{string(long)})
	if len(out) != 1 {
		t.Fatal("expected one pair")
	}
	if len(out[0].Question) != reflectionTextLimit || len(out[0].Answer) != reflectionTextLimit {
		t.Errorf("lengths = (%d, %d), want %d", len(out[0].Question), len(out[0].Answer), reflectionTextLimit)
	}
}

func TestTruncatePreservesUTF8(t *testing.T) {
	// A rune straddling the limit is dropped whole, never split.
	s := strings.Repeat("a", reflectionTextLimit-1) + "é"
	got := truncate(s, reflectionTextLimit)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) != reflectionTextLimit-1 {
		t.Errorf("len = %d, want %d", len(got), reflectionTextLimit-1)
	}
	if short := truncate("héllo", 100); short != "héllo" {
		t.Errorf("short string changed: %q", short)
	}
}

func TestSubmitLevelUp(t *testing.T) {
	svc, db, studentID := testService(t)
	book := addBook(t, db, studentID, 300, 0)

	if err := db.UpsertStats(domain.StudentStats{
		StudentID:      studentID,
		TotalXP:        450,
		Level:          1,
		StreakDays:     1,
		LastActiveDate: "2026-03-10",
	}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Submit(SubmitInput{
		StudentID: studentID,
		BookID:    book.ID,
		StartPage: 0,
		EndPage:   10,
		XPEarned:  100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.LeveledUp {
		t.Error("crossing 500 XP should level up")
	}
	if result.Stats.Level != 2 {
		t.Errorf("Level = %d, want 2", result.Stats.Level)
	}
	if result.MilestoneCoins != 75 {
		t.Errorf("MilestoneCoins = %d, want 75", result.MilestoneCoins)
	}
}
