// Package sessions implements the session-completion workflow: one atomic
// transaction that records the session, advances the streak, detects book
// completion, runs the reward evaluator, and settles XP and coins.
package sessions

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/readquest/readquest/internal/app/rewards"
	"github.com/readquest/readquest/internal/domain"
	"github.com/readquest/readquest/internal/infra/metrics"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

// reflectionTextLimit truncates question/answer text.
const reflectionTextLimit = 4000

// Service orchestrates session submissions.
type Service struct {
	db   *sqlite.DB
	eval *rewards.Evaluator
	now  func() time.Time
}

// NewService creates the orchestrator.
func NewService(db *sqlite.DB) *Service {
	return &Service{
		db:   db,
		eval: rewards.NewEvaluator(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SubmitInput is one session submission. Questions and Answers are parallel
// arrays; pairs with both sides empty are dropped.
type SubmitInput struct {
	StudentID        int64
	BookID           int64
	StartPage        int
	EndPage          int
	ChaptersFinished int
	DurationMinutes  int
	GoalMinutes      int
	XPEarned         int64
	Questions        []string
	Answers          []string
}

// SubmitResult is the full outcome of one submission.
type SubmitResult struct {
	Session          domain.ReadingSession  `json:"session"`
	Stats            domain.StudentStats    `json:"stats"`
	StreakDays       int                    `json:"streak_days"`
	StreakMultiplier float64                `json:"streak_multiplier"`
	BaseXP           int64                  `json:"base_xp"`
	BoostedXP        int64                  `json:"boosted_xp"`
	BonusXP          int64                  `json:"bonus_xp"`
	SessionCoins     int64                  `json:"session_coins"`
	MilestoneCoins   int64                  `json:"milestone_coins"`
	OvertimeCoins    int64                  `json:"overtime_coins"`
	BonusCoins       int64                  `json:"bonus_coins"`
	LeveledUp        bool                   `json:"leveled_up"`
	Unlocks          []domain.Unlock        `json:"unlocked_achievements"`
	Completion       *domain.BookCompletion `json:"completion,omitempty"`
}

// Submit runs the whole workflow atomically. Any failure rolls everything
// back; a missing book surfaces as domain.ErrBookNotFound. Retrying a
// failed submission is safe: unlock grants and completion inserts are
// idempotent and stats are recomputed from previous + delta.
func (s *Service) Submit(in SubmitInput) (*SubmitResult, error) {
	now := s.now()
	var result *SubmitResult

	err := s.db.InTx(func(tx *sqlite.Tx) error {
		r, err := s.submit(tx, in, now)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsSubmitted.Inc()
	metrics.XPAwarded.Add(float64(result.BoostedXP + result.BonusXP))
	metrics.AchievementsUnlocked.Add(float64(len(result.Unlocks)))
	if result.Completion != nil {
		metrics.BooksCompleted.Inc()
	}
	return result, nil
}

func (s *Service) submit(tx *sqlite.Tx, in SubmitInput, now time.Time) (*SubmitResult, error) {
	// 1. The book must belong to the submitting student.
	book, err := tx.BookForStudent(in.StudentID, in.BookID)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book == nil {
		return nil, domain.ErrBookNotFound
	}

	// 2. Advance the streak; persist immediately so the snapshot the
	// evaluator builds sees today's streak.
	stats, err := tx.StudentStats(in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	adv := rewards.NextStreak(stats.StreakDays, stats.LastActiveDate, now)
	if adv.Changed {
		stats.StreakDays = adv.Days
		stats.LastActiveDate = adv.LastActive
		if err := tx.UpsertStats(stats); err != nil {
			return nil, fmt.Errorf("save streak: %w", err)
		}
	}

	// 3–4. Streak multiplier on the client-proposed XP.
	baseXP := in.XPEarned
	if baseXP < 0 {
		baseXP = 0
	}
	boostedXP := rewards.BoostXP(baseXP, stats.StreakDays)

	// 5. Record the session and its reflections.
	session, err := tx.InsertSession(domain.ReadingSession{
		StudentID:        in.StudentID,
		BookID:           in.BookID,
		StartPage:        in.StartPage,
		EndPage:          in.EndPage,
		ChaptersFinished: in.ChaptersFinished,
		DurationMinutes:  in.DurationMinutes,
		GoalMinutes:      in.GoalMinutes,
		XPEarned:         boostedXP,
		CreatedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	for _, refl := range normalizeReflections(in.Questions, in.Answers) {
		refl.SessionID = session.ID
		refl.StudentID = in.StudentID
		refl.CreatedAt = now
		if err := tx.InsertReflection(refl); err != nil {
			return nil, fmt.Errorf("insert reflection: %w", err)
		}
	}

	// 6. Advance the book, clamped to its total page count if known.
	newPage := in.EndPage
	if newPage < 0 {
		newPage = 0
	}
	if book.TotalPages > 0 && newPage > book.TotalPages {
		newPage = book.TotalPages
	}
	if err := tx.UpdateBookPage(book.ID, newPage); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	result := &SubmitResult{
		Session:          *session,
		StreakDays:       stats.StreakDays,
		StreakMultiplier: rewards.Multiplier(stats.StreakDays),
		BaseXP:           baseXP,
		BoostedXP:        boostedXP,
	}

	// 7–8. First crossing of the last page completes the book. The
	// transaction serializes completion-number assignment per student; the
	// (student, book) uniqueness constraint absorbs a re-processed crossing.
	if book.TotalPages > 0 && book.CurrentPage < book.TotalPages && in.EndPage >= book.TotalPages {
		number, err := tx.NextCompletionNumber(in.StudentID)
		if err != nil {
			return nil, fmt.Errorf("next completion number: %w", err)
		}
		completion := domain.BookCompletion{
			StudentID:        in.StudentID,
			BookID:           book.ID,
			CompletionNumber: number,
			CompletedAt:      now,
		}
		inserted, err := tx.InsertCompletion(completion)
		if err != nil {
			return nil, fmt.Errorf("insert completion: %w", err)
		}
		if inserted {
			result.Completion = &completion
			unlock, err := s.eval.EvaluateBookCompletion(tx, in.StudentID, number, now)
			if err != nil {
				return nil, err
			}
			if unlock != nil {
				result.Unlocks = append(result.Unlocks, *unlock)
				result.BonusXP += unlock.AwardedXP
				result.BonusCoins += unlock.AwardedCoins
			}
		}
	}

	thresholds, err := s.eval.EvaluateThresholds(tx, in.StudentID, now)
	if err != nil {
		return nil, err
	}
	result.Unlocks = append(result.Unlocks, thresholds.Unlocks...)
	result.BonusXP += thresholds.BonusXP
	result.BonusCoins += thresholds.BonusCoins

	// 9–10. Settle the coin and XP economy.
	result.SessionCoins = rewards.SessionCoins(boostedXP)
	result.MilestoneCoins = rewards.MilestoneCoins(stats.TotalXP, boostedXP)
	result.OvertimeCoins = rewards.OvertimeCoins(in.DurationMinutes, in.GoalMinutes)

	coinDelta := result.SessionCoins + result.MilestoneCoins + result.OvertimeCoins + result.BonusCoins
	oldLevel := rewards.LevelForXP(stats.TotalXP)

	stats.TotalXP += boostedXP + result.BonusXP
	stats.Level = rewards.LevelForXP(stats.TotalXP)
	stats.Coins += coinDelta
	stats.TotalCoinsEarned += coinDelta

	// 11. Persist and report.
	if err := tx.UpsertStats(stats); err != nil {
		return nil, fmt.Errorf("save stats: %w", err)
	}
	result.Stats = stats
	result.LeveledUp = stats.Level > oldLevel
	return result, nil
}

// normalizeReflections pairs parallel question/answer arrays, drops pairs
// with both sides empty, truncates text, and defaults missing questions.
func normalizeReflections(questions, answers []string) []domain.Reflection {
	n := len(questions)
	if len(answers) > n {
		n = len(answers)
	}

	var out []domain.Reflection
	for i := 0; i < n; i++ {
		var q, a string
		if i < len(questions) {
			q = strings.TrimSpace(questions[i])
		}
		if i < len(answers) {
			a = strings.TrimSpace(answers[i])
		}
		if q == "" && a == "" {
			continue
		}
		if q == "" {
			q = fmt.Sprintf("Question %d", i+1)
		}
		out = append(out, domain.Reflection{
			Question: truncate(q, reflectionTextLimit),
			Answer:   truncate(a, reflectionTextLimit),
		})
	}
	return out
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Never cut mid-rune.
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
