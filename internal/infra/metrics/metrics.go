// Package metrics provides Prometheus metrics for ReadQuest: counters and
// histograms for session submissions, rewards, and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Sessions ───────────────────────────────────────────────────────────────

// SessionsSubmitted counts successfully committed session submissions.
var SessionsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "readquest",
	Name:      "sessions_submitted_total",
	Help:      "Total reading sessions submitted.",
})

// BooksCompleted counts first-time book completions.
var BooksCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "readquest",
	Name:      "books_completed_total",
	Help:      "Total book completions recorded.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// XPAwarded counts all XP credited (boosted session XP plus bonuses).
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "readquest",
	Name:      "xp_awarded_total",
	Help:      "Total XP credited to students.",
})

// AchievementsUnlocked counts new unlock-ledger grants.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "readquest",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievement grants written to the ledger.",
})

// CoinsSpent counts coins spent on room decorations.
var CoinsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "readquest",
	Name:      "coins_spent_total",
	Help:      "Total coins spent in the decoration shop.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// RequestDuration tracks HTTP request latency by route and status.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "readquest",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "status"})
