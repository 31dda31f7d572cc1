package rewards

// XP and coin economy constants. Levels are a flat 500-XP ladder; every
// 500-XP boundary crossed also pays a coin milestone.
const (
	xpPerLevel        = 500
	milestoneCoinsPer = 75
	overtimeCoinRate  = 3
)

// LevelForXP maps total XP to a level. Level 1 starts at 0 XP; every
// 500 XP is one level. Always ≥ 1 for non-negative XP.
func LevelForXP(totalXP int64) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return int(totalXP/xpPerLevel) + 1
}

// XPForLevel returns the cumulative XP required to reach a level.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * xpPerLevel
}

// XPToNextLevel returns XP remaining until the next level.
func XPToNextLevel(totalXP int64) int64 {
	next := XPForLevel(LevelForXP(totalXP) + 1)
	return next - totalXP
}

// SessionCoins returns the base coin reward for a session: one coin per
// 10 boosted XP, minimum 1.
func SessionCoins(boostedXP int64) int64 {
	coins := boostedXP / 10
	if coins < 1 {
		coins = 1
	}
	return coins
}

// MilestoneCoins pays 75 coins per 500-XP boundary the session crosses.
func MilestoneCoins(previousXP, boostedXP int64) int64 {
	crossed := (previousXP+boostedXP)/xpPerLevel - previousXP/xpPerLevel
	if crossed < 0 {
		crossed = 0
	}
	return crossed * milestoneCoinsPer
}

// OvertimeCoins pays 3 coins per minute read beyond the session goal.
// No goal, no bonus.
func OvertimeCoins(durationMinutes, goalMinutes int) int64 {
	if goalMinutes <= 0 || durationMinutes <= goalMinutes {
		return 0
	}
	return int64(overtimeCoinRate * (durationMinutes - goalMinutes))
}
