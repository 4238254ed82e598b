package domain

import "time"

type BadgeType string

const (
	BadgeSubmission BadgeType = "submission"
	BadgeUsage      BadgeType = "usage"
	BadgeScore      BadgeType = "score"
	BadgeStreak     BadgeType = "streak"
	BadgeSpecial    BadgeType = "special"
)

// UserStats are aggregate counters derived from a user's full activity history.
type UserStats struct {
	TotalPrompts      int     `json:"total_prompts"`
	ActivePrompts     int     `json:"active_prompts"`
	TotalUsage        int     `json:"total_usage"`
	TotalRatings      int     `json:"total_ratings"`
	AverageRating     float64 `json:"average_rating"`
	LongestStreak     int     `json:"longest_streak"`
	FeaturedPrompts   int     `json:"featured_prompts"`
	TopRankedPrompts  int     `json:"top_ranked_prompts"`
	CurrentBadgeCount int     `json:"current_badge_count"`
}

type BadgeGrant struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id,omitempty"`
	BadgeID  string    `json:"badge_id"`
	Type     BadgeType `json:"type"`
	Points   int       `json:"points"`
	EarnedAt time.Time `json:"earned_at"`
}
