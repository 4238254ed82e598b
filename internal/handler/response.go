package handler

import (
	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type GlobalLeaderboardResponse struct {
	Entries  []domain.GlobalEntry   `json:"entries"`
	Metadata domain.LeaderboardMeta `json:"metadata"`
}

type CategoryLeaderboardResponse struct {
	CategoryID string                 `json:"category_id"`
	Entries    []domain.CategoryEntry `json:"entries"`
	Metadata   domain.LeaderboardMeta `json:"metadata"`
}

type TrendingLeaderboardResponse struct {
	Days     int                    `json:"days"`
	Entries  []domain.TrendingEntry `json:"entries"`
	Metadata domain.LeaderboardMeta `json:"metadata"`
}

type RatingRequest struct {
	RaterID string `json:"rater_id"`
	Value   int    `json:"value"`
}

type RatingResponse struct {
	PromptID  string                `json:"prompt_id"`
	Breakdown domain.ScoreBreakdown `json:"breakdown"`
}

type ActivityRequest struct {
	Type     domain.ActivityType `json:"type"`
	UserID   string              `json:"user_id,omitempty"`
	PromptID string              `json:"prompt_id,omitempty"`
}

type BadgeCheckResponse struct {
	UserID string              `json:"user_id"`
	Grants []domain.BadgeGrant `json:"grants"`
}
