package domain

import "time"

// UserStanding is the per-user input to the global and category boards.
type UserStanding struct {
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	IsActive      bool    `json:"is_active"`
	TotalScore    int     `json:"total_score"`
	TotalPrompts  int     `json:"total_prompts"`
	AverageRating float64 `json:"average_rating"`
}

type GlobalEntry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"user_id"`
	Username      string  `json:"username"`
	TotalScore    int     `json:"total_score"`
	TotalPrompts  int     `json:"total_prompts"`
	AverageRating float64 `json:"average_rating"`
}

type CategoryEntry struct {
	Rank                  int     `json:"rank"`
	UserID                string  `json:"user_id"`
	Username              string  `json:"username"`
	CategoryID            string  `json:"category_id"`
	CategoryScore         int     `json:"category_score"`
	CategoryUsage         int     `json:"category_usage"`
	CategoryAverageRating float64 `json:"category_average_rating"`
	CategoryPrompts       int     `json:"category_prompts"`
}

type TrendingEntry struct {
	Rank          int       `json:"rank"`
	PromptID      string    `json:"prompt_id"`
	UserID        string    `json:"user_id"`
	CategoryID    string    `json:"category_id"`
	Title         string    `json:"title"`
	Score         int       `json:"score"`
	UsageCount    int       `json:"usage_count"`
	AverageRating float64   `json:"average_rating"`
	TrendingScore int       `json:"trending_score"`
	CreatedAt     time.Time `json:"created_at"`
}

type LeaderboardMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}
