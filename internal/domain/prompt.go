package domain

import "time"

type PromptStatus string

const (
	PromptActive   PromptStatus = "active"
	PromptDraft    PromptStatus = "draft"
	PromptArchived PromptStatus = "archived"
)

// Prompt is the fact record supplied by storage for one prompt.
type Prompt struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	CategoryID    string       `json:"category_id"`
	Title         string       `json:"title"`
	Status        PromptStatus `json:"status"`
	IsPublic      bool         `json:"is_public"`
	IsFeatured    bool         `json:"is_featured"`
	Score         int          `json:"score"`
	AverageRating float64      `json:"average_rating"`
	RatingCount   int          `json:"rating_count"`
	UsageCount    int          `json:"usage_count"`
	FavoriteCount int          `json:"favorite_count"`
	ShareCount    int          `json:"share_count"`
	CommentCount  int          `json:"comment_count"`
	ViewCount     int          `json:"view_count"`
	LastUsedAt    *time.Time   `json:"last_used_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (p Prompt) IsActive() bool {
	return p.Status == PromptActive
}

// PromptSignal is the immutable snapshot the scoring engine consumes.
// LastUsedDaysAgo is nil when the prompt has never been used.
type PromptSignal struct {
	AverageRating    float64  `json:"average_rating"`
	RatingCount      int      `json:"rating_count"`
	UsageCount       int      `json:"usage_count"`
	DaysSinceCreated float64  `json:"days_since_created"`
	LastUsedDaysAgo  *float64 `json:"last_used_days_ago,omitempty"`
	FavoriteCount    int      `json:"favorite_count"`
	ShareCount       int      `json:"share_count"`
	CommentCount     int      `json:"comment_count"`
	ViewCount        int      `json:"view_count"`
}

// Rating is a single rater's value for a prompt. At most one per (prompt, rater).
type Rating struct {
	PromptID  string    `json:"prompt_id"`
	RaterID   string    `json:"rater_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
