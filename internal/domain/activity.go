package domain

import "time"

type ActivityType string

const (
	ActivityView     ActivityType = "view"
	ActivityCopy     ActivityType = "copy"
	ActivityShare    ActivityType = "share"
	ActivityFavorite ActivityType = "favorite"
	ActivityReport   ActivityType = "report"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityView, ActivityCopy, ActivityShare, ActivityFavorite, ActivityReport:
		return true
	}
	return false
}

// ActivityEvent is one row of the analytics log. UserID and PromptID are optional.
type ActivityEvent struct {
	Type       ActivityType `json:"type"`
	UserID     string       `json:"user_id,omitempty"`
	PromptID   string       `json:"prompt_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// UserActivity is everything needed to derive one user's stats.
type UserActivity struct {
	Prompts           []Prompt
	Events            []ActivityEvent
	CurrentBadgeCount int
}
