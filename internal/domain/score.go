package domain

// ComponentScore is one sub-score with its weight and weighted contribution.
type ComponentScore struct {
	Score        int     `json:"score"`
	Max          int     `json:"max"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdown is the audit trail of a prompt score. TotalScore is
// round(sum of contributions) clamped to [0, 200].
type ScoreBreakdown struct {
	Rating     ComponentScore `json:"rating"`
	Usage      ComponentScore `json:"usage"`
	Recency    ComponentScore `json:"recency"`
	Engagement ComponentScore `json:"engagement"`
	TotalScore int            `json:"total_score"`
}

// ScoredPrompt pairs a prompt id with its computed breakdown, used by batch scoring.
type ScoredPrompt struct {
	PromptID  string         `json:"prompt_id"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
