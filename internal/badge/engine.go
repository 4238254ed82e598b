package badge

import (
	"math"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/google/uuid"
)

type Engine struct {
	definitions []Definition
	now         func() time.Time
}

type Option func(*Engine)

// WithClock fixes the EarnedAt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithDefinitions(defs []Definition) Option {
	return func(e *Engine) { e.definitions = defs }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		definitions: registry,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckEligibility returns a grant for every badge not in held whose criteria
// hold for stats, in registry order. Held badges are never re-evaluated.
func (e *Engine) CheckEligibility(stats domain.UserStats, held map[string]struct{}) ([]domain.BadgeGrant, error) {
	if err := validateStats(stats); err != nil {
		return nil, err
	}

	earnedAt := e.now().UTC()
	var grants []domain.BadgeGrant
	for _, def := range e.definitions {
		if _, ok := held[def.ID]; ok {
			continue
		}
		if !def.Criteria(stats) {
			continue
		}
		grants = append(grants, domain.BadgeGrant{
			ID:       uuid.NewString(),
			BadgeID:  def.ID,
			Type:     def.Type,
			Points:   def.Points,
			EarnedAt: earnedAt,
		})
	}
	return grants, nil
}

func validateStats(s domain.UserStats) error {
	counts := []struct {
		field string
		value int
	}{
		{"total_prompts", s.TotalPrompts},
		{"active_prompts", s.ActivePrompts},
		{"total_usage", s.TotalUsage},
		{"total_ratings", s.TotalRatings},
		{"longest_streak", s.LongestStreak},
		{"featured_prompts", s.FeaturedPrompts},
		{"top_ranked_prompts", s.TopRankedPrompts},
		{"current_badge_count", s.CurrentBadgeCount},
	}
	for _, c := range counts {
		if c.value < 0 {
			return domain.NewInvalidInput(c.field, "must be non-negative")
		}
	}
	if s.AverageRating < 0 || s.AverageRating > 5 || math.IsNaN(s.AverageRating) {
		return domain.NewInvalidInput("average_rating", "must be within [0, 5]")
	}
	return nil
}
