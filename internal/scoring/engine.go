package scoring

import (
	"context"
	"math"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	MaxTotalScore = 200

	ratingMax     = 100
	usageMax      = 50
	recencyMax    = 20
	engagementMax = 30

	ratingWeight     = 0.4
	usageWeight      = 0.3
	recencyWeight    = 0.2
	engagementWeight = 0.1

	velocityBonusMax   = 20
	recencyDecayPerDay = 0.5
	recentUseWindow    = 7
	recentUseBonusMax  = 10

	favoriteWeight = 3
	shareWeight    = 2
	commentWeight  = 1.5
	viewWeight     = 0.1
)

// confidenceTier applies when ratingCount is below below (the last tier is open-ended).
type confidenceTier struct {
	below      int
	multiplier float64
}

var confidenceTiers = []confidenceTier{
	{below: 3, multiplier: 0.6},
	{below: 5, multiplier: 0.7},
	{below: 10, multiplier: 0.8},
	{below: 25, multiplier: 0.9},
	{below: 50, multiplier: 0.95},
}

var categoryMultipliers = map[string]float64{
	"code-development":   1.1,
	"education-learning": 1.05,
	"personal-lifestyle": 0.95,
}

// ComputeScore scores a single prompt signal. It only fails on negative or
// non-finite input.
func ComputeScore(signal domain.PromptSignal) (domain.ScoreBreakdown, error) {
	if err := validateSignal(signal); err != nil {
		return domain.ScoreBreakdown{}, err
	}

	b := domain.ScoreBreakdown{
		Rating:     component(ratingScore(signal), ratingMax, ratingWeight),
		Usage:      component(usageScore(signal), usageMax, usageWeight),
		Recency:    component(recencyScore(signal), recencyMax, recencyWeight),
		Engagement: component(engagementScore(signal), engagementMax, engagementWeight),
	}

	total := b.Rating.Contribution + b.Usage.Contribution + b.Recency.Contribution + b.Engagement.Contribution
	b.TotalScore = clampInt(int(math.Round(total)), 0, MaxTotalScore)
	return b, nil
}

// ApplyCategoryMultiplier adjusts a total score by the category factor.
// Unknown categories keep the score unchanged. A negative score is rejected.
func ApplyCategoryMultiplier(score int, categoryID string) (int, error) {
	if score < 0 {
		return 0, domain.NewInvalidInput("score", "must be non-negative")
	}
	m, ok := categoryMultipliers[categoryID]
	if !ok {
		m = 1.0
	}
	return int(math.Round(float64(score) * m)), nil
}

// ConfidenceMultiplier damps the rating score for small samples.
func ConfidenceMultiplier(ratingCount int) float64 {
	for _, tier := range confidenceTiers {
		if ratingCount < tier.below {
			return tier.multiplier
		}
	}
	return 1.0
}

// SignalFromPrompt derives the scoring snapshot of a stored prompt at now.
func SignalFromPrompt(p domain.Prompt, now time.Time) domain.PromptSignal {
	signal := domain.PromptSignal{
		AverageRating:    p.AverageRating,
		RatingCount:      p.RatingCount,
		UsageCount:       p.UsageCount,
		DaysSinceCreated: daysBetween(p.CreatedAt, now),
		FavoriteCount:    p.FavoriteCount,
		ShareCount:       p.ShareCount,
		CommentCount:     p.CommentCount,
		ViewCount:        p.ViewCount,
	}
	if p.LastUsedAt != nil {
		d := daysBetween(*p.LastUsedAt, now)
		signal.LastUsedDaysAgo = &d
	}
	return signal
}

// ScoreBatch scores prompts with at most concurrency workers. Results keep
// input order. The first invalid prompt aborts the batch.
func ScoreBatch(ctx context.Context, prompts []domain.Prompt, now time.Time, concurrency int) ([]domain.ScoredPrompt, error) {
	results := make([]domain.ScoredPrompt, len(prompts))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, p := range prompts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := ComputeScore(SignalFromPrompt(p, now))
			if err != nil {
				return err
			}
			results[i] = domain.ScoredPrompt{PromptID: p.ID, Breakdown: b}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func ratingScore(s domain.PromptSignal) int {
	if s.RatingCount == 0 {
		return 0
	}
	base := ((s.AverageRating - 1) / 4) * 100
	return clampInt(int(math.Round(base*ConfidenceMultiplier(s.RatingCount))), 0, ratingMax)
}

func usageScore(s domain.PromptSignal) int {
	if s.UsageCount == 0 {
		return 0
	}
	usage := float64(s.UsageCount)
	velocity := usage
	if s.DaysSinceCreated > 0 {
		velocity = usage / s.DaysSinceCreated
	}
	base := math.Log10(usage+1) * 15
	bonus := math.Min(velocity*5, velocityBonusMax)
	return clampInt(int(math.Round(math.Min(base+bonus, usageMax))), 0, usageMax)
}

func recencyScore(s domain.PromptSignal) int {
	score := math.Max(0, recencyMax-s.DaysSinceCreated*recencyDecayPerDay)
	if s.LastUsedDaysAgo != nil && *s.LastUsedDaysAgo < recentUseWindow {
		score += math.Max(0, recentUseBonusMax-*s.LastUsedDaysAgo)
	}
	return clampInt(int(math.Round(score)), 0, recencyMax)
}

func engagementScore(s domain.PromptSignal) int {
	raw := float64(s.FavoriteCount)*favoriteWeight +
		float64(s.ShareCount)*shareWeight +
		float64(s.CommentCount)*commentWeight +
		float64(s.ViewCount)*viewWeight
	return clampInt(int(math.Round(math.Min(raw, engagementMax))), 0, engagementMax)
}

func component(score, max int, weight float64) domain.ComponentScore {
	return domain.ComponentScore{
		Score:        score,
		Max:          max,
		Weight:       weight,
		Contribution: float64(score) * weight,
	}
}

func validateSignal(s domain.PromptSignal) error {
	counts := []struct {
		field string
		value int
	}{
		{"rating_count", s.RatingCount},
		{"usage_count", s.UsageCount},
		{"favorite_count", s.FavoriteCount},
		{"share_count", s.ShareCount},
		{"comment_count", s.CommentCount},
		{"view_count", s.ViewCount},
	}
	for _, c := range counts {
		if c.value < 0 {
			return domain.NewInvalidInput(c.field, "must be non-negative")
		}
	}

	if !isFinite(s.DaysSinceCreated) || s.DaysSinceCreated < 0 {
		return domain.NewInvalidInput("days_since_created", "must be a non-negative number")
	}
	if s.LastUsedDaysAgo != nil && (!isFinite(*s.LastUsedDaysAgo) || *s.LastUsedDaysAgo < 0) {
		return domain.NewInvalidInput("last_used_days_ago", "must be a non-negative number")
	}
	// average rating is ignored without ratings
	if s.RatingCount > 0 && (!isFinite(s.AverageRating) || s.AverageRating < 0 || s.AverageRating > 5) {
		return domain.NewInvalidInput("average_rating", "must be within [0, 5]")
	}
	return nil
}

func daysBetween(from, to time.Time) float64 {
	d := to.Sub(from).Hours() / 24.0
	if d < 0 {
		return 0
	}
	return d
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
