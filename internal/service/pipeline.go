package service

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/badge"
	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/actuallystonmai/prompt-leaderboard/internal/metrics"
	"github.com/actuallystonmai/prompt-leaderboard/internal/scoring"
	"go.uber.org/zap"
)

type Trigger string

const (
	TriggerRating   Trigger = "rating"
	TriggerActivity Trigger = "activity"
	TriggerRescore  Trigger = "rescore"
	TriggerManual   Trigger = "manual"
)

type RescoreResult struct {
	PromptsScored    int   `json:"prompts_scored"`
	PromptsChanged   int   `json:"prompts_changed"`
	UsersRecomputed  int   `json:"users_recomputed"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type ScoreResult struct {
	PromptID      string                `json:"prompt_id"`
	CategoryID    string                `json:"category_id"`
	Breakdown     domain.ScoreBreakdown `json:"breakdown"`
	AdjustedScore *int                  `json:"adjusted_score,omitempty"`
}

// GetScore computes a prompt's breakdown from its current facts without persisting it.
func (s *Service) GetScore(ctx context.Context, promptID string, categoryAdjusted bool) (*ScoreResult, error) {
	p, err := s.store.GetPromptByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	b, err := scoring.ComputeScore(scoring.SignalFromPrompt(*p, s.opts.Now()))
	if err != nil {
		return nil, err
	}
	metrics.PromptScoresComputed.WithLabelValues(string(TriggerManual)).Inc()

	result := &ScoreResult{PromptID: p.ID, CategoryID: p.CategoryID, Breakdown: b}
	if categoryAdjusted {
		adjusted, err := scoring.ApplyCategoryMultiplier(b.TotalScore, p.CategoryID)
		if err != nil {
			return nil, err
		}
		result.AdjustedScore = &adjusted
	}
	return result, nil
}

// RecordRating stores a rating and runs both recompute stages for it.
func (s *Service) RecordRating(ctx context.Context, rating domain.Rating) (*domain.ScoreBreakdown, error) {
	if rating.Value < 1 || rating.Value > 5 {
		return nil, domain.NewInvalidInput("value", "must be between 1 and 5")
	}
	if rating.PromptID == "" || rating.RaterID == "" {
		return nil, domain.NewInvalidInput("rating", "requires prompt and rater ids")
	}

	if err := s.store.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}
	return s.rescorePrompt(ctx, rating.PromptID, TriggerRating)
}

// RecordActivity logs an event and rescores the prompt it touches.
func (s *Service) RecordActivity(ctx context.Context, ev domain.ActivityEvent) error {
	if !ev.Type.Valid() {
		return domain.NewInvalidInput("type", fmt.Sprintf("unknown activity type %q", ev.Type))
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.opts.Now().UTC()
	}

	if err := s.store.RecordActivity(ctx, ev); err != nil {
		return err
	}
	if ev.Type == domain.ActivityReport {
		s.log.Info("prompt reported", zap.String("prompt_id", ev.PromptID), zap.String("user_id", ev.UserID))
		return nil
	}
	if ev.PromptID == "" {
		return nil
	}

	_, err := s.rescorePrompt(ctx, ev.PromptID, TriggerActivity)
	return err
}

// rescorePrompt recomputes the prompt score and, when it changed, persists it
// together with the owner's total so a failed write leaves both untouched.
// The user stage never calls back here.
func (s *Service) rescorePrompt(ctx context.Context, promptID string, trigger Trigger) (*domain.ScoreBreakdown, error) {
	p, err := s.store.GetPromptByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	b, err := scoring.ComputeScore(scoring.SignalFromPrompt(*p, s.opts.Now()))
	if err != nil {
		metrics.PromptScoreFailures.WithLabelValues(string(trigger)).Inc()
		return nil, fmt.Errorf("score prompt %s: %w", promptID, err)
	}
	metrics.PromptScoresComputed.WithLabelValues(string(trigger)).Inc()

	if b.TotalScore != p.Score {
		held, err := s.store.ListHeldBadges(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if _, err := s.store.SavePromptScore(ctx, promptID, p.UserID, b.TotalScore, badge.PointsFor(held)); err != nil {
			return nil, err
		}
		metrics.UserTotalsRecomputed.Inc()
		s.invalidateLeaderboards(ctx)
	}

	s.log.Debug("prompt rescored",
		zap.String("prompt_id", promptID),
		zap.String("trigger", string(trigger)),
		zap.Int("previous", p.Score),
		zap.Int("score", b.TotalScore),
	)
	return &b, nil
}

// RecomputeUserTotal is stage two: active prompt scores plus held badge points.
func (s *Service) RecomputeUserTotal(ctx context.Context, userID string) (int, error) {
	sum, err := s.store.SumActivePromptScores(ctx, userID)
	if err != nil {
		return 0, err
	}
	held, err := s.store.ListHeldBadges(ctx, userID)
	if err != nil {
		return 0, err
	}

	total := sum + badge.PointsFor(held)
	if err := s.store.UpdateUserTotalScore(ctx, userID, total); err != nil {
		return 0, err
	}
	metrics.UserTotalsRecomputed.Inc()
	return total, nil
}

// CheckBadges derives the user's stats, persists any newly earned badges and
// refreshes the user's total for their point rewards.
func (s *Service) CheckBadges(ctx context.Context, userID string) ([]domain.BadgeGrant, error) {
	if _, err := s.store.GetUserStanding(ctx, userID); err != nil {
		return nil, err
	}

	prompts, err := s.store.ListPromptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.store.ListActivityByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	held, err := s.store.ListHeldBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := badge.ComputeUserStats(domain.UserActivity{
		Prompts:           prompts,
		Events:            events,
		CurrentBadgeCount: len(held),
	})
	if err != nil {
		return nil, err
	}

	grants, err := s.badges.CheckEligibility(stats, held)
	if err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		return []domain.BadgeGrant{}, nil
	}

	for i := range grants {
		grants[i].UserID = userID
	}
	// a concurrent check may have stored some of these already
	grants, err = s.store.InsertBadgeGrants(ctx, userID, grants)
	if err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		return []domain.BadgeGrant{}, nil
	}
	for _, g := range grants {
		metrics.BadgesGranted.WithLabelValues(string(g.Type)).Inc()
	}

	if _, err := s.RecomputeUserTotal(ctx, userID); err != nil {
		return nil, err
	}
	s.invalidateLeaderboards(ctx)

	s.log.Info("badges granted", zap.String("user_id", userID), zap.Int("count", len(grants)))
	return grants, nil
}

// RescoreAll scores every prompt in parallel, persists the changed ones and
// recomputes the total of every owner, so totals left stale by an earlier
// failure are repaired too.
func (s *Service) RescoreAll(ctx context.Context) (*RescoreResult, error) {
	start := time.Now()

	prompts, err := s.store.ListPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prompts: %w", err)
	}

	scored, err := scoring.ScoreBatch(ctx, prompts, s.opts.Now(), s.opts.BatchConcurrency)
	if err != nil {
		metrics.PromptScoreFailures.WithLabelValues(string(TriggerRescore)).Inc()
		return nil, fmt.Errorf("score prompts: %w", err)
	}
	metrics.PromptScoresComputed.WithLabelValues(string(TriggerRescore)).Add(float64(len(scored)))

	owners := make(map[string]struct{})
	var userOrder []string
	changed := 0
	for i, sp := range scored {
		p := prompts[i]
		if _, ok := owners[p.UserID]; !ok {
			owners[p.UserID] = struct{}{}
			userOrder = append(userOrder, p.UserID)
		}
		if sp.Breakdown.TotalScore == p.Score {
			continue
		}
		if err := s.store.UpdatePromptScore(ctx, p.ID, sp.Breakdown.TotalScore); err != nil {
			return nil, err
		}
		changed++
	}

	for _, userID := range userOrder {
		if _, err := s.RecomputeUserTotal(ctx, userID); err != nil {
			return nil, err
		}
	}
	s.invalidateLeaderboards(ctx)

	elapsed := time.Since(start)
	metrics.RescoreDuration.Observe(elapsed.Seconds())
	s.log.Info("rescore complete",
		zap.Int("prompts", len(scored)),
		zap.Int("changed", changed),
		zap.Int("users", len(userOrder)),
		zap.Duration("elapsed", elapsed),
	)

	return &RescoreResult{
		PromptsScored:    len(scored),
		PromptsChanged:   changed,
		UsersRecomputed:  len(userOrder),
		ProcessingTimeMs: elapsed.Milliseconds(),
	}, nil
}
