package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/actuallystonmai/prompt-leaderboard/internal/leaderboard"
	"github.com/actuallystonmai/prompt-leaderboard/internal/metrics"
	"go.uber.org/zap"
)

type GlobalResult struct {
	Entries  []domain.GlobalEntry
	CacheHit bool
}

type CategoryResult struct {
	Entries  []domain.CategoryEntry
	CacheHit bool
}

type TrendingResult struct {
	Entries  []domain.TrendingEntry
	Days     int
	CacheHit bool
}

func (s *Service) GetGlobalLeaderboard(ctx context.Context, limit int) (*GlobalResult, error) {
	limit = s.normalizeLimit(limit)

	cached, found, err := s.cache.GetGlobal(ctx, limit)
	if err != nil {
		s.log.Warn("cache get failed", zap.String("board", "global"), zap.Error(err))
	}
	if found {
		metrics.LeaderboardRequests.WithLabelValues("global", "hit").Inc()
		return &GlobalResult{Entries: cached, CacheHit: true}, nil
	}
	metrics.LeaderboardRequests.WithLabelValues("global", "miss").Inc()

	users, err := s.store.ListUserStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch user standings: %w", err)
	}
	entries, err := leaderboard.Global(users, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetGlobal(ctx, limit, entries); err != nil {
		s.log.Warn("cache set failed", zap.String("board", "global"), zap.Error(err))
	}
	return &GlobalResult{Entries: entries}, nil
}

func (s *Service) GetCategoryLeaderboard(ctx context.Context, categoryID string, limit int) (*CategoryResult, error) {
	if categoryID == "" {
		return nil, domain.NewInvalidInput("category_id", "is required")
	}
	limit = s.normalizeLimit(limit)

	cached, found, err := s.cache.GetCategory(ctx, categoryID, limit)
	if err != nil {
		s.log.Warn("cache get failed", zap.String("board", "category"), zap.Error(err))
	}
	if found {
		metrics.LeaderboardRequests.WithLabelValues("category", "hit").Inc()
		return &CategoryResult{Entries: cached, CacheHit: true}, nil
	}
	metrics.LeaderboardRequests.WithLabelValues("category", "miss").Inc()

	users, err := s.store.ListUserStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch user standings: %w", err)
	}
	prompts, err := s.store.ListPromptsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("fetch category prompts: %w", err)
	}
	entries, err := leaderboard.Category(users, prompts, categoryID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCategory(ctx, categoryID, limit, entries); err != nil {
		s.log.Warn("cache set failed", zap.String("board", "category"), zap.Error(err))
	}
	return &CategoryResult{Entries: entries}, nil
}

func (s *Service) GetTrendingLeaderboard(ctx context.Context, days, limit int) (*TrendingResult, error) {
	if days <= 0 {
		days = s.opts.DefaultTrendingDays
	}
	limit = s.normalizeLimit(limit)

	cached, found, err := s.cache.GetTrending(ctx, days, limit)
	if err != nil {
		s.log.Warn("cache get failed", zap.String("board", "trending"), zap.Error(err))
	}
	if found {
		metrics.LeaderboardRequests.WithLabelValues("trending", "hit").Inc()
		return &TrendingResult{Entries: cached, Days: days, CacheHit: true}, nil
	}
	metrics.LeaderboardRequests.WithLabelValues("trending", "miss").Inc()

	now := s.opts.Now()
	prompts, err := s.store.ListPromptsCreatedSince(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("fetch recent prompts: %w", err)
	}
	entries, err := leaderboard.Trending(prompts, days, now, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTrending(ctx, days, limit, entries); err != nil {
		s.log.Warn("cache set failed", zap.String("board", "trending"), zap.Error(err))
	}
	return &TrendingResult{Entries: entries, Days: days}, nil
}
