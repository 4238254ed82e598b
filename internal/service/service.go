package service

import (
	"context"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/badge"
	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultLimit        = 50
	maxLimit            = 100
	defaultTrendingDays = 7
	batchConcurrency    = 10
)

// Store is the facts provider and persistence sink the pipeline runs against.
type Store interface {
	GetPromptByID(ctx context.Context, promptID string) (*domain.Prompt, error)
	ListPrompts(ctx context.Context) ([]domain.Prompt, error)
	ListPromptsByUser(ctx context.Context, userID string) ([]domain.Prompt, error)
	ListPromptsByCategory(ctx context.Context, categoryID string) ([]domain.Prompt, error)
	ListPromptsCreatedSince(ctx context.Context, since time.Time) ([]domain.Prompt, error)
	UpdatePromptScore(ctx context.Context, promptID string, score int) error
	// SavePromptScore writes the score and the owner's refreshed total atomically.
	SavePromptScore(ctx context.Context, promptID, userID string, score, badgePoints int) (int, error)

	UpsertRating(ctx context.Context, rating domain.Rating) error
	RecordActivity(ctx context.Context, ev domain.ActivityEvent) error
	ListActivityByUser(ctx context.Context, userID string) ([]domain.ActivityEvent, error)

	GetUserStanding(ctx context.Context, userID string) (*domain.UserStanding, error)
	ListUserStandings(ctx context.Context) ([]domain.UserStanding, error)
	SumActivePromptScores(ctx context.Context, userID string) (int, error)
	UpdateUserTotalScore(ctx context.Context, userID string, total int) error

	ListHeldBadges(ctx context.Context, userID string) (map[string]struct{}, error)
	InsertBadgeGrants(ctx context.Context, userID string, grants []domain.BadgeGrant) ([]domain.BadgeGrant, error)
}

// LeaderboardCache stores computed boards. Implemented by cache.Cache.
type LeaderboardCache interface {
	GetGlobal(ctx context.Context, limit int) ([]domain.GlobalEntry, bool, error)
	SetGlobal(ctx context.Context, limit int, entries []domain.GlobalEntry) error
	GetCategory(ctx context.Context, categoryID string, limit int) ([]domain.CategoryEntry, bool, error)
	SetCategory(ctx context.Context, categoryID string, limit int, entries []domain.CategoryEntry) error
	GetTrending(ctx context.Context, days, limit int) ([]domain.TrendingEntry, bool, error)
	SetTrending(ctx context.Context, days, limit int, entries []domain.TrendingEntry) error
	Invalidate(ctx context.Context) error
}

type Options struct {
	DefaultLimit        int
	MaxLimit            int
	DefaultTrendingDays int
	BatchConcurrency    int
	Now                 func() time.Time
}

type Service struct {
	store  Store
	cache  LeaderboardCache
	badges *badge.Engine
	log    *zap.Logger
	opts   Options
}

func NewService(store Store, cache LeaderboardCache, badges *badge.Engine, log *zap.Logger, opts Options) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = maxLimit
	}
	if opts.DefaultTrendingDays <= 0 {
		opts.DefaultTrendingDays = defaultTrendingDays
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = batchConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:  store,
		cache:  cache,
		badges: badges,
		log:    log.With(zap.String("component", "service")),
		opts:   opts,
	}
}

func (s *Service) MaxLimit() int {
	return s.opts.MaxLimit
}

func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

// invalidateLeaderboards is best effort: a stale board only lives until the TTL.
func (s *Service) invalidateLeaderboards(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}
