package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) ListHeldBadges(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT badge_id FROM user_badges WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query badges for user %s: %w", userID, err)
	}
	defer rows.Close()

	held := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan badge id: %w", err)
		}
		held[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return held, nil
}

// InsertBadgeGrants stores grants and returns the ones actually inserted.
// A badge the user already holds, possibly granted by a concurrent check, is skipped.
func (r *Repository) InsertBadgeGrants(ctx context.Context, userID string, grants []domain.BadgeGrant) ([]domain.BadgeGrant, error) {
	if len(grants) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, g := range grants {
		batch.Queue(
			`INSERT INTO user_badges (id, user_id, badge_id, badge_type, points, earned_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, badge_id) DO NOTHING
			RETURNING badge_id`,
			g.ID, userID, g.BadgeID, string(g.Type), g.Points, g.EarnedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	inserted := make([]domain.BadgeGrant, 0, len(grants))
	for _, g := range grants {
		var badgeID string
		err := br.QueryRow().Scan(&badgeID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			br.Close()
			return nil, fmt.Errorf("insert badge %s for user %s: %w", g.BadgeID, userID, err)
		}
		inserted = append(inserted, g)
	}

	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("insert badge grants for user %s: %w", userID, err)
	}
	return inserted, nil
}
