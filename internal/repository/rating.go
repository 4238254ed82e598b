package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/jackc/pgx/v5"
)

// UpsertRating stores the rater's value for a prompt and refreshes the
// prompt's rating aggregates in the same transaction.
func (r *Repository) UpsertRating(ctx context.Context, rating domain.Rating) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM prompts WHERE id = $1)`, rating.PromptID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check prompt %s: %w", rating.PromptID, err)
		}
		if !exists {
			return domain.ErrPromptNotFound
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO ratings (prompt_id, rater_id, value, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (prompt_id, rater_id)
			DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			rating.PromptID, rating.RaterID, rating.Value,
		); err != nil {
			return fmt.Errorf("upsert rating for prompt %s: %w", rating.PromptID, err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE prompts p SET
				average_rating = COALESCE(agg.avg_value, 0),
				rating_count = agg.cnt,
				updated_at = NOW()
			FROM (
				SELECT AVG(value)::float8 AS avg_value, COUNT(*) AS cnt
				FROM ratings WHERE prompt_id = $1
			) agg
			WHERE p.id = $1`,
			rating.PromptID,
		); err != nil {
			return fmt.Errorf("refresh rating aggregates for prompt %s: %w", rating.PromptID, err)
		}
		return nil
	})
}
