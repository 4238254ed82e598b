package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/jackc/pgx/v5"
)

const promptColumns = `id, user_id, category_id, title, status, is_public, is_featured, score,
	average_rating, rating_count, usage_count, favorite_count, share_count,
	comment_count, view_count, last_used_at, created_at`

func scanPrompt(row pgx.Row) (domain.Prompt, error) {
	var p domain.Prompt
	var status string
	err := row.Scan(&p.ID, &p.UserID, &p.CategoryID, &p.Title, &status, &p.IsPublic, &p.IsFeatured,
		&p.Score, &p.AverageRating, &p.RatingCount, &p.UsageCount, &p.FavoriteCount, &p.ShareCount,
		&p.CommentCount, &p.ViewCount, &p.LastUsedAt, &p.CreatedAt)
	p.Status = domain.PromptStatus(status)
	return p, err
}

func (r *Repository) GetPromptByID(ctx context.Context, promptID string) (*domain.Prompt, error) {
	p, err := scanPrompt(r.pool.QueryRow(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = $1`, promptID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("query prompt id=%s: %w", promptID, err)
	}
	return &p, nil
}

func (r *Repository) ListPrompts(ctx context.Context) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx, `SELECT `+promptColumns+` FROM prompts ORDER BY created_at, id`)
}

func (r *Repository) ListPromptsByUser(ctx context.Context, userID string) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

func (r *Repository) ListPromptsByCategory(ctx context.Context, categoryID string) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx,
		`SELECT `+promptColumns+` FROM prompts
		WHERE category_id = $1 AND status = 'active'
		ORDER BY created_at, id`, categoryID)
}

func (r *Repository) ListPromptsCreatedSince(ctx context.Context, since time.Time) ([]domain.Prompt, error) {
	return r.queryPrompts(ctx,
		`SELECT `+promptColumns+` FROM prompts
		WHERE created_at >= $1 AND status = 'active' AND is_public
		ORDER BY created_at, id`, since)
}

func (r *Repository) UpdatePromptScore(ctx context.Context, promptID string, score int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prompts SET score = $1, updated_at = NOW() WHERE id = $2`, score, promptID)
	if err != nil {
		return fmt.Errorf("update score for prompt %s: %w", promptID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromptNotFound
	}
	return nil
}

func (r *Repository) queryPrompts(ctx context.Context, sql string, args ...any) ([]domain.Prompt, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var items []domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over prompts: %w", err)
	}
	return items, nil
}

// SavePromptScore writes a prompt's new score and refreshes its owner's total
// (active prompt scores plus badgePoints) in one transaction.
func (r *Repository) SavePromptScore(ctx context.Context, promptID, userID string, score, badgePoints int) (int, error) {
	var total int
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE prompts SET score = $1, updated_at = NOW() WHERE id = $2`, score, promptID)
		if err != nil {
			return fmt.Errorf("update score for prompt %s: %w", promptID, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrPromptNotFound
		}

		if err := tx.QueryRow(ctx,
			`UPDATE users SET
				total_score = $2 + COALESCE((
					SELECT SUM(score) FROM prompts WHERE user_id = $1 AND status = 'active'
				), 0),
				updated_at = NOW()
			WHERE id = $1
			RETURNING total_score`,
			userID, badgePoints,
		).Scan(&total); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("update total score for user %s: %w", userID, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
