package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/jackc/pgx/v5"
)

const standingQuery = `SELECT u.id, u.username, u.is_active, u.total_score,
		COUNT(p.id) FILTER (WHERE p.status = 'active'),
		COALESCE(
			SUM(p.average_rating * p.rating_count) FILTER (WHERE p.status = 'active')
			/ NULLIF(SUM(p.rating_count) FILTER (WHERE p.status = 'active'), 0),
			0)::float8
	FROM users u
	LEFT JOIN prompts p ON p.user_id = u.id`

func scanStanding(row pgx.Row) (domain.UserStanding, error) {
	var s domain.UserStanding
	err := row.Scan(&s.UserID, &s.Username, &s.IsActive, &s.TotalScore, &s.TotalPrompts, &s.AverageRating)
	return s, err
}

func (r *Repository) GetUserStanding(ctx context.Context, userID string) (*domain.UserStanding, error) {
	s, err := scanStanding(r.pool.QueryRow(ctx,
		standingQuery+` WHERE u.id = $1 GROUP BY u.id`, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user id=%s: %w", userID, err)
	}
	return &s, nil
}

// ListUserStandings returns every user ordered by id.
func (r *Repository) ListUserStandings(ctx context.Context) ([]domain.UserStanding, error) {
	rows, err := r.pool.Query(ctx, standingQuery+` GROUP BY u.id ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("query user standings: %w", err)
	}
	defer rows.Close()

	var items []domain.UserStanding
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user standing: %w", err)
		}
		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user standings: %w", err)
	}
	return items, nil
}

func (r *Repository) SumActivePromptScores(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(score), 0) FROM prompts WHERE user_id = $1 AND status = 'active'`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum prompt scores for user %s: %w", userID, err)
	}
	return total, nil
}

func (r *Repository) UpdateUserTotalScore(ctx context.Context, userID string, total int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET total_score = $1, updated_at = NOW() WHERE id = $2`, total, userID)
	if err != nil {
		return fmt.Errorf("update total score for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
