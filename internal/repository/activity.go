package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/jackc/pgx/v5"
)

var counterColumns = map[domain.ActivityType]string{
	domain.ActivityView:     "view_count",
	domain.ActivityCopy:     "usage_count",
	domain.ActivityShare:    "share_count",
	domain.ActivityFavorite: "favorite_count",
}

// RecordActivity appends the event to the log and bumps the matching prompt counter.
func (r *Repository) RecordActivity(ctx context.Context, ev domain.ActivityEvent) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO activity_log (type, user_id, prompt_id, occurred_at)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)`,
			string(ev.Type), ev.UserID, ev.PromptID, ev.OccurredAt,
		); err != nil {
			return fmt.Errorf("insert activity %s: %w", ev.Type, err)
		}

		column, ok := counterColumns[ev.Type]
		if !ok || ev.PromptID == "" {
			return nil
		}

		sql := fmt.Sprintf(`UPDATE prompts SET %s = %s + 1, updated_at = NOW()`, column, column)
		if ev.Type == domain.ActivityCopy {
			sql += `, last_used_at = $2`
		}
		sql += ` WHERE id = $1`

		args := []any{ev.PromptID}
		if ev.Type == domain.ActivityCopy {
			args = append(args, ev.OccurredAt)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("bump %s for prompt %s: %w", column, ev.PromptID, err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrPromptNotFound
		}
		return nil
	})
}

func (r *Repository) ListActivityByUser(ctx context.Context, userID string) ([]domain.ActivityEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT type, COALESCE(user_id, ''), COALESCE(prompt_id, ''), occurred_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY occurred_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get activity for user %s: %w", userID, err)
	}
	defer rows.Close()

	var items []domain.ActivityEvent
	for rows.Next() {
		var ev domain.ActivityEvent
		var typ string
		if err := rows.Scan(&typ, &ev.UserID, &ev.PromptID, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		ev.Type = domain.ActivityType(typ)
		items = append(items, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over activity events: %w", err)
	}
	return items, nil
}
