package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/actuallystonmai/prompt-leaderboard/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var categories = []string{
	"code-development", "education-learning", "writing-content",
	"business-marketing", "personal-lifestyle",
}

var titles = map[string][]string{
	"code-development": {
		"Refactor Legacy Function", "Write Unit Tests", "Explain Stack Trace",
		"Design REST Endpoint", "Review Pull Request", "Optimize SQL Query",
	},
	"education-learning": {
		"Socratic Tutor", "Flashcard Generator", "Explain Like I'm Five",
		"Quiz Builder", "Lesson Plan Outline", "Exam Study Schedule",
	},
	"writing-content": {
		"Blog Post Outline", "Headline Brainstorm", "Tone Rewriter",
		"Newsletter Draft", "Story Plot Twist", "Product Description",
	},
	"business-marketing": {
		"Cold Email Opener", "SWOT Analysis", "Ad Copy Variants",
		"Customer Persona", "Pitch Deck Summary", "Meeting Notes Digest",
	},
	"personal-lifestyle": {
		"Weekly Meal Planner", "Workout Routine", "Travel Itinerary",
		"Budget Tracker", "Gift Ideas", "Morning Journal Prompt",
	},
}

// Setup inserts a deterministic sample dataset with scores precomputed.
func Setup(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()
	log = log.With(zap.String("component", "seed"))

	// Truncate existing data before insert
	log.Info("truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE user_badges, activity_log, ratings, prompts, users CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info("inserting users")
	userIDs, err := seedUsers(ctx, pool, 20)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Info("inserting prompts")
	prompts := buildPrompts(rng, userIDs, 60, now)

	ratings := buildRatings(rng, userIDs, prompts)
	if err := insertPrompts(ctx, pool, prompts, now); err != nil {
		return fmt.Errorf("seed prompts: %w", err)
	}

	log.Info("inserting ratings", zap.Int("count", len(ratings)))
	if err := insertRatings(ctx, pool, ratings); err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}

	log.Info("inserting activity")
	if err := seedActivity(ctx, pool, rng, userIDs, prompts, 300, now); err != nil {
		return fmt.Errorf("seed activity: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		UPDATE users u SET total_score = COALESCE((
			SELECT SUM(score) FROM prompts p WHERE p.user_id = u.id AND p.status = 'active'
		), 0)
	`); err != nil {
		return fmt.Errorf("seed user totals: %w", err)
	}

	log.Info("seeding complete", zap.Int("users", len(userIDs)), zap.Int("prompts", len(prompts)))
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, n int) ([]string, error) {
	ids := make([]string, 0, n)
	rows := []string{}
	args := []any{}

	for i := range n {
		id := uuid.NewString()
		ids = append(ids, id)

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, id, fmt.Sprintf("creator_%02d", i+1))
	}

	if len(rows) == 0 {
		return ids, nil
	}

	query := "INSERT INTO users (id, username) VALUES " + strings.Join(rows, ", ")
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

// buildPrompts skews ownership and usage so only a few creators dominate.
func buildPrompts(rng *rand.Rand, userIDs []string, n int, now time.Time) []domain.Prompt {
	statuses := []string{string(domain.PromptActive), string(domain.PromptDraft), string(domain.PromptArchived)}
	statusWeights := []float64{0.8, 0.1, 0.1}

	prompts := make([]domain.Prompt, 0, n)
	for i := range n {
		category := categories[i%len(categories)]
		titleList := titles[category]
		title := titleList[i%len(titleList)]
		if i >= len(categories)*len(titleList) {
			title = fmt.Sprintf("%s %d", title, i/len(categories)+1)
		}

		owner := int(math.Floor(math.Pow(rng.Float64(), 1.5) * float64(len(userIDs))))
		owner = max(0, min(owner, len(userIDs)-1))

		usage := int(powerLawScore(rng) * 400)
		p := domain.Prompt{
			ID:            uuid.NewString(),
			UserID:        userIDs[owner],
			CategoryID:    category,
			Title:         title,
			Status:        domain.PromptStatus(weightedChoice(rng, statuses, statusWeights)),
			IsPublic:      rng.Float64() < 0.9,
			IsFeatured:    rng.Float64() < 0.05,
			UsageCount:    usage,
			FavoriteCount: rng.Intn(usage/10 + 1),
			ShareCount:    rng.Intn(usage/20 + 1),
			CommentCount:  rng.Intn(6),
			ViewCount:     usage*3 + rng.Intn(50),
			CreatedAt:     now.AddDate(0, 0, -rng.Intn(120)),
		}
		if usage > 0 {
			lastUsed := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
			if lastUsed.Before(p.CreatedAt) {
				lastUsed = p.CreatedAt
			}
			p.LastUsedAt = &lastUsed
		}
		prompts = append(prompts, p)
	}
	return prompts
}

func insertPrompts(ctx context.Context, pool *pgxpool.Pool, prompts []domain.Prompt, now time.Time) error {
	const cols = 17
	rows := []string{}
	args := []any{}

	for _, p := range prompts {
		b, err := scoring.ComputeScore(scoring.SignalFromPrompt(p, now))
		if err != nil {
			return fmt.Errorf("score prompt %s: %w", p.ID, err)
		}

		base := len(args)
		placeholders := make([]string, cols)
		for c := range cols {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			p.ID, p.UserID, p.CategoryID, p.Title, string(p.Status), p.IsPublic, p.IsFeatured,
			b.TotalScore, p.AverageRating, p.RatingCount, p.UsageCount, p.FavoriteCount,
			p.ShareCount, p.CommentCount, p.ViewCount, p.LastUsedAt, p.CreatedAt,
		)
	}

	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO prompts (id, user_id, category_id, title, status, is_public, is_featured,
		score, average_rating, rating_count, usage_count, favorite_count, share_count,
		comment_count, view_count, last_used_at, created_at) VALUES ` + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

type ratingRow struct {
	promptID string
	raterID  string
	value    int
}

// buildRatings fills AverageRating and RatingCount on prompts in place.
func buildRatings(rng *rand.Rand, userIDs []string, prompts []domain.Prompt) []ratingRow {
	var out []ratingRow

	for i := range prompts {
		p := &prompts[i]
		raters := rng.Intn(min(len(userIDs), p.UsageCount/5+2))
		if raters == 0 {
			continue
		}
		quality := 2 + rng.Float64()*3

		sum := 0
		for _, idx := range rng.Perm(len(userIDs))[:raters] {
			v := int(math.Round(quality + rng.NormFloat64()*0.7))
			v = max(1, min(v, 5))
			sum += v
			out = append(out, ratingRow{promptID: p.ID, raterID: userIDs[idx], value: v})
		}
		p.RatingCount = raters
		p.AverageRating = float64(sum) / float64(raters)
	}
	return out
}

func insertRatings(ctx context.Context, pool *pgxpool.Pool, ratings []ratingRow) error {
	rows := []string{}
	args := []any{}

	for _, r := range ratings {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, r.promptID, r.raterID, r.value)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO ratings (prompt_id, rater_id, value) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedActivity(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, userIDs []string, prompts []domain.Prompt, n int, now time.Time) error {
	types := []string{
		string(domain.ActivityView), string(domain.ActivityCopy), string(domain.ActivityShare),
		string(domain.ActivityFavorite), string(domain.ActivityReport),
	}
	typeWeights := []float64{0.6, 0.2, 0.08, 0.1, 0.02}

	rows := []string{}
	args := []any{}

	for range n {
		p := prompts[rng.Intn(len(prompts))]
		user := userIDs[rng.Intn(len(userIDs))]
		occurredAt := now.Add(-time.Duration(rng.Intn(60*24)) * time.Hour)
		if occurredAt.Before(p.CreatedAt) {
			occurredAt = p.CreatedAt
		}

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, weightedChoice(rng, types, typeWeights), user, p.ID, occurredAt)
	}

	if len(rows) == 0 {
		return nil
	}

	// counters on prompts are seeded directly, so these rows only feed streaks
	query := "INSERT INTO activity_log (type, user_id, prompt_id, occurred_at) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func powerLawScore(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	raw := math.Pow(u, 2.0)
	if raw < 0.01 {
		raw = 0.01
	}
	return math.Round(raw*100) / 100
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
