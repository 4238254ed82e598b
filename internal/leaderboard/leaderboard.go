package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
)

// minAgeMultiplier floors the trending decay so old prompts keep a tenth of their weight.
const minAgeMultiplier = 0.1

// Global ranks active users with a positive total score by
// (total score, total prompts, average rating), all descending.
// A limit of 0 returns every qualifying user.
func Global(users []domain.UserStanding, limit int) ([]domain.GlobalEntry, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	type ranked struct {
		entry  domain.GlobalEntry
		rating float64
	}

	candidates := make([]ranked, 0, len(users))
	for _, u := range users {
		if err := validateStanding(u); err != nil {
			return nil, err
		}
		if !u.IsActive || u.TotalScore <= 0 {
			continue
		}
		candidates = append(candidates, ranked{
			rating: u.AverageRating,
			entry: domain.GlobalEntry{
				UserID:        u.UserID,
				Username:      u.Username,
				TotalScore:    u.TotalScore,
				TotalPrompts:  u.TotalPrompts,
				AverageRating: round2(u.AverageRating),
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.entry.TotalScore != b.entry.TotalScore {
			return a.entry.TotalScore > b.entry.TotalScore
		}
		if a.entry.TotalPrompts != b.entry.TotalPrompts {
			return a.entry.TotalPrompts > b.entry.TotalPrompts
		}
		return a.rating > b.rating
	})

	candidates = truncate(candidates, limit)
	entries := make([]domain.GlobalEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
		entries[i].Rank = i + 1
	}
	return entries, nil
}

type categoryTotals struct {
	score       int
	usage       int
	prompts     int
	ratingSum   float64
	ratingCount int
}

// Category ranks active users by their active prompts in categoryID.
// Users without such prompts are left out regardless of their global score.
func Category(users []domain.UserStanding, prompts []domain.Prompt, categoryID string, limit int) ([]domain.CategoryEntry, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	totals := make(map[string]*categoryTotals)
	for _, p := range prompts {
		if err := validatePrompt(p); err != nil {
			return nil, err
		}
		if p.CategoryID != categoryID || !p.IsActive() {
			continue
		}
		t, ok := totals[p.UserID]
		if !ok {
			t = &categoryTotals{}
			totals[p.UserID] = t
		}
		t.score += p.Score
		t.usage += p.UsageCount
		t.prompts++
		t.ratingSum += p.AverageRating * float64(p.RatingCount)
		t.ratingCount += p.RatingCount
	}

	type ranked struct {
		entry  domain.CategoryEntry
		rating float64
	}

	candidates := make([]ranked, 0, len(totals))
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		t, ok := totals[u.UserID]
		if !ok || t.prompts == 0 {
			continue
		}
		avg := 0.0
		if t.ratingCount > 0 {
			avg = t.ratingSum / float64(t.ratingCount)
		}
		candidates = append(candidates, ranked{
			rating: avg,
			entry: domain.CategoryEntry{
				UserID:                u.UserID,
				Username:              u.Username,
				CategoryID:            categoryID,
				CategoryScore:         t.score,
				CategoryUsage:         t.usage,
				CategoryAverageRating: round2(avg),
				CategoryPrompts:       t.prompts,
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.entry.CategoryScore != b.entry.CategoryScore {
			return a.entry.CategoryScore > b.entry.CategoryScore
		}
		if a.entry.CategoryUsage != b.entry.CategoryUsage {
			return a.entry.CategoryUsage > b.entry.CategoryUsage
		}
		return a.rating > b.rating
	})

	candidates = truncate(candidates, limit)
	entries := make([]domain.CategoryEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Trending ranks active public prompts created in the last days days by a
// score that decays linearly with age.
func Trending(prompts []domain.Prompt, days int, now time.Time, limit int) ([]domain.TrendingEntry, error) {
	if days <= 0 {
		return nil, domain.NewInvalidInput("days", "must be positive")
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	type scored struct {
		entry domain.TrendingEntry
		raw   float64
	}

	cutoff := now.AddDate(0, 0, -days)
	candidates := make([]scored, 0, len(prompts))
	for _, p := range prompts {
		if err := validatePrompt(p); err != nil {
			return nil, err
		}
		if !p.IsActive() || !p.IsPublic || p.CreatedAt.Before(cutoff) {
			continue
		}
		age := math.Max(0, now.Sub(p.CreatedAt).Hours()/24)
		raw := TrendingScore(p.Score, p.UsageCount, p.AverageRating, age, days)
		candidates = append(candidates, scored{
			raw: raw,
			entry: domain.TrendingEntry{
				PromptID:      p.ID,
				UserID:        p.UserID,
				CategoryID:    p.CategoryID,
				Title:         p.Title,
				Score:         p.Score,
				UsageCount:    p.UsageCount,
				AverageRating: round2(p.AverageRating),
				TrendingScore: int(math.Round(raw)),
				CreatedAt:     p.CreatedAt,
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].raw > candidates[j].raw
	})

	candidates = truncate(candidates, limit)
	entries := make([]domain.TrendingEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// TrendingScore is the unrounded trending value of one prompt at ageInDays.
func TrendingScore(score, usageCount int, averageRating, ageInDays float64, days int) float64 {
	m := AgeMultiplier(ageInDays, days)
	return float64(score)*m + float64(usageCount)*2*m + averageRating*10*m
}

func AgeMultiplier(ageInDays float64, days int) float64 {
	return math.Max(minAgeMultiplier, 1-ageInDays/float64(days))
}

func validateLimit(limit int) error {
	if limit < 0 {
		return domain.NewInvalidInput("limit", "must be non-negative")
	}
	return nil
}

func validateStanding(u domain.UserStanding) error {
	switch {
	case u.TotalScore < 0:
		return domain.NewInvalidInput("user "+u.UserID, "has negative total score")
	case u.TotalPrompts < 0:
		return domain.NewInvalidInput("user "+u.UserID, "has negative prompt count")
	case u.AverageRating < 0 || math.IsNaN(u.AverageRating):
		return domain.NewInvalidInput("user "+u.UserID, "has invalid average rating")
	}
	return nil
}

func validatePrompt(p domain.Prompt) error {
	switch {
	case p.Score < 0:
		return domain.NewInvalidInput("prompt "+p.ID, "has negative score")
	case p.RatingCount < 0 || p.UsageCount < 0:
		return domain.NewInvalidInput("prompt "+p.ID, "has negative counters")
	case p.AverageRating < 0 || math.IsNaN(p.AverageRating):
		return domain.NewInvalidInput("prompt "+p.ID, "has invalid average rating")
	}
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
