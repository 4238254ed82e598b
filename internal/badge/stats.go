package badge

import (
	"math"
	"sort"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
)

// ComputeUserStats derives badge inputs from a user's prompts and activity log.
// Streak days are the prompt creation dates plus every event date.
func ComputeUserStats(activity domain.UserActivity) (domain.UserStats, error) {
	stats := domain.UserStats{
		TotalPrompts:      len(activity.Prompts),
		CurrentBadgeCount: activity.CurrentBadgeCount,
	}

	var weighted float64
	dates := make([]time.Time, 0, len(activity.Prompts)+len(activity.Events))

	for _, p := range activity.Prompts {
		if p.UsageCount < 0 || p.RatingCount < 0 {
			return domain.UserStats{}, domain.NewInvalidInput("prompt "+p.ID, "has negative counters")
		}
		if p.IsActive() {
			stats.ActivePrompts++
		}
		if p.IsFeatured {
			stats.FeaturedPrompts++
		}
		if p.Score >= TopRankedScore {
			stats.TopRankedPrompts++
		}
		stats.TotalUsage += p.UsageCount
		stats.TotalRatings += p.RatingCount
		weighted += p.AverageRating * float64(p.RatingCount)
		dates = append(dates, p.CreatedAt)
	}

	for _, ev := range activity.Events {
		dates = append(dates, ev.OccurredAt)
	}

	if stats.TotalRatings > 0 {
		stats.AverageRating = math.Round(weighted/float64(stats.TotalRatings)*100) / 100
	}
	stats.LongestStreak = ComputeLongestStreak(dates)
	return stats, nil
}

// ComputeLongestStreak returns the longest run of consecutive calendar days
// (UTC) present in dates. Duplicate days neither extend nor break a run.
func ComputeLongestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = truncateDay(d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		gap := int(days[i].Sub(days[i-1]).Hours() / 24)
		switch {
		case gap == 1:
			current++
		case gap > 1:
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
