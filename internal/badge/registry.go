package badge

import "github.com/actuallystonmai/prompt-leaderboard/internal/domain"

// TopRankedScore is the prompt score at which a prompt counts as top ranked.
const TopRankedScore = 150

type Definition struct {
	ID          string
	Type        domain.BadgeType
	Name        string
	Description string
	Points      int
	Criteria    func(domain.UserStats) bool
}

// Registry order is the evaluation and output order.
var registry = []Definition{
	{
		ID: "first-steps", Type: domain.BadgeSubmission, Points: 10,
		Name: "First Steps", Description: "Submitted your first prompt",
		Criteria: func(s domain.UserStats) bool { return s.TotalPrompts >= 1 },
	},
	{
		ID: "getting-started", Type: domain.BadgeSubmission, Points: 25,
		Name: "Getting Started", Description: "Submitted 5 prompts",
		Criteria: func(s domain.UserStats) bool { return s.TotalPrompts >= 5 },
	},
	{
		ID: "prolific-creator", Type: domain.BadgeSubmission, Points: 50,
		Name: "Prolific Creator", Description: "Submitted 25 prompts",
		Criteria: func(s domain.UserStats) bool { return s.TotalPrompts >= 25 },
	},
	{
		ID: "content-machine", Type: domain.BadgeSubmission, Points: 100,
		Name: "Content Machine", Description: "Submitted 100 prompts",
		Criteria: func(s domain.UserStats) bool { return s.TotalPrompts >= 100 },
	},
	{
		ID: "popular-choice", Type: domain.BadgeUsage, Points: 25,
		Name: "Popular Choice", Description: "Prompts used 100 times",
		Criteria: func(s domain.UserStats) bool { return s.TotalUsage >= 100 },
	},
	{
		ID: "crowd-favorite", Type: domain.BadgeUsage, Points: 50,
		Name: "Crowd Favorite", Description: "Prompts used 500 times",
		Criteria: func(s domain.UserStats) bool { return s.TotalUsage >= 500 },
	},
	{
		ID: "viral-creator", Type: domain.BadgeUsage, Points: 100,
		Name: "Viral Creator", Description: "Prompts used 2000 times",
		Criteria: func(s domain.UserStats) bool { return s.TotalUsage >= 2000 },
	},
	{
		ID: "well-received", Type: domain.BadgeScore, Points: 25,
		Name: "Well Received", Description: "Average rating of 3.5 across 5 ratings",
		Criteria: func(s domain.UserStats) bool { return s.AverageRating >= 3.5 && s.TotalRatings >= 5 },
	},
	{
		ID: "highly-rated", Type: domain.BadgeScore, Points: 50,
		Name: "Highly Rated", Description: "Average rating of 4.0 across 10 ratings",
		Criteria: func(s domain.UserStats) bool { return s.AverageRating >= 4.0 && s.TotalRatings >= 10 },
	},
	{
		ID: "excellence", Type: domain.BadgeScore, Points: 100,
		Name: "Excellence", Description: "Average rating of 4.5 across 25 ratings",
		Criteria: func(s domain.UserStats) bool { return s.AverageRating >= 4.5 && s.TotalRatings >= 25 },
	},
	{
		ID: "perfection", Type: domain.BadgeScore, Points: 200,
		Name: "Perfection", Description: "Average rating of 4.8 across 50 ratings",
		Criteria: func(s domain.UserStats) bool { return s.AverageRating >= 4.8 && s.TotalRatings >= 50 },
	},
	{
		ID: "consistent", Type: domain.BadgeStreak, Points: 25,
		Name: "Consistent", Description: "Active 7 days in a row",
		Criteria: func(s domain.UserStats) bool { return s.LongestStreak >= 7 },
	},
	{
		ID: "dedicated", Type: domain.BadgeStreak, Points: 100,
		Name: "Dedicated", Description: "Active 30 days in a row",
		Criteria: func(s domain.UserStats) bool { return s.LongestStreak >= 30 },
	},
	{
		ID: "trendsetter", Type: domain.BadgeSpecial, Points: 50,
		Name: "Trendsetter", Description: "Had a prompt featured",
		Criteria: func(s domain.UserStats) bool { return s.FeaturedPrompts >= 1 },
	},
	{
		ID: "community-favorite", Type: domain.BadgeSpecial, Points: 100,
		Name: "Community Favorite", Description: "Three prompts scored 150 or more",
		Criteria: func(s domain.UserStats) bool { return s.TopRankedPrompts >= 3 },
	},
}

// Definitions returns a copy of the registry in evaluation order.
func Definitions() []Definition {
	out := make([]Definition, len(registry))
	copy(out, registry)
	return out
}

func Lookup(id string) (Definition, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// PointsFor sums the point rewards of the given badge ids. Unknown ids count zero.
func PointsFor(ids map[string]struct{}) int {
	total := 0
	for id := range ids {
		if d, ok := Lookup(id); ok {
			total += d.Points
		}
	}
	return total
}
