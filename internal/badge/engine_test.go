package badge

import (
	"testing"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return fixedNow }))
}

func badgeIDs(grants []domain.BadgeGrant) []string {
	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.BadgeID)
	}
	return ids
}

func TestRegistry_MatchesCatalogue(t *testing.T) {
	expected := []struct {
		id  string
		typ domain.BadgeType
	}{
		{"first-steps", domain.BadgeSubmission},
		{"getting-started", domain.BadgeSubmission},
		{"prolific-creator", domain.BadgeSubmission},
		{"content-machine", domain.BadgeSubmission},
		{"popular-choice", domain.BadgeUsage},
		{"crowd-favorite", domain.BadgeUsage},
		{"viral-creator", domain.BadgeUsage},
		{"well-received", domain.BadgeScore},
		{"highly-rated", domain.BadgeScore},
		{"excellence", domain.BadgeScore},
		{"perfection", domain.BadgeScore},
		{"consistent", domain.BadgeStreak},
		{"dedicated", domain.BadgeStreak},
		{"trendsetter", domain.BadgeSpecial},
		{"community-favorite", domain.BadgeSpecial},
	}

	defs := Definitions()
	require.Len(t, defs, len(expected))
	for i, e := range expected {
		assert.Equal(t, e.id, defs[i].ID)
		assert.Equal(t, e.typ, defs[i].Type)
		assert.Positive(t, defs[i].Points)
	}
}

func TestCheckEligibility_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		stats    domain.UserStats
		expected []string
	}{
		{
			name:     "nothing yet",
			stats:    domain.UserStats{},
			expected: []string{},
		},
		{
			name:     "first prompt",
			stats:    domain.UserStats{TotalPrompts: 1},
			expected: []string{"first-steps"},
		},
		{
			name:     "five prompts and a hundred uses",
			stats:    domain.UserStats{TotalPrompts: 5, TotalUsage: 100},
			expected: []string{"first-steps", "getting-started", "popular-choice"},
		},
		{
			name:     "rating needs volume",
			stats:    domain.UserStats{AverageRating: 4.9, TotalRatings: 4},
			expected: []string{},
		},
		{
			name:     "highly rated but not excellent",
			stats:    domain.UserStats{AverageRating: 4.4, TotalRatings: 30},
			expected: []string{"well-received", "highly-rated"},
		},
		{
			name:     "perfection",
			stats:    domain.UserStats{AverageRating: 4.8, TotalRatings: 50},
			expected: []string{"well-received", "highly-rated", "excellence", "perfection"},
		},
		{
			name:     "streaks",
			stats:    domain.UserStats{LongestStreak: 30},
			expected: []string{"consistent", "dedicated"},
		},
		{
			name:     "special",
			stats:    domain.UserStats{FeaturedPrompts: 1, TopRankedPrompts: 3},
			expected: []string{"trendsetter", "community-favorite"},
		},
		{
			name:     "usage just below",
			stats:    domain.UserStats{TotalUsage: 1999},
			expected: []string{"popular-choice", "crowd-favorite"},
		},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grants, err := e.CheckEligibility(tt.stats, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, badgeIDs(grants))
		})
	}
}

func TestCheckEligibility_SkipsHeldBadges(t *testing.T) {
	e := newTestEngine()
	stats := domain.UserStats{TotalPrompts: 5}
	held := map[string]struct{}{"first-steps": {}}

	grants, err := e.CheckEligibility(stats, held)
	require.NoError(t, err)
	require.Len(t, grants, 1)

	g := grants[0]
	assert.Equal(t, "getting-started", g.BadgeID)
	assert.Equal(t, domain.BadgeSubmission, g.Type)
	assert.Equal(t, 25, g.Points)
	assert.Equal(t, fixedNow, g.EarnedAt)
	assert.NotEmpty(t, g.ID)
}

func TestCheckEligibility_Idempotent(t *testing.T) {
	e := newTestEngine()
	stats := domain.UserStats{
		TotalPrompts: 30, TotalUsage: 600, AverageRating: 4.6,
		TotalRatings: 40, LongestStreak: 8, FeaturedPrompts: 2,
	}
	held := map[string]struct{}{"consistent": {}}

	first, err := e.CheckEligibility(stats, held)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := e.CheckEligibility(stats, held)
	require.NoError(t, err)
	assert.Equal(t, badgeIDs(first), badgeIDs(again))

	for _, g := range first {
		held[g.BadgeID] = struct{}{}
	}
	second, err := e.CheckEligibility(stats, held)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestCheckEligibility_InvalidStats(t *testing.T) {
	e := newTestEngine()

	_, err := e.CheckEligibility(domain.UserStats{TotalUsage: -1}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.CheckEligibility(domain.UserStats{AverageRating: 5.5}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWithDefinitions(t *testing.T) {
	only := []Definition{{
		ID: "early-bird", Type: domain.BadgeSpecial, Points: 5,
		Criteria: func(s domain.UserStats) bool { return s.TotalPrompts > 0 },
	}}
	e := NewEngine(WithDefinitions(only), WithClock(func() time.Time { return fixedNow }))

	grants, err := e.CheckEligibility(domain.UserStats{TotalPrompts: 200}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"early-bird"}, badgeIDs(grants))
}

func TestPointsFor(t *testing.T) {
	held := map[string]struct{}{
		"first-steps":   {},
		"perfection":    {},
		"retired-badge": {},
	}
	assert.Equal(t, 210, PointsFor(held))
	assert.Zero(t, PointsFor(nil))
}
