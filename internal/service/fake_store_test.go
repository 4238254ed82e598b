package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
)

// memStore is an in-memory Store used by the service tests.
type memStore struct {
	mu           sync.Mutex
	users        map[string]*domain.UserStanding
	prompts      map[string]*domain.Prompt
	ratings      map[string]map[string]int
	events       []domain.ActivityEvent
	badges       map[string]map[string]domain.BadgeGrant
	scoreWrites  int
	totalWrites  map[string]int
	userListings int

	// failSaves makes the next n SavePromptScore calls fail without writing.
	failSaves int
	// raceBadges are stored by another checker just before InsertBadgeGrants runs.
	raceBadges map[string][]domain.BadgeGrant
}

var errTransient = errors.New("transient db error")

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*domain.UserStanding),
		prompts:     make(map[string]*domain.Prompt),
		ratings:     make(map[string]map[string]int),
		badges:      make(map[string]map[string]domain.BadgeGrant),
		totalWrites: make(map[string]int),
	}
}

func (m *memStore) addUser(u domain.UserStanding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.UserID] = &u
}

func (m *memStore) addPrompt(p domain.Prompt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts[p.ID] = &p
}

func (m *memStore) prompt(id string) domain.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.prompts[id]
}

func (m *memStore) user(id string) domain.UserStanding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *memStore) sortedPrompts(keep func(p *domain.Prompt) bool) []domain.Prompt {
	var out []domain.Prompt
	for _, p := range m.prompts {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) GetPromptByID(_ context.Context, promptID string) (*domain.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prompts[promptID]
	if !ok {
		return nil, domain.ErrPromptNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListPrompts(_ context.Context) ([]domain.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPrompts(func(*domain.Prompt) bool { return true }), nil
}

func (m *memStore) ListPromptsByUser(_ context.Context, userID string) ([]domain.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPrompts(func(p *domain.Prompt) bool { return p.UserID == userID }), nil
}

func (m *memStore) ListPromptsByCategory(_ context.Context, categoryID string) ([]domain.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPrompts(func(p *domain.Prompt) bool { return p.CategoryID == categoryID && p.IsActive() }), nil
}

func (m *memStore) ListPromptsCreatedSince(_ context.Context, since time.Time) ([]domain.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPrompts(func(p *domain.Prompt) bool { return !p.CreatedAt.Before(since) }), nil
}

func (m *memStore) UpdatePromptScore(_ context.Context, promptID string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prompts[promptID]
	if !ok {
		return domain.ErrPromptNotFound
	}
	p.Score = score
	m.scoreWrites++
	return nil
}

func (m *memStore) SavePromptScore(_ context.Context, promptID, userID string, score, badgePoints int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves > 0 {
		m.failSaves--
		return 0, errTransient
	}
	p, ok := m.prompts[promptID]
	if !ok {
		return 0, domain.ErrPromptNotFound
	}
	u, ok := m.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}

	p.Score = score
	m.scoreWrites++

	total := badgePoints
	for _, q := range m.prompts {
		if q.UserID == userID && q.IsActive() {
			total += q.Score
		}
	}
	u.TotalScore = total
	m.totalWrites[userID]++
	return total, nil
}

func (m *memStore) UpsertRating(_ context.Context, r domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prompts[r.PromptID]
	if !ok {
		return domain.ErrPromptNotFound
	}
	if m.ratings[r.PromptID] == nil {
		m.ratings[r.PromptID] = make(map[string]int)
	}
	m.ratings[r.PromptID][r.RaterID] = r.Value

	sum := 0
	for _, v := range m.ratings[r.PromptID] {
		sum += v
	}
	p.RatingCount = len(m.ratings[r.PromptID])
	p.AverageRating = float64(sum) / float64(p.RatingCount)
	return nil
}

func (m *memStore) RecordActivity(_ context.Context, ev domain.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	if ev.PromptID == "" {
		return nil
	}
	p, ok := m.prompts[ev.PromptID]
	if !ok {
		return domain.ErrPromptNotFound
	}
	switch ev.Type {
	case domain.ActivityCopy:
		p.UsageCount++
		at := ev.OccurredAt
		p.LastUsedAt = &at
	case domain.ActivityView:
		p.ViewCount++
	case domain.ActivityShare:
		p.ShareCount++
	case domain.ActivityFavorite:
		p.FavoriteCount++
	}
	return nil
}

func (m *memStore) ListActivityByUser(_ context.Context, userID string) ([]domain.ActivityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ActivityEvent
	for _, ev := range m.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) GetUserStanding(_ context.Context, userID string) (*domain.UserStanding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ListUserStandings(_ context.Context) ([]domain.UserStanding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userListings++
	out := make([]domain.UserStanding, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memStore) SumActivePromptScores(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, p := range m.prompts {
		if p.UserID == userID && p.IsActive() {
			total += p.Score
		}
	}
	return total, nil
}

func (m *memStore) UpdateUserTotalScore(_ context.Context, userID string, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.TotalScore = total
	m.totalWrites[userID]++
	return nil
}

func (m *memStore) ListHeldBadges(_ context.Context, userID string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	held := make(map[string]struct{})
	for id := range m.badges[userID] {
		held[id] = struct{}{}
	}
	return held, nil
}

func (m *memStore) InsertBadgeGrants(_ context.Context, userID string, grants []domain.BadgeGrant) ([]domain.BadgeGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.badges[userID] == nil {
		m.badges[userID] = make(map[string]domain.BadgeGrant)
	}
	for _, g := range m.raceBadges[userID] {
		m.badges[userID][g.BadgeID] = g
	}

	var inserted []domain.BadgeGrant
	for _, g := range grants {
		if _, ok := m.badges[userID][g.BadgeID]; ok {
			continue
		}
		m.badges[userID][g.BadgeID] = g
		inserted = append(inserted, g)
	}
	return inserted, nil
}
