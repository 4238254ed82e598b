package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/badge"
	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/actuallystonmai/prompt-leaderboard/internal/handler"
	"github.com/actuallystonmai/prompt-leaderboard/internal/router"
	"github.com/actuallystonmai/prompt-leaderboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// stubStore answers the handful of reads these tests need.
// Any other Store call panics through the nil embedded interface.
type stubStore struct {
	service.Store
	prompts   map[string]domain.Prompt
	standings []domain.UserStanding
	listErr   error
	ratings   []domain.Rating
}

func (s *stubStore) GetPromptByID(_ context.Context, id string) (*domain.Prompt, error) {
	p, ok := s.prompts[id]
	if !ok {
		return nil, domain.ErrPromptNotFound
	}
	return &p, nil
}

func (s *stubStore) ListUserStandings(context.Context) ([]domain.UserStanding, error) {
	return s.standings, s.listErr
}

func (s *stubStore) ListPromptsCreatedSince(_ context.Context, since time.Time) ([]domain.Prompt, error) {
	var out []domain.Prompt
	for _, p := range s.prompts {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) UpsertRating(_ context.Context, r domain.Rating) error {
	if _, ok := s.prompts[r.PromptID]; !ok {
		return domain.ErrPromptNotFound
	}
	s.ratings = append(s.ratings, r)
	return nil
}

// noCache always misses.
type noCache struct{}

func (noCache) GetGlobal(context.Context, int) ([]domain.GlobalEntry, bool, error) {
	return nil, false, nil
}
func (noCache) SetGlobal(context.Context, int, []domain.GlobalEntry) error { return nil }
func (noCache) GetCategory(context.Context, string, int) ([]domain.CategoryEntry, bool, error) {
	return nil, false, nil
}
func (noCache) SetCategory(context.Context, string, int, []domain.CategoryEntry) error { return nil }
func (noCache) GetTrending(context.Context, int, int) ([]domain.TrendingEntry, bool, error) {
	return nil, false, nil
}
func (noCache) SetTrending(context.Context, int, int, []domain.TrendingEntry) error { return nil }
func (noCache) Invalidate(context.Context) error                                    { return nil }

func newServer(t *testing.T, store *stubStore) http.Handler {
	t.Helper()
	log := zaptest.NewLogger(t)
	svc := service.NewService(store, noCache{}, badge.NewEngine(), log, service.Options{
		Now: func() time.Time { return fixedNow },
	})
	return router.Setup(handler.NewHandler(svc, log))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t, &stubStore{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetPromptScore(t *testing.T) {
	store := &stubStore{prompts: map[string]domain.Prompt{
		"p1": {ID: "p1", UserID: "u1", CategoryID: "code-development", Status: domain.PromptActive, CreatedAt: fixedNow},
	}}
	srv := newServer(t, store)

	t.Run("plain", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/prompts/p1/score", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp service.ScoreResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "p1", resp.PromptID)
		assert.Equal(t, 4, resp.Breakdown.TotalScore)
		assert.Nil(t, resp.AdjustedScore)
	})

	t.Run("category adjusted", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/prompts/p1/score?category_adjusted=true", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp service.ScoreResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotNil(t, resp.AdjustedScore)
		assert.Equal(t, 4, *resp.AdjustedScore)
	})

	t.Run("unknown prompt", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/prompts/nope/score", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "prompt_not_found", decodeError(t, rec).Error)
	})
}

func TestRatePrompt_Validation(t *testing.T) {
	store := &stubStore{prompts: map[string]domain.Prompt{}}
	srv := newServer(t, store)

	tests := []struct {
		name    string
		target  string
		body    string
		status  int
		errCode string
	}{
		{"malformed body", "/prompts/p1/ratings", `{`, http.StatusBadRequest, "invalid_body"},
		{"value too high", "/prompts/p1/ratings", `{"rater_id":"u2","value":9}`, http.StatusBadRequest, "invalid_input"},
		{"missing rater", "/prompts/p1/ratings", `{"value":4}`, http.StatusBadRequest, "invalid_input"},
		{"unknown prompt", "/prompts/p1/ratings", `{"rater_id":"u2","value":4}`, http.StatusNotFound, "prompt_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.errCode, decodeError(t, rec).Error)
		})
	}
	assert.Empty(t, store.ratings)
}

func TestRecordActivity_RejectsUnknownType(t *testing.T) {
	rec := do(t, newServer(t, &stubStore{}), http.MethodPost, "/activity", `{"type":"like","prompt_id":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeError(t, rec).Error)
}

func TestGetGlobalLeaderboard(t *testing.T) {
	store := &stubStore{standings: []domain.UserStanding{
		{UserID: "u1", Username: "ada", IsActive: true, TotalScore: 80},
		{UserID: "u2", Username: "bob", IsActive: true, TotalScore: 120},
		{UserID: "u3", Username: "cy", IsActive: false, TotalScore: 500},
	}}
	srv := newServer(t, store)

	rec := do(t, srv, http.MethodGet, "/leaderboards/global?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.GlobalLeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "u2", resp.Entries[0].UserID)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, 2, resp.Entries[1].Rank)
	assert.False(t, resp.Metadata.CacheHit)
	assert.Equal(t, 2, resp.Metadata.TotalCount)
}

func TestGetGlobalLeaderboard_BadLimit(t *testing.T) {
	srv := newServer(t, &stubStore{})

	for _, q := range []string{"limit=abc", "limit=0", "limit=-1", "limit=101"} {
		t.Run(q, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, "/leaderboards/global?"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_parameter", decodeError(t, rec).Error)
		})
	}
}

func TestGetGlobalLeaderboard_StoreFailure(t *testing.T) {
	srv := newServer(t, &stubStore{listErr: errors.New("connection reset")})

	rec := do(t, srv, http.MethodGet, "/leaderboards/global", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "internal_error", resp.Error)
	assert.NotContains(t, resp.Message, "connection reset")
}

func TestGetGlobalLeaderboard_Timeout(t *testing.T) {
	srv := newServer(t, &stubStore{listErr: context.DeadlineExceeded})

	rec := do(t, srv, http.MethodGet, "/leaderboards/global", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetTrendingLeaderboard(t *testing.T) {
	store := &stubStore{prompts: map[string]domain.Prompt{
		"old": {ID: "old", Status: domain.PromptActive, IsPublic: true, Score: 90, CreatedAt: fixedNow.AddDate(0, 0, -2)},
		"new": {ID: "new", Status: domain.PromptActive, IsPublic: true, Score: 90, CreatedAt: fixedNow},
	}}
	srv := newServer(t, store)

	rec := do(t, srv, http.MethodGet, "/leaderboards/trending?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.TrendingLeaderboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 7, resp.Days)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "new", resp.Entries[0].PromptID)

	rec = do(t, srv, http.MethodGet, "/leaderboards/trending?days=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
