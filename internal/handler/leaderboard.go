package handler

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxTrendingDays = 90

func meta(cacheHit bool, count int) domain.LeaderboardMeta {
	return domain.LeaderboardMeta{
		CacheHit:    cacheHit,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		TotalCount:  count,
	}
}

// GET /leaderboards/global
func (h *Handler) GetGlobalLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0, h.service.MaxLimit())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	result, err := h.service.GetGlobalLeaderboard(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GlobalLeaderboardResponse{
		Entries:  result.Entries,
		Metadata: meta(result.CacheHit, len(result.Entries)),
	})
}

// GET /leaderboards/categories/{categoryID}
func (h *Handler) GetCategoryLeaderboard(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")
	limit, ok := queryInt(r, "limit", 0, h.service.MaxLimit())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	result, err := h.service.GetCategoryLeaderboard(r.Context(), categoryID, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CategoryLeaderboardResponse{
		CategoryID: categoryID,
		Entries:    result.Entries,
		Metadata:   meta(result.CacheHit, len(result.Entries)),
	})
}

// GET /leaderboards/trending
func (h *Handler) GetTrendingLeaderboard(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(r, "days", 0, maxTrendingDays)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid days parameter")
		return
	}
	limit, ok := queryInt(r, "limit", 0, h.service.MaxLimit())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}

	result, err := h.service.GetTrendingLeaderboard(r.Context(), days, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TrendingLeaderboardResponse{
		Days:     result.Days,
		Entries:  result.Entries,
		Metadata: meta(result.CacheHit, len(result.Entries)),
	})
}
