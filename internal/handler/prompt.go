package handler

import (
	"encoding/json"
	"net/http"

	"github.com/actuallystonmai/prompt-leaderboard/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GET /prompts/{promptID}/score
func (h *Handler) GetPromptScore(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "promptID")
	adjusted := r.URL.Query().Get("category_adjusted") == "true"

	result, err := h.service.GetScore(r.Context(), promptID, adjusted)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /prompts/{promptID}/ratings
func (h *Handler) RatePrompt(w http.ResponseWriter, r *http.Request) {
	promptID := chi.URLParam(r, "promptID")

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	b, err := h.service.RecordRating(r.Context(), domain.Rating{
		PromptID: promptID,
		RaterID:  req.RaterID,
		Value:    req.Value,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RatingResponse{PromptID: promptID, Breakdown: *b})
}

// POST /activity
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	err := h.service.RecordActivity(r.Context(), domain.ActivityEvent{
		Type:     req.Type,
		UserID:   req.UserID,
		PromptID: req.PromptID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// POST /users/{userID}/badges/check
func (h *Handler) CheckBadges(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	grants, err := h.service.CheckBadges(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BadgeCheckResponse{UserID: userID, Grants: grants})
}

// POST /admin/rescore
func (h *Handler) RescoreAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RescoreAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
