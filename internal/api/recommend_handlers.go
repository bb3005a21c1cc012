package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/onnwee/quorum/internal/middleware"
	"github.com/onnwee/quorum/internal/recommend"
)

// RecommendHandlers holds dependencies for recommendation HTTP handlers.
type RecommendHandlers struct {
	engine *recommend.Engine
}

// NewRecommendHandlers creates a new RecommendHandlers instance.
func NewRecommendHandlers(engine *recommend.Engine) *RecommendHandlers {
	return &RecommendHandlers{engine: engine}
}

// GetRecommendations handles GET /recommendations - returns one page of
// personalized question recommendations. The user defaults to the
// authenticated caller; a user_id query parameter overrides it, which keeps
// the endpoint usable for anonymous sessions with a known profile.
//
// Query parameters:
//   - user_id: user to recommend for (default: authenticated user)
//   - page: 1-based page number (default: 1)
//   - page_size: items per page (default 10, max 100)
func (h *RecommendHandlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = middleware.GetUserID(r.Context())
	}

	page, ok := parsePositiveInt(r.URL.Query().Get("page"), 1)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Invalid page parameter")
		return
	}
	pageSize, ok := parsePositiveInt(r.URL.Query().Get("page_size"), recommend.DefaultPageSize)
	if !ok {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Invalid page_size parameter")
		return
	}

	result, err := h.engine.Recommend(r.Context(), userID, page, pageSize)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute recommendations",
			"error", err,
			"user_id", userID)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute recommendations")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// parsePositiveInt parses a query parameter that must be a positive integer.
// An empty value yields the default.
func parsePositiveInt(raw string, defaultVal int) (int, bool) {
	if raw == "" {
		return defaultVal, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
