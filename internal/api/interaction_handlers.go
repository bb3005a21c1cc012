package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/interaction"
	"github.com/onnwee/quorum/internal/ledger"
	"github.com/onnwee/quorum/internal/middleware"
)

// InteractionHandlers holds dependencies for interaction HTTP handlers.
type InteractionHandlers struct {
	ledger ledger.Ledger
}

// NewInteractionHandlers creates a new InteractionHandlers instance.
func NewInteractionHandlers(l ledger.Ledger) *InteractionHandlers {
	return &InteractionHandlers{ledger: l}
}

// RecordInteraction handles POST /interactions - records a user action on a
// question or answer. The acting user comes from the access token, never the
// request body.
func (h *InteractionHandlers) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	var req interaction.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}
	req.UserID = userID

	rec, err := h.ledger.Record(r.Context(), req)
	if err != nil {
		h.writeRecordError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeRecordError maps ledger errors onto the API error envelope.
func (h *InteractionHandlers) writeRecordError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, interaction.ErrNotAuthorized):
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
	case errors.Is(err, interaction.ErrInvalidAction):
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInvalidAction)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidAction, "Unrecognized interaction action")
	case errors.Is(err, interaction.ErrInvalidTargetType):
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInvalidTargetType)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidTargetType, "Target type must be question or answer")
	case errors.Is(err, interaction.ErrMissingTarget):
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeMissingTarget)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeMissingTarget, "Interaction requires a target id")
	case errors.Is(err, content.ErrNotFound):
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Target content not found")
	default:
		slog.ErrorContext(r.Context(), "failed to record interaction", "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to record interaction")
	}
}
